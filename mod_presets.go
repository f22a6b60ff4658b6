package camrig

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// PoseData is one rig entity's saved pose. Entities are matched by role,
// not by id, so a preset can be applied to a freshly built app.
type PoseData struct {
	Role     string     `json:"role"`
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Quat `json:"rotation"`
	Active   *bool      `json:"active,omitempty"`
	Yaw      *float32   `json:"yaw,omitempty"`
	Pitch    *float32   `json:"pitch,omitempty"`
}

type RigPreset struct {
	PointOfView string     `json:"pov"`
	FreeRoam    string     `json:"free_roam"`
	SpeedScale  float32    `json:"speed_scale"`
	Poses       []PoseData `json:"poses"`
}

const (
	rolePlayer     = "player"
	roleMainCamera = "main_camera"
	roleFreeCamera = "free_camera"
)

// CaptureRigPreset records the committed modes and the pose of every rig
// entity that exists.
func CaptureRigPreset(cmd *Commands, modes *ViewModes) RigPreset {
	state := modes.Snapshot()
	preset := RigPreset{
		PointOfView: state.PointOfView.String(),
		FreeRoam:    state.FreeRoam.String(),
		SpeedScale:  state.SpeedScale,
	}

	if _, tr, ok := MakeQuery1[TransformComponent](cmd).WithTypes(Player{}).Single(); ok {
		preset.Poses = append(preset.Poses, PoseData{
			Role:     rolePlayer,
			Position: tr.Position,
			Rotation: tr.Rotation,
		})
	}

	cameras := []struct {
		role   string
		marker any
	}{
		{roleMainCamera, MainCamera{}},
		{roleFreeCamera, FreeCamera{}},
	}
	for _, c := range cameras {
		_, tr, cam, look, ok := MakeQuery3[TransformComponent, CameraComponent, LookAccumulator](cmd).
			WithTypes(c.marker).
			Single()
		if !ok {
			continue
		}
		active, yaw, pitch := cam.Active, look.Yaw, look.Pitch
		preset.Poses = append(preset.Poses, PoseData{
			Role:     c.role,
			Position: tr.Position,
			Rotation: tr.Rotation,
			Active:   &active,
			Yaw:      &yaw,
			Pitch:    &pitch,
		})
	}
	return preset
}

func SaveRigPreset(cmd *Commands, modes *ViewModes, filename string) error {
	bytes, err := json.MarshalIndent(CaptureRigPreset(cmd, modes), "", "  ")
	if err != nil {
		return fmt.Errorf("encode rig preset: %w", err)
	}
	if err := os.WriteFile(filename, bytes, 0644); err != nil {
		return fmt.Errorf("save rig preset: %w", err)
	}
	return nil
}

// LoadRigPreset applies a saved preset to the rig entities of cmd's app.
// Poses are written in place; the mode state is staged and becomes visible
// after the next commit. It returns how many poses were applied.
func LoadRigPreset(cmd *Commands, modes *ViewModes, filename string) (int, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return 0, fmt.Errorf("read rig preset: %w", err)
	}

	var preset RigPreset
	if err := json.Unmarshal(bytes, &preset); err != nil {
		return 0, fmt.Errorf("decode rig preset %s: %w", filename, err)
	}
	return ApplyRigPreset(cmd, modes, preset)
}

func ApplyRigPreset(cmd *Commands, modes *ViewModes, preset RigPreset) (int, error) {
	pov, err := ParsePointOfView(preset.PointOfView)
	if err != nil {
		return 0, fmt.Errorf("apply rig preset: %w", err)
	}
	freeRoam, err := ParseFreeRoamMode(preset.FreeRoam)
	if err != nil {
		return 0, fmt.Errorf("apply rig preset: %w", err)
	}

	applied := 0
	for _, pose := range preset.Poses {
		var marker any
		switch pose.Role {
		case rolePlayer:
			marker = Player{}
		case roleMainCamera:
			marker = MainCamera{}
		case roleFreeCamera:
			marker = FreeCamera{}
		default:
			return applied, fmt.Errorf("unknown rig role %q", pose.Role)
		}

		eid, tr, ok := MakeQuery1[TransformComponent](cmd).WithTypes(marker).Single()
		if !ok {
			continue
		}
		tr.Position = pose.Position
		tr.Rotation = pose.Rotation

		if pose.Active != nil {
			MakeQuery1[CameraComponent](cmd).Map(func(id EntityId, cam *CameraComponent) bool {
				if id == eid {
					cam.Active = *pose.Active
					return false
				}
				return true
			})
		}
		if pose.Yaw != nil || pose.Pitch != nil {
			MakeQuery1[LookAccumulator](cmd).Map(func(id EntityId, look *LookAccumulator) bool {
				if id != eid {
					return true
				}
				if pose.Yaw != nil {
					look.Yaw = *pose.Yaw
				}
				if pose.Pitch != nil {
					look.Pitch = mgl32.Clamp(*pose.Pitch, -MaxPitch, MaxPitch)
				}
				return false
			})
		}
		applied++
	}

	modes.Restore(ModeState{
		PointOfView: pov,
		FreeRoam:    freeRoam,
		SpeedScale:  preset.SpeedScale,
	})
	return applied, nil
}

// ActivePose returns the pose of whichever camera is rendering.
func (p RigPreset) ActivePose() (PoseData, bool) {
	for _, pose := range p.Poses {
		if pose.Active != nil && *pose.Active {
			return pose, true
		}
	}
	return PoseData{}, false
}

// RigReportModule logs the active camera pose and the committed modes at a
// fixed wall-clock interval. With SavePath set, the last report is also
// written there as a preset every time it is logged.
type RigReportModule struct {
	Interval time.Duration
	SavePath string
}

type rigReport struct {
	interval time.Duration
	since    time.Duration
	savePath string
	reports  int
}

func (mod RigReportModule) Install(app *App, cmd *Commands) {
	interval := mod.Interval
	if interval <= 0 {
		interval = time.Second
	}
	cmd.AddResources(&rigReport{interval: interval, savePath: mod.SavePath})
	app.UseSystem(
		System(rigReportSystem).
			InStage(Finale),
	)
}

func rigReportSystem(cmd *Commands, t *Time, modes *ViewModes, r *rigReport) {
	r.since += t.Dt
	if r.since < r.interval {
		return
	}
	r.since %= r.interval
	r.reports++

	log := cmd.Logger()
	preset := CaptureRigPreset(cmd, modes)
	if pose, ok := preset.ActivePose(); ok {
		log.Infof("%s at (%.2f, %.2f, %.2f) pov=%s freeroam=%s speed=%.1f",
			pose.Role, pose.Position.X(), pose.Position.Y(), pose.Position.Z(),
			preset.PointOfView, preset.FreeRoam, preset.SpeedScale)
	} else {
		log.Warnf("no active camera")
	}

	if r.savePath == "" {
		return
	}
	if err := SaveRigPreset(cmd, modes, r.savePath); err != nil {
		log.Errorf("save rig preset: %v", err)
	}
}
