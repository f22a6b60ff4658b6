package camrig

import (
	"fmt"
	"strings"
)

type PointOfView int

const (
	FirstPerson PointOfView = iota
	ThirdPerson
	OverShoulder

	pointOfViewCount
)

var pointOfViewNames = [pointOfViewCount]string{
	FirstPerson:  "first_person",
	ThirdPerson:  "third_person",
	OverShoulder: "over_shoulder",
}

// Next cycles FirstPerson -> ThirdPerson -> OverShoulder -> FirstPerson.
func (p PointOfView) Next() PointOfView {
	return (p + 1) % pointOfViewCount
}

func (p PointOfView) String() string {
	if p < 0 || p >= pointOfViewCount {
		return fmt.Sprintf("PointOfView(%d)", int(p))
	}
	return pointOfViewNames[p]
}

func ParsePointOfView(s string) (PointOfView, error) {
	for p, name := range pointOfViewNames {
		if strings.EqualFold(name, s) {
			return PointOfView(p), nil
		}
	}
	return FirstPerson, fmt.Errorf("unknown point of view %q", s)
}

type FreeRoamMode int

const (
	FreeRoamOff FreeRoamMode = iota
	FreeRoamFree
	FreeRoamLocked
	FreeRoamFollowBody
	FreeRoamFollowHead

	freeRoamModeCount
)

var freeRoamModeNames = [freeRoamModeCount]string{
	FreeRoamOff:        "off",
	FreeRoamFree:       "free",
	FreeRoamLocked:     "locked",
	FreeRoamFollowBody: "follow_body",
	FreeRoamFollowHead: "follow_head",
}

// Next cycles Off -> Free -> Locked -> FollowBody -> FollowHead -> Off.
func (m FreeRoamMode) Next() FreeRoamMode {
	return (m + 1) % freeRoamModeCount
}

func (m FreeRoamMode) String() string {
	if m < 0 || m >= freeRoamModeCount {
		return fmt.Sprintf("FreeRoamMode(%d)", int(m))
	}
	return freeRoamModeNames[m]
}

func ParseFreeRoamMode(s string) (FreeRoamMode, error) {
	for m, name := range freeRoamModeNames {
		if strings.EqualFold(name, s) {
			return FreeRoamMode(m), nil
		}
	}
	return FreeRoamOff, fmt.Errorf("unknown free-roam mode %q", s)
}

// SpeedTier selects one of the fixed free-roam speed scales.
type SpeedTier int

const (
	SpeedExtraSlow SpeedTier = iota + 1
	SpeedSlow
	SpeedMedium
	SpeedFast
	SpeedExtraFast
	SpeedInsane
)

var speedTierScales = map[SpeedTier]float32{
	SpeedExtraSlow: 0.5,
	SpeedSlow:      1.0,
	SpeedMedium:    1.5,
	SpeedFast:      2.0,
	SpeedExtraFast: 3.0,
	SpeedInsane:    5.0,
}

func (t SpeedTier) Scale() (float32, bool) {
	s, ok := speedTierScales[t]
	return s, ok
}

func tierForScale(scale float32) (SpeedTier, bool) {
	for t, s := range speedTierScales {
		if s == scale {
			return t, true
		}
	}
	return 0, false
}

// ModeState is the full view-mode state. Both axes are independent: every
// combination is valid.
type ModeState struct {
	PointOfView PointOfView
	FreeRoam    FreeRoamMode
	SpeedScale  float32
}

func DefaultModeState() ModeState {
	return ModeState{
		PointOfView: FirstPerson,
		FreeRoam:    FreeRoamOff,
		SpeedScale:  1.0,
	}
}

func (s ModeState) String() string {
	return fmt.Sprintf("pov=%s freeroam=%s speed=%.1f", s.PointOfView, s.FreeRoam, s.SpeedScale)
}

// TransitionScheme picks how free-roam keys move between modes.
type TransitionScheme int

const (
	// SchemeCycle: one toggle key walks the Off..FollowHead cycle.
	SchemeCycle TransitionScheme = iota
	// SchemeDirect: dedicated keys jump straight to a mode; the toggle key
	// still cycles.
	SchemeDirect
)

func (s TransitionScheme) String() string {
	if s == SchemeDirect {
		return "direct"
	}
	return "cycle"
}

func ParseTransitionScheme(s string) (TransitionScheme, error) {
	switch strings.ToLower(s) {
	case "", "cycle":
		return SchemeCycle, nil
	case "direct":
		return SchemeDirect, nil
	}
	return SchemeCycle, fmt.Errorf("unknown transition scheme %q", s)
}

// FreeRoamTriggers are the free-roam related key edges seen in one frame.
type FreeRoamTriggers struct {
	Toggle bool
	// Jump is the mode a dedicated key asked for, if any.
	Jump    FreeRoamMode
	HasJump bool
}

// ViewModes owns the authoritative ModeState. Systems read Snapshot, which
// stays fixed for the whole frame; changes are staged and become visible
// after Commit.
type ViewModes struct {
	Scheme TransitionScheme

	current ModeState
	next    ModeState
	log     Logger
}

func NewViewModes(scheme TransitionScheme) *ViewModes {
	return &ViewModes{
		Scheme:  scheme,
		current: DefaultModeState(),
		next:    DefaultModeState(),
		log:     NewNopLogger(),
	}
}

func (v *ViewModes) Snapshot() ModeState {
	return v.current
}

// Staged returns the state that Commit will publish.
func (v *ViewModes) Staged() ModeState {
	return v.next
}

// AdvancePointOfView cycles the POV when the switch key was just pressed.
func (v *ViewModes) AdvancePointOfView(justPressed bool) {
	if !justPressed {
		return
	}
	v.next.PointOfView = v.next.PointOfView.Next()
}

// AdvanceFreeRoam applies this frame's free-roam triggers. A dedicated jump
// wins over the toggle when both fire in the same frame.
func (v *ViewModes) AdvanceFreeRoam(t FreeRoamTriggers) {
	if v.Scheme == SchemeDirect && t.HasJump {
		v.next.FreeRoam = t.Jump
		return
	}
	if t.Toggle {
		v.next.FreeRoam = v.next.FreeRoam.Next()
	}
}

// SelectSpeedTier sets the speed scale, but only while the frame snapshot
// is in Free mode. Anything else is a no-op.
func (v *ViewModes) SelectSpeedTier(tier SpeedTier) bool {
	if v.current.FreeRoam != FreeRoamFree {
		return false
	}
	scale, ok := tier.Scale()
	if !ok {
		return false
	}
	v.next.SpeedScale = scale
	return true
}

// Commit publishes staged changes. It reports whether anything changed.
func (v *ViewModes) Commit() bool {
	prev := v.current
	v.current = v.next
	if prev == v.current {
		return false
	}

	if prev.PointOfView != v.current.PointOfView {
		recordModeTransition("pov", v.current.PointOfView.String())
	}
	if prev.FreeRoam != v.current.FreeRoam {
		recordModeTransition("freeroam", v.current.FreeRoam.String())
	}
	if prev.SpeedScale != v.current.SpeedScale {
		recordModeTransition("speed", fmt.Sprintf("%.1f", v.current.SpeedScale))
	}
	v.log.Debugf("view mode %s -> %s", prev, v.current)
	return true
}

// Restore stages a whole state, as if every key had been pressed at once.
// It is published by the next Commit.
func (v *ViewModes) Restore(s ModeState) {
	if _, ok := tierForScale(s.SpeedScale); !ok {
		s.SpeedScale = v.next.SpeedScale
	}
	v.next = s
}

// Reset restores the startup state.
func (v *ViewModes) Reset() {
	v.current = DefaultModeState()
	v.next = v.current
}
