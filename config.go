package camrig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/viper"
)

const (
	settingsName = "camrig"
	envPrefix    = "CAMRIG"
)

type OffsetSettings struct {
	FirstPerson  [3]float32 `mapstructure:"firstPerson"`
	ThirdPerson  [3]float32 `mapstructure:"thirdPerson"`
	OverShoulder [3]float32 `mapstructure:"overShoulder"`
}

type PlayerSettings struct {
	Radius  float32    `mapstructure:"radius"`
	Height  float32    `mapstructure:"height"`
	Speed   float32    `mapstructure:"speed"`
	Gravity float32    `mapstructure:"gravity"`
	Spawn   [3]float32 `mapstructure:"spawn"`
}

// LookSettings are mouse sensitivities in degrees per pixel.
type LookSettings struct {
	MainSensitivity float32 `mapstructure:"mainSensitivity"`
	FreeSensitivity float32 `mapstructure:"freeSensitivity"`
}

type FreeRoamSettings struct {
	BaseSpeed       float32    `mapstructure:"baseSpeed"`
	SpeedMultiplier float32    `mapstructure:"speedMultiplier"`
	Start           [3]float32 `mapstructure:"start"`
}

type WindowSettings struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// Settings is the startup configuration. Nothing in it is re-read while the
// app runs, apart from the keybind file when watching is on.
type Settings struct {
	LogLevel      string           `mapstructure:"logLevel"`
	FixedHz       int              `mapstructure:"fixedHz"`
	MaxFixedSteps int              `mapstructure:"maxFixedSteps"`
	Scheme        string           `mapstructure:"scheme"`
	KeybindsFile  string           `mapstructure:"keybindsFile"`
	WatchKeybinds bool             `mapstructure:"watchKeybinds"`
	Offsets       OffsetSettings   `mapstructure:"offsets"`
	Player        PlayerSettings   `mapstructure:"player"`
	Look          LookSettings     `mapstructure:"look"`
	FreeRoam      FreeRoamSettings `mapstructure:"freeRoam"`
	Window        WindowSettings   `mapstructure:"window"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("fixedHz", DefaultFixedHz)
	v.SetDefault("maxFixedSteps", DefaultMaxFixedSteps)
	v.SetDefault("scheme", SchemeCycle.String())
	v.SetDefault("keybindsFile", "")
	v.SetDefault("watchKeybinds", true)

	v.SetDefault("offsets.firstPerson", []float32{0, 0, 0})
	v.SetDefault("offsets.thirdPerson", []float32{0, 8, 10})
	v.SetDefault("offsets.overShoulder", []float32{6, 5, 3})

	v.SetDefault("player.radius", 0.5)
	v.SetDefault("player.height", 1.0)
	v.SetDefault("player.speed", 4.0)
	v.SetDefault("player.gravity", 9.81)
	v.SetDefault("player.spawn", []float32{0, 0.5, 0})

	v.SetDefault("look.mainSensitivity", 0.1)
	v.SetDefault("look.freeSensitivity", 0.1)

	v.SetDefault("freeRoam.baseSpeed", 4.0)
	v.SetDefault("freeRoam.speedMultiplier", 1.0)
	v.SetDefault("freeRoam.start", []float32{0, 8, 10})

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "camrig")
}

// LoadSettings reads camrig.yaml from dir on top of the built-in defaults.
// A missing file is not an error. CAMRIG_* environment variables override
// both, with dots replaced by underscores (CAMRIG_FREEROAM_BASESPEED).
func LoadSettings(dir string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir != "" {
		v.SetConfigName(settingsName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultSettings returns the built-in defaults without touching the
// filesystem or the environment.
func DefaultSettings() *Settings {
	v := viper.New()
	setDefaults(v)
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		panic(fmt.Sprintf("default settings: %v", err))
	}
	return &s
}

func (s *Settings) validate() error {
	if s.FixedHz <= 0 {
		return fmt.Errorf("fixedHz must be positive, got %d", s.FixedHz)
	}
	if _, err := ParseTransitionScheme(s.Scheme); err != nil {
		return fmt.Errorf("scheme: %w", err)
	}
	if s.Player.Radius <= 0 || s.Player.Height <= 0 {
		return fmt.Errorf("player capsule must have positive radius and height, got %v/%v",
			s.Player.Radius, s.Player.Height)
	}
	return nil
}

func (s *Settings) TransitionScheme() TransitionScheme {
	scheme, _ := ParseTransitionScheme(s.Scheme)
	return scheme
}

func (s *Settings) CameraOffsets() CameraOffsets {
	return CameraOffsets{
		FirstPerson:  mgl32.Vec3(s.Offsets.FirstPerson),
		ThirdPerson:  mgl32.Vec3(s.Offsets.ThirdPerson),
		OverShoulder: mgl32.Vec3(s.Offsets.OverShoulder),
	}
}

// Modules returns the engine and camera modules configured by s, in install
// order. Window and input backends are left to the caller.
func (s *Settings) Modules() []Module {
	return []Module{
		TimeModule{FixedHz: s.FixedHz, MaxFixedSteps: s.MaxFixedSteps},
		KeybindModule{Path: s.KeybindsFile, Watch: s.WatchKeybinds},
		PlayerBodyModule{
			Spawn:   mgl32.Vec3(s.Player.Spawn),
			Radius:  s.Player.Radius,
			Height:  s.Player.Height,
			Speed:   s.Player.Speed,
			Gravity: s.Player.Gravity,
		},
		CameraRigModule{
			Scheme:          s.TransitionScheme(),
			Offsets:         s.CameraOffsets(),
			MainSensitivity: s.Look.MainSensitivity,
			FreeSensitivity: s.Look.FreeSensitivity,
			BaseSpeed:       s.FreeRoam.BaseSpeed,
			SpeedMultiplier: s.FreeRoam.SpeedMultiplier,
			FreeStart:       mgl32.Vec3(s.FreeRoam.Start),
		},
	}
}
