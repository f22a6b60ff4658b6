package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gekko3d/camrig"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type options struct {
	configDir string
	headless  bool
	frames    int
	presetIn  string
	presetOut string
}

func main() {
	var opts options
	flag.StringVar(&opts.configDir, "config", ".", "directory holding camrig.yaml")
	flag.BoolVar(&opts.headless, "headless", false, "run without a window; input stays idle")
	flag.IntVar(&opts.frames, "frames", 0, "stop after this many frames (0 runs until closed)")
	flag.StringVar(&opts.presetIn, "preset", "", "rig preset to apply at startup")
	flag.StringVar(&opts.presetOut, "save-preset", "", "file the rig report keeps the latest preset in")
	flag.Parse()

	os.Exit(run(opts))
}

// run returns the process exit code so that every deferred cleanup runs
// before main exits.
func run(opts options) int {
	boot := camrig.NewDefaultLogger("camrig", false)

	settings, err := camrig.LoadSettings(opts.configDir)
	if err != nil {
		boot.Errorf("failed to load config: %v", err)
		return 1
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	logger := camrig.NewLogger(out, "camrig", level).With("run", uuid.NewString())

	builder := camrig.NewAppBuilder().
		UseModule(camrig.LoggingModule{Level: settings.LogLevel, Logger: logger})

	if opts.headless {
		builder.UseModule(camrig.InputModule{Source: camrig.NewScriptedInputSource()})
	} else {
		builder.UseModule(
			camrig.WindowModule{
				Width:  settings.Window.Width,
				Height: settings.Window.Height,
				Title:  settings.Window.Title,
			},
			camrig.WindowInputModule{},
		)
	}

	app := builder.
		UseSettings(settings).
		UseModule(camrig.RigReportModule{Interval: time.Second, SavePath: opts.presetOut}).
		Build()

	if ws, ok := camrig.Resource[camrig.WindowState](app); ok {
		defer ws.Destroy()
	}
	if kw, ok := camrig.Resource[camrig.KeybindWatcher](app); ok {
		defer func() {
			if err := kw.Close(); err != nil {
				logger.Warnf("close keybind watcher: %v", err)
			}
		}()
	}

	if opts.presetIn != "" {
		modes, _ := camrig.Resource[camrig.ViewModes](app)
		n, err := camrig.LoadRigPreset(app.Commands(), modes, opts.presetIn)
		if err != nil {
			logger.Errorf("failed to load preset: %v", err)
			return 1
		}
		logger.Infof("applied %d poses from %s", n, opts.presetIn)
	}

	if opts.frames > 0 {
		remaining := opts.frames
		app.UseSystem(
			camrig.System(func(cmd *camrig.Commands) {
				remaining--
				if remaining <= 0 {
					cmd.Quit()
				}
			}).InStage(camrig.Finale),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("run: %v", err)
		return 1
	}
	logger.Infof("stopped")
	return 0
}
