package camrig

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/gekko3d/camrig"

var (
	instrumentsOnce sync.Once
	modeTransitions metric.Int64Counter
	fixedTicks      metric.Int64Counter
)

// meter comes from the global provider, which is a no-op until the host
// installs a real one.
func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

func initInstruments() {
	instrumentsOnce.Do(func() {
		m := meter()
		fallback := noop.NewMeterProvider().Meter(instrumentationName)

		var err error
		modeTransitions, err = m.Int64Counter(
			"camrig.mode.transitions",
			metric.WithDescription("View mode changes committed, by axis and target mode"),
		)
		if err != nil {
			modeTransitions, _ = fallback.Int64Counter("camrig.mode.transitions")
		}

		fixedTicks, err = m.Int64Counter(
			"camrig.fixed.ticks",
			metric.WithDescription("Fixed simulation ticks executed"),
		)
		if err != nil {
			fixedTicks, _ = fallback.Int64Counter("camrig.fixed.ticks")
		}
	})
}

func recordModeTransition(axis, to string) {
	initInstruments()
	modeTransitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("axis", axis),
		attribute.String("to", to),
	))
}

func recordFixedTicks(n int) {
	if n <= 0 {
		return
	}
	initInstruments()
	fixedTicks.Add(context.Background(), int64(n))
}
