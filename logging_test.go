package camrig

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestDefaultLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "rig", zerolog.InfoLevel)

	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Warnf("careful")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "shown 2", lines[0]["message"])
	assert.Equal(t, "rig", lines[0]["component"])
	assert.Equal(t, "warn", lines[1]["level"])

	assert.False(t, l.DebugEnabled())
	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("now visible")
	assert.Len(t, decodeLines(t, &buf), 3)
}

func TestDefaultLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "", zerolog.DebugLevel).With("run", "abc")
	l.Errorf("boom")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "abc", lines[0]["run"])
	assert.Equal(t, "error", lines[0]["level"])
}

func TestLoggingModule_InstallsLogger(t *testing.T) {
	var buf bytes.Buffer
	app := NewApp().UseModules(LoggingModule{
		Level:  "debug",
		Logger: NewLogger(&buf, "test", zerolog.InfoLevel),
	})

	log := app.Logger()
	assert.True(t, log.DebugEnabled())
	log.Debugf("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestApp_LoggerFallsBackToNop(t *testing.T) {
	var app *App
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, NewApp().Logger())
	assert.False(t, NewApp().Logger().DebugEnabled())
}

func TestViewModes_CommitLogsTransitions(t *testing.T) {
	var buf bytes.Buffer
	app := NewApp().UseModules(
		LoggingModule{Level: "debug", Logger: NewLogger(&buf, "", zerolog.DebugLevel)},
		DefaultCameraRigModule(),
	)
	modes, _ := Resource[ViewModes](app)

	modes.AdvancePointOfView(true)
	modes.Commit()
	assert.Contains(t, buf.String(), "pov=third_person")
}
