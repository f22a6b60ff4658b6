package camrig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockModule struct {
	installed bool
	order     *[]string
	name      string
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	assert.Len(t, builder.modules, 1)
	assert.False(t, mockModule.installed, "Install must wait for Build")
}

func TestAppBuilder_Build_WithMultipleModules(t *testing.T) {
	var order []string
	module1 := &MockModule{order: &order, name: "first"}
	module2 := &MockModule{order: &order, name: "second"}

	NewAppBuilder().
		UseModule(module1).
		UseModule(module2).
		Build()

	assert.True(t, module1.installed)
	assert.True(t, module2.installed)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestAppBuilder_UseStage(t *testing.T) {
	custom := Stage{Name: "Custom", UpdateType: DynamicUpdate}
	app := NewAppBuilder().
		UseStage(custom, AfterStage(Update)).
		Build()

	names := make([]string, 0, len(app.stages))
	for _, s := range app.stages {
		names = append(names, s.Name)
	}
	require.Contains(t, names, "Custom")
	idx := 0
	for i, n := range names {
		if n == "Custom" {
			idx = i
		}
	}
	assert.Equal(t, "Update", names[idx-1])
}

func TestAppBuilder_UseSettings(t *testing.T) {
	app := NewAppBuilder().
		UseModule(InputModule{}).
		UseSettings(DefaultSettings()).
		Build()

	_, ok := Resource[ViewModes](app)
	assert.True(t, ok)
	_, ok = Resource[Keybinds](app)
	assert.True(t, ok)
	_, ok = Resource[PlayerWorld](app)
	assert.True(t, ok)
}
