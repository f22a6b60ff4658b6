package camrig

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := NewApp()

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")

	got, ok := Resource[MockResource2](app)
	require.True(t, ok)
	assert.Equal(t, "Resource2", got.name)
}

func TestApp_addResources_RequiresPointer(t *testing.T) {
	app := NewApp()
	assert.Panics(t, func() {
		app.addResources(MockResource1{name: "value"})
	})
}

func TestApp_callSystem_InjectsResourcesAndCommands(t *testing.T) {
	app := NewApp()
	app.addResources(NewMockResource1("r1"))

	var seen string
	var gotCmd bool
	app.callSystem(func(r *MockResource1, cmd *Commands) {
		seen = r.name
		gotCmd = cmd != nil
	})

	assert.Equal(t, "r1", seen)
	assert.True(t, gotCmd)
}

func TestApp_callSystem_PanicsOnMissingResource(t *testing.T) {
	app := NewApp()
	assert.Panics(t, func() {
		app.callSystem(func(r *MockResource2) {})
	})
}

func TestApp_UseSystem_UnknownStagePanics(t *testing.T) {
	app := NewApp()
	assert.Panics(t, func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "Nope"}))
	})
}

func TestApp_Step_RunsStagesInOrder(t *testing.T) {
	app := NewApp()
	var order []string
	for _, stage := range defaultStages {
		name := stage.Name
		app.UseSystem(System(func() { order = append(order, name) }).InStage(stage))
	}

	// No Time resource: the fixed block runs once.
	app.Step()

	assert.Equal(t, []string{
		"Prelude", "PreUpdate", "Update", "FixedSimulate", "FixedPostSimulate", "PostUpdate", "Finale",
	}, order)
}

func TestApp_Step_FixedTicksFollowAccumulator(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	app := NewApp().UseModules(TimeModule{FixedHz: 10, MaxFixedSteps: 4, Now: clock.Now})

	fixed, dynamic := 0, 0
	app.UseSystem(System(func() { fixed++ }).InStage(FixedSimulate))
	app.UseSystem(System(func() { dynamic++ }).InStage(Update))

	clock.Advance(50 * time.Millisecond)
	app.Step()
	assert.Equal(t, 0, fixed, "half a quantum runs no fixed tick")
	assert.Equal(t, 1, dynamic)

	clock.Advance(260 * time.Millisecond)
	app.Step()
	assert.Equal(t, 3, fixed)
	assert.Equal(t, 2, dynamic)

	// Far past MaxFixedSteps: capped, and the backlog is dropped.
	clock.Advance(2 * time.Second)
	app.Step()
	assert.Equal(t, 7, fixed)

	clock.Advance(50 * time.Millisecond)
	app.Step()
	assert.LessOrEqual(t, fixed, 8)

	tm, ok := Resource[Time](app)
	require.True(t, ok)
	assert.Equal(t, uint64(fixed), tm.FixedTicks)
}

func TestApp_FlushCommands_AppliedBetweenStages(t *testing.T) {
	app := NewApp()
	var eid EntityId
	var visibleInUpdate bool

	app.UseSystem(System(func(cmd *Commands) {
		eid = cmd.AddEntity(NewTransform([3]float32{1, 2, 3}))
	}).InStage(PreUpdate))
	app.UseSystem(System(func(cmd *Commands) {
		visibleInUpdate = cmd.app.ecs.hasEntity(eid)
	}).InStage(Update))

	app.Step()
	assert.True(t, visibleInUpdate)
}

func TestApp_Run_StopsOnQuit(t *testing.T) {
	app := NewApp()
	frames := 0
	app.UseSystem(System(func(cmd *Commands) {
		frames++
		if frames == 3 {
			cmd.Quit()
		}
	}))

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 3, frames)
}

func TestApp_Run_StopsOnCancel(t *testing.T) {
	app := NewApp()
	ctx, cancel := context.WithCancel(context.Background())
	frames := 0
	app.UseSystem(System(func() {
		frames++
		if frames == 2 {
			cancel()
		}
	}))

	err := app.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, frames)
}

func TestApp_StateHooksRunOnTransition(t *testing.T) {
	app := NewApp()
	var calls []string
	app.UseSystem(System(func() { calls = append(calls, "exit off") }).InState(OnExit(FreeRoamOff)))
	app.UseSystem(System(func() { calls = append(calls, "enter free") }).InState(OnEnter(FreeRoamFree)))
	app.UseSystem(System(func() { calls = append(calls, "enter locked") }).InState(OnEnter(FreeRoamLocked)))

	app.Step()
	assert.Empty(t, calls, "hooks never run as frame systems")

	app.changeState(FreeRoamOff, FreeRoamFree)
	assert.Equal(t, []string{"exit off", "enter free"}, calls)

	app.changeState(FreeRoamFree, FreeRoamFree)
	assert.Len(t, calls, 2, "no transition, no hooks")
}

func TestApp_StateHooksFollowCommittedMode(t *testing.T) {
	app := NewApp().UseModules(DefaultCameraRigModule())
	modes, _ := Resource[ViewModes](app)
	entered := 0
	app.UseSystem(System(func(modes *ViewModes) {
		assert.Equal(t, FreeRoamFree, modes.Snapshot().FreeRoam, "hooks see the committed mode")
		entered++
	}).InState(OnEnter(FreeRoamFree)))

	modes.AdvanceFreeRoam(FreeRoamTriggers{Toggle: true})
	app.Step()
	assert.Equal(t, 1, entered)
	app.Step()
	assert.Equal(t, 1, entered)
}

func TestApp_UseSystem_UnknownStatePanics(t *testing.T) {
	app := NewApp()
	assert.Panics(t, func() {
		app.UseSystem(System(func() {}).InState(OnEnter(FreeRoamMode(42))))
	})
}
