package camrig

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	ecs       *Ecs
	quit      bool

	// Enter/exit hooks of free-roam modes
	stateSystems map[stateScheduleBuilder][]systemFn

	// Command Buffering
	pendingAdditions    []pendingAdd
	pendingRemovals     []EntityId
	pendingCompAdds     []pendingComp
	pendingCompRemovals []pendingComp
}

type pendingAdd struct {
	eid        EntityId
	components []any
}

type pendingComp struct {
	eid        EntityId
	components []any
}

// NewApp creates an app with the default stage list and no modules.
func NewApp() *App {
	ecs := MakeEcs()
	app := &App{
		systems:      make(map[string][]systemFn),
		stateSystems: make(map[stateScheduleBuilder][]systemFn),
		resources:    make(map[reflect.Type]any),
		ecs:          &ecs,
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = nil
	}
	return app
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	app.FlushCommands()
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

// Step runs one rendered frame: every dynamic stage once and the fixed stage
// block as many times as the Time accumulator allows.
func (app *App) Step() {
	fixedTicks := -1
	for i := 0; i < len(app.stages); {
		stage := app.stages[i]
		if stage.UpdateType == DynamicUpdate {
			app.runStage(stage)
			i++
			continue
		}

		j := i
		for j < len(app.stages) && app.stages[j].UpdateType == FixedUpdate {
			j++
		}
		if fixedTicks < 0 {
			fixedTicks = app.fixedTicksThisFrame()
		}
		for n := 0; n < fixedTicks; n++ {
			for _, fixed := range app.stages[i:j] {
				app.runStage(fixed)
			}
		}
		i = j
	}
}

// Run steps the app until ctx is cancelled or a system calls Commands.Quit.
func (app *App) Run(ctx context.Context) error {
	app.Logger().Infof("running with %d stages", len(app.stages))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		app.Step()
		if app.quit {
			return nil
		}
	}
}

// changeState runs the exit hooks of from, then the enter hooks of to.
// Structural changes they queue are flushed with the calling stage.
func (app *App) changeState(from, to FreeRoamMode) {
	if from == to {
		return
	}
	for _, system := range app.stateSystems[OnExit(from)] {
		app.callSystem(system)
	}
	for _, system := range app.stateSystems[OnEnter(to)] {
		app.callSystem(system)
	}
}

func (app *App) fixedTicksThisFrame() int {
	if t, ok := Resource[Time](app); ok {
		return t.consumeFixedTicks()
	}
	return 1
}

func (app *App) runStage(stage Stage) {
	for _, system := range app.systems[stage.Name] {
		app.callSystem(system)
	}
	app.FlushCommands()
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the registered *T resource.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.panicUnresolved(systemValue, systemType, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.panicUnresolved(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) panicUnresolved(systemValue reflect.Value, systemType, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	panic(msg)
}

func (app *App) FlushCommands() {
	if len(app.pendingAdditions) == 0 && len(app.pendingRemovals) == 0 &&
		len(app.pendingCompAdds) == 0 && len(app.pendingCompRemovals) == 0 {
		return
	}

	// 1. Removals first so nothing is added to dead entities
	for _, eid := range app.pendingRemovals {
		app.ecs.removeEntity(eid)
	}
	app.pendingRemovals = app.pendingRemovals[:0]

	// 2. New entities
	for _, add := range app.pendingAdditions {
		app.ecs.insertEntity(add.eid, add.components...)
	}
	app.pendingAdditions = app.pendingAdditions[:0]

	// 3. Component additions
	for _, add := range app.pendingCompAdds {
		app.ecs.addComponents(add.eid, add.components...)
	}
	app.pendingCompAdds = app.pendingCompAdds[:0]

	// 4. Component removals
	for _, rem := range app.pendingCompRemovals {
		app.ecs.removeComponents(rem.eid, rem.components...)
	}
	app.pendingCompRemovals = app.pendingCompRemovals[:0]
}
