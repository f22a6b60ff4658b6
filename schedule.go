package camrig

import (
	"fmt"
	"slices"
)

type UpdateType int

const (
	FixedUpdate UpdateType = iota
	DynamicUpdate
)

type Stage struct {
	Name       string
	UpdateType UpdateType
}

var (
	Prelude           = Stage{Name: "Prelude", UpdateType: DynamicUpdate}
	PreUpdate         = Stage{Name: "PreUpdate", UpdateType: DynamicUpdate}
	Update            = Stage{Name: "Update", UpdateType: DynamicUpdate}
	FixedSimulate     = Stage{Name: "FixedSimulate", UpdateType: FixedUpdate}
	FixedPostSimulate = Stage{Name: "FixedPostSimulate", UpdateType: FixedUpdate}
	PostUpdate        = Stage{Name: "PostUpdate", UpdateType: DynamicUpdate}
	Finale            = Stage{Name: "Finale", UpdateType: DynamicUpdate}
)

var defaultStages = []Stage{
	Prelude,
	PreUpdate,
	Update,
	FixedSimulate,
	FixedPostSimulate,
	PostUpdate,
	Finale,
}

type systemScheduleBuilder struct {
	inStage       Stage
	system        systemFn
	inState       stateScheduleBuilder
	stateProvided bool
}

// System wraps a system function for scheduling. Systems default to Update.
func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	sched.inStage = s
	return sched
}

// InState turns a system into a transition hook on the free-roam axis. It
// runs once when the committed mode enters or leaves the state, not every
// frame, and its stage is ignored.
func (sched systemScheduleBuilder) InState(s stateScheduleBuilder) systemScheduleBuilder {
	sched.inState = s
	sched.stateProvided = true
	return sched
}

type statePhase int

const (
	stateEnter statePhase = iota
	stateExit
)

type stateScheduleBuilder struct {
	state FreeRoamMode
	phase statePhase
}

func OnEnter(state FreeRoamMode) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: stateEnter}
}

func OnExit(state FreeRoamMode) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: stateExit}
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type stagePositionBuilder struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageBefore, target: s}
}

func AfterStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageAfter, target: s}
}

func (app *App) UseStage(stage Stage, where stagePositionBuilder) *App {
	stageIdx := slices.IndexFunc(app.stages, func(s Stage) bool {
		return s.Name == where.target.Name
	})
	if stageIdx == -1 {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}
	if _, ok := app.systems[stage.Name]; ok {
		panic(fmt.Sprintf("Stage %v already exists", stage.Name))
	}

	insertAt := stageIdx
	if where.position == stageAfter {
		insertAt = stageIdx + 1
	}

	app.stages = slices.Insert(app.stages, insertAt, stage)
	app.systems[stage.Name] = nil
	return app
}

func (app *App) UseSystem(system systemScheduleBuilder) *App {
	if system.stateProvided {
		if system.inState.state < 0 || system.inState.state >= freeRoamModeCount {
			panic(fmt.Sprintf("State %v doesn't exist", system.inState.state))
		}
		app.stateSystems[system.inState] = append(app.stateSystems[system.inState], system.system)
		return app
	}
	if _, ok := app.systems[system.inStage.Name]; !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", system.inStage.Name))
	}
	app.systems[system.inStage.Name] = append(app.systems[system.inStage.Name], system.system)
	return app
}
