package camrig

// AppBuilder collects modules and installs them in order on Build.
type AppBuilder struct {
	app     *App
	modules []Module
	stages  []stageInsert
}

type stageInsert struct {
	stage Stage
	where stagePositionBuilder
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: NewApp()}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// UseStage adds a stage before any module is installed, so modules can
// schedule systems into it.
func (b *AppBuilder) UseStage(stage Stage, where stagePositionBuilder) *AppBuilder {
	b.stages = append(b.stages, stageInsert{stage: stage, where: where})

	return b
}

// UseSettings appends the modules configured by s.
func (b *AppBuilder) UseSettings(s *Settings) *AppBuilder {
	return b.UseModule(s.Modules()...)
}

func (b *AppBuilder) Build() *App {
	app := b.app
	for _, s := range b.stages {
		app.UseStage(s.stage, s.where)
	}
	return app.UseModules(b.modules...)
}
