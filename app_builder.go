package particlefield

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: &App{
		stages: defaultStages(),
	}}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// UseScheduler sets the frame source. Without one, Build falls back to a
// StepScheduler that only advances when driven.
func (b *AppBuilder) UseScheduler(scheduler FrameScheduler) *AppBuilder {
	b.app.scheduler = scheduler

	return b
}

// Build returns an unmounted App. Modules are installed by Mount, in the order
// they were added.
func (b *AppBuilder) Build() *App {
	app := b.app
	app.modules = append([]Module(nil), b.modules...)
	if app.scheduler == nil {
		app.scheduler = NewStepScheduler(DefaultFrameStep)
	}
	app.resetFrameState()

	return app
}
