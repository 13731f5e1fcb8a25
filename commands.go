package particlefield

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// OnRelease registers the release half of an acquisition. Releases run in
// reverse registration order at unmount or when a later module fails.
func (cmd *Commands) OnRelease(name string, fn func()) *Commands {
	cmd.app.releases.Push(name, fn)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
