package particlefield

import "fmt"

type Stage struct {
	Name string
}

var (
	Prelude    = Stage{Name: "Prelude"}
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	PreRender  = Stage{Name: "PreRender"}
	Render     = Stage{Name: "Render"}
	Finale     = Stage{Name: "Finale"}
)

func defaultStages() []Stage {
	return []Stage{Prelude, PreUpdate, Update, PostUpdate, PreRender, Render, Finale}
}

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

// System wraps a function whose pointer arguments are resolved from the App's
// resources each frame. Systems default to the Update stage.
func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

func (app *App) UseSystem(system systemScheduleBuilder) *App {
	systems, ok := app.systems[system.inStage.Name]
	if !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", system.inStage.Name))
	}
	app.systems[system.inStage.Name] = append(systems, system.system)
	return app
}
