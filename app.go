package particlefield

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
)

var (
	ErrNoMountTarget  = errors.New("particlefield: no mount target")
	ErrAlreadyMounted = errors.New("particlefield: already mounted")
)

type systemFn any

// Module acquires one slice of the visual at mount time. Anything it acquires
// must be paired with cmd.OnRelease before Install returns.
type Module interface {
	Install(app *App, cmd *Commands) error
}

// App is one mounted instance of the visual. Scheduling, teardown and resize
// handling all run on the caller's goroutine; App is not safe for concurrent use.
type App struct {
	modules   []Module
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	logger    Logger

	scheduler FrameScheduler
	loop      *FrameLoop
	releases  ReleaseStack
	frameTime FrameTime

	container Container
	mounted   bool
}

// FrameTime carries the scheduler timestamp of the frame being run, in seconds.
type FrameTime struct {
	Now float64
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

func (app *App) Mounted() bool {
	return app.mounted
}

func (app *App) Container() Container {
	return app.container
}

// Loop returns the frame loop of the current mount, or nil before Mount.
func (app *App) Loop() *FrameLoop {
	return app.loop
}

// Mount installs every module in order, then schedules the first frame. A
// missing container aborts before anything is acquired; a failing module
// releases whatever the earlier modules acquired.
func (app *App) Mount(container Container) error {
	if container == nil || isNilInterface(container) {
		return ErrNoMountTarget
	}
	if app.mounted {
		return ErrAlreadyMounted
	}

	app.resetFrameState()
	app.container = container
	app.mounted = true

	cmd := app.Commands()
	for _, module := range app.modules {
		app.Logger().Debugf("installing %T", module)
		if err := module.Install(app, cmd); err != nil {
			app.Logger().Errorf("install %T failed: %v", module, err)
			app.teardown()
			return fmt.Errorf("install %T: %w", module, err)
		}
	}

	app.loop = newFrameLoop(app, app.scheduler)
	app.loop.start()
	app.releases.Push("frame scheduling", app.loop.cancel)

	w, h := container.Size()
	app.Logger().Infof("mounted %dx%d with %d resources to release", w, h, app.releases.Len())
	return nil
}

// Unmount releases everything acquired by Mount in reverse order. Calling it
// on an unmounted App does nothing.
func (app *App) Unmount() {
	if !app.mounted {
		return
	}
	app.teardown()
	app.Logger().Infof("unmounted")
}

// Stop cancels frame scheduling while keeping every other resource alive.
// The loop does not restart until the next Mount.
func (app *App) Stop() {
	if app.loop != nil {
		app.loop.stop()
	}
}

func (app *App) teardown() {
	app.mounted = false
	log := app.Logger()
	app.releases.Release(func(name string) {
		log.Debugf("releasing %s", name)
	})
	app.resetFrameState()
	app.container = nil
}

func (app *App) resetFrameState() {
	app.resources = make(map[reflect.Type]any)
	app.systems = make(map[string][]systemFn)
	for _, stage := range app.stages {
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	app.frameTime = FrameTime{}
}

func (app *App) runFrame() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("%s is not a pointer resource", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource looks up a resource by its pointed-to type.
func Resource[T any](app *App) (*T, bool) {
	res, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	typed, ok := res.(*T)
	return typed, ok
}

var (
	typeOfCommands  = reflect.TypeOf(Commands{})
	typeOfFrameTime = reflect.TypeOf(FrameTime{})
)

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if underlyingType == typeOfFrameTime {
			args[i] = reflect.ValueOf(&app.frameTime)
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
	}
	systemValue.Call(args)
}

func isNilInterface(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}
