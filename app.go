package flycam

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

type Module interface {
	Install(app *App, cmd *Commands)
}

// App drives a fixed sequence of stages once per frame. Everything a system
// needs is either a resource (looked up by type) or *Commands.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any

	frame    uint64
	quitting bool
}

func newApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// UseModules installs modules immediately, in order.
func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	return app
}

// Run steps frames until a system calls Commands.Exit.
func (app *App) Run() {
	app.Logger().Infof("Running with %d stages", len(app.stages))
	for !app.quitting {
		app.Step()
	}
	app.Logger().Infof("Stopped after %d frames", app.frame)
}

// Step runs every stage once. Systems in one stage see all writes made by
// systems in earlier stages of the same frame.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
	app.frame++
}

// Frames returns the number of completed frames.
func (app *App) Frames() uint64 {
	return app.frame
}

func (app *App) Quitting() bool {
	return app.quitting
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

// Resource returns the resource registered for T, or nil.
func Resource[T any](app *App) *T {
	if r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]; ok {
		return r.(*T)
	}
	return nil
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("system %s: parameter %d (%s) must be a pointer",
				runtime.FuncForPC(systemValue.Pointer()).Name(), i, argType))
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, ok := app.resources[underlyingType]; ok {
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
