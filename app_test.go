package flycam

import (
	"fmt"
	"reflect"
	"testing"

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
	app := newApp()

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
}

func TestApp_addResources_RequiresPointer(t *testing.T) {
	app := newApp()
	assert.Panics(t, func() {
		app.addResources(MockResource1{name: "value"})
	})
}

func TestResource(t *testing.T) {
	app := newApp()
	assert.Nil(t, Resource[MockResource1](app))

	r := NewMockResource1("r")
	app.addResources(r)
	assert.Same(t, r, Resource[MockResource1](app))
}

func TestApp_callSystem_InjectsResourcesAndCommands(t *testing.T) {
	app := newApp()
	r1 := NewMockResource1("one")
	r2 := NewMockResource2("two")
	app.addResources(r1, r2)

	called := false
	app.callSystem(func(a *MockResource1, cmd *Commands, b *MockResource2) {
		called = true
		assert.Same(t, r1, a)
		assert.Same(t, r2, b)
		require.NotNil(t, cmd)
		assert.Same(t, app, cmd.app)
	})
	assert.True(t, called)
}

func TestApp_callSystem_MissingDependencyPanics(t *testing.T) {
	app := newApp()
	defer func() {
		msg, _ := recover().(string)
		assert.Contains(t, msg, "Unable to resolve System dependency")
		assert.Contains(t, msg, "MockResource1")
	}()
	app.callSystem(func(*MockResource1) {})
	t.Fatal("expected a panic")
}

func TestApp_callSystem_NonPointerParamPanics(t *testing.T) {
	app := newApp()
	assert.Panics(t, func() {
		app.callSystem(func(MockResource1) {})
	})
}

func TestApp_StepRunsStagesInOrder(t *testing.T) {
	app := newApp()
	var order []string
	for i := len(defaultStages) - 1; i >= 0; i-- {
		stage := defaultStages[i]
		app.UseSystem(System(func() { order = append(order, stage.Name) }).InStage(stage))
	}

	app.Step()

	expected := make([]string, len(defaultStages))
	for i, s := range defaultStages {
		expected[i] = s.Name
	}
	assert.Equal(t, expected, order)
	assert.Equal(t, uint64(1), app.Frames())
}

func TestApp_SystemsInOneStageRunInRegistrationOrder(t *testing.T) {
	app := newApp()
	var order []int
	app.UseSystem(System(func() { order = append(order, 1) }))
	app.UseSystem(System(func() { order = append(order, 2) }))
	app.UseSystem(System(func() { order = append(order, 3) }))

	app.Step()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestApp_RunUntilExit(t *testing.T) {
	app := newApp()
	steps := 0
	app.UseSystem(System(func(cmd *Commands) {
		steps++
		if steps == 5 {
			cmd.Exit()
		}
	}))

	app.Run()
	assert.Equal(t, 5, steps)
	assert.Equal(t, uint64(5), app.Frames())
	assert.True(t, app.Quitting())
}

func TestApp_UseModules(t *testing.T) {
	app := newApp()
	m1 := &MockModule{}
	m2 := &MockModule2{}
	app.UseModules(m1, m2)
	assert.True(t, m1.installed)
	assert.True(t, m2.installed)
}
