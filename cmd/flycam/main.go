package main

import (
	"flag"
	"runtime"

	"github.com/gekko3d/flycam"
	"github.com/gekko3d/flycam/core"
	"github.com/gekko3d/flycam/desktop"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

// scene holds the demo cubes so they can be released before the device.
type scene struct {
	cubes []*desktop.CubeRenderable
}

type sceneModule struct {
	spin float32
}

func (m sceneModule) Install(app *flycam.App, cmd *flycam.Commands) {
	gpu := flycam.Resource[desktop.GpuState](app)
	feed := flycam.Resource[flycam.RenderFeed](app)
	if gpu == nil || feed == nil {
		panic("sceneModule requires WgpuModule and RenderFeedModule")
	}

	material := desktop.DefaultMaterial()
	cube, err := desktop.NewCubeRenderable(gpu, mgl32.Ident4(), material)
	if err != nil {
		panic(err)
	}
	cube.Spin = m.spin

	lampMaterial := material
	lampMaterial.Lit = false
	lp := material.LightPosition
	lampModel := mgl32.Translate3D(lp.X(), lp.Y(), lp.Z()).Mul4(mgl32.Scale3D(0.2, 0.2, 0.2))
	lamp, err := desktop.NewCubeRenderable(gpu, lampModel, lampMaterial)
	if err != nil {
		cube.Close()
		panic(err)
	}

	feed.Register(cube)
	feed.Register(lamp)
	cmd.AddResources(&scene{cubes: []*desktop.CubeRenderable{cube, lamp}})
	app.Logger().Infof("Scene ready: lit cube and lamp at %v", lp)
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	width := flag.Int("width", 1280, "Window width")
	height := flag.Int("height", 720, "Window height")
	speed := flag.Float64("speed", 2.5, "Camera speed in units per second")
	spin := flag.Float64("spin", 20, "Cube spin in degrees per second")
	flag.Parse()

	app := flycam.NewAppBuilder().
		UseModule(flycam.LoggingModule{Prefix: "flycam", Debug: *debug}).
		UseModule(flycam.TimeModule{}).
		UseModule(flycam.InputModule{}).
		UseModule(desktop.WindowModule{Width: *width, Height: *height, Title: "flycam"}).
		UseModule(flycam.FlyingCameraModule{
			Camera: core.CameraConfig{
				Position:    mgl32.Vec3{0, 0, 3},
				AspectRatio: float32(*width) / float32(*height),
				MoveSpeed:   float32(*speed),
			},
		}).
		UseModule(flycam.RenderFeedModule{}).
		UseModule(desktop.WgpuModule{ClearColor: mgl32.Vec4{0.1, 0.1, 0.1, 1}}).
		UseModule(sceneModule{spin: float32(*spin)}).
		Build()

	app.Run()

	for _, c := range flycam.Resource[scene](app).cubes {
		c.Close()
	}
	flycam.Resource[desktop.GpuState](app).Close()
	flycam.Resource[desktop.WindowState](app).Close()
}
