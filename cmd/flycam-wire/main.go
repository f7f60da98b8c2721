package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"

	"github.com/gekko3d/flycam"
	"github.com/gekko3d/flycam/core"
	"github.com/gekko3d/flycam/wire"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	screenWidth  = 960
	screenHeight = 540
)

type Game struct {
	app     *flycam.App
	backend *ebitenBackend
	cam     *core.Camera
	objects []*wire.Object
}

func (g *Game) Update() error {
	g.app.Step()
	if g.app.Quitting() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	for _, obj := range g.objects {
		for _, s := range obj.Segments() {
			a := wire.ToScreen(s.A, w, h)
			b := wire.ToScreen(s.B, w, h)
			vector.StrokeLine(screen, a.X(), a.Y(), b.X(), b.Y(), 1, obj.Color, true)
		}
	}

	p := g.cam.Position()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"TPS %0.1f\npos (%.2f, %.2f, %.2f)\nyaw %.1f pitch %.1f fov %.1f\nWASD/Space/Shift move, Tab capture, Esc quit",
		ebiten.ActualTPS(), p.X(), p.Y(), p.Z(), g.cam.Yaw(), g.cam.Pitch(), g.cam.FieldOfView()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	speed := flag.Float64("speed", 2.5, "Camera speed in units per second")
	flag.Parse()

	app := flycam.NewAppBuilder().
		UseModule(flycam.LoggingModule{Prefix: "flycam-wire", Debug: *debug}).
		UseModule(flycam.TimeModule{}).
		UseModule(flycam.InputModule{StartUncaptured: true}).
		UseModule(ebitenInputModule{}).
		UseModule(flycam.FlyingCameraModule{
			Camera: core.CameraConfig{
				Position:    mgl32.Vec3{0, 1, 6},
				LookAtPoint: &mgl32.Vec3{0, 0, 0},
				AspectRatio: float32(screenWidth) / float32(screenHeight),
				MoveSpeed:   float32(*speed),
			},
		}).
		UseModule(flycam.RenderFeedModule{}).
		Build()

	feed := flycam.Resource[flycam.RenderFeed](app)
	objects := []*wire.Object{
		wire.NewObject(wire.GridMesh(10, 1), mgl32.Translate3D(0, -0.5, 0), color.RGBA{60, 60, 70, 255}),
		wire.NewObject(wire.CubeMesh(1), mgl32.Ident4(), color.RGBA{255, 128, 79, 255}),
		wire.NewObject(wire.CubeMesh(0.2), mgl32.Translate3D(1.2, 1.0, 2.0), color.RGBA{255, 255, 255, 255}),
	}
	for _, obj := range objects {
		feed.Register(obj)
	}

	g := &Game{
		app:     app,
		backend: flycam.Resource[ebitenBackend](app),
		cam:     flycam.Resource[core.Camera](app),
		objects: objects,
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("flycam (wireframe)")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		app.Logger().Errorf("%v", err)
	}
}
