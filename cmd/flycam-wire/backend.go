package main

import (
	"github.com/gekko3d/flycam"
	"github.com/hajimehoshi/ebiten/v2"
)

// ebitenBackend feeds ebiten's polled input state into flycam.Input.
type ebitenBackend struct {
	width, height int
	announced     bool

	lastX, lastY int
	haveCursor   bool
	captured     bool
}

type ebitenInputModule struct{}

func (ebitenInputModule) Install(app *flycam.App, cmd *flycam.Commands) {
	if flycam.Resource[flycam.Input](app) == nil {
		panic("ebitenInputModule requires InputModule")
	}
	cmd.AddResources(&ebitenBackend{})
	cmd.UseSystem(flycam.System(ebitenInputSystem).InStage(flycam.PreUpdate))
}

// layout records the window size; it is reported as a resize on the next frame.
func (b *ebitenBackend) layout(width, height int) {
	if width != b.width || height != b.height {
		b.width, b.height = width, height
		b.announced = false
	}
}

func ebitenInputSystem(b *ebitenBackend, input *flycam.Input, cmd *flycam.Commands) {
	if !b.announced && b.width > 0 && b.height > 0 {
		input.PushResize(b.width, b.height)
		b.announced = true
	}

	for key, ebitenKey := range keyToEbiten {
		input.SetKey(key, ebiten.IsKeyPressed(ebitenKey))
	}

	if input.JustPressed[flycam.KeyTab] {
		input.MouseCaptured = !input.MouseCaptured
		b.haveCursor = false
	}
	if input.MouseCaptured != b.captured {
		if input.MouseCaptured {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
		}
		b.captured = input.MouseCaptured
	}

	x, y := ebiten.CursorPosition()
	if b.haveCursor && input.MouseCaptured && (x != b.lastX || y != b.lastY) {
		input.PushMouseMove(float64(x-b.lastX), float64(y-b.lastY))
	}
	b.lastX, b.lastY = x, y
	b.haveCursor = true
	input.MouseX, input.MouseY = float64(x), float64(y)

	if _, dy := ebiten.Wheel(); dy != 0 {
		input.PushScroll(dy)
	}

	if input.JustPressed[flycam.KeyEscape] {
		cmd.Exit()
	}
}

var keyToEbiten = map[int]ebiten.Key{
	flycam.KeyA:       ebiten.KeyA,
	flycam.KeyD:       ebiten.KeyD,
	flycam.KeyS:       ebiten.KeyS,
	flycam.KeyW:       ebiten.KeyW,
	flycam.KeySpace:   ebiten.KeySpace,
	flycam.KeyEscape:  ebiten.KeyEscape,
	flycam.KeyTab:     ebiten.KeyTab,
	flycam.KeyRight:   ebiten.KeyArrowRight,
	flycam.KeyLeft:    ebiten.KeyArrowLeft,
	flycam.KeyDown:    ebiten.KeyArrowDown,
	flycam.KeyUp:      ebiten.KeyArrowUp,
	flycam.KeyShift:   ebiten.KeyShiftLeft,
	flycam.KeyControl: ebiten.KeyControlLeft,
}
