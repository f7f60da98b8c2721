package flycam

import (
	"errors"
	"fmt"

	"github.com/gekko3d/flycam/core"
)

// KeyBindings maps a movement direction to the logical key that drives it.
type KeyBindings map[core.Direction]int

func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		core.Forward: KeyW,
		core.Back:    KeyS,
		core.Left:    KeyA,
		core.Right:   KeyD,
		core.Up:      KeySpace,
		core.Down:    KeyShift,
	}
}

// InputTranslator turns one frame of Input into camera calls. It holds no
// state besides its bindings.
type InputTranslator struct {
	Bindings KeyBindings
	Logger   Logger
}

// Translate applies held movement keys for dt seconds, then every queued look,
// scroll and resize event in arrival order. Every event is applied even if an
// earlier one fails; the returned error joins all failures.
func (tr InputTranslator) Translate(cam *core.Camera, input *Input, dt float32) error {
	logger := tr.Logger
	if logger == nil {
		logger = NewNopLogger()
	}
	bindings := tr.Bindings
	if bindings == nil {
		bindings = DefaultKeyBindings()
	}

	var errs []error

	for _, dir := range core.Directions {
		key, ok := bindings[dir]
		if !ok || !input.Held(key) {
			continue
		}
		if err := cam.ApplyMovement(dir, dt); err != nil {
			errs = append(errs, fmt.Errorf("move %s: %w", dir, err))
		}
	}

	for _, m := range input.MouseMoves {
		if err := cam.ApplyLook(float32(m.DX), float32(m.DY)); err != nil {
			errs = append(errs, fmt.Errorf("look: %w", err))
		}
	}

	for _, dy := range input.Scrolls {
		if err := cam.ApplyZoom(float32(dy)); err != nil {
			errs = append(errs, fmt.Errorf("zoom: %w", err))
		}
	}

	for _, r := range input.Resizes {
		if r.Width == 0 || r.Height == 0 {
			// Minimised windows report a zero framebuffer.
			logger.Debugf("Ignoring %dx%d resize", r.Width, r.Height)
			continue
		}
		if err := cam.OnResize(r.Width, r.Height); err != nil {
			errs = append(errs, fmt.Errorf("resize: %w", err))
		}
	}

	return errors.Join(errs...)
}

// FlyingCameraModule installs the scene camera as a *core.Camera resource and
// drives it from Input in the Update stage. Requires TimeModule and InputModule.
type FlyingCameraModule struct {
	Camera   core.CameraConfig
	Bindings KeyBindings
}

func (mod FlyingCameraModule) Install(app *App, cmd *Commands) {
	cam, err := core.NewCamera(mod.Camera)
	if err != nil {
		app.Logger().Errorf("Camera setup failed: %v", err)
		panic(err)
	}
	cmd.AddResources(cam)

	bindings := mod.Bindings
	if bindings == nil {
		bindings = DefaultKeyBindings()
	}
	translator := &InputTranslator{Bindings: bindings, Logger: app.Logger()}
	cmd.AddResources(translator)

	cmd.UseSystem(System(flyingCameraSystem).InStage(Update))
}

func flyingCameraSystem(translator *InputTranslator, cam *core.Camera, input *Input, time *Time) {
	if err := translator.Translate(cam, input, time.DeltaSeconds()); err != nil {
		translator.Logger.Warnf("Frame %d: %v", time.Frame, err)
	}
}
