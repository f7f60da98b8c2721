package flycam

// Logical key ids. Backends translate their native key codes into these.
const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyShift
	KeyControl
	KeyLeftAlt
	KeyF1
	KeyF2
	KeyF3
	KeyF4

	keyCount
)

// maxKeys bounds the key state arrays; ids outside [0, maxKeys) are ignored.
const maxKeys = keyCount

// MouseMove is the raw pointer delta of a single cursor event, in pixels.
type MouseMove struct {
	DX, DY float64
}

// Resize is a framebuffer size change event.
type Resize struct {
	Width, Height int
}

// Input is the per-frame input snapshot. Held keys persist across frames;
// the event queues only hold events that arrived since the last BeginFrame.
type Input struct {
	Pressed      [maxKeys]bool
	JustPressed  [maxKeys]bool
	JustReleased [maxKeys]bool

	MouseX, MouseY float64
	MouseCaptured  bool

	MouseMoves []MouseMove
	Scrolls    []float64
	Resizes    []Resize

	FramebufferWidth, FramebufferHeight int
}

// BeginFrame drops last frame's events and edge flags.
func (in *Input) BeginFrame() {
	in.JustPressed = [maxKeys]bool{}
	in.JustReleased = [maxKeys]bool{}
	in.MouseMoves = in.MouseMoves[:0]
	in.Scrolls = in.Scrolls[:0]
	in.Resizes = in.Resizes[:0]
}

// SetKey records the current state of a key and derives the edge flags.
func (in *Input) SetKey(key int, down bool) {
	if key < 0 || key >= maxKeys {
		return
	}
	if down && !in.Pressed[key] {
		in.JustPressed[key] = true
	}
	if !down && in.Pressed[key] {
		in.JustReleased[key] = true
	}
	in.Pressed[key] = down
}

func (in *Input) Held(key int) bool {
	return key >= 0 && key < maxKeys && in.Pressed[key]
}

func (in *Input) PushMouseMove(dx, dy float64) {
	in.MouseMoves = append(in.MouseMoves, MouseMove{DX: dx, DY: dy})
}

func (in *Input) PushScroll(dy float64) {
	in.Scrolls = append(in.Scrolls, dy)
}

func (in *Input) PushResize(width, height int) {
	in.Resizes = append(in.Resizes, Resize{Width: width, Height: height})
	in.FramebufferWidth, in.FramebufferHeight = width, height
}

// InputModule installs the Input resource. A backend (desktop.WindowModule, the
// ebiten adapter, a replay script) must be installed as well to fill it.
type InputModule struct {
	// StartUncaptured leaves the cursor free until the backend toggles it.
	StartUncaptured bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{MouseCaptured: !mod.StartUncaptured})
	cmd.UseSystem(System(inputBeginFrameSystem).InStage(Prelude))
}

func inputBeginFrameSystem(input *Input) {
	input.BeginFrame()
}
