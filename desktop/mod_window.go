package desktop

import (
	"runtime"

	"github.com/gekko3d/flycam"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState is the shared GLFW window. Width/Height track the framebuffer.
type WindowState struct {
	windowGlfw  *glfw.Window
	Width       int
	Height      int
	windowTitle string

	lastX, lastY float64
	haveCursor   bool
	announced    bool
}

func (s *WindowState) Glfw() *glfw.Window {
	return s.windowGlfw
}

// Close destroys the window and terminates GLFW.
func (s *WindowState) Close() {
	if s.windowGlfw != nil {
		s.windowGlfw.Destroy()
		s.windowGlfw = nil
	}
	glfw.Terminate()
}

// WindowModule opens a GLFW window without a GL context (rendering goes
// through wgpu) and feeds its events into Input. Requires InputModule.
// Tab toggles cursor capture; Escape closes the window and exits the app.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func (m WindowModule) Install(app *flycam.App, cmd *flycam.Commands) {
	if flycam.Resource[WindowState](app) != nil {
		return
	}
	input := flycam.Resource[flycam.Input](app)
	if input == nil {
		panic("WindowModule requires InputModule")
	}

	if m.Width <= 0 {
		m.Width = 1280
	}
	if m.Height <= 0 {
		m.Height = 720
	}
	if m.Title == "" {
		m.Title = "flycam"
	}

	ws := createWindowState(m.Width, m.Height, m.Title)
	ws.bindCallbacks(input)
	cmd.AddResources(ws)
	app.Logger().Infof("Created window (%dx%d framebuffer) '%s'", ws.Width, ws.Height, m.Title)

	cmd.UseSystem(flycam.System(windowInputSystem).InStage(flycam.PreUpdate))
}

func createWindowState(width int, height int, title string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		panic(err)
	}

	fbWidth, fbHeight := win.GetFramebufferSize()
	return &WindowState{
		windowGlfw:  win,
		Width:       fbWidth,
		Height:      fbHeight,
		windowTitle: title,
	}
}

func (s *WindowState) bindCallbacks(input *flycam.Input) {
	win := s.windowGlfw

	// One event per callback so the camera sees every raw delta.
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if s.haveCursor && input.MouseCaptured {
			input.PushMouseMove(x-s.lastX, y-s.lastY)
		}
		s.lastX, s.lastY = x, y
		s.haveCursor = true
		input.MouseX, input.MouseY = x, y
	})

	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		input.PushScroll(yoff)
	})

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		s.Width, s.Height = width, height
		input.PushResize(width, height)
	})
}

func windowInputSystem(s *WindowState, input *flycam.Input, cmd *flycam.Commands) {
	if s.windowGlfw == nil {
		return
	}
	glfw.PollEvents()

	// Report the initial framebuffer once so the camera aspect matches it.
	if !s.announced {
		input.PushResize(s.Width, s.Height)
		s.announced = true
	}

	for key, glfwKey := range keyToGlfw {
		input.SetKey(key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}

	if input.JustPressed[flycam.KeyTab] {
		input.MouseCaptured = !input.MouseCaptured
		// The cursor jumps when the mode changes; do not turn that into a look.
		s.haveCursor = false
	}
	if input.MouseCaptured {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}

	if input.JustPressed[flycam.KeyEscape] {
		s.windowGlfw.SetShouldClose(true)
	}
	if s.windowGlfw.ShouldClose() {
		cmd.Exit()
	}
}

var keyToGlfw = map[int]glfw.Key{
	flycam.KeyA:       glfw.KeyA,
	flycam.KeyB:       glfw.KeyB,
	flycam.KeyC:       glfw.KeyC,
	flycam.KeyD:       glfw.KeyD,
	flycam.KeyE:       glfw.KeyE,
	flycam.KeyF:       glfw.KeyF,
	flycam.KeyG:       glfw.KeyG,
	flycam.KeyH:       glfw.KeyH,
	flycam.KeyI:       glfw.KeyI,
	flycam.KeyJ:       glfw.KeyJ,
	flycam.KeyK:       glfw.KeyK,
	flycam.KeyL:       glfw.KeyL,
	flycam.KeyM:       glfw.KeyM,
	flycam.KeyN:       glfw.KeyN,
	flycam.KeyO:       glfw.KeyO,
	flycam.KeyP:       glfw.KeyP,
	flycam.KeyQ:       glfw.KeyQ,
	flycam.KeyR:       glfw.KeyR,
	flycam.KeyS:       glfw.KeyS,
	flycam.KeyT:       glfw.KeyT,
	flycam.KeyU:       glfw.KeyU,
	flycam.KeyV:       glfw.KeyV,
	flycam.KeyW:       glfw.KeyW,
	flycam.KeyX:       glfw.KeyX,
	flycam.KeyY:       glfw.KeyY,
	flycam.KeyZ:       glfw.KeyZ,
	flycam.KeySpace:   glfw.KeySpace,
	flycam.KeyEnter:   glfw.KeyEnter,
	flycam.KeyEscape:  glfw.KeyEscape,
	flycam.KeyTab:     glfw.KeyTab,
	flycam.KeyRight:   glfw.KeyRight,
	flycam.KeyLeft:    glfw.KeyLeft,
	flycam.KeyDown:    glfw.KeyDown,
	flycam.KeyUp:      glfw.KeyUp,
	flycam.KeyShift:   glfw.KeyLeftShift,
	flycam.KeyControl: glfw.KeyLeftControl,
	flycam.KeyLeftAlt: glfw.KeyLeftAlt,
	flycam.KeyF1:      glfw.KeyF1,
	flycam.KeyF2:      glfw.KeyF2,
	flycam.KeyF3:      glfw.KeyF3,
	flycam.KeyF4:      glfw.KeyF4,
}
