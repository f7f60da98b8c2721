package desktop

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/flycam"
	"github.com/go-gl/mathgl/mgl32"
)

// GpuState owns the wgpu device and the per-frame render pass. Renderables
// record into Pass() during the Render stage.
type GpuState struct {
	instance      *wgpu.Instance
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	clearColor wgpu.Color
	cube       *wgpu.RenderPipeline

	// Valid between the PreRender and PostRender systems of one frame.
	surfaceTexture *wgpu.Texture
	surfaceView    *wgpu.TextureView
	encoder        *wgpu.CommandEncoder
	pass           *wgpu.RenderPassEncoder
}

// Pass is the render pass being recorded this frame, or nil when the frame
// is skipped (minimised window, lost surface).
func (g *GpuState) Pass() *wgpu.RenderPassEncoder {
	return g.pass
}

func (g *GpuState) Device() *wgpu.Device {
	return g.device
}

func (g *GpuState) Queue() *wgpu.Queue {
	return g.queue
}

func (g *GpuState) Format() wgpu.TextureFormat {
	return g.surfaceConfig.Format
}

// WgpuModule renders into the WindowModule window. Requires WindowModule.
type WgpuModule struct {
	ClearColor mgl32.Vec4
}

func (m WgpuModule) Install(app *flycam.App, cmd *flycam.Commands) {
	ws := flycam.Resource[WindowState](app)
	if ws == nil {
		panic("WgpuModule requires WindowModule")
	}

	clearColor := m.ClearColor
	if clearColor == (mgl32.Vec4{}) {
		clearColor = mgl32.Vec4{0.1, 0.1, 0.1, 1}
	}

	gpu, err := createGpuState(ws, clearColor)
	if err != nil {
		app.Logger().Errorf("GPU setup failed: %v", err)
		panic(err)
	}
	cmd.AddResources(gpu)
	app.Logger().Infof("wgpu surface configured %dx%d format %v", gpu.surfaceConfig.Width, gpu.surfaceConfig.Height, gpu.surfaceConfig.Format)

	cmd.UseSystem(flycam.System(gpuBeginFrameSystem).InStage(flycam.PreRender))
	cmd.UseSystem(flycam.System(gpuEndFrameSystem).InStage(flycam.PostRender))
}

func createGpuState(ws *WindowState, clearColor mgl32.Vec4) (*GpuState, error) {
	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(ws.windowGlfw))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "flycam device",
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}

	caps := surface.GetCapabilities(adapter)
	gpu := &GpuState{
		instance: instance,
		surface:  surface,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
		surfaceConfig: &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      caps.Formats[0],
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   caps.AlphaModes[0],
		},
		clearColor: wgpu.Color{R: float64(clearColor[0]), G: float64(clearColor[1]), B: float64(clearColor[2]), A: float64(clearColor[3])},
	}
	if err := gpu.configure(ws.Width, ws.Height); err != nil {
		return nil, err
	}
	return gpu, nil
}

// configure resizes the swapchain and recreates the depth buffer to match.
func (g *GpuState) configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	g.surfaceConfig.Width = uint32(width)
	g.surfaceConfig.Height = uint32(height)
	g.surface.Configure(g.adapter, g.device, g.surfaceConfig)

	g.releaseDepth()
	depthTexture, err := g.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "depth texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("depth texture: %w", err)
	}
	depthView, err := depthTexture.CreateView(nil)
	if err != nil {
		depthTexture.Release()
		return fmt.Errorf("depth view: %w", err)
	}
	g.depthTexture, g.depthView = depthTexture, depthView
	return nil
}

func (g *GpuState) releaseDepth() {
	if g.depthView != nil {
		g.depthView.Release()
		g.depthView = nil
	}
	if g.depthTexture != nil {
		g.depthTexture.Release()
		g.depthTexture = nil
	}
}

func (g *GpuState) beginFrame(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if uint32(width) != g.surfaceConfig.Width || uint32(height) != g.surfaceConfig.Height {
		if err := g.configure(width, height); err != nil {
			return err
		}
	}

	texture, err := g.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return fmt.Errorf("surface view: %w", err)
	}
	encoder, err := g.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		texture.Release()
		return fmt.Errorf("command encoder: %w", err)
	}

	g.surfaceTexture, g.surfaceView, g.encoder = texture, view, encoder
	g.pass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: g.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            g.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	return nil
}

func (g *GpuState) endFrame() error {
	if g.pass == nil {
		return nil
	}
	defer g.releaseFrame()

	if err := g.pass.End(); err != nil {
		return fmt.Errorf("end pass: %w", err)
	}
	commandBuffer, err := g.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer commandBuffer.Release()

	g.queue.Submit(commandBuffer)
	g.surface.Present()
	return nil
}

func (g *GpuState) releaseFrame() {
	if g.pass != nil {
		g.pass.Release()
		g.pass = nil
	}
	if g.encoder != nil {
		g.encoder.Release()
		g.encoder = nil
	}
	if g.surfaceView != nil {
		g.surfaceView.Release()
		g.surfaceView = nil
	}
	if g.surfaceTexture != nil {
		g.surfaceTexture.Release()
		g.surfaceTexture = nil
	}
}

// Close releases the shared pipeline and every device object. Renderables
// must be closed first.
func (g *GpuState) Close() {
	g.releaseFrame()
	g.releaseDepth()
	if g.cube != nil {
		g.cube.Release()
		g.cube = nil
	}
	if g.queue != nil {
		g.queue.Release()
		g.queue = nil
	}
	if g.device != nil {
		g.device.Release()
		g.device = nil
	}
	if g.adapter != nil {
		g.adapter.Release()
		g.adapter = nil
	}
	if g.surface != nil {
		g.surface.Release()
		g.surface = nil
	}
	if g.instance != nil {
		g.instance.Release()
		g.instance = nil
	}
}

func gpuBeginFrameSystem(gpu *GpuState, ws *WindowState, cmd *flycam.Commands) {
	if err := gpu.beginFrame(ws.Width, ws.Height); err != nil {
		cmd.Logger().Warnf("Skipping frame: %v", err)
		gpu.releaseFrame()
	}
}

func gpuEndFrameSystem(gpu *GpuState, cmd *flycam.Commands) {
	if err := gpu.endFrame(); err != nil {
		cmd.Logger().Errorf("Present failed: %v", err)
	}
}
