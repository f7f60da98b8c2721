package flycam

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gekko3d/flycam/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Frame is what every renderable receives once per frame. It is passed by
// value; renderables must not keep it beyond their Render call.
type Frame struct {
	Index uint64
	Dt    float32 // seconds

	View           mgl32.Mat4
	Projection     mgl32.Mat4
	ViewProjection mgl32.Mat4
	Position       mgl32.Vec3 // camera world position
	Frustum        core.Frustum
}

// NewFrame snapshots the camera's current matrices.
func NewFrame(cam *core.Camera, index uint64, dt float32) Frame {
	view := cam.ViewMatrix()
	projection := cam.ProjectionMatrix()
	vp := projection.Mul4(view)
	return Frame{
		Index:          index,
		Dt:             dt,
		View:           view,
		Projection:     projection,
		ViewProjection: vp,
		Position:       cam.Position(),
		Frustum:        core.ExtractFrustum(vp),
	}
}

type Renderable interface {
	Render(f Frame) error
}

type RenderableId string

type feedEntry struct {
	id         RenderableId
	renderable Renderable
}

// RenderFeed distributes one Frame per frame to every registered renderable.
type RenderFeed struct {
	entries []feedEntry
	last    Frame
	logger  Logger
}

func NewRenderFeed(logger Logger) *RenderFeed {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &RenderFeed{logger: logger}
}

// Register adds r after every previously registered renderable.
func (feed *RenderFeed) Register(r Renderable) RenderableId {
	id := RenderableId(uuid.NewString())
	feed.entries = append(feed.entries, feedEntry{id: id, renderable: r})
	return id
}

func (feed *RenderFeed) Unregister(id RenderableId) bool {
	for i, e := range feed.entries {
		if e.id == id {
			feed.entries = slices.Delete(feed.entries, i, i+1)
			return true
		}
	}
	return false
}

func (feed *RenderFeed) Len() int {
	return len(feed.entries)
}

// Last returns the most recently published frame.
func (feed *RenderFeed) Last() Frame {
	return feed.last
}

// Publish computes the frame once and hands the same value to every
// renderable registered when it starts. A failing renderable does not stop
// the others. Renderables may register or unregister from inside Render;
// the change takes effect from the next Publish.
func (feed *RenderFeed) Publish(cam *core.Camera, index uint64, dt float32) error {
	frame := NewFrame(cam, index, dt)
	feed.last = frame

	var errs []error
	for _, e := range slices.Clone(feed.entries) {
		if err := e.renderable.Render(frame); err != nil {
			errs = append(errs, fmt.Errorf("renderable %s: %w", e.id, err))
		}
	}
	return errors.Join(errs...)
}

// RenderFeedModule installs the RenderFeed resource and publishes in the
// Render stage. Requires FlyingCameraModule and TimeModule.
type RenderFeedModule struct{}

func (mod RenderFeedModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewRenderFeed(app.Logger()))
	cmd.UseSystem(System(renderFeedSystem).InStage(Render))
}

func renderFeedSystem(feed *RenderFeed, cam *core.Camera, time *Time) {
	if err := feed.Publish(cam, time.Frame, time.DeltaSeconds()); err != nil {
		feed.logger.Errorf("Frame %d: %v", time.Frame, err)
	}
}
