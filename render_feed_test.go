package flycam

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gekko3d/flycam/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderable struct {
	name   string
	calls  *[]string
	frames []Frame
	err    error
}

func (r *recordingRenderable) Render(f Frame) error {
	r.frames = append(r.frames, f)
	if r.calls != nil {
		*r.calls = append(*r.calls, r.name)
	}
	return r.err
}

func TestRenderFeed_SameFrameForEveryRenderable(t *testing.T) {
	cam := newCamera(t, core.CameraConfig{Position: mgl32.Vec3{0, 0, 3}})
	feed := NewRenderFeed(nil)
	a, b := &recordingRenderable{}, &recordingRenderable{}
	feed.Register(a)
	feed.Register(b)

	require.NoError(t, feed.Publish(cam, 7, 0.016))

	require.Len(t, a.frames, 1)
	require.Len(t, b.frames, 1)
	assert.Equal(t, a.frames[0], b.frames[0])
	assert.Equal(t, feed.Last(), a.frames[0])

	f := a.frames[0]
	assert.Equal(t, uint64(7), f.Index)
	assert.InDelta(t, 0.016, f.Dt, 1e-6)
	assert.Equal(t, cam.ViewMatrix(), f.View)
	assert.Equal(t, cam.ProjectionMatrix(), f.Projection)
	assert.Equal(t, f.Projection.Mul4(f.View), f.ViewProjection)
	assertVec3(t, cam.Position(), f.Position)
	assert.True(t, f.Frustum.ContainsPoint(mgl32.Vec3{0, 0, 0}))
}

func TestRenderFeed_RegistrationOrderAndUnregister(t *testing.T) {
	cam := newCamera(t, core.CameraConfig{})
	feed := NewRenderFeed(nil)
	var calls []string
	first := feed.Register(&recordingRenderable{name: "first", calls: &calls})
	feed.Register(&recordingRenderable{name: "second", calls: &calls})
	feed.Register(&recordingRenderable{name: "third", calls: &calls})
	assert.Equal(t, 3, feed.Len())

	require.NoError(t, feed.Publish(cam, 1, 0))
	assert.Equal(t, []string{"first", "second", "third"}, calls)

	assert.True(t, feed.Unregister(first))
	assert.False(t, feed.Unregister(first))
	assert.False(t, feed.Unregister(RenderableId("unknown")))

	calls = nil
	require.NoError(t, feed.Publish(cam, 2, 0))
	assert.Equal(t, []string{"second", "third"}, calls)
}

func TestRenderFeed_IdsAreUnique(t *testing.T) {
	feed := NewRenderFeed(nil)
	r := &recordingRenderable{}
	assert.NotEqual(t, feed.Register(r), feed.Register(r))
}

func TestRenderFeed_FailureDoesNotStopOthers(t *testing.T) {
	cam := newCamera(t, core.CameraConfig{})
	feed := NewRenderFeed(nil)
	errA := errors.New("a failed")
	errC := errors.New("c failed")
	a := &recordingRenderable{err: errA}
	b := &recordingRenderable{}
	c := &recordingRenderable{err: errC}
	feed.Register(a)
	feed.Register(b)
	feed.Register(c)

	err := feed.Publish(cam, 1, 0)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errC)
	assert.Len(t, b.frames, 1)
	assert.Len(t, c.frames, 1)
}

type selfRemovingRenderable struct {
	feed   *RenderFeed
	id     RenderableId
	frames int
}

func (r *selfRemovingRenderable) Render(Frame) error {
	r.frames++
	r.feed.Unregister(r.id)
	return nil
}

func TestRenderFeed_UnregisterDuringPublish(t *testing.T) {
	cam := newCamera(t, core.CameraConfig{})
	feed := NewRenderFeed(nil)
	first := &selfRemovingRenderable{feed: feed}
	first.id = feed.Register(first)
	second, third := &recordingRenderable{}, &recordingRenderable{}
	feed.Register(second)
	feed.Register(third)

	require.NoError(t, feed.Publish(cam, 1, 0))
	assert.Equal(t, 1, first.frames)
	assert.Len(t, second.frames, 1)
	assert.Len(t, third.frames, 1)
	assert.Equal(t, 2, feed.Len())

	require.NoError(t, feed.Publish(cam, 2, 0))
	assert.Equal(t, 1, first.frames)
	assert.Len(t, second.frames, 2)
	assert.Len(t, third.frames, 2)
}

func TestRenderFeed_EmptyFeedStillRecordsLast(t *testing.T) {
	cam := newCamera(t, core.CameraConfig{})
	feed := NewRenderFeed(nil)
	require.NoError(t, feed.Publish(cam, 3, 0))
	assert.Equal(t, uint64(3), feed.Last().Index)
}

func newHeadlessApp(cfg core.CameraConfig, step time.Duration) *App {
	return NewAppBuilder().UseModule(
		LoggingModule{Out: io.Discard},
		TimeModule{FixedStep: step},
		InputModule{},
		FlyingCameraModule{Camera: cfg},
		RenderFeedModule{},
	).Build()
}

func TestRenderFeedModule_PublishesAfterCameraMoves(t *testing.T) {
	app := newHeadlessApp(core.CameraConfig{Position: mgl32.Vec3{0, 0, 3}}, 100*time.Millisecond)
	cam := Resource[core.Camera](app)
	feed := Resource[RenderFeed](app)
	require.NotNil(t, cam)
	require.NotNil(t, feed)

	rec := &recordingRenderable{}
	feed.Register(rec)
	app.UseSystem(System(func(in *Input) { in.SetKey(KeyW, true) }).InStage(PreUpdate))

	for i := 0; i < 10; i++ {
		app.Step()
	}

	require.Len(t, rec.frames, 10)
	assertVec3(t, mgl32.Vec3{0, 0, 2}, cam.Position())
	for i, f := range rec.frames {
		assert.Equal(t, uint64(i+1), f.Index)
		assert.InDelta(t, 0.1, f.Dt, 1e-6)
		// Published in Render, after the Update-stage move of the same frame.
		assert.InDelta(t, 3-0.1*float32(i+1), f.Position.Z(), eps)
	}
}

func TestRenderFeedModule_ResizeReachesProjection(t *testing.T) {
	app := newHeadlessApp(core.CameraConfig{}, time.Millisecond)
	feed := Resource[RenderFeed](app)
	app.UseSystem(System(func(in *Input) { in.PushResize(1600, 900) }).InStage(PreUpdate))

	app.Step()

	cam := Resource[core.Camera](app)
	assert.InDelta(t, 16.0/9.0, cam.AspectRatio(), eps)
	assert.Equal(t, cam.ProjectionMatrix(), feed.Last().Projection)
}
