package trace

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/flycam"
	"github.com/go-gl/mathgl/mgl32"
)

// Sample is the camera state seen by the render feed in one frame.
type Sample struct {
	Index    uint64
	Position mgl32.Vec3
	// Gaze is the unit direction the view looks along.
	Gaze        mgl32.Vec3
	FieldOfView float32
}

// Recorder is a flycam.Renderable that keeps every frame it is given.
type Recorder struct {
	samples []Sample
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Render(f flycam.Frame) error {
	// Row 2 of the view matrix is the camera's back axis.
	back := mgl32.Vec3{f.View.At(2, 0), f.View.At(2, 1), f.View.At(2, 2)}
	r.samples = append(r.samples, Sample{
		Index:       f.Index,
		Position:    f.Position,
		Gaze:        back.Mul(-1),
		FieldOfView: fieldOfView(f.Projection),
	})
	return nil
}

func (r *Recorder) Samples() []Sample {
	return r.samples
}

func (r *Recorder) Reset() {
	r.samples = r.samples[:0]
}

// fieldOfView recovers the vertical angle in degrees from a perspective matrix.
func fieldOfView(p mgl32.Mat4) float32 {
	if p.At(1, 1) == 0 {
		return 0
	}
	return mgl32.RadToDeg(2 * math32.Atan(1/p.At(1, 1)))
}
