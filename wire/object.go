package wire

import (
	"fmt"
	"image/color"

	"github.com/gekko3d/flycam"
	"github.com/go-gl/mathgl/mgl32"
)

// Segment is a projected edge in normalised device coordinates.
type Segment struct {
	A, B mgl32.Vec2
}

// Object projects a Mesh with every published frame. It implements
// flycam.Renderable; Segments holds the result until the next frame.
type Object struct {
	Mesh  Mesh
	Model mgl32.Mat4
	Color color.RGBA

	radius   float32
	segments []Segment
	culled   bool
}

func NewObject(mesh Mesh, model mgl32.Mat4, clr color.RGBA) *Object {
	return &Object{
		Mesh:   mesh,
		Model:  model,
		Color:  clr,
		radius: mesh.BoundingRadius(),
	}
}

func (o *Object) Render(f flycam.Frame) error {
	o.segments = o.segments[:0]
	o.culled = false

	center := o.Model.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	if !f.Frustum.ContainsSphere(center, o.radius*maxScale(o.Model)) {
		o.culled = true
		return nil
	}

	mvp := f.ViewProjection.Mul4(o.Model)
	clip := make([]mgl32.Vec4, len(o.Mesh.Vertices))
	for i, v := range o.Mesh.Vertices {
		clip[i] = mvp.Mul4x1(v.Vec4(1))
	}

	for _, e := range o.Mesh.Edges {
		if e[0] < 0 || e[0] >= len(clip) || e[1] < 0 || e[1] >= len(clip) {
			return fmt.Errorf("edge %v out of range for %d vertices", e, len(clip))
		}
		a, b, ok := clipNear(clip[e[0]], clip[e[1]])
		if !ok {
			continue
		}
		o.segments = append(o.segments, Segment{A: toNDC(a), B: toNDC(b)})
	}
	return nil
}

// Segments returns the edges projected in the last frame.
func (o *Object) Segments() []Segment {
	return o.segments
}

// Culled reports whether the last frame skipped the object entirely.
func (o *Object) Culled() bool {
	return o.culled
}

// clipNear trims a clip-space segment to the near plane (z >= -w).
func clipNear(a, b mgl32.Vec4) (mgl32.Vec4, mgl32.Vec4, bool) {
	da := a.Z() + a.W()
	db := b.Z() + b.W()
	switch {
	case da < 0 && db < 0:
		return a, b, false
	case da < 0:
		a = lerp4(a, b, da/(da-db))
	case db < 0:
		b = lerp4(b, a, db/(db-da))
	}
	return a, b, true
}

func lerp4(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}

func toNDC(v mgl32.Vec4) mgl32.Vec2 {
	return mgl32.Vec2{v.X() / v.W(), v.Y() / v.W()}
}

func maxScale(m mgl32.Mat4) float32 {
	s := m.Col(0).Vec3().Len()
	if y := m.Col(1).Vec3().Len(); y > s {
		s = y
	}
	if z := m.Col(2).Vec3().Len(); z > s {
		s = z
	}
	return s
}

// ToScreen maps an NDC point to pixel coordinates with y growing downwards.
func ToScreen(ndc mgl32.Vec2, width, height int) mgl32.Vec2 {
	return mgl32.Vec2{
		(ndc.X() + 1) * 0.5 * float32(width),
		(1 - ndc.Y()) * 0.5 * float32(height),
	}
}
