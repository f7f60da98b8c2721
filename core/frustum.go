package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Frustum holds six planes (Ax + By + Cz + D = 0, normals pointing inward) in
// the order Left, Right, Bottom, Top, Near, Far.
type Frustum [6]mgl32.Vec4

// ExtractFrustum extracts the normalised frustum planes from a view-projection
// matrix using the OpenGL -1..1 depth convention.
func ExtractFrustum(vp mgl32.Mat4) Frustum {
	var planes Frustum

	row := func(r int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(r, 0), vp.At(r, 1), vp.At(r, 2), vp.At(r, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planes[0] = r3.Add(r0) // left
	planes[1] = r3.Sub(r0) // right
	planes[2] = r3.Add(r1) // bottom
	planes[3] = r3.Sub(r1) // top
	planes[4] = r3.Add(r2) // near
	planes[5] = r3.Sub(r2) // far

	for i := range planes {
		length := planes[i].Vec3().Len()
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}

	return planes
}

// ContainsSphere reports whether a sphere is at least partially inside.
func (f Frustum) ContainsSphere(center mgl32.Vec3, radius float32) bool {
	for _, p := range f {
		if p.Vec3().Dot(center)+p.W() < -radius {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p lies inside or on every plane.
func (f Frustum) ContainsPoint(p mgl32.Vec3) bool {
	return f.ContainsSphere(p, 0)
}
