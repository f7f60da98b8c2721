package desktop

import (
	"github.com/gekko3d/flycam"
	"github.com/go-gl/mathgl/mgl32"
)

// Float offsets into the packed uniform block. Every member is 16-byte
// aligned so the block matches the WGSL struct in cube_renderable.go.
const (
	uniformView          = 0
	uniformProjection    = 16
	uniformModel         = 32
	uniformNormal        = 48
	uniformViewPosition  = 64
	uniformLightPosition = 68
	uniformLightColor    = 72
	uniformObjectColor   = 76

	uniformFloats = 80
	uniformBytes  = uniformFloats * 4
)

// clipDepthCorrection remaps OpenGL clip depth (-w..w) to the 0..w range wgpu
// rasterises. The camera keeps producing GL matrices; only the GPU path
// needs this.
var clipDepthCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Material describes how a cube is shaded. Unlit cubes are drawn in
// LightColor, which is how the lamp is shown.
type Material struct {
	ObjectColor   mgl32.Vec3
	LightColor    mgl32.Vec3
	LightPosition mgl32.Vec3
	Lit           bool
}

func DefaultMaterial() Material {
	return Material{
		ObjectColor:   mgl32.Vec3{1.0, 0.5, 0.31},
		LightColor:    mgl32.Vec3{1, 1, 1},
		LightPosition: mgl32.Vec3{1.2, 1.0, 2.0},
		Lit:           true,
	}
}

// PackUniforms lays out one draw's uniforms. The w component of the object
// color carries the lit flag.
func PackUniforms(f flycam.Frame, model mgl32.Mat4, m Material) []float32 {
	out := make([]float32, uniformFloats)

	projection := clipDepthCorrection.Mul4(f.Projection)
	normal := model.Mat3().Inv().Transpose().Mat4()

	copy(out[uniformView:], f.View[:])
	copy(out[uniformProjection:], projection[:])
	copy(out[uniformModel:], model[:])
	copy(out[uniformNormal:], normal[:])

	putVec3(out[uniformViewPosition:], f.Position, 1)
	putVec3(out[uniformLightPosition:], m.LightPosition, 1)
	putVec3(out[uniformLightColor:], m.LightColor, 1)

	lit := float32(0)
	if m.Lit {
		lit = 1
	}
	putVec3(out[uniformObjectColor:], m.ObjectColor, lit)

	return out
}

func putVec3(dst []float32, v mgl32.Vec3, w float32) {
	dst[0], dst[1], dst[2], dst[3] = v[0], v[1], v[2], w
}
