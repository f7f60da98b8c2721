package desktop

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/flycam"
	"github.com/go-gl/mathgl/mgl32"
)

const cubeShader = `
struct Uniforms {
    view: mat4x4<f32>,
    projection: mat4x4<f32>,
    model: mat4x4<f32>,
    normal: mat4x4<f32>,
    view_position: vec4<f32>,
    light_position: vec4<f32>,
    light_color: vec4<f32>,
    object_color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> u: Uniforms;

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) world_pos: vec3<f32>,
    @location(1) normal: vec3<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) normal: vec3<f32>) -> VertexOut {
    var out: VertexOut;
    let world = u.model * vec4<f32>(position, 1.0);
    out.clip = u.projection * u.view * world;
    out.world_pos = world.xyz;
    out.normal = (u.normal * vec4<f32>(normal, 0.0)).xyz;
    return out;
}

@fragment
fn fs_main(v: VertexOut) -> @location(0) vec4<f32> {
    if (u.object_color.w < 0.5) {
        return vec4<f32>(u.light_color.rgb, 1.0);
    }
    let n = normalize(v.normal);
    let light_dir = normalize(u.light_position.xyz - v.world_pos);
    let view_dir = normalize(u.view_position.xyz - v.world_pos);
    let reflect_dir = reflect(-light_dir, n);

    let ambient = 0.1 * u.light_color.rgb;
    let diffuse = max(dot(n, light_dir), 0.0) * u.light_color.rgb;
    let specular = 0.5 * pow(max(dot(view_dir, reflect_dir), 0.0), 32.0) * u.light_color.rgb;
    return vec4<f32>((ambient + diffuse + specular) * u.object_color.rgb, 1.0);
}
`

type cubeVertex struct {
	Position mgl32.Vec3 `flycam:"layout" location:"0" format:"float3"`
	Normal   mgl32.Vec3 `flycam:"layout" location:"1" format:"float3"`
}

// Unit cube centred on the origin, four vertices per face so normals stay flat.
var cubeVertices = []cubeVertex{
	// front
	{mgl32.Vec3{-0.5, -0.5, 0.5}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0.5, -0.5, 0.5}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{-0.5, 0.5, 0.5}, mgl32.Vec3{0, 0, 1}},
	// back
	{mgl32.Vec3{0.5, -0.5, -0.5}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{-0.5, 0.5, -0.5}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0.5, 0.5, -0.5}, mgl32.Vec3{0, 0, -1}},
	// left
	{mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{-1, 0, 0}},
	{mgl32.Vec3{-0.5, -0.5, 0.5}, mgl32.Vec3{-1, 0, 0}},
	{mgl32.Vec3{-0.5, 0.5, 0.5}, mgl32.Vec3{-1, 0, 0}},
	{mgl32.Vec3{-0.5, 0.5, -0.5}, mgl32.Vec3{-1, 0, 0}},
	// right
	{mgl32.Vec3{0.5, -0.5, 0.5}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0.5, -0.5, -0.5}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0.5, 0.5, -0.5}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}},
	// top
	{mgl32.Vec3{-0.5, 0.5, 0.5}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0.5, 0.5, -0.5}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-0.5, 0.5, -0.5}, mgl32.Vec3{0, 1, 0}},
	// bottom
	{mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0.5, -0.5, -0.5}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0.5, -0.5, 0.5}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{-0.5, -0.5, 0.5}, mgl32.Vec3{0, -1, 0}},
}

var cubeIndices = cubeFaceIndices(6)

// cubeFaceIndices splits each quad into two counter-clockwise triangles.
func cubeFaceIndices(faces int) []uint16 {
	indices := make([]uint16, 0, faces*6)
	for f := 0; f < faces; f++ {
		base := uint16(f * 4)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return indices
}

// cubePipeline is created on first use and shared by every cube.
func (g *GpuState) cubePipeline() (*wgpu.RenderPipeline, error) {
	if g.cube != nil {
		return g.cube, nil
	}
	pipeline, err := createRenderPipeline("cube", cubeShader, cubeVertex{}, g)
	if err != nil {
		return nil, err
	}
	g.cube = pipeline
	return pipeline, nil
}

// CubeRenderable draws one cube per frame into the current pass. It owns its
// buffers and bind group; the pipeline belongs to GpuState.
type CubeRenderable struct {
	// Model places the cube; the spin rotation is applied on top of it.
	Model    mgl32.Mat4
	Material Material
	// Spin rotates the cube about its own Y axis, in degrees per second.
	Spin float32

	angle float32 // degrees, kept in [0, 360)

	gpu        *GpuState
	pipeline   *wgpu.RenderPipeline
	vertexBuf  *wgpu.Buffer
	indexBuf   *wgpu.Buffer
	uniformBuf *wgpu.Buffer
	bindGroup  *wgpu.BindGroup
	indexCount uint32
}

func NewCubeRenderable(gpu *GpuState, model mgl32.Mat4, material Material) (*CubeRenderable, error) {
	pipeline, err := gpu.cubePipeline()
	if err != nil {
		return nil, err
	}

	c := &CubeRenderable{
		Model:      model,
		Material:   material,
		gpu:        gpu,
		pipeline:   pipeline,
		indexCount: uint32(len(cubeIndices)),
	}

	c.vertexBuf, c.indexBuf, err = createVertexIndexBuffers(cubeVertices, cubeIndices, gpu.device)
	if err != nil {
		return nil, err
	}
	c.uniformBuf, err = createUniformBuffer("cube uniforms", uniformBytes, gpu.device)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.bindGroup, err = createBindGroup(pipeline, 0, []*wgpu.Buffer{c.uniformBuf}, gpu.device)
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// World is the model matrix drawn this frame: Model rotated by the current
// spin angle.
func (c *CubeRenderable) World() mgl32.Mat4 {
	if c.angle == 0 {
		return c.Model
	}
	return c.Model.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(c.angle)))
}

func (c *CubeRenderable) Render(f flycam.Frame) error {
	if c.Spin != 0 {
		c.angle = math32.Mod(c.angle+c.Spin*f.Dt, 360)
		if c.angle < 0 {
			c.angle += 360
		}
	}

	pass := c.gpu.Pass()
	if pass == nil || c.bindGroup == nil {
		return nil
	}

	if err := c.gpu.queue.WriteBuffer(c.uniformBuf, 0, wgpu.ToBytes(PackUniforms(f, c.World(), c.Material))); err != nil {
		return fmt.Errorf("write cube uniforms: %w", err)
	}

	pass.SetPipeline(c.pipeline)
	pass.SetBindGroup(0, c.bindGroup, nil)
	pass.SetVertexBuffer(0, c.vertexBuf, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(c.indexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	pass.DrawIndexed(c.indexCount, 1, 0, 0, 0)
	return nil
}

// Close releases the cube's GPU objects. It is safe to call more than once.
func (c *CubeRenderable) Close() {
	if c.bindGroup != nil {
		c.bindGroup.Release()
		c.bindGroup = nil
	}
	for _, buf := range []**wgpu.Buffer{&c.uniformBuf, &c.indexBuf, &c.vertexBuf} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
}
