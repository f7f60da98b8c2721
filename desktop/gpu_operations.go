package desktop

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
)

// Vertex structs describe their layout with tags:
//
//	Position mgl32.Vec3 `flycam:"layout" location:"0" format:"float3"`
//
// Untagged fields still advance the offset.
func createVertexBufferLayout(vertexType any) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("Vertex must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64 = 0

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if "layout" == field.Tag.Get("flycam") {
			format := parseFormat(field.Tag.Get("format"))
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if nil != err {
				panic(err)
			}

			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         format,
			})
		}

		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}
}

func parseFormat(name string) wgpu.VertexFormat {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2
	case "float3":
		return wgpu.VertexFormatFloat32x3
	case "float4":
		return wgpu.VertexFormatFloat32x4
	default:
		panic("unsupported vertex layout format: " + name)
	}
}

// createRenderPipeline builds a depth-tested triangle pipeline drawing into
// the surface format. Bind group layouts are derived from the shader.
func createRenderPipeline(name string, shaderCode string, vertexType any, gpu *GpuState) (*wgpu.RenderPipeline, error) {
	shader, err := gpu.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderCode},
	})
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", name, err)
	}
	defer shader.Release()

	vertexBufferLayout := createVertexBufferLayout(vertexType)

	pipeline, err := gpu.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: name,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    gpu.surfaceConfig.Format,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", name, err)
	}
	return pipeline, nil
}

func createVertexIndexBuffers[V any](vertices []V, indices []uint16, device *wgpu.Device) (vertexBuf *wgpu.Buffer, indexBuf *wgpu.Buffer, err error) {
	vertexBuf, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Vertex Buffer",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, nil, err
	}
	indexBuf, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Index Buffer",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vertexBuf.Release()
		return nil, nil, err
	}
	return vertexBuf, indexBuf, nil
}

func createUniformBuffer(name string, size uint64, device *wgpu.Device) (*wgpu.Buffer, error) {
	return device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name,
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
}

// createBindGroup binds buffers to consecutive bindings of one group.
func createBindGroup(pipeline *wgpu.RenderPipeline, groupId uint32, buffers []*wgpu.Buffer, device *wgpu.Device) (*wgpu.BindGroup, error) {
	bindGroupLayout := pipeline.GetBindGroupLayout(groupId)
	defer bindGroupLayout.Release()

	entries := make([]wgpu.BindGroupEntry, len(buffers))
	for i, buffer := range buffers {
		entries[i] = wgpu.BindGroupEntry{
			Binding: uint32(i),
			Buffer:  buffer,
			Size:    wgpu.WholeSize,
		}
	}

	return device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  bindGroupLayout,
		Entries: entries,
	})
}
