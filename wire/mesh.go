package wire

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Edge indexes two vertices of a Mesh.
type Edge [2]int

// Mesh is a wireframe: points in model space joined by edges.
type Mesh struct {
	Vertices []mgl32.Vec3
	Edges    []Edge
}

// CubeMesh returns an axis-aligned cube of the given edge length centred on
// the origin.
func CubeMesh(size float32) Mesh {
	h := size / 2
	return Mesh{
		Vertices: []mgl32.Vec3{
			{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
			{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
		},
		Edges: []Edge{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
			{4, 5}, {5, 6}, {6, 7}, {7, 4},
			{0, 4}, {1, 5}, {2, 6}, {3, 7},
		},
	}
}

// GridMesh returns a square grid on the XZ plane with lines every step units
// out to extent in each direction.
func GridMesh(extent float32, step float32) Mesh {
	var m Mesh
	if step <= 0 || extent <= 0 {
		return m
	}
	n := int(extent / step)
	for i := -n; i <= n; i++ {
		o := float32(i) * step
		base := len(m.Vertices)
		m.Vertices = append(m.Vertices,
			mgl32.Vec3{o, 0, -extent}, mgl32.Vec3{o, 0, extent},
			mgl32.Vec3{-extent, 0, o}, mgl32.Vec3{extent, 0, o},
		)
		m.Edges = append(m.Edges, Edge{base, base + 1}, Edge{base + 2, base + 3})
	}
	return m
}

// BoundingRadius is the distance from the model origin to the farthest vertex.
func (m Mesh) BoundingRadius() float32 {
	var r float32
	for _, v := range m.Vertices {
		if l := v.Len(); l > r {
			r = l
		}
	}
	return r
}
