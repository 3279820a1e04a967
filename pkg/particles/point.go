package particles

import "github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"

// VerticesPerPoint is the number of vertices each point contributes to a PointMesh.
const VerticesPerPoint = 1

// PointParticle is a single sprite. The buffer never moves it: whoever spawned
// it updates Position before calling PointBuffer.Update.
type PointParticle struct {
	Lifetime
	Position geometry.Vec3
	Velocity geometry.Vec3
	Colors   [2]Color
	Sizes    [2]float64
	Color    Color
	Size     float64
}

// PointMesh is the per-frame projection of every live point.
type PointMesh struct {
	Positions []float32 // xyz per point
	Colors    []float32 // rgb per point
	Sizes     []float32 // one per point
}

// VertexCount returns the number of vertices in the mesh.
func (m PointMesh) VertexCount() int {
	return len(m.Positions) / 3
}

// PointBuffer is the particle pool for point sprites.
type PointBuffer struct {
	particles pool[PointParticle, *PointParticle]
	mesh      PointMesh
}

// NewPointBuffer returns an empty buffer.
func NewPointBuffer() *PointBuffer {
	return &PointBuffer{}
}

// Create appends a live point at the origin with size 1.
func (b *PointBuffer) Create() *PointParticle {
	p := b.particles.create()
	p.Alive = true
	p.Size = 1
	return p
}

// Len returns the number of live points.
func (b *PointBuffer) Len() int {
	return b.particles.len()
}

// Each calls fn for every live point in insertion order.
func (b *PointBuffer) Each(fn func(*PointParticle)) {
	for _, p := range b.particles.live {
		fn(p)
	}
}

// Update drops dead points and regenerates the mesh.
func (b *PointBuffer) Update() {
	b.particles.compact()

	n := b.particles.len()
	mesh := PointMesh{
		Positions: make([]float32, 0, n*3),
		Colors:    make([]float32, 0, n*3),
		Sizes:     make([]float32, 0, n),
	}
	for _, p := range b.particles.live {
		mesh.Positions = append(mesh.Positions, float32(p.Position[0]), float32(p.Position[1]), float32(p.Position[2]))
		mesh.Colors = p.Color.appendTo(mesh.Colors)
		mesh.Sizes = append(mesh.Sizes, float32(p.Size))
	}
	b.mesh = mesh
}

// Mesh returns the buffers produced by the last Update.
func (b *PointBuffer) Mesh() PointMesh {
	return b.mesh
}
