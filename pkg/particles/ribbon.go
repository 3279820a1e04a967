package particles

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
)

// VerticesPerRibbon is the number of vertices each ribbon contributes to a RibbonMesh.
const VerticesPerRibbon = 4

var quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// RibbonParticle is a beam stretched between a trailing Start and a leading End.
type RibbonParticle struct {
	Lifetime
	Start, End geometry.Vec3
	Velocity   geometry.Vec3
	Length     float64 // maximum visible length of the beam
	Width      float64
	Colors     [2]Color // gradient from birth to death
	Color      Color    // current colour, refreshed every update
}

// RibbonMesh is the per-frame projection of every live ribbon. Each ribbon is a
// quad of VerticesPerRibbon vertices drawn as two triangles.
type RibbonMesh struct {
	Positions []float32 // xyz per vertex
	Colors    []float32 // rgb per vertex
	UVs       []float32 // uv per vertex
	Indices   []uint32  // 6 per ribbon
}

// VertexCount returns the number of vertices in the mesh.
func (m RibbonMesh) VertexCount() int {
	return len(m.Positions) / 3
}

// RibbonBuffer is the particle pool for ribbons.
type RibbonBuffer struct {
	particles pool[RibbonParticle, *RibbonParticle]
	mesh      RibbonMesh
}

// NewRibbonBuffer returns an empty buffer.
func NewRibbonBuffer() *RibbonBuffer {
	return &RibbonBuffer{}
}

// Create appends a live ribbon at the origin. Fill in velocity, lifetime and
// colours before the next Update.
func (b *RibbonBuffer) Create() *RibbonParticle {
	p := b.particles.create()
	p.Alive = true
	p.Width = 1
	return p
}

// Len returns the number of live ribbons.
func (b *RibbonBuffer) Len() int {
	return b.particles.len()
}

// Each calls fn for every live ribbon in insertion order.
func (b *RibbonBuffer) Each(fn func(*RibbonParticle)) {
	for _, p := range b.particles.live {
		fn(p)
	}
}

// Update ages every ribbon, moves its leading end along the velocity, drags the
// trailing end so the beam never gets longer than Length, drops dead ribbons and
// regenerates the mesh.
func (b *RibbonBuffer) Update(dt float64, view View) {
	for _, p := range b.particles.live {
		p.Age(dt)
		p.End = p.End.Add(p.Velocity.Mul(dt))

		if geometry.DistanceSquared(p.End, p.Start) > p.Length*p.Length {
			dir := geometry.SafeNormalize(p.Velocity)
			p.Start = p.End.Sub(dir.Mul(p.Length))
		}
		p.Color = p.Colors[0].Lerp(p.Colors[1], p.Progress())
	}

	b.particles.compact()
	b.generateMesh(view.orIdentity())
}

// Mesh returns the buffers produced by the last Update. A new set of slices is
// allocated every Update, so a returned mesh is never modified afterwards.
func (b *RibbonBuffer) Mesh() RibbonMesh {
	return b.mesh
}

func (b *RibbonBuffer) generateMesh(view View) {
	n := b.particles.len()
	mesh := RibbonMesh{
		Positions: make([]float32, 0, n*VerticesPerRibbon*3),
		Colors:    make([]float32, 0, n*VerticesPerRibbon*3),
		UVs:       make([]float32, 0, n*VerticesPerRibbon*2),
		Indices:   make([]uint32, 0, n*len(quadIndices)),
	}

	var base uint32
	for _, p := range b.particles.live {
		for _, i := range quadIndices {
			mesh.Indices = append(mesh.Indices, base+i)
		}
		base += VerticesPerRibbon

		offset := screenFacingOffset(p.Start, p.End, view).Mul(p.Width)
		corners := [VerticesPerRibbon]geometry.Vec3{
			p.Start.Add(offset),
			p.Start.Sub(offset),
			p.End.Sub(offset),
			p.End.Add(offset),
		}
		for _, c := range corners {
			mesh.Positions = append(mesh.Positions, float32(c[0]), float32(c[1]), float32(c[2]))
		}

		mesh.UVs = append(mesh.UVs,
			0, 0,
			1, 0,
			1, 1,
			0, 1,
		)
		for range VerticesPerRibbon {
			mesh.Colors = p.Color.appendTo(mesh.Colors)
		}
	}
	b.mesh = mesh
}

// screenFacingOffset returns the world-space unit vector perpendicular to the
// beam as seen on screen.
func screenFacingOffset(start, end geometry.Vec3, view View) geometry.Vec3 {
	head := mgl64.TransformCoordinate(end, view.ModelView)
	tail := mgl64.TransformCoordinate(start, view.ModelView)

	dir := head.Sub(tail)
	dir[2] = 0
	dir = geometry.SafeNormalize(dir)

	up := geometry.Vec3{-dir[1], dir[0], 0}
	return geometry.SafeNormalize(mgl64.TransformNormal(up, view.CameraWorld))
}
