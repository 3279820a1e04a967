// Package spatial buckets moving entities into a uniform grid laid over the X/Z
// footprint of the world, so neighbour lookups only scan nearby cells.
package spatial

import (
	"math"
	"slices"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
)

// Locatable is anything the grid can bucket.
type Locatable interface {
	Position() geometry.Vec3
}

// Cell identifies one bucket of the grid. X indexes columns, Z indexes rows.
type Cell struct {
	X, Z int
}

// Obstacle is a static item every agent must steer around. It is not bucketed:
// collision queries always see the whole list.
type Obstacle struct {
	Position    geometry.Vec3
	Bounds      geometry.AABB
	QuickRadius float64       // beyond this distance the ray test is skipped
	Direction   geometry.Vec3 // unused for motion
}

// Grid maps entity ids to cells. Each indexed id lives in exactly one cell, the
// one matching the position it last reported through UpdateItem.
//
// Grid is not safe for concurrent use; the world steps agents one after the other.
type Grid[K comparable, T Locatable] struct {
	min, max   geometry.Vec3
	cols, rows int
	cellSizeX  float64
	cellSizeZ  float64
	cells      [][]map[K]T
	where      map[K]Cell // cell each indexed id is filed in

	// obstacles is replaced, never mutated in place, so a slice handed out by
	// Obstacles stays valid after later registrations.
	obstacles []Obstacle
}

// NewGrid creates a grid covering the X/Z footprint between min and max with
// cols x rows cells. The Y components of the bounds are ignored.
func NewGrid[K comparable, T Locatable](min, max geometry.Vec3, cols, rows int) *Grid[K, T] {
	cols = max1(cols)
	rows = max1(rows)

	cells := make([][]map[K]T, cols)
	for x := range cells {
		cells[x] = make([]map[K]T, rows)
		for z := range cells[x] {
			cells[x][z] = make(map[K]T)
		}
	}

	return &Grid[K, T]{
		min:       min,
		max:       max,
		cols:      cols,
		rows:      rows,
		cellSizeX: math.Abs(max[0]-min[0]) / float64(cols),
		cellSizeZ: math.Abs(max[2]-min[2]) / float64(rows),
		cells:     cells,
		where:     make(map[K]Cell),
	}
}

// Dimensions returns the number of columns and rows.
func (g *Grid[K, T]) Dimensions() (cols, rows int) {
	return g.cols, g.rows
}

// Bounds returns the corners the grid was built with.
func (g *Grid[K, T]) Bounds() (min, max geometry.Vec3) {
	return g.min, g.max
}

// Len returns the number of indexed entities.
func (g *Grid[K, T]) Len() int {
	return len(g.where)
}

// CellOf maps a position to its cell. Positions outside the bounds land in the
// outermost cell.
func (g *Grid[K, T]) CellOf(p geometry.Vec3) Cell {
	x := normalizeAxis(p[0], g.min[0], g.max[0])
	z := normalizeAxis(p[2], g.min[2], g.max[2])

	return Cell{
		X: int(math.Floor(x * float64(g.cols-1))),
		Z: int(math.Floor(z * float64(g.rows-1))),
	}
}

// UpdateItem files entity under id in the cell matching its current position and
// returns that cell. Pass the cell returned by the previous call as previous (nil
// on the first call): when the entity has not changed cell this is a no-op.
// A nil or stale previous is tolerated: the grid remembers where each id is
// filed and moves it from there.
func (g *Grid[K, T]) UpdateItem(id K, entity T, previous *Cell) Cell {
	c := g.CellOf(entity.Position())
	if previous != nil && *previous == c {
		return c
	}

	if old, ok := g.where[id]; ok && old != c {
		delete(g.cells[old.X][old.Z], id)
	}
	g.cells[c.X][c.Z][id] = entity
	g.where[id] = c
	return c
}

// GetLocalEntities returns every indexed entity strictly closer than radius to
// position, excluding anything sitting exactly on position (an entity never
// sees itself). Order is unspecified.
func (g *Grid[K, T]) GetLocalEntities(position geometry.Vec3, radius float64) []T {
	if radius <= 0 {
		return nil
	}

	center := g.CellOf(position)
	span := g.searchSpan(radius)

	xMin := max(center.X-span, 0)
	zMin := max(center.Z-span, 0)
	xMax := min(center.X+span, g.cols-1)
	zMax := min(center.Z+span, g.rows-1)

	radiusSq := radius * radius
	var local []T

	for x := xMin; x <= xMax; x++ {
		for z := zMin; z <= zMax; z++ {
			for _, e := range g.cells[x][z] {
				distSq := geometry.DistanceSquared(e.Position(), position)
				if distSq != 0 && distSq < radiusSq {
					local = append(local, e)
				}
			}
		}
	}
	return local
}

// AddGlobalItem registers a static obstacle visible to every collision query.
func (g *Grid[K, T]) AddGlobalItem(o Obstacle) {
	next := make([]Obstacle, len(g.obstacles), len(g.obstacles)+1)
	copy(next, g.obstacles)
	g.obstacles = append(next, o)
}

// GetGlobalItems returns a copy of the registered obstacles.
func (g *Grid[K, T]) GetGlobalItems() []Obstacle {
	return slices.Clone(g.obstacles)
}

// Obstacles returns the current obstacle snapshot without copying.
// Callers must treat it as read-only.
func (g *Grid[K, T]) Obstacles() []Obstacle {
	return g.obstacles
}

// searchSpan is the half-width, in cells, of the window a radius query scans.
func (g *Grid[K, T]) searchSpan(radius float64) int {
	cellSize := math.Min(g.cellSizeX, g.cellSizeZ)
	if cellSize <= 0 {
		// Degenerate footprint: everything sits in the first row/column anyway.
		return max(g.cols, g.rows)
	}
	return int(math.Ceil(radius / cellSize))
}

// normalizeAxis maps v from [lo, hi] to [0, 1], saturating outside values.
func normalizeAxis(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return geometry.Saturate((lo - v) / (lo - hi))
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
