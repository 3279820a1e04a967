package geometry

import "math"

// AABB is an axis-aligned bounding box given by its min and max corners.
type AABB struct {
	Min, Max Vec3
}

// NewAABB builds a box centred on center with the given half extents.
func NewAABB(center, halfExtents Vec3) AABB {
	return AABB{
		Min: center.Sub(halfExtents),
		Max: center.Add(halfExtents),
	}
}

// Center returns the middle point of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Corners returns the 8 corners, bottom face first.
func (b AABB) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
	}
}

// Ray is a half line starting at Origin and going along Direction.
// Direction does not need to be unit length.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectBox runs the slab test against b.
// It returns the first point where the ray enters the box, or the exit point
// when the origin is already inside. A ray with a zero direction never hits.
func (r Ray) IntersectBox(b AABB) (Vec3, bool) {
	if r.Direction.LenSqr() < Epsilon*Epsilon {
		return Vec3{}, false
	}

	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for i := 0; i < 3; i++ {
		o, d := r.Origin[i], r.Direction[i]
		if math.Abs(d) < Epsilon {
			// Parallel to this slab: miss unless the origin is between the planes.
			if o < b.Min[i] || o > b.Max[i] {
				return Vec3{}, false
			}
			continue
		}
		inv := 1 / d
		t1 := (b.Min[i] - o) * inv
		t2 := (b.Max[i] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return Vec3{}, false
		}
	}

	if tMax < 0 {
		// Box is behind the ray.
		return Vec3{}, false
	}
	if tMin >= 0 {
		return r.At(tMin), true
	}
	return r.At(tMax), true
}
