package behavior

import (
	"math"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/spatial"
)

const (
	// separationFloor keeps the push finite when two agents overlap.
	separationFloor = 0.001
	// separationPadding scales the summed radii subtracted from the distance.
	separationPadding = 1.5

	seekDeadZone = 50.0
	seekFalloff  = 500.0

	wanderStep     = 0.1
	wanderLookhead = 5.0
)

// Separation pushes self away from every neighbour, allies and enemies alike.
// The push grows as the gap between the two bodies shrinks.
func Separation(self *Agent, neighbours []*Agent, weight float64) geometry.Vec3 {
	var force geometry.Vec3
	for _, n := range neighbours {
		away := self.position.Sub(n.position)
		dist := math.Max(away.Len()-separationPadding*(self.radius+n.radius), separationFloor)
		force = force.Add(geometry.SafeNormalize(away).Mul(weight / dist))
	}
	return force
}

// Alignment steers along the allies' mean heading.
func Alignment(allies []*Agent, weight float64) geometry.Vec3 {
	return meanHeading(allies).Mul(weight)
}

// Cohesion uses the same mean heading as Alignment, with its own weight.
// The two forces are therefore always parallel.
func Cohesion(allies []*Agent, weight float64) geometry.Vec3 {
	return meanHeading(allies).Mul(weight)
}

func meanHeading(allies []*Agent) geometry.Vec3 {
	var sum geometry.Vec3
	for _, a := range allies {
		sum = sum.Add(a.direction)
	}
	return geometry.SafeNormalize(sum)
}

// Seek pulls toward goal. The pull is nil within 50 units and grows with the
// square of the distance beyond that.
func Seek(position, goal geometry.Vec3, weight float64) geometry.Vec3 {
	toGoal := goal.Sub(position)
	k := math.Max(0, (toGoal.Len()-seekDeadZone)/seekFalloff)
	return geometry.SafeNormalize(toGoal).Mul(k * k * weight)
}

// Wander blends the heading with a point on the unit circle at angle.
func Wander(direction geometry.Vec3, angle, weight float64) geometry.Vec3 {
	circle := geometry.Vec3{math.Cos(angle), 0, math.Sin(angle)}
	return geometry.SafeNormalize(direction.Mul(wanderLookhead).Add(circle)).Mul(weight)
}

// CollisionAvoidance casts the heading against every obstacle close enough and
// steers away from the hit point, relative to the obstacle centre.
func CollisionAvoidance(position, direction geometry.Vec3, obstacles []spatial.Obstacle, weight float64) geometry.Vec3 {
	var force geometry.Vec3
	if direction.LenSqr() == 0 {
		return force
	}

	ray := geometry.Ray{Origin: position, Direction: direction}
	for _, o := range obstacles {
		if geometry.Distance(position, o.Position) > o.QuickRadius {
			continue
		}
		hit, ok := ray.IntersectBox(o.Bounds)
		if !ok {
			continue
		}
		toHit := geometry.SafeNormalize(hit.Sub(position))
		toCenter := geometry.SafeNormalize(o.Position.Sub(position))
		force = force.Add(geometry.SafeNormalize(toHit.Sub(toCenter)).Mul(weight))
	}
	return force
}
