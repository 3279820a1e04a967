package behavior

import "github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"

// engage fires at the enemies in sight once the cooldown has run out.
// A shot never travels to its target: with probability hitChance the nearest
// enemy explodes on the spot and keeps flying.
func (a *Agent) engage(dt float64, enemies []*Agent, env Environment) {
	a.fireCooldown -= dt
	if len(enemies) == 0 || a.fireCooldown > 0 {
		return
	}

	env.FireProjectile(a)
	if a.rng.Float64() < a.hitChance {
		env.Explode(nearest(a.position, enemies))
	}
	a.fireCooldown = a.fireInterval
}

func nearest(p geometry.Vec3, agents []*Agent) *Agent {
	var best *Agent
	bestSq := 0.0
	for _, o := range agents {
		d := geometry.DistanceSquared(p, o.position)
		if best == nil || d < bestSq {
			best, bestSq = o, d
		}
	}
	return best
}
