// Package behavior implements the steering agents of the flock.
package behavior

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/spatial"
)

// Faction tells allies from enemies. Two agents are allies iff their factions are equal.
type Faction int

// Index is the spatial grid agents register themselves in.
type Index = spatial.Grid[uuid.UUID, *Agent]

// NewIndex creates an agent grid over the X/Z footprint between min and max.
func NewIndex(min, max geometry.Vec3, cols, rows int) *Index {
	return spatial.NewGrid[uuid.UUID, *Agent](min, max, cols, rows)
}

// Environment is what an agent needs from the world around it during a step.
type Environment interface {
	// Index returns the grid holding every agent and the static obstacles.
	Index() *Index
	// FireProjectile spawns a beam from the shooter along its direction.
	FireProjectile(shooter *Agent)
	// Explode spawns an explosion on the target. The target is not removed.
	Explode(target *Agent)
}

// Agent is a single boid of the space flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// https://en.wikipedia.org/wiki/Boids
// Here each agent also belongs to a faction, seeks that faction's goal and
// shoots at enemies it meets.
type Agent struct {
	id      uuid.UUID
	faction Faction
	goal    geometry.Vec3

	position    geometry.Vec3
	velocity    geometry.Vec3
	direction   geometry.Vec3
	orientation mgl64.Quat

	maxSpeed     float64
	maxSteering  float64
	acceleration float64
	radius       float64
	perception   float64

	forces       Forces
	fireCooldown float64
	fireInterval float64
	hitChance    float64
	wanderAngle  float64
	steering     geometry.Vec3 // last clamped steering force

	cell *spatial.Cell // cell returned by the last UpdateItem
	rng  *rand.Rand
}

// New creates an agent of faction f seeking goal, with a random position inside
// the spawn cube and a random heading. The speed multiplier drawn from the
// params scales speed, steering and acceleration, and shrinks the radius.
func New(f Faction, goal geometry.Vec3, p Params, rng *rand.Rand) *Agent {
	mult := p.SpeedMultiplierMin
	if p.SpeedMultiplierMax > p.SpeedMultiplierMin {
		mult = geometry.RandRange(rng, p.SpeedMultiplierMin, p.SpeedMultiplierMax)
	}
	if mult <= 0 {
		mult = 1
	}

	a := &Agent{
		id:           uuid.New(),
		faction:      f,
		goal:         goal,
		orientation:  mgl64.QuatIdent(),
		maxSpeed:     p.Speed * mult,
		maxSteering:  p.MaxSteering * mult,
		acceleration: p.Acceleration * mult,
		radius:       1 / mult,
		perception:   p.PerceptionRadius,
		forces:       p.Forces,
		fireInterval: p.FireCooldown,
		hitChance:    p.HitChance,
		rng:          rng,
	}

	position := geometry.RandomInCube(rng, p.SpawnHalfExtent)
	// Per-axis uniforms, not a true spherical distribution.
	velocity := geometry.RandomInCube(rng, 1)
	a.SetState(position, velocity)
	return a
}

// SetState teleports the agent. Direction and orientation follow the velocity.
// Call Reindex afterwards if the agent is already registered.
func (a *Agent) SetState(position, velocity geometry.Vec3) {
	a.position = position
	a.velocity = velocity
	a.direction = geometry.SafeNormalize(velocity)
	a.orient()
}

// Reindex files the agent in the grid cell matching its position.
func (a *Agent) Reindex(index *Index) {
	c := index.UpdateItem(a.id, a, a.cell)
	a.cell = &c
}

func (a *Agent) orient() {
	if a.direction.LenSqr() == 0 {
		return
	}
	a.orientation = mgl64.QuatBetweenVectors(geometry.Up, a.direction)
}

// Tune swaps the steering weights and combat settings of a flying agent.
// A pending cooldown longer than the new interval is cut short.
func (a *Agent) Tune(t Tuning) {
	a.forces = t.Forces
	a.fireInterval = t.FireCooldown
	a.hitChance = t.HitChance
	a.fireCooldown = min(a.fireCooldown, a.fireInterval)
}

// ID returns the key the agent is indexed under.
func (a *Agent) ID() uuid.UUID { return a.id }

// Faction returns the side the agent fights for.
func (a *Agent) Faction() Faction { return a.faction }

// Goal returns the point the agent seeks.
func (a *Agent) Goal() geometry.Vec3 { return a.goal }

// Position returns where the agent is.
func (a *Agent) Position() geometry.Vec3 { return a.position }

// Velocity returns the displacement applied by the last step.
func (a *Agent) Velocity() geometry.Vec3 { return a.velocity }

// Direction is the unit velocity, or zero when the agent is at rest.
func (a *Agent) Direction() geometry.Vec3 { return a.direction }

// Orientation rotates the model's up axis onto Direction.
// It keeps its last value while the agent is at rest.
func (a *Agent) Orientation() mgl64.Quat { return a.orientation }

// MaxSpeed is the per step speed cap, after the multiplier.
func (a *Agent) MaxSpeed() float64 { return a.maxSpeed }

// MaxSteering caps the length of the summed steering force.
func (a *Agent) MaxSteering() float64 { return a.maxSteering }

// Radius is the body size used by separation.
func (a *Agent) Radius() float64 { return a.radius }

// PerceptionRadius bounds the neighbour query.
func (a *Agent) PerceptionRadius() float64 { return a.perception }

// LastSteering returns the clamped force applied by the last step.
func (a *Agent) LastSteering() geometry.Vec3 { return a.steering }

// Cell returns the grid cell the agent is filed in, false before the first Reindex.
func (a *Agent) Cell() (spatial.Cell, bool) { return derefCell(a.cell) }

// IsAlly reports whether other flies for the same faction.
func (a *Agent) IsAlly(other *Agent) bool { return a.faction == other.faction }

// FireCooldownRemaining is the time left, in seconds, before the next shot.
func (a *Agent) FireCooldownRemaining() float64 { return a.fireCooldown }

// Tuning returns the live weights and combat settings.
func (a *Agent) Tuning() Tuning {
	return Tuning{Forces: a.forces, FireCooldown: a.fireInterval, HitChance: a.hitChance}
}

func derefCell(c *spatial.Cell) (spatial.Cell, bool) {
	if c == nil {
		return spatial.Cell{}, false
	}
	return *c, true
}

// Step advances the agent by dt seconds:
// perceive, fight, steer, integrate, then re-register in the grid.
func (a *Agent) Step(dt float64, env Environment) {
	index := env.Index()

	neighbours := index.GetLocalEntities(a.position, a.perception)
	allies, enemies := a.partition(neighbours)

	a.engage(dt, enemies, env)

	sum := Separation(a, neighbours, a.forces.Separation).
		Add(Alignment(allies, a.forces.Alignment)).
		Add(Cohesion(allies, a.forces.Cohesion)).
		Add(Seek(a.position, a.goal, a.forces.Seek)).
		Add(a.wander()).
		Add(CollisionAvoidance(a.position, a.direction, index.Obstacles(), a.forces.Collision))

	a.steering, _ = geometry.ClampLength(sum.Mul(a.acceleration*dt), a.maxSteering)

	a.velocity, _ = geometry.ClampLength(a.velocity.Add(a.steering), a.maxSpeed)
	a.direction = geometry.SafeNormalize(a.velocity)

	a.position = a.position.Add(a.velocity.Mul(dt))
	a.orient()
	a.Reindex(index)
}

func (a *Agent) partition(neighbours []*Agent) (allies, enemies []*Agent) {
	for _, n := range neighbours {
		if a.IsAlly(n) {
			allies = append(allies, n)
		} else {
			enemies = append(enemies, n)
		}
	}
	return allies, enemies
}

func (a *Agent) wander() geometry.Vec3 {
	a.wanderAngle += wanderStep * geometry.RandRange(a.rng, -2*math.Pi, 2*math.Pi)
	return Wander(a.direction, a.wanderAngle, a.forces.Wander)
}
