package behavior

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/spatial"
)

const epsilon = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6
}

// fakeEnv records combat calls instead of spawning particles.
type fakeEnv struct {
	index    *Index
	fired    []*Agent
	exploded []*Agent
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{index: NewIndex(geometry.Vec3{-500, 0, -500}, geometry.Vec3{500, 0, 500}, 100, 100)}
}

func (e *fakeEnv) Index() *Index                 { return e.index }
func (e *fakeEnv) FireProjectile(shooter *Agent) { e.fired = append(e.fired, shooter) }
func (e *fakeEnv) Explode(target *Agent)         { e.exploded = append(e.exploded, target) }

// spawn creates a registered agent at position with the given velocity.
func (e *fakeEnv) spawn(rng *rand.Rand, f Faction, goal, position, velocity geometry.Vec3, p Params) *Agent {
	a := New(f, goal, p, rng)
	a.SetState(position, velocity)
	a.Reindex(e.index)
	return a
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*31+7))
}

func TestNew(t *testing.T) {
	p := DefaultParams()
	p.SpeedMultiplierMin, p.SpeedMultiplierMax = 2, 2
	rng := newRand(1)

	for i := 0; i < 100; i++ {
		a := New(1, geometry.Vec3{10, 0, 0}, p, rng)

		for axis := 0; axis < 3; axis++ {
			if math.Abs(a.Position()[axis]) > p.SpawnHalfExtent {
				t.Fatalf("position %s outside the spawn cube", geometry.Format(a.Position()))
			}
		}
		if !floatEquals(a.Direction().Len(), 1) {
			t.Fatalf("direction %s is not a unit vector", geometry.Format(a.Direction()))
		}
		if !floatEquals(a.MaxSpeed(), 4) || !floatEquals(a.MaxSteering(), 2*p.MaxSteering) {
			t.Fatalf("multiplier not applied: maxSpeed=%v maxSteering=%v", a.MaxSpeed(), a.MaxSteering())
		}
		if !floatEquals(a.Radius(), 0.5) {
			t.Fatalf("Radius = %v; want 0.5", a.Radius())
		}
		if _, ok := a.Cell(); ok {
			t.Fatal("a new agent must not have a cached cell before Reindex")
		}
	}
}

func TestAgent_Orientation(t *testing.T) {
	a := New(0, geometry.Zero, DefaultParams(), newRand(2))

	dir := geometry.SafeNormalize(geometry.Vec3{1, 2, -3})
	a.SetState(geometry.Zero, dir.Mul(2))
	if got := a.Orientation().Rotate(geometry.Up); !floatEquals(got.Sub(dir).Len(), 0) {
		t.Errorf("orientation maps up to %s; want %s", geometry.Format(got), geometry.Format(dir))
	}

	// A zero velocity leaves the previous orientation alone.
	before := a.Orientation()
	a.SetState(geometry.Zero, geometry.Zero)
	if a.Orientation() != before {
		t.Errorf("orientation changed on zero velocity: %v -> %v", before, a.Orientation())
	}
}

func TestAgent_Step_Limits(t *testing.T) {
	env := newFakeEnv()
	rng := newRand(3)
	p := DefaultParams()
	p.SpeedMultiplierMin, p.SpeedMultiplierMax = 0.5, 1.5

	var agents []*Agent
	goals := []geometry.Vec3{{-100, -130, 80}, {50, -100, 100}}
	for i := 0; i < 60; i++ {
		f := Faction(i % 2)
		a := env.spawn(rng, f, goals[f], geometry.RandomInCube(rng, 10), geometry.RandomInCube(rng, 1), p)
		agents = append(agents, a)
	}
	env.index.AddGlobalItem(spatial.Obstacle{
		Position:    geometry.Vec3{5, 0, 5},
		Bounds:      geometry.NewAABB(geometry.Vec3{5, 0, 5}, geometry.Vec3{3, 3, 3}),
		QuickRadius: 200,
	})

	for step := 0; step < 200; step++ {
		for _, a := range agents {
			a.Step(1.0/60, env)

			if !geometry.IsFinite(a.Position()) || !geometry.IsFinite(a.Velocity()) {
				t.Fatalf("step %d: non finite state pos=%v vel=%v", step, a.Position(), a.Velocity())
			}
			if a.Velocity().Len() > a.MaxSpeed()+epsilon {
				t.Fatalf("step %d: speed %v exceeds max %v", step, a.Velocity().Len(), a.MaxSpeed())
			}
			if a.LastSteering().Len() > a.MaxSteering()+epsilon {
				t.Fatalf("step %d: steering %v exceeds max %v", step, a.LastSteering().Len(), a.MaxSteering())
			}
		}
	}

	if env.index.Len() != len(agents) {
		t.Errorf("index holds %d agents; want %d", env.index.Len(), len(agents))
	}
	for _, a := range agents {
		c, ok := a.Cell()
		if !ok || c != env.index.CellOf(a.Position()) {
			t.Fatalf("cached cell %v does not match position %s", c, geometry.Format(a.Position()))
		}
	}
}

func TestAgent_Step_SeekDominates(t *testing.T) {
	env := newFakeEnv()
	a := env.spawn(newRand(4), 0, geometry.Vec3{600, 0, 0}, geometry.Zero, geometry.Zero, DefaultParams())

	a.Step(1.0/60, env)

	if a.Velocity()[0] <= 0 {
		t.Errorf("velocity %s has no +X component", geometry.Format(a.Velocity()))
	}
	if a.Velocity().Len() > a.MaxSpeed()+epsilon {
		t.Errorf("speed %v exceeds max %v", a.Velocity().Len(), a.MaxSpeed())
	}
	if len(env.fired) != 0 {
		t.Errorf("a lone agent fired %d times", len(env.fired))
	}
}

func TestAgent_Step_CoincidentAgents(t *testing.T) {
	env := newFakeEnv()
	rng := newRand(5)
	p := DefaultParams()
	a := env.spawn(rng, 0, geometry.Vec3{-600, 0, 0}, geometry.Zero, geometry.Vec3{1, 0, 0}, p)
	b := env.spawn(rng, 1, geometry.Vec3{600, 0, 0}, geometry.Zero, geometry.Vec3{-1, 0, 0}, p)

	if f := Separation(a, []*Agent{b}, p.Forces.Separation); !geometry.IsFinite(f) {
		t.Fatalf("separation between coincident agents = %v", f)
	}

	for i := 0; i < 10; i++ {
		a.Step(1.0/60, env)
		b.Step(1.0/60, env)
	}
	for _, x := range []*Agent{a, b} {
		if !geometry.IsFinite(x.Position()) || !geometry.IsFinite(x.Velocity()) {
			t.Fatalf("non finite state pos=%v vel=%v", x.Position(), x.Velocity())
		}
	}
}

func TestAgent_Engage(t *testing.T) {
	env := newFakeEnv()
	rng := newRand(6)
	p := DefaultParams()
	p.HitChance = 1

	shooter := env.spawn(rng, 0, geometry.Zero, geometry.Zero, geometry.Vec3{1, 0, 0}, p)
	far := env.spawn(rng, 1, geometry.Zero, geometry.Vec3{0, 0, 10}, geometry.Vec3{1, 0, 0}, p)
	near := env.spawn(rng, 1, geometry.Zero, geometry.Vec3{0, 0, -4}, geometry.Vec3{1, 0, 0}, p)

	shooter.Step(1.0/60, env)

	if len(env.fired) != 1 || env.fired[0] != shooter {
		t.Fatalf("fired = %v; want exactly the shooter", env.fired)
	}
	if len(env.exploded) != 1 || env.exploded[0] != near {
		t.Fatalf("exploded the wrong target (far=%p near=%p got=%v)", far, near, env.exploded)
	}
	if !floatEquals(shooter.FireCooldownRemaining(), p.FireCooldown) {
		t.Errorf("cooldown = %v; want %v", shooter.FireCooldownRemaining(), p.FireCooldown)
	}

	// Still cooling down on the next frame.
	shooter.Step(1.0/60, env)
	if len(env.fired) != 1 {
		t.Errorf("fired again during cooldown: %d shots", len(env.fired))
	}
	if env.index.Len() != 3 {
		t.Errorf("targets must never be removed, index holds %d", env.index.Len())
	}
}

func TestAgent_Engage_AlliesOnly(t *testing.T) {
	env := newFakeEnv()
	rng := newRand(7)
	a := env.spawn(rng, 0, geometry.Zero, geometry.Zero, geometry.Vec3{1, 0, 0}, DefaultParams())
	env.spawn(rng, 0, geometry.Zero, geometry.Vec3{3, 0, 0}, geometry.Vec3{1, 0, 0}, DefaultParams())

	for i := 0; i < 30; i++ {
		a.Step(1.0/60, env)
	}
	if len(env.fired) != 0 {
		t.Errorf("shot at allies %d times", len(env.fired))
	}
}

func TestAgent_Tune(t *testing.T) {
	env := newFakeEnv()
	rng := newRand(8)
	p := DefaultParams()
	p.FireCooldown = 10
	p.HitChance = 0

	shooter := env.spawn(rng, 0, geometry.Zero, geometry.Zero, geometry.Vec3{1, 0, 0}, p)
	target := env.spawn(rng, 1, geometry.Zero, geometry.Vec3{0, 0, -4}, geometry.Vec3{1, 0, 0}, p)

	shooter.Step(1.0/60, env)
	if len(env.fired) != 1 || len(env.exploded) != 0 {
		t.Fatalf("fired=%d exploded=%d; want one miss", len(env.fired), len(env.exploded))
	}

	tuned := Tuning{Forces: DefaultForces(), FireCooldown: 0, HitChance: 1}
	tuned.Forces.Wander = 0
	shooter.Tune(tuned)

	if got := shooter.Tuning(); got != tuned {
		t.Errorf("Tuning() = %+v; want %+v", got, tuned)
	}
	if shooter.FireCooldownRemaining() != 0 {
		t.Errorf("cooldown %v not cut to the new interval", shooter.FireCooldownRemaining())
	}

	shooter.Step(1.0/60, env)
	if len(env.fired) != 2 {
		t.Fatalf("fired %d times; want a second shot right after tuning", len(env.fired))
	}
	if len(env.exploded) != 1 || env.exploded[0] != target {
		t.Errorf("exploded = %v; want the target hit with certainty", env.exploded)
	}
}

func TestParams_WithTuning(t *testing.T) {
	p := DefaultParams()
	tuned := Tuning{Forces: Forces{Seek: 1}, FireCooldown: 2, HitChance: 0.5}

	got := p.WithTuning(tuned)
	if got.Tuning() != tuned {
		t.Errorf("WithTuning kept %+v; want %+v", got.Tuning(), tuned)
	}
	if got.Speed != p.Speed || got.PerceptionRadius != p.PerceptionRadius {
		t.Error("WithTuning touched settings outside the tunables")
	}
	if p.Tuning() != DefaultParams().Tuning() {
		t.Error("WithTuning mutated the receiver")
	}
}
