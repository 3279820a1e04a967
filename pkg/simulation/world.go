// Package simulation runs the space flock: it owns the agents, their spatial
// index and the particle effects, and steps them all once per frame.
package simulation

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/particles"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/spatial"
)

// Option customizes a World.
type Option func(*World)

// WithListener registers fn to receive every event.
func WithListener(fn Listener) Option {
	return func(w *World) {
		w.listeners = append(w.listeners, fn)
	}
}

// WithRand replaces the random source, overriding Config.Seed.
func WithRand(rng *rand.Rand) Option {
	return func(w *World) {
		w.rng = rng
	}
}

// World is the authoritative simulation state.
// It is not safe for concurrent use: drive it from a single goroutine (see WorldActor).
type World struct {
	cfg Config
	log log.Logger
	rng *rand.Rand

	index       *behavior.Index
	agents      []*behavior.Agent
	projectiles *particles.ProjectileEffect
	explosions  *particles.ExplosionEffect
	view        particles.View

	events    []Event
	listeners []Listener
	steps     uint64
}

var _ behavior.Environment = (*World)(nil)

// New builds an empty world: the grid, the effects and the cruiser obstacles,
// but no agents yet (see Populate and AddAgent). A nil logger discards logs.
func New(cfg *Config, logger log.Logger, opts ...Option) (*World, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.DiscardLogger
	}

	w := &World{
		cfg:   *cfg,
		log:   logger,
		index: behavior.NewIndex(cfg.Grid.Min, cfg.Grid.Max, cfg.Grid.Cols, cfg.Grid.Rows),
		view:  particles.IdentityView(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		w.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	w.projectiles = particles.NewProjectileEffect(cfg.Projectile)
	w.explosions = particles.NewExplosionEffect(cfg.Explosion, w.rng)

	w.log.Infof("World created: grid %dx%d over %s..%s, %d factions",
		cfg.Grid.Cols, cfg.Grid.Rows, geometry.Format(cfg.Grid.Min), geometry.Format(cfg.Grid.Max), len(cfg.Factions))

	for _, f := range cfg.Factions {
		if f.Cruiser == nil {
			continue
		}
		w.AddObstacle(spatial.Obstacle{
			Position:    f.Goal,
			Bounds:      geometry.NewAABB(f.Goal, f.Cruiser.HalfExtents),
			QuickRadius: f.Cruiser.QuickRadius,
			Direction:   geometry.Vec3{0, 0, 1},
		})
	}
	return w, nil
}

// AddObstacle registers a static obstacle. It is seen by every agent from the next step on.
func (w *World) AddObstacle(o spatial.Obstacle) {
	w.index.AddGlobalItem(o)
	w.log.Infof("Obstacle registered at %s (quick radius %.0f)", geometry.Format(o.Position), o.QuickRadius)
}

// AddAgent spawns one agent of faction f at a random place of the spawn cube.
func (w *World) AddAgent(f behavior.Faction) (*behavior.Agent, error) {
	if int(f) < 0 || int(f) >= len(w.cfg.Factions) {
		return nil, fmt.Errorf("unknown faction %d, have %d", f, len(w.cfg.Factions))
	}
	a := behavior.New(f, w.cfg.Factions[f].Goal, w.cfg.Flock, w.rng)
	a.Reindex(w.index)
	w.agents = append(w.agents, a)
	return a, nil
}

// Populate spawns Config.Agents agents, dealt round robin to the factions.
func (w *World) Populate() {
	for i := 0; i < w.cfg.Agents; i++ {
		// The faction index is always in range here.
		_, _ = w.AddAgent(behavior.Faction(i % len(w.cfg.Factions)))
	}
	w.log.Infof("Spawned %d agents in %d factions", w.cfg.Agents, len(w.cfg.Factions))
}

// Tuning returns the steering weights and combat settings agents currently fly with.
func (w *World) Tuning() behavior.Tuning {
	return w.cfg.Flock.Tuning()
}

// Tune applies t to every agent and to the ones spawned later.
// Out of range settings are rejected with ErrInvalidConfig and nothing changes.
func (w *World) Tune(t behavior.Tuning) error {
	cfg := w.cfg
	cfg.Flock = cfg.Flock.WithTuning(t)
	if err := cfg.Validate(); err != nil {
		return err
	}

	w.cfg.Flock = cfg.Flock
	for _, a := range w.agents {
		a.Tune(t)
	}
	w.log.Debugf("Flock tuned: forces %+v, fire cooldown %.2fs, hit chance %.3f",
		t.Forces, t.FireCooldown, t.HitChance)
	return nil
}

// SetView gives the camera used to orient projectile ribbons from the next step on.
func (w *World) SetView(v particles.View) {
	w.view = v
}

// Step advances the world by dt seconds, capped to Config.MaxFrameTime.
// Effects move first, then every agent in insertion order.
func (w *World) Step(dt float64) {
	dt = min(max(dt, 0), w.cfg.MaxFrameTime)
	w.events = nil

	w.projectiles.Update(dt, w.view)
	w.explosions.Update(dt)

	for _, a := range w.agents {
		a.Step(dt, w)
	}
	w.steps++
}

// Index implements behavior.Environment.
func (w *World) Index() *behavior.Index {
	return w.index
}

// FireProjectile implements behavior.Environment.
func (w *World) FireProjectile(shooter *behavior.Agent) {
	w.projectiles.Fire(shooter.Position(), shooter.Direction(), w.factionColor(shooter.Faction()))
	w.emit(Event{Kind: EventProjectileFired, Position: shooter.Position(), Faction: shooter.Faction()})
}

// Explode implements behavior.Environment.
func (w *World) Explode(target *behavior.Agent) {
	w.explosions.Splode(target.Position())
	w.emit(Event{Kind: EventExplosion, Position: target.Position(), Faction: target.Faction()})
}

func (w *World) emit(e Event) {
	w.events = append(w.events, e)
	w.log.Debugf("%s at %s (faction %d)", e.Kind, geometry.Format(e.Position), e.Faction)
	for _, fn := range w.listeners {
		fn(e)
	}
}

func (w *World) factionColor(f behavior.Faction) particles.Color {
	if int(f) < 0 || int(f) >= len(w.cfg.Factions) {
		return particles.Color{R: 1, G: 1, B: 1}
	}
	return w.cfg.Factions[f].Color
}

// Agents returns the live agents in step order. The slice must not be modified.
func (w *World) Agents() []*behavior.Agent {
	return w.agents
}

// Events returns what happened during the last Step.
func (w *World) Events() []Event {
	return w.events
}

// Steps returns how many times Step ran.
func (w *World) Steps() uint64 {
	return w.steps
}

// Config returns a copy of the configuration the world was built with.
func (w *World) Config() Config {
	return w.cfg
}

// Projectiles exposes the beam effect.
func (w *World) Projectiles() *particles.ProjectileEffect {
	return w.projectiles
}

// Explosions exposes the burst effect.
func (w *World) Explosions() *particles.ExplosionEffect {
	return w.explosions
}

// Snapshot copies the agent states and the events, and shares the meshes
// produced by the last Step.
func (w *World) Snapshot() *WorldSnapshot {
	snap := &WorldSnapshot{
		Step:      w.steps,
		Agents:    make([]AgentState, 0, len(w.agents)),
		Ribbons:   w.projectiles.Mesh(),
		Points:    w.explosions.Mesh(),
		Obstacles: w.index.Obstacles(),
		Events:    slices.Clone(w.events),
	}
	for _, a := range w.agents {
		snap.Agents = append(snap.Agents, newAgentState(a, w.factionColor(a.Faction())))
	}
	return snap
}
