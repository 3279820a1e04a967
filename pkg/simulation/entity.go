package simulation

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/particles"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/spatial"
)

// EventKind tells what happened.
type EventKind int

const (
	EventProjectileFired EventKind = iota + 1
	EventExplosion
)

func (k EventKind) String() string {
	switch k {
	case EventProjectileFired:
		return "projectile-fired"
	case EventExplosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// Event is a discrete trigger for the audio side, positioned for spatial playback.
type Event struct {
	Kind     EventKind
	Position geometry.Vec3
	Faction  behavior.Faction // shooter for a shot, target for an explosion
}

// Listener receives every event as it is raised, from inside Step.
type Listener func(Event)

// AgentState is a copy of what the renderer needs from an agent.
type AgentState struct {
	ID          uuid.UUID
	Faction     behavior.Faction
	Color       particles.Color
	Position    geometry.Vec3
	Velocity    geometry.Vec3
	Direction   geometry.Vec3
	Orientation mgl64.Quat
	Radius      float64
}

func newAgentState(a *behavior.Agent, c particles.Color) AgentState {
	return AgentState{
		ID:          a.ID(),
		Faction:     a.Faction(),
		Color:       c,
		Position:    a.Position(),
		Velocity:    a.Velocity(),
		Direction:   a.Direction(),
		Orientation: a.Orientation(),
		Radius:      a.Radius(),
	}
}

// WorldSnapshot is everything a frame needs, safe to hand to another goroutine.
// The meshes are shared with the world but never written after the Step that
// produced them.
type WorldSnapshot struct {
	Step      uint64
	Agents    []AgentState
	Ribbons   particles.RibbonMesh
	Points    particles.PointMesh
	Obstacles []spatial.Obstacle
	Events    []Event
}
