package behavior

// Forces weighs each steering behaviour.
type Forces struct {
	Seek       float64 `json:"seek" yaml:"seek"`
	Alignment  float64 `json:"alignment" yaml:"alignment"`
	Separation float64 `json:"separation" yaml:"separation"`
	Collision  float64 `json:"collision" yaml:"collision"`
	Cohesion   float64 `json:"cohesion" yaml:"cohesion"`
	Wander     float64 `json:"wander" yaml:"wander"`
}

// DefaultForces returns the stock weights.
func DefaultForces() Forces {
	return Forces{
		Seek:       10,
		Alignment:  10,
		Separation: 20,
		Collision:  50,
		Cohesion:   5,
		Wander:     3,
	}
}

// Params holds the settings shared by every agent of the flock.
type Params struct {
	Speed        float64 `json:"speed" yaml:"speed"`
	Acceleration float64 `json:"acceleration" yaml:"acceleration"`
	MaxSteering  float64 `json:"maxSteering" yaml:"maxSteering"`

	// Each agent draws a multiplier in [Min, Max] at creation.
	SpeedMultiplierMin float64 `json:"speedMultiplierMin" yaml:"speedMultiplierMin"`
	SpeedMultiplierMax float64 `json:"speedMultiplierMax" yaml:"speedMultiplierMax"`

	SpawnHalfExtent  float64 `json:"spawnHalfExtent" yaml:"spawnHalfExtent"`
	PerceptionRadius float64 `json:"perceptionRadius" yaml:"perceptionRadius"`

	FireCooldown float64 `json:"fireCooldown" yaml:"fireCooldown"` // seconds between shots
	HitChance    float64 `json:"hitChance" yaml:"hitChance"`       // probability a shot explodes its target

	Forces Forces `json:"forces" yaml:"forces"`
}

// DefaultParams returns the stock flock settings.
func DefaultParams() Params {
	speed := 2.0
	acceleration := speed / 2.5
	return Params{
		Speed:              speed,
		Acceleration:       acceleration,
		MaxSteering:        acceleration / 20,
		SpeedMultiplierMin: 1,
		SpeedMultiplierMax: 1,
		SpawnHalfExtent:    250,
		PerceptionRadius:   15,
		FireCooldown:       0.25,
		HitChance:          0.025,
		Forces:             DefaultForces(),
	}
}

// Tuning is the part of Params that can change while the flock is flying.
type Tuning struct {
	Forces       Forces  `json:"forces" yaml:"forces"`
	FireCooldown float64 `json:"fireCooldown" yaml:"fireCooldown"`
	HitChance    float64 `json:"hitChance" yaml:"hitChance"`
}

// Tuning extracts the live tunables.
func (p Params) Tuning() Tuning {
	return Tuning{Forces: p.Forces, FireCooldown: p.FireCooldown, HitChance: p.HitChance}
}

// WithTuning returns a copy of p carrying t, for agents spawned later.
func (p Params) WithTuning(t Tuning) Params {
	p.Forces = t.Forces
	p.FireCooldown = t.FireCooldown
	p.HitChance = t.HitChance
	return p
}
