package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/particles"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

//go:embed config.schema.json
var configSchema []byte

const configSchemaURL = "https://github.com/lao-tseu-is-alive/go-space-flock/config.schema.json"

// Config holds everything needed to build a World.
type Config struct {
	// Population
	Agents int `json:"agents" yaml:"agents"`
	// Seed drives every random draw of the world. 0 picks a random seed.
	Seed uint64 `json:"seed" yaml:"seed"`

	// MaxFrameTime caps the dt of a single Step, in seconds.
	MaxFrameTime float64 `json:"maxFrameTime" yaml:"maxFrameTime"`

	Flock      behavior.Params            `json:"flock" yaml:"flock"`
	Grid       GridConfig                 `json:"grid" yaml:"grid"`
	Projectile particles.ProjectileConfig `json:"projectile" yaml:"projectile"`
	Explosion  particles.ExplosionConfig  `json:"explosion" yaml:"explosion"`
	Factions   []FactionConfig            `json:"factions" yaml:"factions"`
}

// GridConfig sets the spatial index footprint. Only X and Z of the bounds matter.
type GridConfig struct {
	Min  geometry.Vec3 `json:"min" yaml:"min"`
	Max  geometry.Vec3 `json:"max" yaml:"max"`
	Cols int           `json:"cols" yaml:"cols"`
	Rows int           `json:"rows" yaml:"rows"`
}

// FactionConfig describes one side of the fight.
// Agents of a faction seek its goal and shoot beams of its colour.
type FactionConfig struct {
	Name  string          `json:"name" yaml:"name"`
	Goal  geometry.Vec3   `json:"goal" yaml:"goal"`
	Color particles.Color `json:"color" yaml:"color"`
	// Cruiser, when set, is an obstacle parked on the goal.
	// A faction read from a config file only has one if it declares it.
	Cruiser *CruiserConfig `json:"cruiser,omitempty" yaml:"cruiser,omitempty"`
}

// UnmarshalJSON decodes a faction from scratch: keys left out of the document
// take the faction defaults (white, no cruiser), never the values of the
// default faction at the same index.
func (f *FactionConfig) UnmarshalJSON(doc []byte) error {
	type plain FactionConfig
	p := plain{Color: particles.Color{R: 1, G: 1, B: 1}}
	if err := json.Unmarshal(doc, &p); err != nil {
		return err
	}
	*f = FactionConfig(p)
	return nil
}

// CruiserConfig is the box every agent steers around.
type CruiserConfig struct {
	HalfExtents geometry.Vec3 `json:"halfExtents" yaml:"halfExtents"`
	QuickRadius float64       `json:"quickRadius" yaml:"quickRadius"`
}

// DefaultConfig returns the stock two faction battle.
func DefaultConfig() *Config {
	cruiser := func() *CruiserConfig {
		return &CruiserConfig{HalfExtents: geometry.Vec3{30, 15, 60}, QuickRadius: 200}
	}
	return &Config{
		Agents:       200,
		MaxFrameTime: 0.1,
		Flock:        behavior.DefaultParams(),
		Grid: GridConfig{
			Min:  geometry.Vec3{-500, 0, -500},
			Max:  geometry.Vec3{500, 0, 500},
			Cols: 100,
			Rows: 100,
		},
		Projectile: particles.DefaultProjectileConfig(),
		Explosion:  particles.DefaultExplosionConfig(),
		Factions: []FactionConfig{
			{
				Name:    "blue",
				Goal:    geometry.Vec3{-100, -130, 80},
				Color:   particles.Color{R: 0.5, G: 0.5, B: 4},
				Cruiser: cruiser(),
			},
			{
				Name:    "red",
				Goal:    geometry.Vec3{50, -100, 100},
				Color:   particles.Color{R: 4, G: 0.5, B: 0.5},
				Cruiser: cruiser(),
			},
		},
	}
}

// Validate checks the ranges the schema cannot express.
func (c *Config) Validate() error {
	switch {
	case c.Agents < 0:
		return fmt.Errorf("%w: agents must be >= 0, got %d", ErrInvalidConfig, c.Agents)
	case c.MaxFrameTime <= 0:
		return fmt.Errorf("%w: maxFrameTime must be > 0, got %v", ErrInvalidConfig, c.MaxFrameTime)
	case c.Grid.Cols < 1 || c.Grid.Rows < 1:
		return fmt.Errorf("%w: grid needs at least one cell, got %dx%d", ErrInvalidConfig, c.Grid.Cols, c.Grid.Rows)
	case c.Grid.Max[0] <= c.Grid.Min[0] || c.Grid.Max[2] <= c.Grid.Min[2]:
		return fmt.Errorf("%w: grid max %s must exceed min %s on X and Z",
			ErrInvalidConfig, geometry.Format(c.Grid.Max), geometry.Format(c.Grid.Min))
	case c.Flock.Speed <= 0:
		return fmt.Errorf("%w: flock.speed must be > 0, got %v", ErrInvalidConfig, c.Flock.Speed)
	case c.Flock.PerceptionRadius <= 0:
		return fmt.Errorf("%w: flock.perceptionRadius must be > 0, got %v", ErrInvalidConfig, c.Flock.PerceptionRadius)
	case c.Flock.SpeedMultiplierMin <= 0 || c.Flock.SpeedMultiplierMax < c.Flock.SpeedMultiplierMin:
		return fmt.Errorf("%w: flock speed multiplier range [%v, %v] is empty or not positive",
			ErrInvalidConfig, c.Flock.SpeedMultiplierMin, c.Flock.SpeedMultiplierMax)
	case c.Flock.FireCooldown < 0:
		return fmt.Errorf("%w: flock.fireCooldown must be >= 0, got %v", ErrInvalidConfig, c.Flock.FireCooldown)
	case c.Flock.HitChance < 0 || c.Flock.HitChance > 1:
		return fmt.Errorf("%w: flock.hitChance must be in [0, 1], got %v", ErrInvalidConfig, c.Flock.HitChance)
	case c.Projectile.Life <= 0:
		return fmt.Errorf("%w: projectile.life must be > 0, got %v", ErrInvalidConfig, c.Projectile.Life)
	case c.Explosion.Count < 0 || c.Explosion.Life <= 0:
		return fmt.Errorf("%w: explosion needs count >= 0 and life > 0", ErrInvalidConfig)
	case c.Explosion.Damping < 0 || c.Explosion.Damping > 1:
		return fmt.Errorf("%w: explosion.damping must be in [0, 1], got %v", ErrInvalidConfig, c.Explosion.Damping)
	case len(c.Factions) == 0:
		return fmt.Errorf("%w: at least one faction is required", ErrInvalidConfig)
	}
	for i, f := range c.Factions {
		if f.Cruiser != nil && f.Cruiser.QuickRadius < 0 {
			return fmt.Errorf("%w: factions[%d].cruiser.quickRadius must be >= 0", ErrInvalidConfig, i)
		}
	}
	return nil
}

// LoadConfig reads a JSON or YAML file (by extension), validates it against the
// embedded schema and applies it over DefaultConfig, so omitted keys keep
// their default value.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err = yamlToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	}
	return ParseConfig(raw)
}

// ParseConfig validates a JSON document and applies it over DefaultConfig.
func ParseConfig(doc []byte) (*Config, error) {
	sch, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(doc, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(configSchemaURL, bytes.NewReader(configSchema)); err != nil {
		return nil, err
	}
	return c.Compile(configSchemaURL)
}

// yamlToJSON re-encodes a YAML document as JSON so a single schema and a single
// set of struct tags cover both formats.
func yamlToJSON(doc []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(doc, &v); err != nil {
		return nil, err
	}
	if v == nil {
		v = map[string]interface{}{}
	}
	return json.Marshal(v)
}
