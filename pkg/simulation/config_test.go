package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/particles"
)

func TestDefaultConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig is invalid: %v", err)
	}
	if cfg.Agents != 200 || len(cfg.Factions) != 2 {
		t.Errorf("unexpected defaults: agents=%d factions=%d", cfg.Agents, len(cfg.Factions))
	}
	if !floatEquals(cfg.Flock.Acceleration, 0.8) || !floatEquals(cfg.Flock.MaxSteering, 0.04) {
		t.Errorf("acceleration=%v maxSteering=%v; want 0.8 and 0.04", cfg.Flock.Acceleration, cfg.Flock.MaxSteering)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"Negative agents", func(c *Config) { c.Agents = -1 }},
		{"Zero frame time", func(c *Config) { c.MaxFrameTime = 0 }},
		{"No cells", func(c *Config) { c.Grid.Cols = 0 }},
		{"Flat grid", func(c *Config) { c.Grid.Max = geometry.Vec3{-500, 0, 500} }},
		{"Zero speed", func(c *Config) { c.Flock.Speed = 0 }},
		{"Inverted multiplier range", func(c *Config) { c.Flock.SpeedMultiplierMax = 0.5 }},
		{"Hit chance above one", func(c *Config) { c.Flock.HitChance = 2 }},
		{"Immortal projectiles", func(c *Config) { c.Projectile.Life = 0 }},
		{"Damping above one", func(c *Config) { c.Explosion.Damping = 1.5 }},
		{"No faction", func(c *Config) { c.Factions = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v; want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseConfig(t *testing.T) {
	// Empty document keeps every default.
	cfg, err := ParseConfig([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseConfig({}) failed: %v", err)
	}
	if cfg.Agents != 200 || cfg.Grid.Cols != 100 {
		t.Errorf("defaults lost: agents=%d cols=%d", cfg.Agents, cfg.Grid.Cols)
	}

	// Partial documents override only what they name.
	cfg, err = ParseConfig([]byte(`{"agents": 10, "flock": {"speed": 3}, "explosion": {"timeScaledDamping": true}}`))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.Agents != 10 || cfg.Flock.Speed != 3 || !cfg.Explosion.TimeScaledDamping {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Flock.PerceptionRadius != 15 || cfg.Explosion.Count != 128 {
		t.Errorf("untouched keys changed: perception=%v count=%d", cfg.Flock.PerceptionRadius, cfg.Explosion.Count)
	}
}

func TestParseConfig_Rejected(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"Not json", `agents: 3`},
		{"Negative agents", `{"agents": -1}`},
		{"Unknown key", `{"boids": 3}`},
		{"Wrong type", `{"agents": "many"}`},
		{"Short vector", `{"grid": {"min": [0, 0]}}`},
		{"No faction", `{"factions": []}`},
		{"Faction without goal", `{"factions": [{"name": "lost"}]}`},
		{"Flat grid", `{"grid": {"min": [0, 0, 0], "max": [0, 0, 10]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.doc)); err == nil {
				t.Errorf("ParseConfig(%s) succeeded; want an error", tt.doc)
			}
		})
	}
}

func TestLoadConfig_Formats(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "flock.json")
	yamlPath := filepath.Join(dir, "flock.yml")

	if err := os.WriteFile(jsonPath, []byte(`{"agents": 42, "seed": 7}`), 0o644); err != nil {
		t.Fatal(err)
	}
	yamlDoc := "agents: 42\nseed: 7\nfactions:\n  - name: solo\n    goal: [1, 2, 3]\n"
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	fromJSON, err := LoadConfig(jsonPath)
	if err != nil {
		t.Fatalf("LoadConfig(json) failed: %v", err)
	}
	fromYAML, err := LoadConfig(yamlPath)
	if err != nil {
		t.Fatalf("LoadConfig(yaml) failed: %v", err)
	}

	for name, cfg := range map[string]*Config{"json": fromJSON, "yaml": fromYAML} {
		if cfg.Agents != 42 || cfg.Seed != 7 {
			t.Errorf("%s: agents=%d seed=%d; want 42 and 7", name, cfg.Agents, cfg.Seed)
		}
	}
	if len(fromYAML.Factions) != 1 || !geometry.Eq(fromYAML.Factions[0].Goal, geometry.Vec3{1, 2, 3}) {
		t.Fatalf("yaml factions = %+v", fromYAML.Factions)
	}
	if fromYAML.Factions[0].Cruiser != nil {
		t.Errorf("yaml faction without cruiser key got %+v", *fromYAML.Factions[0].Cruiser)
	}
}

func TestParseConfig_FactionsReplaceDefaults(t *testing.T) {
	doc := `{"factions": [
		{"name": "solo", "goal": [1, 2, 3]},
		{"name": "teal", "goal": [0, 0, 0], "color": {"r": 0, "g": 2, "b": 2},
		 "cruiser": {"halfExtents": [5, 5, 5], "quickRadius": 20}}
	]}`
	cfg, err := ParseConfig([]byte(doc))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if len(cfg.Factions) != 2 {
		t.Fatalf("got %d factions, want 2", len(cfg.Factions))
	}

	solo, teal := cfg.Factions[0], cfg.Factions[1]
	if solo.Cruiser != nil {
		t.Errorf("solo has cruiser %+v, declared none", *solo.Cruiser)
	}
	if solo.Color != (particles.Color{R: 1, G: 1, B: 1}) {
		t.Errorf("solo color = %+v, want white", solo.Color)
	}
	if teal.Color != (particles.Color{R: 0, G: 2, B: 2}) {
		t.Errorf("teal color = %+v, want the declared one", teal.Color)
	}
	if teal.Cruiser == nil || !geometry.Eq(teal.Cruiser.HalfExtents, geometry.Vec3{5, 5, 5}) || teal.Cruiser.QuickRadius != 20 {
		t.Errorf("teal cruiser = %+v", teal.Cruiser)
	}

	w, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	obstacles := w.Index().Obstacles()
	if len(obstacles) != 1 {
		t.Fatalf("got %d obstacles, want only the teal cruiser", len(obstacles))
	}
	if !geometry.Eq(obstacles[0].Position, teal.Goal) {
		t.Errorf("cruiser parked at %s, want %s", geometry.Format(obstacles[0].Position), geometry.Format(teal.Goal))
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("agents: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadConfig on a missing file succeeded")
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("LoadConfig on broken yaml succeeded")
	}
}

func TestLoadConfig_Shipped(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadConfig(filepath.Join("..", "..", "configs", name))
			if err != nil {
				t.Fatalf("LoadConfig(%s) failed: %v", name, err)
			}
			if len(cfg.Factions) < 2 {
				t.Errorf("%s defines %d factions", name, len(cfg.Factions))
			}
		})
	}
}
