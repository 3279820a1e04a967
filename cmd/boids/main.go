// Command boids runs the flock without a window and prints what happened.
package main

import (
	"flag"
	stdlog "log"
	"os"
	"time"

	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/simulation"
)

func main() {
	steps := flag.Int("steps", 600, "number of steps to run")
	dt := flag.Float64("dt", 1.0/60, "seconds per step")
	configFile := flag.String("config", "", "JSON or YAML config file (defaults are used when empty)")
	debug := flag.Bool("debug", false, "log every event")
	flag.Parse()

	level := log.InfoLevel
	if *debug {
		level = log.DebugLevel
	}
	logger := log.New(level, os.Stdout)

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			stdlog.Fatal(err)
		}
	}

	counts := map[simulation.EventKind]int{}
	world, err := simulation.New(cfg, logger, simulation.WithListener(func(e simulation.Event) {
		counts[e.Kind]++
	}))
	if err != nil {
		stdlog.Fatal(err)
	}
	world.Populate()

	start := time.Now()
	for i := 0; i < *steps; i++ {
		world.Step(*dt)
	}
	elapsed := time.Since(start)

	var centroid geometry.Vec3
	for _, a := range world.Agents() {
		centroid = centroid.Add(a.Position())
	}
	if n := len(world.Agents()); n > 0 {
		centroid = centroid.Mul(1 / float64(n))
	}

	logger.Infof("Ran %d steps in %s (%.0f steps/sec)", world.Steps(), elapsed, float64(*steps)/elapsed.Seconds())
	logger.Infof("Agents: %d | centroid %s", len(world.Agents()), geometry.Format(centroid))
	logger.Infof("Live beams: %d | live sparks: %d", world.Projectiles().Len(), world.Explosions().Len())
	logger.Infof("Shots fired: %d | explosions: %d", counts[simulation.EventProjectileFired], counts[simulation.EventExplosion])
}
