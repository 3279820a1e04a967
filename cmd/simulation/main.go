package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/viewer"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

func main() {
	configFile := flag.String("config", "", "JSON or YAML config file (defaults are used when empty)")
	debug := flag.Bool("debug", false, "log every event and the step rate")
	flag.Parse()

	ctx := context.Background()

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

	world, err := simulation.New(cfg, logger)
	if err != nil {
		stdlog.Fatal(err)
	}
	world.Populate()

	system, err := actor.NewActorSystem("SpaceFlock", actor.WithLogger(logger))
	if err != nil {
		stdlog.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		stdlog.Fatal(err)
	}
	defer func() { _ = system.Stop(ctx) }()

	game, err := viewer.NewGame(ctx, system, world, screenWidth, screenHeight)
	if err != nil {
		stdlog.Fatal(err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Space Flock")
	if err := ebiten.RunGame(game); err != nil {
		stdlog.Fatal(err)
	}
}
