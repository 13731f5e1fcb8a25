package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/fieldrt/rt/platform"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	defaults := particlefield.DefaultFieldConfig()

	width := flag.Int("width", 1280, "Window width")
	height := flag.Int("height", 720, "Window height")
	debug := flag.Bool("debug", false, "Enable debug logging")
	count := flag.Int("particles", defaults.ParticleCount, "Number of particles in the sphere")
	stars := flag.Int("stars", defaults.StarCount, "Number of background stars")
	sprite := flag.String("sprite", "", "PNG used as particle sprite (procedural spark when empty)")
	seed := flag.Int64("seed", defaults.Seed, "Seed for point placement and colour jitter")
	flag.Parse()

	level := particlefield.LevelInfo
	if *debug {
		level = particlefield.LevelDebug
	}
	logger := particlefield.NewStreamLogger("particlefield", level, os.Stdout, os.Stderr)

	cfg := defaults
	cfg.ParticleCount = *count
	cfg.StarCount = *stars
	cfg.SpritePath = *sprite
	cfg.Seed = *seed

	if err := run(cfg, *width, *height, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg particlefield.FieldConfig, width, height int, logger particlefield.Logger) error {
	window, err := platform.NewWindow(width, height, "Particle Field", logger)
	if err != nil {
		return err
	}
	defer window.Destroy()

	clock := platform.NewFrameClock(window)
	app := particlefield.NewParticleField(cfg, window, clock, logger)
	if err := app.Mount(window); err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	defer app.Unmount()

	clock.Run()
	return nil
}
