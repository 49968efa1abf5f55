package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"spaceinvaders/analysis"
	"spaceinvaders/config"
	"spaceinvaders/core"
	"spaceinvaders/gpu"
	"spaceinvaders/logging"
	"spaceinvaders/pointcloud"
	"spaceinvaders/rendering/opengl"
	"spaceinvaders/server"
)

// loadSettings reads the settings file and applies the command line overrides
func loadSettings(c *cli.Context, logger logging.Logger) (config.Settings, error) {
	settings, err := config.Load(c.String(flagSettings), logger)
	if err != nil {
		return settings, err
	}
	applyOverrides(c, &settings)
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// generate builds the field described by settings
func generate(settings config.Settings, logger logging.Logger) (*core.PointField, int64, error) {
	cfg, err := settings.PointFieldConfig()
	if err != nil {
		return nil, 0, err
	}
	seed := settings.Seed()
	start := time.Now()
	field, err := core.GeneratePointField(cfg, core.NewSeededSource(seed))
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to generate point field")
	}
	logger.Infow("Generated point field", "count", field.Count(), "seed", seed, "took", time.Since(start))
	return field, seed, nil
}

func viewAction(c *cli.Context, logger logging.Logger) error {
	settings, err := loadSettings(c, logger)
	if err != nil {
		return err
	}
	field, _, err := generate(settings, logger)
	if err != nil {
		return err
	}

	renderer, err := opengl.NewPointRenderer(settings, logger)
	if err != nil {
		return errors.Wrap(err, "failed to create renderer")
	}
	defer renderer.Terminate()

	renderer.SetField(gpu.NewPointBuffers(field))

	logger.Info("Controls: drag to orbit, left/right arrows move the invader, ESC exits")
	renderer.Run()
	return nil
}

func serveAction(c *cli.Context, logger logging.Logger) error {
	settings, err := loadSettings(c, logger)
	if err != nil {
		return err
	}
	path := c.String(flagSettings)
	if c.Bool(flagWatch) && path == "" {
		return errors.New("--watch needs --settings")
	}
	addr := c.String(flagAddr)
	if addr == "" {
		addr = ":" + strconv.Itoa(settings.Server.Port)
	}

	hub, err := server.NewHub(settings, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, addr, hub, logger)
	})

	if c.Bool(flagWatch) {
		g.Go(func() error {
			return config.Watch(ctx, path, logger, func(next config.Settings) {
				applyOverrides(c, &next)
				if err := hub.Apply(next); err != nil {
					logger.Warnw("Ignoring reloaded settings", "error", err)
					return
				}
				header := hub.Header()
				logger.Infow("Applied reloaded settings",
					"count", header.Count,
					"generation", header.Generation)
			})
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// applyOverrides applies the flags that take precedence over the settings file
func applyOverrides(c *cli.Context, settings *config.Settings) {
	if c.IsSet(flagSeed) {
		settings.Galaxy.Seed = c.Int64(flagSeed)
	}
	if c.IsSet(flagCount) {
		settings.Galaxy.Count = c.Int(flagCount)
	}
	if c.IsSet(flagStatic) {
		settings.Server.StaticDir = c.String(flagStatic)
	}
}

func exportAction(c *cli.Context, logger logging.Logger) error {
	settings, err := loadSettings(c, logger)
	if err != nil {
		return err
	}
	field, _, err := generate(settings, logger)
	if err != nil {
		return err
	}

	pcdType := pointcloud.PCDBinary
	if c.Bool(flagASCII) {
		pcdType = pointcloud.PCDAscii
	}
	out := c.String(flagOut)
	if err := pointcloud.WritePCDFile(field, out, pcdType); err != nil {
		return errors.Wrapf(err, "failed to export %s", out)
	}
	logger.Infow("Exported point cloud", "path", out, "points", field.Count())
	return nil
}

func statsAction(c *cli.Context, logger logging.Logger) error {
	settings, err := loadSettings(c, logger)
	if err != nil {
		return err
	}
	field, seed, err := generate(settings, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "seed %d\n", seed)
	fmt.Fprintln(c.App.Writer, analysis.Summarize(field).Table())
	return nil
}
