// Command raylib_view is a lightweight preview of the scene. It is a separate
// binary because raylib links its own copy of GLFW.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli/v2"

	"spaceinvaders/config"
	"spaceinvaders/core"
	"spaceinvaders/logging"
	"spaceinvaders/rendering/raylib"
)

func main() {
	runtime.LockOSThread()

	app := &cli.App{
		Name:  "raylib_view",
		Usage: "preview the space invader scene with raylib",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Aliases: []string{"c"},
				Usage:   "load settings from `FILE`",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "seed for the point field",
			},
			&cli.IntFlag{
				Name:  "max-points",
				Usage: "draw at most this many points, 0 draws all",
				Value: raylib.DefaultMaxPoints,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := logging.NewLogger("raylib_view")

	settings, err := config.Load(c.String("settings"), logger)
	if err != nil {
		return err
	}
	if c.IsSet("seed") {
		settings.Galaxy.Seed = c.Int64("seed")
	}

	cfg, err := settings.PointFieldConfig()
	if err != nil {
		return err
	}
	field, err := core.GeneratePointField(cfg, core.NewSeededSource(settings.Seed()))
	if err != nil {
		return err
	}

	viewer := raylib.NewViewer(settings, logger)
	defer viewer.Close()

	viewer.SetField(field, c.Int("max-points"))
	viewer.Run()
	return nil
}
