package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli/v2"

	"spaceinvaders/logging"
)

const (
	flagSettings = "settings"
	flagSeed     = "seed"
	flagCount    = "count"
	flagDebug    = "debug"
	flagAddr     = "addr"
	flagStatic   = "static"
	flagWatch    = "watch"
	flagOut      = "out"
	flagASCII    = "ascii"
)

func main() {
	// GLFW must run on the main thread
	runtime.LockOSThread()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var logger logging.Logger

	return &cli.App{
		Name:  "spaceinvaders",
		Usage: "a space invader floating in a galaxy of a million points",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagSettings,
				Aliases: []string{"c"},
				Usage:   "load settings from `FILE` (json, toml or yaml)",
			},
			&cli.Int64Flag{
				Name:  flagSeed,
				Usage: "seed for the point field, overrides the settings file",
			},
			&cli.IntFlag{
				Name:  flagCount,
				Usage: "number of points, overrides the settings file",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = logging.NewDebugLogger("spaceinvaders")
			} else {
				logger = logging.NewLogger("spaceinvaders")
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "view",
				Usage: "open the native OpenGL viewer",
				Action: func(c *cli.Context) error {
					return viewAction(c, logger)
				},
			},
			{
				Name:  "serve",
				Usage: "stream the field to browsers over WebSocket",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagAddr,
						Usage: "listen address, defaults to the port in the settings",
					},
					&cli.StringFlag{
						Name:  flagStatic,
						Usage: "serve the browser client from `DIR`",
					},
					&cli.BoolFlag{
						Name:  flagWatch,
						Usage: "reload the settings file when it changes",
					},
				},
				Action: func(c *cli.Context) error {
					return serveAction(c, logger)
				},
			},
			{
				Name:  "export",
				Usage: "write the field as a PCD point cloud",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagOut,
						Usage:    "output `FILE`",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  flagASCII,
						Usage: "write ascii PCD instead of binary",
					},
				},
				Action: func(c *cli.Context) error {
					return exportAction(c, logger)
				},
			},
			{
				Name:  "stats",
				Usage: "print statistics of a generated field",
				Action: func(c *cli.Context) error {
					return statsAction(c, logger)
				},
			},
		},
	}
}
