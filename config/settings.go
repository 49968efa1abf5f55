package config

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"spaceinvaders/core"
	"spaceinvaders/logging"
)

type Settings struct {
	Galaxy  GalaxySettings  `json:"galaxy" toml:"galaxy" yaml:"galaxy"`
	Invader InvaderSettings `json:"invader" toml:"invader" yaml:"invader"`
	Scene   SceneSettings   `json:"scene" toml:"scene" yaml:"scene"`
	Server  ServerSettings  `json:"server" toml:"server" yaml:"server"`
	Window  WindowSettings  `json:"window" toml:"window" yaml:"window"`
}

type GalaxySettings struct {
	Count      int     `json:"count" toml:"count" yaml:"count"`
	Radius     float64 `json:"radius" toml:"radius" yaml:"radius"`
	Spread     float64 `json:"spread" toml:"spread" yaml:"spread"`
	PointSize  float64 `json:"pointSize" toml:"pointSize" yaml:"pointSize"`
	InnerColor string  `json:"innerColor" toml:"innerColor" yaml:"innerColor"`
	OuterColor string  `json:"outerColor" toml:"outerColor" yaml:"outerColor"`
	Seed       int64   `json:"seed" toml:"seed" yaml:"seed"` // 0 picks a seed from the clock
}

type InvaderSettings struct {
	CellSize float64 `json:"cellSize" toml:"cellSize" yaml:"cellSize"`
	Color    string  `json:"color" toml:"color" yaml:"color"`
	Step     float64 `json:"step" toml:"step" yaml:"step"`
}

type SceneSettings struct {
	Background  string  `json:"background" toml:"background" yaml:"background"`
	FogEnabled  bool    `json:"fogEnabled" toml:"fogEnabled" yaml:"fogEnabled"`
	Exposure    float64 `json:"exposure" toml:"exposure" yaml:"exposure"`
	SpinSeconds float64 `json:"spinSeconds" toml:"spinSeconds" yaml:"spinSeconds"`
	SpinTarget  float64 `json:"spinTarget" toml:"spinTarget" yaml:"spinTarget"`
	EnableZoom  bool    `json:"enableZoom" toml:"enableZoom" yaml:"enableZoom"`
	Damping     float64 `json:"damping" toml:"damping" yaml:"damping"`
}

type ServerSettings struct {
	Port      int    `json:"port" toml:"port" yaml:"port"`
	StaticDir string `json:"staticDir" toml:"staticDir" yaml:"staticDir"`
}

type WindowSettings struct {
	Width  int    `json:"width" toml:"width" yaml:"width"`
	Height int    `json:"height" toml:"height" yaml:"height"`
	Title  string `json:"title" toml:"title" yaml:"title"`
}

// Default returns the settings of the space scene
func Default() Settings {
	return Settings{
		Galaxy: GalaxySettings{
			Count:      1000000,
			Radius:     1,
			Spread:     50,
			PointSize:  0.01,
			InnerColor: "#13A4EB",
			OuterColor: "#1180D3",
		},
		Invader: InvaderSettings{
			CellSize: core.DefaultCellSize,
			Color:    "#333333",
			Step:     core.InvaderStep,
		},
		Scene: SceneSettings{
			Background:  "#000000",
			FogEnabled:  false,
			Exposure:    0.4,
			SpinSeconds: 1000,
			SpinTarget:  5,
			EnableZoom:  false,
			Damping:     0.05,
		},
		Server: ServerSettings{
			Port: 8080,
		},
		Window: WindowSettings{
			Width:  1280,
			Height: 720,
			Title:  "Space Invaders 3D",
		},
	}
}

// Load reads settings from path on top of the defaults. A missing file is not
// an error. The format is picked from the extension.
func Load(path string, logger logging.Logger) (Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Infow("No settings file found, using defaults", "path", path)
			return settings, nil
		}
		return settings, err
	}

	if err := Decode(path, data, &settings); err != nil {
		return Default(), err
	}
	if err := settings.Validate(); err != nil {
		return Default(), errors.Wrapf(err, "invalid settings in %s", path)
	}

	logger.Infow("Loaded settings",
		"path", path,
		"count", settings.Galaxy.Count,
		"spread", settings.Galaxy.Spread)
	return settings, nil
}

// Decode unmarshals data into settings using the format of path's extension
func Decode(path string, data []byte, settings *Settings) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(settings)
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(settings)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document keeps the defaults
		if err = dec.Decode(settings); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return errors.Errorf("unsupported settings format %q", ext)
	}
	if err != nil {
		return errors.Wrapf(err, "error parsing %s", filepath.Base(path))
	}
	return nil
}

// Validate reports every invalid field at once
func (s Settings) Validate() error {
	var err error
	g := s.Galaxy
	if g.Count < 0 {
		err = multierr.Append(err, errors.Errorf("galaxy.count %d is negative", g.Count))
	}
	if !(g.Radius > 0) {
		err = multierr.Append(err, errors.Errorf("galaxy.radius %v must be positive", g.Radius))
	}
	if !(g.Spread > 0) {
		err = multierr.Append(err, errors.Errorf("galaxy.spread %v must be positive", g.Spread))
	}
	if !(g.PointSize > 0) {
		err = multierr.Append(err, errors.Errorf("galaxy.pointSize %v must be positive", g.PointSize))
	}
	for name, hex := range map[string]string{
		"galaxy.innerColor": g.InnerColor,
		"galaxy.outerColor": g.OuterColor,
		"invader.color":     s.Invader.Color,
		"scene.background":  s.Scene.Background,
	} {
		if _, cerr := core.ParseColor(hex); cerr != nil {
			err = multierr.Append(err, errors.Wrap(cerr, name))
		}
	}
	if !(s.Invader.CellSize > 0) {
		err = multierr.Append(err, errors.Errorf("invader.cellSize %v must be positive", s.Invader.CellSize))
	}
	if s.Scene.SpinSeconds < 0 {
		err = multierr.Append(err, errors.Errorf("scene.spinSeconds %v is negative", s.Scene.SpinSeconds))
	}
	if s.Scene.Damping < 0 || s.Scene.Damping > 1 {
		err = multierr.Append(err, errors.Errorf("scene.damping %v outside [0,1]", s.Scene.Damping))
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		err = multierr.Append(err, errors.Errorf("server.port %d out of range", s.Server.Port))
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		err = multierr.Append(err, errors.Errorf("window size %dx%d must be positive", s.Window.Width, s.Window.Height))
	}
	return err
}

// PointFieldConfig builds the generator configuration for the galaxy
func (s Settings) PointFieldConfig() (core.PointFieldConfig, error) {
	inner, err := core.ParseColor(s.Galaxy.InnerColor)
	if err != nil {
		return core.PointFieldConfig{}, errors.Wrap(err, "galaxy.innerColor")
	}
	outer, err := core.ParseColor(s.Galaxy.OuterColor)
	if err != nil {
		return core.PointFieldConfig{}, errors.Wrap(err, "galaxy.outerColor")
	}
	return core.PointFieldConfig{
		Count:      s.Galaxy.Count,
		Radius:     s.Galaxy.Radius,
		Spread:     s.Galaxy.Spread,
		InnerColor: inner,
		OuterColor: outer,
	}, nil
}

// Seed returns the configured seed, or one derived from the clock when unset
func (s Settings) Seed() int64 {
	if s.Galaxy.Seed != 0 {
		return s.Galaxy.Seed
	}
	return time.Now().UnixNano()
}

// BuildScene builds the scene description. Colors are assumed valid; call
// Validate first.
func (s Settings) BuildScene() core.Scene {
	scene := core.DefaultScene()
	if c, err := core.ParseColor(s.Scene.Background); err == nil {
		scene.Background = c
	}
	if c, err := core.ParseColor(s.Invader.Color); err == nil {
		scene.InvaderColor = c
	}
	scene.Fog.Enabled = s.Scene.FogEnabled
	scene.Exposure = s.Scene.Exposure
	scene.PointSize = s.Galaxy.PointSize
	scene.Spin = core.Spin{
		Duration: time.Duration(s.Scene.SpinSeconds * float64(time.Second)),
		Target:   s.Scene.SpinTarget,
	}
	scene.Invader = core.BuildInvader(core.InvaderCells, s.Invader.CellSize, core.Vector3{})
	return scene
}
