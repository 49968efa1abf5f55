package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"spaceinvaders/core"
	"spaceinvaders/logging"
)

func TestDefaultSettings(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())

	cfg, err := s.PointFieldConfig()
	require.NoError(t, err)
	assert.Equal(t, 1000000, cfg.Count)
	assert.Equal(t, 1.0, cfg.Radius)
	assert.Equal(t, 50.0, cfg.Spread)
	assert.Equal(t, "#13a4eb", cfg.InnerColor.Hex())
	assert.Equal(t, "#1180d3", cfg.OuterColor.Hex())
}

func TestLoadMissingFile(t *testing.T) {
	logger := logging.NewTestLogger(t)
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"), logger)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	s, err = Load("", logger)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{
			file:    "settings.json",
			content: `{"galaxy": {"count": 5000, "outerColor": "#ffffff"}, "server": {"port": 9090}}`,
		},
		{
			file: "settings.toml",
			content: `
[galaxy]
count = 5000
outerColor = "#ffffff"

[server]
port = 9090
`,
		},
		{
			file: "settings.yaml",
			content: `
galaxy:
  count: 5000
  outerColor: "#ffffff"
server:
  port: 9090
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			s, err := Load(path, logging.NewTestLogger(t))
			require.NoError(t, err)
			assert.Equal(t, 5000, s.Galaxy.Count)
			assert.Equal(t, "#ffffff", s.Galaxy.OuterColor)
			assert.Equal(t, 9090, s.Server.Port)

			// Untouched fields keep their defaults.
			assert.Equal(t, "#13A4EB", s.Galaxy.InnerColor)
			assert.Equal(t, 50.0, s.Galaxy.Spread)
			assert.Equal(t, 1280, s.Window.Width)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewTestLogger(t)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"galaxy": {`), 0o644))
	_, err := Load(bad, logger)
	assert.ErrorContains(t, err, "error parsing bad.json")

	unknown := filepath.Join(dir, "settings.ini")
	require.NoError(t, os.WriteFile(unknown, []byte("count=1"), 0o644))
	_, err = Load(unknown, logger)
	assert.ErrorContains(t, err, "unsupported settings format")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"galaxy": {"radius": 0}}`), 0o644))
	s, err := Load(invalid, logger)
	assert.ErrorContains(t, err, "galaxy.radius")
	assert.Equal(t, Default(), s)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"typo.json", `{"galaxy": {"cout": 5000}}`},
		{"typo.toml", "[galaxy]\ncout = 5000\n"},
		{"typo.yaml", "galaxy:\n  cout: 5000\n"},
		{"section.toml", "[galaxie]\ncount = 5000\n"},
		{"section.yml", "galaxie:\n  count: 5000\n"},
	}

	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			s, err := Load(path, logging.NewTestLogger(t))
			assert.ErrorContains(t, err, "error parsing "+tc.file)
			assert.Equal(t, Default(), s)
		})
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := Load(path, logging.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestValidateCollectsEveryError(t *testing.T) {
	s := Default()
	s.Galaxy.Count = -1
	s.Galaxy.Radius = 0
	s.Galaxy.Spread = -2
	s.Galaxy.InnerColor = "blue"
	s.Server.Port = 70000
	s.Window.Height = 0

	err := s.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 6)
	assert.ErrorIs(t, err, core.ErrInvalidColor)
}

func TestPointFieldConfigBadColor(t *testing.T) {
	s := Default()
	s.Galaxy.OuterColor = "#nothex"
	_, err := s.PointFieldConfig()
	assert.ErrorIs(t, err, core.ErrInvalidColor)
}

func TestSeed(t *testing.T) {
	s := Default()
	s.Galaxy.Seed = 99
	assert.Equal(t, int64(99), s.Seed())

	s.Galaxy.Seed = 0
	assert.NotZero(t, s.Seed())
}

func TestBuildScene(t *testing.T) {
	s := Default()
	s.Scene.FogEnabled = true
	s.Scene.SpinSeconds = 10
	s.Invader.CellSize = 0.5
	s.Invader.Color = "#ff0000"

	scene := s.BuildScene()
	assert.True(t, scene.Fog.Enabled)
	assert.Equal(t, 10*time.Second, scene.Spin.Duration)
	assert.Equal(t, 0.01, scene.PointSize)
	assert.Equal(t, "#ff0000", scene.InvaderColor.Hex())
	require.Len(t, scene.Invader, len(core.InvaderCells))
	assert.Equal(t, 0.5, scene.Invader[0].Size)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"galaxy": {"count": 10}}`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Settings, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logging.NewTestLogger(t), func(s Settings) {
			select {
			case changes <- s:
			default:
			}
		})
	}()

	// Keep rewriting until the watcher is up and reports the change.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case s := <-changes:
			if s.Galaxy.Count != 20 {
				continue
			}
			cancel()
			assert.NoError(t, <-done)
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte(`{"galaxy": {"count": 20}}`), 0o644))
		case <-deadline:
			t.Fatal("settings change was not observed")
		}
	}
}
