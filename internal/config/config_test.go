package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"geodraw/internal/draw"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "start.wkt", "POLYGON((0 0, 1 0, 1 1, 0 0))\nPOINT(5 5)")
	path := writeFile(t, dir, "geodraw.toml", `
initial_mode = "select"
layer_ids = ["features", "handles"]
warm_up = true
features = "start.wkt"

[circle]
steps = 32

[log]
level = "debug"
`)
	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, draw.ModeSelect, f.InitialMode)
	require.Equal(t, []string{"features", "handles"}, f.LayerIDs)
	require.Equal(t, float64(draw.DefaultPickRadius), f.PickRadius)
	require.True(t, f.WarmUp)
	require.Equal(t, 32, f.Circle.Steps)
	require.Equal(t, filepath.Join(dir, "start.wkt"), f.Features)

	cfg, err := f.DrawConfig(logrus.New())
	require.NoError(t, err)
	require.Len(t, cfg.Features, 2)
	require.Equal(t, 32, cfg.CircleSteps)
	require.Equal(t, draw.GeneratorPolygon, cfg.Features[0].Properties.Generator)

	c, err := draw.New(nopSurface{}, nil, cfg)
	require.NoError(t, err)
	name, _ := c.Mode()
	require.Equal(t, draw.ModeSelect, name)
	require.Equal(t, 2, c.Store().Len())
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"unknown key":  `colour = "red"`,
		"bad radius":   `pick_radius = -1`,
		"bad steps":    "[circle]\nsteps = 2",
		"bad level":    "[log]\nlevel = \"loud\"",
		"unknown mode": `initial_mode = "draw-star"`,
		"invalid toml": `initial_mode = `,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, "c.toml", content))
			require.Error(t, err)
		})
	}
}

func TestDefaults(t *testing.T) {
	f := Defaults()
	require.NoError(t, f.Validate())
	cfg, err := f.DrawConfig(nil)
	require.NoError(t, err)
	require.Empty(t, cfg.Features)
	require.Equal(t, draw.ModeStatic, cfg.InitialMode)
}

func TestDrawConfigMissingFeatures(t *testing.T) {
	f := Defaults()
	f.Features = filepath.Join(t.TempDir(), "missing.geojson")
	_, err := f.DrawConfig(nil)
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, closer, err := NewLogger(Log{Level: "warn"})
	require.NoError(t, err)
	require.Equal(t, logrus.WarnLevel, logger.GetLevel())
	require.NoError(t, closer.Close())

	path := filepath.Join(t.TempDir(), "geodraw.log")
	logger, closer, err = NewLogger(Log{File: path})
	require.NoError(t, err)
	logger.WithField("mode", "edit").Info("hello")
	require.NoError(t, closer.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "mode=edit")

	_, _, err = NewLogger(Log{Level: "loud"})
	require.Error(t, err)
}
