// Package config reads the geodraw TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"geodraw/internal/draw"
	"geodraw/internal/geom"
)

// File is the on-disk configuration.
type File struct {
	InitialMode string   `toml:"initial_mode"`
	LayerIDs    []string `toml:"layer_ids"`
	PickRadius  float64  `toml:"pick_radius"`
	WarmUp      bool     `toml:"warm_up"`
	// Features is a data file loaded as the initial feature set. Relative
	// paths are resolved against the configuration file.
	Features string `toml:"features"`

	Circle Circle `toml:"circle"`
	Log    Log    `toml:"log"`
}

type Circle struct {
	Steps int `toml:"steps"`
}

type Log struct {
	Level string `toml:"level"`
	// File receives log output; empty discards it since the terminal UI
	// owns stdout.
	File string `toml:"file"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() File {
	return File{
		InitialMode: draw.ModeStatic,
		PickRadius:  draw.DefaultPickRadius,
		Circle:      Circle{Steps: draw.DefaultCircleSteps},
		Log:         Log{Level: "info"},
	}
}

// Load reads path on top of Defaults. Unknown keys are an error.
func Load(path string) (File, error) {
	f := Defaults()
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	if f.Features != "" && !filepath.IsAbs(f.Features) {
		f.Features = filepath.Join(filepath.Dir(path), f.Features)
	}
	return f, f.Validate()
}

// Validate reports every invalid setting.
func (f File) Validate() error {
	var errs []error
	if f.PickRadius < 0 {
		errs = append(errs, fmt.Errorf("pick_radius must be >= 0, got %g", f.PickRadius))
	}
	if f.Circle.Steps != 0 && f.Circle.Steps < 3 {
		errs = append(errs, fmt.Errorf("circle.steps must be >= 3, got %d", f.Circle.Steps))
	}
	if f.Log.Level != "" {
		if _, err := logrus.ParseLevel(f.Log.Level); err != nil {
			errs = append(errs, err)
		}
	}
	if f.InitialMode != "" && !slices.Contains(builtinModes, f.InitialMode) {
		errs = append(errs, fmt.Errorf("initial_mode: unknown mode %q", f.InitialMode))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

var builtinModes = []string{
	draw.ModeStatic, draw.ModeSelect, draw.ModeEdit, draw.ModePoint,
	draw.ModeLine, draw.ModePolygon, draw.ModeCircle, draw.ModeRectangle,
}

// NewLogger builds the logger described by l. The returned closer releases
// the log file, if any.
func NewLogger(l Log) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	level := logrus.InfoLevel
	if l.Level != "" {
		var err error
		if level, err = logrus.ParseLevel(l.Level); err != nil {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
	}
	logger.SetLevel(level)
	if l.File == "" {
		logger.SetOutput(io.Discard)
		return logger, nopCloser{}, nil
	}
	out, err := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("config: open log: %w", err)
	}
	logger.SetOutput(out)
	return logger, out, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// DrawConfig maps f onto a controller configuration, loading the initial
// feature file if one is set.
func (f File) DrawConfig(log logrus.FieldLogger) (draw.Config, error) {
	cfg := draw.Config{
		InitialMode: f.InitialMode,
		LayerIDs:    f.LayerIDs,
		PickRadius:  f.PickRadius,
		CircleSteps: f.Circle.Steps,
		WarmUp:      f.WarmUp,
		Logger:      log,
	}
	if f.Features == "" {
		return cfg, nil
	}
	d, err := geom.LoadFile(f.Features)
	if err != nil {
		return draw.Config{}, fmt.Errorf("config: features: %w", err)
	}
	cfg.Features = draw.FromGeoJSON(d.Features)
	if log != nil {
		log.WithFields(logrus.Fields{"file": f.Features, "features": len(cfg.Features)}).Info("loaded initial features")
	}
	return cfg, nil
}
