// Package config handles loading the shade configuration.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all shade settings.
type Config struct {
	Grid      GridConfig    `yaml:"grid"`
	Shell     ShellConfig   `yaml:"shell"`
	Logging   LoggingConfig `yaml:"logging"`
	Site      SiteConfig    `yaml:"site"`
	TestPoint [3]float64    `yaml:"test_point"` // Feet, Z up, Y north, X east
	Scene     SceneConfig   `yaml:"scene"`
	Output    OutputConfig  `yaml:"output"`
}

// GridConfig holds mesh acceleration settings.
type GridConfig struct {
	Lambda  float64 `yaml:"lambda"`  // Target triangles per cell
	Workers int     `yaml:"workers"` // 0 means GOMAXPROCS
	Strict  bool    `yaml:"strict"`
}

// ShellConfig holds settings for surfaces traced as thin shells.
type ShellConfig struct {
	Thickness float64 `yaml:"thickness"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// SiteConfig locates the model on Earth and in time.
type SiteConfig struct {
	Latitude      float64       `yaml:"latitude"`
	Longitude     float64       `yaml:"longitude"`
	ElevationFeet float64       `yaml:"elevation_feet"`
	Year          int           `yaml:"year"`
	Increment     time.Duration `yaml:"increment"`
}

// SceneConfig lists the shapes that cast shade.
type SceneConfig struct {
	Buildings []Box  `yaml:"buildings"`
	Foliage   []Box  `yaml:"foliage"`
	Trees     []Tree `yaml:"trees"` // Foliage crowns
}

// Box is an axis-aligned box in feet.
type Box struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

// Tree is a roughly spherical foliage crown.
type Tree struct {
	Center [3]float64 `yaml:"center"`
	Radius float64    `yaml:"radius"`
}

// OutputConfig controls the rendered plot and the result cache.
type OutputConfig struct {
	Plot     string  `yaml:"plot"` // heatmap, lit, or hours
	Path     string  `yaml:"path"`
	CacheDir string  `yaml:"cache_dir"` // Empty disables caching
	WidthCM  float64 `yaml:"width_cm"`
	HeightCM float64 `yaml:"height_cm"`
}

// Plot kinds.
const (
	PlotHeatMap = "heatmap"
	PlotLit     = "lit"
	PlotHours   = "hours"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Lambda: 3,
		},
		Shell: ShellConfig{
			Thickness: 1e-4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Site: SiteConfig{
			Latitude:      42.4195011,
			Longitude:     -71.2064993,
			ElevationFeet: 90,
			Year:          2022,
			Increment:     time.Minute,
		},
		TestPoint: [3]float64{0, 0, 8},
		Scene: SceneConfig{
			// A two-story house to the south.
			Buildings: []Box{{Min: [3]float64{-20, -40, 0}, Max: [3]float64{20, -15, 24}}},
			// A tall maple to the west.
			Trees: []Tree{{Center: [3]float64{-30, 5, 35}, Radius: 15}},
		},
		Output: OutputConfig{
			Plot:     PlotHeatMap,
			Path:     "shade.png",
			CacheDir: ".cache",
			WidthCM:  20,
			HeightCM: 15,
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if !(c.Grid.Lambda > 0) {
		return fmt.Errorf("grid.lambda must be positive, got %v", c.Grid.Lambda)
	}
	if c.Shell.Thickness < 0 {
		return fmt.Errorf("shell.thickness must not be negative, got %v", c.Shell.Thickness)
	}
	if c.Site.Latitude < -90 || c.Site.Latitude > 90 {
		return fmt.Errorf("site.latitude out of range: %v", c.Site.Latitude)
	}
	if c.Site.Longitude < -180 || c.Site.Longitude > 180 {
		return fmt.Errorf("site.longitude out of range: %v", c.Site.Longitude)
	}
	if c.Site.Increment <= 0 {
		return fmt.Errorf("site.increment must be positive, got %v", c.Site.Increment)
	}
	for i, b := range c.Scene.Buildings {
		if err := b.validate(); err != nil {
			return fmt.Errorf("scene.buildings[%d]: %w", i, err)
		}
	}
	for i, b := range c.Scene.Foliage {
		if err := b.validate(); err != nil {
			return fmt.Errorf("scene.foliage[%d]: %w", i, err)
		}
	}
	for i, t := range c.Scene.Trees {
		if !(t.Radius > 0) {
			return fmt.Errorf("scene.trees[%d]: radius must be positive, got %v", i, t.Radius)
		}
	}
	switch c.Output.Plot {
	case PlotHeatMap, PlotLit, PlotHours:
	default:
		return fmt.Errorf("unknown output.plot %q", c.Output.Plot)
	}
	if c.Output.WidthCM <= 0 || c.Output.HeightCM <= 0 {
		return errors.New("output size must be positive")
	}
	return nil
}

func (b Box) validate() error {
	for axis := range b.Min {
		if b.Min[axis] > b.Max[axis] {
			return fmt.Errorf("min %v exceeds max %v", b.Min, b.Max)
		}
	}
	return nil
}
