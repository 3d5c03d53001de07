// Command shade computes the sun exposure of a point in a scene over a
// year and plots it.
//
// The scene is a set of boxes and tree crowns read from the config
// file. Buildings are opaque. Foliage filters light depending on the
// season.
package main

import (
	"fmt"
	"os"

	"github.com/aclements/gridmesh/internal/config"
	"github.com/aclements/gridmesh/internal/logger"
	"github.com/aclements/gridmesh/mesh"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

func main() {
	config.ParseFlags()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "shade: %v\n", err)
		os.Exit(2)
	}
	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "shade: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "shade: %v\n", err)
		os.Exit(2)
	}

	err = run(cfg, logger.Log)
	if err != nil {
		logger.Log.Error("shade failed", zap.Error(err))
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	model := NewShadeModel(cfg.Site.Latitude, cfg.Site.Longitude, cfg.Site.ElevationFeet, cfg.Grid.Workers, log,
		mesh.WithLambda(cfg.Grid.Lambda),
		mesh.WithWorkers(cfg.Grid.Workers),
		mesh.WithStrict(cfg.Grid.Strict),
		mesh.WithLogger(log.Named("mesh")),
	)
	if err := model.AddBuildings(cfg.Scene.Buildings); err != nil {
		return err
	}
	if err := model.AddFoliage(cfg.Scene.Foliage, cfg.Scene.Trees, cfg.Shell.Thickness); err != nil {
		return err
	}

	o, err := model.IntensityOverYear(cfg.Site.Year, cfg.Site.Increment, vec3(cfg.TestPoint), cfg.Output.CacheDir)
	if err != nil {
		return err
	}
	log.Info("sun exposure", o.Summary().Field())

	plt, err := o.Plot(cfg.Output.Plot)
	if err != nil {
		return err
	}
	w := vg.Length(cfg.Output.WidthCM) * vg.Centimeter
	h := vg.Length(cfg.Output.HeightCM) * vg.Centimeter
	if err := plt.Save(w, h, cfg.Output.Path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	log.Info("wrote plot", zap.String("path", cfg.Output.Path), zap.String("kind", cfg.Output.Plot))
	return nil
}
