package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLambda   = flag.Float64("lambda", 0, "Target triangles per grid cell")
	flagWorkers  = flag.Int("workers", 0, "Goroutines used to build grids and trace rays")
	flagYear     = flag.Int("year", 0, "Year to simulate")
	flagPlot     = flag.String("plot", "", "Plot kind: heatmap, lit, or hours")
	flagOut      = flag.String("o", "", "Output image path")
	flagCacheDir = flag.String("cache", "", "Result cache directory")
	flagNoCache  = flag.Bool("no-cache", false, "Disable the result cache")
	flagWrite    = flag.String("write-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the path given by -write-config, if any.
func WriteConfigPath() string {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLambda > 0 {
		cfg.Grid.Lambda = *flagLambda
	}
	if *flagWorkers > 0 {
		cfg.Grid.Workers = *flagWorkers
	}
	if *flagYear != 0 {
		cfg.Site.Year = *flagYear
	}
	if *flagPlot != "" {
		cfg.Output.Plot = *flagPlot
	}
	if *flagOut != "" {
		cfg.Output.Path = *flagOut
	}
	if *flagCacheDir != "" {
		cfg.Output.CacheDir = *flagCacheDir
	}
	if *flagNoCache {
		cfg.Output.CacheDir = ""
	}
}
