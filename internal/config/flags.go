package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagFPS      = flag.Int("fps", 0, "Simulation frames per second")
	flagDuration = flag.Float64("duration", 0, "Simulated seconds")
	flagActors   = flag.Int("actors", 0, "Number of actors to spawn")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagFPS > 0 {
		cfg.Simulation.FPS = *flagFPS
	}
	if *flagDuration > 0 {
		cfg.Simulation.Duration = float32(*flagDuration)
	}
	if *flagActors > 0 {
		cfg.Simulation.Actors = *flagActors
	}
}
