// Package config handles animation playground configuration loading and
// management.
package config

// Config holds all settings of an animctl session.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Assets     AssetsConfig     `yaml:"assets"`
	Mesh       MeshConfig       `yaml:"mesh"`
	Clips      []ClipConfig     `yaml:"clips"`
	Default    DefaultConfig    `yaml:"default"`
	Blend      BlendConfig      `yaml:"blend"`
	Simulation SimulationConfig `yaml:"simulation"`
	Script     []ScriptStep     `yaml:"script"`
}

// AssetsConfig holds where clip and model files are looked up.
type AssetsConfig struct {
	GRFPaths []string `yaml:"grf_paths"` // Paths to GRF archives, last wins
	Dirs     []string `yaml:"dirs"`      // Searched after archives, last wins
}

// MeshConfig describes the skeleton clips are attached to. Either a model
// file to read the bone hierarchy from or an explicit bone list.
type MeshConfig struct {
	SkeletonSource string   `yaml:"skeleton_source"`
	Skeleton       []string `yaml:"skeleton"`
}

// ClipConfig is one clip to load into the registry.
type ClipConfig struct {
	Name   string   `yaml:"name"`
	Source string   `yaml:"source"`
	Flags  []string `yaml:"flags"`
	Speed  float32  `yaml:"speed"`
}

// DefaultConfig names the fallback clip.
type DefaultConfig struct {
	Name           string  `yaml:"name"`
	TransitionTime float32 `yaml:"transition_time"`
}

// BlendConfig holds blend weight settings.
type BlendConfig struct {
	Easing string `yaml:"easing"`
}

// SimulationConfig holds the fixed-step loop settings.
type SimulationConfig struct {
	FPS      int     `yaml:"fps"`
	Duration float32 `yaml:"duration"` // seconds
	Actors   int     `yaml:"actors"`
}

// Script actions.
const (
	ActionRequest        = "request"
	ActionForce          = "force"
	ActionRequestDefault = "request-default"
	ActionForceDefault   = "force-default"
)

// ScriptStep is a clip change issued at a point of the simulation.
type ScriptStep struct {
	At             float32  `yaml:"at"`
	Action         string   `yaml:"action"`
	Clip           string   `yaml:"clip,omitempty"`
	TransitionTime float32  `yaml:"transition_time,omitempty"`
	Speed          float32  `yaml:"speed,omitempty"`
	Flags          []string `yaml:"flags,omitempty"` // force only; empty uses the clip's flags
	Actors         []int    `yaml:"actors,omitempty"` // empty means every actor
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Assets: AssetsConfig{
			Dirs: []string{"."},
		},
		Default: DefaultConfig{
			TransitionTime: 0.2,
		},
		Blend: BlendConfig{
			Easing: "linear",
		},
		Simulation: SimulationConfig{
			FPS:      30,
			Duration: 5,
			Actors:   1,
		},
	}
}
