package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-anim/internal/anim"
	"github.com/Faultbox/midgard-anim/internal/logger"
)

// ErrInvalidConfig wraps every problem reported by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the config for values the session cannot run with.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !logger.ValidLevel(c.Logging.Level) {
		add("logging.level: unknown level %q", c.Logging.Level)
	}

	if c.Simulation.FPS <= 0 {
		add("simulation.fps must be positive, got %d", c.Simulation.FPS)
	}
	if c.Simulation.Duration <= 0 {
		add("simulation.duration must be positive, got %v", c.Simulation.Duration)
	}
	if c.Simulation.Actors < 1 {
		add("simulation.actors must be at least 1, got %d", c.Simulation.Actors)
	}

	if len(c.Clips) > 0 && c.Mesh.SkeletonSource == "" && len(c.Mesh.Skeleton) == 0 {
		add("mesh: skeleton_source or skeleton is required")
	}

	clips := make(map[string]bool, len(c.Clips))
	for i, clip := range c.Clips {
		switch {
		case clip.Name == "":
			add("clips[%d]: name is required", i)
		case clips[clip.Name]:
			add("clips[%d]: duplicate name %q", i, clip.Name)
		}
		clips[clip.Name] = true
		if clip.Source == "" {
			add("clips[%d]: source is required", i)
		}
		if _, err := anim.ParseFlags(clip.Flags); err != nil {
			add("clips[%d]: %w", i, err)
		}
	}

	if c.Default.Name != "" && !clips[c.Default.Name] {
		add("default.name: no clip named %q", c.Default.Name)
	}
	if c.Default.TransitionTime < 0 {
		add("default.transition_time must not be negative")
	}

	if _, err := anim.EasingByName(c.Blend.Easing); err != nil {
		add("blend.easing: %w", err)
	}

	for i, step := range c.Script {
		if step.At < 0 {
			add("script[%d]: negative time %v", i, step.At)
		}
		if step.TransitionTime < 0 {
			add("script[%d]: negative transition_time", i)
		}
		switch step.Action {
		case ActionRequest, ActionForce:
			if !clips[step.Clip] {
				add("script[%d]: no clip named %q", i, step.Clip)
			}
			if _, err := anim.ParseFlags(step.Flags); err != nil {
				add("script[%d]: %w", i, err)
			}
		case ActionRequestDefault, ActionForceDefault:
			if c.Default.Name == "" {
				add("script[%d]: %s needs default.name", i, step.Action)
			}
		default:
			add("script[%d]: unknown action %q", i, step.Action)
		}
		for _, a := range step.Actors {
			if a < 0 || a >= c.Simulation.Actors {
				add("script[%d]: actor %d out of range", i, a)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
