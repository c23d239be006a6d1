package anim

import "fmt"

// SetDefault makes the named clip the fallback that RequestDefault and
// ForceDefault return to. The clip must repeat. Nothing is recorded on error.
func (c *Controller) SetDefault(name string, transitionTime float32) error {
	idx, err := c.reg.resolve(name)
	if err != nil {
		return err
	}
	if !c.reg.Clip(idx).Flags.Has(Repeat) {
		return fmt.Errorf("%w: %q", ErrInvalidDefaultFlag, name)
	}
	c.meta.DefaultIndex = idx
	c.meta.HasDefault = true
	c.meta.DefaultTransitionTime = transitionTime
	return nil
}

// Default returns the default clip, or nil if none is set.
func (c *Controller) Default() *Clip {
	if !c.meta.HasDefault {
		return nil
	}
	return c.reg.Clip(c.meta.DefaultIndex)
}

// RequestDefault returns to the default clip if the current clip is
// Interruptable. Unlike RequestAnimation it does not wait for the running
// transition to finish.
func (c *Controller) RequestDefault(now float32) error {
	if !c.meta.HasDefault {
		return ErrNoDefault
	}
	if !c.current.Flags.Has(Interruptable) {
		return nil
	}
	return c.ForceDefault(now)
}

// ForceDefault changes to the default clip with its own flags and speed.
func (c *Controller) ForceDefault(now float32) error {
	if !c.meta.HasDefault {
		return ErrNoDefault
	}
	clip := c.reg.Clip(c.meta.DefaultIndex)
	if c.current.Handle == clip.Handle {
		return nil
	}
	c.changeAnimation(c.meta.DefaultIndex, now, c.meta.DefaultTransitionTime, clip.Flags, clip.Speed)
	return nil
}
