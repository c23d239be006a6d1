package game

import (
	"fmt"

	"github.com/Faultbox/midgard-anim/internal/anim"
	"github.com/Faultbox/midgard-anim/internal/config"
)

// apply issues one script step to its target actors. The step's own time is
// used as the transition start so that results do not depend on frame rate.
func (g *Game) apply(step config.ScriptStep) error {
	targets := step.Actors
	if len(targets) == 0 {
		targets = make([]int, len(g.actors))
		for i := range targets {
			targets[i] = i
		}
	}

	var flags anim.Flags
	useClipFlags := len(step.Flags) == 0
	if !useClipFlags {
		var err error
		if flags, err = anim.ParseFlags(step.Flags); err != nil {
			return err
		}
	}

	for _, i := range targets {
		if i < 0 || i >= len(g.actors) {
			return fmt.Errorf("actor %d out of range", i)
		}
		c, err := g.world.Controller(g.actors[i])
		if err != nil {
			return err
		}

		switch step.Action {
		case config.ActionRequest:
			if useClipFlags {
				err = c.RequestClip(step.Clip, step.At, step.TransitionTime, step.Speed)
			} else {
				err = c.RequestAnimation(step.Clip, step.At, step.TransitionTime, flags, step.Speed)
			}
		case config.ActionForce:
			if useClipFlags {
				err = c.ForceClip(step.Clip, step.At, step.TransitionTime, step.Speed)
			} else {
				err = c.ForceAnimation(step.Clip, step.At, step.TransitionTime, flags, step.Speed)
			}
		case config.ActionRequestDefault:
			err = c.RequestDefault(step.At)
		case config.ActionForceDefault:
			err = c.ForceDefault(step.At)
		default:
			err = fmt.Errorf("unknown action %q", step.Action)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
