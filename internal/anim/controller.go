package anim

import (
	gomath "math"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-anim/internal/logger"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// zeroSpeed is the magnitude below which a requested speed means "use the
// clip's own speed".
const zeroSpeed = 1e-5

// Controller holds the current and previous playback state of one mesh
// instance and performs clip transitions. It is not safe for concurrent use.
type Controller struct {
	reg      *Registry
	current  State
	previous State
	meta     TransitionMeta

	// anchor is current.Offset as set by the last transition; AdvanceRoot
	// moves the offset relative to it.
	anchor math.Vec3

	easing ease.TweenFunc
	log    *zap.Logger
}

// ControllerOption configures a Controller during construction.
type ControllerOption func(*Controller)

// WithEasing sets the curve used for blend weights.
func WithEasing(fn ease.TweenFunc) ControllerOption {
	return func(c *Controller) {
		if fn != nil {
			c.easing = fn
		}
	}
}

// WithLogger sets the logger used for transitions.
func WithLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = l
	}
}

// NewController creates a controller with no current clip.
func NewController(reg *Registry, opts ...ControllerOption) *Controller {
	c := &Controller{
		reg:      reg,
		current:  State{ClipIndex: -1},
		previous: State{ClipIndex: -1},
		meta:     TransitionMeta{DefaultIndex: -1},
		easing:   ease.Linear,
		log:      logger.Named("anim"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the clip registry the controller plays from.
func (c *Controller) Registry() *Registry { return c.reg }

// Current returns the playing state.
func (c *Controller) Current() State { return c.current }

// Previous returns the state being blended from.
func (c *Controller) Previous() State { return c.previous }

// Meta returns the transition timing.
func (c *Controller) Meta() TransitionMeta { return c.meta }

// CurrentClip returns the playing clip, or nil before the first transition.
func (c *Controller) CurrentClip() *Clip {
	if !c.current.Valid() {
		return nil
	}
	return c.reg.Clip(c.current.ClipIndex)
}

// SetCurrentOffset stores the root position computed by an external pose
// evaluator for this frame.
func (c *Controller) SetCurrentOffset(v math.Vec3) {
	c.current.Offset = v
}

// canInterrupt reports whether a soft request may act at time now.
func (c *Controller) canInterrupt(now float32) bool {
	return c.meta.EndOfLastAnim+c.meta.TransitionTime <= now &&
		c.current.Flags.Has(Interruptable)
}

// RequestAnimation changes to the named clip unless the current transition
// is still running or the current clip is not Interruptable. Being ignored
// is not an error; an unknown name always is.
func (c *Controller) RequestAnimation(name string, now, transitionTime float32, flags Flags, speed float32) error {
	if _, err := c.reg.resolve(name); err != nil {
		return err
	}
	if !c.canInterrupt(now) {
		c.log.Debug("request ignored", zap.String("name", name), zap.Float32("now", now))
		return nil
	}
	return c.ForceAnimation(name, now, transitionTime, flags, speed)
}

// ForceAnimation changes to the named clip unconditionally. Changing to the
// clip already playing does nothing. A speed of zero uses the clip's speed;
// a negative speed plays the clip backwards.
func (c *Controller) ForceAnimation(name string, now, transitionTime float32, flags Flags, speed float32) error {
	idx, err := c.reg.resolve(name)
	if err != nil {
		return err
	}
	clip := c.reg.Clip(idx)
	if c.current.Handle == clip.Handle {
		return nil
	}
	if gomath.Abs(float64(speed)) < zeroSpeed {
		speed = clip.Speed
	}
	c.changeAnimation(idx, now, transitionTime, flags, speed)
	return nil
}

// RequestClip is RequestAnimation with the clip's own flags.
func (c *Controller) RequestClip(name string, now, transitionTime, speed float32) error {
	if _, err := c.reg.resolve(name); err != nil {
		return err
	}
	if !c.canInterrupt(now) {
		c.log.Debug("request ignored", zap.String("name", name), zap.Float32("now", now))
		return nil
	}
	return c.ForceClip(name, now, transitionTime, speed)
}

// ForceClip is ForceAnimation with the clip's own flags.
func (c *Controller) ForceClip(name string, now, transitionTime, speed float32) error {
	idx, err := c.reg.resolve(name)
	if err != nil {
		return err
	}
	return c.ForceAnimation(name, now, transitionTime, c.reg.Clip(idx).Flags, speed)
}

// changeAnimation makes clip idx current and the old current previous.
func (c *Controller) changeAnimation(idx int, now, transitionTime float32, flags Flags, speed float32) {
	clip := c.reg.Clip(idx)
	firstTransition := !c.previous.Valid()

	c.previous = c.current

	c.current.ClipIndex = idx
	c.current.Handle = clip.Handle

	// Reversed playback starts at the end of the track.
	if flags.Has(Backwards) {
		c.current.Offset = clip.EndOffset
	} else {
		c.current.Offset = clip.StartOffset
	}
	if flags.Has(Mirrored) {
		c.current.Offset = c.current.Offset.Negate()
	}

	// Both states start the blend from the same point.
	c.previous.Offset = c.current.Offset

	if speed >= 0 {
		c.current.Speed = speed
		c.current.Flags = flags
	} else {
		c.current.Speed = -speed
		c.current.Flags = flags.Toggle(Backwards)
	}

	if firstTransition {
		c.previous = c.current
		c.previous.Offset = math.Vec3{}
	}
	c.anchor = c.current.Offset

	c.meta.TransitionTime = transitionTime
	c.meta.LastPeriodTime = now - c.meta.EndOfLastAnim
	c.meta.EndOfLastAnim = now

	c.log.Debug("animation changed",
		zap.String("name", clip.Name),
		zap.Float32("now", now),
		zap.Float32("transition", transitionTime),
		zap.Stringer("flags", c.current.Flags),
		zap.Float32("speed", c.current.Speed),
		zap.Float32("last_period", c.meta.LastPeriodTime),
	)
}
