// Package actor moves animated meshes through a world by their root motion.
package actor

import (
	"errors"
	"fmt"

	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-anim/internal/anim"
	"github.com/Faultbox/midgard-anim/internal/logger"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// ErrUnknownActor is returned for entities not spawned by the world or
// already despawned.
var ErrUnknownActor = errors.New("unknown actor")

// Motion is the displacement applied to one actor by a Step.
type Motion struct {
	Entity donburi.Entity
	Delta  math.Vec2
}

// World is a set of actors sharing one clip registry. A World is driven by
// a single goroutine; separate worlds may share the registry.
type World struct {
	world  donburi.World
	reg    *anim.Registry
	opts   []anim.ControllerOption
	actors []donburi.Entity
	log    *zap.Logger
}

// NewWorld creates an empty world. opts apply to every spawned controller.
func NewWorld(reg *anim.Registry, opts ...anim.ControllerOption) *World {
	return &World{
		world: donburi.NewWorld(),
		reg:   reg,
		opts:  opts,
		log:   logger.Named("actor"),
	}
}

// Spawn adds an actor with its own controller and no clip playing.
func (w *World) Spawn(pos math.Vec3, facing float32) donburi.Entity {
	entity := w.world.Create(Animator, Transform)
	entry := w.world.Entry(entity)

	Animator.Set(entry, &AnimatorData{
		Controller: anim.NewController(w.reg, w.opts...),
	})
	Transform.Set(entry, &TransformData{
		Position: pos,
		Facing:   facing,
	})

	w.actors = append(w.actors, entity)
	w.log.Debug("actor spawned", zap.Int("actor", len(w.actors)-1), zap.Float32("facing", facing))
	return entity
}

// Despawn removes an actor.
func (w *World) Despawn(e donburi.Entity) error {
	if !w.world.Valid(e) {
		return fmt.Errorf("%w: %v", ErrUnknownActor, e)
	}
	w.world.Remove(e)
	for i, a := range w.actors {
		if a == e {
			w.actors = append(w.actors[:i], w.actors[i+1:]...)
			break
		}
	}
	return nil
}

// Actors returns the live actors in spawn order.
func (w *World) Actors() []donburi.Entity {
	return append([]donburi.Entity(nil), w.actors...)
}

// Len returns the number of live actors.
func (w *World) Len() int {
	return len(w.actors)
}

// Controller returns an actor's clip controller.
func (w *World) Controller(e donburi.Entity) (*anim.Controller, error) {
	if !w.world.Valid(e) {
		return nil, fmt.Errorf("%w: %v", ErrUnknownActor, e)
	}
	return Animator.Get(w.world.Entry(e)).Controller, nil
}

// Transform returns a copy of an actor's placement.
func (w *World) Transform(e donburi.Entity) (TransformData, error) {
	if !w.world.Valid(e) {
		return TransformData{}, fmt.Errorf("%w: %v", ErrUnknownActor, e)
	}
	return *Transform.Get(w.world.Entry(e)), nil
}

// Request asks an actor to play a clip with the clip's own flags. The
// request may be ignored; see anim.Controller.RequestClip.
func (w *World) Request(e donburi.Entity, name string, now, transitionTime, speed float32) error {
	c, err := w.Controller(e)
	if err != nil {
		return err
	}
	return c.RequestClip(name, now, transitionTime, speed)
}

// Force makes an actor play a clip with the given flags.
func (w *World) Force(e donburi.Entity, name string, now, transitionTime float32, flags anim.Flags, speed float32) error {
	c, err := w.Controller(e)
	if err != nil {
		return err
	}
	return c.ForceAnimation(name, now, transitionTime, flags, speed)
}

// Step advances every actor's root track to now and moves the actor by the
// consumed displacement, rotated by its facing.
func (w *World) Step(now float32) []Motion {
	motions := make([]Motion, 0, len(w.actors))
	for _, e := range w.actors {
		entry := w.world.Entry(e)
		c := Animator.Get(entry).Controller
		tf := Transform.Get(entry)

		c.AdvanceRoot(now)
		d := c.ConsumeFrameDisplacement().Rotate(tf.Facing)
		tf.Position.X += d.X
		tf.Position.Z += d.Y

		motions = append(motions, Motion{Entity: e, Delta: d})
	}
	return motions
}
