// Package game runs an animation session: it loads the configured clips,
// spawns actors and plays a script of clip changes in a fixed-step loop.
package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-anim/internal/actor"
	"github.com/Faultbox/midgard-anim/internal/anim"
	"github.com/Faultbox/midgard-anim/internal/assets"
	"github.com/Faultbox/midgard-anim/internal/config"
	"github.com/Faultbox/midgard-anim/internal/logger"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// actorSpacing is the distance between spawned actors along X.
const actorSpacing = 2

// Game is one animation session.
type Game struct {
	cfg      *config.Config
	assets   *assets.Manager
	registry *anim.Registry
	world    *actor.World
	actors   []donburi.Entity
	script   []config.ScriptStep
	next     int
	log      *zap.Logger
}

// ActorReport is the final state of one actor.
type ActorReport struct {
	Index    int
	Clip     string
	Position math.Vec3
	Distance float32
}

// Report summarizes a finished run.
type Report struct {
	Frames int
	Actors []ActorReport
}

// New loads everything the session needs. Load errors are fatal; nothing
// is kept on failure.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		assets: assets.NewManager(),
		log:    logger.Named("game"),
	}

	if err := g.load(); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

func (g *Game) load() error {
	for _, path := range g.cfg.Assets.GRFPaths {
		if err := g.assets.AddArchive(path); err != nil {
			return err
		}
	}
	for _, dir := range g.cfg.Assets.Dirs {
		g.assets.AddDir(dir)
	}

	skeleton, err := g.skeleton()
	if err != nil {
		return err
	}

	g.registry = anim.NewRegistry(skeleton)
	for _, c := range g.cfg.Clips {
		flags, err := anim.ParseFlags(c.Flags)
		if err != nil {
			return fmt.Errorf("clip %s: %w", c.Name, err)
		}
		speed := c.Speed
		if speed == 0 {
			speed = 1
		}
		src := assets.ManagerSource{Manager: g.assets, Path: c.Source}
		if _, err := g.registry.AddClip(src, c.Name, flags, speed); err != nil {
			return err
		}
	}

	easing, err := anim.EasingByName(g.cfg.Blend.Easing)
	if err != nil {
		return err
	}
	g.world = actor.NewWorld(g.registry, anim.WithEasing(easing))

	for i := 0; i < g.cfg.Simulation.Actors; i++ {
		e := g.world.Spawn(math.Vec3{X: float32(i) * actorSpacing}, 0)
		g.actors = append(g.actors, e)
		if g.cfg.Default.Name == "" {
			continue
		}
		c, err := g.world.Controller(e)
		if err != nil {
			return err
		}
		if err := c.SetDefault(g.cfg.Default.Name, g.cfg.Default.TransitionTime); err != nil {
			return err
		}
		if err := c.ForceDefault(0); err != nil {
			return err
		}
	}

	g.script = append([]config.ScriptStep(nil), g.cfg.Script...)
	sort.SliceStable(g.script, func(i, j int) bool {
		return g.script[i].At < g.script[j].At
	})

	g.log.Info("session loaded",
		zap.Int("bones", len(skeleton)),
		zap.Int("clips", g.registry.Len()),
		zap.Int("actors", len(g.actors)),
		zap.Int("script_steps", len(g.script)),
	)
	return nil
}

// skeleton returns the configured bone list, or reads it from the skeleton
// source model.
func (g *Game) skeleton() ([]string, error) {
	if len(g.cfg.Mesh.Skeleton) > 0 {
		return g.cfg.Mesh.Skeleton, nil
	}
	if g.cfg.Mesh.SkeletonSource == "" {
		return nil, nil
	}
	scene, err := g.assets.Import(g.cfg.Mesh.SkeletonSource)
	if err != nil {
		return nil, fmt.Errorf("loading skeleton: %w", err)
	}
	defer scene.Close()
	return scene.BoneNames(), nil
}

// Registry returns the session's clip registry.
func (g *Game) Registry() *anim.Registry { return g.registry }

// World returns the actor world.
func (g *Game) World() *actor.World { return g.world }

// Actors returns the spawned actors in spawn order.
func (g *Game) Actors() []donburi.Entity { return g.actors }

// Step applies the script steps due at now, then moves every actor.
func (g *Game) Step(now float32) ([]actor.Motion, error) {
	for g.next < len(g.script) && g.script[g.next].At <= now {
		if err := g.apply(g.script[g.next]); err != nil {
			return nil, fmt.Errorf("script step %d: %w", g.next, err)
		}
		g.next++
	}
	return g.world.Step(now), nil
}

// Run plays the whole simulation and reports where the actors ended up.
func (g *Game) Run() (*Report, error) {
	sim := g.cfg.Simulation
	frames := int(sim.Duration * float32(sim.FPS))
	distance := make([]float32, len(g.actors))
	index := make(map[donburi.Entity]int, len(g.actors))
	for i, e := range g.actors {
		index[e] = i
	}

	g.log.Info("starting simulation", zap.Int("fps", sim.FPS), zap.Int("frames", frames))

	for frame := 0; frame <= frames; frame++ {
		now := float32(frame) / float32(sim.FPS)
		motions, err := g.Step(now)
		if err != nil {
			return nil, err
		}
		for _, m := range motions {
			i := index[m.Entity]
			distance[i] += m.Delta.Length()
			if !m.Delta.IsZero() {
				g.log.Debug("root motion",
					zap.Int("frame", frame),
					zap.Int("actor", i),
					zap.Float32("dx", m.Delta.X),
					zap.Float32("dz", m.Delta.Y),
				)
			}
		}
	}

	report := &Report{Frames: frames + 1}
	for i, e := range g.actors {
		tf, err := g.world.Transform(e)
		if err != nil {
			return nil, err
		}
		c, err := g.world.Controller(e)
		if err != nil {
			return nil, err
		}
		ar := ActorReport{Index: i, Position: tf.Position, Distance: distance[i]}
		if clip := c.CurrentClip(); clip != nil {
			ar.Clip = clip.Name
		}
		report.Actors = append(report.Actors, ar)
	}

	g.log.Info("simulation finished", zap.Int("frames", report.Frames))
	return report, nil
}

// Close releases the clips and archives.
func (g *Game) Close() error {
	var errs []error
	if g.registry != nil {
		errs = append(errs, g.registry.Close())
	}
	g.assets.Close()
	return errors.Join(errs...)
}
