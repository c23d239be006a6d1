package anim

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-anim/internal/assets"
	"github.com/Faultbox/midgard-anim/internal/logger"
)

// Registry owns the clips loaded for one mesh skeleton, keyed by unique name.
// It is filled during a load phase and read-only afterwards, so Controllers
// on different goroutines may share it.
type Registry struct {
	skeleton   []string
	clips      []*Clip
	names      map[string]int
	nextHandle Handle
	log        *zap.Logger
}

// RegistryOption configures a Registry during construction.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for load events.
func WithRegistryLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = l
	}
}

// NewRegistry creates an empty registry for a mesh whose skeleton bones are
// given in hierarchy order, roots first.
func NewRegistry(skeleton []string, opts ...RegistryOption) *Registry {
	r := &Registry{
		skeleton: append([]string(nil), skeleton...),
		names:    make(map[string]int),
		log:      logger.Named("anim"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddClip imports src and registers it under name. It returns the clip's
// index, which stays valid for the registry's lifetime.
//
// A negative speed is stored as its magnitude with Backwards toggled.
func (r *Registry) AddClip(src assets.Source, name string, flags Flags, speed float32) (int, error) {
	if _, ok := r.names[name]; ok {
		return -1, fmt.Errorf("%w: %q from %s", ErrDuplicateName, name, src)
	}

	scene, err := src.Import()
	if err != nil {
		return -1, fmt.Errorf("%w: %s: %w", ErrImportFailure, src, err)
	}

	root := r.rootBone(scene)
	if root == nil {
		scene.Close()
		return -1, fmt.Errorf("%w: %q from %s", ErrNoCommonBone, name, src)
	}

	if speed < 0 {
		speed = -speed
		flags = flags.Toggle(Backwards)
	}

	clip := &Clip{
		Name:     name,
		Handle:   r.allocHandle(),
		Root:     root.Name,
		Flags:    flags,
		Speed:    speed,
		Duration: scene.Duration,
		rootKeys: root.PosKeys,
		scene:    scene,
	}
	if n := len(root.PosKeys); n > 0 {
		clip.StartOffset = root.PosKeys[0].Value
		clip.EndOffset = root.PosKeys[n-1].Value
		if clip.Duration <= 0 {
			clip.Duration = root.PosKeys[n-1].Time
		}
	} else {
		clip.StartOffset = root.Rest
		clip.EndOffset = root.Rest
	}

	idx := len(r.clips)
	r.clips = append(r.clips, clip)
	r.names[name] = idx

	r.log.Debug("clip added",
		zap.String("name", name),
		zap.Int("index", idx),
		zap.String("root", clip.Root),
		zap.Stringer("flags", flags),
		zap.Float32("speed", speed),
		zap.Float32("duration", clip.Duration),
	)
	return idx, nil
}

// rootBone returns the first skeleton bone, in hierarchy order, that the
// imported scene also has.
func (r *Registry) rootBone(scene *assets.Scene) *assets.Bone {
	for _, name := range r.skeleton {
		if b := scene.Bone(name); b != nil {
			return b
		}
	}
	return nil
}

func (r *Registry) allocHandle() Handle {
	r.nextHandle++
	return r.nextHandle
}

// Lookup returns the index of the clip called name.
func (r *Registry) Lookup(name string) (int, bool) {
	idx, ok := r.names[name]
	return idx, ok
}

// Clip returns the clip at idx. It panics if idx is out of range.
func (r *Registry) Clip(idx int) *Clip {
	return r.clips[idx]
}

// Len returns the number of clips.
func (r *Registry) Len() int {
	return len(r.clips)
}

// Names returns clip names in index order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.clips))
	for i, c := range r.clips {
		names[i] = c.Name
	}
	return names
}

// Skeleton returns the mesh skeleton the registry was built for.
func (r *Registry) Skeleton() []string {
	return append([]string(nil), r.skeleton...)
}

// Close releases the imported data of every clip.
func (r *Registry) Close() error {
	var errs []error
	for _, c := range r.clips {
		if c.scene != nil {
			errs = append(errs, c.scene.Close())
		}
	}
	return errors.Join(errs...)
}

// resolve maps a clip name to its index.
func (r *Registry) resolve(name string) (int, error) {
	idx, ok := r.names[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownAnimationName, name)
	}
	return idx, nil
}
