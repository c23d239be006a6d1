package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Faultbox/midgard-anim/pkg/formats"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// ErrUnknownFormat is returned when no decoder matches a source's extension.
var ErrUnknownFormat = errors.New("unknown asset format")

// PosKey is a root-track position key. Time is in seconds.
type PosKey struct {
	Time  float32
	Value math.Vec3
}

// Bone is one bone of an imported skeleton.
type Bone struct {
	Name    string
	Parent  string
	Rest    math.Vec3
	PosKeys []PosKey
}

// Scene is an imported skeleton with its animation tracks.
// Close releases it; a closed scene has no bones.
type Scene struct {
	Name     string
	Duration float32
	Bones    []Bone

	once    sync.Once
	release func()
}

// Bone returns the bone with the given name, or nil.
func (s *Scene) Bone(name string) *Bone {
	for i := range s.Bones {
		if s.Bones[i].Name == name {
			return &s.Bones[i]
		}
	}
	return nil
}

// BoneNames returns the bone names in hierarchy order.
func (s *Scene) BoneNames() []string {
	names := make([]string, len(s.Bones))
	for i, b := range s.Bones {
		names[i] = b.Name
	}
	return names
}

// Close releases the scene. It is safe to call more than once.
func (s *Scene) Close() error {
	s.once.Do(func() {
		s.Bones = nil
		if s.release != nil {
			s.release()
		}
	})
	return nil
}

// Decode picks a decoder from the file extension of name.
func Decode(name string, data []byte) (*Scene, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".rsm":
		rsm, err := formats.ParseRSM(data)
		if err != nil {
			return nil, err
		}
		return sceneFromRSM(name, rsm), nil
	case ".yaml", ".yml":
		doc, err := formats.ParseClip(data)
		if err != nil {
			return nil, err
		}
		return sceneFromClip(name, doc), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
}

// sceneFromRSM converts the node hierarchy; RSM key frames are milliseconds.
func sceneFromRSM(name string, rsm *formats.RSM) *Scene {
	scene := &Scene{
		Name:     baseName(name),
		Duration: float32(rsm.AnimLength) / 1000,
	}
	for _, node := range rsm.Hierarchy() {
		bone := Bone{
			Name:   node.Name,
			Parent: node.Parent,
			Rest:   math.FromArray(node.Position),
		}
		for _, k := range node.PosKeys {
			bone.PosKeys = append(bone.PosKeys, PosKey{
				Time:  float32(k.Frame) / 1000,
				Value: math.FromArray(k.Position),
			})
		}
		scene.Bones = append(scene.Bones, bone)
	}
	return scene
}

func sceneFromClip(name string, doc *formats.ClipDoc) *Scene {
	scene := &Scene{
		Name:     doc.Name,
		Duration: doc.Duration,
		Bones:    make([]Bone, 0, len(doc.Bones)),
	}
	if scene.Name == "" {
		scene.Name = baseName(name)
	}
	for _, b := range doc.Bones {
		bone := Bone{
			Name:   b.Name,
			Parent: b.Parent,
			Rest:   math.FromArray(b.Rest),
		}
		for _, k := range b.PositionKeys {
			bone.PosKeys = append(bone.PosKeys, PosKey{Time: k.Time, Value: math.FromArray(k.Value)})
		}
		scene.Bones = append(scene.Bones, bone)
	}
	return scene
}

func baseName(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
