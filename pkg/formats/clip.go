// Clip documents: a YAML description of a skeleton and its position tracks.

package formats

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Clip document errors.
var (
	ErrEmptyClip      = errors.New("clip document has no bones")
	ErrUnnamedBone    = errors.New("clip bone without a name")
	ErrDuplicateBone  = errors.New("duplicate clip bone")
	ErrUnorderedKeys  = errors.New("clip keys are not in time order")
	ErrNegativeLength = errors.New("negative clip duration")
)

// ClipKey is one position keyframe. Time is in seconds.
type ClipKey struct {
	Time  float32    `yaml:"time"`
	Value [3]float32 `yaml:"value"`
}

// ClipBone is a bone of the clip skeleton with its position track.
type ClipBone struct {
	Name         string     `yaml:"name"`
	Parent       string     `yaml:"parent,omitempty"`
	Rest         [3]float32 `yaml:"rest"`
	PositionKeys []ClipKey  `yaml:"position_keys,omitempty"`
}

// ClipDoc is a parsed clip document.
//
//	name: walk
//	duration: 1.0
//	bones:
//	  - name: hips
//	    position_keys:
//	      - {time: 0, value: [0, 0, 0]}
//	      - {time: 1, value: [0, 0, 2]}
type ClipDoc struct {
	Name     string     `yaml:"name,omitempty"`
	Duration float32    `yaml:"duration,omitempty"`
	Bones    []ClipBone `yaml:"bones"`
}

// ParseClip parses and validates a clip document.
// A zero duration is replaced by the time of the latest key.
func ParseClip(data []byte) (*ClipDoc, error) {
	var doc ClipDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding clip: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}

	if doc.Duration == 0 {
		for _, b := range doc.Bones {
			if n := len(b.PositionKeys); n > 0 && b.PositionKeys[n-1].Time > doc.Duration {
				doc.Duration = b.PositionKeys[n-1].Time
			}
		}
	}
	return &doc, nil
}

// ParseClipFile parses a clip document from disk.
func ParseClipFile(path string) (*ClipDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading clip file: %w", err)
	}
	return ParseClip(data)
}

func (doc *ClipDoc) validate() error {
	if len(doc.Bones) == 0 {
		return ErrEmptyClip
	}
	if doc.Duration < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeLength, doc.Duration)
	}

	seen := make(map[string]bool, len(doc.Bones))
	for i, b := range doc.Bones {
		if b.Name == "" {
			return fmt.Errorf("%w: bone %d", ErrUnnamedBone, i)
		}
		if seen[b.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateBone, b.Name)
		}
		seen[b.Name] = true

		for k := 1; k < len(b.PositionKeys); k++ {
			if b.PositionKeys[k].Time < b.PositionKeys[k-1].Time {
				return fmt.Errorf("%w: bone %s key %d", ErrUnorderedKeys, b.Name, k)
			}
		}
	}
	return nil
}
