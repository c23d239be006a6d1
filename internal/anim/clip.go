// Package anim selects and times the skeletal animation clips of one mesh
// and extracts the root motion they produce.
//
// A Registry holds the clips loaded for a mesh skeleton. Each mesh instance
// drives its own Controller over a shared Registry. Per frame the caller
// optionally requests a clip change, advances the root track (AdvanceRoot or
// an external pose evaluator through SetCurrentOffset), then consumes the
// horizontal displacement with ConsumeFrameDisplacement.
package anim

import (
	"github.com/Faultbox/midgard-anim/internal/assets"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// Handle identifies a clip's imported data. The zero Handle means "none".
type Handle uint32

// Clip is a loaded animation. It is immutable once added to a Registry.
type Clip struct {
	Name   string
	Handle Handle

	// Root is the bone shared with the mesh skeleton whose position keys
	// drive root motion.
	Root        string
	StartOffset math.Vec3
	EndOffset   math.Vec3

	Flags    Flags
	Speed    float32
	Duration float32

	rootKeys []assets.PosKey
	scene    *assets.Scene
}

// CycleOffset is the root displacement of one full forward playback.
func (c *Clip) CycleOffset() math.Vec3 {
	return c.EndOffset.Sub(c.StartOffset)
}

// sampleRoot interpolates the root position keys at t seconds.
// Times outside the track clamp to its first or last key.
func (c *Clip) sampleRoot(t float32) math.Vec3 {
	keys := c.rootKeys
	if len(keys) == 0 {
		return c.StartOffset
	}

	// Find surrounding keys (keys are sorted by time)
	var prev, next int
	for i := range keys {
		if keys[i].Time > t {
			next = i
			break
		}
		prev = i
		next = i
	}

	if prev == next {
		return keys[prev].Value
	}

	k0 := keys[prev]
	k1 := keys[next]
	s := float32(0)
	if k1.Time != k0.Time {
		s = (t - k0.Time) / (k1.Time - k0.Time)
	}
	return k0.Value.Lerp(k1.Value, s)
}
