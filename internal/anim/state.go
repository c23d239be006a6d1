package anim

import "github.com/Faultbox/midgard-anim/pkg/math"

// State is the playback state of one clip on a mesh instance.
// A zero Handle means no clip.
type State struct {
	ClipIndex int
	Handle    Handle
	// Offset is the accumulated root position. The pose evaluator advances
	// it every frame; ConsumeFrameDisplacement reads it.
	Offset math.Vec3
	Speed  float32
	Flags  Flags
}

// Valid reports whether the state refers to a clip.
func (s State) Valid() bool {
	return s.Handle != 0
}

// TransitionMeta tracks the timing of the last clip change and the default
// clip of a mesh instance. Times are in seconds of the caller's clock.
type TransitionMeta struct {
	DefaultIndex          int
	HasDefault            bool
	DefaultTransitionTime float32

	// TransitionTime is the length of the blend started at EndOfLastAnim.
	TransitionTime float32
	EndOfLastAnim  float32
	// LastPeriodTime is how long the replaced clip played.
	LastPeriodTime float32
}
