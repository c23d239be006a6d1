package anim

import (
	gomath "math"

	"github.com/Faultbox/midgard-anim/pkg/math"
)

// ConsumeFrameDisplacement returns the horizontal root displacement since
// the last call and marks it consumed. Call it after the root offset has
// been advanced for this frame.
func (c *Controller) ConsumeFrameDisplacement() math.Vec2 {
	d := c.current.Offset.Sub(c.previous.Offset).XZ()
	c.previous.Offset = c.current.Offset
	return d
}

// AdvanceRoot sets the current root offset to the root track's position at
// now. Repeating clips accumulate one cycle offset per completed loop, so the
// offset keeps growing across wraps; other clips hold their last key.
func (c *Controller) AdvanceRoot(now float32) {
	clip := c.CurrentClip()
	if clip == nil {
		return
	}
	c.current.Offset = c.anchor.Add(rootDelta(clip, c.current, now-c.meta.EndOfLastAnim))
}

// rootDelta is the root displacement of st after playing clip for elapsed
// seconds, relative to where the playback started.
func rootDelta(clip *Clip, st State, elapsed float32) math.Vec3 {
	d := clip.Duration
	if d <= 0 || len(clip.rootKeys) == 0 {
		return math.Vec3{}
	}
	cycles, local := playbackTime(elapsed*st.Speed, d, st.Flags.Has(Repeat))
	laps := clip.CycleOffset().Scale(float32(cycles))

	var delta math.Vec3
	if st.Flags.Has(Backwards) {
		delta = clip.sampleRoot(d - local).Sub(clip.sampleRoot(d)).Sub(laps)
	} else {
		delta = clip.sampleRoot(local).Sub(clip.sampleRoot(0)).Add(laps)
	}
	if st.Flags.Has(Mirrored) {
		delta = delta.Negate()
	}
	return delta
}

// playbackTime splits p seconds of playback of a clip lasting d seconds into
// completed loops and the time within the current loop. Without repeat the
// time clamps to d.
func playbackTime(p, d float32, repeat bool) (cycles int, local float32) {
	if p <= 0 || d <= 0 {
		return 0, 0
	}
	if !repeat {
		if p > d {
			return 0, d
		}
		return 0, p
	}
	n := gomath.Floor(float64(p) / float64(d))
	local = p - float32(n)*d
	if local < 0 {
		local = 0
	}
	return int(n), local
}
