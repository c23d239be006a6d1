package anim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tanema/gween/ease"
)

// BlendTarget tells a pose evaluator what to blend this frame. Times are
// positions within each clip in seconds. Weight is the share of Current.
type BlendTarget struct {
	Current      State
	Previous     State
	CurrentTime  float32
	PreviousTime float32
	Weight       float32
}

// InTransition reports whether the blend started by the last clip change is
// still running at now.
func (c *Controller) InTransition(now float32) bool {
	return now < c.meta.EndOfLastAnim+c.meta.TransitionTime
}

// Blend returns the blend target at now. Before the first transition it is
// the zero target with weight 1.
func (c *Controller) Blend(now float32) BlendTarget {
	bt := BlendTarget{Current: c.current, Previous: c.previous, Weight: 1}
	if !c.current.Valid() {
		return bt
	}

	elapsed := now - c.meta.EndOfLastAnim
	bt.CurrentTime = c.clipTime(c.current, elapsed)
	if c.previous.Valid() {
		bt.PreviousTime = c.clipTime(c.previous, c.meta.LastPeriodTime+elapsed)
	}
	bt.Weight = c.weight(elapsed)
	return bt
}

func (c *Controller) clipTime(st State, elapsed float32) float32 {
	clip := c.reg.Clip(st.ClipIndex)
	_, local := playbackTime(elapsed*st.Speed, clip.Duration, st.Flags.Has(Repeat))
	if st.Flags.Has(Backwards) {
		return clip.Duration - local
	}
	return local
}

func (c *Controller) weight(elapsed float32) float32 {
	tt := c.meta.TransitionTime
	switch {
	case tt <= 0 || elapsed >= tt:
		return 1
	case elapsed <= 0:
		return 0
	}
	w := c.easing(elapsed, 0, 1, tt)
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
}

// EasingByName returns the blend curve for a config name. An empty name
// means linear.
func EasingByName(name string) (ease.TweenFunc, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}

// EasingNames lists the accepted easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
