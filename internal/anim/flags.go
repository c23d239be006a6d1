package anim

import (
	"fmt"
	"strings"
)

// Flags is the set of playback modifiers of a clip or a live state.
type Flags uint8

const (
	// Repeat loops the clip. A default clip must repeat.
	Repeat Flags = 1 << iota
	// Backwards plays the clip from its last key to its first.
	Backwards
	// Mirrored negates root displacement.
	Mirrored
	// Interruptable lets soft requests replace the clip.
	Interruptable
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Repeat, "repeat"},
	{Backwards, "backwards"},
	{Mirrored, "mirrored"},
	{Interruptable, "interruptable"},
}

// Has reports whether every flag in o is set.
func (f Flags) Has(o Flags) bool { return f&o == o }

// With returns f with o added.
func (f Flags) With(o Flags) Flags { return f | o }

// Without returns f with o removed.
func (f Flags) Without(o Flags) Flags { return f &^ o }

// Toggle returns f with the membership of o flipped.
func (f Flags) Toggle(o Flags) Flags { return f ^ o }

// String returns the flag names joined by "|", or "none".
func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseFlags converts flag names as written in config files.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
outer:
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "interruptible" {
			name = "interruptable"
		}
		for _, fn := range flagNames {
			if fn.name == name {
				f = f.With(fn.flag)
				continue outer
			}
		}
		return 0, fmt.Errorf("unknown animation flag %q", raw)
	}
	return f, nil
}
