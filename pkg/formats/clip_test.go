package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const walkClip = `
name: walk
bones:
  - name: hips
    rest: [0, 1, 0]
    position_keys:
      - {time: 0, value: [0, 0, 0]}
      - {time: 0.5, value: [0, 0, 1]}
      - {time: 1.25, value: [0, 0, 2]}
  - name: spine
    parent: hips
`

func TestParseClip(t *testing.T) {
	doc, err := ParseClip([]byte(walkClip))
	if err != nil {
		t.Fatalf("ParseClip failed: %v", err)
	}

	if doc.Name != "walk" {
		t.Errorf("Name = %q, want walk", doc.Name)
	}
	if doc.Duration != 1.25 {
		t.Errorf("Duration = %v, want 1.25 (latest key)", doc.Duration)
	}
	if len(doc.Bones) != 2 {
		t.Fatalf("bones = %d, want 2", len(doc.Bones))
	}
	hips := doc.Bones[0]
	if hips.Rest != [3]float32{0, 1, 0} {
		t.Errorf("Rest = %v, want [0 1 0]", hips.Rest)
	}
	if got := hips.PositionKeys[2].Value; got != [3]float32{0, 0, 2} {
		t.Errorf("last key = %v, want [0 0 2]", got)
	}
	if doc.Bones[1].Parent != "hips" {
		t.Errorf("spine parent = %q, want hips", doc.Bones[1].Parent)
	}
}

func TestParseClip_ExplicitDuration(t *testing.T) {
	doc, err := ParseClip([]byte("duration: 3\nbones:\n  - name: root\n"))
	if err != nil {
		t.Fatalf("ParseClip failed: %v", err)
	}
	if doc.Duration != 3 {
		t.Errorf("Duration = %v, want 3", doc.Duration)
	}
}

func TestParseClip_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"no bones", "name: idle\n", ErrEmptyClip},
		{"unnamed bone", "bones:\n  - parent: x\n", ErrUnnamedBone},
		{"duplicate bone", "bones:\n  - name: a\n  - name: a\n", ErrDuplicateBone},
		{"negative duration", "duration: -1\nbones:\n  - name: a\n", ErrNegativeLength},
		{
			name: "unordered keys",
			yaml: `
bones:
  - name: a
    position_keys:
      - {time: 1, value: [0, 0, 0]}
      - {time: 0, value: [0, 0, 1]}
`,
			wantErr: ErrUnorderedKeys,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClip([]byte(tt.yaml))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseClip() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseClip_BadYAML(t *testing.T) {
	_, err := ParseClip([]byte("bones:\n  - name: a\n    rest: [1, 2]\n"))
	if err == nil {
		t.Error("expected error for a 2-element rest vector, got nil")
	}
}

func TestParseClipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.yaml")
	if err := os.WriteFile(path, []byte(walkClip), 0644); err != nil {
		t.Fatalf("failed to write clip: %v", err)
	}
	if _, err := ParseClipFile(path); err != nil {
		t.Errorf("ParseClipFile failed: %v", err)
	}
	if _, err := ParseClipFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
