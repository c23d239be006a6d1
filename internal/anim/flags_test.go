package anim

import "testing"

func TestFlagsSetOperations(t *testing.T) {
	f := Repeat.With(Interruptable)
	if !f.Has(Repeat) || !f.Has(Interruptable) || f.Has(Backwards) {
		t.Errorf("With: got %v", f)
	}
	if !f.Has(Repeat | Interruptable) {
		t.Error("Has should require every flag of the set")
	}
	if f.Has(Repeat | Mirrored) {
		t.Error("Has should fail when one flag is missing")
	}

	f = f.Toggle(Backwards)
	if !f.Has(Backwards) {
		t.Error("Toggle should add a missing flag")
	}
	f = f.Toggle(Backwards)
	if f.Has(Backwards) {
		t.Error("Toggle should remove a present flag")
	}
	if f.Without(Repeat) != Interruptable {
		t.Errorf("Without: got %v", f.Without(Repeat))
	}
}

func TestFlagsString(t *testing.T) {
	tests := []struct {
		flags Flags
		want  string
	}{
		{0, "none"},
		{Repeat, "repeat"},
		{Repeat | Interruptable, "repeat|interruptable"},
		{Backwards | Mirrored, "backwards|mirrored"},
	}
	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", uint8(tt.flags), got, tt.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    Flags
		wantErr bool
	}{
		{"empty", nil, 0, false},
		{"single", []string{"repeat"}, Repeat, false},
		{"mixed case and spaces", []string{" Repeat", "BACKWARDS "}, Repeat | Backwards, false},
		{"interruptible spelling", []string{"interruptible"}, Interruptable, false},
		{"duplicates", []string{"mirrored", "mirrored"}, Mirrored, false},
		{"unknown", []string{"repeat", "loop"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlags(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}
