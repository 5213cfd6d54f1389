package layout

import "testing"

func TestRawLayoutDefaults(t *testing.T) {
	l, err := New(Spec{Type: TypeRaw, Keys: []KeySpec{
		{X: 10, Y: 20},
		{X: 100, Y: 40, Width: 30, Height: 20, Rotation: 15},
	}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	k := l.Key(0)
	if k.Width != KeyWidth || k.Height != KeyHeight {
		t.Errorf("default dimensions = %gx%g, want %gx%g", k.Width, k.Height, KeyWidth, KeyHeight)
	}
	if k.Rotation != 0 {
		t.Errorf("default rotation = %g, want 0", k.Rotation)
	}

	k = l.Key(1)
	if k.Width != 30 || k.Height != 20 || k.Rotation != 15 {
		t.Errorf("explicit key = %+v, want 30x20 r15", k)
	}
}

func TestLayoutExtents(t *testing.T) {
	l, err := New(Spec{Type: TypeRaw, Keys: []KeySpec{
		{X: 10, Y: 20, Width: 20, Height: 10},
		{X: 50, Y: 5, Width: 40, Height: 8},
	}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// max(center + half extent) per axis
	if got, want := l.Width(), 70.0; got != want {
		t.Errorf("Width() = %g, want %g", got, want)
	}
	if got, want := l.Height(), 25.0; got != want {
		t.Errorf("Height() = %g, want %g", got, want)
	}
	if got, want := l.MinWidth(), 20.0; got != want {
		t.Errorf("MinWidth() = %g, want %g", got, want)
	}
	if got, want := l.MinHeight(), 8.0; got != want {
		t.Errorf("MinHeight() = %g, want %g", got, want)
	}
}

func TestLayoutExtentsIdempotent(t *testing.T) {
	l, err := New(Spec{Type: TypeRaw, Keys: []KeySpec{{X: 30, Y: 27}}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first := l.Width()
	for i := 0; i < 3; i++ {
		if got := l.Width(); got != first {
			t.Fatalf("Width() changed across calls: %g then %g", first, got)
		}
	}
	firstH := l.Height()
	for i := 0; i < 3; i++ {
		if got := l.Height(); got != firstH {
			t.Fatalf("Height() changed across calls: %g then %g", firstH, got)
		}
	}
}

func TestLayoutValidation(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{
			name: "unknown type",
			spec: Spec{Type: "staggered"},
		},
		{
			name: "empty raw layout",
			spec: Spec{Type: TypeRaw},
		},
		{
			name: "negative key width",
			spec: Spec{Type: TypeRaw, Keys: []KeySpec{{X: 0, Y: 0, Width: -5, Height: 10}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.spec); err == nil {
				t.Errorf("New(%+v) expected error, got nil", tt.spec)
			}
		})
	}
}
