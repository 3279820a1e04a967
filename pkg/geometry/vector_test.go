package geometry

import (
	"math"
	"math/rand/v2"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestSafeNormalize(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want Vec3
	}{
		{"3-4-0 triangle", Vec3{3, 4, 0}, Vec3{0.6, 0.8, 0}},
		{"Unit Z", Vec3{0, 0, 7}, Vec3{0, 0, 1}},
		{"Zero vector", Vec3{0, 0, 0}, Vec3{0, 0, 0}},
		{"Below epsilon", Vec3{Epsilon / 10, 0, 0}, Vec3{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeNormalize(tt.v)
			if !Eq(got, tt.want) {
				t.Errorf("SafeNormalize(%s) = %s; want %s", Format(tt.v), Format(got), Format(tt.want))
			}
			if !IsFinite(got) {
				t.Errorf("SafeNormalize(%s) produced non finite components", Format(tt.v))
			}
		})
	}
}

func TestClampLength(t *testing.T) {
	t.Run("Shorter vector is untouched", func(t *testing.T) {
		v := Vec3{1, 0, 0}
		got, clamped := ClampLength(v, 2)
		if clamped || !Eq(got, v) {
			t.Errorf("ClampLength = %s, %v; want %s, false", Format(got), clamped, Format(v))
		}
	})

	t.Run("Longer vector is rescaled", func(t *testing.T) {
		got, clamped := ClampLength(Vec3{0, 30, 40}, 5)
		if !clamped {
			t.Error("expected clamping to happen")
		}
		if !floatEquals(got.Len(), 5) {
			t.Errorf("clamped length = %v; want 5", got.Len())
		}
		if !Eq(SafeNormalize(got), Vec3{0, 0.6, 0.8}) {
			t.Errorf("clamping changed direction: %s", Format(got))
		}
	})

	t.Run("Zero limit", func(t *testing.T) {
		got, _ := ClampLength(Vec3{1, 1, 1}, 0)
		if !Eq(got, Zero) {
			t.Errorf("ClampLength(_, 0) = %s; want zero", Format(got))
		}
	})
}

func TestDistance(t *testing.T) {
	a := Vec3{1, 1, 1}
	b := Vec3{4, 5, 1} // dx=3, dy=4, dist=5

	if got := Distance(a, b); got != 5 {
		t.Errorf("Distance = %v; want 5", got)
	}
	if got := DistanceSquared(a, b); got != 25 {
		t.Errorf("DistanceSquared = %v; want 25", got)
	}
}

func TestLerp(t *testing.T) {
	got := Lerp(Vec3{0, 0, 0}, Vec3{10, 10, -10}, 0.5)
	want := Vec3{5, 5, -5}
	if !Eq(got, want) {
		t.Errorf("Lerp(0.5) = %s; want %s", Format(got), Format(want))
	}
	if got := LerpScalar(3, 12, 0.25); !floatEquals(got, 5.25) {
		t.Errorf("LerpScalar = %v; want 5.25", got)
	}
}

func TestSaturate(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-2, 0},
		{0.3, 0.3},
		{1.7, 1},
	}
	for _, tt := range tests {
		if got := Saturate(tt.in); got != tt.want {
			t.Errorf("Saturate(%v) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestRandomInCube(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		v := RandomInCube(rng, 250)
		for axis, c := range v {
			if c < -250 || c >= 250 {
				t.Fatalf("component %d = %v out of [-250, 250)", axis, c)
			}
		}
	}
}

func TestEq(t *testing.T) {
	v := Vec3{1, 2, 3}

	if !Eq(v, Vec3{1, 2, 3}) {
		t.Error("Eq exact match failed")
	}
	if !Eq(v, Vec3{1 + Epsilon/2, 2 - Epsilon/2, 3}) {
		t.Error("Eq epsilon match failed")
	}
	if Eq(v, Vec3{1.1, 2, 3}) {
		t.Error("Eq mismatch failed")
	}
}

func TestFormat(t *testing.T) {
	want := "(1.23, 5.68, -1.00)"
	if got := Format(Vec3{1.234, 5.678, -1}); got != want {
		t.Errorf("Format = %q; want %q", got, want)
	}
}
