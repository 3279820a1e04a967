package geometry

import "testing"

func TestAABB(t *testing.T) {
	b := NewAABB(Vec3{10, 0, 0}, Vec3{2, 3, 4})

	if !Eq(b.Min, Vec3{8, -3, -4}) || !Eq(b.Max, Vec3{12, 3, 4}) {
		t.Fatalf("NewAABB corners = %s..%s", Format(b.Min), Format(b.Max))
	}
	if !Eq(b.Center(), Vec3{10, 0, 0}) {
		t.Errorf("Center = %s; want (10, 0, 0)", Format(b.Center()))
	}
	if !b.Contains(Vec3{9, 1, 1}) {
		t.Error("expected point inside the box")
	}
	if b.Contains(Vec3{0, 0, 0}) {
		t.Error("did not expect origin inside the box")
	}
}

func TestRay_IntersectBox(t *testing.T) {
	box := NewAABB(Vec3{10, 0, 0}, Vec3{1, 1, 1})

	tests := []struct {
		name    string
		ray     Ray
		wantHit bool
		want    Vec3
	}{
		{
			name:    "Straight hit on the near face",
			ray:     Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{1, 0, 0}},
			wantHit: true,
			want:    Vec3{9, 0, 0},
		},
		{
			name:    "Unnormalized direction gives the same point",
			ray:     Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{5, 0, 0}},
			wantHit: true,
			want:    Vec3{9, 0, 0},
		},
		{
			name:    "Pointing away",
			ray:     Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{-1, 0, 0}},
			wantHit: false,
		},
		{
			name:    "Parallel and outside the slab",
			ray:     Ray{Origin: Vec3{0, 5, 0}, Direction: Vec3{1, 0, 0}},
			wantHit: false,
		},
		{
			name:    "Origin inside returns exit point",
			ray:     Ray{Origin: Vec3{10, 0, 0}, Direction: Vec3{0, 1, 0}},
			wantHit: true,
			want:    Vec3{10, 1, 0},
		},
		{
			name:    "Zero direction never hits",
			ray:     Ray{Origin: Vec3{10, 0, 0}, Direction: Vec3{0, 0, 0}},
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectBox(box)
			if hit != tt.wantHit {
				t.Fatalf("IntersectBox hit = %v; want %v", hit, tt.wantHit)
			}
			if hit && !Eq(got, tt.want) {
				t.Errorf("IntersectBox = %s; want %s", Format(got), Format(tt.want))
			}
		})
	}
}
