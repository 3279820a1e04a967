package geometry

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon Precision constant used for float comparisons and to decide when a
// vector is too short to be normalized.
const (
	Epsilon = 1e-9
)

// Vec3 is the vector type used across the simulation.
// It is mgl64.Vec3 so callers keep every method mathgl offers (Add, Sub, Mul, Dot, Cross, Len).
type Vec3 = mgl64.Vec3

var (
	Zero = Vec3{0, 0, 0}
	Up   = Vec3{0, 1, 0}
)

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// SafeNormalize returns a unit vector in the same direction.
// Returns a zero vector if the length is effectively zero, where mgl64's
// Normalize would divide by zero and yield Inf/NaN components.
func SafeNormalize(v Vec3) Vec3 {
	l := v.Len()
	if l < Epsilon || math.IsInf(l, 0) || math.IsNaN(l) {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// ClampLength rescales v to maxLen when it is longer than maxLen.
// The returned flag reports whether clamping happened.
func ClampLength(v Vec3, maxLen float64) (Vec3, bool) {
	if maxLen <= 0 {
		return Vec3{}, v.LenSqr() > 0
	}
	if v.LenSqr() <= maxLen*maxLen {
		return v, false
	}
	return SafeNormalize(v).Mul(maxLen), true
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// DistanceSquared calculates the squared Euclidean distance between two points.
// Use it for comparisons to avoid the square root.
func DistanceSquared(a, b Vec3) float64 {
	return a.Sub(b).LenSqr()
}

// ---------------------------------------------------------------------
// Interpolation
// ---------------------------------------------------------------------

// Lerp (Linear Interpolate) calculates a point between a and b based on t [0, 1].
func Lerp(a, b Vec3, t float64) Vec3 {
	// Formula: a + (b - a) * t
	return a.Add(b.Sub(a).Mul(t))
}

// LerpScalar interpolates between a and b.
func LerpScalar(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Saturate clamps x into [0, 1].
func Saturate(x float64) float64 {
	return mgl64.Clamp(x, 0, 1)
}

// ---------------------------------------------------------------------
// Randomness
// ---------------------------------------------------------------------

// RandRange returns a uniform value in [lo, hi).
func RandRange(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// RandomInCube draws each component independently in [-halfExtent, halfExtent).
// Applied to a unit cube and normalized this gives the cheap "random direction"
// used by the simulation, which is biased toward the cube's corners.
func RandomInCube(rng *rand.Rand, halfExtent float64) Vec3 {
	return Vec3{
		RandRange(rng, -halfExtent, halfExtent),
		RandRange(rng, -halfExtent, halfExtent),
		RandRange(rng, -halfExtent, halfExtent),
	}
}

// ---------------------------------------------------------------------
// Comparison / Formatting
// ---------------------------------------------------------------------

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func Eq(a, b Vec3) bool {
	return math.Abs(a[0]-b[0]) <= Epsilon &&
		math.Abs(a[1]-b[1]) <= Epsilon &&
		math.Abs(a[2]-b[2]) <= Epsilon
}

// IsFinite reports whether every component is a real number.
func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Format renders a vector with two decimals, handy in log lines.
func Format(v Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
}
