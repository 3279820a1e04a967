package viewer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
)

const (
	minPitch    = -1.5
	maxPitch    = 1.5
	minDistance = 50.0
	maxDistance = 3000.0
)

// Camera orbits around Target at Distance. Yaw and Pitch are in radians.
type Camera struct {
	Target     geometry.Vec3
	Yaw, Pitch float64
	Distance   float64
	FovY       float64
	Near, Far  float64
}

// NewCamera looks at the battle between the default cruisers.
func NewCamera() Camera {
	return Camera{
		Target:   geometry.Vec3{-25, -60, 60},
		Yaw:      0.6,
		Pitch:    0.45,
		Distance: 700,
		FovY:     mgl64.DegToRad(45),
		Near:     1,
		Far:      5000,
	}
}

// Orbit turns the camera around its target. Pitch stops short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, minPitch, maxPitch)
}

// Zoom multiplies the distance to the target by factor.
func (c *Camera) Zoom(factor float64) {
	c.Distance = mgl64.Clamp(c.Distance*factor, minDistance, maxDistance)
}

// Eye returns the camera position in world space.
func (c Camera) Eye() geometry.Vec3 {
	cp := math.Cos(c.Pitch)
	offset := geometry.Vec3{cp * math.Sin(c.Yaw), math.Sin(c.Pitch), cp * math.Cos(c.Yaw)}
	return c.Target.Add(offset.Mul(c.Distance))
}

// View is the world to camera transform.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), c.Target, geometry.Up)
}

// World is the camera's own world matrix, the inverse of View.
func (c Camera) World() mgl64.Mat4 {
	return c.View().Inv()
}

func (c Camera) projector(width, height int) projector {
	aspect := float64(width) / math.Max(float64(height), 1)
	proj := mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
	return projector{
		viewProj: proj.Mul4(c.View()),
		width:    float64(width),
		height:   float64(height),
	}
}

// projector maps world points to screen pixels.
type projector struct {
	viewProj      mgl64.Mat4
	width, height float64
}

// Project returns the pixel position of p and its clip w (depth along the view
// axis). ok is false for points behind the camera.
func (p projector) Project(v geometry.Vec3) (x, y, w float64, ok bool) {
	clip := p.viewProj.Mul4x1(v.Vec4(1))
	w = clip[3]
	if w <= 1e-6 {
		return 0, 0, w, false
	}
	x = (clip[0]/w + 1) / 2 * p.width
	y = (1 - clip[1]/w) / 2 * p.height
	return x, y, w, true
}
