package particles

import "github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"

// ProjectileConfig tunes the blaster beams.
type ProjectileConfig struct {
	Speed  float64 `json:"speed" yaml:"speed"`
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Life   float64 `json:"life" yaml:"life"`
	// Tail is the colour a beam fades to as it ages.
	Tail Color `json:"tail" yaml:"tail"`
}

// DefaultProjectileConfig returns the stock blaster settings.
func DefaultProjectileConfig() ProjectileConfig {
	return ProjectileConfig{
		Speed:  300,
		Length: 50,
		Width:  0.25,
		Life:   2,
		Tail:   Color{},
	}
}

// ProjectileEffect spawns and animates blaster beams.
type ProjectileEffect struct {
	cfg     ProjectileConfig
	ribbons *RibbonBuffer
}

// NewProjectileEffect returns an effect with no live beams.
func NewProjectileEffect(cfg ProjectileConfig) *ProjectileEffect {
	return &ProjectileEffect{cfg: cfg, ribbons: NewRibbonBuffer()}
}

// Fire launches a beam from origin along direction. The beam starts as a point
// and grows until it reaches its configured length.
func (e *ProjectileEffect) Fire(origin, direction geometry.Vec3, c Color) *RibbonParticle {
	p := e.ribbons.Create()
	p.Start = origin
	p.End = origin
	p.Velocity = direction.Mul(e.cfg.Speed)
	p.Length = e.cfg.Length
	p.Width = e.cfg.Width
	p.Colors = [2]Color{c, e.cfg.Tail}
	p.Color = c
	p.Life = e.cfg.Life
	p.TotalLife = e.cfg.Life
	return p
}

// Update advances every beam by dt seconds. view orients the ribbon quads toward the camera.
func (e *ProjectileEffect) Update(dt float64, view View) {
	e.ribbons.Update(dt, view)
}

// Len returns the number of live beams.
func (e *ProjectileEffect) Len() int {
	return e.ribbons.Len()
}

// Mesh returns the render buffers of the last Update.
func (e *ProjectileEffect) Mesh() RibbonMesh {
	return e.ribbons.Mesh()
}

// Buffer exposes the underlying ribbon pool.
func (e *ProjectileEffect) Buffer() *RibbonBuffer {
	return e.ribbons
}
