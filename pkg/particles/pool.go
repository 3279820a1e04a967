// Package particles holds short lived visual particles (projectile ribbons and
// explosion points) and turns them into flat vertex buffers every frame.
package particles

import "github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"

// Lifetime is the part every particle kind shares.
type Lifetime struct {
	Life      float64 // remaining seconds
	TotalLife float64
	Alive     bool
}

// Age consumes dt seconds of life. Alive turns false once Life reaches zero.
func (l *Lifetime) Age(dt float64) {
	l.Life -= dt
	if l.Life <= 0 {
		l.Alive = false
	}
}

// Progress goes from 0 at birth to 1 at death.
func (l *Lifetime) Progress() float64 {
	if l.TotalLife <= 0 {
		return 1
	}
	return geometry.Saturate(1 - l.Life/l.TotalLife)
}

func (l *Lifetime) isAlive() bool { return l.Alive }

type mortal interface {
	isAlive() bool
}

// pool keeps live particles in insertion order. Compaction keeps the survivors'
// relative order but slots are not stable across frames.
type pool[T any, P interface {
	*T
	mortal
}] struct {
	live []P
}

func (p *pool[T, P]) create() P {
	v := P(new(T))
	p.live = append(p.live, v)
	return v
}

// compact drops every dead particle, reusing the backing array.
func (p *pool[T, P]) compact() {
	alive := p.live[:0]
	for _, v := range p.live {
		if v.isAlive() {
			alive = append(alive, v)
		}
	}
	clear(p.live[len(alive):])
	p.live = alive
}

func (p *pool[T, P]) len() int {
	return len(p.live)
}
