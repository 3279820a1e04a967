// Package ui holds the small immediate-mode widgets of the tuning panel.
// Widgets never read the mouse themselves: the panel samples it once per
// frame and hands the same Pointer to each of them.
package ui

import "github.com/hajimehoshi/ebiten/v2"

// Pointer is the mouse state of one frame.
type Pointer struct {
	X, Y    float64
	Pressed bool    // left button held
	WheelY  float64 // vertical wheel delta
}

// ReadPointer samples the mouse from ebiten.
func ReadPointer() Pointer {
	mx, my := ebiten.CursorPosition()
	_, dy := ebiten.Wheel()
	return Pointer{
		X:       float64(mx),
		Y:       float64(my),
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		WheelY:  dy,
	}
}

// In reports whether the pointer is over the rectangle.
func (p Pointer) In(x, y, w, h float64) bool {
	return p.X >= x && p.X <= x+w && p.Y >= y && p.Y <= y+h
}

// Widget is one row of a Panel.
type Widget interface {
	Update(p Pointer)
	Draw(screen *ebiten.Image)
	// Height is the vertical space the row takes, label included.
	Height() float64
	// Place moves the row to (x, y) and gives it the usable width.
	Place(x, y, width float64)
}
