package ui

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const labelHeight = 15

// Slider edits a float between Min and Max by dragging along its bar.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64 // top left of the row; the bar sits below the label
	W, H     float64
	Format   string // value format, "%.2f" by default

	// OnChange runs whenever dragging changes the value.
	OnChange func(float64)
}

// NewSlider creates a slider, clamping value into [min, max].
func NewSlider(x, y, width float64, label string, min, max, value float64) *Slider {
	return &Slider{
		Label:  label,
		Value:  mgl64.Clamp(value, min, max),
		Min:    min,
		Max:    max,
		X:      x,
		Y:      y,
		W:      width,
		H:      10,
		Format: "%.2f",
	}
}

func (s *Slider) barY() float64 { return s.Y + labelHeight }

// Update follows the pointer while the button is held over the bar.
func (s *Slider) Update(p Pointer) {
	if !p.Pressed || s.W <= 0 || !p.In(s.X, s.barY(), s.W, s.H) {
		return
	}
	v := mgl64.Clamp(s.Min+(p.X-s.X)/s.W*(s.Max-s.Min), s.Min, s.Max)
	if v == s.Value {
		return
	}
	s.Value = v
	if s.OnChange != nil {
		s.OnChange(v)
	}
}

// Set moves the slider without running OnChange.
func (s *Slider) Set(v float64) {
	s.Value = mgl64.Clamp(v, s.Min, s.Max)
}

// Ratio is the filled share of the bar.
func (s *Slider) Ratio() float64 {
	if s.Max == s.Min {
		return 0
	}
	return mgl64.Clamp((s.Value-s.Min)/(s.Max-s.Min), 0, 1)
}

func (s *Slider) Height() float64 { return s.H + 25 }

func (s *Slider) Place(x, y, width float64) {
	s.X, s.Y, s.W = x, y, width
}

// Draw renders the label, the value and the bar
func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: "+s.Format, s.Label, s.Value), int(s.X), int(s.Y))

	y := s.barY()
	vector.FillRect(screen, float32(s.X), float32(y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)
	vector.FillRect(screen, float32(s.X), float32(y), float32(s.W*s.Ratio()), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}
