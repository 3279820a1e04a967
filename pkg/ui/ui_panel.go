package ui

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30
	sectionHeight = 25
	margin        = 10
	scrollStep    = 20
)

// row is either a section header (widget == nil) or a widget.
type row struct {
	title  string
	widget Widget
	y      float64 // top of the row, scroll applied
}

func (r row) height() float64 {
	if r.widget == nil {
		return sectionHeight
	}
	return r.widget.Height()
}

// Panel stacks widgets under section headers in a scrollable box.
type Panel struct {
	X, Y          float64
	Width, Height float64
	Title         string
	Hidden        bool
	ScrollOffset  float64

	BGColor      color.RGBA
	BorderColor  color.RGBA
	SectionColor color.RGBA

	rows []row
}

// NewPanel creates an empty panel
func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{
		X:            x,
		Y:            y,
		Width:        width,
		Height:       height,
		Title:        title,
		BGColor:      color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor:  color.RGBA{R: 100, G: 100, B: 110, A: 255},
		SectionColor: color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection starts a new section; the widgets added next belong to it.
func (p *Panel) AddSection(title string) {
	p.rows = append(p.rows, row{title: title})
}

// Add appends any widget to the current section.
func (p *Panel) Add(w Widget) {
	p.rows = append(p.rows, row{widget: w})
	p.layout()
}

// AddSlider adds a slider widget to the panel
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(0, 0, 0, label, min, max, value)
	p.Add(s)
	return s
}

// AddCheckbox adds a checkbox widget to the panel
func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	p.Add(c)
	return c
}

// AddButton adds a full width button to the panel
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, 0, 20, label, onClick)
	p.Add(b)
	return b
}

// ContentHeight is the height of everything below the title.
func (p *Panel) ContentHeight() float64 {
	h := 0.0
	for _, r := range p.rows {
		h += r.height()
	}
	return h
}

// maxScroll is how far the content can scroll before its end shows.
func (p *Panel) maxScroll() float64 {
	return max(0, p.ContentHeight()-(p.Height-titleHeight-margin))
}

// layout places every row below the title, shifted by the scroll offset.
func (p *Panel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	for i := range p.rows {
		p.rows[i].y = y
		if w := p.rows[i].widget; w != nil {
			w.Place(p.X+margin, y, p.Width-2*margin)
		}
		y += p.rows[i].height()
	}
}

// visible reports whether a row fits between the title and the bottom edge.
func (p *Panel) visible(r row) bool {
	return r.y >= p.Y+titleHeight && r.y+r.height() <= p.Y+p.Height
}

// Contains reports whether the pointer is over the panel.
func (p *Panel) Contains(ptr Pointer) bool {
	return !p.Hidden && ptr.In(p.X, p.Y, p.Width, p.Height)
}

// Update scrolls with the wheel and forwards the pointer to the visible widgets.
func (p *Panel) Update(ptr Pointer) {
	if p.Hidden {
		return
	}
	if ptr.WheelY != 0 && p.Contains(ptr) {
		p.ScrollOffset = mgl64.Clamp(p.ScrollOffset-ptr.WheelY*scrollStep, 0, p.maxScroll())
	}
	p.layout()

	for _, r := range p.rows {
		if r.widget == nil {
			continue
		}
		if p.visible(r) {
			r.widget.Update(ptr)
		} else {
			// Scrolled out rows only see a released button.
			r.widget.Update(Pointer{X: -1, Y: -1})
		}
	}
}

// Draw renders the panel and its visible rows
func (p *Panel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+margin), int(p.Y+5))

	p.layout()
	for _, r := range p.rows {
		if !p.visible(r) {
			continue
		}
		if r.widget != nil {
			r.widget.Draw(screen)
			continue
		}
		vector.FillRect(screen,
			float32(p.X+5), float32(r.y),
			float32(p.Width-10), sectionHeight-5,
			p.SectionColor, true)
		ebitenutil.DebugPrintAt(screen, r.title, int(p.X+margin), int(r.y+3))
	}
}
