package window

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/wanderer6994/launchpad-mini/internal/midi"
)

var (
	padOffColor     = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	padPressedColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// padWidget mirrors one LED and tap-selects it
type padWidget struct {
	widget.BaseWidget
	rect  *canvas.Rectangle
	pos   midi.Position
	onTap func(midi.Position)
}

func newPadWidget(pos midi.Position, onTap func(midi.Position)) *padWidget {
	rect := canvas.NewRectangle(padOffColor)
	rect.CornerRadius = 4
	rect.SetMinSize(fyne.NewSize(40, 40))

	p := &padWidget{rect: rect, pos: pos, onTap: onTap}
	p.ExtendBaseWidget(p)
	return p
}

func (p *padWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.rect)
}

func (p *padWidget) Tapped(_ *fyne.PointEvent) {
	if p.onTap != nil {
		p.onTap(p.pos)
	}
}

func (p *padWidget) TappedSecondary(_ *fyne.PointEvent) {}

// show updates the pad's fill and pressed outline
func (p *padWidget) show(c midi.Color, pressed bool) {
	if c.IsOff() {
		p.rect.FillColor = padOffColor
	} else {
		p.rect.FillColor = c.RGBA()
	}
	if pressed {
		p.rect.StrokeColor = padPressedColor
		p.rect.StrokeWidth = 3
	} else {
		p.rect.StrokeWidth = 0
	}
	p.rect.Refresh()
}
