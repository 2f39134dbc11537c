package window

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/sirupsen/logrus"
)

// rotatedLabel renders text bottom-to-top (90 degrees CCW) with freetype,
// for captions along the side of the pad grid
func rotatedLabel(text string, log logrus.FieldLogger) *canvas.Image {
	fontBytes := theme.DefaultTextFont().Content()

	f, err := freetype.ParseFont(fontBytes)
	if err != nil {
		log.WithError(err).Warn("failed to parse font")
		return canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	}

	fontSize := float64(12)
	dpi := float64(72)

	c := freetype.NewContext()
	c.SetFont(f)
	c.SetFontSize(fontSize)
	c.SetDPI(dpi)

	face := truetype.NewFace(f, &truetype.Options{Size: fontSize, DPI: dpi})
	defer face.Close()

	textWidth := 0
	for _, r := range text {
		if adv, ok := face.GlyphAdvance(r); ok {
			textWidth += adv.Round()
		}
	}

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()

	padding := 2
	imgWidth := textWidth + padding*2
	imgHeight := (metrics.Ascent+metrics.Descent).Ceil() + padding*2

	src := image.NewRGBA(image.Rect(0, 0, imgWidth, imgHeight))
	c.SetClip(src.Bounds())
	c.SetDst(src)
	c.SetSrc(image.NewUniform(theme.ForegroundColor()))

	if _, err := c.DrawString(text, freetype.Pt(padding, padding+ascent)); err != nil {
		log.WithError(err).Warn("failed to draw label")
	}

	// (x,y) -> (y, width-1-x)
	rotated := image.NewRGBA(image.Rect(0, 0, imgHeight, imgWidth))
	for y := 0; y < imgHeight; y++ {
		for x := 0; x < imgWidth; x++ {
			rotated.Set(y, imgWidth-1-x, src.At(x, y))
		}
	}

	img := canvas.NewImageFromImage(rotated)
	img.SetMinSize(fyne.NewSize(float32(imgHeight), float32(imgWidth)))
	img.FillMode = canvas.ImageFillOriginal
	return img
}
