// Package cards renders the optional birthday card attached to announcements.
package cards

import (
	"bytes"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

const (
	Width  = 800
	Height = 300

	padding = 24.0
)

var confetti = []string{"#f04747", "#faa61a", "#43b581", "#7289da", "#b9bbbe"}

// Render draws a rounded card with title and subtitle centred on Discord's
// dark background and returns it as PNG.
func Render(title, subtitle string) ([]byte, error) {
	dc := gg.NewContext(Width, Height)

	dc.SetHexColor("#36393f")
	dc.Clear()

	drawConfetti(dc)

	rectW, rectH := float64(Width)-2*padding, float64(Height)-2*padding
	radius := ((rectW + rectH) / 2) / 12

	// Background
	dc.DrawRoundedRectangle(padding, padding, rectW, rectH, radius)
	dc.SetRGBA(1, 1, 1, 0.92)
	dc.Fill()

	// Border
	dc.DrawRoundedRectangle(padding, padding, rectW, rectH, radius)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	dc.Stroke()

	textWidth := rectW - 4*padding

	dc.SetRGB(0, 0, 0)
	dc.DrawStringWrapped(title, Width/2, Height/2-16, 0.5, 0.5, textWidth, 1.5, gg.AlignCenter)

	if subtitle != "" {
		dc.SetHexColor("#4f545c")
		dc.DrawStringWrapped(subtitle, Width/2, Height/2+20, 0.5, 0.5, textWidth, 1.5, gg.AlignCenter)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(err, "encode birthday card")
	}

	return buf.Bytes(), nil
}

// drawConfetti scatters dots along the card border on a fixed pattern so
// the output is deterministic.
func drawConfetti(dc *gg.Context) {
	for i := 0; i < 40; i++ {
		x := float64((i*97)%Width) + 4
		y := float64((i*53)%Height) + 4

		dc.DrawCircle(x, y, float64(3+i%4))
		dc.SetHexColor(confetti[i%len(confetti)])
		dc.Fill()
	}
}
