package cards

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	data, err := Render("Happy birthday, Alice!", "March 5th")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, Width, bounds.Dx())
	assert.Equal(t, Height, bounds.Dy())

	// the centre of the card is the light panel, not the dark background
	r, g, b, _ := img.At(Width/2, padding+4).RGBA()
	assert.Greater(t, r>>8+g>>8+b>>8, uint32(3*0x80))
}

func TestRenderIsDeterministic(t *testing.T) {
	first, err := Render("Happy birthday, Bob!", "")
	require.NoError(t, err)

	second, err := Render("Happy birthday, Bob!", "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
