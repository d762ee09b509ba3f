package bigchar

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHalfBlocks(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 2))
	img.SetGray(0, 0, color.Gray{Y: 255}) // top only
	img.SetGray(1, 1, color.Gray{Y: 255}) // bottom only
	img.SetGray(2, 0, color.Gray{Y: 255}) // both
	img.SetGray(2, 1, color.Gray{Y: 255})

	assert.Equal(t, "▀▄█ ", halfBlocks(img, 4, 1))
}

func TestScaleDownAverages(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetGray(x, y, color.Gray{Y: 200})
		}
	}

	dst := scaleDown(src, 2, 2)
	assert.Equal(t, uint8(200), dst.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), dst.GrayAt(1, 1).Y)
}

func TestRenderWithoutFont(t *testing.T) {
	r := New("/nonexistent/font.ttc")
	assert.False(t, r.Available())
	assert.Empty(t, r.Render("日", 10, 5))

	var nilRenderer *Renderer
	assert.False(t, nilRenderer.Available())
}
