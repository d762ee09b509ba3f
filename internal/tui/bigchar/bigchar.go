// Package bigchar renders a kanji as block art from a system CJK font, for
// the front face of a card.
package bigchar

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontPaths lists common CJK fonts, Japanese faces first.
var FontPaths = []string{
	// macOS
	"/System/Library/Fonts/ヒラギノ角ゴシック W3.ttc",
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"/System/Library/Fonts/PingFang.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	// Linux
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/opentype/ipafont-gothic/ipag.ttf",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	// Windows
	"C:\\Windows\\Fonts\\YuGothR.ttc",
	"C:\\Windows\\Fonts\\msgothic.ttc",
}

// threshold is the brightness above which a half cell is drawn.
const threshold = 40

// Renderer draws characters with one font face and caches the results.
type Renderer struct {
	face font.Face

	mu    sync.Mutex
	cache map[string]string
}

// New loads the first usable font among paths. The returned renderer is
// never nil; without a font it renders nothing.
func New(paths ...string) *Renderer {
	r := &Renderer{cache: make(map[string]string)}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if face, err := parseFace(data); err == nil {
			r.face = face
			break
		}
	}
	return r
}

func parseFace(data []byte) (font.Face, error) {
	opts := &opentype.FaceOptions{Size: 64, DPI: 72}

	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		fnt, err := coll.Font(0)
		if err != nil {
			return nil, err
		}
		return opentype.NewFace(fnt, opts)
	}

	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return opentype.NewFace(fnt, opts)
}

// Available reports whether a font was loaded.
func (r *Renderer) Available() bool {
	return r != nil && r.face != nil
}

// Render draws the first rune of char in cols×rows terminal cells. It
// returns "" when no font is available.
func (r *Renderer) Render(char string, cols, rows int) string {
	if !r.Available() || char == "" || cols <= 0 || rows <= 0 {
		return ""
	}

	key := fmt.Sprintf("%s/%dx%d", char, cols, rows)
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.cache[key]; ok {
		return s
	}

	s := halfBlocks(scaleDown(r.rasterize(char), cols, rows*2), cols, rows)
	r.cache[key] = s
	return s
}

func (r *Renderer) rasterize(char string) *image.Gray {
	ch, _ := utf8.DecodeRuneInString(char)

	bounds, _, _ := r.face.GlyphBounds(ch)
	glyphWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	const padding = 4
	width := max(glyphWidth+padding*2, 64)
	height := max(glyphHeight+padding*2, 64)

	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P((width-glyphWidth)/2, height-padding-bounds.Max.Y.Ceil()),
	}
	d.DrawString(string(ch))
	return img
}

// scaleDown resizes by averaging the source pixels under each target pixel.
func scaleDown(src *image.Gray, width, height int) *image.Gray {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, width, height))

	for dy := 0; dy < height; dy++ {
		y1, y2 := dy*sh/height, min((dy+1)*sh/height, sh)
		for dx := 0; dx < width; dx++ {
			x1, x2 := dx*sw/width, min((dx+1)*sw/width, sw)

			sum, count := 0, 0
			for sy := y1; sy < y2; sy++ {
				for sx := x1; sx < x2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}
	return dst
}

// halfBlocks packs two pixel rows into each text row using ▀ ▄ █.
func halfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := brightness(img, col, row*2) > threshold
			bottom := brightness(img, col, row*2+1) > threshold
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func brightness(img *image.Gray, x, y int) uint8 {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return 0
	}
	return img.GrayAt(x, y).Y
}
