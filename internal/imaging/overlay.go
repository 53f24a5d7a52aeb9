package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Default overlay colors.
const (
	DefaultGridColor       = "#ff0000"
	DefaultAnnotationColor = "#00ff00"
)

// Annotation is a labelled rectangle drawn by Overlay.
type Annotation struct {
	Label string
	Rect  image.Rectangle
	// Color is a "#rrggbb" hex string. Empty or invalid values use
	// DefaultAnnotationColor.
	Color string
}

var (
	labelFG = color.NRGBA{255, 255, 255, 255}
	labelBG = color.NRGBA{0, 0, 0, 180}
)

// Overlay copies img, draws a coordinate grid every spacing pixels (none when
// spacing <= 0) and outlines each annotation with its label above it.
func Overlay(img image.Image, spacing int, anns []Annotation) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	if spacing > 0 {
		grid := hexColor(DefaultGridColor, color.NRGBA{255, 0, 0, 255})
		grid.A = 128
		for x := b.Min.X + spacing; x < b.Max.X; x += spacing {
			blend(out, image.Rect(x, b.Min.Y, x+1, b.Max.Y), grid)
		}
		for y := b.Min.Y + spacing; y < b.Max.Y; y += spacing {
			blend(out, image.Rect(b.Min.X, y, b.Max.X, y+1), grid)
		}
		for y := b.Min.Y + spacing; y < b.Max.Y; y += spacing {
			for x := b.Min.X + spacing; x < b.Max.X; x += spacing {
				drawLabel(out, x+2, y+2, fmt.Sprintf("%d,%d", x, y))
			}
		}
	}

	fallback := hexColor(DefaultAnnotationColor, color.NRGBA{0, 255, 0, 255})
	for _, a := range anns {
		r := a.Rect.Canon()
		if r.Empty() {
			continue
		}
		c := hexColor(a.Color, fallback)
		outline(out, r, c)
		if a.Label == "" {
			continue
		}
		y := r.Min.Y - basicfont.Face7x13.Height - 1
		if y-1 < b.Min.Y {
			y = r.Min.Y + 3
		}
		drawLabel(out, r.Min.X+1, y, a.Label)
	}
	return out
}

// EncodePNGBase64 encodes img as a base64 PNG.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SavePNG writes img to path as a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return f.Close()
}

func hexColor(s string, fallback color.NRGBA) color.NRGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func blend(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// outline draws a two pixel frame just inside r.
func outline(dst *image.RGBA, r image.Rectangle, c color.Color) {
	const w = 2
	blend(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), c)
	blend(dst, image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), c)
	blend(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), c)
	blend(dst, image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// drawLabel writes text with its top-left corner at (x, y) on a shaded box.
func drawLabel(dst *image.RGBA, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(labelFG), Face: face}
	w := d.MeasureString(text).Ceil()
	blend(dst, image.Rect(x-1, y-1, x+w+1, y+face.Height), labelBG)
	d.Dot = fixed.P(x, y+face.Ascent)
	d.DrawString(text)
}
