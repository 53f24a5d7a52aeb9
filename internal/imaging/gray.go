package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ToGray converts any image to an 8-bit grayscale buffer anchored at the origin.
//
// Color images use ITU-R BT.601 luminance weights (0.299*R + 0.587*G + 0.114*B).
// Alpha is ignored; use Flatten for template assets where transparency matters.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return Crop(g, g.Bounds())
	}
	return fromNRGBA(imaging.Grayscale(img))
}

// AsGray returns img itself when it already is an origin-anchored
// *image.Gray and a ToGray copy otherwise. Callers must not write to the
// result.
func AsGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	return ToGray(img)
}

// fromNRGBA copies the red channel of an already-gray NRGBA buffer.
func fromNRGBA(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcRow := src.Pix[y*src.Stride:]
		dstRow := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dstRow[x] = srcRow[x*4]
		}
	}
	return out
}

// Crop returns a copy of the part of g inside r, anchored at the origin.
//
// r is clipped to g's bounds first. A region that is empty after clipping
// yields a 0x0 buffer rather than an error: degenerate regions are an expected
// input during recognition and callers test for them with Empty.
func Crop(g *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(g.Bounds())
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		start := g.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], g.Pix[start:start+r.Dx()])
	}
	return out
}

// Empty reports whether g has no pixels.
func Empty(g *image.Gray) bool {
	return g == nil || g.Bounds().Dx() <= 0 || g.Bounds().Dy() <= 0
}

// Fill returns a w x h buffer of constant intensity v.
func Fill(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}
