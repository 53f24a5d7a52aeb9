package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// DefaultSigma approximates the 3x3 Gaussian kernel (sigma 0.8) used to
// suppress sampling noise before correlation.
const DefaultSigma = 0.8

// Resize scales g to exactly w x h using bilinear interpolation.
// Callers are responsible for preserving the aspect ratio.
func Resize(g *image.Gray, w, h int) *image.Gray {
	if w <= 0 || h <= 0 {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	return fromNRGBA(imaging.Resize(g, w, h, imaging.Linear))
}

// Smooth applies a Gaussian blur with the given sigma.
func Smooth(g *image.Gray, sigma float64) *image.Gray {
	if Empty(g) || sigma <= 0 {
		return g
	}
	return fromNRGBA(imaging.Blur(g, sigma))
}

// Threshold binarizes g: pixels brighter than level become 255, all others 0.
func Threshold(g *image.Gray, level uint8) *image.Gray {
	if level == 255 {
		return Fill(g.Bounds().Dx(), g.Bounds().Dy(), 0)
	}
	return segment.Threshold(g, level+1)
}

// ThresholdInv binarizes g with inverted polarity: pixels at or below level
// (ink) become 255, brighter pixels become 0.
func ThresholdInv(g *image.Gray, level uint8) *image.Gray {
	out := Threshold(g, level)
	for i, v := range out.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

// Mask reports, for every pixel of a binarized buffer, whether it is set.
// The result is indexed [y][x].
func Mask(bin *image.Gray) [][]bool {
	b := bin.Bounds()
	mask := make([][]bool, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		mask[y] = make([]bool, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			mask[y][x] = bin.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 127
		}
	}
	return mask
}
