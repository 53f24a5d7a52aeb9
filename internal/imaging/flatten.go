package imaging

import (
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Flatten converts a reference asset to grayscale, mapping every fully
// transparent pixel to 255 (background) before the alpha channel is dropped.
//
// Reference symbols are cut out of screenshots with their background erased;
// leaving erased pixels black would make the matcher correlate background
// against ink. Partially transparent pixels keep their un-premultiplied color.
func Flatten(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c, ok := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y))
			if !ok {
				out.Pix[y*out.Stride+x] = 255
				continue
			}
			out.Pix[y*out.Stride+x] = luminance(c)
		}
	}
	return out
}

// luminance applies the BT.601 weights to an un-premultiplied color.
func luminance(c colorful.Color) uint8 {
	l := 255 * (0.299*c.R + 0.587*c.G + 0.114*c.B)
	return uint8(math.Max(0, math.Min(255, math.Round(l))))
}
