// Package testutil renders synthetic card symbols, cards and table frames for
// tests. Nothing outside _test.go files imports it.
package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing/fstest"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/card-vision/internal/cards"
)

// GlyphHeight is the height of every normalized glyph. A glyph padded by the
// 3 pixel segmentation margin is 30 rows tall, and 0.8 of that is exactly
// GlyphHeight, a scale both matching profiles sweep.
const GlyphHeight = 24

// Margin is the white border segmentation leaves around a symbol.
const Margin = 3

// RankGlyph renders the asset label of r ("10" for ten) in black on white,
// cropped to its ink and scaled to GlyphHeight rows.
func RankGlyph(r cards.Rank) *image.Gray {
	return normalize(rankCell(r, 3))
}

// SuitGlyph draws the pictogram of s cropped to its ink and scaled to
// GlyphHeight rows.
func SuitGlyph(s cards.Suit) *image.Gray {
	return normalize(suitCell(s, 48))
}

// Glyph renders a symbol at its normalized size.
func Glyph(sym cards.Symbol) *image.Gray {
	if sym.Category == cards.CategoryRank {
		return RankGlyph(sym.Rank)
	}
	return SuitGlyph(sym.Suit)
}

// Region returns the glyph of sym framed the way segmentation crops it.
func Region(sym cards.Symbol) *image.Gray {
	return Pad(Glyph(sym), Margin, Margin, Margin, Margin, 255)
}

func rankCell(r cards.Rank, scale int) *image.Gray {
	label := r.AssetName()
	cell := image.NewGray(image.Rect(0, 0, 7*len(label), 13))
	fill(cell, 255)
	d := &font.Drawer{
		Dst:  cell,
		Src:  image.NewUniform(color.Gray{Y: 0}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(0, 11),
	}
	d.DrawString(label)
	return magnify(cell, scale)
}

func suitCell(s cards.Suit, size int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, size, size))
	fill(g, 255)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u := (float64(x) + 0.5) / float64(size)
			v := (float64(y) + 0.5) / float64(size)
			if inSuit(s, u, v) {
				g.Pix[y*g.Stride+x] = 0
			}
		}
	}
	return g
}

func inSuit(s cards.Suit, u, v float64) bool {
	stem := math.Abs(u-0.5) < 0.06 && v > 0.5 && v < 0.95
	base := v > 0.85 && v < 0.95 && math.Abs(u-0.5) < 0.2
	switch s {
	case cards.Diamond:
		return math.Abs(u-0.5)/0.35+math.Abs(v-0.5)/0.45 <= 1
	case cards.Heart:
		if circle(u, v, 0.32, 0.35, 0.2) || circle(u, v, 0.68, 0.35, 0.2) {
			return true
		}
		return v >= 0.35 && v <= 0.9 && math.Abs(u-0.5) <= 0.38*(0.9-v)/0.55
	case cards.Spade:
		if circle(u, v, 0.32, 0.55, 0.18) || circle(u, v, 0.68, 0.55, 0.18) {
			return true
		}
		if v >= 0.06 && v <= 0.6 && math.Abs(u-0.5) <= 0.36*(v-0.06)/0.5 {
			return true
		}
		return stem || base
	case cards.Club:
		if circle(u, v, 0.5, 0.26, 0.17) || circle(u, v, 0.29, 0.56, 0.17) || circle(u, v, 0.71, 0.56, 0.17) {
			return true
		}
		return (math.Abs(u-0.5) < 0.06 && v > 0.3 && v < 0.95) || base
	}
	return false
}

func circle(u, v, cx, cy, r float64) bool {
	return (u-cx)*(u-cx)+(v-cy)*(v-cy) <= r*r
}

// Pad surrounds g with a margin of constant intensity bg.
func Pad(g *image.Gray, left, top, right, bottom int, bg uint8) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()+left+right, b.Dy()+top+bottom))
	fill(out, bg)
	Paste(out, g, left, top)
	return out
}

// Paste copies src into dst with its top-left corner at (x, y).
// Pixels outside dst are dropped.
func Paste(dst, src *image.Gray, x, y int) {
	sb := src.Bounds()
	for sy := 0; sy < sb.Dy(); sy++ {
		for sx := 0; sx < sb.Dx(); sx++ {
			p := image.Pt(x+sx, y+sy)
			if !p.In(dst.Bounds()) {
				continue
			}
			dst.SetGray(p.X, p.Y, src.GrayAt(sb.Min.X+sx, sb.Min.Y+sy))
		}
	}
}

// Canvas returns a w x h buffer filled with v.
func Canvas(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	fill(g, v)
	return g
}

// FillRect paints r on g with intensity v.
func FillRect(g *image.Gray, r image.Rectangle, v uint8) {
	r = r.Intersect(g.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.Pix[g.PixOffset(x, y)] = v
		}
	}
}

// Card face geometry: 70x100 passes the default community footprint.
const (
	CardWidth  = 70
	CardHeight = 100
)

// CardFace renders a white card with the rank glyph in the top-left corner
// and the suit pictogram well beneath it.
func CardFace(c cards.Card) *image.Gray {
	face := Canvas(CardWidth, CardHeight, 250)
	Paste(face, RankGlyph(c.Rank), 6, 6)
	Paste(face, SuitGlyph(c.Suit), 6, 6+GlyphHeight+14)
	return face
}

// PNG encodes g as PNG.
func PNG(g image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, g); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// TransparentPNG encodes g as an NRGBA PNG in which every white pixel is
// fully transparent, the way reference assets are cut out.
func TransparentPNG(g *image.Gray) []byte {
	b := g.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := g.GrayAt(x, y).Y
			if v == 255 {
				out.SetNRGBA(x, y, color.NRGBA{})
				continue
			}
			out.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return PNG(out)
}

// AssetFS builds an asset tree in the default layout holding every rank and
// suit glyph for every orientation, except for the symbols listed in skip.
// Assets are stored with transparent backgrounds.
func AssetFS(skip ...cards.Symbol) fstest.MapFS {
	fsys := fstest.MapFS{}
	omit := make(map[cards.Symbol]bool, len(skip))
	for _, s := range skip {
		omit[s] = true
	}

	patterns := map[cards.Category][]string{
		cards.CategoryRank: {"ranks/%sl.png", "ranks/%sr.png", "s_ranks/%s.png"},
		cards.CategorySuit: {"suits/%sLeft.png", "suits/%sRight.png", "s_suits/%s.png"},
	}
	for cat, pats := range patterns {
		for _, sym := range cards.SymbolsOf(cat) {
			if omit[sym] {
				continue
			}
			data := TransparentPNG(Glyph(sym))
			for _, p := range pats {
				fsys[fmt.Sprintf(p, sym.AssetName())] = &fstest.MapFile{Data: data}
			}
		}
	}
	return fsys
}

// normalize crops g to its dark pixels and rescales it to GlyphHeight rows
// keeping the aspect ratio. Each output pixel takes the darkest pixel of its
// source block, so every edge row and column of the result still holds ink.
func normalize(g *image.Gray) *image.Gray {
	ink := image.Rectangle{}
	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if g.GrayAt(x, y).Y < 128 {
				ink = ink.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	w := max(1, ink.Dx()*GlyphHeight/ink.Dy())
	out := image.NewGray(image.Rect(0, 0, w, GlyphHeight))
	for y := 0; y < GlyphHeight; y++ {
		y0, y1 := block(y, ink.Dy(), GlyphHeight)
		for x := 0; x < w; x++ {
			x0, x1 := block(x, ink.Dx(), w)
			v := uint8(255)
			for sy := y0; sy < y1; sy++ {
				for sx := x0; sx < x1; sx++ {
					v = min(v, g.GrayAt(ink.Min.X+sx, ink.Min.Y+sy).Y)
				}
			}
			out.Pix[y*out.Stride+x] = v
		}
	}
	return out
}

// block returns the source span [lo, hi) covered by output index i when n
// source pixels map onto m output pixels.
func block(i, n, m int) (int, int) {
	lo := i * n / m
	hi := (i + 1) * n / m
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func magnify(g *image.Gray, scale int) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			out.Pix[y*out.Stride+x] = g.GrayAt(b.Min.X+x/scale, b.Min.Y+y/scale).Y
		}
	}
	return out
}

func fill(g *image.Gray, v uint8) {
	for i := range g.Pix {
		g.Pix[i] = v
	}
}
