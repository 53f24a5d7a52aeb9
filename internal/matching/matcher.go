package matching

import (
	"image"
	"math"

	"github.com/ironsheep/card-vision/internal/imaging"
)

// Sentinel is the score reported when a template could not be evaluated at
// any scale. It is below every valid correlation score (-1..1), so it never
// wins a comparison against a real match.
const Sentinel = -2.0

// epsilon below which a variance is treated as zero.
const epsilon = 1e-6

// Matcher scores how well a template appears anywhere inside a region,
// searching over the scales of its profile. A Matcher is stateless and safe
// for concurrent use.
type Matcher struct {
	profile Profile
}

// NewMatcher returns a matcher for the given profile.
func NewMatcher(p Profile) *Matcher {
	return &Matcher{profile: p}
}

// Profile returns the matcher's profile.
func (m *Matcher) Profile() Profile {
	return m.profile
}

// Match returns the best normalized correlation of tpl inside region over
// every scale and placement. ok is false, and the score Sentinel, when the
// region is degenerate or no scale yields a usable template size.
//
// For each scale s the template is resized to height int(h*s), h being the
// region height, keeping its aspect ratio; sizes larger than the region or
// smaller than MinSize are skipped.
func (m *Matcher) Match(region, tpl *image.Gray) (float64, bool) {
	return m.match(m.prepare(region), tpl)
}

// prepared caches the scale-independent views of a region so that one
// region can be matched against many templates.
type prepared struct {
	raw    *image.Gray
	smooth *image.Gray
	ink    *image.Gray
}

func (m *Matcher) prepare(region *image.Gray) prepared {
	p := prepared{raw: region}
	if imaging.Empty(region) {
		return p
	}
	p.smooth = region
	if m.profile.Smooth {
		p.smooth = imaging.Smooth(region, m.profile.SmoothSigma)
	}
	if m.profile.Binarize {
		p.ink = imaging.ThresholdInv(region, m.profile.InkThreshold)
	}
	return p
}

func (m *Matcher) match(region prepared, tpl *image.Gray) (float64, bool) {
	if imaging.Empty(region.raw) || imaging.Empty(tpl) {
		return Sentinel, false
	}

	w, h := region.raw.Bounds().Dx(), region.raw.Bounds().Dy()
	tw, th := tpl.Bounds().Dx(), tpl.Bounds().Dy()

	best, ok := Sentinel, false
	for _, s := range m.profile.Scales {
		newH := int(float64(h) * s)
		newW := tw * newH / th
		if newW > w || newH > h || newW < m.profile.MinSize || newH < m.profile.MinSize {
			continue
		}

		resized := imaging.Resize(tpl, newW, newH)
		candidate := resized
		if m.profile.Smooth {
			candidate = imaging.Smooth(resized, m.profile.SmoothSigma)
		}
		score := correlate(region.smooth, candidate)

		if m.profile.Binarize {
			ink := imaging.ThresholdInv(resized, m.profile.InkThreshold)
			score = math.Max(score, correlate(region.ink, ink))
		}

		if !ok || score > best {
			best, ok = score, true
		}
	}
	return best, ok
}

// FitScore resizes tpl to the largest size that fits inside region with one
// pixel to spare, keeping its aspect ratio, and returns the best smoothed
// correlation. It is meant for fixed on-screen indicators whose size relative
// to the region is known. ok is false for degenerate inputs.
func FitScore(region, tpl *image.Gray) (float64, bool) {
	if imaging.Empty(region) || imaging.Empty(tpl) {
		return Sentinel, false
	}

	w, h := region.Bounds().Dx(), region.Bounds().Dy()
	tw, th := tpl.Bounds().Dx(), tpl.Bounds().Dy()

	scale := math.Min(float64(w-1)/float64(tw), float64(h-1)/float64(th))
	if scale <= 0 {
		return Sentinel, false
	}
	newW := max(5, int(float64(tw)*scale))
	newH := max(5, int(float64(th)*scale))
	if newW > w || newH > h {
		return Sentinel, false
	}

	resized := imaging.Smooth(imaging.Resize(tpl, newW, newH), imaging.DefaultSigma)
	return correlate(imaging.Smooth(region, imaging.DefaultSigma), resized), true
}

// correlate returns the maximum zero-mean normalized cross-correlation
// (the TM_CCOEFF_NORMED measure) of tpl over every placement inside img.
// tpl must not be larger than img. Placements where either side has no
// variance score 0.
func correlate(img, tpl *image.Gray) float64 {
	ib, tb := img.Bounds(), tpl.Bounds()
	iw, ih := ib.Dx(), ib.Dy()
	tw, th := tb.Dx(), tb.Dy()
	n := float64(tw * th)

	// Zero-mean template.
	tz := make([]float64, tw*th)
	var tSum float64
	for y := 0; y < th; y++ {
		row := tpl.Pix[tpl.PixOffset(tb.Min.X, tb.Min.Y+y):]
		for x := 0; x < tw; x++ {
			tSum += float64(row[x])
		}
	}
	tMean := tSum / n
	var tVar float64
	for y := 0; y < th; y++ {
		row := tpl.Pix[tpl.PixOffset(tb.Min.X, tb.Min.Y+y):]
		for x := 0; x < tw; x++ {
			d := float64(row[x]) - tMean
			tz[y*tw+x] = d
			tVar += d * d
		}
	}

	sum, sq := integrals(img)
	stride := iw + 1
	rect := func(tab []float64, u, v int) float64 {
		return tab[(v+th)*stride+u+tw] - tab[v*stride+u+tw] - tab[(v+th)*stride+u] + tab[v*stride+u]
	}

	best := math.Inf(-1)
	for v := 0; v <= ih-th; v++ {
		for u := 0; u <= iw-tw; u++ {
			var num float64
			for y := 0; y < th; y++ {
				row := img.Pix[img.PixOffset(ib.Min.X+u, ib.Min.Y+v+y):]
				trow := tz[y*tw : (y+1)*tw]
				for x, t := range trow {
					num += t * float64(row[x])
				}
			}

			s := rect(sum, u, v)
			iVar := rect(sq, u, v) - s*s/n

			r := 0.0
			if tVar > epsilon && iVar > epsilon {
				r = num / math.Sqrt(tVar*iVar)
				r = math.Max(-1, math.Min(1, r))
			}
			if r > best {
				best = r
			}
		}
	}
	return best
}

// integrals returns the summed-area tables of img and of its squares, each
// (w+1)*(h+1) with a zero first row and column.
func integrals(img *image.Gray) (sum, sq []float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := w + 1
	sum = make([]float64, stride*(h+1))
	sq = make([]float64, stride*(h+1))
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		var rs, rq float64
		for x := 0; x < w; x++ {
			v := float64(row[x])
			rs += v
			rq += v * v
			sum[(y+1)*stride+x+1] = sum[y*stride+x+1] + rs
			sq[(y+1)*stride+x+1] = sq[y*stride+x+1] + rq
		}
	}
	return sum, sq
}
