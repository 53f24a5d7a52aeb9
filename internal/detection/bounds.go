package detection

import (
	"fmt"
	"image"
)

// Bounds represents a rectangular region in frame pixel coordinates.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
//
// A Bounds with X2 <= X1 or Y2 <= Y1 is empty. Empty regions are legal values:
// every consumer treats them as "nothing here" rather than failing.
type Bounds struct {
	X1 int `json:"x1" yaml:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1" yaml:"y1"` // Top edge (inclusive)
	X2 int `json:"x2" yaml:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2" yaml:"y2"` // Bottom edge (exclusive)
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// FromRect converts an image.Rectangle to Bounds.
func FromRect(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Width returns X2 - X1, which may be zero or negative for empty bounds.
func (b Bounds) Width() int { return b.X2 - b.X1 }

// Height returns Y2 - Y1, which may be zero or negative for empty bounds.
func (b Bounds) Height() int { return b.Y2 - b.Y1 }

// Area returns Width*Height, or 0 when the bounds are empty.
func (b Bounds) Area() int {
	if b.Empty() {
		return 0
	}
	return b.Width() * b.Height()
}

// Empty reports whether the bounds contain no pixels.
func (b Bounds) Empty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Rect converts the bounds to an image.Rectangle.
// Inverted bounds produce the canonical empty rectangle.
func (b Bounds) Rect() image.Rectangle {
	if b.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Center returns the integer midpoint of the bounds.
func (b Bounds) Center() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2}
}

// Intersect returns the largest bounds contained by both b and o.
// The result is empty when they do not overlap.
func (b Bounds) Intersect(o Bounds) Bounds {
	out := Bounds{
		X1: max(b.X1, o.X1),
		Y1: max(b.Y1, o.Y1),
		X2: min(b.X2, o.X2),
		Y2: min(b.Y2, o.Y2),
	}
	if out.Empty() {
		return Bounds{}
	}
	return out
}

// Union returns the smallest bounds containing both b and o.
// Empty operands are ignored.
func (b Bounds) Union(o Bounds) Bounds {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Bounds{
		X1: min(b.X1, o.X1),
		Y1: min(b.Y1, o.Y1),
		X2: max(b.X2, o.X2),
		Y2: max(b.Y2, o.Y2),
	}
}

// Overlaps reports whether b and o share at least one pixel.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.X1 < o.X2 && b.X2 > o.X1 && b.Y1 < o.Y2 && b.Y2 > o.Y1
}

// Pad grows the bounds by n pixels on every side.
func (b Bounds) Pad(n int) Bounds {
	return Bounds{X1: b.X1 - n, Y1: b.Y1 - n, X2: b.X2 + n, Y2: b.Y2 + n}
}

// Translate shifts the bounds by (dx, dy).
func (b Bounds) Translate(dx, dy int) Bounds {
	return Bounds{X1: b.X1 + dx, Y1: b.Y1 + dy, X2: b.X2 + dx, Y2: b.Y2 + dy}
}

func (b Bounds) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", b.X1, b.Y1, b.X2, b.Y2)
}

// Fixed returns a calibrated region unchanged. It exists so that fixed-mode
// and variable-mode location read the same at the call site: own cards sit at
// calibrated positions, community cards are found by LocateCards.
func Fixed(b Bounds) Bounds {
	return b
}
