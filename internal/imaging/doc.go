// Package imaging provides the grayscale pixel primitives used by card recognition.
//
// Frames and templates are converted once into *image.Gray buffers anchored at
// the origin; every other operation in this package takes and returns such
// buffers. The package wraps these libraries:
//
//   - github.com/disintegration/imaging for grayscale conversion, linear
//     resizing and Gaussian smoothing
//   - github.com/anthonynsimon/bild for global thresholding
//   - github.com/lucasb-eyer/go-colorful for un-premultiplying template pixels,
//     detecting full transparency and parsing overlay colors
//   - golang.org/x/image/font for the coordinate labels drawn by Overlay
//
// Overlay is the one exception to the grayscale rule: it draws a calibration
// grid and labelled rectangles onto a color copy of a frame.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and never mutate their inputs, so a buffer may be shared between
// goroutines as long as nobody writes to it.
//
// # Intensity Convention
//
// 0 is black ink, 255 is white card stock or background. Transparent template
// pixels are mapped to 255 so that they can never correlate with ink.
package imaging
