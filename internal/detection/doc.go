// Package detection locates cards and card symbols in a grayscale table frame.
//
// Two location modes exist. Own (hole) cards sit at calibrated positions and
// are addressed with Fixed bounds. Community cards move as the board fills,
// so LocateCards searches a calibrated area for bright card-shaped regions
// and Segment splits each card into its rank and suit regions.
//
// # Algorithm Overview
//
// Both LocateCards and Segment follow the same pipeline:
//
//  1. Binarization: threshold the region (bright surface for cards, dark ink
//     for symbols)
//  2. Component Finding: group set pixels with an iterative 8-connected flood
//     fill
//  3. Filtering: keep components whose bounding box passes size and shape
//     constraints
//  4. Ordering: cards left to right, symbols top to bottom
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounds use inclusive top-left and exclusive bottom-right
//
// Every returned region is in frame coordinates. Regions may be empty; an
// empty region is a valid value that downstream matching turns into "no
// result" instead of an error.
package detection
