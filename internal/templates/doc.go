// Package templates loads the reference symbol images cards are matched against.
//
// The library is organized in six independent sub-libraries, one per
// (category, orientation) pair: tilted own cards and straight community cards
// are rendered differently on screen and need their own reference assets.
//
// # Asset Layout
//
// Asset paths are produced by a Layout, a pattern per sub-library in which
// {symbol} is replaced with the symbol name. DefaultLayout matches the asset
// tree the references were captured into:
//
//	ranks/{symbol}l.png      tilted-left ranks   (Al.png, 10l.png, ...)
//	ranks/{symbol}r.png      tilted-right ranks
//	s_ranks/{symbol}.png     straight ranks
//	suits/{symbol}Left.png   tilted-left suits   (ClubLeft.png, ...)
//	suits/{symbol}Right.png  tilted-right suits
//	s_suits/{symbol}.png     straight suits
//
// # Degraded Libraries
//
// A missing asset never fails the load. The symbol is absent from its set, so
// the classifier can never select it; every other symbol still classifies.
// Missing reports what was skipped.
package templates
