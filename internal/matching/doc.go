// Package matching recognizes card symbols by template correlation.
//
// A Matcher compares one region against one template: the template is
// resized over a sweep of scales relative to the region height and slid over
// every placement, and the best zero-mean normalized cross-correlation wins.
// Two profiles exist. Tilted own cards use a narrow sweep on smoothed pixels;
// straight community cards use a wider sweep and add a binarized pass.
//
// A Classifier runs a Matcher for every template of a set and returns the
// best symbol. Recognition is purely correlation based: there is no OCR
// and no learned model, so adding a symbol means adding an asset.
package matching
