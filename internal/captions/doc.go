// Package captions converts transcript segments into styled, positioned
// overlays and serializes them as an ASS subtitle document for burn-in.
// Geometry follows the frame: text wraps within 80% of the frame width by
// default and anchors at 85% of the frame height, centered.
package captions
