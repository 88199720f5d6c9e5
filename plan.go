package hoverline

import "gioui.org/f32"

// PlacePanel computes the translation of the info panel's top-left corner.
// The panel prefers to sit offset pixels right of and below the anchor,
// flips to the opposite side of the anchor when the preferred placement
// would overflow the canvas, and clamps the result so the panel never
// extends past any canvas edge. A zero panel dimension means the panel has
// not been measured yet (first paint); that axis falls back to the unflipped
// preferred position. Degenerate canvases clamp to zero.
func PlacePanel(canvas, panel, anchor f32.Point, offset float32) f32.Point {
	return f32.Pt(
		placeAxis(canvas.X, panel.X, anchor.X, offset),
		placeAxis(canvas.Y, panel.Y, anchor.Y, offset),
	)
}

func placeAxis(canvas, panel, anchor, offset float32) float32 {
	pos := anchor + offset
	if panel == 0 {
		return pos
	}
	if pos+panel > canvas {
		pos = anchor - offset - panel
	}
	return min(max(pos, 0), max(canvas-panel, 0))
}
