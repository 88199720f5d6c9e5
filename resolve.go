package hoverline

import "gioui.org/f32"

// ResolvedSample is the outcome of a nearest-sample lookup for one series.
// OK is false for the no-data sentinel: the series had nothing bracketing
// the query timestamp and its marker belongs off-canvas.
type ResolvedSample struct {
	Sample Sample
	OK     bool
}

// Resolution carries one resolved sample per series plus the pixel position
// of the first series' sample, which anchors the guide line and info panel.
type Resolution struct {
	TargetNS int64
	Samples  []ResolvedSample
	Anchor   f32.Point
	AnchorOK bool
}

// Resolve inverts x through the time scale and finds, for every series, the
// sample nearest the resulting timestamp. It is a pure function of its
// inputs and runs in O(len(series) * log(samples per series)), cheap enough
// for every pointer move.
func Resolve(series []*Series, tscale TimeScale, vscale ValueScale, x float32) Resolution {
	res := Resolution{
		TargetNS: tscale.Invert(x),
		Samples:  make([]ResolvedSample, len(series)),
	}
	for i, s := range series {
		sample, ok := s.Nearest(res.TargetNS)
		res.Samples[i] = ResolvedSample{Sample: sample, OK: ok}
		if i == 0 && ok {
			res.Anchor = f32.Pt(tscale.Pixel(sample.TimeNS), vscale.Pixel(sample.Value))
			res.AnchorOK = true
		}
	}
	return res
}
