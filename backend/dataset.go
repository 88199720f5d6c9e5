package backend

import (
	hoverline "git.sr.ht/~whereswaldon/hoverline"
)

// Sample is one data point read from a trace, tagged with the backend's
// series identifier.
type Sample struct {
	TimestampNS int64
	Series      int
	Value       float64
}

// Dataset accumulates the series of one trace session.
type Dataset struct {
	Series []*hoverline.Series
	// seriesMapping maps from series identifiers used by the backend to
	// the index of a series in this structure.
	seriesMapping map[int]int
}

func (d *Dataset) Initialized() bool {
	init := len(d.Series) > 0
	for _, s := range d.Series {
		init = init && s.Initialized()
	}
	return init
}

func (d *Dataset) Domain() (dMin int64, dMax int64) {
	for _, s := range d.Series {
		sMin, sMax := s.Domain()
		dMin = min(sMin, dMin)
		dMax = max(sMax, dMax)
	}
	return dMin, dMax
}

// SetHeadings registers new data series with their headings. It must be
// invoked at least once prior to the first call to [Dataset.Insert] and may
// be invoked additional times as sources announce more series.
//
// The series slice provides the backend's ID for each series, which is
// likely to differ from the index used to store the data in this type.
func (d *Dataset) SetHeadings(headings []string, series []int) {
	if d.seriesMapping == nil {
		d.seriesMapping = make(map[int]int)
	}
	for i, identifier := range series {
		d.seriesMapping[identifier] = len(d.Series)
		d.Series = append(d.Series, hoverline.NewSeries(headings[i]))
	}
}

// Insert stores the sample. Samples for series with no heading registered
// via [Dataset.SetHeadings] are discarded.
func (d *Dataset) Insert(sample Sample) {
	localIdx, ok := d.seriesMapping[sample.Series]
	if !ok {
		return
	}
	d.Series[localIdx].Insert(sample.TimestampNS, sample.Value)
}
