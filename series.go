package hoverline

import (
	"slices"
	"sort"
	"strconv"
	"sync"
)

// Sample is a single (timestamp, value) measurement within a series.
type Sample struct {
	TimeNS int64
	Value  float64
}

// Series represents one named line of time-ordered data in a visualization.
// Samples are kept sorted ascending by timestamp. A Series is safe for
// concurrent use, so a backend goroutine may Insert while the UI reads.
type Series struct {
	// Format renders a value for display in the tooltip panel. Leave it nil
	// to use the default fixed-precision formatting.
	Format func(value float64) string

	lock               sync.RWMutex
	name               string
	timestamps         []int64
	values             []float64
	rangeMin, rangeMax float64
	sum                float64
}

func NewSeries(name string) *Series {
	return &Series{name: name}
}

func (s *Series) Name() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.name
}

func (s *Series) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.timestamps)
}

func (s *Series) Initialized() bool {
	return s.Len() > 0
}

func (s *Series) Domain() (min, max int64) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if len(s.timestamps) < 1 {
		return 0, 0
	}
	return s.timestamps[0], s.timestamps[len(s.timestamps)-1]
}

func (s *Series) Range() (min, max float64) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.rangeMin, s.rangeMax
}

func (s *Series) Sum() float64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.sum
}

// Insert adds a value at a given timestamp to the series. In the event
// that the series already contains a value at that time, nothing is added
// and the method returns false. Otherwise, the method returns true.
func (s *Series) Insert(timeNS int64, value float64) (inserted bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.timestamps) < 1 {
		s.rangeMax = value
		s.rangeMin = value
	}
	index, found := slices.BinarySearch(s.timestamps, timeNS)
	if found {
		return false
	}
	s.timestamps = slices.Insert(s.timestamps, index, timeNS)
	s.values = slices.Insert(s.values, index, value)
	s.rangeMax = max(s.rangeMax, value)
	s.rangeMin = min(s.rangeMin, value)
	s.sum += value
	return true
}

// Between invokes f for each sample in the half-open interval [fromNS,toNS),
// in ascending time order, stopping early if f returns false.
func (s *Series) Between(fromNS, toNS int64, f func(Sample) bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	i, _ := slices.BinarySearch(s.timestamps, fromNS)
	for ; i < len(s.timestamps) && s.timestamps[i] < toNS; i++ {
		if !f(Sample{TimeNS: s.timestamps[i], Value: s.values[i]}) {
			return
		}
	}
}

// Nearest returns the sample whose timestamp is closest to target. The ok
// return is false when the series is empty or target falls outside the
// sampled domain; callers treat that as "no data here" and park the visual
// marker off-canvas instead of plotting it.
//
// When target sits between two samples, the later sample wins only when the
// gap to the earlier sample is strictly greater, so an exact midpoint
// resolves to the earlier sample.
func (s *Series) Nearest(target int64) (Sample, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	n := len(s.timestamps)
	if n < 1 {
		return Sample{}, false
	}
	i := sort.Search(n, func(j int) bool {
		return target < s.timestamps[j]
	})
	if i == 0 {
		return Sample{}, false
	}
	if i == n {
		if target == s.timestamps[n-1] {
			return Sample{TimeNS: s.timestamps[n-1], Value: s.values[n-1]}, true
		}
		return Sample{}, false
	}
	before, after := i-1, i
	if target-s.timestamps[before] > s.timestamps[after]-target {
		return Sample{TimeNS: s.timestamps[after], Value: s.values[after]}, true
	}
	return Sample{TimeNS: s.timestamps[before], Value: s.values[before]}, true
}

// FormatValue renders a value using the series' formatter, falling back to
// fixed three-digit precision when no formatter is set.
func (s *Series) FormatValue(value float64) string {
	if s.Format != nil {
		return s.Format(value)
	}
	return strconv.FormatFloat(value, 'f', 3, 64)
}
