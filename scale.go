package hoverline

import "math"

// TimeScale maps timestamps in nanoseconds onto horizontal pixel offsets and
// back again. Implementations must behave as pure functions: the tooltip
// controller evaluates and inverts them but never fits or mutates them.
type TimeScale interface {
	Pixel(timeNS int64) float32
	Invert(px float32) int64
}

// ValueScale maps sample values onto vertical pixel offsets.
type ValueScale interface {
	Pixel(value float64) float32
}

// LinearTimeScale maps the domain [DomainMin,DomainMax] onto [0,Width].
type LinearTimeScale struct {
	DomainMin, DomainMax int64
	Width                float32
}

var _ TimeScale = LinearTimeScale{}

func (l LinearTimeScale) Pixel(timeNS int64) float32 {
	interval := l.DomainMax - l.DomainMin
	if interval == 0 {
		interval = 1
	}
	return float32(float64(timeNS-l.DomainMin) / float64(interval) * float64(l.Width))
}

func (l LinearTimeScale) Invert(px float32) int64 {
	if l.Width == 0 {
		return l.DomainMin
	}
	interval := l.DomainMax - l.DomainMin
	return l.DomainMin + int64(math.Round(float64(px)/float64(l.Width)*float64(interval)))
}

// LinearValueScale maps the range [RangeMin,RangeMax] onto [Height,0], so
// that larger values sit higher on screen.
type LinearValueScale struct {
	RangeMin, RangeMax float64
	Height             float32
}

var _ ValueScale = LinearValueScale{}

func (l LinearValueScale) Pixel(value float64) float32 {
	interval := l.RangeMax - l.RangeMin
	if interval == 0 {
		interval = 1
	}
	return l.Height - float32((value-l.RangeMin)/interval)*l.Height
}
