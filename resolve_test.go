package hoverline

import (
	"reflect"
	"testing"
)

func resolveTestSeries(t *testing.T) []*Series {
	t.Helper()
	a := NewSeries("a")
	a.Insert(10, 1)
	a.Insert(20, 2)
	a.Insert(30, 3)
	b := NewSeries("b")
	b.Insert(10, 5)
	return []*Series{a, b}
}

func TestResolve(t *testing.T) {
	series := resolveTestSeries(t)
	tscale := LinearTimeScale{DomainMin: 0, DomainMax: 100, Width: 100}
	vscale := LinearValueScale{RangeMin: 0, RangeMax: 10, Height: 100}

	res := Resolve(series, tscale, vscale, 16)
	if res.TargetNS != 16 {
		t.Fatalf("expected target 16, got %d", res.TargetNS)
	}
	if !res.Samples[0].OK || res.Samples[0].Sample.TimeNS != 20 {
		t.Errorf("expected first series to resolve to sample at 20, got %+v", res.Samples[0])
	}
	if res.Samples[1].OK {
		t.Errorf("expected no data for second series at 16, got %+v", res.Samples[1])
	}
	if !res.AnchorOK {
		t.Fatalf("expected anchor from first series")
	}
	expectedAnchor := tscale.Pixel(20)
	if res.Anchor.X != expectedAnchor {
		t.Errorf("expected anchor x %f, got %f", expectedAnchor, res.Anchor.X)
	}
	if res.Anchor.Y != vscale.Pixel(2) {
		t.Errorf("expected anchor y %f, got %f", vscale.Pixel(2), res.Anchor.Y)
	}
}

func TestResolveNoAnchor(t *testing.T) {
	series := []*Series{NewSeries("empty")}
	tscale := LinearTimeScale{DomainMin: 0, DomainMax: 100, Width: 100}
	vscale := LinearValueScale{RangeMin: 0, RangeMax: 10, Height: 100}
	res := Resolve(series, tscale, vscale, 50)
	if res.AnchorOK {
		t.Errorf("expected no anchor when the first series has no data")
	}
	if res.Samples[0].OK {
		t.Errorf("expected sentinel for empty series, got %+v", res.Samples[0])
	}
}

func TestResolveIdempotent(t *testing.T) {
	series := resolveTestSeries(t)
	tscale := LinearTimeScale{DomainMin: 0, DomainMax: 100, Width: 100}
	vscale := LinearValueScale{RangeMin: 0, RangeMax: 10, Height: 100}
	first := Resolve(series, tscale, vscale, 42)
	second := Resolve(series, tscale, vscale, 42)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated resolution diverged: %+v vs %+v", first, second)
	}
}
