package hoverline

import (
	"testing"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
)

func chartTestContext() layout.Context {
	return layout.Context{
		Ops:    new(op.Ops),
		Metric: unit.Metric{PxPerDp: 1, PxPerSp: 1},
	}
}

func TestSetSeriesKeepsTogglesOnGrowth(t *testing.T) {
	c := NewChart()
	a := NewSeries("a")
	b := NewSeries("b")
	c.SetSeries([]*Series{a})
	c.Update(chartTestContext())
	if len(c.Enabled) != 1 || !c.Enabled[0].Value {
		t.Fatalf("expected one enabled toggle, got %+v", c.Enabled)
	}
	c.Enabled[0].Value = false
	// The backend registering another series mid-session must not discard
	// the user's toggle for the first.
	c.SetSeries([]*Series{a, b})
	c.Update(chartTestContext())
	if len(c.Enabled) != 2 {
		t.Fatalf("expected two toggles after growth, got %d", len(c.Enabled))
	}
	if c.Enabled[0].Value {
		t.Errorf("expected the first series' toggle to survive growth")
	}
	if !c.Enabled[1].Value {
		t.Errorf("expected the new series to start enabled")
	}
}

func TestSetSeriesResetsOnReplacement(t *testing.T) {
	c := NewChart()
	a := NewSeries("a")
	c.SetSeries([]*Series{a})
	c.Update(chartTestContext())
	c.Enabled[0].Value = false
	c.Tooltip.begin(f32.Pt(10, 10), true)

	replacement := NewSeries("other")
	c.SetSeries([]*Series{replacement})
	if c.Tooltip.state != sessionIdle {
		t.Errorf("expected replacement to tear down the tooltip session")
	}
	c.Update(chartTestContext())
	if len(c.Enabled) != 1 || !c.Enabled[0].Value {
		t.Errorf("expected toggles rebuilt enabled for the new dataset, got %+v", c.Enabled)
	}
}
