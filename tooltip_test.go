package hoverline

import (
	"image"
	"testing"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
)

func point(x, y float32, src pointer.Source) TrackEvent {
	return TrackEvent{Kind: TrackPoint, Position: f32.Pt(x, y), Source: src}
}

func press(x, y float32, src pointer.Source) TrackEvent {
	return TrackEvent{Kind: TrackPress, Position: f32.Pt(x, y), Source: src}
}

func end(x, y float32, src pointer.Source) TrackEvent {
	return TrackEvent{Kind: TrackEnd, Position: f32.Pt(x, y), Source: src}
}

const trackWidth = 100

func TestControllerPressRestart(t *testing.T) {
	var c Controller
	if scheduled := c.handle(point(50, 50, pointer.Mouse), trackWidth); scheduled {
		t.Fatalf("pointing must not schedule a restart")
	}
	if c.state != sessionTracking || !c.firstSession {
		t.Fatalf("expected fresh tracking session, got state=%d fresh=%v", c.state, c.firstSession)
	}
	if scheduled := c.handle(press(50, 50, pointer.Mouse), trackWidth); scheduled {
		t.Fatalf("pressing must not schedule a restart")
	}
	if c.state != sessionPressed {
		t.Fatalf("expected pressed sub-state, got %d", c.state)
	}
	// Dragging while pressed keeps the session pressed.
	c.handle(point(60, 50, pointer.Mouse), trackWidth)
	if c.state != sessionPressed {
		t.Fatalf("expected drag to preserve pressed sub-state, got %d", c.state)
	}
	if scheduled := c.handle(end(60, 50, pointer.Mouse), trackWidth); !scheduled {
		t.Fatalf("expected release inside the plot to schedule a restart")
	}
	if c.state != sessionIdle {
		t.Fatalf("expected release to end the session, got %d", c.state)
	}
	if !c.takeRestart() {
		t.Fatalf("expected the scheduled restart to fire")
	}
	if c.takeRestart() {
		t.Fatalf("expected the restart to fire exactly once")
	}
	c.begin(c.restartAt, false)
	if c.pos != f32.Pt(60, 50) {
		t.Errorf("expected restart to resume at the release position, got %v", c.pos)
	}
	// The button is still held after a restart, so a synthesized press must
	// not re-hide the tooltip.
	c.handle(press(60, 50, pointer.Mouse), trackWidth)
	if c.state != sessionTracking {
		t.Errorf("expected restarted session to ignore the held button, got %d", c.state)
	}
}

func TestControllerReleaseOutsidePlot(t *testing.T) {
	var c Controller
	c.handle(point(50, 50, pointer.Mouse), trackWidth)
	c.handle(press(50, 50, pointer.Mouse), trackWidth)
	if scheduled := c.handle(end(-5, 50, pointer.Mouse), trackWidth); scheduled {
		t.Fatalf("release left of the plot must not schedule a restart")
	}
	c.handle(point(50, 50, pointer.Mouse), trackWidth)
	c.handle(press(50, 50, pointer.Mouse), trackWidth)
	if scheduled := c.handle(end(trackWidth+1, 50, pointer.Mouse), trackWidth); scheduled {
		t.Fatalf("release right of the plot must not schedule a restart")
	}
	if c.takeRestart() {
		t.Fatalf("expected no pending restart")
	}
}

func TestControllerTouchPress(t *testing.T) {
	var c Controller
	c.handle(point(50, 50, pointer.Touch), trackWidth)
	c.handle(press(50, 50, pointer.Touch), trackWidth)
	if c.state != sessionTracking {
		t.Fatalf("touch presses must not enter the pressed sub-state, got %d", c.state)
	}
	if scheduled := c.handle(end(50, 50, pointer.Touch), trackWidth); scheduled {
		t.Fatalf("touch release must not schedule a restart")
	}
}

func TestControllerResetCancelsRestart(t *testing.T) {
	var c Controller
	c.handle(point(50, 50, pointer.Mouse), trackWidth)
	c.handle(press(50, 50, pointer.Mouse), trackWidth)
	if scheduled := c.handle(end(50, 50, pointer.Mouse), trackWidth); !scheduled {
		t.Fatalf("expected restart to be scheduled")
	}
	c.Reset()
	if c.takeRestart() {
		t.Fatalf("expected teardown to invalidate the scheduled restart")
	}
}

func TestControllerOut(t *testing.T) {
	var c Controller
	c.handle(point(50, 50, pointer.Mouse), trackWidth)
	c.handle(TrackEvent{Kind: TrackOut, Position: f32.Pt(50, 50), Source: pointer.Mouse}, trackWidth)
	if c.state != sessionIdle || c.hasPos {
		t.Fatalf("expected pointer exit to end the session, got state=%d hasPos=%v", c.state, c.hasPos)
	}
}

func buildTestScene(c *Controller) Scene {
	a := NewSeries("a")
	a.Insert(10, 1)
	a.Insert(20, 2)
	a.Insert(30, 3)
	b := NewSeries("b")
	series := []*Series{a, b}
	tscale := LinearTimeScale{DomainMin: 0, DomainMax: 100, Width: 100}
	vscale := LinearValueScale{RangeMin: 0, RangeMax: 10, Height: 100}
	return c.buildScene(series, tscale, vscale, image.Pt(100, 100), f32.Pt(10, 10), 4)
}

func TestBuildScene(t *testing.T) {
	c := Controller{}
	c.begin(f32.Pt(16, 40), true)
	scene := buildTestScene(&c)
	if !scene.Visible {
		t.Fatalf("expected scene to be visible while tracking")
	}
	tscale := LinearTimeScale{DomainMin: 0, DomainMax: 100, Width: 100}
	if scene.LineX != tscale.Pixel(20) {
		t.Errorf("expected guide line snapped to the resolved sample, got %f", scene.LineX)
	}
	if scene.Date != "01 Jan 1970" {
		t.Errorf("unexpected date readout %q", scene.Date)
	}
	if !scene.Markers[0].OK {
		t.Fatalf("expected marker for first series")
	}
	if scene.Markers[0].Value != "2.000" {
		t.Errorf("expected value text %q, got %q", "2.000", scene.Markers[0].Value)
	}
	if scene.Markers[1].OK || scene.Markers[1].Pos != OffCanvas {
		t.Errorf("expected empty series marker parked off-canvas, got %+v", scene.Markers[1])
	}
	vscale := LinearValueScale{RangeMin: 0, RangeMax: 10, Height: 100}
	anchor := f32.Pt(tscale.Pixel(20), vscale.Pixel(2))
	expectedOffset := PlacePanel(f32.Pt(100, 100), f32.Pt(10, 10), anchor, 4)
	if scene.PanelOffset != expectedOffset {
		t.Errorf("expected panel offset %v, got %v", expectedOffset, scene.PanelOffset)
	}
}

func TestBuildSceneHidden(t *testing.T) {
	c := Controller{}
	scene := buildTestScene(&c)
	if scene.Visible {
		t.Fatalf("idle controller must not produce a visible scene")
	}
	for i, m := range scene.Markers {
		if m.Pos != OffCanvas {
			t.Errorf("expected marker %d off-canvas, got %v", i, m.Pos)
		}
	}
}

func TestBuildScenePointerFallbackAnchor(t *testing.T) {
	empty := NewSeries("empty")
	tscale := LinearTimeScale{DomainMin: 0, DomainMax: 100, Width: 100}
	vscale := LinearValueScale{RangeMin: 0, RangeMax: 10, Height: 100}
	c := Controller{}
	c.begin(f32.Pt(33, 40), true)
	scene := c.buildScene([]*Series{empty}, tscale, vscale, image.Pt(100, 100), f32.Pt(0, 0), 4)
	if !scene.Visible {
		t.Fatalf("expected visible scene even with no resolvable samples")
	}
	if scene.LineX != 33 {
		t.Errorf("expected guide line to fall back to the pointer position, got %f", scene.LineX)
	}
}

func TestControllerUpdateConsumesRestart(t *testing.T) {
	var c Controller
	c.handle(point(50, 50, pointer.Mouse), trackWidth)
	c.handle(press(50, 50, pointer.Mouse), trackWidth)
	if scheduled := c.handle(end(60, 50, pointer.Mouse), trackWidth); !scheduled {
		t.Fatalf("expected restart to be scheduled")
	}
	s := NewSeries("a")
	s.Insert(10, 1)
	s.Insert(20, 2)
	gtx := layout.Context{
		Ops:    new(op.Ops),
		Metric: unit.Metric{PxPerDp: 1, PxPerSp: 1},
	}
	tscale := LinearTimeScale{DomainMin: 0, DomainMax: 100, Width: 100}
	vscale := LinearValueScale{RangeMin: 0, RangeMax: 10, Height: 100}
	scene := c.Update(gtx, []*Series{s}, tscale, vscale, image.Pt(100, 100), f32.Pt(10, 10))
	if c.state != sessionTracking {
		t.Fatalf("expected the deferred restart to resume tracking, got state %d", c.state)
	}
	if c.firstSession {
		t.Errorf("restarted sessions must not count as fresh")
	}
	if !scene.Visible {
		t.Errorf("expected the restarted session to show the tooltip")
	}
	if c.pos != f32.Pt(60, 50) {
		t.Errorf("expected tracking to resume at the release position, got %v", c.pos)
	}
	// A second update finds no pending restart and keeps tracking.
	c.Update(gtx, []*Series{s}, tscale, vscale, image.Pt(100, 100), f32.Pt(10, 10))
	if c.state != sessionTracking {
		t.Errorf("expected tracking to persist across frames, got state %d", c.state)
	}
}

type sceneRecorder struct {
	scenes []Scene
}

func (s *sceneRecorder) Apply(scene Scene) {
	s.scenes = append(s.scenes, scene)
}

func TestControllerMirrorsScenes(t *testing.T) {
	rec := &sceneRecorder{}
	c := Controller{Out: rec}
	c.begin(f32.Pt(16, 40), true)
	s := NewSeries("a")
	s.Insert(10, 1)
	s.Insert(20, 2)
	gtx := layout.Context{
		Ops:    new(op.Ops),
		Metric: unit.Metric{PxPerDp: 1, PxPerSp: 1},
	}
	tscale := LinearTimeScale{DomainMin: 0, DomainMax: 100, Width: 100}
	vscale := LinearValueScale{RangeMin: 0, RangeMax: 10, Height: 100}
	scene := c.Update(gtx, []*Series{s}, tscale, vscale, image.Pt(100, 100), f32.Pt(10, 10))
	if len(rec.scenes) != 1 {
		t.Fatalf("expected 1 mirrored scene, got %d", len(rec.scenes))
	}
	if !rec.scenes[0].Visible || rec.scenes[0].LineX != scene.LineX {
		t.Errorf("mirrored scene %+v does not match returned scene %+v", rec.scenes[0], scene)
	}
}
