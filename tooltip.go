package hoverline

import (
	"image"
	"time"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
)

// OffCanvas is the parking position for markers with nothing to show.
var OffCanvas = f32.Pt(-100, -100)

// Marker is the scene state for one series' point indicator. OK is false
// for the no-data sentinel, in which case Pos is OffCanvas and Value is
// left unset.
type Marker struct {
	Pos   f32.Point
	Value string
	OK    bool
}

// Scene is a declarative description of everything the rendering surface
// must draw for the tooltip: visibility, the guide line, one marker and
// value text per series, the date readout, and the info panel placement.
// It is rebuilt from scratch on every update and holds no references into
// the controller.
type Scene struct {
	Visible     bool
	LineX       float32
	Date        string
	Markers     []Marker
	PanelOffset f32.Point
}

// Surface consumes scenes. Chart implements the interface with Gio
// operations; any other rendering technology can be injected instead.
type Surface interface {
	Apply(Scene)
}

type sessionState uint8

const (
	sessionIdle sessionState = iota
	sessionTracking
	sessionPressed
)

const defaultMarkerRadius = unit.Dp(4)

// Controller drives the tooltip for one chart. It consumes the tracker's
// event stream, resolves the nearest sample per series, and emits a Scene
// for the rendering surface.
//
// A mouse press during a session's first run enters a pressed sub-state
// that hides the tooltip until release. Releasing inside the plot's
// horizontal bounds schedules a single restart of tracking on the next
// frame, seeded from the release position, so press-and-hold interactions
// resume without a new physical gesture.
type Controller struct {
	// Tracker supplies normalized pointer events. The rendering surface
	// must declare its hit area each frame via Tracker.Add.
	Tracker Tracker
	// MarkerRadius is the visual radius of the point markers and the
	// distance the info panel keeps from the anchor point.
	MarkerRadius unit.Dp
	// Out, when non-nil, receives every scene built by Update in addition
	// to Update returning it. Useful for mirroring the tooltip onto a
	// secondary surface or capturing scenes for inspection.
	Out Surface

	state        sessionState
	firstSession bool
	pos          f32.Point
	hasPos       bool

	// gen identifies the current anchor/session lifetime. A scheduled
	// restart only fires if its generation still matches, so teardown
	// cannot resurrect a stale session.
	gen            int
	restartPending bool
	restartGen     int
	restartAt      f32.Point
}

func (c *Controller) radius(gtx layout.Context) int {
	r := c.MarkerRadius
	if r == 0 {
		r = defaultMarkerRadius
	}
	return gtx.Dp(r)
}

// Reset tears down the current session and invalidates any scheduled
// restart. Call it whenever the chart's data or hit area is replaced.
func (c *Controller) Reset() {
	c.gen++
	c.state = sessionIdle
	c.hasPos = false
	c.firstSession = false
}

// Update processes this frame's pointer events and returns the scene to
// draw. size is the plot area in pixels. panel is the info panel's
// dimensions as measured from the previously rendered frame; zero before
// first paint, which degrades placement to the unclamped preferred point.
func (c *Controller) Update(gtx layout.Context, series []*Series, tscale TimeScale, vscale ValueScale, size image.Point, panel f32.Point) Scene {
	if c.takeRestart() {
		c.begin(c.restartAt, false)
	}
	for _, ev := range c.Tracker.Update(gtx) {
		if c.handle(ev, float32(size.X)) {
			// Run the restart on the next frame, after this one has fully
			// settled.
			gtx.Execute(op.InvalidateCmd{})
		}
	}
	scene := c.buildScene(series, tscale, vscale, size, panel, float32(c.radius(gtx)))
	if c.Out != nil {
		c.Out.Apply(scene)
	}
	return scene
}

// takeRestart consumes a pending restart, reporting whether it should still
// fire.
func (c *Controller) takeRestart() bool {
	if !c.restartPending {
		return false
	}
	c.restartPending = false
	return c.restartGen == c.gen
}

// begin starts a tracking session at pos. fresh distinguishes sessions
// started by a physical gesture from auto-restarted ones: only fresh
// sessions may enter the pressed sub-state.
func (c *Controller) begin(pos f32.Point, fresh bool) {
	c.state = sessionTracking
	c.firstSession = fresh
	c.pos = pos
	c.hasPos = true
}

// handle advances the session state machine by one tracker event. The
// return value reports that a restart was scheduled and a redraw is needed
// to run it.
func (c *Controller) handle(ev TrackEvent, width float32) (scheduled bool) {
	switch ev.Kind {
	case TrackPoint:
		if c.state == sessionIdle {
			c.begin(ev.Position, true)
		} else {
			c.pos = ev.Position
			c.hasPos = true
		}
	case TrackPress:
		// Only a mouse press during a session's first run suppresses the
		// tooltip; restarted sessions ignore the still-held button so they
		// don't immediately re-hide the content they exist to show.
		if ev.Source == pointer.Mouse && c.state == sessionTracking && c.firstSession {
			c.state = sessionPressed
		}
	case TrackOut:
		c.state = sessionIdle
		c.hasPos = false
	case TrackEnd:
		pressed := c.state == sessionPressed
		c.state = sessionIdle
		c.hasPos = false
		if pressed && ev.Position.X >= 0 && ev.Position.X <= width {
			c.restartPending = true
			c.restartGen = c.gen
			c.restartAt = ev.Position
			scheduled = true
		}
	}
	return scheduled
}

// buildScene resolves the current pointer position against the series and
// assembles the frame's scene. Series without data near the target get the
// off-canvas sentinel marker and no value text.
func (c *Controller) buildScene(series []*Series, tscale TimeScale, vscale ValueScale, size image.Point, panel f32.Point, offset float32) Scene {
	scene := Scene{Markers: make([]Marker, len(series))}
	for i := range scene.Markers {
		scene.Markers[i].Pos = OffCanvas
	}
	if c.state != sessionTracking || !c.hasPos {
		return scene
	}
	res := Resolve(series, tscale, vscale, c.pos.X)
	anchor := c.pos
	if res.AnchorOK {
		anchor = res.Anchor
	}
	scene.Visible = true
	scene.LineX = anchor.X
	scene.Date = time.Unix(0, res.TargetNS).UTC().Format("02 Jan 2006")
	for i, rs := range res.Samples {
		if !rs.OK {
			continue
		}
		scene.Markers[i] = Marker{
			Pos:   f32.Pt(tscale.Pixel(rs.Sample.TimeNS), vscale.Pixel(rs.Sample.Value)),
			Value: series[i].FormatValue(rs.Sample.Value),
			OK:    true,
		}
	}
	scene.PanelOffset = PlacePanel(f32.Pt(float32(size.X), float32(size.Y)), panel, anchor, offset)
	return scene
}
