package hoverline

import (
	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
)

// TrackKind distinguishes the events a Tracker emits.
type TrackKind uint8

const (
	// TrackPoint reports the pointer's current position within the hit area.
	TrackPoint TrackKind = iota
	// TrackPress reports a button or touch going down inside the hit area.
	TrackPress
	// TrackOut reports the pointer leaving the hit area mid-gesture.
	TrackOut
	// TrackEnd reports the gesture concluding via release or cancellation.
	TrackEnd
)

func (t TrackKind) String() string {
	switch t {
	case TrackPoint:
		return "point"
	case TrackPress:
		return "press"
	case TrackOut:
		return "out"
	case TrackEnd:
		return "end"
	default:
		return "unknown"
	}
}

// TrackEvent is one normalized pointer event.
type TrackEvent struct {
	Kind     TrackKind
	Position f32.Point
	Source   pointer.Source
	Buttons  pointer.Buttons
}

// Tracker normalizes raw pointer events over a hit area into a stream of
// positions and lifecycle signals. It is re-entrant: each out or end event
// returns it to idle, and a later enter or move begins a fresh gesture.
type Tracker struct {
	active bool
	down   bool
	pos    f32.Point
}

// Add declares the tracker's hit area to be the current clip area.
func (t *Tracker) Add(ops *op.Ops) {
	event.Op(ops, t)
}

// Active reports whether a pointer is currently inside the hit area.
func (t *Tracker) Active() bool {
	return t.active
}

// Down reports whether a button or touch is currently held.
func (t *Tracker) Down() bool {
	return t.down
}

// Update drains this frame's pointer events and returns them in normalized
// form, in arrival order.
func (t *Tracker) Update(gtx layout.Context) []TrackEvent {
	var events []TrackEvent
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: t,
			Kinds: pointer.Enter | pointer.Leave | pointer.Move |
				pointer.Drag | pointer.Press | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch e.Kind {
		case pointer.Enter, pointer.Move, pointer.Drag:
			t.active = true
			t.pos = e.Position
			events = append(events, TrackEvent{
				Kind:     TrackPoint,
				Position: e.Position,
				Source:   e.Source,
				Buttons:  e.Buttons,
			})
		case pointer.Press:
			t.down = true
			t.pos = e.Position
			events = append(events, TrackEvent{
				Kind:     TrackPress,
				Position: e.Position,
				Source:   e.Source,
				Buttons:  e.Buttons,
			})
		case pointer.Leave:
			t.active = false
			t.down = false
			events = append(events, TrackEvent{
				Kind:     TrackOut,
				Position: t.pos,
				Source:   e.Source,
				Buttons:  e.Buttons,
			})
		case pointer.Release:
			t.down = false
			events = append(events, TrackEvent{
				Kind:     TrackEnd,
				Position: e.Position,
				Source:   e.Source,
				Buttons:  e.Buttons,
			})
		case pointer.Cancel:
			t.active = false
			t.down = false
			events = append(events, TrackEvent{
				Kind:     TrackEnd,
				Position: t.pos,
				Source:   e.Source,
				Buttons:  e.Buttons,
			})
		}
	}
	return events
}
