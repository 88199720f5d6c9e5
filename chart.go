package hoverline

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"strconv"
	"time"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var pauseIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPause)
	return icon
}()

var playIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPlayArrow)
	return icon
}()

// Chart is a line plot over a set of series with an interactive hover
// tooltip, pan/zoom gestures, and a key listing each series.
type Chart struct {
	Series  []*Series
	Enabled []*widget.Bool
	Tooltip Controller

	zoom     gesture.Scroll
	pan      gesture.Scroll
	panBar   widget.Scrollbar
	keyTable component.GridState
	pauseBtn widget.Clickable
	paused   bool
	xOffset  int64
	xOrigin  int64
	nsPerDp  int64

	// panelSize holds the info panel's dimensions as measured during the
	// previous frame. Zero until the panel has been painted once.
	panelSize f32.Point
	// visible and visibleIdx are scratch slices holding the enabled series
	// and their original indices for the current frame.
	visible    []*Series
	visibleIdx []int
}

func NewChart() *Chart {
	return &Chart{
		nsPerDp: 10_000_000,
	}
}

// SetSeries replaces the plotted data. Replacing one dataset with another
// tears down any in-flight tooltip session and the legend's enabled toggles,
// since both refer to data that no longer exists. A dataset growing new
// series mid-session keeps the toggles for the series that survive.
func (c *Chart) SetSeries(series []*Series) {
	same := len(series) == 0 && len(c.Series) == 0 ||
		len(series) > 0 && len(c.Series) > 0 && series[0] == c.Series[0]
	c.Series = series
	if !same {
		c.Enabled = c.Enabled[:0]
		c.Tooltip.Reset()
	}
	if len(c.Enabled) > len(series) {
		c.Enabled = c.Enabled[:len(series)]
	}
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

func (c *Chart) Update(gtx C) {
	for len(c.Enabled) < len(c.Series) {
		c.Enabled = append(c.Enabled, &widget.Bool{Value: true})
	}
	if c.pauseBtn.Clicked(gtx) {
		c.paused = !c.paused
		_, domainMax := c.domain()
		c.xOrigin = domainMax + c.xOffset
		c.xOffset = 0
	}
}

func (c *Chart) Layout(gtx C, th *material.Theme) D {
	c.Update(gtx)
	if len(c.Series) < 1 {
		return D{Size: gtx.Constraints.Max}
	}
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}

	// Determine the space occupied by the key.
	macro := op.Record(gtx.Ops)
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	keyDims := c.layoutKey(gtx, th)
	keyCall := macro.Stop()
	gtx.Constraints = origConstraints

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx C) D {
			return c.layoutPlotArea(gtx, th)
		}),
		layout.Rigid(func(gtx C) D {
			keyCall.Add(gtx.Ops)
			return keyDims
		}),
	)
}

func (c *Chart) domain() (domainMin, domainMax int64) {
	var initialized bool
	for _, s := range c.Series {
		if !s.Initialized() {
			continue
		}
		sMin, sMax := s.Domain()
		if !initialized {
			domainMin, domainMax = sMin, sMax
			initialized = true
			continue
		}
		domainMin = min(domainMin, sMin)
		domainMax = max(domainMax, sMax)
	}
	return domainMin, domainMax
}

func (c *Chart) computeRange() (rangeMin, rangeMax float64) {
	var initialized bool
	for i, s := range c.Series {
		if !c.Enabled[i].Value || !s.Initialized() {
			continue
		}
		sMin, sMax := s.Range()
		if !initialized {
			rangeMin, rangeMax = sMin, sMax
			initialized = true
			continue
		}
		rangeMin = min(rangeMin, sMin)
		rangeMax = max(rangeMax, sMax)
	}
	rangeMin = floor(rangeMin)
	rangeMax = ceil(rangeMax)
	if rangeMax == rangeMin {
		rangeMax = rangeMin + 1
	}
	return rangeMin, rangeMax
}

// layoutPlotArea lays out the plot with its range labels to the left, the
// pause control in the corner, and the domain labels underneath.
func (c *Chart) layoutPlotArea(gtx C, th *material.Theme) D {
	rangeMin, rangeMax := c.computeRange()
	minRangeLabel := material.Body1(th, strconv.FormatFloat(rangeMin, 'f', 3, 64))
	maxRangeLabel := material.Body1(th, strconv.FormatFloat(rangeMax, 'f', 3, 64))
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}

	// Measure a representative label to reserve space for the axes.
	macro := op.Record(gtx.Ops)
	axisLabelDims := minRangeLabel.Layout(gtx)
	_ = macro.Stop()

	gtx.Constraints = origConstraints.SubMax(image.Point{
		X: axisLabelDims.Size.Y * 2,
		Y: axisLabelDims.Size.Y,
	})
	macro = op.Record(gtx.Ops)
	plotDims, visStart, visEnd := c.layoutPlot(gtx, th, rangeMin, rangeMax)
	plotCall := macro.Stop()
	gtx.Constraints = origConstraints

	spanSecs := float64(visEnd-visStart) / 1_000_000_000
	startLabel := material.Body1(th, time.Unix(0, visStart).UTC().Format("15:04:05.000"))
	endLabel := material.Body1(th, time.Unix(0, visEnd).UTC().Format("15:04:05.000"))
	xAxisLabel := material.Body2(th, fmt.Sprintf("Time (spans %.2f s, scale = %d ns/Dp)", spanSecs, c.nsPerDp))
	xAxisLabel.MaxLines = 1
	xAxisLabel.Alignment = text.Middle
	return layout.Flex{}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Flex{Axis: layout.Vertical, Spacing: layout.SpaceBetween}.Layout(gtx,
				layout.Rigid(maxRangeLabel.Layout),
				layout.Flexed(1, func(gtx C) D {
					return D{Size: gtx.Constraints.Min}
				}),
				layout.Rigid(minRangeLabel.Layout),
				layout.Rigid(func(gtx C) D {
					gtx.Constraints = layout.Exact(image.Point{
						X: axisLabelDims.Size.Y * 2,
						Y: axisLabelDims.Size.Y,
					})
					icon := pauseIcon
					if c.paused {
						icon = playIcon
					}
					return material.Clickable(gtx, &c.pauseBtn, func(gtx C) D {
						return layout.Center.Layout(gtx, func(gtx C) D {
							return icon.Layout(gtx, th.Fg)
						})
					})
				}),
			)
		}),
		layout.Flexed(1, func(gtx C) D {
			return layout.Flex{Axis: layout.Vertical, Spacing: layout.SpaceBetween}.Layout(gtx,
				layout.Flexed(1, func(gtx C) D {
					plotCall.Add(gtx.Ops)
					return plotDims
				}),
				layout.Rigid(func(gtx C) D {
					return layout.Flex{
						Axis:      layout.Horizontal,
						Alignment: layout.Baseline,
					}.Layout(gtx,
						layout.Rigid(startLabel.Layout),
						layout.Flexed(1, xAxisLabel.Layout),
						layout.Rigid(endLabel.Layout),
					)
				}),
			)
		}),
	)
}

func (c *Chart) layoutPlot(gtx C, th *material.Theme, rangeMin, rangeMax float64) (dims D, visStart, visEnd int64) {
	dist := c.zoom.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Vertical, image.Rect(0, -1e6, 0, 1e6))
	if dist != 0 {
		proportion := 1 + float64(dist)/float64(gtx.Constraints.Max.Y)
		c.nsPerDp = max(int64(math.Round(float64(c.nsPerDp)*proportion)), 1)
	}
	domainMin, domainMax := c.domain()
	var pannedNS int64
	dist = c.pan.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Horizontal, image.Rect(-1e6, 0, 1e6, 0))
	if dist != 0 {
		pannedNS += int64(gtx.Metric.PxToDp(dist) * unit.Dp(c.nsPerDp))
	}
	totalDomainInterval := max(domainMax-domainMin, 1)
	if panDist := c.panBar.ScrollDistance(); panDist != 0 {
		pannedNS += int64(panDist * float32(totalDomainInterval))
	}
	origin := domainMax
	if c.paused {
		origin = c.xOrigin
	}
	if pannedNS != 0 {
		if endCandidate := origin + c.xOffset + pannedNS; endCandidate >= domainMin && endCandidate <= domainMax {
			c.xOffset += pannedNS
		}
	}
	maxVisibleX := min(origin+c.xOffset, domainMax)
	numDp := gtx.Metric.PxToDp(gtx.Constraints.Max.X)
	visibleDomainInterval := int64(math.Round(float64(numDp * unit.Dp(c.nsPerDp))))
	// visEnd forces the domain end to be an even multiple of the current
	// scale, which prevents weird cross-frame sampling artifacts.
	visEnd = (maxVisibleX / c.nsPerDp) * c.nsPerDp
	visStart = visEnd - visibleDomainInterval

	tscale := LinearTimeScale{
		DomainMin: visStart,
		DomainMax: visEnd,
		Width:     float32(gtx.Constraints.Max.X),
	}
	vscale := LinearValueScale{
		RangeMin: rangeMin,
		RangeMax: rangeMax,
		Height:   float32(gtx.Constraints.Max.Y),
	}
	vpStart := float32(visStart-domainMin) / float32(totalDomainInterval)
	vpEnd := float32(visEnd-domainMin) / float32(totalDomainInterval)

	dims = layout.Stack{Alignment: layout.S}.Layout(gtx,
		layout.Stacked(func(gtx C) D {
			defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
			c.pan.Add(gtx.Ops)
			c.zoom.Add(gtx.Ops)
			c.Tooltip.Tracker.Add(gtx.Ops)
			c.layoutGrid(gtx, rangeMin, rangeMax, vscale)
			c.layoutLines(gtx, tscale, vscale, visStart, visEnd)
			c.layoutTooltip(gtx, th, tscale, vscale)
			return D{Size: gtx.Constraints.Max}
		}),
		layout.Expanded(func(gtx C) D {
			scrollbar := material.Scrollbar(th, &c.panBar)
			scrollbar.Track.MajorPadding = 0
			scrollbar.Track.MinorPadding = 0
			scrollbar.Indicator.CornerRadius = 0
			scrollbar.Indicator.Color.A = 100
			return scrollbar.Layout(gtx, layout.Horizontal, vpStart, vpEnd)
		}),
	)
	return dims, visStart, visEnd
}

func (c *Chart) layoutGrid(gtx C, rangeMin, rangeMax float64, vscale LinearValueScale) {
	oneDp := gtx.Dp(1)
	unitsPerLine := 1.0
	// Coarsen the grid until adjacent lines are at least 10 Dp apart.
	for float64(gtx.Constraints.Max.Y)*unitsPerLine/(rangeMax-rangeMin) < float64(gtx.Dp(10)) {
		unitsPerLine *= 10
	}
	for gridNum := 0; ; gridNum++ {
		value := rangeMin + float64(gridNum)*unitsPerLine
		if value > rangeMax {
			break
		}
		yT := int(vscale.Pixel(value))
		a := uint8(50)
		if gridNum%10 == 0 {
			a = 100
		}
		paint.FillShape(gtx.Ops, color.NRGBA{A: a}, clip.Rect{
			Min: image.Point{Y: yT},
			Max: image.Point{
				Y: yT + oneDp,
				X: gtx.Constraints.Max.X,
			},
		}.Op())
	}
}

func (c *Chart) layoutLines(gtx C, tscale LinearTimeScale, vscale LinearValueScale, visStart, visEnd int64) {
	lineWidth := float32(gtx.Dp(1))
	for i, s := range c.Series {
		if !c.Enabled[i].Value || !s.Initialized() {
			continue
		}
		var p clip.Path
		p.Begin(gtx.Ops)
		first := true
		s.Between(visStart, visEnd+1, func(sample Sample) bool {
			pt := f32.Pt(tscale.Pixel(sample.TimeNS), vscale.Pixel(sample.Value))
			if first {
				p.MoveTo(pt)
				first = false
			} else {
				p.LineTo(pt)
			}
			return true
		})
		spec := p.End()
		if first {
			// Nothing visible for this series.
			continue
		}
		paint.FillShape(gtx.Ops, SeriesColor(i), clip.Stroke{
			Path:  spec,
			Width: lineWidth,
		}.Op())
	}
}

// layoutTooltip feeds the tooltip controller and draws its scene: the
// vertical guide line, one marker per enabled series, and the info panel.
func (c *Chart) layoutTooltip(gtx C, th *material.Theme, tscale TimeScale, vscale ValueScale) {
	c.visible = c.visible[:0]
	c.visibleIdx = c.visibleIdx[:0]
	for i, s := range c.Series {
		if !c.Enabled[i].Value {
			continue
		}
		c.visible = append(c.visible, s)
		c.visibleIdx = append(c.visibleIdx, i)
	}
	scene := c.Tooltip.Update(gtx, c.visible, tscale, vscale, gtx.Constraints.Max, c.panelSize)
	if !scene.Visible {
		return
	}
	xL := int(scene.LineX)
	paint.FillShape(gtx.Ops, color.NRGBA{A: 255}, clip.Rect{
		Min: image.Point{X: xL},
		Max: image.Point{
			X: xL + gtx.Dp(1),
			Y: gtx.Constraints.Max.Y,
		},
	}.Op())
	rad := c.Tooltip.radius(gtx)
	for i, m := range scene.Markers {
		center := image.Pt(int(m.Pos.X), int(m.Pos.Y))
		circle := clip.Ellipse{
			Min: center.Sub(image.Pt(rad, rad)),
			Max: center.Add(image.Pt(rad, rad)),
		}
		paint.FillShape(gtx.Ops, SeriesColor(c.visibleIdx[i]), circle.Op(gtx.Ops))
	}
	c.layoutPanel(gtx, th, scene)
}

func (c *Chart) layoutPanel(gtx C, th *material.Theme, scene Scene) {
	children := []layout.FlexChild{
		layout.Rigid(material.Body2(th, scene.Date).Layout),
	}
	// Order the rows to match the vertical order of the markers on screen.
	rowKeys := []float32{}
	for i, m := range scene.Markers {
		if !m.OK {
			continue
		}
		m := m
		seriesIdx := c.visibleIdx[i]
		insertIdx, _ := slices.BinarySearch(rowKeys, m.Pos.Y)
		rowKeys = slices.Insert(rowKeys, insertIdx, m.Pos.Y)
		children = slices.Insert(children, 1+insertIdx, layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(material.Body2(th, c.Series[seriesIdx].Name()+" "+m.Value).Layout),
				layout.Rigid(layout.Spacer{Width: 8}.Layout),
				layout.Rigid(func(gtx C) D {
					size := image.Pt(gtx.Dp(8), gtx.Dp(8))
					paint.FillShape(gtx.Ops, SeriesColor(seriesIdx), clip.Ellipse{Max: size}.Op(gtx.Ops))
					return D{Size: size}
				}),
			)
		}))
	}
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	macro := op.Record(gtx.Ops)
	panelDims := layout.Background{}.Layout(gtx,
		func(gtx C) D {
			paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 150}, clip.Rect{Max: gtx.Constraints.Min}.Op())
			return D{Size: gtx.Constraints.Min}
		},
		func(gtx C) D {
			return layout.UniformInset(10).Layout(gtx, func(gtx C) D {
				return layout.Flex{
					Axis:      layout.Vertical,
					Alignment: layout.End,
				}.Layout(gtx, children...)
			})
		},
	)
	panelCall := macro.Stop()
	gtx.Constraints = origConstraints
	c.panelSize = f32.Pt(float32(panelDims.Size.X), float32(panelDims.Size.Y))

	transform := op.Offset(image.Pt(
		int(scene.PanelOffset.X),
		int(scene.PanelOffset.Y),
	)).Push(gtx.Ops)
	panelCall.Add(gtx.Ops)
	transform.Pop()
}

func (c *Chart) layoutKey(gtx C, th *material.Theme) D {
	table := component.Table(th, &c.keyTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	numColWidth := gtx.Dp(100)
	nameColWidth := gtx.Constraints.Max.X - colorColWidth - 2*numColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(20)
	const (
		colorCol = iota
		seriesNameCol
		sampleCountCol
		sumCol
		numCols
	)
	return table.Layout(gtx, len(c.Series), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case seriesNameCol:
				size = nameColWidth
			case sampleCountCol, sumCol:
				size = numColWidth
			}
			return min(size, constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "Color")
			case seriesNameCol:
				l = material.Body1(th, "Data Series Name")
				l.Alignment = text.Middle
			case sampleCountCol:
				l = material.Body1(th, "Samples")
				l.Alignment = text.End
			case sumCol:
				l = material.Body1(th, "Sum")
				l.Alignment = text.End
			default:
				l = material.Body1(th, "???")
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				},
				l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			c.Enabled[row].Update(gtx)
			enabled := c.Enabled[row].Value
			disabledAlpha := uint8(100)
			dims = layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				switch col {
				case colorCol:
					return c.Enabled[row].Layout(gtx, func(gtx C) D {
						return layout.Center.Layout(gtx, func(gtx C) D {
							sideLen := gtx.Dp(10)
							sz := image.Pt(sideLen, sideLen)
							fullColor := SeriesColor(row)
							if !enabled {
								fullColor.A = disabledAlpha
							}
							paint.FillShape(gtx.Ops, fullColor, clip.Rect{Max: sz}.Op())
							return D{Size: sz}
						})
					})
				case seriesNameCol:
					l := material.Body2(th, c.Series[row].Name())
					if !enabled {
						l.Color.A = disabledAlpha
					}
					return l.Layout(gtx)
				case sampleCountCol:
					l := material.Body2(th, strconv.Itoa(c.Series[row].Len()))
					if !enabled {
						l.Color.A = disabledAlpha
					}
					l.Alignment = text.End
					return l.Layout(gtx)
				case sumCol:
					l := material.Body2(th, fmt.Sprintf("%.2f", c.Series[row].Sum()))
					if !enabled {
						l.Color.A = disabledAlpha
					}
					l.Alignment = text.End
					return l.Layout(gtx)
				default:
					return D{Size: gtx.Constraints.Max}
				}
			})
			if row&1 != 0 {
				stripe := SeriesColor(row)
				stripe.A = 50
				paint.FillShape(gtx.Ops, stripe, clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}
