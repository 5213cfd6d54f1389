package draw

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/keydraw/keydraw/pkg/keymap"
	"github.com/keydraw/keydraw/pkg/layout"
)

// drawCombo draws one combo: dendron paths to each participant key first,
// then the combo box with its legends on top.
func (d *Drawer) drawCombo(w *svgWriter, origin layout.Point, c keymap.Combo) {
	keys := make([]layout.Key, len(c.KeyPositions))
	for i, pos := range c.KeyPositions {
		keys[i] = d.layout.Key(pos)
	}

	p := d.comboAnchor(origin, c, keys)

	if c.Dendron != keymap.DendronNever {
		switch c.Align {
		case keymap.AlignTop, keymap.AlignBottom:
			for _, k := range keys {
				shorten := k.Height / 3
				if math.Abs(origin.X+k.X-p.X) < d.cfg.ComboW/2 {
					shorten = k.Height / 5
				}
				d.drawArcDendron(w, p, origin.Add(k.Pos()), true, shorten)
			}
		case keymap.AlignLeft, keymap.AlignRight:
			for _, k := range keys {
				shorten := k.Width / 3
				if math.Abs(origin.Y+k.Y-p.Y) < d.cfg.ComboH/2 {
					shorten = k.Width / 5
				}
				d.drawArcDendron(w, p, origin.Add(k.Pos()), false, shorten)
			}
		case keymap.AlignMid:
			for _, k := range keys {
				target := origin.Add(k.Pos())
				if c.Dendron == keymap.DendronAlways || target.Distance(p) >= k.Width-1 {
					d.drawLineDendron(w, p, target, k.Width/3)
				}
			}
		}
	}

	d.drawRect(w, p, d.cfg.ComboW, d.cfg.ComboH, c.Type, "combo")

	edge := d.cfg.ComboH/2 - d.cfg.SmallPad
	d.drawLegend(w, p, SplitLegend(c.Key.Tap), c.Type, legendTap, 0)
	d.drawLegend(w, p.Add(layout.Pt(0, edge)), []string{c.Key.Hold}, c.Type, legendHold, 0)
	d.drawLegend(w, p.Sub(layout.Pt(0, edge)), []string{c.Key.Shifted}, c.Type, legendShifted, 0)
}

// comboAnchor computes the absolute center of the combo box.
//
// The base point is the participant centroid, or the slide interpolation
// between the two most extreme participants when slide is set. Edge
// alignments replace the axis coordinate with the outermost key edge,
// offset outward by half the inner padding plus the combo's own offset
// scaled by the layout's minimum key dimension.
func (d *Drawer) comboAnchor(origin layout.Point, c keymap.Combo, keys []layout.Key) layout.Point {
	var mid layout.Point
	for _, k := range keys {
		mid = mid.Add(k.Pos())
	}
	mid = mid.Mul(1 / float64(len(keys)))

	if c.Slide != nil {
		start, end := slidePair(keys, mid)
		s := *c.Slide
		mid = start.Pos().Mul((1 - s) / 2).Add(end.Pos().Mul((1 + s) / 2))
	}

	switch c.Align {
	case keymap.AlignTop:
		y := math.Inf(1)
		for _, k := range keys {
			y = min(y, k.Y-k.Height/2)
		}
		return origin.Add(layout.Pt(mid.X, y-d.cfg.InnerPadH/2-c.Offset*d.layout.MinHeight()))
	case keymap.AlignBottom:
		y := math.Inf(-1)
		for _, k := range keys {
			y = max(y, k.Y+k.Height/2)
		}
		return origin.Add(layout.Pt(mid.X, y+d.cfg.InnerPadH/2+c.Offset*d.layout.MinHeight()))
	case keymap.AlignLeft:
		x := math.Inf(1)
		for _, k := range keys {
			x = min(x, k.X-k.Width/2)
		}
		return origin.Add(layout.Pt(x-d.cfg.InnerPadW/2-c.Offset*d.layout.MinWidth(), mid.Y))
	case keymap.AlignRight:
		x := math.Inf(-1)
		for _, k := range keys {
			x = max(x, k.X+k.Width/2)
		}
		return origin.Add(layout.Pt(x+d.cfg.InnerPadW/2+c.Offset*d.layout.MinWidth(), mid.Y))
	default: // mid
		return origin.Add(mid)
	}
}

// slidePair selects the two participants farthest from the centroid to
// interpolate between. Ordering is by descending distance, then ascending
// x, then ascending y; coincident keys make the selection order-dependent
// and are left to the input order.
func slidePair(keys []layout.Key, mid layout.Point) (start, end layout.Key) {
	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, func(a, b layout.Key) int {
		if c := cmp.Compare(b.Pos().Distance(mid), a.Pos().Distance(mid)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	return sorted[0], sorted[1]
}

// drawArcDendron draws an L-shaped connector from the combo box at p1 to
// the key at p2: a straight segment along the leading axis, a quarter arc
// and a second straight segment shortened to stay clear of the key edge.
// The sweep direction follows the sign of the displacement so the curve
// always bends toward the key.
func (d *Drawer) drawArcDendron(w *svgWriter, p1, p2 layout.Point, xFirst bool, shorten float64) {
	arcX := math.Copysign(d.cfg.ArcRadius, p2.X-p1.X)
	arcY := math.Copysign(d.cfg.ArcRadius, p2.Y-p1.Y)
	clockwise := (p2.X > p1.X) != (p2.Y > p1.Y)

	var line1, line2 string
	if xFirst {
		line1 = fmtPath("h", d.cfg.ArcScale*(p2.X-p1.X)-arcX)
		line2 = fmtPath("v", p2.Y-p1.Y-arcY-math.Copysign(shorten, p2.Y-p1.Y))
		clockwise = !clockwise
	} else {
		line1 = fmtPath("v", d.cfg.ArcScale*(p2.Y-p1.Y)-arcY)
		line2 = fmtPath("h", p2.X-p1.X-arcX-math.Copysign(shorten, p2.X-p1.X))
	}

	sweep := 0
	if clockwise {
		sweep = 1
	}
	w.printf("<path d=\"M%v,%v %s a%v,%v 0 0 %d %v,%v %s\" class=\"combo\"/>\n",
		p1.X, p1.Y, line1, d.cfg.ArcRadius, d.cfg.ArcRadius, sweep, arcX, arcY, line2)
}

// fmtPath renders one relative path command.
func fmtPath(cmd string, v float64) string {
	return fmt.Sprintf("%s%v", cmd, v)
}

// drawLineDendron draws a straight connector from p1 to p2, clipped by
// shorten at the key side. Shortening is skipped when it meets or exceeds
// the segment length, so the path never reverses direction.
func (d *Drawer) drawLineDendron(w *svgWriter, p1, p2 layout.Point, shorten float64) {
	diff := p2.Sub(p1)
	if length := diff.Length(); shorten > 0 && shorten < length {
		diff = diff.Mul(1 - shorten/length)
	}
	w.printf("<path d=\"M%v,%v l%v,%v\" class=\"combo\"/>\n", p1.X, p1.Y, diff.X, diff.Y)
}
