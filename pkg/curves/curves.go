package curves

import (
	"github.com/stronnag/txlogic/pkg/types"
)

const span = 2 * types.RESX

// Eval maps x (RESX units) through c. The result is in RESX units; c is
// never modified.
func Eval(c *types.CurveData, x int) int {
	n := len(c.Points)
	if n == 0 {
		return x
	}
	if c.Type == types.CURVE_TYPE_CUSTOM {
		return evalCustom(c.Points, x)
	}
	return evalStandard(c.Points, x)
}

// Standard curves have n points evenly spread over -100..100; only Y is used.
func evalStandard(pts []types.CurvePoint, x int) int {
	n := len(pts)
	x = types.Limit(-types.RESX, x, types.RESX)
	if n == 1 {
		return types.Calc100toRESX(pts[0].Y)
	}
	pos := int64(x+types.RESX) * int64(n-1)
	i := int(pos / span)
	if i >= n-1 {
		return types.Calc100toRESX(pts[n-1].Y)
	}
	rem := pos - int64(i)*span
	ya := int64(pts[i].Y)
	yb := int64(pts[i+1].Y)
	return int(types.DivRound((ya*(span-rem)+yb*rem)*types.RESX, 100*span))
}

// Custom curves are walked in stored order and the first segment whose x
// span holds x is used, whichever way it runs. Outside every span the
// nearer end point is held.
func evalCustom(pts []types.CurvePoint, x int) int {
	n := len(pts)
	x100 := int64(x) * 100
	for i := 0; i < n-1; i++ {
		a := pts[i]
		b := pts[i+1]
		ax := int64(a.X) * types.RESX
		bx := int64(b.X) * types.RESX
		if x100 < min(ax, bx) || x100 > max(ax, bx) {
			continue
		}
		ya := types.Calc100toRESX(a.Y)
		yb := types.Calc100toRESX(b.Y)
		dx := int64(b.X - a.X)
		if dx == 0 {
			return ya
		}
		num := int64(a.Y)*dx*types.RESX + int64(b.Y-a.Y)*(x100-ax)
		y := int(types.DivRound(num, dx*100))
		if ya > yb {
			ya, yb = yb, ya
		}
		return types.Limit(ya, y, yb)
	}
	first := int64(pts[0].X)*types.RESX - x100
	last := int64(pts[n-1].X)*types.RESX - x100
	if first*first <= last*last {
		return types.Calc100toRESX(pts[0].Y)
	}
	return types.Calc100toRESX(pts[n-1].Y)
}

// Apply evaluates a 1-based curve reference. A negative reference applies
// the curve mirrored through the origin. ok is false for an unknown curve,
// in which case x is returned unchanged.
func Apply(cs []types.CurveData, ref int, x int) (y int, ok bool) {
	switch {
	case ref == 0:
		return x, true
	case ref > 0 && ref <= len(cs):
		return Eval(&cs[ref-1], x), true
	case ref < 0 && -ref <= len(cs):
		return -Eval(&cs[-ref-1], -x), true
	}
	return x, false
}

// Validate reports problems with a curve definition.
func Validate(c *types.CurveData, where string, errs *types.ConfigErrors) {
	n := len(c.Points)
	if n < types.MIN_CURVE_POINTS || n > types.MAX_CURVE_POINTS {
		errs.Add(types.ErrCurvePoints, where, "%d points", n)
		return
	}
	if c.Type != types.CURVE_TYPE_STANDARD && c.Type != types.CURVE_TYPE_CUSTOM {
		errs.Add(types.ErrValue, where+".type", "%d", c.Type)
	}
	for j, p := range c.Points {
		if p.Y < -100 || p.Y > 100 || (c.Type == types.CURVE_TYPE_CUSTOM && (p.X < -100 || p.X > 100)) {
			errs.Add(types.ErrCurvePoints, where, "point %d (%d,%d)", j, p.X, p.Y)
		}
	}
}
