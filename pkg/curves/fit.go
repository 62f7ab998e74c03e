package curves

import (
	"errors"
	"math"
	"sort"

	"github.com/deet/simpleline"
	"github.com/stronnag/txlogic/pkg/types"
)

var ErrTooFewSamples = errors.New("curves: need at least three samples")

// Fit reduces a sampled transfer function (percent in, percent out) to a
// custom curve of at most MAX_CURVE_POINTS points. Epsilon is the initial
// RDP tolerance in percent; it is raised until the point budget holds.
func Fit(xs, ys []float64, epsilon float64) (types.CurveData, error) {
	var cd types.CurveData
	if len(xs) != len(ys) || len(xs) < types.MIN_CURVE_POINTS {
		return cd, ErrTooFewSamples
	}

	idx := make([]int, len(xs))
	for j := range idx {
		idx[j] = j
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	points := []simpleline.Point{}
	for _, j := range idx {
		pt := simpleline.Point3d{X: xs[j], Y: ys[j], Z: 0}
		points = append(points, &pt)
	}

	if epsilon <= 0 {
		epsilon = 0.5
	}
	var res []simpleline.Point
	var err error
	ntry := 0
	for {
		res, err = simpleline.RDP(points, epsilon, simpleline.Euclidean, true)
		if err != nil {
			return cd, err
		}
		if len(res) > types.MAX_CURVE_POINTS {
			epsilon += float64(len(res)-types.MAX_CURVE_POINTS) * epsilon * 0.05
			ntry++
			if ntry > 100 {
				return cd, errors.New("curves: failed to reach point budget")
			}
		} else if len(res) < types.MIN_CURVE_POINTS && ntry < 5 {
			epsilon /= 15.0
			ntry++
		} else {
			break
		}
	}

	cd.Type = types.CURVE_TYPE_CUSTOM
	for _, p := range res {
		v := p.Vector()
		cd.Points = append(cd.Points, types.CurvePoint{X: clampPct(v[0]), Y: clampPct(v[1])})
	}
	if len(cd.Points) < types.MIN_CURVE_POINTS {
		// straight line; add the centre sample
		mid := idx[len(idx)/2]
		cp := types.CurvePoint{X: clampPct(xs[mid]), Y: clampPct(ys[mid])}
		cd.Points = []types.CurvePoint{cd.Points[0], cp, cd.Points[len(cd.Points)-1]}
	}
	return cd, nil
}

func clampPct(v float64) int {
	return types.Limit(-100, int(math.Round(v)), 100)
}
