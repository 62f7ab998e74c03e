package types

// DivRound divides rounding half away from zero.
func DivRound(n, d int64) int64 {
	if d < 0 {
		n, d = -n, -d
	}
	if n >= 0 {
		return (2*n + d) / (2 * d)
	}
	return -((-2*n + d) / (2 * d))
}

func Limit(lo, v, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Calc100toRESX converts a percentage to RESX units.
func Calc100toRESX(v int) int {
	return int(DivRound(int64(v)*RESX, 100))
}

// Calc1000toRESX converts tenths of a percent to RESX units.
func Calc1000toRESX(v int) int {
	return int(DivRound(int64(v)*RESX, 1000))
}

// CalcRESXto1000 converts RESX units to tenths of a percent.
func CalcRESXto1000(v int) int {
	return int(DivRound(int64(v)*1000, RESX))
}

// Percent is the display form used for channel and failsafe values.
func Percent(v int) float64 {
	return float64(CalcRESXto1000(v)) / 10.0
}
