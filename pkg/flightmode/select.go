package flightmode

import (
	"github.com/stronnag/txlogic/pkg/types"
)

type SwitchReader interface {
	Evaluate(types.RawSwitch) bool
}

// Select returns the first flight mode above FM0 whose switch is set and
// on, or FM0.
func Select(fms []types.FlightModeData, sw SwitchReader) int {
	for i := 1; i < len(fms); i++ {
		if s := fms[i].Switch; !s.IsNone() && sw.Evaluate(s) {
			return i
		}
	}
	return 0
}
