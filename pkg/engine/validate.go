package engine

import (
	"fmt"

	"github.com/stronnag/txlogic/pkg/curves"
	"github.com/stronnag/txlogic/pkg/failsafe"
	"github.com/stronnag/txlogic/pkg/flightmode"
	"github.com/stronnag/txlogic/pkg/logical"
	"github.com/stronnag/txlogic/pkg/mixer"
	"github.com/stronnag/txlogic/pkg/switches"
	"github.com/stronnag/txlogic/pkg/timers"
	"github.com/stronnag/txlogic/pkg/types"
)

func fmtWhere(list string, j int, field string) string {
	if field == "" {
		return fmt.Sprintf("%s[%d]", list, j)
	}
	return fmt.Sprintf("%s[%d].%s", list, j, field)
}

// Validate collects every configuration error in m, and the warnings.
func Validate(m *types.ModelData) (types.ConfigErrors, types.Warnings) {
	var errs types.ConfigErrors
	var warns types.Warnings
	if len(m.Sensors) > types.MAX_SENSORS {
		errs.Add(types.ErrCount, "sensors", "%d > %d", len(m.Sensors), types.MAX_SENSORS)
	}
	flightmode.Validate(m, &errs, &warns)
	for j := range m.FlightModes {
		switches.Validate(m.FlightModes[j].Switch, m, fmtWhere("flightModes", j, "switch"), &errs)
	}
	for j := range m.Curves {
		curves.Validate(&m.Curves[j], fmtWhere("curves", j, ""), &errs)
	}
	switches.ValidateChecks(m, &errs)
	logical.Validate(m, &errs, &warns)
	mixer.Validate(m, &errs, &warns)
	timers.Validate(m, &errs)
	failsafe.Validate(m, &errs)
	return errs, warns
}

