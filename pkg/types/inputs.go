package types

// Inputs is the per-frame snapshot supplied by the input sampling layer.
type Inputs struct {
	Analogs         [MAX_ANALOGS]int
	Switches        [MAX_SWITCHES]int
	Telemetry       [MAX_SENSORS]int
	TelemetryValid  [MAX_SENSORS]bool
	ForceFlightMode bool
	FlightMode      int
}

func (in *Inputs) Reset() {
	*in = Inputs{}
	for j := range in.Switches {
		in.Switches[j] = SW_UP
	}
}
