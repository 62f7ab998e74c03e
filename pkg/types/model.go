package types

// Logical switch functions.
type LSFunc uint8

const (
	LS_FN_OFF LSFunc = iota
	LS_FN_VEQUAL
	LS_FN_VALMOSTEQUAL
	LS_FN_VPOS
	LS_FN_VNEG
	LS_FN_APOS
	LS_FN_ANEG
	LS_FN_AND
	LS_FN_OR
	LS_FN_XOR
	LS_FN_EDGE
	LS_FN_EQUAL
	LS_FN_NEQUAL
	LS_FN_GREATER
	LS_FN_LESS
	LS_FN_EGREATER
	LS_FN_ELESS
	LS_FN_ALMOSTEQUAL
	LS_FN_DPOS
	LS_FN_DAPOS
	LS_FN_TIMER
	LS_FN_STICKY
	LS_FN_MAX
)

type LSFamily uint8

const (
	LS_FAMILY_OFF LSFamily = iota
	LS_FAMILY_VOFS
	LS_FAMILY_VBOOL
	LS_FAMILY_VCOMP
	LS_FAMILY_EDGE
	LS_FAMILY_TIMER
	LS_FAMILY_STICKY
)

func (f LSFunc) Family() LSFamily {
	switch f {
	case LS_FN_OFF:
		return LS_FAMILY_OFF
	case LS_FN_AND, LS_FN_OR, LS_FN_XOR:
		return LS_FAMILY_VBOOL
	case LS_FN_EQUAL, LS_FN_NEQUAL, LS_FN_GREATER, LS_FN_LESS, LS_FN_EGREATER, LS_FN_ELESS, LS_FN_ALMOSTEQUAL:
		return LS_FAMILY_VCOMP
	case LS_FN_EDGE:
		return LS_FAMILY_EDGE
	case LS_FN_TIMER:
		return LS_FAMILY_TIMER
	case LS_FN_STICKY:
		return LS_FAMILY_STICKY
	default:
		return LS_FAMILY_VOFS
	}
}

// Edge window values.
const (
	EDGE_INSTANT       = -1
	EDGE_UNTIL_RELEASE = 0
)

// LogicalSwitchData is one logical switch slot. Times are in 0.1s.
//
//	VOFS:   Src1 <op> Val (Val in percent for RESX sources, source units otherwise)
//	VCOMP:  Src1 <op> Src2
//	VBOOL:  Sw1 <op> Sw2
//	EDGE:   Sw1 held for Val, reported for Val2 (EDGE_INSTANT, EDGE_UNTIL_RELEASE or a window)
//	TIMER:  Val on, Val2 off
//	STICKY: set by Sw1, reset by Sw2
type LogicalSwitchData struct {
	Func      LSFunc    `json:"func"`
	Sw1       RawSwitch `json:"sw1"`
	Sw2       RawSwitch `json:"sw2"`
	Src1      RawSource `json:"src1"`
	Src2      RawSource `json:"src2"`
	Val       int       `json:"val"`
	Val2      int       `json:"val2"`
	AndSwitch RawSwitch `json:"andsw"`
	Duration  int       `json:"duration"`
	Delay     int       `json:"delay"`
}

func (ls *LogicalSwitchData) IsEmpty() bool {
	return ls.Func == LS_FN_OFF
}

type CurveType uint8

const (
	CURVE_TYPE_STANDARD CurveType = iota
	CURVE_TYPE_CUSTOM
)

type CurvePoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CurveData holds points in percent. Standard curves only use Y.
type CurveData struct {
	Type   CurveType    `json:"type"`
	Name   string       `json:"name,omitempty"`
	Points []CurvePoint `json:"points"`
}

type TrimMode uint8

const (
	TRIM_OWN TrimMode = iota
	TRIM_ABSOLUTE
	TRIM_RELATIVE
	TRIM_OFF
)

// TrimData is the trim of one stick in one flight mode. For TRIM_ABSOLUTE
// and TRIM_RELATIVE, Ref is a flight mode reference using the same
// self-skip encoding as GVars; Value is the literal (TRIM_OWN) or the
// additive offset (TRIM_RELATIVE).
type TrimData struct {
	Mode  TrimMode `json:"mode"`
	Ref   int      `json:"ref"`
	Value int      `json:"value"`
}

type FlightModeData struct {
	Name   string              `json:"name,omitempty"`
	Switch RawSwitch           `json:"switch"`
	Trims  [MAX_TRIMS]TrimData `json:"trims"`
	GVars  [MAX_GVARS]int      `json:"gvars"`
}

type GVarData struct {
	Name  string `json:"name,omitempty"`
	Unit  string `json:"unit,omitempty"`
	Prec  int    `json:"prec"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Popup bool   `json:"popup,omitempty"`
}

func (g *GVarData) Multiplier() float64 {
	if g.Prec == 1 {
		return 0.1
	}
	return 1.0
}

// CarryTrim: 0 carries the source stick's own trim, CARRY_NOTRIM disables
// the trim and -(n+1) carries the trim of stick n.
type CarryTrim int

const (
	CARRY_OWN    CarryTrim = 0
	CARRY_NOTRIM CarryTrim = 1
)

func CarryFrom(stick int) CarryTrim {
	return CarryTrim(-(stick + 1))
}

// TrimIndex returns the trim carried for a source on analog stick, or -1.
func (c CarryTrim) TrimIndex(src RawSource) int {
	switch {
	case c > 0:
		return -1
	case c < 0:
		return int(-c) - 1
	case src.Kind == SOURCE_STICK && src.Index < MAX_TRIMS:
		return src.Index
	}
	return -1
}

const (
	SIDE_BOTH = iota
	SIDE_POS
	SIDE_NEG
)

// ExpoData is a virtual input line. FlightModes bits mark the modes the
// line is disabled in.
type ExpoData struct {
	Input       int       `json:"input"`
	Source      RawSource `json:"source"`
	Weight      int       `json:"weight"`
	Offset      int       `json:"offset"`
	Curve       int       `json:"curve"`
	Switch      RawSwitch `json:"switch"`
	FlightModes uint16    `json:"flightModes"`
	CarryTrim   CarryTrim `json:"carryTrim"`
	Side        int       `json:"side"`
	Name        string    `json:"name,omitempty"`
}

type Multiplex uint8

const (
	MLTPX_ADD Multiplex = iota
	MLTPX_MUL
	MLTPX_REP
)

func (m Multiplex) String() string {
	switch m {
	case MLTPX_MUL:
		return "*="
	case MLTPX_REP:
		return ":="
	default:
		return "+="
	}
}

// MixData is one mix line. Delays are in 0.1s, slews in %/s.
type MixData struct {
	Dest        int       `json:"dest"`
	Source      RawSource `json:"source"`
	Weight      int       `json:"weight"`
	Mltpx       Multiplex `json:"mltpx"`
	Curve       int       `json:"curve"`
	Offset      int       `json:"offset"`
	Switch      RawSwitch `json:"switch"`
	FlightModes uint16    `json:"flightModes"`
	CarryTrim   CarryTrim `json:"carryTrim"`
	DelayUp     int       `json:"delayUp"`
	DelayDown   int       `json:"delayDown"`
	SlewUp      int       `json:"slewUp"`
	SlewDown    int       `json:"slewDown"`
	Warn        int       `json:"warn"`
	Name        string    `json:"name,omitempty"`
}

func (md *MixData) HasShaping() bool {
	return md.DelayUp != 0 || md.DelayDown != 0 || md.SlewUp != 0 || md.SlewDown != 0
}

// LimitData values are in tenths of a percent; zero Min/Max mean -100%/+100%.
type LimitData struct {
	Offset int    `json:"offset"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
	Revert bool   `json:"revert,omitempty"`
	Name   string `json:"name,omitempty"`
}

type CountdownStyle uint8

const (
	COUNTDOWN_SILENT CountdownStyle = iota
	COUNTDOWN_BEEPS
	COUNTDOWN_VOICE
	COUNTDOWN_HAPTIC
)

func (c CountdownStyle) String() string {
	var names = [...]string{"Silent", "Beeps", "Voice", "Haptic"}
	if int(c) >= len(names) {
		return "???"
	}
	return names[c]
}

type Persistence uint8

const (
	PERSIST_OFF Persistence = iota
	PERSIST_FLIGHT
	PERSIST_MANUAL
)

func (p Persistence) String() string {
	var names = [...]string{"OFF", "Flight", "Manual reset"}
	if int(p) >= len(names) {
		return "???"
	}
	return names[p]
}

type StopMode uint8

const (
	STOP_PAUSE StopMode = iota
	STOP_RESET
)

const DEFAULT_COUNTDOWN_START = 10

type TimerData struct {
	Name           string         `json:"name,omitempty"`
	Start          int            `json:"start"`
	Switch         RawSwitch      `json:"switch"`
	CountdownBeep  CountdownStyle `json:"countdownBeep"`
	CountdownStart int            `json:"countdownStart"`
	MinuteBeep     bool           `json:"minuteBeep"`
	Persistent     Persistence    `json:"persistent"`
	StopMode       StopMode       `json:"stopMode"`
}

type FailsafeMode uint8

const (
	FAILSAFE_NOT_SET FailsafeMode = iota
	FAILSAFE_MODE_HOLD
	FAILSAFE_CUSTOM
	FAILSAFE_NOPULSES
	FAILSAFE_RECEIVER
)

func (f FailsafeMode) String() string {
	var names = [...]string{"Not set", "Hold", "Custom", "No pulses", "Receiver"}
	if int(f) >= len(names) {
		return "???"
	}
	return names[f]
}

type ModuleData struct {
	Protocol         string       `json:"protocol,omitempty"`
	ChannelsStart    int          `json:"channelsStart"`
	ChannelsCount    int          `json:"channelsCount"`
	FailsafeMode     FailsafeMode `json:"failsafeMode"`
	FailsafeChannels []int        `json:"failsafeChannels,omitempty"`
}

type TelemetrySensor struct {
	Name string `json:"name"`
	Unit string `json:"unit,omitempty"`
	Prec int    `json:"prec"`
}

type CompareOp uint8

const (
	CMP_EQ CompareOp = iota
	CMP_NE
	CMP_GT
	CMP_LT
	CMP_GE
	CMP_LE
)

func (op CompareOp) Eval(a, b int) bool {
	switch op {
	case CMP_EQ:
		return a == b
	case CMP_NE:
		return a != b
	case CMP_GT:
		return a > b
	case CMP_LT:
		return a < b
	case CMP_GE:
		return a >= b
	case CMP_LE:
		return a <= b
	}
	return false
}

type TelemetryCheck struct {
	Sensor int       `json:"sensor"`
	Op     CompareOp `json:"op"`
	Value  int       `json:"value"`
}

type ModelData struct {
	Name            string              `json:"name"`
	Channels        int                 `json:"channels"`
	ExtendedLimits  bool                `json:"extendedLimits"`
	ExtendedTrims   bool                `json:"extendedTrims"`
	FlightModes     []FlightModeData    `json:"flightModes"`
	GVars           []GVarData          `json:"gvars,omitempty"`
	Curves          []CurveData         `json:"curves,omitempty"`
	Expos           []ExpoData          `json:"inputs,omitempty"`
	Mixes           []MixData           `json:"mixes,omitempty"`
	Limits          []LimitData         `json:"outputs,omitempty"`
	LogicalSwitches []LogicalSwitchData `json:"logicalSwitches,omitempty"`
	Timers          []TimerData         `json:"timers,omitempty"`
	Modules         []ModuleData        `json:"modules,omitempty"`
	Sensors         []TelemetrySensor   `json:"sensors,omitempty"`
	TelemetryChecks []TelemetryCheck    `json:"telemetryChecks,omitempty"`
}

// NumFlightModes is never less than one; a model without flight mode data
// runs in an implicit FM0.
func (m *ModelData) NumFlightModes() int {
	if len(m.FlightModes) == 0 {
		return 1
	}
	return len(m.FlightModes)
}

func (m *ModelData) OutputRange() int {
	if m.ExtendedLimits {
		return LIMIT_EXT
	}
	return LIMIT_STD
}
