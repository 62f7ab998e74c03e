package types

// Fixed-point convention: RESX is 100%.
const (
	RESX       = 1024
	RESX_SHIFT = 10
	LIMIT_STD  = RESX
	LIMIT_EXT  = RESX * 3 / 2 // 150%
)

// Capacities. All runtime arrays are sized from these at load time.
const (
	MAX_FLIGHT_MODES   = 9
	MAX_GVARS          = 9
	MAX_LOGICAL_SWITCH = 64
	MAX_CHANNELS       = 32
	MAX_MIXERS         = 64
	MAX_EXPOS          = 64
	MAX_INPUTS         = 32
	MAX_CURVES         = 32
	MAX_TIMERS         = 3
	MAX_MODULES        = 2
	MAX_ANALOGS        = 8
	MAX_SWITCHES       = 8
	MAX_TRIMS          = 4
	MAX_SENSORS        = 32
	MAX_TELEM_CHECKS   = 16
	MIN_CURVE_POINTS   = 3
	MAX_CURVE_POINTS   = 17
)

// Stored GVar (and flight mode reference) values above this are references.
const (
	GVAR_MAX     = 1024
	GVAR_REFBASE = GVAR_MAX + 1
)

// Trims are +/-125 (+/-500 extended) and count double in RESX units.
const (
	TRIM_MAX     = 125
	TRIM_EXTMAX  = 500
	TRIM_SCALE   = 2
	TRIM_DEFAULT = 0
)

// Failsafe channel sentinels.
const (
	FAILSAFE_HOLD    = 2000
	FAILSAFE_NOPULSE = 2001
)

// Stick (analog) order; the first MAX_TRIMS analogs carry trims.
const (
	STICK_RUD = iota
	STICK_ELE
	STICK_THR
	STICK_AIL
	POT_S1
	POT_S2
	SLIDER_LS
	SLIDER_RS
)

var AnalogNames = []string{"Rud", "Ele", "Thr", "Ail", "S1", "S2", "LS", "RS"}

var SwitchNames = []string{"SA", "SB", "SC", "SD", "SE", "SF", "SG", "SH"}

// Switch positions as reported by the key driver.
const (
	SW_UP = iota
	SW_MID
	SW_DOWN
	SW_POSITIONS
)
