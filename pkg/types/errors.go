package types

import (
	"fmt"
	"strings"
)

type ConfigErrorCode uint8

const (
	ErrIndexRange ConfigErrorCode = iota + 1
	ErrCurvePoints
	ErrCount
	ErrValue
)

func (c ConfigErrorCode) String() string {
	switch c {
	case ErrIndexRange:
		return "index out of range"
	case ErrCurvePoints:
		return "bad curve points"
	case ErrCount:
		return "capacity exceeded"
	case ErrValue:
		return "bad value"
	}
	return "unknown"
}

// ConfigError locates a model validation failure, e.g. Where "mix[3].source".
type ConfigError struct {
	Code   ConfigErrorCode
	Where  string
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Where, e.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Where, e.Code, e.Detail)
}

type ConfigErrors []*ConfigError

func (ce *ConfigErrors) Add(code ConfigErrorCode, where string, detail string, args ...interface{}) {
	*ce = append(*ce, &ConfigError{Code: code, Where: where, Detail: fmt.Sprintf(detail, args...)})
}

func (ce ConfigErrors) Error() string {
	var sb strings.Builder
	for j, e := range ce {
		if j > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Err returns nil when no errors were collected.
func (ce ConfigErrors) Err() error {
	if len(ce) == 0 {
		return nil
	}
	return ce
}

// Warnings are load-time observations that do not prevent evaluation.
type Warnings []string

func (w *Warnings) Add(where string, detail string, args ...interface{}) {
	*w = append(*w, where+": "+fmt.Sprintf(detail, args...))
}
