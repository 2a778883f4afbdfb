// Package voltage turns raw selector codes into microvolts using the
// piecewise-linear calibration tables from the catalog.
package voltage

import (
	"fmt"

	"github.com/cocoonstack/pmicdbg/types"
)

// DecodeError reports a code that no segment accepts.
type DecodeError struct {
	Code uint8
	// Misaligned is set when a segment claimed the code's numeric range but
	// the code was not a whole number of steps from the segment start.
	Misaligned bool
}

func (e *DecodeError) Error() string {
	if e.Misaligned {
		return fmt.Sprintf("selector code 0x%02x is not step aligned", e.Code)
	}
	return fmt.Sprintf("selector code 0x%02x outside calibration table", e.Code)
}

// Decode resolves code against ranges in order. The first segment whose
// range contains code decides the outcome; a misaligned code ends the
// search even if a later segment would also cover it.
func Decode(ranges []types.VoltRange, code uint8) (int, error) {
	for _, r := range ranges {
		if !r.Contains(code) {
			continue
		}
		if r.Step.Code == 0 {
			return r.Start.MicroVolts, nil
		}
		off := int(code) - int(r.Start.Code)
		step := int(r.Step.Code)
		if off%step != 0 {
			return 0, &DecodeError{Code: code, Misaligned: true}
		}
		return r.Start.MicroVolts + r.Step.MicroVolts*(off/step), nil
	}
	return 0, &DecodeError{Code: code}
}

// DecodeSlot masks raw with selector slot n (1-based) of reg and decodes the
// result. Codes are not shifted; the tables are written in masked units.
func DecodeSlot(reg *types.Regulator, n int, raw uint8) (int, error) {
	s, err := reg.Slot(n)
	if err != nil {
		return 0, err
	}
	return Decode(s.Ranges, s.Extract(raw))
}

// Format renders microvolts as millivolts with three decimals, e.g.
// 1362500 -> "1362.500 mV".
func Format(uv int) string {
	sign := ""
	if uv < 0 {
		sign = "-"
		uv = -uv
	}
	return fmt.Sprintf("%s%d.%03d mV", sign, uv/1000, uv%1000) //nolint:mnd
}
