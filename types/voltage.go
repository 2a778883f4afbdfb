package types

// VoltPoint pairs a selector code with a voltage in microvolts.
// Codes are in masked, unshifted register units.
type VoltPoint struct {
	Code       uint8 `json:"code"`
	MicroVolts int   `json:"uv"`
}

// VoltRange is one piecewise-linear calibration segment. A zero step code
// makes it a single-point segment that only claims Start.Code.
type VoltRange struct {
	Start VoltPoint `json:"start"`
	Step  VoltPoint `json:"step"`
	End   VoltPoint `json:"end"`
}

// Contains reports whether code lies in the segment's claimed code range.
func (r VoltRange) Contains(code uint8) bool {
	if r.Step.Code == 0 {
		return code == r.Start.Code
	}
	return r.Start.Code <= code && code <= r.End.Code
}
