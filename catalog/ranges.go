package catalog

import "github.com/cocoonstack/pmicdbg/types"

func vr(startCode uint8, startUV int, stepCode uint8, stepUV int, endCode uint8, endUV int) types.VoltRange {
	return types.VoltRange{
		Start: types.VoltPoint{Code: startCode, MicroVolts: startUV},
		Step:  types.VoltPoint{Code: stepCode, MicroVolts: stepUV},
		End:   types.VoltPoint{Code: endCode, MicroVolts: endUV},
	}
}

// Calibration tables. Segments are independent fits; neighbouring segments
// are not required to meet.
var (
	VarmVapeVmodRanges = []types.VoltRange{
		vr(0x00, 700000, 0x01, 12500, 0x35, 1362500),
		vr(0x36, 1362500, 0x01, 0, 0x3f, 1362500),
	}

	// Back-bias P: positive half, flat top, flat negative floor, negative ramp.
	VbbpRanges = []types.VoltRange{
		vr(0x00, 0, 0x10, 100000, 0x40, 400000),
		vr(0x50, 400000, 0x10, 0, 0x70, 400000),
		vr(0x80, -400000, 0x10, 0, 0xb0, -400000),
		vr(0xc0, -400000, 0x10, 100000, 0xf0, -100000),
	}

	VbbnRanges = []types.VoltRange{
		vr(0x00, 0, 0x01, -100000, 0x04, -400000),
		vr(0x05, -400000, 0x01, 0, 0x07, -400000),
		vr(0x08, 0, 0x01, 100000, 0x0c, 400000),
		vr(0x0d, 400000, 0x01, 0, 0x0f, 400000),
	}

	Vsmps1Ranges = []types.VoltRange{
		vr(0x00, 1100000, 0x01, 0, 0x1f, 1100000),
		vr(0x20, 1100000, 0x01, 12500, 0x30, 1300000),
		vr(0x31, 1300000, 0x01, 0, 0x3f, 1300000),
	}

	Vsmps2Ranges = []types.VoltRange{
		vr(0x00, 1800000, 0x01, 0, 0x38, 1800000),
		vr(0x39, 1800000, 0x01, 12500, 0x7f, 1875000),
	}

	Vsmps3Ranges = []types.VoltRange{
		vr(0x00, 700000, 0x01, 12500, 0x35, 1363500),
		vr(0x36, 1363500, 0x01, 0, 0x7f, 1363500),
	}

	Vaux12Ranges = []types.VoltRange{
		vr(0x00, 1100000, 0x01, 100000, 0x04, 1500000),
		vr(0x05, 1800000, 0x01, 50000, 0x07, 1900000),
		vr(0x08, 2500000, 0x01, 0, 0x08, 2500000),
		vr(0x09, 2650000, 0x01, 50000, 0x0c, 2800000),
		vr(0x0d, 2900000, 0x01, 100000, 0x0e, 3000000),
		vr(0x0f, 3300000, 0x01, 0, 0x0f, 3300000),
	}

	Vaux3Ranges = []types.VoltRange{
		vr(0x00, 1200000, 0x01, 300000, 0x03, 2100000),
		vr(0x04, 2500000, 0x01, 250000, 0x05, 2750000),
		vr(0x06, 2790000, 0x01, 0, 0x06, 2790000),
		vr(0x07, 2910000, 0x01, 0, 0x07, 2910000),
	}

	Vrf1Ranges = []types.VoltRange{
		vr(0x00, 1800000, 0x10, 200000, 0x10, 2000000),
		vr(0x20, 2150000, 0x10, 0, 0x20, 2150000),
		vr(0x30, 2500000, 0x10, 0, 0x30, 2500000),
	}

	VintCore12Ranges = []types.VoltRange{
		vr(0x00, 1200000, 0x08, 25000, 0x30, 1350000),
		vr(0x38, 1350000, 0x01, 0, 0x38, 1350000),
	}
)
