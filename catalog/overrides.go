package catalog

import "github.com/cocoonstack/pmicdbg/types"

// Override is one register forced before a power-saving suspend.
type Override struct {
	Name  string           `json:"name"`
	Reg   types.RegisterID `json:"reg"`
	Mask  uint8            `json:"mask"`
	Value uint8            `json:"value"`
}

// ExtSupplyLowPower is the ExtSupplyRegu value used on boards where the
// external supplies must not be left in HW control: Vext1 low-power,
// Vext2 and Vext3 off.
const ExtSupplyLowPower uint8 = 0x03

// Overrides returns a fresh copy of the suspend override table, in apply
// order. Restore walks it backwards.
func Overrides() []Override {
	return []Override{
		// USB and TVout clock paths off, TVout PLL off.
		{Name: "SysClkCtrl", Reg: SysClkCtrl, Mask: 0x07, Value: 0x00},
		// Vext2 follows SysClkReq1.
		{Name: "ReguSysClkReq1HPValid2", Reg: ReguSysClkReq1HPValid2, Mask: 0x20, Value: 0x20},
		// Vext2 in HP/OFF mode.
		{Name: "ReguRequestCtrl3", Reg: ReguRequestCtrl3, Mask: 0x03, Value: 0x01},
		// Vsim follows SysClkReq1 only.
		{Name: "VsimSysClkCtrl", Reg: VsimSysClkCtrl, Mask: 0xff, Value: 0x01},
		// No internal clock switching, request lines inactive.
		{Name: "SysUlpClkCtrl1", Reg: SysUlpClkCtrl1, Mask: 0x0f, Value: 0x00},
		// Vext1 off, Vext2 in HW control, Vext3 off.
		{Name: "ExtSupplyRegu", Reg: ExtSupplyRegu, Mask: 0x3f, Value: 0x08},
		// TVout DAC input forced to zero.
		{Name: "TVoutCtrl", Reg: TVoutCtrl, Mask: 0x03, Value: 0x00},
	}
}
