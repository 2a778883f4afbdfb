package catalog

import (
	"strings"

	"github.com/cocoonstack/pmicdbg/types"
)

// manual builds the manual-mode field from its off/on/hw/lp values.
func manual(reg types.RegisterID, mask, off, on, hw, lp uint8) types.EnumField[types.ManualMode] {
	return types.EnumField[types.ManualMode]{
		Field: types.Field{Reg: reg, Mask: mask},
		Choices: []types.Choice[types.ManualMode]{
			{Value: off, Name: types.ModeOff},
			{Value: on, Name: types.ModeOn},
			{Value: hw, Name: types.ModeHW},
			{Value: lp, Name: types.ModeLP},
		},
	}
}

func hwMode(reg types.RegisterID, mask, hplp, hpoff, hp, hp2 uint8) *types.EnumField[types.HWMode] {
	return &types.EnumField[types.HWMode]{
		Field: types.Field{Reg: reg, Mask: mask},
		Choices: []types.Choice[types.HWMode]{
			{Value: hplp, Name: types.HWModeHPLP},
			{Value: hpoff, Name: types.HWModeHPOff},
			{Value: hp, Name: types.HWModeHP},
			{Value: hp2, Name: types.HWModeHP},
		},
	}
}

func valid(reg types.RegisterID, mask uint8) *types.Field {
	return &types.Field{Reg: reg, Mask: mask}
}

// selector builds the slot chooser; vals[i] selects slot i+1.
func selector(reg types.RegisterID, mask uint8, vals ...uint8) *types.EnumField[int] {
	e := &types.EnumField[int]{Field: types.Field{Reg: reg, Mask: mask}}
	for i, v := range vals {
		e.Choices = append(e.Choices, types.Choice[int]{Value: v, Name: i + 1})
	}
	return e
}

func slot(reg types.RegisterID, mask uint8, ranges []types.VoltRange) *types.Slot {
	return &types.Slot{Field: types.Field{Reg: reg, Mask: mask}, Ranges: ranges}
}

var regulators = []*types.Regulator{
	{
		Name:     "Varm",
		Manual:   manual(ArmRegu1, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWMode:   hwMode(ReguRequestCtrl1, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWValid:  [types.NumRequesters]*types.Field{types.ReqSysClk1: valid(ReguSysClkReq1HPValid2, 0x02), types.ReqSW: valid(ReguSwHPReqValid1, 0x02)},
		Selector: selector(ArmRegu1, 0x0c, 0x00, 0x04, 0x08),
		Slots: [types.NumSlots]*types.Slot{
			slot(VarmSel1, 0x3f, VarmVapeVmodRanges),
			slot(VarmSel2, 0x3f, VarmVapeVmodRanges),
			slot(VarmSel3, 0x3f, VarmVapeVmodRanges),
		},
	},
	{
		Name:     "Vbbp",
		Manual:   manual(ArmRegu2, 0x03, 0x00, 0x01, 0x02, 0x00),
		HWValid:  [types.NumRequesters]*types.Field{types.ReqSysClk1: valid(ReguSysClkReq1HPValid2, 0x04)},
		Selector: selector(ArmRegu1, 0x10, 0x00, 0x10, 0x00),
		Slots: [types.NumSlots]*types.Slot{
			slot(VBBSel1, 0xf0, VbbpRanges),
			slot(VBBSel2, 0xf0, VbbpRanges),
		},
	},
	{
		Name:     "Vbbn",
		Manual:   manual(ArmRegu2, 0x0c, 0x00, 0x04, 0x08, 0x00),
		HWValid:  [types.NumRequesters]*types.Field{types.ReqSysClk1: valid(ReguSysClkReq1HPValid2, 0x04)},
		Selector: selector(ArmRegu1, 0x20, 0x00, 0x20, 0x00),
		Slots: [types.NumSlots]*types.Slot{
			slot(VBBSel1, 0x0f, VbbnRanges),
			slot(VBBSel2, 0x0f, VbbnRanges),
		},
	},
	{
		Name:     "Vape",
		Manual:   manual(VapeRegu, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWMode:   hwMode(ReguRequestCtrl1, 0x0c, 0x00, 0x04, 0x08, 0x0c),
		HWValid:  [types.NumRequesters]*types.Field{types.ReqSysClk1: valid(ReguSysClkReq1HPValid2, 0x01), types.ReqSW: valid(ReguSwHPReqValid1, 0x01)},
		Selector: selector(VapeRegu, 0x24, 0x00, 0x04, 0x20),
		Slots: [types.NumSlots]*types.Slot{
			slot(VapeSel1, 0x3f, VarmVapeVmodRanges),
			slot(VapeSel2, 0x3f, VarmVapeVmodRanges),
			slot(VapeSel3, 0x3f, VarmVapeVmodRanges),
		},
	},
	{
		Name:   "Vsmps1",
		Manual: manual(Vsmps1Regu, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWMode: hwMode(ReguRequestCtrl1, 0x30, 0x00, 0x10, 0x20, 0x30),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid1, 0x01),
			valid(ReguHwHPReq1Valid1, 0x01),
			valid(ReguHwHPReq2Valid1, 0x01),
			valid(ReguSwHPReqValid1, 0x04),
		},
		Selector: selector(Vsmps1Regu, 0x0c, 0x00, 0x04, 0x08),
		Slots: [types.NumSlots]*types.Slot{
			slot(Vsmps1Sel1, 0x3f, Vsmps1Ranges),
			slot(Vsmps1Sel2, 0x3f, Vsmps1Ranges),
			slot(Vsmps1Sel3, 0x3f, Vsmps1Ranges),
		},
	},
	{
		Name:   "Vsmps2",
		Manual: manual(Vsmps2Regu, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWMode: hwMode(ReguRequestCtrl1, 0xc0, 0x00, 0x40, 0x80, 0xc0),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid1, 0x02),
			valid(ReguHwHPReq1Valid1, 0x02),
			valid(ReguHwHPReq2Valid1, 0x02),
			valid(ReguSwHPReqValid1, 0x08),
		},
		Selector: selector(Vsmps2Regu, 0x0c, 0x00, 0x04, 0x08),
		Slots: [types.NumSlots]*types.Slot{
			slot(Vsmps2Sel1, 0x3f, Vsmps2Ranges),
			slot(Vsmps2Sel2, 0x3f, Vsmps2Ranges),
			slot(Vsmps2Sel3, 0x3f, Vsmps2Ranges),
		},
	},
	{
		Name:   "Vsmps3",
		Manual: manual(Vsmps3Regu, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWMode: hwMode(ReguRequestCtrl2, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid1, 0x04),
			valid(ReguHwHPReq1Valid1, 0x04),
			valid(ReguHwHPReq2Valid1, 0x04),
			valid(ReguSwHPReqValid1, 0x10),
		},
		Selector: selector(Vsmps3Regu, 0x0c, 0x00, 0x04, 0x08),
		Slots: [types.NumSlots]*types.Slot{
			slot(Vsmps3Sel1, 0x7f, Vsmps3Ranges),
			slot(Vsmps3Sel2, 0x7f, Vsmps3Ranges),
			slot(Vsmps3Sel3, 0x7f, Vsmps3Ranges),
		},
	},
	{
		Name:   "Vpll",
		Manual: manual(VpllVanaRegu, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWMode: hwMode(ReguRequestCtrl2, 0x0c, 0x00, 0x04, 0x08, 0x0c),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid1, 0x10),
			valid(ReguHwHPReq1Valid1, 0x10),
			valid(ReguHwHPReq2Valid1, 0x10),
			valid(ReguSwHPReqValid1, 0x40),
		},
	},
	{
		Name:   "VrefDDR",
		Manual: manual(VrefDDR, 0x01, 0x00, 0x01, 0x00, 0x00),
	},
	{
		Name:   "Vmod",
		Manual: manual(VmodRegu, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWMode: hwMode(VmodRegu, 0xc0, 0x00, 0x40, 0x80, 0xc0),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid2, 0x08),
			valid(ReguHwHPReq1Valid2, 0x08),
			valid(ReguHwHPReq2Valid2, 0x08),
			valid(ReguSwHPReqValid2, 0x20),
		},
		Selector: selector(VmodRegu, 0x04, 0x00, 0x04, 0x00),
		Slots: [types.NumSlots]*types.Slot{
			slot(VmodSel1, 0x3f, VarmVapeVmodRanges),
			slot(VmodSel2, 0x3f, VarmVapeVmodRanges),
		},
	},
	{
		Name:   "Vextsupply1",
		Manual: manual(ExtSupplyRegu, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWMode: hwMode(ReguRequestCtrl2, 0xc0, 0x00, 0x40, 0x80, 0xc0),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid2, 0x10),
			valid(ReguHwHPReq1Valid2, 0x01),
			valid(ReguHwHPReq2Valid2, 0x01),
			valid(ReguSwHPReqValid2, 0x04),
		},
	},
	{
		Name:   "VextSupply2",
		Manual: manual(ExtSupplyRegu, 0x0c, 0x00, 0x04, 0x08, 0x0c),
		HWMode: hwMode(ReguRequestCtrl3, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid2, 0x20),
			valid(ReguHwHPReq1Valid2, 0x02),
			valid(ReguHwHPReq2Valid2, 0x02),
			valid(ReguSwHPReqValid2, 0x08),
		},
	},
	{
		Name:   "VextSupply3",
		Manual: manual(ExtSupplyRegu, 0x30, 0x00, 0x10, 0x20, 0x30),
		HWMode: hwMode(ReguRequestCtrl3, 0x0c, 0x00, 0x04, 0x08, 0x0c),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid2, 0x40),
			valid(ReguHwHPReq1Valid2, 0x04),
			valid(ReguHwHPReq2Valid2, 0x04),
			valid(ReguSwHPReqValid2, 0x10),
		},
	},
	{
		Name:   "Vrf1",
		Manual: manual(VRF1Vaux3Regu, 0x0c, 0x00, 0x04, 0x08, 0x0c),
		Slots:  [types.NumSlots]*types.Slot{slot(VRF1Vaux3Sel, 0x30, Vrf1Ranges)},
	},
	{
		Name:   "Vana",
		Manual: manual(VpllVanaRegu, 0x0c, 0x00, 0x04, 0x08, 0x0c),
		HWMode: hwMode(ReguRequestCtrl2, 0x30, 0x00, 0x10, 0x20, 0x30),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid1, 0x08),
			valid(ReguHwHPReq1Valid1, 0x08),
			valid(ReguHwHPReq2Valid1, 0x08),
			valid(ReguSwHPReqValid1, 0x20),
		},
	},
	{
		Name:   "Vaux1",
		Manual: manual(Vaux12Regu, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWMode: hwMode(ReguRequestCtrl3, 0x30, 0x00, 0x10, 0x20, 0x30),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid1, 0x20),
			valid(ReguHwHPReq1Valid1, 0x20),
			valid(ReguHwHPReq2Valid1, 0x20),
			valid(ReguSwHPReqValid1, 0x80),
		},
		Slots: [types.NumSlots]*types.Slot{slot(Vaux1Sel, 0x0f, Vaux12Ranges)},
	},
	{
		Name:   "Vaux2",
		Manual: manual(Vaux12Regu, 0x0c, 0x00, 0x04, 0x08, 0x0c),
		HWMode: hwMode(ReguRequestCtrl3, 0xc0, 0x00, 0x40, 0x80, 0xc0),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid1, 0x40),
			valid(ReguHwHPReq1Valid1, 0x40),
			valid(ReguHwHPReq2Valid1, 0x40),
			valid(ReguSwHPReqValid2, 0x01),
		},
		Slots: [types.NumSlots]*types.Slot{slot(Vaux2Sel, 0x0f, Vaux12Ranges)},
	},
	{
		Name:   "Vaux3",
		Manual: manual(VRF1Vaux3Regu, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWMode: hwMode(ReguRequestCtrl4, 0x03, 0x00, 0x01, 0x02, 0x03),
		HWValid: [types.NumRequesters]*types.Field{
			valid(ReguSysClkReq1HPValid1, 0x80),
			valid(ReguHwHPReq1Valid1, 0x80),
			valid(ReguHwHPReq2Valid1, 0x80),
			valid(ReguSwHPReqValid2, 0x02),
		},
		Slots: [types.NumSlots]*types.Slot{slot(VRF1Vaux3Sel, 0x07, Vaux3Ranges)},
	},
	{
		Name:   "VintCore12",
		Manual: manual(ReguMisc1, 0x44, 0x00, 0x04, 0x00, 0x44),
		Slots:  [types.NumSlots]*types.Slot{slot(ReguMisc1, 0x38, VintCore12Ranges)},
	},
	{Name: "VTVout", Manual: manual(ReguMisc1, 0x82, 0x00, 0x02, 0x00, 0x82)},
	{Name: "Vaudio", Manual: manual(VaudioSupply, 0x02, 0x00, 0x02, 0x00, 0x00)},
	{Name: "Vanamic1", Manual: manual(VaudioSupply, 0x08, 0x00, 0x08, 0x00, 0x00)},
	{Name: "Vanamic2", Manual: manual(VaudioSupply, 0x10, 0x00, 0x10, 0x00, 0x00)},
	{Name: "Vdmic", Manual: manual(VaudioSupply, 0x04, 0x00, 0x04, 0x00, 0x00)},
	{Name: "Vusb", Manual: manual(VusbCtrl, 0x03, 0x00, 0x01, 0x00, 0x03)},
	{Name: "VOTG", Manual: manual(OTGSupplyCtrl, 0x03, 0x00, 0x01, 0x00, 0x03)},
	{Name: "Vbusbis", Manual: manual(OTGSupplyCtrl, 0x08, 0x00, 0x08, 0x00, 0x00)},
}

// Regulators returns the rail descriptors in report order. The descriptors
// are shared and must be treated as read-only.
func Regulators() []*types.Regulator {
	out := make([]*types.Regulator, len(regulators))
	copy(out, regulators)
	return out
}

// Regulator finds a rail by name (case-insensitive).
func Regulator(name string) (*types.Regulator, bool) {
	for _, r := range regulators {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return nil, false
}
