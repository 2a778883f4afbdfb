// Package catalog holds the static AB8500 register, range, regulator and
// override tables. Everything here is data; nothing touches hardware.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cocoonstack/pmicdbg/types"
)

// ErrUnknownRegister is returned by Lookup for names not in the catalog.
var ErrUnknownRegister = errors.New("unknown register")

// Register ids. The order matches the dump layout.
const (
	ReguRequestCtrl1 types.RegisterID = iota + 1
	ReguRequestCtrl2
	ReguRequestCtrl3
	ReguRequestCtrl4
	ReguSysClkReq1HPValid1
	ReguSysClkReq1HPValid2
	ReguHwHPReq1Valid1
	ReguHwHPReq1Valid2
	ReguHwHPReq2Valid1
	ReguHwHPReq2Valid2
	ReguSwHPReqValid1
	ReguSwHPReqValid2
	ReguSysClkReqValid1
	ReguSysClkReqValid2
	ReguMisc1
	OTGSupplyCtrl
	VusbCtrl
	VaudioSupply
	ReguCtrl1VAmic
	ArmRegu1
	ArmRegu2
	VapeRegu
	Vsmps1Regu
	Vsmps2Regu
	Vsmps3Regu
	VpllVanaRegu
	VrefDDR
	ExtSupplyRegu
	Vaux12Regu
	VRF1Vaux3Regu
	VarmSel1
	VarmSel2
	VarmSel3
	VapeSel1
	VapeSel2
	VapeSel3
	VBBSel1
	VBBSel2
	Vsmps1Sel1
	Vsmps1Sel2
	Vsmps1Sel3
	Vsmps2Sel1
	Vsmps2Sel2
	Vsmps2Sel3
	Vsmps3Sel1
	Vsmps3Sel2
	Vsmps3Sel3
	Vaux1Sel
	Vaux2Sel
	VRF1Vaux3Sel
	ReguCtrlExtSup
	VmodRegu
	VmodSel1
	VmodSel2
	ReguCtrlDisch
	ReguCtrlDisch2
	SysClkCtrl
	VsimSysClkCtrl
	SysUlpClkCtrl1
	TVoutCtrl

	// NumRegisters sizes per-state value arrays; index 0 is the sentinel.
	NumRegisters = int(TVoutCtrl) + 1
)

// ChipRevision is the AB8500 revision register. It is read once for board
// identification and is not part of the snapshot set.
var ChipRevision = types.Location{Bank: 0x10, Addr: 0x80}

var registers = [NumRegisters]types.Register{
	ReguRequestCtrl1:       reg(ReguRequestCtrl1, "ReguRequestCtrl1", 0x03, 0x03),
	ReguRequestCtrl2:       reg(ReguRequestCtrl2, "ReguRequestCtrl2", 0x03, 0x04),
	ReguRequestCtrl3:       reg(ReguRequestCtrl3, "ReguRequestCtrl3", 0x03, 0x05),
	ReguRequestCtrl4:       reg(ReguRequestCtrl4, "ReguRequestCtrl4", 0x03, 0x06),
	ReguSysClkReq1HPValid1: reg(ReguSysClkReq1HPValid1, "ReguSysClkReq1HPValid", 0x03, 0x07),
	ReguSysClkReq1HPValid2: reg(ReguSysClkReq1HPValid2, "ReguSysClkReq1HPValid2", 0x03, 0x08),
	ReguHwHPReq1Valid1:     reg(ReguHwHPReq1Valid1, "ReguHwHPReq1Valid1", 0x03, 0x09),
	ReguHwHPReq1Valid2:     reg(ReguHwHPReq1Valid2, "ReguHwHPReq1Valid2", 0x03, 0x0a),
	ReguHwHPReq2Valid1:     reg(ReguHwHPReq2Valid1, "ReguHwHPReq2Valid1", 0x03, 0x0b),
	ReguHwHPReq2Valid2:     reg(ReguHwHPReq2Valid2, "ReguHwHPReq2Valid2", 0x03, 0x0c),
	ReguSwHPReqValid1:      reg(ReguSwHPReqValid1, "ReguSwHPReqValid1", 0x03, 0x0d),
	ReguSwHPReqValid2:      reg(ReguSwHPReqValid2, "ReguSwHPReqValid2", 0x03, 0x0e),
	ReguSysClkReqValid1:    reg(ReguSysClkReqValid1, "ReguSysClkReqValid1", 0x03, 0x0f),
	ReguSysClkReqValid2:    reg(ReguSysClkReqValid2, "ReguSysClkReqValid2", 0x03, 0x10),
	ReguMisc1:              reg(ReguMisc1, "ReguMisc1", 0x03, 0x80),
	OTGSupplyCtrl:          reg(OTGSupplyCtrl, "OTGSupplyCtrl", 0x03, 0x81),
	VusbCtrl:               reg(VusbCtrl, "VusbCtrl", 0x03, 0x82),
	VaudioSupply:           reg(VaudioSupply, "VaudioSupply", 0x03, 0x83),
	ReguCtrl1VAmic:         reg(ReguCtrl1VAmic, "ReguCtrl1VAmic", 0x03, 0x84),
	ArmRegu1:               reg(ArmRegu1, "ArmRegu1", 0x04, 0x00),
	ArmRegu2:               reg(ArmRegu2, "ArmRegu2", 0x04, 0x01),
	VapeRegu:               reg(VapeRegu, "VapeRegu", 0x04, 0x02),
	Vsmps1Regu:             reg(Vsmps1Regu, "Vsmps1Regu", 0x04, 0x03),
	Vsmps2Regu:             reg(Vsmps2Regu, "Vsmps2Regu", 0x04, 0x04),
	Vsmps3Regu:             reg(Vsmps3Regu, "Vsmps3Regu", 0x04, 0x05),
	VpllVanaRegu:           reg(VpllVanaRegu, "VpllVanaRegu", 0x04, 0x06),
	VrefDDR:                reg(VrefDDR, "VrefDDR", 0x04, 0x07),
	ExtSupplyRegu:          reg(ExtSupplyRegu, "ExtSupplyRegu", 0x04, 0x08),
	Vaux12Regu:             reg(Vaux12Regu, "Vaux12Regu", 0x04, 0x09),
	VRF1Vaux3Regu:          reg(VRF1Vaux3Regu, "VRF1Vaux3Regu", 0x04, 0x0a),
	VarmSel1:               reg(VarmSel1, "VarmSel1", 0x04, 0x0b),
	VarmSel2:               reg(VarmSel2, "VarmSel2", 0x04, 0x0c),
	VarmSel3:               reg(VarmSel3, "VarmSel3", 0x04, 0x0d),
	VapeSel1:               reg(VapeSel1, "VapeSel1", 0x04, 0x0e),
	VapeSel2:               reg(VapeSel2, "VapeSel2", 0x04, 0x0f),
	VapeSel3:               reg(VapeSel3, "VapeSel3", 0x04, 0x10),
	VBBSel1:                reg(VBBSel1, "VBBSel1", 0x04, 0x11),
	VBBSel2:                reg(VBBSel2, "VBBSel2", 0x04, 0x12),
	Vsmps1Sel1:             reg(Vsmps1Sel1, "Vsmps1Sel1", 0x04, 0x13),
	Vsmps1Sel2:             reg(Vsmps1Sel2, "Vsmps1Sel2", 0x04, 0x14),
	Vsmps1Sel3:             reg(Vsmps1Sel3, "Vsmps1Sel3", 0x04, 0x15),
	Vsmps2Sel1:             reg(Vsmps2Sel1, "Vsmps2Sel1", 0x04, 0x17),
	Vsmps2Sel2:             reg(Vsmps2Sel2, "Vsmps2Sel2", 0x04, 0x18),
	Vsmps2Sel3:             reg(Vsmps2Sel3, "Vsmps2Sel3", 0x04, 0x19),
	Vsmps3Sel1:             reg(Vsmps3Sel1, "Vsmps3Sel1", 0x04, 0x1b),
	Vsmps3Sel2:             reg(Vsmps3Sel2, "Vsmps3Sel2", 0x04, 0x1c),
	Vsmps3Sel3:             reg(Vsmps3Sel3, "Vsmps3Sel3", 0x04, 0x1d),
	Vaux1Sel:               reg(Vaux1Sel, "Vaux1Sel", 0x04, 0x1f),
	Vaux2Sel:               reg(Vaux2Sel, "Vaux2Sel", 0x04, 0x20),
	VRF1Vaux3Sel:           reg(VRF1Vaux3Sel, "VRF1Vaux3Sel", 0x04, 0x21),
	ReguCtrlExtSup:         reg(ReguCtrlExtSup, "ReguCtrlExtSup", 0x04, 0x22),
	VmodRegu:               reg(VmodRegu, "VmodRegu", 0x04, 0x40),
	VmodSel1:               reg(VmodSel1, "VmodSel1", 0x04, 0x41),
	VmodSel2:               reg(VmodSel2, "VmodSel2", 0x04, 0x42),
	ReguCtrlDisch:          reg(ReguCtrlDisch, "ReguCtrlDisch", 0x04, 0x43),
	ReguCtrlDisch2:         reg(ReguCtrlDisch2, "ReguCtrlDisch2", 0x04, 0x44),
	// outside the regulator banks
	SysClkCtrl:     reg(SysClkCtrl, "SysClkCtrl", 0x02, 0x0c),
	VsimSysClkCtrl: reg(VsimSysClkCtrl, "VsimSysClkCtrl", 0x02, 0x33),
	SysUlpClkCtrl1: reg(SysUlpClkCtrl1, "SysUlpClkCtrl1", 0x02, 0x0b),
	TVoutCtrl:      reg(TVoutCtrl, "TVoutCtrl", 0x06, 0x80),
}

func reg(id types.RegisterID, name string, bank, addr uint8) types.Register {
	return types.Register{ID: id, Name: name, Location: types.Location{Bank: bank, Addr: addr}}
}

// Locate returns the bank/address of id. The sentinel and ids outside the
// catalog map to the zero location.
func Locate(id types.RegisterID) types.Location {
	if id <= types.NoRegister || int(id) >= NumRegisters {
		return types.Location{}
	}
	return registers[id].Location
}

// Register returns the catalog entry for id.
func Register(id types.RegisterID) (types.Register, bool) {
	if id <= types.NoRegister || int(id) >= NumRegisters {
		return types.Register{}, false
	}
	return registers[id], true
}

// Name returns the symbolic name of id, or "-" for the sentinel.
func Name(id types.RegisterID) string {
	r, ok := Register(id)
	if !ok {
		return "-"
	}
	return r.Name
}

// Registers returns every real register in catalog order.
func Registers() []types.Register {
	out := make([]types.Register, 0, NumRegisters-1)
	for _, r := range registers[1:] {
		out = append(out, r)
	}
	return out
}

// Lookup finds a register by name (case-insensitive) or by "0xBBAA"
// bank/address notation.
func Lookup(ref string) (types.Register, error) {
	ref = strings.TrimSpace(ref)
	for _, r := range registers[1:] {
		if strings.EqualFold(r.Name, ref) || strings.EqualFold(r.Location.String(), ref) {
			return r, nil
		}
	}
	return types.Register{}, fmt.Errorf("%w: %q", ErrUnknownRegister, ref)
}
