package types

import "fmt"

// RegisterID indexes the register catalog. The zero value is reserved and
// never refers to a real register.
type RegisterID int

// NoRegister is the reserved "not defined" register id.
const NoRegister RegisterID = 0

// Location addresses one 8-bit register in the PMIC register space.
type Location struct {
	Bank uint8 `json:"bank"`
	Addr uint8 `json:"addr"`
}

func (l Location) String() string { return fmt.Sprintf("0x%02x%02x", l.Bank, l.Addr) }

// Register is a named catalog entry.
type Register struct {
	ID   RegisterID `json:"id"`
	Name string     `json:"name"`
	Location
}
