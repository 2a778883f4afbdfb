package cmd

import (
	"testing"

	"github.com/cocoonstack/pmicdbg/board"
	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/config"
)

func TestResolveRegister(t *testing.T) {
	name, loc, err := resolveRegister("chiprevision")
	if err != nil || name != "ChipRevision" || loc != catalog.ChipRevision {
		t.Errorf("ChipRevision: %s %s %v", name, loc, err)
	}
	name, loc, err = resolveRegister("0x0408")
	if err != nil || name != "ExtSupplyRegu" || loc != catalog.Locate(catalog.ExtSupplyRegu) {
		t.Errorf("0x0408: %s %s %v", name, loc, err)
	}
	if _, _, err := resolveRegister("nope"); err == nil {
		t.Error("expected error for unknown register")
	}
}

func TestParseByte(t *testing.T) {
	for in, want := range map[string]uint8{"0x3f": 0x3f, "255": 0xff, "0b101": 5, " 7 ": 7} {
		if got, err := parseByte("value", in); err != nil || got != want {
			t.Errorf("parseByte(%q) = %d, %v", in, got, err)
		}
	}
	if _, err := parseByte("value", "0x100"); err == nil {
		t.Error("0x100 accepted")
	}
}

func TestBoardSources(t *testing.T) {
	conf = config.DefaultConfig()
	id, prof := boardSources(nil)
	if id == nil {
		t.Fatal("identifier missing")
	}
	if prof != nil {
		t.Error("unknown profile should yield no source")
	}

	conf.BoardProfile = 50
	if _, prof = boardSources(nil); prof == nil {
		t.Fatal("static profile missing")
	}
	conf.BoardProfileFile = "/nonexistent"
	_, prof = boardSources(nil)
	if fp, ok := prof.(*board.FileProfile); !ok || fp.Path != "/nonexistent" {
		t.Errorf("expected file profile, got %#v", prof)
	}
}
