package board

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cocoonstack/pmicdbg/catalog"
	"github.com/cocoonstack/pmicdbg/transport"
	"github.com/cocoonstack/pmicdbg/transport/sim"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		rev  uint8
		soc  string
		want bool
	}{
		{0x30, "v2.2", true},
		{0x31, "v2.2", true},
		{0x2f, "v2.2", false},
		{0x30, "v2.1", false},
		{0x30, "", false},
	}
	for _, c := range cases {
		if got := Match(c.rev, c.soc); got != c.want {
			t.Errorf("Match(0x%02x, %q) = %v", c.rev, c.soc, got)
		}
	}
}

func TestChipID_ReadsRevision(t *testing.T) {
	chip := sim.New()
	chip.Set(catalog.ChipRevision, 0x20)
	id := ChipID{Transport: chip, SoCRevision: "v2.2"}
	ok, err := id.Matches(context.Background())
	if err != nil || ok {
		t.Fatalf("rev 0x20: %v %v", ok, err)
	}
	chip.Set(catalog.ChipRevision, 0x30)
	if ok, _ := id.Matches(context.Background()); !ok {
		t.Error("rev 0x30 should match")
	}

	_ = chip.Inject(transport.OpRead, "ChipRevision", 1)
	if _, err := id.Matches(context.Background()); !errors.Is(err, transport.ErrTransport) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestFileProfile_ReadOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backupram.bin")
	if err := os.WriteFile(path, []byte{0x00, 0x00, 0x33}, 0o600); err != nil {
		t.Fatal(err)
	}
	p := &FileProfile{Path: path, Offset: 2}
	v, err := p.Profile(context.Background())
	if err != nil || v != 0x33 {
		t.Fatalf("got 0x%02x, %v", v, err)
	}
	if err := os.WriteFile(path, []byte{0, 0, 0x01}, 0o600); err != nil {
		t.Fatal(err)
	}
	if v, _ := p.Profile(context.Background()); v != 0x33 {
		t.Errorf("profile re-read: 0x%02x", v)
	}
	if !ForceByDefault(v) {
		t.Error("0x33 (51) is a v5x profile")
	}
}

func TestFileProfile_Unavailable(t *testing.T) {
	p := &FileProfile{Path: filepath.Join(t.TempDir(), "missing")}
	if _, err := p.Profile(context.Background()); !errors.Is(err, ErrProfileUnavailable) {
		t.Errorf("expected ErrProfileUnavailable, got %v", err)
	}

	short := filepath.Join(t.TempDir(), "short")
	_ = os.WriteFile(short, []byte{1}, 0o600)
	p = &FileProfile{Path: short, Offset: 4}
	if _, err := p.Profile(context.Background()); !errors.Is(err, ErrProfileUnavailable) {
		t.Errorf("expected ErrProfileUnavailable, got %v", err)
	}
}

func TestForceByDefault_Boundary(t *testing.T) {
	if ForceByDefault(49) || !ForceByDefault(50) {
		t.Error("threshold is 50")
	}
}
