package config

import (
	"path/filepath"

	"github.com/cocoonstack/pmicdbg/utils"
)

// EnsureDirs creates the static directories every command needs.
func (c *Config) EnsureDirs() error {
	return utils.EnsureDirs(
		c.sessionDir(),
		filepath.Dir(c.SimImagePath()),
		c.RunDir,
	)
}

// Derived path helpers. Persistent data lives under {RootDir}.

func (c *Config) sessionDir() string { return filepath.Join(c.RootDir, "session") }

// SessionFile is the debugger state shared between invocations.
func (c *Config) SessionFile() string { return filepath.Join(c.sessionDir(), "session.json") }

// SessionLock guards SessionFile.
func (c *Config) SessionLock() string { return filepath.Join(c.RunDir, "session.lock") }

// SimImagePath is the simulator register image.
func (c *Config) SimImagePath() string {
	if c.SimImage != "" {
		return c.SimImage
	}
	return filepath.Join(c.RootDir, "sim", "chip.json")
}

// LogFile resolves the configured log filename against LogDir. Empty means
// log to stdout.
func (c *Config) LogFile() string {
	if c.Log.Filename == "" || filepath.IsAbs(c.Log.Filename) {
		return c.Log.Filename
	}
	return filepath.Join(c.LogDir, c.Log.Filename)
}
