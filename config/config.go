package config

import (
	"fmt"
	"time"

	coretypes "github.com/projecteru2/core/types"
)

// Transport backends.
const (
	TransportSim = "sim"
	TransportI2C = "i2c"
)

// Config holds global pmicdbg configuration.
type Config struct {
	// RootDir is the base directory for persistent data (session, simulator image).
	// Env: PMICDBG_ROOT_DIR. Default: /var/lib/pmicdbg.
	RootDir string `json:"root_dir" mapstructure:"root_dir"`
	// RunDir holds lock files. Contents are ephemeral.
	// Env: PMICDBG_RUN_DIR. Default: /var/lib/pmicdbg/run.
	RunDir string `json:"run_dir" mapstructure:"run_dir"`
	// LogDir is where log files go when log.filename is relative.
	// Env: PMICDBG_LOG_DIR. Default: /var/log/pmicdbg.
	LogDir string `json:"log_dir" mapstructure:"log_dir"`

	// Transport selects the register backend: "sim" or "i2c".
	// Default: sim.
	Transport string `json:"transport" mapstructure:"transport"`
	// SimImage overrides the simulator image path.
	// Default: {RootDir}/sim/chip.json.
	SimImage string `json:"sim_image" mapstructure:"sim_image"`
	// I2CBus is the N in /dev/i2c-N.
	I2CBus int `json:"i2c_bus" mapstructure:"i2c_bus"`
	// I2CBaseAddr is the 7-bit slave address of bank 0; bank b answers at
	// base+b.
	I2CBaseAddr int `json:"i2c_base_addr" mapstructure:"i2c_base_addr"`

	// SnapshotEnabled turns register capture on. Default: true.
	SnapshotEnabled bool `json:"snapshot_enabled" mapstructure:"snapshot_enabled"`

	// ChipID reads the chip revision over the transport when true;
	// otherwise ChipRevision is used.
	ChipID       bool   `json:"chip_id" mapstructure:"chip_id"`
	ChipRevision int    `json:"chip_revision" mapstructure:"chip_revision"`
	SoCRevision  string `json:"soc_revision" mapstructure:"soc_revision"`
	// BoardProfile is used when BoardProfileFile is empty. Negative means
	// unknown.
	BoardProfile       int    `json:"board_profile" mapstructure:"board_profile"`
	BoardProfileFile   string `json:"board_profile_file" mapstructure:"board_profile_file"`
	BoardProfileOffset int64  `json:"board_profile_offset" mapstructure:"board_profile_offset"`

	// WatchInterval is the hardware poll period of the watch command.
	// Default: 1s.
	WatchInterval time.Duration `json:"watch_interval" mapstructure:"watch_interval"`

	// Log configuration, uses eru core's ServerLogConfig.
	Log coretypes.ServerLogConfig `json:"log" mapstructure:"log"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		RootDir:         "/var/lib/pmicdbg",
		RunDir:          "/var/lib/pmicdbg/run",
		LogDir:          "/var/log/pmicdbg",
		Transport:       TransportSim,
		I2CBaseAddr:     0x48, //nolint:mnd
		SnapshotEnabled: true,
		ChipRevision:    0x30, //nolint:mnd
		SoCRevision:     "v2.2",
		BoardProfile:    -1,
		WatchInterval:   time.Second,
		Log: coretypes.ServerLogConfig{
			Level:      "info",
			MaxSize:    500, //nolint:mnd
			MaxAge:     28,  //nolint:mnd
			MaxBackups: 3,   //nolint:mnd
		},
	}
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportSim, TransportI2C:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if c.I2CBaseAddr < 0 || c.I2CBaseAddr > 0x7f {
		return fmt.Errorf("i2c_base_addr 0x%x is not a 7-bit address", c.I2CBaseAddr)
	}
	if c.ChipRevision < 0 || c.ChipRevision > 0xff {
		return fmt.Errorf("chip_revision 0x%x out of range", c.ChipRevision)
	}
	if c.BoardProfile > 0xff {
		return fmt.Errorf("board_profile %d out of range", c.BoardProfile)
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("watch_interval must be positive, got %s", c.WatchInterval)
	}
	return nil
}
