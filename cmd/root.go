package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cocoonstack/pmicdbg/config"
)

var (
	cfgFile string
	conf    *config.Config
)

var rootCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pmicdbg",
		Short: "pmicdbg - AB8500 regulator debug model",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig()
		},
		SilenceUsage: true,
	}

	// flag defaults double as viper defaults, so they come from DefaultConfig
	def := config.DefaultConfig()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.PersistentFlags().String("root-dir", def.RootDir, "root data directory")
	cmd.PersistentFlags().String("run-dir", def.RunDir, "runtime directory")
	cmd.PersistentFlags().String("log-dir", def.LogDir, "log directory")
	cmd.PersistentFlags().String("transport", def.Transport, "register transport: sim or i2c")
	cmd.PersistentFlags().String("sim-image", def.SimImage, "simulator image file (default {root-dir}/sim/chip.json)")
	cmd.PersistentFlags().Int("i2c-bus", def.I2CBus, "i2c adapter number (/dev/i2c-N)")
	cmd.PersistentFlags().String("log-level", def.Log.Level, "log level")

	_ = viper.BindPFlag("root_dir", cmd.PersistentFlags().Lookup("root-dir"))
	_ = viper.BindPFlag("run_dir", cmd.PersistentFlags().Lookup("run-dir"))
	_ = viper.BindPFlag("log_dir", cmd.PersistentFlags().Lookup("log-dir"))
	_ = viper.BindPFlag("transport", cmd.PersistentFlags().Lookup("transport"))
	_ = viper.BindPFlag("sim_image", cmd.PersistentFlags().Lookup("sim-image"))
	_ = viper.BindPFlag("i2c_bus", cmd.PersistentFlags().Lookup("i2c-bus"))
	_ = viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	viper.SetEnvPrefix("PMICDBG")
	viper.AutomaticEnv()

	cmd.AddCommand(
		statusCmd,
		stateCmd,
		forceCmd,
		dumpCmd,
		probeCmd,
		suspendCmd,
		resumeCmd,
		cycleCmd,
		captureCmd,
		regsCmd,
		peekCmd,
		pokeCmd,
		overridesCmd,
		watchCmd,
		simCmd,
		sessionCmd,
		versionCmd,
	)

	return cmd
}()

func initConfig() error {
	conf = config.DefaultConfig()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	_ = viper.ReadInConfig() // optional; missing file is OK

	if err := viper.Unmarshal(conf); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	conf.Log.Filename = conf.LogFile()

	return log.SetupLog(context.Background(), &conf.Log, "")
}

// Execute is the main entry point called from main.go.
func Execute() error {
	ctx, cancel := newCommandContext()
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

// newCommandContext is canceled by SIGINT/SIGTERM, which ends watch cleanly.
func newCommandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
