// Package cli implements the pressable command-line tool.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type options struct {
	settings string
	verbose  bool
	v        *viper.Viper
}

// NewRootCmd builds the command tree. Each call has its own viper instance.
func NewRootCmd() *cobra.Command {
	opts := &options{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "pressable",
		Short: "Replay and inspect press gestures",
		Long: `pressable drives the press gesture engine from scripts, validates them,
watches gesture configuration files and summarizes recorded event logs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			if err := opts.initConfig(); err != nil {
				return err
			}
			return opts.bindFlags(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.settings, "settings", "", "settings file (default is $HOME/.pressable.toml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log gesture transitions")

	rootCmd.AddCommand(
		newReplayCmd(opts),
		newValidateCmd(),
		newWatchCmd(),
		newStatsCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *options) initConfig() error {
	if o.settings != "" {
		o.v.SetConfigFile(o.settings)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			o.v.AddConfigPath(home)
		}
		o.v.AddConfigPath(".")
		o.v.SetConfigType("toml")
		o.v.SetConfigName(".pressable")
	}
	o.v.SetEnvPrefix("pressable")
	o.v.AutomaticEnv()

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Debug("no settings file")
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}
	slog.Debug("using settings file", "path", o.v.ConfigFileUsed())
	return nil
}

// bindFlags sets unset flags from settings or PRESSABLE_* environment
// variables. Explicit flags take priority.
func (o *options) bindFlags(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Settings keys drop the hyphens; viper compares case-insensitively.
		configName := strings.ReplaceAll(f.Name, "-", "")
		if f.Changed || bindErr != nil {
			return
		}
		if !o.v.IsSet(configName) {
			return
		}
		val := o.v.Get(configName)
		if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
			bindErr = fmt.Errorf("set flag %s from settings: %w", f.Name, err)
			return
		}
		slog.Debug("flag set from settings", "flag", f.Name, "value", val)
	})
	return bindErr
}
