/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	eventCmd "github.com/mpapenbr/stationlog/pkg/cmd/event"
	importCmd "github.com/mpapenbr/stationlog/pkg/cmd/importcmd"
	migrateCmd "github.com/mpapenbr/stationlog/pkg/cmd/migrate"
	outputCmd "github.com/mpapenbr/stationlog/pkg/cmd/output"
	resetCmd "github.com/mpapenbr/stationlog/pkg/cmd/reset"
	runnerCmd "github.com/mpapenbr/stationlog/pkg/cmd/runner"
	serveCmd "github.com/mpapenbr/stationlog/pkg/cmd/serve"
	stationCmd "github.com/mpapenbr/stationlog/pkg/cmd/station"
	"github.com/mpapenbr/stationlog/pkg/config"
	"github.com/mpapenbr/stationlog/version"
)

const envPrefix = "STL"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "stationlog",
	Short:         "Timing event log for aid stations of an endurance race",
	Long:          ``,
	Version:       version.FullVersion,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.stationlog.yml)")

	rootCmd.PersistentFlags().StringVar(&config.DB, "db",
		"stationlog.db",
		"Path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.LogConfig,
		"log-config",
		"",
		"zapfilter rules or a file containing them (for example \"info+:* debug+:service.*\")")
	rootCmd.PersistentFlags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	rootCmd.PersistentFlags().StringVar(&config.TelemetryOutput,
		"telemetry-output",
		"",
		"file receiving traces and metrics (default stderr)")
	rootCmd.PersistentFlags().StringVar(&config.TelemetryInterval,
		"telemetry-interval",
		"1m",
		"export interval for metrics")
	rootCmd.PersistentFlags().BoolVar(&config.RebuildOnWrite,
		"rebuild-on-write",
		true,
		"rebuild the output row of a runner after each change")

	// add commands here
	rootCmd.AddCommand(migrateCmd.NewMigrateCmd())
	rootCmd.AddCommand(importCmd.NewImportCmd())
	rootCmd.AddCommand(runnerCmd.NewRunnerCmd())
	rootCmd.AddCommand(stationCmd.NewStationCmd())
	rootCmd.AddCommand(eventCmd.NewEventCmd())
	rootCmd.AddCommand(outputCmd.NewOutputCmd())
	rootCmd.AddCommand(resetCmd.NewResetCmd())
	rootCmd.AddCommand(serveCmd.NewServeCmd())
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	// a missing .env file is fine
	//nolint:errcheck // by design
	godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".stationlog" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stationlog")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	visit(rootCmd, func(cmd *cobra.Command) {
		bindFlags(cmd, viper.GetViper())
	})
}

func visit(cmd *cobra.Command, fn func(*cobra.Command)) {
	for _, c := range cmd.Commands() {
		fn(c)
		visit(c, fn)
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --log-level to STL_LOG_LEVEL
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
