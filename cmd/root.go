// Package cmd implements the hashassin command-line interface.
package cmd

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hashassin/hashassin/lib/config"
	"github.com/hashassin/hashassin/shared"
)

const hashassinVersion = "0.1.0"

var (
	cfgFile     string
	enableDebug bool
)

// rootCmd is the base command; hashassin has no default action, so running
// it bare prints help.
var rootCmd = &cobra.Command{
	Use:     "hashassin",
	Version: hashassinVersion,
	Short:   "Password hash cracking toolkit",
	Long:    "hashassin generates passwords and hashes, builds and cracks rainbow tables, and serves a network cracking service.",
}

// Execute runs the root command and returns any error a subcommand's RunE
// produced, for main to translate into an exit code.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is hashassin.yaml in the current directory or the user config directory)")
	rootCmd.PersistentFlags().BoolVar(&enableDebug, "debug", false, "enable debug logging")

	err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	cobra.CheckErr(err)

	config.SetDefaultConfigValues()
}

func initConfig() {
	config.InitConfig(cfgFile)
	initLogger()

	shared.State.Context = context.Background()
}

func initLogger() {
	if enableDebug || viper.GetBool("debug") {
		shared.Logger.SetLevel(log.DebugLevel)
		shared.Logger.SetReportCaller(true)
	} else {
		shared.Logger.SetLevel(log.InfoLevel)
	}
}
