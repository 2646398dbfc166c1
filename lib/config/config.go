// Package config resolves hashassin server defaults from environment
// variables, a YAML config file, and viper defaults, in that order of
// precedence.
package config

import (
	"os"

	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hashassin/hashassin/shared"
)

// Defaults for server and fetch configuration, used both as viper defaults
// and as the clamp target when a configured value is invalid.
const (
	DefaultBindAddr        = "127.0.0.1"
	DefaultPort            = 2025
	DefaultComputeThreads  = 1
	DefaultAsyncThreads    = 1
	DefaultCacheSizeBytes  = 64 * 1024 * 1024
	DefaultDownloadRetries = 3
	DefaultDownloadDelayMS = 2000
)

var scope = gap.NewScope(gap.User, "hashassin") //nolint:gochecknoglobals // config directory scope

// InitConfig locates and loads hashassin.yaml from the current directory,
// the OS config directory, or cfgFile if given, writing a fresh default file
// if none is found.
func InitConfig(cfgFile string) {
	shared.ErrorLogger.SetReportCaller(true)

	home, err := os.UserConfigDir()
	cobra.CheckErr(err)

	cwd, err := os.Getwd()
	cobra.CheckErr(err)
	viper.AddConfigPath(cwd)

	configDirs, err := scope.ConfigDirs()
	cobra.CheckErr(err)

	for _, dir := range configDirs {
		viper.AddConfigPath(dir)
	}

	viper.AddConfigPath(home)
	viper.SetConfigType("yaml")
	viper.SetConfigName("hashassin")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		shared.Logger.Info("using config file", "config_file", viper.ConfigFileUsed())
	} else {
		shared.Logger.Warn("no config file found, attempting to write a new one")

		if err := viper.SafeWriteConfig(); err != nil && err.Error() != "config file already exists" {
			shared.Logger.Error("error writing config file", "error", err)
		}
	}
}

// SetDefaultConfigValues registers viper defaults for every server and fetch
// setting.
func SetDefaultConfigValues() {
	viper.SetDefault("bind", DefaultBindAddr)
	viper.SetDefault("port", DefaultPort)
	viper.SetDefault("compute_threads", DefaultComputeThreads)
	viper.SetDefault("async_threads", DefaultAsyncThreads)
	viper.SetDefault("cache_size", DefaultCacheSizeBytes)
	viper.SetDefault("download_max_retries", DefaultDownloadRetries)
	viper.SetDefault("download_retry_delay_ms", DefaultDownloadDelayMS)
	viper.SetDefault("debug", false)
}

// SetupSharedState copies resolved viper values into shared.State, clamping
// out-of-range values back to their defaults rather than propagating a
// nonsensical runtime configuration.
func SetupSharedState() {
	shared.State.Debug = viper.GetBool("debug")
	shared.State.BindAddr = viper.GetString("bind")

	shared.State.Port = viper.GetInt("port")
	if shared.State.Port <= 0 {
		shared.State.Port = DefaultPort
	}

	shared.State.ComputeThreads = viper.GetInt("compute_threads")
	if shared.State.ComputeThreads < 1 {
		shared.State.ComputeThreads = DefaultComputeThreads
	}

	shared.State.AsyncThreads = viper.GetInt("async_threads")
	if shared.State.AsyncThreads < 1 {
		shared.State.AsyncThreads = DefaultAsyncThreads
	}

	// cache_size is left un-clamped here: negative is a user-facing
	// ArgumentError the cache constructor itself rejects, and zero
	// legitimately means "no cache".
	shared.State.CacheSizeBytes = viper.GetInt64("cache_size")

	shared.State.DownloadRetries = viper.GetInt("download_max_retries")
	if shared.State.DownloadRetries < 0 {
		shared.State.DownloadRetries = DefaultDownloadRetries
	}

	shared.State.DownloadDelayMS = viper.GetInt("download_retry_delay_ms")
	if shared.State.DownloadDelayMS < 0 {
		shared.State.DownloadDelayMS = DefaultDownloadDelayMS
	}
}
