package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/hashassin/hashassin/shared"
)

func TestSetDefaultConfigValues(t *testing.T) {
	viper.Reset()
	SetDefaultConfigValues()

	tests := []struct {
		name     string
		key      string
		expected any
		getter   func(string) any
	}{
		{"bind defaults", "bind", DefaultBindAddr, func(k string) any { return viper.GetString(k) }},
		{"port defaults", "port", DefaultPort, func(k string) any { return viper.GetInt(k) }},
		{"compute_threads defaults", "compute_threads", DefaultComputeThreads, func(k string) any { return viper.GetInt(k) }},
		{"async_threads defaults", "async_threads", DefaultAsyncThreads, func(k string) any { return viper.GetInt(k) }},
		{"cache_size defaults", "cache_size", DefaultCacheSizeBytes, func(k string) any { return viper.GetInt(k) }},
		{"download_max_retries defaults", "download_max_retries", DefaultDownloadRetries, func(k string) any { return viper.GetInt(k) }},
		{"debug defaults", "debug", false, func(k string) any { return viper.GetBool(k) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.getter(tt.key), "config key %q mismatch", tt.key)
		})
	}
}

func TestSetupSharedState_ClampsInvalidValues(t *testing.T) {
	viper.Reset()
	SetDefaultConfigValues()

	viper.Set("port", 0)
	viper.Set("compute_threads", -1)
	viper.Set("async_threads", 0)
	viper.Set("download_max_retries", -5)

	SetupSharedState()

	assert.Equal(t, DefaultPort, shared.State.Port)
	assert.Equal(t, DefaultComputeThreads, shared.State.ComputeThreads)
	assert.Equal(t, DefaultAsyncThreads, shared.State.AsyncThreads)
	assert.Equal(t, DefaultDownloadRetries, shared.State.DownloadRetries)
}

func TestSetupSharedState_NegativeCacheSizePassesThrough(t *testing.T) {
	viper.Reset()
	SetDefaultConfigValues()
	viper.Set("cache_size", -1)

	SetupSharedState()

	assert.Equal(t, int64(-1), shared.State.CacheSizeBytes,
		"negative cache_size must reach the caller as an argument error, not be silently clamped")
}

func TestSetupSharedState_ZeroCacheSizeMeansDisabled(t *testing.T) {
	viper.Reset()
	SetDefaultConfigValues()
	viper.Set("cache_size", 0)

	SetupSharedState()

	assert.Equal(t, int64(0), shared.State.CacheSizeBytes)
}

func TestSetupSharedState_AcceptsValidValues(t *testing.T) {
	viper.Reset()
	SetDefaultConfigValues()

	viper.Set("port", 4000)
	viper.Set("compute_threads", 8)
	viper.Set("async_threads", 32)

	SetupSharedState()

	assert.Equal(t, 4000, shared.State.Port)
	assert.Equal(t, 8, shared.State.ComputeThreads)
	assert.Equal(t, 32, shared.State.AsyncThreads)
}
