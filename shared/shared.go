// Package shared holds process-wide configuration and the shared logger.
package shared

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
)

// State holds the resolved runtime configuration for the running command.
var State = runtimeState{}

// runtimeState is the configuration and runtime state shared across CLI
// commands and the server.
type runtimeState struct {
	Debug           bool            // Debug enables verbose logging and caller reporting.
	BindAddr        string          // BindAddr is the address the server listens on.
	Port            int             // Port is the TCP port the server listens on.
	ComputeThreads  int             // ComputeThreads sizes the compute worker pool.
	AsyncThreads    int             // AsyncThreads bounds concurrent connection handling.
	CacheSizeBytes  int64           // CacheSizeBytes is the crack-response cache budget; 0 disables caching.
	DownloadRetries int             // DownloadRetries is the number of retries lib/fetch will attempt.
	DownloadDelayMS int             // DownloadDelayMS is the backoff delay between fetch retries, in milliseconds.
	Context         context.Context // Context is the background context for long-running commands.
}

// Logger is the shared logging instance, writing to stdout at info level.
var Logger = log.NewWithOptions(os.Stdout, log.Options{
	Level:           log.InfoLevel,
	ReportTimestamp: true,
})

// ErrorLogger reports the caller alongside error-level messages.
var ErrorLogger = Logger.With()
