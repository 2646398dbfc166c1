// Package display centralizes the informational log lines the CLI and
// server emit around long-running operations, keeping message wording and
// field names consistent across commands.
package display

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hashassin/hashassin/shared"
)

// Startup logs server startup.
func Startup(bindAddr string, port, computeThreads, asyncThreads int) {
	shared.Logger.Info("starting hashassin server",
		"bind", bindAddr, "port", port,
		"compute_threads", computeThreads, "async_threads", asyncThreads)
}

// ShuttingDown logs server shutdown.
func ShuttingDown() {
	shared.Logger.Info("shutting down hashassin server")
}

// GenerationStarting logs the start of a generation command (passwords,
// hashes, or a rainbow table).
func GenerationStarting(kind string, count int, threads int) {
	shared.Logger.Info("generation starting", "kind", kind, "count", count, "threads", threads)
}

// GenerationComplete logs completion of a generation command, including
// throughput.
func GenerationComplete(kind string, count int, elapsed time.Duration) {
	rate := float64(count) / elapsed.Seconds()
	shared.Logger.Info("generation complete",
		"kind", kind, "count", count, "elapsed", elapsed, "rate_per_sec", humanize.Comma(int64(rate)))
}

// TableUploaded logs a successful client upload.
func TableUploaded(name, addr string, size int64) {
	shared.Logger.Info("table uploaded", "name", name, "server", addr, "bytes", humanize.Bytes(uint64(size)))
}

// CrackStarting logs the start of a local or remote crack operation.
func CrackStarting(hashCount int) {
	shared.Logger.Info("crack starting", "hashes", hashCount)
}

// CrackComplete logs completion of a crack operation.
func CrackComplete(hashCount, crackedCount int, elapsed time.Duration) {
	shared.Logger.Info("crack complete",
		"hashes", hashCount, "cracked", crackedCount, "elapsed", elapsed)
}
