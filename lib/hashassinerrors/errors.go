// Package hashassinerrors declares the typed error taxonomy shared by every
// hashassin component and maps it to CLI exit codes.
package hashassinerrors

import "errors"

// Sentinel error kinds. Callers wrap these with fmt.Errorf("%w: ...") to add
// context; use errors.Is against these values to classify a failure.
var (
	// ErrArgument marks a bad CLI argument or flag combination.
	ErrArgument = errors.New("argument error")
	// ErrMalformedFile marks a file that failed header or structural validation.
	ErrMalformedFile = errors.New("malformed file")
	// ErrIO marks a failure to read or write a file or socket.
	ErrIO = errors.New("io error")
	// ErrProtocol marks a wire-format violation.
	ErrProtocol = errors.New("protocol error")
	// ErrUnsupportedAlgorithm marks an unrecognized algorithm name.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrNotFound marks a lookup that found nothing; callers treat this as
	// non-fatal and continue.
	ErrNotFound = errors.New("not found")
	// ErrResourceExhausted marks a resource budget that could not accommodate
	// a request; callers treat this as non-fatal and continue without the
	// resource.
	ErrResourceExhausted = errors.New("resource exhausted")
)

// Exit codes for the CLI, per the argument/runtime split in the external
// interface contract.
const (
	ExitSuccess = 0
	ExitUsage   = 1
	ExitRuntime = 2
)

// ExitCode maps an error to the process exit code the CLI should return.
// A nil error maps to ExitSuccess. ErrArgument maps to ExitUsage; every
// other non-nil error maps to ExitRuntime.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrArgument) {
		return ExitUsage
	}

	return ExitRuntime
}

// IsNonFatal reports whether err represents a condition callers are expected
// to recover from and continue past, rather than abort the operation.
func IsNonFatal(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrResourceExhausted)
}
