// Package genpass generates random fixed-length printable-ASCII passwords
// across a bounded number of worker goroutines.
package genpass

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// alphabetSize matches the reduction function's printable-ASCII alphabet:
// 0x20 through 0x7E.
const (
	alphabetSize = 95
	asciiOffset  = 0x20
)

// Generate produces n random passwords of passwordLen characters, split
// across at most threads independent goroutines. Each goroutine owns a contiguous
// slab of the output so results are written to their final position
// directly, with no cross-goroutine ordering to reconcile afterward.
func Generate(ctx context.Context, n int, passwordLen int, threads int) ([][]byte, error) {
	return GenerateWithProgress(ctx, n, passwordLen, threads, nil)
}

// GenerateWithProgress behaves like Generate, additionally invoking
// onPassword, if non-nil, once per password produced. onPassword must be
// safe for concurrent use: it is called from every slab's goroutine.
func GenerateWithProgress(ctx context.Context, n int, passwordLen int, threads int, onPassword func()) ([][]byte, error) {
	if threads < 1 {
		threads = 1
	}

	out := make([][]byte, n)

	slab := (n + threads - 1) / threads
	if slab == 0 {
		return out, nil
	}

	errCh := make(chan error, threads)
	active := 0

	for start := 0; start < n; start += slab {
		end := start + slab
		if end > n {
			end = n
		}

		active++

		go func(start, end int) {
			errCh <- fillSlab(ctx, out[start:end], passwordLen, onPassword)
		}(start, end)
	}

	for i := 0; i < active; i++ {
		if err := <-errCh; err != nil {
			return nil, err
		}
	}

	return out, nil
}

func fillSlab(ctx context.Context, slab [][]byte, passwordLen int, onPassword func()) error {
	max := big.NewInt(alphabetSize)

	for i := range slab {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		password := make([]byte, passwordLen)

		for c := range password {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return fmt.Errorf("generating password character: %w", err)
			}

			password[c] = byte(n.Int64()) + asciiOffset
		}

		slab[i] = password

		if onPassword != nil {
			onPassword()
		}
	}

	return nil
}
