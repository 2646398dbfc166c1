// Package fetch resolves a CLI file argument that may name a local path or a
// remote URL (http, https, git, or file) into a local file, retrying
// transient failures with backoff.
//
// A hashicorp/go-getter client drives the copy, and a cheggaaa/pb progress
// bar tracks it. Inputs that are already local paths are used directly
// without invoking the getter machinery at all.
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/duke-git/lancet/v2/validator"
	"github.com/hashicorp/go-getter"
)

// Options configures a fetch attempt.
type Options struct {
	Retries      int
	RetryDelay   time.Duration
	ShowProgress bool
}

// DefaultOptions returns the standard retry defaults: 3 retries with a 2
// second delay between attempts.
func DefaultOptions() Options {
	return Options{Retries: 3, RetryDelay: 2 * time.Second}
}

// Resolve returns a local file path for src. If src is already a local path
// that exists, it is returned unchanged. Otherwise src is treated as a
// go-getter source URL and copied to dst, retried per opts.
func Resolve(ctx context.Context, src, dst string, opts Options) (string, error) {
	if isLocalPath(src) {
		if _, err := os.Stat(src); err == nil {
			return src, nil
		}
	}

	var lastErr error

	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(opts.RetryDelay):
			}
		}

		if err := fetchOnce(ctx, src, dst, opts.ShowProgress); err != nil {
			lastErr = err
			continue
		}

		return dst, nil
	}

	return "", fmt.Errorf("fetching %q after %d attempts: %w", src, opts.Retries+1, lastErr)
}

// isLocalPath reports whether src names a local filesystem path rather than
// a remote source go-getter must fetch. A file:// URL is local. A
// "getter::url" forced-getter prefix (e.g. "git::https://...") is always
// remote, since validator.IsUrl does not recognize that syntax as a URL.
// Anything else validator.IsUrl recognizes as a URL is remote.
func isLocalPath(src string) bool {
	if strings.HasPrefix(src, "file://") {
		return true
	}

	if strings.Contains(src, "::") {
		return false
	}

	return !validator.IsUrl(src)
}

func fetchOnce(ctx context.Context, src, dst string, showProgress bool) error {
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Mode: getter.ClientModeFile,
	}

	if showProgress {
		if err := client.Configure(getter.WithProgress(defaultProgressBar)); err != nil {
			return err
		}
	}

	return client.Get()
}

var defaultProgressBar = &progressTracker{}

type progressTracker struct{}

// TrackProgress implements getter.ProgressTracker with a cheggaaa/pb bar.
func (progressTracker) TrackProgress(src string, currentSize, totalSize int64, stream io.ReadCloser) io.ReadCloser {
	bar := pb.New64(totalSize)
	bar.Set(pb.Bytes, true)
	bar.SetCurrent(currentSize)
	bar.Start()

	return &progressReadCloser{bar: bar, stream: stream}
}

type progressReadCloser struct {
	bar    *pb.ProgressBar
	stream io.ReadCloser
}

func (p *progressReadCloser) Read(b []byte) (int, error) {
	n, err := p.stream.Read(b)
	p.bar.Add(n)

	return n, err
}

func (p *progressReadCloser) Close() error {
	p.bar.Finish()
	return p.stream.Close()
}
