// Package server implements the hashassin TCP service: an accept loop that
// hands parsing and hashing work to a bounded compute pool, keeping socket
// I/O and CPU-bound cracking work on separate goroutine populations.
package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"

	"github.com/hashassin/hashassin/lib/cache"
	"github.com/hashassin/hashassin/lib/chain"
	"github.com/hashassin/hashassin/lib/filecodec"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
	"github.com/hashassin/hashassin/lib/protocol"
	"github.com/hashassin/hashassin/lib/registry"
	"github.com/hashassin/hashassin/lib/workerpool"
	"github.com/hashassin/hashassin/shared"
)

// Runtime is a running (or ready-to-run) hashassin server: a shared table
// registry, result cache, and a bounded compute pool, fronted by a
// semaphore-gated accept loop.
type Runtime struct {
	Registry *registry.Registry
	Cache    *cache.Cache
	Compute  *workerpool.Pool

	asyncSem chan struct{}
}

// New creates a Runtime. asyncThreads bounds how many connections are
// handled concurrently (the I/O pool); computeThreads caps the goroutines
// that one request's hashing and chain work runs on. Requests handled
// concurrently each get up to that many.
func New(computeThreads, asyncThreads int) *Runtime {
	if asyncThreads < 1 {
		asyncThreads = 1
	}

	return &Runtime{
		Registry: registry.New(),
		Compute:  workerpool.New(computeThreads),
		asyncSem: make(chan struct{}, asyncThreads),
	}
}

// SetCache installs the response cache. Called after New once the
// configured cache size is known to be valid.
func (rt *Runtime) SetCache(c *cache.Cache) {
	rt.Cache = c
}

// Serve accepts connections on bindAddr:port until ctx is canceled or accept
// fails.
func (rt *Runtime) Serve(ctx context.Context, bindAddr string, port int) error {
	lc := net.ListenConfig{}

	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", bindAddr, port))
	if err != nil {
		return fmt.Errorf("%w: listening: %w", hashassinerrors.ErrIO, err)
	}

	shared.Logger.Info("server listening", "addr", bindAddr, "port", port)

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("%w: accepting connection: %w", hashassinerrors.ErrIO, err)
			}
		}

		rt.asyncSem <- struct{}{}

		go func(c net.Conn) {
			defer func() { <-rt.asyncSem }()
			defer c.Close()

			rt.handleConn(c)
		}(conn)
	}
}

func (rt *Runtime) handleConn(conn net.Conn) {
	kind, r, err := protocol.PeekKind(conn)
	if err != nil {
		shared.Logger.Debug("rejecting connection with unrecognized frame", "remote", conn.RemoteAddr(), "error", err)
		return
	}

	switch kind {
	case protocol.KindUpload:
		rt.handleUpload(conn, r)
	case protocol.KindCrack:
		rt.handleCrack(conn, r)
	default:
		shared.Logger.Debug("unknown request kind", "remote", conn.RemoteAddr())
	}
}

func (rt *Runtime) handleUpload(conn net.Conn, r io.Reader) {
	req, err := protocol.DecodeUploadRequest(r)
	if err != nil {
		writeUploadError(conn, err)
		return
	}

	jobs := []workerpool.Job[*chain.RainbowTable]{
		func() (*chain.RainbowTable, error) {
			return filecodec.ReadRainbowTableFile(bytes.NewReader(req.Payload))
		},
	}

	tables, err := workerpool.SubmitOrdered(rt.Compute, jobs)
	if err != nil {
		writeUploadError(conn, err)
		return
	}

	rt.Registry.Insert(req.Name, tables[0])

	shared.Logger.Info("table uploaded", "name", req.Name, "chains", len(tables[0].Links))

	_ = protocol.EncodeUploadResponse(conn, protocol.UploadResponse{
		Status:  protocol.StatusOK,
		Message: fmt.Sprintf("stored table %q with %d chains", req.Name, len(tables[0].Links)),
	})
}

func writeUploadError(w io.Writer, err error) {
	_ = protocol.EncodeUploadResponse(w, protocol.UploadResponse{
		Status:  protocol.StatusFor(err),
		Message: err.Error(),
	})
}

func (rt *Runtime) handleCrack(conn net.Conn, r io.Reader) {
	req, err := protocol.DecodeCrackRequest(r)
	if err != nil {
		writeCrackError(conn, err)
		return
	}

	hf, err := filecodec.ReadHashesFile(bytes.NewReader(req.Payload))
	if err != nil {
		writeCrackError(conn, err)
		return
	}

	key := cache.Fingerprint(req.Payload)

	var pairs []cache.Pair

	if rt.Cache != nil {
		pairs, err = rt.Cache.GetOrCompute(key, func() ([]cache.Pair, error) {
			return rt.crackAll(hf)
		})
	} else {
		pairs, err = rt.crackAll(hf)
	}

	if err != nil {
		writeCrackError(conn, err)
		return
	}

	byHash := make(map[string][]byte, len(pairs))
	for _, p := range pairs {
		byHash[string(p.Hash)] = p.Password
	}

	results := make([]protocol.CrackResult, 0, len(hf.Hashes))

	for _, h := range hf.Hashes {
		if password, ok := byHash[string(h)]; ok {
			results = append(results, protocol.CrackResult{Hash: h, Password: password})
		}
	}

	_ = protocol.EncodeCrackResponse(conn, protocol.CrackResponse{Status: protocol.StatusOK, Results: results})
}

func writeCrackError(w io.Writer, err error) {
	_ = protocol.EncodeCrackResponse(w, protocol.CrackResponse{Status: protocol.StatusFor(err)})
}

// crackAll cracks every hash in hf against every registered table matching
// its algorithm and password length, using the compute pool.
func (rt *Runtime) crackAll(hf filecodec.HashesFile) ([]cache.Pair, error) {
	tables := rt.Registry.ScanMatching(hf.Algorithm, hf.PasswordLen)

	jobs := make([]workerpool.Job[cache.Pair], len(hf.Hashes))

	for i, h := range hf.Hashes {
		h := h

		jobs[i] = func() (cache.Pair, error) {
			for _, entry := range tables {
				password, found, err := chain.Crack(entry.Table, h)
				if err != nil {
					return cache.Pair{}, err
				}

				if found {
					return cache.Pair{Hash: h, Password: password}, nil
				}
			}

			return cache.Pair{Hash: h}, nil
		}
	}

	results, err := workerpool.SubmitOrdered(rt.Compute, jobs)
	if err != nil {
		return nil, err
	}

	pairs := make([]cache.Pair, 0, len(results))

	for _, r := range results {
		if r.Password != nil {
			pairs = append(pairs, r)
		}
	}

	return pairs, nil
}
