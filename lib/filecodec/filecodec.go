// Package filecodec encodes and decodes the on-disk hashes-file and
// rainbow-table-file binary formats, and renders their text dumps.
package filecodec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/duke-git/lancet/v2/fileutil"
	"github.com/hashassin/hashassin/lib/algorithm"
	"github.com/hashassin/hashassin/lib/chain"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
	"github.com/hashassin/hashassin/shared"
)

const (
	fileVersion  = 1
	rainbowMagic = "rainbowtable"
	asciiOffset  = 0x20
	charsetSize  = 95
)

// HashesFile is the decoded form of a hashes file: a fixed algorithm and
// password length, plus one digest per input password.
type HashesFile struct {
	Algorithm   algorithm.Algorithm
	PasswordLen int
	Hashes      [][]byte
}

// WriteHashesFile writes f's header and digests to w.
func WriteHashesFile(w io.Writer, f HashesFile) error {
	bw := bufio.NewWriter(w)

	if err := writeHashesHeader(bw, f.Algorithm, f.PasswordLen); err != nil {
		return err
	}

	digestLen := algorithm.DigestLen(f.Algorithm)
	for i, h := range f.Hashes {
		if len(h) != digestLen {
			return fmt.Errorf("%w: hash %d has length %d, want %d", hashassinerrors.ErrMalformedFile, i, len(h), digestLen)
		}

		if _, err := bw.Write(h); err != nil {
			return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
		}
	}

	return bw.Flush()
}

func writeHashesHeader(w io.Writer, algo algorithm.Algorithm, passwordLen int) error {
	if _, err := w.Write([]byte{fileVersion}); err != nil {
		return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	name := []byte(algo)
	if len(name) > 0xFF {
		return fmt.Errorf("%w: algorithm name too long", hashassinerrors.ErrArgument)
	}

	if _, err := w.Write([]byte{byte(len(name))}); err != nil {
		return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	if _, err := w.Write(name); err != nil {
		return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	if passwordLen < 0 || passwordLen > 0xFF {
		return fmt.Errorf("%w: password length out of range", hashassinerrors.ErrArgument)
	}

	if _, err := w.Write([]byte{byte(passwordLen)}); err != nil {
		return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	return nil
}

// ReadHashesFile decodes a hashes file from r.
func ReadHashesFile(r io.Reader) (HashesFile, error) {
	br := bufio.NewReader(r)

	algo, plen, err := readHashesHeader(br)
	if err != nil {
		return HashesFile{}, err
	}

	digestLen := algorithm.DigestLen(algo)

	var hashes [][]byte

	for {
		buf := make([]byte, digestLen)

		_, err := io.ReadFull(br, buf)
		if err == io.EOF {
			break
		}

		if err != nil {
			return HashesFile{}, fmt.Errorf("%w: truncated digest record: %w", hashassinerrors.ErrMalformedFile, err)
		}

		hashes = append(hashes, buf)
	}

	return HashesFile{Algorithm: algo, PasswordLen: plen, Hashes: hashes}, nil
}

func readHashesHeader(r io.Reader) (algorithm.Algorithm, int, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(r, header); err != nil {
		return "", 0, fmt.Errorf("%w: reading header: %w", hashassinerrors.ErrMalformedFile, err)
	}

	version, algoLen := header[0], header[1]
	if version != fileVersion {
		return "", 0, fmt.Errorf("%w: unsupported version %d", hashassinerrors.ErrMalformedFile, version)
	}

	nameBuf := make([]byte, algoLen)
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return "", 0, fmt.Errorf("%w: reading algorithm name: %w", hashassinerrors.ErrMalformedFile, err)
	}

	algo, err := algorithm.ParseAlgorithm(string(nameBuf))
	if err != nil {
		return "", 0, err
	}

	plenBuf := make([]byte, 1)
	if _, err := io.ReadFull(r, plenBuf); err != nil {
		return "", 0, fmt.Errorf("%w: reading password length: %w", hashassinerrors.ErrMalformedFile, err)
	}

	return algo, int(plenBuf[0]), nil
}

// WriteRainbowTableFile writes t's header and chain records to w.
func WriteRainbowTableFile(w io.Writer, t *chain.RainbowTable) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(rainbowMagic); err != nil {
		return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	if err := writeHashesHeader(bw, t.Algorithm, t.PasswordLen); err != nil {
		return err
	}

	if err := writeUint128BE(bw, charsetSize); err != nil {
		return err
	}

	if err := writeUint128BE(bw, t.NumLinks); err != nil {
		return err
	}

	if _, err := bw.Write([]byte{asciiOffset}); err != nil {
		return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	for i, l := range t.Links {
		if len(l.Start) != t.PasswordLen || len(l.End) != t.PasswordLen {
			return fmt.Errorf("%w: chain %d has mismatched password length", hashassinerrors.ErrMalformedFile, i)
		}

		if _, err := bw.Write(l.Start); err != nil {
			return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
		}

		if _, err := bw.Write(l.End); err != nil {
			return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
		}
	}

	return bw.Flush()
}

// ReadRainbowTableFile decodes a rainbow table from r.
func ReadRainbowTableFile(r io.Reader) (*chain.RainbowTable, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(rainbowMagic))
	if _, err := io.ReadFull(br, magic); err != nil || string(magic) != rainbowMagic {
		return nil, fmt.Errorf("%w: bad magic", hashassinerrors.ErrMalformedFile)
	}

	algo, plen, err := readHashesHeader(br)
	if err != nil {
		return nil, err
	}

	gotCharsetSize, err := readUint128BE(br)
	if err != nil {
		return nil, err
	}

	if gotCharsetSize != charsetSize {
		return nil, fmt.Errorf("%w: unexpected charset size %d", hashassinerrors.ErrMalformedFile, gotCharsetSize)
	}

	numLinks, err := readUint128BE(br)
	if err != nil {
		return nil, err
	}

	offsetBuf := make([]byte, 1)
	if _, err := io.ReadFull(br, offsetBuf); err != nil {
		return nil, fmt.Errorf("%w: reading ascii offset: %w", hashassinerrors.ErrMalformedFile, err)
	}

	if offsetBuf[0] != asciiOffset {
		return nil, fmt.Errorf("%w: unexpected ascii offset %d", hashassinerrors.ErrMalformedFile, offsetBuf[0])
	}

	var links []chain.Link

	for {
		start := make([]byte, plen)

		_, err := io.ReadFull(br, start)
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: truncated chain start: %w", hashassinerrors.ErrMalformedFile, err)
		}

		end := make([]byte, plen)
		if _, err := io.ReadFull(br, end); err != nil {
			return nil, fmt.Errorf("%w: truncated chain end: %w", hashassinerrors.ErrMalformedFile, err)
		}

		links = append(links, chain.Link{Start: start, End: end})
	}

	return &chain.RainbowTable{
		Algorithm:   algo,
		PasswordLen: plen,
		NumLinks:    numLinks,
		Links:       links,
	}, nil
}

func writeUint128BE(w io.Writer, v uint64) error {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[8:], v)

	_, err := w.Write(buf)
	if err != nil {
		return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	return nil
}

func readUint128BE(r io.Reader) (uint64, error) {
	buf := make([]byte, 16)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, fmt.Errorf("%w: reading 128-bit field: %w", hashassinerrors.ErrMalformedFile, err)
	}

	hi := new(big.Int).SetBytes(buf[:8])
	if hi.Sign() != 0 {
		return 0, fmt.Errorf("%w: 128-bit field exceeds 64 bits", hashassinerrors.ErrMalformedFile)
	}

	return binary.BigEndian.Uint64(buf[8:]), nil
}

// DumpHashes renders f as text: a small header followed by one hex-encoded
// digest per line.
func DumpHashes(w io.Writer, f HashesFile) error {
	if _, err := fmt.Fprintf(w, "VERSION: %d\n", fileVersion); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "ALGORITHM: %s\n", f.Algorithm); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "PASSWORD LENGTH: %d\n", f.PasswordLen); err != nil {
		return err
	}

	for _, h := range f.Hashes {
		if _, err := fmt.Fprintf(w, "%x\n", h); err != nil {
			return err
		}
	}

	return nil
}

// DumpRainbowTable renders t as text: a banner, a header, and one
// start\tend line per chain.
func DumpRainbowTable(w io.Writer, t *chain.RainbowTable) error {
	if _, err := fmt.Fprintln(w, "Hashassin Rainbow Table"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "VERSION: %d\n", fileVersion); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "ALGORITHM: %s\n", t.Algorithm); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "PASSWORD LENGTH: %d\n", t.PasswordLen); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "CHAR SET SIZE: %d\n", charsetSize); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "NUM LINKS: %d\n", t.NumLinks); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "ASCII OFFSET: %d\n", asciiOffset); err != nil {
		return err
	}

	for _, l := range t.Links {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", l.Start, l.End); err != nil {
			return err
		}
	}

	return nil
}

// SaveAtomic writes the bytes produced by encode to path via a temporary
// sibling file, renamed into place on success, so a crash mid-write never
// leaves a truncated file at path. os.Rename is the atomicity primitive
// here: on every platform this codebase targets it is a single filesystem
// operation, which lancet's fileutil does not reimplement or wrap.
func SaveAtomic(path string, encode func(io.Writer) error) error {
	if Exists(path) {
		shared.Logger.Debug("overwriting existing file", "path", path)
	}

	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", hashassinerrors.ErrIO, err)
	}

	if err := encode(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)

		return err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: closing temp file: %w", hashassinerrors.ErrIO, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: renaming temp file into place: %w", hashassinerrors.ErrIO, err)
	}

	return nil
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	return fileutil.IsExist(path)
}
