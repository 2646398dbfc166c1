// Package protocol implements the wire framing for hashassin's TCP service:
// one request per connection, then close.
package protocol

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hashassin/hashassin/lib/hashassinerrors"
)

const (
	uploadMagic = "upload"
	crackMagic  = "crack"
	version     = 1

	// maxPayloadSize bounds a single frame's declared payload size. A
	// client declaring more than this is refused before any allocation,
	// rather than trusted to allocate on the server's behalf.
	maxPayloadSize = 1 << 30 // 1 GiB
)

// Status codes carried in the first byte of every response.
const (
	StatusOK                  byte = 0
	StatusArgumentError       byte = 1
	StatusMalformedFile       byte = 2
	StatusIOError             byte = 3
	StatusProtocolError       byte = 4
	StatusUnsupportedAlgorithm byte = 5
	StatusInternalError       byte = 6
)

// StatusFor maps an error from the hashassinerrors taxonomy to a response
// status byte.
func StatusFor(err error) byte {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, hashassinerrors.ErrArgument):
		return StatusArgumentError
	case errors.Is(err, hashassinerrors.ErrMalformedFile):
		return StatusMalformedFile
	case errors.Is(err, hashassinerrors.ErrIO):
		return StatusIOError
	case errors.Is(err, hashassinerrors.ErrProtocol):
		return StatusProtocolError
	case errors.Is(err, hashassinerrors.ErrUnsupportedAlgorithm):
		return StatusUnsupportedAlgorithm
	default:
		return StatusInternalError
	}
}

// UploadRequest names a rainbow table upload and carries its raw
// rainbow-table-file payload.
type UploadRequest struct {
	Name    string
	Payload []byte
}

// CrackRequest carries a raw hashes-file payload to crack against every
// registered table matching its algorithm and password length.
type CrackRequest struct {
	Payload []byte
}

// RequestKind identifies which frame a connection sent.
type RequestKind int

const (
	KindUnknown RequestKind = iota
	KindUpload
	KindCrack
)

// PeekKind reads enough of r to tell whether it opens an upload or crack
// frame, returning a reader that still yields the full stream from the
// start (including the bytes already peeked).
func PeekKind(r io.Reader) (RequestKind, io.Reader, error) {
	br := bufio.NewReaderSize(r, 4096)

	head, err := br.Peek(len(uploadMagic))
	if err == nil && string(head) == uploadMagic {
		return KindUpload, br, nil
	}

	head, err = br.Peek(len(crackMagic))
	if err == nil && string(head) == crackMagic {
		return KindCrack, br, nil
	}

	return KindUnknown, br, fmt.Errorf("%w: unrecognized frame magic", hashassinerrors.ErrProtocol)
}

// DecodeUploadRequest reads an upload frame from r, having already confirmed
// the magic word is present (PeekKind does not consume it).
func DecodeUploadRequest(r io.Reader) (UploadRequest, error) {
	if err := expectMagic(r, uploadMagic); err != nil {
		return UploadRequest{}, err
	}

	if err := expectVersion(r); err != nil {
		return UploadRequest{}, err
	}

	nameLen, err := readByte(r)
	if err != nil {
		return UploadRequest{}, err
	}

	nameBuf := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return UploadRequest{}, fmt.Errorf("%w: reading name: %w", hashassinerrors.ErrProtocol, err)
	}

	payload, err := readPayload(r)
	if err != nil {
		return UploadRequest{}, err
	}

	return UploadRequest{Name: string(nameBuf), Payload: payload}, nil
}

// EncodeUploadRequest writes an upload frame for req to w.
func EncodeUploadRequest(w io.Writer, req UploadRequest) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(uploadMagic); err != nil {
		return wrapIO(err)
	}

	if err := bw.WriteByte(version); err != nil {
		return wrapIO(err)
	}

	if len(req.Name) > 0xFF {
		return fmt.Errorf("%w: name too long", hashassinerrors.ErrArgument)
	}

	if err := bw.WriteByte(byte(len(req.Name))); err != nil {
		return wrapIO(err)
	}

	if _, err := bw.WriteString(req.Name); err != nil {
		return wrapIO(err)
	}

	if err := writeUint64(bw, uint64(len(req.Payload))); err != nil {
		return err
	}

	if _, err := bw.Write(req.Payload); err != nil {
		return wrapIO(err)
	}

	return bw.Flush()
}

// DecodeCrackRequest reads a crack frame from r, having already confirmed
// the magic word is present.
func DecodeCrackRequest(r io.Reader) (CrackRequest, error) {
	if err := expectMagic(r, crackMagic); err != nil {
		return CrackRequest{}, err
	}

	if err := expectVersion(r); err != nil {
		return CrackRequest{}, err
	}

	payload, err := readPayload(r)
	if err != nil {
		return CrackRequest{}, err
	}

	return CrackRequest{Payload: payload}, nil
}

// EncodeCrackRequest writes a crack frame for req to w.
func EncodeCrackRequest(w io.Writer, req CrackRequest) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(crackMagic); err != nil {
		return wrapIO(err)
	}

	if err := bw.WriteByte(version); err != nil {
		return wrapIO(err)
	}

	if err := writeUint64(bw, uint64(len(req.Payload))); err != nil {
		return err
	}

	if _, err := bw.Write(req.Payload); err != nil {
		return wrapIO(err)
	}

	return bw.Flush()
}

// UploadResponse is the server's reply to an upload request.
type UploadResponse struct {
	Status  byte
	Message string
}

// EncodeUploadResponse writes resp to w.
func EncodeUploadResponse(w io.Writer, resp UploadResponse) error {
	bw := bufio.NewWriter(w)

	if err := bw.WriteByte(resp.Status); err != nil {
		return wrapIO(err)
	}

	msg := []byte(resp.Message)
	if len(msg) > 0xFFFF {
		msg = msg[:0xFFFF]
	}

	if err := writeUint16(bw, uint16(len(msg))); err != nil {
		return err
	}

	if _, err := bw.Write(msg); err != nil {
		return wrapIO(err)
	}

	return bw.Flush()
}

// DecodeUploadResponse reads an UploadResponse from r.
func DecodeUploadResponse(r io.Reader) (UploadResponse, error) {
	status, err := readByte(r)
	if err != nil {
		return UploadResponse{}, err
	}

	msgLen, err := readUint16(r)
	if err != nil {
		return UploadResponse{}, err
	}

	msgBuf := make([]byte, msgLen)
	if _, err := io.ReadFull(r, msgBuf); err != nil {
		return UploadResponse{}, fmt.Errorf("%w: reading message: %w", hashassinerrors.ErrProtocol, err)
	}

	return UploadResponse{Status: status, Message: string(msgBuf)}, nil
}

// CrackResult is one cracked hash/password pair in a crack response.
type CrackResult struct {
	Hash     []byte
	Password []byte
}

// CrackResponse is the server's reply to a crack request: hashes that could
// not be cracked are simply omitted, and the remaining pairs preserve the
// order of the input hashes file.
type CrackResponse struct {
	Status  byte
	Results []CrackResult
}

// EncodeCrackResponse writes resp to w.
func EncodeCrackResponse(w io.Writer, resp CrackResponse) error {
	bw := bufio.NewWriter(w)

	if err := bw.WriteByte(resp.Status); err != nil {
		return wrapIO(err)
	}

	if err := writeUint32(bw, uint32(len(resp.Results))); err != nil {
		return err
	}

	for _, r := range resp.Results {
		line := fmt.Sprintf("%x\t%s\n", r.Hash, r.Password)
		if _, err := bw.WriteString(line); err != nil {
			return wrapIO(err)
		}
	}

	return bw.Flush()
}

// DecodeCrackResponse reads a CrackResponse from r.
func DecodeCrackResponse(r io.Reader) (CrackResponse, error) {
	status, err := readByte(r)
	if err != nil {
		return CrackResponse{}, err
	}

	count, err := readUint32(r)
	if err != nil {
		return CrackResponse{}, err
	}

	br := bufio.NewReader(r)

	results := make([]CrackResult, 0, count)

	for i := uint32(0); i < count; i++ {
		line, err := br.ReadString('\n')
		if err != nil {
			return CrackResponse{}, fmt.Errorf("%w: reading result record %d: %w", hashassinerrors.ErrProtocol, i, err)
		}

		hashHex, password, ok := splitTab(line)
		if !ok {
			return CrackResponse{}, fmt.Errorf("%w: malformed result record %d", hashassinerrors.ErrProtocol, i)
		}

		hashBytes, err := decodeHex(hashHex)
		if err != nil {
			return CrackResponse{}, fmt.Errorf("%w: decoding hash in record %d: %w", hashassinerrors.ErrProtocol, i, err)
		}

		results = append(results, CrackResult{Hash: hashBytes, Password: []byte(password)})
	}

	return CrackResponse{Status: status, Results: results}, nil
}

func splitTab(line string) (string, string, bool) {
	for i := 0; i < len(line); i++ {
		if line[i] == '\t' {
			end := len(line)
			if end > 0 && line[end-1] == '\n' {
				end--
			}

			return line[:i], line[i+1 : end], true
		}
	}

	return "", "", false
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string")
	}

	out := make([]byte, len(s)/2)

	for i := range out {
		hi, err := hexDigit(s[2*i])
		if err != nil {
			return nil, err
		}

		lo, err := hexDigit(s[2*i+1])
		if err != nil {
			return nil, err
		}

		out[i] = hi<<4 | lo
	}

	return out, nil
}

func hexDigit(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", c)
	}
}

func expectMagic(r io.Reader, want string) error {
	buf := make([]byte, len(want))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: reading magic: %w", hashassinerrors.ErrProtocol, err)
	}

	if string(buf) != want {
		return fmt.Errorf("%w: expected magic %q, got %q", hashassinerrors.ErrProtocol, want, buf)
	}

	return nil
}

func expectVersion(r io.Reader) error {
	v, err := readByte(r)
	if err != nil {
		return err
	}

	if v != version {
		return fmt.Errorf("%w: unsupported protocol version %d", hashassinerrors.ErrProtocol, v)
	}

	return nil
}

func readPayload(r io.Reader) ([]byte, error) {
	size, err := readUint64(r)
	if err != nil {
		return nil, err
	}

	if size > maxPayloadSize {
		return nil, fmt.Errorf("%w: payload size %d exceeds maximum of %d bytes", hashassinerrors.ErrProtocol, size, maxPayloadSize)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: reading payload: %w", hashassinerrors.ErrProtocol, err)
	}

	return payload, nil
}

func readByte(r io.Reader) (byte, error) {
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, fmt.Errorf("%w: %w", hashassinerrors.ErrProtocol, err)
	}

	return buf[0], nil
}

func readUint16(r io.Reader) (uint16, error) {
	buf := make([]byte, 2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, fmt.Errorf("%w: %w", hashassinerrors.ErrProtocol, err)
	}

	return binary.BigEndian.Uint16(buf), nil
}

func readUint32(r io.Reader) (uint32, error) {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, fmt.Errorf("%w: %w", hashassinerrors.ErrProtocol, err)
	}

	return binary.BigEndian.Uint32(buf), nil
}

func readUint64(r io.Reader) (uint64, error) {
	buf := make([]byte, 8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, fmt.Errorf("%w: %w", hashassinerrors.ErrProtocol, err)
	}

	return binary.BigEndian.Uint64(buf), nil
}

func writeUint16(w io.Writer, v uint16) error {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)

	_, err := w.Write(buf)

	return wrapIO(err)
}

func writeUint32(w io.Writer, v uint32) error {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)

	_, err := w.Write(buf)

	return wrapIO(err)
}

func writeUint64(w io.Writer, v uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)

	_, err := w.Write(buf)

	return wrapIO(err)
}

func wrapIO(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
}
