// Package client dials a hashassin server and issues a single upload or
// crack request over the raw TCP protocol, decoding the framed response.
package client

import (
	"fmt"
	"net"
	"os"

	"github.com/hashassin/hashassin/lib/protocol"
)

// Upload sends the rainbow-table file at path to addr under name and
// returns the server's response.
func Upload(addr, name, path string) (protocol.UploadResponse, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return protocol.UploadResponse{}, fmt.Errorf("reading %q: %w", path, err)
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return protocol.UploadResponse{}, fmt.Errorf("dialing %q: %w", addr, err)
	}
	defer conn.Close()

	if err := protocol.EncodeUploadRequest(conn, protocol.UploadRequest{Name: name, Payload: payload}); err != nil {
		return protocol.UploadResponse{}, err
	}

	return protocol.DecodeUploadResponse(conn)
}

// Crack sends the hashes file at path to addr and returns the server's
// response.
func Crack(addr, path string) (protocol.CrackResponse, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return protocol.CrackResponse{}, fmt.Errorf("reading %q: %w", path, err)
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return protocol.CrackResponse{}, fmt.Errorf("dialing %q: %w", addr, err)
	}
	defer conn.Close()

	if err := protocol.EncodeCrackRequest(conn, protocol.CrackRequest{Payload: payload}); err != nil {
		return protocol.CrackResponse{}, err
	}

	return protocol.DecodeCrackResponse(conn)
}
