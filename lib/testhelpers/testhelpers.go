// Package testhelpers provides fixtures shared by tests across hashassin's
// packages: in-memory hashes-file/rainbow-table-file byte builders and a
// small net.Pipe-backed connection pair for protocol-level tests.
package testhelpers

import (
	"bytes"
	"net"

	"github.com/hashassin/hashassin/lib/algorithm"
	"github.com/hashassin/hashassin/lib/chain"
	"github.com/hashassin/hashassin/lib/filecodec"
)

// HashesFileBytes encodes a hashes file for algo/passwordLen containing the
// digest of each password in cleartext, returning the encoded bytes.
func HashesFileBytes(algo algorithm.Algorithm, passwordLen int, passwords ...string) ([]byte, error) {
	hashes := make([][]byte, len(passwords))

	for i, p := range passwords {
		h, err := algorithm.Hash(algo, []byte(p))
		if err != nil {
			return nil, err
		}

		hashes[i] = h
	}

	var buf bytes.Buffer

	err := filecodec.WriteHashesFile(&buf, filecodec.HashesFile{
		Algorithm:   algo,
		PasswordLen: passwordLen,
		Hashes:      hashes,
	})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// RainbowTableBytes builds a table from seeds and encodes it, returning the
// encoded bytes alongside the in-memory table for assertions.
func RainbowTableBytes(algo algorithm.Algorithm, passwordLen int, numLinks uint64, seeds ...string) ([]byte, *chain.RainbowTable, error) {
	seedBytes := make([][]byte, len(seeds))
	for i, s := range seeds {
		seedBytes[i] = []byte(s)
	}

	table, err := chain.Build(algo, passwordLen, numLinks, seedBytes)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := filecodec.WriteRainbowTableFile(&buf, table); err != nil {
		return nil, nil, err
	}

	return buf.Bytes(), table, nil
}

// Pipe returns a connected pair of in-memory net.Conn endpoints, useful for
// exercising lib/protocol codecs without a real socket.
func Pipe() (client, server net.Conn) {
	return net.Pipe()
}
