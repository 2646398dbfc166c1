package filecodec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashassin/hashassin/lib/algorithm"
	"github.com/hashassin/hashassin/lib/chain"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
)

func TestHashesFileRoundTrip(t *testing.T) {
	f := HashesFile{
		Algorithm:   algorithm.MD5,
		PasswordLen: 4,
		Hashes:      [][]byte{make([]byte, 16), make([]byte, 16)},
	}
	f.Hashes[0][0] = 0xAA
	f.Hashes[1][0] = 0xBB

	var buf bytes.Buffer
	require.NoError(t, WriteHashesFile(&buf, f))

	got, err := ReadHashesFile(&buf)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestWriteHashesFile_RejectsWrongDigestLength(t *testing.T) {
	f := HashesFile{Algorithm: algorithm.MD5, PasswordLen: 4, Hashes: [][]byte{make([]byte, 4)}}

	var buf bytes.Buffer
	err := WriteHashesFile(&buf, f)
	assert.ErrorIs(t, err, hashassinerrors.ErrMalformedFile)
}

func TestReadHashesFile_RejectsBadVersion(t *testing.T) {
	buf := bytes.NewBuffer([]byte{9, 3, 'm', 'd', '5', 4})

	_, err := ReadHashesFile(buf)
	assert.ErrorIs(t, err, hashassinerrors.ErrMalformedFile)
}

func TestReadHashesFile_RejectsUnsupportedAlgorithm(t *testing.T) {
	buf := bytes.NewBuffer([]byte{1, 3, 'x', 'x', 'x', 4})

	_, err := ReadHashesFile(buf)
	assert.ErrorIs(t, err, hashassinerrors.ErrUnsupportedAlgorithm)
}

func TestRainbowTableFileRoundTrip(t *testing.T) {
	table := &chain.RainbowTable{
		Algorithm:   algorithm.SHA256,
		PasswordLen: 4,
		NumLinks:    12,
		Links: []chain.Link{
			{Start: []byte("aaaa"), End: []byte("bbbb")},
			{Start: []byte("cccc"), End: []byte("dddd")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRainbowTableFile(&buf, table))

	got, err := ReadRainbowTableFile(&buf)
	require.NoError(t, err)
	assert.Equal(t, table, got)
}

func TestReadRainbowTableFile_RejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("not-the-right-magic-word-at-all")

	_, err := ReadRainbowTableFile(buf)
	assert.ErrorIs(t, err, hashassinerrors.ErrMalformedFile)
}

func TestDumpHashes_WritesHeaderAndDigests(t *testing.T) {
	f := HashesFile{Algorithm: algorithm.MD5, PasswordLen: 4, Hashes: [][]byte{{0xDE, 0xAD}}}

	var buf bytes.Buffer
	require.NoError(t, DumpHashes(&buf, f))

	out := buf.String()
	assert.Contains(t, out, "ALGORITHM: md5")
	assert.Contains(t, out, "dead")
}

func TestSaveAtomic_WritesAndRenamesIntoPlace(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/out.bin"

	err := SaveAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("payload"))
		return err
	})
	require.NoError(t, err)
	assert.True(t, Exists(path))
	assert.False(t, Exists(path+".tmp"))
}

func TestSaveAtomic_LeavesNoFileOnEncodeError(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/out.bin"

	err := SaveAtomic(path, func(io.Writer) error {
		return hashassinerrors.ErrIO
	})
	require.Error(t, err)
	assert.False(t, Exists(path))
	assert.False(t, Exists(path+".tmp"))
}
