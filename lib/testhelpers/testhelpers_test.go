package testhelpers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashassin/hashassin/lib/algorithm"
	"github.com/hashassin/hashassin/lib/filecodec"
)

func TestHashesFileBytes_DecodesBack(t *testing.T) {
	raw, err := HashesFileBytes(algorithm.MD5, 4, "pass", "word")
	require.NoError(t, err)

	hf, err := filecodec.ReadHashesFile(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Len(t, hf.Hashes, 2)
}

func TestRainbowTableBytes_DecodesBack(t *testing.T) {
	raw, table, err := RainbowTableBytes(algorithm.MD5, 4, 10, "pass", "word")
	require.NoError(t, err)

	got, err := filecodec.ReadRainbowTableFile(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, table, got)
}

func TestPipe_IsConnected(t *testing.T) {
	client, server := Pipe()
	defer client.Close()
	defer server.Close()

	done := make(chan struct{})

	go func() {
		buf := make([]byte, 5)
		_, _ = server.Read(buf)
		assert.Equal(t, "hello", string(buf))
		close(done)
	}()

	_, err := client.Write([]byte("hello"))
	require.NoError(t, err)
	<-done
}
