package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashassin/hashassin/lib/hashassinerrors"
)

func TestUploadRequestRoundTrip(t *testing.T) {
	req := UploadRequest{Name: "mytable", Payload: []byte("rainbow table bytes")}

	var buf bytes.Buffer
	require.NoError(t, EncodeUploadRequest(&buf, req))

	kind, r, err := PeekKind(&buf)
	require.NoError(t, err)
	require.Equal(t, KindUpload, kind)

	got, err := DecodeUploadRequest(r)
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestCrackRequestRoundTrip(t *testing.T) {
	req := CrackRequest{Payload: []byte("hashes file bytes")}

	var buf bytes.Buffer
	require.NoError(t, EncodeCrackRequest(&buf, req))

	kind, r, err := PeekKind(&buf)
	require.NoError(t, err)
	require.Equal(t, KindCrack, kind)

	got, err := DecodeCrackRequest(r)
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestPeekKind_UnrecognizedMagic(t *testing.T) {
	buf := bytes.NewBufferString("garbage-frame-data")

	kind, _, err := PeekKind(buf)
	require.Error(t, err)
	assert.Equal(t, KindUnknown, kind)
}

func TestUploadResponseRoundTrip(t *testing.T) {
	resp := UploadResponse{Status: StatusOK, Message: "stored table with 5 chains"}

	var buf bytes.Buffer
	require.NoError(t, EncodeUploadResponse(&buf, resp))

	got, err := DecodeUploadResponse(&buf)
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

func TestCrackResponseRoundTrip(t *testing.T) {
	resp := CrackResponse{
		Status: StatusOK,
		Results: []CrackResult{
			{Hash: []byte{0xDE, 0xAD}, Password: []byte("pass")},
			{Hash: []byte{0xBE, 0xEF}, Password: []byte("word")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeCrackResponse(&buf, resp))

	got, err := DecodeCrackResponse(&buf)
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

func TestCrackResponseRoundTrip_EmptyResults(t *testing.T) {
	resp := CrackResponse{Status: StatusOK}

	var buf bytes.Buffer
	require.NoError(t, EncodeCrackResponse(&buf, resp))

	got, err := DecodeCrackResponse(&buf)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, got.Status)
	assert.Empty(t, got.Results)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusOK, StatusFor(nil))
}

func TestDecodeCrackRequest_RejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer

	buf.WriteString(crackMagic)
	buf.WriteByte(version)
	require.NoError(t, writeUint64(&buf, maxPayloadSize+1))

	_, err := DecodeCrackRequest(&buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, hashassinerrors.ErrProtocol)
}

func TestDecodeUploadRequest_RejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer

	buf.WriteString(uploadMagic)
	buf.WriteByte(version)
	buf.WriteByte(4)
	buf.WriteString("name")
	writeUint64(&buf, maxPayloadSize+1)

	_, err := DecodeUploadRequest(&buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, hashassinerrors.ErrProtocol)
}
