package algorithm

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashassin/hashassin/lib/hashassinerrors"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Algorithm
		wantErr bool
	}{
		{"md5 lowercase", "md5", MD5, false},
		{"sha256 mixed case", "Sha256", SHA256, false},
		{"sha3_512 with whitespace", "  sha3_512  ", SHA3512, false},
		{"scrypt", "scrypt", Scrypt, false},
		{"unsupported", "sha1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, hashassinerrors.ErrUnsupportedAlgorithm)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDigestLen(t *testing.T) {
	assert.Equal(t, 16, DigestLen(MD5))
	assert.Equal(t, 32, DigestLen(SHA256))
	assert.Equal(t, 64, DigestLen(SHA3512))
	assert.Equal(t, 32, DigestLen(Scrypt))
	assert.Equal(t, 0, DigestLen("bogus"))
}

func TestHash_KnownVectors(t *testing.T) {
	sum, err := Hash(MD5, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", hex.EncodeToString(sum))

	sum, err = Hash(SHA256, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(sum))
}

func TestHash_IsDeterministic(t *testing.T) {
	for _, algo := range []Algorithm{MD5, SHA256, SHA3512, Scrypt} {
		a, err := Hash(algo, []byte("password"))
		require.NoError(t, err)

		b, err := Hash(algo, []byte("password"))
		require.NoError(t, err)

		assert.Equal(t, a, b, "algorithm %s must be a deterministic function of its input", algo)
		assert.Len(t, a, DigestLen(algo))
	}
}

func TestHash_UnsupportedAlgorithm(t *testing.T) {
	_, err := Hash("bogus", []byte("x"))
	assert.ErrorIs(t, err, hashassinerrors.ErrUnsupportedAlgorithm)
}
