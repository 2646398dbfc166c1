// Package algorithm implements the closed set of digest algorithms hashassin
// supports and dispatches hashing to them by name.
package algorithm

import (
	"crypto/md5"  //nolint:gosec // md5 is a supported cracking target, not used for security.
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/hashassin/hashassin/lib/hashassinerrors"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/crypto/sha3"
)

// Algorithm identifies one of the supported digest functions.
type Algorithm string

// The closed set of supported algorithms.
const (
	MD5     Algorithm = "md5"
	SHA256  Algorithm = "sha256"
	SHA3512 Algorithm = "sha3_512"
	Scrypt  Algorithm = "scrypt"
)

// Fixed scrypt cost parameters. Deliberately unsalted: a rainbow table
// requires a deterministic password -> hash mapping, which a per-call
// random salt would defeat. This makes scrypt unsafe for real password
// storage in this mode; that tradeoff is intentional here.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

// ParseAlgorithm resolves a case-insensitive algorithm name to an Algorithm,
// returning hashassinerrors.ErrUnsupportedAlgorithm for anything outside the
// closed set.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(MD5):
		return MD5, nil
	case string(SHA256):
		return SHA256, nil
	case string(SHA3512):
		return SHA3512, nil
	case string(Scrypt):
		return Scrypt, nil
	default:
		return "", fmt.Errorf("%w: %q", hashassinerrors.ErrUnsupportedAlgorithm, name)
	}
}

// DigestLen returns the fixed output length in bytes for algo, or 0 if algo
// is not recognized.
func DigestLen(algo Algorithm) int {
	switch algo {
	case MD5:
		return md5.Size
	case SHA256:
		return sha256.Size
	case SHA3512:
		return sha3.New512().Size()
	case Scrypt:
		return scryptKeyLen
	default:
		return 0
	}
}

// Hash computes the digest of input under algo.
func Hash(algo Algorithm, input []byte) ([]byte, error) {
	switch algo {
	case MD5:
		sum := md5.Sum(input) //nolint:gosec // supported cracking target algorithm.
		return sum[:], nil
	case SHA256:
		sum := sha256.Sum256(input)
		return sum[:], nil
	case SHA3512:
		sum := sha3.Sum512(input)
		return sum[:], nil
	case Scrypt:
		return scrypt.Key(input, nil, scryptN, scryptR, scryptP, scryptKeyLen)
	default:
		return nil, fmt.Errorf("%w: %q", hashassinerrors.ErrUnsupportedAlgorithm, algo)
	}
}
