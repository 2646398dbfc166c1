// Package reduction implements the reduction function used to derive the
// next chain link password from a digest and a chain step index.
package reduction

import "math/big"

// Alphabet is the printable-ASCII character set the reduction function draws
// from: 95 characters, 0x20 (space) through 0x7E (tilde).
const (
	AlphabetSize  = 95
	AsciiOffset   = 0x20
)

// Reduce derives a passwordLen-character password from hash and stepIndex.
//
// hash is interpreted as a big-endian unsigned integer. stepIndex is added
// to it, and the result is repeatedly divided by AlphabetSize: each
// remainder selects a character AsciiOffset+remainder, emitted most
// significant digit first. This is the single correctness-critical contract
// of the whole chain scheme — every implementation of Reduce must agree
// bit-for-bit on endianness and character mapping or chains built by one
// party will never be crackable by another.
func Reduce(hash []byte, stepIndex uint64, passwordLen int) []byte {
	v := new(big.Int).SetBytes(hash)
	v.Add(v, new(big.Int).SetUint64(stepIndex))

	radix := big.NewInt(AlphabetSize)
	rem := new(big.Int)

	digits := make([]byte, passwordLen)
	for i := passwordLen - 1; i >= 0; i-- {
		v.DivMod(v, radix, rem)
		digits[i] = byte(rem.Int64()) + AsciiOffset
	}

	return digits
}
