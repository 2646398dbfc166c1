// Package chain builds and searches rainbow-table hash chains.
package chain

import (
	"bytes"
	"fmt"

	"github.com/hashassin/hashassin/lib/algorithm"
	"github.com/hashassin/hashassin/lib/reduction"
)

// Link is one chain: the seed password it started from and the password it
// reduced to after NumLinks reduction steps.
type Link struct {
	Start []byte
	End   []byte
}

// RainbowTable is the in-memory representation of a built or loaded table.
type RainbowTable struct {
	Algorithm   algorithm.Algorithm
	PasswordLen int
	NumLinks    uint64
	Links       []Link
}

// walk advances password through numSteps reduction/hash rounds starting at
// step startStep, returning the password after the last round.
func walk(algo algorithm.Algorithm, password []byte, startStep uint64, numSteps uint64) ([]byte, error) {
	p := password
	for i := uint64(0); i < numSteps; i++ {
		h, err := algorithm.Hash(algo, p)
		if err != nil {
			return nil, err
		}

		p = reduction.Reduce(h, startStep+i, len(password))
	}

	return p, nil
}

// Build constructs a rainbow table from a set of seed passwords, each
// forming one chain of numLinks reduction/hash rounds.
func Build(algo algorithm.Algorithm, passwordLen int, numLinks uint64, seeds [][]byte) (*RainbowTable, error) {
	links := make([]Link, len(seeds))

	for i, seed := range seeds {
		if len(seed) != passwordLen {
			return nil, fmt.Errorf("seed %d has length %d, want %d", i, len(seed), passwordLen)
		}

		end, err := walk(algo, seed, 0, numLinks)
		if err != nil {
			return nil, err
		}

		links[i] = Link{Start: append([]byte(nil), seed...), End: end}
	}

	return &RainbowTable{
		Algorithm:   algo,
		PasswordLen: passwordLen,
		NumLinks:    numLinks,
		Links:       links,
	}, nil
}

// endpointIndex maps a chain-ending password to the link(s) that end there.
// Multiple chains may share an endpoint (a collision), so each key maps to a
// slice of candidate starts.
type endpointIndex map[string][][]byte

func (t *RainbowTable) index() endpointIndex {
	idx := make(endpointIndex, len(t.Links))
	for _, l := range t.Links {
		key := string(l.End)
		idx[key] = append(idx[key], l.Start)
	}

	return idx
}

// replay walks forward from start, hashing at each step, and reports whether
// any of those hashes equals target. On success it returns the password
// whose hash is target.
func replay(algo algorithm.Algorithm, start []byte, target []byte, numLinks uint64) ([]byte, bool, error) {
	p := start

	for i := uint64(0); i < numLinks; i++ {
		h, err := algorithm.Hash(algo, p)
		if err != nil {
			return nil, false, err
		}

		if bytes.Equal(h, target) {
			return append([]byte(nil), p...), true, nil
		}

		p = reduction.Reduce(h, i, len(start))
	}

	return nil, false, nil
}

// Crack searches t for a preimage of targetHash.
//
// It walks the chain-position index j from NumLinks-1 down to 0: for each j
// it assumes targetHash occurred at position j, reduces forward to the
// chain's terminal position, and checks the resulting endpoint against the
// table's endpoint index. A hit is only trusted after replaying the
// candidate chain from its recorded start and confirming it actually
// reproduces targetHash — chain endpoints can collide without the chains
// themselves ever containing the target, and this replay is what rules that
// false alarm out. The first hypothesis tried, j = NumLinks-1, needs no
// forward hashing at all; each smaller j walks one more step forward.
func Crack(t *RainbowTable, targetHash []byte) ([]byte, bool, error) {
	idx := t.index()

	if t.NumLinks == 0 {
		return nil, false, nil
	}

	for j := int64(t.NumLinks) - 1; j >= 0; j-- {
		step := uint64(j)

		candidate := reduction.Reduce(targetHash, step, t.PasswordLen)

		remaining := t.NumLinks - step - 1
		if remaining > 0 {
			var err error

			candidate, err = walk(t.Algorithm, candidate, step+1, remaining)
			if err != nil {
				return nil, false, err
			}
		}

		starts, ok := idx[string(candidate)]
		if !ok {
			continue
		}

		for _, start := range starts {
			if password, verified, err := replay(t.Algorithm, start, targetHash, t.NumLinks); err != nil {
				return nil, false, err
			} else if verified {
				return password, true, nil
			}
		}
	}

	return nil, false, nil
}
