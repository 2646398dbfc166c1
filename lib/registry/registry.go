// Package registry holds every rainbow table the server has received,
// indexed for lookup by cracking requests.
package registry

import (
	"sync"
	"time"

	"github.com/hashassin/hashassin/lib/algorithm"
	"github.com/hashassin/hashassin/lib/chain"
)

// Entry pairs an uploaded table with the name it was uploaded under and the
// time it was inserted. Names need not be unique; a later upload does not
// replace an earlier one.
type Entry struct {
	Name     string
	LoadedAt time.Time
	Table    *chain.RainbowTable
}

// Registry is a concurrency-safe collection of uploaded rainbow tables. It
// supports insertion and consistent-snapshot scans, but no removal: tables
// are immutable and permanent for the lifetime of the server process.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Insert adds table under name. It always succeeds.
func (r *Registry) Insert(name string, table *chain.RainbowTable) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Entry{Name: name, LoadedAt: time.Now(), Table: table})
}

// ScanMatching returns every entry whose table matches algo and passwordLen,
// as of a single consistent snapshot of the registry.
func (r *Registry) ScanMatching(algo algorithm.Algorithm, passwordLen int) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Entry

	for _, e := range r.entries {
		if e.Table.Algorithm == algo && e.Table.PasswordLen == passwordLen {
			matches = append(matches, e)
		}
	}

	return matches
}

// Len returns the number of tables currently registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
