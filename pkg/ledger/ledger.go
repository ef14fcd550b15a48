// Package ledger tracks per-address claim counters for the drop.
package ledger

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// entry holds the claim counters for a single address.
// Counters only ever grow; entries are created on first claim.
type entry struct {
	whitelist uint64
	public    uint64
}

func (e *entry) copy() *entry {
	copied := *e
	return &copied
}

// snapshot holds a point-in-time ledger capture.
type snapshot struct {
	id      int
	entries map[common.Address]*entry
}

// Ledger records how many assets each address has claimed in each
// buyer class.
type Ledger struct {
	entries    map[common.Address]*entry
	snapshots  []*snapshot
	nextSnapID int

	mu sync.RWMutex
}

// New creates an empty claim ledger.
func New() *Ledger {
	return &Ledger{
		entries:   make(map[common.Address]*entry),
		snapshots: make([]*snapshot, 0),
	}
}

// WhitelistClaimed returns the whitelist-class claim count for an address.
func (l *Ledger) WhitelistClaimed(addr common.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if e, ok := l.entries[addr]; ok {
		return e.whitelist
	}
	return 0
}

// PublicClaimed returns the public-class claim count for an address.
func (l *Ledger) PublicClaimed(addr common.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if e, ok := l.entries[addr]; ok {
		return e.public
	}
	return 0
}

// AddWhitelistClaim increments the whitelist counter for an address.
func (l *Ledger) AddWhitelistClaim(addr common.Address, quantity uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.getOrCreate(addr)
	e.whitelist = addChecked(e.whitelist, quantity)
}

// AddPublicClaim increments the public counter for an address.
func (l *Ledger) AddPublicClaim(addr common.Address, quantity uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.getOrCreate(addr)
	e.public = addChecked(e.public, quantity)
}

// Entries returns the number of addresses that have claimed at least once.
func (l *Ledger) Entries() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.entries)
}

// Snapshot captures the current ledger state and returns a snapshot ID.
func (l *Ledger) Snapshot() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	copied := make(map[common.Address]*entry, len(l.entries))
	for addr, e := range l.entries {
		copied[addr] = e.copy()
	}

	id := l.nextSnapID
	l.nextSnapID++
	l.snapshots = append(l.snapshots, &snapshot{id: id, entries: copied})
	return id
}

// RevertToSnapshot restores the ledger to a previous snapshot.
// The snapshot and all later ones are discarded.
func (l *Ledger) RevertToSnapshot(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, snap := range l.snapshots {
		if snap.id == id {
			restored := make(map[common.Address]*entry, len(snap.entries))
			for addr, e := range snap.entries {
				restored[addr] = e.copy()
			}
			l.entries = restored
			l.snapshots = l.snapshots[:i]
			return
		}
	}
}

func (l *Ledger) getOrCreate(addr common.Address) *entry {
	if e, ok := l.entries[addr]; ok {
		return e
	}
	e := &entry{}
	l.entries[addr] = e
	return e
}

// addChecked adds two counters and panics on wraparound. The cap checks in
// the issuance engine bound every increment, so overflow here means an
// internal invariant was violated.
func addChecked(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		panic("ledger: claim counter overflow")
	}
	return sum
}
