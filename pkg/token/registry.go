// Package token provides the token-identity ledger: it mints and burns
// unique asset IDs, tracks ownership and lifetime issuance, and resolves
// metadata URIs.
package token

import (
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// snapshot holds a point-in-time registry capture.
type snapshot struct {
	id          int
	owners      map[uint64]common.Address
	balances    map[common.Address]uint64
	totalIssued uint64
	nextID      uint64
	baseURI     string
}

// Registry tracks issued assets. IDs are sequential starting at 1 and are
// never reused after a burn; TotalIssued counts lifetime issuance, so the
// supply ceiling is a ceiling on everything ever minted.
type Registry struct {
	owners      map[uint64]common.Address
	balances    map[common.Address]uint64
	totalIssued uint64
	nextID      uint64
	baseURI     string

	snapshots  []*snapshot
	nextSnapID int

	mu sync.RWMutex
}

// NewRegistry creates an empty registry with the given metadata base URI.
func NewRegistry(baseURI string) *Registry {
	return &Registry{
		owners:    make(map[uint64]common.Address),
		balances:  make(map[common.Address]uint64),
		nextID:    1,
		baseURI:   baseURI,
		snapshots: make([]*snapshot, 0),
	}
}

// Issue mints quantity new assets to the recipient and returns their IDs.
func (r *Registry) Issue(to common.Address, quantity uint64) ([]uint64, error) {
	if quantity == 0 {
		return nil, ErrZeroQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uint64, 0, quantity)
	for i := uint64(0); i < quantity; i++ {
		id := r.nextID
		r.nextID++
		r.owners[id] = to
		ids = append(ids, id)
	}
	r.balances[to] += quantity
	r.totalIssued += quantity

	return ids, nil
}

// Burn destroys an asset. The caller must currently own it.
func (r *Registry) Burn(caller common.Address, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.owners[id]
	if !ok {
		return ErrAssetNotFound
	}
	if owner != caller {
		return ErrNotAssetOwner
	}

	delete(r.owners, id)
	r.balances[owner]--

	return nil
}

// OwnerOf returns the current owner of an asset.
func (r *Registry) OwnerOf(id uint64) (common.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.owners[id]
	if !ok {
		return common.Address{}, ErrAssetNotFound
	}
	return owner, nil
}

// BalanceOf returns the number of assets an address currently owns.
func (r *Registry) BalanceOf(addr common.Address) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.balances[addr]
}

// TotalIssued returns the lifetime issuance count. Burns do not decrease it.
func (r *Registry) TotalIssued() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.totalIssued
}

// Exists reports whether an asset is currently issued and not burned.
func (r *Registry) Exists(id uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.owners[id]
	return ok
}

// TokenURI resolves the metadata URI for an asset.
func (r *Registry) TokenURI(id uint64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.owners[id]; !ok {
		return "", ErrAssetNotFound
	}
	return r.baseURI + strconv.FormatUint(id, 10), nil
}

// BaseURI returns the current metadata base URI.
func (r *Registry) BaseURI() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.baseURI
}

// SetBaseURI replaces the metadata base URI.
func (r *Registry) SetBaseURI(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.baseURI = uri
}

// Snapshot captures the current registry state and returns a snapshot ID.
func (r *Registry) Snapshot() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSnapID
	r.nextSnapID++
	r.snapshots = append(r.snapshots, &snapshot{
		id:          id,
		owners:      copyOwners(r.owners),
		balances:    copyBalances(r.balances),
		totalIssued: r.totalIssued,
		nextID:      r.nextID,
		baseURI:     r.baseURI,
	})
	return id
}

// RevertToSnapshot restores a previous snapshot, discarding it and all
// later ones.
func (r *Registry) RevertToSnapshot(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, snap := range r.snapshots {
		if snap.id == id {
			r.owners = copyOwners(snap.owners)
			r.balances = copyBalances(snap.balances)
			r.totalIssued = snap.totalIssued
			r.nextID = snap.nextID
			r.baseURI = snap.baseURI
			r.snapshots = r.snapshots[:i]
			return
		}
	}
}

func copyOwners(m map[uint64]common.Address) map[uint64]common.Address {
	copied := make(map[uint64]common.Address, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}

func copyBalances(m map[common.Address]uint64) map[common.Address]uint64 {
	copied := make(map[common.Address]uint64, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}
