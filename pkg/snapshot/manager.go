// Package snapshot provides point-in-time capture and revert across the
// drop's state: claim ledger, sale configuration, token registry and bank.
package snapshot

import (
	"sync"

	"github.com/stable-net/nftdrop-go/pkg/bank"
	"github.com/stable-net/nftdrop-go/pkg/ledger"
	"github.com/stable-net/nftdrop-go/pkg/sale"
	"github.com/stable-net/nftdrop-go/pkg/token"
)

// Snapshot ties together the component-level snapshot IDs taken at the
// same instant.
type Snapshot struct {
	ID           uint64
	LedgerSnapID int
	SaleSnapID   int
	TokenSnapID  int
	BankSnapID   int
}

// Manager manages composite snapshots of the drop state.
type Manager struct {
	claims *ledger.Ledger
	sale   *sale.Manager
	tokens *token.Registry
	bank   *bank.Bank

	snapshots map[uint64]*Snapshot
	nextID    uint64

	mu sync.RWMutex
}

// NewManager creates a snapshot manager over the given components.
func NewManager(claims *ledger.Ledger, saleManager *sale.Manager, tokens *token.Registry, b *bank.Bank) *Manager {
	return &Manager{
		claims:    claims,
		sale:      saleManager,
		tokens:    tokens,
		bank:      b,
		snapshots: make(map[uint64]*Snapshot),
		nextID:    1,
	}
}

// Snapshot captures all components and returns the composite snapshot ID.
func (m *Manager) Snapshot() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := &Snapshot{
		ID:           m.nextID,
		LedgerSnapID: m.claims.Snapshot(),
		SaleSnapID:   m.sale.Snapshot(),
		TokenSnapID:  m.tokens.Snapshot(),
		BankSnapID:   m.bank.Snapshot(),
	}

	m.snapshots[m.nextID] = snap
	m.nextID++

	return snap.ID
}

// Revert restores a previous snapshot. All snapshots with an ID greater
// than or equal to the reverted one are discarded.
func (m *Manager) Revert(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, exists := m.snapshots[id]
	if !exists {
		return false
	}

	m.claims.RevertToSnapshot(snap.LedgerSnapID)
	m.sale.RevertToSnapshot(snap.SaleSnapID)
	m.tokens.RevertToSnapshot(snap.TokenSnapID)
	m.bank.RevertToSnapshot(snap.BankSnapID)

	for snapID := range m.snapshots {
		if snapID >= id {
			delete(m.snapshots, snapID)
		}
	}

	return true
}

// Delete removes a snapshot without reverting to it.
func (m *Manager) Delete(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.snapshots[id]; !exists {
		return false
	}

	delete(m.snapshots, id)
	return true
}

// List returns all snapshot IDs.
func (m *Manager) List() []uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]uint64, 0, len(m.snapshots))
	for id := range m.snapshots {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of snapshots.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.snapshots)
}

// Clear removes all snapshots.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots = make(map[uint64]*Snapshot)
}
