// Package sale holds the mutable sale configuration: phase flags, unit
// prices, supply ceiling, per-address caps, the allowlist commitment and
// the treasury destination.
package sale

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Class identifies a buyer class.
type Class string

// Buyer classes.
const (
	Whitelist Class = "whitelist"
	Public    Class = "public"
)

// Valid reports whether the class is a known buyer class.
func (c Class) Valid() bool {
	return c == Whitelist || c == Public
}

// Params holds the sale configuration fields.
type Params struct {
	PresaleActive              bool
	PublicSaleActive           bool
	WhitelistUnitPrice         *big.Int
	PublicUnitPrice            *big.Int
	MaxSupply                  uint64
	MaxWhitelistMintPerAddress uint64
	MaxPublicMintPerAddress    uint64
}

// copy creates a deep copy of the params.
func (p Params) copy() Params {
	copied := p
	if p.WhitelistUnitPrice != nil {
		copied.WhitelistUnitPrice = new(big.Int).Set(p.WhitelistUnitPrice)
	}
	if p.PublicUnitPrice != nil {
		copied.PublicUnitPrice = new(big.Int).Set(p.PublicUnitPrice)
	}
	return copied
}

// snapshot holds a point-in-time capture of the sale state.
type snapshot struct {
	id            int
	params        Params
	allowlistRoot common.Hash
	treasury      common.Address
}

// Manager owns the runtime sale state. All mutation goes through the
// admin controller; reads are served to anyone.
type Manager struct {
	params        Params
	allowlistRoot common.Hash
	treasury      common.Address

	snapshots  []*snapshot
	nextSnapID int

	mu sync.RWMutex
}

// NewManager creates a sale manager with the given initial state.
func NewManager(params Params, allowlistRoot common.Hash, treasury common.Address) *Manager {
	return &Manager{
		params:        params.copy(),
		allowlistRoot: allowlistRoot,
		treasury:      treasury,
		snapshots:     make([]*snapshot, 0),
	}
}

// Params returns a consistent copy of the sale configuration.
func (m *Manager) Params() Params {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.params.copy()
}

// AllowlistRoot returns the current allowlist commitment root.
func (m *Manager) AllowlistRoot() common.Hash {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.allowlistRoot
}

// Treasury returns the current treasury destination.
func (m *Manager) Treasury() common.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.treasury
}

// SetAllowlistRoot replaces the allowlist commitment root.
func (m *Manager) SetAllowlistRoot(root common.Hash) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.allowlistRoot = root
}

// SetTreasury replaces the treasury destination.
func (m *Manager) SetTreasury(addr common.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.treasury = addr
}

// SetUnitPrice sets the unit price for a buyer class.
func (m *Manager) SetUnitPrice(class Class, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	price := new(big.Int).Set(amount)
	if class == Whitelist {
		m.params.WhitelistUnitPrice = price
	} else {
		m.params.PublicUnitPrice = price
	}
}

// SetMaxSupply sets the global supply ceiling.
func (m *Manager) SetMaxSupply(max uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.params.MaxSupply = max
}

// SetPerAddressCap sets the per-address claim ceiling for a buyer class.
func (m *Manager) SetPerAddressCap(class Class, max uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if class == Whitelist {
		m.params.MaxWhitelistMintPerAddress = max
	} else {
		m.params.MaxPublicMintPerAddress = max
	}
}

// SetPresaleActive toggles the presale flag without touching the public flag.
func (m *Manager) SetPresaleActive(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.params.PresaleActive = active
}

// SetPublicSaleActive toggles the public flag without touching the presale flag.
func (m *Manager) SetPublicSaleActive(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.params.PublicSaleActive = active
}

// SetPhase sets both phase flags in one step.
func (m *Manager) SetPhase(presale, public bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.params.PresaleActive = presale
	m.params.PublicSaleActive = public
}

// SwitchToPublicPhase atomically ends the presale and opens the public
// sale. No reader can observe one flag transitioned without the other.
func (m *Manager) SwitchToPublicPhase() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.params.PresaleActive = false
	m.params.PublicSaleActive = true
}

// Snapshot captures the current sale state and returns a snapshot ID.
func (m *Manager) Snapshot() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSnapID
	m.nextSnapID++
	m.snapshots = append(m.snapshots, &snapshot{
		id:            id,
		params:        m.params.copy(),
		allowlistRoot: m.allowlistRoot,
		treasury:      m.treasury,
	})
	return id
}

// RevertToSnapshot restores a previous snapshot, discarding it and all
// later ones.
func (m *Manager) RevertToSnapshot(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, snap := range m.snapshots {
		if snap.id == id {
			m.params = snap.params.copy()
			m.allowlistRoot = snap.allowlistRoot
			m.treasury = snap.treasury
			m.snapshots = m.snapshots[:i]
			return
		}
	}
}
