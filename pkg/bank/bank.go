// Package bank provides native-currency accounting for the simulator:
// per-address balances, payment transfers, and receive hooks standing in
// for a recipient contract's fallback code.
package bank

import (
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Bank errors.
var (
	ErrInsufficientBalance = errors.New("bank: insufficient balance")
	ErrInvalidAmount       = errors.New("bank: amount must be non-negative")
)

// ReceiveHook runs synchronously after a credit lands on the hooked
// address, the way a contract's receive function runs during a transfer.
// Reentrancy attempts against the issuance engine originate here.
type ReceiveHook func(from common.Address, amount *big.Int)

// snapshot holds a point-in-time balance capture.
type snapshot struct {
	id       int
	balances map[common.Address]*big.Int
}

// Bank tracks native balances for all participants.
type Bank struct {
	balances map[common.Address]*big.Int
	hooks    map[common.Address]ReceiveHook

	snapshots  []*snapshot
	nextSnapID int

	mu sync.RWMutex
}

// New creates an empty bank.
func New() *Bank {
	return &Bank{
		balances:  make(map[common.Address]*big.Int),
		hooks:     make(map[common.Address]ReceiveHook),
		snapshots: make([]*snapshot, 0),
	}
}

// Fund credits an address without a counterparty (genesis allocation,
// dev faucet).
func (b *Bank) Fund(addr common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.credit(addr, amount)
	return nil
}

// BalanceOf returns the balance of an address.
func (b *Bank) BalanceOf(addr common.Address) *big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if bal, ok := b.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return big.NewInt(0)
}

// Transfer moves amount from one address to another. The debit and credit
// happen atomically; the recipient's receive hook, if any, runs after the
// balances have settled and outside the bank's lock.
func (b *Bank) Transfer(from, to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	b.mu.Lock()
	bal, ok := b.balances[from]
	if !ok || bal.Cmp(amount) < 0 {
		b.mu.Unlock()
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)
	b.credit(to, amount)
	hook := b.hooks[to]
	b.mu.Unlock()

	if hook != nil {
		hook(from, new(big.Int).Set(amount))
	}
	return nil
}

// SetReceiveHook installs a receive hook for an address. A nil hook
// removes it.
func (b *Bank) SetReceiveHook(addr common.Address, hook ReceiveHook) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if hook == nil {
		delete(b.hooks, addr)
		return
	}
	b.hooks[addr] = hook
}

// Snapshot captures the current balances and returns a snapshot ID.
// Hooks are not part of the snapshot.
func (b *Bank) Snapshot() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSnapID
	b.nextSnapID++
	b.snapshots = append(b.snapshots, &snapshot{id: id, balances: copyBalances(b.balances)})
	return id
}

// RevertToSnapshot restores a previous snapshot, discarding it and all
// later ones.
func (b *Bank) RevertToSnapshot(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, snap := range b.snapshots {
		if snap.id == id {
			b.balances = copyBalances(snap.balances)
			b.snapshots = b.snapshots[:i]
			return
		}
	}
}

// credit adds to an address's balance; caller holds the lock.
func (b *Bank) credit(addr common.Address, amount *big.Int) {
	bal, ok := b.balances[addr]
	if !ok {
		bal = big.NewInt(0)
		b.balances[addr] = bal
	}
	bal.Add(bal, amount)
}

func copyBalances(m map[common.Address]*big.Int) map[common.Address]*big.Int {
	copied := make(map[common.Address]*big.Int, len(m))
	for addr, bal := range m {
		copied[addr] = new(big.Int).Set(bal)
	}
	return copied
}
