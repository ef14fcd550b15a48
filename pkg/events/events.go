// Package events provides an append-only log of drop activity, the
// simulator's stand-in for emitted contract events.
package events

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Event kinds.
const (
	KindMint   = "mint"
	KindBurn   = "burn"
	KindConfig = "config"
)

// Event is a single log entry. Mint events carry class, quantity, token
// IDs and the amount paid; config events carry the mutated field and its
// new value rendered as a string.
type Event struct {
	Kind     string         `json:"kind"`
	Actor    common.Address `json:"actor"`
	Class    string         `json:"class,omitempty"`
	Quantity uint64         `json:"quantity,omitempty"`
	TokenIDs []uint64       `json:"tokenIds,omitempty"`
	Paid     *hexutil.Big   `json:"paid,omitempty"`
	TokenID  uint64         `json:"tokenId,omitempty"`
	Field    string         `json:"field,omitempty"`
	Value    string         `json:"value,omitempty"`
}

// Log is an append-only event log.
type Log struct {
	events []Event

	mu sync.RWMutex
}

// NewLog creates an empty event log.
func NewLog() *Log {
	return &Log{events: make([]Event, 0)}
}

// AppendMint records a successful mint.
func (l *Log) AppendMint(actor common.Address, class string, quantity uint64, tokenIDs []uint64, paid *big.Int) {
	l.append(Event{
		Kind:     KindMint,
		Actor:    actor,
		Class:    class,
		Quantity: quantity,
		TokenIDs: tokenIDs,
		Paid:     (*hexutil.Big)(new(big.Int).Set(paid)),
	})
}

// AppendBurn records a burn.
func (l *Log) AppendBurn(actor common.Address, tokenID uint64) {
	l.append(Event{Kind: KindBurn, Actor: actor, TokenID: tokenID})
}

// AppendConfig records an admin mutation.
func (l *Log) AppendConfig(actor common.Address, field, value string) {
	l.append(Event{Kind: KindConfig, Actor: actor, Field: field, Value: value})
}

// All returns a copy of every recorded event in order.
func (l *Log) All() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// ByKind returns all events of one kind in order.
func (l *Log) ByKind(kind string) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Event, 0)
	for _, ev := range l.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Count returns the number of recorded events.
func (l *Log) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.events)
}

// Clear drops all recorded events.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = l.events[:0]
}

func (l *Log) append(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, ev)
}
