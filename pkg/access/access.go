// Package access provides the capability check and the pause flag.
package access

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnauthorized is returned when a capability-gated call comes from a
// caller that is neither the owner nor a member of the admin set.
var ErrUnauthorized = errors.New("access: unauthorized caller")

// Controller combines the distinguished owner and the admin set behind a
// single privilege check, and carries the global pause flag.
type Controller struct {
	owner  common.Address
	admins map[common.Address]bool
	paused bool

	mu sync.RWMutex
}

// NewController creates a controller with the given owner and no admins.
func NewController(owner common.Address) *Controller {
	return &Controller{
		owner:  owner,
		admins: make(map[common.Address]bool),
	}
}

// Owner returns the distinguished owner address.
func (c *Controller) Owner() common.Address {
	return c.owner
}

// IsPrivileged reports whether the caller holds the admin capability.
// The owner is implicitly privileged.
func (c *Controller) IsPrivileged(caller common.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return caller == c.owner || c.admins[caller]
}

// AddAdmins adds addresses to the admin set. Already-present addresses
// are left as is.
func (c *Controller) AddAdmins(addrs []common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, addr := range addrs {
		c.admins[addr] = true
	}
}

// RemoveAdmins removes addresses from the admin set. The owner's implicit
// capability cannot be removed.
func (c *Controller) RemoveAdmins(addrs []common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, addr := range addrs {
		delete(c.admins, addr)
	}
}

// Admins returns the current admin set.
func (c *Controller) Admins() []common.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()

	addrs := make([]common.Address, 0, len(c.admins))
	for addr := range c.admins {
		addrs = append(addrs, addr)
	}
	return addrs
}

// Pause sets the pause flag.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.paused = true
}

// Unpause clears the pause flag.
func (c *Controller) Unpause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.paused = false
}

// IsPaused reports whether the system is paused.
func (c *Controller) IsPaused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.paused
}
