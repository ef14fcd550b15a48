// Package admin provides the capability-gated mutation surface over the
// sale configuration, the allowlist commitment, the treasury destination,
// the admin set and the pause flag.
package admin

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/stable-net/nftdrop-go/pkg/access"
	"github.com/stable-net/nftdrop-go/pkg/events"
	"github.com/stable-net/nftdrop-go/pkg/sale"
	"github.com/stable-net/nftdrop-go/pkg/token"
)

// ErrUnknownClass is returned for a price or cap mutation naming a class
// that is neither whitelist nor public.
var ErrUnknownClass = errors.New("admin: unknown buyer class")

// Controller applies admin mutations after checking the caller's
// capability. Every method rejects non-privileged callers with
// access.ErrUnauthorized before touching any state.
type Controller struct {
	sale   *sale.Manager
	access *access.Controller
	tokens *token.Registry
	events *events.Log
}

// NewController creates an admin controller.
func NewController(saleManager *sale.Manager, accessController *access.Controller, tokens *token.Registry, eventLog *events.Log) *Controller {
	return &Controller{
		sale:   saleManager,
		access: accessController,
		tokens: tokens,
		events: eventLog,
	}
}

func (c *Controller) authorize(caller common.Address) error {
	if !c.access.IsPrivileged(caller) {
		return access.ErrUnauthorized
	}
	return nil
}

// SetAllowlistRoot replaces the allowlist commitment root.
func (c *Controller) SetAllowlistRoot(caller common.Address, root common.Hash) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.sale.SetAllowlistRoot(root)
	c.events.AppendConfig(caller, "allowlistRoot", root.Hex())
	return nil
}

// SetTreasury replaces the treasury destination.
func (c *Controller) SetTreasury(caller common.Address, treasury common.Address) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.sale.SetTreasury(treasury)
	c.events.AppendConfig(caller, "treasury", treasury.Hex())
	return nil
}

// SetUnitPrice sets the unit price for a buyer class.
func (c *Controller) SetUnitPrice(caller common.Address, class sale.Class, amount *big.Int) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	if !class.Valid() {
		return ErrUnknownClass
	}
	c.sale.SetUnitPrice(class, amount)
	c.events.AppendConfig(caller, string(class)+"UnitPrice", amount.String())
	return nil
}

// SetMaxSupply sets the global supply ceiling.
func (c *Controller) SetMaxSupply(caller common.Address, max uint64) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.sale.SetMaxSupply(max)
	c.events.AppendConfig(caller, "maxSupply", strconv.FormatUint(max, 10))
	return nil
}

// SetPerAddressCap sets the per-address claim ceiling for a buyer class.
func (c *Controller) SetPerAddressCap(caller common.Address, class sale.Class, max uint64) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	if !class.Valid() {
		return ErrUnknownClass
	}
	c.sale.SetPerAddressCap(class, max)
	c.events.AppendConfig(caller, string(class)+"Cap", strconv.FormatUint(max, 10))
	return nil
}

// SetPresaleActive toggles the presale flag only.
func (c *Controller) SetPresaleActive(caller common.Address, active bool) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.sale.SetPresaleActive(active)
	c.events.AppendConfig(caller, "presaleActive", strconv.FormatBool(active))
	return nil
}

// SetPublicSaleActive toggles the public-sale flag only.
func (c *Controller) SetPublicSaleActive(caller common.Address, active bool) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.sale.SetPublicSaleActive(active)
	c.events.AppendConfig(caller, "publicSaleActive", strconv.FormatBool(active))
	return nil
}

// SetPhase sets both phase flags in one step.
func (c *Controller) SetPhase(caller common.Address, presale, public bool) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.sale.SetPhase(presale, public)
	c.events.AppendConfig(caller, "phase", fmt.Sprintf("presale=%t public=%t", presale, public))
	return nil
}

// SwitchToPublicPhase atomically ends the presale and opens the public sale.
func (c *Controller) SwitchToPublicPhase(caller common.Address) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.sale.SwitchToPublicPhase()
	c.events.AppendConfig(caller, "phase", "presale=false public=true")
	return nil
}

// AddAdmins adds addresses to the admin set.
func (c *Controller) AddAdmins(caller common.Address, addrs []common.Address) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.access.AddAdmins(addrs)
	c.events.AppendConfig(caller, "addAdmins", strconv.Itoa(len(addrs)))
	return nil
}

// RemoveAdmins removes addresses from the admin set.
func (c *Controller) RemoveAdmins(caller common.Address, addrs []common.Address) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.access.RemoveAdmins(addrs)
	c.events.AppendConfig(caller, "removeAdmins", strconv.Itoa(len(addrs)))
	return nil
}

// Pause sets the pause flag.
func (c *Controller) Pause(caller common.Address) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.access.Pause()
	c.events.AppendConfig(caller, "paused", "true")
	return nil
}

// Unpause clears the pause flag.
func (c *Controller) Unpause(caller common.Address) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.access.Unpause()
	c.events.AppendConfig(caller, "paused", "false")
	return nil
}

// SetBaseURI replaces the metadata base URI.
func (c *Controller) SetBaseURI(caller common.Address, uri string) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	c.tokens.SetBaseURI(uri)
	c.events.AppendConfig(caller, "baseURI", uri)
	return nil
}

// Burn destroys an asset. Besides the admin capability, the caller must
// currently own the asset, so privileged callers that do not hold it fail
// with token.ErrNotAssetOwner.
func (c *Controller) Burn(caller common.Address, id uint64) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	if err := c.tokens.Burn(caller, id); err != nil {
		return err
	}
	c.events.AppendBurn(caller, id)
	return nil
}
