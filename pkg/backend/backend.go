// Package backend wires the drop components together from a configuration.
package backend

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/stable-net/nftdrop-go/pkg/access"
	"github.com/stable-net/nftdrop-go/pkg/admin"
	"github.com/stable-net/nftdrop-go/pkg/bank"
	"github.com/stable-net/nftdrop-go/pkg/config"
	"github.com/stable-net/nftdrop-go/pkg/events"
	"github.com/stable-net/nftdrop-go/pkg/genesis"
	"github.com/stable-net/nftdrop-go/pkg/ledger"
	"github.com/stable-net/nftdrop-go/pkg/merkle"
	"github.com/stable-net/nftdrop-go/pkg/mint"
	"github.com/stable-net/nftdrop-go/pkg/sale"
	"github.com/stable-net/nftdrop-go/pkg/snapshot"
	"github.com/stable-net/nftdrop-go/pkg/token"
)

// Backend holds all drop components, fully wired.
type Backend struct {
	Config   *config.Config
	Accounts []*genesis.Account

	Access    *access.Controller
	Bank      *bank.Bank
	Claims    *ledger.Ledger
	Sale      *sale.Manager
	Tokens    *token.Registry
	Events    *events.Log
	Engine    *mint.Engine
	Admin     *admin.Controller
	Snapshots *snapshot.Manager

	// Allowlist tree when members are configured inline; nil when only an
	// explicit root was supplied.
	Allowlist *merkle.Tree
}

// New builds a backend from the given configuration.
func New(cfg *config.Config) (*Backend, error) {
	cfg = config.MergeWithDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	accounts, err := genesis.GenerateAccounts(cfg.Mnemonic, cfg.AccountCount)
	if err != nil {
		return nil, fmt.Errorf("generate accounts: %w", err)
	}

	owner := cfg.Owner
	if owner == (common.Address{}) {
		owner = accounts[0].Address
	}
	treasury := cfg.Treasury
	if treasury == (common.Address{}) {
		treasury = owner
	}

	var allowlist *merkle.Tree
	root := cfg.AllowlistRoot
	if cfg.HasAllowlist() {
		allowlist, err = merkle.NewTree(cfg.Allowlist)
		if err != nil {
			return nil, fmt.Errorf("build allowlist tree: %w", err)
		}
		root = allowlist.Root()
	}

	accessController := access.NewController(owner)
	accessController.AddAdmins(cfg.Admins)

	b := bank.New()
	if err := genesis.FundAccounts(b, accounts, cfg.DefaultBalance); err != nil {
		return nil, err
	}

	claims := ledger.New()
	saleManager := sale.NewManager(sale.Params{
		PresaleActive:              cfg.Sale.PresaleActive,
		PublicSaleActive:           cfg.Sale.PublicSaleActive,
		WhitelistUnitPrice:         cfg.Sale.WhitelistUnitPrice,
		PublicUnitPrice:            cfg.Sale.PublicUnitPrice,
		MaxSupply:                  cfg.Sale.MaxSupply,
		MaxWhitelistMintPerAddress: cfg.Sale.MaxWhitelistMintPerAddress,
		MaxPublicMintPerAddress:    cfg.Sale.MaxPublicMintPerAddress,
	}, root, treasury)
	tokens := token.NewRegistry(cfg.BaseURI)
	eventLog := events.NewLog()

	return &Backend{
		Config:    cfg,
		Accounts:  accounts,
		Access:    accessController,
		Bank:      b,
		Claims:    claims,
		Sale:      saleManager,
		Tokens:    tokens,
		Events:    eventLog,
		Engine:    mint.NewEngine(saleManager, claims, tokens, b, accessController, eventLog),
		Admin:     admin.NewController(saleManager, accessController, tokens, eventLog),
		Snapshots: snapshot.NewManager(claims, saleManager, tokens, b),
		Allowlist: allowlist,
	}, nil
}

// AccountAddresses returns the dev account addresses.
func (b *Backend) AccountAddresses() []common.Address {
	return genesis.Addresses(b.Accounts)
}
