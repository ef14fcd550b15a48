// Package config provides configuration management for the drop simulator.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tyler-smith/go-bip39"
)

// Default values.
var (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8547
	DefaultAccountCount   = 10
	DefaultBalance        = new(big.Int).Mul(big.NewInt(10000), big.NewInt(1e18)) // 10000 ETH
	DefaultMnemonic       = "test test test test test test test test test test test junk"
	DefaultBaseURI        = "ipfs://drop/"
	DefaultWhitelistPrice = big.NewInt(1e16) // 0.01 ETH
	DefaultPublicPrice    = big.NewInt(2e16) // 0.02 ETH
	DefaultMaxSupply      = uint64(10000)
	DefaultWhitelistCap   = uint64(5)
	DefaultPublicCap      = uint64(10)
)

// Config defines the simulator configuration.
type Config struct {
	// Server configuration
	Host string `json:"host"`
	Port int    `json:"port"`

	// Dev account configuration
	AccountCount   int      `json:"accountCount"`
	DefaultBalance *big.Int `json:"defaultBalance"`
	Mnemonic       string   `json:"mnemonic"`

	// Drop roles. A zero owner defaults to the first dev account; a zero
	// treasury defaults to the owner.
	Owner    common.Address   `json:"owner,omitempty"`
	Admins   []common.Address `json:"admins,omitempty"`
	Treasury common.Address   `json:"treasury,omitempty"`

	// Allowlist. Either the member addresses (the commitment root is
	// computed at startup) or an explicit root when the set is managed
	// elsewhere.
	Allowlist     []common.Address `json:"allowlist,omitempty"`
	AllowlistRoot common.Hash      `json:"allowlistRoot,omitempty"`

	// Metadata
	BaseURI string `json:"baseUri"`

	// Initial sale state
	Sale SaleConfig `json:"sale"`
}

// SaleConfig defines the initial sale parameters.
type SaleConfig struct {
	PresaleActive              bool     `json:"presaleActive"`
	PublicSaleActive           bool     `json:"publicSaleActive"`
	WhitelistUnitPrice         *big.Int `json:"whitelistUnitPrice"`
	PublicUnitPrice            *big.Int `json:"publicUnitPrice"`
	MaxSupply                  uint64   `json:"maxSupply"`
	MaxWhitelistMintPerAddress uint64   `json:"maxWhitelistMintPerAddress"`
	MaxPublicMintPerAddress    uint64   `json:"maxPublicMintPerAddress"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Host:           DefaultHost,
		Port:           DefaultPort,
		AccountCount:   DefaultAccountCount,
		DefaultBalance: new(big.Int).Set(DefaultBalance),
		Mnemonic:       DefaultMnemonic,
		BaseURI:        DefaultBaseURI,
		Sale: SaleConfig{
			PresaleActive:              false,
			PublicSaleActive:           false,
			WhitelistUnitPrice:         new(big.Int).Set(DefaultWhitelistPrice),
			PublicUnitPrice:            new(big.Int).Set(DefaultPublicPrice),
			MaxSupply:                  DefaultMaxSupply,
			MaxWhitelistMintPerAddress: DefaultWhitelistCap,
			MaxPublicMintPerAddress:    DefaultPublicCap,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}

	if c.AccountCount <= 0 {
		errs = append(errs, "accountCount must be greater than 0")
	}

	if c.Mnemonic != "" && !bip39.IsMnemonicValid(c.Mnemonic) {
		errs = append(errs, "mnemonic is invalid")
	}

	if c.Sale.MaxSupply == 0 {
		errs = append(errs, "sale.maxSupply must be greater than 0")
	}

	if c.Sale.WhitelistUnitPrice == nil || c.Sale.WhitelistUnitPrice.Sign() < 0 {
		errs = append(errs, "sale.whitelistUnitPrice must be a non-negative amount")
	}

	if c.Sale.PublicUnitPrice == nil || c.Sale.PublicUnitPrice.Sign() < 0 {
		errs = append(errs, "sale.publicUnitPrice must be a non-negative amount")
	}

	if len(c.Allowlist) > 0 && c.AllowlistRoot != (common.Hash{}) {
		errs = append(errs, "allowlist and allowlistRoot are mutually exclusive")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// LoadFromFile loads configuration from a JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return MergeWithDefaults(&cfg), nil
}

// MergeWithDefaults merges partial config with default values.
func MergeWithDefaults(partial *Config) *Config {
	def := Default()

	if partial.Host != "" {
		def.Host = partial.Host
	}
	if partial.Port != 0 {
		def.Port = partial.Port
	}
	if partial.AccountCount != 0 {
		def.AccountCount = partial.AccountCount
	}
	if partial.DefaultBalance != nil {
		def.DefaultBalance = partial.DefaultBalance
	}
	if partial.Mnemonic != "" {
		def.Mnemonic = partial.Mnemonic
	}
	if partial.BaseURI != "" {
		def.BaseURI = partial.BaseURI
	}
	def.Owner = partial.Owner
	def.Admins = partial.Admins
	def.Treasury = partial.Treasury
	def.Allowlist = partial.Allowlist
	def.AllowlistRoot = partial.AllowlistRoot

	def.Sale.PresaleActive = partial.Sale.PresaleActive
	def.Sale.PublicSaleActive = partial.Sale.PublicSaleActive
	if partial.Sale.WhitelistUnitPrice != nil {
		def.Sale.WhitelistUnitPrice = partial.Sale.WhitelistUnitPrice
	}
	if partial.Sale.PublicUnitPrice != nil {
		def.Sale.PublicUnitPrice = partial.Sale.PublicUnitPrice
	}
	if partial.Sale.MaxSupply != 0 {
		def.Sale.MaxSupply = partial.Sale.MaxSupply
	}
	if partial.Sale.MaxWhitelistMintPerAddress != 0 {
		def.Sale.MaxWhitelistMintPerAddress = partial.Sale.MaxWhitelistMintPerAddress
	}
	if partial.Sale.MaxPublicMintPerAddress != 0 {
		def.Sale.MaxPublicMintPerAddress = partial.Sale.MaxPublicMintPerAddress
	}

	return def
}

// Copy creates a deep copy of the configuration.
func (c *Config) Copy() *Config {
	copied := *c

	if c.DefaultBalance != nil {
		copied.DefaultBalance = new(big.Int).Set(c.DefaultBalance)
	}
	if c.Sale.WhitelistUnitPrice != nil {
		copied.Sale.WhitelistUnitPrice = new(big.Int).Set(c.Sale.WhitelistUnitPrice)
	}
	if c.Sale.PublicUnitPrice != nil {
		copied.Sale.PublicUnitPrice = new(big.Int).Set(c.Sale.PublicUnitPrice)
	}

	if c.Admins != nil {
		copied.Admins = make([]common.Address, len(c.Admins))
		copy(copied.Admins, c.Admins)
	}
	if c.Allowlist != nil {
		copied.Allowlist = make([]common.Address, len(c.Allowlist))
		copy(copied.Allowlist, c.Allowlist)
	}

	return &copied
}

// ServerAddr returns the server address string.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HasAllowlist returns true if allowlist members are configured inline.
func (c *Config) HasAllowlist() bool {
	return len(c.Allowlist) > 0
}
