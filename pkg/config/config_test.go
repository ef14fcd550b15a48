package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultAccountCount, cfg.AccountCount)
	assert.Equal(t, DefaultMnemonic, cfg.Mnemonic)
	assert.Equal(t, DefaultMaxSupply, cfg.Sale.MaxSupply)
	assert.False(t, cfg.Sale.PresaleActive)
	assert.False(t, cfg.Sale.PublicSaleActive)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_PortRange(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	assert.ErrorContains(t, cfg.Validate(), "port")

	cfg.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "port")
}

func TestValidate_AccountCount(t *testing.T) {
	cfg := Default()
	cfg.AccountCount = 0
	assert.ErrorContains(t, cfg.Validate(), "accountCount")
}

func TestValidate_Mnemonic(t *testing.T) {
	cfg := Default()
	cfg.Mnemonic = "not a mnemonic"
	assert.ErrorContains(t, cfg.Validate(), "mnemonic")
}

func TestValidate_Sale(t *testing.T) {
	cfg := Default()
	cfg.Sale.MaxSupply = 0
	assert.ErrorContains(t, cfg.Validate(), "maxSupply")

	cfg = Default()
	cfg.Sale.WhitelistUnitPrice = nil
	assert.ErrorContains(t, cfg.Validate(), "whitelistUnitPrice")

	cfg = Default()
	cfg.Sale.PublicUnitPrice = big.NewInt(-1)
	assert.ErrorContains(t, cfg.Validate(), "publicUnitPrice")
}

func TestValidate_AllowlistExclusivity(t *testing.T) {
	cfg := Default()
	cfg.Allowlist = []common.Address{common.HexToAddress("0x01")}
	cfg.AllowlistRoot = common.HexToHash("0x02")
	assert.ErrorContains(t, cfg.Validate(), "mutually exclusive")
}

func TestMergeWithDefaults(t *testing.T) {
	partial := &Config{
		Port: 9000,
		Sale: SaleConfig{
			PresaleActive: true,
			MaxSupply:     77,
		},
	}

	merged := MergeWithDefaults(partial)

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, DefaultHost, merged.Host)
	assert.Equal(t, DefaultMnemonic, merged.Mnemonic)
	assert.True(t, merged.Sale.PresaleActive)
	assert.Equal(t, uint64(77), merged.Sale.MaxSupply)
	assert.Equal(t, DefaultWhitelistPrice, merged.Sale.WhitelistUnitPrice)
	assert.Equal(t, DefaultWhitelistCap, merged.Sale.MaxWhitelistMintPerAddress)
}

func TestLoadFromFile(t *testing.T) {
	content := `{
		"port": 9999,
		"allowlist": ["0x1111111111111111111111111111111111111111"],
		"sale": {
			"presaleActive": true,
			"whitelistUnitPrice": 5000,
			"maxSupply": 250
		}
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.True(t, cfg.Sale.PresaleActive)
	assert.Equal(t, big.NewInt(5000), cfg.Sale.WhitelistUnitPrice)
	assert.Equal(t, uint64(250), cfg.Sale.MaxSupply)
	assert.True(t, cfg.HasAllowlist())
	// Unspecified fields fall back to defaults.
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPublicPrice, cfg.Sale.PublicUnitPrice)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadFromFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "parse")
}

func TestCopy(t *testing.T) {
	cfg := Default()
	cfg.Admins = []common.Address{common.HexToAddress("0x01")}
	cfg.Allowlist = []common.Address{common.HexToAddress("0x02")}

	copied := cfg.Copy()
	copied.Sale.WhitelistUnitPrice.SetInt64(1)
	copied.Admins[0] = common.HexToAddress("0xff")

	assert.Equal(t, DefaultWhitelistPrice, cfg.Sale.WhitelistUnitPrice)
	assert.Equal(t, common.HexToAddress("0x01"), cfg.Admins[0])
}

func TestServerAddr(t *testing.T) {
	cfg := Default()
	cfg.Host = "0.0.0.0"
	cfg.Port = 1234
	assert.Equal(t, "0.0.0.0:1234", cfg.ServerAddr())
}
