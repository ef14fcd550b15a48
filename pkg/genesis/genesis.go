// Package genesis provides deterministic funded dev accounts.
package genesis

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/stable-net/nftdrop-go/pkg/bank"
)

// Account represents a dev account with its private key.
type Account struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
}

// GenerateAccounts generates deterministic accounts from a mnemonic.
func GenerateAccounts(mnemonic string, count int) ([]*Account, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, "")
	accounts := make([]*Account, count)

	for i := 0; i < count; i++ {
		key, err := deriveKey(seed, uint32(i))
		if err != nil {
			return nil, fmt.Errorf("failed to derive key %d: %w", i, err)
		}

		accounts[i] = &Account{
			Address:    crypto.PubkeyToAddress(key.PublicKey),
			PrivateKey: key,
		}
	}

	return accounts, nil
}

// deriveKey derives a private key from seed at the given index.
// Simplified keccak-based derivation, sufficient for dev accounts.
func deriveKey(seed []byte, index uint32) (*ecdsa.PrivateKey, error) {
	indexBytes := make([]byte, 4)
	indexBytes[0] = byte(index >> 24)
	indexBytes[1] = byte(index >> 16)
	indexBytes[2] = byte(index >> 8)
	indexBytes[3] = byte(index)

	combined := append(seed, indexBytes...)
	hash := crypto.Keccak256(combined)

	return crypto.ToECDSA(hash)
}

// FundAccounts credits every account with the given starting balance.
func FundAccounts(b *bank.Bank, accounts []*Account, balance *big.Int) error {
	for _, acc := range accounts {
		if err := b.Fund(acc.Address, balance); err != nil {
			return fmt.Errorf("fund %s: %w", acc.Address.Hex(), err)
		}
	}
	return nil
}

// Addresses returns the addresses of the given accounts, in order.
func Addresses(accounts []*Account) []common.Address {
	addrs := make([]common.Address, len(accounts))
	for i, acc := range accounts {
		addrs[i] = acc.Address
	}
	return addrs
}
