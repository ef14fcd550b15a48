package token

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	holder = common.HexToAddress("0x1111111111111111111111111111111111111111")
	other  = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry("ipfs://drop/")
	require.NotNil(t, r)
	assert.Equal(t, uint64(0), r.TotalIssued())
	assert.Equal(t, "ipfs://drop/", r.BaseURI())
}

func TestRegistry_Issue(t *testing.T) {
	r := NewRegistry("ipfs://drop/")

	ids, err := r.Issue(holder, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)
	assert.Equal(t, uint64(3), r.TotalIssued())
	assert.Equal(t, uint64(3), r.BalanceOf(holder))

	owner, err := r.OwnerOf(2)
	require.NoError(t, err)
	assert.Equal(t, holder, owner)
}

func TestRegistry_Issue_SequentialAcrossRecipients(t *testing.T) {
	r := NewRegistry("ipfs://drop/")

	ids1, err := r.Issue(holder, 2)
	require.NoError(t, err)
	ids2, err := r.Issue(other, 2)
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 2}, ids1)
	assert.Equal(t, []uint64{3, 4}, ids2)
	assert.Equal(t, uint64(4), r.TotalIssued())
}

func TestRegistry_Issue_ZeroQuantity(t *testing.T) {
	r := NewRegistry("ipfs://drop/")

	_, err := r.Issue(holder, 0)
	assert.ErrorIs(t, err, ErrZeroQuantity)
}

func TestRegistry_OwnerOf_NotIssued(t *testing.T) {
	r := NewRegistry("ipfs://drop/")

	_, err := r.OwnerOf(42)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestRegistry_Burn(t *testing.T) {
	r := NewRegistry("ipfs://drop/")
	_, err := r.Issue(holder, 2)
	require.NoError(t, err)

	err = r.Burn(holder, 1)
	require.NoError(t, err)

	assert.False(t, r.Exists(1))
	assert.True(t, r.Exists(2))
	assert.Equal(t, uint64(1), r.BalanceOf(holder))
	// Lifetime issuance is unaffected by burns.
	assert.Equal(t, uint64(2), r.TotalIssued())
}

func TestRegistry_Burn_NotOwner(t *testing.T) {
	r := NewRegistry("ipfs://drop/")
	_, err := r.Issue(holder, 1)
	require.NoError(t, err)

	err = r.Burn(other, 1)
	assert.ErrorIs(t, err, ErrNotAssetOwner)
	assert.True(t, r.Exists(1))
}

func TestRegistry_Burn_NotFound(t *testing.T) {
	r := NewRegistry("ipfs://drop/")

	err := r.Burn(holder, 7)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestRegistry_BurnedIDsAreNotReused(t *testing.T) {
	r := NewRegistry("ipfs://drop/")
	_, err := r.Issue(holder, 1)
	require.NoError(t, err)
	require.NoError(t, r.Burn(holder, 1))

	ids, err := r.Issue(holder, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, ids)
}

func TestRegistry_TokenURI(t *testing.T) {
	r := NewRegistry("ipfs://drop/")
	_, err := r.Issue(holder, 1)
	require.NoError(t, err)

	uri, err := r.TokenURI(1)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://drop/1", uri)
}

func TestRegistry_TokenURI_NotIssued(t *testing.T) {
	r := NewRegistry("ipfs://drop/")

	_, err := r.TokenURI(1)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestRegistry_TokenURI_AfterBurn(t *testing.T) {
	r := NewRegistry("ipfs://drop/")
	_, err := r.Issue(holder, 1)
	require.NoError(t, err)
	require.NoError(t, r.Burn(holder, 1))

	_, err = r.TokenURI(1)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestRegistry_SetBaseURI(t *testing.T) {
	r := NewRegistry("ipfs://drop/")
	_, err := r.Issue(holder, 1)
	require.NoError(t, err)

	r.SetBaseURI("https://meta.example/")
	uri, err := r.TokenURI(1)
	require.NoError(t, err)
	assert.Equal(t, "https://meta.example/1", uri)
}

func TestRegistry_SnapshotRevert(t *testing.T) {
	r := NewRegistry("ipfs://drop/")
	_, err := r.Issue(holder, 2)
	require.NoError(t, err)

	snapID := r.Snapshot()

	_, err = r.Issue(other, 3)
	require.NoError(t, err)
	require.NoError(t, r.Burn(holder, 1))
	require.Equal(t, uint64(5), r.TotalIssued())

	r.RevertToSnapshot(snapID)

	assert.Equal(t, uint64(2), r.TotalIssued())
	assert.Equal(t, uint64(2), r.BalanceOf(holder))
	assert.Equal(t, uint64(0), r.BalanceOf(other))
	assert.True(t, r.Exists(1))

	// Issuance continues from the restored counter.
	ids, err := r.Issue(other, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, ids)
}
