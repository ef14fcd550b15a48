// Package merkle provides the allowlist commitment and membership proofs.
package merkle

import (
	"bytes"
	"errors"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Tree errors.
var (
	ErrEmptySet = errors.New("merkle: empty address set")
	ErrNotInSet = errors.New("merkle: address not in committed set")
)

// HashLeaf computes the leaf hash for an address.
// The raw 20 address bytes are hashed, not the hex string form.
func HashLeaf(addr common.Address) common.Hash {
	return crypto.Keccak256Hash(addr.Bytes())
}

// hashPair combines two nodes with the smaller-valued hash first.
func hashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256Hash(a.Bytes(), b.Bytes())
}

// Verify checks a membership proof for an address against a commitment root.
// It recomputes the root by folding the address leaf through the supplied
// sibling path and compares the result. Pure; returns false on any mismatch.
func Verify(proof []common.Hash, root common.Hash, addr common.Address) bool {
	node := HashLeaf(addr)
	for _, sibling := range proof {
		node = hashPair(node, sibling)
	}
	return node == root
}

// Tree is a Merkle tree over a set of addresses. Leaves are sorted and
// deduplicated so the same set always produces the same root.
type Tree struct {
	// levels[0] is the leaf level; the last level holds the single root.
	levels    [][]common.Hash
	leafIndex map[common.Hash]int
}

// NewTree builds a tree over the given addresses.
func NewTree(addrs []common.Address) (*Tree, error) {
	if len(addrs) == 0 {
		return nil, ErrEmptySet
	}

	seen := make(map[common.Hash]bool, len(addrs))
	leaves := make([]common.Hash, 0, len(addrs))
	for _, addr := range addrs {
		leaf := HashLeaf(addr)
		if seen[leaf] {
			continue
		}
		seen[leaf] = true
		leaves = append(leaves, leaf)
	}

	sort.Slice(leaves, func(i, j int) bool {
		return bytes.Compare(leaves[i].Bytes(), leaves[j].Bytes()) < 0
	})

	leafIndex := make(map[common.Hash]int, len(leaves))
	for i, leaf := range leaves {
		leafIndex[leaf] = i
	}

	levels := [][]common.Hash{leaves}
	for len(levels[len(levels)-1]) > 1 {
		current := levels[len(levels)-1]
		next := make([]common.Hash, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 == len(current) {
				// Odd node is promoted to the next level unchanged.
				next = append(next, current[i])
				continue
			}
			next = append(next, hashPair(current[i], current[i+1]))
		}
		levels = append(levels, next)
	}

	return &Tree{levels: levels, leafIndex: leafIndex}, nil
}

// Root returns the tree's commitment root.
func (t *Tree) Root() common.Hash {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// Proof returns the sibling path for an address.
func (t *Tree) Proof(addr common.Address) ([]common.Hash, error) {
	idx, ok := t.leafIndex[HashLeaf(addr)]
	if !ok {
		return nil, ErrNotInSet
	}

	proof := make([]common.Hash, 0, len(t.levels)-1)
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := idx ^ 1
		if sibling < len(level) {
			proof = append(proof, level[sibling])
		}
		idx /= 2
	}
	return proof, nil
}

// Contains reports whether an address is part of the committed set.
func (t *Tree) Contains(addr common.Address) bool {
	_, ok := t.leafIndex[HashLeaf(addr)]
	return ok
}

// Len returns the number of distinct committed addresses.
func (t *Tree) Len() int {
	return len(t.levels[0])
}
