// Package merkle commits a fleet layout as a fixed-size MiMC Merkle tree over
// the BN254 scalar field, matching the in-circuit hash used by package zk.
package merkle

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bnmimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

const (
	// Depth of every layout tree; 128 leaves fit any board up to 11x11.
	Depth  = 7
	Leaves = 1 << Depth
)

// feBytes encodes a field element as 32 bytes big-endian.
func feBytes(x *big.Int) []byte {
	out := make([]byte, 32)
	return x.FillBytes(out)
}

func bytesToFE(b []byte) *big.Int { return new(big.Int).SetBytes(b) }

// Reduce maps x into the scalar field so it can be hashed.
func Reduce(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, ecc.BN254.ScalarField())
}

func HashLeaf(bit uint8) *big.Int {
	h := bnmimc.NewMiMC()
	h.Write(feBytes(new(big.Int).SetUint64(uint64(bit))))
	return bytesToFE(h.Sum(nil))
}

func HashNode(left, right *big.Int) *big.Int {
	h := bnmimc.NewMiMC()
	h.Write(feBytes(left))
	h.Write(feBytes(right))
	return bytesToFE(h.Sum(nil))
}

// Tree is stored level by level: Levels[0] are the leaves, Levels[Depth] the root.
type Tree struct {
	Levels [][]*big.Int
}

// Build hashes the layout cells (row-major, 0/1) into a tree padded with
// the hash of an empty cell.
func Build(cells []uint8) (*Tree, error) {
	if len(cells) > Leaves {
		return nil, errors.New("too many cells for a layout tree")
	}
	pad := HashLeaf(0)
	leaves := make([]*big.Int, Leaves)
	for i := range leaves {
		switch {
		case i >= len(cells):
			leaves[i] = new(big.Int).Set(pad)
		case cells[i] > 1:
			return nil, errors.New("cell is not 0 or 1")
		default:
			leaves[i] = HashLeaf(cells[i])
		}
	}

	levels := [][]*big.Int{leaves}
	for prev := leaves; len(prev) > 1; {
		up := make([]*big.Int, len(prev)/2)
		for i := range up {
			up[i] = HashNode(prev[2*i], prev[2*i+1])
		}
		levels = append(levels, up)
		prev = up
	}
	return &Tree{Levels: levels}, nil
}

func (t *Tree) Root() *big.Int { return new(big.Int).Set(t.Levels[len(t.Levels)-1][0]) }

// SaltedRoot hides the root of an otherwise guessable layout.
func (t *Tree) SaltedRoot(salt *big.Int) *big.Int { return HashNode(salt, t.Root()) }

// Path returns the sibling hashes from leaf idx up to the root. The direction at
// level i is bit i of idx (1 = current node is the right child).
func (t *Tree) Path(idx int) ([]*big.Int, error) {
	if idx < 0 || idx >= len(t.Levels[0]) {
		return nil, errors.New("leaf index out of range")
	}
	path := make([]*big.Int, 0, Depth)
	cur := idx
	for level := 0; level < len(t.Levels)-1; level++ {
		path = append(path, new(big.Int).Set(t.Levels[level][cur^1]))
		cur /= 2
	}
	return path, nil
}

// VerifyPath recomputes the root from a leaf bit and its path.
func VerifyPath(bit uint8, idx int, path []*big.Int, root *big.Int) bool {
	cur := HashLeaf(bit)
	for i, sib := range path {
		if (idx>>i)&1 == 1 {
			cur = HashNode(sib, cur)
		} else {
			cur = HashNode(cur, sib)
		}
	}
	return cur.Cmp(root) == 0
}
