package zk

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"

	"battleship/internal/merkle"
)

// ShotCircuit proves that the cell at Index of the committed layout holds Hit.
// Root is the salted root, MiMC(Salt, treeRoot).
type ShotCircuit struct {
	Bit  frontend.Variable               `gnark:",secret"`
	Salt frontend.Variable               `gnark:",secret"`
	Path [merkle.Depth]frontend.Variable `gnark:",secret"`

	Root  frontend.Variable `gnark:",public"`
	Index frontend.Variable `gnark:",public"`
	Hit   frontend.Variable `gnark:",public"`
}

func (c *ShotCircuit) Define(api frontend.API) error {
	api.AssertIsBoolean(c.Bit)
	api.AssertIsEqual(c.Hit, c.Bit)

	// the path directions are the bits of Index, which ties the proof to one cell
	dir := api.ToBinary(c.Index, merkle.Depth)

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.Bit)
	curr := h.Sum()

	for i := 0; i < merkle.Depth; i++ {
		h.Reset()
		left := api.Select(dir[i], c.Path[i], curr)
		right := api.Select(dir[i], curr, c.Path[i])
		h.Write(left, right)
		curr = h.Sum()
	}

	h.Reset()
	h.Write(c.Salt, curr)
	api.AssertIsEqual(h.Sum(), c.Root)
	return nil
}
