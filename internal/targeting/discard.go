package targeting

import (
	"strings"

	"battleship/internal/game"
)

// DiscardCoords looks for ships that are fully uncovered: a straight run of
// exactly L hits closed at both ends by water or the board edge, for every
// length L still afloat, longest first. Each such ship and its orthogonal
// surroundings are discarded and the tracker drops one ship of length L.
func (e *Engine) DiscardCoords(b *game.Board) {
	b.Each(func(c *game.Cell) {
		if !c.IsHit(game.User) || c.IsDiscarded(game.User) {
			return
		}
		for _, length := range e.fleet.Lengths() {
			if e.fleet.Remaining(length) == 0 {
				continue
			}
			for _, d := range game.Directions {
				run, ok := sunkRun(b, c, d, length)
				if !ok {
					continue
				}
				for _, s := range run {
					DiscardSurrounding(b, s)
				}
				e.fleet.Sink(length)
				e.log.Debug("ship discarded",
					"length", length,
					"from", c.Name(),
					"direction", d,
					"cells", cellNames(run),
					"remaining", e.fleet.Snapshot())
				break
			}
		}
	})
}

// sunkRun reads length hits from start in direction d and checks both ends are
// closed. Unrevealed cells anywhere in the window fail the probe.
func sunkRun(b *game.Board, start *game.Cell, d game.Direction, length int) ([]*game.Cell, bool) {
	if before, ok := b.Step(start, d, -1); ok && !before.IsWater(game.User) {
		return nil, false
	}
	run := make([]*game.Cell, 0, length)
	for i := 0; i < length; i++ {
		c, ok := b.Step(start, d, i)
		if !ok || !c.IsHit(game.User) {
			return nil, false
		}
		run = append(run, c)
	}
	if after, ok := b.Step(start, d, length); ok && !after.IsWater(game.User) {
		return nil, false
	}
	return run, true
}

// DiscardSurrounding discards c and its up/down/left/right neighbours. Diagonals
// are left alone.
func DiscardSurrounding(b *game.Board, c *game.Cell) {
	c.Discard(game.User)
	for _, d := range game.Directions {
		if n, ok := b.Neighbor(c, d); ok {
			n.Discard(game.User)
		}
	}
}

// DiscardWater discards revealed water, and any cell whose every in-board
// neighbour is revealed water: no ship of length >= 2 can pass through it.
func DiscardWater(b *game.Board) {
	b.Each(func(c *game.Cell) {
		if c.IsWater(game.User) {
			c.Discard(game.User)
		}
		for _, d := range game.Directions {
			if n, ok := b.Neighbor(c, d); ok && !n.IsWater(game.User) {
				return
			}
		}
		c.Discard(game.User)
	})
}

func cellNames(cells []*game.Cell) string {
	names := make([]string, len(cells))
	for i, c := range cells {
		names[i] = c.Name()
	}
	return strings.Join(names, ",")
}
