// Package targeting picks the computer's shots against the user fleet.
//
// The engine alternates between two modes. In Hunt mode it fires at a random
// cell that is neither revealed nor discarded, unless some earlier hit still has
// an unexplored neighbour. In Target mode it keeps firing along a ship from the
// last hit until it misses. Before every shot the board is pruned: cells around
// ships that are provably sunk and cells that can only be water are discarded.
package targeting

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"battleship/internal/game"
)

type Mode uint8

const (
	Hunt Mode = iota
	Target
)

func (m Mode) String() string {
	if m == Target {
		return "TARGET"
	}
	return "HUNT"
}

// Engine fires at the User side of a board. It keeps the remaining-ship tracker
// and the pending hunt origin between shots; the board itself is borrowed per call.
type Engine struct {
	fleet  *game.Fleet
	origin *game.Cell
	rng    game.Rand
	log    *log.Logger
}

func New(fleet *game.Fleet, rng game.Rand, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{fleet: fleet, rng: rng, log: logger}
}

func (e *Engine) Mode() Mode {
	if e.origin != nil {
		return Target
	}
	return Hunt
}

// Origin is the hit the engine is chasing, nil in Hunt mode.
func (e *Engine) Origin() *game.Cell { return e.origin }

func (e *Engine) Fleet() *game.Fleet { return e.fleet }

// Next prunes the board and returns the cell to fire at. It never returns a
// revealed cell. An empty candidate pool yields game.ErrInvariantViolation.
func (e *Engine) Next(b *game.Board) (*game.Cell, error) {
	e.DiscardCoords(b)
	DiscardWater(b)
	e.log.Debug("available coords", "count", len(game.AvailableCoords(b, game.User)))

	if e.origin != nil {
		if adj := e.CalculateAdjacent(b, e.origin); adj != nil {
			e.log.Debug("fire from adjacents", "target", adj.Name(), "previous", e.origin.Name())
			return adj, nil
		}
		e.origin = nil
	}
	return e.hunt(b)
}

// Record feeds the result of the shot returned by Next back into the state machine.
func (e *Engine) Record(c *game.Cell, hit bool) {
	if hit {
		e.origin = c
		return
	}
	e.origin = nil
}

func (e *Engine) hunt(b *game.Board) (*game.Cell, error) {
	var candidates []*game.Cell
	b.Each(func(c *game.Cell) {
		if !c.IsRevealed(game.User) && !c.IsDiscarded(game.User) {
			candidates = append(candidates, c)
		}
	})

	// The last unresolved hit in row-major order wins.
	var lead, target *game.Cell
	b.Each(func(c *game.Cell) {
		if !c.IsHit(game.User) || c.IsDiscarded(game.User) {
			return
		}
		if adj := e.CalculateAdjacent(b, c); adj != nil {
			lead, target = c, adj
		}
	})
	if target != nil {
		e.origin = lead
		e.log.Debug("fire near earlier hit", "target", target.Name(), "origin", lead.Name())
		return target, nil
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidate cells left with fleet %s afloat",
			game.ErrInvariantViolation, e.fleet.Snapshot())
	}
	target = candidates[e.rng.Intn(len(candidates))]
	e.log.Debug("fire at random", "target", target.Name(), "candidates", len(candidates))
	return target, nil
}

func perpendicular(d game.Direction) [2]game.Direction {
	if d.Horizontal() {
		return [2]game.Direction{game.Up, game.Down}
	}
	return [2]game.Direction{game.Right, game.Left}
}

// CalculateAdjacent returns one unrevealed orthogonal neighbour of origin worth
// firing at, or nil. Once a neighbour is a hit the ship's axis is known, so the
// perpendicular neighbours are discarded and never returned.
func (e *Engine) CalculateAdjacent(b *game.Board, origin *game.Cell) *game.Cell {
	var nb [4]*game.Cell
	for _, d := range game.Directions {
		if c, ok := b.Neighbor(origin, d); ok {
			nb[d] = c
		}
	}
	hit := func(d game.Direction) bool { return nb[d] != nil && nb[d].IsHit(game.User) }
	discard := func(ds [2]game.Direction) {
		for _, d := range ds {
			if nb[d] != nil {
				nb[d].Discard(game.User)
			}
		}
	}
	if hit(game.Right) || hit(game.Left) {
		discard(perpendicular(game.Right))
	}
	if hit(game.Up) || hit(game.Down) {
		discard(perpendicular(game.Up))
	}

	var eligible [4]bool
	for _, d := range game.Directions {
		eligible[d] = nb[d] != nil
	}
	for _, d := range game.Directions {
		if nb[d] == nil || !nb[d].IsRevealed(game.User) {
			continue
		}
		eligible[d] = false
		if nb[d].HasShip(game.User) {
			for _, p := range perpendicular(d) {
				eligible[p] = false
			}
		}
	}

	var out []*game.Cell
	for _, d := range game.Directions {
		if eligible[d] {
			out = append(out, nb[d])
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out[e.rng.Intn(len(out))]
}
