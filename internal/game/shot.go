package game

// HitResult is the outcome of one shot.
type HitResult struct {
	Hit bool
}

// Fire reveals the side's cell at (row, col) and reports whether a ship was there.
// Callers never pick an already revealed cell; Fire itself does not refuse one.
func Fire(b *Board, side Side, row, col int) HitResult {
	c := b.Get(row, col)
	c.Reveal(side)
	return HitResult{Hit: c.HasShip(side)}
}

// FleetDestroyed reports whether every ship cell of the side is revealed.
func FleetDestroyed(b *Board, side Side) bool {
	destroyed := true
	b.Each(func(c *Cell) {
		if c.HasShip(side) && !c.IsRevealed(side) {
			destroyed = false
		}
	})
	return destroyed
}

// GameIsOver is true once either fleet is fully revealed.
func GameIsOver(b *Board) bool {
	return FleetDestroyed(b, User) || FleetDestroyed(b, Computer)
}

// Winner returns the side whose opponent lost its whole fleet.
func Winner(b *Board) (Side, bool) {
	switch {
	case FleetDestroyed(b, User):
		return Computer, true
	case FleetDestroyed(b, Computer):
		return User, true
	}
	return 0, false
}

// RenderState is what the presentation layer draws for a cell.
type RenderState uint8

const (
	Hidden RenderState = iota
	Hit
	Miss
	ShipVisible
)

func (s RenderState) String() string {
	return [...]string{"Hidden", "Hit", "Miss", "ShipVisible"}[s]
}

// CellRenderState classifies the side's cell for display.
func CellRenderState(b *Board, side Side, row, col int) RenderState {
	c := b.Get(row, col)
	switch {
	case c.IsHit(side):
		return Hit
	case c.IsWater(side):
		return Miss
	case c.HasShip(side) && c.IsShown(side):
		return ShipVisible
	}
	return Hidden
}

// AvailableCoords lists the side's cells that are not discarded.
func AvailableCoords(b *Board, side Side) []Coord {
	var out []Coord
	b.Each(func(c *Cell) {
		if !c.IsDiscarded(side) {
			out = append(out, c.Coord())
		}
	})
	return out
}
