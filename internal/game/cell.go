package game

import "fmt"

type sideState struct {
	hasShip   bool
	revealed  bool
	discarded bool
	shown     bool
}

// Cell holds both fleets' state at one coordinate. Every flag is set-only.
type Cell struct {
	row, col int
	name     string
	sides    [2]sideState
}

func newCell(row, col int) *Cell {
	return &Cell{row: row, col: col, name: Coord{Row: row, Col: col}.Name()}
}

func (c *Cell) Row() int       { return c.row }
func (c *Cell) Column() int    { return c.col }
func (c *Cell) Name() string   { return c.name }
func (c *Cell) Coord() Coord   { return Coord{Row: c.row, Col: c.col} }
func (c *Cell) String() string { return c.name }

func (c *Cell) HasShip(s Side) bool { return c.sides[s].hasShip }
func (c *Cell) SetHasShip(s Side)   { c.sides[s].hasShip = true }

func (c *Cell) IsRevealed(s Side) bool { return c.sides[s].revealed }
func (c *Cell) Reveal(s Side)          { c.sides[s].revealed = true }

// IsDiscarded reports whether the cell is provably free of any undiscovered ship cell.
// Only the engine's view of the user fleet uses it.
func (c *Cell) IsDiscarded(s Side) bool { return c.sides[s].discarded }
func (c *Cell) Discard(s Side)          { c.sides[s].discarded = true }

// IsShown reports whether the ship is drawn without having been hit.
func (c *Cell) IsShown(s Side) bool { return c.sides[s].shown }
func (c *Cell) Show(s Side)         { c.sides[s].shown = true }

// IsHit is a revealed ship cell; IsWater a revealed empty one.
func (c *Cell) IsHit(s Side) bool   { return c.sides[s].revealed && c.sides[s].hasShip }
func (c *Cell) IsWater(s Side) bool { return c.sides[s].revealed && !c.sides[s].hasShip }

// Describe mirrors the debug dump of a coordinate.
func (c *Cell) Describe() string {
	u, m := c.sides[User], c.sides[Computer]
	return fmt.Sprintf("%s row=%d col=%d | COM ship=%t revealed=%t | USER ship=%t revealed=%t discarded=%t",
		c.name, c.row, c.col, m.hasShip, m.revealed, u.hasShip, u.revealed, u.discarded)
}
