package game

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSize is the side length of the reference board.
const DefaultSize = 10

// MaxSize keeps row labels within A..Z.
const MaxSize = 26

// Coord addresses a cell, zero based.
type Coord struct{ Row, Col int }

// Name is the row letter plus the 1-indexed column, e.g. {1,6} is "B7".
func (c Coord) Name() string {
	return string(rune('A'+c.Row)) + strconv.Itoa(c.Col+1)
}

func (c Coord) String() string { return c.Name() }

// ParseCoord reads a label such as "B7" or "b7".
func ParseCoord(s string) (Coord, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 || s[0] < 'A' || s[0] > 'Z' {
		return Coord{}, fmt.Errorf("%w: %q is not a coordinate", ErrInvalidSelection, s)
	}
	col, err := strconv.Atoi(s[1:])
	if err != nil || col < 1 {
		return Coord{}, fmt.Errorf("%w: %q is not a coordinate", ErrInvalidSelection, s)
	}
	return Coord{Row: int(s[0] - 'A'), Col: col - 1}, nil
}

// Direction is one of the four orthogonal steps.
type Direction uint8

const (
	Right Direction = iota
	Left
	Up
	Down
)

// Directions is the probe order used by the engine.
var Directions = [...]Direction{Right, Left, Up, Down}

func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Right:
		return 0, 1
	case Left:
		return 0, -1
	case Up:
		return -1, 0
	default:
		return 1, 0
	}
}

func (d Direction) String() string {
	return [...]string{"RIGHT", "LEFT", "UP", "DOWN"}[d]
}

// Horizontal reports whether the step keeps the row.
func (d Direction) Horizontal() bool { return d == Right || d == Left }

// Board is a fixed NxN grid of cells shared by both sides.
type Board struct {
	size  int
	cells [][]*Cell
}

func NewBoard(size int) (*Board, error) {
	if size < 2 || size > MaxSize {
		return nil, fmt.Errorf("%w: board size %d out of range [2,%d]", ErrConfiguration, size, MaxSize)
	}
	b := &Board{size: size, cells: make([][]*Cell, size)}
	for r := 0; r < size; r++ {
		b.cells[r] = make([]*Cell, size)
		for c := 0; c < size; c++ {
			b.cells[r][c] = newCell(r, c)
		}
	}
	return b, nil
}

func (b *Board) Size() int { return b.size }

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// Get panics outside the board, like indexing.
func (b *Board) Get(row, col int) *Cell { return b.cells[row][col] }

// Lookup is Get with bounds checking.
func (b *Board) Lookup(row, col int) (*Cell, bool) {
	if !b.InBounds(row, col) {
		return nil, false
	}
	return b.cells[row][col], true
}

// Step returns the cell n steps away from c in direction d.
func (b *Board) Step(c *Cell, d Direction, n int) (*Cell, bool) {
	dr, dc := d.Delta()
	return b.Lookup(c.row+dr*n, c.col+dc*n)
}

func (b *Board) Neighbor(c *Cell, d Direction) (*Cell, bool) { return b.Step(c, d, 1) }

// Each visits every cell in row-major order.
func (b *Board) Each(fn func(c *Cell)) {
	for _, row := range b.cells {
		for _, c := range row {
			fn(c)
		}
	}
}
