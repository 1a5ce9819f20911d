package game

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Layout is a square binary matrix, 1 = ship cell.
type Layout [][]uint8

func (l Layout) Size() int { return len(l) }

func (l Layout) ShipCells() int {
	total := 0
	for _, row := range l {
		for _, v := range row {
			total += int(v)
		}
	}
	return total
}

func (l Layout) Equal(o Layout) bool {
	return slices.EqualFunc(l, o, func(a, b []uint8) bool { return slices.Equal(a, b) })
}

// Flatten returns the cells in row-major order.
func (l Layout) Flatten() []uint8 {
	out := make([]uint8, 0, len(l)*len(l))
	for _, row := range l {
		out = append(out, row...)
	}
	return out
}

// Ships returns the lengths of every ship, found as 8-connected groups of ship cells.
// A group that is not a straight line is an error.
func (l Layout) Ships() ([]int, error) {
	n := len(l)
	seen := make([][]bool, n)
	for r := range seen {
		seen[r] = make([]bool, n)
	}
	var lengths []int
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if l[r][c] == 0 || seen[r][c] {
				continue
			}
			rows, cols := map[int]bool{}, map[int]bool{}
			size := 0
			stack := []Coord{{r, c}}
			seen[r][c] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				size++
				rows[p.Row], cols[p.Col] = true, true
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						nr, nc := p.Row+dr, p.Col+dc
						if nr < 0 || nr >= n || nc < 0 || nc >= n || seen[nr][nc] || l[nr][nc] == 0 {
							continue
						}
						seen[nr][nc] = true
						stack = append(stack, Coord{nr, nc})
					}
				}
			}
			if len(rows) != 1 && len(cols) != 1 {
				return nil, fmt.Errorf("ship at %s is not a straight line or touches another ship", Coord{r, c})
			}
			lengths = append(lengths, size)
		}
	}
	return lengths, nil
}

// Validate checks the layout against the board size and the fleet: binary cells,
// ship cell count, straight non-touching ships matching the fleet exactly.
func (l Layout) Validate(size int, fleet FleetConfig) error {
	if len(l) != size {
		return fmt.Errorf("layout has %d rows, want %d", len(l), size)
	}
	for r, row := range l {
		if len(row) != size {
			return fmt.Errorf("layout row %d has %d columns, want %d", r, len(row), size)
		}
		for _, v := range row {
			if v != 0 && v != 1 {
				return errors.New("layout has non-binary cell")
			}
		}
	}
	if got, want := l.ShipCells(), fleet.TotalCells(); got != want {
		return fmt.Errorf("layout has %d ship cells, fleet needs %d", got, want)
	}
	ships, err := l.Ships()
	if err != nil {
		return err
	}
	counts := FleetConfig{}
	for _, s := range ships {
		counts[s]++
	}
	for _, length := range append(counts.Lengths(), fleet.Lengths()...) {
		if counts[length] != fleet[length] {
			return fmt.Errorf("layout has %d ships of length %d, fleet needs %d", counts[length], length, fleet[length])
		}
	}
	return nil
}

func (l Layout) String() string {
	var sb strings.Builder
	for _, row := range l {
		for _, v := range row {
			if v == 1 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
