package game

import (
	"fmt"
	"strings"
)

// Rand is the subset of *math/rand.Rand the game needs.
type Rand interface {
	Intn(n int) int
}

// ParseLayout reads rows of '#' (ship) and '.' (water).
func ParseLayout(rows ...string) (Layout, error) {
	l := make(Layout, len(rows))
	for r, row := range rows {
		l[r] = make([]uint8, len(row))
		for c, ch := range row {
			switch ch {
			case '#':
				l[r][c] = 1
			case '.':
			default:
				return nil, fmt.Errorf("layout row %d: unexpected %q", r, ch)
			}
		}
	}
	return l, nil
}

func mustParseLayout(rows ...string) Layout {
	l, err := ParseLayout(rows...)
	if err != nil {
		panic(err)
	}
	return l
}

// DefaultCatalogue returns the precomputed 10x10 layouts for DefaultFleet.
func DefaultCatalogue() []Layout {
	out := make([]Layout, len(defaultCatalogue))
	for i, rows := range defaultCatalogue {
		out[i] = mustParseLayout(rows...)
	}
	return out
}

// ValidateCatalogue checks every layout against the fleet and that at least two
// distinct layouts exist.
func ValidateCatalogue(size int, fleet FleetConfig, layouts []Layout) error {
	if err := fleet.Validate(); err != nil {
		return err
	}
	for i, l := range layouts {
		if err := l.Validate(size, fleet); err != nil {
			return fmt.Errorf("%w: layout %d: %v", ErrConfiguration, i, err)
		}
	}
	if distinctLayouts(layouts) < 2 {
		return fmt.Errorf("%w: catalogue needs at least 2 distinct layouts", ErrConfiguration)
	}
	return nil
}

func distinctLayouts(layouts []Layout) int {
	seen := make(map[string]struct{}, len(layouts))
	for _, l := range layouts {
		seen[l.String()] = struct{}{}
	}
	return len(seen)
}

// SelectLayouts draws two layouts uniformly and independently, redrawing the pair
// until they differ by value.
func SelectLayouts(layouts []Layout, rng Rand) (user, computer Layout, err error) {
	if distinctLayouts(layouts) < 2 {
		return nil, nil, fmt.Errorf("%w: catalogue needs at least 2 distinct layouts", ErrConfiguration)
	}
	for {
		user = layouts[rng.Intn(len(layouts))]
		computer = layouts[rng.Intn(len(layouts))]
		if !user.Equal(computer) {
			return user, computer, nil
		}
	}
}

// ApplyLayout places the side's ships wherever the layout has a 1.
func ApplyLayout(b *Board, side Side, l Layout) error {
	if l.Size() != b.Size() {
		return fmt.Errorf("%w: layout size %d on board size %d", ErrConfiguration, l.Size(), b.Size())
	}
	for r, row := range l {
		for c, v := range row {
			if v == 1 {
				b.Get(r, c).SetHasShip(side)
			}
		}
	}
	return nil
}

// Positions dumps both fleets as text, computer first.
func Positions(b *Board) string {
	var sb strings.Builder
	for _, s := range []Side{Computer, User} {
		sb.WriteString(s.String() + " SHIPS\n")
		for r := 0; r < b.Size(); r++ {
			for c := 0; c < b.Size(); c++ {
				if b.Get(r, c).HasShip(s) {
					sb.WriteString("BO")
				} else {
					sb.WriteString("--")
				}
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

var defaultCatalogue = [][]string{
	{
		"..........",
		".#......#.",
		".#......#.",
		".#......#.",
		".#.####...",
		".#........",
		"........#.",
		"...##...#.",
		"........#.",
		"..........",
	},
	{
		"..........",
		"..#####...",
		"..........",
		"..........",
		".####..#..",
		".......#..",
		".....#.#..",
		".##..#....",
		".....#....",
		"..........",
	},
	{
		"..........",
		"..###...#.",
		"........#.",
		".###..#.#.",
		"......#.#.",
		"......#.#.",
		"......#...",
		"..#.......",
		"..#.......",
		"..........",
	},
	{
		"..........",
		"###.....#.",
		"........#.",
		"....###.#.",
		"........#.",
		".#...#..#.",
		".#...#....",
		".....#....",
		".....#....",
		"..........",
	},
	{
		"..........",
		"#......#..",
		"#...#..#..",
		"#...#..#..",
		"#...#.....",
		"....#...#.",
		"....#...#.",
		"........#.",
		"..##......",
		"..........",
	},
	{
		"..........",
		"#......#..",
		"#...#..#..",
		"#...#..#..",
		"#...#.....",
		"....#.....",
		"....#.....",
		"......#...",
		"..##..#...",
		"......#...",
	},
	{
		"..........",
		"........#.",
		"........#.",
		"........#.",
		"....###.#.",
		"........#.",
		"....###...",
		"..........",
		"...#.####.",
		"...#......",
	},
	{
		"..........",
		".#......#.",
		".#......#.",
		"........#.",
		"....###.#.",
		"........#.",
		"....###...",
		"..........",
		".....####.",
		"..........",
	},
}
