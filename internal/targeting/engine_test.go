package targeting

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/game"
)

func newBoard(t *testing.T, ships ...game.Coord) *game.Board {
	t.Helper()
	b, err := game.NewBoard(game.DefaultSize)
	require.NoError(t, err)
	for _, s := range ships {
		b.Get(s.Row, s.Col).SetHasShip(game.User)
	}
	return b
}

func newEngine(seed int64) *Engine {
	return New(game.NewFleet(game.DefaultFleet()), rand.New(rand.NewSource(seed)), nil)
}

func fire(b *game.Board, row, col int) bool {
	return game.Fire(b, game.User, row, col).Hit
}

func TestDiscardCoordsWaitsForClosedRun(t *testing.T) {
	b := newBoard(t, game.Coord{Row: 2, Col: 4}, game.Coord{Row: 2, Col: 5}, game.Coord{Row: 2, Col: 6})
	e := newEngine(1)
	require.Equal(t, 2, e.Fleet().Remaining(3))

	require.True(t, fire(b, 2, 4))
	require.True(t, fire(b, 2, 5))
	e.DiscardCoords(b)
	assert.Equal(t, 2, e.Fleet().Remaining(3))
	assert.False(t, b.Get(2, 4).IsDiscarded(game.User))

	require.False(t, fire(b, 2, 3))
	e.DiscardCoords(b)
	assert.Equal(t, 2, e.Fleet().Remaining(3), "far end still unknown")
	assert.Equal(t, 1, e.Fleet().Remaining(2), "two hits plus one water is not a closed run")

	require.True(t, fire(b, 2, 6))
	e.DiscardCoords(b)
	assert.Equal(t, 2, e.Fleet().Remaining(3), "(2,7) not yet revealed")

	require.False(t, fire(b, 2, 7))
	e.DiscardCoords(b)
	assert.Equal(t, 1, e.Fleet().Remaining(3))
	assert.Equal(t, 1, e.Fleet().Remaining(2))
	assert.Equal(t, 1, e.Fleet().Remaining(4))
	assert.Equal(t, 1, e.Fleet().Remaining(5))

	discarded := map[game.Coord]bool{}
	for col := 3; col <= 7; col++ {
		discarded[game.Coord{Row: 2, Col: col}] = true
	}
	for col := 4; col <= 6; col++ {
		discarded[game.Coord{Row: 1, Col: col}] = true
		discarded[game.Coord{Row: 3, Col: col}] = true
	}
	b.Each(func(c *game.Cell) {
		assert.Equal(t, discarded[c.Coord()], c.IsDiscarded(game.User), c.Name())
	})

	e.DiscardCoords(b)
	assert.Equal(t, 1, e.Fleet().Remaining(3), "a discarded ship is not counted twice")
}

func TestDiscardCoordsBoardEdgeClosesRun(t *testing.T) {
	t.Run("horizontal_at_left_edge", func(t *testing.T) {
		b := newBoard(t, game.Coord{Row: 0, Col: 0}, game.Coord{Row: 0, Col: 1})
		e := newEngine(1)
		fire(b, 0, 0)
		fire(b, 0, 1)
		e.DiscardCoords(b)
		assert.Equal(t, 1, e.Fleet().Remaining(2))
		fire(b, 0, 2)
		e.DiscardCoords(b)
		assert.Equal(t, 0, e.Fleet().Remaining(2))
		assert.True(t, b.Get(1, 0).IsDiscarded(game.User))
		assert.True(t, b.Get(1, 1).IsDiscarded(game.User))
		assert.False(t, b.Get(1, 2).IsDiscarded(game.User), "diagonal stays")
	})

	t.Run("vertical_at_bottom_edge", func(t *testing.T) {
		var ship []game.Coord
		for row := 5; row <= 9; row++ {
			ship = append(ship, game.Coord{Row: row, Col: 9})
		}
		b := newBoard(t, ship...)
		e := newEngine(1)
		for _, c := range ship {
			fire(b, c.Row, c.Col)
		}
		fire(b, 4, 9)
		e.DiscardCoords(b)
		assert.Equal(t, 0, e.Fleet().Remaining(5))
		assert.Equal(t, 1, e.Fleet().Remaining(4), "a run of five never matches length four")
		assert.True(t, b.Get(7, 8).IsDiscarded(game.User))
	})
}

func TestDiscardSurroundingSkipsDiagonals(t *testing.T) {
	b := newBoard(t)
	DiscardSurrounding(b, b.Get(5, 5))
	want := map[game.Coord]bool{{Row: 5, Col: 5}: true, {Row: 4, Col: 5}: true, {Row: 6, Col: 5}: true, {Row: 5, Col: 4}: true, {Row: 5, Col: 6}: true}
	b.Each(func(c *game.Cell) {
		assert.Equal(t, want[c.Coord()], c.IsDiscarded(game.User), c.Name())
	})

	DiscardSurrounding(b, b.Get(0, 0))
	assert.True(t, b.Get(0, 1).IsDiscarded(game.User))
	assert.True(t, b.Get(1, 0).IsDiscarded(game.User))
	assert.False(t, b.Get(1, 1).IsDiscarded(game.User))
}

// The enclosed cell itself is pruned even though it was never fired at.
func TestDiscardWaterPrunesFullyEnclosedCellItself(t *testing.T) {
	b := newBoard(t)
	for _, c := range []game.Coord{{Row: 4, Col: 5}, {Row: 6, Col: 5}, {Row: 5, Col: 4}, {Row: 5, Col: 6}, {Row: 0, Col: 1}, {Row: 1, Col: 0}} {
		require.False(t, fire(b, c.Row, c.Col))
	}
	DiscardWater(b)

	assert.True(t, b.Get(5, 5).IsDiscarded(game.User))
	assert.False(t, b.Get(5, 5).IsRevealed(game.User))
	assert.True(t, b.Get(0, 0).IsDiscarded(game.User), "corner enclosed by water and edges")
	assert.True(t, b.Get(4, 5).IsDiscarded(game.User), "revealed water")
	assert.False(t, b.Get(4, 4).IsDiscarded(game.User))
	assert.False(t, b.Get(3, 3).IsDiscarded(game.User))
}

func TestDiscardWaterKeepsCellNextToHit(t *testing.T) {
	b := newBoard(t, game.Coord{Row: 4, Col: 5}, game.Coord{Row: 3, Col: 5})
	fire(b, 4, 5)
	for _, c := range []game.Coord{{Row: 6, Col: 5}, {Row: 5, Col: 4}, {Row: 5, Col: 6}} {
		fire(b, c.Row, c.Col)
	}
	DiscardWater(b)
	assert.False(t, b.Get(5, 5).IsDiscarded(game.User))
}

func TestCalculateAdjacentFollowsAxis(t *testing.T) {
	b := newBoard(t, game.Coord{Row: 5, Col: 5}, game.Coord{Row: 5, Col: 6}, game.Coord{Row: 5, Col: 7})
	e := newEngine(3)
	fire(b, 5, 5)
	fire(b, 5, 6)

	for i := 0; i < 20; i++ {
		adj := e.CalculateAdjacent(b, b.Get(5, 5))
		require.NotNil(t, adj)
		assert.Equal(t, game.Coord{Row: 5, Col: 4}, adj.Coord())
	}
	assert.True(t, b.Get(4, 5).IsDiscarded(game.User))
	assert.True(t, b.Get(6, 5).IsDiscarded(game.User))
	assert.False(t, b.Get(5, 4).IsDiscarded(game.User))

	adj := e.CalculateAdjacent(b, b.Get(5, 6))
	require.NotNil(t, adj)
	assert.Equal(t, game.Coord{Row: 5, Col: 7}, adj.Coord())
	assert.True(t, b.Get(4, 6).IsDiscarded(game.User))
}

func TestCalculateAdjacentExhausted(t *testing.T) {
	b := newBoard(t, game.Coord{Row: 0, Col: 0})
	e := newEngine(3)
	fire(b, 0, 0)
	fire(b, 0, 1)
	fire(b, 1, 0)
	assert.Nil(t, e.CalculateAdjacent(b, b.Get(0, 0)))
}

func TestCalculateAdjacentNeverReturnsRevealed(t *testing.T) {
	cat := game.DefaultCatalogue()
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 200; trial++ {
		b := newBoard(t)
		require.NoError(t, game.ApplyLayout(b, game.User, cat[trial%len(cat)]))
		for _, idx := range rng.Perm(100)[:20+rng.Intn(60)] {
			fire(b, idx/10, idx%10)
		}
		e := New(game.NewFleet(game.DefaultFleet()), rng, nil)
		b.Each(func(c *game.Cell) {
			if !c.IsHit(game.User) {
				return
			}
			adj := e.CalculateAdjacent(b, c)
			if adj == nil {
				return
			}
			require.False(t, adj.IsRevealed(game.User), "trial %d origin %s returned %s", trial, c.Name(), adj.Name())
			dist := abs(adj.Row()-c.Row()) + abs(adj.Column()-c.Column())
			require.Equal(t, 1, dist)
		})
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestHuntSingleCandidate(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		b := newBoard(t)
		b.Each(func(c *game.Cell) {
			if c.Coord() != (game.Coord{Row: 4, Col: 4}) {
				c.Discard(game.User)
			}
		})
		e := newEngine(seed)
		target, err := e.Next(b)
		require.NoError(t, err)
		assert.Equal(t, game.Coord{Row: 4, Col: 4}, target.Coord())
		assert.Equal(t, Hunt, e.Mode())
	}
}

func TestHuntEmptyPoolIsInvariantViolation(t *testing.T) {
	b := newBoard(t)
	b.Each(func(c *game.Cell) { c.Discard(game.User) })
	_, err := newEngine(1).Next(b)
	assert.ErrorIs(t, err, game.ErrInvariantViolation)
}

func TestHuntPrefersEarlierHit(t *testing.T) {
	b := newBoard(t, game.Coord{Row: 6, Col: 2}, game.Coord{Row: 6, Col: 3})
	fire(b, 6, 2)
	e := newEngine(5)
	require.Equal(t, Hunt, e.Mode())

	target, err := e.Next(b)
	require.NoError(t, err)
	dist := abs(target.Row()-6) + abs(target.Column()-2)
	assert.Equal(t, 1, dist)
	assert.Equal(t, Target, e.Mode())
	assert.Equal(t, "G3", e.Origin().Name())
}

func TestTargetModeChaining(t *testing.T) {
	b := newBoard(t, game.Coord{Row: 0, Col: 0}, game.Coord{Row: 1, Col: 0})
	e := newEngine(11)

	require.True(t, fire(b, 0, 0))
	require.False(t, fire(b, 0, 1))
	e.Record(b.Get(0, 0), true)
	require.Equal(t, Target, e.Mode())

	next, err := e.Next(b)
	require.NoError(t, err)
	require.Equal(t, game.Coord{Row: 1, Col: 0}, next.Coord(), "only eligible neighbour of A1")
	e.Record(next, fire(b, next.Row(), next.Column()))
	require.Equal(t, Target, e.Mode())
	assert.Equal(t, "B1", e.Origin().Name())

	next, err = e.Next(b)
	require.NoError(t, err)
	require.Equal(t, game.Coord{Row: 2, Col: 0}, next.Coord(), "continues down the column")
	assert.True(t, b.Get(1, 1).IsDiscarded(game.User))
	hit := fire(b, next.Row(), next.Column())
	require.False(t, hit)
	e.Record(next, hit)
	assert.Equal(t, Hunt, e.Mode())

	next, err = e.Next(b)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Fleet().Remaining(2), "A1-B1 closed by the edge and C1")
	assert.False(t, next.IsRevealed(game.User))
	assert.False(t, next.IsDiscarded(game.User))
	assert.Equal(t, Hunt, e.Mode())
}

func TestTargetModeFallsBackWhenNoAdjacent(t *testing.T) {
	b := newBoard(t, game.Coord{Row: 0, Col: 0}, game.Coord{Row: 0, Col: 1})
	e := newEngine(2)
	fire(b, 0, 0)
	fire(b, 0, 1)
	fire(b, 1, 0)
	fire(b, 0, 2)
	e.Record(b.Get(0, 0), true)

	next, err := e.Next(b)
	require.NoError(t, err)
	assert.Equal(t, Hunt, e.Mode())
	assert.False(t, next.IsRevealed(game.User))
	assert.Equal(t, 0, e.Fleet().Remaining(2))
}

func TestEngineSinksWholeFleet(t *testing.T) {
	cat := game.DefaultCatalogue()
	for i, layout := range cat {
		for seed := int64(1); seed <= 25; seed++ {
			b := newBoard(t)
			require.NoError(t, game.ApplyLayout(b, game.User, layout))
			e := newEngine(seed)

			shots := 0
			for !game.FleetDestroyed(b, game.User) {
				var revealed, discarded []game.Coord
				b.Each(func(c *game.Cell) {
					if c.IsRevealed(game.User) {
						revealed = append(revealed, c.Coord())
					}
					if c.IsDiscarded(game.User) {
						discarded = append(discarded, c.Coord())
					}
				})

				target, err := e.Next(b)
				require.NoError(t, err, "layout %d seed %d", i, seed)
				require.False(t, target.IsRevealed(game.User))
				require.False(t, target.HasShip(game.User) && target.IsDiscarded(game.User),
					"layout %d seed %d: ship cell %s was discarded", i, seed, target.Name())

				e.Record(target, fire(b, target.Row(), target.Column()))
				shots++

				for _, c := range revealed {
					require.True(t, b.Get(c.Row, c.Col).IsRevealed(game.User))
				}
				for _, c := range discarded {
					require.True(t, b.Get(c.Row, c.Col).IsDiscarded(game.User))
				}
			}
			require.LessOrEqual(t, shots, 100)

			b.Each(func(c *game.Cell) {
				if c.HasShip(game.User) {
					require.True(t, c.IsRevealed(game.User))
				}
			})
		}
	}
}
