package console

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/app"
	"battleship/internal/game"
)

func row(t *testing.T, boards, label string) []string {
	t.Helper()
	for _, line := range strings.Split(boards, "\n") {
		f := strings.Fields(line)
		if len(f) > 0 && f[0] == label {
			return f
		}
	}
	t.Fatalf("row %s not found in\n%s", label, boards)
	return nil
}

func TestBoards(t *testing.T) {
	p := NewPresenter(io.Discard, 10)
	p.RevealCell(game.User, game.Coord{Row: 0, Col: 0}, game.ShipVisible)
	p.RevealCell(game.User, game.Coord{Row: 0, Col: 1}, game.Hit)
	p.RevealCell(game.Computer, game.Coord{Row: 0, Col: 9}, game.Miss)
	p.RevealCell(game.Computer, game.Coord{Row: 10, Col: 0}, game.Hit) // ignored

	out := p.Boards()
	a := row(t, out, "A")
	require.Len(t, a, 23)
	assert.Equal(t, []string{"S", "X", "~"}, a[1:4])
	assert.Equal(t, "|", a[11])
	assert.Equal(t, "A", a[12])
	assert.Equal(t, "o", a[22])

	j := row(t, out, "J")
	assert.Equal(t, strings.Repeat("~", 20), strings.Join(append(j[1:11], j[13:]...), ""))
	assert.Contains(t, out, "ENEMY WATERS")
}

func TestDrawAndReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf, 4)

	require.NoError(t, p.Report(app.TurnReport{
		Shots: []app.Shot{
			{Side: game.Computer, At: game.Coord{Row: 1, Col: 6}, Proven: true},
			{Side: game.User, At: game.Coord{Row: 2, Col: 2}, Hit: true},
			{Side: game.User, At: game.Coord{Row: 2, Col: 3}},
		},
	}))
	assert.Equal(t, "You fire at B7: miss (proof verified)\n"+
		"Computer fires at C3: HIT\n"+
		"Computer fires at C4: miss\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Report(app.TurnReport{
		Shots:     []app.Shot{{Side: game.Computer, At: game.Coord{}, Hit: true}},
		ExtraTurn: true,
	}))
	assert.Contains(t, buf.String(), "Fire again")

	buf.Reset()
	p.GameOver(game.Computer)
	require.NoError(t, p.Draw())
	assert.Contains(t, buf.String(), "COMPUTER WINS")
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in     string
		cmd    Command
		coords []game.Coord
	}{
		{"B7", Fire, []game.Coord{{Row: 1, Col: 6}}},
		{" b 7 \n", Fire, []game.Coord{{Row: 1, Col: 6}}},
		{"B7 C3", Fire, []game.Coord{{Row: 1, Col: 6}, {Row: 2, Col: 2}}},
		{"a10,j1", Fire, []game.Coord{{Row: 0, Col: 9}, {Row: 9, Col: 0}}},
		{"", Fire, nil},
		{"quit", Quit, nil},
		{"Reveal", Reveal, nil},
		{"positions", Positions, nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			in, err := ParseSelection(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.cmd, in.Command)
			assert.Equal(t, tt.coords, in.Coords)
		})
	}

	for _, bad := range []string{"hello", "B", "7B", "B0", "B 7 x"} {
		_, err := ParseSelection(bad)
		assert.ErrorIs(t, err, game.ErrInvalidSelection, bad)
	}
}

func TestReadSelection(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("B7\nquit"))
	in, err := ReadSelection(r)
	require.NoError(t, err)
	assert.Equal(t, []game.Coord{{Row: 1, Col: 6}}, in.Coords)

	in, err = ReadSelection(r)
	require.NoError(t, err)
	assert.Equal(t, Quit, in.Command)

	_, err = ReadSelection(r)
	assert.ErrorIs(t, err, io.EOF)
}
