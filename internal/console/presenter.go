// Package console is the text front end: it draws both boards and reads the
// user's target cells.
package console

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"battleship/internal/app"
	"battleship/internal/game"
)

var symbols = map[game.RenderState]string{
	game.Hidden:      "~",
	game.Hit:         "X",
	game.Miss:        "o",
	game.ShipVisible: "S",
}

// Presenter keeps what the player has been shown of both fleets and writes it out on demand.
type Presenter struct {
	w      io.Writer
	size   int
	grid   [2][][]game.RenderState
	winner *game.Side
}

func NewPresenter(w io.Writer, size int) *Presenter {
	p := &Presenter{w: w, size: size}
	for _, side := range game.Sides {
		p.grid[side] = make([][]game.RenderState, size)
		for r := range p.grid[side] {
			p.grid[side][r] = make([]game.RenderState, size)
		}
	}
	return p
}

func (p *Presenter) RevealCell(side game.Side, at game.Coord, state game.RenderState) {
	if at.Row < 0 || at.Row >= p.size || at.Col < 0 || at.Col >= p.size {
		return
	}
	p.grid[side][at.Row][at.Col] = state
}

func (p *Presenter) GameOver(winner game.Side) { p.winner = &winner }

// Boards renders the user fleet and the enemy waters side by side.
func (p *Presenter) Boards() string {
	var buf bytes.Buffer
	buf.WriteString("YOUR FLEET | ENEMY WATERS\n")
	tw := tabwriter.NewWriter(&buf, 2, 0, 1, ' ', 0)

	header := func() {
		fmt.Fprint(tw, "\t")
		for col := 1; col <= p.size; col++ {
			fmt.Fprint(tw, strconv.Itoa(col)+"\t")
		}
	}
	header()
	fmt.Fprint(tw, "|\t")
	header()
	fmt.Fprint(tw, "\n")

	for row := 0; row < p.size; row++ {
		label := string(rune('A' + row))
		for i, side := range []game.Side{game.User, game.Computer} {
			if i > 0 {
				fmt.Fprint(tw, "|\t")
			}
			fmt.Fprint(tw, label+"\t")
			for col := 0; col < p.size; col++ {
				fmt.Fprint(tw, symbols[p.grid[side][row][col]]+"\t")
			}
		}
		fmt.Fprint(tw, "\n")
	}
	tw.Flush()
	return buf.String()
}

// Draw writes the boards, plus the result once the game is over.
func (p *Presenter) Draw() error {
	out := p.Boards()
	if p.winner != nil {
		if *p.winner == game.User {
			out += "\nYOU WIN! Every enemy ship is sunk.\n"
		} else {
			out += "\nCOMPUTER WINS. Remaining enemy ships are shown as S.\n"
		}
	}
	_, err := io.WriteString(p.w, out)
	return err
}

// Report prints one line per shot of the exchange.
func (p *Presenter) Report(r app.TurnReport) error {
	for _, shot := range r.Shots {
		result := "miss"
		if shot.Hit {
			result = "HIT"
		}
		var line string
		if shot.Shooter() == game.User {
			line = fmt.Sprintf("You fire at %s: %s", shot.At, result)
			if shot.Proven {
				line += " (proof verified)"
			}
		} else {
			line = fmt.Sprintf("Computer fires at %s: %s", shot.At, result)
		}
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return err
		}
	}
	if r.ExtraTurn {
		_, err := fmt.Fprintln(p.w, "Hit! Fire again.")
		return err
	}
	return nil
}
