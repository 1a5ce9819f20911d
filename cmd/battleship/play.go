package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"battleship/internal/app"
	"battleship/internal/console"
	"battleship/internal/game"
)

// play drives one session from line input until the game ends, the user quits
// or input runs out.
func play(s *app.Session, p *console.Presenter, in *bufio.Reader, out io.Writer) error {
	for {
		if err := p.Draw(); err != nil {
			return err
		}
		if s.Over() {
			break
		}
		fmt.Fprint(out, "Target (e.g. B7, reveal, positions, quit): ")
		input, err := console.ReadSelection(in)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, game.ErrInvalidSelection) {
			fmt.Fprintln(out, err)
			continue
		}
		if err != nil {
			return err
		}

		switch input.Command {
		case console.Quit:
			return nil
		case console.Reveal:
			s.RevealAll()
			continue
		case console.Positions:
			fmt.Fprint(out, s.Positions())
			continue
		}

		report, err := s.OnUserSelect(input.Coords)
		if errors.Is(err, game.ErrInvalidSelection) {
			fmt.Fprintln(out, err)
			continue
		}
		if rerr := p.Report(report); rerr != nil {
			return rerr
		}
		if err != nil {
			return err
		}
	}

	if o := s.Opening(); o != nil {
		raw, err := o.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Computer layout opening, verified against the commitment:\n%s\n", raw)
	}
	return nil
}
