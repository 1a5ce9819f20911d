package console

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode"

	"battleship/internal/game"
)

type Command uint8

const (
	Fire Command = iota
	Quit
	Reveal
	Positions
)

// Input is one line typed by the user. Coords is only set for Fire and may
// hold zero or several cells; the session decides whether that is acceptable.
type Input struct {
	Command Command
	Coords  []game.Coord
}

// ReadSelection reads one line from r. It returns io.EOF once r is drained.
func ReadSelection(r *bufio.Reader) (Input, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return Input{}, err
	}
	return ParseSelection(line)
}

// ParseSelection accepts commands (quit, reveal, positions) or cells such as
// "B7", "b 7" or "B7 C3".
func ParseSelection(line string) (Input, error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return Input{Command: Quit}, nil
	case "reveal":
		return Input{Command: Reveal}, nil
	case "positions":
		return Input{Command: Positions}, nil
	}

	tokens := strings.FieldsFunc(line, func(r rune) bool { return unicode.IsSpace(r) || r == ',' })
	in := Input{Command: Fire}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		// "b 7": a bare row letter followed by its column
		if len(tok) == 1 && i+1 < len(tokens) && isDigits(tokens[i+1]) {
			tok += tokens[i+1]
			i++
		}
		c, err := game.ParseCoord(tok)
		if err != nil {
			return Input{}, err
		}
		in.Coords = append(in.Coords, c)
	}
	return in, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
