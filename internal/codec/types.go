// Package codec holds the JSON shapes exchanged by the fair-play auditor.
package codec

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"battleship/internal/game"
	"battleship/internal/zk"
)

type ShotProofPayload struct {
	Cell   string        `json:"cell"`
	Proof  []byte        `json:"proof"`
	Public zk.ShotPublic `json:"public"`
}

// Opening reveals a committed layout once the game is over.
type Opening struct {
	Layout  []string `json:"layout"`
	SaltHex string   `json:"salt_hex"`
}

func NewOpening(l game.Layout, salt *big.Int) Opening {
	return Opening{
		Layout:  strings.Split(strings.TrimSuffix(l.String(), "\n"), "\n"),
		SaltHex: FormatHex(salt),
	}
}

// Decode returns the layout and salt of an opening.
func (o Opening) Decode() (game.Layout, *big.Int, error) {
	l, err := game.ParseLayout(o.Layout...)
	if err != nil {
		return nil, nil, err
	}
	salt, err := ParseHex(o.SaltHex)
	if err != nil {
		return nil, nil, fmt.Errorf("salt: %w", err)
	}
	return l, salt, nil
}

func (o Opening) JSON() ([]byte, error) { return json.MarshalIndent(o, "", "  ") }

func FormatHex(x *big.Int) string { return fmt.Sprintf("0x%x", x) }

func ParseHex(s string) (*big.Int, error) {
	if len(s) < 3 || s[:2] != "0x" {
		return nil, fmt.Errorf("invalid hex %q", s)
	}
	x, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return nil, fmt.Errorf("cannot parse hex %q", s)
	}
	return x, nil
}
