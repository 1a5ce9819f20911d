// Package fairplay lets the computer prove that every result it reports comes
// from the layout it committed to at game start.
//
// The computer acts as Prover: it publishes a salted Merkle root of its layout
// and answers each shot with a groth16 proof for that cell. The user's side acts
// as Verifier: it checks each proof against the root and, once the game is over,
// checks the opened layout against the same root and against every result it
// was shown.
package fairplay

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/charmbracelet/log"

	"battleship/internal/codec"
	"battleship/internal/game"
	"battleship/internal/merkle"
	"battleship/internal/zk"
)

var (
	ErrProofRejected   = errors.New("shot proof rejected")
	ErrOpeningMismatch = errors.New("opening does not match commitment")
)

type Commitment struct {
	Root *big.Int
	Size int
}

func (c Commitment) String() string { return codec.FormatHex(c.Root) }

func (c Commitment) index(at game.Coord) int { return at.Row*c.Size + at.Col }

type Prover struct {
	keys       *zk.Keys
	layout     game.Layout
	tree       *merkle.Tree
	salt       *big.Int
	commitment Commitment
}

// Commit salts and commits layout. random supplies the salt.
func Commit(keys *zk.Keys, layout game.Layout, random io.Reader) (*Prover, error) {
	n := layout.Size()
	if n == 0 || n*n > merkle.Leaves {
		return nil, fmt.Errorf("%w: a %dx%d board does not fit a commitment", game.ErrConfiguration, n, n)
	}
	tree, err := merkle.Build(layout.Flatten())
	if err != nil {
		return nil, err
	}

	// salt keeps two commitments to the same layout unlinkable
	saltBytes := make([]byte, 32)
	if _, err := io.ReadFull(random, saltBytes); err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}
	salt := merkle.Reduce(new(big.Int).SetBytes(saltBytes))

	return &Prover{
		keys:       keys,
		layout:     layout,
		tree:       tree,
		salt:       salt,
		commitment: Commitment{Root: tree.SaltedRoot(salt), Size: n},
	}, nil
}

func (p *Prover) Commitment() Commitment { return p.commitment }

// Prove answers a shot at c with a proof of the cell's content.
func (p *Prover) Prove(c game.Coord) (codec.ShotProofPayload, error) {
	if c.Row < 0 || c.Row >= p.commitment.Size || c.Col < 0 || c.Col >= p.commitment.Size {
		return codec.ShotProofPayload{}, fmt.Errorf("%w: %s is off the board", game.ErrInvalidSelection, c)
	}
	idx := p.commitment.index(c)
	path, err := p.tree.Path(idx)
	if err != nil {
		return codec.ShotProofPayload{}, err
	}
	proof, pub, err := p.keys.ProveShot(zk.ShotWitness{
		Bit:   p.layout[c.Row][c.Col],
		Index: idx,
		Salt:  p.salt,
		Path:  path,
		Root:  p.commitment.Root,
	})
	if err != nil {
		return codec.ShotProofPayload{}, fmt.Errorf("prove %s: %w", c, err)
	}
	return codec.ShotProofPayload{Cell: c.Name(), Proof: proof, Public: pub}, nil
}

func (p *Prover) Open() codec.Opening { return codec.NewOpening(p.layout, p.salt) }

type Verifier struct {
	keys       *zk.Keys
	commitment Commitment
	claims     map[int]uint8
}

func NewVerifier(keys *zk.Keys, commitment Commitment) *Verifier {
	return &Verifier{keys: keys, commitment: commitment, claims: make(map[int]uint8)}
}

// VerifyShot checks that payload proves the content of c and returns it.
func (v *Verifier) VerifyShot(c game.Coord, payload codec.ShotProofPayload) (bool, error) {
	idx := v.commitment.index(c)
	if payload.Public.Index != idx {
		return false, fmt.Errorf("%w: proof is for cell index %d, shot was %s", ErrProofRejected, payload.Public.Index, c)
	}
	if payload.Public.Root == nil || payload.Public.Root.Cmp(v.commitment.Root) != 0 {
		return false, fmt.Errorf("%w: %s: root mismatch", ErrProofRejected, c)
	}
	if err := v.keys.VerifyShot(payload.Proof, payload.Public); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrProofRejected, c, err)
	}
	v.claims[idx] = payload.Public.Hit
	return payload.Public.Hit == 1, nil
}

// VerifyOpening checks that o opens the commitment to a legal layout for fleet
// that agrees with every verified shot, and returns that layout.
func (v *Verifier) VerifyOpening(o codec.Opening, fleet game.FleetConfig) (game.Layout, error) {
	l, salt, err := o.Decode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpeningMismatch, err)
	}
	if err := l.Validate(v.commitment.Size, fleet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpeningMismatch, err)
	}
	tree, err := merkle.Build(l.Flatten())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpeningMismatch, err)
	}
	if tree.SaltedRoot(merkle.Reduce(salt)).Cmp(v.commitment.Root) != 0 {
		return nil, fmt.Errorf("%w: root %s", ErrOpeningMismatch, v.commitment)
	}
	cells := l.Flatten()
	for idx, bit := range v.claims {
		if cells[idx] != bit {
			return nil, fmt.Errorf("%w: cell index %d was proven %d", ErrOpeningMismatch, idx, bit)
		}
	}
	return l, nil
}

// Auditor runs both roles in one process for a local game.
type Auditor struct {
	prover   *Prover
	verifier *Verifier
	fleet    game.FleetConfig
	log      *log.Logger
}

func NewAuditor(layout game.Layout, fleet game.FleetConfig, logger *log.Logger) (*Auditor, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	keys, err := zk.SharedKeys()
	if err != nil {
		return nil, err
	}
	p, err := Commit(keys, layout, rand.Reader)
	if err != nil {
		return nil, err
	}
	logger.Info("layout committed", "root", p.Commitment())
	return &Auditor{
		prover:   p,
		verifier: NewVerifier(keys, p.Commitment()),
		fleet:    fleet,
		log:      logger,
	}, nil
}

func (a *Auditor) Commitment() Commitment { return a.prover.Commitment() }

// CheckShot proves the cell at c and fails unless the proof matches reported.
func (a *Auditor) CheckShot(c game.Coord, reported bool) error {
	payload, err := a.prover.Prove(c)
	if err != nil {
		return err
	}
	hit, err := a.verifier.VerifyShot(c, payload)
	if err != nil {
		return err
	}
	if hit != reported {
		return fmt.Errorf("%w: %s reported hit=%t, proof says hit=%t", ErrProofRejected, c, reported, hit)
	}
	a.log.Debug("shot proof verified", "cell", c, "hit", hit, "proof_bytes", len(payload.Proof))
	return nil
}

// Close opens the commitment and verifies the opening.
func (a *Auditor) Close() (codec.Opening, error) {
	o := a.prover.Open()
	if _, err := a.verifier.VerifyOpening(o, a.fleet); err != nil {
		return o, err
	}
	a.log.Info("opening verified", "root", a.prover.Commitment())
	return o, nil
}
