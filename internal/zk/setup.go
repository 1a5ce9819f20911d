// Package zk holds the groth16 shot circuit over BN254 and its in-memory keys.
package zk

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"

	"battleship/internal/merkle"
)

type ShotPublic struct {
	Root  *big.Int `json:"root"`
	Index int      `json:"index"`
	Hit   uint8    `json:"hit"`
}

// ShotWitness is everything the prover knows about one cell.
type ShotWitness struct {
	Bit   uint8
	Index int
	Salt  *big.Int
	Path  []*big.Int
	Root  *big.Int
}

// Keys is a compiled shot circuit with its proving and verifying keys.
type Keys struct {
	cs constraint.ConstraintSystem
	pk groth16.ProvingKey
	vk groth16.VerifyingKey
}

// Setup compiles the circuit and runs a fresh groth16 setup.
func Setup() (*Keys, error) {
	var circuit ShotCircuit
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return nil, fmt.Errorf("compile shot circuit: %w", err)
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup: %w", err)
	}
	return &Keys{cs: cs, pk: pk, vk: vk}, nil
}

var (
	sharedOnce sync.Once
	shared     *Keys
	sharedErr  error
)

// SharedKeys runs Setup once per process; every later caller gets the same keys.
func SharedKeys() (*Keys, error) {
	sharedOnce.Do(func() { shared, sharedErr = Setup() })
	return shared, sharedErr
}

// ProveShot proves one cell and returns the serialized proof.
func (k *Keys) ProveShot(w ShotWitness) ([]byte, ShotPublic, error) {
	if len(w.Path) != merkle.Depth {
		return nil, ShotPublic{}, errors.New("bad path length")
	}
	if w.Index < 0 || w.Index >= merkle.Leaves {
		return nil, ShotPublic{}, errors.New("cell index out of range")
	}
	if w.Salt == nil || w.Root == nil {
		return nil, ShotPublic{}, errors.New("missing salt or root")
	}

	var assign ShotCircuit
	assign.Bit = w.Bit
	assign.Salt = w.Salt
	for i := 0; i < merkle.Depth; i++ {
		assign.Path[i] = w.Path[i]
	}
	assign.Root = w.Root
	assign.Index = w.Index
	assign.Hit = w.Bit

	fullWit, err := frontend.NewWitness(&assign, ecc.BN254.ScalarField())
	if err != nil {
		return nil, ShotPublic{}, err
	}
	proof, err := groth16.Prove(k.cs, k.pk, fullWit)
	if err != nil {
		return nil, ShotPublic{}, err
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, ShotPublic{}, err
	}
	return buf.Bytes(), ShotPublic{Root: new(big.Int).Set(w.Root), Index: w.Index, Hit: w.Bit}, nil
}

// VerifyShot returns nil when proofBin proves pub.
func (k *Keys) VerifyShot(proofBin []byte, pub ShotPublic) error {
	if pub.Root == nil {
		return errors.New("proof payload missing public root")
	}
	if pub.Hit > 1 {
		return errors.New("invalid hit public output")
	}

	var pubAssign ShotCircuit
	pubAssign.Root = pub.Root
	pubAssign.Index = pub.Index
	pubAssign.Hit = pub.Hit
	pubWit, err := frontend.NewWitness(&pubAssign, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return err
	}

	pr := groth16.NewProof(ecc.BN254)
	if _, err := pr.ReadFrom(bytes.NewReader(proofBin)); err != nil {
		return fmt.Errorf("decode proof: %w", err)
	}
	return groth16.Verify(pr, k.vk, pubWit)
}

// WriteVerifyingKey exports the verifying key so a third party can check proofs.
func (k *Keys) WriteVerifyingKey(w io.Writer) error {
	_, err := k.vk.WriteTo(w)
	return err
}

// SetLogOutput routes gnark's internal zerolog output to w. Below debug level
// the prover stays silent.
func SetLogOutput(w io.Writer, debug bool) {
	if !debug {
		logger.Disable()
		return
	}
	logger.Set(zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger())
}
