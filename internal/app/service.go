// Package app runs one game session: user shots, the computer's chained turn,
// win detection and the end-of-game reveal.
package app

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"battleship/internal/codec"
	"battleship/internal/fairplay"
	"battleship/internal/game"
	"battleship/internal/targeting"
)

// Presenter draws the game. The session tells it about every cell whose
// display changes and about the end of the game.
type Presenter interface {
	RevealCell(side game.Side, at game.Coord, state game.RenderState)
	GameOver(winner game.Side)
}

type nopPresenter struct{}

func (nopPresenter) RevealCell(game.Side, game.Coord, game.RenderState) {}
func (nopPresenter) GameOver(game.Side)                                 {}

type Options struct {
	ShowOwnShips bool
	// Audit commits the computer layout and proves every result it reports.
	Audit  bool
	Rand   game.Rand
	Logger *log.Logger
}

// Shot is one resolved shot. Side is the fleet that was fired at.
type Shot struct {
	Side   game.Side
	At     game.Coord
	Hit    bool
	Mode   targeting.Mode
	Proven bool
}

func (s Shot) Shooter() game.Side { return s.Side.Opponent() }

// TurnReport lists every shot resolved by one user selection.
type TurnReport struct {
	Shots     []Shot
	ExtraTurn bool
	Over      bool
	Winner    game.Side
}

type Session struct {
	ID        string
	StartedAt time.Time

	board     *game.Board
	engine    *targeting.Engine
	presenter Presenter
	auditor   *fairplay.Auditor
	log       *log.Logger

	over    bool
	failed  error
	winner  game.Side
	opening *codec.Opening
}

// Start validates the catalogue, deals one layout to each side and returns a
// session waiting for the user's first shot.
func Start(opts Options, fleet game.FleetConfig, catalogue []game.Layout, p Presenter) (*Session, error) {
	if opts.Rand == nil {
		return nil, fmt.Errorf("%w: no random source", game.ErrConfiguration)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if p == nil {
		p = nopPresenter{}
	}
	if len(catalogue) == 0 {
		return nil, fmt.Errorf("%w: empty layout catalogue", game.ErrConfiguration)
	}

	size := catalogue[0].Size()
	if err := game.ValidateCatalogue(size, fleet, catalogue); err != nil {
		return nil, err
	}
	board, err := game.NewBoard(size)
	if err != nil {
		return nil, err
	}
	userLayout, comLayout, err := game.SelectLayouts(catalogue, opts.Rand)
	if err != nil {
		return nil, err
	}
	if err := game.ApplyLayout(board, game.User, userLayout); err != nil {
		return nil, err
	}
	if err := game.ApplyLayout(board, game.Computer, comLayout); err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		board:     board,
		presenter: p,
	}
	s.log = opts.Logger.With("session", s.ID)
	s.engine = targeting.New(game.NewFleet(fleet), opts.Rand, s.log.WithPrefix("engine"))

	if opts.Audit {
		s.auditor, err = fairplay.NewAuditor(comLayout, fleet, s.log.WithPrefix("fairplay"))
		if err != nil {
			return nil, fmt.Errorf("commit computer layout: %w", err)
		}
	}
	if opts.ShowOwnShips {
		s.showShips(game.User)
	}

	s.log.Info("game started",
		"size", size,
		"fleet", fleet,
		"show_own", opts.ShowOwnShips,
		"audit", opts.Audit,
		"started_at", s.StartedAt.Format(time.RFC3339))
	return s, nil
}

// OnUserSelect fires the user's shot. selection must hold exactly one
// in-bounds cell of the computer's fleet that was not fired at yet. A hit keeps
// the turn with the user; a miss hands it to the computer until it misses.
func (s *Session) OnUserSelect(selection []game.Coord) (TurnReport, error) {
	var report TurnReport
	if s.over {
		if s.failed != nil {
			return report, fmt.Errorf("%w: aborted: %v", game.ErrGameOver, s.failed)
		}
		return report, game.ErrGameOver
	}
	if len(selection) != 1 {
		return report, fmt.Errorf("%w: select exactly one cell, got %d", game.ErrInvalidSelection, len(selection))
	}
	at := selection[0]
	c, ok := s.board.Lookup(at.Row, at.Col)
	if !ok {
		return report, fmt.Errorf("%w: %s is off the board", game.ErrInvalidSelection, at)
	}
	if c.IsRevealed(game.Computer) {
		return report, fmt.Errorf("%w: %s was already fired at", game.ErrInvalidSelection, at)
	}

	res := game.Fire(s.board, game.Computer, at.Row, at.Col)
	shot := Shot{Side: game.Computer, At: at, Hit: res.Hit}
	if s.auditor != nil {
		if err := s.auditor.CheckShot(at, res.Hit); err != nil {
			s.over, s.failed = true, err
			return report, err
		}
		shot.Proven = true
	}
	s.record(&report, shot)

	if game.GameIsOver(s.board) {
		return report, s.finish(&report)
	}
	if res.Hit {
		report.ExtraTurn = true
		return report, nil
	}

	if err := s.computerTurn(&report); err != nil {
		return report, err
	}
	if game.GameIsOver(s.board) {
		return report, s.finish(&report)
	}
	return report, nil
}

// computerTurn fires until the engine misses or the user fleet is gone.
func (s *Session) computerTurn(report *TurnReport) error {
	for !game.GameIsOver(s.board) {
		target, err := s.engine.Next(s.board)
		if err != nil {
			return err
		}
		mode := s.engine.Mode()
		res := game.Fire(s.board, game.User, target.Row(), target.Column())
		s.engine.Record(target, res.Hit)
		s.record(report, Shot{Side: game.User, At: target.Coord(), Hit: res.Hit, Mode: mode})
		if !res.Hit {
			return nil
		}
	}
	return nil
}

func (s *Session) record(report *TurnReport, shot Shot) {
	report.Shots = append(report.Shots, shot)
	s.presenter.RevealCell(shot.Side, shot.At, s.CellRenderState(shot.Side, shot.At.Row, shot.At.Col))
	s.log.Info("shot",
		"by", shot.Shooter(),
		"cell", shot.At,
		"hit", shot.Hit,
		"proven", shot.Proven)
}

func (s *Session) finish(report *TurnReport) error {
	winner, _ := game.Winner(s.board)
	s.over, s.winner = true, winner
	report.Over, report.Winner = true, winner

	s.showShips(game.Sides[:]...)

	var err error
	if s.auditor != nil {
		o, cerr := s.auditor.Close()
		s.opening, err = &o, cerr
		s.failed = cerr
	}
	s.presenter.GameOver(winner)
	s.log.Info("game over", "winner", winner, "elapsed", time.Since(s.StartedAt).Round(time.Millisecond))
	return err
}

// showShips marks every unrevealed ship cell of the sides as visible.
func (s *Session) showShips(sides ...game.Side) {
	s.board.Each(func(c *game.Cell) {
		for _, side := range sides {
			if c.HasShip(side) && !c.IsRevealed(side) && !c.IsShown(side) {
				c.Show(side)
				s.presenter.RevealCell(side, c.Coord(), game.ShipVisible)
			}
		}
	})
}

func (s *Session) CellRenderState(side game.Side, row, col int) game.RenderState {
	return game.CellRenderState(s.board, side, row, col)
}

// RevealAll draws both fleets without touching the game state.
func (s *Session) RevealAll() {
	s.log.Warn("revealing all ships")
	s.showShips(game.Sides[:]...)
}

// Positions is a text dump of both fleets.
func (s *Session) Positions() string { return game.Positions(s.board) }

func (s *Session) Size() int { return s.board.Size() }

func (s *Session) Over() bool { return s.over }

// Winner is valid once the game ended normally.
func (s *Session) Winner() (game.Side, bool) { return s.winner, s.over && s.failed == nil }

// Commitment is the published root of the computer layout, empty without audit.
func (s *Session) Commitment() string {
	if s.auditor == nil {
		return ""
	}
	return s.auditor.Commitment().String()
}

// Opening is the verified opening of the computer layout once an audited game ends.
func (s *Session) Opening() *codec.Opening { return s.opening }

// RemainingFleet is the computer's view of the user ships still afloat.
func (s *Session) RemainingFleet() game.FleetConfig { return s.engine.Fleet().Snapshot() }
