// Package session is the human-vs-engine game controller: it turns square
// clicks into moves on the rules authority and asks the opponent engine for
// its replies.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"aichess/src/base"
	"aichess/src/engine"
	"aichess/src/logx"
	"aichess/src/rules"

	"github.com/google/uuid"
)

// ErrInternalRejected means the rules authority refused a move the session
// had already matched against its legal moves. It is a bug, never bad input.
var ErrInternalRejected = errors.New("rules authority rejected a legal move")

type Phase uint8

const (
	AwaitingSelection Phase = iota
	AwaitingDestination
	AwaitingOpponent
	GameOver
)

func (p Phase) String() string {
	switch p {
	case AwaitingSelection:
		return "awaiting-selection"
	case AwaitingDestination:
		return "awaiting-destination"
	case AwaitingOpponent:
		return "awaiting-opponent"
	case GameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// State is what renderers need besides the board.
type State struct {
	Selected    base.Square // base.NoSquare while awaiting the first click
	LastMove    base.Move   // endpoints of the most recent ply, valid if HasLastMove
	HasLastMove bool
	Terminal    base.Terminal
	Phase       Phase
}

func freshState() State {
	return State{Selected: base.NoSquare, LastMove: base.Move{From: base.NoSquare, To: base.NoSquare}}
}

type Config struct {
	Human  base.Color    // side the clicks play
	Budget time.Duration // engine thinking time per move
}

// Session owns one live game. All methods are safe for concurrent use;
// moves are never applied concurrently.
type Session struct {
	mu     sync.Mutex
	rules  rules.Authority
	opp    engine.Opponent
	cfg    Config
	state  State
	gen    uint64 // bumped by Reset, stale engine replies are dropped
	id     string
	fatal  error
	root   logx.Logger
	logger logx.Logger
}

func New(auth rules.Authority, opp engine.Opponent, cfg Config, logger logx.Logger) *Session {
	if cfg.Budget <= 0 {
		cfg.Budget = engine.DefaultBudget
	}
	s := &Session{rules: auth, opp: opp, cfg: cfg, root: logger}
	s.startLocked()
	return s
}

func (s *Session) startLocked() {
	s.state = freshState()
	s.gen++
	s.id = uuid.NewString()
	s.logger = s.root.With("session", s.id)
	s.evaluateLocked()
	s.logger.Infof("new game, human plays %s, start %s", s.cfg.Human, s.rules.FEN())
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Human() base.Color {
	return s.cfg.Human
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the fatal error that ended the session, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fatal
}

// HandleClick feeds one square click into the state machine. Illegal or
// ignored clicks return nil. A non-nil error is fatal: the engine failed
// or the authority rejected a move it had listed as legal. When the click
// completes a human move and the engine is due, HandleClick blocks until
// the engine has replied; clicks arriving meanwhile are ignored.
func (s *Session) HandleClick(ctx context.Context, sq base.Square) error {
	s.mu.Lock()
	due, err := s.clickLocked(sq)
	if err != nil {
		s.fatal = err
	}
	s.mu.Unlock()
	if err != nil || !due {
		return err
	}
	return s.StartOpponentIfDue(ctx)
}

func (s *Session) clickLocked(sq base.Square) (bool, error) {
	if s.fatal != nil {
		return false, s.fatal
	}
	switch s.state.Phase {
	case GameOver, AwaitingOpponent:
		s.logger.Debugf("click %s ignored in %s", sq, s.state.Phase)
		return false, nil
	}
	if !sq.Valid() {
		return false, nil
	}
	if s.state.Phase == AwaitingSelection {
		s.selectLocked(sq)
		return false, nil
	}
	return s.moveLocked(sq)
}

func (s *Session) selectLocked(sq base.Square) {
	piece, ok := s.rules.PieceAt(sq)
	if !ok || piece.Color != s.cfg.Human || s.rules.Turn() != s.cfg.Human {
		return
	}
	s.state.Selected = sq
	s.state.Phase = AwaitingDestination
	s.logger.Debugf("selected %s (%s)", sq, piece.Kind)
}

// moveLocked handles the second click. The selection clears whatever
// happens.
func (s *Session) moveLocked(to base.Square) (bool, error) {
	from := s.state.Selected
	s.state.Selected = base.NoSquare
	s.state.Phase = AwaitingSelection

	mv, ok := s.resolveLocked(from, to)
	if !ok {
		s.logger.Debugf("no legal move %s%s, selection cleared", from, to)
		return false, nil
	}
	if err := s.rules.Apply(mv); err != nil {
		s.logger.Errorf("authority rejected %s: %v", mv, err)
		return false, fmt.Errorf("%w: %s: %v", ErrInternalRejected, mv, err)
	}
	s.recordLocked(mv, "human")
	if s.evaluateLocked() != base.NotTerminal {
		return false, nil
	}
	return s.opponentDueLocked(), nil
}

// resolveLocked builds the candidate for from->to: queen promotion by
// default, then the first legal move with the same endpoints if the
// candidate itself is not legal (castling, other promotions).
func (s *Session) resolveLocked(from, to base.Square) (base.Move, bool) {
	cand := base.Move{From: from, To: to}
	if piece, ok := s.rules.PieceAt(from); ok && piece.Kind == base.Pawn && (to.Rank == 0 || to.Rank == 7) {
		cand.Promotion = base.Queen
	}

	legal := s.rules.LegalMoves()
	for _, mv := range legal {
		if mv.Equal(cand) {
			return mv, true
		}
	}
	for _, mv := range legal {
		if mv.SameEndpoints(cand) {
			return mv, true
		}
	}
	return base.Move{}, false
}

func (s *Session) recordLocked(mv base.Move, who string) {
	s.state.LastMove = base.Move{From: mv.From, To: mv.To}
	s.state.HasLastMove = true
	s.logger.Infof("%s move %s", who, mv)
}

func (s *Session) opponentDueLocked() bool {
	return s.opp != nil && s.state.Terminal == base.NotTerminal && s.rules.Turn() != s.cfg.Human
}

// EvaluateTerminal asks the authority for checkmate, then stalemate.
func (s *Session) EvaluateTerminal() base.Terminal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluateLocked()
}

func (s *Session) evaluateLocked() base.Terminal {
	switch {
	case s.rules.IsCheckmate():
		s.state.Terminal = base.Checkmate
	case s.rules.IsStalemate():
		s.state.Terminal = base.Stalemate
	default:
		s.state.Terminal = base.NotTerminal
	}

	if s.state.Terminal != base.NotTerminal {
		if s.state.Phase != GameOver {
			s.logger.Infof("game over: %s", s.state.Terminal)
		}
		s.state.Phase = GameOver
		s.state.Selected = base.NoSquare
	} else if s.state.Phase == GameOver {
		s.state.Phase = AwaitingSelection
	}
	return s.state.Terminal
}

// StartOpponentIfDue lets the engine move when it is its turn: after a
// human move, or at the start when the human plays the side not to move.
// The session lock is released while the engine thinks.
func (s *Session) StartOpponentIfDue(ctx context.Context) error {
	s.mu.Lock()
	if s.fatal != nil {
		defer s.mu.Unlock()
		return s.fatal
	}
	if s.state.Phase == AwaitingOpponent || !s.opponentDueLocked() {
		s.mu.Unlock()
		return nil
	}
	s.state.Phase = AwaitingOpponent
	s.state.Selected = base.NoSquare
	gen := s.gen
	fen := s.rules.FEN()
	budget := s.cfg.Budget
	logger := s.logger
	s.mu.Unlock()

	logger.Debugf("engine thinking for %v", budget)
	mv, err := s.opp.SuggestMove(ctx, fen, budget)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		logger.Infof("dropping engine reply %s for a reset game", mv)
		return nil
	}
	if err != nil {
		s.fatal = fmt.Errorf("opponent move: %w", err)
		s.logger.Errorf("%v", s.fatal)
		return s.fatal
	}
	if err := s.rules.Apply(mv); err != nil {
		s.fatal = fmt.Errorf("%w: illegal engine move %s: %v", engine.ErrEngineFailed, mv, err)
		s.logger.Errorf("%v", s.fatal)
		return s.fatal
	}
	s.state.Phase = AwaitingSelection
	s.recordLocked(mv, "engine")
	s.evaluateLocked()
	return nil
}

// Reset starts a fresh game from the authority's start position. Legal in
// any phase; an engine reply still in flight is discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules.Reset()
	s.startLocked()
}

// Snapshot is a consistent copy of everything a renderer draws.
type Snapshot struct {
	State
	Board      [64]base.Piece
	Turn       base.Color
	InCheck    bool
	Highlights []base.Highlight
	FEN        string
	History    []base.Move
	SessionID  string
	Human      base.Color
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:      s.state,
		Board:      s.rules.Board(),
		Turn:       s.rules.Turn(),
		InCheck:    s.rules.IsCheck(),
		Highlights: Highlights(s.state, s.rules),
		FEN:        s.rules.FEN(),
		History:    s.rules.MoveHistory(),
		SessionID:  s.id,
		Human:      s.cfg.Human,
	}
}

// PGN of the game so far.
func (s *Session) PGN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.PGN()
}
