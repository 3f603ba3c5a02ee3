package engine

import (
	"context"
	"errors"
	"time"

	"aichess/src/base"
)

var (
	// the engine could not be started; no game is playable
	ErrEngineUnavailable = errors.New("engine unavailable")
	// crash, protocol violation or timeout during a game
	ErrEngineFailed = errors.New("engine failed")
)

const (
	UCIHandshakeTimeout = 5 * time.Second // uci / isready
	UCIBestMoveGrace    = 5 * time.Second // on top of the thinking budget
	UCIQuitTimeout      = 2 * time.Second
	DefaultBudget       = 500 * time.Millisecond
)

// Opponent suggests one move for a position. SuggestMove blocks for about
// budget; any error it returns is fatal for the session.
type Opponent interface {
	SuggestMove(ctx context.Context, fen string, budget time.Duration) (base.Move, error)
	Close() error
}

type AnalysisInfo struct {
	Depth   int
	TimeMs  int64
	Nodes   int64
	NPS     int64
	ScoreCP int      // centipawns, side to move
	MateIn  int      // plies, 0 if none
	PV      []string // principal variation in UCI notation
}

type SearchParams struct {
	MaxDepth int // 0 = no depth limit
	MoveTime time.Duration
}

type Level int

const (
	LevelOne Level = iota + 1
	LevelTwo
	LevelThree
	LevelFour
	LevelFive
	LevelSix
	LevelSeven
	LevelEight
	LevelNine
	LevelTen
)

// LevelToParams maps a 1..10 strength level to search limits; anything
// else gets the default budget without a depth limit.
func LevelToParams(lvl Level) SearchParams {
	switch lvl {
	case LevelOne:
		return SearchParams{MaxDepth: 1, MoveTime: 100 * time.Millisecond}
	case LevelTwo:
		return SearchParams{MaxDepth: 2, MoveTime: 200 * time.Millisecond}
	case LevelThree:
		return SearchParams{MaxDepth: 3, MoveTime: 300 * time.Millisecond}
	case LevelFour:
		return SearchParams{MaxDepth: 5, MoveTime: 400 * time.Millisecond}
	case LevelFive:
		return SearchParams{MaxDepth: 7, MoveTime: 500 * time.Millisecond}
	case LevelSix:
		return SearchParams{MaxDepth: 9, MoveTime: 1000 * time.Millisecond}
	case LevelSeven:
		return SearchParams{MaxDepth: 11, MoveTime: 1500 * time.Millisecond}
	case LevelEight:
		return SearchParams{MaxDepth: 13, MoveTime: 2500 * time.Millisecond}
	case LevelNine:
		return SearchParams{MaxDepth: 16, MoveTime: 4000 * time.Millisecond}
	case LevelTen:
		return SearchParams{MaxDepth: 0, MoveTime: 6000 * time.Millisecond}
	default:
		return SearchParams{MaxDepth: 0, MoveTime: DefaultBudget}
	}
}
