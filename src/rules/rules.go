// Package rules is the call surface over the chess rules oracle.
package rules

import (
	"errors"

	"aichess/src/base"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrBadFEN      = errors.New("bad FEN")
)

// View is the read-only part of the oracle used by renderers and the
// highlight resolver.
type View interface {
	PieceAt(sq base.Square) (base.Piece, bool)
	Turn() base.Color
	IsCheck() bool
	KingSquare(c base.Color) (base.Square, bool)
}

// Authority is authoritative for everything rule-related; callers never
// duplicate rule logic.
type Authority interface {
	View
	LegalMoves() []base.Move
	IsCheckmate() bool
	IsStalemate() bool
	// Apply fails with ErrIllegalMove unless mv is currently legal.
	Apply(mv base.Move) error
	// Reset returns to the configured start position.
	Reset()
	FEN() string
	PGN() string
	Board() [64]base.Piece
	MoveHistory() []base.Move
}
