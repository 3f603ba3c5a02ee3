package rules

import (
	"fmt"
	"strings"

	"aichess/src/base"

	"github.com/notnil/chess"
)

// ChessBoard implements Authority on top of notnil/chess. Not safe for
// concurrent use.
type ChessBoard struct {
	startFEN     string
	start        func(*chess.Game)
	game         *chess.Game
	startInCheck bool
}

// NewChessBoard creates a board at the given start position; an empty fen
// means the standard start.
func NewChessBoard(fen string) (*ChessBoard, error) {
	if strings.TrimSpace(fen) == "" {
		fen = base.FENStartGame
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFEN, err)
	}
	b := &ChessBoard{startFEN: fen, start: opt}
	b.Reset()
	return b, nil
}

func (b *ChessBoard) Reset() {
	b.game = chess.NewGame(b.start)
	b.startInCheck = inCheck(b.game.Position())
}

func (b *ChessBoard) StartFEN() string {
	return b.startFEN
}

func (b *ChessBoard) PieceAt(sq base.Square) (base.Piece, bool) {
	if !sq.Valid() {
		return base.NoPiece, false
	}
	p := fromPiece(b.game.Position().Board().Piece(toSquare(sq)))
	return p, !p.IsEmpty()
}

func (b *ChessBoard) Board() [64]base.Piece {
	var out [64]base.Piece
	board := b.game.Position().Board()
	for i := 0; i < 64; i++ {
		out[i] = fromPiece(board.Piece(chess.Square(i)))
	}
	return out
}

func (b *ChessBoard) LegalMoves() []base.Move {
	valid := b.game.ValidMoves()
	out := make([]base.Move, 0, len(valid))
	for _, m := range valid {
		out = append(out, fromMove(m))
	}
	return out
}

func (b *ChessBoard) Turn() base.Color {
	return fromColor(b.game.Position().Turn())
}

func (b *ChessBoard) IsCheck() bool {
	moves := b.game.Moves()
	if len(moves) == 0 {
		return b.startInCheck
	}
	return moves[len(moves)-1].HasTag(chess.Check)
}

func (b *ChessBoard) KingSquare(c base.Color) (base.Square, bool) {
	king := base.Piece{Color: c, Kind: base.King}
	board := b.game.Position().Board()
	for i := 0; i < 64; i++ {
		if fromPiece(board.Piece(chess.Square(i))) == king {
			return base.SquareFromIndex(i), true
		}
	}
	return base.NoSquare, false
}

func (b *ChessBoard) IsCheckmate() bool {
	return b.game.Position().Status() == chess.Checkmate
}

func (b *ChessBoard) IsStalemate() bool {
	return b.game.Position().Status() == chess.Stalemate
}

func (b *ChessBoard) Apply(mv base.Move) error {
	for _, m := range b.game.ValidMoves() {
		if fromMove(m).Equal(mv) {
			if err := b.game.Move(m); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrIllegalMove, mv, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrIllegalMove, mv)
}

func (b *ChessBoard) FEN() string {
	return b.game.Position().String()
}

func (b *ChessBoard) PGN() string {
	return b.game.String()
}

func (b *ChessBoard) MoveHistory() []base.Move {
	moves := b.game.Moves()
	out := make([]base.Move, 0, len(moves))
	for _, m := range moves {
		out = append(out, fromMove(m))
	}
	return out
}

// inCheck reports whether the side to move is in check, for positions
// loaded without history. Attacks are traced from the king square on the raw
// board, so a checker pinned to its own king still counts.
func inCheck(pos *chess.Position) bool {
	if pos.Status() == chess.Checkmate {
		return true
	}
	us := pos.Turn()
	board := pos.Board()
	for i := 0; i < 64; i++ {
		p := board.Piece(chess.Square(i))
		if p.Type() == chess.King && p.Color() == us {
			return attacked(board, i%8, i/8, us.Other())
		}
	}
	return false
}

var (
	knightJumps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	straight    = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal    = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// attacked reports whether the square at file f, rank r is attacked by a
// piece of color by.
func attacked(board *chess.Board, f, r int, by chess.Color) bool {
	at := func(f, r int) chess.Piece {
		if f < 0 || f > 7 || r < 0 || r > 7 {
			return chess.NoPiece
		}
		return board.Piece(chess.Square(r*8 + f))
	}
	is := func(p chess.Piece, types ...chess.PieceType) bool {
		if p == chess.NoPiece || p.Color() != by {
			return false
		}
		for _, t := range types {
			if p.Type() == t {
				return true
			}
		}
		return false
	}

	pawnRank := r - 1
	if by == chess.Black {
		pawnRank = r + 1
	}
	if is(at(f-1, pawnRank), chess.Pawn) || is(at(f+1, pawnRank), chess.Pawn) {
		return true
	}
	for _, d := range knightJumps {
		if is(at(f+d[0], r+d[1]), chess.Knight) {
			return true
		}
	}
	for _, d := range kingSteps {
		if is(at(f+d[0], r+d[1]), chess.King) {
			return true
		}
	}
	slide := func(dirs [4][2]int, types ...chess.PieceType) bool {
		for _, d := range dirs {
			for x, y := f+d[0], r+d[1]; x >= 0 && x < 8 && y >= 0 && y < 8; x, y = x+d[0], y+d[1] {
				if p := at(x, y); p != chess.NoPiece {
					if is(p, types...) {
						return true
					}
					break
				}
			}
		}
		return false
	}
	return slide(straight, chess.Rook, chess.Queen) || slide(diagonal, chess.Bishop, chess.Queen)
}

// ---- conversions ----

func toSquare(sq base.Square) chess.Square {
	return chess.Square(sq.Index())
}

func fromSquare(sq chess.Square) base.Square {
	return base.SquareFromIndex(int(sq))
}

func fromColor(c chess.Color) base.Color {
	if c == chess.Black {
		return base.Black
	}
	return base.White
}

func fromKind(t chess.PieceType) base.PieceKind {
	switch t {
	case chess.Pawn:
		return base.Pawn
	case chess.Knight:
		return base.Knight
	case chess.Bishop:
		return base.Bishop
	case chess.Rook:
		return base.Rook
	case chess.Queen:
		return base.Queen
	case chess.King:
		return base.King
	default:
		return base.NoKind
	}
}

func fromPiece(p chess.Piece) base.Piece {
	if p == chess.NoPiece {
		return base.NoPiece
	}
	return base.Piece{Color: fromColor(p.Color()), Kind: fromKind(p.Type())}
}

func fromMove(m *chess.Move) base.Move {
	return base.Move{From: fromSquare(m.S1()), To: fromSquare(m.S2()), Promotion: fromKind(m.Promo())}
}
