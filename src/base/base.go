package base

import (
	"errors"
	"fmt"
	"strings"
)

// Forsyth–Edwards Notation
const FENStartGame string = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ---- Color ----

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return White, fmt.Errorf("unknown color %q", s)
	}
}

// ---- Piece ----

type PieceKind uint8

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// lower case FEN letter, empty for NoKind
func (k PieceKind) Letter() string {
	switch k {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return ""
	}
}

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

func kindFromLetter(r byte) PieceKind {
	switch r {
	case 'p':
		return Pawn
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	default:
		return NoKind
	}
}

// Piece is the zero value when the square is empty.
type Piece struct {
	Color Color
	Kind  PieceKind
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// FEN symbol: upper case for white
func (p Piece) Symbol() string {
	if p.Color == White {
		return strings.ToUpper(p.Kind.Letter())
	}
	return p.Kind.Letter()
}

// unicode glyphs indexed by PieceKind
var (
	whiteGlyphs = [...]string{NoKind: " ", Pawn: "♙", Knight: "♘", Bishop: "♗", Rook: "♖", Queen: "♕", King: "♔"}
	blackGlyphs = [...]string{NoKind: " ", Pawn: "♟", Knight: "♞", Bishop: "♝", Rook: "♜", Queen: "♛", King: "♚"}
)

func (p Piece) Glyph() string {
	if p.IsEmpty() || p.Kind > King {
		return " "
	}
	if p.Color == White {
		return whiteGlyphs[p.Kind]
	}
	return blackGlyphs[p.Kind]
}

// ---- Square ----

// Square: file 0..7 (a..h), rank 0..7 (1..8)
type Square struct {
	File uint8
	Rank uint8
}

var NoSquare = Square{File: 0xff, Rank: 0xff}

var ErrBadSquare = errors.New("bad square")

func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square{File: uint8(file), Rank: uint8(rank)}
}

func SquareFromIndex(i int) Square {
	if i < 0 || i > 63 {
		return NoSquare
	}
	return Square{File: uint8(i % 8), Rank: uint8(i / 8)}
}

func (s Square) Valid() bool {
	return s.File < 8 && s.Rank < 8
}

// a1 == 0, h8 == 63
func (s Square) Index() int {
	return int(s.Rank)*8 + int(s.File)
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{'a' + s.File, '1' + s.Rank})
}

func ParseSquare(str string) (Square, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	if len(str) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrBadSquare, str)
	}
	sq := NewSquare(int(str[0])-'a', int(str[1])-'1')
	if !sq.Valid() {
		return NoSquare, fmt.Errorf("%w: %q", ErrBadSquare, str)
	}
	return sq, nil
}

// ---- Move ----

type Move struct {
	From      Square
	To        Square
	Promotion PieceKind // NoKind unless a pawn promotes
}

var ErrBadMove = errors.New("bad move")

func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// ignores promotion
func (m Move) SameEndpoints(o Move) bool {
	return m.From == o.From && m.To == o.To
}

// long algebraic (UCI): e2e4, e7e8q
func (m Move) String() string {
	return m.From.String() + m.To.String() + m.Promotion.Letter()
}

func ParseUCIMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	mv := Move{From: from, To: to}
	if len(s) == 5 {
		mv.Promotion = kindFromLetter(s[4])
		if mv.Promotion == NoKind || mv.Promotion == Pawn || mv.Promotion == King {
			return Move{}, fmt.Errorf("%w: bad promotion in %q", ErrBadMove, s)
		}
	}
	return mv, nil
}

// ---- Game status ----

type Terminal uint8

const (
	NotTerminal Terminal = iota
	Checkmate
	Stalemate
)

func (t Terminal) String() string {
	switch t {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "playing"
	}
}

// ---- Highlights ----

type HighlightReason uint8

const (
	Selected HighlightReason = iota
	LastMoveFrom
	LastMoveTo
	KingInCheck
)

func (r HighlightReason) String() string {
	switch r {
	case Selected:
		return "selected"
	case LastMoveFrom:
		return "last-from"
	case LastMoveTo:
		return "last-to"
	case KingInCheck:
		return "check"
	default:
		return "unknown"
	}
}

type Highlight struct {
	Square Square
	Reason HighlightReason
}
