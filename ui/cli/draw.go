package cli

import (
	"fmt"
	"io"
	"os"

	"aichess/src/base"
	"aichess/src/session"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// DrawFunc renders a snapshot; flipped puts black at the bottom.
type DrawFunc func(w io.Writer, snap session.Snapshot, flipped bool)

var (
	lightSq  = color.New(color.BgWhite, color.FgBlack)
	darkSq   = color.New(color.BgHiBlack, color.FgHiWhite)
	selSq    = color.New(color.BgYellow, color.FgBlack)
	lastSq   = color.New(color.BgBlue, color.FgHiWhite)
	checkSq  = color.New(color.BgRed, color.FgHiWhite, color.Bold)
	bannerFg = color.New(color.FgHiRed, color.Bold)
)

// IsTerminal reports whether out is a terminal that should get colors.
func IsTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ColorBoard draws unicode pieces on ANSI backgrounds.
func ColorBoard(w io.Writer, snap session.Snapshot, flipped bool) {
	marks := markSquares(snap.Highlights)
	printBoard(w, flipped, func(sq base.Square) string {
		p := snap.Board[sq.Index()]
		cell := " " + p.Glyph() + " "
		if r, ok := marks[sq]; ok {
			return highlightColor(r).Sprint(cell)
		}
		if (int(sq.File)+int(sq.Rank))%2 == 1 {
			return lightSq.Sprint(cell)
		}
		return darkSq.Sprint(cell)
	})
}

// PlainBoard draws FEN letters; highlighted squares are bracketed.
func PlainBoard(w io.Writer, snap session.Snapshot, flipped bool) {
	marks := markSquares(snap.Highlights)
	printBoard(w, flipped, func(sq base.Square) string {
		p := snap.Board[sq.Index()]
		sym := "."
		if !p.IsEmpty() {
			sym = p.Symbol()
		}
		r, ok := marks[sq]
		if !ok {
			return " " + sym + " "
		}
		switch r {
		case base.Selected:
			return "(" + sym + ")"
		case base.KingInCheck:
			return "!" + sym + "!"
		default:
			return "[" + sym + "]"
		}
	})
}

func printBoard(w io.Writer, flipped bool, cell func(base.Square) string) {
	files := "   a  b  c  d  e  f  g  h"
	if flipped {
		files = "   h  g  f  e  d  c  b  a"
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, files)
	for row := 0; row < 8; row++ {
		rank := 7 - row
		if flipped {
			rank = row
		}
		fmt.Fprintf(w, "%d ", rank+1)
		for col := 0; col < 8; col++ {
			file := col
			if flipped {
				file = 7 - col
			}
			fmt.Fprint(w, cell(base.NewSquare(file, rank)))
		}
		fmt.Fprintf(w, " %d\n", rank+1)
	}
	fmt.Fprintln(w, files)
	fmt.Fprintln(w)
}

// markSquares keeps the strongest reason per square: check, then
// selection, then last move.
func markSquares(hl []base.Highlight) map[base.Square]base.HighlightReason {
	rank := map[base.HighlightReason]int{base.LastMoveFrom: 1, base.LastMoveTo: 1, base.Selected: 2, base.KingInCheck: 3}
	out := make(map[base.Square]base.HighlightReason, len(hl))
	for _, h := range hl {
		if prev, ok := out[h.Square]; ok && rank[prev] >= rank[h.Reason] {
			continue
		}
		out[h.Square] = h.Reason
	}
	return out
}

func highlightColor(r base.HighlightReason) *color.Color {
	switch r {
	case base.Selected:
		return selSq
	case base.KingInCheck:
		return checkSq
	default:
		return lastSq
	}
}

func init() {
	// fatih/color guesses from os.Stdout; NewCLI decides per writer instead.
	for _, c := range []*color.Color{lightSq, darkSq, selSq, lastSq, checkSq, bannerFg} {
		c.EnableColor()
	}
}
