package session

import (
	"aichess/src/base"
	"aichess/src/rules"
)

// Highlights lists the squares a renderer should mark: last move, current
// selection, and the king of the side to move when it is in check. It only
// reads its arguments.
func Highlights(st State, view rules.View) []base.Highlight {
	var out []base.Highlight
	if st.HasLastMove {
		out = append(out,
			base.Highlight{Square: st.LastMove.From, Reason: base.LastMoveFrom},
			base.Highlight{Square: st.LastMove.To, Reason: base.LastMoveTo},
		)
	}
	if st.Selected.Valid() {
		out = append(out, base.Highlight{Square: st.Selected, Reason: base.Selected})
	}
	if view.IsCheck() {
		if ks, ok := view.KingSquare(view.Turn()); ok {
			out = append(out, base.Highlight{Square: ks, Reason: base.KingInCheck})
		}
	}
	return out
}
