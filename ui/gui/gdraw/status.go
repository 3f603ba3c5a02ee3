package gdraw

import (
	"fmt"
	"strings"

	"aichess/src/base"
	"aichess/src/engine"
	"aichess/src/session"
)

type translator interface {
	T(key string) string
}

func terminalText(lang translator, t base.Terminal) string {
	switch t {
	case base.Checkmate:
		return lang.T("play.checkmate")
	case base.Stalemate:
		return lang.T("play.stalemate")
	default:
		return ""
	}
}

// statusText is the line above the board.
func statusText(lang translator, snap session.Snapshot) string {
	if snap.Terminal != base.NotTerminal {
		return terminalText(lang, snap.Terminal)
	}
	var parts []string
	if snap.Phase == session.AwaitingOpponent {
		parts = append(parts, lang.T("play.thinking"))
	} else if snap.Turn == snap.Human {
		parts = append(parts, lang.T("play.your_move"))
	}
	if snap.InCheck {
		parts = append(parts, lang.T("play.check"))
	}
	if snap.HasLastMove {
		parts = append(parts, snap.LastMove.String())
	}
	return strings.Join(parts, "  ")
}

// engineLine shows the engine name and, while it thinks, its last search info.
func engineLine(name string, thinking bool, info engine.AnalysisInfo) string {
	if !thinking || info.Depth == 0 {
		return name
	}
	line := fmt.Sprintf("%s  depth %d  %s", name, info.Depth, formatScore(info))
	if len(info.PV) > 0 {
		line += "  " + info.PV[0]
	}
	return line
}

// formatScore is from the engine's point of view: pawns or mate distance.
func formatScore(info engine.AnalysisInfo) string {
	if info.MateIn != 0 {
		return fmt.Sprintf("mate %d", info.MateIn)
	}
	return fmt.Sprintf("%+.2f", float64(info.ScoreCP)/100)
}
