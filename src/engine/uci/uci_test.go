package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"aichess/src/base"
	"aichess/src/engine"
	"aichess/src/logx"
	"aichess/src/rules"

	"github.com/google/go-cmp/cmp"
)

const fakeEngineEnv = "AICHESS_FAKE_ENGINE"

// The test binary doubles as a fake UCI engine when fakeEngineEnv is set.
func TestMain(m *testing.M) {
	if mode := os.Getenv(fakeEngineEnv); mode != "" {
		os.Exit(runFakeEngine(mode))
	}
	os.Exit(m.Run())
}

func runFakeEngine(mode string) int {
	fen := base.FENStartGame
	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "uci":
			if mode == "mute" {
				continue
			}
			fmt.Println("id name FakeFish 1.0")
			fmt.Println("id author aichess")
			fmt.Println("option name Skill Level type spin default 20 min 0 max 20")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "position":
			if len(fields) > 2 && fields[1] == "fen" {
				fen = strings.Join(fields[2:], " ")
			}
		case "go":
			if mode == "depth2" && !strings.HasPrefix(strings.Join(fields, " "), "go depth 2 movetime ") {
				fmt.Println("bestmove (none)")
				continue
			}
			switch mode {
			case "crash":
				return 3
			case "none":
				fmt.Println("bestmove (none)")
				continue
			case "garbage":
				fmt.Println("bestmove zz99")
				continue
			case "slow":
				continue
			}
			mv := firstLegal(fen)
			fmt.Println("info string thinking")
			fmt.Printf("info depth 3 seldepth 4 score cp 25 nodes 1200 nps 50000 time 12 pv %s\n", mv)
			fmt.Printf("bestmove %s\n", mv)
		case "quit":
			return 0
		}
	}
	return 0
}

func firstLegal(fen string) string {
	b, err := rules.NewChessBoard(fen)
	if err != nil {
		return "0000"
	}
	var all []string
	for _, mv := range b.LegalMoves() {
		all = append(all, mv.String())
	}
	if len(all) == 0 {
		return "(none)"
	}
	sort.Strings(all)
	return all[0]
}

func startFake(t *testing.T, mode string) *UCIExecutor {
	t.Helper()
	e := newFake(mode)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func newFake(mode string) *UCIExecutor {
	e := NewUCIExec(logx.NewNop(), os.Args[0])
	e.SetEnv(fakeEngineEnv + "=" + mode)
	e.SetTimeouts(2*time.Second, 300*time.Millisecond)
	return e
}

func TestSuggestMoveFromStart(t *testing.T) {
	e := startFake(t, "ok")
	if e.Name() != "FakeFish 1.0" {
		t.Errorf("Name() = %q", e.Name())
	}

	ch := make(chan engine.AnalysisInfo, 8)
	unsubscribe := e.Subscribe(ch)
	defer unsubscribe()

	mv, err := e.SuggestMove(context.Background(), base.FENStartGame, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("SuggestMove() failed: %v", err)
	}
	if mv.String() != firstLegal(base.FENStartGame) {
		t.Errorf("SuggestMove() = %s, want %s", mv, firstLegal(base.FENStartGame))
	}

	want := engine.AnalysisInfo{Depth: 3, TimeMs: 12, Nodes: 1200, NPS: 50000, ScoreCP: 25, PV: []string{mv.String()}}
	if diff := cmp.Diff(want, e.Info()); diff != "" {
		t.Errorf("Info() mismatch (-want +got):\n%s", diff)
	}
	select {
	case got := <-ch:
		if got.Depth != 3 {
			t.Errorf("published depth = %d", got.Depth)
		}
	default:
		t.Error("subscriber received no analysis info")
	}
}

func TestSuggestMoveUsesPosition(t *testing.T) {
	e := startFake(t, "ok")
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"

	for i := 0; i < 3; i++ {
		mv, err := e.SuggestMove(context.Background(), fen, 10*time.Millisecond)
		if err != nil {
			t.Fatalf("SuggestMove() #%d failed: %v", i, err)
		}
		b, _ := rules.NewChessBoard(fen)
		if p, _ := b.PieceAt(mv.From); p.Color != base.Black {
			t.Errorf("SuggestMove() #%d = %s moves a %v piece, want black", i, mv, p.Color)
		}
	}
}

func TestSuggestMoveSendsDepth(t *testing.T) {
	e := newFake("depth2")
	e.SetDepth(2)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })

	if _, err := e.SuggestMove(context.Background(), base.FENStartGame, 20*time.Millisecond); err != nil {
		t.Fatalf("SuggestMove() with depth 2 failed: %v", err)
	}

	e.SetDepth(0)
	if _, err := e.SuggestMove(context.Background(), base.FENStartGame, 20*time.Millisecond); !errors.Is(err, engine.ErrEngineFailed) {
		t.Errorf("SuggestMove() without depth = %v, want ErrEngineFailed from the fake", err)
	}
}

func TestInitFailures(t *testing.T) {
	t.Run("missing binary", func(t *testing.T) {
		e := NewUCIExec(logx.NewNop(), "/nonexistent/aichess-engine")
		if err := e.Init(); !errors.Is(err, engine.ErrEngineUnavailable) {
			t.Fatalf("Init() error = %v, want ErrEngineUnavailable", err)
		}
		if _, err := e.SuggestMove(context.Background(), base.FENStartGame, time.Millisecond); !errors.Is(err, engine.ErrEngineUnavailable) {
			t.Errorf("SuggestMove() without process error = %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		e := NewUCIExec(logx.NewNop(), "")
		if err := e.Init(); !errors.Is(err, engine.ErrEngineUnavailable) {
			t.Fatalf("Init() error = %v, want ErrEngineUnavailable", err)
		}
	})

	t.Run("no uciok", func(t *testing.T) {
		e := newFake("mute")
		e.SetTimeouts(200*time.Millisecond, 0)
		if err := e.Init(); !errors.Is(err, engine.ErrEngineUnavailable) {
			t.Fatalf("Init() error = %v, want ErrEngineUnavailable", err)
		}
		_ = e.Close()
	})
}

func TestSuggestMoveFailures(t *testing.T) {
	for _, mode := range []string{"crash", "none", "garbage", "slow"} {
		t.Run(mode, func(t *testing.T) {
			e := startFake(t, mode)
			_, err := e.SuggestMove(context.Background(), base.FENStartGame, 10*time.Millisecond)
			if !errors.Is(err, engine.ErrEngineFailed) {
				t.Fatalf("SuggestMove() error = %v, want ErrEngineFailed", err)
			}
		})
	}
}

func TestSuggestMoveAfterCrash(t *testing.T) {
	e := startFake(t, "crash")
	if _, err := e.SuggestMove(context.Background(), base.FENStartGame, 10*time.Millisecond); err == nil {
		t.Fatal("first SuggestMove() should fail")
	}
	if _, err := e.SuggestMove(context.Background(), base.FENStartGame, 10*time.Millisecond); !errors.Is(err, engine.ErrEngineFailed) {
		t.Errorf("SuggestMove() after crash error = %v, want ErrEngineFailed", err)
	}
}

func TestSuggestMoveCancelled(t *testing.T) {
	e := startFake(t, "slow")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.SuggestMove(ctx, base.FENStartGame, time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("SuggestMove() error = %v, want context.Canceled", err)
	}
}

func TestCloseTwice(t *testing.T) {
	e := newFake("ok")
	if err := e.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestParseInfo(t *testing.T) {
	tests := []struct {
		line string
		want engine.AnalysisInfo
	}{
		{
			line: "info depth 12 seldepth 18 multipv 1 score cp -31 nodes 91234 nps 812000 time 112 pv e7e5 g1f3 b8c6",
			want: engine.AnalysisInfo{Depth: 12, ScoreCP: -31, Nodes: 91234, NPS: 812000, TimeMs: 112, PV: []string{"e7e5", "g1f3", "b8c6"}},
		},
		{
			line: "info depth 5 score mate 3 pv d1h5",
			want: engine.AnalysisInfo{Depth: 5, MateIn: 3, PV: []string{"d1h5"}},
		},
		{
			line: "info string NNUE evaluation using nn.nnue enabled",
			want: engine.AnalysisInfo{},
		},
		{
			line: "info depth",
			want: engine.AnalysisInfo{},
		},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseInfo(tt.line)); diff != "" {
			t.Errorf("parseInfo(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}

func TestGoCommand(t *testing.T) {
	if got := goCommand(500*time.Millisecond, 0); got != "go movetime 500" {
		t.Errorf("goCommand = %q", got)
	}
	if got := goCommand(2*time.Second, 7); got != "go depth 7 movetime 2000" {
		t.Errorf("goCommand = %q", got)
	}
}

func TestParseBestMove(t *testing.T) {
	mv, err := parseBestMove("bestmove e7e8q ponder a2a3")
	if err != nil || mv.String() != "e7e8q" {
		t.Errorf("parseBestMove = %v, %v", mv, err)
	}
	for _, bad := range []string{"bestmove", "bestmove (none)", "bestmove 0000", "readyok"} {
		if _, err := parseBestMove(bad); err == nil {
			t.Errorf("parseBestMove(%q) should fail", bad)
		}
	}
}
