package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"aichess/src/base"
	"aichess/src/logx"
	"aichess/src/session"
)

type CLIProcessing struct {
	sess    *session.Session
	draw    DrawFunc
	in      io.Reader
	out     io.Writer
	colored bool
	logger  logx.Logger
}

// NewCLI picks the colored board when out is a terminal.
func NewCLI(s *session.Session, logger logx.Logger, in io.Reader, out io.Writer) *CLIProcessing {
	c := &CLIProcessing{sess: s, in: in, out: out, logger: logger, draw: PlainBoard}
	if IsTerminal(out) {
		c.colored = true
		c.draw = ColorBoard
	}
	return c
}

const help = `Commands:
  e2        click a square (select, then destination)
  e2e4      two clicks at once; promotions always queen
  board     redraw the board
  fen       print the position
  pgn       print the game record
  reset     start again (only after the game is over), also "new"
  q         quit`

// RunLineMode reads one command per line until quit, EOF or ctx is
// cancelled. The returned error is non-nil only when the session hit a
// fatal error.
func (c *CLIProcessing) RunLineMode(ctx context.Context) error {
	fmt.Fprintf(c.out, "You play %s. Type 'help' for commands.\n", c.sess.Human())
	if err := c.sess.StartOpponentIfDue(ctx); err != nil {
		return c.stopped(ctx, err)
	}
	c.redraw()

	done := make(chan struct{})
	defer close(done)
	lines, readErr := c.readLines(done)
	for {
		select {
		case <-ctx.Done():
			c.logger.Infof("interrupted: %v", ctx.Err())
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			quit, err := c.handleLine(ctx, line)
			if err != nil {
				return c.stopped(ctx, err)
			}
			if quit {
				return nil
			}
		}
	}
}

// readLines scans c.in on its own goroutine so a blocked read does not hold
// up cancellation.
func (c *CLIProcessing) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// stopped drops errors caused by the interrupt itself.
func (c *CLIProcessing) stopped(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		c.logger.Infof("interrupted: %v", err)
		return nil
	}
	return err
}

func (c *CLIProcessing) handleLine(ctx context.Context, line string) (bool, error) {
	for _, tok := range strings.Fields(strings.ToLower(line)) {
		switch tok {
		case "q", "quit", "exit":
			return true, nil
		case "help", "?":
			fmt.Fprintln(c.out, help)
		case "board":
			c.redraw()
		case "fen":
			fmt.Fprintln(c.out, c.sess.Snapshot().FEN)
		case "pgn":
			fmt.Fprintln(c.out, c.sess.PGN())
		case "reset", "new":
			if c.sess.State().Terminal == base.NotTerminal {
				fmt.Fprintln(c.out, "Game in progress, reset is available after it ends")
				continue
			}
			c.sess.Reset()
			if err := c.sess.StartOpponentIfDue(ctx); err != nil {
				return false, err
			}
			c.redraw()
		default:
			if err := c.clicks(ctx, tok); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}

// clicks turns "e2" into one click and "e2e4" into two.
func (c *CLIProcessing) clicks(ctx context.Context, tok string) error {
	if c.sess.State().Terminal != base.NotTerminal {
		fmt.Fprintln(c.out, "Game over. Type 'reset' to play again.")
		return nil
	}
	var squares []base.Square
	switch len(tok) {
	case 2:
		sq, err := base.ParseSquare(tok)
		if err != nil {
			fmt.Fprintf(c.out, "Unknown command: %s\n", tok)
			return nil
		}
		squares = append(squares, sq)
	case 4, 5:
		mv, err := base.ParseUCIMove(tok)
		if err != nil {
			fmt.Fprintf(c.out, "Unknown command: %s\n", tok)
			return nil
		}
		if mv.Promotion != base.NoKind && mv.Promotion != base.Queen {
			fmt.Fprintln(c.out, "Only queen promotion is supported")
			return nil
		}
		if c.sess.State().Phase == session.AwaitingDestination {
			// drop a half-made selection so the pair starts fresh
			if err := c.sess.HandleClick(ctx, c.sess.State().Selected); err != nil {
				return err
			}
		}
		squares = append(squares, mv.From, mv.To)
	default:
		fmt.Fprintf(c.out, "Unknown command: %s\n", tok)
		return nil
	}

	before := len(c.sess.Snapshot().History)
	for _, sq := range squares {
		if err := c.sess.HandleClick(ctx, sq); err != nil {
			c.logger.Errorf("session stopped: %v", err)
			return err
		}
	}
	if len(squares) == 2 && len(c.sess.Snapshot().History) == before {
		fmt.Fprintf(c.out, "Illegal move: %s\n", tok)
		if st := c.sess.State(); st.Phase == session.AwaitingDestination {
			if err := c.sess.HandleClick(ctx, st.Selected); err != nil {
				return err
			}
		}
	}
	c.redraw()
	return nil
}

func (c *CLIProcessing) redraw() {
	snap := c.sess.Snapshot()
	c.draw(c.out, snap, snap.Human == base.Black)
	c.printStatus(snap)
}

func (c *CLIProcessing) printStatus(snap session.Snapshot) {
	if snap.HasLastMove {
		fmt.Fprintf(c.out, "Last move: %s\n", snap.History[len(snap.History)-1])
	}
	if snap.Selected.Valid() {
		fmt.Fprintf(c.out, "Selected: %s\n", snap.Selected)
	}
	switch snap.Terminal {
	case base.Checkmate:
		c.banner("CHECKMATE!")
	case base.Stalemate:
		c.banner("STALEMATE!")
	default:
		status := fmt.Sprintf("%s to move", snap.Turn)
		if snap.InCheck {
			status += ", check"
		}
		fmt.Fprintln(c.out, status)
	}
}

func (c *CLIProcessing) banner(msg string) {
	if c.colored {
		msg = bannerFg.Sprint(msg)
	}
	fmt.Fprintf(c.out, "%s Type 'reset' to play again.\n", msg)
}
