package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"aichess/src/base"
	"aichess/src/engine"
	"aichess/src/logx"
)

type option struct {
	name  string
	value string
}

// UCIExecutor drives one external UCI engine process for the life of a
// session. It implements engine.Opponent.
type UCIExecutor struct {
	// init
	path             string
	args             []string
	env              []string
	options          []option
	depth            int
	handshakeTimeout time.Duration
	bestMoveGrace    time.Duration

	// process
	cmd *exec.Cmd
	in  io.WriteCloser
	out io.ReadCloser

	// read stdout
	wg     sync.WaitGroup
	exited chan struct{}
	lines  chan string

	// subscribers
	submu sync.Mutex
	subs  map[int]chan<- engine.AnalysisInfo
	subid int

	// runtime
	reqmu     sync.Mutex // one search at a time
	wmu       sync.Mutex // stdin writes
	mu        sync.RWMutex
	name      string
	info      engine.AnalysisInfo
	closeOnce sync.Once
	logx      logx.Logger
}

// to open a process, need to call Init()
func NewUCIExec(logx logx.Logger, enginePath string, engineArgs ...string) *UCIExecutor {
	return &UCIExecutor{
		path: enginePath, args: engineArgs, logx: logx,
		handshakeTimeout: engine.UCIHandshakeTimeout,
		bestMoveGrace:    engine.UCIBestMoveGrace,
		subs:             make(map[int]chan<- engine.AnalysisInfo),
	}
}

// SetOption is sent as "setoption" during Init.
func (e *UCIExecutor) SetOption(name, value string) {
	e.options = append(e.options, option{name: name, value: value})
}

// SetDepth limits every search to d plies (0 = no limit).
func (e *UCIExecutor) SetDepth(d int) {
	e.depth = d
}

// SetEnv adds environment variables for the engine process.
func (e *UCIExecutor) SetEnv(env ...string) {
	e.env = append(e.env, env...)
}

func (e *UCIExecutor) SetTimeouts(handshake, bestMoveGrace time.Duration) {
	if handshake > 0 {
		e.handshakeTimeout = handshake
	}
	if bestMoveGrace > 0 {
		e.bestMoveGrace = bestMoveGrace
	}
}

// Init opens the process and runs the uci/isready handshake. Any failure
// is engine.ErrEngineUnavailable and leaves no process behind.
func (e *UCIExecutor) Init() error {
	if e.path == "" {
		return fmt.Errorf("%w: engine path is empty", engine.ErrEngineUnavailable)
	}

	cmd := exec.Command(e.path, e.args...)
	if len(e.env) > 0 {
		cmd.Env = append(os.Environ(), e.env...)
	}
	in, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: stdin of %s: %v", engine.ErrEngineUnavailable, e.path, err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: stdout of %s: %v", engine.ErrEngineUnavailable, e.path, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: open %s: %v", engine.ErrEngineUnavailable, e.path, err)
	}

	// process
	e.cmd = cmd
	e.in = in
	e.out = out
	e.lines = make(chan string, 256)
	e.exited = make(chan struct{})

	e.wg.Add(1)
	go e.stdoutLoop()

	if err := e.handshake(); err != nil {
		_ = e.Close()
		return fmt.Errorf("%w: %s: %v", engine.ErrEngineUnavailable, e.path, err)
	}
	e.logx.Infof("open engine: %s (pid %d)", e.Name(), cmd.Process.Pid)
	return nil
}

func (e *UCIExecutor) handshake() error {
	if err := e.Exec("uci"); err != nil {
		return err
	}
	if _, err := e.waitPrefix(context.Background(), "uciok", e.handshakeTimeout); err != nil {
		return err
	}
	for _, o := range e.options {
		if err := e.Exec(fmt.Sprintf("setoption name %s value %s", o.name, o.value)); err != nil {
			return err
		}
	}
	if err := e.Exec("ucinewgame"); err != nil {
		return err
	}
	return e.checkReady()
}

// command executable
func (e *UCIExecutor) Exec(cmd string) error {
	e.wmu.Lock()
	defer e.wmu.Unlock()
	if e.in == nil {
		return errors.New("stdin not available")
	}
	e.logx.Debugf("GUI: %s", cmd)
	_, err := io.WriteString(e.in, cmd+"\n")
	return err
}

func (e *UCIExecutor) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.name == "" {
		return e.path
	}
	return e.name
}

// Info returns the latest analysis of the running or last search.
func (e *UCIExecutor) Info() engine.AnalysisInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.info
}

// SuggestMove searches fen for budget and returns the engine's best move.
func (e *UCIExecutor) SuggestMove(ctx context.Context, fen string, budget time.Duration) (base.Move, error) {
	e.reqmu.Lock()
	defer e.reqmu.Unlock()

	if e.cmd == nil {
		return base.Move{}, fmt.Errorf("%w: no running uci-process", engine.ErrEngineUnavailable)
	}
	select {
	case <-e.exited:
		return base.Move{}, fmt.Errorf("%w: engine process exited", engine.ErrEngineFailed)
	default:
	}
	if budget <= 0 {
		budget = engine.DefaultBudget
	}

	e.drainLines()
	e.mu.Lock()
	e.info = engine.AnalysisInfo{}
	e.mu.Unlock()

	if err := e.Exec("position fen " + fen); err != nil {
		return base.Move{}, fmt.Errorf("%w: %v", engine.ErrEngineFailed, err)
	}
	cmd := goCommand(budget, e.depth)
	e.logx.Infof("start analyze: %s", cmd)
	if err := e.Exec(cmd); err != nil {
		return base.Move{}, fmt.Errorf("%w: %v", engine.ErrEngineFailed, err)
	}

	line, err := e.waitPrefix(ctx, "bestmove", budget+e.bestMoveGrace)
	if err != nil && ctx.Err() != nil {
		// let the search finish so its bestmove does not answer the next request
		_ = e.Exec("stop")
		_, _ = e.waitPrefix(context.Background(), "bestmove", e.bestMoveGrace)
	}
	if err != nil {
		return base.Move{}, fmt.Errorf("%w: %w", engine.ErrEngineFailed, err)
	}
	mv, err := parseBestMove(line)
	if err != nil {
		return base.Move{}, fmt.Errorf("%w: %v", engine.ErrEngineFailed, err)
	}
	e.logx.Infof("best engine move: %s", mv)
	return mv, nil
}

func (e *UCIExecutor) Subscribe(ch chan<- engine.AnalysisInfo) (unsubscribe func()) {
	e.submu.Lock()
	defer e.submu.Unlock()

	id := e.subid
	e.subs[id] = ch
	e.subid++

	return func() {
		e.submu.Lock()
		defer e.submu.Unlock()
		delete(e.subs, id)
	}
}

// Close terminates the process: "quit", then kill after UCIQuitTimeout.
// Safe to call more than once.
func (e *UCIExecutor) Close() error {
	e.closeOnce.Do(func() {
		if e.cmd == nil {
			return
		}
		_ = e.Exec("quit")
		e.wmu.Lock()
		_ = e.in.Close()
		e.wmu.Unlock()

		select {
		case <-e.exited:
		case <-time.After(engine.UCIQuitTimeout):
			if e.cmd.Process != nil {
				_ = e.cmd.Process.Kill()
			}
			<-e.exited
		}
		e.wg.Wait()
		if err := e.cmd.Wait(); err != nil {
			e.logx.Debugf("engine exit: %v", err)
		}
		e.logx.Info("uci-process terminated")
	})
	return nil
}

func (e *UCIExecutor) checkReady() error {
	if err := e.Exec("isready"); err != nil {
		return err
	}
	_, err := e.waitPrefix(context.Background(), "readyok", e.handshakeTimeout)
	return err
}

func (e *UCIExecutor) drainLines() {
	for {
		select {
		case <-e.lines:
		default:
			return
		}
	}
}

func (e *UCIExecutor) waitPrefix(ctx context.Context, prefix string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case line := <-e.lines:
			if strings.HasPrefix(line, prefix) {
				return line, nil
			}
		case <-e.exited:
			// lines are queued before exited is closed
			for {
				select {
				case line := <-e.lines:
					if strings.HasPrefix(line, prefix) {
						return line, nil
					}
				default:
					return "", fmt.Errorf("engine process exited while waiting for %s", prefix)
				}
			}
		case <-timer.C:
			return "", fmt.Errorf("timeout waiting for %s", prefix)
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (e *UCIExecutor) stdoutLoop() {
	defer e.wg.Done()
	defer close(e.exited)

	scr := bufio.NewScanner(e.out)
	for scr.Scan() {
		line := strings.TrimSpace(scr.Text())
		if line == "" {
			continue
		}
		e.logx.Debugf("ENGINE: %s", line)

		switch {
		case strings.HasPrefix(line, "info "):
			e.saveInfo(parseInfo(line))
			continue
		case strings.HasPrefix(line, "id name "):
			e.mu.Lock()
			e.name = strings.TrimPrefix(line, "id name ")
			e.mu.Unlock()
		}

		select {
		case e.lines <- line:
		default:
			e.logx.Warnf("drop engine line (buffer full): %s", line)
		}
	}
}

func (e *UCIExecutor) saveInfo(info engine.AnalysisInfo) {
	if info.Depth == 0 && len(info.PV) == 0 {
		// "info string ..." and currmove updates
		return
	}
	e.mu.Lock()
	e.info = info
	e.mu.Unlock()
	e.publish(info)
}

func (e *UCIExecutor) publish(info engine.AnalysisInfo) {
	e.submu.Lock()
	defer e.submu.Unlock()

	for _, ch := range e.subs {
		select {
		case ch <- info:
		default:
		}
	}
}

func goCommand(budget time.Duration, depth int) string {
	var b strings.Builder
	b.WriteString("go")
	if depth > 0 {
		b.WriteString(" depth " + strconv.Itoa(depth))
	}
	ms := budget.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	b.WriteString(" movetime " + strconv.FormatInt(ms, 10))
	return b.String()
}

func parseBestMove(line string) (base.Move, error) {
	f := strings.Fields(line)
	if len(f) < 2 || f[0] != "bestmove" {
		return base.Move{}, fmt.Errorf("malformed bestmove line %q", line)
	}
	if f[1] == "(none)" || f[1] == "0000" {
		return base.Move{}, errors.New("engine returned no move")
	}
	return base.ParseUCIMove(f[1])
}

func parseInfo(line string) engine.AnalysisInfo {
	info := engine.AnalysisInfo{}
	fld := strings.Fields(line)
	n := len(fld)
	for i := 1; i < n; i++ {
		switch fld[i] {
		case "string":
			// free text until the end of line
			return engine.AnalysisInfo{}
		case "depth":
			if i+1 < n {
				info.Depth, _ = strconv.Atoi(fld[i+1])
				i++
			}
		case "nodes":
			if i+1 < n {
				info.Nodes, _ = strconv.ParseInt(fld[i+1], 10, 64)
				i++
			}
		case "nps":
			if i+1 < n {
				info.NPS, _ = strconv.ParseInt(fld[i+1], 10, 64)
				i++
			}
		case "time":
			if i+1 < n {
				info.TimeMs, _ = strconv.ParseInt(fld[i+1], 10, 64)
				i++
			}
		case "score":
			if i+2 < n {
				v, err := strconv.Atoi(fld[i+2])
				if err == nil {
					switch fld[i+1] {
					case "cp":
						info.ScoreCP = v
						info.MateIn = 0
					case "mate":
						info.MateIn = v
					}
				}
				i += 2
			}
		case "pv":
			// pv is always last
			info.PV = append([]string(nil), fld[i+1:]...)
			return info
		default:
			// skip like "seldepth", "currmove" etc
		}
	}
	return info
}
