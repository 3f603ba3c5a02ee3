package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"aichess/src/config"
	"aichess/src/engine/uci"
	"aichess/src/logx"
	"aichess/src/rules"
	"aichess/src/session"
	clic "aichess/ui/cli"
	"aichess/ui/gui"
	"aichess/ui/gui/gctx"
	"aichess/ui/gui/ghelper"
	"aichess/ui/gui/ghelper/gdialog"
	"aichess/ui/gui/ghelper/gimages"
	"aichess/ui/gui/ghelper/glang"

	"github.com/urfave/cli/v3"
)

const logfile string = "aichess.log"

func GetLogger(file *os.File, c *cli.Command) *logx.Logx {
	l := logx.NewLogx(
		logx.GetLoggerLevelByString(c.String("log-level")),
		c.Bool("debug"),
		c.Bool("console"),
	)
	l.InitLogger(file)
	return l
}

// LoadConfig reads the config file and lays the command line flags over it.
func LoadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("engine") {
		cfg.EnginePath = c.String("engine")
	}
	if c.IsSet("engine-arg") {
		cfg.EngineArgs = c.StringSlice("engine-arg")
	}
	if c.IsSet("engine-option") {
		if cfg.EngineOptions == nil {
			cfg.EngineOptions = make(map[string]string)
		}
		for _, kv := range c.StringSlice("engine-option") {
			name, value, ok := strings.Cut(kv, "=")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("engine option %q: want Name=Value", kv)
			}
			cfg.EngineOptions[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}
	if c.IsSet("think") {
		cfg.ThinkMs = int(c.Int("think"))
	}
	if c.IsSet("level") {
		cfg.Level = int(c.Int("level"))
	}
	if c.IsSet("color") {
		cfg.HumanColor = c.String("color")
	}
	if c.IsSet("fen") {
		cfg.StartFEN = c.String("fen")
	}
	if c.IsSet("assets") {
		cfg.AssetsDir = c.String("assets")
	}
	if c.IsSet("theme") {
		cfg.Theme = c.String("theme")
	}
	if c.IsSet("lang") {
		cfg.Lang = c.String("lang")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	cfg.Correct()
	if c.Bool("save-config") {
		if err := cfg.Save(c.String("config")); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// game is everything one run needs; close releases the engine process.
type game struct {
	cfg    *config.Config
	logger *logx.Logx
	engine *uci.UCIExecutor
	sess   *session.Session
	close  func()
}

func startGame(c *cli.Command, cfg *config.Config, pickEngine bool) (*game, error) {
	var (
		file *os.File
		err  error
	)
	if !c.Bool("console") {
		file, err = os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("error open logfile: %w", err)
		}
	}
	logger := GetLogger(file, c)
	closers := []func(){func() { _ = logger.Sync() }}
	if file != nil {
		closers = append(closers, func() { file.Close() })
	}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if pickEngine {
		lw, err := glang.NewGUILangWorker(cfg.Lang)
		if err != nil {
			cleanup()
			return nil, err
		}
		path, err := gdialog.PickEngine(lw.T("dialog.pick_engine"))
		if err != nil && !errors.Is(err, gdialog.ErrCancelled) {
			cleanup()
			return nil, err
		}
		if path != "" {
			cfg.EnginePath = path
		}
	}

	board, err := rules.NewChessBoard(cfg.StartFEN)
	if err != nil {
		cleanup()
		return nil, err
	}

	e := uci.NewUCIExec(logger, cfg.EnginePath, cfg.EngineArgs...)
	e.SetDepth(cfg.Depth())
	for name, value := range cfg.EngineOptions {
		e.SetOption(name, value)
	}
	if err := e.Init(); err != nil {
		logger.Errorf("engine %s: %v", cfg.EnginePath, err)
		cleanup()
		return nil, err
	}
	closers = append(closers, func() { _ = e.Close() })
	logger.Infof("engine %q ready", e.Name())

	sess := session.New(board, e, session.Config{Human: cfg.Human(), Budget: cfg.Budget()}, logger)
	return &game{cfg: cfg, logger: logger, engine: e, sess: sess, close: cleanup}, nil
}

func RunGUI(ctx context.Context, c *cli.Command) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}
	// missing artwork is fatal before the engine starts
	if err := gimages.CheckPieceFiles(cfg.AssetsDir); err != nil {
		return fmt.Errorf("%w (run \"aichess assets\" to generate a default set)", err)
	}

	g, err := startGame(c, cfg, c.Bool("pick-engine"))
	if err != nil {
		return err
	}
	defer g.close()

	assets, err := ghelper.NewGUIAssetsWorker(g.cfg.AssetsDir, g.cfg.Lang)
	if err != nil {
		return err
	}
	gameCtx := gctx.NewGUIGameContext(g.sess, g.engine, assets, g.cfg, g.logger)
	return gui.NewGUI(gameCtx).Run(ctx)
}

func RunCLI(ctx context.Context, c *cli.Command) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}
	g, err := startGame(c, cfg, false)
	if err != nil {
		return err
	}
	defer g.close()

	clic.EnableANSI()
	return clic.NewCLI(g.sess, g.logger, os.Stdin, os.Stdout).RunLineMode(ctx)
}

func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Value: config.DefaultFile, Usage: "path to the JSON config"},
		&cli.BoolFlag{Name: "save-config", Usage: "write the effective config back to --config"},
		&cli.StringFlag{Name: "engine", Aliases: []string{"e"}, Usage: "path to a UCI engine binary"},
		&cli.StringSliceFlag{Name: "engine-arg", Usage: "argument for the engine process (repeatable)"},
		&cli.StringSliceFlag{Name: "engine-option", Usage: "UCI option as Name=Value (repeatable)"},
		&cli.BoolFlag{Name: "pick-engine", Usage: "choose the engine binary in a file dialog (gui)"},
		&cli.IntFlag{Name: "think", Usage: "engine thinking time per move in ms (overrides --level)"},
		&cli.IntFlag{Name: "level", Usage: "engine strength 1..10"},
		&cli.StringFlag{Name: "color", Usage: "side you play: white or black"},
		&cli.StringFlag{Name: "fen", Usage: "start position in FEN format"},
		&cli.StringFlag{Name: "assets", Usage: "directory with piece images"},
		&cli.StringFlag{Name: "theme", Usage: "light or dark"},
		&cli.StringFlag{Name: "lang", Usage: "interface language (en, ru)"},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "enable debug mode"},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: "logger level"},
		&cli.BoolFlag{Name: "console", Aliases: []string{"c"}, Usage: "log to stdout with console encoding"},
	}
}

// signalContext is cancelled on interrupt or SIGTERM, so deferred cleanup
// still stops the engine and syncs the log.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func RunAIChess() error {
	ctx, stop := signalContext()
	defer stop()

	return (&cli.Command{
		Name:  "aichess",
		Usage: "play chess against a UCI engine",
		Flags: appFlags(),
		Commands: []*cli.Command{
			{
				Name:  "gui",
				Usage: "play in a window (default)",
				Action: func(ctx context.Context, c *cli.Command) error {
					return RunGUI(ctx, c)
				},
			},
			{
				Name:  "cli",
				Usage: "play in the terminal",
				Action: func(ctx context.Context, c *cli.Command) error {
					return RunCLI(ctx, c)
				},
			},
			{
				Name:  "assets",
				Usage: "render a default piece set into --assets",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "size", Value: 120, Usage: "image side in pixels"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := LoadConfig(c)
					if err != nil {
						return err
					}
					if err := gimages.RenderPieceSet(cfg.AssetsDir, int(c.Int("size"))); err != nil {
						return err
					}
					fmt.Printf("piece images written to %s\n", cfg.AssetsDir)
					return nil
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return RunGUI(ctx, c)
		},
	}).Run(ctx, os.Args)
}
