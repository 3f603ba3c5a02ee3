package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"aichess/src/base"
	"aichess/src/config"
	"aichess/src/rules"

	"github.com/google/go-cmp/cmp"
	"github.com/urfave/cli/v3"
)

func loadWithArgs(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var (
		cfg *config.Config
		err error
	)
	cmd := &cli.Command{
		Name:  "aichess",
		Flags: appFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err = LoadConfig(c)
			return nil
		},
	}
	if runErr := cmd.Run(context.Background(), append([]string{"aichess"}, args...)); runErr != nil {
		t.Fatalf("Run() failed: %v", runErr)
	}
	return cfg, err
}

func TestLoadConfigFlags(t *testing.T) {
	file := filepath.Join(t.TempDir(), "aichess.json")
	cfg, err := loadWithArgs(t,
		"--config", file,
		"--engine", "/opt/sf",
		"--engine-option", "Skill Level=3",
		"--engine-option", "Threads=2",
		"--color", "black",
		"--think", "250",
		"--lang", "ru-RU",
		"--theme", "dark",
	)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	want := config.Default()
	want.EnginePath = "/opt/sf"
	want.EngineOptions = map[string]string{"Skill Level": "3", "Threads": "2"}
	want.HumanColor = "black"
	want.ThinkMs = 250
	want.Lang = "ru"
	want.Theme = "dark"
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Human() != base.Black || cfg.Budget() != 250*time.Millisecond {
		t.Errorf("Human() = %s, Budget() = %v", cfg.Human(), cfg.Budget())
	}
}

func TestLoadConfigSave(t *testing.T) {
	file := filepath.Join(t.TempDir(), "aichess.json")
	if _, err := loadWithArgs(t, "--config", file, "--level", "9", "--save-config"); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(file)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Level != 9 {
		t.Errorf("saved level = %d, want 9", cfg.Level)
	}
}

func TestLoadConfigBadOption(t *testing.T) {
	file := filepath.Join(t.TempDir(), "aichess.json")
	if _, err := loadWithArgs(t, "--config", file, "--engine-option", "Hash"); err == nil {
		t.Error("option without '=' accepted")
	}
}

func TestSignalContextCancelledOnInterrupt(t *testing.T) {
	ctx, stop := signalContext()
	defer stop()

	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Signal(os.Interrupt); err != nil {
		t.Skipf("cannot signal self on this platform: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by interrupt")
	}
}

func TestStartGameUsesLoadedConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "aichess.json")
	var startErr error
	cmd := &cli.Command{
		Name:  "aichess",
		Flags: appFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := config.Default()
			cfg.StartFEN = "not a fen"
			_, startErr = startGame(c, &cfg, false)
			return nil
		},
	}
	args := []string{"aichess", "--config", file, "--save-config", "--console", "--log-level", "error"}
	if err := cmd.Run(context.Background(), args); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !errors.Is(startErr, rules.ErrBadFEN) {
		t.Errorf("startGame() = %v, want ErrBadFEN from the passed config", startErr)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Errorf("startGame() touched the config file: %v", err)
	}
}
