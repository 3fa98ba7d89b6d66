package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"coursecompare/internal/app"
	"coursecompare/internal/cli"
	"coursecompare/internal/config"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	// El shell comparte la terminal: sólo warnings en adelante salvo que se pida otra cosa.
	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	logger, err := app.NewLogger(level, true)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init app", zap.Error(err))
	}
	defer a.Close()

	if dir := filepath.Dir(cfg.HistoryFile); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			logger.Warn("create history dir", zap.Error(err))
		}
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("init readline: %v", err)
	}
	defer rl.Close()

	shell := cli.NewCLI(a.Env, rl, rl.Stdout())
	fmt.Fprintln(rl.Stdout(), "coursecompare - type 'help' for commands")

	for {
		err := shell.Run(ctx)
		switch {
		case err == nil:
		case errors.Is(err, readline.ErrInterrupt):
			fmt.Fprintln(rl.Stdout(), "Use 'exit' or 'quit' to exit the program.")
		case errors.Is(err, io.EOF), errors.Is(err, cli.ErrExit):
			return
		default:
			fmt.Fprintln(rl.Stdout(), "Error:", err)
		}
	}
}
