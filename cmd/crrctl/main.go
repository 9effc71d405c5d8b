package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"nbd-crr/internal/app"
	"nbd-crr/internal/cli"
	"nbd-crr/pkg/config"
	applogger "nbd-crr/pkg/logger"
	"nbd-crr/pkg/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.New()
	logger := applogger.NewLogger(getLevel(cfg.LogLevel))
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	deps, cleanup, err := app.Connect(ctx, cfg, validation.New(), logger, app.ConnectOptions{})
	if err != nil {
		return err
	}
	defer cleanup()

	a := app.New(deps)
	defer a.Bus.Wait()

	return cli.NewRootCmd(a).ExecuteContext(ctx)
}

// В утилите по умолчанию только предупреждения, чтобы не засорять вывод.
func getLevel(level string) string {
	if os.Getenv("LOG_LEVEL") == "" {
		return "warn"
	}
	return level
}
