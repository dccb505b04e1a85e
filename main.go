package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := NewLogger(os.Stderr, cfg.LogLevel)

	client, err := NewAPIClient(cfg.EndpointURL, cfg.HTTPTimeout())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := NewApp(cfg, client, os.Stdin, os.Stdout, logger)
	err = SetupCommands(app).ExecuteContext(ctx)

	stop()
	if cerr := app.Close(); cerr != nil {
		logger.Error("closing journal", "error", cerr)
	}

	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
