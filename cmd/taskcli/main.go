// Package main is the entry point for the taskcli CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/AlberthYap/mileapp-task/internal/app"
	"github.com/AlberthYap/mileapp-task/internal/cli"
	"github.com/AlberthYap/mileapp-task/internal/commands"
	"github.com/AlberthYap/mileapp-task/internal/config"
)

func main() {
	// Optional .env for local development (TASKAPI_BASE_URL etc.)
	_ = godotenv.Load()

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config) (*commands.Env, error) {
		return app.NewEnv(cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
