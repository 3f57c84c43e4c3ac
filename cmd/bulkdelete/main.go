package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"so4tdelete/internal/deletion/app"
	"so4tdelete/internal/deletion/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	if err != nil {
		var exitErr *app.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(app.ExitFailure)
	}
}

// run loads the configuration from the environment and args and executes
// one deletion run, or a history listing.
func run(ctx context.Context, out, errOut io.Writer, args []string) error {
	fs := flag.NewFlagSet("bulkdelete", flag.ContinueOnError)
	fs.SetOutput(errOut)

	cfg, err := config.Load(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return &app.ExitError{Code: app.ExitInvalidInput, Message: err.Error(), Err: err}
	}

	return app.New(cfg, out, errOut).Run(ctx)
}
