// Command isodesign designs isotope labelling experiments.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/roach88/isodesign/internal/cli"
)

func main() {
	// .env may set ISODESIGN_CONFIG; the process environment wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			// Flag and argument errors from cobra are not reported by the
			// commands themselves.
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			err = cli.WrapExitError(cli.ExitCommandError, "usage", err)
		}
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
