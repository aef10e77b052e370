// Package main is the entry point for cargo-outdated.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pombredanne/cargo-outdated/cmd/cargo-outdated/commands"
	"github.com/pombredanne/cargo-outdated/internal/adapters/cargo"
	"github.com/pombredanne/cargo-outdated/internal/adapters/logger"
	"github.com/pombredanne/cargo-outdated/internal/app"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	driver := cargo.NewDriver(log)
	application := app.New(driver, log)

	cli := commands.New(application, log)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		// zerr prints a report with stack trace and metadata under %+v
		_, _ = fmt.Fprintf(stderr, "%+v\n", err)
		return 1
	}
	return cli.ExitCode()
}
