package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"

	"github.com/vbonduro/folio/internal/cli"
	"github.com/vbonduro/folio/internal/config"
	"github.com/vbonduro/folio/internal/logging"
)

func main() {
	cfg := config.Load()
	app := &cli.App{
		Config: cfg,
		Logger: logging.NewText(os.Stderr, cfg.LogLevel),
		Out:    os.Stdout,
		Err:    os.Stderr,
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander, app)

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
