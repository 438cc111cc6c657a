// Package commands wires up the packcli subcommands: encode, decode,
// and selftest.
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

// NewApp builds the packcli command tree. Every command's Action runs
// against a context that is canceled as soon as SIGINT or SIGTERM is
// received, so a selftest run in progress unwinds instead of leaving
// goroutines stranded.
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "packcli"
	app.Usage = "encode, decode, and round-trip PackStream values"
	app.EnableBashCompletion = true

	app.Commands = []*cli.Command{
		newEncodeCommand(),
		newDecodeCommand(),
		newSelftestCommand(),
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		<-sig
	}()

	for _, cmd := range app.Commands {
		action := cmd.Action
		cmd.Action = func(c *cli.Context) error {
			c.Context = ctx
			return action(c)
		}
	}

	app.After = func(c *cli.Context) error {
		cancel()
		return nil
	}

	return app
}
