package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/graphql2js/cmd/graphql2js/commands"
	"git.home.luguber.info/inful/graphql2js/internal/config"
	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
	"git.home.luguber.info/inful/graphql2js/internal/version"
)

func main() {
	// .env files must be loaded before kong resolves env-backed flags.
	if _, err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli := &commands.CLI{}
	globals := &commands.Global{Stderr: os.Stderr}

	parser, err := newParser(cli, globals)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	if err := kctx.Run(); err != nil {
		return ferrors.NewCLIErrorAdapter(cli.Verbose, globals.Logger).Report(err)
	}
	return 0
}

func newParser(cli *commands.CLI, globals *commands.Global) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("graphql2js"),
		kong.Description("Compile GraphQL documents into JavaScript modules, rewriting only what changed."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(globals),
	)
}
