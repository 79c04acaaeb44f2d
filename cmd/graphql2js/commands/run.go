package commands

import (
	"context"
	"os"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/graphql2js/internal/artifact"
	"git.home.luguber.info/inful/graphql2js/internal/build"
	"git.home.luguber.info/inful/graphql2js/internal/config"
	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
	"git.home.luguber.info/inful/graphql2js/internal/logfields"
	"git.home.luguber.info/inful/graphql2js/internal/metrics"
	"git.home.luguber.info/inful/graphql2js/internal/notify"
	"git.home.luguber.info/inful/graphql2js/internal/pathresolve"
	"git.home.luguber.info/inful/graphql2js/internal/sources"
	"git.home.luguber.info/inful/graphql2js/internal/transform"
	"git.home.luguber.info/inful/graphql2js/internal/watch"
)

// Run executes one batch, or watches until ctx is cancelled. Per-file failures
// are logged and do not fail the command.
func (c *CLI) Run(ctx context.Context, g *Global) error {
	opts, err := c.ResolveOptions()
	if err != nil {
		return err
	}

	stderr := g.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := config.NewLogger(opts.Logging, stderr)
	g.Logger = logger

	set, err := sources.NewSet(opts.Patterns)
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var server *metrics.Server
	if opts.Metrics.Addr != "" {
		if opts.Watch {
			reg := prom.NewRegistry()
			recorder = metrics.NewPrometheusRecorder(reg)
			server = metrics.NewServer(opts.Metrics.Addr, opts.Metrics.Path, reg).WithLogger(logger)
		} else {
			logger.Warn("Metrics address ignored outside watch mode")
		}
	}

	var notifier notify.Notifier = notify.Noop{}
	if opts.Notify.NATSURL != "" {
		n, nerr := notify.NewNATSNotifier(opts.Notify.NATSURL, opts.Notify.Subject)
		if nerr != nil {
			logger.Warn("Change notifications disabled", logfields.Error(nerr))
		} else {
			notifier = n.WithLogger(logger)
		}
	}
	defer func() {
		if cerr := notifier.Close(); cerr != nil {
			logger.Warn("Failed to close notifier", logfields.Error(cerr))
		}
	}()

	orch := build.NewOrchestrator(
		pathresolve.NewResolver(opts.Root, opts.Output, opts.Marker),
		artifact.NewWriter(opts.Verbose).WithLogger(logger),
		transform.NewGraphQL().WithLogger(logger),
		opts.EmitDeclarations,
	).WithRecorder(recorder).WithNotifier(notifier).WithLogger(logger)

	if !opts.Watch {
		_, err := orch.RunBatch(ctx, set)
		return err
	}

	if server != nil {
		if err := server.Start(); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRuntime, "start metrics server").
				WithContext("addr", opts.Metrics.Addr).Build()
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if serr := server.Stop(stopCtx); serr != nil {
				logger.Warn("Metrics server shutdown error", logfields.Error(serr))
			}
		}()
	}

	return watch.New(orch, set).
		WithRecorder(recorder).
		WithLogger(logger).
		WithRescanInterval(opts.RescanInterval).
		Run(ctx)
}
