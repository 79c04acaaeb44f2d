package commands

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/graphql2js/internal/config"
)

// Global carries process-wide dependencies bound into Run.
type Global struct {
	Logger *slog.Logger
	Stderr io.Writer
}

// CLI is the graphql2js command line. Every flag can also be set through a
// GRAPHQL2JS_* environment variable.
type CLI struct {
	Patterns []string `arg:"" optional:"" name:"patterns" help:"Glob patterns of GraphQL sources (e.g. 'src/**/*.graphql')."`

	Watch            bool   `short:"w" env:"GRAPHQL2JS_WATCH" help:"Keep running and regenerate artifacts when sources change."`
	Output           string `short:"o" env:"GRAPHQL2JS_OUTPUT" placeholder:"DIR" help:"Output directory; may start with {projectRoot}. Defaults to ./bin."`
	Root             string `short:"d" env:"GRAPHQL2JS_ROOT" placeholder:"DIR" help:"Directory sources are made relative to; may start with {projectRoot}. Defaults to the static prefix of the first pattern."`
	EmitDeclarations bool   `short:"t" name:"emit-declarations" env:"GRAPHQL2JS_EMIT_DECLARATIONS" help:"Write a .d.ts stub next to every artifact."`
	Verbose          bool   `short:"v" env:"GRAPHQL2JS_VERBOSE" help:"Enable verbose logging."`

	Marker         string        `env:"GRAPHQL2JS_MARKER" help:"File that marks a project root. Defaults to package.json."`
	Config         string        `env:"GRAPHQL2JS_CONFIG" placeholder:"FILE" help:"Optional YAML configuration file; flags take precedence."`
	LogFormat      string        `name:"log-format" env:"GRAPHQL2JS_LOG_FORMAT" help:"Log format (text|json)."`
	LogLevel       string        `name:"log-level" env:"GRAPHQL2JS_LOG_LEVEL" help:"Log level (debug|info|warn|error)."`
	MetricsAddr    string        `name:"metrics-addr" env:"GRAPHQL2JS_METRICS_ADDR" placeholder:"HOST:PORT" help:"Serve Prometheus metrics on this address in watch mode."`
	NATSURL        string        `name:"nats-url" env:"GRAPHQL2JS_NATS_URL" placeholder:"URL" help:"Publish artifact change events to this NATS server."`
	NATSSubject    string        `name:"nats-subject" env:"GRAPHQL2JS_NATS_SUBJECT" help:"Subject for change events."`
	RescanInterval time.Duration `name:"rescan-interval" env:"GRAPHQL2JS_RESCAN_INTERVAL" help:"Periodically rescan all sources in watch mode (0 disables)."`

	Version kong.VersionFlag `name:"version" help:"Show version and exit"`
}

// AfterApply runs after flag parsing and installs a provisional logger so
// configuration loading can log. Run replaces it once options are final.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := config.LogLevelInfo
	if c.Verbose {
		level = config.LogLevelDebug
	}
	w := g.Stderr
	if w == nil {
		w = os.Stderr
	}
	g.Logger = config.NewLogger(config.LoggingConfig{Level: level, Format: config.LogFormatText}, w)
	slog.SetDefault(g.Logger)
	return nil
}

// Options converts the parsed flags into config options.
func (c *CLI) Options() *config.Options {
	return &config.Options{
		Patterns:         c.Patterns,
		Watch:            c.Watch,
		Output:           c.Output,
		Root:             c.Root,
		EmitDeclarations: c.EmitDeclarations,
		Verbose:          c.Verbose,
		Marker:           c.Marker,
		RescanInterval:   c.RescanInterval,
		Logging: config.LoggingConfig{
			Level:  config.LogLevel(c.LogLevel),
			Format: config.LogFormat(c.LogFormat),
		},
		Metrics: config.MetricsConfig{Addr: c.MetricsAddr},
		Notify:  config.NotifyConfig{NATSURL: c.NATSURL, Subject: c.NATSSubject},
	}
}

// ResolveOptions merges the optional config file under the flags, applies
// defaults and validates the result.
func (c *CLI) ResolveOptions() (*config.Options, error) {
	opts := c.Options()
	if c.Config != "" {
		fileOpts, err := config.LoadFile(c.Config)
		if err != nil {
			return nil, err
		}
		opts = fileOpts.Overlay(opts)
	}
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}
