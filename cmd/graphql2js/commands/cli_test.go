package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/graphql2js/internal/artifact"
	"git.home.luguber.info/inful/graphql2js/internal/config"
	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
)

func parse(t *testing.T, args ...string) *CLI {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("graphql2js"),
		kong.Vars{"version": "test"},
		kong.Bind(&Global{Stderr: io.Discard}),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return cli
}

func TestCLI_ShortFlags(t *testing.T) {
	cli := parse(t, "-w", "-o", "out", "-d", "src", "-t", "-v", "src/**/*.graphql", "lib/*.gql")

	assert.True(t, cli.Watch)
	assert.Equal(t, "out", cli.Output)
	assert.Equal(t, "src", cli.Root)
	assert.True(t, cli.EmitDeclarations)
	assert.True(t, cli.Verbose)
	assert.Equal(t, []string{"src/**/*.graphql", "lib/*.gql"}, cli.Patterns)
}

func TestCLI_LongFlagsAndEnv(t *testing.T) {
	t.Setenv("GRAPHQL2JS_OUTPUT", "{projectRoot}/generated")
	t.Setenv("GRAPHQL2JS_NATS_SUBJECT", "gql.changes")

	cli := parse(t, "--watch", "--rescan-interval=1m", "--log-format", "json", "--marker", "go.mod", "q.graphql")

	assert.Equal(t, "{projectRoot}/generated", cli.Output)
	assert.Equal(t, "gql.changes", cli.NATSSubject)
	assert.Equal(t, time.Minute, cli.RescanInterval)
	assert.Equal(t, "json", cli.LogFormat)
	assert.Equal(t, "go.mod", cli.Marker)
}

func TestCLI_ResolveOptions(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "graphql2js.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("patterns: [\"app/**/*.graphql\"]\noutput: from-file\nemit_declarations: true\n"), 0o644))

	cli := &CLI{Config: cfgPath, Output: "from-flag"}
	opts, err := cli.ResolveOptions()
	require.NoError(t, err)

	assert.Equal(t, []string{"app/**/*.graphql"}, opts.Patterns)
	assert.Equal(t, "from-flag", opts.Output)
	assert.Equal(t, "app", opts.Root)
	assert.True(t, opts.EmitDeclarations)
	assert.Equal(t, config.LogFormatText, opts.Logging.Format)
}

func TestCLI_ResolveOptions_Errors(t *testing.T) {
	_, err := (&CLI{}).ResolveOptions()
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = (&CLI{Patterns: []string{"*.graphql"}, Config: filepath.Join(t.TempDir(), "nope.yaml")}).ResolveOptions()
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestCLI_RunBatch(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join("src", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("src", "q.graphql"), []byte("query { a }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join("src", "nested", "bad.graphql"), []byte("query {"), 0o644))

	var stderr bytes.Buffer
	cli := &CLI{Patterns: []string{"src/**/*.graphql"}, Output: "out", EmitDeclarations: true}
	require.NoError(t, cli.Run(context.Background(), &Global{Stderr: &stderr}), "per-file failures must not fail the run")

	assert.FileExists(t, filepath.Join("out", "q.graphql.js"))
	stub, err := os.ReadFile(filepath.Join("out", "q.graphql.d.ts"))
	require.NoError(t, err)
	assert.Equal(t, artifact.DeclarationStub, string(stub))
	assert.NoFileExists(t, filepath.Join("out", "nested", "bad.graphql.js"))

	logs := stderr.String()
	assert.Contains(t, logs, "graphql2js finished.")
	assert.Contains(t, logs, "changed_count=1")
	assert.Contains(t, logs, "file_count=2")
	assert.Contains(t, logs, "failed_count=1")

	stderr.Reset()
	require.NoError(t, cli.Run(context.Background(), &Global{Stderr: &stderr}))
	assert.Contains(t, stderr.String(), "changed_count=0")
}

func TestCLI_RunVerbosePrintsFilenames(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll("src", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("src", "q.graphql"), []byte("query { a }"), 0o644))

	var quiet bytes.Buffer
	cli := &CLI{Patterns: []string{"src/*.graphql"}, Output: "out", LogLevel: "info"}
	require.NoError(t, cli.Run(context.Background(), &Global{Stderr: &quiet}))
	assert.NotContains(t, quiet.String(), "Updated file")

	require.NoError(t, os.RemoveAll("out"))

	var verbose bytes.Buffer
	cli.Verbose = true
	require.NoError(t, cli.Run(context.Background(), &Global{Stderr: &verbose}))
	assert.Contains(t, verbose.String(), "Updated file")
	assert.Contains(t, verbose.String(), filepath.Join("out", "q.graphql.js"))
}

func TestCLI_RunConfigError(t *testing.T) {
	err := (&CLI{Patterns: []string{"*.graphql"}, LogLevel: "loud"}).Run(context.Background(), &Global{Stderr: io.Discard})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestCLI_RunWatchStopsOnCancel(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll("src", 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cli := &CLI{Patterns: []string{"src/*.graphql"}, Watch: true, MetricsAddr: "127.0.0.1:0"}
	assert.NoError(t, cli.Run(ctx, &Global{Stderr: io.Discard}))
}
