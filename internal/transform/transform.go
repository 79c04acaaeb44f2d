// Package transform compiles GraphQL documents into CommonJS modules shaped like
// graphql-tag's webpack loader output.
//
// The generated module always embeds the verbatim source, serialized with
// fingerprint.Quote, as doc.loc.source.body. The change detector relies on this.
package transform

import (
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
)

// Transformer turns source text into artifact text. Implementations must be pure:
// identical input yields byte-identical output.
type Transformer interface {
	Transform(source string) (string, error)
}

// Func adapts a plain function to Transformer.
type Func func(source string) (string, error)

// Transform calls f.
func (f Func) Transform(source string) (string, error) { return f(source) }

// GraphQL is the graphql-tag compatible compiler.
type GraphQL struct {
	logger *slog.Logger
	// SourceName is recorded as doc.loc.source.name.
	SourceName string
}

// NewGraphQL creates the GraphQL compiler.
func NewGraphQL() *GraphQL {
	return &GraphQL{logger: slog.Default(), SourceName: "GraphQL request"}
}

// WithLogger sets a custom logger.
func (g *GraphQL) WithLogger(logger *slog.Logger) *GraphQL {
	g.logger = logger
	return g
}

// Transform parses source and renders the module.
// Sources must be valid UTF-8; anything else cannot be embedded verbatim.
func (g *GraphQL) Transform(source string) (string, error) {
	if !utf8.ValidString(source) {
		return "", ferrors.TransformError("source is not valid UTF-8").Build()
	}
	defs, err := parseDocument(source)
	if err != nil {
		return "", err
	}
	imports := parseImports(source)
	g.logger.Debug("Compiled GraphQL document", "definitions", len(defs.nodes), "imports", len(imports))
	return render(module{
		source:     source,
		sourceName: g.SourceName,
		defs:       defs,
		imports:    imports,
	})
}

// parsedDocument holds converted definitions plus the bookkeeping needed for
// per-operation exports.
type parsedDocument struct {
	nodes      []any
	operations []operationRef
	fragments  map[string][]string
}

type operationRef struct {
	name    string
	spreads []string
}

// parseDocument accepts executable documents and falls back to SDL. When both
// parsers reject the input, the error positioned furthest into the document wins:
// it comes from the parser that understood more of it.
func parseDocument(source string) (*parsedDocument, error) {
	src := &ast.Source{Name: "GraphQL request", Input: source}

	query, queryErr := parser.ParseQuery(src)
	if queryErr == nil {
		return nonEmpty(convertQuery(query))
	}
	schema, schemaErr := parser.ParseSchema(src)
	if schemaErr == nil {
		return nonEmpty(convertSchema(schema))
	}

	best := queryErr
	if position(schemaErr) > position(queryErr) {
		best = schemaErr
	}
	return nil, syntaxError(best)
}

// nonEmpty rejects documents without definitions, which graphql-js refuses to parse.
func nonEmpty(doc *parsedDocument) (*parsedDocument, error) {
	if len(doc.nodes) == 0 {
		return nil, ferrors.TransformError("Syntax Error: Unexpected <EOF>").Build()
	}
	return doc, nil
}

// position orders errors by line then column.
func position(err error) int {
	var gqlErr *gqlerror.Error
	if !errors.As(err, &gqlErr) || len(gqlErr.Locations) == 0 {
		return 0
	}
	loc := gqlErr.Locations[0]
	return loc.Line<<16 | loc.Column
}

func syntaxError(err error) error {
	b := ferrors.WrapError(err, ferrors.CategoryTransform, "invalid GraphQL document")
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		b = ferrors.TransformError("Syntax Error: " + gqlErr.Message).WithCause(err)
		if len(gqlErr.Locations) > 0 {
			b.WithContext("line", gqlErr.Locations[0].Line).
				WithContext("column", gqlErr.Locations[0].Column)
		}
	}
	return b.Build()
}

// parseImports extracts `#import "./file.graphql"` directives in order, without duplicates.
func parseImports(source string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if !strings.HasPrefix(rest, "import") {
			continue
		}
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "import"))
		if len(rest) < 2 {
			continue
		}
		quote := rest[0]
		if quote != '"' && quote != '\'' {
			continue
		}
		end := strings.IndexByte(rest[1:], quote)
		if end <= 0 {
			continue
		}
		target := rest[1 : end+1]
		if !seen[target] {
			seen[target] = true
			out = append(out, target)
		}
	}
	return out
}
