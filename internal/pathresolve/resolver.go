// Package pathresolve maps a GraphQL source file to the artifact paths it produces.
package pathresolve

import (
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
)

const (
	// ProjectRootToken is the template prefix replaced by the nearest marker directory.
	ProjectRootToken = "{projectRoot}"
	// DefaultMarker identifies a project root.
	DefaultMarker = "package.json"

	// ArtifactExt is appended to the full source file name.
	ArtifactExt = ".js"
	// DeclarationExt replaces ArtifactExt for the declaration stub.
	DeclarationExt = ".d.ts"
)

// Paths are the artifact locations derived for one source file.
type Paths struct {
	Source      string
	Output      string
	Declaration string
}

// Resolver computes artifact paths from a root template and an output template.
// It holds no state between calls; only marker file existence is consulted.
type Resolver struct {
	RootTemplate   string
	OutputTemplate string
	Marker         string
}

// NewResolver creates a resolver for the given templates. An empty marker means DefaultMarker.
func NewResolver(rootTemplate, outputTemplate, marker string) *Resolver {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Resolver{RootTemplate: rootTemplate, OutputTemplate: outputTemplate, Marker: marker}
}

// Resolve computes the artifact paths for sourcePath. The source does not need to
// exist: deletion events pass the former path of a removed file.
func (r *Resolver) Resolve(sourcePath string) (Paths, error) {
	outDir, err := r.expand(sourcePath, r.OutputTemplate)
	if err != nil {
		return Paths{}, err
	}
	rootDir, err := r.expand(sourcePath, r.RootTemplate)
	if err != nil {
		return Paths{}, err
	}

	absSource, err := filepath.Abs(sourcePath)
	if err != nil {
		return Paths{}, ferrors.WrapError(err, ferrors.CategoryResolution, "absolute source path").
			WithContext("path", sourcePath).Build()
	}
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return Paths{}, ferrors.WrapError(err, ferrors.CategoryResolution, "absolute root path").
			WithContext("root", rootDir).Build()
	}
	rel, err := filepath.Rel(absRoot, absSource+ArtifactExt)
	if err != nil {
		return Paths{}, ferrors.WrapError(err, ferrors.CategoryResolution, "source is not relative to root").
			WithContext("path", sourcePath).
			WithContext("root", absRoot).
			Build()
	}

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return Paths{}, ferrors.WrapError(err, ferrors.CategoryResolution, "absolute output path").
			WithContext("output", outDir).Build()
	}
	output := filepath.Join(absOut, rel)
	return Paths{
		Source:      sourcePath,
		Output:      output,
		Declaration: DeclarationPath(output),
	}, nil
}

// DeclarationPath swaps the trailing artifact extension for the declaration extension.
func DeclarationPath(output string) string {
	return strings.TrimSuffix(output, ArtifactExt) + DeclarationExt
}

// expand substitutes the project root token when template starts with it.
func (r *Resolver) expand(sourcePath, template string) (string, error) {
	if !strings.HasPrefix(template, ProjectRootToken) {
		return template, nil
	}
	root, err := FindProjectRoot(sourcePath, r.Marker)
	if err != nil {
		return "", err
	}
	return root + strings.TrimPrefix(template, ProjectRootToken), nil
}

// FindProjectRoot walks upward from the directory containing path until it finds a
// directory containing marker. Reaching the filesystem root without a match is a
// resolution error.
func FindProjectRoot(path, marker string) (string, error) {
	dir := filepath.Dir(path)
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryResolution, "resolve project root").
			WithContext("path", path).Build()
	}

	// Keep the caller's relative form when possible so logs stay readable.
	rel := !filepath.IsAbs(dir)
	for {
		if _, statErr := os.Stat(filepath.Join(abs, marker)); statErr == nil {
			if rel {
				if wd, wdErr := os.Getwd(); wdErr == nil {
					if relRoot, relErr := filepath.Rel(wd, abs); relErr == nil {
						return relRoot, nil
					}
				}
			}
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ferrors.ResolutionError("unable to find project root").
				WithContext("path", path).
				WithContext("marker", marker).
				Build()
		}
		abs = parent
	}
}
