// Package artifact persists generated artifacts, touching the filesystem only when
// content actually differs.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
	"git.home.luguber.info/inful/graphql2js/internal/logfields"
)

// DeclarationStub is the content-independent TypeScript declaration emitted next to each artifact.
const DeclarationStub = "import { DocumentNode } from 'graphql';\n" +
	"declare const doc: DocumentNode;\n" +
	"export default doc;\n"

// Writer compares and writes artifacts. It keeps no state between calls.
type Writer struct {
	logger *slog.Logger
	// PrintFilenames logs every updated or removed path at info level instead of debug.
	PrintFilenames bool
	FileMode       fs.FileMode
	DirMode        fs.FileMode
}

// NewWriter creates a writer.
func NewWriter(printFilenames bool) *Writer {
	return &Writer{
		logger:         slog.Default(),
		PrintFilenames: printFilenames,
		FileMode:       0o644,
		DirMode:        0o755,
	}
}

// WithLogger sets a custom logger.
func (w *Writer) WithLogger(logger *slog.Logger) *Writer {
	w.logger = logger
	return w
}

// ReadExisting returns the content at path, or "" when the file does not exist.
func ReadExisting(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read existing artifact").
			WithContext("path", path).Build()
	}
	return string(data), nil
}

// WriteIfChanged writes content to path unless the file already holds exactly that
// content. It reports whether a write happened.
func (w *Writer) WriteIfChanged(path, content string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read existing artifact").
			WithContext("path", path).Build()
	}
	if err == nil && bytes.Equal(existing, []byte(content)) {
		return false, nil
	}
	// An absent file compares equal to empty content.
	if err != nil && content == "" {
		return false, nil
	}

	if mkErr := os.MkdirAll(filepath.Dir(path), w.DirMode); mkErr != nil {
		return false, ferrors.WrapError(mkErr, ferrors.CategoryFileSystem, "create artifact directory").
			WithContext("path", path).Build()
	}
	if wErr := os.WriteFile(path, []byte(content), w.FileMode); wErr != nil {
		return false, ferrors.WrapError(wErr, ferrors.CategoryFileSystem, "write artifact").
			WithContext("path", path).Build()
	}
	w.report("Updated file", path)
	return true, nil
}

// DeleteIfExists removes path and reports whether a file was actually removed.
func (w *Writer) DeleteIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "remove stale artifact").
			WithContext("path", path).Build()
	}
	w.report("Removed file", path)
	return true, nil
}

// RemoveArtifacts deletes the primary artifact and, when withDeclaration is set, the
// declaration stub. Both removals are attempted even if the first fails.
func (w *Writer) RemoveArtifacts(output, declaration string, withDeclaration bool) (bool, error) {
	removed, err := w.DeleteIfExists(output)
	if !withDeclaration {
		return removed, err
	}
	declRemoved, declErr := w.DeleteIfExists(declaration)
	return removed || declRemoved, errors.Join(err, declErr)
}

func (w *Writer) report(msg, path string) {
	level := slog.LevelDebug
	if w.PrintFilenames {
		level = slog.LevelInfo
	}
	w.logger.LogAttrs(context.Background(), level, msg, logfields.Output(path))
}
