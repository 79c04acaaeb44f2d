package artifact

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
)

func TestWriteIfChanged_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "deep", "q.graphql.js")
	w := NewWriter(false)

	changed, err := w.WriteIfChanged(path, "module.exports = doc;\n")
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "module.exports = doc;\n", string(data))
}

func TestWriteIfChanged_SecondWriteIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.graphql.js")
	w := NewWriter(false)

	changed, err := w.WriteIfChanged(path, "X")
	require.NoError(t, err)
	require.True(t, changed)

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, past, past))

	changed, err = w.WriteIfChanged(path, "X")
	require.NoError(t, err)
	assert.False(t, changed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past), "no write must happen when content is identical")
}

func TestWriteIfChanged_OverwritesDifferentContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.graphql.js")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	changed, err := NewWriter(false).WriteIfChanged(path, "new")
	require.NoError(t, err)
	assert.True(t, changed)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "new", string(data))
}

func TestWriteIfChanged_EmptyContentForMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.js")

	changed, err := NewWriter(false).WriteIfChanged(path, "")
	require.NoError(t, err)
	assert.False(t, changed)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteIfChanged_FilesystemErrorIsClassified(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not dir"), 0o644))

	_, err := NewWriter(false).WriteIfChanged(filepath.Join(blocker, "q.graphql.js"), "X")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestDeleteIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.graphql.js")
	w := NewWriter(false)

	removed, err := w.DeleteIfExists(path)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	removed, err = w.DeleteIfExists(path)
	require.NoError(t, err)
	assert.True(t, removed)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemoveArtifacts(t *testing.T) {
	tmp := t.TempDir()
	js := filepath.Join(tmp, "q.graphql.js")
	dts := filepath.Join(tmp, "q.graphql.d.ts")
	w := NewWriter(false)

	t.Run("declaration only", func(t *testing.T) {
		require.NoError(t, os.WriteFile(dts, []byte(DeclarationStub), 0o644))
		removed, err := w.RemoveArtifacts(js, dts, true)
		require.NoError(t, err)
		assert.True(t, removed)
	})

	t.Run("declarations disabled leaves stub", func(t *testing.T) {
		require.NoError(t, os.WriteFile(js, []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(dts, []byte(DeclarationStub), 0o644))
		removed, err := w.RemoveArtifacts(js, dts, false)
		require.NoError(t, err)
		assert.True(t, removed)
		_, statErr := os.Stat(dts)
		assert.NoError(t, statErr)
	})

	t.Run("nothing to remove", func(t *testing.T) {
		require.NoError(t, os.Remove(dts))
		removed, err := w.RemoveArtifacts(js, dts, true)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestReadExisting(t *testing.T) {
	tmp := t.TempDir()
	got, err := ReadExisting(filepath.Join(tmp, "missing.js"))
	require.NoError(t, err)
	assert.Empty(t, got)

	path := filepath.Join(tmp, "present.js")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
	got, err = ReadExisting(path)
	require.NoError(t, err)
	assert.Equal(t, "content", got)
}

func TestWriter_PrintFilenamesLogsAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	path := filepath.Join(t.TempDir(), "q.graphql.js")

	_, err := NewWriter(false).WithLogger(logger).WriteIfChanged(path, "a")
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "quiet writer logs at debug only")

	_, err = NewWriter(true).WithLogger(logger).WriteIfChanged(path, "b")
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "Updated file"))
}

func TestDeclarationStub(t *testing.T) {
	assert.True(t, strings.HasPrefix(DeclarationStub, "import { DocumentNode } from 'graphql';"))
	assert.True(t, strings.HasSuffix(DeclarationStub, "export default doc;\n"))
}
