package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
)

type fakeConn struct {
	subject    string
	payloads   [][]byte
	publishErr error
	closed     bool
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.subject = subj
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error { return nil }
func (f *fakeConn) Close()                                 { f.closed = true }

func TestNATSNotifier_PublishesJSON(t *testing.T) {
	conn := &fakeConn{}
	n := newNATSNotifier(conn, "")
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	err := n.ArtifactChanged(context.Background(), Event{Source: "src/q.graphql", Output: "out/q.graphql.js", State: "stale", RunID: "r1"})
	require.NoError(t, err)

	assert.Equal(t, DefaultSubject, conn.subject)
	require.Len(t, conn.payloads, 1)
	var got Event
	require.NoError(t, json.Unmarshal(conn.payloads[0], &got))
	assert.Equal(t, "src/q.graphql", got.Source)
	assert.Equal(t, "stale", got.State)
	assert.True(t, got.Timestamp.Equal(fixed))
}

func TestNATSNotifier_PublishErrorIsClassified(t *testing.T) {
	conn := &fakeConn{publishErr: errors.New("connection closed")}
	err := newNATSNotifier(conn, "custom.subject").ArtifactChanged(context.Background(), Event{Source: "x"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotify))
}

func TestNATSNotifier_Close(t *testing.T) {
	conn := &fakeConn{}
	require.NoError(t, newNATSNotifier(conn, "s").Close())
	assert.True(t, conn.closed)
}

func TestNoop(t *testing.T) {
	var n Notifier = Noop{}
	assert.NoError(t, n.ArtifactChanged(context.Background(), Event{}))
	assert.NoError(t, n.Close())
}
