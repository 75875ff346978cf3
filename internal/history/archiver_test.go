package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedSink blocks each Append until released, reporting entry on started.
type gatedSink struct {
	mu      sync.Mutex
	got     []string
	started chan struct{}
	release chan struct{}
}

func (g *gatedSink) Append(_ context.Context, rec Record) error {
	g.started <- struct{}{}
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	g.got = append(g.got, rec.ID)
	return nil
}

type failingSink struct {
	calls int
	mu    sync.Mutex
}

func (f *failingSink) Append(context.Context, Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return errors.New("disk full")
}

func TestArchiver_DrainsOnClose(t *testing.T) {
	mem := NewMemoryArchive()
	a := NewArchiver(mem, 8, time.Second)

	for i := 0; i < 5; i++ {
		require.NoError(t, a.Append(context.Background(), record(i)))
	}
	a.Close()

	list, err := mem.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, "rec-4", list[0].ID)
}

func TestArchiver_DropsWhenQueueFull(t *testing.T) {
	sink := &gatedSink{started: make(chan struct{}, 4), release: make(chan struct{})}
	a := NewArchiver(sink, 1, 0)

	require.NoError(t, a.Append(context.Background(), record(1)))
	<-sink.started // worker holds rec-1, queue is empty

	require.NoError(t, a.Append(context.Background(), record(2))) // queued
	require.NoError(t, a.Append(context.Background(), record(3))) // dropped

	close(sink.release)
	a.Close()

	assert.Equal(t, []string{"rec-1", "rec-2"}, sink.got)
}

func TestArchiver_SinkErrorsAreSwallowed(t *testing.T) {
	sink := &failingSink{}
	a := NewArchiver(sink, 0, 0)

	assert.NoError(t, a.Append(context.Background(), record(1)))
	assert.NoError(t, a.Append(context.Background(), record(2)))
	a.Close()

	assert.Equal(t, 2, sink.calls)
}

func TestArchiver_CloseIsIdempotent(t *testing.T) {
	a := NewArchiver(NewMemoryArchive(), 1, 0)
	a.Close()
	a.Close()
}

func TestArchiver_AppendAfterCloseIsDropped(t *testing.T) {
	mem := NewMemoryArchive()
	a := NewArchiver(mem, 4, 0)
	a.Close()

	require.NotPanics(t, func() {
		assert.NoError(t, a.Append(context.Background(), record(1)))
	})

	list, err := mem.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
