package history

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultQueueSize bounds the number of records waiting to be written.
const DefaultQueueSize = 32

// Archiver writes records to a Sink on a background goroutine so callers
// never wait on, or fail because of, the archive.
type Archiver struct {
	sink    Sink
	timeout time.Duration
	pending chan Record
	done    chan struct{}

	// mu guards closed; Append holds it shared while sending on pending.
	mu     sync.RWMutex
	closed bool
}

// NewArchiver starts a worker draining into sink. Each write gets timeout
// (zero means no deadline).
func NewArchiver(sink Sink, queueSize int, timeout time.Duration) *Archiver {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	a := &Archiver{
		sink:    sink,
		timeout: timeout,
		pending: make(chan Record, queueSize),
		done:    make(chan struct{}),
	}
	go a.processLoop()
	return a
}

// Append queues rec and returns immediately. When the queue is full, or
// the archiver is closed, the record is dropped and logged. Always
// returns nil.
func (a *Archiver) Append(_ context.Context, rec Record) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		slog.Warn("history archiver closed, dropping record", "record_id", rec.ID, "subject", rec.Subject)
		return nil
	}
	select {
	case a.pending <- rec:
	default:
		slog.Warn("history queue full, dropping record", "record_id", rec.ID, "subject", rec.Subject)
	}
	return nil
}

func (a *Archiver) processLoop() {
	defer close(a.done)
	for rec := range a.pending {
		a.write(rec)
	}
}

func (a *Archiver) write(rec Record) {
	ctx := context.Background()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	if err := a.sink.Append(ctx, rec); err != nil {
		slog.Error("failed to archive history record", "record_id", rec.ID, "error", err)
	}
}

// Close stops accepting records, drains the queue and waits for the worker.
// Records appended afterwards are dropped.
func (a *Archiver) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.pending)
	}
	a.mu.Unlock()
	<-a.done
}
