package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Backoff bounds for queue retries. The delay doubles on each consecutive
// failed flush and resets to the base after a fully successful one.
const (
	DefaultBaseDelay = 3 * time.Second
	DefaultMaxDelay  = 60 * time.Second
)

// QueuedScan is one pending scan-update intent, captured verbatim.
type QueuedScan struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Payload   json.RawMessage `json:"payload"`
}

// SyncMeta tracks queue health across attempts. Persisted so the state
// survives an app restart.
type SyncMeta struct {
	LastAttemptAt *time.Time `json:"lastAttemptAt,omitempty"`
	LastSuccessAt *time.Time `json:"lastSuccessAt,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
	NextRetryAt   *time.Time `json:"nextRetryAt,omitempty"`
}

// Snapshot is a consistent view of queue state for UI badges. It is taken
// under the same lock as every mutation, so the combination is never stale
// against itself.
type Snapshot struct {
	QueueLength    int
	OldestQueuedAt *time.Time
	Syncing        bool
	SyncMeta
}

// RejectedError is a server-side rejection (validation, unknown case). It is
// surfaced to the caller instead of being queued, since retrying cannot fix it.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("scan rejected (%d): %s", e.StatusCode, e.Message)
}

// Sender delivers one scan payload to the server. A nil return means
// accepted; a *RejectedError means the server refused it; any other error is
// treated as a transient network failure.
type Sender interface {
	Send(ctx context.Context, payload json.RawMessage) error
}

// Options configures a Queue.
type Options struct {
	// Online reports current connectivity. Defaults to always-online.
	Online func() bool
	// Clock overrides time.Now for tests.
	Clock     func() time.Time
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Queue is the durable client-side scan queue: no scan intent is silently
// lost while offline, and every queued intent is eventually delivered
// at least once, in FIFO order per flush.
type Queue struct {
	storage Storage
	sender  Sender
	online  func() bool
	clock   func() time.Time

	baseDelay time.Duration
	maxDelay  time.Duration

	mu        sync.Mutex
	delay     time.Duration
	timer     *time.Timer
	flushing  bool
	meta      SyncMeta
	listeners []func()
}

// NewQueue builds a queue on top of the given durable storage and sender,
// restoring persisted sync metadata.
func NewQueue(storage Storage, sender Sender, opts Options) (*Queue, error) {
	q := &Queue{
		storage:   storage,
		sender:    sender,
		online:    opts.Online,
		clock:     opts.Clock,
		baseDelay: opts.BaseDelay,
		maxDelay:  opts.MaxDelay,
	}
	if q.online == nil {
		q.online = func() bool { return true }
	}
	if q.clock == nil {
		q.clock = func() time.Time { return time.Now().UTC() }
	}
	if q.baseDelay <= 0 {
		q.baseDelay = DefaultBaseDelay
	}
	if q.maxDelay <= 0 {
		q.maxDelay = DefaultMaxDelay
	}
	q.delay = q.baseDelay

	if _, err := storage.Read(KeySyncMeta, &q.meta); err != nil {
		return nil, err
	}
	return q, nil
}

// Subscribe registers a listener invoked after every queue mutation, so UI
// badges can refresh.
func (q *Queue) Subscribe(fn func()) {
	q.mu.Lock()
	q.listeners = append(q.listeners, fn)
	q.mu.Unlock()
}

func (q *Queue) emit() {
	q.mu.Lock()
	listeners := make([]func(), len(q.listeners))
	copy(listeners, q.listeners)
	q.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Enqueue appends a new entry with a generated id and the current timestamp.
func (q *Queue) Enqueue(payload json.RawMessage) (QueuedScan, error) {
	q.mu.Lock()
	entry, err := q.enqueueLocked(payload)
	q.mu.Unlock()
	if err != nil {
		return QueuedScan{}, err
	}
	q.emit()
	return entry, nil
}

func (q *Queue) enqueueLocked(payload json.RawMessage) (QueuedScan, error) {
	queue, err := q.readQueueLocked()
	if err != nil {
		return QueuedScan{}, err
	}
	entry := QueuedScan{
		ID:        uuid.NewString(),
		CreatedAt: q.clock(),
		Payload:   payload,
	}
	queue = append(queue, entry)
	if err := q.storage.Write(KeyScanQueue, queue); err != nil {
		return QueuedScan{}, err
	}
	return entry, nil
}

// Submit attempts an immediate delivery. On a transient failure the payload
// is enqueued for later; a server rejection is returned to the caller as is
// and never queued. Returns true when the payload was queued.
func (q *Queue) Submit(ctx context.Context, payload json.RawMessage) (bool, error) {
	if q.online() {
		err := q.sender.Send(ctx, payload)
		if err == nil {
			return false, nil
		}
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			return false, err
		}
	}

	if _, err := q.Enqueue(payload); err != nil {
		return false, err
	}
	return true, nil
}

// Flush delivers queued entries in FIFO order, stopping at the first failure
// to preserve per-case ordering. Each delivered entry is removed immediately.
// A flush requested while one is in flight is folded into it. On remaining
// entries after a failure, one retry is scheduled with the current backoff
// delay.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.Lock()
	if q.flushing || !q.online() {
		q.mu.Unlock()
		return nil
	}

	queue, err := q.readQueueLocked()
	if err != nil {
		q.mu.Unlock()
		return err
	}
	if len(queue) == 0 {
		q.meta.LastError = ""
		q.meta.NextRetryAt = nil
		q.stopTimerLocked()
		err := q.writeMetaLocked()
		q.mu.Unlock()
		q.emit()
		return err
	}

	q.flushing = true
	attemptedAt := q.clock()
	q.meta.LastAttemptAt = &attemptedAt
	if err := q.writeMetaLocked(); err != nil {
		q.flushing = false
		q.mu.Unlock()
		return err
	}
	q.mu.Unlock()
	q.emit()

	var sendErr error
	synced := 0
	for _, item := range queue {
		if sendErr = q.sender.Send(ctx, item.Payload); sendErr != nil {
			break
		}
		q.mu.Lock()
		err := q.removeLocked(item.ID)
		q.mu.Unlock()
		if err != nil {
			q.flushDone()
			return err
		}
		synced++
		q.emit()
	}

	q.mu.Lock()
	q.flushing = false
	remaining := len(queue) - synced

	if sendErr == nil {
		successAt := q.clock()
		q.meta.LastSuccessAt = &successAt
		q.meta.LastError = ""
		q.meta.NextRetryAt = nil
		q.delay = q.baseDelay
		q.stopTimerLocked()
		err = q.writeMetaLocked()
	} else if remaining > 0 {
		if synced > 0 {
			successAt := q.clock()
			q.meta.LastSuccessAt = &successAt
		}
		err = q.scheduleRetryLocked("Sync paused: server/network error, retrying automatically.")
	}
	q.mu.Unlock()
	q.emit()

	if err != nil {
		return err
	}
	return sendErr
}

func (q *Queue) flushDone() {
	q.mu.Lock()
	q.flushing = false
	q.mu.Unlock()
}

// Clear force-removes all queued entries. Manual escape hatch for stuck or
// poisoned entries, not part of the automatic flow.
func (q *Queue) Clear() error {
	q.mu.Lock()
	err := q.storage.Write(KeyScanQueue, []QueuedScan{})
	if err == nil {
		q.meta.LastError = ""
		q.meta.NextRetryAt = nil
		q.stopTimerLocked()
		err = q.writeMetaLocked()
	}
	q.mu.Unlock()
	q.emit()
	return err
}

// Snapshot returns a consistent view of queue state.
func (q *Queue) Snapshot() (Snapshot, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue, err := q.readQueueLocked()
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		QueueLength: len(queue),
		Syncing:     q.flushing,
		SyncMeta:    q.meta,
	}
	if len(queue) > 0 {
		oldest := queue[0].CreatedAt
		snap.OldestQueuedAt = &oldest
	}
	return snap, nil
}

// Stop cancels any pending retry timer.
func (q *Queue) Stop() {
	q.mu.Lock()
	q.stopTimerLocked()
	q.mu.Unlock()
}

func (q *Queue) scheduleRetryLocked(reason string) error {
	q.stopTimerLocked()
	delay := q.delay
	retryAt := q.clock().Add(delay)
	q.meta.NextRetryAt = &retryAt
	q.meta.LastError = reason
	if err := q.writeMetaLocked(); err != nil {
		return err
	}
	q.timer = time.AfterFunc(delay, func() {
		q.mu.Lock()
		q.delay = q.delay * 2
		if q.delay > q.maxDelay {
			q.delay = q.maxDelay
		}
		q.mu.Unlock()
		_ = q.Flush(context.Background())
	})
	return nil
}

func (q *Queue) stopTimerLocked() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}

func (q *Queue) readQueueLocked() ([]QueuedScan, error) {
	var queue []QueuedScan
	if _, err := q.storage.Read(KeyScanQueue, &queue); err != nil {
		return nil, err
	}
	return queue, nil
}

func (q *Queue) removeLocked(id string) error {
	queue, err := q.readQueueLocked()
	if err != nil {
		return err
	}
	next := queue[:0]
	for _, item := range queue {
		if item.ID != id {
			next = append(next, item)
		}
	}
	return q.storage.Write(KeyScanQueue, next)
}

func (q *Queue) writeMetaLocked() error {
	return q.storage.Write(KeySyncMeta, q.meta)
}
