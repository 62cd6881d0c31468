package workers

import (
	"encoding/json"
	"sync"
	"time"
)

// Snapshot is one published value of a feed. Values are never mutated
// after publication; a new poll produces a new Snapshot.
type Snapshot[T any] struct {
	// Value is shared by every reader of this snapshot and is read-only:
	// slices and pointers must be copied before they are modified.
	Value     T         `json:"value"`
	Seq       uint64    `json:"seq"`
	Ready     bool      `json:"ready"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedStatus is the health view of a feed used by /feeds and the monitor.
type FeedStatus struct {
	Name                string     `json:"name"`
	Ready               bool       `json:"ready"`
	Seq                 uint64     `json:"seq"`
	UpdatedAt           *time.Time `json:"updated_at"`
	LastAttempt         *time.Time `json:"last_attempt"`
	LastError           string     `json:"last_error,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	Discarded           uint64     `json:"discarded"`
	Stopped             bool       `json:"stopped"`
}

// FeedHandle is the type-erased view of a feed shared by the monitor, the
// NATS bridge and the HTTP status endpoints.
type FeedHandle interface {
	Name() string
	Status() FeedStatus
	Changes() (<-chan struct{}, func())
	MarshalSnapshot() ([]byte, error)
}

type publishResult int

const (
	published publishResult = iota
	superseded
	closed
)

// Feed is a snapshot cell with one writer (its Poller) and any number of
// readers. Subscribers get coalescing channels: a slow reader only ever
// sees the newest snapshot.
type Feed[T any] struct {
	name string

	mu          sync.RWMutex
	snap        Snapshot[T]
	lastAttempt time.Time
	lastErr     error
	failures    int
	discarded   uint64
	stopped     bool

	nextID   int
	subs     map[int]chan Snapshot[T]
	watchers map[int]chan struct{}
}

var _ FeedHandle = (*Feed[int])(nil)

// NewFeed returns an empty, not-ready feed.
func NewFeed[T any](name string) *Feed[T] {
	return &Feed[T]{
		name:     name,
		subs:     make(map[int]chan Snapshot[T]),
		watchers: make(map[int]chan struct{}),
	}
}

func (f *Feed[T]) Name() string {
	return f.name
}

// Snapshot returns the current snapshot. Before the first successful poll
// it is the zero value with Ready false. The Value is not copied; see
// Snapshot.Value.
func (f *Feed[T]) Snapshot() Snapshot[T] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snap
}

// Subscribe returns a channel that receives every new snapshot, seeded
// with the current one when the feed is ready. The returned func
// unsubscribes and is safe to call more than once. The channel is closed
// on unsubscribe or when the feed stops.
func (f *Feed[T]) Subscribe() (<-chan Snapshot[T], func()) {
	ch := make(chan Snapshot[T], 1)

	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	if f.snap.Ready {
		ch <- f.snap
	}
	f.mu.Unlock()

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
	}
}

// Changes is Subscribe without the payload, for consumers that read
// several feeds.
func (f *Feed[T]) Changes() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := f.nextID
	f.nextID++
	f.watchers[id] = ch
	f.mu.Unlock()

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := f.watchers[id]; ok {
			delete(f.watchers, id)
			close(c)
		}
	}
}

// Status reports the feed's health.
func (f *Feed[T]) Status() FeedStatus {
	f.mu.RLock()
	defer f.mu.RUnlock()

	st := FeedStatus{
		Name:                f.name,
		Ready:               f.snap.Ready,
		Seq:                 f.snap.Seq,
		ConsecutiveFailures: f.failures,
		Discarded:           f.discarded,
		Stopped:             f.stopped,
	}
	if f.snap.Ready {
		ts := f.snap.UpdatedAt
		st.UpdatedAt = &ts
	}
	if !f.lastAttempt.IsZero() {
		ts := f.lastAttempt
		st.LastAttempt = &ts
	}
	if f.lastErr != nil {
		st.LastError = f.lastErr.Error()
	}
	return st
}

// MarshalSnapshot encodes the current snapshot as JSON.
func (f *Feed[T]) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(f.Snapshot())
}

// publish replaces the snapshot when seq is newer than the published one.
func (f *Feed[T]) publish(seq uint64, value T, at, attempt time.Time) publishResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return closed
	}
	if f.snap.Ready && seq <= f.snap.Seq {
		f.discarded++
		return superseded
	}

	f.snap = Snapshot[T]{Value: value, Seq: seq, Ready: true, UpdatedAt: at}
	if attempt.After(f.lastAttempt) {
		f.lastAttempt = attempt
	}
	f.lastErr = nil
	f.failures = 0

	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- f.snap
	}
	for _, ch := range f.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return published
}

// recordFailure notes a failed poll. The published snapshot is untouched.
func (f *Feed[T]) recordFailure(err error, attempt time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return false
	}
	if attempt.After(f.lastAttempt) {
		f.lastAttempt = attempt
	}
	f.lastErr = err
	f.failures++
	return true
}

// close stops the feed. No write is accepted afterwards and every
// subscriber channel is closed.
func (f *Feed[T]) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return
	}
	f.stopped = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
	for id, ch := range f.watchers {
		delete(f.watchers, id)
		close(ch)
	}
}
