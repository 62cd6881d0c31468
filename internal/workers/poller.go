package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"airplane-watch/sleepwatch/internal/logging"
	"airplane-watch/sleepwatch/internal/metrics"
)

// DefaultPollInterval is the fixed refresh period of every feed.
const DefaultPollInterval = 30 * time.Second

// FetchFunc loads one fresh value for a feed.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// PollerOption configures a Poller.
type PollerOption[T any] func(*Poller[T])

// WithTransform runs fn on every successful fetch before it is published.
func WithTransform[T any](fn func(T) T) PollerOption[T] {
	return func(p *Poller[T]) {
		p.transform = fn
	}
}

// WithMetrics records poll outcomes on m.
func WithMetrics[T any](m *metrics.MetricsRegistry) PollerOption[T] {
	return func(p *Poller[T]) {
		p.metrics = m
	}
}

// WithFetchTimeout bounds each fetch. Zero means no extra bound.
func WithFetchTimeout[T any](d time.Duration) PollerOption[T] {
	return func(p *Poller[T]) {
		p.fetchTimeout = d
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock[T any](now func() time.Time) PollerOption[T] {
	return func(p *Poller[T]) {
		p.now = now
	}
}

// Poller refreshes one Feed on a fixed interval. It fetches once on
// Start and then on every tick, whether or not the previous fetch has
// finished. Each fetch gets a sequence number when it starts and only a
// fetch newer than the published snapshot may replace it, so a slow
// response never overwrites a newer one. Failures leave the snapshot as
// it was.
type Poller[T any] struct {
	feed         *Feed[T]
	interval     time.Duration
	fetch        FetchFunc[T]
	transform    func(T) T
	metrics      *metrics.MetricsRegistry
	fetchTimeout time.Duration
	now          func() time.Time
	log          *zap.SugaredLogger

	mu       sync.Mutex
	seq      uint64
	started  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewPoller creates a stopped poller that publishes into a new feed.
func NewPoller[T any](name string, interval time.Duration, fetch FetchFunc[T], opts ...PollerOption[T]) *Poller[T] {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &Poller[T]{
		feed:     NewFeed[T](name),
		interval: interval,
		fetch:    fetch,
		now:      time.Now,
		log:      logging.Named("poller").With("feed", name),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Feed returns the feed this poller writes.
func (p *Poller[T]) Feed() *Feed[T] {
	return p.feed
}

// Name returns the feed name.
func (p *Poller[T]) Name() string {
	return p.feed.Name()
}

// Start triggers one fetch immediately and then one per interval until
// ctx ends or Stop is called. Calling Start twice, or after Stop, does
// nothing.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.cancel != nil {
		p.mu.Unlock()
		return
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	p.mu.Unlock()

	p.log.Infow("Starting poller", "interval", p.interval)
	go p.run(ctx)
}

// Stop cancels the timer and every in-flight fetch and waits for them to
// return. After Stop returns the feed never changes again. Stop is
// idempotent.
func (p *Poller[T]) Stop() {
	p.stopOnce.Do(func() {
		p.feed.close()

		p.mu.Lock()
		p.started = true
		cancel := p.cancel
		if cancel == nil {
			p.cancel = func() {}
		}
		p.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		p.wg.Wait()
		p.log.Infow("Poller stopped")
	})
}

func (p *Poller[T]) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.trigger(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.trigger(ctx)
		}
	}
}

// trigger starts one fetch in its own goroutine. It is only called from
// run, which holds a WaitGroup slot, so Add never races with Wait at zero.
func (p *Poller[T]) trigger(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	seq := p.nextSeq()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.poll(ctx, seq)
	}()
}

func (p *Poller[T]) nextSeq() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	return p.seq
}

// poll runs one fetch and publishes or records its outcome.
func (p *Poller[T]) poll(ctx context.Context, seq uint64) {
	attempt := p.now()

	fetchCtx := ctx
	if p.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()
	}

	value, err := p.fetch(fetchCtx)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return
		}
		if p.feed.recordFailure(err, attempt) {
			p.log.Warnw("Poll failed, keeping previous snapshot", "seq", seq, "error", err)
			p.observe("failure")
		}
		return
	}

	if p.transform != nil {
		value = p.transform(value)
	}

	switch p.feed.publish(seq, value, p.now(), attempt) {
	case published:
		p.log.Debugw("Published snapshot", "seq", seq)
		p.observe("success")
	case superseded:
		p.log.Debugw("Discarded stale completion", "seq", seq)
		p.observe("discarded")
		if p.metrics != nil {
			p.metrics.PollsDiscardedTotal.WithLabelValues(p.feed.Name()).Inc()
		}
	case closed:
	}
}

func (p *Poller[T]) observe(outcome string) {
	if p.metrics == nil {
		return
	}
	p.metrics.PollsTotal.WithLabelValues(p.feed.Name(), outcome).Inc()
}
