package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"airplane-watch/sleepwatch/internal/logging"
)

// Publisher is the subset of *nats.Conn the bridge needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// SnapshotBridge republishes every feed snapshot as JSON on
// <prefix>.<feed> so other services can follow the feeds without polling
// the query service themselves.
type SnapshotBridge struct {
	pub    Publisher
	prefix string
	feeds  []FeedHandle
}

// NewSnapshotBridge creates a bridge over pub.
func NewSnapshotBridge(pub Publisher, prefix string, feeds []FeedHandle) *SnapshotBridge {
	return &SnapshotBridge{pub: pub, prefix: prefix, feeds: feeds}
}

// ConnectNATS dials url with reconnects enabled.
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("sleepwatch-snapshot-bridge"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logging.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logging.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

// Subject returns the subject a feed is published on.
func (b *SnapshotBridge) Subject(feed string) string {
	return b.prefix + "." + feed
}

// Run publishes on every feed change until ctx ends or the feeds stop.
func (b *SnapshotBridge) Run(ctx context.Context) {
	logging.Info("Starting snapshot bridge", "prefix", b.prefix, "feeds", len(b.feeds))

	var wg sync.WaitGroup
	for _, feed := range b.feeds {
		changes, unsubscribe := feed.Changes()
		wg.Add(1)
		go func(feed FeedHandle) {
			defer wg.Done()
			defer unsubscribe()
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-changes:
					if !ok {
						return
					}
					b.publish(feed)
				}
			}
		}(feed)
	}
	wg.Wait()
	logging.Info("Snapshot bridge stopped")
}

func (b *SnapshotBridge) publish(feed FeedHandle) {
	data, err := feed.MarshalSnapshot()
	if err != nil {
		logging.Error("Failed to encode snapshot", "feed", feed.Name(), "error", err)
		return
	}
	if err := b.pub.Publish(b.Subject(feed.Name()), data); err != nil {
		logging.Warn("Failed to publish snapshot", "feed", feed.Name(), "error", err)
	}
}
