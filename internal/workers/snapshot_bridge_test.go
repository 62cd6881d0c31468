package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
}

func (r *recordingPublisher) Publish(subject string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return nil
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subjects)
}

func TestSnapshotBridge_PublishesOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPoller("stats", time.Hour, constFetch(42))
	pub := &recordingPublisher{}
	bridge := NewSnapshotBridge(pub, "sleepwatch.feeds", []FeedHandle{p.Feed()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bridge.Run(ctx)
		close(done)
	}()

	// Run subscribes asynchronously; poll until the notification lands.
	require.Eventually(t, func() bool {
		p.poll(context.Background(), p.nextSeq())
		return pub.count() > 0
	}, waitFor, 10*time.Millisecond)

	cancel()
	<-done

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, "sleepwatch.feeds.stats", pub.subjects[0])
	assert.Contains(t, string(pub.payloads[0]), `"value":42`)
}

func TestSnapshotBridge_StopsWhenFeedsStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPoller("stats", time.Hour, constFetch(1))
	bridge := NewSnapshotBridge(&recordingPublisher{}, "x", []FeedHandle{p.Feed()})

	done := make(chan struct{})
	go func() {
		bridge.Run(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		p.Stop()
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, waitFor, 10*time.Millisecond)
}
