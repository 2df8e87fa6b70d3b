package remote

import (
	"context"
	"log"
	"time"
)

// Watcher polls the record-set head for an account and reports when it
// changes. Receipt of a notification is the whole contract: the payload
// is never inspected, a change only triggers a full reconciliation.
type Watcher struct {
	client    *Client
	accountID string
	interval  time.Duration
	logger    *log.Logger
}

// NewWatcher creates a change watcher. interval is the healthy poll
// cadence; while the remote is unreachable the watcher backs off to up
// to 8x that before retrying.
func NewWatcher(client *Client, accountID string, interval time.Duration, logger *log.Logger) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watcher{
		client:    client,
		accountID: accountID,
		interval:  interval,
		logger:    logger,
	}
}

// Run polls until ctx is done, sending on notify whenever the head
// moves. The first successful poll only establishes the reference head.
func (w *Watcher) Run(ctx context.Context, notify chan<- struct{}) {
	var last *Head
	wait := w.interval

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		head, err := w.client.Head(ctx, w.accountID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if w.logger != nil {
				w.logger.Printf("watch: head poll failed: %v", err)
			}
			// Back off while degraded, recover on the next success
			if wait < 8*w.interval {
				wait *= 2
			}
			continue
		}
		wait = w.interval

		if last != nil && (head.Count != last.Count || head.UpdatedAt != last.UpdatedAt) {
			select {
			case notify <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
		last = head
	}
}
