package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// RetryPolicy expresses a bounded UI wait: each attempt runs with its own
// timeout and the whole wait gives up after MaxAttempts. No wait in the
// system is allowed to block unbounded.
type RetryPolicy struct {
	MaxAttempts       int
	PerAttemptTimeout time.Duration
}

// DefaultAttempts matches the element-wait retry budget used across the
// portal flows.
const DefaultAttempts = 5

// Run executes actions under the policy, retrying each failure with a fresh
// attempt timeout. The parent context's cancellation is honored between
// attempts.
func (p RetryPolicy) Run(ctx context.Context, actions ...chromedp.Action) error {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.PerAttemptTimeout)
		err := chromedp.Run(attemptCtx, actions...)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", p.MaxAttempts, lastErr)
}

// WaitVisible waits for an XPath-addressed element to become visible, under
// the policy's bounds.
func (p RetryPolicy) WaitVisible(ctx context.Context, xpath string) error {
	return p.Run(ctx, chromedp.WaitVisible(xpath, chromedp.BySearch))
}

// TryOnce runs actions with a single attempt timeout and reports whether they
// succeeded. Used for probes where absence is a normal outcome.
func (p RetryPolicy) TryOnce(ctx context.Context, actions ...chromedp.Action) bool {
	attemptCtx, cancel := context.WithTimeout(ctx, p.PerAttemptTimeout)
	defer cancel()
	return chromedp.Run(attemptCtx, actions...) == nil
}
