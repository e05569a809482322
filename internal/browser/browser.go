// Package browser owns the headless Chrome session and the passive capture of
// its network traffic.
package browser

import (
	"context"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Options controls session construction.
type Options struct {
	Headless bool
}

// Session is one live browser session plus the buffer accumulating its
// network traffic. The session is driven by exactly one goroutine; only the
// capture buffer is touched from chromedp's event dispatcher.
type Session struct {
	Ctx     context.Context
	Capture *CaptureBuffer
}

// New starts a Chrome instance, enables network-event delivery, and wires the
// capture buffer into the target's event stream. The returned cancel func
// tears down the browser. Requires Chrome/Chromium to be installed.
func New(ctx context.Context, opts Options) (*Session, context.CancelFunc, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	buf := NewCaptureBuffer()
	chromedp.ListenTarget(browserCtx, buf.Observe)

	if err := chromedp.Run(browserCtx, network.Enable()); err != nil {
		cancel()
		return nil, nil, err
	}

	return &Session{Ctx: browserCtx, Capture: buf}, cancel, nil
}

// ResponseBody fetches a captured response's body out-of-band; bodies are not
// inline in the event stream.
func (s *Session) ResponseBody(requestID network.RequestID) ([]byte, error) {
	var body []byte
	err := chromedp.Run(s.Ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		body, err = network.GetResponseBody(requestID).Do(ctx)
		return err
	}))
	return body, err
}
