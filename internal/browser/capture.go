package browser

import (
	"strings"
	"sync"

	"github.com/chromedp/cdproto/network"
)

// ResponseEntry identifies one observed response. The body must be fetched
// separately while the session is still alive.
type ResponseEntry struct {
	RequestID network.RequestID
	URL       string
}

// CaptureBuffer passively records the session's network traffic. It is fed
// from chromedp's event dispatcher goroutine, so all access is mutex-guarded.
type CaptureBuffer struct {
	mu        sync.Mutex
	responses []ResponseEntry
	authToken string
}

// NewCaptureBuffer returns an empty buffer.
func NewCaptureBuffer() *CaptureBuffer {
	return &CaptureBuffer{}
}

// Observe consumes one CDP event. Response events are appended to the log;
// the first Authorization header seen on any outgoing request is retained and
// later occurrences are ignored. Every other event type is dropped.
func (b *CaptureBuffer) Observe(ev any) {
	switch e := ev.(type) {
	case *network.EventResponseReceived:
		if e.Response == nil {
			return
		}
		b.mu.Lock()
		b.responses = append(b.responses, ResponseEntry{
			RequestID: e.RequestID,
			URL:       e.Response.URL,
		})
		b.mu.Unlock()
	case *network.EventRequestWillBeSent:
		if e.Request == nil {
			return
		}
		auth := headerValue(e.Request.Headers, "Authorization")
		if auth == "" {
			return
		}
		b.mu.Lock()
		if b.authToken == "" {
			b.authToken = auth
		}
		b.mu.Unlock()
	}
}

// ResponsesMatching returns a snapshot of observed responses whose URL ends
// with suffix, in observation order.
func (b *CaptureBuffer) ResponsesMatching(suffix string) []ResponseEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []ResponseEntry
	for _, r := range b.responses {
		if strings.HasSuffix(r.URL, suffix) {
			out = append(out, r)
		}
	}
	return out
}

// AuthToken returns the first-seen Authorization credential, or "" if none
// has been observed yet.
func (b *CaptureBuffer) AuthToken() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.authToken
}

// Reset discards all accumulated traffic, scoping the buffer to the next
// search. The retained credential is kept: it belongs to the login session,
// not to any one search.
func (b *CaptureBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses = nil
}

func headerValue(headers network.Headers, name string) string {
	for k, v := range headers {
		if !strings.EqualFold(k, name) {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
