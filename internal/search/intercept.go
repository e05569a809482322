package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/network"

	"github.com/jonathan/laredo-harvester/internal/browser"
	"github.com/jonathan/laredo-harvester/internal/types"
)

// SearchPathSuffix identifies the portal's search endpoint: any response
// whose URL ends with it is treated as the results payload.
const SearchPathSuffix = "api/advance/search"

// pollInterval paces the capture-buffer polling loop.
const pollInterval = 500 * time.Millisecond

// Interceptor recovers a search's results and the session credential from
// the passively captured network traffic.
type Interceptor struct {
	buffer *browser.CaptureBuffer

	// fetchBody is swappable for tests; response bodies are not inline in
	// the traffic log.
	fetchBody func(network.RequestID) ([]byte, error)
}

// NewInterceptor builds an interceptor over the session's capture buffer.
func NewInterceptor(sess *browser.Session) *Interceptor {
	return &Interceptor{buffer: sess.Capture, fetchBody: sess.ResponseBody}
}

// CaptureAfterSearch polls the traffic log until a non-empty document list
// has been captured or pollWindow elapses, then returns whatever was
// observed. An empty list and an empty credential are both valid outcomes;
// malformed entries are skipped and logged, never aborting the poll. When
// several search responses occur, the last one wins.
func (i *Interceptor) CaptureAfterSearch(ctx context.Context, pollWindow time.Duration) types.SearchCapture {
	deadline := time.Now().Add(pollWindow)
	capture := types.SearchCapture{}
	seen := make(map[network.RequestID]bool)

	for {
		for _, entry := range i.buffer.ResponsesMatching(SearchPathSuffix) {
			if seen[entry.RequestID] {
				continue
			}
			seen[entry.RequestID] = true

			body, err := i.fetchBody(entry.RequestID)
			if err != nil {
				slog.WarnContext(ctx, "failed to fetch search response body",
					"url", entry.URL, "err", err)
				continue
			}
			docs, ok := decodeSearchPayload(body)
			if !ok {
				slog.WarnContext(ctx, "search response body had no document list", "url", entry.URL)
				continue
			}
			capture.Documents = docs
		}

		capture.AuthToken = i.buffer.AuthToken()

		if len(capture.Documents) > 0 {
			return capture
		}
		if ctx.Err() != nil || !time.Now().Before(deadline) {
			return capture
		}

		select {
		case <-ctx.Done():
			return capture
		case <-time.After(pollInterval):
		}
	}
}

// decodeSearchPayload parses a search response body, reporting whether it
// carried the document-list field at all.
func decodeSearchPayload(body []byte) ([]types.CapturedDocument, bool) {
	var payload struct {
		DocumentList []types.CapturedDocument `json:"documentList"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false
	}
	if payload.DocumentList == nil {
		return nil, false
	}
	return payload.DocumentList, true
}
