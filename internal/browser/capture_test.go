package browser

import (
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureBuffer_FirstAuthorizationWins(t *testing.T) {
	buf := NewCaptureBuffer()
	buf.Observe(&network.EventRequestWillBeSent{
		Request: &network.Request{Headers: network.Headers{"Authorization": "first"}},
	})
	buf.Observe(&network.EventRequestWillBeSent{
		Request: &network.Request{Headers: network.Headers{"Authorization": "second"}},
	})

	assert.Equal(t, "first", buf.AuthToken())
}

func TestCaptureBuffer_AuthorizationHeaderCaseInsensitive(t *testing.T) {
	buf := NewCaptureBuffer()
	buf.Observe(&network.EventRequestWillBeSent{
		Request: &network.Request{Headers: network.Headers{"authorization": "tok"}},
	})
	assert.Equal(t, "tok", buf.AuthToken())
}

func TestCaptureBuffer_RequestsWithoutAuthIgnored(t *testing.T) {
	buf := NewCaptureBuffer()
	buf.Observe(&network.EventRequestWillBeSent{
		Request: &network.Request{Headers: network.Headers{"Accept": "application/json"}},
	})
	assert.Empty(t, buf.AuthToken())
}

func TestCaptureBuffer_ResponsesMatching(t *testing.T) {
	buf := NewCaptureBuffer()
	buf.Observe(&network.EventResponseReceived{
		RequestID: "1",
		Response:  &network.Response{URL: "https://x/api/advance/search"},
	})
	buf.Observe(&network.EventResponseReceived{
		RequestID: "2",
		Response:  &network.Response{URL: "https://x/assets/logo.png"},
	})
	buf.Observe(&network.EventResponseReceived{
		RequestID: "3",
		Response:  &network.Response{URL: "https://x/api/advance/search"},
	})

	matches := buf.ResponsesMatching("api/advance/search")
	require.Len(t, matches, 2)
	assert.Equal(t, network.RequestID("1"), matches[0].RequestID)
	assert.Equal(t, network.RequestID("3"), matches[1].RequestID)
}

func TestCaptureBuffer_ResetKeepsCredential(t *testing.T) {
	buf := NewCaptureBuffer()
	buf.Observe(&network.EventRequestWillBeSent{
		Request: &network.Request{Headers: network.Headers{"Authorization": "tok"}},
	})
	buf.Observe(&network.EventResponseReceived{
		RequestID: "1",
		Response:  &network.Response{URL: "https://x/api/advance/search"},
	})

	buf.Reset()

	assert.Empty(t, buf.ResponsesMatching("api/advance/search"))
	assert.Equal(t, "tok", buf.AuthToken())
}

func TestCaptureBuffer_UnrelatedEventsDropped(t *testing.T) {
	buf := NewCaptureBuffer()
	buf.Observe("not an event")
	buf.Observe(&network.EventLoadingFinished{})
	assert.Empty(t, buf.ResponsesMatching(""))
}
