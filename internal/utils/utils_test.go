package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEWriter_Framing(t *testing.T) {
	w := httptest.NewRecorder()
	sse := NewSSEWriter(w)

	require.NoError(t, sse.Event("7", "state", "line one\nline two"))
	require.NoError(t, sse.WriteJSON("", "heartbeat", map[string]int{"n": 1}))
	require.NoError(t, sse.Comment("ping"))
	require.NoError(t, sse.Close())

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.True(t, w.Flushed)
	assert.Equal(t,
		"id: 7\nevent: state\ndata: line one\ndata: line two\n\n"+
			"event: heartbeat\ndata: {\"n\":1}\n\n"+
			": ping\n\n"+
			"event: close\ndata: {}\n\n",
		w.Body.String())
}

type countingTransport struct {
	base  http.RoundTripper
	calls int
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++
	return c.base.RoundTrip(req)
}

func TestNewHTTPClient_Wrap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var counter *countingTransport
	client := NewHTTPClient(HTTPClientOptions{
		Timeout: 5 * time.Second,
		Wrap: func(rt http.RoundTripper) http.RoundTripper {
			counter = &countingTransport{base: rt}
			return counter
		},
	})
	assert.Equal(t, 5*time.Second, client.Timeout)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, counter.calls)
}
