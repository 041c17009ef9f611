package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopointsync_api/internal/apierr"
	"gopointsync_api/pkg/logger"
)

func newTestCaller(t *testing.T, attempts int) *HTTPCaller {
	t.Helper()
	c := NewHTTPCaller("TestService", BaseClassify("TestService"), attempts, logger.NewNop())
	c.SetRetryDelay(time.Millisecond)
	return c
}

func TestSendDecodesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"foo": "bar"}`))
	}))
	defer srv.Close()

	c := newTestCaller(t, 3)
	rq := Template{URL: srv.URL}.PrepareGet(nil)

	var out map[string]string
	err := c.Send(context.Background(), rq, &out)
	require.NoError(t, err)
	assert.Equal(t, "bar", out["foo"])
}

func TestSendTransientStatuses(t *testing.T) {
	for _, status := range []int{404, 500, 503} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := newTestCaller(t, 1)
		rq := Template{URL: srv.URL}.PrepareGet(nil)

		err := c.Send(context.Background(), rq, nil)
		assert.True(t, apierr.IsConnection(err), "status %d must be a connection error, got %v", status, err)
		srv.Close()
	}
}

func TestSendPermanentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestCaller(t, 3)
	rq := Template{URL: srv.URL}.PrepareGet(nil)

	err := c.Send(context.Background(), rq, nil)
	assert.True(t, apierr.IsRequest(err), "expected request error, got %v", err)
}

func TestSendRetryExhaustion(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestCaller(t, 3)
	rq := Template{URL: srv.URL}.PrepareGet(nil)

	err := c.Send(context.Background(), rq, nil)
	var ce *apierr.ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 3, ce.Attempts)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSendTransportErrorRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // теперь соединения будут падать на транспортном уровне

	c := newTestCaller(t, 2)
	rq := Template{URL: url}.PrepareGet(nil)

	err := c.Send(context.Background(), rq, nil)
	var ce *apierr.ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 2, ce.Attempts)
}

func TestPrepareGetCopiesTemplateParams(t *testing.T) {
	tmpl := Template{URL: "http://example.com", Params: map[string]string{"token": "t"}}

	first := tmpl.PrepareGet(map[string]string{"method": "A"})
	second := tmpl.PrepareGet(map[string]string{"method": "B"})

	first.Params["method"] = "mutated"

	assert.Equal(t, "B", second.Params["method"])
	assert.Equal(t, map[string]string{"token": "t"}, tmpl.Params)
}

func TestPreparePostMarshalsBody(t *testing.T) {
	tmpl := Template{URL: "http://example.com"}
	rq, err := tmpl.PreparePost(map[string]string{"foo": "bar"})
	require.NoError(t, err)
	assert.Equal(t, "POST", rq.Method)
	assert.JSONEq(t, `{"foo":"bar"}`, string(rq.Body))
}

func TestPrepareDelete(t *testing.T) {
	tmpl := Template{URL: "http://example.com", Params: map[string]string{"token": "t"}}
	rq := tmpl.PrepareDelete()
	assert.Equal(t, "DELETE", rq.Method)
	assert.Equal(t, "t", rq.Params["token"])
}
