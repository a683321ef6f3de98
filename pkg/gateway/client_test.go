package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "token-1", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sale", body["intent"])

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"paymentID":"P1"}`))
	}))
	defer server.Close()

	c := NewClient(DefaultClientConfig(), nil, nil)
	body, status, err := c.PostJSON(context.Background(), "bkash", "create", server.URL, map[string]string{"Authorization": "token-1"}, map[string]string{"intent": "sale"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"paymentID":"P1"}`, string(body))
}

func TestClient_ClientErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errorMessage":"invalid app key"}`))
	}))
	defer server.Close()

	c := NewClient(DefaultClientConfig(), nil, nil)
	body, status, err := c.Get(context.Background(), "bkash", "query", server.URL, url.Values{"a": {"b"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(body), "invalid app key")
}

func TestClient_BreakerOpensAfterServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := DefaultClientConfig()
	cfg.ConsecutiveFailures = 2
	c := NewClient(cfg, nil, nil)

	for i := 0; i < 2; i++ {
		_, _, err := c.PostForm(context.Background(), "sslcommerz", "init", server.URL, url.Values{})
		var gwErr *Error
		require.True(t, errors.As(err, &gwErr))
		assert.Equal(t, KindNetwork, gwErr.Kind)
	}

	_, _, err := c.PostForm(context.Background(), "sslcommerz", "init", server.URL, url.Values{})
	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "provider temporarily unavailable", gwErr.Message)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewClient(DefaultClientConfig(), nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := c.Get(ctx, "bkash", "query", server.URL, nil, nil)

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "provider request timed out", gwErr.Message)
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://x.test/checkout/token/grant", JoinURL("https://x.test/", "/checkout/token/grant"))
	assert.Equal(t, "https://x.test/a", JoinURL("https://x.test", "a"))
}
