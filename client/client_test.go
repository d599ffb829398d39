package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: baseURL})
	require.NoError(t, err)
	c.backoffBase = time.Millisecond
	c.backoffCap = 5 * time.Millisecond
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestGetRetryBound(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"message":"unavailable"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.LegalCases(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "unavailable", apiErr.Message)
	assert.Equal(t, int32(4), attempts.Load(), "1 initial attempt + 3 retries")
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"message":"Legal case not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.LegalCase(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestWritesNotRetriedByDefault(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"message":"store failure"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.CreateLegalCase(context.Background(), LegalCase{ID: "us-case-001"})
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load(), "a failed write must not be replayed")
}

func TestWriteRetryOptIn(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"message":"store failure"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	c, err := NewClient(Config{BaseURL: server.URL, RetryWrites: true})
	require.NoError(t, err)
	c.backoffBase = time.Millisecond

	_, err = c.CreateLegalCase(context.Background(), LegalCase{ID: "us-case-001"})
	require.Error(t, err)
	assert.Equal(t, int32(4), attempts.Load())
}

func TestGetServedFromCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode([]LegalCase{{ID: "us-case-001"}})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	first, err := c.LegalCases(context.Background())
	require.NoError(t, err)
	second, err := c.LegalCases(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load(), "second read is served from cache")

	c.Invalidate("/api/legal-cases")
	_, err = c.LegalCases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCacheExpires(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode([]LegalCase{})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	now := time.Now()
	c.cache.now = func() time.Time { return now }

	_, err := c.LegalCases(context.Background())
	require.NoError(t, err)

	// within the freshness window
	_, err = c.LegalCases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	// past the freshness window
	c.cache.now = func() time.Time { return now.Add(6 * time.Minute) }
	_, err = c.LegalCases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestSyncAllInvalidatesCache(t *testing.T) {
	var listHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/legal-cases", func(w http.ResponseWriter, r *http.Request) {
		listHits.Add(1)
		_ = json.NewEncoder(w).Encode([]LegalCase{})
	})
	mux.HandleFunc("/api/sync/all", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(SyncSummary{Success: true})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.LegalCases(context.Background())
	require.NoError(t, err)
	_, err = c.LegalCases(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), listHits.Load())

	_, err = c.SyncAll(context.Background(), "incremental")
	require.NoError(t, err)

	_, err = c.LegalCases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), listHits.Load(), "a completed sync invalidates the read cache")
}

func TestCancellationStopsRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	c.backoffBase = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := c.LegalCases(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, attempts.Load(), int32(2))
}

func TestErrorHelpers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Legal case id already exists"}`, http.StatusConflict)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.CreateLegalCase(context.Background(), LegalCase{ID: "us-case-001"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsServerError(err))

	assert.True(t, IsValidation(&Error{StatusCode: http.StatusBadRequest, Message: "limit must be a positive integer"}))
	assert.False(t, IsValidation(&Error{StatusCode: http.StatusConflict}))

	assert.True(t, IsServerError(&Error{StatusCode: http.StatusServiceUnavailable, Message: "unavailable"}))
	assert.False(t, IsServerError(&Error{StatusCode: http.StatusNotFound}))

	assert.False(t, IsConflict(errors.New("dial tcp: connection refused")))
}

func TestRecentUpdatesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []RegulatoryUpdate{{ID: "fda-update-0001"}},
		})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	updates, err := c.RecentRegulatoryUpdates(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "fda-update-0001", updates[0].ID)
}
