package ratings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "isbn:0441172717", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"volumeInfo":{"averageRating":4.5,"ratingsCount":1234}}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	rating, err := client.Lookup(context.Background(), "0441172717")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, rating.AverageRating, 0.001)
	assert.Equal(t, 1234, rating.RatingsCount)
}

func TestLookupNoItems(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	rating, err := client.Lookup(context.Background(), "0000000000")
	require.Error(t, err)
	assert.Nil(t, rating)
}

func TestLookupBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	rating, err := client.Lookup(context.Background(), "0441172717")
	require.Error(t, err)
	assert.Nil(t, rating)
}

func TestLookupMalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	rating, err := client.Lookup(context.Background(), "0441172717")
	require.Error(t, err)
	assert.Nil(t, rating)
}

func TestLookupTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 20*time.Millisecond)

	start := time.Now()
	rating, err := client.Lookup(context.Background(), "0441172717")
	require.Error(t, err)
	assert.Nil(t, rating)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}
