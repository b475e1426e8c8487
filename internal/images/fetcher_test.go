package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchDeliversBytes(t *testing.T) {
	payload := []byte("fake-png-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	f := NewFetcher(2, time.Second, zap.NewNop())
	result := <-f.Fetch(context.Background(), srv.URL+"/img.png")

	require.NoError(t, result.Err)
	assert.Equal(t, payload, result.Data)
}

func TestFetchRejectsNonHTTPSchemes(t *testing.T) {
	f := NewFetcher(2, time.Second, zap.NewNop())

	result := <-f.Fetch(context.Background(), "ftp://example.com/img.png")
	assert.Error(t, result.Err)
	assert.Nil(t, result.Data)
}

func TestFetchReportsServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(2, time.Second, zap.NewNop())
	result := <-f.Fetch(context.Background(), srv.URL+"/img.png")

	assert.Error(t, result.Err)
	assert.Nil(t, result.Data)
}

func TestFetchTimesOutSlowServers(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	f := NewFetcher(2, 50*time.Millisecond, zap.NewNop())
	result := <-f.Fetch(context.Background(), srv.URL+"/img.png")

	assert.Error(t, result.Err)
}

func TestFetchBoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
	}))
	defer srv.Close()

	f := NewFetcher(2, time.Second, zap.NewNop())

	var results []<-chan Result
	for i := 0; i < 8; i++ {
		results = append(results, f.Fetch(context.Background(), srv.URL+"/img.png"))
	}
	for _, ch := range results {
		<-ch
	}

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 2)
}
