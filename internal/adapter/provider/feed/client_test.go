package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guymillicare/parsingHugeData/internal/config"
	"github.com/guymillicare/parsingHugeData/internal/provider"
	"github.com/guymillicare/parsingHugeData/pkg/ctxutil"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.FeedConfig{
		BaseURL:       baseURL,
		Timeout:       2 * time.Second,
		MaxRetries:    2,
		RetryInterval: time.Millisecond,
	}, newTestLogger())
}

func TestClient_Sports(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/FeedApi/sports", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":10,"name":"Soccer"},{"id":"20","name":"Ice Hockey"}]}`))
	}))
	defer srv.Close()

	sports, err := newTestClient(srv.URL + "/FeedApi/").Sports(context.Background())
	require.NoError(t, err)
	require.Len(t, sports, 2)
	assert.Equal(t, provider.Sport{ID: "10", Name: "Soccer"}, sports[0])
	assert.Equal(t, provider.RefID("20"), sports[1].ID)
}

func TestClient_Countries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/countries", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":44,"name":"England","iso2":"GB"}]}`))
	}))
	defer srv.Close()

	countries, err := newTestClient(srv.URL).Countries(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "GB", countries[0].ISO2)
}

func TestClient_Tournaments_QueryAndNullData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tournaments", r.URL.Path)
		if r.URL.Query().Get("sport_id") == "10" && r.URL.Query().Get("country_id") == "44" {
			_, _ = w.Write([]byte(`{"data":[{"id":7,"name":"Premier League","sport_country":{"sport_id":10,"country_id":44}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	tournaments, err := c.Tournaments(context.Background(), "10", "44")
	require.NoError(t, err)
	require.Len(t, tournaments, 1)
	assert.Equal(t, "Premier League", tournaments[0].Name)
	require.NotNil(t, tournaments[0].SportCountry)
	assert.Equal(t, provider.RefID("44"), tournaments[0].SportCountry.CountryID)

	empty, err := c.Tournaments(context.Background(), "10", "1")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestClient_MarketDefinitions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/market-definitions", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"market_templates":[{"id":1,"name":"1x2","outcomes":[{"id":1,"name":"1"},{"id":2,"name":"X"},{"id":3,"name":"2"}]}]}]}`))
	}))
	defer srv.Close()

	defs, err := newTestClient(srv.URL).MarketDefinitions(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Len(t, defs[0].MarketTemplates, 1)
	assert.Len(t, defs[0].MarketTemplates[0].Outcomes, 3)
}

func TestClient_RetryOn5xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"Soccer"}]}`))
	}))
	defer srv.Close()

	sports, err := newTestClient(srv.URL).Sports(context.Background())
	require.NoError(t, err)
	assert.Len(t, sports, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_RetriesExhausted(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Sports(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	// One attempt plus MaxRetries.
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_NoRetryOn4xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Countries(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":1,`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Sports(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode /sports")
}

func TestClient_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).Sports(ctx)
	require.Error(t, err)
}

func TestClient_ForwardsRunID(t *testing.T) {
	t.Parallel()

	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	ctx := ctxutil.WithRunID(context.Background(), "run-42")
	_, err := newTestClient(srv.URL).Countries(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-42", got.Load())
}
