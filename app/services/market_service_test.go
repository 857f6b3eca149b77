package services_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/pkg/cache"
)

func newsUpstream(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"title":"cocoa prices climb"}]}`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewsServedFromCacheWithinTTL(t *testing.T) {
	cache.Use(cache.NewMemory())
	t.Cleanup(func() { cache.Use(cache.NewMemory()) })

	var calls atomic.Int32
	srv := newsUpstream(t, &calls)
	t.Setenv("NEWS_API_BASE", srv.URL)

	svc := services.NewMarketService(srv.Client())

	first, err := svc.News(1, "cocoa", "ng", false)
	require.NoError(t, err)
	second, err := svc.News(1, "cocoa", "ng", false)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "second request must come from cache")
	assert.JSONEq(t, string(first), string(second))
}

func TestNewsFlushBypassesCache(t *testing.T) {
	cache.Use(cache.NewMemory())
	t.Cleanup(func() { cache.Use(cache.NewMemory()) })

	var calls atomic.Int32
	srv := newsUpstream(t, &calls)
	t.Setenv("NEWS_API_BASE", srv.URL)

	svc := services.NewMarketService(srv.Client())

	_, err := svc.News(1, "", "", false)
	require.NoError(t, err)
	_, err = svc.News(1, "", "", true)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load(), "flush must refetch upstream")
}

func TestNewsDistinctParamsCacheSeparately(t *testing.T) {
	cache.Use(cache.NewMemory())
	t.Cleanup(func() { cache.Use(cache.NewMemory()) })

	var calls atomic.Int32
	srv := newsUpstream(t, &calls)
	t.Setenv("NEWS_API_BASE", srv.URL)

	svc := services.NewMarketService(srv.Client())

	_, err := svc.News(1, "", "", false)
	require.NoError(t, err)
	_, err = svc.News(2, "", "", false)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestNewsUpstreamErrorIsNotCached(t *testing.T) {
	cache.Use(cache.NewMemory())
	t.Cleanup(func() { cache.Use(cache.NewMemory()) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("NEWS_API_BASE", srv.URL)

	svc := services.NewMarketService(srv.Client())
	_, err := svc.News(1, "", "", false)
	assert.Error(t, err)
}

func TestCommodityRejectsBadResource(t *testing.T) {
	svc := services.NewMarketService(nil)

	_, err := svc.Commodity("../etc/passwd")
	assert.ErrorIs(t, err, services.ErrBadResource)

	_, err = svc.Commodity("Sesame Seeds")
	assert.ErrorIs(t, err, services.ErrBadResource)
}

func TestCommodityCaches(t *testing.T) {
	cache.Use(cache.NewMemory())
	t.Cleanup(func() { cache.Use(cache.NewMemory()) })

	var calls atomic.Int32
	srv := newsUpstream(t, &calls)
	t.Setenv("COMMODITY_API_BASE", srv.URL)

	svc := services.NewMarketService(srv.Client())

	_, err := svc.Commodity("cocoa")
	require.NoError(t, err)
	_, err = svc.Commodity("cocoa")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
}
