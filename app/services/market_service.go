package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/agrovia/agrovia/config"
	"github.com/agrovia/agrovia/pkg/cache"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/metrics"
)

// ErrBadResource is returned for commodity resource names outside the
// allowed character set.
var ErrBadResource = errors.New("unknown market resource")

var resourceRE = regexp.MustCompile(`^[a-z0-9_-]+$`)

// maxUpstreamBody caps how much of an upstream response we will buffer.
const maxUpstreamBody = 4 << 20

// MarketService proxies the external news and commodity-price APIs and
// caches their responses, so upstream rate limits are consumed once per
// cache window instead of once per visitor.
type MarketService struct {
	client        *http.Client
	newsBase      string
	newsKey       string
	commodityBase string
	commodityKey  string
}

func NewMarketService(client *http.Client) *MarketService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &MarketService{
		client:        client,
		newsBase:      config.NewsAPIBase(),
		newsKey:       config.NewsAPIKey(),
		commodityBase: config.CommodityAPIBase(),
		commodityKey:  config.CommodityAPIKey(),
	}
}

// News returns one page of agriculture news, served from cache when a
// fresh entry exists. flush drops the cached page first (admin refresh).
func (s *MarketService) News(page int, keywords, country string, flush bool) (json.RawMessage, error) {
	if page < 1 {
		page = 1
	}
	params := map[string]string{
		"page":    strconv.Itoa(page),
		"q":       keywords,
		"country": country,
	}
	key := cache.Key("news", params)
	if flush {
		if err := cache.Delete(key); err != nil {
			logger.Warn("market: flush news cache", "key", key, "error", err)
		}
	}

	var payload json.RawMessage
	if cache.Get(key, &payload) {
		metrics.UpstreamCalls.WithLabelValues("news", "hit").Inc()
		return payload, nil
	}
	metrics.UpstreamCalls.WithLabelValues("news", "miss").Inc()

	q := url.Values{}
	q.Set("apikey", s.newsKey)
	q.Set("page", params["page"])
	if keywords != "" {
		q.Set("q", keywords)
	}
	if country != "" {
		q.Set("country", country)
	}

	payload, err := s.fetch(s.newsBase + "?" + q.Encode())
	if err != nil {
		return nil, err
	}
	if err := cache.Set(key, payload, cache.DefaultTTL); err != nil {
		logger.Warn("market: cache news", "key", key, "error", err)
	}
	return payload, nil
}

// Commodity returns current prices for one commodity resource, cached
// like News.
func (s *MarketService) Commodity(resource string) (json.RawMessage, error) {
	if !resourceRE.MatchString(resource) {
		return nil, ErrBadResource
	}

	key := cache.Key("commodity", map[string]string{"resource": resource})

	var payload json.RawMessage
	if cache.Get(key, &payload) {
		metrics.UpstreamCalls.WithLabelValues("commodity", "hit").Inc()
		return payload, nil
	}
	metrics.UpstreamCalls.WithLabelValues("commodity", "miss").Inc()

	q := url.Values{}
	q.Set("apikey", s.commodityKey)

	payload, err := s.fetch(s.commodityBase + "/" + resource + "?" + q.Encode())
	if err != nil {
		return nil, err
	}
	if err := cache.Set(key, payload, cache.DefaultTTL); err != nil {
		logger.Warn("market: cache commodity", "key", key, "error", err)
	}
	return payload, nil
}

func (s *MarketService) fetch(rawURL string) (json.RawMessage, error) {
	resp, err := s.client.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("market: upstream request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market: upstream returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, fmt.Errorf("market: read upstream body: %w", err)
	}
	if !json.Valid(body) {
		return nil, errors.New("market: upstream returned invalid JSON")
	}
	return json.RawMessage(body), nil
}
