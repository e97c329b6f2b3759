package qweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

const (
	DefaultBaseURL    = "https://devapi.qweather.com"
	DefaultGeoBaseURL = "https://geoapi.qweather.com"
)

var (
	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = errors.New("qweather: circuit breaker open")

	dailyHorizons  = []int{3, 7, 10, 15, 30}
	hourlyHorizons = []int{24, 72, 168}
)

// StatusError is a non-2xx HTTP answer.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("qweather: unexpected HTTP status %d", e.StatusCode)
}

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds connection and resilience settings.
type Config struct {
	APIKey         string
	BaseURL        string
	GeoBaseURL     string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	BreakerTimeout time.Duration
}

// Client issues authenticated GET requests against the QWeather API.
type Client struct {
	http       HTTPClient
	apiKey     string
	baseURL    string
	geoBaseURL string
	maxRetries int
	retryDelay time.Duration
	breaker    *gobreaker.CircuitBreaker
	logger     zerolog.Logger
}

// NewClient builds a client with its own http.Client bounded by cfg.Timeout.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewClientWithHTTP(cfg, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithHTTP is NewClient with an injected transport.
func NewClientWithHTTP(cfg Config, httpClient HTTPClient, logger zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	geoBaseURL := cfg.GeoBaseURL
	if geoBaseURL == "" {
		geoBaseURL = DefaultGeoBaseURL
	}
	breakerTimeout := cfg.BreakerTimeout
	if breakerTimeout <= 0 {
		breakerTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "qweather",
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		http:       httpClient,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		geoBaseURL: strings.TrimRight(geoBaseURL, "/"),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

// Now fetches current conditions for a location id.
func (c *Client) Now(ctx context.Context, locationID string) (*NowResponse, error) {
	var resp NowResponse
	if err := c.get(ctx, c.baseURL+"/v7/weather/now", url.Values{"location": {locationID}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Daily fetches a daily forecast covering at least days days; the answer is
// trimmed to days entries.
func (c *Client) Daily(ctx context.Context, locationID string, days int) (*DailyResponse, error) {
	horizon := pickHorizon(dailyHorizons, days)
	endpoint := fmt.Sprintf("%s/v7/weather/%dd", c.baseURL, horizon)

	var resp DailyResponse
	if err := c.get(ctx, endpoint, url.Values{"location": {locationID}}, &resp); err != nil {
		return nil, err
	}
	if days > 0 && len(resp.Daily) > days {
		resp.Daily = resp.Daily[:days]
	}
	return &resp, nil
}

// Hourly fetches an hourly forecast covering at least hours hours; the answer
// is trimmed to hours entries.
func (c *Client) Hourly(ctx context.Context, locationID string, hours int) (*HourlyResponse, error) {
	horizon := pickHorizon(hourlyHorizons, hours)
	endpoint := fmt.Sprintf("%s/v7/weather/%dh", c.baseURL, horizon)

	var resp HourlyResponse
	if err := c.get(ctx, endpoint, url.Values{"location": {locationID}}, &resp); err != nil {
		return nil, err
	}
	if hours > 0 && len(resp.Hourly) > hours {
		resp.Hourly = resp.Hourly[:hours]
	}
	return &resp, nil
}

// LookupCity searches the provider's geo service by keyword.
func (c *Client) LookupCity(ctx context.Context, keyword string) (*CityLookupResponse, error) {
	var resp CityLookupResponse
	if err := c.get(ctx, c.geoBaseURL+"/v2/city/lookup", url.Values{"location": {keyword}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	target := endpoint + "?" + params.Encode()

	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.getWithRetry(ctx, target)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return err
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("qweather: decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) getWithRetry(ctx context.Context, target string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(c.retryDelay) * math.Pow(2, float64(attempt-1)))
			c.logger.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("retrying provider request")

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("qweather: build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if readErr != nil {
				lastErr = readErr
				continue
			}
			return body, nil
		}

		lastErr = &StatusError{StatusCode: resp.StatusCode}
		// 4xx other than 429 will not improve on retry.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			break
		}
	}

	return nil, lastErr
}

func pickHorizon(supported []int, want int) int {
	for _, h := range supported {
		if want <= h {
			return h
		}
	}
	return supported[len(supported)-1]
}
