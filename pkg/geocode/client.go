package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// ErrNotFound is returned when no query variant yields a result
var ErrNotFound = errors.New("location not found")

// Coordinates are kept as the strings the geocoder returns
type Coordinates struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Client looks up building coordinates with a Nominatim compatible API
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger

	// Pause is the delay between consecutive lookups in LocateAll
	Pause time.Duration
	// RetryWait is multiplied by the attempt number between retries
	RetryWait time.Duration
}

// NewClient returns a client for baseURL, or the public instance when empty
func NewClient(baseURL, userAgent string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		userAgent:  userAgent,
		logger:     logger,
		Pause:      1010 * time.Millisecond,
		RetryWait:  time.Second,
	}
}

// getWithRetries attempts an HTTP GET up to 3 times for 502/503/504 and network errors
func (c *Client) getWithRetries(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error
	var resp *http.Response

	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		// The public instance rejects requests without an identifying agent
		req.Header.Set("User-Agent", c.userAgent)

		resp, lastErr = c.httpClient.Do(req)

		if lastErr == nil && (resp.StatusCode == 503 || resp.StatusCode == 504 || resp.StatusCode == 502) {
			resp.Body.Close()
			lastErr = fmt.Errorf("transient status code: %d", resp.StatusCode)
		} else if lastErr == nil {
			return resp, nil
		}

		if attempt == 2 {
			break
		}
		c.logger.Warn("geocoder unavailable, retrying", zap.Int("attempt", attempt+1), zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * c.RetryWait):
		}
	}

	return nil, fmt.Errorf("failed after 3 attempts: %w", lastErr)
}

func (c *Client) search(ctx context.Context, query string) ([]place, error) {
	reqURL := fmt.Sprintf("%s/search?q=%s&format=json", c.baseURL, url.QueryEscape(query))

	resp, err := c.getWithRetries(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode search JSON: %w", err)
	}
	return places, nil
}

// Locate finds a building. The bare building name is tried first, then the
// name qualified by its school.
func (c *Client) Locate(ctx context.Context, loc course.Location) (Coordinates, error) {
	queries := []string{
		fmt.Sprintf("%s, Claremont 91711", loc.Building),
		fmt.Sprintf("%s %s, Claremont 91711", loc.School, loc.Building),
	}

	for _, q := range queries {
		places, err := c.search(ctx, q)
		if err != nil {
			return Coordinates{}, err
		}
		if len(places) > 0 {
			return Coordinates{Lat: places[0].Lat, Lon: places[0].Lon}, nil
		}
	}
	return Coordinates{}, fmt.Errorf("%w: %s", ErrNotFound, loc.Key())
}

// LocateAll geocodes every building used by courses that is not in known.
// Buildings that cannot be found are skipped. A transport error stops the
// run and returns what was found so far together with the error.
func (c *Client) LocateAll(ctx context.Context, courses []course.Course, known map[string]Coordinates) (map[string]Coordinates, error) {
	found := make(map[string]Coordinates)
	seen := make(map[string]bool)

	first := true
	for _, crs := range courses {
		for _, t := range crs.Timings {
			loc := t.Location
			key := loc.Key()
			if loc.Building == "" || seen[key] {
				continue
			}
			seen[key] = true
			if _, ok := known[key]; ok {
				continue
			}

			if !first {
				select {
				case <-ctx.Done():
					return found, ctx.Err()
				case <-time.After(c.Pause):
				}
			}
			first = false

			coords, err := c.Locate(ctx, loc)
			if errors.Is(err, ErrNotFound) {
				c.logger.Debug("no coordinates for building", zap.String("location", key))
				continue
			}
			if err != nil {
				return found, err
			}
			found[key] = coords
		}
	}
	return found, nil
}
