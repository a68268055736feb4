package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
)

const defaultBaseURL = "https://maps.googleapis.com"

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Client talks to the Google Maps web services: geocoding, distance
// matrix and place autocomplete. The base URL is overridable for tests.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCoordinates geocodes a free-form address.
func (c *Client) GetCoordinates(ctx context.Context, address string) (models.Coordinates, error) {
	ctx = wrap.WithAction(ctx, "googlemaps.GetCoordinates")

	if address == "" {
		return models.Coordinates{}, wrap.Error(ctx, fmt.Errorf("%w: empty address", types.ErrInvalidInput))
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/maps/api/geocode/json", q, &payload); err != nil {
		return models.Coordinates{}, wrap.Error(ctx, err)
	}

	switch payload.Status {
	case statusOK:
	case statusZeroResults:
		return models.Coordinates{}, wrap.Error(ctx, fmt.Errorf("%w: address %q", types.ErrNotFound, address))
	default:
		return models.Coordinates{}, wrap.Error(ctx, fmt.Errorf("%w: geocode status %s", types.ErrGeoProvider, payload.Status))
	}

	if len(payload.Results) == 0 {
		return models.Coordinates{}, wrap.Error(ctx, fmt.Errorf("%w: address %q", types.ErrNotFound, address))
	}

	loc := payload.Results[0].Geometry.Location
	return models.Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

// GetDistanceDuration asks the distance matrix for one origin/destination
// pair.
func (c *Client) GetDistanceDuration(ctx context.Context, pickup, destination string) (models.DistanceDuration, error) {
	ctx = wrap.WithAction(ctx, "googlemaps.GetDistanceDuration")

	if pickup == "" || destination == "" {
		return models.DistanceDuration{}, wrap.Error(ctx, fmt.Errorf("%w: empty pickup or destination", types.ErrInvalidInput))
	}

	q := url.Values{}
	q.Set("origins", pickup)
	q.Set("destinations", destination)
	q.Set("key", c.apiKey)

	var payload struct {
		Status string `json:"status"`
		Rows   []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Value int64  `json:"value"`
					Text  string `json:"text"`
				} `json:"distance"`
				Duration struct {
					Value int64  `json:"value"`
					Text  string `json:"text"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := c.get(ctx, "/maps/api/distancematrix/json", q, &payload); err != nil {
		return models.DistanceDuration{}, wrap.Error(ctx, err)
	}

	if payload.Status != statusOK {
		return models.DistanceDuration{}, wrap.Error(ctx, fmt.Errorf("%w: distance matrix status %s", types.ErrGeoProvider, payload.Status))
	}
	if len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		return models.DistanceDuration{}, wrap.Error(ctx, fmt.Errorf("%w: empty distance matrix response", types.ErrGeoProvider))
	}

	el := payload.Rows[0].Elements[0]
	switch el.Status {
	case statusOK:
	case statusZeroResults:
		return models.DistanceDuration{}, wrap.Error(ctx, types.ErrNoRoute)
	default:
		return models.DistanceDuration{}, wrap.Error(ctx, fmt.Errorf("%w: element status %s", types.ErrGeoProvider, el.Status))
	}

	return models.DistanceDuration{
		DistanceMeters:  el.Distance.Value,
		DistanceText:    el.Distance.Text,
		DurationSeconds: el.Duration.Value,
		DurationText:    el.Duration.Text,
	}, nil
}

// GetSuggestions returns autocomplete predictions for a partial address.
func (c *Client) GetSuggestions(ctx context.Context, input string) ([]models.Suggestion, error) {
	ctx = wrap.WithAction(ctx, "googlemaps.GetSuggestions")

	if input == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: empty input", types.ErrInvalidInput))
	}

	q := url.Values{}
	q.Set("input", input)
	q.Set("key", c.apiKey)

	var payload struct {
		Status      string `json:"status"`
		Predictions []struct {
			Description string `json:"description"`
			PlaceID     string `json:"place_id"`
		} `json:"predictions"`
	}
	if err := c.get(ctx, "/maps/api/place/autocomplete/json", q, &payload); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	switch payload.Status {
	case statusOK:
	case statusZeroResults:
		return []models.Suggestion{}, nil
	default:
		return nil, wrap.Error(ctx, fmt.Errorf("%w: autocomplete status %s", types.ErrGeoProvider, payload.Status))
	}

	suggestions := make([]models.Suggestion, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		suggestions = append(suggestions, models.Suggestion{
			Description: p.Description,
			PlaceID:     p.PlaceID,
		})
	}
	return suggestions, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrGeoProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected response status %d", types.ErrGeoProvider, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", types.ErrGeoProvider, err)
	}
	return nil
}
