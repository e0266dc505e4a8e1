package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Coordinates is a WGS84 point, longitude first to match GeoJSON ordering
type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Client resolves country code plus postal code to map coordinates using
// a Zippopotam-style lookup API. Lookups are best effort and a miss is not
// an error
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a geocoding client. baseURL defaults to the public
// Zippopotam API when empty
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.zippopotam.us"
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type zippopotamResponse struct {
	Places []struct {
		Longitude string `json:"longitude"`
		Latitude  string `json:"latitude"`
	} `json:"places"`
}

// Lookup returns the coordinates for a postal code, or nil when the code is
// unknown or the upstream service is unavailable
func (c *Client) Lookup(ctx context.Context, countryCode, postalCode string) (*Coordinates, error) {
	if countryCode == "" || postalCode == "" {
		return nil, nil
	}

	lookupURL := fmt.Sprintf("%s/%s/%s", c.baseURL,
		url.PathEscape(countryCode), url.PathEscape(postalCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode lookup returned status %d", resp.StatusCode)
	}

	var result zippopotamResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if len(result.Places) == 0 {
		return nil, nil
	}

	lng, err := strconv.ParseFloat(result.Places[0].Longitude, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocode response: %w", err)
	}
	lat, err := strconv.ParseFloat(result.Places[0].Latitude, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocode response: %w", err)
	}

	return &Coordinates{Lng: lng, Lat: lat}, nil
}
