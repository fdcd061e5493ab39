// Package geocode resolves free-text locations to points through a
// Mapbox-style forward geocoding endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrNoMatch means the geocoder returned no feature for the query.
var ErrNoMatch = errors.New("geocode: no match for location")

// Point is a geocoded coordinate pair, [longitude, latitude] order.
type Point struct {
	Lng float64
	Lat float64
}

// Client calls the forward geocoding API.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient builds a geocoding client for the given endpoint and token.
func NewClient(baseURL, token string) *Client {
	return &Client{BaseURL: baseURL, Token: token, HTTP: http.DefaultClient}
}

type forwardResponse struct {
	Features []struct {
		Center []float64 `json:"center"`
	} `json:"features"`
}

// Forward geocodes a location string, returning the single best match.
func (c *Client) Forward(ctx context.Context, location string) (Point, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?access_token=%s&limit=1",
		c.BaseURL, url.PathEscape(location), url.QueryEscape(c.Token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Point{}, fmt.Errorf("geocode: build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("geocode: call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var body forwardResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Point{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(body.Features) == 0 || len(body.Features[0].Center) < 2 {
		return Point{}, ErrNoMatch
	}

	center := body.Features[0].Center
	return Point{Lng: center[0], Lat: center[1]}, nil
}
