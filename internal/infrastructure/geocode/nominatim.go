// internal/infrastructure/geocode/nominatim.go
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/your-org/storefront-bff/internal/config"
	"github.com/your-org/storefront-bff/internal/domain/checkout"
)

// Client reverse geocodes against a Nominatim compatible endpoint
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a reverse geocoding client from configuration
func NewClient(cfg config.GeocodingConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type reverseResponse struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
	Error       string            `json:"error"`
}

// Reverse implements checkout.Geocoder
func (c *Client) Reverse(ctx context.Context, at checkout.Coordinates) (string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(at.Lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(at.Lng, 'f', 6, 64))
	q.Set("zoom", "18")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse lookup returned status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode reverse lookup: %w", err)
	}
	if body.Error != "" {
		return "", fmt.Errorf("reverse lookup: %s", body.Error)
	}

	if label := shortLabel(body.Address); label != "" {
		return label, nil
	}
	if body.DisplayName == "" {
		return "", fmt.Errorf("reverse lookup returned no address")
	}
	return body.DisplayName, nil
}

// shortLabel joins the street and the most specific locality
func shortLabel(addr map[string]string) string {
	var parts []string
	for _, key := range []string{"house_number", "road"} {
		if v := strings.TrimSpace(addr[key]); v != "" {
			parts = append(parts, v)
		}
	}
	street := strings.Join(parts, " ")

	var locality string
	for _, key := range []string{"suburb", "neighbourhood", "city_district", "city", "town", "village"} {
		if v := strings.TrimSpace(addr[key]); v != "" {
			locality = v
			break
		}
	}

	switch {
	case street != "" && locality != "":
		return street + ", " + locality
	case street != "":
		return street
	default:
		return locality
	}
}
