package geocode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/pkg/config"
	"github.com/suteetoe/restb/prometheus"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Place is a resolved coordinate
type Place struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Address is a structured postal address
type Address struct {
	Building string
	Street   string
	City     string
	Postcode string
	Country  string
}

// Geocoder resolves free text and structured addresses to coordinates.
// A lookup that matches nothing returns a nil place and no error.
type Geocoder interface {
	Search(ctx context.Context, query string) (*Place, error)
	SearchAddress(ctx context.Context, address Address) (*Place, error)
}

// Nominatim queries an OpenStreetMap Nominatim instance
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	log       *zap.Logger
}

func NewNominatim(cfg config.GeocoderConfig, log *zap.Logger) *Nominatim {
	return &Nominatim{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		log:       log,
	}
}

// Search geocodes free text
func (n *Nominatim) Search(ctx context.Context, query string) (*Place, error) {
	params := url.Values{}
	params.Set("q", query)
	return n.lookup(ctx, params, "Could not find: "+query)
}

// SearchAddress geocodes a structured address
func (n *Nominatim) SearchAddress(ctx context.Context, address Address) (*Place, error) {
	params := url.Values{}
	params.Set("street", strings.TrimSpace(address.Building+" "+address.Street))
	params.Set("city", address.City)
	params.Set("postalcode", address.Postcode)
	params.Set("country", address.Country)
	return n.lookup(ctx, params, "Could not find address")
}

func (n *Nominatim) lookup(ctx context.Context, params url.Values, failure string) (*Place, error) {
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		prometheus.RecordGeocode("error")
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		prometheus.RecordGeocode("error")
		n.log.Warn("Geocoder returned an error", zap.Int("status", resp.StatusCode))
		return nil, apperror.BadRequest(failure)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		prometheus.RecordGeocode("error")
		return nil, fmt.Errorf("read geocode response: %w", err)
	}

	results := gjson.ParseBytes(body)
	if !results.IsArray() {
		prometheus.RecordGeocode("error")
		return nil, fmt.Errorf("unexpected geocode response")
	}
	first := results.Get("0")
	if !first.Exists() {
		prometheus.RecordGeocode("miss")
		return nil, nil
	}

	prometheus.RecordGeocode("hit")
	return &Place{
		Latitude:    first.Get("lat").Float(),
		Longitude:   first.Get("lon").Float(),
		DisplayName: first.Get("display_name").String(),
	}, nil
}
