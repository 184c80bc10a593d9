package ipgeo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/utils"
)

var (
	ErrUnroutableIP = errors.New("ip address is private or invalid")
	ErrLookupFailed = errors.New("ip geolocation lookup failed")
)

// Locator resolves an IP address to an approximate coordinate.
type Locator interface {
	Locate(ctx context.Context, ip string) (utils.Coordinate, error)
}

// HTTPLocator queries a JSON geolocation endpoint such as ipapi.co.
type HTTPLocator struct {
	client      *http.Client
	urlTemplate string
	timeout     time.Duration
}

// NewHTTPLocator builds a locator. urlTemplate must contain one %s for the IP.
func NewHTTPLocator(urlTemplate string, timeout time.Duration) *HTTPLocator {
	return &HTTPLocator{
		client:      &http.Client{},
		urlTemplate: urlTemplate,
		timeout:     timeout,
	}
}

type lookupResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

// Locate implements Locator.
func (l *HTTPLocator) Locate(ctx context.Context, ip string) (utils.Coordinate, error) {
	if !IsRoutable(ip) {
		return utils.Coordinate{}, ErrUnroutableIP
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(l.urlTemplate, ip), nil)
	if err != nil {
		return utils.Coordinate{}, fmt.Errorf("build ip lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return utils.Coordinate{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return utils.Coordinate{}, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return utils.Coordinate{}, fmt.Errorf("%w: decode: %v", ErrLookupFailed, err)
	}
	if body.Error {
		return utils.Coordinate{}, fmt.Errorf("%w: %s", ErrLookupFailed, body.Reason)
	}

	lat, lng := body.Latitude, body.Longitude
	if lat == nil || lng == nil {
		lat, lng = body.Lat, body.Lon
	}
	if lat == nil || lng == nil {
		return utils.Coordinate{}, fmt.Errorf("%w: response has no coordinates", ErrLookupFailed)
	}

	return utils.Coordinate{Latitude: *lat, Longitude: *lng}, nil
}

// IsRoutable reports whether ip is a public unicast address worth looking up.
func IsRoutable(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return !(parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() ||
		parsed.IsLinkLocalUnicast() || parsed.IsMulticast())
}
