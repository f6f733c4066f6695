package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kerbstone/pavetrack-backend/internal/clients/geocode"
	"github.com/kerbstone/pavetrack-backend/internal/platform/envutil"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// ErrNoRoute means the routing service answered but found no drivable route
// between the two coordinates.
var ErrNoRoute = errors.New("no route between coordinates")

// Client returns a road-driving distance between two coordinates.
type Client interface {
	RoadDistanceKm(ctx context.Context, from, to geocode.LatLon) (float64, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

// New builds an OSRM-compatible routing client. ROUTING_BASE_URL defaults to
// the public OSRM demo server.
func New(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &client{
		log:     log.With("client", "RoutingClient"),
		baseURL: strings.TrimRight(envutil.String("ROUTING_BASE_URL", "http://router.project-osrm.org"), "/"),
		httpClient: &http.Client{
			Timeout: envutil.Duration("ROUTING_TIMEOUT", 5*time.Second),
		},
	}, nil
}

func (c *client) RoadDistanceKm(ctx context.Context, from, to geocode.LatLon) (float64, error) {
	// OSRM takes lon,lat pairs.
	u := fmt.Sprintf(
		"%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=false",
		c.baseURL, from.Lon, from.Lat, to.Lon, to.Lat,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("routing request: status %d", resp.StatusCode)
	}

	var parsed struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"` // meters
		} `json:"routes"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("routing response: %w", err)
	}
	if !strings.EqualFold(parsed.Code, "Ok") || len(parsed.Routes) == 0 {
		return 0, ErrNoRoute
	}
	return parsed.Routes[0].Distance / 1000.0, nil
}
