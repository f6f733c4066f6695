package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kerbstone/pavetrack-backend/internal/platform/envutil"
	"github.com/kerbstone/pavetrack-backend/internal/platform/httpx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// ErrNotFound means the postcode does not resolve to a coordinate.
var ErrNotFound = errors.New("postcode not found")

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Client resolves a postcode to a coordinate.
type Client interface {
	Lookup(ctx context.Context, postcode string) (LatLon, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client

	rdb      *goredis.Client
	cacheTTL time.Duration
}

// New builds the postcode lookup client. GEOCODE_BASE_URL points at a
// postcodes.io-compatible API. When REDIS_ADDR is set, lookups are cached;
// Redis being unreachable degrades to direct HTTP rather than failing.
func New(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c := &client{
		log:     log.With("client", "GeocodeClient"),
		baseURL: strings.TrimRight(envutil.String("GEOCODE_BASE_URL", "https://api.postcodes.io"), "/"),
		httpClient: &http.Client{
			Timeout: envutil.Duration("GEOCODE_TIMEOUT", 5*time.Second),
		},
		cacheTTL: envutil.Duration("GEOCODE_CACHE_TTL", 24*time.Hour),
	}
	if addr := envutil.String("REDIS_ADDR", ""); addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        addr,
			DialTimeout: 5 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.log.Warn("redis unreachable, geocode cache disabled", "error", err)
			_ = rdb.Close()
		} else {
			c.rdb = rdb
		}
	}
	return c, nil
}

func normalizePostcode(pc string) string {
	return strings.ToUpper(strings.Join(strings.Fields(pc), ""))
}

func (c *client) Lookup(ctx context.Context, postcode string) (LatLon, error) {
	pc := normalizePostcode(postcode)
	if pc == "" {
		return LatLon{}, ErrNotFound
	}

	if c.rdb != nil {
		key := "geocode:" + pc
		if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
			var ll LatLon
			if json.Unmarshal([]byte(raw), &ll) == nil {
				return ll, nil
			}
		}
	}

	ll, err := c.fetch(ctx, pc)
	if err != nil {
		return LatLon{}, err
	}

	if c.rdb != nil {
		if raw, err := json.Marshal(ll); err == nil {
			if err := c.rdb.Set(ctx, "geocode:"+pc, raw, c.cacheTTL).Err(); err != nil {
				c.log.Debug("geocode cache write failed", "error", err)
			}
		}
	}
	return ll, nil
}

func (c *client) fetch(ctx context.Context, pc string) (LatLon, error) {
	u := fmt.Sprintf("%s/postcodes/%s", c.baseURL, url.PathEscape(pc))

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return LatLon{}, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if httpx.IsRetryableError(err) {
				continue
			}
			return LatLon{}, err
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return LatLon{}, readErr
		}
		if resp.StatusCode == http.StatusNotFound {
			return LatLon{}, ErrNotFound
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("geocode lookup %s: status %d", pc, resp.StatusCode)
			if httpx.IsRetryableHTTPStatus(resp.StatusCode) {
				continue
			}
			return LatLon{}, lastErr
		}

		var parsed struct {
			Result struct {
				Latitude  *float64 `json:"latitude"`
				Longitude *float64 `json:"longitude"`
			} `json:"result"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return LatLon{}, fmt.Errorf("geocode lookup %s: %w", pc, err)
		}
		if parsed.Result.Latitude == nil || parsed.Result.Longitude == nil {
			return LatLon{}, ErrNotFound
		}
		return LatLon{Lat: *parsed.Result.Latitude, Lon: *parsed.Result.Longitude}, nil
	}
	return LatLon{}, lastErr
}
