package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/kerbstone/pavetrack-backend/internal/clients/geocode"
	"github.com/kerbstone/pavetrack-backend/internal/clients/routing"
	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// earthRadiusKm is the great-circle fallback radius.
const earthRadiusKm = 6371.0

// DistanceRequest describes one distance to resolve. When Literal is set the
// value is converted from Unit to km and returned without any network calls;
// otherwise both postcodes are geocoded and a road route is attempted before
// falling back to great-circle distance.
type DistanceRequest struct {
	Literal             *float64
	Unit                domain.DistanceUnit
	OriginPostcode      string
	DestinationPostcode string
}

type DistanceService interface {
	ResolveKm(ctx context.Context, req DistanceRequest) (float64, error)
}

type distanceService struct {
	log      *logger.Logger
	geocoder geocode.Client
	router   routing.Client
}

func NewDistanceService(baseLog *logger.Logger, geocoder geocode.Client, router routing.Client) DistanceService {
	return &distanceService{
		log:      baseLog.With("service", "DistanceService"),
		geocoder: geocoder,
		router:   router,
	}
}

func (s *distanceService) ResolveKm(ctx context.Context, req DistanceRequest) (float64, error) {
	if req.Literal != nil {
		if *req.Literal < 0 {
			return 0, validationf("distance must not be negative")
		}
		unit := req.Unit
		if unit == "" {
			unit = domain.UnitKm
		}
		return unit.ToKm(*req.Literal), nil
	}

	if req.OriginPostcode == "" || req.DestinationPostcode == "" {
		return 0, validationf("origin and destination postcodes are required")
	}

	var origin, dest geocode.LatLon
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ll, err := s.geocoder.Lookup(gctx, req.OriginPostcode)
		if err != nil {
			return fmt.Errorf("origin %q: %w", req.OriginPostcode, err)
		}
		origin = ll
		return nil
	})
	g.Go(func() error {
		ll, err := s.geocoder.Lookup(gctx, req.DestinationPostcode)
		if err != nil {
			return fmt.Errorf("destination %q: %w", req.DestinationPostcode, err)
		}
		dest = ll
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			return 0, fmt.Errorf("%w: %v", ErrUnresolvedLocation, err)
		}
		// The geocoder itself is down; with no coordinates there is nothing
		// left to fall back to.
		return 0, fmt.Errorf("%w: %v", ErrDistanceUnavailable, err)
	}

	if km, err := s.router.RoadDistanceKm(ctx, origin, dest); err == nil {
		return km, nil
	} else {
		s.log.Warn("road routing failed, using great-circle distance",
			"origin", req.OriginPostcode, "destination", req.DestinationPostcode, "error", err)
	}

	return HaversineKm(origin.Lat, origin.Lon, dest.Lat, dest.Lon), nil
}

// HaversineKm is the great-circle distance between two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180.0)*math.Cos(lat2*math.Pi/180.0)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
