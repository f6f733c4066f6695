package services

import (
	"github.com/google/uuid"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// A1Service derives the scheme-level blended raw-material factor and the
// tonnage-weighted recycled percentage from a list of material lines.
type A1Service interface {
	// BlendedFactor averages one resolved factor per distinct delivered
	// product. Counting per product rather than per line keeps a product
	// delivered in many small loads from dominating the blend. Returns nil
	// when no product resolves a factor.
	BlendedFactor(dbc dbctx.Context, lines []*domain.SchemeProduct) (*float64, error)

	// RecycledPct is the tonnage-weighted mean over every delivery line with
	// a resolvable recycled percentage. Returns nil when the weighted
	// tonnage is zero.
	RecycledPct(dbc dbctx.Context, lines []*domain.SchemeProduct) (*float64, error)
}

type a1Service struct {
	log     *logger.Logger
	factors FactorService
}

func NewA1Service(baseLog *logger.Logger, factors FactorService) A1Service {
	return &a1Service{
		log:     baseLog.With("service", "A1Service"),
		factors: factors,
	}
}

func (s *a1Service) BlendedFactor(dbc dbctx.Context, lines []*domain.SchemeProduct) (*float64, error) {
	seen := map[uuid.UUID]bool{}
	var sum float64
	var n int
	for _, line := range lines {
		if line.DeliveryType != domain.DeliveryTypeDelivery {
			continue
		}
		if seen[line.ProductID] {
			// First occurrence wins when lines share a product.
			continue
		}
		seen[line.ProductID] = true

		pid := line.ProductID
		factor, err := s.factors.ResolveFactor(dbc, line.PlantID, line.MixTypeID, &pid)
		if err != nil {
			return nil, err
		}
		if factor == nil {
			continue
		}
		sum += *factor
		n++
	}
	if n == 0 {
		return nil, nil
	}
	mean := sum / float64(n)
	return &mean, nil
}

func (s *a1Service) RecycledPct(dbc dbctx.Context, lines []*domain.SchemeProduct) (*float64, error) {
	var weightedSum, totalTonnage float64
	for _, line := range lines {
		if line.DeliveryType != domain.DeliveryTypeDelivery {
			continue
		}
		pid := line.ProductID
		pct, err := s.factors.ResolveRecycledPct(dbc, line.PlantID, line.MixTypeID, &pid)
		if err != nil {
			return nil, err
		}
		if pct == nil {
			continue
		}
		weightedSum += *pct * line.Tonnage
		totalTonnage += line.Tonnage
	}
	if totalTonnage == 0 {
		return nil, nil
	}
	mean := weightedSum / totalTonnage
	return &mean, nil
}
