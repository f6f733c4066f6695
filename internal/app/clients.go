package app

import (
	"context"
	"fmt"

	"github.com/kerbstone/pavetrack-backend/internal/clients/calc"
	"github.com/kerbstone/pavetrack-backend/internal/clients/geocode"
	"github.com/kerbstone/pavetrack-backend/internal/clients/routing"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type Clients struct {
	Geocode geocode.Client
	Routing routing.Client
	Calc    calc.Client
}

func wireClients(ctx context.Context, log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	geocodeClient, err := geocode.New(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init geocode client: %w", err)
	}
	routingClient, err := routing.New(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init routing client: %w", err)
	}
	calcClient, err := calc.New(ctx, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init calc client: %w", err)
	}
	return Clients{
		Geocode: geocodeClient,
		Routing: routingClient,
		Calc:    calcClient,
	}, nil
}
