package calc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerbstone/pavetrack-backend/internal/platform/envutil"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// Client invokes the external carbon roll-up procedure. The procedure reads a
// scheme's current editable state and rewrites its result rows and summary;
// this service treats that as atomic and authoritative.
type Client interface {
	Recalculate(ctx context.Context, schemeID uuid.UUID) error
	Close()
}

type client struct {
	log     *logger.Logger
	pool    *pgxpool.Pool
	proc    string
	timeout time.Duration
}

// New opens a dedicated pgx pool for the roll-up call. The procedure can run
// far longer than ordinary queries, so it gets its own pool and timeout
// instead of sharing the ORM connection settings.
func New(ctx context.Context, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	dsn := envutil.String("CALC_POSTGRES_DSN", "")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			envutil.String("POSTGRES_USER", "postgres"),
			envutil.String("POSTGRES_PASSWORD", ""),
			envutil.String("POSTGRES_HOST", "localhost"),
			envutil.String("POSTGRES_PORT", "5432"),
			envutil.String("POSTGRES_NAME", "pavetrack"),
		)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("calc pool: %w", err)
	}
	return &client{
		log:     log.With("client", "CalcClient"),
		pool:    pool,
		proc:    envutil.String("CALC_PROCEDURE", "scheme_carbon_rollup"),
		timeout: envutil.Duration("CALC_TIMEOUT", 60*time.Second),
	}, nil
}

func (c *client) Recalculate(ctx context.Context, schemeID uuid.UUID) error {
	if schemeID == uuid.Nil {
		return fmt.Errorf("missing scheme_id")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	if _, err := c.pool.Exec(ctx, fmt.Sprintf("CALL %s($1)", c.proc), schemeID); err != nil {
		return fmt.Errorf("carbon roll-up for scheme %s: %w", schemeID, err)
	}
	c.log.Debug("carbon roll-up completed", "scheme_id", schemeID, "elapsed", time.Since(started))
	return nil
}

func (c *client) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}
