package pg

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports the pool healthy when a connection can be acquired
// and the listings table answers a trivial query.
type HealthChecker struct {
	pool *ConnectionPool
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{
		pool: pool,
	}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var one int
	if err := hc.pool.GetConn().QueryRow(ctx, "SELECT 1 FROM listings LIMIT 1").Scan(&one); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		stat := hc.pool.GetConn().Stat()
		slog.Warn("Postgres health check failed",
			"error", err,
			"acquiredConns", stat.AcquiredConns(),
			"totalConns", stat.TotalConns(),
		)
		return false
	}
	return true
}
