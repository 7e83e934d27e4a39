package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const pingTimeout = 5 * time.Second

// PoolSnapshot is the subset of pgxpool.Stat reported by /health/db.
type PoolSnapshot struct {
	Open     int32 `json:"open"`
	Idle     int32 `json:"idle"`
	InUse    int32 `json:"in_use"`
	Max      int32 `json:"max"`
	Acquired int64 `json:"acquired_total"`
}

func snapshot(pool *pgxpool.Pool) PoolSnapshot {
	st := pool.Stat()
	return PoolSnapshot{
		Open:     st.TotalConns(),
		Idle:     st.IdleConns(),
		InUse:    st.AcquiredConns(),
		Max:      st.MaxConns(),
		Acquired: st.AcquireCount(),
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves /health/db: 200 with ping latency when the database
// answers, 503 otherwise.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return healthHandler(pool, func() PoolSnapshot { return snapshot(pool) })
}

func healthHandler(p pinger, stats func() PoolSnapshot) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
		defer cancel()

		start := time.Now()
		err := p.Ping(ctx)
		latency := time.Since(start)

		body := map[string]interface{}{
			"database":   "connected",
			"latency_ms": latency.Milliseconds(),
			"pool":       stats(),
		}
		if err != nil {
			body["database"] = "unreachable"
			body["error"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, body)
		}
		return c.JSON(http.StatusOK, body)
	}
}
