package handler

import (
	"database/sql"
	"net/http"

	"github.com/amanuel-t/travel_booking/internal/platform/cache"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	db    *sql.DB
	redis *redis.Client
}

func NewHealthHandler(db *sql.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	healthy := true

	if err := h.db.PingContext(r.Context()); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if err := cache.HealthCheck(h.redis); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	writeJSON(w, status, map[string]any{
		"status": overall,
		"checks": checks,
	})
}
