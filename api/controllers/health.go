package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/menuvivo/menuvivo-backend/api/responses"
	"github.com/menuvivo/menuvivo-backend/pkg/config"
	"github.com/menuvivo/menuvivo-backend/pkg/db"
	pkgerrors "github.com/menuvivo/menuvivo-backend/pkg/errors"
	"github.com/menuvivo/menuvivo-backend/pkg/logger"
	"github.com/menuvivo/menuvivo-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MenuVivo-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every attached dependency answers
// a ping within the readiness timeout.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MenuVivo-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["database"] = "unreachable"
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "unreachable"
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies not ready").WithDetails(checks)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
