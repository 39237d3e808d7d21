// Copyright (c) 2026 Editaliza. All rights reserved.

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/editaliza/editaliza/internal/platform/constants"
	"github.com/editaliza/editaliza/internal/platform/ctxutil"
	"github.com/editaliza/editaliza/internal/platform/respond"
)

// Check tests one dependency.
type Check func(ctx context.Context) error

// HealthDependencies names the checks behind /ready. A nil check is skipped,
// which is how a deployment without Redis stays ready.
type HealthDependencies struct {
	Database Check
	Cache    Check
}

type checkResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers returns the liveness and readiness handlers.
func NewHealthHandlers(deps HealthDependencies) (liveness, readiness http.HandlerFunc) {
	liveness = func(writer http.ResponseWriter, _ *http.Request) {
		respond.JSON(writer, http.StatusOK, map[string]string{constants.FieldStatus: "ok"})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		checks := []struct {
			name  string
			check Check
		}{
			{"postgres", deps.Database},
			{"redis", deps.Cache},
		}

		ready := true
		results := make([]checkResult, 0, len(checks))
		for _, c := range checks {
			if c.check == nil {
				continue
			}
			result := checkResult{Name: c.name, OK: true}
			if err := c.check(ctx); err != nil {
				result.OK, result.Error = false, err.Error()
				ready = false
				ctxutil.GetLogger(ctx).ErrorContext(ctx, "readiness_check_failed", slog.String("dependency", c.name), slog.Any("error", err))
			}
			results = append(results, result)
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		respond.JSON(writer, code, map[string]any{
			constants.FieldStatus: status,
			constants.FieldChecks: results,
		})
	}

	return liveness, readiness
}
