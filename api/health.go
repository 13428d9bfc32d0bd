/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tomoncle/atelier/database"
)

// HealthChecker reports the state of the backing store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) *database.HealthStatus
}

// HealthResponse is the body returned by /health.
type HealthResponse struct {
	Status   string                 `json:"status"`
	Backend  string                 `json:"backend"`
	Time     time.Time              `json:"time"`
	Database *database.HealthStatus `json:"database,omitempty"`
}

type healthHandler struct {
	backend string
	checker HealthChecker
}

func (h *healthHandler) Health(c echo.Context) error {
	resp := HealthResponse{Status: "ok", Backend: h.backend, Time: time.Now().UTC()}
	if h.checker == nil {
		return c.JSON(http.StatusOK, resp)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	resp.Database = h.checker.HealthCheck(ctx)
	if !resp.Database.Healthy {
		resp.Status = "unavailable"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
