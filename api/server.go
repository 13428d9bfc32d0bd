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
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/atelier/service"
	"github.com/tomoncle/atelier/utils"
)

// Options configures a Server.
type Options struct {
	Cards        *service.CardService
	Customers    *service.CustomerService
	Backend      string
	Health       HealthChecker
	AllowOrigins []string
	Logger       *logrus.Logger
}

// Server is the HTTP front of the card and customer services.
type Server struct {
	echo   *echo.Echo
	logger *logrus.Logger
}

// NewServer builds the echo instance and registers every route.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger("HTTP")
	}
	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	metrics := NewMetrics()
	e.Use(middleware.Recover())
	e.Use(RequestLogger(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: origins}))

	health := &healthHandler{backend: opts.Backend, checker: opts.Health}
	e.GET("/health", health.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api")
	NewCardHandler(opts.Cards).Register(api.Group("/cards"))
	NewCustomerHandler(opts.Customers).Register(api.Group("/customers"))

	return &Server{echo: e, logger: logger}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on address until Shutdown is called.
func (s *Server) Start(address string) error {
	s.logger.Infof("HTTP server listening on %s", address)
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
