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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/atelier"
	"github.com/tomoncle/atelier/api"
	"github.com/tomoncle/atelier/config"
	"github.com/tomoncle/atelier/database"
	"github.com/tomoncle/atelier/repository/persistent"
	"github.com/tomoncle/atelier/service"
	"github.com/tomoncle/atelier/utils"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

// Runner holds what the commands share once the configuration is loaded.
type Runner struct {
	config *config.Config
	logger *logrus.Logger
	out    io.Writer
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Start the HTTP API",
			Action: r.Serve,
		},
		{
			Name:   "migrate",
			Usage:  "Create the tables and indexes, then list applied migrations",
			Action: r.Migrate,
		},
	}
}

// Load reads the configuration and applies the log settings before any
// command runs.
func (r *Runner) Load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	utils.ConfigureLogLevel(cfg.Log.Level)
	r.config = cfg
	return ctx, nil
}

func (r *Runner) openDatabase(ctx context.Context) (*database.Manager, error) {
	m, err := database.Open(ctx, r.config.Database, database.NewLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return m, nil
}

// Serve runs the API until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, _ *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := atelier.ParseBackend(r.config.Repository.Type)
	if err != nil {
		return err
	}

	opts := api.Options{
		Backend:      string(backend),
		AllowOrigins: r.config.Server.AllowOrigins,
		Logger:       utils.NewLogger("HTTP"),
	}

	var bunDB *bun.DB
	if backend == atelier.BackendPersistent {
		db, err := r.openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		if r.config.Database.MigrateOnStartup {
			if err := persistent.Migrate(ctx, db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		opts.Health = db
		bunDB = db.DB()
	}

	container, err := atelier.NewContainer(string(backend), bunDB)
	if err != nil {
		return err
	}
	v := service.NewValidator()
	opts.Cards = service.NewCardService(container.Cards, container.Customers, v)
	opts.Customers = service.NewCustomerService(container.Customers, container.Cards, v)
	server := api.NewServer(opts)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(r.config.Server.Address())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}

// Migrate applies pending migrations and prints the applied ones.
func (r *Runner) Migrate(ctx context.Context, _ *cli.Command) error {
	db, err := r.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := persistent.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	applied, err := database.NewMigrator(db.DB(), persistent.Models(), database.NewLogger(r.logger)).Applied(ctx)
	if err != nil {
		return err
	}
	for _, m := range applied {
		fmt.Fprintf(r.out, "%s  %-20s %s\n", m.Version, m.Name, m.AppliedAt.Format(time.RFC3339))
	}
	return nil
}
