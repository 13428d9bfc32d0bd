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

package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Migration represents an applied migration record stored in the database.
type Migration struct {
	bun.BaseModel `bun:"table:schema_migrations"`

	Version     string    `bun:"version,pk"`
	Name        string    `bun:"name"`
	AppliedAt   time.Time `bun:"applied_at"`
	Description string    `bun:"description"`
}

// MigrationFunc is a migration step executed within a transaction.
type MigrationFunc func(ctx context.Context, db bun.IDB) error

// MigrationItem describes a single migration version.
type MigrationItem struct {
	Version     string
	Name        string
	Description string
	Up          MigrationFunc
}

// IndexSpec names a secondary index created after the base tables.
type IndexSpec struct {
	Model   interface{}
	Name    string
	Columns []string
}

// Migrator creates the registered tables and indexes, recording each applied
// version in schema_migrations.
type Migrator struct {
	db       *bun.DB
	logger   Logger
	registry *ModelRegistry
	indexes  []IndexSpec
	extra    []MigrationItem
}

func NewMigrator(db *bun.DB, registry *ModelRegistry, logger Logger) *Migrator {
	if registry == nil {
		registry = NewModelRegistry()
	}
	if logger == nil {
		logger = NewLogger(nil)
	}
	return &Migrator{db: db, logger: logger, registry: registry}
}

// WithIndexes adds indexes to the "create_indexes" migration.
func (m *Migrator) WithIndexes(indexes ...IndexSpec) *Migrator {
	m.indexes = append(m.indexes, indexes...)
	return m
}

// WithMigrations appends custom migration steps.
func (m *Migrator) WithMigrations(items ...MigrationItem) *Migrator {
	m.extra = append(m.extra, items...)
	return m
}

// Migrate creates the tracking table if needed and executes every pending
// migration in ascending version order.
func (m *Migrator) Migrate(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not initialized")
	}
	if _, err := m.db.NewCreateTable().
		Model((*Migration)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := m.migrations()
	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	for _, migration := range migrations {
		if err := m.run(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}
	m.logger.Info("Database migrations completed")
	return nil
}

func (m *Migrator) migrations() []MigrationItem {
	items := []MigrationItem{
		{
			Version:     "001",
			Name:        "create_base_tables",
			Description: "Create base table structure",
			Up:          m.createBaseTables,
		},
	}
	if len(m.indexes) > 0 {
		items = append(items, MigrationItem{
			Version:     "002",
			Name:        "create_indexes",
			Description: "Create lookup indexes",
			Up:          m.createIndexes,
		})
	}
	return append(items, m.extra...)
}

func (m *Migrator) run(ctx context.Context, migration MigrationItem) error {
	exists, err := m.db.NewSelect().
		Model((*Migration)(nil)).
		Where("version = ?", migration.Version).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = m.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := migration.Up(ctx, tx); err != nil {
			return err
		}
		_, err := tx.NewInsert().
			Model(&Migration{
				Version:     migration.Version,
				Name:        migration.Name,
				AppliedAt:   time.Now().UTC(),
				Description: migration.Description,
			}).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	m.logger.Info("Migration executed successfully", "version", migration.Version, "name", migration.Name)
	return nil
}

func (m *Migrator) createBaseTables(ctx context.Context, db bun.IDB) error {
	for _, model := range m.registry.Instances() {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %T: %w", model, err)
		}
	}
	return nil
}

func (m *Migrator) createIndexes(ctx context.Context, db bun.IDB) error {
	for _, index := range m.indexes {
		query := db.NewCreateIndex().
			Model(index.Model).
			Index(index.Name).
			Column(index.Columns...)
		if m.db.Dialect().Name() != dialect.MySQL {
			query = query.IfNotExists()
		}
		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create index %s: %w", index.Name, err)
		}
	}
	return nil
}

// Applied returns migration records ordered by version.
func (m *Migrator) Applied(ctx context.Context) ([]Migration, error) {
	var migrations []Migration
	err := m.db.NewSelect().
		Model(&migrations).
		Order("version ASC").
		Scan(ctx)
	return migrations, err
}
