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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type widget struct {
	bun.BaseModel `bun:"table:widgets"`

	ID   string `bun:"id,pk"`
	Name string `bun:"name,notnull"`
}

type gadget struct {
	bun.BaseModel `bun:"table:gadgets"`

	ID       string `bun:"id,pk"`
	WidgetID string `bun:"widget_id"`
}

func openMemory(t *testing.T) *Manager {
	t.Helper()
	m, err := Open(context.Background(), &Config{Type: "sqlite"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestManagerMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := openMemory(t)
	registry := NewModelRegistry(
		NewModelAdapter((*gadget)(nil), 20),
		NewModelAdapter((*widget)(nil), 10),
	)
	index := IndexSpec{Model: (*gadget)(nil), Name: "idx_gadgets_widget_id", Columns: []string{"widget_id"}}

	require.NoError(t, m.Migrate(ctx, registry, index))
	require.NoError(t, m.Migrate(ctx, registry, index))

	applied, err := NewMigrator(m.DB(), registry, nil).Applied(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "001", applied[0].Version)
	assert.Equal(t, "create_indexes", applied[1].Name)

	_, err = m.DB().NewInsert().Model(&widget{ID: "w1", Name: "bolt"}).Exec(ctx)
	require.NoError(t, err)
	n, err := m.DB().NewSelect().Model((*widget)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestManagerCustomMigration(t *testing.T) {
	ctx := context.Background()
	m := openMemory(t)
	ran := 0
	migrator := NewMigrator(m.DB(), NewModelRegistry(NewModelAdapter((*widget)(nil), 0)), nil).
		WithMigrations(MigrationItem{
			Version: "100",
			Name:    "seed_widget",
			Up: func(ctx context.Context, db bun.IDB) error {
				ran++
				_, err := db.NewInsert().Model(&widget{ID: "seed", Name: "seed"}).Exec(ctx)
				return err
			},
		})

	require.NoError(t, migrator.Migrate(ctx))
	require.NoError(t, migrator.Migrate(ctx))
	assert.Equal(t, 1, ran)
}

func TestManagerHealthAndStats(t *testing.T) {
	ctx := context.Background()
	m := openMemory(t)

	status := m.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Empty(t, status.LastError)
	assert.Equal(t, 1, m.Stats().MaxOpenConns)
	require.NoError(t, m.Ping(ctx))

	require.NoError(t, m.Close())
	status = m.HealthCheck(ctx)
	assert.False(t, status.Healthy)
	assert.Equal(t, "Database not initialized", status.LastError)
	assert.Error(t, m.Ping(ctx))
	assert.Equal(t, &DBStats{}, m.Stats())
	assert.NoError(t, m.Close())
}

func TestManagerRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &Config{Type: "oracle"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type: oracle")
}

func TestModelRegistryOrdersByPriority(t *testing.T) {
	r := NewModelRegistry()
	r.Register(NewModelAdapter("late", 5))
	r.Register(NewModelAdapter("early", 1))
	r.Register(NewModelAdapter("tie", 5))

	assert.Equal(t, []interface{}{"early", "late", "tie"}, r.Instances())
}
