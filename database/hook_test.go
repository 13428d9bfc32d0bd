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
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

type recordingLogger struct {
	warnings []string
	fields   [][]interface{}
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Error(string, ...interface{}) {}
func (l *recordingLogger) Warn(msg string, fields ...interface{}) {
	l.warnings = append(l.warnings, msg)
	l.fields = append(l.fields, fields)
}

func TestQueryHookPrintsFailures(t *testing.T) {
	var buf bytes.Buffer
	hook := NewQueryHook(&buf, false)
	ctx := context.Background()

	hook.AfterQuery(ctx, &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	hook.AfterQuery(ctx, &bun.QueryEvent{Query: "SELECT 2", StartTime: time.Now(), Err: fmt.Errorf("scan: %w", sql.ErrNoRows)})
	assert.Empty(t, buf.String())

	hook.AfterQuery(ctx, &bun.QueryEvent{Query: "DELETE FROM cards", StartTime: time.Now(), Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "DELETE FROM cards")
	assert.Contains(t, buf.String(), "boom")
}

func TestQueryHookVerbose(t *testing.T) {
	var buf bytes.Buffer
	NewQueryHook(&buf, true).AfterQuery(context.Background(), &bun.QueryEvent{Query: "UPDATE cards SET name = 'x'", StartTime: time.Now()})
	assert.Contains(t, buf.String(), "UPDATE cards SET name = 'x'")
	assert.Contains(t, buf.String(), "[BUN]")
}

func TestSlowQueryHook(t *testing.T) {
	logger := &recordingLogger{}
	hook := NewSlowQueryHook(10*time.Millisecond, logger)
	ctx := context.Background()

	hook.AfterQuery(ctx, &bun.QueryEvent{Query: "SELECT fast", StartTime: time.Now()})
	hook.AfterQuery(ctx, &bun.QueryEvent{Query: "SELECT failed", StartTime: time.Now().Add(-time.Second), Err: errors.New("x")})
	assert.Empty(t, logger.warnings)

	hook.AfterQuery(ctx, &bun.QueryEvent{Query: "SELECT slow", StartTime: time.Now().Add(-time.Second)})
	if assert.Len(t, logger.warnings, 1) {
		assert.Contains(t, logger.warnings[0], "slow query")
		assert.Contains(t, logger.fields[0], "SELECT slow")
	}
}

func TestToFields(t *testing.T) {
	fields := toFields([]interface{}{"type", "sqlite", "port", 5432, "dangling"})
	assert.Equal(t, "sqlite", fields["type"])
	assert.Equal(t, 5432, fields["port"])
	assert.Equal(t, "dangling", fields["extra"])
}

func TestConfigApplyEnv(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_PORT_IGNORED", "1")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 100, cfg.MaxOpenConns)
	assert.Equal(t, 90*time.Second, cfg.ConnMaxLifetime)
	assert.True(t, cfg.EnableQueryLog)
	assert.False(t, cfg.IsMemory())
}

func TestConfigIsMemory(t *testing.T) {
	assert.True(t, (&Config{Type: "sqlite"}).IsMemory())
	assert.True(t, (&Config{Type: "SQLite3", DBName: ":memory:"}).IsMemory())
	assert.False(t, (&Config{Type: "sqlite", DBName: "atelier"}).IsMemory())
	assert.False(t, (&Config{Type: "mysql"}).IsMemory())
}
