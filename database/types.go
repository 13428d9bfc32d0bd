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
	"os"
	"strconv"
	"strings"
	"time"
)

// HealthStatus holds the result of a health check against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	ResponseTime  time.Duration `json:"response_time"`
	ActiveConns   int           `json:"active_conns"`
	IdleConns     int           `json:"idle_conns"`
	MaxOpenConns  int           `json:"max_open_conns"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// DBStats mirrors database/sql stats returned by the manager.
type DBStats struct {
	MaxOpenConns      int           `json:"max_open_conns"`
	OpenConns         int           `json:"open_conns"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxIdleTimeClosed int64         `json:"max_idle_time_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

// Config describes how to connect to a database and tune its pool.
type Config struct {
	Type             string        `yaml:"type" json:"type"` // postgres, mysql, sqlite
	Host             string        `yaml:"host" json:"host"`
	Port             int           `yaml:"port" json:"port"`
	Username         string        `yaml:"username" json:"username"`
	Password         string        `yaml:"password" json:"-"`
	DBName           string        `yaml:"dbname" json:"dbname"`
	SSLMode          string        `yaml:"sslmode" json:"sslmode"`
	MaxIdleConns     int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	MaxOpenConns     int           `yaml:"max_open_conns" json:"max_open_conns"`
	ConnMaxLifetime  time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `yaml:"conn_max_idle_time" json:"conn_max_idle_time"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout" json:"connect_timeout"`
	ReadTimeout      time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout" json:"write_timeout"`
	EnableQueryLog   bool          `yaml:"enable_query_log" json:"enable_query_log"`
	SlowQueryTime    time.Duration `yaml:"slow_query_time" json:"slow_query_time"`
	MigrateOnStartup bool          `yaml:"migrate_on_startup" json:"migrate_on_startup"`
}

// DefaultConfig returns a sqlite connection config with sensible pool defaults.
func DefaultConfig() *Config {
	return &Config{
		Type:             "sqlite",
		DBName:           "atelier",
		MaxIdleConns:     10,
		MaxOpenConns:     100,
		ConnMaxLifetime:  time.Hour,
		ConnMaxIdleTime:  time.Minute * 30,
		ConnectTimeout:   time.Second * 10,
		ReadTimeout:      time.Second * 30,
		WriteTimeout:     time.Second * 30,
		SlowQueryTime:    time.Second * 2,
		MigrateOnStartup: true,
	}
}

// IsMemory reports whether the config points at an in-memory sqlite database.
func (c *Config) IsMemory() bool {
	return isSQLite(c.Type) && (c.DBName == "" || c.DBName == ":memory:")
}

func isSQLite(t string) bool {
	switch strings.ToLower(t) {
	case "sqlite", "sqlite3":
		return true
	}
	return false
}

// ApplyEnv overrides configuration values from DB_* environment variables.
func (c *Config) ApplyEnv() {
	if typ := os.Getenv("DB_TYPE"); typ != "" {
		c.Type = typ
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		c.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Port = p
		}
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		c.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		c.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		c.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		c.SSLMode = sslmode
	}
	// Connection pool config
	if maxIdle := os.Getenv("DB_MAX_IDLE_CONNS"); maxIdle != "" {
		if val, err := strconv.Atoi(maxIdle); err == nil {
			c.MaxIdleConns = val
		}
	}
	if maxOpen := os.Getenv("DB_MAX_OPEN_CONNS"); maxOpen != "" {
		if val, err := strconv.Atoi(maxOpen); err == nil {
			c.MaxOpenConns = val
		}
	}
	if maxLifetime := os.Getenv("DB_CONN_MAX_LIFETIME"); maxLifetime != "" {
		if val, err := strconv.Atoi(maxLifetime); err == nil {
			c.ConnMaxLifetime = time.Duration(val) * time.Second
		}
	}
	if enableQueryLog := os.Getenv("DB_ENABLE_QUERY_LOG"); enableQueryLog != "" {
		c.EnableQueryLog = enableQueryLog == "true"
	}
	if migrate := os.Getenv("DB_MIGRATE_ON_STARTUP"); migrate != "" {
		c.MigrateOnStartup = migrate == "true"
	}
}
