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
	"time"

	"github.com/uptrace/bun/dialect"
)

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("DB_TYPE", "mysql")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USERNAME", "glyph")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "fonts")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")
	t.Setenv("DB_SLOW_QUERY_TIME", "250ms")

	cfg := DefaultConnectionConfig()
	OverrideFromEnv(cfg)

	if cfg.Type != TypeMySQL || cfg.Host != "db.internal" || cfg.Port != 3307 {
		t.Errorf("type/host/port = %s/%s/%d", cfg.Type, cfg.Host, cfg.Port)
	}
	if cfg.Username != "glyph" || cfg.Password != "secret" || cfg.DBName != "fonts" {
		t.Errorf("credentials = %s/%s/%s", cfg.Username, cfg.Password, cfg.DBName)
	}
	if cfg.MaxOpenConns != 7 {
		t.Errorf("max open conns = %d", cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime != 90*time.Second {
		t.Errorf("conn max lifetime = %s", cfg.ConnMaxLifetime)
	}
	if !cfg.EnableQueryLog || cfg.SlowQueryTime != 250*time.Millisecond {
		t.Errorf("query log = %v, slow = %s", cfg.EnableQueryLog, cfg.SlowQueryTime)
	}
}

func TestOverrideFromEnv_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("DB_ENABLE_RECONNECT", "maybe")

	cfg := DefaultConnectionConfig()
	cfg.Port = 5432
	OverrideFromEnv(cfg)
	if cfg.Port != 5432 {
		t.Errorf("port = %d, want 5432", cfg.Port)
	}
	if !cfg.EnableReconnect {
		t.Error("invalid bool should keep the default")
	}
}

func TestFactory_CreateFromConfig(t *testing.T) {
	f := NewDatabaseFactory()
	if f.GetDB() != nil {
		t.Fatal("db set before create")
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close without manager: %v", err)
	}
	if f.GetHealthStatus(context.Background()).Healthy {
		t.Error("factory without manager reported healthy")
	}

	if _, err := f.CreateFromConfig(&ConnectionConfig{Type: "oracle", DBName: "x"}); err == nil {
		t.Error("expected error for unsupported type")
	}
	m, err := f.CreateFromConfig(&ConnectionConfig{Type: "sqlite3", DBName: MemoryDBName})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m == nil || f.GetManager() != m {
		t.Error("factory did not keep the manager")
	}
}

func TestFactory_CreateFromConfig_KeepsGivenTarget(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_HOST", "10.0.0.9")
	t.Setenv("DB_NAME", "query")

	cfg := DefaultConnectionConfig()
	cfg.Type = TypeSQLite
	cfg.Host = ""
	cfg.DBName = MemoryDBName
	cfg.HealthCheckInterval = 0

	f := NewDatabaseFactory()
	m, err := f.CreateFromConfig(cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cfg.Type != TypeSQLite || cfg.Host != "" || cfg.DBName != MemoryDBName {
		t.Fatalf("config changed by create: %s/%s/%s", cfg.Type, cfg.Host, cfg.DBName)
	}
	if err := m.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = m.Disconnect() }()
	if name := m.GetDB().Dialect().Name(); name != dialect.SQLite {
		t.Errorf("dialect = %s, want sqlite", name)
	}
}
