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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomoncle/glyph/database"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	conn := cfg.ConfigLoader().ConnectionConfig
	if conn.Type != database.TypePostgres || conn.Host != "127.0.0.1" || conn.Port != 5432 {
		t.Errorf("type/host/port = %s/%s/%d", conn.Type, conn.Host, conn.Port)
	}
	if conn.Username != "sea" || conn.Password != "sea" || conn.DBName != "query" {
		t.Errorf("credentials = %s/%s/%s", conn.Username, conn.Password, conn.DBName)
	}
	if cfg.Walkthrough.Character != "A" || cfg.Walkthrough.FontSize != 12 || cfg.Walkthrough.UpdatedFontSize != 24 {
		t.Errorf("walkthrough = %+v", cfg.Walkthrough)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "glyph.yaml", `
database:
  connection:
    type: mysql
    host: db.internal
    port: 3307
    dbname: fonts
    max_open_conns: 4
    conn_max_lifetime: 15m
  migrate:
    enable_migrate_on_startup: true
log:
  level: debug
  format: json
walkthrough:
  character: Q
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	conn := cfg.Database.ConnectionConfig
	if conn.Type != "mysql" || conn.Host != "db.internal" || conn.Port != 3307 || conn.DBName != "fonts" {
		t.Errorf("connection = %+v", conn)
	}
	if conn.MaxOpenConns != 4 || conn.ConnMaxLifetime != 15*time.Minute {
		t.Errorf("pool = %d/%s", conn.MaxOpenConns, conn.ConnMaxLifetime)
	}
	if conn.MaxIdleConns != database.DefaultConnectionConfig().MaxIdleConns {
		t.Errorf("unset keys should keep defaults: max idle = %d", conn.MaxIdleConns)
	}
	if !cfg.Database.DataMigrateConfig.EnableMigrateOnStartup {
		t.Error("migrate flag not read")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Walkthrough.Character != "Q" || cfg.Walkthrough.FontSize != 12 {
		t.Errorf("walkthrough = %+v", cfg.Walkthrough)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "10.0.0.5")
	t.Setenv("DB_NAME", "glyphs")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.ConnectionConfig.Host != "10.0.0.5" || cfg.Database.ConnectionConfig.DBName != "glyphs" {
		t.Errorf("connection = %+v", cfg.Database.ConnectionConfig)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"type":   "database:\n  connection:\n    type: oracle\n",
		"port":   "database:\n  connection:\n    port: 70000\n",
		"dbname": "database:\n  connection:\n    dbname: \"\"\n",
		"format": "log:\n  format: xml\n",
		"char":   "walkthrough:\n  character: \"\"\n",
	}
	for name, content := range cases {
		if _, err := Load(writeFile(t, name+".yaml", content)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}

	_, err := Load(writeFile(t, "broken.yaml", "database: [\n"))
	if err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("broken yaml: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.ConnectionConfig.MaxOpenConns = 3
	if err := cfg.ApplyDSN("pgx://app:pw@pg.local:6543/fonts?sslmode=require"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	conn := cfg.Database.ConnectionConfig
	if conn.Driver != database.DriverPgx || conn.Host != "pg.local" || conn.Port != 6543 || conn.SSLMode != "require" {
		t.Errorf("connection = %+v", conn)
	}
	if conn.MaxOpenConns != 3 {
		t.Errorf("pool settings were replaced: %d", conn.MaxOpenConns)
	}
	if err := cfg.ApplyDSN("ftp://nowhere"); err == nil {
		t.Error("expected error for unsupported scheme")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := writeFile(t, "test.env", "GLYPH_CONFIG_TEST_VALUE=from-file\n")
	t.Cleanup(func() { _ = os.Unsetenv("GLYPH_CONFIG_TEST_VALUE") })
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv("GLYPH_CONFIG_TEST_VALUE"); got != "from-file" {
		t.Errorf("value = %q", got)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("missing default .env should be ignored: %v", err)
	}
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("expected error for explicit missing file")
	}
}
