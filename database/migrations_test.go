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

	"github.com/uptrace/bun"
)

func tableExists(t *testing.T, db *bun.DB, table string) bool {
	t.Helper()
	n, err := db.NewSelect().
		Table("sqlite_master").
		Where("type = 'table' AND name = ?", table).
		Count(context.Background())
	if err != nil {
		t.Fatalf("inspect sqlite_master: %v", err)
	}
	return n > 0
}

func newTestMigrationManager(db *bun.DB) (*MigrationManager, *recordingLogger) {
	logger := &recordingLogger{}
	mm := NewMigrationManager(db, logger)
	r := NewModelRegistry()
	r.Register(NewModelAdapter((*registryAlpha)(nil), 1))
	r.Register(NewModelAdapter((*registryBeta)(nil), 2))
	mm.SetRegistry(r)
	return mm, logger
}

func TestMigrationManager_RunMigrations(t *testing.T) {
	ctx := context.Background()
	db := newMemoryDB(t)
	mm, logger := newTestMigrationManager(db)

	extraRan := 0
	mm.AddMigration(MigrationItem{
		Version: "002",
		Name:    "count_runs",
		Up: func(ctx context.Context, db bun.IDB) error {
			extraRan++
			return nil
		},
	})

	if err := mm.RunMigrations(ctx); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if err := mm.RunMigrations(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if extraRan != 1 {
		t.Errorf("migration 002 ran %d times, want 1", extraRan)
	}
	for _, table := range []string{"glyph_migrations", "registry_alpha", "registry_beta"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s was not created", table)
		}
	}

	applied, err := mm.GetAppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("applied migrations: %v", err)
	}
	if len(applied) != 2 || applied[0].Version != "001" || applied[1].Version != "002" {
		t.Errorf("applied = %+v", applied)
	}
	if len(logger.infos) == 0 {
		t.Error("expected migration progress to be logged")
	}
}

func TestMigrationManager_Rollback(t *testing.T) {
	ctx := context.Background()
	db := newMemoryDB(t)
	mm, _ := newTestMigrationManager(db)

	if err := mm.RunMigrations(ctx); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if err := mm.RollbackMigration(ctx, "001"); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if tableExists(t, db, "registry_alpha") {
		t.Error("registry_alpha should be dropped by the rollback")
	}
	if err := mm.RollbackMigration(ctx, "001"); err == nil {
		t.Error("expected error rolling back a migration that is not applied")
	}
	if err := mm.RollbackMigration(ctx, "999"); err == nil {
		t.Error("expected error for unknown version")
	}
}

func TestMigrationManager_NoDB(t *testing.T) {
	mm := NewMigrationManager(nil, nil)
	if err := mm.RunMigrations(context.Background()); err == nil {
		t.Fatal("expected error without database")
	}
}
