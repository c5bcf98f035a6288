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
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsSqlError_Drivers(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want SQLError
	}{
		{"no rows", fmt.Errorf("select: %w", sql.ErrNoRows), NoRowsErr},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, DuplicateKeyErr},
		{"mysql no table", &mysql.MySQLError{Number: 1146}, NoTableErr},
		{"mysql foreign key", &mysql.MySQLError{Number: 1452}, ForeignKeyViolationErr},
		{"mysql other", &mysql.MySQLError{Number: 9999}, UnknownErr},
		{"pq duplicate", &pq.Error{Code: "23505"}, DuplicateKeyErr},
		{"pq not null", fmt.Errorf("insert: %w", &pq.Error{Code: "23502"}), NotNullViolationErr},
		{"pgx no table", &pgconn.PgError{Code: "42P01"}, NoTableErr},
		{"pgx exist table", &pgconn.PgError{Code: "42P07"}, ExistTableErr},
		{"pgx other", &pgconn.PgError{Code: "08006"}, UnknownErr},
		{"sqlite no table", errors.New("SQL logic error: no such table: character (1)"), NoTableErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: character.id (1555)"), DuplicateKeyErr},
		{"sqlite exists", errors.New("table character already exists"), ExistTableErr},
	}
	for _, c := range cases {
		is, kind := IsSqlError(c.err)
		if !is {
			t.Errorf("%s: not recognised as sql error", c.name)
		}
		if kind != c.want {
			t.Errorf("%s: kind = %s, want %s", c.name, kind, c.want)
		}
	}
}

func TestIsSqlError_NotDatabase(t *testing.T) {
	if is, _ := IsSqlError(nil); is {
		t.Error("nil reported as sql error")
	}
	if is, kind := IsSqlError(errors.New("connection refused")); is || kind != UnknownErr {
		t.Errorf("plain error = %v/%s", is, kind)
	}
	if got := ClassifySQLError(nil); got != UnknownErr {
		t.Errorf("ClassifySQLError(nil) = %s", got)
	}
}

func TestSQLError_String(t *testing.T) {
	if DuplicateKeyErr.String() != "duplicate_key" {
		t.Errorf("DuplicateKeyErr = %q", DuplicateKeyErr.String())
	}
	if SQLError(100).String() != "unknown" {
		t.Errorf("out of range = %q", SQLError(100).String())
	}
}

func TestClassifySQLError_SQLite(t *testing.T) {
	db := newMemoryDB(t)
	var n int
	err := db.NewSelect().Table("missing_table").ColumnExpr("count(*)").Scan(context.Background(), &n)
	if err == nil {
		t.Fatal("expected error selecting from a missing table")
	}
	if kind := ClassifySQLError(err); kind != NoTableErr {
		t.Errorf("kind = %s, want %s (%v)", kind, NoTableErr, err)
	}
}
