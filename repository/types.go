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

package repository

import (
	"context"
	"database/sql"

	"github.com/tomoncle/glyph/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// PrimaryKey is the identifier column the id based operations filter on.
const PrimaryKey = "id"

// SchemaRepository manages the table backing an entity type.
type SchemaRepository interface {
	CreateTable(ctx context.Context) (sql.Result, error)
	DropTable(ctx context.Context) (sql.Result, error)
}

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	// Latest returns the row with the greatest value in column.
	Latest(ctx context.Context, column string) (*T, error)

	// Count returns count(column) over the table.
	Count(ctx context.Context, column string) (int64, error)

	Create(ctx context.Context, entity ...*T) error

	// Insert writes only the listed columns; an empty list writes every column.
	Insert(ctx context.Context, columns []string, entity ...*T) (sql.Result, error)

	Update(ctx context.Context, entity *T) error

	UpdateColumns(ctx context.Context, id any, values map[string]any) (sql.Result, error)

	Delete(ctx context.Context, id any) (sql.Result, error)
}

// TransactionRepository defines CRUD operations executed within a transaction.
type TransactionRepository[T any] interface {
	CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error
	UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error
	DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// StatementBuilder exposes the unexecuted query behind each operation so
// callers can render or extend it.
type StatementBuilder[T any] interface {
	CreateTableQuery() *bun.CreateTableQuery
	DropTableQuery() *bun.DropTableQuery
	InsertQuery(columns []string, entity ...*T) *bun.InsertQuery
	LatestQuery(dest *T, column string) *bun.SelectQuery
	CountQuery(column string) *bun.SelectQuery
	UpdateColumnsQuery(id any, values map[string]any) *bun.UpdateQuery
	DeleteQuery(id any) *bun.DeleteQuery
}

// Repository combines schema, CRUD, pagination, and transactional operations
// and exposes Bun query builders for advanced use cases.
type Repository[T any] interface {
	SchemaRepository
	CrudRepository[T]
	PageQueryRepository[T]
	TransactionRepository[T]
	StatementBuilder[T]
	DB() *bun.DB
	Dialect() schema.Dialect
	Render(query schema.QueryAppender) (string, error)
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
