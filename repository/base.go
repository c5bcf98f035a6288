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
	"fmt"
	"sort"

	"github.com/tomoncle/glyph/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db *bun.DB
}

// NewRepository returns a generic repository backed by the provided Bun DB.
func NewRepository[T any](db *bun.DB) Repository[T] {
	return &baseRepositoryImpl[T]{db: db}
}

func (r *baseRepositoryImpl[T]) DB() *bun.DB { return r.db }

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

// Render returns the SQL a query produces for the bound dialect, with its
// arguments inlined.
func (r *baseRepositoryImpl[T]) Render(query schema.QueryAppender) (string, error) {
	b, err := query.AppendQuery(r.db.Formatter(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to render query: %w", err)
	}
	return string(b), nil
}

func (r *baseRepositoryImpl[T]) ValsToSlice(entity ...*T) []*T {
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return entities
}

func (r *baseRepositoryImpl[T]) CreateTableQuery() *bun.CreateTableQuery {
	return r.db.NewCreateTable().Model((*T)(nil)).IfNotExists()
}

func (r *baseRepositoryImpl[T]) DropTableQuery() *bun.DropTableQuery {
	return r.db.NewDropTable().Model((*T)(nil)).IfExists()
}

func (r *baseRepositoryImpl[T]) InsertQuery(columns []string, entity ...*T) *bun.InsertQuery {
	entities := r.ValsToSlice(entity...)
	q := r.db.NewInsert().Model(&entities)
	if len(columns) > 0 {
		q = q.Column(columns...)
	}
	return q
}

func (r *baseRepositoryImpl[T]) LatestQuery(dest *T, column string) *bun.SelectQuery {
	return r.db.NewSelect().
		Model(dest).
		OrderExpr("? DESC", bun.Ident(column)).
		Limit(1)
}

func (r *baseRepositoryImpl[T]) CountQuery(column string) *bun.SelectQuery {
	return r.db.NewSelect().
		Model((*T)(nil)).
		ColumnExpr("count(?)", bun.Ident(column))
}

func (r *baseRepositoryImpl[T]) UpdateColumnsQuery(id any, values map[string]any) *bun.UpdateQuery {
	q := r.db.NewUpdate().Model((*T)(nil))
	// map order is random; keep the SET list stable
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		q = q.Set("? = ?", bun.Ident(name), values[name])
	}
	return q.Where("? = ?", bun.Ident(PrimaryKey), id)
}

func (r *baseRepositoryImpl[T]) DeleteQuery(id any) *bun.DeleteQuery {
	return r.db.NewDelete().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(PrimaryKey), id)
}

func (r *baseRepositoryImpl[T]) CreateTable(ctx context.Context) (sql.Result, error) {
	return r.CreateTableQuery().Exec(ctx)
}

func (r *baseRepositoryImpl[T]) DropTable(ctx context.Context) (sql.Result, error) {
	return r.DropTableQuery().Exec(ctx)
}

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	var entity T
	err := r.db.NewSelect().Model(&entity).Where("? = ?", bun.Ident(PrimaryKey), id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	var entities []*T
	query := r.db.NewSelect().Model(&entities)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Where(query, args...).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Latest(ctx context.Context, column string) (*T, error) {
	var entity T
	if err := r.LatestQuery(&entity, column).Scan(ctx); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, column string) (int64, error) {
	var n int64
	if err := r.CountQuery(column).Scan(ctx, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	var entities []*T
	query := r.db.NewSelect().Model(&entities)
	if pageRequest.GetFilter() != nil {
		query = query.Where(pageRequest.GetFilter().Schema, pageRequest.GetFilter().Args...)
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Order(pageRequest.GetOrders()...).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	_, err := r.InsertQuery(nil, entity...).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Insert(ctx context.Context, columns []string, entity ...*T) (sql.Result, error) {
	if len(entity) == 0 {
		return nil, fmt.Errorf("nothing to insert")
	}
	return r.InsertQuery(columns, entity...).Exec(ctx)
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	_, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) UpdateColumns(ctx context.Context, id any, values map[string]any) (sql.Result, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("values cannot be empty")
	}
	return r.UpdateColumnsQuery(id, values).Exec(ctx)
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) (sql.Result, error) {
	return r.DeleteQuery(id).Exec(ctx)
}

func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error {
	entities := r.ValsToSlice(entity...)
	_, err := tx.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error {
	_, err := tx.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error {
	_, err := tx.NewDelete().Model((*T)(nil)).Where("? = ?", bun.Ident(PrimaryKey), id).Exec(ctx)
	return err
}
