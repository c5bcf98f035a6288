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

package glyph

import (
	"context"
	"database/sql"
	"sync"

	"github.com/tomoncle/glyph/database"
	"github.com/tomoncle/glyph/repository"
	"github.com/tomoncle/glyph/types"
	"github.com/uptrace/bun"
)

type Service[T any] interface {
	// Setup creates the entity table if it does not exist yet.
	Setup(ctx context.Context) (sql.Result, error)

	// Teardown drops the entity table if it exists.
	Teardown(ctx context.Context) (sql.Result, error)

	// Get returns a single entity by its identifier.
	Get(ctx context.Context, id any) (*T, error)

	// All returns all entities.
	All(ctx context.Context) ([]*T, error)

	// List returns entities that match the provided filter.
	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	// Page returns a paginated list of entities.
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	// Latest returns the entity with the greatest value in column.
	Latest(ctx context.Context, column string) (*T, error)

	// Count returns count(column) over the entity table.
	Count(ctx context.Context, column string) (int64, error)

	// Save inserts the given columns of one or more new entities.
	Save(ctx context.Context, columns []string, model ...*T) (sql.Result, error)

	// Update writes every column of an existing entity.
	Update(ctx context.Context, model *T) error

	// UpdateFields sets the given columns on the entity with identifier id.
	UpdateFields(ctx context.Context, id any, values map[string]any) (sql.Result, error)

	// Delete removes an entity by its identifier.
	Delete(ctx context.Context, id any) (sql.Result, error)

	// SaveWithTx inserts entities within an existing transaction.
	SaveWithTx(ctx context.Context, tx *bun.Tx, model ...*T) error

	// DeleteWithTx removes an entity within a transaction.
	DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error

	// Repository exposes the statement builders behind the service.
	Repository() repository.Repository[T]
}

type baseServiceImpl[T any] struct {
	db   *bun.DB
	repo repository.Repository[T]
	once sync.Once
}

// NewService returns a Service backed by the global database connection,
// resolved on first use.
func NewService[T any]() Service[T] {
	return &baseServiceImpl[T]{}
}

// NewServiceWithDB returns a Service bound to db.
func NewServiceWithDB[T any](db *bun.DB) Service[T] {
	return &baseServiceImpl[T]{db: db}
}

func (s *baseServiceImpl[T]) baseRepo() repository.Repository[T] {
	s.once.Do(func() {
		db := s.db
		if db == nil {
			db = database.GetDB()
		}
		s.repo = repository.NewRepository[T](db)
	})
	return s.repo
}

func (s *baseServiceImpl[T]) Repository() repository.Repository[T] {
	return s.baseRepo()
}

func (s *baseServiceImpl[T]) Setup(ctx context.Context) (sql.Result, error) {
	return s.baseRepo().CreateTable(ctx)
}

func (s *baseServiceImpl[T]) Teardown(ctx context.Context) (sql.Result, error) {
	return s.baseRepo().DropTable(ctx)
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	return s.baseRepo().GetOne(ctx, id)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	return s.baseRepo().GetAll(ctx)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	return s.baseRepo().List(ctx, filter)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	return s.baseRepo().Page(ctx, page)
}

func (s *baseServiceImpl[T]) Latest(ctx context.Context, column string) (*T, error) {
	return s.baseRepo().Latest(ctx, column)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, column string) (int64, error) {
	return s.baseRepo().Count(ctx, column)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, columns []string, model ...*T) (sql.Result, error) {
	return s.baseRepo().Insert(ctx, columns, model...)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, model *T) error {
	return s.baseRepo().Update(ctx, model)
}

func (s *baseServiceImpl[T]) UpdateFields(ctx context.Context, id any, values map[string]any) (sql.Result, error) {
	return s.baseRepo().UpdateColumns(ctx, id, values)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id any) (sql.Result, error) {
	return s.baseRepo().Delete(ctx, id)
}

func (s *baseServiceImpl[T]) SaveWithTx(ctx context.Context, tx *bun.Tx, model ...*T) error {
	return s.baseRepo().CreateWithTx(ctx, tx, model...)
}

func (s *baseServiceImpl[T]) DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error {
	return s.baseRepo().DeleteWithTx(ctx, tx, id)
}
