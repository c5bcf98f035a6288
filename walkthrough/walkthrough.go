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

// Package walkthrough runs the character CRUD sequence: create the table,
// insert one row, read back the newest row, change its font size, read it
// again, count the rows and delete the row.
package walkthrough

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	glyph "github.com/tomoncle/glyph"
	"github.com/tomoncle/glyph/character"
	"github.com/tomoncle/glyph/database"
	"github.com/tomoncle/glyph/repository"
	"github.com/tomoncle/glyph/utils"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

const (
	DefaultCharacter       = "A"
	DefaultFontSize        = int32(12)
	DefaultUpdatedFontSize = int32(24)

	// planID stands in for the server assigned id when rendering a plan.
	planID = int32(1)
)

// ErrNoCharacter is returned when the newest-row select finds nothing.
var ErrNoCharacter = errors.New("no character found")

var log = utils.GetLogger("WALKTHROUGH")

// Statement is the SQL one step renders to.
type Statement struct {
	Step Step
	SQL  string
}

// StepResult records what a step executed and what came back.
type StepResult struct {
	Step         Step
	SQL          string
	RowsAffected int64
	Row          *character.Character
	Count        int64
	Err          error
}

// Report collects the results of a run in execution order.
type Report struct {
	Dialect string
	ID      int32
	Steps   []StepResult
}

// Result returns the recorded result of step.
func (r *Report) Result(step Step) (StepResult, bool) {
	for _, res := range r.Steps {
		if res.Step == step {
			return res, true
		}
	}
	return StepResult{}, false
}

// Failed returns the steps that recorded an error.
func (r *Report) Failed() []StepResult {
	var failed []StepResult
	for _, res := range r.Steps {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Option configures a Walkthrough.
type Option func(*Walkthrough)

// WithOutput sets where step results are printed. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(wt *Walkthrough) {
		if w != nil {
			wt.out = w
		}
	}
}

// WithCharacter sets the inserted row.
func WithCharacter(char string, fontSize int32) Option {
	return func(wt *Walkthrough) {
		wt.char = char
		wt.fontSize = fontSize
	}
}

// WithUpdatedFontSize sets the font size written by the update step.
func WithUpdatedFontSize(fontSize int32) Option {
	return func(wt *Walkthrough) { wt.updatedFontSize = fontSize }
}

// Walkthrough runs the sequence against one database handle.
type Walkthrough struct {
	svc             glyph.Service[character.Character]
	out             io.Writer
	char            string
	fontSize        int32
	updatedFontSize int32
}

// New binds a Walkthrough to db with the default row "A" at 12, updated to 24.
func New(db *bun.DB, opts ...Option) *Walkthrough {
	wt := &Walkthrough{
		svc:             glyph.NewServiceWithDB[character.Character](db),
		out:             io.Discard,
		char:            DefaultCharacter,
		fontSize:        DefaultFontSize,
		updatedFontSize: DefaultUpdatedFontSize,
	}
	for _, opt := range opts {
		opt(wt)
	}
	return wt
}

// Plan renders every statement of the sequence for the dialect of db without
// executing anything.
func Plan(db *bun.DB, opts ...Option) ([]Statement, error) {
	return New(db, opts...).Plan()
}

// Run executes the sequence on db and prints one block per step to out.
func Run(ctx context.Context, db *bun.DB, out io.Writer, opts ...Option) (*Report, error) {
	return New(db, append(opts, WithOutput(out))...).Run(ctx)
}

func (wt *Walkthrough) repo() repository.Repository[character.Character] {
	return wt.svc.Repository()
}

func (wt *Walkthrough) queries(id int32, dest *character.Character) map[Step]schema.QueryAppender {
	repo := wt.repo()
	return map[Step]schema.QueryAppender{
		StepSchema:   repo.CreateTableQuery(),
		StepInsert:   repo.InsertQuery(character.InsertColumns(), character.New(wt.char, wt.fontSize)),
		StepSelect:   repo.LatestQuery(dest, character.ColumnID),
		StepUpdate:   repo.UpdateColumnsQuery(id, wt.updateValues()),
		StepReselect: repo.LatestQuery(dest, character.ColumnID),
		StepCount:    repo.CountQuery(character.ColumnID),
		StepDelete:   repo.DeleteQuery(id),
	}
}

func (wt *Walkthrough) updateValues() map[string]any {
	return map[string]any{character.ColumnFontSize: wt.updatedFontSize}
}

// Plan renders the statements of every step in execution order.
func (wt *Walkthrough) Plan() ([]Statement, error) {
	queries := wt.queries(planID, new(character.Character))
	plan := make([]Statement, 0, len(queries))
	for _, step := range Steps() {
		query, err := wt.repo().Render(queries[step])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step, err)
		}
		plan = append(plan, Statement{Step: step, SQL: query})
	}
	return plan, nil
}

// Run executes the sequence. Exec steps that fail are recorded in the report
// and printed; a failing select or count stops the run.
func (wt *Walkthrough) Run(ctx context.Context) (*Report, error) {
	report := &Report{Dialect: wt.repo().Dialect().Name().String()}

	wt.exec(report, StepSchema, wt.repo().CreateTableQuery(), func() (sql.Result, error) {
		return wt.svc.Setup(ctx)
	})

	entity := character.New(wt.char, wt.fontSize)
	wt.exec(report, StepInsert, wt.repo().InsertQuery(character.InsertColumns(), entity), func() (sql.Result, error) {
		return wt.svc.Save(ctx, character.InsertColumns(), entity)
	})

	row, err := wt.latest(ctx, report, StepSelect)
	if err != nil {
		return report, err
	}
	report.ID = row.ID

	wt.exec(report, StepUpdate, wt.repo().UpdateColumnsQuery(report.ID, wt.updateValues()), func() (sql.Result, error) {
		return wt.svc.UpdateFields(ctx, report.ID, wt.updateValues())
	})

	if _, err := wt.latest(ctx, report, StepReselect); err != nil {
		return report, err
	}

	if err := wt.count(ctx, report); err != nil {
		return report, err
	}

	wt.exec(report, StepDelete, wt.repo().DeleteQuery(report.ID), func() (sql.Result, error) {
		return wt.svc.Delete(ctx, report.ID)
	})
	return report, nil
}

func (wt *Walkthrough) render(step Step, query schema.QueryAppender) string {
	s, err := wt.repo().Render(query)
	if err != nil {
		log.WithError(err).Warnf("render %s", step)
		return ""
	}
	log.Debugf("%s: %s", step, s)
	return s
}

func (wt *Walkthrough) exec(report *Report, step Step, query schema.QueryAppender, run func() (sql.Result, error)) {
	res := StepResult{Step: step, SQL: wt.render(step, query)}
	result, err := run()
	if err != nil {
		_ = wt.fail(report, &res, err)
	} else {
		if n, err := result.RowsAffected(); err == nil {
			res.RowsAffected = n
		}
		report.Steps = append(report.Steps, res)
	}
	_, _ = fmt.Fprintf(wt.out, "%s: %s\n\n", step.Desc(), formatExec(res))
}

func (wt *Walkthrough) latest(ctx context.Context, report *Report, step Step) (*character.Character, error) {
	res := StepResult{Step: step, SQL: wt.render(step, wt.repo().LatestQuery(new(character.Character), character.ColumnID))}
	row, err := wt.svc.Latest(ctx, character.ColumnID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNoCharacter
	}
	if err != nil {
		return nil, wt.fail(report, &res, err)
	}
	res.Row = row
	report.Steps = append(report.Steps, res)
	_, _ = fmt.Fprintf(wt.out, "%s:\n%s\n\n", step.Desc(), row)
	return row, nil
}

func (wt *Walkthrough) count(ctx context.Context, report *Report) error {
	res := StepResult{Step: StepCount, SQL: wt.render(StepCount, wt.repo().CountQuery(character.ColumnID))}
	n, err := wt.svc.Count(ctx, character.ColumnID)
	if err != nil {
		return wt.fail(report, &res, err)
	}
	res.Count = n
	report.Steps = append(report.Steps, res)
	_, _ = fmt.Fprintf(wt.out, "%s: %d\n\n", StepCount.Desc(), n)
	return nil
}

// fail records err on res. Exec steps are logged as warnings since the run
// goes on after them.
func (wt *Walkthrough) fail(report *Report, res *StepResult, err error) error {
	res.Err = fmt.Errorf("%s: %w", res.Step.Desc(), err)
	report.Steps = append(report.Steps, *res)

	entry := log.WithError(err).WithField("kind", database.ClassifySQLError(err).String())
	if res.Step.executes() {
		entry.Warnf("%s failed", res.Step)
	} else {
		entry.Errorf("%s failed", res.Step)
	}
	return res.Err
}

func formatExec(res StepResult) string {
	if res.Err != nil {
		return fmt.Sprintf("Err(%v)", errors.Unwrap(res.Err))
	}
	return fmt.Sprintf("Ok(rows_affected: %d)", res.RowsAffected)
}
