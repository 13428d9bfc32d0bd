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

package persistent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomoncle/atelier/database"
	"github.com/tomoncle/atelier/softdelete"
	"github.com/tomoncle/atelier/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Orderings shared by the repositories.
var (
	newestFirst = []string{"created_at DESC", "id DESC"}
	oldestFirst = []string{"created_at ASC", "id ASC"}
)

// executor translates intercepted operations on one model into Bun queries.
type executor[T any] struct {
	kind        string
	interceptor *softdelete.Interceptor
}

func newExecutor[T any](kind string, interceptor *softdelete.Interceptor) *executor[T] {
	return &executor[T]{kind: kind, interceptor: interceptor}
}

func (e *executor[T]) op(action softdelete.Action) *softdelete.Operation {
	return softdelete.NewOperation(action, e.kind)
}

// find runs a findUnique, findFirst or findMany operation.
func (e *executor[T]) find(ctx context.Context, db bun.IDB, op *softdelete.Operation) ([]*T, error) {
	op = e.interceptor.Apply(op)
	switch op.Action {
	case softdelete.ActionFindUnique, softdelete.ActionFindFirst, softdelete.ActionFindMany:
	default:
		return nil, e.unsupported(op)
	}
	rows := make([]*T, 0)
	q := applyWhere(db.NewSelect().Model(&rows), db.Dialect().Name(), op.Args.Where)
	if len(op.Args.OrderBy) > 0 {
		q = q.Order(op.Args.OrderBy...)
	}
	if op.Args.Skip > 0 {
		q = q.Offset(op.Args.Skip)
	}
	switch {
	case op.Action != softdelete.ActionFindMany:
		q = q.Limit(1)
	case op.Args.Take > 0:
		q = q.Limit(op.Args.Take)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("find %s: %w", e.kind, err)
	}
	return rows, nil
}

// first runs op and returns its first row, or nil.
func (e *executor[T]) first(ctx context.Context, db bun.IDB, op *softdelete.Operation) (*T, error) {
	rows, err := e.find(ctx, db, op)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (e *executor[T]) count(ctx context.Context, db bun.IDB, op *softdelete.Operation) (int, error) {
	op = e.interceptor.Apply(op)
	if op.Action != softdelete.ActionCount {
		return 0, e.unsupported(op)
	}
	n, err := applyWhere(db.NewSelect().Model((*T)(nil)), db.Dialect().Name(), op.Args.Where).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", e.kind, err)
	}
	return n, nil
}

func (e *executor[T]) insert(ctx context.Context, db bun.IDB, rows ...*T) error {
	if len(rows) == 0 {
		return nil
	}
	op := e.interceptor.Apply(e.op(softdelete.ActionCreate))
	if op.Action != softdelete.ActionCreate {
		return e.unsupported(op)
	}
	entities := make([]*T, len(rows))
	copy(entities, rows)
	if _, err := db.NewInsert().Model(&entities).Exec(ctx); err != nil {
		return e.storageError("insert", err)
	}
	return nil
}

// write runs an update or delete operation. The returned operation is the
// rewritten one, so callers see what actually executed.
func (e *executor[T]) write(ctx context.Context, db bun.IDB, op *softdelete.Operation) (*softdelete.Operation, int64, error) {
	op = e.interceptor.Apply(op)
	var (
		affected int64
		err      error
	)
	switch op.Action {
	case softdelete.ActionUpdate, softdelete.ActionUpdateMany:
		affected, err = e.update(ctx, db, op)
	case softdelete.ActionDelete, softdelete.ActionDeleteMany:
		affected, err = e.delete(ctx, db, op)
	default:
		return op, 0, e.unsupported(op)
	}
	return op, affected, err
}

func (e *executor[T]) update(ctx context.Context, db bun.IDB, op *softdelete.Operation) (int64, error) {
	if len(op.Args.Data) == 0 {
		return 0, nil
	}
	q := db.NewUpdate().Model((*T)(nil))
	for _, col := range sortedKeys(op.Args.Data) {
		q = q.Set("? = ?", bun.Ident(col), op.Args.Data[col])
	}
	res, err := applyWhere(q, db.Dialect().Name(), op.Args.Where).Exec(ctx)
	if err != nil {
		return 0, e.storageError(string(op.Action), err)
	}
	return res.RowsAffected()
}

func (e *executor[T]) delete(ctx context.Context, db bun.IDB, op *softdelete.Operation) (int64, error) {
	res, err := applyWhere(db.NewDelete().Model((*T)(nil)), db.Dialect().Name(), op.Args.Where).Exec(ctx)
	if err != nil {
		return 0, e.storageError(string(op.Action), err)
	}
	return res.RowsAffected()
}

func (e *executor[T]) unsupported(op *softdelete.Operation) error {
	return fmt.Errorf("%s: unsupported action %q", e.kind, op.Action)
}

// storageError tags unique violations as duplicates and leaves everything
// else as the driver reported it.
func (e *executor[T]) storageError(verb string, err error) error {
	if ok, kind := database.IsSqlError(err); ok && kind == database.DuplicateKeyErr {
		return types.DuplicateError(err, "%s %s: duplicate key", verb, e.kind)
	}
	return fmt.Errorf("%s %s: %w", verb, e.kind, err)
}

// applyWhere renders predicates in column order so statements are stable.
func applyWhere[Q interface {
	Where(query string, args ...interface{}) Q
}](q Q, name dialect.Name, where softdelete.Where) Q {
	for _, col := range sortedKeys(where) {
		switch v := where[col].(type) {
		case nil:
			q = q.Where("? IS NULL", bun.Ident(col))
		case softdelete.Contains:
			query, arg := containsClause(name, v.Value)
			q = q.Where(query, bun.Ident(col), arg)
		case []string:
			if len(v) == 0 {
				q = q.Where("1 = 0")
				continue
			}
			q = q.Where("? IN (?)", bun.Ident(col), bun.In(v))
		default:
			q = q.Where("? = ?", bun.Ident(col), v)
		}
	}
	return q
}

// containsClause renders a case-sensitive substring match. LIKE folds ASCII
// case on sqlite and on the default mysql collations.
func containsClause(name dialect.Name, value string) (string, string) {
	switch name {
	case dialect.SQLite:
		return "instr(?, ?) > 0", value
	case dialect.MySQL:
		return "? LIKE BINARY ? ESCAPE '!'", "%" + escapeLike(value) + "%"
	default:
		return "? LIKE ? ESCAPE '!'", "%" + escapeLike(value) + "%"
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
