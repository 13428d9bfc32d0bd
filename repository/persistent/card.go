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

	"github.com/tomoncle/atelier/model"
	"github.com/tomoncle/atelier/repository"
	"github.com/tomoncle/atelier/softdelete"
	"github.com/tomoncle/atelier/types"
	"github.com/uptrace/bun"
)

// CardRepository stores cards in the cards table.
type CardRepository struct {
	db    *bun.DB
	clock *repository.Clock
	cards *executor[model.Card]
}

var _ repository.CardRepository = (*CardRepository)(nil)

// NewCardRepository returns a card repository on db.
func NewCardRepository(db *bun.DB, opts ...Option) *CardRepository {
	o := buildOptions(opts)
	return &CardRepository{
		db:    db,
		clock: o.clock,
		cards: newExecutor[model.Card](model.KindCard, o.interceptor),
	}
}

func (r *CardRepository) Create(ctx context.Context, in *model.CardInput) (*model.Card, error) {
	card := in.NewCard()
	now := r.clock.Now()
	card.ID = repository.NewID()
	card.CreatedAt = now
	card.UpdatedAt = now
	if err := r.cards.insert(ctx, r.db, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (r *CardRepository) FindByID(ctx context.Context, id string) (*model.Card, error) {
	return r.findByID(ctx, r.db, id)
}

func (r *CardRepository) findByID(ctx context.Context, db bun.IDB, id string) (*model.Card, error) {
	op := r.cards.op(softdelete.ActionFindUnique).WithWhere(softdelete.Where{model.ColumnID: id})
	return r.cards.first(ctx, db, op)
}

func (r *CardRepository) FindByName(ctx context.Context, name string) (*model.Card, error) {
	op := r.cards.op(softdelete.ActionFindFirst).WithWhere(softdelete.Where{model.ColumnName: name})
	op.Args.OrderBy = oldestFirst
	return r.cards.first(ctx, r.db, op)
}

func (r *CardRepository) FindMany(ctx context.Context, page types.PageRequest, filter model.CardFilter) (*types.Pagination[model.Card], error) {
	total, err := r.cards.count(ctx, r.db, r.cards.op(softdelete.ActionCount).WithWhere(filter.Where()))
	if err != nil || total == 0 {
		return types.NewPagination[model.Card](page, total, nil), err
	}
	op := r.cards.op(softdelete.ActionFindMany).WithWhere(filter.Where())
	op.Args.Skip = page.GetOffset()
	op.Args.Take = page.GetLimit()
	op.Args.OrderBy = newestFirst
	items, err := r.cards.find(ctx, r.db, op)
	if err != nil {
		return nil, err
	}
	return types.NewPagination(page, total, items), nil
}

func (r *CardRepository) FindEvolutions(ctx context.Context, id string) ([]*model.Card, error) {
	op := r.cards.op(softdelete.ActionFindMany).WithWhere(softdelete.Where{model.ColumnEvolutionFromID: id})
	op.Args.OrderBy = newestFirst
	return r.cards.find(ctx, r.db, op)
}

func (r *CardRepository) Update(ctx context.Context, id string, patch *model.CardPatch) (*model.Card, error) {
	var updated *model.Card
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := r.findByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return types.NotFoundError(model.KindCard, id)
		}
		data := softdelete.Data{}
		if patch != nil {
			data = patch.Columns()
		}
		data[model.ColumnUpdatedAt] = r.clock.Now()
		op := r.cards.op(softdelete.ActionUpdate).
			WithWhere(softdelete.Where{model.ColumnID: id}).
			WithData(data)
		if _, _, err := r.cards.write(ctx, tx, op); err != nil {
			return err
		}
		updated, err = r.findByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}
	return updated, nil
}

func (r *CardRepository) Delete(ctx context.Context, id string) error {
	return deleteLive(ctx, r.db, r.cards, model.KindCard, id)
}

func (r *CardRepository) Count(ctx context.Context, filter model.CardFilter) (int, error) {
	return r.cards.count(ctx, r.db, r.cards.op(softdelete.ActionCount).WithWhere(filter.Where()))
}

// deleteLive confirms id is live and then issues a delete, which the
// interceptor turns into a deletion mark for soft-delete kinds.
func deleteLive[T any](ctx context.Context, db *bun.DB, e *executor[T], kind, id string) error {
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		where := softdelete.Where{model.ColumnID: id}
		current, err := e.first(ctx, tx, e.op(softdelete.ActionFindUnique).WithWhere(where))
		if err != nil {
			return err
		}
		if current == nil {
			return types.NotFoundError(kind, id)
		}
		_, affected, err := e.write(ctx, tx, e.op(softdelete.ActionDelete).WithWhere(where))
		if err != nil {
			return err
		}
		if affected == 0 {
			return types.NotFoundError(kind, id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return nil
}
