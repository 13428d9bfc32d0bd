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

// kindRewardLink names the join table model. It is not a soft-delete kind,
// so link removal is a hard delete.
const kindRewardLink = "customerrewardcard"

// CustomerRepository stores customers and their reward card links.
type CustomerRepository struct {
	db        *bun.DB
	clock     *repository.Clock
	customers *executor[model.Customer]
	links     *executor[model.CustomerRewardCard]
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

// NewCustomerRepository returns a customer repository on db.
func NewCustomerRepository(db *bun.DB, opts ...Option) *CustomerRepository {
	o := buildOptions(opts)
	return &CustomerRepository{
		db:        db,
		clock:     o.clock,
		customers: newExecutor[model.Customer](model.KindCustomer, o.interceptor),
		links:     newExecutor[model.CustomerRewardCard](kindRewardLink, o.interceptor),
	}
}

func (r *CustomerRepository) Create(ctx context.Context, in *model.CustomerInput) (*model.Customer, error) {
	customer := in.NewCustomer()
	now := r.clock.Now()
	customer.ID = repository.NewID()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := r.customers.insert(ctx, tx, customer); err != nil {
			return err
		}
		if len(in.RewardCardIDs) == 0 {
			return nil
		}
		return r.writeRelations(ctx, tx, customer.ID, []softdelete.RelationWrite{{
			Field: model.RelationRewardCards,
			Mode:  softdelete.RelationConnect,
			IDs:   in.RewardCardIDs,
		}})
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return r.FindByID(ctx, customer.ID)
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.findByID(ctx, r.db, id)
}

func (r *CustomerRepository) findByID(ctx context.Context, db bun.IDB, id string) (*model.Customer, error) {
	op := r.customers.op(softdelete.ActionFindUnique).WithWhere(softdelete.Where{model.ColumnID: id})
	return r.one(ctx, db, op)
}

func (r *CustomerRepository) FindByName(ctx context.Context, name string) (*model.Customer, error) {
	op := r.customers.op(softdelete.ActionFindFirst).WithWhere(softdelete.Where{model.ColumnName: name})
	op.Args.OrderBy = oldestFirst
	return r.one(ctx, r.db, op)
}

func (r *CustomerRepository) FindMany(ctx context.Context, page types.PageRequest, filter model.CustomerFilter) (*types.Pagination[model.Customer], error) {
	total, err := r.customers.count(ctx, r.db, r.customers.op(softdelete.ActionCount).WithWhere(filter.Where()))
	if err != nil || total == 0 {
		return types.NewPagination[model.Customer](page, total, nil), err
	}
	op := r.customers.op(softdelete.ActionFindMany).WithWhere(filter.Where())
	op.Args.Skip = page.GetOffset()
	op.Args.Take = page.GetLimit()
	op.Args.OrderBy = newestFirst
	items, err := r.many(ctx, r.db, op)
	if err != nil {
		return nil, err
	}
	return types.NewPagination(page, total, items), nil
}

func (r *CustomerRepository) FindByRewardCard(ctx context.Context, cardID string) ([]*model.Customer, error) {
	var ownerIDs []string
	err := r.db.NewSelect().
		Model((*model.CustomerRewardCard)(nil)).
		Column("customer_id").
		Where("card_id = ?", cardID).
		Scan(ctx, &ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("find customers by reward card: %w", err)
	}
	if len(ownerIDs) == 0 {
		return []*model.Customer{}, nil
	}
	op := r.customers.op(softdelete.ActionFindMany).WithWhere(softdelete.Where{model.ColumnID: ownerIDs})
	op.Args.OrderBy = newestFirst
	return r.many(ctx, r.db, op)
}

func (r *CustomerRepository) Update(ctx context.Context, id string, patch *model.CustomerPatch) (*model.Customer, error) {
	var updated *model.Customer
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := r.findByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return types.NotFoundError(model.KindCustomer, id)
		}
		data := softdelete.Data{}
		if patch != nil {
			data = patch.Columns()
		}
		data[model.ColumnUpdatedAt] = r.clock.Now()
		op := r.customers.op(softdelete.ActionUpdate).
			WithWhere(softdelete.Where{model.ColumnID: id}).
			WithData(data)
		if patch != nil && patch.RewardCardIDs != nil {
			op.WithRelation(softdelete.RelationWrite{
				Field: model.RelationRewardCards,
				Mode:  softdelete.RelationSet,
				IDs:   *patch.RewardCardIDs,
			})
		}
		executed, _, err := r.customers.write(ctx, tx, op)
		if err != nil {
			return err
		}
		if err := r.writeRelations(ctx, tx, id, executed.Args.Relations); err != nil {
			return err
		}
		updated, err = r.findByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return updated, nil
}

// Delete marks the customer deleted. Its reward links stay in place.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	return deleteLive(ctx, r.db, r.customers, model.KindCustomer, id)
}

func (r *CustomerRepository) Count(ctx context.Context, filter model.CustomerFilter) (int, error) {
	return r.customers.count(ctx, r.db, r.customers.op(softdelete.ActionCount).WithWhere(filter.Where()))
}

func (r *CustomerRepository) one(ctx context.Context, db bun.IDB, op *softdelete.Operation) (*model.Customer, error) {
	customer, err := r.customers.first(ctx, db, op)
	if err != nil || customer == nil {
		return nil, err
	}
	if err := r.loadRewardCards(ctx, db, []*model.Customer{customer}); err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *CustomerRepository) many(ctx context.Context, db bun.IDB, op *softdelete.Operation) ([]*model.Customer, error) {
	customers, err := r.customers.find(ctx, db, op)
	if err != nil {
		return nil, err
	}
	if err := r.loadRewardCards(ctx, db, customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// writeRelations applies connect and set writes to the join table. Repeated
// ids collapse to their first occurrence.
func (r *CustomerRepository) writeRelations(ctx context.Context, db bun.IDB, customerID string, writes []softdelete.RelationWrite) error {
	for _, rw := range writes {
		if rw.Field != model.RelationRewardCards {
			return fmt.Errorf("customer: unknown relation %q", rw.Field)
		}
		var existing []*model.CustomerRewardCard
		if rw.Mode == softdelete.RelationSet {
			op := r.links.op(softdelete.ActionDeleteMany).WithWhere(softdelete.Where{"customer_id": customerID})
			if _, _, err := r.links.write(ctx, db, op); err != nil {
				return err
			}
		} else {
			op := r.links.op(softdelete.ActionFindMany).WithWhere(softdelete.Where{"customer_id": customerID})
			var err error
			if existing, err = r.links.find(ctx, db, op); err != nil {
				return err
			}
		}

		seen := make(map[string]struct{}, len(existing)+len(rw.IDs))
		next := 0
		for _, link := range existing {
			seen[link.CardID] = struct{}{}
			if link.Position >= next {
				next = link.Position + 1
			}
		}
		rows := make([]*model.CustomerRewardCard, 0, len(rw.IDs))
		for _, cardID := range rw.IDs {
			if _, dup := seen[cardID]; dup {
				continue
			}
			seen[cardID] = struct{}{}
			rows = append(rows, &model.CustomerRewardCard{CustomerID: customerID, CardID: cardID, Position: next})
			next++
		}
		if err := r.links.insert(ctx, db, rows...); err != nil {
			return err
		}
	}
	return nil
}

// loadRewardCards joins the reward cards of customers in link order. The
// cards are read directly, without the interceptor, so a card deleted after
// it was linked still shows up. Links to ids with no card row are skipped.
func (r *CustomerRepository) loadRewardCards(ctx context.Context, db bun.IDB, customers []*model.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	ids := make([]string, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
		c.RewardCards = make([]*model.Card, 0)
	}

	var links []*model.CustomerRewardCard
	err := db.NewSelect().
		Model(&links).
		Where("customer_id IN (?)", bun.In(ids)).
		Order("customer_id ASC", "position ASC").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("load reward links: %w", err)
	}
	if len(links) == 0 {
		return nil
	}

	cardIDs := make([]string, 0, len(links))
	for _, l := range links {
		cardIDs = append(cardIDs, l.CardID)
	}
	var cards []*model.Card
	if err := db.NewSelect().Model(&cards).Where("id IN (?)", bun.In(cardIDs)).Scan(ctx); err != nil {
		return fmt.Errorf("load reward cards: %w", err)
	}
	byID := make(map[string]*model.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	owners := make(map[string]*model.Customer, len(customers))
	for _, c := range customers {
		owners[c.ID] = c
	}
	for _, l := range links {
		card, ok := byID[l.CardID]
		if !ok {
			continue
		}
		owner := owners[l.CustomerID]
		owner.RewardCards = append(owner.RewardCards, card.Clone())
	}
	return nil
}
