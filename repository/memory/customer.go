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

package memory

import (
	"context"
	"slices"
	"time"

	"github.com/tomoncle/atelier/model"
	"github.com/tomoncle/atelier/repository"
	"github.com/tomoncle/atelier/types"
)

// CustomerRepository keeps customers in insertion order. Reward links live
// in a side table keyed by customer id and are stored verbatim, without
// checking that the cards exist. Reads rebuild RewardCards as stubs that
// carry only the card id.
type CustomerRepository struct {
	clock       *repository.Clock
	customers   []*model.Customer
	rewardLinks map[string][]string
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

// NewCustomerRepository returns an empty customer store.
func NewCustomerRepository(opts ...Option) *CustomerRepository {
	o := buildOptions(opts)
	return &CustomerRepository{clock: o.clock, rewardLinks: make(map[string][]string)}
}

func (r *CustomerRepository) Create(_ context.Context, in *model.CustomerInput) (*model.Customer, error) {
	customer := in.NewCustomer()
	now := r.clock.Now()
	customer.ID = repository.NewID()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	if len(in.RewardCardIDs) > 0 {
		r.rewardLinks[customer.ID] = slices.Clone(in.RewardCardIDs)
	}
	r.customers = append(r.customers, customer)
	return r.joined(customer), nil
}

func (r *CustomerRepository) FindByID(_ context.Context, id string) (*model.Customer, error) {
	if i := r.indexOf(id); i >= 0 {
		return r.joined(r.customers[i]), nil
	}
	return nil, nil
}

func (r *CustomerRepository) FindByName(_ context.Context, name string) (*model.Customer, error) {
	for _, c := range r.customers {
		if !c.IsDeleted() && c.Name == name {
			return r.joined(c), nil
		}
	}
	return nil, nil
}

func (r *CustomerRepository) FindMany(_ context.Context, page types.PageRequest, filter model.CustomerFilter) (*types.Pagination[model.Customer], error) {
	items := r.live(filter.Matches)
	newestFirst(items, func(c *model.Customer) time.Time { return c.CreatedAt }, func(c *model.Customer) string { return c.ID })
	return paginate(page, items), nil
}

func (r *CustomerRepository) FindByRewardCard(_ context.Context, cardID string) ([]*model.Customer, error) {
	items := r.live(func(c *model.Customer) bool {
		return slices.Contains(r.rewardLinks[c.ID], cardID)
	})
	newestFirst(items, func(c *model.Customer) time.Time { return c.CreatedAt }, func(c *model.Customer) string { return c.ID })
	return items, nil
}

func (r *CustomerRepository) Update(_ context.Context, id string, patch *model.CustomerPatch) (*model.Customer, error) {
	i := r.indexOf(id)
	if i < 0 {
		return nil, types.NotFoundError(model.KindCustomer, id)
	}
	customer := r.customers[i]
	if patch != nil {
		patch.ApplyTo(customer)
		if patch.RewardCardIDs != nil {
			r.rewardLinks[id] = slices.Clone(*patch.RewardCardIDs)
		}
	}
	customer.UpdatedAt = r.clock.Now()
	return r.joined(customer), nil
}

// Delete marks the customer deleted. Its reward links are kept, as the
// database keeps its join rows.
func (r *CustomerRepository) Delete(_ context.Context, id string) error {
	i := r.indexOf(id)
	if i < 0 {
		return types.NotFoundError(model.KindCustomer, id)
	}
	now := r.clock.Now()
	r.customers[i].DeletedAt = &now
	return nil
}

func (r *CustomerRepository) Count(_ context.Context, filter model.CustomerFilter) (int, error) {
	return len(r.live(filter.Matches)), nil
}

// Clear drops every stored customer and link.
func (r *CustomerRepository) Clear() {
	r.customers = nil
	r.rewardLinks = make(map[string][]string)
}

func (r *CustomerRepository) indexOf(id string) int {
	for i, c := range r.customers {
		if c.ID == id && !c.IsDeleted() {
			return i
		}
	}
	return -1
}

func (r *CustomerRepository) live(match func(*model.Customer) bool) []*model.Customer {
	out := make([]*model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		if !c.IsDeleted() && match(c) {
			out = append(out, r.joined(c))
		}
	}
	return out
}

// joined returns a copy of c with RewardCards rebuilt from the side table.
func (r *CustomerRepository) joined(c *model.Customer) *model.Customer {
	out := c.Clone()
	ids := r.rewardLinks[c.ID]
	out.RewardCards = make([]*model.Card, len(ids))
	for i, id := range ids {
		out.RewardCards[i] = &model.Card{Base: model.Base{ID: id}}
	}
	return out
}
