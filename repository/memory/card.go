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
	"time"

	"github.com/tomoncle/atelier/model"
	"github.com/tomoncle/atelier/repository"
	"github.com/tomoncle/atelier/types"
)

// CardRepository keeps cards in insertion order.
type CardRepository struct {
	clock *repository.Clock
	cards []*model.Card
}

var _ repository.CardRepository = (*CardRepository)(nil)

// NewCardRepository returns an empty card store.
func NewCardRepository(opts ...Option) *CardRepository {
	o := buildOptions(opts)
	return &CardRepository{clock: o.clock}
}

func (r *CardRepository) Create(_ context.Context, in *model.CardInput) (*model.Card, error) {
	card := in.NewCard()
	now := r.clock.Now()
	card.ID = repository.NewID()
	card.CreatedAt = now
	card.UpdatedAt = now
	r.cards = append(r.cards, card)
	return card.Clone(), nil
}

func (r *CardRepository) FindByID(_ context.Context, id string) (*model.Card, error) {
	if i := r.indexOf(id); i >= 0 {
		return r.cards[i].Clone(), nil
	}
	return nil, nil
}

func (r *CardRepository) FindByName(_ context.Context, name string) (*model.Card, error) {
	for _, c := range r.cards {
		if !c.IsDeleted() && c.Name == name {
			return c.Clone(), nil
		}
	}
	return nil, nil
}

func (r *CardRepository) FindMany(_ context.Context, page types.PageRequest, filter model.CardFilter) (*types.Pagination[model.Card], error) {
	items := r.live(filter.Matches)
	newestFirst(items, func(c *model.Card) time.Time { return c.CreatedAt }, func(c *model.Card) string { return c.ID })
	return paginate(page, items), nil
}

func (r *CardRepository) FindEvolutions(_ context.Context, id string) ([]*model.Card, error) {
	items := r.live(func(c *model.Card) bool {
		return c.EvolutionFromID != nil && *c.EvolutionFromID == id
	})
	newestFirst(items, func(c *model.Card) time.Time { return c.CreatedAt }, func(c *model.Card) string { return c.ID })
	return items, nil
}

func (r *CardRepository) Update(_ context.Context, id string, patch *model.CardPatch) (*model.Card, error) {
	i := r.indexOf(id)
	if i < 0 {
		return nil, types.NotFoundError(model.KindCard, id)
	}
	card := r.cards[i]
	if patch != nil {
		patch.ApplyTo(card)
	}
	card.UpdatedAt = r.clock.Now()
	return card.Clone(), nil
}

func (r *CardRepository) Delete(_ context.Context, id string) error {
	i := r.indexOf(id)
	if i < 0 {
		return types.NotFoundError(model.KindCard, id)
	}
	now := r.clock.Now()
	r.cards[i].DeletedAt = &now
	return nil
}

func (r *CardRepository) Count(_ context.Context, filter model.CardFilter) (int, error) {
	return len(r.live(filter.Matches)), nil
}

// Clear drops every stored card.
func (r *CardRepository) Clear() {
	r.cards = nil
}

func (r *CardRepository) indexOf(id string) int {
	for i, c := range r.cards {
		if c.ID == id && !c.IsDeleted() {
			return i
		}
	}
	return -1
}

func (r *CardRepository) live(match func(*model.Card) bool) []*model.Card {
	out := make([]*model.Card, 0, len(r.cards))
	for _, c := range r.cards {
		if !c.IsDeleted() && match(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}
