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

package service

import (
	"context"
	"fmt"

	"github.com/tomoncle/atelier/model"
	"github.com/tomoncle/atelier/repository"
	"github.com/tomoncle/atelier/types"
	"github.com/tomoncle/atelier/utils"
)

var log = utils.NewLogger("SERVICE")

// Dependency types reported when a card is still referenced.
const (
	DependencyEvolution = "evolution"
	DependencyReward    = "reward"
)

// CardService applies the card rules on top of the card repository.
type CardService struct {
	cards     repository.CardRepository
	customers repository.CustomerRepository
	validator *Validator
}

// NewCardService returns a card service. customers is consulted for reward
// references before a card is deleted. A nil validator means NewValidator.
func NewCardService(cards repository.CardRepository, customers repository.CustomerRepository, v *Validator) *CardService {
	if v == nil {
		v = NewValidator()
	}
	return &CardService{cards: cards, customers: customers, validator: v}
}

// Create stores a new card. Names are unique among live cards.
func (s *CardService) Create(ctx context.Context, in *model.CardInput) (*model.Card, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	existing, err := s.cards.FindByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, types.DuplicateError(nil, "card named %q already exists", in.Name)
	}
	card, err := s.cards.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	log.WithField("id", card.ID).WithField("name", card.Name).Info("card created")
	return card, nil
}

func (s *CardService) List(ctx context.Context, page types.PageRequest, filter model.CardFilter) (*types.Pagination[model.Card], error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	if filter.CardType != "" && !filter.CardType.IsValid() {
		return nil, types.ValidationError([]types.FieldError{{Field: "cardType", Message: fmt.Sprintf("%s is not an allowed value", filter.CardType)}},
			"invalid input: cardType")
	}
	return s.cards.FindMany(ctx, page, filter)
}

func (s *CardService) Get(ctx context.Context, id string) (*model.Card, error) {
	card, err := s.cards.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, types.NotFoundError(model.KindCard, id)
	}
	return card, nil
}

// Update applies patch. A rename must not collide with another live card.
func (s *CardService) Update(ctx context.Context, id string, patch *model.CardPatch) (*model.Card, error) {
	if patch == nil {
		patch = &model.CardPatch{}
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil && *patch.Name != current.Name {
		other, err := s.cards.FindByName(ctx, *patch.Name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, types.DuplicateError(nil, "card named %q already exists", *patch.Name)
		}
	}
	return s.cards.Update(ctx, id, patch)
}

// Delete removes a card nothing live refers to.
func (s *CardService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	deps, err := s.Dependencies(ctx, id)
	if err != nil {
		return err
	}
	if len(deps) > 0 {
		return types.DependencyError(model.KindCard, id, deps)
	}
	if err := s.cards.Delete(ctx, id); err != nil {
		return err
	}
	log.WithField("id", id).Info("card deleted")
	return nil
}

// Dependencies lists the live cards evolving from id and the live customers
// rewarding it.
func (s *CardService) Dependencies(ctx context.Context, id string) ([]types.Dependency, error) {
	evolutions, err := s.cards.FindEvolutions(ctx, id)
	if err != nil {
		return nil, err
	}
	deps := make([]types.Dependency, 0, len(evolutions))
	for _, c := range evolutions {
		deps = append(deps, types.Dependency{
			Type:         DependencyEvolution,
			ResourceID:   c.ID,
			ResourceName: c.Name,
			Description:  fmt.Sprintf("evolution source of card %q", c.Name),
		})
	}
	if s.customers == nil {
		return deps, nil
	}
	owners, err := s.customers.FindByRewardCard(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, c := range owners {
		deps = append(deps, types.Dependency{
			Type:         DependencyReward,
			ResourceID:   c.ID,
			ResourceName: c.Name,
			Description:  fmt.Sprintf("reward card of customer %q", c.Name),
		})
	}
	return deps, nil
}

func (s *CardService) Count(ctx context.Context, filter model.CardFilter) (int, error) {
	return s.cards.Count(ctx, filter)
}

func checkPage(page types.PageRequest) error {
	if page.Limit > types.MaxLimit {
		return types.ValidationError([]types.FieldError{{Field: "limit", Message: fmt.Sprintf("must be at most %d", types.MaxLimit)}},
			"invalid input: limit")
	}
	return nil
}
