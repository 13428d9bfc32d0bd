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
)

// CustomerService applies the customer rules on top of the repositories.
type CustomerService struct {
	customers repository.CustomerRepository
	cards     repository.CardRepository
	validator *Validator
}

func NewCustomerService(customers repository.CustomerRepository, cards repository.CardRepository, v *Validator) *CustomerService {
	if v == nil {
		v = NewValidator()
	}
	return &CustomerService{customers: customers, cards: cards, validator: v}
}

// Create stores a new customer. Every reward card id must name a live card.
func (s *CustomerService) Create(ctx context.Context, in *model.CustomerInput) (*model.Customer, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	existing, err := s.customers.FindByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, types.DuplicateError(nil, "customer named %q already exists", in.Name)
	}
	if err := s.checkRewardCards(ctx, in.RewardCardIDs); err != nil {
		return nil, err
	}
	customer, err := s.customers.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	log.WithField("id", customer.ID).WithField("name", customer.Name).Info("customer created")
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, page types.PageRequest, filter model.CustomerFilter) (*types.Pagination[model.Customer], error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	return s.customers.FindMany(ctx, page, filter)
}

func (s *CustomerService) Get(ctx context.Context, id string) (*model.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, types.NotFoundError(model.KindCustomer, id)
	}
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, patch *model.CustomerPatch) (*model.Customer, error) {
	if patch == nil {
		patch = &model.CustomerPatch{}
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil && *patch.Name != current.Name {
		other, err := s.customers.FindByName(ctx, *patch.Name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, types.DuplicateError(nil, "customer named %q already exists", *patch.Name)
		}
	}
	if patch.RewardCardIDs != nil {
		if err := s.checkRewardCards(ctx, *patch.RewardCardIDs); err != nil {
			return nil, err
		}
	}
	return s.customers.Update(ctx, id, patch)
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}
	log.WithField("id", id).Info("customer deleted")
	return nil
}

func (s *CustomerService) Count(ctx context.Context, filter model.CustomerFilter) (int, error) {
	return s.customers.Count(ctx, filter)
}

func (s *CustomerService) checkRewardCards(ctx context.Context, ids []string) error {
	var (
		fields  []types.FieldError
		missing string
	)
	for _, id := range ids {
		card, err := s.cards.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if card == nil {
			if missing == "" {
				missing = id
			}
			fields = append(fields, types.FieldError{Field: "rewardCardIds", Message: fmt.Sprintf("card %s not found", id)})
		}
	}
	if len(fields) > 0 {
		return types.ValidationError(fields, "reward card %s not found", missing)
	}
	return nil
}
