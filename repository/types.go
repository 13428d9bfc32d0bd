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

	"github.com/tomoncle/atelier/model"
	"github.com/tomoncle/atelier/types"
)

// CardRepository stores cards. Reads only see live rows; FindByID and
// FindByName return nil, nil when nothing matches. Update and Delete return
// an error matching types.ErrNotFound when the id has no live row.
type CardRepository interface {
	Create(ctx context.Context, in *model.CardInput) (*model.Card, error)

	FindByID(ctx context.Context, id string) (*model.Card, error)

	FindByName(ctx context.Context, name string) (*model.Card, error)

	// FindMany returns one page of matching cards, newest first.
	FindMany(ctx context.Context, page types.PageRequest, filter model.CardFilter) (*types.Pagination[model.Card], error)

	// FindEvolutions returns the live cards that evolve from id.
	FindEvolutions(ctx context.Context, id string) ([]*model.Card, error)

	Update(ctx context.Context, id string, patch *model.CardPatch) (*model.Card, error)

	// Delete marks the card deleted. References held by other records are
	// left as they are.
	Delete(ctx context.Context, id string) error

	Count(ctx context.Context, filter model.CardFilter) (int, error)
}

// CustomerRepository stores customers and their reward card links.
type CustomerRepository interface {
	Create(ctx context.Context, in *model.CustomerInput) (*model.Customer, error)

	FindByID(ctx context.Context, id string) (*model.Customer, error)

	FindByName(ctx context.Context, name string) (*model.Customer, error)

	FindMany(ctx context.Context, page types.PageRequest, filter model.CustomerFilter) (*types.Pagination[model.Customer], error)

	// FindByRewardCard returns the live customers whose reward set holds cardID.
	FindByRewardCard(ctx context.Context, cardID string) ([]*model.Customer, error)

	// Update replaces the reward set wholesale when patch.RewardCardIDs is
	// non-nil.
	Update(ctx context.Context, id string, patch *model.CustomerPatch) (*model.Customer, error)

	Delete(ctx context.Context, id string) error

	Count(ctx context.Context, filter model.CustomerFilter) (int, error)
}

// Clearer is implemented by stores that can drop all state. Tests only.
type Clearer interface {
	Clear()
}
