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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/atelier/model"
	"github.com/tomoncle/atelier/repository"
	"github.com/tomoncle/atelier/repository/repotest"
	"github.com/tomoncle/atelier/types"
)

func newRepos(t *testing.T) repotest.Repos {
	clock := repository.NewClock()
	return repotest.Repos{
		Cards:     NewCardRepository(WithClock(clock)),
		Customers: NewCustomerRepository(WithClock(clock)),
	}
}

func TestContract(t *testing.T) {
	repotest.Run(t, newRepos)
}

func TestCardReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository()
	created, err := repo.Create(ctx, repotest.CardInput("Glass Vial"))
	require.NoError(t, err)

	created.Name = "mutated"
	created.Attribute["fire"] = 99

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Glass Vial", found.Name)
	assert.Equal(t, float64(2), found.Attribute["fire"])
}

func TestCustomerStoresRewardLinksVerbatim(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository()
	unknown := "11111111-1111-1111-1111-111111111111"

	created, err := repo.Create(ctx, repotest.CustomerInput("Hermit", unknown, unknown))
	require.NoError(t, err)
	assert.Equal(t, []string{unknown, unknown}, created.RewardCardIDs())
	assert.Empty(t, created.RewardCards[0].Name)
}

func TestCustomerDeleteKeepsLinks(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository()
	card := "22222222-2222-2222-2222-222222222222"
	created, err := repo.Create(ctx, repotest.CustomerInput("Wanderer", card))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.Equal(t, []string{card}, repo.rewardLinks[created.ID])
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	cards := NewCardRepository()
	customers := NewCustomerRepository()
	card, err := cards.Create(ctx, repotest.CardInput("Spare"))
	require.NoError(t, err)
	_, err = customers.Create(ctx, repotest.CustomerInput("Visitor", card.ID))
	require.NoError(t, err)

	for _, c := range []repository.Clearer{cards, customers} {
		c.Clear()
	}

	n, err := cards.Count(ctx, model.CardFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
	page, err := customers.FindMany(ctx, types.NewPageRequest(1, 5), model.CustomerFilter{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, customers.rewardLinks)
}
