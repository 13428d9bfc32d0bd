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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/atelier/model"
	"github.com/tomoncle/atelier/repository"
	"github.com/tomoncle/atelier/repository/memory"
	"github.com/tomoncle/atelier/repository/repotest"
	"github.com/tomoncle/atelier/types"
)

const unknownID = "44444444-4444-4444-4444-444444444444"

func newServices() (*CardService, *CustomerService) {
	clock := repository.NewClock()
	cards := memory.NewCardRepository(memory.WithClock(clock))
	customers := memory.NewCustomerRepository(memory.WithClock(clock))
	v := NewValidator()
	return NewCardService(cards, customers, v), NewCustomerService(customers, cards, v)
}

func strPtr(s string) *string { return &s }

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var typed *types.Error
	require.ErrorAs(t, err, &typed)
	names := make([]string, 0, len(typed.Fields))
	for _, f := range typed.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestCardCreateRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	cards, _ := newServices()

	_, err := cards.Create(ctx, repotest.CardInput("Quartz"))
	require.NoError(t, err)
	_, err = cards.Create(ctx, repotest.CardInput("Quartz"))
	assert.ErrorIs(t, err, types.ErrDuplicate)
}

func TestCardCreateValidates(t *testing.T) {
	cards, _ := newServices()
	in := repotest.CardInput("")
	in.CardType = "POTION"
	in.EnergyCost = 11
	in.ImageURL = strPtr("not a url")

	_, err := cards.Create(context.Background(), in)
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.ElementsMatch(t, []string{"name", "cardType", "energyCost", "imageUrl"}, fieldNames(t, err))
}

func TestCardUpdateValidatesOptionals(t *testing.T) {
	ctx := context.Background()
	cards, _ := newServices()
	card, err := cards.Create(ctx, repotest.CardInput("Mercury"))
	require.NoError(t, err)

	_, err = cards.Update(ctx, card.ID, &model.CardPatch{
		Rarity:   types.Some(model.CardRarity("MYTHIC")),
		ImageURL: types.Some("nope"),
	})
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.ElementsMatch(t, []string{"rarity", "imageUrl"}, fieldNames(t, err))

	updated, err := cards.Update(ctx, card.ID, &model.CardPatch{
		Rarity:   types.Some(model.RarityLegendary),
		ImageURL: types.Null[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, model.RarityLegendary, *updated.Rarity)
	assert.Nil(t, updated.ImageURL)
}

func TestCardUpdateRename(t *testing.T) {
	ctx := context.Background()
	cards, _ := newServices()
	lead, err := cards.Create(ctx, repotest.CardInput("Lead"))
	require.NoError(t, err)
	_, err = cards.Create(ctx, repotest.CardInput("Gold"))
	require.NoError(t, err)

	_, err = cards.Update(ctx, lead.ID, &model.CardPatch{Name: strPtr("Gold")})
	assert.ErrorIs(t, err, types.ErrDuplicate)

	same, err := cards.Update(ctx, lead.ID, &model.CardPatch{Name: strPtr("Lead")})
	require.NoError(t, err)
	assert.Equal(t, "Lead", same.Name)

	_, err = cards.Update(ctx, unknownID, &model.CardPatch{Name: strPtr("Tin")})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCardDeleteChecksReferences(t *testing.T) {
	ctx := context.Background()
	cards, customers := newServices()
	base, err := cards.Create(ctx, repotest.CardInput("Spark"))
	require.NoError(t, err)
	in := repotest.CardInput("Flame")
	in.EvolutionFromID = strPtr(base.ID)
	flame, err := cards.Create(ctx, in)
	require.NoError(t, err)
	patron, err := customers.Create(ctx, repotest.CustomerInput("Smith", base.ID))
	require.NoError(t, err)

	err = cards.Delete(ctx, base.ID)
	require.ErrorIs(t, err, types.ErrDependency)
	var typed *types.Error
	require.ErrorAs(t, err, &typed)
	require.Len(t, typed.Dependencies, 2)
	assert.Equal(t, DependencyEvolution, typed.Dependencies[0].Type)
	assert.Equal(t, flame.ID, typed.Dependencies[0].ResourceID)
	assert.Equal(t, DependencyReward, typed.Dependencies[1].Type)
	assert.Equal(t, "Smith", typed.Dependencies[1].ResourceName)

	require.NoError(t, cards.Delete(ctx, flame.ID))
	require.NoError(t, customers.Delete(ctx, patron.ID))
	require.NoError(t, cards.Delete(ctx, base.ID))

	_, err = cards.Get(ctx, base.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, cards.Delete(ctx, base.ID), types.ErrNotFound)
}

func TestListValidatesQuery(t *testing.T) {
	ctx := context.Background()
	cards, customers := newServices()

	_, err := cards.List(ctx, types.NewPageRequest(1, types.MaxLimit+1), model.CardFilter{})
	assert.ErrorIs(t, err, types.ErrValidation)
	_, err = cards.List(ctx, types.NewPageRequest(1, 10), model.CardFilter{CardType: "POTION"})
	assert.ErrorIs(t, err, types.ErrValidation)
	_, err = customers.List(ctx, types.NewPageRequest(1, types.MaxLimit+1), model.CustomerFilter{})
	assert.ErrorIs(t, err, types.ErrValidation)

	page, err := cards.List(ctx, types.NewPageRequest(1, types.MaxLimit), model.CardFilter{CardType: model.CardTypeMaterial})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestCustomerRewardCardsMustExist(t *testing.T) {
	ctx := context.Background()
	cards, customers := newServices()
	card, err := cards.Create(ctx, repotest.CardInput("Prize"))
	require.NoError(t, err)

	_, err = customers.Create(ctx, repotest.CustomerInput("Greedy", card.ID, unknownID))
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), unknownID)

	created, err := customers.Create(ctx, repotest.CustomerInput("Fair", card.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{card.ID}, created.RewardCardIDs())

	ids := []string{unknownID}
	_, err = customers.Update(ctx, created.ID, &model.CustomerPatch{RewardCardIDs: &ids})
	assert.ErrorIs(t, err, types.ErrValidation)

	bad := []string{"not-a-uuid"}
	_, err = customers.Update(ctx, created.ID, &model.CustomerPatch{RewardCardIDs: &bad})
	assert.ErrorIs(t, err, types.ErrValidation)

	none := []string{}
	updated, err := customers.Update(ctx, created.ID, &model.CustomerPatch{RewardCardIDs: &none})
	require.NoError(t, err)
	assert.Empty(t, updated.RewardCardIDs())
}

func TestCustomerNamesAndLifecycle(t *testing.T) {
	ctx := context.Background()
	_, customers := newServices()
	first, err := customers.Create(ctx, repotest.CustomerInput("Baron"))
	require.NoError(t, err)
	second, err := customers.Create(ctx, repotest.CustomerInput("Count"))
	require.NoError(t, err)

	_, err = customers.Create(ctx, repotest.CustomerInput("Baron"))
	assert.ErrorIs(t, err, types.ErrDuplicate)
	_, err = customers.Update(ctx, second.ID, &model.CustomerPatch{Name: strPtr("Baron")})
	assert.ErrorIs(t, err, types.ErrDuplicate)

	difficulty := 9
	_, err = customers.Update(ctx, second.ID, &model.CustomerPatch{Difficulty: &difficulty})
	assert.ErrorIs(t, err, types.ErrValidation)

	require.NoError(t, customers.Delete(ctx, first.ID))
	_, err = customers.Get(ctx, first.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, customers.Delete(ctx, first.ID), types.ErrNotFound)

	n, err := customers.Count(ctx, model.CustomerFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
