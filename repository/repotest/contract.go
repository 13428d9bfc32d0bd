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

package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/atelier/model"
	"github.com/tomoncle/atelier/repository"
	"github.com/tomoncle/atelier/types"
)

// Repos is one pair of empty stores.
type Repos struct {
	Cards     repository.CardRepository
	Customers repository.CustomerRepository
	// CollapsesRepeatedRewards is set by stores that keep one link per
	// customer and card, first occurrence first.
	CollapsesRepeatedRewards bool
}

// Factory returns fresh, empty stores for a single test.
type Factory func(t *testing.T) Repos

// Run executes the shared contract against stores from factory.
func Run(t *testing.T, factory Factory) {
	cases := []struct {
		name string
		fn   func(t *testing.T, r Repos)
	}{
		{"CardCreateAndFind", testCardCreateAndFind},
		{"CardUpdate", testCardUpdate},
		{"CardDelete", testCardDelete},
		{"CardPagination", testCardPagination},
		{"CardFilter", testCardFilter},
		{"CardSearchIsCaseSensitive", testCardSearchIsCaseSensitive},
		{"CardEvolutions", testCardEvolutions},
		{"CustomerRewardCards", testCustomerRewardCards},
		{"CustomerReplaceRewardCards", testCustomerReplaceRewardCards},
		{"CustomerRepeatedRewardCards", testCustomerRepeatedRewardCards},
		{"CustomerKeepsDeletedRewardCard", testCustomerKeepsDeletedRewardCard},
		{"CustomerDelete", testCustomerDelete},
		{"CustomerFilter", testCustomerFilter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, factory(t))
		})
	}
}

// CardInput returns a valid card payload named name.
func CardInput(name string) *model.CardInput {
	return &model.CardInput{
		Name:           name,
		Description:    "description of " + name,
		CardType:       model.CardTypeMaterial,
		Attribute:      types.Attributes{"fire": 2, "water": 1},
		StabilityValue: 50,
		EnergyCost:     3,
	}
}

// CustomerInput returns a valid customer payload linking rewardCardIDs.
func CustomerInput(name string, rewardCardIDs ...string) *model.CustomerInput {
	return &model.CustomerInput{
		Name:               name,
		Description:        "description of " + name,
		CustomerType:       "merchant",
		Difficulty:         2,
		RequiredAttribute:  types.Attributes{"earth": 3},
		QualityCondition:   40,
		StabilityCondition: 30,
		RewardFame:         10,
		RewardKnowledge:    5,
		RewardCardIDs:      rewardCardIDs,
	}
}

func createCard(t *testing.T, r Repos, name string) *model.Card {
	t.Helper()
	card, err := r.Cards.Create(context.Background(), CardInput(name))
	require.NoError(t, err)
	return card
}

func createCustomer(t *testing.T, r Repos, name string, rewardCardIDs ...string) *model.Customer {
	t.Helper()
	customer, err := r.Customers.Create(context.Background(), CustomerInput(name, rewardCardIDs...))
	require.NoError(t, err)
	return customer
}

func strPtr(s string) *string { return &s }

func ids[T any](items []*T, id func(*T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}

func cardID(c *model.Card) string         { return c.ID }
func customerID(c *model.Customer) string { return c.ID }

func testCardCreateAndFind(t *testing.T, r Repos) {
	ctx := context.Background()
	in := CardInput("Ember Salt")
	rarity := model.RarityRare
	in.Rarity = &rarity
	in.ImageURL = strPtr("https://img.example.com/ember.png")

	created, err := r.Cards.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))
	assert.Nil(t, created.DeletedAt)

	found, err := r.Cards.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Ember Salt", found.Name)
	assert.Equal(t, model.CardTypeMaterial, found.CardType)
	assert.Equal(t, types.Attributes{"fire": 2, "water": 1}, found.Attribute)
	assert.Equal(t, 50, found.StabilityValue)
	assert.Equal(t, 3, found.EnergyCost)
	require.NotNil(t, found.Rarity)
	assert.Equal(t, model.RarityRare, *found.Rarity)
	assert.Equal(t, "https://img.example.com/ember.png", *found.ImageURL)
	assert.Nil(t, found.ReactionEffect)
	assert.Nil(t, found.EvolutionFromID)
	assert.True(t, found.CreatedAt.Equal(created.CreatedAt))

	byName, err := r.Cards.FindByName(ctx, "Ember Salt")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)

	missing, err := r.Cards.FindByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
	missing, err = r.Cards.FindByName(ctx, "Nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testCardUpdate(t *testing.T, r Repos) {
	ctx := context.Background()
	in := CardInput("Moon Dew")
	in.ImageURL = strPtr("https://img.example.com/dew.png")
	created, err := r.Cards.Create(ctx, in)
	require.NoError(t, err)

	cost := 7
	updated, err := r.Cards.Update(ctx, created.ID, &model.CardPatch{
		Name:       strPtr("Moon Dew II"),
		EnergyCost: &cost,
		Rarity:     types.Some(model.RarityEpic),
		ImageURL:   types.Null[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, "Moon Dew II", updated.Name)
	assert.Equal(t, 7, updated.EnergyCost)
	require.NotNil(t, updated.Rarity)
	assert.Equal(t, model.RarityEpic, *updated.Rarity)
	assert.Nil(t, updated.ImageURL)
	assert.Equal(t, created.Description, updated.Description)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	found, err := r.Cards.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Moon Dew II", found.Name)
	assert.True(t, found.UpdatedAt.Equal(updated.UpdatedAt))

	_, err = r.Cards.Update(ctx, "00000000-0000-0000-0000-000000000000", &model.CardPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func testCardDelete(t *testing.T, r Repos) {
	ctx := context.Background()
	keep := createCard(t, r, "Iron Filings")
	gone := createCard(t, r, "Ash Powder")

	require.NoError(t, r.Cards.Delete(ctx, gone.ID))

	found, err := r.Cards.FindByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
	byName, err := r.Cards.FindByName(ctx, "Ash Powder")
	require.NoError(t, err)
	assert.Nil(t, byName)

	assert.ErrorIs(t, r.Cards.Delete(ctx, gone.ID), types.ErrNotFound)
	_, err = r.Cards.Update(ctx, gone.ID, &model.CardPatch{Name: strPtr("back")})
	assert.ErrorIs(t, err, types.ErrNotFound)

	n, err := r.Cards.Count(ctx, model.CardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	page, err := r.Cards.FindMany(ctx, types.NewPageRequest(1, 10), model.CardFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, ids(page.Items, cardID))
	assert.Equal(t, 1, page.Total)

	// a card can be recreated under a deleted name
	again := createCard(t, r, "Ash Powder")
	byName, err = r.Cards.FindByName(ctx, "Ash Powder")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, again.ID, byName.ID)
}

func testCardPagination(t *testing.T, r Repos) {
	ctx := context.Background()
	var created []string
	for _, name := range []string{"Card A", "Card B", "Card C", "Card D", "Card E"} {
		created = append(created, createCard(t, r, name).ID)
	}
	want := make([]string, 0, len(created))
	for i := len(created) - 1; i >= 0; i-- {
		want = append(want, created[i])
	}

	var got []string
	for p := 1; p <= 3; p++ {
		page, err := r.Cards.FindMany(ctx, types.NewPageRequest(p, 2), model.CardFilter{})
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, p, page.Page)
		assert.Equal(t, 2, page.Limit)
		got = append(got, ids(page.Items, cardID)...)
	}
	assert.Equal(t, want, got)

	beyond, err := r.Cards.FindMany(ctx, types.NewPageRequest(4, 2), model.CardFilter{})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.NotNil(t, beyond.Items)
	assert.Equal(t, 5, beyond.Total)

	defaults, err := r.Cards.FindMany(ctx, types.PageRequest{}, model.CardFilter{})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPage, defaults.Page)
	assert.Equal(t, types.DefaultLimit, defaults.Limit)
	assert.Len(t, defaults.Items, 5)
}

func testCardFilter(t *testing.T, r Repos) {
	ctx := context.Background()
	createCard(t, r, "Salt Crystal")
	in := CardInput("Stirring Rod")
	in.CardType = model.CardTypeOperation
	rod, err := r.Cards.Create(ctx, in)
	require.NoError(t, err)
	createCard(t, r, "Salt_Lamp 100%")

	page, err := r.Cards.FindMany(ctx, types.NewPageRequest(1, 10), model.CardFilter{CardType: model.CardTypeOperation})
	require.NoError(t, err)
	assert.Equal(t, []string{rod.ID}, ids(page.Items, cardID))

	n, err := r.Cards.Count(ctx, model.CardFilter{Search: "Salt"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = r.Cards.Count(ctx, model.CardFilter{Search: "_Lamp 100%"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = r.Cards.Count(ctx, model.CardFilter{Search: "Salt", CardType: model.CardTypeOperation})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	empty, err := r.Cards.FindMany(ctx, types.NewPageRequest(1, 10), model.CardFilter{Search: "Nothing"})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 0, empty.TotalPages)
	assert.NotNil(t, empty.Items)
}

func testCardSearchIsCaseSensitive(t *testing.T, r Repos) {
	ctx := context.Background()
	createCard(t, r, "Amber")

	for search, want := range map[string]int{"amber": 0, "AMBER": 0, "mbe": 1, "Amb": 1} {
		n, err := r.Cards.Count(ctx, model.CardFilter{Search: search})
		require.NoError(t, err)
		assert.Equal(t, want, n, "search %q", search)
	}
	page, err := r.Cards.FindMany(ctx, types.NewPageRequest(1, 10), model.CardFilter{Search: "amber"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func testCardEvolutions(t *testing.T, r Repos) {
	ctx := context.Background()
	base := createCard(t, r, "Seed")
	in := CardInput("Sprout")
	in.EvolutionFromID = strPtr(base.ID)
	sprout, err := r.Cards.Create(ctx, in)
	require.NoError(t, err)
	createCard(t, r, "Unrelated")

	evolutions, err := r.Cards.FindEvolutions(ctx, base.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{sprout.ID}, ids(evolutions, cardID))

	require.NoError(t, r.Cards.Delete(ctx, sprout.ID))
	evolutions, err = r.Cards.FindEvolutions(ctx, base.ID)
	require.NoError(t, err)
	assert.Empty(t, evolutions)
}

func testCustomerRewardCards(t *testing.T, r Repos) {
	ctx := context.Background()
	a := createCard(t, r, "Reward A")
	b := createCard(t, r, "Reward B")

	created := createCustomer(t, r, "Old Sage", b.ID, a.ID)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{b.ID, a.ID}, created.RewardCardIDs())

	found, err := r.Customers.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Old Sage", found.Name)
	assert.Equal(t, types.Attributes{"earth": 3}, found.RequiredAttribute)
	assert.Equal(t, []string{b.ID, a.ID}, found.RewardCardIDs())

	plain := createCustomer(t, r, "Plain Visitor")
	assert.NotNil(t, plain.RewardCards)
	assert.Empty(t, plain.RewardCards)

	owners, err := r.Customers.FindByRewardCard(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, ids(owners, customerID))

	byName, err := r.Customers.FindByName(ctx, "Old Sage")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, []string{b.ID, a.ID}, byName.RewardCardIDs())
}

func testCustomerReplaceRewardCards(t *testing.T, r Repos) {
	ctx := context.Background()
	a := createCard(t, r, "Reward A")
	b := createCard(t, r, "Reward B")
	c := createCard(t, r, "Reward C")
	customer := createCustomer(t, r, "Collector", a.ID, b.ID)

	fame := 99
	updated, err := r.Customers.Update(ctx, customer.ID, &model.CustomerPatch{RewardFame: &fame})
	require.NoError(t, err)
	assert.Equal(t, 99, updated.RewardFame)
	assert.Equal(t, []string{a.ID, b.ID}, updated.RewardCardIDs())
	assert.True(t, updated.UpdatedAt.After(customer.UpdatedAt))

	next := []string{c.ID, a.ID}
	updated, err = r.Customers.Update(ctx, customer.ID, &model.CustomerPatch{RewardCardIDs: &next})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID, a.ID}, updated.RewardCardIDs())

	none := []string{}
	updated, err = r.Customers.Update(ctx, customer.ID, &model.CustomerPatch{RewardCardIDs: &none})
	require.NoError(t, err)
	assert.Empty(t, updated.RewardCardIDs())

	found, err := r.Customers.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, found.RewardCardIDs())
	owners, err := r.Customers.FindByRewardCard(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, owners)
}

func testCustomerRepeatedRewardCards(t *testing.T, r Repos) {
	ctx := context.Background()
	a := createCard(t, r, "Twin Reward A")
	b := createCard(t, r, "Twin Reward B")

	want := []string{a.ID, b.ID, a.ID}
	if r.CollapsesRepeatedRewards {
		want = []string{a.ID, b.ID}
	}

	created := createCustomer(t, r, "Greedy Collector", a.ID, b.ID, a.ID)
	assert.Equal(t, want, created.RewardCardIDs())

	found, err := r.Customers.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, want, found.RewardCardIDs())

	twice := []string{b.ID, b.ID}
	updated, err := r.Customers.Update(ctx, created.ID, &model.CustomerPatch{RewardCardIDs: &twice})
	require.NoError(t, err)
	if r.CollapsesRepeatedRewards {
		assert.Equal(t, []string{b.ID}, updated.RewardCardIDs())
	} else {
		assert.Equal(t, []string{b.ID, b.ID}, updated.RewardCardIDs())
	}
}

func testCustomerKeepsDeletedRewardCard(t *testing.T, r Repos) {
	ctx := context.Background()
	card := createCard(t, r, "Fragile Reward")
	customer := createCustomer(t, r, "Patron", card.ID)

	require.NoError(t, r.Cards.Delete(ctx, card.ID))

	deleted, err := r.Cards.FindByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	found, err := r.Customers.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, []string{card.ID}, found.RewardCardIDs())

	owners, err := r.Customers.FindByRewardCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{customer.ID}, ids(owners, customerID))
}

func testCustomerDelete(t *testing.T, r Repos) {
	ctx := context.Background()
	card := createCard(t, r, "Shared Reward")
	stay := createCustomer(t, r, "Stays", card.ID)
	gone := createCustomer(t, r, "Leaves", card.ID)

	require.NoError(t, r.Customers.Delete(ctx, gone.ID))
	assert.ErrorIs(t, r.Customers.Delete(ctx, gone.ID), types.ErrNotFound)

	found, err := r.Customers.FindByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
	_, err = r.Customers.Update(ctx, gone.ID, &model.CustomerPatch{Name: strPtr("again")})
	assert.ErrorIs(t, err, types.ErrNotFound)

	owners, err := r.Customers.FindByRewardCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{stay.ID}, ids(owners, customerID))

	n, err := r.Customers.Count(ctx, model.CustomerFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// the card itself is untouched
	still, err := r.Cards.FindByID(ctx, card.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func testCustomerFilter(t *testing.T, r Repos) {
	ctx := context.Background()
	easy := createCustomer(t, r, "Easy Farmer")
	in := CustomerInput("Hard Noble")
	in.Difficulty = 5
	hard, err := r.Customers.Create(ctx, in)
	require.NoError(t, err)

	page, err := r.Customers.FindMany(ctx, types.NewPageRequest(1, 10), model.CustomerFilter{Difficulty: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{hard.ID}, ids(page.Items, customerID))

	page, err = r.Customers.FindMany(ctx, types.NewPageRequest(1, 10), model.CustomerFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{hard.ID, easy.ID}, ids(page.Items, customerID))
	assert.Equal(t, 1, page.TotalPages)

	n, err := r.Customers.Count(ctx, model.CustomerFilter{Search: "Farmer"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
