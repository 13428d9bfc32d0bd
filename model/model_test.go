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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tomoncle/atelier/softdelete"
	"github.com/tomoncle/atelier/types"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCardTypeEnum(t *testing.T) {
	assert.True(t, CardTypeCatalyst.IsValid())
	assert.Equal(t, 2, CardTypeCatalyst.Number())
	assert.Equal(t, "catalyst", CardTypeCatalyst.Desc())

	bogus := CardType("POTION")
	assert.False(t, bogus.IsValid())
	assert.Equal(t, types.IllegalValue, bogus.Number())
	assert.Equal(t, types.IllegalName, bogus.Name())
	assert.Len(t, CardTypes(), 6)
	assert.True(t, RarityLegendary.IsValid())
	assert.False(t, CardRarity("MYTHIC").IsValid())
}

func TestCardPatchColumns(t *testing.T) {
	p := CardPatch{
		Name:           strPtr("Ember"),
		EnergyCost:     intPtr(0),
		ReactionEffect: types.Null[string](),
		Rarity:         types.Some(RarityEpic),
	}

	data := p.Columns()

	assert.Equal(t, "Ember", data[ColumnName])
	assert.Equal(t, 0, data[ColumnEnergyCost])
	assert.Nil(t, data[ColumnReactionEffect])
	assert.Contains(t, data, ColumnReactionEffect)
	assert.Equal(t, RarityEpic, *data[ColumnRarity].(*CardRarity))
	assert.NotContains(t, data, ColumnDescription)
	assert.NotContains(t, data, ColumnImageURL)
}

func TestCardPatchApplyTo(t *testing.T) {
	c := (&CardInput{
		Name:           "Ash",
		Description:    "grey",
		CardType:       CardTypeMaterial,
		Attribute:      types.Attributes{"fire": 1},
		ReactionEffect: strPtr("smoke"),
		ImageURL:       strPtr("https://img.example/ash.png"),
	}).NewCard()

	p := CardPatch{
		Description:    strPtr("dark grey"),
		ReactionEffect: types.Null[string](),
	}
	p.ApplyTo(c)

	assert.Equal(t, "Ash", c.Name)
	assert.Equal(t, "dark grey", c.Description)
	assert.Nil(t, c.ReactionEffect)
	assert.Equal(t, "https://img.example/ash.png", *c.ImageURL)
}

func TestCardCloneIsDeep(t *testing.T) {
	c := &Card{Name: "A", Attribute: types.Attributes{"x": 1}, ImageURL: strPtr("u")}
	cp := c.Clone()
	cp.Attribute["x"] = 2
	*cp.ImageURL = "v"

	assert.Equal(t, float64(1), c.Attribute["x"])
	assert.Equal(t, "u", *c.ImageURL)
}

func TestFilters(t *testing.T) {
	c := &Card{Name: "Fire Salt", CardType: CardTypeMaterial}
	assert.True(t, CardFilter{}.Matches(c))
	assert.True(t, CardFilter{Search: "Salt"}.Matches(c))
	assert.False(t, CardFilter{Search: "salt"}.Matches(c))
	assert.False(t, CardFilter{CardType: CardTypeArtifact}.Matches(c))
	assert.Equal(t, softdelete.Where{
		ColumnCardType: CardTypeMaterial,
		ColumnName:     softdelete.Contains{Value: "Salt"},
	}, CardFilter{CardType: CardTypeMaterial, Search: "Salt"}.Where())

	cu := &Customer{Name: "Old Merchant", Difficulty: 3}
	assert.True(t, CustomerFilter{Difficulty: 3, Search: "Merchant"}.Matches(cu))
	assert.False(t, CustomerFilter{Difficulty: 2}.Matches(cu))
	assert.Empty(t, CustomerFilter{}.Where())
}

func TestCustomerPatchColumnsSkipRelation(t *testing.T) {
	ids := []string{}
	p := CustomerPatch{Difficulty: intPtr(4), RewardCardIDs: &ids, PortraitURL: types.Some("https://p.example/a.png")}

	data := p.Columns()

	assert.Equal(t, softdelete.Data{
		ColumnDifficulty:  4,
		ColumnPortraitURL: strPtr("https://p.example/a.png"),
	}, data)
}
