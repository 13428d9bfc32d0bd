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
	"github.com/tomoncle/atelier/softdelete"
	"github.com/tomoncle/atelier/types"
	"github.com/uptrace/bun"
)

// KindCard is the entity kind key of cards.
const KindCard = softdelete.ModelCard

// Card columns.
const (
	ColumnCardType        = "card_type"
	ColumnDescription     = "description"
	ColumnAttribute       = "attribute"
	ColumnStabilityValue  = "stability_value"
	ColumnReactionEffect  = "reaction_effect"
	ColumnEnergyCost      = "energy_cost"
	ColumnImageURL        = "image_url"
	ColumnRarity          = "rarity"
	ColumnEvolutionFromID = "evolution_from_id"
)

// CardType is the category of a card.
type CardType string

const (
	CardTypeMaterial  CardType = "MATERIAL"
	CardTypeOperation CardType = "OPERATION"
	CardTypeCatalyst  CardType = "CATALYST"
	CardTypeKnowledge CardType = "KNOWLEDGE"
	CardTypeSpecial   CardType = "SPECIAL"
	CardTypeArtifact  CardType = "ARTIFACT"
)

var cardTypes = types.EnumSet{
	{Value: string(CardTypeMaterial), Desc: "material"},
	{Value: string(CardTypeOperation), Desc: "operation"},
	{Value: string(CardTypeCatalyst), Desc: "catalyst"},
	{Value: string(CardTypeKnowledge), Desc: "knowledge"},
	{Value: string(CardTypeSpecial), Desc: "special"},
	{Value: string(CardTypeArtifact), Desc: "artifact"},
}

var _ types.BaseEnum = CardType("")

func (t CardType) IsValid() bool  { return cardTypes.Index(string(t)) != types.IllegalValue }
func (t CardType) Number() int    { return cardTypes.Index(string(t)) }
func (t CardType) String() string { return string(t) }
func (t CardType) Desc() string   { return cardTypes.Desc(string(t)) }
func (t CardType) Name() string {
	if !t.IsValid() {
		return types.IllegalName
	}
	return string(t)
}

// CardTypes lists every card type.
func CardTypes() []string { return cardTypes.Values() }

// CardRarity grades how rare a card is.
type CardRarity string

const (
	RarityCommon    CardRarity = "COMMON"
	RarityUncommon  CardRarity = "UNCOMMON"
	RarityRare      CardRarity = "RARE"
	RarityEpic      CardRarity = "EPIC"
	RarityLegendary CardRarity = "LEGENDARY"
)

var rarities = types.EnumSet{
	{Value: string(RarityCommon), Desc: "common"},
	{Value: string(RarityUncommon), Desc: "uncommon"},
	{Value: string(RarityRare), Desc: "rare"},
	{Value: string(RarityEpic), Desc: "epic"},
	{Value: string(RarityLegendary), Desc: "legendary"},
}

var _ types.BaseEnum = CardRarity("")

func (r CardRarity) IsValid() bool  { return rarities.Index(string(r)) != types.IllegalValue }
func (r CardRarity) Number() int    { return rarities.Index(string(r)) }
func (r CardRarity) String() string { return string(r) }
func (r CardRarity) Desc() string   { return rarities.Desc(string(r)) }
func (r CardRarity) Name() string {
	if !r.IsValid() {
		return types.IllegalName
	}
	return string(r)
}

// Card is a playable card.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:card" json:"-"`
	Base

	Name            string           `bun:"name,notnull" json:"name"`
	Description     string           `bun:"description,notnull" json:"description"`
	CardType        CardType         `bun:"card_type,notnull" json:"cardType"`
	Attribute       types.Attributes `bun:"attribute,type:text,notnull" json:"attribute"`
	StabilityValue  int              `bun:"stability_value,notnull" json:"stabilityValue"`
	ReactionEffect  *string          `bun:"reaction_effect" json:"reactionEffect"`
	EnergyCost      int              `bun:"energy_cost,notnull" json:"energyCost"`
	ImageURL        *string          `bun:"image_url" json:"imageUrl"`
	Rarity          *CardRarity      `bun:"rarity" json:"rarity"`
	EvolutionFromID *string          `bun:"evolution_from_id,type:varchar(36)" json:"evolutionFromId"`
}

// Clone returns a deep copy of c.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	out := *c
	out.DeletedAt = cloneTime(c.DeletedAt)
	out.Attribute = c.Attribute.Clone()
	out.ReactionEffect = cloneString(c.ReactionEffect)
	out.ImageURL = cloneString(c.ImageURL)
	out.EvolutionFromID = cloneString(c.EvolutionFromID)
	if c.Rarity != nil {
		r := *c.Rarity
		out.Rarity = &r
	}
	return &out
}

// CardInput is the payload for creating a card.
type CardInput struct {
	Name            string           `json:"name" validate:"required,min=1,max=100"`
	Description     string           `json:"description" validate:"required,min=1,max=500"`
	CardType        CardType         `json:"cardType" validate:"required,enum"`
	Attribute       types.Attributes `json:"attribute" validate:"required"`
	StabilityValue  int              `json:"stabilityValue" validate:"min=0,max=100"`
	ReactionEffect  *string          `json:"reactionEffect" validate:"omitempty,max=200"`
	EnergyCost      int              `json:"energyCost" validate:"min=0,max=10"`
	ImageURL        *string          `json:"imageUrl" validate:"omitempty,url"`
	Rarity          *CardRarity      `json:"rarity" validate:"omitempty,enum"`
	EvolutionFromID *string          `json:"evolutionFromId" validate:"omitempty,uuid"`
}

// NewCard builds an unsaved card from in. Identity and timestamps are left
// to the repository.
func (in *CardInput) NewCard() *Card {
	c := &Card{
		Name:            in.Name,
		Description:     in.Description,
		CardType:        in.CardType,
		Attribute:       in.Attribute.Clone(),
		StabilityValue:  in.StabilityValue,
		ReactionEffect:  cloneString(in.ReactionEffect),
		EnergyCost:      in.EnergyCost,
		ImageURL:        cloneString(in.ImageURL),
		EvolutionFromID: cloneString(in.EvolutionFromID),
	}
	if c.Attribute == nil {
		c.Attribute = types.Attributes{}
	}
	if in.Rarity != nil {
		r := *in.Rarity
		c.Rarity = &r
	}
	return c
}

// CardPatch is a partial card update. Nil pointers and unset optionals are
// left untouched.
type CardPatch struct {
	Name            *string                    `json:"name" validate:"omitempty,min=1,max=100"`
	Description     *string                    `json:"description" validate:"omitempty,min=1,max=500"`
	CardType        *CardType                  `json:"cardType" validate:"omitempty,enum"`
	Attribute       types.Attributes           `json:"attribute"`
	StabilityValue  *int                       `json:"stabilityValue" validate:"omitempty,min=0,max=100"`
	ReactionEffect  types.Optional[string]     `json:"reactionEffect" validate:"omitempty,max=200"`
	EnergyCost      *int                       `json:"energyCost" validate:"omitempty,min=0,max=10"`
	ImageURL        types.Optional[string]     `json:"imageUrl" validate:"omitempty,url"`
	Rarity          types.Optional[CardRarity] `json:"rarity" validate:"omitempty,enum"`
	EvolutionFromID types.Optional[string]     `json:"evolutionFromId" validate:"omitempty,uuid"`
}

// Columns returns the column values the patch writes.
func (p *CardPatch) Columns() softdelete.Data {
	data := softdelete.Data{}
	if p.Name != nil {
		data[ColumnName] = *p.Name
	}
	if p.Description != nil {
		data[ColumnDescription] = *p.Description
	}
	if p.CardType != nil {
		data[ColumnCardType] = *p.CardType
	}
	if p.Attribute != nil {
		data[ColumnAttribute] = p.Attribute.Clone()
	}
	if p.StabilityValue != nil {
		data[ColumnStabilityValue] = *p.StabilityValue
	}
	if p.ReactionEffect.IsSet() {
		data[ColumnReactionEffect] = p.ReactionEffect.Ptr()
	}
	if p.EnergyCost != nil {
		data[ColumnEnergyCost] = *p.EnergyCost
	}
	if p.ImageURL.IsSet() {
		data[ColumnImageURL] = p.ImageURL.Ptr()
	}
	if p.Rarity.IsSet() {
		data[ColumnRarity] = p.Rarity.Ptr()
	}
	if p.EvolutionFromID.IsSet() {
		data[ColumnEvolutionFromID] = p.EvolutionFromID.Ptr()
	}
	return data
}

// ApplyTo writes the patch onto c.
func (p *CardPatch) ApplyTo(c *Card) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.CardType != nil {
		c.CardType = *p.CardType
	}
	if p.Attribute != nil {
		c.Attribute = p.Attribute.Clone()
	}
	if p.StabilityValue != nil {
		c.StabilityValue = *p.StabilityValue
	}
	if p.ReactionEffect.IsSet() {
		c.ReactionEffect = p.ReactionEffect.Ptr()
	}
	if p.EnergyCost != nil {
		c.EnergyCost = *p.EnergyCost
	}
	if p.ImageURL.IsSet() {
		c.ImageURL = p.ImageURL.Ptr()
	}
	if p.Rarity.IsSet() {
		c.Rarity = p.Rarity.Ptr()
	}
	if p.EvolutionFromID.IsSet() {
		c.EvolutionFromID = p.EvolutionFromID.Ptr()
	}
}

// CardFilter narrows card listings. Zero fields match everything.
type CardFilter struct {
	CardType CardType
	Search   string
}

// Where converts the filter into predicates.
func (f CardFilter) Where() softdelete.Where {
	where := softdelete.Where{}
	if f.CardType != "" {
		where[ColumnCardType] = f.CardType
	}
	if f.Search != "" {
		where[ColumnName] = softdelete.Contains{Value: f.Search}
	}
	return where
}

// Matches reports whether c passes the filter.
func (f CardFilter) Matches(c *Card) bool {
	if f.CardType != "" && c.CardType != f.CardType {
		return false
	}
	return matchesSearch(c.Name, f.Search)
}
