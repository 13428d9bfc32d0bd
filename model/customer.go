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
	"strings"

	"github.com/tomoncle/atelier/softdelete"
	"github.com/tomoncle/atelier/types"
	"github.com/uptrace/bun"
)

// KindCustomer is the entity kind key of customers.
const KindCustomer = softdelete.ModelCustomer

// RelationRewardCards is the many-to-many field linking customers to cards.
const RelationRewardCards = "rewardCards"

// Customer columns.
const (
	ColumnCustomerType       = "customer_type"
	ColumnDifficulty         = "difficulty"
	ColumnRequiredAttribute  = "required_attribute"
	ColumnQualityCondition   = "quality_condition"
	ColumnStabilityCondition = "stability_condition"
	ColumnRewardFame         = "reward_fame"
	ColumnRewardKnowledge    = "reward_knowledge"
	ColumnPortraitURL        = "portrait_url"
)

// Customer is a visitor who requests an item and pays out rewards.
type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:customer" json:"-"`
	Base

	Name               string           `bun:"name,notnull" json:"name"`
	Description        string           `bun:"description,notnull" json:"description"`
	CustomerType       string           `bun:"customer_type,notnull" json:"customerType"`
	Difficulty         int              `bun:"difficulty,notnull" json:"difficulty"`
	RequiredAttribute  types.Attributes `bun:"required_attribute,type:text,notnull" json:"requiredAttribute"`
	QualityCondition   int              `bun:"quality_condition,notnull" json:"qualityCondition"`
	StabilityCondition int              `bun:"stability_condition,notnull" json:"stabilityCondition"`
	RewardFame         int              `bun:"reward_fame,notnull" json:"rewardFame"`
	RewardKnowledge    int              `bun:"reward_knowledge,notnull" json:"rewardKnowledge"`
	PortraitURL        *string          `bun:"portrait_url" json:"portraitUrl"`

	// RewardCards is read back in link order. The in-memory store fills in
	// stubs carrying only the ID.
	RewardCards []*Card `bun:"-" json:"rewardCards"`
}

// RewardCardIDs lists the ids of the reward cards in order.
func (c *Customer) RewardCardIDs() []string {
	ids := make([]string, 0, len(c.RewardCards))
	for _, card := range c.RewardCards {
		ids = append(ids, card.ID)
	}
	return ids
}

// Clone returns a deep copy of c.
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	out := *c
	out.DeletedAt = cloneTime(c.DeletedAt)
	out.RequiredAttribute = c.RequiredAttribute.Clone()
	out.PortraitURL = cloneString(c.PortraitURL)
	if c.RewardCards != nil {
		out.RewardCards = make([]*Card, len(c.RewardCards))
		for i, card := range c.RewardCards {
			out.RewardCards[i] = card.Clone()
		}
	}
	return &out
}

// CustomerRewardCard is a row of the customer to reward card join table.
type CustomerRewardCard struct {
	bun.BaseModel `bun:"table:customer_reward_cards,alias:crc"`

	CustomerID string `bun:"customer_id,pk,type:varchar(36)"`
	CardID     string `bun:"card_id,pk,type:varchar(36)"`
	Position   int    `bun:"position,notnull"`
}

// CustomerInput is the payload for creating a customer.
type CustomerInput struct {
	Name               string           `json:"name" validate:"required,min=1,max=100"`
	Description        string           `json:"description" validate:"required,min=1,max=500"`
	CustomerType       string           `json:"customerType" validate:"required,min=1,max=50"`
	Difficulty         int              `json:"difficulty" validate:"min=1,max=5"`
	RequiredAttribute  types.Attributes `json:"requiredAttribute" validate:"required"`
	QualityCondition   int              `json:"qualityCondition" validate:"min=0,max=100"`
	StabilityCondition int              `json:"stabilityCondition" validate:"min=0,max=100"`
	RewardFame         int              `json:"rewardFame" validate:"min=0,max=1000"`
	RewardKnowledge    int              `json:"rewardKnowledge" validate:"min=0,max=1000"`
	PortraitURL        *string          `json:"portraitUrl" validate:"omitempty,url"`
	RewardCardIDs      []string         `json:"rewardCardIds" validate:"omitempty,dive,uuid"`
}

// NewCustomer builds an unsaved customer from in. Reward cards are linked
// separately by the repository.
func (in *CustomerInput) NewCustomer() *Customer {
	c := &Customer{
		Name:               in.Name,
		Description:        in.Description,
		CustomerType:       in.CustomerType,
		Difficulty:         in.Difficulty,
		RequiredAttribute:  in.RequiredAttribute.Clone(),
		QualityCondition:   in.QualityCondition,
		StabilityCondition: in.StabilityCondition,
		RewardFame:         in.RewardFame,
		RewardKnowledge:    in.RewardKnowledge,
		PortraitURL:        cloneString(in.PortraitURL),
	}
	if c.RequiredAttribute == nil {
		c.RequiredAttribute = types.Attributes{}
	}
	return c
}

// CustomerPatch is a partial customer update. A non-nil RewardCardIDs, even
// an empty one, replaces the whole reward set.
type CustomerPatch struct {
	Name               *string                `json:"name" validate:"omitempty,min=1,max=100"`
	Description        *string                `json:"description" validate:"omitempty,min=1,max=500"`
	CustomerType       *string                `json:"customerType" validate:"omitempty,min=1,max=50"`
	Difficulty         *int                   `json:"difficulty" validate:"omitempty,min=1,max=5"`
	RequiredAttribute  types.Attributes       `json:"requiredAttribute"`
	QualityCondition   *int                   `json:"qualityCondition" validate:"omitempty,min=0,max=100"`
	StabilityCondition *int                   `json:"stabilityCondition" validate:"omitempty,min=0,max=100"`
	RewardFame         *int                   `json:"rewardFame" validate:"omitempty,min=0,max=1000"`
	RewardKnowledge    *int                   `json:"rewardKnowledge" validate:"omitempty,min=0,max=1000"`
	PortraitURL        types.Optional[string] `json:"portraitUrl" validate:"omitempty,url"`
	RewardCardIDs      *[]string              `json:"rewardCardIds" validate:"omitempty,dive,uuid"`
}

// Columns returns the column values the patch writes. The reward set is
// handled as a relation write.
func (p *CustomerPatch) Columns() softdelete.Data {
	data := softdelete.Data{}
	if p.Name != nil {
		data[ColumnName] = *p.Name
	}
	if p.Description != nil {
		data[ColumnDescription] = *p.Description
	}
	if p.CustomerType != nil {
		data[ColumnCustomerType] = *p.CustomerType
	}
	if p.Difficulty != nil {
		data[ColumnDifficulty] = *p.Difficulty
	}
	if p.RequiredAttribute != nil {
		data[ColumnRequiredAttribute] = p.RequiredAttribute.Clone()
	}
	if p.QualityCondition != nil {
		data[ColumnQualityCondition] = *p.QualityCondition
	}
	if p.StabilityCondition != nil {
		data[ColumnStabilityCondition] = *p.StabilityCondition
	}
	if p.RewardFame != nil {
		data[ColumnRewardFame] = *p.RewardFame
	}
	if p.RewardKnowledge != nil {
		data[ColumnRewardKnowledge] = *p.RewardKnowledge
	}
	if p.PortraitURL.IsSet() {
		data[ColumnPortraitURL] = p.PortraitURL.Ptr()
	}
	return data
}

// ApplyTo writes the scalar fields of the patch onto c.
func (p *CustomerPatch) ApplyTo(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.CustomerType != nil {
		c.CustomerType = *p.CustomerType
	}
	if p.Difficulty != nil {
		c.Difficulty = *p.Difficulty
	}
	if p.RequiredAttribute != nil {
		c.RequiredAttribute = p.RequiredAttribute.Clone()
	}
	if p.QualityCondition != nil {
		c.QualityCondition = *p.QualityCondition
	}
	if p.StabilityCondition != nil {
		c.StabilityCondition = *p.StabilityCondition
	}
	if p.RewardFame != nil {
		c.RewardFame = *p.RewardFame
	}
	if p.RewardKnowledge != nil {
		c.RewardKnowledge = *p.RewardKnowledge
	}
	if p.PortraitURL.IsSet() {
		c.PortraitURL = p.PortraitURL.Ptr()
	}
}

// CustomerFilter narrows customer listings. Zero fields match everything.
type CustomerFilter struct {
	Difficulty int
	Search     string
}

// Where converts the filter into predicates.
func (f CustomerFilter) Where() softdelete.Where {
	where := softdelete.Where{}
	if f.Difficulty != 0 {
		where[ColumnDifficulty] = f.Difficulty
	}
	if f.Search != "" {
		where[ColumnName] = softdelete.Contains{Value: f.Search}
	}
	return where
}

// Matches reports whether c passes the filter.
func (f CustomerFilter) Matches(c *Customer) bool {
	if f.Difficulty != 0 && c.Difficulty != f.Difficulty {
		return false
	}
	return matchesSearch(c.Name, f.Search)
}

func matchesSearch(name, search string) bool {
	return search == "" || strings.Contains(name, search)
}
