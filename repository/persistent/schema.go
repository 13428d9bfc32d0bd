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

package persistent

import (
	"context"

	"github.com/tomoncle/atelier/database"
	"github.com/tomoncle/atelier/model"
)

// Models returns the tables backing the repositories, cards first.
func Models() *database.ModelRegistry {
	return database.NewModelRegistry(
		database.NewModelAdapter((*model.Card)(nil), 10),
		database.NewModelAdapter((*model.Customer)(nil), 20),
		database.NewModelAdapter((*model.CustomerRewardCard)(nil), 30),
	)
}

// Indexes returns the lookup indexes the repositories query by.
func Indexes() []database.IndexSpec {
	return []database.IndexSpec{
		{Model: (*model.Card)(nil), Name: "idx_cards_name", Columns: []string{model.ColumnName}},
		{Model: (*model.Card)(nil), Name: "idx_cards_card_type", Columns: []string{model.ColumnCardType}},
		{Model: (*model.Card)(nil), Name: "idx_cards_evolution_from_id", Columns: []string{model.ColumnEvolutionFromID}},
		{Model: (*model.Customer)(nil), Name: "idx_customers_name", Columns: []string{model.ColumnName}},
		{Model: (*model.Customer)(nil), Name: "idx_customers_difficulty", Columns: []string{model.ColumnDifficulty}},
		{Model: (*model.CustomerRewardCard)(nil), Name: "idx_customer_reward_cards_card_id", Columns: []string{"card_id"}},
	}
}

// Migrate creates the repository tables and indexes on m.
func Migrate(ctx context.Context, m *database.Manager) error {
	return m.Migrate(ctx, Models(), Indexes()...)
}
