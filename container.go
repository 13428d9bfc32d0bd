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

package atelier

import (
	"strings"

	"github.com/tomoncle/atelier/repository"
	"github.com/tomoncle/atelier/repository/memory"
	"github.com/tomoncle/atelier/repository/persistent"
	"github.com/tomoncle/atelier/types"
	"github.com/tomoncle/atelier/utils"
	"github.com/uptrace/bun"
)

// Backend selects the repository implementation.
type Backend string

const (
	BackendPersistent Backend = "persistent"
	BackendMemory     Backend = "memory"
)

// RepositoryTypeEnv names the environment variable read by NewContainerFromEnv.
const RepositoryTypeEnv = "REPOSITORY_TYPE"

var log = utils.NewLogger("CONTAINER")

// ParseBackend maps a configured value onto a Backend. Empty means
// persistent; "database" and "prisma" are accepted as aliases of it.
func ParseBackend(value string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(BackendPersistent), "database", "prisma":
		return BackendPersistent, nil
	case string(BackendMemory):
		return BackendMemory, nil
	default:
		return "", types.ConfigurationError("unknown repository type %q", value)
	}
}

// Container holds one repository per entity, all from the same backend.
type Container struct {
	Backend   Backend
	Cards     repository.CardRepository
	Customers repository.CustomerRepository
}

// NewContainer builds the repositories for backend. The persistent backend
// requires db; the memory backend ignores it.
func NewContainer(backend string, db *bun.DB) (*Container, error) {
	b, err := ParseBackend(backend)
	if err != nil {
		return nil, err
	}
	clock := repository.NewClock()
	c := &Container{Backend: b}
	switch b {
	case BackendMemory:
		c.Cards = memory.NewCardRepository(memory.WithClock(clock))
		c.Customers = memory.NewCustomerRepository(memory.WithClock(clock))
	default:
		if db == nil {
			return nil, types.ConfigurationError("repository type %q needs a database connection", b)
		}
		c.Cards = persistent.NewCardRepository(db, persistent.WithClock(clock))
		c.Customers = persistent.NewCustomerRepository(db, persistent.WithClock(clock))
	}
	log.WithField("backend", b).Info("repositories ready")
	return c, nil
}

// NewContainerFromEnv reads the backend from REPOSITORY_TYPE.
func NewContainerFromEnv(db *bun.DB) (*Container, error) {
	return NewContainer(utils.EnvDefaultString(RepositoryTypeEnv, ""), db)
}

// Clear wipes repositories that support it. Persistent repositories are left
// alone.
func (c *Container) Clear() {
	for _, r := range []interface{}{c.Cards, c.Customers} {
		if clearer, ok := r.(repository.Clearer); ok {
			clearer.Clear()
		}
	}
}
