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

package softdelete

import (
	"sort"
	"strings"
)

// Entity kinds that keep their rows when deleted.
const (
	ModelCard         = "card"
	ModelCustomer     = "customer"
	ModelAlchemyStyle = "alchemystyle"
	ModelReward       = "reward"
	ModelMapNode      = "mapnode"
	ModelMetaCurrency = "metacurrency"
	ModelMetaProgress = "metaprogress"
	ModelMetaSkill    = "metaskill"
	ModelGameSystem   = "gamesystem"
)

// Registry is an immutable set of entity kind keys. Lookups are
// case-insensitive.
type Registry struct {
	kinds map[string]struct{}
}

var defaultRegistry = NewRegistry(
	ModelCard,
	ModelCustomer,
	ModelAlchemyStyle,
	ModelReward,
	ModelMapNode,
	ModelMetaCurrency,
	ModelMetaProgress,
	ModelMetaSkill,
	ModelGameSystem,
)

// NewRegistry builds a registry from the given kind names. Blank names are
// ignored.
func NewRegistry(kinds ...string) *Registry {
	r := &Registry{kinds: make(map[string]struct{}, len(kinds))}
	for _, k := range kinds {
		k = normalize(k)
		if k == "" {
			continue
		}
		r.kinds[k] = struct{}{}
	}
	return r
}

// DefaultRegistry returns the registry of all soft-delete kinds.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Has reports whether name participates in soft delete. An empty name, or a
// nil registry, yields false.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	key := normalize(name)
	if key == "" {
		return false
	}
	_, ok := r.kinds[key]
	return ok
}

// Kinds returns the registered keys in lexical order.
func (r *Registry) Kinds() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsSoftDeleteModel checks name against the default registry.
func IsSoftDeleteModel(name string) bool {
	return defaultRegistry.Has(name)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
