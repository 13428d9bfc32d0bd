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
	"sort"
	"time"

	"github.com/tomoncle/atelier/repository"
	"github.com/tomoncle/atelier/types"
)

// Option configures an in-memory repository.
type Option func(*options)

type options struct {
	clock *repository.Clock
}

// WithClock shares a clock between repositories.
func WithClock(c *repository.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		o.clock = repository.NewClock()
	}
	return o
}

// newestFirst sorts by creation time descending, then id descending, the
// same order the database repositories use.
func newestFirst[T any](items []*T, created func(*T) time.Time, id func(*T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) > id(items[j])
	})
}

// paginate slices the sorted, filtered set for req.
func paginate[T any](req types.PageRequest, items []*T) *types.Pagination[T] {
	total := len(items)
	start := req.GetOffset()
	if start > total {
		start = total
	}
	end := start + req.GetLimit()
	if end > total {
		end = total
	}
	return types.NewPagination(req, total, items[start:end])
}
