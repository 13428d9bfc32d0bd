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

package types

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest selects one page of a listing. Page counts from 1.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest constructs a PageRequest.
func NewPageRequest(page, limit int) PageRequest {
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) GetPage() int {
	if p.Page < 1 {
		return DefaultPage
	}
	return p.Page
}

func (p PageRequest) GetLimit() int {
	if p.Limit < 1 {
		return DefaultLimit
	}
	return p.Limit
}

func (p PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetLimit()
}

// Pagination holds one page of items along with pagination metadata.
type Pagination[T any] struct {
	Items      []*T `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
}

// NewPagination builds the result for req, deriving TotalPages from total.
func NewPagination[T any](req PageRequest, total int, items []*T) *Pagination[T] {
	if items == nil {
		items = make([]*T, 0)
	}
	limit := req.GetLimit()
	return &Pagination[T]{
		Items:      items,
		Total:      total,
		Page:       req.GetPage(),
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](req PageRequest) *Pagination[T] {
	return NewPagination[T](req, 0, nil)
}
