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
	"github.com/tomoncle/atelier/repository"
	"github.com/tomoncle/atelier/softdelete"
)

// Option configures a database repository.
type Option func(*options)

type options struct {
	clock       *repository.Clock
	interceptor *softdelete.Interceptor
}

// WithClock sets the clock used for timestamps and deletion marks.
func WithClock(c *repository.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithInterceptor replaces the default soft-delete interceptor.
func WithInterceptor(i *softdelete.Interceptor) Option {
	return func(o *options) {
		if i != nil {
			o.interceptor = i
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
	if o.interceptor == nil {
		o.interceptor = softdelete.NewInterceptor(softdelete.WithClock(o.clock.Now))
	}
	return o
}
