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

import "time"

// Rule names, in the order the interceptor applies them.
const (
	RuleDeleteToUpdate = "delete-to-update"
	RuleReadFilter     = "read-filter"
)

// Rule rewrites an operation on a soft-delete kind in place.
type Rule struct {
	Name  string
	Apply func(op *Operation, now time.Time)
}

// DefaultRules returns the delete rewrite followed by the read filter.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleDeleteToUpdate, Apply: rewriteDelete},
		{Name: RuleReadFilter, Apply: injectReadFilter},
	}
}

// Interceptor applies an ordered list of rules to every operation whose
// model is in its registry.
type Interceptor struct {
	registry *Registry
	rules    []Rule
	now      func() time.Time
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithRegistry replaces the default registry.
func WithRegistry(r *Registry) Option {
	return func(i *Interceptor) { i.registry = r }
}

// WithClock sets the source of deletion timestamps.
func WithClock(now func() time.Time) Option {
	return func(i *Interceptor) {
		if now != nil {
			i.now = now
		}
	}
}

// WithRules replaces the rule list.
func WithRules(rules ...Rule) Option {
	return func(i *Interceptor) { i.rules = rules }
}

// NewInterceptor returns an interceptor over the default registry and rules.
func NewInterceptor(opts ...Option) *Interceptor {
	i := &Interceptor{
		registry: defaultRegistry,
		rules:    DefaultRules(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Registry returns the registry the interceptor consults.
func (i *Interceptor) Registry() *Registry {
	return i.registry
}

// Rules returns the rule names in application order.
func (i *Interceptor) Rules() []string {
	names := make([]string, len(i.rules))
	for n, r := range i.rules {
		names[n] = r.Name
	}
	return names
}

// Apply runs every rule against op and returns it. Operations on kinds
// outside the registry, nil operations and unknown actions come back
// unchanged.
func (i *Interceptor) Apply(op *Operation) *Operation {
	if op == nil || !i.registry.Has(op.Model) {
		return op
	}
	now := i.now()
	for _, r := range i.rules {
		if r.Apply != nil {
			r.Apply(op, now)
		}
	}
	return op
}

func rewriteDelete(op *Operation, now time.Time) {
	switch op.Action {
	case ActionDelete:
		op.ensureArgs()
		op.Action = ActionUpdate
		op.Args.Data = Data{DeletedAtColumn: now}
		op.Args.Relations = nil
	case ActionDeleteMany:
		op.Action = ActionUpdateMany
		op.WithData(Data{DeletedAtColumn: now})
	}
}

func injectReadFilter(op *Operation, _ time.Time) {
	if !op.Action.IsRead() {
		return
	}
	op.WithWhere(Where{DeletedAtColumn: nil})
}
