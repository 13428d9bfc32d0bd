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

// DeletedAtColumn is the nullable timestamp column marking a row as deleted.
const DeletedAtColumn = "deleted_at"

// Action classifies a storage operation.
type Action string

const (
	ActionCreate     Action = "create"
	ActionFindUnique Action = "findUnique"
	ActionFindFirst  Action = "findFirst"
	ActionFindMany   Action = "findMany"
	ActionUpdate     Action = "update"
	ActionUpdateMany Action = "updateMany"
	ActionDelete     Action = "delete"
	ActionDeleteMany Action = "deleteMany"
	ActionCount      Action = "count"
)

// IsRead reports whether the action only reads rows.
func (a Action) IsRead() bool {
	switch a {
	case ActionFindUnique, ActionFindFirst, ActionFindMany, ActionCount:
		return true
	}
	return false
}

// Where maps a column to a predicate value:
//   - nil matches NULL
//   - Contains matches a substring
//   - []string matches any of the listed values
//   - anything else matches by equality
type Where map[string]any

// Data maps a column to the value it is set to.
type Data map[string]any

// Contains is a substring predicate for text columns.
type Contains struct {
	Value string
}

// RelationMode selects how a list-valued relation is written.
type RelationMode int

const (
	// RelationConnect adds links to the owner, used at create time.
	RelationConnect RelationMode = iota
	// RelationSet replaces all links of the owner.
	RelationSet
)

func (m RelationMode) String() string {
	if m == RelationSet {
		return "set"
	}
	return "connect"
}

// RelationWrite describes a mutation of a many-to-many relation field.
type RelationWrite struct {
	Field string
	Mode  RelationMode
	IDs   []string
}

// Args carries the arguments of an operation.
type Args struct {
	Where     Where
	Data      Data
	Skip      int
	Take      int
	OrderBy   []string
	Relations []RelationWrite
}

// Operation describes a single storage call before it reaches the driver.
type Operation struct {
	Action Action
	Model  string
	Args   *Args
}

// NewOperation returns an operation with initialised args.
func NewOperation(action Action, model string) *Operation {
	return &Operation{Action: action, Model: model, Args: &Args{}}
}

// WithWhere merges predicates into the operation filter.
func (op *Operation) WithWhere(where Where) *Operation {
	op.ensureArgs()
	if op.Args.Where == nil {
		op.Args.Where = make(Where, len(where))
	}
	for k, v := range where {
		op.Args.Where[k] = v
	}
	return op
}

// WithData merges values into the operation write-set.
func (op *Operation) WithData(data Data) *Operation {
	op.ensureArgs()
	if op.Args.Data == nil {
		op.Args.Data = make(Data, len(data))
	}
	for k, v := range data {
		op.Args.Data[k] = v
	}
	return op
}

// WithRelation appends a relation write.
func (op *Operation) WithRelation(rw RelationWrite) *Operation {
	op.ensureArgs()
	op.Args.Relations = append(op.Args.Relations, rw)
	return op
}

func (op *Operation) ensureArgs() {
	if op.Args == nil {
		op.Args = &Args{}
	}
}
