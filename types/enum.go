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

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// EnumEntry describes one member of a string enum.
type EnumEntry struct {
	Value string
	Desc  string
}

// EnumSet is an ordered table of string enum members.
type EnumSet []EnumEntry

// Index returns the position of value, or IllegalValue.
func (s EnumSet) Index(value string) int {
	for i, e := range s {
		if e.Value == value {
			return i
		}
	}
	return IllegalValue
}

// Desc returns the description of value, or IllegalDesc.
func (s EnumSet) Desc(value string) string {
	if i := s.Index(value); i != IllegalValue {
		return s[i].Desc
	}
	return IllegalDesc
}

// Values lists the member values in order.
func (s EnumSet) Values() []string {
	out := make([]string, len(s))
	for i, e := range s {
		out[i] = e.Value
	}
	return out
}
