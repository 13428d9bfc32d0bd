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

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures independently of transport.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindDuplicate
	KindDependency
	KindValidation
	KindConfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindDependency:
		return "dependency"
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error codes reported to API clients.
const (
	CodeNotFound      = "RES_001"
	CodeDuplicate     = "RES_002"
	CodeDependency    = "RES_003"
	CodeValidation    = "VALID_001"
	CodeConfiguration = "REPO_003"
	CodeInternal      = "SYS_001"
)

// Code returns the client-facing code for the kind.
func (k ErrorKind) Code() string {
	switch k {
	case KindNotFound:
		return CodeNotFound
	case KindDuplicate:
		return CodeDuplicate
	case KindDependency:
		return CodeDependency
	case KindValidation:
		return CodeValidation
	case KindConfiguration:
		return CodeConfiguration
	default:
		return CodeInternal
	}
}

// Dependency names a live record that references the one being deleted.
type Dependency struct {
	Type         string `json:"type"`
	ResourceID   string `json:"resourceId"`
	ResourceName string `json:"resourceName"`
	Description  string `json:"description"`
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a typed failure carrying its kind, a code and optional details.
type Error struct {
	Kind         ErrorKind
	Code         string
	Message      string
	Dependencies []Dependency
	Fields       []FieldError
	Err          error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrNotFound      = &Error{Kind: KindNotFound, Code: CodeNotFound, Message: "resource not found"}
	ErrDuplicate     = &Error{Kind: KindDuplicate, Code: CodeDuplicate, Message: "resource already exists"}
	ErrDependency    = &Error{Kind: KindDependency, Code: CodeDependency, Message: "resource is referenced by other resources"}
	ErrValidation    = &Error{Kind: KindValidation, Code: CodeValidation, Message: "invalid input"}
	ErrConfiguration = &Error{Kind: KindConfiguration, Code: CodeConfiguration, Message: "invalid repository configuration"}
)

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: kind.Code(), Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that no live record of kind has the given id.
func NotFoundError(kind, id string) *Error {
	return newError(KindNotFound, "%s %s not found", kind, id)
}

// DuplicateError reports a name collision, optionally wrapping a storage error.
func DuplicateError(err error, format string, args ...any) *Error {
	e := newError(KindDuplicate, format, args...)
	e.Err = err
	return e
}

// DependencyError blocks a delete of a referenced record.
func DependencyError(kind, id string, deps []Dependency) *Error {
	e := newError(KindDependency, "%s %s is referenced by %d resource(s)", kind, id, len(deps))
	e.Dependencies = deps
	return e
}

// ValidationError reports malformed input.
func ValidationError(fields []FieldError, format string, args ...any) *Error {
	e := newError(KindValidation, format, args...)
	e.Fields = fields
	return e
}

// ConfigurationError reports an unusable setup detected at startup.
func ConfigurationError(format string, args ...any) *Error {
	return newError(KindConfiguration, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
