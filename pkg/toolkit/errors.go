// Copyright 2026 Sitesmith Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package toolkit

import (
	"fmt"
	"strings"
	"time"
)

// DuplicateToolError is returned by Registry.Register when a tool with the
// same name is already registered. Registering twice is a programmer error
// and is surfaced immediately, never deferred to execution time.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool already registered: %s", e.Name)
}

// FieldError describes a single schema violation with a field path.
type FieldError struct {
	// Path is the field path within the parameter object, e.g.
	// "definition.fields.0.name". "(root)" refers to the whole object.
	Path string

	// Message is a human-readable description of the violation.
	Message string
}

// ToolValidationError is returned when tool parameters fail schema
// validation. It indicates a caller (or agent) bug, not a runtime
// condition, and is never retried automatically.
type ToolValidationError struct {
	Tool   string
	Fields []FieldError
}

func (e *ToolValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Path, f.Message)
	}
	return fmt.Sprintf("invalid parameters for tool %s: %s", e.Tool, strings.Join(msgs, "; "))
}

// ToolExecutionError wraps an error thrown by the tool body itself.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s execution failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when a tool body did not settle within the
// configured bound. The body's eventual resolution is discarded.
type TimeoutError struct {
	Tool  string
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("tool %s timed out after %s", e.Tool, e.Limit)
}
