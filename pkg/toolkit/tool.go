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
	"context"
	"encoding/json"
)

// Definition describes a tool the agent may invoke: a named, schema-validated,
// possibly transactional operation. Definitions are registered once and are
// immutable afterwards; the Registry owns them.
type Definition struct {
	// Name is the tool's unique identifier within a registry.
	Name string

	// Description is a human-readable description for LLM context.
	Description string

	// InputSchema declares the JSON Schema for tool parameters.
	// A nil schema means the tool accepts any parameters.
	InputSchema *JSONSchema

	// RequiresTransaction marks tools that mutate persisted state. The
	// executor opens a transaction scope around the handler and forwards
	// the handle via ExecContext; the handle is only valid for the
	// duration of the call.
	RequiresTransaction bool

	// Handler is the tool body. It must respect ctx cancellation so that
	// timed-out invocations release their resources.
	Handler func(ctx context.Context, params map[string]interface{}, ec *ExecContext) (*Result, error)
}

// Tx is an opaque transaction handle owned by a TransactionManager.
// Tool handlers forward it to store methods; they never commit or roll
// back themselves.
type Tx interface{}

// TransactionManager is the transactional persistence capability the
// executor consumes. WithTransaction invokes fn with a live transaction
// handle, commits when fn returns nil and rolls back when fn returns an
// error or the context is canceled.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// ExecContext carries per-invocation state into a tool handler. It is
// created by the executor for a single call and never retained.
type ExecContext struct {
	// Tx is non-nil only for definitions that declare RequiresTransaction.
	Tx Tx
}

// Result represents the outcome of a tool execution.
type Result struct {
	// Success indicates if the tool executed successfully.
	Success bool

	// Data contains the result data (format varies by tool).
	Data interface{}

	// Error contains structured error information if execution failed.
	Error *Error

	// Metadata contains invocation metadata. The executor always sets
	// "tool_name"; validate-only runs additionally set "validated".
	Metadata map[string]interface{}

	// ExecutionTimeMs is wall-clock time from entry to exit of Execute.
	ExecutionTimeMs int64

	// ToolName echoes the invoked tool's name.
	ToolName string
}

// Error represents a tool execution error with structured information.
type Error struct {
	// Code is a machine-readable error code.
	Code string

	// Message is a human-readable error message.
	Message string

	// Details provides additional error context.
	Details map[string]interface{}

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion provides a hint for fixing the error, surfaced to the
	// agent for self-correction.
	Suggestion string
}

// JSONSchema represents a JSON Schema for tool parameters, following the
// JSON Schema spec for type definitions.
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Enum        []interface{}          `json:"enum,omitempty"`
	Default     interface{}            `json:"default,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty"`
	Maximum     *float64               `json:"maximum,omitempty"`
	MinLength   *int                   `json:"minLength,omitempty"`
	MaxLength   *int                   `json:"maxLength,omitempty"`
}

// ToJSON converts the schema to JSON bytes.
func (s *JSONSchema) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// NewObjectSchema creates a new object schema with the given properties.
func NewObjectSchema(description string, properties map[string]*JSONSchema, required []string) *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: description,
		Properties:  properties,
		Required:    required,
	}
}

// NewStringSchema creates a new string schema.
func NewStringSchema(description string) *JSONSchema {
	return &JSONSchema{
		Type:        "string",
		Description: description,
	}
}

// NewNumberSchema creates a new number schema.
func NewNumberSchema(description string) *JSONSchema {
	return &JSONSchema{
		Type:        "number",
		Description: description,
	}
}

// NewBooleanSchema creates a new boolean schema.
func NewBooleanSchema(description string) *JSONSchema {
	return &JSONSchema{
		Type:        "boolean",
		Description: description,
	}
}

// NewArraySchema creates a new array schema.
func NewArraySchema(description string, items *JSONSchema) *JSONSchema {
	return &JSONSchema{
		Type:        "array",
		Description: description,
		Items:       items,
	}
}

// WithEnum adds enum values to the schema.
func (s *JSONSchema) WithEnum(values ...interface{}) *JSONSchema {
	s.Enum = values
	return s
}

// WithDefault adds a default value to the schema.
func (s *JSONSchema) WithDefault(value interface{}) *JSONSchema {
	s.Default = value
	return s
}

// WithPattern adds a pattern constraint to the schema.
func (s *JSONSchema) WithPattern(pattern string) *JSONSchema {
	s.Pattern = pattern
	return s
}

// WithRange adds min/max constraints to the schema.
func (s *JSONSchema) WithRange(min, max *float64) *JSONSchema {
	s.Minimum = min
	s.Maximum = max
	return s
}

// NormalizeSchema ensures a JSON Schema is structurally complete before
// validation: object types get non-nil properties, missing types are
// inferred from structure, nested schemas are normalized recursively.
func NormalizeSchema(schema *JSONSchema) *JSONSchema {
	if schema == nil {
		return nil
	}

	if schema.Type == "object" {
		if schema.Properties == nil {
			schema.Properties = make(map[string]*JSONSchema)
		}
		for key, prop := range schema.Properties {
			schema.Properties[key] = NormalizeSchema(prop)
		}
	}

	if schema.Type == "array" && schema.Items != nil {
		schema.Items = NormalizeSchema(schema.Items)
	}

	if schema.Type == "" {
		switch {
		case schema.Properties != nil:
			schema.Type = "object"
			for key, prop := range schema.Properties {
				schema.Properties[key] = NormalizeSchema(prop)
			}
		case schema.Items != nil:
			schema.Type = "array"
			schema.Items = NormalizeSchema(schema.Items)
		case len(schema.Enum) > 0:
			schema.Type = "string"
		}
	}

	return schema
}
