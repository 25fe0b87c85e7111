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

// Package contenttype validates proposed content-type definitions and
// classifies them against the already-existing catalog so the agent cannot
// invent near-duplicate schema objects.
package contenttype

// Category distinguishes page types from reusable component types.
type Category string

const (
	CategoryPage      Category = "page"
	CategoryComponent Category = "component"
)

// Field is one declared field of a content type.
type Field struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
	// Validation holds optional per-field constraints keyed by constraint
	// name (e.g. "maxLength"). Interpreted by the primitive descriptors.
	Validation map[string]interface{} `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// RelationType enumerates the supported relationship cardinalities.
type RelationType string

const (
	OneToOne   RelationType = "oneToOne"
	OneToMany  RelationType = "oneToMany"
	ManyToOne  RelationType = "manyToOne"
	ManyToMany RelationType = "manyToMany"
)

// IsValid reports whether rt is one of the supported cardinalities.
func (rt RelationType) IsValid() bool {
	switch rt {
	case OneToOne, OneToMany, ManyToOne, ManyToMany:
		return true
	}
	return false
}

// Relationship links a content type to another type.
type Relationship struct {
	Name       string       `json:"name" yaml:"name"`
	Type       RelationType `json:"relationType" yaml:"relationType"`
	TargetType string       `json:"targetType" yaml:"targetType"`
}

// Definition is a proposed content-type schema. It is constructed by the
// caller, consumed by the validator, and never persisted by this package.
type Definition struct {
	Name          string         `json:"name" yaml:"name"`
	Category      Category       `json:"category" yaml:"category"`
	Fields        []Field        `json:"fields" yaml:"fields"`
	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

// Component is a reusable component from the existing catalog, matched by
// the optimize-suggestion heuristic.
type Component struct {
	Name    string `json:"name" yaml:"name"`
	Purpose string `json:"purpose" yaml:"purpose"`
}

// Severity ranks validation errors.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// ValidationError is a blocking issue with a proposed definition.
type ValidationError struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidationWarning is a non-blocking usability hint.
type ValidationWarning struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SuggestionKind enumerates the suggestion categories.
type SuggestionKind string

const (
	SuggestReuse    SuggestionKind = "reuse"
	SuggestExtend   SuggestionKind = "extend"
	SuggestRename   SuggestionKind = "rename"
	SuggestOptimize SuggestionKind = "optimize"
)

// Suggestion points the agent at an existing type or component it should
// consider instead of (or alongside) the proposed definition.
type Suggestion struct {
	Kind         SuggestionKind `json:"type"`
	ExistingType string         `json:"existingType,omitempty"`
	Component    string         `json:"component,omitempty"`
	Field        string         `json:"field,omitempty"`
	Message      string         `json:"message"`
	// Confidence is a 0-100 heuristic estimate.
	Confidence int `json:"confidence"`
}

// Recommendation is the duplicate classifier's verdict.
type Recommendation string

const (
	UseExisting    Recommendation = "use_existing"
	ExtendExisting Recommendation = "extend_existing"
	CreateNew      Recommendation = "create_new"
)

// DuplicateCheck is the outcome of duplicate analysis. Computed fresh on
// every validation call, never cached across calls.
type DuplicateCheck struct {
	IsDuplicate bool `json:"isDuplicate"`
	// MatchType names the heuristic that matched: "exact_name",
	// "semantic_group" or "field_overlap". Empty when nothing matched.
	MatchType   string `json:"matchType,omitempty"`
	MatchedType string `json:"matchedType,omitempty"`
	// OverlapPercentage is 0-100.
	OverlapPercentage float64        `json:"overlapPercentage"`
	Recommendation    Recommendation `json:"recommendation"`
}

// Result is the full validation outcome. Valid is false when any error was
// found or when the duplicate check matched; a definition with zero errors
// can still be invalid solely due to duplication.
type Result struct {
	Valid       bool                `json:"isValid"`
	Errors      []ValidationError   `json:"errors,omitempty"`
	Warnings    []ValidationWarning `json:"warnings,omitempty"`
	Suggestions []Suggestion        `json:"suggestions,omitempty"`
	Duplicate   DuplicateCheck      `json:"duplicateCheck"`
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
