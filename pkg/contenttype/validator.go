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
package contenttype

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	pascalCaseRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	camelCaseRe  = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	identCharsRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// maxTypeNameLength is the length past which a type name draws a warning.
const maxTypeNameLength = 50

// Validator runs the full validation pass over a proposed content-type
// definition: sanitization, duplicate analysis, naming conventions, field
// rules, primitive-type membership, relationship rules and suggestions.
// All checks run even when earlier ones find errors, because suggestions
// depend on duplicate analysis which is independent of naming problems.
type Validator struct {
	primitives *Catalog
	classifier *Classifier
	thresholds Thresholds
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithThresholds overrides the default duplicate-detection thresholds.
func WithThresholds(t Thresholds) ValidatorOption {
	return func(v *Validator) {
		v.thresholds = t
		v.classifier = NewClassifier(t)
	}
}

// NewValidator creates a validator over the injected primitive catalog.
func NewValidator(primitives *Catalog, opts ...ValidatorOption) *Validator {
	v := &Validator{
		primitives: primitives,
		thresholds: DefaultThresholds(),
	}
	v.classifier = NewClassifier(v.thresholds)
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks def against the existing-type snapshot and component
// catalog for the current website. The final verdict is Valid only when no
// errors were found AND the duplicate check did not match; both conditions
// gate persistence by the caller.
func (v *Validator) Validate(def Definition, existing []Definition, components []Component) Result {
	var res Result

	// 1. Sanitize the type name and every field name. A sanitization
	// failure is critical but does not abort the remaining checks.
	cleanName, dirty := sanitizeIdentifier(def.Name)
	if dirty {
		res.Errors = append(res.Errors, ValidationError{
			Field:    "name",
			Message:  fmt.Sprintf("type name %q contains disallowed characters", def.Name),
			Severity: SeverityCritical,
		})
	}
	for i, f := range def.Fields {
		if _, fieldDirty := sanitizeIdentifier(f.Name); fieldDirty {
			res.Errors = append(res.Errors, ValidationError{
				Field:    fmt.Sprintf("fields.%d.name", i),
				Message:  fmt.Sprintf("field name %q contains disallowed characters", f.Name),
				Severity: SeverityCritical,
			})
		}
	}

	// 2. Duplicate analysis against the existing-type snapshot.
	res.Duplicate = v.classifier.Check(def, existing)

	// 3. Type-name convention.
	v.checkTypeName(cleanName, def.Name, &res)

	// 4. Field rules.
	v.checkFields(def.Fields, &res)

	// 5. Primitive-type membership.
	v.checkPrimitives(def.Fields, &res)

	// 6. Relationship rules.
	v.checkRelationships(def.Relationships, existing, &res)

	// 7. Suggestions from duplicate analysis and component reuse.
	res.Suggestions = v.suggest(def, res.Duplicate, components)

	res.Valid = len(res.Errors) == 0 && !res.Duplicate.IsDuplicate
	return res
}

func (v *Validator) checkTypeName(clean, original string, res *Result) {
	if clean == "" {
		res.Errors = append(res.Errors, ValidationError{
			Field:    "name",
			Message:  "type name must not be empty",
			Severity: SeverityMedium,
		})
		return
	}
	if !pascalCaseRe.MatchString(clean) {
		res.Errors = append(res.Errors, ValidationError{
			Field:    "name",
			Message:  fmt.Sprintf("type name %q must be PascalCase (e.g. BlogPost)", original),
			Severity: SeverityMedium,
		})
	}
	if len(clean) > maxTypeNameLength {
		res.Warnings = append(res.Warnings, ValidationWarning{
			Field:   "name",
			Message: fmt.Sprintf("type name exceeds %d characters; consider a shorter name", maxTypeNameLength),
		})
	}
}

func (v *Validator) checkFields(fields []Field, res *Result) {
	if len(fields) == 0 {
		res.Errors = append(res.Errors, ValidationError{
			Field:    "fields",
			Message:  "a content type must declare at least one field",
			Severity: SeverityHigh,
		})
		return
	}

	seen := make(map[string]int, len(fields))
	hasTitle := false
	for i, f := range fields {
		key := strings.ToLower(f.Name)
		if key == "title" {
			hasTitle = true
		}
		if prev, dup := seen[key]; dup {
			res.Errors = append(res.Errors, ValidationError{
				Field:    fmt.Sprintf("fields.%d.name", i),
				Message:  fmt.Sprintf("field name %q duplicates field %d (names are case-insensitive)", f.Name, prev),
				Severity: SeverityHigh,
			})
		} else {
			seen[key] = i
		}
		if f.Name == "" || !camelCaseRe.MatchString(f.Name) {
			res.Errors = append(res.Errors, ValidationError{
				Field:    fmt.Sprintf("fields.%d.name", i),
				Message:  fmt.Sprintf("field name %q must be camelCase (e.g. publishDate)", f.Name),
				Severity: SeverityMedium,
			})
		}
	}

	if !hasTitle {
		res.Warnings = append(res.Warnings, ValidationWarning{
			Field:   "fields",
			Message: "no \"title\" field declared; editors rely on a title for listings",
		})
	}
}

func (v *Validator) checkPrimitives(fields []Field, res *Result) {
	for i, f := range fields {
		if _, ok := v.primitives.Lookup(f.Type); !ok {
			res.Errors = append(res.Errors, ValidationError{
				Field:    fmt.Sprintf("fields.%d.type", i),
				Message:  fmt.Sprintf("unknown field type %q; available types: %s", f.Type, strings.Join(v.primitives.Names(), ", ")),
				Severity: SeverityCritical,
			})
		}
	}
}

func (v *Validator) checkRelationships(rels []Relationship, existing []Definition, res *Result) {
	known := make(map[string]struct{}, len(existing))
	for _, ex := range existing {
		known[strings.ToLower(ex.Name)] = struct{}{}
	}

	for i, rel := range rels {
		if !rel.Type.IsValid() {
			res.Errors = append(res.Errors, ValidationError{
				Field:    fmt.Sprintf("relationships.%d.relationType", i),
				Message:  fmt.Sprintf("unknown relation type %q; must be one of oneToOne, oneToMany, manyToOne, manyToMany", rel.Type),
				Severity: SeverityHigh,
			})
		}
		// Forward references across a multi-step agent plan are legal,
		// so an unresolved target is only a warning.
		if _, ok := known[strings.ToLower(rel.TargetType)]; !ok {
			res.Warnings = append(res.Warnings, ValidationWarning{
				Field:   fmt.Sprintf("relationships.%d.targetType", i),
				Message: fmt.Sprintf("target type %q does not exist yet; create it before publishing", rel.TargetType),
			})
		}
	}
}

// suggest emits reuse/extend suggestions from the duplicate verdict and
// optimize suggestions for free-form fields that look like content areas or
// calls to action with a matching reusable component.
func (v *Validator) suggest(def Definition, dup DuplicateCheck, components []Component) []Suggestion {
	var out []Suggestion

	switch {
	case dup.IsDuplicate:
		out = append(out, Suggestion{
			Kind:         SuggestReuse,
			ExistingType: dup.MatchedType,
			Message:      fmt.Sprintf("reuse existing type %s instead of creating %s", dup.MatchedType, def.Name),
			Confidence:   int(dup.OverlapPercentage),
		})
	case dup.OverlapPercentage >= v.thresholds.ExtendOverlap:
		out = append(out, Suggestion{
			Kind:         SuggestExtend,
			ExistingType: dup.MatchedType,
			Message:      fmt.Sprintf("extend existing type %s with the missing fields instead of creating %s", dup.MatchedType, def.Name),
			Confidence:   int(dup.OverlapPercentage),
		})
	}

	for _, f := range def.Fields {
		prim, ok := v.primitives.Lookup(f.Type)
		if !ok || !prim.FreeForm() {
			continue
		}
		lower := strings.ToLower(f.Name)
		switch {
		case strings.Contains(lower, "content") || strings.Contains(lower, "body"):
			if comp, found := matchComponent(components, "content"); found {
				out = append(out, Suggestion{
					Kind:       SuggestOptimize,
					Component:  comp.Name,
					Field:      f.Name,
					Message:    fmt.Sprintf("field %q could use the reusable %s component instead of a raw %s field", f.Name, comp.Name, f.Type),
					Confidence: v.thresholds.ContentAreaConfidence,
				})
			}
		case strings.Contains(lower, "cta") || strings.Contains(lower, "calltoaction"):
			if comp, found := matchComponent(components, "cta"); found {
				out = append(out, Suggestion{
					Kind:       SuggestOptimize,
					Component:  comp.Name,
					Field:      f.Name,
					Message:    fmt.Sprintf("field %q could use the reusable %s component instead of a raw %s field", f.Name, comp.Name, f.Type),
					Confidence: v.thresholds.CTAConfidence,
				})
			}
		}
	}

	return out
}

// matchComponent finds a catalog component whose name or purpose mentions
// the given hint.
func matchComponent(components []Component, hint string) (Component, bool) {
	for _, c := range components {
		if strings.Contains(strings.ToLower(c.Name), hint) ||
			strings.Contains(strings.ToLower(c.Purpose), hint) {
			return c, true
		}
	}
	return Component{}, false
}

// sanitizeIdentifier strips characters outside [a-zA-Z0-9] and reports
// whether anything had to be stripped.
func sanitizeIdentifier(s string) (clean string, dirty bool) {
	clean = identCharsRe.ReplaceAllString(s, "")
	return clean, clean != s
}
