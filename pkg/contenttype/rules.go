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

import "fmt"

// Condition is an explicit custom-rule predicate over an entry's field
// values. Conditions are a small closed AST; there is no string grammar to
// parse and no way to express an unknown operator.
type Condition interface {
	// Holds evaluates the condition against an entry's field values.
	Holds(values map[string]interface{}) bool
	// String renders the condition for diagnostics.
	String() string
}

// Exists holds when the field is present and non-nil.
type Exists struct {
	Field string
}

func (c Exists) Holds(values map[string]interface{}) bool {
	v, ok := values[c.Field]
	return ok && v != nil
}

func (c Exists) String() string { return fmt.Sprintf("%s exists", c.Field) }

// Equals holds when the field equals the expected value.
type Equals struct {
	Field string
	Value interface{}
}

func (c Equals) Holds(values map[string]interface{}) bool {
	v, ok := values[c.Field]
	if !ok {
		return false
	}
	if a, aok := asNumber(v); aok {
		if b, bok := asNumber(c.Value); bok {
			return a == b
		}
	}
	return v == c.Value
}

func (c Equals) String() string { return fmt.Sprintf("%s == %v", c.Field, c.Value) }

// GreaterThan holds when the field is numeric and exceeds Value.
type GreaterThan struct {
	Field string
	Value float64
}

func (c GreaterThan) Holds(values map[string]interface{}) bool {
	n, ok := asNumber(values[c.Field])
	return ok && n > c.Value
}

func (c GreaterThan) String() string { return fmt.Sprintf("%s > %v", c.Field, c.Value) }

// LessThan holds when the field is numeric and is below Value.
type LessThan struct {
	Field string
	Value float64
}

func (c LessThan) Holds(values map[string]interface{}) bool {
	n, ok := asNumber(values[c.Field])
	return ok && n < c.Value
}

func (c LessThan) String() string { return fmt.Sprintf("%s < %v", c.Field, c.Value) }

// Rule pairs a condition with the message reported when it does not hold.
type Rule struct {
	Name    string
	When    Condition
	Message string
}

// EntryIssue is a single problem found in an entry's field values.
type EntryIssue struct {
	Field   string
	Message string
}

// ValidateEntry checks an entry's field values against its content-type
// definition and any custom rules: required fields must be present, values
// must match their field's primitive type, and every rule condition must
// hold. Issues are data, not errors; the caller decides whether to block.
func ValidateEntry(def Definition, catalog *Catalog, values map[string]interface{}, rules []Rule) []EntryIssue {
	var issues []EntryIssue

	declared := make(map[string]Field, len(def.Fields))
	for _, f := range def.Fields {
		declared[f.Name] = f
		v, present := values[f.Name]
		if f.Required && (!present || v == nil) {
			issues = append(issues, EntryIssue{
				Field:   f.Name,
				Message: "required field is missing",
			})
			continue
		}
		if !present || v == nil {
			continue
		}
		if msg, ok := checkValueKind(catalog, f.Type, v); !ok {
			issues = append(issues, EntryIssue{Field: f.Name, Message: msg})
		}
	}

	for name := range values {
		if _, ok := declared[name]; !ok {
			issues = append(issues, EntryIssue{
				Field:   name,
				Message: fmt.Sprintf("field is not declared on type %s", def.Name),
			})
		}
	}

	for _, rule := range rules {
		if !rule.When.Holds(values) {
			msg := rule.Message
			if msg == "" {
				msg = fmt.Sprintf("rule %s violated: %s", rule.Name, rule.When)
			}
			issues = append(issues, EntryIssue{Field: rule.Name, Message: msg})
		}
	}

	return issues
}

// checkValueKind verifies a value is representable by the named primitive.
func checkValueKind(catalog *Catalog, typeName string, v interface{}) (string, bool) {
	prim, ok := catalog.Lookup(typeName)
	if !ok {
		return fmt.Sprintf("unknown field type %q", typeName), false
	}

	switch prim.(type) {
	case TextType, LongTextType:
		if _, ok := v.(string); !ok {
			return fmt.Sprintf("expected a string for %s field", typeName), false
		}
	case NumberType, DecimalType:
		if _, ok := asNumber(v); !ok {
			return fmt.Sprintf("expected a number for %s field", typeName), false
		}
	case BooleanType:
		if _, ok := v.(bool); !ok {
			return "expected a boolean", false
		}
	case DateType:
		if _, ok := v.(string); !ok {
			return "expected an ISO-8601 date string", false
		}
	case JsonType:
		// Any JSON-representable value is acceptable.
	}
	return "", true
}

// asNumber coerces the numeric types JSON decoding and Go literals produce.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
