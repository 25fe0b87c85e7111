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

	"github.com/xeipuuv/gojsonschema"
)

// ValidateParams validates params against schema and returns the parsed
// parameter map. Optional fields absent from the input are filled with
// their declared defaults. Validation is strict: every missing required
// field and every type mismatch yields one FieldError with a field path.
//
// The input map is never mutated; the returned map is a shallow copy.
func ValidateParams(toolName string, schema *JSONSchema, params map[string]interface{}) (map[string]interface{}, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	if schema == nil {
		return params, nil
	}
	schema = NormalizeSchema(schema)

	parsed := applyDefaults(schema, params)

	schemaJSON, err := schema.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("tool %s has an unserializable schema: %w", toolName, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(parsed),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed for tool %s: %w", toolName, err)
	}

	if !result.Valid() {
		verr := &ToolValidationError{Tool: toolName}
		for _, re := range result.Errors() {
			verr.Fields = append(verr.Fields, FieldError{
				Path:    fieldPath(re),
				Message: re.Description(),
			})
		}
		return nil, verr
	}

	return parsed, nil
}

// fieldPath resolves the offending field path for a schema violation.
// Required-property violations report the missing property itself rather
// than the containing object.
func fieldPath(re gojsonschema.ResultError) string {
	path := re.Field()
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			if path == "(root)" {
				return prop
			}
			return path + "." + prop
		}
	}
	return path
}

// applyDefaults returns a copy of params with declared defaults filled in
// for absent top-level and nested object properties.
func applyDefaults(schema *JSONSchema, params map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}

	for name, prop := range schema.Properties {
		val, present := out[name]
		if !present {
			if prop.Default != nil {
				out[name] = prop.Default
			}
			continue
		}
		// Recurse into nested objects so their defaults apply too.
		if prop.Type == "object" && len(prop.Properties) > 0 {
			if nested, ok := val.(map[string]interface{}); ok {
				out[name] = applyDefaults(prop, nested)
			}
		}
	}

	return out
}
