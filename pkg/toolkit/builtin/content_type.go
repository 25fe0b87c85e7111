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
package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sitesmith-labs/anvil/pkg/contenttype"
	"github.com/sitesmith-labs/anvil/pkg/toolkit"
)

// fieldSchema describes one entry of the "fields" array parameter.
func fieldSchema() *toolkit.JSONSchema {
	return toolkit.NewObjectSchema(
		"One field of the content type",
		map[string]*toolkit.JSONSchema{
			"name":     toolkit.NewStringSchema("Field name in camelCase"),
			"type":     toolkit.NewStringSchema("Primitive type name"),
			"required": toolkit.NewBooleanSchema("Whether the field is mandatory").WithDefault(false),
		},
		[]string{"name", "type"},
	)
}

func relationshipSchema() *toolkit.JSONSchema {
	return toolkit.NewObjectSchema(
		"One relationship to another content type",
		map[string]*toolkit.JSONSchema{
			"name":         toolkit.NewStringSchema("Relationship name"),
			"relationType": toolkit.NewStringSchema("Cardinality").WithEnum("oneToOne", "oneToMany", "manyToOne", "manyToMany"),
			"targetType":   toolkit.NewStringSchema("Name of the target content type"),
		},
		[]string{"name", "relationType", "targetType"},
	)
}

// CreateContentTypeTool validates and persists a new content type. Creation
// is refused when validation fails or when the proposed type duplicates an
// existing one; the full validation report is returned either way. On
// success the cached prompt context for the website is refreshed.
func CreateContentTypeTool(deps Deps) *toolkit.Definition {
	return &toolkit.Definition{
		Name:        "create_content_type",
		Description: "Validates and creates a content type. Refuses duplicates of existing types and returns reuse or extend suggestions instead.",
		InputSchema: toolkit.NewObjectSchema(
			"Parameters for creating a content type",
			map[string]*toolkit.JSONSchema{
				"website_id": toolkit.NewStringSchema("Id of the website"),
				"name":       toolkit.NewStringSchema("Type name in PascalCase"),
				"category":   toolkit.NewStringSchema("Kind of type").WithEnum("page", "component").WithDefault("page"),
				"fields":     toolkit.NewArraySchema("Declared fields", fieldSchema()),
				"relationships": toolkit.NewArraySchema(
					"Relationships to other content types", relationshipSchema()),
			},
			[]string{"website_id", "name", "fields"},
		),
		RequiresTransaction: true,
		Handler: func(ctx context.Context, params map[string]interface{}, ec *toolkit.ExecContext) (*toolkit.Result, error) {
			websiteID := stringParam(params, "website_id")

			def, err := decodeDefinition(params)
			if err != nil {
				return failure("INVALID_DEFINITION", err.Error(),
					"Check the fields and relationships arrays against the tool schema"), nil
			}

			existing, err := deps.Store.LoadContentTypes(ctx, websiteID)
			if err != nil {
				return nil, err
			}
			components, err := deps.Store.LoadReusableComponents(ctx, websiteID)
			if err != nil {
				return nil, err
			}

			report := deps.Validator.Validate(def, existing, components)
			if !report.Valid {
				return &toolkit.Result{
					Success: false,
					Error: &toolkit.Error{
						Code:       refusalCode(report),
						Message:    refusalMessage(def.Name, report),
						Details:    reportDetails(report),
						Suggestion: firstSuggestion(report),
					},
				}, nil
			}

			if err := deps.Store.SaveContentType(ctx, ec.Tx, websiteID, def); err != nil {
				return nil, err
			}

			if deps.Builder != nil {
				if _, err := deps.Builder.RefreshWithNewType(ctx, websiteID, def.Name, &def); err != nil {
					return nil, fmt.Errorf("refresh context after creating %s: %w", def.Name, err)
				}
			}

			return &toolkit.Result{
				Success: true,
				Data: map[string]interface{}{
					"contentType": def,
					"warnings":    report.Warnings,
					"suggestions": report.Suggestions,
				},
			}, nil
		},
	}
}

// ListContentTypesTool lists the content types of a website.
func ListContentTypesTool(store interface {
	LoadContentTypes(ctx context.Context, websiteID string) ([]contenttype.Definition, error)
}) *toolkit.Definition {
	return &toolkit.Definition{
		Name:        "list_content_types",
		Description: "Lists the content types defined for a website.",
		InputSchema: toolkit.NewObjectSchema(
			"Parameters for listing content types",
			map[string]*toolkit.JSONSchema{
				"website_id": toolkit.NewStringSchema("Id of the website"),
			},
			[]string{"website_id"},
		),
		Handler: func(ctx context.Context, params map[string]interface{}, ec *toolkit.ExecContext) (*toolkit.Result, error) {
			defs, err := store.LoadContentTypes(ctx, stringParam(params, "website_id"))
			if err != nil {
				return nil, err
			}
			return &toolkit.Result{
				Success: true,
				Data: map[string]interface{}{
					"contentTypes": defs,
					"count":        len(defs),
				},
			}, nil
		},
	}
}

// decodeDefinition maps the tool parameters onto a contenttype.Definition
// via a JSON round trip so field tags drive the conversion.
func decodeDefinition(params map[string]interface{}) (contenttype.Definition, error) {
	raw := map[string]interface{}{
		"name":          params["name"],
		"category":      params["category"],
		"fields":        params["fields"],
		"relationships": params["relationships"],
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return contenttype.Definition{}, fmt.Errorf("encode definition: %w", err)
	}
	var def contenttype.Definition
	if err := json.Unmarshal(buf, &def); err != nil {
		return contenttype.Definition{}, fmt.Errorf("decode definition: %w", err)
	}
	if def.Category == "" {
		def.Category = contenttype.CategoryPage
	}
	return def, nil
}

func refusalCode(report contenttype.Result) string {
	if report.Duplicate.IsDuplicate {
		return "DUPLICATE_CONTENT_TYPE"
	}
	return "CONTENT_TYPE_INVALID"
}

func refusalMessage(name string, report contenttype.Result) string {
	if report.Duplicate.IsDuplicate {
		return fmt.Sprintf("Content type %s duplicates existing type %s", name, report.Duplicate.MatchedType)
	}
	return fmt.Sprintf("Content type %s failed validation with %d error(s)", name, len(report.Errors))
}

func reportDetails(report contenttype.Result) map[string]interface{} {
	return map[string]interface{}{
		"errors":         report.Errors,
		"warnings":       report.Warnings,
		"suggestions":    report.Suggestions,
		"duplicateCheck": report.Duplicate,
	}
}

func firstSuggestion(report contenttype.Result) string {
	if len(report.Suggestions) > 0 {
		return report.Suggestions[0].Message
	}
	if len(report.Errors) > 0 {
		return report.Errors[0].Message
	}
	return ""
}
