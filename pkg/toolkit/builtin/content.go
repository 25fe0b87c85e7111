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
	"errors"
	"fmt"

	"github.com/sitesmith-labs/anvil/pkg/contenttype"
	"github.com/sitesmith-labs/anvil/pkg/sitestore"
	"github.com/sitesmith-labs/anvil/pkg/toolkit"
)

// CreateContentTool creates a content entry, checking the entry against its
// declared content type and the injected primitive catalog before writing.
func CreateContentTool(store *sitestore.Store, primitives *contenttype.Catalog) *toolkit.Definition {
	return &toolkit.Definition{
		Name:        "create_content",
		Description: "Creates a content entry for an existing content type.",
		InputSchema: toolkit.NewObjectSchema(
			"Parameters for creating a content entry",
			map[string]*toolkit.JSONSchema{
				"website_id": toolkit.NewStringSchema("Id of the website"),
				"type_name":  toolkit.NewStringSchema("Name of the content type"),
				"values": toolkit.NewObjectSchema(
					"Field values keyed by field name", nil, nil),
			},
			[]string{"website_id", "type_name", "values"},
		),
		RequiresTransaction: true,
		Handler: func(ctx context.Context, params map[string]interface{}, ec *toolkit.ExecContext) (*toolkit.Result, error) {
			websiteID := stringParam(params, "website_id")
			typeName := stringParam(params, "type_name")
			values := mapParam(params, "values")

			def, err := store.GetContentType(ctx, websiteID, typeName)
			if err != nil {
				if errors.Is(err, sitestore.ErrNotFound) {
					return failure("TYPE_NOT_FOUND",
						fmt.Sprintf("Content type %s not found", typeName),
						"Create the content type first with create_content_type"), nil
				}
				return nil, err
			}

			if issues := contenttype.ValidateEntry(*def, primitives, values, nil); len(issues) > 0 {
				return &toolkit.Result{
					Success: false,
					Error: &toolkit.Error{
						Code:       "ENTRY_INVALID",
						Message:    fmt.Sprintf("Entry does not satisfy the %s schema", typeName),
						Details:    map[string]interface{}{"issues": issues},
						Suggestion: "Fix the listed fields and retry",
					},
				}, nil
			}

			e, err := store.CreateEntry(ctx, ec.Tx, websiteID, typeName, values)
			if err != nil {
				return nil, err
			}
			return &toolkit.Result{
				Success: true,
				Data: map[string]interface{}{
					"entryId":  e.ID,
					"typeName": e.TypeName,
				},
			}, nil
		},
	}
}

// UpdateContentTool replaces an entry's values.
func UpdateContentTool(store *sitestore.Store) *toolkit.Definition {
	return &toolkit.Definition{
		Name:        "update_content",
		Description: "Replaces the values of an existing content entry.",
		InputSchema: toolkit.NewObjectSchema(
			"Parameters for updating a content entry",
			map[string]*toolkit.JSONSchema{
				"entry_id": toolkit.NewStringSchema("Id of the entry to update"),
				"values": toolkit.NewObjectSchema(
					"Replacement field values keyed by field name", nil, nil),
			},
			[]string{"entry_id", "values"},
		),
		RequiresTransaction: true,
		Handler: func(ctx context.Context, params map[string]interface{}, ec *toolkit.ExecContext) (*toolkit.Result, error) {
			id := stringParam(params, "entry_id")
			if err := store.UpdateEntry(ctx, ec.Tx, id, mapParam(params, "values")); err != nil {
				if errors.Is(err, sitestore.ErrNotFound) {
					return failure("ENTRY_NOT_FOUND",
						fmt.Sprintf("Entry %s not found", id), ""), nil
				}
				return nil, err
			}
			return &toolkit.Result{
				Success: true,
				Data:    map[string]interface{}{"entryId": id},
			}, nil
		},
	}
}

// DeleteContentTool removes an entry.
func DeleteContentTool(store *sitestore.Store) *toolkit.Definition {
	return &toolkit.Definition{
		Name:        "delete_content",
		Description: "Deletes a content entry.",
		InputSchema: toolkit.NewObjectSchema(
			"Parameters for deleting a content entry",
			map[string]*toolkit.JSONSchema{
				"entry_id": toolkit.NewStringSchema("Id of the entry to delete"),
			},
			[]string{"entry_id"},
		),
		RequiresTransaction: true,
		Handler: func(ctx context.Context, params map[string]interface{}, ec *toolkit.ExecContext) (*toolkit.Result, error) {
			id := stringParam(params, "entry_id")
			if err := store.DeleteEntry(ctx, ec.Tx, id); err != nil {
				if errors.Is(err, sitestore.ErrNotFound) {
					return failure("ENTRY_NOT_FOUND",
						fmt.Sprintf("Entry %s not found", id), ""), nil
				}
				return nil, err
			}
			return &toolkit.Result{
				Success: true,
				Data:    map[string]interface{}{"deleted": id},
			}, nil
		},
	}
}
