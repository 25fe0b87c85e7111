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

	"github.com/sitesmith-labs/anvil/pkg/sitestore"
	"github.com/sitesmith-labs/anvil/pkg/toolkit"
)

// CreateWebsiteTool creates a website record.
func CreateWebsiteTool(store *sitestore.Store) *toolkit.Definition {
	return &toolkit.Definition{
		Name:        "create_website",
		Description: "Creates a new website and returns its id.",
		InputSchema: toolkit.NewObjectSchema(
			"Parameters for creating a website",
			map[string]*toolkit.JSONSchema{
				"name": toolkit.NewStringSchema("Display name of the website"),
			},
			[]string{"name"},
		),
		RequiresTransaction: true,
		Handler: func(ctx context.Context, params map[string]interface{}, ec *toolkit.ExecContext) (*toolkit.Result, error) {
			w, err := store.CreateWebsite(ctx, ec.Tx, stringParam(params, "name"))
			if err != nil {
				return nil, err
			}
			return &toolkit.Result{
				Success: true,
				Data: map[string]interface{}{
					"websiteId": w.ID,
					"name":      w.Name,
				},
			}, nil
		},
	}
}

// DeleteWebsiteTool deletes a website and everything belonging to it.
func DeleteWebsiteTool(store *sitestore.Store) *toolkit.Definition {
	return &toolkit.Definition{
		Name:        "delete_website",
		Description: "Deletes a website along with its content types, components, and entries.",
		InputSchema: toolkit.NewObjectSchema(
			"Parameters for deleting a website",
			map[string]*toolkit.JSONSchema{
				"website_id": toolkit.NewStringSchema("Id of the website to delete"),
			},
			[]string{"website_id"},
		),
		RequiresTransaction: true,
		Handler: func(ctx context.Context, params map[string]interface{}, ec *toolkit.ExecContext) (*toolkit.Result, error) {
			id := stringParam(params, "website_id")
			if err := store.DeleteWebsite(ctx, ec.Tx, id); err != nil {
				if errors.Is(err, sitestore.ErrNotFound) {
					return failure("WEBSITE_NOT_FOUND", "Website "+id+" not found",
						"Check the website id; it may already be deleted"), nil
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
