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

// Package builtin provides the website-builder tool set: website and
// content lifecycle plus schema-gated content-type creation.
package builtin

import (
	"github.com/sitesmith-labs/anvil/pkg/contenttype"
	"github.com/sitesmith-labs/anvil/pkg/promptctx"
	"github.com/sitesmith-labs/anvil/pkg/sitestore"
	"github.com/sitesmith-labs/anvil/pkg/toolkit"
)

// Deps carries the capabilities the builtin tools close over.
type Deps struct {
	Store     *sitestore.Store
	Validator *contenttype.Validator
	Builder   *promptctx.Builder

	// Primitives is the field-type catalog entries are checked against.
	// Nil selects the builtin catalog.
	Primitives *contenttype.Catalog
}

func (d Deps) primitives() *contenttype.Catalog {
	if d.Primitives != nil {
		return d.Primitives
	}
	return contenttype.BuiltinCatalog()
}

// Definitions returns all builtin tool definitions in registration order.
func Definitions(deps Deps) []*toolkit.Definition {
	return []*toolkit.Definition{
		CreateWebsiteTool(deps.Store),
		DeleteWebsiteTool(deps.Store),
		CreateContentTypeTool(deps),
		ListContentTypesTool(deps.Store),
		CreateContentTool(deps.Store, deps.primitives()),
		UpdateContentTool(deps.Store),
		DeleteContentTool(deps.Store),
	}
}

// Register registers the full builtin tool set on reg.
func Register(reg *toolkit.Registry, deps Deps) error {
	return reg.RegisterAll(Definitions(deps)...)
}

func stringParam(params map[string]interface{}, key string) string {
	v, _ := params[key].(string)
	return v
}

func mapParam(params map[string]interface{}, key string) map[string]interface{} {
	v, _ := params[key].(map[string]interface{})
	return v
}

func failure(code, message, suggestion string) *toolkit.Result {
	return &toolkit.Result{
		Success: false,
		Error: &toolkit.Error{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
		},
	}
}
