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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sitesmith-labs/anvil/pkg/contenttype"
	"github.com/sitesmith-labs/anvil/pkg/promptctx"
	"github.com/sitesmith-labs/anvil/pkg/sitestore"
	"github.com/sitesmith-labs/anvil/pkg/toolkit"
)

type harness struct {
	store    *sitestore.Store
	builder  *promptctx.Builder
	executor *toolkit.Executor
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithCatalog(t, contenttype.BuiltinCatalog())
}

func newHarnessWithCatalog(t *testing.T, primitives *contenttype.Catalog) *harness {
	t.Helper()
	store, err := sitestore.Open(filepath.Join(t.TempDir(), "anvil.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	builder := promptctx.NewBuilder(store)
	reg := toolkit.NewRegistry()
	require.NoError(t, Register(reg, Deps{
		Store:      store,
		Validator:  contenttype.NewValidator(contenttype.BuiltinCatalog()),
		Builder:    builder,
		Primitives: primitives,
	}))

	return &harness{
		store:    store,
		builder:  builder,
		executor: toolkit.NewExecutor(reg, toolkit.WithTransactionManager(store)),
	}
}

func (h *harness) exec(t *testing.T, name string, params map[string]interface{}) *toolkit.Result {
	t.Helper()
	res, err := h.executor.Execute(context.Background(), name, params, nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func (h *harness) createWebsite(t *testing.T) string {
	t.Helper()
	res := h.exec(t, "create_website", map[string]interface{}{"name": "Acme"})
	require.True(t, res.Success)
	data := res.Data.(map[string]interface{})
	return data["websiteId"].(string)
}

func blogPostParams(websiteID string) map[string]interface{} {
	return map[string]interface{}{
		"website_id": websiteID,
		"name":       "BlogPost",
		"category":   "page",
		"fields": []interface{}{
			map[string]interface{}{"name": "title", "type": "Text", "required": true},
			map[string]interface{}{"name": "body", "type": "LongText"},
		},
	}
}

func TestCreateWebsiteAndDelete(t *testing.T) {
	h := newHarness(t)
	id := h.createWebsite(t)

	res := h.exec(t, "delete_website", map[string]interface{}{"website_id": id})
	assert.True(t, res.Success)

	res = h.exec(t, "delete_website", map[string]interface{}{"website_id": id})
	require.False(t, res.Success)
	assert.Equal(t, "WEBSITE_NOT_FOUND", res.Error.Code)
}

func TestCreateContentType_PersistsAndRefreshesContext(t *testing.T) {
	h := newHarness(t)
	id := h.createWebsite(t)

	res := h.exec(t, "create_content_type", blogPostParams(id))
	require.True(t, res.Success, "unexpected refusal: %+v", res.Error)

	defs, err := h.store.LoadContentTypes(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "BlogPost", defs[0].Name)

	session := h.builder.SessionTypes()
	require.Len(t, session, 1)
	assert.Equal(t, "BlogPost", session[0].Name)
}

func TestCreateContentType_NewTypeVisibleInNextContext(t *testing.T) {
	h := newHarness(t)
	id := h.createWebsite(t)

	require.True(t, h.exec(t, "create_content_type", blogPostParams(id)).Success)

	// The refresh ran inside the create transaction; the next context
	// build must nonetheless reflect the committed type rather than a
	// snapshot cached mid-transaction.
	snap, err := h.builder.BuildContext(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, snap.AvailableTypes, "BlogPost")
	assert.Contains(t, snap.ExistingContentTypes, "BlogPost")
}

func TestCreateContentType_RefusesDuplicate(t *testing.T) {
	h := newHarness(t)
	id := h.createWebsite(t)

	require.True(t, h.exec(t, "create_content_type", blogPostParams(id)).Success)

	res := h.exec(t, "create_content_type", blogPostParams(id))
	require.False(t, res.Success)
	assert.Equal(t, "DUPLICATE_CONTENT_TYPE", res.Error.Code)
	assert.Contains(t, res.Error.Message, "BlogPost")

	dup := res.Error.Details["duplicateCheck"].(contenttype.DuplicateCheck)
	assert.True(t, dup.IsDuplicate)
	assert.Equal(t, contenttype.UseExisting, dup.Recommendation)

	defs, err := h.store.LoadContentTypes(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, defs, 1, "refused duplicate must not be persisted")
}

func TestCreateContentType_RefusesInvalidDefinition(t *testing.T) {
	h := newHarness(t)
	id := h.createWebsite(t)

	res := h.exec(t, "create_content_type", map[string]interface{}{
		"website_id": id,
		"name":       "Product",
		"fields":     []interface{}{},
	})
	require.False(t, res.Success)
	assert.Equal(t, "CONTENT_TYPE_INVALID", res.Error.Code)

	defs, err := h.store.LoadContentTypes(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestListContentTypes(t *testing.T) {
	h := newHarness(t)
	id := h.createWebsite(t)
	require.True(t, h.exec(t, "create_content_type", blogPostParams(id)).Success)

	res := h.exec(t, "list_content_types", map[string]interface{}{"website_id": id})
	require.True(t, res.Success)
	data := res.Data.(map[string]interface{})
	assert.Equal(t, 1, data["count"])
}

func TestContentEntryLifecycle(t *testing.T) {
	h := newHarness(t)
	id := h.createWebsite(t)
	require.True(t, h.exec(t, "create_content_type", blogPostParams(id)).Success)

	res := h.exec(t, "create_content", map[string]interface{}{
		"website_id": id,
		"type_name":  "BlogPost",
		"values":     map[string]interface{}{"title": "Hello"},
	})
	require.True(t, res.Success, "unexpected failure: %+v", res.Error)
	entryID := res.Data.(map[string]interface{})["entryId"].(string)

	res = h.exec(t, "update_content", map[string]interface{}{
		"entry_id": entryID,
		"values":   map[string]interface{}{"title": "Hello again"},
	})
	assert.True(t, res.Success)

	res = h.exec(t, "delete_content", map[string]interface{}{"entry_id": entryID})
	assert.True(t, res.Success)

	res = h.exec(t, "delete_content", map[string]interface{}{"entry_id": entryID})
	require.False(t, res.Success)
	assert.Equal(t, "ENTRY_NOT_FOUND", res.Error.Code)
}

func TestCreateContent_RejectsMissingRequiredField(t *testing.T) {
	h := newHarness(t)
	id := h.createWebsite(t)
	require.True(t, h.exec(t, "create_content_type", blogPostParams(id)).Success)

	res := h.exec(t, "create_content", map[string]interface{}{
		"website_id": id,
		"type_name":  "BlogPost",
		"values":     map[string]interface{}{"body": "no title"},
	})
	require.False(t, res.Success)
	assert.Equal(t, "ENTRY_INVALID", res.Error.Code)
}

func TestCreateContent_UsesInjectedPrimitiveCatalog(t *testing.T) {
	// An empty catalog makes every field type unknown; entry creation
	// must fail through the injected catalog, not a builtin default.
	h := newHarnessWithCatalog(t, contenttype.NewCatalog())
	id := h.createWebsite(t)
	require.True(t, h.exec(t, "create_content_type", blogPostParams(id)).Success)

	res := h.exec(t, "create_content", map[string]interface{}{
		"website_id": id,
		"type_name":  "BlogPost",
		"values":     map[string]interface{}{"title": "Hello"},
	})
	require.False(t, res.Success)
	assert.Equal(t, "ENTRY_INVALID", res.Error.Code)
}

func TestCreateContent_UnknownType(t *testing.T) {
	h := newHarness(t)
	id := h.createWebsite(t)

	res := h.exec(t, "create_content", map[string]interface{}{
		"website_id": id,
		"type_name":  "Ghost",
		"values":     map[string]interface{}{},
	})
	require.False(t, res.Success)
	assert.Equal(t, "TYPE_NOT_FOUND", res.Error.Code)
}
