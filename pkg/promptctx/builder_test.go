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
package promptctx

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesmith-labs/anvil/pkg/contenttype"
)

type fakeCatalog struct {
	mu         sync.Mutex
	loads      int
	types      []contenttype.Definition
	components []contenttype.Component
}

func (f *fakeCatalog) LoadContentTypes(ctx context.Context, websiteID string) ([]contenttype.Definition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return f.types, nil
}

func (f *fakeCatalog) LoadReusableComponents(ctx context.Context, websiteID string) ([]contenttype.Component, error) {
	return f.components, nil
}

func (f *fakeCatalog) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func (f *fakeCatalog) addType(def contenttype.Definition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, def)
}

func sampleCatalog() *fakeCatalog {
	return &fakeCatalog{
		types: []contenttype.Definition{
			{
				Name:     "BlogPost",
				Category: contenttype.CategoryPage,
				Fields: []contenttype.Field{
					{Name: "title", Type: "Text", Required: true},
					{Name: "body", Type: "LongText"},
				},
			},
			{
				Name:     "Testimonial",
				Category: contenttype.CategoryComponent,
				Fields: []contenttype.Field{
					{Name: "title", Type: "Text"},
					{Name: "quote", Type: "LongText"},
					{Name: "author", Type: "Text"},
				},
			},
		},
		components: []contenttype.Component{
			{Name: "CtaBanner", Purpose: "Call-to-action banner"},
		},
	}
}

func TestBuildContext_Formatting(t *testing.T) {
	b := NewBuilder(sampleCatalog())

	c, err := b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)

	assert.Equal(t, "site-1", c.WebsiteID)
	assert.Equal(t, []string{"BlogPost", "Testimonial"}, c.AvailableTypes)
	assert.Contains(t, c.ExistingContentTypes, "- BlogPost (page): title (Text, required), body (LongText)")
	assert.Contains(t, c.ReusableComponents, "- CtaBanner: Call-to-action banner")
	assert.Equal(t, "title", c.CommonFields, "title appears on both types")
	assert.Greater(t, c.EstimatedTokens, 0)
}

func TestBuildContext_ServesCachedSnapshotWithinTTL(t *testing.T) {
	cat := sampleCatalog()
	b := NewBuilder(cat)

	_, err := b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)
	_, err = b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)

	assert.Equal(t, 1, cat.loadCount(), "second call should hit the cache")
}

func TestBuildContext_RebuildsAfterTTL(t *testing.T) {
	cat := sampleCatalog()
	b := NewBuilder(cat, WithTTL(10*time.Millisecond))

	_, err := b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)

	assert.Equal(t, 2, cat.loadCount())
}

func TestRefreshWithNewType_AppendsWithinWindow(t *testing.T) {
	cat := sampleCatalog()
	b := NewBuilder(cat)

	_, err := b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)

	def := &contenttype.Definition{
		Name:     "Event",
		Category: contenttype.CategoryPage,
		Fields:   []contenttype.Field{{Name: "title", Type: "Text"}},
	}
	c, err := b.RefreshWithNewType(context.Background(), "site-1", "Event", def)
	require.NoError(t, err)

	assert.Equal(t, 1, cat.loadCount(), "fresh cache plus full definition should append, not reload")
	assert.Contains(t, c.AvailableTypes, "Event")
	assert.Contains(t, c.ExistingContentTypes, "- Event (page): title (Text)")
}

func TestRefreshWithNewType_RebuildsWithoutDefinition(t *testing.T) {
	cat := sampleCatalog()
	b := NewBuilder(cat)

	_, err := b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)

	_, err = b.RefreshWithNewType(context.Background(), "site-1", "Event", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, cat.loadCount(), "no definition supplied forces a full reload")
}

func TestRefreshWithNewType_RebuildsOutsideWindow(t *testing.T) {
	cat := sampleCatalog()
	b := NewBuilder(cat, WithAppendWindow(5*time.Millisecond))

	_, err := b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	def := &contenttype.Definition{Name: "Event", Fields: []contenttype.Field{{Name: "title", Type: "Text"}}}
	_, err = b.RefreshWithNewType(context.Background(), "site-1", "Event", def)
	require.NoError(t, err)

	assert.Equal(t, 2, cat.loadCount())
}

func TestRefreshWithNewType_SessionTypesAccumulateInOrder(t *testing.T) {
	b := NewBuilder(sampleCatalog())

	_, err := b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)

	def1 := &contenttype.Definition{Name: "Event", Fields: []contenttype.Field{{Name: "title", Type: "Text"}}}
	def2 := &contenttype.Definition{Name: "Booking", Fields: []contenttype.Field{{Name: "date", Type: "Date"}}}

	_, err = b.RefreshWithNewType(context.Background(), "site-1", "Event", def1)
	require.NoError(t, err)
	c, err := b.RefreshWithNewType(context.Background(), "site-1", "Booking", def2)
	require.NoError(t, err)

	require.Len(t, c.SessionTypes, 2, "both refreshes land in session types, no duplicates collapsed")
	assert.Equal(t, "Event", c.SessionTypes[0].Name)
	assert.Equal(t, "Booking", c.SessionTypes[1].Name)
	assert.False(t, c.SessionTypes[1].CreatedAt.Before(c.SessionTypes[0].CreatedAt))
}

func TestRefreshWithNewType_ColdCacheServesUncachedView(t *testing.T) {
	// The refresh may run inside the transaction that created the type,
	// where the catalog cannot see the uncommitted row yet. The returned
	// view must still include the new type, and nothing may be cached.
	cat := sampleCatalog()
	b := NewBuilder(cat)

	def := &contenttype.Definition{
		Name:     "Event",
		Category: contenttype.CategoryPage,
		Fields:   []contenttype.Field{{Name: "title", Type: "Text"}},
	}
	c, err := b.RefreshWithNewType(context.Background(), "site-1", "Event", def)
	require.NoError(t, err)
	assert.Contains(t, c.AvailableTypes, "Event")
	assert.Equal(t, 1, cat.loadCount())

	// The type lands in the catalog once the transaction commits. The
	// next build must reload rather than serve a snapshot assembled
	// before the commit.
	cat.addType(*def)
	c, err = b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)
	assert.Equal(t, 2, cat.loadCount(), "pre-commit view must not have been cached")
	assert.Contains(t, c.AvailableTypes, "Event")
	assert.Contains(t, c.ExistingContentTypes, "- Event (page): title (Text)")
}

func TestClearSession(t *testing.T) {
	b := NewBuilder(sampleCatalog())

	_, _ = b.RefreshWithNewType(context.Background(), "site-1", "Event", nil)
	require.Len(t, b.SessionTypes(), 1)

	b.ClearSession()
	assert.Empty(t, b.SessionTypes())
}

func TestRefreshDoesNotMutateCachedSnapshot(t *testing.T) {
	b := NewBuilder(sampleCatalog())

	before, err := b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)
	beforeTypes := before.ExistingContentTypes

	def := &contenttype.Definition{Name: "Event", Fields: []contenttype.Field{{Name: "title", Type: "Text"}}}
	_, err = b.RefreshWithNewType(context.Background(), "site-1", "Event", def)
	require.NoError(t, err)

	assert.Equal(t, beforeTypes, before.ExistingContentTypes,
		"previously returned snapshot must not change under a refresh")
	assert.NotContains(t, before.AvailableTypes, "Event")
}

func TestTokenBudget_CollapsesFieldDetailFirst(t *testing.T) {
	cat := sampleCatalog()
	// Budget small enough to force collapsing but large enough to keep
	// both type entries present.
	b := NewBuilder(cat, WithMaxTokens(30))

	c, err := b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)

	assert.Contains(t, c.ExistingContentTypes, "BlogPost", "whole-type entries are pruned last")
	assert.Contains(t, c.ExistingContentTypes, "Testimonial")
	assert.Contains(t, c.ExistingContentTypes, "3 fields", "most verbose field list collapses to a count")
}

func TestPopulateTemplate(t *testing.T) {
	b := NewBuilder(sampleCatalog())
	c, err := b.BuildContext(context.Background(), "site-1")
	require.NoError(t, err)

	out := c.PopulateTemplate("Site {{websiteId}} has: {{availableTypes}}. Unknown: {{nope}}")
	assert.True(t, strings.HasPrefix(out, "Site site-1 has: BlogPost, Testimonial."))
	assert.Contains(t, out, "{{nope}}", "unknown placeholders stay intact")
}

func TestSubstitute(t *testing.T) {
	out := Substitute("{{a}} and {{b}} and {{a}}", map[string]string{"a": "1", "b": "2"})
	assert.Equal(t, "1 and 2 and 1", out)
}
