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
package sitestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sitesmith-labs/anvil/pkg/contenttype"
	"github.com/sitesmith-labs/anvil/pkg/promptctx"
	"github.com/sitesmith-labs/anvil/pkg/toolkit"
)

var (
	_ toolkit.TransactionManager = (*Store)(nil)
	_ promptctx.Catalog          = (*Store)(nil)
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "anvil.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func blogPostType() contenttype.Definition {
	return contenttype.Definition{
		Name:     "BlogPost",
		Category: contenttype.CategoryPage,
		Fields: []contenttype.Field{
			{Name: "title", Type: "Text", Required: true},
			{Name: "body", Type: "LongText"},
		},
		Relationships: []contenttype.Relationship{
			{Name: "author", Type: contenttype.OneToMany, TargetType: "Author"},
		},
	}
}

func TestWebsiteLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w, err := s.CreateWebsite(ctx, nil, "Acme")
	require.NoError(t, err)
	require.NotEmpty(t, w.ID)

	got, err := s.GetWebsite(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	require.NoError(t, s.DeleteWebsite(ctx, nil, w.ID))

	_, err = s.GetWebsite(ctx, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentTypeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w, err := s.CreateWebsite(ctx, nil, "Acme")
	require.NoError(t, err)

	require.NoError(t, s.SaveContentType(ctx, nil, w.ID, blogPostType()))

	defs, err := s.LoadContentTypes(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "BlogPost", defs[0].Name)
	assert.Equal(t, contenttype.CategoryPage, defs[0].Category)
	require.Len(t, defs[0].Fields, 2)
	assert.True(t, defs[0].Fields[0].Required)
	require.Len(t, defs[0].Relationships, 1)
	assert.Equal(t, contenttype.OneToMany, defs[0].Relationships[0].Type)
}

func TestSaveContentType_UpsertReplacesFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w, err := s.CreateWebsite(ctx, nil, "Acme")
	require.NoError(t, err)

	def := blogPostType()
	require.NoError(t, s.SaveContentType(ctx, nil, w.ID, def))

	def.Fields = append(def.Fields, contenttype.Field{Name: "slug", Type: "Text"})
	require.NoError(t, s.SaveContentType(ctx, nil, w.ID, def))

	defs, err := s.LoadContentTypes(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, defs, 1, "same name upserts, not duplicates")
	assert.Len(t, defs[0].Fields, 3)
}

func TestComponents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w, err := s.CreateWebsite(ctx, nil, "Acme")
	require.NoError(t, err)

	require.NoError(t, s.SaveComponent(ctx, nil, w.ID, contenttype.Component{Name: "CtaBanner", Purpose: "Call to action"}))

	components, err := s.LoadReusableComponents(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, "CtaBanner", components[0].Name)
}

func TestEntryLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w, err := s.CreateWebsite(ctx, nil, "Acme")
	require.NoError(t, err)

	e, err := s.CreateEntry(ctx, nil, w.ID, "BlogPost", map[string]interface{}{"title": "Hello"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateEntry(ctx, nil, e.ID, map[string]interface{}{"title": "Hello again"}))

	got, err := s.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello again", got.Values["title"])
	assert.Equal(t, "BlogPost", got.TypeName)

	require.NoError(t, s.DeleteEntry(ctx, nil, e.ID))
	_, err = s.GetEntry(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteWebsiteCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w, err := s.CreateWebsite(ctx, nil, "Acme")
	require.NoError(t, err)
	require.NoError(t, s.SaveContentType(ctx, nil, w.ID, blogPostType()))
	e, err := s.CreateEntry(ctx, nil, w.ID, "BlogPost", map[string]interface{}{"title": "x"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteWebsite(ctx, nil, w.ID))

	defs, err := s.LoadContentTypes(ctx, w.ID)
	require.NoError(t, err)
	assert.Empty(t, defs)
	_, err = s.GetEntry(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithTransaction_CommitAndRollback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var websiteID string
	err := s.WithTransaction(ctx, func(tx toolkit.Tx) error {
		w, err := s.CreateWebsite(ctx, tx, "Committed")
		if err != nil {
			return err
		}
		websiteID = w.ID
		return nil
	})
	require.NoError(t, err)
	_, err = s.GetWebsite(ctx, websiteID)
	assert.NoError(t, err)

	boom := errors.New("boom")
	var lostID string
	err = s.WithTransaction(ctx, func(tx toolkit.Tx) error {
		w, err := s.CreateWebsite(ctx, tx, "RolledBack")
		if err != nil {
			return err
		}
		lostID = w.ID
		return boom
	})
	require.ErrorIs(t, err, boom)
	_, err = s.GetWebsite(ctx, lostID)
	assert.ErrorIs(t, err, ErrNotFound, "rolled back website must not persist")
}

func TestUnwrapRejectsForeignHandles(t *testing.T) {
	s := openTestStore(t)

	err := s.SaveComponent(context.Background(), struct{}{}, "site", contenttype.Component{Name: "X"})
	assert.Error(t, err)
}
