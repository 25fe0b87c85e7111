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
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sitesmith-labs/anvil/internal/csync"
	"github.com/sitesmith-labs/anvil/pkg/contenttype"
)

// Catalog is the existing-content-type capability the builder consumes.
type Catalog interface {
	LoadContentTypes(ctx context.Context, websiteID string) ([]contenttype.Definition, error)
	LoadReusableComponents(ctx context.Context, websiteID string) ([]contenttype.Component, error)
}

const (
	// defaultTTL bounds how long a cached snapshot is served.
	defaultTTL = 5 * time.Minute

	// defaultAppendWindow bounds how old a snapshot may be for
	// RefreshWithNewType to append in place of a full reload.
	defaultAppendWindow = time.Minute
)

// Builder assembles per-website context snapshots. Snapshots are cached
// with a TTL; session types accumulate for the lifetime of the builder and
// are only cleared by ClearSession.
type Builder struct {
	catalog      Catalog
	counter      *TokenCounter
	logger       *zap.Logger
	ttl          time.Duration
	appendWindow time.Duration
	maxTokens    int

	cache *csync.Map[string, *Context]

	sessionMu sync.Mutex
	session   []SessionType
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTTL overrides the snapshot TTL.
func WithTTL(ttl time.Duration) BuilderOption {
	return func(b *Builder) { b.ttl = ttl }
}

// WithAppendWindow overrides the in-place refresh window.
func WithAppendWindow(w time.Duration) BuilderOption {
	return func(b *Builder) { b.appendWindow = w }
}

// WithMaxTokens sets the token ceiling. When a snapshot exceeds it, the
// most verbose type field lists are collapsed to a field count before
// whole-type entries are dropped. Zero means unlimited.
func WithMaxTokens(n int) BuilderOption {
	return func(b *Builder) { b.maxTokens = n }
}

// WithBuilderLogger sets the builder's logger.
func WithBuilderLogger(logger *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a context builder over the given catalog.
func NewBuilder(catalog Catalog, opts ...BuilderOption) *Builder {
	b := &Builder{
		catalog:      catalog,
		counter:      NewTokenCounter(),
		logger:       zap.NewNop(),
		ttl:          defaultTTL,
		appendWindow: defaultAppendWindow,
		cache:        csync.NewMap[string, *Context](),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildContext returns the context snapshot for a website, serving the
// cached value while it is fresh and rebuilding it otherwise.
func (b *Builder) BuildContext(ctx context.Context, websiteID string) (*Context, error) {
	if snap, ok := b.cache.Get(websiteID); ok && time.Since(snap.BuiltAt) < b.ttl {
		return b.withSession(snap), nil
	}
	return b.rebuild(ctx, websiteID)
}

// RefreshWithNewType records a newly created type. When the cached
// snapshot is young enough and a full definition is supplied, a new
// snapshot is derived from the old one plus the delta, avoiding a reload.
// Otherwise the cached snapshot is dropped and an uncached view is served:
// the caller may still be inside the transaction that created the type, so
// a rebuild here could read pre-commit state. Caching that view would serve
// a snapshot missing the new type for a full TTL; instead the next
// BuildContext rebuilds from committed state.
//
// The session-type record is appended unconditionally and survives cache
// invalidation. It is made before the caller's surrounding transaction
// commits; a failed commit leaves the name in the session list until
// ClearSession.
func (b *Builder) RefreshWithNewType(ctx context.Context, websiteID, typeName string, def *contenttype.Definition) (*Context, error) {
	b.sessionMu.Lock()
	b.session = append(b.session, SessionType{Name: typeName, CreatedAt: time.Now()})
	b.sessionMu.Unlock()

	if snap, ok := b.cache.Get(websiteID); ok && def != nil && time.Since(snap.BuiltAt) < b.appendWindow {
		next := appendType(snap, typeName, *def, b.counter)
		b.cache.Set(websiteID, next)

		b.logger.Debug("appended new type to cached context",
			zap.String("website_id", websiteID),
			zap.String("type", typeName))
		return b.withSession(next), nil
	}

	b.cache.Delete(websiteID)
	snap, err := b.assemble(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	if def != nil && !containsType(snap.AvailableTypes, typeName) {
		snap = appendType(snap, typeName, *def, b.counter)
	}
	return b.withSession(snap), nil
}

// ClearSession drops all accumulated session types.
func (b *Builder) ClearSession() {
	b.sessionMu.Lock()
	b.session = nil
	b.sessionMu.Unlock()
}

// Invalidate drops the cached snapshot for a website.
func (b *Builder) Invalidate(websiteID string) {
	b.cache.Delete(websiteID)
}

// SessionTypes returns the session-scoped type records in creation order.
func (b *Builder) SessionTypes() []SessionType {
	b.sessionMu.Lock()
	defer b.sessionMu.Unlock()
	out := make([]SessionType, len(b.session))
	copy(out, b.session)
	return out
}

func (b *Builder) rebuild(ctx context.Context, websiteID string) (*Context, error) {
	snap, err := b.assemble(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	b.cache.Set(websiteID, snap)
	return b.withSession(snap), nil
}

// assemble loads and formats a snapshot without touching the cache.
func (b *Builder) assemble(ctx context.Context, websiteID string) (*Context, error) {
	defs, err := b.catalog.LoadContentTypes(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	components, err := b.catalog.LoadReusableComponents(ctx, websiteID)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}

	compLines := make([]string, len(components))
	for i, c := range components {
		compLines[i] = formatComponentLine(c)
	}
	componentBlock := strings.Join(compLines, "\n")

	typeBlock := b.formatTypesWithinBudget(defs, componentBlock)

	snap := &Context{
		WebsiteID:            websiteID,
		AvailableTypes:       names,
		ExistingContentTypes: typeBlock,
		ReusableComponents:   componentBlock,
		CommonFields:         strings.Join(commonFieldNames(defs), ", "),
		BuiltAt:              time.Now(),
	}
	snap.EstimatedTokens = b.counter.CountAll(snap.ExistingContentTypes, snap.ReusableComponents)

	b.logger.Debug("built dynamic context",
		zap.String("website_id", websiteID),
		zap.Int("types", len(defs)),
		zap.Int("components", len(components)),
		zap.Int("estimated_tokens", snap.EstimatedTokens))
	return snap, nil
}

// appendType derives a new immutable snapshot from snap plus one type; the
// source snapshot is never mutated.
func appendType(snap *Context, typeName string, def contenttype.Definition, counter *TokenCounter) *Context {
	next := &Context{
		WebsiteID:            snap.WebsiteID,
		AvailableTypes:       append(append([]string{}, snap.AvailableTypes...), typeName),
		ExistingContentTypes: joinBlock(snap.ExistingContentTypes, formatTypeLine(def)),
		ReusableComponents:   snap.ReusableComponents,
		CommonFields:         snap.CommonFields,
		BuiltAt:              snap.BuiltAt,
	}
	next.EstimatedTokens = counter.CountAll(next.ExistingContentTypes, next.ReusableComponents)
	return next
}

func containsType(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// formatTypesWithinBudget renders the type summary block, progressively
// collapsing the most verbose field lists to "N fields" when the token
// ceiling is exceeded, and dropping whole-type entries only as a last
// resort.
func (b *Builder) formatTypesWithinBudget(defs []contenttype.Definition, componentBlock string) string {
	lines := make([]string, len(defs))
	for i, def := range defs {
		lines[i] = formatTypeLine(def)
	}
	if b.maxTokens <= 0 {
		return strings.Join(lines, "\n")
	}

	within := func() bool {
		return b.counter.CountAll(strings.Join(lines, "\n"), componentBlock) <= b.maxTokens
	}
	if within() {
		return strings.Join(lines, "\n")
	}

	// Collapse field detail, most verbose entries first.
	order := make([]int, len(defs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, c int) bool {
		return len(lines[order[a]]) > len(lines[order[c]])
	})
	for _, i := range order {
		lines[i] = formatTypeLineCollapsed(defs[i])
		if within() {
			return strings.Join(lines, "\n")
		}
	}

	// Still over budget: drop whole entries from the end.
	for len(lines) > 0 {
		lines = lines[:len(lines)-1]
		if within() {
			break
		}
	}
	return strings.Join(lines, "\n")
}

// withSession returns a copy of snap carrying the current session types.
// The cached snapshot itself stays session-free so session growth never
// mutates shared state.
func (b *Builder) withSession(snap *Context) *Context {
	out := *snap
	out.SessionTypes = b.SessionTypes()
	return &out
}

func joinBlock(block, line string) string {
	if block == "" {
		return line
	}
	return block + "\n" + line
}
