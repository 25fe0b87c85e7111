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

// Package promptctx assembles cached, TTL-bound, token-budgeted snapshots
// of a website's content types and components for injection into the
// agent's next turn.
package promptctx

import (
	"fmt"
	"strings"
	"time"

	"github.com/sitesmith-labs/anvil/pkg/contenttype"
)

// SessionType records a content type created during the current session.
type SessionType struct {
	Name      string
	CreatedAt time.Time
}

// Context is an immutable snapshot of a website's schema surface formatted
// for prompt injection. Refreshes produce new values; a Context is never
// mutated after construction, so concurrent readers cannot observe torn
// state.
type Context struct {
	WebsiteID string

	// AvailableTypes lists existing content-type names.
	AvailableTypes []string

	// ExistingContentTypes is the formatted type summary block.
	ExistingContentTypes string

	// ReusableComponents is the formatted component summary block.
	ReusableComponents string

	// CommonFields names field properties repeated across two or more
	// types.
	CommonFields string

	// SessionTypes are the types created during this session, in
	// creation order.
	SessionTypes []SessionType

	// BuiltAt is when the snapshot was assembled.
	BuiltAt time.Time

	// EstimatedTokens is the token estimate for the formatted blocks.
	EstimatedTokens int
}

// PopulateTemplate substitutes the context's values into a prompt template
// using {{placeholder}} markers. Unknown placeholders are left intact.
func (c *Context) PopulateTemplate(template string) string {
	sessionNames := make([]string, len(c.SessionTypes))
	for i, st := range c.SessionTypes {
		sessionNames[i] = st.Name
	}
	return Substitute(template, map[string]string{
		"websiteId":            c.WebsiteID,
		"availableTypes":       strings.Join(c.AvailableTypes, ", "),
		"existingContentTypes": c.ExistingContentTypes,
		"reusableComponents":   c.ReusableComponents,
		"commonFields":         c.CommonFields,
		"sessionTypes":         strings.Join(sessionNames, ", "),
	})
}

// Substitute replaces {{name}} markers in template with the given values.
func Substitute(template string, vars map[string]string) string {
	out := template
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out
}

// formatTypeLine renders one content type as a compact summary line.
func formatTypeLine(def contenttype.Definition) string {
	parts := make([]string, len(def.Fields))
	for i, f := range def.Fields {
		if f.Required {
			parts[i] = fmt.Sprintf("%s (%s, required)", f.Name, f.Type)
		} else {
			parts[i] = fmt.Sprintf("%s (%s)", f.Name, f.Type)
		}
	}
	return fmt.Sprintf("- %s (%s): %s", def.Name, def.Category, strings.Join(parts, ", "))
}

// formatTypeLineCollapsed renders a type with its field list pruned to a
// count, used when the snapshot exceeds its token budget.
func formatTypeLineCollapsed(def contenttype.Definition) string {
	return fmt.Sprintf("- %s (%s): %d fields", def.Name, def.Category, len(def.Fields))
}

// formatComponentLine renders one reusable component.
func formatComponentLine(c contenttype.Component) string {
	if c.Purpose == "" {
		return "- " + c.Name
	}
	return fmt.Sprintf("- %s: %s", c.Name, c.Purpose)
}

// commonFieldNames returns field names that appear on two or more types,
// in first-seen order.
func commonFieldNames(defs []contenttype.Definition) []string {
	counts := make(map[string]int)
	var order []string
	for _, def := range defs {
		seen := make(map[string]struct{})
		for _, f := range def.Fields {
			key := strings.ToLower(f.Name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if counts[key] == 0 {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	var common []string
	for _, name := range order {
		if counts[name] >= 2 {
			common = append(common, name)
		}
	}
	return common
}
