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
package contenttype

import "sort"

// Primitive is a statically enumerated field-type descriptor. Each variant
// carries its own constraint struct; there is no runtime reflection.
type Primitive interface {
	// TypeName is the name content-type fields reference.
	TypeName() string
	// FreeForm reports whether the type holds large free-form content
	// (relevant to the component-reuse suggestion heuristic).
	FreeForm() bool
}

// TextConstraints bound single-line text fields.
type TextConstraints struct {
	MinLength int
	MaxLength int
	Pattern   string
}

// TextType is a short single-line string.
type TextType struct {
	Constraints TextConstraints
}

func (TextType) TypeName() string { return "Text" }
func (TextType) FreeForm() bool   { return false }

// LongTextConstraints bound multi-line rich text fields.
type LongTextConstraints struct {
	MaxLength int
	Markdown  bool
}

// LongTextType is multi-line, possibly formatted text.
type LongTextType struct {
	Constraints LongTextConstraints
}

func (LongTextType) TypeName() string { return "LongText" }
func (LongTextType) FreeForm() bool   { return true }

// NumberConstraints bound integer fields.
type NumberConstraints struct {
	Min *int64
	Max *int64
}

// NumberType is an integer.
type NumberType struct {
	Constraints NumberConstraints
}

func (NumberType) TypeName() string { return "Number" }
func (NumberType) FreeForm() bool   { return false }

// DecimalConstraints bound fractional fields.
type DecimalConstraints struct {
	Min   *float64
	Max   *float64
	Scale int
}

// DecimalType is a fractional number.
type DecimalType struct {
	Constraints DecimalConstraints
}

func (DecimalType) TypeName() string { return "Decimal" }
func (DecimalType) FreeForm() bool   { return false }

// BooleanType is a true/false flag.
type BooleanType struct{}

func (BooleanType) TypeName() string { return "Boolean" }
func (BooleanType) FreeForm() bool   { return false }

// DateConstraints configure date fields.
type DateConstraints struct {
	// TimeOfDay includes a time component alongside the date.
	TimeOfDay bool
}

// DateType is a calendar date, optionally with time of day.
type DateType struct {
	Constraints DateConstraints
}

func (DateType) TypeName() string { return "Date" }
func (DateType) FreeForm() bool   { return false }

// JsonConstraints bound structured data fields.
type JsonConstraints struct {
	MaxDepth int
}

// JsonType is arbitrary structured data.
type JsonType struct {
	Constraints JsonConstraints
}

func (JsonType) TypeName() string { return "Json" }
func (JsonType) FreeForm() bool   { return true }

// Catalog is the queryable primitive-type catalog the validator consumes.
// It is an injected dependency, not something the validator hardcodes.
type Catalog struct {
	byName map[string]Primitive
}

// NewCatalog builds a catalog from the given descriptors.
func NewCatalog(primitives ...Primitive) *Catalog {
	c := &Catalog{byName: make(map[string]Primitive, len(primitives))}
	for _, p := range primitives {
		c.byName[p.TypeName()] = p
	}
	return c
}

// BuiltinCatalog returns the full set of supported primitives.
func BuiltinCatalog() *Catalog {
	return NewCatalog(
		TextType{},
		LongTextType{},
		NumberType{},
		DecimalType{},
		BooleanType{},
		DateType{},
		JsonType{},
	)
}

// Lookup returns the descriptor registered under name.
func (c *Catalog) Lookup(name string) (Primitive, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Names returns all registered primitive type names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
