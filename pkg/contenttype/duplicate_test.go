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

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defWithFields(name string, fieldNames ...string) Definition {
	fields := make([]Field, len(fieldNames))
	for i, fn := range fieldNames {
		fields[i] = Field{Name: fn, Type: "Text"}
	}
	return Definition{Name: name, Category: CategoryPage, Fields: fields}
}

func TestClassifier_ExactNameMatch_CaseInsensitiveSymmetric(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	existing := []Definition{defWithFields("BlogPost", "title", "body")}

	for _, proposed := range []string{"BlogPost", "blogpost", "BLOGPOST"} {
		check := c.Check(defWithFields(proposed, "headline"), existing)
		assert.True(t, check.IsDuplicate, "proposed %s", proposed)
		assert.Equal(t, "exact_name", check.MatchType)
		assert.Equal(t, float64(100), check.OverlapPercentage)
		assert.Equal(t, UseExisting, check.Recommendation)
	}

	// Symmetric: existing lowercase, proposed PascalCase.
	check := c.Check(defWithFields("BlogPost"), []Definition{defWithFields("blogpost")})
	assert.True(t, check.IsDuplicate)
	assert.Equal(t, float64(100), check.OverlapPercentage)
}

func TestClassifier_SemanticGroupMatch(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	existing := []Definition{defWithFields("BlogPost", "title", "body")}

	check := c.Check(defWithFields("NewsItem", "headline", "summary"), existing)
	require.True(t, check.IsDuplicate)
	assert.Equal(t, "semantic_group", check.MatchType)
	assert.Equal(t, "BlogPost", check.MatchedType)
	assert.Equal(t, float64(90), check.OverlapPercentage)
	assert.Equal(t, UseExisting, check.Recommendation)
}

func TestClassifier_FieldOverlap_ExtendExisting(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	existing := []Definition{defWithFields("Recipe", "title", "body", "author")}

	// {title, body} vs {title, body, author}: 2/3 = 66.7%, between 50
	// and 80, so not a duplicate but extension is recommended.
	check := c.Check(defWithFields("Tutorial", "title", "body"), existing)
	assert.False(t, check.IsDuplicate)
	assert.Equal(t, "field_overlap", check.MatchType)
	assert.Equal(t, "Recipe", check.MatchedType)
	assert.InDelta(t, 66.7, check.OverlapPercentage, 0.1)
	assert.Equal(t, ExtendExisting, check.Recommendation)
}

func TestClassifier_FieldOverlap_Duplicate(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	existing := []Definition{defWithFields("Recipe", "title", "body", "author", "image", "tags")}

	check := c.Check(defWithFields("Tutorial", "title", "body", "author", "image"), existing)
	assert.True(t, check.IsDuplicate)
	assert.Equal(t, float64(80), check.OverlapPercentage)
	assert.Equal(t, UseExisting, check.Recommendation)
}

func TestClassifier_FieldOverlap_CreateNew(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	existing := []Definition{defWithFields("Recipe", "title", "body", "author")}

	check := c.Check(defWithFields("Booking", "date", "guests", "notes"), existing)
	assert.False(t, check.IsDuplicate)
	assert.Equal(t, CreateNew, check.Recommendation)
	assert.Empty(t, check.MatchedType)
	assert.Equal(t, float64(0), check.OverlapPercentage)
}

func TestClassifier_FieldOverlap_KeepsBestMatch(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	existing := []Definition{
		defWithFields("Weak", "title"),
		defWithFields("Strong", "title", "body", "author"),
	}

	check := c.Check(defWithFields("Tutorial", "title", "body"), existing)
	assert.Equal(t, "Strong", check.MatchedType)
	assert.InDelta(t, 2.0/3.0*100, check.OverlapPercentage, 0.1)
}

func TestClassifier_NoExistingTypes(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	check := c.Check(defWithFields("First", "title"), nil)
	assert.False(t, check.IsDuplicate)
	assert.Equal(t, CreateNew, check.Recommendation)
}

func TestClassifier_ExactNameWinsOverFieldOverlap(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	existing := []Definition{
		defWithFields("Tutorial", "totally", "different", "fields"),
		defWithFields("Guide", "title", "body"),
	}

	// Exact name match is the first heuristic; it wins even though the
	// field overlap with Guide would be higher.
	check := c.Check(defWithFields("tutorial", "title", "body"), existing)
	assert.Equal(t, "exact_name", check.MatchType)
	assert.Equal(t, "Tutorial", check.MatchedType)
}

func TestFieldOverlap_Arithmetic(t *testing.T) {
	a := []Field{{Name: "title"}, {Name: "body"}}
	b := []Field{{Name: "Title"}, {Name: "body"}, {Name: "author"}}

	got := fieldOverlap(a, b)
	want := 2.0 / 3.0 * 100
	require.Less(t, math.Abs(got-want), 0.001)
}

func TestFieldOverlap_EmptySides(t *testing.T) {
	assert.Equal(t, float64(0), fieldOverlap(nil, []Field{{Name: "a"}}))
	assert.Equal(t, float64(0), fieldOverlap([]Field{{Name: "a"}}, nil))
}

func TestThresholds_Configurable(t *testing.T) {
	custom := DefaultThresholds()
	custom.DuplicateOverlap = 60
	c := NewClassifier(custom)

	existing := []Definition{defWithFields("Recipe", "title", "body", "author")}
	check := c.Check(defWithFields("Tutorial", "title", "body"), existing)
	assert.True(t, check.IsDuplicate, "66.7%% overlap should be a duplicate at a 60%% threshold")
}
