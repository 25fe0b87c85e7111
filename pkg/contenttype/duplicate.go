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

import "strings"

// Thresholds are the duplicate-detection bounds and suggestion confidences.
// The defaults come from the origin system; their derivation is not
// documented, so they are kept configurable rather than re-derived.
type Thresholds struct {
	// DuplicateOverlap is the field-overlap percentage at or above which
	// a proposed type is classified a duplicate.
	DuplicateOverlap float64

	// ExtendOverlap is the field-overlap percentage at or above which
	// extending the matched type is recommended.
	ExtendOverlap float64

	// SemanticOverlap is the overlap percentage reported for a
	// semantic-group match.
	SemanticOverlap float64

	// ContentAreaConfidence is the fixed confidence for content-area
	// component suggestions.
	ContentAreaConfidence int

	// CTAConfidence is the fixed confidence for call-to-action component
	// suggestions.
	CTAConfidence int
}

// DefaultThresholds returns the origin system's values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DuplicateOverlap:      80,
		ExtendOverlap:         50,
		SemanticOverlap:       90,
		ContentAreaConfidence: 75,
		CTAConfidence:         80,
	}
}

// Classifier scores a proposed content type against existing types using
// three escalating heuristics; the first matching one wins:
//
//  1. exact case-insensitive name match (overlap 100)
//  2. semantic-group membership (overlap 90)
//  3. best field-name overlap across all existing types
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Check classifies proposed against the existing-type snapshot. The result
// is computed fresh on every call.
func (c *Classifier) Check(proposed Definition, existing []Definition) DuplicateCheck {
	for _, ex := range existing {
		if strings.EqualFold(proposed.Name, ex.Name) {
			return DuplicateCheck{
				IsDuplicate:       true,
				MatchType:         "exact_name",
				MatchedType:       ex.Name,
				OverlapPercentage: 100,
				Recommendation:    UseExisting,
			}
		}
	}

	for _, ex := range existing {
		if sameSemanticGroup(proposed.Name, ex.Name) {
			return DuplicateCheck{
				IsDuplicate:       true,
				MatchType:         "semantic_group",
				MatchedType:       ex.Name,
				OverlapPercentage: c.thresholds.SemanticOverlap,
				Recommendation:    UseExisting,
			}
		}
	}

	best := DuplicateCheck{Recommendation: CreateNew}
	for _, ex := range existing {
		overlap := fieldOverlap(proposed.Fields, ex.Fields)
		if overlap > best.OverlapPercentage {
			best.OverlapPercentage = overlap
			best.MatchedType = ex.Name
		}
	}

	switch {
	case best.OverlapPercentage >= c.thresholds.DuplicateOverlap:
		best.IsDuplicate = true
		best.MatchType = "field_overlap"
		best.Recommendation = UseExisting
	case best.OverlapPercentage >= c.thresholds.ExtendOverlap:
		best.MatchType = "field_overlap"
		best.Recommendation = ExtendExisting
	default:
		best.MatchedType = ""
		best.Recommendation = CreateNew
	}
	return best
}

// fieldOverlap computes |intersection| / max(|a|, |b|) * 100 over
// case-insensitive field names.
func fieldOverlap(a, b []Field) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	names := make(map[string]struct{}, len(a))
	for _, f := range a {
		names[strings.ToLower(f.Name)] = struct{}{}
	}

	shared := 0
	seen := make(map[string]struct{}, len(b))
	for _, f := range b {
		key := strings.ToLower(f.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := names[key]; ok {
			shared++
		}
	}

	max := len(names)
	if len(seen) > max {
		max = len(seen)
	}
	return float64(shared) / float64(max) * 100
}
