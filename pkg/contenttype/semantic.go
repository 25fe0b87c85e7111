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

// semanticClusters groups type names that describe the same kind of content
// under different vocabularies. Two names in the same cluster are treated
// as near-duplicates even when their fields differ.
var semanticClusters = [][]string{
	{"BlogPost", "ArticlePage", "NewsItem", "Post", "Article"},
	{"Product", "ProductPage", "ShopItem", "Item"},
	{"LandingPage", "HomePage", "Homepage"},
	{"ContactPage", "Contact"},
	{"AboutPage", "About"},
	{"Event", "EventPage", "Happening"},
	{"TeamMember", "StaffProfile", "Person"},
	{"Testimonial", "Review", "Quote"},
	{"Service", "ServicePage", "Offering"},
	{"GalleryItem", "PortfolioItem", "Gallery", "Portfolio"},
	{"FaqItem", "Faq", "Question"},
	{"PricingPlan", "Plan", "Tier"},
}

// clusterOf returns the index of the semantic cluster containing name, or
// -1 when the name belongs to no cluster. Matching is case-insensitive.
func clusterOf(name string) int {
	for i, cluster := range semanticClusters {
		for _, member := range cluster {
			if strings.EqualFold(member, name) {
				return i
			}
		}
	}
	return -1
}

// sameSemanticGroup reports whether two type names fall in the same
// synonym cluster.
func sameSemanticGroup(a, b string) bool {
	ca := clusterOf(a)
	return ca >= 0 && ca == clusterOf(b)
}
