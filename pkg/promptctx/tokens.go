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
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates token counts for prompt budget enforcement.
// Uses tiktoken with cl100k_base encoding, a good approximation for the
// hosted models the agent runs on.
type TokenCounter struct {
	encoder *tiktoken.Tiktoken
	mu      sync.Mutex
}

// NewTokenCounter creates a token counter. When the tiktoken encoding
// cannot be loaded the counter falls back to character-based estimation.
func NewTokenCounter() *TokenCounter {
	tkm, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &TokenCounter{}
	}
	return &TokenCounter{encoder: tkm}
}

// Count returns the token count for a given text.
func (tc *TokenCounter) Count(text string) int {
	if tc.encoder == nil {
		// Roughly 4 characters per token.
		return len(text) / 4
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.encoder.Encode(text, nil, nil))
}

// CountAll counts tokens across multiple text segments.
func (tc *TokenCounter) CountAll(texts ...string) int {
	total := 0
	for _, text := range texts {
		total += tc.Count(text)
	}
	return total
}
