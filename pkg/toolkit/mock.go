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
package toolkit

import (
	"context"
	"sync"
)

// MockTool builds controllable tool definitions for tests. It records every
// invocation so tests can assert exactly-once semantics and inspect the
// parameters the executor delivered. Thread-safe for concurrent testing.
type MockTool struct {
	mu           sync.Mutex
	ExecuteCount int
	LastParams   map[string]interface{}

	// Behavior invoked by the generated handler. Nil means a default
	// success result.
	Behavior func(ctx context.Context, params map[string]interface{}, ec *ExecContext) (*Result, error)
}

// Definition returns a tool definition whose handler records invocations on
// the mock before delegating to Behavior.
func (m *MockTool) Definition(name string, schema *JSONSchema, requiresTx bool) *Definition {
	return &Definition{
		Name:                name,
		Description:         "Mock tool for testing",
		InputSchema:         schema,
		RequiresTransaction: requiresTx,
		Handler: func(ctx context.Context, params map[string]interface{}, ec *ExecContext) (*Result, error) {
			m.mu.Lock()
			m.ExecuteCount++
			m.LastParams = params
			m.mu.Unlock()

			if m.Behavior != nil {
				return m.Behavior(ctx, params, ec)
			}
			return &Result{
				Success:  true,
				Data:     "mock result",
				Metadata: map[string]interface{}{"mock": true},
			}, nil
		},
	}
}

// Count returns the number of recorded invocations.
func (m *MockTool) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecuteCount
}

// MockTxManager is an in-memory TransactionManager that records commit and
// rollback outcomes for assertions.
type MockTxManager struct {
	mu        sync.Mutex
	Commits   int
	Rollbacks int

	// Handle is the opaque value passed to transactional handlers.
	Handle Tx
}

// WithTransaction invokes fn with the configured handle, recording a commit
// on nil return and a rollback otherwise.
func (m *MockTxManager) WithTransaction(ctx context.Context, fn func(tx Tx) error) error {
	handle := m.Handle
	if handle == nil {
		handle = struct{}{}
	}
	err := fn(handle)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.Rollbacks++
		return err
	}
	if ctx.Err() != nil {
		m.Rollbacks++
		return ctx.Err()
	}
	m.Commits++
	return nil
}
