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
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// errReportedFailure signals the transaction wrapper to roll back when a
// handler returned a structured failure without throwing. It never escapes
// Execute.
var errReportedFailure = errors.New("tool reported failure")

// ExecOptions configures a single tool invocation.
type ExecOptions struct {
	// ValidateOnly short-circuits after schema validation and returns a
	// success result with metadata "validated" set, without invoking the
	// tool body. Used for dry-run UIs.
	ValidateOnly bool

	// Timeout bounds the tool body's execution. Zero means no bound
	// beyond ctx. When the timer fires first the call fails with a
	// TimeoutError and the body's eventual settlement is discarded.
	Timeout time.Duration
}

// ToolCall is one entry of a sequential batch.
type ToolCall struct {
	Name   string
	Params map[string]interface{}
}

// Executor validates parameters, scopes transactions, enforces timeouts
// and reports structured results for registered tools.
type Executor struct {
	registry *Registry
	txm      TransactionManager
	logger   *zap.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithTransactionManager wires the transactional persistence capability.
// Tools that declare RequiresTransaction fail without one.
func WithTransactionManager(txm TransactionManager) ExecutorOption {
	return func(e *Executor) { e.txm = txm }
}

// WithLogger sets the executor's logger.
func WithLogger(logger *zap.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// NewExecutor creates a new tool executor over the given registry.
func NewExecutor(registry *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry: registry,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs a tool by name.
//
// Outcome contract:
//   - Unregistered name: a failure Result and a nil error. A caller
//     iterating many tool calls must not crash on one bad name.
//   - Schema violation: a failure Result and a *ToolValidationError.
//   - Handler error: a failure Result and a *ToolExecutionError wrapping
//     the cause.
//   - Timeout: a failure Result and a *TimeoutError; the handler's
//     eventual settlement is discarded.
//
// Every Result, success or failure, carries ToolName and wall-clock
// ExecutionTimeMs measured from entry to exit of Execute.
func (e *Executor) Execute(ctx context.Context, name string, params map[string]interface{}, opts *ExecOptions) (*Result, error) {
	start := time.Now()
	if opts == nil {
		opts = &ExecOptions{}
	}

	def, ok := e.registry.Get(name)
	if !ok {
		return e.finish(&Result{
			Success: false,
			Error: &Error{
				Code:    "tool_not_found",
				Message: fmt.Sprintf("Tool %s not found", name),
			},
		}, name, start), nil
	}

	parsed, err := ValidateParams(name, def.InputSchema, params)
	if err != nil {
		e.logger.Debug("tool parameter validation failed",
			zap.String("tool", name), zap.Error(err))
		return e.finish(&Result{
			Success: false,
			Error:   &Error{Code: "validation_failed", Message: err.Error()},
		}, name, start), err
	}

	if opts.ValidateOnly {
		res := e.finish(&Result{Success: true}, name, start)
		res.Metadata["validated"] = true
		return res, nil
	}

	result, err := e.run(ctx, def, parsed, opts.Timeout)
	res := e.finish(result, name, start)
	if err != nil {
		e.logger.Debug("tool execution failed",
			zap.String("tool", name),
			zap.Int64("execution_time_ms", res.ExecutionTimeMs),
			zap.Error(err))
	}
	return res, err
}

// ExecuteBatch executes calls strictly in order, never concurrently, so
// later entries may depend on earlier writes. It stops at the first entry
// whose outcome is a failure: results up to and including the failing one
// are returned and subsequent tools are never invoked. Each transactional
// entry receives a freshly scoped transaction; the batch never shares one.
func (e *Executor) ExecuteBatch(ctx context.Context, calls []ToolCall) []*Result {
	results := make([]*Result, 0, len(calls))
	for _, call := range calls {
		res, err := e.Execute(ctx, call.Name, call.Params, nil)
		results = append(results, res)
		if err != nil || !res.Success {
			break
		}
	}
	return results
}

// run invokes the tool body, racing it against the timeout when one is
// configured. The loser of the race is discarded via a buffered channel so
// the caller observes exactly one outcome.
func (e *Executor) run(ctx context.Context, def *Definition, params map[string]interface{}, timeout time.Duration) (*Result, error) {
	if timeout <= 0 {
		return e.invoke(ctx, def, params)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := e.invoke(ctx, def, params)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			terr := &TimeoutError{Tool: def.Name, Limit: timeout}
			return &Result{
				Success: false,
				Error:   &Error{Code: "timeout", Message: "Tool execution timeout", Retryable: true},
			}, terr
		}
		eerr := &ToolExecutionError{Tool: def.Name, Err: ctx.Err()}
		return &Result{
			Success: false,
			Error:   &Error{Code: "canceled", Message: ctx.Err().Error()},
		}, eerr
	}
}

// invoke calls the handler, opening a transaction scope first when the
// definition requires one. The scope never outlives the call: the wrapper
// commits on success and rolls back on handler error, reported failure, or
// context cancellation.
func (e *Executor) invoke(ctx context.Context, def *Definition, params map[string]interface{}) (*Result, error) {
	if !def.RequiresTransaction {
		result, err := def.Handler(ctx, params, &ExecContext{})
		return e.settle(def, result, err)
	}

	if e.txm == nil {
		err := &ToolExecutionError{
			Tool: def.Name,
			Err:  errors.New("tool requires a transaction but no transaction manager is configured"),
		}
		return &Result{
			Success: false,
			Error:   &Error{Code: "execution_failed", Message: err.Error()},
		}, err
	}

	var (
		result  *Result
		callErr error
	)
	txErr := e.txm.WithTransaction(ctx, func(tx Tx) error {
		result, callErr = def.Handler(ctx, params, &ExecContext{Tx: tx})
		if callErr != nil {
			return callErr
		}
		if result != nil && !result.Success {
			return errReportedFailure
		}
		return nil
	})

	if callErr != nil {
		return e.settle(def, result, callErr)
	}
	if txErr != nil && !errors.Is(txErr, errReportedFailure) {
		// Commit machinery failed after a successful handler run.
		err := &ToolExecutionError{Tool: def.Name, Err: txErr}
		return &Result{
			Success: false,
			Error:   &Error{Code: "transaction_failed", Message: err.Error(), Retryable: true},
		}, err
	}
	return e.settle(def, result, nil)
}

// settle normalizes a handler's raw return into the Result union: thrown
// errors become ToolExecutionError alongside a failure result, and a nil
// result from a quiet handler becomes a plain success.
func (e *Executor) settle(def *Definition, result *Result, err error) (*Result, error) {
	if err != nil {
		eerr := &ToolExecutionError{Tool: def.Name, Err: err}
		return &Result{
			Success: false,
			Error:   &Error{Code: "execution_failed", Message: err.Error()},
		}, eerr
	}
	if result == nil {
		result = &Result{Success: true}
	}
	return result, nil
}

// finish stamps the invocation metadata every outcome carries.
func (e *Executor) finish(res *Result, name string, start time.Time) *Result {
	if res == nil {
		res = &Result{Success: true}
	}
	res.ToolName = name
	res.ExecutionTimeMs = time.Since(start).Milliseconds()
	if res.Metadata == nil {
		res.Metadata = make(map[string]interface{})
	}
	res.Metadata["tool_name"] = name
	res.Metadata["execution_time_ms"] = res.ExecutionTimeMs
	return res
}
