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
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitesmith-labs/anvil/internal/log"
	"github.com/sitesmith-labs/anvil/internal/version"
	"github.com/sitesmith-labs/anvil/pkg/contenttype"
	"github.com/sitesmith-labs/anvil/pkg/promptctx"
	"github.com/sitesmith-labs/anvil/pkg/sitestore"
	"github.com/sitesmith-labs/anvil/pkg/toolkit"
	"github.com/sitesmith-labs/anvil/pkg/toolkit/builtin"
)

var (
	cfgFile string
	config  *Config
)

var rootCmd = &cobra.Command{
	Use:   "anvil",
	Short: "Anvil - Tool orchestration and content-type validation for AI site builders",
	Long: `Anvil validates AI-proposed content-type schemas, executes builder tools
inside transactions, and assembles token-budgeted prompt context from the
site's existing schema surface.`,
	Version:      version.Get(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = loadConfig(cfgFile)
		if err != nil {
			return err
		}
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			config.Logging.Debug = true
		}
		return log.Init(config.Logging.Debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $ANVIL_DATA_DIR/anvil.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(websiteCmd)
}

// app bundles the wired components behind a command invocation.
type app struct {
	store     *sitestore.Store
	validator *contenttype.Validator
	builder   *promptctx.Builder
	registry  *toolkit.Registry
	executor  *toolkit.Executor
}

// newApp opens the store and wires the registry, executor, validator, and
// context builder from the loaded config.
func newApp(cmd *cobra.Command) (*app, error) {
	dbPath := config.Database.Path
	if flagDB, _ := cmd.Flags().GetString("db"); flagDB != "" {
		dbPath = flagDB
	}

	store, err := sitestore.Open(dbPath, log.Logger())
	if err != nil {
		return nil, err
	}

	thresholds := contenttype.DefaultThresholds()
	if config.Validation.DuplicateOverlap > 0 {
		thresholds.DuplicateOverlap = config.Validation.DuplicateOverlap
	}
	if config.Validation.ExtendOverlap > 0 {
		thresholds.ExtendOverlap = config.Validation.ExtendOverlap
	}
	primitives := contenttype.BuiltinCatalog()
	validator := contenttype.NewValidator(primitives,
		contenttype.WithThresholds(thresholds))

	builderOpts := []promptctx.BuilderOption{
		promptctx.WithBuilderLogger(log.Logger()),
	}
	if config.Context.MaxTokens > 0 {
		builderOpts = append(builderOpts, promptctx.WithMaxTokens(config.Context.MaxTokens))
	}
	if config.Context.TTLSeconds > 0 {
		builderOpts = append(builderOpts, promptctx.WithTTL(time.Duration(config.Context.TTLSeconds)*time.Second))
	}
	builder := promptctx.NewBuilder(store, builderOpts...)

	reg := toolkit.NewRegistry()
	if err := builtin.Register(reg, builtin.Deps{
		Store:      store,
		Validator:  validator,
		Builder:    builder,
		Primitives: primitives,
	}); err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{
		store:     store,
		validator: validator,
		builder:   builder,
		registry:  reg,
		executor: toolkit.NewExecutor(reg,
			toolkit.WithTransactionManager(store),
			toolkit.WithLogger(log.Logger())),
	}, nil
}

func (a *app) close() {
	_ = a.store.Close()
}
