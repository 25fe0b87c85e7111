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

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sitesmith-labs/anvil/pkg/contenttype"
)

var validateWebsiteID string

var validateCmd = &cobra.Command{
	Use:   "validate <definition.yaml>",
	Short: "Validate a content-type definition file",
	Long: `Validates a proposed content-type definition (YAML or JSON) against the
primitive catalog and, when --website is given, against that website's
existing types for duplicate detection. Exits non-zero when the
definition is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var def contenttype.Definition
		if err := yaml.Unmarshal(buf, &def); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		if def.Category == "" {
			def.Category = contenttype.CategoryPage
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		var (
			existing   []contenttype.Definition
			components []contenttype.Component
		)
		if validateWebsiteID != "" {
			if existing, err = a.store.LoadContentTypes(cmd.Context(), validateWebsiteID); err != nil {
				return err
			}
			if components, err = a.store.LoadReusableComponents(cmd.Context(), validateWebsiteID); err != nil {
				return err
			}
		}

		report := a.validator.Validate(def, existing, components)
		printJSON(report)
		if !report.Valid {
			return fmt.Errorf("content type %s is invalid", def.Name)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateWebsiteID, "website", "", "website id for duplicate detection against existing types")
}
