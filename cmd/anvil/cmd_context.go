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
)

var contextTemplate string

var contextCmd = &cobra.Command{
	Use:   "context <website-id>",
	Short: "Build the dynamic prompt context for a website",
	Long: `Assembles the prompt context snapshot for a website: available types,
formatted type and component summaries, and common fields. With
--template, substitutes the snapshot into the given prompt template
file instead of printing JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		snap, err := a.builder.BuildContext(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if contextTemplate == "" {
			printJSON(map[string]interface{}{
				"websiteId":            snap.WebsiteID,
				"availableTypes":       snap.AvailableTypes,
				"existingContentTypes": snap.ExistingContentTypes,
				"reusableComponents":   snap.ReusableComponents,
				"commonFields":         snap.CommonFields,
				"estimatedTokens":      snap.EstimatedTokens,
				"builtAt":              snap.BuiltAt,
			})
			return nil
		}

		buf, err := os.ReadFile(contextTemplate)
		if err != nil {
			return err
		}
		fmt.Println(snap.PopulateTemplate(string(buf)))
		return nil
	},
}

func init() {
	contextCmd.Flags().StringVar(&contextTemplate, "template", "", "prompt template file with {{placeholder}} markers")
}
