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
	"github.com/spf13/cobra"
)

var websiteCmd = &cobra.Command{
	Use:   "website",
	Short: "Manage websites",
}

var websiteCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a website",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "create_website", map[string]interface{}{"name": args[0]})
	},
}

var websiteDeleteCmd = &cobra.Command{
	Use:   "delete <website-id>",
	Short: "Delete a website and everything it contains",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "delete_website", map[string]interface{}{"website_id": args[0]})
	},
}

// runTool executes one builtin tool through the shared executor and prints
// its result.
func runTool(cmd *cobra.Command, name string, params map[string]interface{}) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.executor.Execute(cmd.Context(), name, params, nil)
	if res != nil {
		printJSON(res)
	}
	return err
}

func init() {
	websiteCmd.AddCommand(websiteCreateCmd)
	websiteCmd.AddCommand(websiteDeleteCmd)
}
