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
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitesmith-labs/anvil/pkg/toolkit"
)

var (
	execParams       string
	execTimeout      time.Duration
	execValidateOnly bool
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect and execute builder tools",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		for _, def := range a.registry.ListTools() {
			marker := " "
			if def.RequiresTransaction {
				marker = "*"
			}
			fmt.Printf("%s %-22s %s\n", marker, def.Name, def.Description)
		}
		fmt.Println("\n* runs inside a transaction")
		return nil
	},
}

var toolsExecCmd = &cobra.Command{
	Use:   "exec <tool-name>",
	Short: "Execute a tool with JSON parameters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var params map[string]interface{}
		if execParams != "" {
			if err := json.Unmarshal([]byte(execParams), &params); err != nil {
				return fmt.Errorf("parse --params: %w", err)
			}
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		timeout := execTimeout
		if timeout == 0 && config.Tools.DefaultTimeoutSeconds > 0 {
			timeout = time.Duration(config.Tools.DefaultTimeoutSeconds) * time.Second
		}

		res, err := a.executor.Execute(cmd.Context(), args[0], params, &toolkit.ExecOptions{
			Timeout:      timeout,
			ValidateOnly: execValidateOnly,
		})
		if res != nil {
			printJSON(res)
		}
		return err
	},
}

func init() {
	toolsExecCmd.Flags().StringVarP(&execParams, "params", "p", "", "tool parameters as a JSON object")
	toolsExecCmd.Flags().DurationVar(&execTimeout, "timeout", 0, "execution timeout (default from config)")
	toolsExecCmd.Flags().BoolVar(&execValidateOnly, "validate-only", false, "validate parameters without executing")

	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsExecCmd)
}

func printJSON(v interface{}) {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", v)
		return
	}
	fmt.Println(string(buf))
}
