/*
 *    Copyright 2023 iFood
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package cmd

import (
	"clam-eye/app"
	"clam-eye/common"
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"os"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the engine and signature database version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(cmd, false, func(ctx context.Context, orchestrator *app.Orchestrator) error {
			version, err := orchestrator.Scanner.Version(ctx)
			if err != nil {
				return err
			}

			if version.Engine == "" {
				fmt.Fprintln(os.Stdout, version.Raw)
				return nil
			}

			fmt.Fprintf(os.Stdout, "%s %s\n", dimStyle.Render("engine:    "), targetStyle.Render(version.Engine))
			fmt.Fprintf(os.Stdout, "%s %s\n", dimStyle.Render("signatures:"), common.ConvertNumberToHumanReadable(version.Signatures))

			if !version.SignatureDate.IsZero() {
				fmt.Fprintf(os.Stdout, "%s %s\n", dimStyle.Render("updated:   "), version.SignatureDate.Format("2006-01-02 15:04:05"))
			}

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
