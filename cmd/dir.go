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
	"clam-eye/domain/entities"
	"clam-eye/domain/ports/in"
	"context"
	"github.com/spf13/cobra"
	"os"
)

var recursive bool

var dirCmd = &cobra.Command{
	Use:   "dir <path>",
	Short: "Scan every file of a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []in.DirOption
		if cmd.Flags().Changed("recursive") {
			opts = append(opts, in.WithRecursion(recursive))
		}

		return withOrchestrator(cmd, false, func(ctx context.Context, orchestrator *app.Orchestrator) error {
			progress := func(verdict entities.Verdict) {
				renderVerdict(os.Stdout, verdict)
			}

			result, err := orchestrator.Scanner.ScanDir(ctx, args[0], progress, opts...)
			if err != nil {
				return err
			}

			renderSummary(os.Stdout, result)

			return exitStatus(result)
		})
	},
}

func init() {
	dirCmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "descend into subdirectories (default from config)")
	rootCmd.AddCommand(dirCmd)
}
