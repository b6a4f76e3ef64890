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
	"context"
	"github.com/spf13/cobra"
	"os"
)

var scanCmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "Scan files, or the configured file list when none is given",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(cmd, false, func(ctx context.Context, orchestrator *app.Orchestrator) error {
			progress := func(verdict entities.Verdict) {
				renderVerdict(os.Stdout, verdict)
			}

			result, err := orchestrator.Scanner.ScanFiles(ctx, args, progress)
			if err != nil {
				return err
			}

			renderSummary(os.Stdout, result)

			return exitStatus(result)
		})
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
