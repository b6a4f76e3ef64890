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
	"context"
	"github.com/spf13/cobra"
	"os"
)

var streamName string

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Scan data read from stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(cmd, false, func(ctx context.Context, orchestrator *app.Orchestrator) error {
			result, err := orchestrator.Scanner.ScanStream(ctx, streamName, cmd.InOrStdin())
			if err != nil {
				return err
			}

			for _, verdict := range verdictsOf(result) {
				renderVerdict(os.Stdout, verdict)
			}

			return exitStatus(result)
		})
	},
}

func init() {
	streamCmd.Flags().StringVarP(&streamName, "name", "n", "stdin", "name reported for the stream")
	rootCmd.AddCommand(streamCmd)
}
