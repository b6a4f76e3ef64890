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
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

const (
	exitInfected = 1
	exitFailure  = 2
)

// exitError carries the process exit code of a finished scan.
type exitError struct {
	code    int
	message string
}

func (e *exitError) Error() string {
	return e.message
}

var (
	configFile string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:           "clam-eye",
	Short:         "clam-eye - scan files, directories and streams with ClamAV",
	Long:          "clam-eye drives a local clamscan binary or a clamd daemon and reports normalized verdicts.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.message != "" {
			fmt.Fprintln(os.Stderr, exit.message)
		}

		os.Exit(exit.code)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitFailure)
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: config.yaml in the usual directories)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// withOrchestrator runs fn against a freshly initialized scanner and tears it down afterwards.
func withOrchestrator(cmd *cobra.Command, serve bool, fn func(ctx context.Context, orchestrator *app.Orchestrator) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator, err := app.Bootstrap(ctx, app.Options{ConfigFile: configFile, Debug: debug, Serve: serve})
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := orchestrator.Close(context.Background()); closeErr != nil {
			orchestrator.Logger.Warnw("Failed to tear down scanner", "error", closeErr)
		}
	}()

	return fn(ctx, orchestrator)
}
