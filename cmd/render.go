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
	"clam-eye/domain/entities"
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"io"
	"sort"
	"strings"
)

var (
	colorInk      = lipgloss.Color("#E5E9F0")
	colorDim      = lipgloss.Color("#7A8291")
	colorClean    = lipgloss.Color("#A3BE8C")
	colorInfected = lipgloss.Color("#BF616A")
	colorWarn     = lipgloss.Color("#EBCB8B")
)

var (
	targetStyle   = lipgloss.NewStyle().Foreground(colorInk)
	cleanStyle    = lipgloss.NewStyle().Foreground(colorClean)
	infectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorInfected)
	warnStyle     = lipgloss.NewStyle().Foreground(colorWarn)
	dimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorInk)
)

func renderVerdict(w io.Writer, verdict entities.Verdict) {
	switch verdict.Status {
	case entities.Clean:
		fmt.Fprintf(w, "%s %s\n", cleanStyle.Render("OK      "), targetStyle.Render(verdict.Target))
	case entities.Infected:
		line := fmt.Sprintf("%s %s %s", infectedStyle.Render("INFECTED"), targetStyle.Render(verdict.Target),
			infectedStyle.Render(strings.Join(verdict.Viruses, ", ")))
		if verdict.Action != "" && verdict.Action != entities.ActionNone {
			line += " " + dimStyle.Render("("+string(verdict.Action)+")")
		}

		fmt.Fprintln(w, line)
	default:
		reason := "unknown error"
		if verdict.Err != nil {
			reason = verdict.Err.Error()
		}

		fmt.Fprintf(w, "%s %s %s\n", warnStyle.Render("ERROR   "), targetStyle.Render(verdict.Target), dimStyle.Render(reason))
	}
}

func renderSummary(w io.Writer, result *entities.BatchResult) {
	errored := make([]string, 0, len(result.Errors))
	for target := range result.Errors {
		errored = append(errored, target)
	}

	sort.Strings(errored)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Scan summary"))
	fmt.Fprintf(w, "  %s %d\n", dimStyle.Render("clean:   "), len(result.GoodFiles))
	fmt.Fprintf(w, "  %s %d\n", dimStyle.Render("infected:"), len(result.BadFiles))
	fmt.Fprintf(w, "  %s %d\n", dimStyle.Render("errors:  "), len(result.Errors))

	if len(result.Viruses) > 0 {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("viruses: "), infectedStyle.Render(strings.Join(result.Viruses, ", ")))
	}

	for _, target := range errored {
		fmt.Fprintf(w, "    %s %s %s\n", dimStyle.Render("-"), targetStyle.Render(target), dimStyle.Render(result.Errors[target].Error()))
	}

	if result.Incomplete {
		fmt.Fprintln(w, warnStyle.Render("  scan did not finish, results are partial"))
	}
}

// exitStatus maps a finished batch to the exit code convention of clamscan.
func exitStatus(result *entities.BatchResult) error {
	switch result.Status() {
	case entities.Infected:
		return &exitError{code: exitInfected}
	case entities.Indeterminate:
		return &exitError{code: exitFailure}
	default:
		return nil
	}
}

// verdictsOf rebuilds per-target verdicts of a result that was not scanned with a progress callback.
func verdictsOf(result *entities.BatchResult) []entities.Verdict {
	verdicts := make([]entities.Verdict, 0, result.Len())

	for _, target := range result.GoodFiles {
		verdicts = append(verdicts, entities.Verdict{Target: target, Status: entities.Clean})
	}

	for _, target := range result.BadFiles {
		verdicts = append(verdicts, entities.Verdict{Target: target, Status: entities.Infected, Viruses: result.Viruses})
	}

	for target, err := range result.Errors {
		verdicts = append(verdicts, entities.NewIndeterminateVerdict(target, err))
	}

	return verdicts
}
