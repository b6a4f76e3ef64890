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

package normalize

import (
	"clam-eye/domain/entities"
	"fmt"
	"strings"
)

const (
	exitClean    = 0
	exitInfected = 1
	exitError    = 2

	foundSuffix = " FOUND"
	errorSuffix = " ERROR"
	okToken     = "OK"
	emptyToken  = "Empty file"
)

type lineKind int8

const (
	unknownLine lineKind = iota
	okLine
	foundLine
	errorLine
)

type parsedLine struct {
	kind   lineKind
	detail string
}

// Normalize turns an engine answer into a verdict for target. It never fails: answers that
// cannot be understood produce an Indeterminate verdict carrying the diagnostic.
func Normalize(target string, raw entities.RawResponse) entities.Verdict {
	verdict := entities.Verdict{
		Target:    target,
		Status:    entities.Indeterminate,
		Viruses:   []string{},
		Transport: raw.Transport,
		Action:    entities.ActionNone,
	}

	lines := raw.Lines
	if len(lines) == 0 && raw.Output != "" {
		lines = entities.SplitLines(raw.Output)
	}

	var (
		seen      = make(map[string]struct{})
		sawOK     bool
		errorMsgs []string
	)

	for _, line := range lines {
		parsed := parseLine(line)
		switch parsed.kind {
		case foundLine:
			if _, ok := seen[parsed.detail]; !ok {
				seen[parsed.detail] = struct{}{}
				verdict.Viruses = append(verdict.Viruses, parsed.detail)
			}
		case errorLine:
			errorMsgs = append(errorMsgs, parsed.detail)
		case okLine:
			sawOK = true
		}
	}

	switch {
	case len(verdict.Viruses) > 0:
		verdict.Status = entities.Infected
	case raw.ExitCode == exitInfected:
		// clamscan may report the infection only through its exit code when output is truncated.
		verdict.Status = entities.Infected
	case len(errorMsgs) > 0:
		verdict.Err = entities.NewTransportError(target, strings.Join(errorMsgs, "; "), nil)
	case raw.ExitCode == exitError:
		verdict.Err = entities.NewTransportError(target, fmt.Sprintf("engine exited with code %d: %s", raw.ExitCode, compact(raw.Output)), nil)
	case raw.ExitCode > exitError:
		verdict.Err = entities.NewTransportError(target, fmt.Sprintf("engine exited with unexpected code %d: %s", raw.ExitCode, compact(raw.Output)), nil)
	case sawOK:
		verdict.Status = entities.Clean
	case raw.ExitCode == exitClean && len(lines) == 0:
		verdict.Status = entities.Clean
	default:
		verdict.Err = entities.NewParseError(target, raw.Output, "unrecognized engine output")
	}

	return verdict
}

func parseLine(line string) parsedLine {
	line = clean(line)
	if line == okToken {
		return parsedLine{kind: okLine}
	}

	sep := strings.LastIndex(line, ": ")
	if sep < 0 {
		return parsedLine{kind: unknownLine}
	}

	status := line[sep+2:]

	switch {
	case strings.HasSuffix(status, foundSuffix):
		name := strings.TrimSpace(strings.TrimSuffix(status, foundSuffix))
		if name == "" {
			return parsedLine{kind: unknownLine}
		}

		return parsedLine{kind: foundLine, detail: name}
	case strings.HasSuffix(status, errorSuffix):
		return parsedLine{kind: errorLine, detail: strings.TrimSpace(strings.TrimSuffix(status, errorSuffix))}
	case status == okToken || status == emptyToken:
		return parsedLine{kind: okLine}
	case status == "ERROR":
		return parsedLine{kind: errorLine, detail: strings.TrimSpace(line[:sep])}
	}

	return parsedLine{kind: unknownLine}
}

func clean(line string) string {
	return strings.TrimRight(strings.TrimSpace(line), "\x00")
}

func compact(output string) string {
	return strings.Join(entities.SplitLines(output), " | ")
}
