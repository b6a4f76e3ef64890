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

package entities

import (
	"io"
	"os"
	"strings"
	"time"
)

// DaemonExitCode marks responses that did not come from a process.
const DaemonExitCode = -1

// ScanTarget is a candidate produced by directory enumeration or an explicit file list.
type ScanTarget struct {
	Path string
	Info os.FileInfo // Nil for explicit targets that were not stat'ed yet
}

type Payload struct {
	Path   string    // Absolute file path, empty for streams
	Stream io.Reader // Stream content, nil for files
	Name   string    // Identifier reported in verdicts
}

func (p Payload) IsStream() bool {
	return p.Stream != nil
}

func (p Payload) Target() string {
	if p.Name != "" {
		return p.Name
	}

	return p.Path
}

// RawResponse is what an engine answered before normalization.
type RawResponse struct {
	Transport string
	ExitCode  int // -1 for daemon responses
	Lines     []string
	Output    string
}

func NewRawResponse(transport string, exitCode int, output string) RawResponse {
	return RawResponse{Transport: transport, ExitCode: exitCode, Lines: SplitLines(output), Output: output}
}

// SplitLines splits an engine answer on newlines and null terminators, dropping blanks.
func SplitLines(output string) []string {
	fields := strings.FieldsFunc(output, func(r rune) bool {
		return r == '\n' || r == '\x00'
	})

	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		if line := strings.TrimRight(strings.TrimSpace(field), "\x00"); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

type EngineVersion struct {
	Engine        string
	Signatures    int
	SignatureDate time.Time
	Raw           string
}

// Outdated tells whether the signature database is older than maxAge at now.
func (v EngineVersion) Outdated(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 || v.SignatureDate.IsZero() {
		return false
	}

	return now.Sub(v.SignatureDate) > maxAge
}
