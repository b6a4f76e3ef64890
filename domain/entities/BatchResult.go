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

// BatchResult aggregates verdicts of many targets. A target is recorded at most once,
// either as good, bad or errored.
type BatchResult struct {
	Path       string
	GoodFiles  []string
	BadFiles   []string
	Errors     map[string]error
	Viruses    []string
	Incomplete bool

	seen      map[string]struct{}
	seenVirus map[string]struct{}
}

func NewBatchResult(path string) *BatchResult {
	return &BatchResult{
		Path:      path,
		GoodFiles: []string{},
		BadFiles:  []string{},
		Errors:    make(map[string]error),
		Viruses:   []string{},
		seen:      make(map[string]struct{}),
		seenVirus: make(map[string]struct{}),
	}
}

// Add records a verdict. Indeterminate verdicts go to the error map. Returns false when
// the target was already recorded.
func (b *BatchResult) Add(verdict Verdict) bool {
	switch verdict.Status {
	case Clean:
		if !b.markSeen(verdict.Target) {
			return false
		}

		b.GoodFiles = append(b.GoodFiles, verdict.Target)
	case Infected:
		if !b.markSeen(verdict.Target) {
			return false
		}

		b.BadFiles = append(b.BadFiles, verdict.Target)
		b.addViruses(verdict.Viruses)
	default:
		err := verdict.Err
		if err == nil {
			err = NewParseError(verdict.Target, "", "engine returned no usable verdict")
		}

		return b.AddError(verdict.Target, err)
	}

	return true
}

func (b *BatchResult) AddError(target string, err error) bool {
	if !b.markSeen(target) {
		return false
	}

	b.Errors[target] = err

	return true
}

func (b *BatchResult) Contains(target string) bool {
	_, ok := b.seen[target]
	return ok
}

func (b *BatchResult) Len() int {
	return len(b.seen)
}

// Status summarizes the batch: any infected target wins, then any failure.
func (b *BatchResult) Status() InfectionStatus {
	switch {
	case len(b.BadFiles) > 0:
		return Infected
	case len(b.Errors) > 0 || b.Incomplete:
		return Indeterminate
	default:
		return Clean
	}
}

func (b *BatchResult) markSeen(target string) bool {
	if _, ok := b.seen[target]; ok {
		return false
	}

	b.seen[target] = struct{}{}

	return true
}

func (b *BatchResult) addViruses(viruses []string) {
	for _, virus := range viruses {
		if _, ok := b.seenVirus[virus]; ok {
			continue
		}

		b.seenVirus[virus] = struct{}{}
		b.Viruses = append(b.Viruses, virus)
	}
}
