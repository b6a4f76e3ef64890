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
	"bytes"
	"fmt"
)

// InfectionStatus is tri-state on purpose: Indeterminate means the target could not be scanned.
type InfectionStatus int8

const (
	Indeterminate InfectionStatus = iota
	Clean
	Infected
)

var (
	jsonTrue  = []byte("true")
	jsonFalse = []byte("false")
	jsonNull  = []byte("null")
)

func (s InfectionStatus) String() string {
	switch s {
	case Clean:
		return "clean"
	case Infected:
		return "infected"
	default:
		return "indeterminate"
	}
}

// MarshalJSON encodes the status the way API consumers expect it: true, false or null.
func (s InfectionStatus) MarshalJSON() ([]byte, error) {
	switch s {
	case Clean:
		return jsonFalse, nil
	case Infected:
		return jsonTrue, nil
	default:
		return jsonNull, nil
	}
}

func (s *InfectionStatus) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, jsonTrue):
		*s = Infected
	case bytes.Equal(data, jsonFalse):
		*s = Clean
	case bytes.Equal(data, jsonNull):
		*s = Indeterminate
	default:
		return fmt.Errorf("invalid infection status %q", string(data))
	}

	return nil
}

type PolicyAction string

const (
	ActionNone        PolicyAction = "none"
	ActionRemoved     PolicyAction = "removed"
	ActionQuarantined PolicyAction = "quarantined"
	ActionFailed      PolicyAction = "failed"
)

type Verdict struct {
	Target    string          // File path or stream name
	Status    InfectionStatus //
	Viruses   []string        // Empty unless Status is Infected
	Transport string          // Transport that produced the raw response
	Action    PolicyAction    // What the post-scan policy did with an infected file
	Err       error           // Diagnostic for Indeterminate verdicts
}

func NewIndeterminateVerdict(target string, err error) Verdict {
	return Verdict{Target: target, Status: Indeterminate, Viruses: []string{}, Action: ActionNone, Err: err}
}

func (v Verdict) IsInfected() bool {
	return v.Status == Infected
}
