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
	"bytes"
	"clam-eye/domain/entities"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestRenderVerdict(t *testing.T) {
	tests := []struct {
		TestName string
		Verdict  entities.Verdict
		Expected []string
	}{
		{
			TestName: "clean",
			Verdict:  entities.Verdict{Target: "/data/a.txt", Status: entities.Clean},
			Expected: []string{"OK", "/data/a.txt"},
		},
		{
			TestName: "infected and quarantined",
			Verdict: entities.Verdict{Target: "/data/eicar.txt", Status: entities.Infected,
				Viruses: []string{"Eicar-Signature"}, Action: entities.ActionQuarantined},
			Expected: []string{"INFECTED", "/data/eicar.txt", "Eicar-Signature", "quarantined"},
		},
		{
			TestName: "indeterminate",
			Verdict:  entities.NewIndeterminateVerdict("/data/missing", entities.NewPathError("/data/missing", "no such file", nil)),
			Expected: []string{"ERROR", "/data/missing", "no such file"},
		},
	}

	for _, test := range tests {
		t.Run(test.TestName, func(t *testing.T) {
			var out bytes.Buffer
			renderVerdict(&out, test.Verdict)

			for _, expected := range test.Expected {
				assert.Contains(t, out.String(), expected)
			}
		})
	}
}

func TestRenderSummary(t *testing.T) {
	result := entities.NewBatchResult("/data")
	result.Add(entities.Verdict{Target: "/data/a", Status: entities.Clean})
	result.Add(entities.Verdict{Target: "/data/b", Status: entities.Infected, Viruses: []string{"Eicar-Signature"}})
	result.AddError("/data/c", errors.New("permission denied"))
	result.Incomplete = true

	var out bytes.Buffer
	renderSummary(&out, result)

	assert.Contains(t, out.String(), "Eicar-Signature")
	assert.Contains(t, out.String(), "/data/c")
	assert.Contains(t, out.String(), "permission denied")
	assert.Contains(t, out.String(), "partial")
}

func TestExitStatus(t *testing.T) {
	clean := entities.NewBatchResult("")
	clean.Add(entities.Verdict{Target: "/a", Status: entities.Clean})
	assert.NoError(t, exitStatus(clean))

	failed := entities.NewBatchResult("")
	failed.Add(entities.Verdict{Target: "/a", Status: entities.Clean})
	failed.AddError("/b", errors.New("boom"))

	var exit *exitError
	require.ErrorAs(t, exitStatus(failed), &exit)
	assert.Equal(t, exitFailure, exit.code)

	infected := entities.NewBatchResult("")
	infected.AddError("/b", errors.New("boom"))
	infected.Add(entities.Verdict{Target: "/c", Status: entities.Infected, Viruses: []string{"Eicar-Signature"}})

	require.ErrorAs(t, exitStatus(infected), &exit)
	assert.Equal(t, exitInfected, exit.code)
}

func TestVerdictsOf(t *testing.T) {
	result := entities.NewBatchResult("stdin")
	result.Add(entities.Verdict{Target: "stdin", Status: entities.Infected, Viruses: []string{"Eicar-Signature"}})

	verdicts := verdictsOf(result)
	require.Len(t, verdicts, 1)
	assert.Equal(t, entities.Infected, verdicts[0].Status)
	assert.Equal(t, []string{"Eicar-Signature"}, verdicts[0].Viruses)
}
