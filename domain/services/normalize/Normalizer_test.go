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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	type test struct {
		name            string
		raw             entities.RawResponse
		expectedStatus  entities.InfectionStatus
		expectedViruses []string
		expectedKind    error
	}

	tests := []test{
		{
			name:            "daemon clean",
			raw:             entities.RawResponse{ExitCode: -1, Output: "/tmp/clean.txt: OK\x00"},
			expectedStatus:  entities.Clean,
			expectedViruses: []string{},
		},
		{
			name:            "daemon infected with trailing whitespace",
			raw:             entities.RawResponse{ExitCode: -1, Output: "/tmp/eicar.txt: Eicar-Test-Signature FOUND \r\n"},
			expectedStatus:  entities.Infected,
			expectedViruses: []string{"Eicar-Test-Signature"},
		},
		{
			name: "multiple threats are deduplicated in order",
			raw: entities.RawResponse{ExitCode: -1, Lines: []string{
				"/tmp/a.zip: Win.Test.A FOUND",
				"/tmp/a.zip: Eicar-Test-Signature FOUND",
				"/tmp/a.zip: Win.Test.A FOUND",
			}},
			expectedStatus:  entities.Infected,
			expectedViruses: []string{"Win.Test.A", "Eicar-Test-Signature"},
		},
		{
			name:            "stream answer",
			raw:             entities.RawResponse{ExitCode: -1, Output: "stream: Eicar-Test-Signature FOUND\x00"},
			expectedStatus:  entities.Infected,
			expectedViruses: []string{"Eicar-Test-Signature"},
		},
		{
			name:            "bare ok",
			raw:             entities.RawResponse{ExitCode: -1, Output: "OK\n"},
			expectedStatus:  entities.Clean,
			expectedViruses: []string{},
		},
		{
			name:            "empty file is clean",
			raw:             entities.RawResponse{ExitCode: 0, Output: "/tmp/empty: Empty file\n"},
			expectedStatus:  entities.Clean,
			expectedViruses: []string{},
		},
		{
			name:            "daemon error line",
			raw:             entities.RawResponse{ExitCode: -1, Output: "/tmp/x: lstat() failed: No such file or directory. ERROR\x00"},
			expectedStatus:  entities.Indeterminate,
			expectedViruses: []string{},
			expectedKind:    entities.ErrTransport,
		},
		{
			name:            "subprocess infected",
			raw:             entities.RawResponse{ExitCode: 1, Output: "/tmp/eicar.txt: Eicar-Test-Signature FOUND\n"},
			expectedStatus:  entities.Infected,
			expectedViruses: []string{"Eicar-Test-Signature"},
		},
		{
			name:            "subprocess infected exit code without names",
			raw:             entities.RawResponse{ExitCode: 1, Output: ""},
			expectedStatus:  entities.Infected,
			expectedViruses: []string{},
		},
		{
			name:            "subprocess operational error",
			raw:             entities.RawResponse{ExitCode: 2, Output: "ERROR: Can't open file /tmp/x\n"},
			expectedStatus:  entities.Indeterminate,
			expectedViruses: []string{},
			expectedKind:    entities.ErrTransport,
		},
		{
			name:            "subprocess unexpected exit code",
			raw:             entities.RawResponse{ExitCode: 50, Output: "database initialization error"},
			expectedStatus:  entities.Indeterminate,
			expectedViruses: []string{},
			expectedKind:    entities.ErrTransport,
		},
		{
			name:            "unrecognized output",
			raw:             entities.RawResponse{ExitCode: -1, Output: "UNKNOWN COMMAND\x00"},
			expectedStatus:  entities.Indeterminate,
			expectedViruses: []string{},
			expectedKind:    entities.ErrParse,
		},
		{
			name:            "empty daemon answer",
			raw:             entities.RawResponse{ExitCode: -1},
			expectedStatus:  entities.Indeterminate,
			expectedViruses: []string{},
			expectedKind:    entities.ErrParse,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verdict := Normalize("target", tc.raw)

			assert.Equal(t, "target", verdict.Target)
			assert.Equal(t, tc.expectedStatus, verdict.Status)
			assert.Equal(t, tc.expectedViruses, verdict.Viruses)

			if tc.expectedKind == nil {
				assert.NoError(t, verdict.Err)
			} else {
				assert.ErrorIs(t, verdict.Err, tc.expectedKind)
			}
		})
	}
}

func TestNormalizeKeepsRawOutputOnParseError(t *testing.T) {
	verdict := Normalize("target", entities.RawResponse{ExitCode: -1, Output: "garbage"})

	var scanErr *entities.ScanError
	require.ErrorAs(t, verdict.Err, &scanErr)
	assert.Equal(t, "garbage", scanErr.Raw)
}

func TestParseVersion(t *testing.T) {
	t.Run("full banner", func(t *testing.T) {
		version, err := ParseVersion("ClamAV 1.2.0/27000/Mon Oct 12 08:00:00 2026\n")

		require.NoError(t, err)
		assert.Equal(t, "1.2.0", version.Engine)
		assert.Equal(t, 27000, version.Signatures)
		assert.Equal(t, time.Date(2026, time.October, 12, 8, 0, 0, 0, time.UTC), version.SignatureDate)
	})

	t.Run("banner without database", func(t *testing.T) {
		version, err := ParseVersion("ClamAV 1.0.1")

		require.NoError(t, err)
		assert.Equal(t, "1.0.1", version.Engine)
		assert.Zero(t, version.Signatures)
		assert.True(t, version.SignatureDate.IsZero())
	})

	t.Run("invalid banner", func(t *testing.T) {
		_, err := ParseVersion("clamd is not running")

		assert.True(t, entities.IsParseError(err))
	})

	t.Run("outdated database", func(t *testing.T) {
		version, err := ParseVersion("ClamAV 1.2.0/27000/Mon Oct 12 08:00:00 2026")
		require.NoError(t, err)

		now := time.Date(2026, time.October, 20, 8, 0, 0, 0, time.UTC)
		assert.True(t, version.Outdated(now, 24*time.Hour))
		assert.False(t, version.Outdated(now, 30*24*time.Hour))
		assert.False(t, version.Outdated(now, 0))
	})
}
