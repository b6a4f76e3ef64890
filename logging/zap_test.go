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

package logging

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestScanLoggerWritesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.log")

	logger, closeLog, err := NewScanLogger(path)
	require.NoError(t, err)

	logger.Infow("verdict", "target", "/tmp/eicar.txt", "status", "infected")
	require.NoError(t, closeLog())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "\"target\":\"/tmp/eicar.txt\"")
	assert.Contains(t, string(content), "\"message\":\"verdict\"")
}

func TestScanLoggerDisabled(t *testing.T) {
	logger, closeLog, err := NewScanLogger("")
	assert.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closeLog())
}
