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


package out

import (
	"clam-eye/common"
	"clam-eye/domain/entities"
	"clam-eye/logging"
	"clam-eye/metrics"
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"
	"path/filepath"
	"testing"
	"time"
)

func TestEngineFactory(t *testing.T) {
	daemon := entities.ClamdscanOptions{Socket: "/run/clamd.sock", Active: true, Concurrency: 4}
	local := entities.ClamscanOptions{Path: "/usr/bin/clamscan", Active: true, Concurrency: 1}

	tests := []struct {
		name          string
		options       entities.ScanOptions
		expectedType  interface{}
		expectedName  string
		expectedError bool
	}{
		{
			name:         "daemon with local fallback",
			options:      entities.ScanOptions{Preference: entities.PreferDaemon, Clamdscan: withFallback(daemon), Clamscan: local},
			expectedType: &FallbackTransport{},
			expectedName: DaemonTransportName,
		},
		{
			name:         "daemon without fallback",
			options:      entities.ScanOptions{Preference: entities.PreferDaemon, Clamdscan: daemon, Clamscan: local},
			expectedType: &DaemonTransport{},
			expectedName: DaemonTransportName,
		},
		{
			name: "daemon through clamdscan binary",
			options: entities.ScanOptions{Preference: entities.PreferDaemon,
				Clamdscan: entities.ClamdscanOptions{Path: "/usr/bin/clamdscan", Active: true}},
			expectedType: &SubprocessTransport{},
			expectedName: ClamdscanTransportName,
		},
		{
			name:         "demoted daemon",
			options:      entities.ScanOptions{Preference: entities.PreferDaemon, Demoted: true, Clamdscan: withFallback(daemon), Clamscan: local},
			expectedType: &SubprocessTransport{},
			expectedName: ClamscanTransportName,
		},
		{
			name:         "clamscan preferred",
			options:      entities.ScanOptions{Preference: entities.PreferSubprocess, Clamdscan: daemon, Clamscan: local},
			expectedType: &SubprocessTransport{},
			expectedName: ClamscanTransportName,
		},
		{
			name:          "nothing active",
			options:       entities.ScanOptions{Preference: entities.PreferSubprocess},
			expectedError: true,
		},
	}

	factory := NewEngineFactory(metrics.NewNoopScope(), logging.NewDiscardLog())

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			transport, err := factory.NewTransport(tc.options)

			if tc.expectedError {
				assert.True(t, entities.IsConfigError(err))
				return
			}

			require.NoError(t, err)
			defer transport.Close()

			assert.IsType(t, tc.expectedType, transport)
			assert.Equal(t, tc.expectedName, transport.Name())
		})
	}
}

func withFallback(options entities.ClamdscanOptions) entities.ClamdscanOptions {
	options.LocalFallback = true
	return options
}

func TestClamdAdmin(t *testing.T) {
	clamd := common.StartFakeClamd(t)
	admin := NewClamdAdmin(entities.ClamdscanOptions{Socket: clamd.Socket})

	require.NoError(t, admin.Ping(context.Background()))

	version, err := admin.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.EngineBanner, version)

	require.NoError(t, admin.Reload(context.Background()))

	assert.Equal(t, []string{"PING", "VERSION", "RELOAD"}, clamd.Commands())
}

func TestClamdAddress(t *testing.T) {
	assert.Equal(t, "unix:///run/clamd.sock", ClamdAddress(entities.ClamdscanOptions{Socket: "/run/clamd.sock", Host: "ignored"}))
	assert.Equal(t, "tcp://clamd.internal:3310", ClamdAddress(entities.ClamdscanOptions{Host: "clamd.internal", Port: 3310}))
	assert.Equal(t, "tcp://[::1]:3310", ClamdAddress(entities.ClamdscanOptions{Host: "::1", Port: 3310}))
}

func TestClamdProbe(t *testing.T) {
	clamd := common.StartFakeClamd(t)
	probe := NewClamdProbe()

	assert.NoError(t, probe.Ping(context.Background(), entities.ClamdscanOptions{Socket: clamd.Socket}))

	clamd.Stop()

	err := probe.Ping(context.Background(), entities.ClamdscanOptions{Socket: clamd.Socket, Timeout: time.Second})
	assert.ErrorIs(t, err, entities.ErrUnreachable)

	err = probe.Ping(context.Background(), entities.ClamdscanOptions{Socket: filepath.Join(t.TempDir(), "none.sock")})
	assert.ErrorIs(t, err, entities.ErrUnreachable)
}

func TestEngineFactoryFallsBackWhenClamdscanCannotConnect(t *testing.T) {
	root := common.CreateTestTree(t, map[string]string{"file.txt": "nothing to see here"})
	scope := tally.NewTestScope("", nil)

	options := entities.ScanOptions{
		Preference: entities.PreferDaemon,
		Clamdscan:  entities.ClamdscanOptions{Path: common.WriteDisconnectedClamdscan(t, t.TempDir()), Active: true, LocalFallback: true},
		Clamscan:   entities.ClamscanOptions{Path: common.WriteFakeEngine(t, t.TempDir()), Active: true, Concurrency: 1},
	}

	transport, err := NewEngineFactory(scope, logging.NewDiscardLog()).NewTransport(options)
	require.NoError(t, err)
	defer transport.Close()

	path := filepath.Join(root, "file.txt")
	response, err := transport.Submit(context.Background(), entities.Payload{Path: path})
	require.NoError(t, err)

	assert.Equal(t, ClamscanTransportName, response.Transport)
	assert.Equal(t, 0, response.ExitCode)
	assert.Equal(t, []string{path + ": OK"}, response.Lines)
	assert.Equal(t, int64(1), scope.Snapshot().Counters()[metrics.FallbackCounter+"+"].Value())

	version, err := transport.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.EngineBanner, version)
}
