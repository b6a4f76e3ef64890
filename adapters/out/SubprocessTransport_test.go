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
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newFakeClamscan(t *testing.T, options entities.ClamscanOptions) (*SubprocessTransport, string) {
	engine := common.WriteFakeEngine(t, t.TempDir())

	options.Path = engine
	options.Active = true

	transport := NewClamscanTransport(options, logging.NewDiscardLog())
	t.Cleanup(func() { transport.Close() })

	return transport, engine
}

func TestSubprocessTransportExitCodes(t *testing.T) {
	root := common.CreateTestTree(t, map[string]string{
		"clean.txt": "nothing to see here",
		"eicar.txt": common.EicarSignature,
	})

	tests := []struct {
		name     string
		file     string
		exitCode int
		line     string
	}{
		{name: "clean", file: "clean.txt", exitCode: 0, line: ": OK"},
		{name: "infected", file: "eicar.txt", exitCode: 1, line: ": " + common.EicarName + " FOUND"},
		{name: "missing", file: "missing.txt", exitCode: 2, line: ": No such file or directory. ERROR"},
	}

	transport, _ := newFakeClamscan(t, entities.ClamscanOptions{Concurrency: 1})

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(root, tc.file)

			response, err := transport.Submit(context.Background(), entities.Payload{Path: path})
			require.NoError(t, err)

			assert.Equal(t, ClamscanTransportName, response.Transport)
			assert.Equal(t, tc.exitCode, response.ExitCode)
			require.NotEmpty(t, response.Lines)
			assert.Equal(t, path+tc.line, response.Lines[0])
		})
	}
}

func TestSubprocessTransportFlags(t *testing.T) {
	root := common.CreateTestTree(t, map[string]string{"clean.txt": "nothing to see here"})

	transport, engine := newFakeClamscan(t, entities.ClamscanOptions{DB: "/var/lib/clamav/custom", ScanArchives: false})

	_, err := transport.Submit(context.Background(), entities.Payload{Path: filepath.Join(root, "clean.txt")})
	require.NoError(t, err)

	calls := common.ReadFakeEngineCalls(t, engine)
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "--no-summary")
	assert.Contains(t, calls[0], "--database=/var/lib/clamav/custom")
	assert.Contains(t, calls[0], "--scan-archive=no")
	assert.True(t, strings.HasSuffix(calls[0], filepath.Join(root, "clean.txt")))
}

func TestClamdscanTransportFlags(t *testing.T) {
	root := common.CreateTestTree(t, map[string]string{"clean.txt": "nothing to see here"})
	engine := common.WriteFakeEngine(t, t.TempDir())

	transport := NewClamdscanTransport(entities.ClamdscanOptions{
		Path:       engine,
		Multiscan:  true,
		ReloadDB:   true,
		ConfigFile: "/etc/clamav/clamd.conf",
	}, logging.NewDiscardLog())
	defer transport.Close()

	assert.Equal(t, ClamdscanTransportName, transport.Name())

	_, err := transport.Submit(context.Background(), entities.Payload{Path: filepath.Join(root, "clean.txt")})
	require.NoError(t, err)

	calls := common.ReadFakeEngineCalls(t, engine)
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "--fdpass")
	assert.Contains(t, calls[0], "--multiscan")
	assert.Contains(t, calls[0], "--reload")
	assert.Contains(t, calls[0], "--config-file=/etc/clamav/clamd.conf")
}

func TestSubprocessTransportVersion(t *testing.T) {
	transport, _ := newFakeClamscan(t, entities.ClamscanOptions{})

	version, err := transport.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.EngineBanner, version)
}

func TestSubprocessTransportRejectsStreams(t *testing.T) {
	transport, engine := newFakeClamscan(t, entities.ClamscanOptions{})

	assert.False(t, transport.SupportsStreaming())

	_, err := transport.Submit(context.Background(), entities.Payload{Stream: strings.NewReader("data"), Name: "stream"})
	assert.ErrorIs(t, err, ErrStreamUnsupported)
	assert.Empty(t, common.ReadFakeEngineCalls(t, engine))
}

func TestSubprocessTransportMissingBinary(t *testing.T) {
	transport := NewClamscanTransport(entities.ClamscanOptions{Path: filepath.Join(t.TempDir(), "clamscan")}, logging.NewDiscardLog())
	defer transport.Close()

	_, err := transport.Submit(context.Background(), entities.Payload{Path: "/tmp/file"})
	assert.ErrorIs(t, err, entities.ErrUnreachable)
}

func TestSubprocessTransportInterruption(t *testing.T) {
	root := common.CreateTestTree(t, map[string]string{"hang.txt": common.HangMarker})
	hang := entities.Payload{Path: filepath.Join(root, "hang.txt")}

	t.Run("canceled context terminates the engine", func(t *testing.T) {
		transport, _ := newFakeClamscan(t, entities.ClamscanOptions{})

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(100*time.Millisecond, cancel)

		start := time.Now()
		_, err := transport.Submit(ctx, hang)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), 10*time.Second)
	})

	t.Run("timeout", func(t *testing.T) {
		transport, _ := newFakeClamscan(t, entities.ClamscanOptions{Timeout: 100 * time.Millisecond})

		_, err := transport.Submit(context.Background(), hang)

		assert.True(t, entities.IsTransportError(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("close terminates running engines", func(t *testing.T) {
		transport, engine := newFakeClamscan(t, entities.ClamscanOptions{})

		done := make(chan error, 1)
		go func() {
			_, err := transport.Submit(context.Background(), hang)
			done <- err
		}()

		require.Eventually(t, func() bool {
			return len(common.ReadFakeEngineCalls(t, engine)) == 1
		}, 5*time.Second, 10*time.Millisecond)

		require.NoError(t, transport.Close())

		select {
		case err := <-done:
			assert.True(t, entities.IsTransportError(err))
		case <-time.After(10 * time.Second):
			t.Fatal("engine was not terminated")
		}

		_, err := transport.Submit(context.Background(), hang)
		assert.ErrorContains(t, err, "transport closed")
	})
}

func TestClamdscanTransportReportsUnreachableDaemon(t *testing.T) {
	root := common.CreateTestTree(t, map[string]string{"file.txt": "nothing to see here"})
	engine := common.WriteDisconnectedClamdscan(t, t.TempDir())

	transport := NewClamdscanTransport(entities.ClamdscanOptions{Path: engine}, logging.NewDiscardLog())
	defer transport.Close()

	_, err := transport.Submit(context.Background(), entities.Payload{Path: filepath.Join(root, "file.txt")})
	assert.ErrorIs(t, err, entities.ErrUnreachable)
	assert.ErrorContains(t, err, "Could not connect to clamd")

	_, err = transport.Version(context.Background())
	assert.ErrorIs(t, err, entities.ErrUnreachable)
}

func TestClamscanTransportKeepsConnectErrorsAsOutput(t *testing.T) {
	engine := common.WriteDisconnectedClamdscan(t, t.TempDir())

	transport := NewClamscanTransport(entities.ClamscanOptions{Path: engine}, logging.NewDiscardLog())
	defer transport.Close()

	response, err := transport.Submit(context.Background(), entities.Payload{Path: "/tmp/file"})
	require.NoError(t, err)
	assert.Equal(t, 2, response.ExitCode)
}
