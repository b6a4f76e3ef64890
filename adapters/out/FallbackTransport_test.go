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
	"clam-eye/domain/entities"
	"clam-eye/logging"
	"clam-eye/metrics"
	"clam-eye/mocks"
	"context"
	"errors"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"
	"strings"
	"testing"
)

func newFallbackPair(ctrl *gomock.Controller) (*mocks.MockTransport, *mocks.MockTransport) {
	primary := mocks.NewMockTransport(ctrl)
	primary.EXPECT().Name().Return(DaemonTransportName).AnyTimes()
	primary.EXPECT().Concurrency().Return(4).AnyTimes()

	fallback := mocks.NewMockTransport(ctrl)
	fallback.EXPECT().Name().Return(ClamscanTransportName).AnyTimes()
	fallback.EXPECT().Concurrency().Return(1).AnyTimes()

	return primary, fallback
}

func TestFallbackTransportSubmit(t *testing.T) {
	payload := entities.Payload{Path: "/data/file.txt"}
	local := entities.NewRawResponse(ClamscanTransportName, 0, "/data/file.txt: OK\n")
	unreachable := entities.NewUnreachableError("/run/clamd.sock", "dial failed", errors.New("connection refused"))
	engineErr := entities.NewTransportError("/data/file.txt", "failed to read clamd reply", errors.New("reset"))

	tests := []struct {
		name          string
		payload       entities.Payload
		primaryErr    error
		expectLocal   bool
		expectedError error
	}{
		{name: "daemon answers", payload: payload},
		{name: "daemon unreachable", payload: payload, primaryErr: unreachable, expectLocal: true},
		{name: "daemon fails after connecting", payload: payload, primaryErr: engineErr, expectedError: engineErr},
		{name: "streams are not replayed", payload: entities.Payload{Stream: strings.NewReader("x"), Name: "s"},
			primaryErr: unreachable, expectedError: unreachable},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			mockCtrl := gomock.NewController(t)
			defer mockCtrl.Finish()

			primary, fallback := newFallbackPair(mockCtrl)
			primary.EXPECT().Submit(gomock.Any(), tc.payload).
				Return(entities.NewRawResponse(DaemonTransportName, entities.DaemonExitCode, "/data/file.txt: OK"), tc.primaryErr)

			if tc.expectLocal {
				fallback.EXPECT().Submit(gomock.Any(), tc.payload).Return(local, nil)
			}

			scope := tally.NewTestScope("", nil)
			transport := NewFallbackTransport(primary, fallback, scope, logging.NewDiscardLog())

			response, err := transport.Submit(context.Background(), tc.payload)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)

			if tc.expectLocal {
				assert.Equal(t, local, response)
				assert.Equal(t, int64(1), scope.Snapshot().Counters()[metrics.FallbackCounter+"+"].Value())
			} else {
				assert.Equal(t, DaemonTransportName, response.Transport)
			}
		})
	}
}

func TestFallbackTransportDoesNotReplayCanceledCalls(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary, fallback := newFallbackPair(mockCtrl)
	primary.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(entities.RawResponse{}, entities.NewUnreachableError("/run/clamd.sock", "dial failed", ctx.Err()))
	fallback.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)

	transport := NewFallbackTransport(primary, fallback, metrics.NewNoopScope(), logging.NewDiscardLog())

	_, err := transport.Submit(ctx, entities.Payload{Path: "/data/file.txt"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFallbackTransportVersionAndLifecycle(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	closeErr := errors.New("already closed")

	primary, fallback := newFallbackPair(mockCtrl)
	primary.EXPECT().Version(gomock.Any()).Return("", entities.NewUnreachableError("", "no answer", nil))
	fallback.EXPECT().Version(gomock.Any()).Return("ClamAV 1.0.1", nil)
	primary.EXPECT().Close().Return(closeErr)
	fallback.EXPECT().Close().Return(nil)

	transport := NewFallbackTransport(primary, fallback, metrics.NewNoopScope(), logging.NewDiscardLog())

	assert.Equal(t, DaemonTransportName, transport.Name())
	assert.Equal(t, 4, transport.Concurrency())
	assert.False(t, transport.SupportsStreaming())

	version, err := transport.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ClamAV 1.0.1", version)

	assert.ErrorIs(t, transport.Close(), closeErr)
}
