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

package lifecycle

import (
	"clam-eye/common"
	"clam-eye/domain/entities"
	"clam-eye/domain/services/cleanup"
	"clam-eye/logging"
	"clam-eye/mocks"
	"context"
	"errors"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type flushCounter struct {
	calls int
}

func (f *flushCounter) Flush() {
	f.calls++
}

func TestInitProbesEngine(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	options := entities.ScanOptions{MaxDatabaseAge: 24 * time.Hour}

	transport := mocks.NewMockTransport(mockCtrl)
	transport.EXPECT().Name().Return("clamd").AnyTimes()
	transport.EXPECT().Version(gomock.Any()).Return(common.EngineBanner, nil)
	transport.EXPECT().Close().Return(nil).Times(1)

	factory := mocks.NewMockTransportFactory(mockCtrl)
	factory.EXPECT().NewTransport(options).Return(transport, nil)

	storage := mocks.NewMockLocalStorageFactory(mockCtrl)
	storage.EXPECT().DestroyAll().Return(nil).Times(1)

	flusher := &flushCounter{}
	manager := NewLifecycleManager(factory, storage, []cleanup.Job{cleanup.NewNotificationCleanup(flusher)}, logging.NewDiscardLog())
	manager.now = func() time.Time { return time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC) }

	handle, err := manager.Init(context.Background(), options)
	require.NoError(t, err)

	assert.Equal(t, transport, handle.Transport)
	assert.Equal(t, options, handle.Options)
	assert.Equal(t, "1.0.1", handle.Version.Engine)
	assert.Equal(t, 27000, handle.Version.Signatures)
	assert.True(t, handle.Version.Outdated(manager.now(), options.MaxDatabaseAge))

	assert.NoError(t, handle.Teardown(context.Background()))
	assert.NoError(t, handle.Teardown(context.Background()))
	assert.Equal(t, 1, flusher.calls)
}

func TestInitFailsWhenEngineIsUnreachable(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	options := entities.ScanOptions{Preference: entities.PreferDaemon, Clamdscan: entities.ClamdscanOptions{Active: true, Socket: "/nowhere"}}
	probeErr := entities.NewUnreachableError("", "dial unix /nowhere", errors.New("no such file or directory"))

	transport := mocks.NewMockTransport(mockCtrl)
	transport.EXPECT().Name().Return("clamd").AnyTimes()
	transport.EXPECT().Version(gomock.Any()).Return("", probeErr)
	transport.EXPECT().Close().Return(nil).Times(1)
	transport.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)

	factory := mocks.NewMockTransportFactory(mockCtrl)
	factory.EXPECT().NewTransport(options).Return(transport, nil)

	manager := NewLifecycleManager(factory, nil, nil, logging.NewDiscardLog())

	handle, err := manager.Init(context.Background(), options)
	assert.Nil(t, handle)
	assert.True(t, entities.IsInitError(err))
	assert.ErrorIs(t, err, entities.ErrUnreachable)
}

func TestInitPropagatesConfigErrors(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	factory := mocks.NewMockTransportFactory(mockCtrl)
	factory.EXPECT().NewTransport(gomock.Any()).Return(nil, entities.NewConfigError("no usable transport", nil))

	manager := NewLifecycleManager(factory, nil, nil, logging.NewDiscardLog())

	_, err := manager.Init(context.Background(), entities.ScanOptions{})
	assert.True(t, entities.IsConfigError(err))
}

func TestInitAsync(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	transport := mocks.NewMockTransport(mockCtrl)
	transport.EXPECT().Name().Return("clamscan").AnyTimes()
	transport.EXPECT().Version(gomock.Any()).Return("ClamAV 1.0.1", nil)

	factory := mocks.NewMockTransportFactory(mockCtrl)
	factory.EXPECT().NewTransport(gomock.Any()).Return(transport, nil)

	manager := NewLifecycleManager(factory, nil, nil, logging.NewDiscardLog())

	results := manager.InitAsync(context.Background(), entities.ScanOptions{})

	result := <-results
	require.NoError(t, result.Err)
	assert.Equal(t, "ClamAV 1.0.1", result.Handle.Version.Raw)
	assert.Equal(t, "1.0.1", result.Handle.Version.Engine)

	_, open := <-results
	assert.False(t, open)
}
