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

package cleanup

import (
	"clam-eye/logging"
	"clam-eye/mocks"
	"context"
	"errors"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"testing"
)

type countingFlusher struct {
	calls int
}

func (c *countingFlusher) Flush() {
	c.calls++
}

func TestCleanupRunsOnce(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	transport := mocks.NewMockTransport(mockCtrl)
	transport.EXPECT().Name().Return("clamd").AnyTimes()
	transport.EXPECT().Close().Return(nil).Times(1)

	storage := mocks.NewMockLocalStorageFactory(mockCtrl)
	storage.EXPECT().DestroyAll().Return(nil).Times(1)

	flusher := &countingFlusher{}

	handler := NewCleanupHandler([]Job{
		NewNotificationCleanup(flusher),
		NewTransportCleanup(transport, logging.NewDiscardLog()),
		NewStorageCleanup(storage, logging.NewDiscardLog()),
	}, logging.NewDiscardLog())

	assert.NoError(t, handler.Handle(context.Background()))
	assert.NoError(t, handler.Handle(context.Background()))
	assert.Equal(t, 1, flusher.calls)
	assert.Contains(t, handler.Name(), "TransportCleanup")
}

func TestCleanupContinuesAfterFailure(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	closeErr := errors.New("socket already closed")

	transport := mocks.NewMockTransport(mockCtrl)
	transport.EXPECT().Name().Return("clamd").AnyTimes()
	transport.EXPECT().Close().Return(closeErr)

	storage := mocks.NewMockLocalStorageFactory(mockCtrl)
	storage.EXPECT().DestroyAll().Return(nil)

	handler := NewCleanupHandler([]Job{
		NewTransportCleanup(transport, logging.NewDiscardLog()),
		NewStorageCleanup(storage, logging.NewDiscardLog()),
	}, logging.NewDiscardLog())

	err := handler.Handle(context.Background())
	assert.ErrorIs(t, err, closeErr)
	assert.ErrorIs(t, handler.Handle(context.Background()), closeErr)
}
