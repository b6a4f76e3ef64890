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
	"clam-eye/domain/ports/out"
	"clam-eye/logging"
	"context"
	"fmt"
)

// StorageCleanup destroys spool storages left behind by interrupted stream scans.
type StorageCleanup struct {
	localStorageFactory out.LocalStorageFactory
	logger              logging.Logger
}

func NewStorageCleanup(localStorageFactory out.LocalStorageFactory, logger logging.Logger) *StorageCleanup {
	return &StorageCleanup{localStorageFactory: localStorageFactory, logger: logger}
}

func (s *StorageCleanup) Clean(ctx context.Context) error {
	s.logger.Debugw("delete spool storages")

	if err := s.localStorageFactory.DestroyAll(); err != nil {
		return fmt.Errorf("failed to delete spool storages. %w", err)
	}

	return nil
}

// TransportCleanup closes sockets and terminates engine processes.
type TransportCleanup struct {
	transport out.Transport
	logger    logging.Logger
}

func NewTransportCleanup(transport out.Transport, logger logging.Logger) *TransportCleanup {
	return &TransportCleanup{transport: transport, logger: logger}
}

func (t *TransportCleanup) Clean(ctx context.Context) error {
	t.logger.Debugw("close transport", "transport", t.transport.Name())

	if err := t.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport %s. %w", t.transport.Name(), err)
	}

	return nil
}

type flusher interface {
	Flush()
}

// NotificationCleanup gives verdict observers a last chance to persist their state.
type NotificationCleanup struct {
	notifier flusher
}

func NewNotificationCleanup(notifier flusher) *NotificationCleanup {
	return &NotificationCleanup{notifier: notifier}
}

func (n *NotificationCleanup) Clean(ctx context.Context) error {
	n.notifier.Flush()
	return nil
}
