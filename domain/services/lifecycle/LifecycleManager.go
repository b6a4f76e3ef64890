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
	"clam-eye/domain/entities"
	"clam-eye/domain/ports/out"
	"clam-eye/domain/services/cleanup"
	"clam-eye/domain/services/normalize"
	"clam-eye/logging"
	"context"
	"time"
)

// EngineHandle is the live engine of one orchestrator. It owns the transport and every
// resource released by Teardown.
type EngineHandle struct {
	Transport out.Transport
	Options   entities.ScanOptions
	Version   entities.EngineVersion
	cleanup   *cleanup.Handler
}

// Teardown releases the handle. Only the first call does anything.
func (h *EngineHandle) Teardown(ctx context.Context) error {
	return h.cleanup.Handle(ctx)
}

type InitResult struct {
	Handle *EngineHandle
	Err    error
}

type Manager struct {
	transportFactory    out.TransportFactory
	localStorageFactory out.LocalStorageFactory
	jobs                []cleanup.Job
	now                 func() time.Time
	logger              logging.Logger
}

// NewLifecycleManager builds handles whose teardown also runs jobs, after the transport
// and spool storages were released.
func NewLifecycleManager(transportFactory out.TransportFactory, localStorageFactory out.LocalStorageFactory, jobs []cleanup.Job,
	logger logging.Logger) *Manager {
	return &Manager{
		transportFactory:    transportFactory,
		localStorageFactory: localStorageFactory,
		jobs:                jobs,
		now:                 time.Now,
		logger:              logger,
	}
}

func (m *Manager) Init(ctx context.Context, options entities.ScanOptions) (*EngineHandle, error) {
	transport, err := m.transportFactory.NewTransport(options)
	if err != nil {
		if entities.IsConfigError(err) {
			return nil, err
		}

		return nil, entities.NewInitError("failed to create engine transport", err)
	}

	banner, err := transport.Version(ctx)
	if err != nil {
		if closeErr := transport.Close(); closeErr != nil {
			m.logger.Warnw("failed to close transport after failed probe", "error", closeErr)
		}

		return nil, entities.NewInitError("engine did not answer the version probe through "+transport.Name(), err)
	}

	version, err := normalize.ParseVersion(banner)
	if err != nil {
		m.logger.Warnw("unrecognized engine version", "banner", banner, "error", err)
		version = entities.EngineVersion{Raw: banner}
	}

	if version.Outdated(m.now(), options.MaxDatabaseAge) {
		m.logger.Warnw("virus database is outdated",
			"signatureDate", version.SignatureDate,
			"signatures", version.Signatures,
			"maxAge", options.MaxDatabaseAge)
	}

	m.logger.Infow("engine initialized", "transport", transport.Name(), "engine", version.Engine, "signatures", version.Signatures)

	jobs := []cleanup.Job{cleanup.NewTransportCleanup(transport, m.logger)}
	if m.localStorageFactory != nil {
		jobs = append(jobs, cleanup.NewStorageCleanup(m.localStorageFactory, m.logger))
	}

	jobs = append(jobs, m.jobs...)

	return &EngineHandle{
		Transport: transport,
		Options:   options,
		Version:   version,
		cleanup:   cleanup.NewCleanupHandler(jobs, m.logger),
	}, nil
}

// InitAsync runs Init in the background. The channel yields exactly one result.
func (m *Manager) InitAsync(ctx context.Context, options entities.ScanOptions) <-chan InitResult {
	result := make(chan InitResult, 1)

	go func() {
		defer close(result)

		handle, err := m.Init(ctx, options)
		result <- InitResult{Handle: handle, Err: err}
	}()

	return result
}
