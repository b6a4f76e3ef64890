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
	"clam-eye/domain/ports/out"
	"clam-eye/logging"
	"clam-eye/metrics"
	"context"
	"errors"
	"github.com/uber-go/tally/v4"
)

// FallbackTransport replays calls on a local engine binary whenever the daemon cannot be
// reached. Local invocations stay bounded by the fallback's own concurrency.
type FallbackTransport struct {
	primary   out.Transport
	fallback  out.Transport
	slots     chan struct{}
	fallbacks tally.Counter
	logger    logging.Logger
}

func NewFallbackTransport(primary, fallback out.Transport, scope tally.Scope, logger logging.Logger) *FallbackTransport {
	slots := fallback.Concurrency()
	if slots <= 0 {
		slots = 1
	}

	return &FallbackTransport{
		primary:   primary,
		fallback:  fallback,
		slots:     make(chan struct{}, slots),
		fallbacks: scope.Counter(metrics.FallbackCounter),
		logger:    logger,
	}
}

func (f *FallbackTransport) Name() string {
	return f.primary.Name()
}

// SupportsStreaming is false so streams get spooled to disk first and stay replayable.
func (f *FallbackTransport) SupportsStreaming() bool {
	return false
}

func (f *FallbackTransport) Concurrency() int {
	return f.primary.Concurrency()
}

func (f *FallbackTransport) Submit(ctx context.Context, payload entities.Payload) (entities.RawResponse, error) {
	response, err := f.primary.Submit(ctx, payload)
	if err == nil || !f.shouldFallback(ctx, err) || payload.IsStream() {
		return response, err
	}

	f.logger.Warnw("Daemon unreachable, scanning with local binary", "target", payload.Target(), "error", err)
	f.fallbacks.Inc(1)

	select {
	case f.slots <- struct{}{}:
	case <-ctx.Done():
		return entities.RawResponse{}, entities.NewTransportError(payload.Target(), "fallback interrupted", ctx.Err())
	}
	defer func() { <-f.slots }()

	return f.fallback.Submit(ctx, payload)
}

func (f *FallbackTransport) Version(ctx context.Context) (string, error) {
	version, err := f.primary.Version(ctx)
	if err == nil || !f.shouldFallback(ctx, err) {
		return version, err
	}

	f.logger.Warnw("Daemon unreachable, querying local binary version", "error", err)

	return f.fallback.Version(ctx)
}

func (f *FallbackTransport) Close() error {
	return errors.Join(f.primary.Close(), f.fallback.Close())
}

func (f *FallbackTransport) shouldFallback(ctx context.Context, err error) bool {
	return ctx.Err() == nil && errors.Is(err, entities.ErrUnreachable)
}
