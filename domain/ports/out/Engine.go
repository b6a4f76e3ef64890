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
	"context"
)

/*
Transport reaches the scanning engine. Implementations:
- clamscan or clamdscan binaries spawned once per target
- clamd spoken to over a unix socket or TCP
- a fallback pair that replays unreachable daemon calls on clamscan

Submit never interprets the answer, normalization happens in the domain.
*/
//go:generate go run -mod=mod github.com/golang/mock/mockgen -destination=../../../mocks/mock_transport.go -package=mocks -source=Engine.go
type Transport interface {
	Name() string
	Submit(ctx context.Context, payload entities.Payload) (entities.RawResponse, error)
	Version(ctx context.Context) (string, error)
	SupportsStreaming() bool
	Concurrency() int
	Close() error
}

type TransportFactory interface {
	NewTransport(options entities.ScanOptions) (Transport, error)
}

// EngineProbe checks that clamd answers on the configured socket or host.
type EngineProbe interface {
	Ping(ctx context.Context, options entities.ClamdscanOptions) error
}
