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
	"github.com/uber-go/tally/v4"
)

// EngineFactory builds the transport matching resolved options.
type EngineFactory struct {
	scope  tally.Scope
	logger logging.Logger
}

func NewEngineFactory(scope tally.Scope, logger logging.Logger) *EngineFactory {
	return &EngineFactory{scope: scope, logger: logger}
}

func (e *EngineFactory) NewTransport(options entities.ScanOptions) (out.Transport, error) {
	if options.DaemonSelected() {
		var daemon out.Transport
		if options.Clamdscan.UsesSocket() {
			daemon = NewDaemonTransport(options.Clamdscan, e.logger)
		} else {
			daemon = NewClamdscanTransport(options.Clamdscan, e.logger)
		}

		if options.FallbackEnabled() {
			return NewFallbackTransport(daemon, NewClamscanTransport(options.Clamscan, e.logger), e.scope, e.logger), nil
		}

		return daemon, nil
	}

	if options.Clamscan.Active {
		return NewClamscanTransport(options.Clamscan, e.logger), nil
	}

	return nil, entities.NewConfigError("no active transport", nil)
}
