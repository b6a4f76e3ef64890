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

package notification

import (
	"clam-eye/domain/entities"
	"clam-eye/logging"
)

// ScanLogNotifier appends one record per verdict to the scan log.
type ScanLogNotifier struct {
	scanLog logging.Logger
	logger  logging.Logger
}

func NewScanLogNotifier(scanLog, logger logging.Logger) *ScanLogNotifier {
	return &ScanLogNotifier{scanLog: scanLog, logger: logger}
}

func (s *ScanLogNotifier) Update(verdict entities.Verdict) {
	fields := []interface{}{
		"target", verdict.Target,
		"status", verdict.Status.String(),
		"viruses", verdict.Viruses,
		"transport", verdict.Transport,
		"action", string(verdict.Action),
	}

	if verdict.Err != nil {
		fields = append(fields, "error", verdict.Err.Error())
	}

	s.scanLog.Infow("verdict", fields...)
}

func (s *ScanLogNotifier) UpdateGlobal() {
	if err := s.scanLog.Sync(); err != nil {
		s.logger.Debugw("Failed to sync scan log", "error", err)
	}
}
