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

package filters

import (
	"clam-eye/domain/entities"
	"clam-eye/logging"
	"context"
	"path/filepath"
)

// ExcludeFilter drops targets whose base name or path matches one of the glob patterns.
type ExcludeFilter struct {
	patterns []string
	logger   logging.Logger
}

func NewExcludeFilter(patterns []string, logger logging.Logger) *ExcludeFilter {
	return &ExcludeFilter{patterns: patterns, logger: logger}
}

func (e *ExcludeFilter) Filter(ctx context.Context, target *entities.ScanTarget) entities.JobStatus {
	name := filepath.Base(target.Path)

	for _, pattern := range e.patterns {
		if matches(pattern, name) || matches(pattern, target.Path) {
			return entities.Abort
		}
	}

	return entities.NextJob
}

func matches(pattern, value string) bool {
	matched, err := filepath.Match(pattern, value)
	return err == nil && matched
}
