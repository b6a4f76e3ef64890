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
	"strings"
)

// HiddenFilter drops dot files and dot directories unless they are explicitly included.
type HiddenFilter struct {
	includeHidden bool
	logger        logging.Logger
}

func NewHiddenFilter(includeHidden bool, logger logging.Logger) *HiddenFilter {
	return &HiddenFilter{includeHidden: includeHidden, logger: logger}
}

func (h *HiddenFilter) Filter(ctx context.Context, target *entities.ScanTarget) entities.JobStatus {
	if h.includeHidden {
		return entities.NextJob
	}

	name := filepath.Base(target.Path)
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return entities.Abort
	}

	return entities.NextJob
}
