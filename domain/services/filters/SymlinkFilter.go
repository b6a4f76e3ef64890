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
	"github.com/spf13/afero"
	"os"
)

// SymlinkFilter decides on symbolic links found during enumeration. Linked files are
// followed only when enabled; linked directories are never traversed so walks cannot loop.
// Sockets, devices and pipes are always dropped.
type SymlinkFilter struct {
	fs             afero.Fs
	followSymlinks bool
	logger         logging.Logger
}

func NewSymlinkFilter(fs afero.Fs, followSymlinks bool, logger logging.Logger) *SymlinkFilter {
	return &SymlinkFilter{fs: fs, followSymlinks: followSymlinks, logger: logger}
}

func (s *SymlinkFilter) Filter(ctx context.Context, target *entities.ScanTarget) entities.JobStatus {
	if target.Info == nil {
		return entities.NextJob
	}

	mode := target.Info.Mode()

	switch {
	case mode&os.ModeSymlink != 0:
		return s.filterLink(target)
	case mode.IsDir(), mode.IsRegular():
		return entities.NextJob
	default:
		s.logger.Debugw("Skipping special file", "target", target.Path, "mode", mode.String())
		return entities.Abort
	}
}

func (s *SymlinkFilter) filterLink(target *entities.ScanTarget) entities.JobStatus {
	if !s.followSymlinks {
		return entities.Abort
	}

	info, err := s.fs.Stat(target.Path)
	if err != nil {
		s.logger.Debugw("Skipping broken symlink", "target", target.Path, "error", err)
		return entities.Abort
	}

	if !info.Mode().IsRegular() {
		return entities.Abort
	}

	target.Info = info

	return entities.NextJob
}
