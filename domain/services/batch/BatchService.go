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

package batch

import (
	"clam-eye/common"
	"clam-eye/domain/entities"
	"clam-eye/domain/services/filters"
	"clam-eye/domain/services/stages"
	"clam-eye/logging"
	"context"
	"errors"
	"fmt"
	"github.com/spf13/afero"
	"io/fs"
	"path/filepath"
	"strings"
)

// Service fans targets out to a scan handler and aggregates their verdicts. Workers never
// touch the BatchResult, only the goroutine running ScanFiles or ScanDir does.
type Service struct {
	fs            afero.Fs
	handler       entities.Handler[entities.ScanTarget, entities.Verdict]
	filterHandler *filters.FilterHandler
	workers       int
	fileList      string
	logger        logging.Logger
}

func NewBatchService(fs afero.Fs, handler entities.Handler[entities.ScanTarget, entities.Verdict], filterHandler *filters.FilterHandler,
	workers int, fileList string, logger logging.Logger) *Service {
	return &Service{
		fs:            fs,
		handler:       handler,
		filterHandler: filterHandler,
		workers:       workers,
		fileList:      fileList,
		logger:        logger,
	}
}

// ScanFiles scans an explicit list of files. An empty list falls back to the configured file list.
func (s *Service) ScanFiles(ctx context.Context, paths []string, progress entities.ProgressFunc) (*entities.BatchResult, error) {
	if len(paths) == 0 && s.fileList != "" {
		listed, err := s.readFileList()
		if err != nil {
			return nil, err
		}

		paths = listed
	}

	paths = common.Deduplicate(paths)

	targets := make([]entities.ScanTarget, 0, len(paths))
	for _, path := range paths {
		targets = append(targets, entities.ScanTarget{Path: path})
	}

	result := entities.NewBatchResult("")
	s.run(ctx, result, targets, progress)

	return result, nil
}

// ScanDir scans every file below root accepted by the filters. Subdirectories are entered
// only when recursive is set.
func (s *Service) ScanDir(ctx context.Context, root string, recursive bool, progress entities.ProgressFunc) (*entities.BatchResult, error) {
	info, err := s.fs.Stat(root)
	if err != nil {
		return nil, entities.NewPathError(root, "directory does not exist or is not accessible", err)
	}

	if !info.IsDir() {
		return nil, entities.NewPathError(root, "target is not a directory", nil)
	}

	result := entities.NewBatchResult(root)
	targets := s.enumerate(ctx, result, root, recursive, progress)
	s.run(ctx, result, targets, progress)

	return result, nil
}

func (s *Service) enumerate(ctx context.Context, result *entities.BatchResult, root string, recursive bool,
	progress entities.ProgressFunc) []entities.ScanTarget {
	var targets []entities.ScanTarget

	err := afero.Walk(s.fs, root, func(path string, info fs.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			s.logger.Warnw("failed to read path during walk", "path", path, "error", err)
			s.record(result, entities.NewIndeterminateVerdict(path, entities.NewPathError(path, "failed to read path", err)), progress)

			return nil
		}

		if path == root {
			return nil
		}

		target := entities.ScanTarget{Path: path, Info: info}
		if !s.filterHandler.Accept(ctx, &target) {
			if info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if info.IsDir() {
			if !recursive {
				return filepath.SkipDir
			}

			return nil
		}

		targets = append(targets, target)

		return nil
	})

	if err != nil {
		s.logger.Warnw("directory walk interrupted", "root", root, "error", err)
		result.Incomplete = true
	}

	return targets
}

func (s *Service) run(ctx context.Context, result *entities.BatchResult, targets []entities.ScanTarget, progress entities.ProgressFunc) {
	if len(targets) == 0 {
		return
	}

	input := make(chan *entities.ScanTarget)
	cleanup := make(chan *stages.Cleanup[entities.ScanTarget])

	stage := stages.NewStage[entities.ScanTarget, entities.Verdict](s.handler, input, cleanup, s.workers, s.logger)
	stage.Process(ctx)

	go func() {
		defer close(input)

		for i := range targets {
			select {
			case <-ctx.Done():
				return
			case input <- &targets[i]:
			}
		}
	}()

	output := stage.Output()
	for output != nil {
		select {
		case verdict, ok := <-output:
			if !ok {
				output = nil
				continue
			}

			s.record(result, *verdict, progress)

		case entry := <-cleanup:
			message := "scan did not complete"
			if errors.Is(entry.Error, context.Canceled) || errors.Is(entry.Error, context.DeadlineExceeded) {
				message = "scan canceled"
			}

			err := entities.NewTransportError(entry.Request.Path, message, entry.Error)
			s.record(result, entities.NewIndeterminateVerdict(entry.Request.Path, err), progress)
		}
	}

	// Targets interrupted inside a worker are already recorded, the batch is still partial.
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.Incomplete = true
		s.markUnfinished(result, targets, ctxErr, progress)
	}
}

func (s *Service) markUnfinished(result *entities.BatchResult, targets []entities.ScanTarget, ctxErr error, progress entities.ProgressFunc) {
	for _, target := range targets {
		if result.Contains(target.Path) {
			continue
		}

		err := entities.NewTransportError(target.Path, "scan canceled", ctxErr)
		s.record(result, entities.NewIndeterminateVerdict(target.Path, err), progress)
	}

	s.logger.Infow("batch interrupted", "path", result.Path, "recorded", result.Len(), "targets", len(targets))
}

func (s *Service) record(result *entities.BatchResult, verdict entities.Verdict, progress entities.ProgressFunc) {
	if !result.Add(verdict) {
		s.logger.Debugw("target already recorded", "target", verdict.Target)
		return
	}

	if progress != nil {
		progress(verdict)
	}
}

func (s *Service) readFileList() ([]string, error) {
	content, err := afero.ReadFile(s.fs, s.fileList)
	if err != nil {
		return nil, entities.NewPathError(s.fileList, "failed to read file list", err)
	}

	var paths []string

	for _, line := range strings.Split(string(content), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}

	if len(paths) == 0 {
		return nil, entities.NewPathError(s.fileList, fmt.Sprintf("file list %s is empty", s.fileList), nil)
	}

	return paths, nil
}
