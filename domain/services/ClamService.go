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

package services

import (
	"clam-eye/domain/entities"
	"clam-eye/domain/ports/in"
	"clam-eye/domain/services/batch"
	"clam-eye/domain/services/lifecycle"
	"clam-eye/domain/services/normalize"
	"clam-eye/domain/services/scan"
	"clam-eye/logging"
	"context"
	"errors"
	"io"
	"sync/atomic"
)

var ErrScannerClosed = errors.New("scanner is closed")

type AsyncResult[T any] struct {
	Value T
	Err   error
}

var _ in.Scanner = (*ClamService)(nil)

// ClamService is the entry point of the library. It owns one engine handle.
type ClamService struct {
	handle       *lifecycle.EngineHandle
	scanService  *scan.Service
	batchService *batch.Service
	closed       atomic.Bool
	logger       logging.Logger
}

func NewClamService(handle *lifecycle.EngineHandle, scanService *scan.Service, batchService *batch.Service, logger logging.Logger) *ClamService {
	return &ClamService{handle: handle, scanService: scanService, batchService: batchService, logger: logger}
}

// Version asks the engine for its current version, signatures may have been reloaded
// since initialization.
func (s *ClamService) Version(ctx context.Context) (entities.EngineVersion, error) {
	if s.closed.Load() {
		return entities.EngineVersion{}, ErrScannerClosed
	}

	banner, err := s.handle.Transport.Version(ctx)
	if err != nil {
		return entities.EngineVersion{}, err
	}

	version, err := normalize.ParseVersion(banner)
	if err != nil {
		s.logger.Warnw("unrecognized engine version", "banner", banner, "error", err)
		return entities.EngineVersion{Raw: banner}, nil
	}

	return version, nil
}

// IsInfected scans one file. The error is the diagnostic of an Indeterminate verdict.
func (s *ClamService) IsInfected(ctx context.Context, path string) (entities.Verdict, error) {
	if s.closed.Load() {
		return entities.NewIndeterminateVerdict(path, ErrScannerClosed), ErrScannerClosed
	}

	verdict := s.scanService.ScanFile(ctx, path)
	if verdict.Status == entities.Indeterminate {
		return verdict, verdict.Err
	}

	return verdict, nil
}

func (s *ClamService) ScanDir(ctx context.Context, path string, progress entities.ProgressFunc, opts ...in.DirOption) (*entities.BatchResult, error) {
	if s.closed.Load() {
		return nil, ErrScannerClosed
	}

	options := in.NewDirOptions(s.handle.Options.ScanRecursively, opts...)

	return s.batchService.ScanDir(ctx, path, options.Recursive, progress)
}

func (s *ClamService) ScanFiles(ctx context.Context, paths []string, progress entities.ProgressFunc) (*entities.BatchResult, error) {
	if s.closed.Load() {
		return nil, ErrScannerClosed
	}

	return s.batchService.ScanFiles(ctx, paths, progress)
}

// ScanStream scans reader and reports it as a one target batch named name.
func (s *ClamService) ScanStream(ctx context.Context, name string, reader io.Reader) (*entities.BatchResult, error) {
	if s.closed.Load() {
		return nil, ErrScannerClosed
	}

	verdict := s.scanService.ScanStream(ctx, name, reader)

	result := entities.NewBatchResult(verdict.Target)
	result.Add(verdict)

	return result, nil
}

func (s *ClamService) Passthrough(ctx context.Context, reader io.Reader) (in.PassthroughStream, error) {
	if s.closed.Load() {
		return nil, ErrScannerClosed
	}

	passthrough, err := newPassthrough(ctx, reader, s.handle.Options.TempDir, s.scanService)
	if err != nil {
		return nil, err
	}

	return passthrough, nil
}

// Close tears the engine handle down. Later calls return the first outcome.
func (s *ClamService) Close(ctx context.Context) error {
	s.closed.Store(true)
	return s.handle.Teardown(ctx)
}

func (s *ClamService) IsInfectedAsync(ctx context.Context, path string) <-chan AsyncResult[entities.Verdict] {
	return runAsync(func() (entities.Verdict, error) {
		return s.IsInfected(ctx, path)
	})
}

func (s *ClamService) ScanDirAsync(ctx context.Context, path string, progress entities.ProgressFunc, opts ...in.DirOption) <-chan AsyncResult[*entities.BatchResult] {
	return runAsync(func() (*entities.BatchResult, error) {
		return s.ScanDir(ctx, path, progress, opts...)
	})
}

func (s *ClamService) ScanFilesAsync(ctx context.Context, paths []string, progress entities.ProgressFunc) <-chan AsyncResult[*entities.BatchResult] {
	return runAsync(func() (*entities.BatchResult, error) {
		return s.ScanFiles(ctx, paths, progress)
	})
}

func (s *ClamService) ScanStreamAsync(ctx context.Context, name string, reader io.Reader) <-chan AsyncResult[*entities.BatchResult] {
	return runAsync(func() (*entities.BatchResult, error) {
		return s.ScanStream(ctx, name, reader)
	})
}

func runAsync[T any](fn func() (T, error)) <-chan AsyncResult[T] {
	result := make(chan AsyncResult[T], 1)

	go func() {
		defer close(result)

		value, err := fn()
		result <- AsyncResult[T]{Value: value, Err: err}
	}()

	return result
}
