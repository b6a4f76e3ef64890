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

package scan

import (
	"clam-eye/common"
	"clam-eye/domain/entities"
	"clam-eye/domain/ports/out"
	"clam-eye/domain/services/normalize"
	"clam-eye/fileutils"
	"clam-eye/logging"
	"clam-eye/metrics"
	"context"
	"errors"
	"fmt"
	"github.com/spf13/afero"
	"github.com/uber-go/tally/v4"
	"io"
	"os"
	"path/filepath"
)

const (
	defaultStreamName       = "stream"
	spoolFileName           = "payload"
	quarantineDirPermission = 0700
	quarantineFilePerm      = 0600
	maxQuarantineSuffix     = 1000
)

var errStreamTooLarge = errors.New("stream exceeds spool limit")

// Notifier receives every verdict produced by the service.
type Notifier interface {
	Notify(verdict entities.Verdict)
}

// Service scans one target at a time. Files are validated through fs before the engine is
// involved, so a missing file never reaches the transport.
type Service struct {
	fs                  afero.Fs
	transport           out.Transport
	localStorageFactory out.LocalStorageFactory
	notifier            Notifier
	options             entities.ScanOptions
	scope               tally.Scope
	logger              logging.Logger
}

func NewScanService(fs afero.Fs, transport out.Transport, localStorageFactory out.LocalStorageFactory, notifier Notifier,
	options entities.ScanOptions, scope tally.Scope, logger logging.Logger) *Service {
	return &Service{
		fs:                  fs,
		transport:           transport,
		localStorageFactory: localStorageFactory,
		notifier:            notifier,
		options:             options,
		scope:               scope.Tagged(map[string]string{metrics.TransportTag: transport.Name()}),
		logger:              logger,
	}
}

func (s *Service) ScanFile(ctx context.Context, path string) entities.Verdict {
	if err := s.checkFileIsValid(path); err != nil {
		s.logger.Debugw("could not validate file", "error", err, "filename", path)

		verdict := entities.NewIndeterminateVerdict(path, err)
		s.notify(verdict)

		return verdict
	}

	verdict := s.submit(ctx, entities.Payload{Path: path})
	if verdict.IsInfected() {
		verdict.Action = s.applyPolicy(path)
	}

	s.logger.Debugw("scan executed", "filename", path, "status", verdict.Status, "viruses", verdict.Viruses, "action", verdict.Action)
	s.notify(verdict)

	return verdict
}

// ScanStream scans the content of reader. Transports that cannot ingest streams get a
// spooled copy on disk, which is removed once the engine answered.
func (s *Service) ScanStream(ctx context.Context, name string, reader io.Reader) entities.Verdict {
	name = common.FirstNonEmpty(name, defaultStreamName)

	if fileutils.IsArchiveName(name) && s.skipsArchives() {
		s.logger.Warnw("archive will not be unpacked by the engine", "name", name)
	}

	var verdict entities.Verdict
	if s.transport.SupportsStreaming() {
		verdict = s.submit(ctx, entities.Payload{Stream: reader, Name: name})
	} else {
		verdict = s.spoolAndScan(ctx, name, reader)
	}

	s.logger.Debugw("stream scan executed", "name", name, "status", verdict.Status, "viruses", verdict.Viruses)
	s.notify(verdict)

	return verdict
}

func (s *Service) submit(ctx context.Context, payload entities.Payload) entities.Verdict {
	stopwatch := s.scope.Timer(metrics.ScanTimer).Start()
	defer stopwatch.Stop()

	raw, err := s.transport.Submit(ctx, payload)
	if err != nil {
		s.logger.Warnw("engine call failed", "target", payload.Target(), "transport", s.transport.Name(), "error", err)

		verdict := entities.NewIndeterminateVerdict(payload.Target(), err)
		verdict.Transport = s.transport.Name()

		return verdict
	}

	return normalize.Normalize(payload.Target(), raw)
}

func (s *Service) spoolAndScan(ctx context.Context, name string, reader io.Reader) entities.Verdict {
	storage, err := s.localStorageFactory.GetLocalStorage()
	if err != nil {
		return entities.NewIndeterminateVerdict(name, entities.NewTransportError(name, "failed to create spool storage", err))
	}

	defer func() {
		if err := s.localStorageFactory.DestroyStorage(storage.GetID()); err != nil {
			s.logger.Warnw("failed to destroy spool storage", "storage", storage.GetID(), "error", err)
		}
	}()

	if err := s.spool(storage, reader); err != nil {
		return entities.NewIndeterminateVerdict(name, entities.NewTransportError(name, "failed to spool stream", err))
	}

	realPath, err := storage.RealPath(spoolFileName)
	if err != nil {
		return entities.NewIndeterminateVerdict(name, entities.NewTransportError(name, "failed to resolve spool path", err))
	}

	return s.submit(ctx, entities.Payload{Path: realPath, Name: name})
}

func (s *Service) spool(storage out.LocalStorage, reader io.Reader) error {
	file, err := storage.Create(spoolFileName)
	if err != nil {
		return err
	}

	limit := s.options.MaxStreamSize
	if limit > 0 {
		reader = io.LimitReader(reader, limit+1)
	}

	written, err := io.Copy(file, reader)
	closeErr := file.Close()

	switch {
	case err != nil:
		return err
	case limit > 0 && written > limit:
		return fmt.Errorf("%w (%s bytes)", errStreamTooLarge, common.ConvertNumberToHumanReadable(int(limit)))
	default:
		return closeErr
	}
}

func (s *Service) checkFileIsValid(path string) error {
	info, err := s.fs.Stat(path)
	if err != nil {
		return entities.NewPathError(path, "file does not exist or is not accessible", err)
	}

	if info.IsDir() {
		return entities.NewPathError(path, "target is a directory", nil)
	}

	file, err := s.fs.Open(path)
	if err != nil {
		return entities.NewPathError(path, "file is not readable", err)
	}
	defer file.Close()

	header, err := fileutils.Detect(file)
	if err != nil {
		return entities.NewPathError(path, "failed to read file header", err)
	}

	if header.Type == fileutils.Compressed && s.skipsArchives() {
		s.logger.Warnw("archive will not be unpacked by the engine", "filename", path, "archive", header.Archive.String(), "type", header.MIME)
	}

	if header.IsTestSignature() {
		s.logger.Debugw("target carries the EICAR test signature", "filename", path)
	}

	return nil
}

// skipsArchives tells whether the selected engine was told not to unpack archives.
func (s *Service) skipsArchives() bool {
	return !s.options.Clamscan.ScanArchives && !s.options.DaemonSelected()
}

func (s *Service) applyPolicy(path string) entities.PolicyAction {
	switch {
	case s.options.QuarantineInfected != "":
		destination, err := s.quarantine(path)
		if err != nil {
			s.logger.Errorw("failed to quarantine infected file", "filename", path, "error", err)
			return entities.ActionFailed
		}

		s.logger.Infow("infected file quarantined", "filename", path, "destination", destination)

		return entities.ActionQuarantined

	case s.options.RemoveInfected:
		if err := s.fs.Remove(path); err != nil {
			s.logger.Errorw("failed to remove infected file", "filename", path, "error", err)
			return entities.ActionFailed
		}

		s.logger.Infow("infected file removed", "filename", path)

		return entities.ActionRemoved

	default:
		return entities.ActionNone
	}
}

func (s *Service) quarantine(path string) (string, error) {
	dir := s.options.QuarantineInfected
	if err := s.fs.MkdirAll(dir, quarantineDirPermission); err != nil {
		return "", fmt.Errorf("failed to create quarantine dir. %w", err)
	}

	destination, err := s.quarantineDestination(dir, filepath.Base(path))
	if err != nil {
		return "", err
	}

	if err := s.fs.Rename(path, destination); err == nil {
		return destination, nil
	}

	// Rename does not work across devices
	if err := s.copyFile(path, destination); err != nil {
		return "", err
	}

	if err := s.fs.Remove(path); err != nil {
		return "", fmt.Errorf("file copied to quarantine but original was kept. %w", err)
	}

	return destination, nil
}

func (s *Service) quarantineDestination(dir, name string) (string, error) {
	destination := filepath.Join(dir, name)

	for i := 1; i <= maxQuarantineSuffix; i++ {
		exists, err := afero.Exists(s.fs, destination)
		if err != nil {
			return "", err
		}

		if !exists {
			return destination, nil
		}

		destination = filepath.Join(dir, fmt.Sprintf("%s.%d", name, i))
	}

	return "", fmt.Errorf("too many quarantined files named %s", name)
}

func (s *Service) copyFile(source, destination string) error {
	src, err := s.fs.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open infected file. %w", err)
	}
	defer src.Close()

	dst, err := s.fs.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_EXCL, quarantineFilePerm)
	if err != nil {
		return fmt.Errorf("failed to create quarantine file. %w", err)
	}

	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = s.fs.Remove(destination)
		return fmt.Errorf("failed to copy infected file. %w", err)
	}

	return nil
}

func (s *Service) notify(verdict entities.Verdict) {
	if s.notifier != nil {
		s.notifier.Notify(verdict)
	}
}
