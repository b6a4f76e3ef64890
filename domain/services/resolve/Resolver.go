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

package resolve

import (
	"clam-eye/common"
	"clam-eye/config"
	"clam-eye/domain/entities"
	"clam-eye/domain/ports/out"
	"clam-eye/logging"
	"context"
	"fmt"
	"github.com/spf13/afero"
	"os"
	"os/exec"
	"time"
)

const (
	defaultClamscanPath    = "/usr/bin/clamscan"
	defaultClamdscanPath   = "/usr/bin/clamdscan"
	defaultClamdPort       = 3310
	defaultTimeout         = 60 * time.Second
	defaultDaemonWorkers   = 4
	defaultClamscanWorkers = 1
	defaultMaxStreamSize   = 25 * 1024 * 1024
)

// Resolver turns user configuration into the immutable ScanOptions of one orchestrator.
type Resolver struct {
	fs       afero.Fs
	probe    out.EngineProbe
	lookPath func(file string) (string, error)
	logger   logging.Logger
}

func NewResolver(fs afero.Fs, probe out.EngineProbe, logger logging.Logger) *Resolver {
	return &Resolver{fs: fs, probe: probe, lookPath: exec.LookPath, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, cfg config.Scanner) (entities.ScanOptions, error) {
	options := merge(cfg)

	if err := r.validate(options); err != nil {
		return entities.ScanOptions{}, err
	}

	if err := r.selectTransport(ctx, &options); err != nil {
		return entities.ScanOptions{}, err
	}

	r.logger.Infow("scanner configuration resolved",
		"preference", options.Preference,
		"demoted", options.Demoted,
		"daemon", options.DaemonSelected(),
		"fallback", options.FallbackEnabled())

	return options, nil
}

func merge(cfg config.Scanner) entities.ScanOptions {
	return entities.ScanOptions{
		RemoveInfected:     cfg.RemoveInfected,
		QuarantineInfected: cfg.QuarantineInfected,
		ScanLog:            cfg.ScanLog,
		Debug:              cfg.DebugLog,
		FileList:           cfg.FileList,
		ScanRecursively:    cfg.ScanRecursively,
		FollowSymlinks:     cfg.FollowSymlinks,
		IncludeHidden:      cfg.IncludeHidden,
		Exclude:            append([]string{}, cfg.Exclude...),
		MaxStreamSize:      common.FirstPositive(cfg.MaxStreamSize, defaultMaxStreamSize),
		TempDir:            common.FirstNonEmpty(cfg.TempDir, os.TempDir()),
		MaxDatabaseAge:     time.Duration(cfg.MaxDatabaseAge) * time.Hour,
		Preference:         entities.Preference(common.FirstNonEmpty(cfg.Preference, string(entities.PreferDaemon))),
		Clamscan: entities.ClamscanOptions{
			Path:         common.FirstNonEmpty(cfg.Clamscan.Path, defaultClamscanPath),
			DB:           cfg.Clamscan.DB,
			ScanArchives: cfg.Clamscan.ScanArchives,
			Active:       cfg.Clamscan.Active,
			Concurrency:  common.FirstPositive(cfg.Clamscan.Concurrency, defaultClamscanWorkers),
			Timeout:      time.Duration(cfg.Clamscan.Timeout) * time.Millisecond,
		},
		Clamdscan: entities.ClamdscanOptions{
			Socket:        cfg.Clamdscan.Socket,
			Host:          cfg.Clamdscan.Host,
			Port:          common.FirstPositive(cfg.Clamdscan.Port, defaultClamdPort),
			Timeout:       common.FirstPositive(time.Duration(cfg.Clamdscan.Timeout)*time.Millisecond, defaultTimeout),
			LocalFallback: cfg.Clamdscan.LocalFallback,
			Path:          common.FirstNonEmpty(cfg.Clamdscan.Path, defaultClamdscanPath),
			ConfigFile:    cfg.Clamdscan.ConfigFile,
			Multiscan:     cfg.Clamdscan.Multiscan,
			ReloadDB:      cfg.Clamdscan.ReloadDB,
			Active:        cfg.Clamdscan.Active,
			BypassTest:    cfg.Clamdscan.BypassTest,
			Concurrency:   common.FirstPositive(cfg.Clamdscan.Concurrency, defaultDaemonWorkers),
			Persistent:    cfg.Clamdscan.Persistent,
		},
	}
}

func (r *Resolver) validate(options entities.ScanOptions) error {
	if !options.Preference.Valid() {
		return entities.NewConfigError(fmt.Sprintf("invalid preference %q, expected %q or %q",
			options.Preference, entities.PreferSubprocess, entities.PreferDaemon), nil)
	}

	if !options.Clamscan.Active && !options.Clamdscan.Active {
		return entities.NewConfigError("neither clamscan nor clamdscan is active", nil)
	}

	if options.Clamscan.DB != "" {
		if exists, err := afero.Exists(r.fs, options.Clamscan.DB); err != nil || !exists {
			return entities.NewConfigError("custom virus database "+options.Clamscan.DB+" does not exist", err)
		}
	}

	if options.QuarantineInfected != "" {
		info, err := r.fs.Stat(options.QuarantineInfected)
		if err == nil && !info.IsDir() {
			return entities.NewConfigError("quarantine path "+options.QuarantineInfected+" is not a directory", nil)
		}
	}

	if options.Clamscan.Timeout < 0 || options.Clamdscan.Timeout < 0 {
		return entities.NewConfigError("timeouts must not be negative", nil)
	}

	return nil
}

func (r *Resolver) selectTransport(ctx context.Context, options *entities.ScanOptions) error {
	if options.Clamscan.Active && !r.binaryExists(options.Clamscan.Path) {
		r.logger.Warnw("clamscan binary not found, disabling it", "path", options.Clamscan.Path)
		options.Clamscan.Active = false
	}

	if options.Clamdscan.Active && !options.Clamdscan.UsesSocket() && !r.binaryExists(options.Clamdscan.Path) {
		r.logger.Warnw("clamd has no socket or host and clamdscan binary was not found, disabling it", "path", options.Clamdscan.Path)
		options.Clamdscan.Active = false
	}

	switch {
	case !options.Clamscan.Active && !options.Clamdscan.Active:
		return entities.NewConfigError("no usable engine: clamscan and clamdscan are both unavailable", nil)
	case !options.Clamdscan.Active:
		options.Preference = entities.PreferSubprocess
		return nil
	case !options.Clamscan.Active:
		options.Preference = entities.PreferDaemon
	case options.Preference == entities.PreferSubprocess:
		return nil
	}

	if options.Clamdscan.BypassTest || !options.Clamdscan.UsesSocket() {
		return nil
	}

	err := r.probe.Ping(ctx, options.Clamdscan)
	if err == nil {
		return nil
	}

	if options.Clamdscan.LocalFallback && options.Clamscan.Active {
		r.logger.Warnw("clamd is unreachable, falling back to clamscan", "error", err)
		options.Demoted = true

		return nil
	}

	// Kept as is, engine initialization reports the failure.
	r.logger.Warnw("clamd is unreachable and local fallback is disabled", "error", err)

	return nil
}

func (r *Resolver) binaryExists(path string) bool {
	_, err := r.lookPath(path)
	return err == nil
}
