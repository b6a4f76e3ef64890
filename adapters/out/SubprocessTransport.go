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
	"bytes"
	"clam-eye/domain/entities"
	"clam-eye/logging"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

const (
	ClamscanTransportName  = "clamscan"
	ClamdscanTransportName = "clamdscan"
	killGracePeriod        = 5 * time.Second
)

var ErrStreamUnsupported = errors.New("engine binary cannot ingest streams")

// clamdscan reports these when it cannot reach the daemon it fronts.
var daemonConnectFailures = []string{"could not connect to clamd", "can't connect to clamd", "connection refused"}

// SubprocessTransport spawns one engine process per target. Processes get SIGTERM when the
// caller's context ends or the transport is closed, and are killed after a grace period.
type SubprocessTransport struct {
	name        string
	binary      string
	flags       []string
	timeout     time.Duration
	concurrency int
	daemon      bool
	logger      logging.Logger

	lock    sync.Mutex
	closing context.Context
	close   context.CancelFunc
	running sync.WaitGroup
}

func NewClamscanTransport(options entities.ClamscanOptions, logger logging.Logger) *SubprocessTransport {
	flags := []string{"--no-summary", "--stdout"}
	if options.DB != "" {
		flags = append(flags, "--database="+options.DB)
	}

	if !options.ScanArchives {
		flags = append(flags, "--scan-archive=no")
	}

	return newSubprocessTransport(ClamscanTransportName, options.Path, flags, options.Timeout, options.Concurrency, logger)
}

// NewClamdscanTransport drives clamd through the clamdscan binary, used when the daemon is
// active without an explicit socket or host.
func NewClamdscanTransport(options entities.ClamdscanOptions, logger logging.Logger) *SubprocessTransport {
	flags := []string{"--no-summary", "--stdout", "--fdpass"}
	if options.Multiscan {
		flags = append(flags, "--multiscan")
	}

	if options.ReloadDB {
		flags = append(flags, "--reload")
	}

	if options.ConfigFile != "" {
		flags = append(flags, "--config-file="+options.ConfigFile)
	}

	transport := newSubprocessTransport(ClamdscanTransportName, options.Path, flags, options.Timeout, options.Concurrency, logger)
	transport.daemon = true

	return transport
}

func newSubprocessTransport(name, binary string, flags []string, timeout time.Duration, concurrency int, logger logging.Logger) *SubprocessTransport {
	closing, closeFn := context.WithCancel(context.Background())

	return &SubprocessTransport{
		name:        name,
		binary:      binary,
		flags:       flags,
		timeout:     timeout,
		concurrency: concurrency,
		logger:      logger,
		closing:     closing,
		close:       closeFn,
	}
}

func (s *SubprocessTransport) Name() string {
	return s.name
}

func (s *SubprocessTransport) SupportsStreaming() bool {
	return false
}

func (s *SubprocessTransport) Concurrency() int {
	return s.concurrency
}

func (s *SubprocessTransport) Submit(ctx context.Context, payload entities.Payload) (entities.RawResponse, error) {
	if payload.IsStream() {
		return entities.RawResponse{}, entities.NewTransportError(payload.Target(), s.name, ErrStreamUnsupported)
	}

	args := append(append([]string{}, s.flags...), payload.Path)

	exitCode, stdout, stderr, err := s.run(ctx, payload.Target(), args)
	if err != nil {
		return entities.RawResponse{}, err
	}

	if exitCode > 1 && s.daemonDown(stdout, stderr) {
		return entities.RawResponse{}, entities.NewUnreachableError(payload.Target(), "clamdscan could not reach clamd", errors.New(strings.TrimSpace(stderr+" "+stdout)))
	}

	output := stdout
	if exitCode > 1 && stderr != "" {
		output = strings.TrimSpace(stdout + "\n" + stderr)
	}

	return entities.NewRawResponse(s.name, exitCode, output), nil
}

func (s *SubprocessTransport) Version(ctx context.Context) (string, error) {
	exitCode, stdout, stderr, err := s.run(ctx, s.binary, []string{"--version"})
	if err != nil {
		return "", err
	}

	// clamdscan prints its own version even when clamd is down.
	if exitCode != 0 || s.daemonDown(stdout, stderr) {
		return "", entities.NewUnreachableError(s.binary, "version query failed", errors.New(strings.TrimSpace(stdout+" "+stderr)))
	}

	return strings.TrimSpace(stdout), nil
}

func (s *SubprocessTransport) daemonDown(stdout, stderr string) bool {
	if !s.daemon {
		return false
	}

	output := strings.ToLower(stdout + "\n" + stderr)
	for _, marker := range daemonConnectFailures {
		if strings.Contains(output, marker) {
			return true
		}
	}

	return false
}

// Close terminates running processes and waits for them to exit.
func (s *SubprocessTransport) Close() error {
	s.lock.Lock()
	s.close()
	s.lock.Unlock()

	s.running.Wait()

	return nil
}

func (s *SubprocessTransport) run(ctx context.Context, target string, args []string) (int, string, string, error) {
	s.lock.Lock()
	if s.closing.Err() != nil {
		s.lock.Unlock()
		return 0, "", "", entities.NewTransportError(target, "transport closed", s.closing.Err())
	}

	s.running.Add(1)
	s.lock.Unlock()

	defer s.running.Done()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)

		defer cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(s.closing, cancel)
	defer stop()

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, s.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = killGracePeriod

	s.logger.Debugw("Spawning engine", "binary", s.binary, "args", args)

	err := cmd.Run()
	if ctx.Err() != nil {
		return 0, "", "", entities.NewTransportError(target, s.name+" interrupted", ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() < 0 {
			return 0, "", "", entities.NewTransportError(target, s.name+" terminated by signal", err)
		}

		return exitErr.ExitCode(), stdout.String(), stderr.String(), nil
	}

	if err != nil {
		return 0, "", "", entities.NewUnreachableError(target, "failed to spawn "+s.binary, err)
	}

	return 0, stdout.String(), stderr.String(), nil
}
