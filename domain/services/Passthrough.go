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
	"context"
	"errors"
	"github.com/eikenb/pipeat"
	"io"
	"sync"
)

const passthroughName = "passthrough"

var errPassthroughClosed = errors.New("passthrough closed before the end of the stream")

type streamScanner interface {
	ScanStream(ctx context.Context, name string, reader io.Reader) entities.Verdict
}

// Passthrough forwards the bytes of its source unchanged. Every byte read is also
// written to a disk backed pipe consumed by a scan running in the background.
type Passthrough struct {
	source    io.Reader
	writer    *pipeat.PipeWriterAt
	writeErr  error
	verdict   entities.Verdict
	done      chan struct{}
	closeOnce sync.Once
}

func newPassthrough(ctx context.Context, source io.Reader, tempDir string, scanner streamScanner) (*Passthrough, error) {
	reader, writer, err := pipeat.PipeInDir(tempDir)
	if err != nil {
		return nil, entities.NewTransportError(passthroughName, "failed to create internal pipe", err)
	}

	p := &Passthrough{source: source, writer: writer, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		defer reader.Close()

		p.verdict = scanner.ScanStream(ctx, passthroughName, reader)
	}()

	return p, nil
}

func (p *Passthrough) Read(b []byte) (int, error) {
	n, err := p.source.Read(b)

	if n > 0 && p.writeErr == nil {
		if _, writeErr := p.writer.Write(b[:n]); writeErr != nil {
			// The scan side gave up, forwarding goes on.
			p.writeErr = writeErr
		}
	}

	switch {
	case errors.Is(err, io.EOF):
		p.finish(nil)
	case err != nil:
		p.finish(err)
	}

	return n, err
}

// Close ends the scanned copy. Closing before the source was drained makes the scan fail.
func (p *Passthrough) Close() error {
	p.finish(errPassthroughClosed)
	return nil
}

// Done is closed once the verdict is available.
func (p *Passthrough) Done() <-chan struct{} {
	return p.done
}

// Result waits for the background scan.
func (p *Passthrough) Result() entities.Verdict {
	<-p.done
	return p.verdict
}

func (p *Passthrough) finish(err error) {
	p.closeOnce.Do(func() {
		if err != nil {
			_ = p.writer.CloseWithError(err)
			return
		}

		_ = p.writer.Close()
	})
}
