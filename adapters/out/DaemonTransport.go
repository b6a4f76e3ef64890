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
	"bufio"
	"clam-eye/domain/entities"
	"clam-eye/logging"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	DaemonTransportName  = "clamd"
	instreamChunkSize    = 64 * 1024
	defaultDaemonTimeout = 60 * time.Second
)

var (
	cmdInstream      = []byte("zINSTREAM\x00")
	cmdIDSession     = []byte("zIDSESSION\x00")
	cmdEnd           = []byte("zEND\x00")
	cmdScan          = "zSCAN %s\x00"
	cmdMultiscan     = "zMULTISCAN %s\x00"
	streamTerminator = []byte{0, 0, 0, 0}

	ErrInvalidPath = errors.New("path contains characters clamd cannot handle")
)

// DaemonTransport speaks the clamd socket protocol with null terminated commands.
// Local daemons receive paths, remote ones receive the file content through INSTREAM
// because they cannot see the local filesystem.
type DaemonTransport struct {
	options  entities.ClamdscanOptions
	network  string
	address  string
	remote   bool
	dialer   net.Dialer
	admin    *ClamdAdmin
	sessions *sessionPool
	logger   logging.Logger
}

func NewDaemonTransport(options entities.ClamdscanOptions, logger logging.Logger) *DaemonTransport {
	network, address := clamdEndpoint(options)
	transport := &DaemonTransport{
		options: options,
		network: network,
		address: address,
		remote:  network == "tcp" && !isLoopback(options.Host),
		admin:   NewClamdAdmin(options),
		logger:  logger,
	}

	if options.Persistent {
		transport.sessions = newSessionPool(options.Concurrency)
	}

	return transport
}

func (d *DaemonTransport) Name() string {
	return DaemonTransportName
}

func (d *DaemonTransport) SupportsStreaming() bool {
	return true
}

func (d *DaemonTransport) Concurrency() int {
	return d.options.Concurrency
}

func (d *DaemonTransport) Version(ctx context.Context) (string, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	return d.admin.Version(ctx)
}

func (d *DaemonTransport) Submit(ctx context.Context, payload entities.Payload) (entities.RawResponse, error) {
	callCtx, cancel := d.withTimeout(ctx)
	defer cancel()

	if d.options.ReloadDB {
		if err := d.admin.Reload(callCtx); err != nil {
			d.logger.Warnw("Failed to reload clamd database", "error", err)
		}
	}

	var (
		reply string
		err   error
	)

	if d.sessions != nil {
		reply, err = d.submitSession(ctx, callCtx, payload)
	} else {
		reply, err = d.submitOnce(ctx, callCtx, payload)
	}

	if err != nil {
		return entities.RawResponse{}, err
	}

	return entities.NewRawResponse(DaemonTransportName, entities.DaemonExitCode, reply), nil
}

func (d *DaemonTransport) Close() error {
	if d.sessions != nil {
		d.sessions.close()
	}

	return nil
}

func (d *DaemonTransport) submitOnce(ctx, callCtx context.Context, payload entities.Payload) (string, error) {
	conn, err := d.dial(ctx, callCtx, payload)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	stop := context.AfterFunc(callCtx, func() { conn.Close() })
	defer stop()

	return d.exchange(callCtx, conn, bufio.NewReader(conn), payload)
}

// submitSession runs the command on a pooled IDSESSION connection. A reused connection may
// have been dropped by clamd meanwhile, so a failure on it is retried once on a fresh one
// provided the payload was not consumed.
func (d *DaemonTransport) submitSession(ctx, callCtx context.Context, payload entities.Payload) (string, error) {
	var counter *countingReader
	if payload.IsStream() {
		counter = &countingReader{reader: payload.Stream}
		payload.Stream = counter
	}

	for attempt := 0; ; attempt++ {
		session, err := d.acquire(ctx, callCtx, payload)
		if err != nil {
			return "", err
		}

		reply, err := d.sessionExchange(callCtx, session, payload)
		if err == nil {
			d.sessions.release(session)
			return stripSessionID(reply), nil
		}

		d.sessions.discard(session)

		consumed := counter != nil && counter.count > 0
		if !session.reused || attempt > 0 || consumed || callCtx.Err() != nil || !entities.IsTransportError(err) {
			return "", err
		}

		d.logger.Debugw("Retrying on a fresh clamd session", "error", err, "target", payload.Target())
	}
}

func (d *DaemonTransport) acquire(ctx, callCtx context.Context, payload entities.Payload) (*clamdSession, error) {
	if session := d.sessions.get(); session != nil {
		return session, nil
	}

	conn, err := d.dial(ctx, callCtx, payload)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Write(cmdIDSession); err != nil {
		conn.Close()
		return nil, entities.NewUnreachableError(d.address, "failed to open clamd session", err)
	}

	return &clamdSession{conn: conn, reader: bufio.NewReader(conn)}, nil
}

func (d *DaemonTransport) sessionExchange(ctx context.Context, session *clamdSession, payload entities.Payload) (string, error) {
	stop := context.AfterFunc(ctx, func() { session.conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		_ = session.conn.SetDeadline(deadline)
		defer session.conn.SetDeadline(time.Time{})
	}

	return d.exchange(ctx, session.conn, session.reader, payload)
}

func (d *DaemonTransport) dial(ctx, callCtx context.Context, payload entities.Payload) (net.Conn, error) {
	conn, err := d.dialer.DialContext(callCtx, d.network, d.address)
	if err != nil {
		if ctx.Err() != nil {
			return nil, entities.NewTransportError(payload.Target(), "clamd call interrupted", ctx.Err())
		}

		return nil, entities.NewUnreachableError(payload.Target(), fmt.Sprintf("failed to connect to clamd at %s", d.address), err)
	}

	if deadline, ok := callCtx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	return conn, nil
}

func (d *DaemonTransport) exchange(ctx context.Context, conn net.Conn, reader *bufio.Reader, payload entities.Payload) (string, error) {
	if err := d.send(conn, payload); err != nil {
		var scanErr *entities.ScanError
		if errors.As(err, &scanErr) {
			return "", err
		}

		// clamd answers and hangs up on errors such as exceeded stream limits,
		// the reply is still readable after a failed write.
		if reply, readErr := readReply(reader); readErr == nil && reply != "" {
			return reply, nil
		}

		return "", ioError(ctx, payload, "failed to send command to clamd", err)
	}

	reply, err := readReply(reader)
	if err != nil {
		return "", ioError(ctx, payload, "failed to read clamd reply", err)
	}

	return reply, nil
}

func (d *DaemonTransport) send(conn net.Conn, payload entities.Payload) error {
	if payload.IsStream() {
		return writeStream(conn, payload.Stream, payload.Target())
	}

	if d.remote {
		file, err := os.Open(payload.Path)
		if err != nil {
			return entities.NewPathError(payload.Path, "failed to open file", err)
		}
		defer file.Close()

		return writeStream(conn, file, payload.Path)
	}

	if hasInvalidChars(payload.Path) {
		return entities.NewPathError(payload.Path, "unsupported file name", ErrInvalidPath)
	}

	absPath, err := filepath.Abs(payload.Path)
	if err != nil {
		return entities.NewPathError(payload.Path, "failed to resolve absolute path", err)
	}

	command := cmdScan
	if d.options.Multiscan {
		command = cmdMultiscan
	}

	_, err = fmt.Fprintf(conn, command, absPath)

	return err
}

func (d *DaemonTransport) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := d.options.Timeout
	if timeout <= 0 {
		timeout = defaultDaemonTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

func writeStream(w io.Writer, r io.Reader, target string) error {
	if _, err := w.Write(cmdInstream); err != nil {
		return err
	}

	buf := make([]byte, instreamChunkSize)
	size := make([]byte, 4)

	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			binary.BigEndian.PutUint32(size, uint32(n))

			if _, err := w.Write(size); err != nil {
				return err
			}

			if _, err := w.Write(buf[:n]); err != nil {
				return err
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return entities.NewTransportError(target, "failed to read stream", readErr)
		}
	}

	_, err := w.Write(streamTerminator)

	return err
}

func readReply(reader *bufio.Reader) (string, error) {
	reply, err := reader.ReadString(0)
	if err != nil && !(errors.Is(err, io.EOF) && reply != "") {
		return "", err
	}

	return strings.TrimRight(reply, "\x00"), nil
}

func ioError(ctx context.Context, payload entities.Payload, message string, err error) error {
	if ctx.Err() != nil {
		return entities.NewTransportError(payload.Target(), "clamd call interrupted", ctx.Err())
	}

	// The connection deadline may fire just before the context timer does.
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return entities.NewTransportError(payload.Target(), "clamd call timed out", context.DeadlineExceeded)
	}

	return entities.NewTransportError(payload.Target(), message, err)
}

// stripSessionID removes the "<id>: " prefix clamd adds to replies inside IDSESSION.
func stripSessionID(reply string) string {
	id, rest, found := strings.Cut(reply, ": ")
	if !found || id == "" || strings.TrimLeft(id, "0123456789") != "" {
		return reply
	}

	return rest
}

func hasInvalidChars(filename string) bool {
	return strings.ContainsAny(filename, "\r\n\x00")
}

func isLoopback(host string) bool {
	if host == "" || host == "localhost" {
		return true
	}

	ip := net.ParseIP(host)

	return ip != nil && ip.IsLoopback()
}

type countingReader struct {
	reader io.Reader
	count  int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.count += int64(n)

	return n, err
}

type clamdSession struct {
	conn   net.Conn
	reader *bufio.Reader
	reused bool
}

type sessionPool struct {
	lock    sync.Mutex
	idle    []*clamdSession
	maxIdle int
	closed  bool
}

func newSessionPool(maxIdle int) *sessionPool {
	if maxIdle <= 0 {
		maxIdle = 1
	}

	return &sessionPool{maxIdle: maxIdle}
}

func (p *sessionPool) get() *clamdSession {
	p.lock.Lock()
	defer p.lock.Unlock()

	if len(p.idle) == 0 {
		return nil
	}

	session := p.idle[len(p.idle)-1]
	p.idle = p.idle[:len(p.idle)-1]
	session.reused = true

	return session
}

func (p *sessionPool) release(session *clamdSession) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.closed || len(p.idle) >= p.maxIdle {
		endSession(session)
		return
	}

	p.idle = append(p.idle, session)
}

func (p *sessionPool) discard(session *clamdSession) {
	session.conn.Close()
}

func (p *sessionPool) close() {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.closed = true
	for _, session := range p.idle {
		endSession(session)
	}

	p.idle = nil
}

func endSession(session *clamdSession) {
	_ = session.conn.SetDeadline(time.Now().Add(time.Second))
	_, _ = session.conn.Write(cmdEnd)
	session.conn.Close()
}
