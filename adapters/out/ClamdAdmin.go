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
	"clam-eye/domain/entities"
	"context"
	"errors"
	"fmt"
	"github.com/dutchcoders/go-clamd"
	"net"
	"strconv"
	"time"
)

const (
	defaultProbeTimeout = 5 * time.Second
)

var errEmptyReply = errors.New("empty reply from clamd")

// ClamdAdmin issues the short administrative commands (PING, VERSION, RELOAD) through go-clamd.
// go-clamd has no context support, so every call runs in its own goroutine and is abandoned when
// ctx ends first.
type ClamdAdmin struct {
	client  *clamd.Clamd
	address string
}

func NewClamdAdmin(options entities.ClamdscanOptions) *ClamdAdmin {
	address := ClamdAddress(options)
	return &ClamdAdmin{client: clamd.NewClamd(address), address: address}
}

// ClamdAddress renders the daemon endpoint the way go-clamd expects it.
func ClamdAddress(options entities.ClamdscanOptions) string {
	network, address := clamdEndpoint(options)
	return network + "://" + address
}

func clamdEndpoint(options entities.ClamdscanOptions) (string, string) {
	if options.Socket != "" {
		return "unix", options.Socket
	}

	return "tcp", net.JoinHostPort(options.Host, strconv.Itoa(options.Port))
}

func (a *ClamdAdmin) Ping(ctx context.Context) error {
	err := await(ctx, a.client.Ping)
	if err != nil {
		return entities.NewUnreachableError(a.address, "clamd did not answer PING", err)
	}

	return nil
}

func (a *ClamdAdmin) Version(ctx context.Context) (string, error) {
	var raw string

	err := await(ctx, func() error {
		results, err := a.client.Version()
		if err != nil {
			return err
		}

		result, ok := <-results
		go drain(results)

		if !ok || result == nil || result.Raw == "" {
			return errEmptyReply
		}

		raw = result.Raw

		return nil
	})
	if err != nil {
		return "", entities.NewUnreachableError(a.address, "clamd did not answer VERSION", err)
	}

	return raw, nil
}

func (a *ClamdAdmin) Reload(ctx context.Context) error {
	if err := await(ctx, a.client.Reload); err != nil {
		return entities.NewTransportError(a.address, "clamd refused RELOAD", err)
	}

	return nil
}

func await(ctx context.Context, call func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- call()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("clamd call abandoned. %w", ctx.Err())
	}
}

func drain(results chan *clamd.ScanResult) {
	for range results {
	}
}

// ClamdProbe checks daemon reachability for the configuration resolver.
type ClamdProbe struct{}

func NewClamdProbe() *ClamdProbe {
	return &ClamdProbe{}
}

func (p *ClamdProbe) Ping(ctx context.Context, options entities.ClamdscanOptions) error {
	timeout := defaultProbeTimeout
	if options.Timeout > 0 && options.Timeout < timeout {
		timeout = options.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return NewClamdAdmin(options).Ping(ctx)
}
