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

package in

import (
	"clam-eye/domain/entities"
	"context"
	"io"
)

//go:generate go run -mod=mod github.com/golang/mock/mockgen -destination=../../../mocks/mock_scanner.go -package=mocks -source=Scanner.go
type Scanner interface {
	Version(ctx context.Context) (entities.EngineVersion, error)
	IsInfected(ctx context.Context, path string) (entities.Verdict, error)
	ScanDir(ctx context.Context, path string, progress entities.ProgressFunc, opts ...DirOption) (*entities.BatchResult, error)
	ScanFiles(ctx context.Context, paths []string, progress entities.ProgressFunc) (*entities.BatchResult, error)
	ScanStream(ctx context.Context, name string, reader io.Reader) (*entities.BatchResult, error)
	Passthrough(ctx context.Context, reader io.Reader) (PassthroughStream, error)
	Close(ctx context.Context) error
}

// PassthroughStream forwards a stream unchanged while it is scanned in the background.
type PassthroughStream interface {
	io.ReadCloser
	Done() <-chan struct{}
	Result() entities.Verdict
}

type DirOptions struct {
	Recursive bool
}

type DirOption func(*DirOptions)

// WithRecursion overrides the configured recursion flag for one directory scan.
func WithRecursion(recursive bool) DirOption {
	return func(o *DirOptions) {
		o.Recursive = recursive
	}
}

func NewDirOptions(recursive bool, opts ...DirOption) DirOptions {
	options := DirOptions{Recursive: recursive}
	for _, opt := range opts {
		opt(&options)
	}

	return options
}
