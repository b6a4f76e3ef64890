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
	"github.com/spf13/afero"
)

// LimitedFileSize accounts every written byte against the storage budget before writing it.
type LimitedFileSize struct {
	changeUsage func(nbytes int64) error
	afero.File
}

func NewLimitedFileSize(file afero.File, changeUsage func(nbytes int64) error) *LimitedFileSize {
	return &LimitedFileSize{changeUsage: changeUsage, File: file}
}

func (l *LimitedFileSize) Write(p []byte) (int, error) {
	if err := l.changeUsage(int64(len(p))); err != nil {
		return 0, err
	}

	n, err := l.File.Write(p)
	l.refund(len(p), n)

	return n, err
}

func (l *LimitedFileSize) WriteAt(p []byte, off int64) (int, error) {
	if err := l.changeUsage(int64(len(p))); err != nil {
		return 0, err
	}

	n, err := l.File.WriteAt(p, off)
	l.refund(len(p), n)

	return n, err
}

func (l *LimitedFileSize) WriteString(s string) (int, error) {
	return l.Write([]byte(s))
}

func (l *LimitedFileSize) refund(reserved, written int) {
	if written < reserved {
		_ = l.changeUsage(int64(written - reserved))
	}
}
