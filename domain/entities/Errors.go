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

package entities

import (
	"errors"
	"strings"
)

var (
	ErrConfig      = errors.New("config error")
	ErrInit        = errors.New("init error")
	ErrPath        = errors.New("path error")
	ErrTransport   = errors.New("transport error")
	ErrParse       = errors.New("parse error")
	ErrUnreachable = errors.New("engine unreachable")
)

type ScanError struct {
	Kind        error  // One of ErrConfig, ErrInit, ErrPath, ErrTransport, ErrParse
	Target      string // Target the error refers to, empty for global errors
	Message     string
	Raw         string // Unrecognized engine output, only for ErrParse
	Unreachable bool   // Transport errors caused by an engine that could not be reached
	Cause       error
}

func (e *ScanError) Error() string {
	parts := []string{e.Kind.Error()}
	if e.Target != "" {
		parts = append(parts, e.Target)
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *ScanError) Unwrap() error {
	return e.Cause
}

func (e *ScanError) Is(target error) bool {
	if target == ErrUnreachable {
		return e.Unreachable
	}

	return target == e.Kind
}

func NewConfigError(message string, cause error) *ScanError {
	return &ScanError{Kind: ErrConfig, Message: message, Cause: cause}
}

func NewInitError(message string, cause error) *ScanError {
	return &ScanError{Kind: ErrInit, Message: message, Cause: cause}
}

func NewPathError(target, message string, cause error) *ScanError {
	return &ScanError{Kind: ErrPath, Target: target, Message: message, Cause: cause}
}

func NewTransportError(target, message string, cause error) *ScanError {
	return &ScanError{Kind: ErrTransport, Target: target, Message: message, Cause: cause}
}

func NewUnreachableError(target, message string, cause error) *ScanError {
	return &ScanError{Kind: ErrTransport, Target: target, Message: message, Unreachable: true, Cause: cause}
}

func NewParseError(target, raw, message string) *ScanError {
	return &ScanError{Kind: ErrParse, Target: target, Raw: raw, Message: message}
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}

func IsInitError(err error) bool {
	return errors.Is(err, ErrInit)
}

func IsPathError(err error) bool {
	return errors.Is(err, ErrPath)
}

func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}
