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

package mocks

import (
	"clam-eye/domain/entities"
	"context"
	"sync"
)

// Coding because gomock still does not support generics properly. Even a derived interface embedding the generic one didn't work.
type SpyHandler struct {
	HandleFunc func(ctx context.Context, request *entities.ScanTarget, w *entities.OutputWriter[entities.Verdict]) error
	counter    map[string]int
	lock       sync.Mutex
}

func NewSpyHandler() *SpyHandler {
	return &SpyHandler{counter: make(map[string]int)}
}

func (m *SpyHandler) Handle(ctx context.Context, request *entities.ScanTarget, w *entities.OutputWriter[entities.Verdict]) error {
	m.increment("Handle")

	if m.HandleFunc != nil {
		return m.HandleFunc(ctx, request, w)
	}

	return nil
}

func (m *SpyHandler) Name() string {
	m.increment("Name")
	return "SpyHandler"
}

func (m *SpyHandler) Count(method string) int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.counter[method]
}

func (m *SpyHandler) increment(method string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.counter[method]++
}
