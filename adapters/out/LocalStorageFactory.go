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
	"clam-eye/domain/ports/out"
	"errors"
	"fmt"
	"github.com/spf13/afero"
	"sync"
)

const noStorageConsumption = 0

var (
	ErrStorageNotFound    = errors.New("storage not found")
	ErrMaxStorageConsumed = errors.New("max storage consumed")
)

type LocalStorageFactory struct {
	base                afero.Fs
	rootDir             string
	storage             map[string]out.LocalStorage
	storageUsage        map[string]int64
	maxStorageUsage     int64
	currentStorageUsage int64
	lock                sync.RWMutex
}

func NewLocalStorageFactory(base afero.Fs, rootDir string, maxStorageUsage int64) *LocalStorageFactory {
	return &LocalStorageFactory{
		base:            base,
		rootDir:         rootDir,
		maxStorageUsage: maxStorageUsage,
		storage:         make(map[string]out.LocalStorage),
		storageUsage:    make(map[string]int64),
	}
}

func (l *LocalStorageFactory) GetLocalStorage() (out.LocalStorage, error) {
	storage, err := NewLocalStorageFS(l.base, l.rootDir, l.changeFSUsage)
	if err != nil {
		return nil, err
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	storageID := storage.GetID()
	l.storage[storageID] = storage
	l.storageUsage[storageID] = noStorageConsumption

	return storage, nil
}

func (l *LocalStorageFactory) changeFSUsage(storageID string, delta int64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if _, ok := l.storageUsage[storageID]; !ok {
		return ErrStorageNotFound
	}

	if l.currentStorageUsage+delta > l.maxStorageUsage {
		return ErrMaxStorageConsumed
	}

	l.currentStorageUsage += delta
	l.storageUsage[storageID] += delta

	return nil
}

func (l *LocalStorageFactory) DestroyStorage(storageID string) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.destroy(storageID)
}

// DestroyAll removes every storage still alive, returning the first failure.
func (l *LocalStorageFactory) DestroyAll() error {
	l.lock.Lock()
	defer l.lock.Unlock()

	var firstErr error

	for storageID := range l.storage {
		if err := l.destroy(storageID); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (l *LocalStorageFactory) GetStorageFromID(storageID string) (out.LocalStorage, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	if storage, ok := l.storage[storageID]; ok {
		return storage, nil
	}

	return nil, ErrStorageNotFound
}

// CurrentUsage returns the bytes currently held by all storages.
func (l *LocalStorageFactory) CurrentUsage() int64 {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.currentStorageUsage
}

func (l *LocalStorageFactory) destroy(storageID string) error {
	storage, ok := l.storage[storageID]
	if !ok {
		return ErrStorageNotFound
	}

	delete(l.storage, storageID)
	l.currentStorageUsage -= l.storageUsage[storageID]
	delete(l.storageUsage, storageID)

	if err := storage.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy storage %s. %w", storageID, err)
	}

	return nil
}
