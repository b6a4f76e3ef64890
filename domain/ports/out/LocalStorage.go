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

import "github.com/spf13/afero"

//go:generate go run -mod=mod github.com/golang/mock/mockgen -destination=../../../mocks/mock_local_storage.go -package=mocks -source=LocalStorage.go
type LocalStorage interface {
	afero.Fs
	GetID() string
	Destroy() error
	Exists(path string) (bool, error)
	Size(path string) (int64, error)
	RealPath(path string) (string, error)
	ListFiles(path string) ([]string, error)
}

type LocalStorageFactory interface {
	GetLocalStorage() (LocalStorage, error)
	GetStorageFromID(storageID string) (LocalStorage, error)
	DestroyStorage(storageID string) error
	DestroyAll() error
}
