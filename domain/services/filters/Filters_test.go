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

package filters

import (
	"clam-eye/domain/entities"
	"clam-eye/logging"
	"context"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestHiddenFilter(t *testing.T) {
	tests := []struct {
		name           string
		includeHidden  bool
		path           string
		expectedResult entities.JobStatus
	}{
		{name: "visible file", path: "/data/report.pdf", expectedResult: entities.NextJob},
		{name: "hidden file", path: "/data/.env", expectedResult: entities.Abort},
		{name: "hidden dir", path: "/data/.git", expectedResult: entities.Abort},
		{name: "file in hidden dir is judged by its name", path: "/data/.git/config", expectedResult: entities.NextJob},
		{name: "hidden file included", includeHidden: true, path: "/data/.env", expectedResult: entities.NextJob},
		{name: "current dir", path: ".", expectedResult: entities.NextJob},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			filter := NewHiddenFilter(tc.includeHidden, logging.NewDiscardLog())
			assert.Equal(t, tc.expectedResult, filter.Filter(context.Background(), &entities.ScanTarget{Path: tc.path}))
		})
	}
}

func TestExcludeFilter(t *testing.T) {
	filter := NewExcludeFilter([]string{"*.iso", "node_modules", "/data/tmp/*"}, logging.NewDiscardLog())

	tests := []struct {
		path           string
		expectedResult entities.JobStatus
	}{
		{path: "/data/image.iso", expectedResult: entities.Abort},
		{path: "/data/app/node_modules", expectedResult: entities.Abort},
		{path: "/data/tmp/upload", expectedResult: entities.Abort},
		{path: "/data/app/main.go", expectedResult: entities.NextJob},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expectedResult, filter.Filter(context.Background(), &entities.ScanTarget{Path: tc.path}), tc.path)
	}
}

func TestSymlinkFilter(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0o700))
	require.NoError(t, os.Symlink(file, filepath.Join(root, "file-link")))
	require.NoError(t, os.Symlink(filepath.Join(root, "dir"), filepath.Join(root, "dir-link")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "broken-link")))

	fs := afero.NewOsFs()

	target := func(name string) *entities.ScanTarget {
		path := filepath.Join(root, name)
		info, err := os.Lstat(path)
		require.NoError(t, err)

		return &entities.ScanTarget{Path: path, Info: info}
	}

	t.Run("links are dropped by default", func(t *testing.T) {
		filter := NewSymlinkFilter(fs, false, logging.NewDiscardLog())

		assert.Equal(t, entities.NextJob, filter.Filter(context.Background(), target("file.txt")))
		assert.Equal(t, entities.NextJob, filter.Filter(context.Background(), target("dir")))
		assert.Equal(t, entities.Abort, filter.Filter(context.Background(), target("file-link")))
	})

	t.Run("linked files followed, linked dirs never", func(t *testing.T) {
		filter := NewSymlinkFilter(fs, true, logging.NewDiscardLog())

		linked := target("file-link")
		assert.Equal(t, entities.NextJob, filter.Filter(context.Background(), linked))
		assert.True(t, linked.Info.Mode().IsRegular())
		assert.Equal(t, entities.Abort, filter.Filter(context.Background(), target("dir-link")))
		assert.Equal(t, entities.Abort, filter.Filter(context.Background(), target("broken-link")))
	})
}

type statusFilter struct {
	status entities.JobStatus
	calls  int
}

func (s *statusFilter) Filter(ctx context.Context, target *entities.ScanTarget) entities.JobStatus {
	s.calls++
	return s.status
}

func TestFilterHandlerChain(t *testing.T) {
	t.Run("next stage short circuits", func(t *testing.T) {
		accept := &statusFilter{status: entities.NextStage}
		never := &statusFilter{status: entities.Abort}
		handler := NewFilterHandler([]Job{accept, never}, logging.NewDiscardLog())

		assert.True(t, handler.Accept(context.Background(), &entities.ScanTarget{Path: "/x"}))
		assert.Equal(t, 0, never.calls)
	})

	t.Run("abort drops the target", func(t *testing.T) {
		pass := &statusFilter{status: entities.NextJob}
		abort := &statusFilter{status: entities.Abort}
		handler := NewFilterHandler([]Job{pass, abort}, logging.NewDiscardLog())

		assert.False(t, handler.Accept(context.Background(), &entities.ScanTarget{Path: "/x"}))
		assert.Equal(t, 1, pass.calls)
	})

	t.Run("handle forwards accepted targets", func(t *testing.T) {
		handler := NewFilterHandler([]Job{&statusFilter{status: entities.NextJob}}, logging.NewDiscardLog())
		output := make(chan *entities.ScanTarget, 1)

		require.NoError(t, handler.Handle(context.Background(), &entities.ScanTarget{Path: "/x"}, entities.NewOutputWriter(output)))
		assert.Equal(t, "/x", (<-output).Path)
		assert.Contains(t, handler.Name(), "statusFilter")
	})
}
