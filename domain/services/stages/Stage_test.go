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

package stages

import (
	"clam-eye/domain/entities"
	"clam-eye/logging"
	"clam-eye/mocks"
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestStageProcess(t *testing.T) {
	t.Run("handler executed for each input", func(t *testing.T) {
		ctx := context.Background()

		targets := []entities.ScanTarget{{Path: "/tmp/file"}, {Path: "/tmp/file2"}, {Path: "/tmp/file3"}}

		handler := mocks.NewSpyHandler()
		handler.HandleFunc = func(ctx context.Context, request *entities.ScanTarget, w *entities.OutputWriter[entities.Verdict]) error {
			w.Write(ctx, &entities.Verdict{Target: request.Path, Status: entities.Clean})
			return nil
		}

		inputChannel := make(chan *entities.ScanTarget, len(targets))
		cleanupChannel := make(chan *Cleanup[entities.ScanTarget])
		stage := NewStage[entities.ScanTarget, entities.Verdict](handler, inputChannel, cleanupChannel, 2, logging.NewDiscardLog())

		for _, target := range targets {
			target := target
			inputChannel <- &target
		}
		close(inputChannel)

		stage.Process(ctx)

		var seen []string
		for verdict := range stage.Output() {
			seen = append(seen, verdict.Target)
		}

		assert.ElementsMatch(t, []string{"/tmp/file", "/tmp/file2", "/tmp/file3"}, seen)
		assert.Equal(t, 3, handler.Count("Handle"))
	})

	t.Run("stage stops when context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		handler := mocks.NewSpyHandler()
		inputChannel := make(chan *entities.ScanTarget, 1)
		cleanupChannel := make(chan *Cleanup[entities.ScanTarget])
		stage := NewStage[entities.ScanTarget, entities.Verdict](handler, inputChannel, cleanupChannel, 4, logging.NewDiscardLog())

		cancel()
		stage.Process(ctx)

		require.Eventually(t, func() bool {
			_, open := <-stage.Output()
			return !open
		}, 5*time.Second, 10*time.Millisecond)

		inputChannel <- &entities.ScanTarget{Path: "/tmp/file"}

		assert.Equal(t, 0, handler.Count("Handle"))
	})

	t.Run("errors and panics are reported to cleanup", func(t *testing.T) {
		ctx := context.Background()
		boom := errors.New("boom")

		handler := mocks.NewSpyHandler()
		handler.HandleFunc = func(ctx context.Context, request *entities.ScanTarget, w *entities.OutputWriter[entities.Verdict]) error {
			if request.Path == "panic" {
				panic("handler exploded")
			}

			return boom
		}

		inputChannel := make(chan *entities.ScanTarget, 2)
		cleanupChannel := make(chan *Cleanup[entities.ScanTarget], 2)
		stage := NewStage[entities.ScanTarget, entities.Verdict](handler, inputChannel, cleanupChannel, 1, logging.NewDiscardLog())

		inputChannel <- &entities.ScanTarget{Path: "panic"}
		inputChannel <- &entities.ScanTarget{Path: "error"}
		close(inputChannel)

		stage.Process(ctx)

		for range stage.Output() {
		}

		failures := map[string]error{}
		for i := 0; i < 2; i++ {
			cleanup := <-cleanupChannel
			failures[cleanup.Request.Path] = cleanup.Error
		}

		assert.ErrorContains(t, failures["panic"], "handler exploded")
		assert.ErrorIs(t, failures["error"], boom)
	})
}
