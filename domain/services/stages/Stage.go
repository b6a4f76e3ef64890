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
	"context"
	"fmt"
	"sync"
)

type Cleanup[T any] struct {
	Request *T
	Error   error
}

// Stage runs a handler over its input channel with a fixed number of workers.
// Output is closed once every worker has returned, so a consumer ranging over
// Output also knows that no further cleanup will be reported.
type Stage[T, V any] struct {
	handler      entities.Handler[T, V]
	inputChannel <-chan *T
	logger       logging.Logger
	output       chan *V
	cleanup      chan<- *Cleanup[T]
	workers      int
}

func NewStage[T any, V any](handler entities.Handler[T, V], inputChannel <-chan *T, cleanupChannel chan<- *Cleanup[T], workers int, logger logging.Logger) Stage[T, V] {
	if workers <= 0 {
		workers = 1
	}

	return Stage[T, V]{
		handler:      handler,
		inputChannel: inputChannel,
		logger:       logger,
		output:       make(chan *V),
		cleanup:      cleanupChannel,
		workers:      workers,
	}
}

func (s *Stage[T, V]) Output() <-chan *V {
	return s.output
}

func (s *Stage[T, V]) Process(ctx context.Context) {
	s.logger.Debugw("Start of stage", "handler", s.handler.Name(), "workers", s.workers)

	var wg sync.WaitGroup

	wg.Add(s.workers)

	for i := 0; i < s.workers; i++ {
		go func() {
			defer wg.Done()
			s.doProcess(ctx)
		}()
	}

	go func() {
		wg.Wait()
		close(s.output)
		s.logger.Debugw("End of stage", "handler", s.handler.Name())
	}()
}

func (s *Stage[T, V]) doProcess(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case input, ok := <-s.inputChannel:
			if !ok {
				return
			}

			s.safeHandle(ctx, input)
		}
	}
}

func (s *Stage[T, V]) safeHandle(ctx context.Context, input *T) {
	defer func() {
		if r := recover(); r != nil {
			panicErr := fmt.Errorf("%v", r)
			s.logger.Errorw("Panic catch during handler execution", "err", panicErr)
			s.cleanup <- &Cleanup[T]{Request: input, Error: panicErr}
		}
	}()

	writer := entities.NewOutputWriter[V](s.output)

	err := s.handler.Handle(ctx, input, writer)
	if err != nil {
		s.cleanup <- &Cleanup[T]{Request: input, Error: err}
		return
	}
}
