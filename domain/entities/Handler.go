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

import "context"

type Handler[T, V any] interface {
	Handle(ctx context.Context, request *T, w *OutputWriter[V]) error
	Name() string
}

type JobStatus int8

const (
	NextJob JobStatus = iota
	NextStage
	Abort
)

type Empty struct{}

// ProgressFunc observes each verdict of a batch as soon as it is recorded.
type ProgressFunc func(Verdict)
