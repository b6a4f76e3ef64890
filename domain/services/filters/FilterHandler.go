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
	"reflect"
	"strings"
)

type Job interface {
	Filter(ctx context.Context, target *entities.ScanTarget) entities.JobStatus
}

// FilterHandler runs filter jobs in order. Abort drops the target, NextStage accepts it
// without consulting the remaining jobs, NextJob defers to the next one.
type FilterHandler struct {
	jobs   []Job
	logger logging.Logger
}

func NewFilterHandler(jobs []Job, logger logging.Logger) *FilterHandler {
	return &FilterHandler{jobs: jobs, logger: logger}
}

func (f *FilterHandler) Accept(ctx context.Context, target *entities.ScanTarget) bool {
	for _, job := range f.jobs {
		switch job.Filter(ctx, target) {
		case entities.Abort:
			f.logger.Debugw("Target filtered out", "target", target.Path, "job", reflect.TypeOf(job).Elem().Name())
			return false
		case entities.NextStage:
			return true
		}
	}

	return true
}

func (f *FilterHandler) Handle(ctx context.Context, target *entities.ScanTarget, w *entities.OutputWriter[entities.ScanTarget]) error {
	if f.Accept(ctx, target) {
		w.Write(ctx, target)
	}

	return nil
}

func (f *FilterHandler) Name() string {
	var jobs []string
	for _, job := range f.jobs {
		jobs = append(jobs, reflect.TypeOf(job).Elem().Name())
	}

	return "Filter Handler with jobs: " + strings.Join(jobs, ", ")
}
