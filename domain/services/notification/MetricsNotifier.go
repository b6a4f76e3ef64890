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

package notification

import (
	"clam-eye/domain/entities"
	"clam-eye/metrics"
	"github.com/uber-go/tally/v4"
)

type MetricsNotifier struct {
	scope  tally.Scope
	errors tally.Counter
}

func NewMetricsNotifier(scope tally.Scope) *MetricsNotifier {
	return &MetricsNotifier{scope: scope, errors: scope.Counter(metrics.ErrorCounter)}
}

func (m *MetricsNotifier) Update(verdict entities.Verdict) {
	m.scope.Tagged(map[string]string{
		metrics.StatusTag:    verdict.Status.String(),
		metrics.TransportTag: verdict.Transport,
	}).Counter(metrics.VerdictCounter).Inc(1)

	if verdict.Status == entities.Indeterminate {
		m.errors.Inc(1)
	}
}

func (m *MetricsNotifier) UpdateGlobal() {}
