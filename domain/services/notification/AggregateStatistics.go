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
	"clam-eye/logging"
	"sync"
	"time"
)

// AggregateStatistics keeps running totals of every verdict since startup.
type AggregateStatistics struct {
	stats  entities.ScanStatistics
	mu     sync.Mutex
	now    func() time.Time
	logger logging.Logger
}

func NewAggregateStatistics(logger logging.Logger) *AggregateStatistics {
	return &AggregateStatistics{stats: entities.NewScanStatistics(), now: time.Now, logger: logger}
}

func (a *AggregateStatistics) Update(verdict entities.Verdict) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch verdict.Status {
	case entities.Clean:
		a.stats.Clean++
	case entities.Infected:
		a.stats.Infected++
	default:
		a.stats.Indeterminate++
	}

	switch verdict.Action {
	case entities.ActionRemoved:
		a.stats.Removed++
	case entities.ActionQuarantined:
		a.stats.Quarantined++
	}

	for _, virus := range verdict.Viruses {
		a.stats.Viruses[virus]++
	}

	a.stats.LastUpdate = a.now()
}

func (a *AggregateStatistics) UpdateGlobal() {
	snapshot := a.Snapshot()

	a.logger.Infow("Scan statistics",
		"clean", snapshot.Clean,
		"infected", snapshot.Infected,
		"indeterminate", snapshot.Indeterminate,
		"distinct_viruses", len(snapshot.Viruses))
}

// Snapshot returns a copy that is safe to use while scans keep running.
func (a *AggregateStatistics) Snapshot() entities.ScanStatistics {
	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := a.stats
	snapshot.Viruses = make(map[string]int64, len(a.stats.Viruses))

	for virus, count := range a.stats.Viruses {
		snapshot.Viruses[virus] = count
	}

	return snapshot
}
