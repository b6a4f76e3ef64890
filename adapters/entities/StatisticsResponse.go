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

import (
	"clam-eye/domain/entities"
	"time"
)

type StatisticsResponse struct {
	Clean         int64            `json:"clean"`
	Infected      int64            `json:"infected"`
	Indeterminate int64            `json:"indeterminate"`
	Removed       int64            `json:"removed"`
	Quarantined   int64            `json:"quarantined"`
	Viruses       map[string]int64 `json:"viruses"`
	LastUpdate    *time.Time       `json:"last_update,omitempty"`
	Error         string           `json:"error,omitempty"`
}

type VirusCountResponse struct {
	Virus string `json:"virus"`
	Count int64  `json:"count"`
	Error string `json:"error,omitempty"`
}

func MapToStatisticsResponse(statistics entities.ScanStatistics) StatisticsResponse {
	response := StatisticsResponse{
		Clean:         statistics.Clean,
		Infected:      statistics.Infected,
		Indeterminate: statistics.Indeterminate,
		Removed:       statistics.Removed,
		Quarantined:   statistics.Quarantined,
		Viruses:       statistics.Viruses,
	}

	if response.Viruses == nil {
		response.Viruses = map[string]int64{}
	}

	if !statistics.LastUpdate.IsZero() {
		lastUpdate := statistics.LastUpdate
		response.LastUpdate = &lastUpdate
	}

	return response
}
