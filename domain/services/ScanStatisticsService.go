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

package services

import (
	"clam-eye/domain/entities"
	"clam-eye/logging"
	"errors"
)

var ErrVirusNotSeen = errors.New("virus not seen since startup")

//go:generate go run -mod=mod github.com/golang/mock/mockgen -destination=../../mocks/mock_statistics_service.go -package=mocks -source=ScanStatisticsService.go
type StatisticsService interface {
	GetStatistics() entities.ScanStatistics
	GetVirusCount(name string) (int64, error)
}

type snapshotter interface {
	Snapshot() entities.ScanStatistics
}

// ScanStatisticsService exposes the running totals kept by the verdict notifiers.
type ScanStatisticsService struct {
	source snapshotter
	logger logging.Logger
}

func NewScanStatisticsService(source snapshotter, logger logging.Logger) *ScanStatisticsService {
	return &ScanStatisticsService{source: source, logger: logger}
}

func (s *ScanStatisticsService) GetStatistics() entities.ScanStatistics {
	return s.source.Snapshot()
}

func (s *ScanStatisticsService) GetVirusCount(name string) (int64, error) {
	count, ok := s.source.Snapshot().Viruses[name]
	if !ok {
		s.logger.Debugw("virus requested but never found", "virus", name)
		return 0, ErrVirusNotSeen
	}

	return count, nil
}
