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

type IsInfectedResult struct {
	File       string                   `json:"file"`
	IsInfected entities.InfectionStatus `json:"is_infected"`
	Viruses    []string                 `json:"viruses"`
	Action     string                   `json:"action,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

type ScanDirResult struct {
	Path       string                   `json:"path"`
	IsInfected entities.InfectionStatus `json:"is_infected"`
	GoodFiles  []string                 `json:"good_files"`
	BadFiles   []string                 `json:"bad_files"`
	Errors     map[string]string        `json:"errors"`
	Viruses    []string                 `json:"viruses"`
	Incomplete bool                     `json:"incomplete,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

type ScanFilesResult struct {
	GoodFiles  []string          `json:"good_files"`
	BadFiles   []string          `json:"bad_files"`
	Errors     map[string]string `json:"errors"`
	Viruses    []string          `json:"viruses"`
	Incomplete bool              `json:"incomplete,omitempty"`
	Error      string            `json:"error,omitempty"`
}

type ScanStreamResult struct {
	ID        string            `json:"id,omitempty"`
	GoodFiles []string          `json:"good_files"`
	BadFiles  []string          `json:"bad_files"`
	Errors    map[string]string `json:"errors"`
	Viruses   []string          `json:"viruses"`
	Error     string            `json:"error,omitempty"`
}

type VersionResponse struct {
	Engine        string     `json:"engine,omitempty"`
	Signatures    int        `json:"signatures,omitempty"`
	SignatureDate *time.Time `json:"signature_date,omitempty"`
	Raw           string     `json:"raw,omitempty"`
	Error         string     `json:"error,omitempty"`
}

func MapToIsInfectedResult(verdict entities.Verdict) IsInfectedResult {
	result := IsInfectedResult{
		File:       verdict.Target,
		IsInfected: verdict.Status,
		Viruses:    nonNil(verdict.Viruses),
	}

	if verdict.Action != entities.ActionNone {
		result.Action = string(verdict.Action)
	}

	if verdict.Err != nil {
		result.Error = verdict.Err.Error()
	}

	return result
}

func MapToScanDirResult(batch *entities.BatchResult) ScanDirResult {
	return ScanDirResult{
		Path:       batch.Path,
		IsInfected: batch.Status(),
		GoodFiles:  nonNil(batch.GoodFiles),
		BadFiles:   nonNil(batch.BadFiles),
		Errors:     mapErrors(batch.Errors),
		Viruses:    nonNil(batch.Viruses),
		Incomplete: batch.Incomplete,
	}
}

func MapToScanFilesResult(batch *entities.BatchResult) ScanFilesResult {
	return ScanFilesResult{
		GoodFiles:  nonNil(batch.GoodFiles),
		BadFiles:   nonNil(batch.BadFiles),
		Errors:     mapErrors(batch.Errors),
		Viruses:    nonNil(batch.Viruses),
		Incomplete: batch.Incomplete,
	}
}

func MapToScanStreamResult(batch *entities.BatchResult) ScanStreamResult {
	return ScanStreamResult{
		GoodFiles: nonNil(batch.GoodFiles),
		BadFiles:  nonNil(batch.BadFiles),
		Errors:    mapErrors(batch.Errors),
		Viruses:   nonNil(batch.Viruses),
	}
}

func MapToVersionResponse(version entities.EngineVersion) VersionResponse {
	response := VersionResponse{Engine: version.Engine, Signatures: version.Signatures, Raw: version.Raw}
	if !version.SignatureDate.IsZero() {
		date := version.SignatureDate
		response.SignatureDate = &date
	}

	return response
}

func mapErrors(errs map[string]error) map[string]string {
	result := make(map[string]string, len(errs))
	for target, err := range errs {
		result[target] = err.Error()
	}

	return result
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
