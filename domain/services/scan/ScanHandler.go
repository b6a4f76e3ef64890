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

package scan

import (
	"clam-eye/domain/entities"
	"context"
)

// Handler adapts the service to the batch worker stage.
type Handler struct {
	scanService *Service
}

func NewScanHandler(scanService *Service) *Handler {
	return &Handler{scanService: scanService}
}

func (h *Handler) Handle(ctx context.Context, target *entities.ScanTarget, w *entities.OutputWriter[entities.Verdict]) error {
	verdict := h.scanService.ScanFile(ctx, target.Path)
	if !w.Write(ctx, &verdict) {
		return ctx.Err()
	}

	return nil
}

func (h *Handler) Name() string {
	return "Scan Handler"
}
