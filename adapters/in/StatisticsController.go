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

package in

import (
	adapterentities "clam-eye/adapters/entities"
	"clam-eye/domain/services"
	"clam-eye/logging"
	"errors"
	"github.com/gofiber/fiber/v2"
)

const errVirusNotSeen = "virus not seen since startup"

type StatisticsController struct {
	scanStatisticsService services.StatisticsService
	logger                logging.Logger
}

func NewStatisticsController(scanStatisticsService services.StatisticsService, logger logging.Logger) StatisticsController {
	return StatisticsController{scanStatisticsService: scanStatisticsService, logger: logger}
}

// GetStatistics
// @Summary		Verdict totals since startup
// @Tags		statistics
// @Produce		json
// @Success		200 {object} adapterentities.StatisticsResponse
// @Security	ApiKey
// @Router      /statistics [get]
func (s *StatisticsController) GetStatistics(c *fiber.Ctx) error {
	statistics := s.scanStatisticsService.GetStatistics()
	return c.Status(fiber.StatusOK).JSON(adapterentities.MapToStatisticsResponse(statistics))
}

// GetVirusCount
// @Summary		How many targets carried a virus since startup
// @Tags		statistics
// @Produce		json
// @Param		name	path	string	true	"Virus name as reported by the engine"
// @Success		200 {object} adapterentities.VirusCountResponse
// @Failure		404 {object} adapterentities.VirusCountResponse
// @Security	ApiKey
// @Router      /statistics/viruses/{name} [get]
func (s *StatisticsController) GetVirusCount(c *fiber.Ctx) error {
	name := c.Params("name")
	response := adapterentities.VirusCountResponse{Virus: name}

	count, err := s.scanStatisticsService.GetVirusCount(name)

	switch {
	case errors.Is(err, services.ErrVirusNotSeen):
		response.Error = errVirusNotSeen
		return c.Status(fiber.StatusNotFound).JSON(response)
	case err != nil:
		s.logger.Errorw("failed to get virus count", "error", err, "virus", name)
		response.Error = err.Error()

		return c.Status(fiber.StatusInternalServerError).JSON(response)
	}

	response.Count = count

	return c.Status(fiber.StatusOK).JSON(response)
}
