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
	"clam-eye/common"
	"clam-eye/domain/entities"
	"clam-eye/domain/ports/in"
	"clam-eye/domain/services"
	"clam-eye/logging"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	errNoFileFound    = "no file found"
	errOpenFile       = "failed to open file"
	errScanFailed     = "scan failed"
	errEngineFailure  = "engine could not be reached"
	errInvalidRequest = "invalid request"
)

type ScanController struct {
	validate *validator.Validate
	scanner  in.Scanner
	logger   logging.Logger
}

func NewScanController(scanner in.Scanner, logger logging.Logger) ScanController {
	return ScanController{scanner: scanner, logger: logger, validate: validator.New()}
}

// ScanFile
// @Summary		Scans an uploaded file
// @Tags		files
// @Accept		mpfd
// @Produce		json
// @Param		file	formData	file	true	"File to be scanned"
// @Success		200 {object} adapterentities.ScanStreamResult
// @Failure		400 {object} adapterentities.ScanStreamResult
// @Failure		500 {object} adapterentities.ScanStreamResult
// @Security	ApiKey
// @Router      /files [post]
func (s *ScanController) ScanFile(c *fiber.Ctx) error {
	scanID := common.NewScanID()
	resp := adapterentities.ScanStreamResult{ID: scanID}

	file, err := c.FormFile("file")
	if err != nil {
		s.logger.Errorw("no file found", "error", err)
		resp.Error = errNoFileFound

		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	upload, err := file.Open()
	if err != nil {
		s.logger.Errorw("failed to open file", "error", err)
		resp.Error = errOpenFile

		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
	defer upload.Close()

	result, err := s.scanner.ScanStream(c.UserContext(), file.Filename, upload)
	if err != nil {
		s.logger.Errorw("failed to scan uploaded file", "error", err, "scan_id", scanID, "filename", file.Filename, "filesize", file.Size)
		resp.Error = errScanFailed

		return c.Status(statusFor(err)).JSON(resp)
	}

	response := adapterentities.MapToScanStreamResult(result)
	response.ID = scanID

	s.logger.Infow("uploaded file scanned", "scan_id", scanID, "filename", file.Filename, "filesize", file.Size,
		"infected", len(response.BadFiles) > 0)

	return c.Status(fiber.StatusOK).JSON(response)
}

// IsInfected
// @Summary		Scans a file readable by the engine host
// @Tags		scan
// @Accept		json
// @Produce		json
// @Param		request	body	adapterentities.ScanFileRequest	true	"File to be scanned"
// @Success		200 {object} adapterentities.IsInfectedResult
// @Failure		400 {object} adapterentities.IsInfectedResult
// @Failure		502 {object} adapterentities.IsInfectedResult
// @Security	ApiKey
// @Router      /scan/file [post]
func (s *ScanController) IsInfected(c *fiber.Ctx) error {
	request := &adapterentities.ScanFileRequest{}
	if err := s.parse(c, request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(adapterentities.IsInfectedResult{Error: err.Error()})
	}

	verdict, err := s.scanner.IsInfected(c.UserContext(), request.File)
	response := adapterentities.MapToIsInfectedResult(verdict)

	if err != nil {
		s.logger.Warnw("file could not be scanned", "error", err, "file", request.File)
		response.Error = err.Error()

		return c.Status(statusFor(err)).JSON(response)
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// ScanFiles
// @Summary		Scans a list of files readable by the engine host
// @Tags		scan
// @Accept		json
// @Produce		json
// @Param		request	body	adapterentities.ScanFilesRequest	true	"Files to be scanned"
// @Success		200 {object} adapterentities.ScanFilesResult
// @Failure		400 {object} adapterentities.ScanFilesResult
// @Security	ApiKey
// @Router      /scan/files [post]
func (s *ScanController) ScanFiles(c *fiber.Ctx) error {
	request := &adapterentities.ScanFilesRequest{}
	if err := s.parse(c, request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(adapterentities.ScanFilesResult{Error: err.Error()})
	}

	result, err := s.scanner.ScanFiles(c.UserContext(), request.Files, nil)
	if err != nil {
		s.logger.Errorw("failed to scan files", "error", err, "files", len(request.Files))
		return c.Status(statusFor(err)).JSON(adapterentities.ScanFilesResult{Error: err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(adapterentities.MapToScanFilesResult(result))
}

// ScanDir
// @Summary		Scans a directory readable by the engine host
// @Tags		scan
// @Accept		json
// @Produce		json
// @Param		request	body	adapterentities.ScanDirRequest	true	"Directory to be scanned"
// @Success		200 {object} adapterentities.ScanDirResult
// @Failure		400 {object} adapterentities.ScanDirResult
// @Security	ApiKey
// @Router      /scan/dir [post]
func (s *ScanController) ScanDir(c *fiber.Ctx) error {
	request := &adapterentities.ScanDirRequest{}
	if err := s.parse(c, request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(adapterentities.ScanDirResult{Error: err.Error()})
	}

	var opts []in.DirOption
	if request.Recursive != nil {
		opts = append(opts, in.WithRecursion(*request.Recursive))
	}

	result, err := s.scanner.ScanDir(c.UserContext(), request.Path, nil, opts...)
	if err != nil {
		s.logger.Warnw("directory could not be scanned", "error", err, "path", request.Path)
		return c.Status(statusFor(err)).JSON(adapterentities.ScanDirResult{Path: request.Path, Error: err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(adapterentities.MapToScanDirResult(result))
}

// Version
// @Summary		Engine and signature database version
// @Tags		engine
// @Produce		json
// @Success		200 {object} adapterentities.VersionResponse
// @Failure		502 {object} adapterentities.VersionResponse
// @Security	ApiKey
// @Router      /version [get]
func (s *ScanController) Version(c *fiber.Ctx) error {
	version, err := s.scanner.Version(c.UserContext())
	if err != nil {
		s.logger.Errorw("failed to query engine version", "error", err)
		return c.Status(statusFor(err)).JSON(adapterentities.VersionResponse{Error: errEngineFailure})
	}

	return c.Status(fiber.StatusOK).JSON(adapterentities.MapToVersionResponse(version))
}

func (s *ScanController) parse(c *fiber.Ctx, request interface{}) error {
	if err := c.BodyParser(request); err != nil {
		s.logger.Errorw("Could not parse request", "error", err)
		return errors.New(errInvalidRequest)
	}

	if err := s.validate.Struct(request); err != nil {
		s.logger.Errorw("Some field is missing", "error", err)
		return err
	}

	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrScannerClosed):
		return fiber.StatusServiceUnavailable
	case entities.IsPathError(err):
		return fiber.StatusBadRequest
	case entities.IsTransportError(err), entities.IsParseError(err):
		return fiber.StatusBadGateway
	case entities.IsConfigError(err), entities.IsInitError(err):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
