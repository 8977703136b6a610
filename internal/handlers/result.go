// result.go
//
// Integration backend for the mosquito breeding-site detection program
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of breedwatch.
// breedwatch is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// breedwatch is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with breedwatch.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/breedwatch/internal/models"
	"github.com/localnerve/breedwatch/internal/services"
	"github.com/localnerve/breedwatch/internal/types"
	"github.com/localnerve/breedwatch/internal/utils"
	"gorm.io/gorm"
)

// ResultHandler handles result lifecycle routes
type ResultHandler struct {
	DB        *gorm.DB
	Storage   services.Uploader
	Detection *services.DetectionClient
}

// ImageUploadResponse is the response shape of the upload endpoint
type ImageUploadResponse struct {
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
	UploadedImage *string `json:"uploaded_image"`
	ResultID      *uint   `json:"result_id"`
	FailedCount   int     `json:"failed_count"`
}

// CreateResult handles POST /results/createResult
// @Summary Create a result
// @Description Create a detection result record directly
// @Tags Results
// @Accept json
// @Produce json
// @Param body body object true "Result to create"
// @Success 201 {object} handlers.ResultView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /results/createResult [post]
func (h *ResultHandler) CreateResult(c *fiber.Ctx) error {
	var body struct {
		CampaignID    *types.FlexUint64             `json:"campaignId"`
		UserID        *types.FlexUint64             `json:"userId"`
		OriginalImage string                        `json:"originalImage"`
		ResultImage   *string                       `json:"resultImage"`
		Type          string                        `json:"type"`
		Status        string                        `json:"status"`
		Feedback      *services.ResultFeedbackInput `json:"feedback"`
		Lat           *string                       `json:"lat"`
		Lng           *string                       `json:"lng"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "result.validation.input")
	}

	if body.OriginalImage == "" {
		return utils.ErrorResponse(c, "originalImage is required", fiber.StatusBadRequest, "result.validation.input")
	}

	in := services.ResultCreateInput{
		OriginalImage: body.OriginalImage,
		ResultImage:   body.ResultImage,
		Type:          models.ResultType(body.Type),
		Status:        models.ResultStatus(body.Status),
		Feedback:      body.Feedback,
		Lat:           body.Lat,
		Lng:           body.Lng,
	}
	if body.CampaignID != nil {
		id := body.CampaignID.Uint()
		in.CampaignID = &id
	}
	if body.UserID != nil {
		id := body.UserID.Uint()
		in.UserID = &id
	}

	result, err := services.CreateResult(h.DB, in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCampaignNotFound):
			return utils.NotFoundResponse(c, "Campanha nao encontrada")
		case errors.Is(err, services.ErrUserNotFound):
			return utils.NotFoundResponse(c, "Usuario nao encontrado")
		case errors.Is(err, services.ErrInvalidType), errors.Is(err, services.ErrInvalidStatus):
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "result.validation.input")
		}
		return utils.ErrorResponse(c, "Failed to create result", fiber.StatusInternalServerError, "createResult")
	}

	return c.Status(fiber.StatusCreated).JSON(mapResult(result))
}

// UploadImages handles POST /results/uploadImages
// @Summary Upload breeding-site images
// @Description Upload one or more images; each becomes a result in processing status
// @Tags Results
// @Accept multipart/form-data
// @Produce json
// @Param userId formData string true "Owning user id"
// @Param campaignId formData string false "Campaign id"
// @Param type formData string false "Result type (default terreno)"
// @Param lat formData string false "Latitude"
// @Param lng formData string false "Longitude"
// @Param images formData file true "Image files"
// @Success 201 {object} handlers.ImageUploadResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /results/uploadImages [post]
func (h *ResultHandler) UploadImages(c *fiber.Ctx) error {
	userID, err := parseFormID(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, "userId is required", fiber.StatusBadRequest, "result.validation.input")
	}

	var campaignID *uint
	if raw := c.FormValue("campaignId"); raw != "" {
		id, err := parseFormID(c, "campaignId")
		if err != nil {
			return utils.ErrorResponse(c, "invalid campaignId", fiber.StatusBadRequest, "result.validation.input")
		}
		campaignID = &id
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.ErrorResponse(c, "Invalid multipart form", fiber.StatusBadRequest, "result.validation.input")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return utils.ErrorResponse(c, "No images supplied", fiber.StatusBadRequest, "result.validation.input")
	}

	var lat, lng *string
	if raw := c.FormValue("lat"); raw != "" {
		lat = &raw
	}
	if raw := c.FormValue("lng"); raw != "" {
		lng = &raw
	}
	resultType := models.ResultType(c.FormValue("type"))

	response := ImageUploadResponse{Success: true, Message: "success"}

	for _, fileHeader := range files {
		data, err := readMultipartFile(fileHeader)
		if err != nil {
			response.FailedCount++
			continue
		}

		extension := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
		result, err := services.CreateResultFromUpload(h.DB, h.Storage, services.ResultUploadInput{
			Data:       data,
			Extension:  extension,
			UserID:     userID,
			CampaignID: campaignID,
			Type:       resultType,
			Lat:        lat,
			Lng:        lng,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				return utils.NotFoundResponse(c, "Usuario nao encontrado")
			case errors.Is(err, services.ErrCampaignNotFound):
				return utils.NotFoundResponse(c, "Campanha nao encontrada")
			case errors.Is(err, services.ErrInvalidType):
				return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "result.validation.input")
			}
			log.Printf("Image upload failed: %v", err)
			response.FailedCount++
			continue
		}

		if response.ResultID == nil {
			id := result.ID
			url := result.OriginalImage
			response.ResultID = &id
			response.UploadedImage = &url
		}

		// Hand the image to the detection pipeline; the outcome comes back
		// later through updateResultImage.
		if h.Detection != nil {
			go func(imageURL string, resultID uint) {
				if err := h.Detection.ProcessImage(imageURL, resultID); err != nil {
					log.Printf("Detection submission failed for result %d: %v", resultID, err)
				}
			}(result.OriginalImage, result.ID)
		}
	}

	if response.ResultID == nil {
		response.Success = false
		response.Message = "error"
		return c.Status(fiber.StatusInternalServerError).JSON(response)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// GetResult handles GET /results/getResult/:resultId
// @Summary Get a result by id
// @Tags Results
// @Produce json
// @Param resultId path int true "Result ID"
// @Success 200 {object} handlers.ResultView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /results/getResult/{resultId} [get]
func (h *ResultHandler) GetResult(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "resultId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "result.validation.input")
	}

	result, err := services.GetResultByID(h.DB, id)
	if err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			return utils.NotFoundResponse(c, "Resultado nao encontrado")
		}
		return utils.ErrorResponse(c, "Failed to fetch result", fiber.StatusInternalServerError, "getResult")
	}

	return c.Status(fiber.StatusOK).JSON(mapResult(result))
}

// GetResultsByUser handles GET /results/getResultByUser/:userId
// @Summary Get all results for a user
// @Description Returns the user's results; an empty set reports as not found
// @Tags Results
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} handlers.ResultView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /results/getResultByUser/{userId} [get]
func (h *ResultHandler) GetResultsByUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "result.validation.input")
	}

	results, err := services.GetResultsByUser(h.DB, userID)
	if err != nil {
		return utils.ErrorResponse(c, "Failed to fetch results", fiber.StatusInternalServerError, "getResultByUser")
	}

	// Boundary policy: zero results for a user is reported as not found,
	// not as an empty success list.
	if len(results) == 0 {
		return utils.NotFoundResponse(c, "Resultado nao encontrado para este usuario")
	}

	views := make([]ResultView, 0, len(results))
	for i := range results {
		views = append(views, mapResult(&results[i]))
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// GetAllResults handles GET /results/getAllResults
// @Summary Get every result
// @Tags Results
// @Produce json
// @Success 200 {array} handlers.ResultView
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /results/getAllResults [get]
func (h *ResultHandler) GetAllResults(c *fiber.Ctx) error {
	results, err := services.GetAllResults(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, "Failed to fetch results", fiber.StatusInternalServerError, "getAllResults")
	}

	views := make([]ResultView, 0, len(results))
	for i := range results {
		views = append(views, mapResult(&results[i]))
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// UpdateResultStatus handles PUT /results/updateResultStatus
// @Summary Update a result's status
// @Description Set any enumerated status; image and object count are untouched
// @Tags Results
// @Accept json
// @Produce json
// @Param body body object true "Result id and status"
// @Success 200 {object} handlers.ResultView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /results/updateResultStatus [put]
func (h *ResultHandler) UpdateResultStatus(c *fiber.Ctx) error {
	var body struct {
		ID     types.FlexUint64 `json:"id"`
		Status string           `json:"status"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "result.validation.input")
	}

	result, err := services.UpdateResultStatus(h.DB, body.ID.Uint(), models.ResultStatus(body.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrResultNotFound):
			return utils.NotFoundResponse(c, "Resultado nao encontrado")
		case errors.Is(err, services.ErrInvalidStatus):
			return utils.ErrorResponse(c, "Status invalido", fiber.StatusBadRequest, "result.validation.status")
		}
		return utils.ErrorResponse(c, "Failed to update result", fiber.StatusInternalServerError, "updateResultStatus")
	}

	return c.Status(fiber.StatusOK).JSON(mapResult(result))
}

// UpdateResultImage handles PUT /results/updateResultImage
// @Summary Record the detection outcome
// @Description Set the processed image and a terminal status (finished or failed)
// @Tags Results
// @Accept json
// @Produce json
// @Param body body object true "Result id, image URL, status, and object count"
// @Success 200 {object} handlers.ResultView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /results/updateResultImage [put]
func (h *ResultHandler) UpdateResultImage(c *fiber.Ctx) error {
	var body struct {
		ID          types.FlexUint64 `json:"id"`
		ResultImage string           `json:"resultImage"`
		Status      string           `json:"status"`
		ObjectCount *int             `json:"object_count"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "result.validation.input")
	}

	if body.ResultImage == "" {
		return utils.ErrorResponse(c, "resultImage is required", fiber.StatusBadRequest, "result.validation.input")
	}

	result, err := services.UpdateResultImage(h.DB, body.ID.Uint(), body.ResultImage, models.ResultStatus(body.Status), body.ObjectCount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrResultNotFound):
			return utils.NotFoundResponse(c, "Resultado nao encontrado")
		case errors.Is(err, services.ErrInvalidStatus):
			return utils.ErrorResponse(c, "Status invalido", fiber.StatusBadRequest, "result.validation.status")
		case errors.Is(err, services.ErrInvalidStatusForImageUpdate):
			return utils.ErrorResponse(c, "Image update only accepts finished or failed status", fiber.StatusBadRequest, "result.validation.status")
		case errors.Is(err, services.ErrObjectCountRequired):
			return utils.ErrorResponse(c, "object_count is required when status is finished", fiber.StatusBadRequest, "result.validation.objectCount")
		}
		return utils.ErrorResponse(c, "Failed to update result", fiber.StatusInternalServerError, "updateResultImage")
	}

	return c.Status(fiber.StatusOK).JSON(mapResult(result))
}

// UpdateResultFeedback handles PUT /results/updateResultFeedback
// @Summary Update result feedback
// @Tags Results
// @Accept json
// @Produce json
// @Param body body object true "Result id, like, and optional comment"
// @Success 200 {object} handlers.ResultView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /results/updateResultFeedback [put]
func (h *ResultHandler) UpdateResultFeedback(c *fiber.Ctx) error {
	var body struct {
		ID      types.FlexUint64 `json:"id"`
		Like    bool             `json:"like"`
		Comment *string          `json:"comment"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "result.validation.input")
	}

	result, err := services.UpdateResultFeedback(h.DB, body.ID.Uint(), body.Like, body.Comment)
	if err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			return utils.NotFoundResponse(c, "Resultado nao encontrado")
		}
		return utils.ErrorResponse(c, "Failed to update feedback", fiber.StatusInternalServerError, "updateResultFeedback")
	}

	return c.Status(fiber.StatusOK).JSON(mapResult(result))
}

// DeleteResult handles DELETE /results/deleteResult/:resultId
// @Summary Delete a result
// @Tags Results
// @Produce json
// @Param resultId path int true "Result ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /results/deleteResult/{resultId} [delete]
func (h *ResultHandler) DeleteResult(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "resultId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "result.validation.input")
	}

	if err := services.DeleteResult(h.DB, id); err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			return utils.NotFoundResponse(c, "Resultado nao encontrado")
		}
		return utils.ErrorResponse(c, "Failed to delete result", fiber.StatusInternalServerError, "deleteResult")
	}

	return utils.DeleteSuccessResponse(c, "Result deleted successfully")
}

// parseFormID parses a positive integer form value
func parseFormID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.FormValue(name)
	var parsed types.FlexUint64
	if err := parsed.UnmarshalJSON([]byte(raw)); err != nil {
		return 0, err
	}
	if parsed == 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return parsed.Uint(), nil
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
