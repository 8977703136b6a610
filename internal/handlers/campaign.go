package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/breedwatch/internal/models"
	"github.com/localnerve/breedwatch/internal/services"
	"github.com/localnerve/breedwatch/internal/utils"
	"gorm.io/gorm"
)

// CampaignHandler handles campaign routes
type CampaignHandler struct {
	DB *gorm.DB
}

// CreateCampaign handles POST /campaigns/createCampaign
// @Summary Create a campaign
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param body body object true "Campaign to create"
// @Success 201 {object} handlers.CampaignBasicView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /campaigns/createCampaign [post]
func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var body struct {
		Title            string       `json:"title"`
		Description      string       `json:"description"`
		City             string       `json:"city"`
		CampaignInfos    *models.JSON `json:"campaignInfos"`
		InstructionInfos *models.JSON `json:"instructionInfos"`
		CreatedAt        *time.Time   `json:"created_at"`
		FinishAt         *time.Time   `json:"finish_at"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "campaign.validation.input")
	}

	if body.Title == "" || body.City == "" {
		return utils.ErrorResponse(c, "title and city are required", fiber.StatusBadRequest, "campaign.validation.input")
	}

	campaign, err := services.CreateCampaign(h.DB, services.CampaignCreateInput{
		Title:            body.Title,
		Description:      body.Description,
		City:             body.City,
		CampaignInfos:    body.CampaignInfos,
		InstructionInfos: body.InstructionInfos,
		CreatedAt:        body.CreatedAt,
		FinishAt:         body.FinishAt,
	})
	if err != nil {
		return utils.ErrorResponse(c, "Failed to create campaign", fiber.StatusInternalServerError, "createCampaign")
	}

	return c.Status(fiber.StatusCreated).JSON(mapCampaignBasic(campaign))
}

// GetCampaign handles GET /campaigns/getCampaign/:campaignId
// @Summary Get a campaign by id
// @Description Returns the campaign with all of its results
// @Tags Campaigns
// @Produce json
// @Param campaignId path int true "Campaign ID"
// @Success 200 {object} handlers.CampaignView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /campaigns/getCampaign/{campaignId} [get]
func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "campaignId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "campaign.validation.input")
	}

	campaign, err := services.GetCampaignByID(h.DB, id)
	if err != nil {
		if errors.Is(err, services.ErrCampaignNotFound) {
			return utils.NotFoundResponse(c, "Campanha nao encontrada")
		}
		return utils.ErrorResponse(c, "Failed to fetch campaign", fiber.StatusInternalServerError, "getCampaign")
	}

	return c.Status(fiber.StatusOK).JSON(mapCampaign(campaign, nil, true))
}

// GetCampaignsByUser handles GET /campaigns/getCampaignByUser/:userId
// @Summary Get campaigns for a mobile user
// @Description Campaigns in the user's address city; nested results are the user's own
// @Tags Campaigns
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} handlers.CampaignView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /campaigns/getCampaignByUser/{userId} [get]
func (h *CampaignHandler) GetCampaignsByUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "campaign.validation.input")
	}

	campaigns, _, err := services.GetCampaignsForUser(h.DB, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return utils.NotFoundResponse(c, "Usuario nao encontrado")
		case errors.Is(err, services.ErrAddressNotFound):
			return utils.NotFoundResponse(c, "Endereco nao encontrado para este usuario")
		}
		return utils.ErrorResponse(c, "Failed to fetch campaigns", fiber.StatusInternalServerError, "getCampaignByUser")
	}

	views := make([]CampaignView, 0, len(campaigns))
	for i := range campaigns {
		views = append(views, mapCampaign(&campaigns[i], &userID, true))
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// GetCampaignsByPortalUser handles GET /campaigns/getCampaignByUserPortal/:portalUserId
// @Summary Get campaigns for a portal user
// @Description Campaigns in the portal user's city, without nested results
// @Tags Campaigns
// @Produce json
// @Param portalUserId path int true "Portal user ID"
// @Success 200 {array} handlers.CampaignBasicView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /campaigns/getCampaignByUserPortal/{portalUserId} [get]
func (h *CampaignHandler) GetCampaignsByPortalUser(c *fiber.Ctx) error {
	portalUserID, err := parseIDParam(c, "portalUserId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "campaign.validation.input")
	}

	campaigns, _, err := services.GetCampaignsForPortalUser(h.DB, portalUserID)
	if err != nil {
		if errors.Is(err, services.ErrPortalUserNotFound) {
			return utils.NotFoundResponse(c, "Usuario nao encontrado")
		}
		return utils.ErrorResponse(c, "Failed to fetch campaigns", fiber.StatusInternalServerError, "getCampaignByUserPortal")
	}

	views := make([]CampaignBasicView, 0, len(campaigns))
	for i := range campaigns {
		views = append(views, mapCampaignBasic(&campaigns[i]))
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// GetCampaignHome handles GET /campaigns/getCampaignHome/:userId
// @Summary Get the home summary for a user
// @Description Per-campaign count of the user's results not yet visualized
// @Tags Campaigns
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} services.CampaignSummary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /campaigns/getCampaignHome/{userId} [get]
func (h *CampaignHandler) GetCampaignHome(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "campaign.validation.input")
	}

	summaries, err := services.GetCampaignHome(h.DB, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return utils.NotFoundResponse(c, "Usuario nao encontrado")
		case errors.Is(err, services.ErrAddressNotFound):
			return utils.NotFoundResponse(c, "Endereco nao encontrado para este usuario")
		}
		return utils.ErrorResponse(c, "Failed to fetch campaign summary", fiber.StatusInternalServerError, "getCampaignHome")
	}

	return c.Status(fiber.StatusOK).JSON(summaries)
}

// GetAllCampaigns handles GET /campaigns/getAllCampaigns
// @Summary Get every campaign
// @Description Every campaign with all of its results, unfiltered
// @Tags Campaigns
// @Produce json
// @Success 200 {array} handlers.CampaignView
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /campaigns/getAllCampaigns [get]
func (h *CampaignHandler) GetAllCampaigns(c *fiber.Ctx) error {
	campaigns, err := services.GetAllCampaigns(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, "Failed to fetch campaigns", fiber.StatusInternalServerError, "getAllCampaigns")
	}

	views := make([]CampaignView, 0, len(campaigns))
	for i := range campaigns {
		views = append(views, mapCampaign(&campaigns[i], nil, true))
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// UpdateCampaign handles PUT /campaigns/updateCampaign/:campaignId
// @Summary Update a campaign
// @Description Partial update; omitted fields keep their values
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param campaignId path int true "Campaign ID"
// @Param body body object true "Fields to update"
// @Success 200 {object} handlers.CampaignView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /campaigns/updateCampaign/{campaignId} [put]
func (h *CampaignHandler) UpdateCampaign(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "campaignId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "campaign.validation.input")
	}

	var body struct {
		Title            *string      `json:"title"`
		Description      *string      `json:"description"`
		City             *string      `json:"city"`
		CampaignInfos    *models.JSON `json:"campaignInfos"`
		InstructionInfos *models.JSON `json:"instructionInfos"`
		CreatedAt        *time.Time   `json:"created_at"`
		FinishAt         *time.Time   `json:"finish_at"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "campaign.validation.input")
	}

	campaign, err := services.UpdateCampaign(h.DB, id, services.CampaignUpdateInput{
		Title:            body.Title,
		Description:      body.Description,
		City:             body.City,
		CampaignInfos:    body.CampaignInfos,
		InstructionInfos: body.InstructionInfos,
		CreatedAt:        body.CreatedAt,
		FinishAt:         body.FinishAt,
	})
	if err != nil {
		if errors.Is(err, services.ErrCampaignNotFound) {
			return utils.NotFoundResponse(c, "Campanha nao encontrada")
		}
		return utils.ErrorResponse(c, "Failed to update campaign", fiber.StatusInternalServerError, "updateCampaign")
	}

	return c.Status(fiber.StatusOK).JSON(mapCampaign(campaign, nil, true))
}

// DeleteCampaign handles DELETE /campaigns/deleteCampaign/:campaignId
// @Summary Delete a campaign and its results
// @Tags Campaigns
// @Produce json
// @Param campaignId path int true "Campaign ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /campaigns/deleteCampaign/{campaignId} [delete]
func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "campaignId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "campaign.validation.input")
	}

	if err := services.DeleteCampaign(h.DB, id); err != nil {
		if errors.Is(err, services.ErrCampaignNotFound) {
			return utils.NotFoundResponse(c, "Campanha nao encontrada")
		}
		return utils.ErrorResponse(c, "Failed to delete campaign", fiber.StatusInternalServerError, "deleteCampaign")
	}

	return utils.DeleteSuccessResponse(c, "Campaign deleted successfully")
}
