package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/breedwatch/internal/models"
	"github.com/localnerve/breedwatch/internal/services"
	"github.com/localnerve/breedwatch/internal/utils"
	"gorm.io/gorm"
)

// PortalUserHandler handles portal account routes
type PortalUserHandler struct {
	DB *gorm.DB
}

// PortalUserView is the portal-user output shape
type PortalUserView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city"`
}

func mapPortalUser(portalUser *models.PortalUser) PortalUserView {
	return PortalUserView{
		ID:    portalUser.ID,
		Name:  portalUser.Name,
		Email: portalUser.Email,
		City:  portalUser.City,
	}
}

// CreatePortalUser handles POST /userPortal/createUserPortal
// @Summary Register a portal user
// @Description Registers the account and answers with the login profile
// @Tags PortalUsers
// @Accept json
// @Produce json
// @Param body body object true "Portal user to create"
// @Success 201 {object} handlers.LoginResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /userPortal/createUserPortal [post]
func (h *PortalUserHandler) CreatePortalUser(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		City     string `json:"city"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "portalUser.validation.input")
	}

	if body.Name == "" || body.Email == "" || body.Password == "" || body.City == "" {
		return utils.ErrorResponse(c, "name, email, password, and city are required", fiber.StatusBadRequest, "portalUser.validation.input")
	}

	portalUser, err := services.CreatePortalUser(h.DB, services.PortalUserCreateInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		City:     body.City,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			return utils.ConflictResponse(c, "Email already registered", "portalUser.email.exists")
		}
		return utils.ErrorResponse(c, "Failed to create portal user", fiber.StatusInternalServerError, "createUserPortal")
	}

	return c.Status(fiber.StatusCreated).JSON(LoginResponse{
		Message: "success",
		Profile: LoginProfile{ID: portalUser.ID, Name: portalUser.Name, Email: portalUser.Email},
	})
}

// Login handles POST /userPortal/login
// @Summary Authenticate a portal user
// @Tags PortalUsers
// @Accept json
// @Produce json
// @Param body body object true "Email and password"
// @Success 200 {object} handlers.LoginResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /userPortal/login [post]
func (h *PortalUserHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "portalUser.validation.input")
	}

	portalUser, err := services.AuthenticatePortalUser(h.DB, body.Email, body.Password)
	if err != nil {
		return utils.ErrorResponse(c, "Failed to authenticate", fiber.StatusInternalServerError, "login")
	}
	if portalUser == nil {
		return utils.ErrorResponse(c, "Invalid email or password", fiber.StatusUnauthorized, "portalUser.auth.invalid")
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Message: "success",
		Profile: LoginProfile{ID: portalUser.ID, Name: portalUser.Name, Email: portalUser.Email},
	})
}

// GetPortalUser handles GET /userPortal/getUserPortal/:portalUserId
// @Summary Get a portal user by id
// @Tags PortalUsers
// @Produce json
// @Param portalUserId path int true "Portal user ID"
// @Success 200 {object} handlers.PortalUserView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /userPortal/getUserPortal/{portalUserId} [get]
func (h *PortalUserHandler) GetPortalUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "portalUserId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "portalUser.validation.input")
	}

	portalUser, err := services.GetPortalUserByID(h.DB, id)
	if err != nil {
		if errors.Is(err, services.ErrPortalUserNotFound) {
			return utils.NotFoundResponse(c, "Usuario nao encontrado")
		}
		return utils.ErrorResponse(c, "Failed to fetch portal user", fiber.StatusInternalServerError, "getUserPortal")
	}

	return c.Status(fiber.StatusOK).JSON(mapPortalUser(portalUser))
}

// GetAllPortalUsers handles GET /userPortal/getAllUserPortals
// @Summary Get every portal user
// @Tags PortalUsers
// @Produce json
// @Success 200 {array} handlers.PortalUserView
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /userPortal/getAllUserPortals [get]
func (h *PortalUserHandler) GetAllPortalUsers(c *fiber.Ctx) error {
	portalUsers, err := services.GetAllPortalUsers(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, "Failed to fetch portal users", fiber.StatusInternalServerError, "getAllUserPortals")
	}

	views := make([]PortalUserView, 0, len(portalUsers))
	for i := range portalUsers {
		views = append(views, mapPortalUser(&portalUsers[i]))
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// UpdatePortalUser handles PUT /userPortal/updateUserPortal/:portalUserId
// @Summary Update a portal user
// @Tags PortalUsers
// @Accept json
// @Produce json
// @Param portalUserId path int true "Portal user ID"
// @Param body body object true "Fields to update"
// @Success 200 {object} handlers.PortalUserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /userPortal/updateUserPortal/{portalUserId} [put]
func (h *PortalUserHandler) UpdatePortalUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "portalUserId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "portalUser.validation.input")
	}

	var body struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		City     *string `json:"city"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "portalUser.validation.input")
	}

	portalUser, err := services.UpdatePortalUser(h.DB, id, services.PortalUserUpdateInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		City:     body.City,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPortalUserNotFound):
			return utils.NotFoundResponse(c, "Usuario nao encontrado")
		case errors.Is(err, services.ErrEmailExists):
			return utils.ConflictResponse(c, "Email already registered", "portalUser.email.exists")
		}
		return utils.ErrorResponse(c, "Failed to update portal user", fiber.StatusInternalServerError, "updateUserPortal")
	}

	return c.Status(fiber.StatusOK).JSON(mapPortalUser(portalUser))
}

// DeletePortalUser handles DELETE /userPortal/deleteUserPortal/:portalUserId
// @Summary Delete a portal user
// @Tags PortalUsers
// @Produce json
// @Param portalUserId path int true "Portal user ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /userPortal/deleteUserPortal/{portalUserId} [delete]
func (h *PortalUserHandler) DeletePortalUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "portalUserId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "portalUser.validation.input")
	}

	if err := services.DeletePortalUser(h.DB, id); err != nil {
		if errors.Is(err, services.ErrPortalUserNotFound) {
			return utils.NotFoundResponse(c, "Usuario nao encontrado")
		}
		return utils.ErrorResponse(c, "Failed to delete portal user", fiber.StatusInternalServerError, "deleteUserPortal")
	}

	return utils.DeleteSuccessResponse(c, "Portal user deleted successfully")
}
