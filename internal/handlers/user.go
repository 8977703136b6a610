package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/breedwatch/internal/models"
	"github.com/localnerve/breedwatch/internal/services"
	"github.com/localnerve/breedwatch/internal/utils"
	"gorm.io/gorm"
)

// UserHandler handles mobile-user account routes
type UserHandler struct {
	DB *gorm.DB
}

// AddressView is the address output shape
type AddressView struct {
	ID           uint    `json:"id"`
	Cep          string  `json:"cep"`
	Street       string  `json:"street"`
	Number       int     `json:"number"`
	Neighborhood string  `json:"neighborhood"`
	Complement   *string `json:"complement,omitempty"`
	City         string  `json:"city"`
	Lat          string  `json:"lat"`
	Lng          string  `json:"lng"`
}

// UserView is the mobile-user output shape; the password hash never leaves
type UserView struct {
	ID      uint         `json:"id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Phone   string       `json:"phone"`
	Address *AddressView `json:"address,omitempty"`
}

// LoginProfile is the authenticated identity returned by login
type LoginProfile struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResponse is the login output shape
type LoginResponse struct {
	Message string       `json:"message"`
	Profile LoginProfile `json:"profile"`
}

func mapAddress(address *models.Address) *AddressView {
	if address == nil {
		return nil
	}
	return &AddressView{
		ID:           address.ID,
		Cep:          address.Cep,
		Street:       address.Street,
		Number:       address.Number,
		Neighborhood: address.Neighborhood,
		Complement:   address.Complement,
		City:         address.City,
		Lat:          address.Lat,
		Lng:          address.Lng,
	}
}

func mapUser(user *models.User) UserView {
	return UserView{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Phone:   user.Phone,
		Address: mapAddress(user.Address),
	}
}

// addressBody is the nested address input for user creation
type addressBody struct {
	Cep          string  `json:"cep"`
	Street       string  `json:"street"`
	Number       int     `json:"number"`
	Neighborhood string  `json:"neighborhood"`
	Complement   *string `json:"complement"`
	City         string  `json:"city"`
	Lat          string  `json:"lat"`
	Lng          string  `json:"lng"`
}

// CreateUser handles POST /user/createUser
// @Summary Register a mobile user
// @Description Creates the user and its companion address in one step
// @Tags Users
// @Accept json
// @Produce json
// @Param body body object true "User and address"
// @Success 201 {object} handlers.UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /user/createUser [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var body struct {
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Phone    string      `json:"phone"`
		Address  addressBody `json:"address"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "user.validation.input")
	}

	if body.Name == "" || body.Email == "" || body.Password == "" {
		return utils.ErrorResponse(c, "name, email, and password are required", fiber.StatusBadRequest, "user.validation.input")
	}

	user, err := services.CreateUser(h.DB, services.UserCreateInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Phone:    body.Phone,
		Address: services.AddressInput{
			Cep:          body.Address.Cep,
			Street:       body.Address.Street,
			Number:       body.Address.Number,
			Neighborhood: body.Address.Neighborhood,
			Complement:   body.Address.Complement,
			City:         body.Address.City,
			Lat:          body.Address.Lat,
			Lng:          body.Address.Lng,
		},
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			return utils.ConflictResponse(c, "Email already registered", "user.email.exists")
		}
		return utils.ErrorResponse(c, "Failed to create user", fiber.StatusInternalServerError, "createUser")
	}

	return c.Status(fiber.StatusCreated).JSON(mapUser(user))
}

// Login handles POST /user/login
// @Summary Authenticate a mobile user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body object true "Email and password"
// @Success 200 {object} handlers.LoginResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /user/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "user.validation.input")
	}

	user, err := services.AuthenticateUser(h.DB, body.Email, body.Password)
	if err != nil {
		return utils.ErrorResponse(c, "Failed to authenticate", fiber.StatusInternalServerError, "login")
	}
	if user == nil {
		return utils.ErrorResponse(c, "Invalid email or password", fiber.StatusUnauthorized, "user.auth.invalid")
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Message: "success",
		Profile: LoginProfile{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// GetUser handles GET /user/getUser/:userId
// @Summary Get a mobile user by id
// @Tags Users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} handlers.UserView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /user/getUser/{userId} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "user.validation.input")
	}

	user, err := services.GetUserByID(h.DB, id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return utils.NotFoundResponse(c, "Usuario nao encontrado")
		}
		return utils.ErrorResponse(c, "Failed to fetch user", fiber.StatusInternalServerError, "getUser")
	}

	return c.Status(fiber.StatusOK).JSON(mapUser(user))
}

// GetAllUsers handles GET /user/getAllUsers
// @Summary Get every mobile user
// @Tags Users
// @Produce json
// @Success 200 {array} handlers.UserView
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /user/getAllUsers [get]
func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	users, err := services.GetAllUsers(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, "Failed to fetch users", fiber.StatusInternalServerError, "getAllUsers")
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, mapUser(&users[i]))
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// UpdateUser handles PUT /user/updateUser/:userId
// @Summary Update a mobile user
// @Description Partial update; a supplied password is rehashed
// @Tags Users
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param body body object true "Fields to update"
// @Success 200 {object} handlers.UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /user/updateUser/{userId} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "user.validation.input")
	}

	var body struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Phone    *string `json:"phone"`
		Address  *struct {
			Cep          *string `json:"cep"`
			Street       *string `json:"street"`
			Number       *int    `json:"number"`
			Neighborhood *string `json:"neighborhood"`
			Complement   *string `json:"complement"`
			City         *string `json:"city"`
			Lat          *string `json:"lat"`
			Lng          *string `json:"lng"`
		} `json:"address"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "user.validation.input")
	}

	in := services.UserUpdateInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Phone:    body.Phone,
	}
	if body.Address != nil {
		in.Address = &services.AddressUpdateInput{
			Cep:          body.Address.Cep,
			Street:       body.Address.Street,
			Number:       body.Address.Number,
			Neighborhood: body.Address.Neighborhood,
			Complement:   body.Address.Complement,
			City:         body.Address.City,
			Lat:          body.Address.Lat,
			Lng:          body.Address.Lng,
		}
	}

	user, err := services.UpdateUser(h.DB, id, in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return utils.NotFoundResponse(c, "Usuario nao encontrado")
		case errors.Is(err, services.ErrEmailExists):
			return utils.ConflictResponse(c, "Email already registered", "user.email.exists")
		}
		return utils.ErrorResponse(c, "Failed to update user", fiber.StatusInternalServerError, "updateUser")
	}

	return c.Status(fiber.StatusOK).JSON(mapUser(user))
}

// DeleteUser handles DELETE /user/deleteUser/:userId
// @Summary Delete a mobile user
// @Description Removes the user and address; results are kept and detached
// @Tags Users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /user/deleteUser/{userId} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "user.validation.input")
	}

	if err := services.DeleteUser(h.DB, id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return utils.NotFoundResponse(c, "Usuario nao encontrado")
		}
		return utils.ErrorResponse(c, "Failed to delete user", fiber.StatusInternalServerError, "deleteUser")
	}

	return utils.DeleteSuccessResponse(c, "User deleted successfully")
}
