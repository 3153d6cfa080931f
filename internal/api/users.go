package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dailydigest/internal/errmsg"
	"dailydigest/internal/events"
	"dailydigest/internal/lifecycle"
	"dailydigest/internal/models"
	"dailydigest/internal/operators"
	"dailydigest/internal/store"
	"dailydigest/internal/utils"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type userRequest struct {
	DisplayName    string `json:"displayName"`
	GitHubUsername string `json:"githubUsername"`
	Email          string `json:"email"`
	ReportTime     string `json:"reportTime"`
	Timezone       string `json:"timezone"`
	Active         *bool  `json:"active"`
}

type listUsersResponse struct {
	Users []models.UserConfig `json:"users"`
}

// apply validates req and copies it onto user, filling defaults.
func (req userRequest) apply(user *models.UserConfig) error {
	user.DisplayName = strings.TrimSpace(req.DisplayName)
	user.GitHubUsername = strings.TrimSpace(req.GitHubUsername)
	user.Email = strings.TrimSpace(req.Email)
	user.ReportTime = strings.TrimSpace(req.ReportTime)
	user.Timezone = strings.TrimSpace(req.Timezone)
	if req.Active != nil {
		user.Active = *req.Active
	}

	if user.GitHubUsername == "" || !strings.Contains(user.Email, "@") {
		return errmsg.UserInvalidRequest
	}
	if user.ReportTime == "" {
		user.ReportTime = models.DefaultReportTime
	}
	if user.Timezone == "" {
		user.Timezone = models.DefaultTimezone
	}
	if _, err := lifecycle.ParseReportTime(user.ReportTime); err != nil {
		return errmsg.NewStatusError(http.StatusBadRequest, err.Error())
	}
	if _, err := lifecycle.Location(user.Timezone); err != nil {
		return errmsg.NewStatusError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// loadUser resolves the :userId path parameter.
func (h *Handler) loadUser(c fiber.Ctx) (models.UserConfig, error) {
	userID := strings.TrimSpace(c.Params("userId"))
	if userID == "" {
		return models.UserConfig{}, errmsg.UserNotFound
	}

	user, err := h.store.GetUser(c, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.UserConfig{}, errmsg.UserNotFound
	}
	if err != nil {
		return models.UserConfig{}, errmsg.InternalServerError(err)
	}
	return user, nil
}

// ListUsersHandler returns every configured user.
// @Summary List users
// @Tags Digest Users
// @Security OperatorAuth
// @Produce json
// @Success 200 {object} listUsersResponse
// @Failure 500 {object} errmsg._InternalServerError
// @Router /digest/users [get]
func (h *Handler) ListUsersHandler(c fiber.Ctx) error {
	users, err := h.store.ListUsers(c)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(listUsersResponse{Users: users})
}

// CreateUserHandler registers a developer for daily reports.
// @Summary Create user
// @Tags Digest Users
// @Security OperatorAuth
// @Accept json
// @Produce json
// @Param payload body userRequest true "User configuration"
// @Success 201 {object} models.UserConfig
// @Failure 400 {object} errmsg._UserInvalidRequest
// @Failure 409 {object} errmsg._UserAlreadyExists
// @Failure 500 {object} errmsg._InternalServerError
// @Router /digest/users [post]
func (h *Handler) CreateUserHandler(c fiber.Ctx) error {
	var req userRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return utils.StatusError(c, errmsg.UserInvalidRequest)
	}

	user := models.UserConfig{ID: uuid.NewString(), Active: true}
	if err := req.apply(&user); err != nil {
		return utils.ErrorFrom(c, err)
	}

	err := h.store.CreateUser(c, user)
	if errors.Is(err, store.ErrDuplicate) {
		return utils.StatusError(c, errmsg.UserAlreadyExists)
	}
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	if events.Em != nil {
		events.Em.UserChanged(operators.Current(c), user.ID, "created")
	}

	return c.Status(http.StatusCreated).JSON(user)
}

// GetUserHandler returns a single user.
// @Summary Get user
// @Tags Digest Users
// @Security OperatorAuth
// @Produce json
// @Param userId path string true "User identifier"
// @Success 200 {object} models.UserConfig
// @Failure 404 {object} errmsg._UserNotFound
// @Router /digest/users/{userId} [get]
func (h *Handler) GetUserHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(user)
}

// UpdateUserHandler replaces a user's report configuration.
// @Summary Update user
// @Tags Digest Users
// @Security OperatorAuth
// @Accept json
// @Produce json
// @Param userId path string true "User identifier"
// @Param payload body userRequest true "User configuration"
// @Success 200 {object} models.UserConfig
// @Failure 400 {object} errmsg._UserInvalidRequest
// @Failure 404 {object} errmsg._UserNotFound
// @Router /digest/users/{userId} [put]
func (h *Handler) UpdateUserHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var req userRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return utils.StatusError(c, errmsg.UserInvalidRequest)
	}
	if err := req.apply(&user); err != nil {
		return utils.ErrorFrom(c, err)
	}

	err = h.store.UpdateUser(c, user)
	if errors.Is(err, store.ErrNotFound) {
		return utils.StatusError(c, errmsg.UserNotFound)
	}
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	if events.Em != nil {
		events.Em.UserChanged(operators.Current(c), user.ID, "updated")
	}

	return c.JSON(user)
}

// DeleteUserHandler removes a user. Stored reports are kept.
// @Summary Delete user
// @Tags Digest Users
// @Security OperatorAuth
// @Param userId path string true "User identifier"
// @Success 204
// @Failure 404 {object} errmsg._UserNotFound
// @Router /digest/users/{userId} [delete]
func (h *Handler) DeleteUserHandler(c fiber.Ctx) error {
	userID := strings.TrimSpace(c.Params("userId"))

	err := h.store.DeleteUser(c, userID)
	if errors.Is(err, store.ErrNotFound) {
		return utils.StatusError(c, errmsg.UserNotFound)
	}
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	if events.Em != nil {
		events.Em.UserChanged(operators.Current(c), userID, "deleted")
	}

	return c.SendStatus(http.StatusNoContent)
}
