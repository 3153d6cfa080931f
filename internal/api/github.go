package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dailydigest/internal/core"
	"dailydigest/internal/errmsg"
	"dailydigest/internal/events"
	"dailydigest/internal/lifecycle"
	"dailydigest/internal/models"
	"dailydigest/internal/operators"
	"dailydigest/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type credentialRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	Valid bool `json:"valid"`
}

type syncRepositoriesResponse struct {
	Total   int `json:"total"`
	Created int `json:"created"`
}

type fetchCommitsResponse struct {
	Date string `json:"date"`
	core.IngestResult
}

func githubError(err error) error {
	switch {
	case errors.Is(err, core.ErrNoCredential):
		return errmsg.CredentialMissing
	case errors.Is(err, core.ErrInvalidToken):
		return errmsg.CredentialInvalid
	default:
		return errmsg.InternalServerError(err)
	}
}

// PutCredentialHandler stores the user's GitHub access token.
// @Summary Store GitHub token
// @Tags Digest GitHub
// @Security OperatorAuth
// @Accept json
// @Param userId path string true "User identifier"
// @Param payload body credentialRequest true "Access token"
// @Success 204
// @Failure 400 {object} errmsg._InvalidRequest
// @Failure 404 {object} errmsg._UserNotFound
// @Router /digest/users/{userId}/credential [put]
func (h *Handler) PutCredentialHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var req credentialRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || strings.TrimSpace(req.Token) == "" {
		return utils.StatusError(c, errmsg.InvalidRequest)
	}

	if err := h.store.UpsertCredential(c, models.Credential{
		UserID:      user.ID,
		Provider:    models.ProviderGitHub,
		AccessToken: strings.TrimSpace(req.Token),
	}); err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	if events.Em != nil {
		events.Em.UserChanged(operators.Current(c), user.ID, "credential")
	}

	return c.SendStatus(http.StatusNoContent)
}

// VerifyTokenHandler checks the stored token against GitHub.
// @Summary Verify GitHub token
// @Tags Digest GitHub
// @Security OperatorAuth
// @Produce json
// @Param userId path string true "User identifier"
// @Success 200 {object} verifyTokenResponse
// @Failure 404 {object} errmsg._UserNotFound
// @Failure 409 {object} errmsg._CredentialMissing
// @Router /digest/users/{userId}/verify-token [post]
func (h *Handler) VerifyTokenHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	valid, err := h.digest.VerifyToken(c, user.ID)
	if err != nil {
		return utils.ErrorFrom(c, githubError(err))
	}

	return c.JSON(verifyTokenResponse{Valid: valid})
}

// SyncRepositoriesHandler imports the user's GitHub repositories.
// @Summary Sync repositories
// @Tags Digest GitHub
// @Security OperatorAuth
// @Produce json
// @Param userId path string true "User identifier"
// @Success 200 {object} syncRepositoriesResponse
// @Failure 404 {object} errmsg._UserNotFound
// @Failure 409 {object} errmsg._CredentialMissing
// @Failure 422 {object} errmsg._CredentialInvalid
// @Router /digest/users/{userId}/sync-repositories [post]
func (h *Handler) SyncRepositoriesHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	total, created, err := h.digest.SyncUserRepositories(c, user)
	if err != nil {
		return utils.ErrorFrom(c, githubError(err))
	}

	return c.JSON(syncRepositoriesResponse{Total: total, Created: created})
}

// FetchCommitsHandler aggregates the user's commits for one local date.
// @Summary Fetch commits
// @Tags Digest GitHub
// @Security OperatorAuth
// @Produce json
// @Param userId path string true "User identifier"
// @Param date query string false "Local date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} fetchCommitsResponse
// @Failure 400 {object} errmsg._InvalidRequest
// @Failure 404 {object} errmsg._UserNotFound
// @Router /digest/users/{userId}/fetch-commits [post]
func (h *Handler) FetchCommitsHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	date, err := h.dateParam(c, user)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	res, err := h.digest.AggregateDailyCommits(c, user, date)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(fetchCommitsResponse{Date: date, IngestResult: res})
}

// ListRepositoriesHandler returns the user's tracked repositories.
// @Summary List repositories
// @Tags Digest GitHub
// @Security OperatorAuth
// @Produce json
// @Param userId path string true "User identifier"
// @Success 200 {array} models.Repository
// @Failure 404 {object} errmsg._UserNotFound
// @Router /digest/users/{userId}/repositories [get]
func (h *Handler) ListRepositoriesHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	repos, err := h.store.ListRepositories(c, user.ID)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(repos)
}

// ToggleRepositoryHandler flips whether a repository is monitored.
// @Summary Toggle repository monitoring
// @Tags Digest GitHub
// @Security OperatorAuth
// @Produce json
// @Param userId path string true "User identifier"
// @Param repoId path string true "Repository identifier"
// @Success 200 {object} models.Repository
// @Failure 404 {object} errmsg._RepositoryNotFound
// @Router /digest/users/{userId}/repositories/{repoId}/toggle [post]
func (h *Handler) ToggleRepositoryHandler(c fiber.Ctx) error {
	userID := strings.TrimSpace(c.Params("userId"))
	repoID := strings.TrimSpace(c.Params("repoId"))

	repo, err := h.store.ToggleRepository(c, userID, repoID)
	if err != nil {
		return utils.ErrorFrom(c, notFoundAs(err, errmsg.RepositoryNotFound))
	}

	return c.JSON(repo)
}

// dateParam reads ?date=, defaulting to the user's local today.
func (h *Handler) dateParam(c fiber.Ctx, user models.UserConfig) (string, error) {
	if date := strings.TrimSpace(c.Query("date")); date != "" {
		if _, err := time.Parse(models.ReportDateLayout, date); err != nil {
			return "", errmsg.InvalidRequest
		}
		return date, nil
	}
	return h.today(user)
}

func (h *Handler) today(user models.UserConfig) (string, error) {
	loc, err := lifecycle.Location(user.Timezone)
	if err != nil {
		return "", errmsg.NewStatusError(http.StatusUnprocessableEntity, err.Error())
	}
	return lifecycle.LocalDate(h.now(), loc), nil
}
