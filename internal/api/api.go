// Package api exposes the operator-facing digest endpoints.
package api

import (
	"context"
	"time"

	"dailydigest/internal/core"
	"dailydigest/internal/lifecycle"
	"dailydigest/internal/mailer"
	"dailydigest/internal/models"
	"dailydigest/internal/operators"

	"github.com/gofiber/fiber/v3"
)

type Store interface {
	ListUsers(ctx context.Context) ([]models.UserConfig, error)
	GetUser(ctx context.Context, id string) (models.UserConfig, error)
	CreateUser(ctx context.Context, user models.UserConfig) error
	UpdateUser(ctx context.Context, user models.UserConfig) error
	DeleteUser(ctx context.Context, id string) error
	UpsertCredential(ctx context.Context, cred models.Credential) error
	ListRepositories(ctx context.Context, userID string) ([]models.Repository, error)
	ToggleRepository(ctx context.Context, userID, repoID string) (models.Repository, error)
	ListReports(ctx context.Context, userID string, limit int64) ([]models.Report, error)
	FindReport(ctx context.Context, userID, date string) (models.Report, error)
	GetReport(ctx context.Context, id string) (models.Report, error)
	ListDeliveries(ctx context.Context, reportID string) ([]models.DeliveryAttempt, error)
	ListCommitsBetween(ctx context.Context, userID string, since, until time.Time) ([]models.NormalizedCommit, error)
}

// Digest is the part of core.Service the handlers drive.
type Digest interface {
	VerifyToken(ctx context.Context, userID string) (bool, error)
	SyncUserRepositories(ctx context.Context, user models.UserConfig) (int, int, error)
	AggregateDailyCommits(ctx context.Context, user models.UserConfig, date string) (core.IngestResult, error)
}

type Resender interface {
	Resend(ctx context.Context, user models.UserConfig, reportID string) (lifecycle.SendOutcome, error)
}

type Transport interface {
	Send(ctx context.Context, msg mailer.Message) error
}

type JobRunner interface {
	Jobs() []string
	RunNow(ctx context.Context, name string) error
}

type Handler struct {
	store     Store
	digest    Digest
	resender  Resender
	transport Transport
	jobs      JobRunner
	now       func() time.Time
}

func NewHandler(store Store, digest Digest, resender Resender, transport Transport, jobs JobRunner) *Handler {
	return &Handler{
		store:     store,
		digest:    digest,
		resender:  resender,
		transport: transport,
		jobs:      jobs,
		now:       time.Now,
	}
}

// Routes mounts the operator-only endpoints. The caller owns the public ones.
func Routes(app fiber.Router, h *Handler) {
	users := app.Group("/users", operators.Middleware)
	users.Get("/", h.ListUsersHandler)
	users.Post("/", h.CreateUserHandler)
	users.Get("/:userId", h.GetUserHandler)
	users.Put("/:userId", h.UpdateUserHandler)
	users.Delete("/:userId", h.DeleteUserHandler)

	users.Put("/:userId/credential", h.PutCredentialHandler)
	users.Post("/:userId/verify-token", h.VerifyTokenHandler)
	users.Post("/:userId/sync-repositories", h.SyncRepositoriesHandler)
	users.Post("/:userId/fetch-commits", h.FetchCommitsHandler)
	users.Post("/:userId/test-email", h.TestEmailHandler)

	users.Get("/:userId/repositories", h.ListRepositoriesHandler)
	users.Post("/:userId/repositories/:repoId/toggle", h.ToggleRepositoryHandler)

	users.Get("/:userId/reports", h.ListReportsHandler)
	users.Get("/:userId/reports/today", h.TodayReportHandler)
	users.Get("/:userId/reports/recent", h.RecentReportsHandler)
	users.Get("/:userId/commits/today", h.TodayCommitsHandler)

	reports := app.Group("/reports", operators.Middleware)
	reports.Get("/:reportId", h.GetReportHandler)
	reports.Post("/:reportId/resend", h.ResendReportHandler)

	jobs := app.Group("/jobs", operators.Middleware)
	jobs.Get("/", h.ListJobsHandler)
	jobs.Post("/:name/run", h.RunJobHandler)

	sockets := app.Group("/ws", operators.WebSocketMiddleware)
	sockets.Get("/jobs/:name", h.StreamJobHandler)
}

// StatusResponse represents a generic success payload.
type StatusResponse struct {
	Status string `json:"status"`
}
