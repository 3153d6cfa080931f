package api

import (
	"context"
	"sync"
	"time"

	"dailydigest/internal/core"
	"dailydigest/internal/lifecycle"
	"dailydigest/internal/mailer"
	"dailydigest/internal/models"
	"dailydigest/internal/scheduler"
	"dailydigest/internal/store"

	"github.com/stretchr/testify/mock"
)

type fakeStore struct {
	mu          sync.Mutex
	users       map[string]models.UserConfig
	repos       []models.Repository
	reports     []models.Report
	deliveries  []models.DeliveryAttempt
	commits     []models.NormalizedCommit
	credentials map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       map[string]models.UserConfig{},
		credentials: map[string]string{},
	}
}

func (s *fakeStore) ListUsers(context.Context) ([]models.UserConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.UserConfig{}
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeStore) GetUser(_ context.Context, id string) (models.UserConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return u, store.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) CreateUser(_ context.Context, user models.UserConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.GitHubUsername == user.GitHubUsername {
			return store.ErrDuplicate
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeStore) UpdateUser(_ context.Context, user models.UserConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeStore) UpsertCredential(_ context.Context, cred models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[cred.UserID] = cred.AccessToken
	return nil
}

func (s *fakeStore) ListRepositories(_ context.Context, userID string) ([]models.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Repository{}
	for _, r := range s.repos {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) ToggleRepository(_ context.Context, userID, repoID string) (models.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.repos {
		if r.UserID == userID && r.ID == repoID {
			s.repos[i].Monitored = !r.Monitored
			return s.repos[i], nil
		}
	}
	return models.Repository{}, store.ErrNotFound
}

func (s *fakeStore) ListReports(_ context.Context, userID string, limit int64) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Report{}
	for _, r := range s.reports {
		if r.UserID == userID && int64(len(out)) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) FindReport(_ context.Context, userID, date string) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.UserID == userID && r.Date == date {
			return r, nil
		}
	}
	return models.Report{}, store.ErrNotFound
}

func (s *fakeStore) GetReport(_ context.Context, id string) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Report{}, store.ErrNotFound
}

func (s *fakeStore) ListDeliveries(_ context.Context, reportID string) ([]models.DeliveryAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.DeliveryAttempt{}
	for _, d := range s.deliveries {
		if d.ReportID == reportID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *fakeStore) ListCommitsBetween(_ context.Context, userID string, since, until time.Time) ([]models.NormalizedCommit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.NormalizedCommit{}
	for _, c := range s.commits {
		if c.UserID == userID && !c.CommittedAt.Before(since) && c.CommittedAt.Before(until) {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockDigest struct {
	mock.Mock
}

func (m *mockDigest) VerifyToken(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockDigest) SyncUserRepositories(ctx context.Context, user models.UserConfig) (int, int, error) {
	args := m.Called(ctx, user)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *mockDigest) AggregateDailyCommits(ctx context.Context, user models.UserConfig, date string) (core.IngestResult, error) {
	args := m.Called(ctx, user, date)
	return args.Get(0).(core.IngestResult), args.Error(1)
}

type mockResender struct {
	mock.Mock
}

func (m *mockResender) Resend(ctx context.Context, user models.UserConfig, reportID string) (lifecycle.SendOutcome, error) {
	args := m.Called(ctx, user, reportID)
	return args.Get(0).(lifecycle.SendOutcome), args.Error(1)
}

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Send(ctx context.Context, msg mailer.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type fakeJobs struct {
	mu   sync.Mutex
	ran  []string
	busy string
}

func (f *fakeJobs) Jobs() []string {
	return []string{"cleanup", "generate", "send"}
}

func (f *fakeJobs) RunNow(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case name == f.busy:
		return scheduler.ErrJobRunning
	case name != "cleanup" && name != "generate" && name != "send":
		return scheduler.ErrUnknownJob
	}
	f.ran = append(f.ran, name)
	return nil
}
