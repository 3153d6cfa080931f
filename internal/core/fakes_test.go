package core

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"dailydigest/internal/mailer"
	"dailydigest/internal/models"
	"dailydigest/internal/store"

	"github.com/stretchr/testify/mock"
)

// memoryStore backs both the service and the lifecycle manager in tests.
type memoryStore struct {
	mu         sync.Mutex
	users      []models.UserConfig
	repos      []models.Repository
	commits    map[string]models.NormalizedCommit
	reports    map[string]models.Report
	deliveries []models.DeliveryAttempt
	tokens     map[string]string
	usersErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		commits: map[string]models.NormalizedCommit{},
		reports: map[string]models.Report{},
		tokens:  map[string]string{},
	}
}

func (s *memoryStore) ListActiveUsers(context.Context) ([]models.UserConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usersErr != nil {
		return nil, s.usersErr
	}
	var out []models.UserConfig
	for _, u := range s.users {
		if u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *memoryStore) GetUser(_ context.Context, id string) (models.UserConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.UserConfig{}, store.ErrNotFound
}

func (s *memoryStore) ListMonitoredRepositories(_ context.Context, userID string) ([]models.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Repository
	for _, r := range s.repos {
		if r.UserID == userID && r.Monitored {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memoryStore) EnsureRepository(_ context.Context, repo models.Repository) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.repos {
		if r.UserID == repo.UserID && r.FullName == repo.FullName {
			return false, nil
		}
	}
	s.repos = append(s.repos, repo)
	return true, nil
}

func (s *memoryStore) CommitExists(_ context.Context, sha string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.commits[sha]
	return ok, nil
}

func (s *memoryStore) InsertCommit(_ context.Context, c models.NormalizedCommit) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.commits[c.SHA]; ok {
		return false, nil
	}
	s.commits[c.SHA] = c
	return true, nil
}

func (s *memoryStore) ListUnprocessedCommits(_ context.Context, userID string, since, until time.Time) ([]models.NormalizedCommit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.NormalizedCommit
	for _, c := range s.commits {
		if c.UserID == userID && !c.Processed && !c.CommittedAt.Before(since) && c.CommittedAt.Before(until) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.NormalizedCommit) int {
		return a.CommittedAt.Compare(b.CommittedAt)
	})
	return out, nil
}

func (s *memoryStore) MarkCommitsProcessed(_ context.Context, shas []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sha := range shas {
		c := s.commits[sha]
		c.Processed = true
		s.commits[sha] = c
	}
	return nil
}

func (s *memoryStore) Token(_ context.Context, userID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[userID]
	return t, ok, nil
}

func (s *memoryStore) CreateReportIfAbsent(_ context.Context, r models.Report) (models.Report, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reports {
		if existing.UserID == r.UserID && existing.Date == r.Date {
			return existing, false, nil
		}
	}
	s.reports[r.ID] = r
	return r, true, nil
}

func (s *memoryStore) FindReport(_ context.Context, userID, date string) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.UserID == userID && r.Date == date {
			return r, nil
		}
	}
	return models.Report{}, store.ErrNotFound
}

func (s *memoryStore) GetReport(_ context.Context, id string) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reports[id]; ok {
		return r, nil
	}
	return models.Report{}, store.ErrNotFound
}

func (s *memoryStore) TransitionReport(_ context.Context, id string, from []models.ReportStatus, to models.ReportStatus, sentAt *time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok || !slices.Contains(from, r.Status) {
		return false, nil
	}
	r.Status = to
	r.SentAt = sentAt
	s.reports[id] = r
	return true, nil
}

func (s *memoryStore) AppendDelivery(_ context.Context, a models.DeliveryAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, a)
	return nil
}

func (s *memoryStore) PurgeCommitsOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for sha, c := range s.commits {
		if c.FetchedAt.Before(cutoff) {
			delete(s.commits, sha)
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) reportFor(userID string) (models.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.UserID == userID {
			return r, true
		}
	}
	return models.Report{}, false
}

// fakeSource serves canned commits per repository.
type fakeSource struct {
	valid     bool
	commits   map[string][]models.RawCommit
	failRepo  string
	repos     []models.Repository
	verifies  int
	verifyErr error
}

func (f *fakeSource) DailyCommits(_ context.Context, fullName string, _, _ time.Time) ([]models.RawCommit, error) {
	if fullName == f.failRepo {
		return nil, errors.New("502 bad gateway")
	}
	return f.commits[fullName], nil
}

func (f *fakeSource) VerifyToken(context.Context) (bool, error) {
	f.verifies++
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	return f.valid, nil
}

func (f *fakeSource) UserRepositories(context.Context, string) ([]models.Repository, error) {
	return f.repos, nil
}

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Send(ctx context.Context, msg mailer.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type mapCache map[string]bool

func (c mapCache) Lookup(_ context.Context, token string) (bool, bool) {
	v, ok := c[token]
	return v, ok
}

func (c mapCache) Remember(_ context.Context, token string, valid bool) {
	c[token] = valid
}
