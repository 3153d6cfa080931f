package lifecycle

import (
	"context"
	"slices"
	"sync"
	"time"

	"dailydigest/internal/mailer"
	"dailydigest/internal/models"
	"dailydigest/internal/store"

	"github.com/stretchr/testify/mock"
)

type memoryStore struct {
	mu         sync.Mutex
	reports    map[string]models.Report
	deliveries []models.DeliveryAttempt
	fetchedAt  map[string]time.Time
	findErr    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		reports:   map[string]models.Report{},
		fetchedAt: map[string]time.Time{},
	}
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
	if s.findErr != nil {
		return models.Report{}, s.findErr
	}
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
	r, ok := s.reports[id]
	if !ok {
		return models.Report{}, store.ErrNotFound
	}
	return r, nil
}

func (s *memoryStore) TransitionReport(_ context.Context, id string, from []models.ReportStatus, to models.ReportStatus, sentAt *time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok || !slices.Contains(from, r.Status) {
		return false, nil
	}
	r.Status = to
	if sentAt != nil {
		r.SentAt = sentAt
	}
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
	for sha, at := range s.fetchedAt {
		if at.Before(cutoff) {
			delete(s.fetchedAt, sha)
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) report(id string) models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports[id]
}

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Send(ctx context.Context, msg mailer.Message) error {
	return m.Called(ctx, msg).Error(0)
}
