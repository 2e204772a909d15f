package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-manager/internal/config"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateNotification(ctx context.Context, n models.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *RepoMock) ReminderExists(ctx context.Context, gymID, memberID, period string) (bool, error) {
	args := m.Called(ctx, gymID, memberID, period)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) CountSentSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListPendingNotifications(ctx context.Context, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}
func (m *RepoMock) MarkNotificationSent(ctx context.Context, id string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) MarkNotificationFailed(ctx context.Context, id, reason string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, reason, now)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) DeleteTerminalNotificationsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type GymRepoMock struct{ mock.Mock }

func (m *GymRepoMock) ReadGym(ctx context.Context, gymID string) (*models.Gym, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gym), args.Error(1)
}
func (m *GymRepoMock) ListGyms(ctx context.Context) ([]*models.Gym, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Gym), args.Error(1)
}

type StoreMock struct{ mock.Mock }

func (m *StoreMock) Read(ctx context.Context, memberID string) (*models.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}
func (m *StoreMock) ListUnpaidActive(ctx context.Context) ([]*models.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func testBilling() config.Billing {
	return config.Billing{
		ReminderWindowFrom: 1,
		ReminderWindowTo:   7,
		HourlyCapMin:       40,
		HourlyCapMax:       50,
		DailyCap:           250,
		NotificationTTL:    168 * time.Hour,
		SessionTTL:         30 * time.Minute,
	}
}

func newService(repo *RepoMock, gyms *GymRepoMock, store *StoreMock) *Service {
	return New(repo, gyms, func(string) Store { return store }, newNoopLogger(), testBilling())
}

func TestNotificationService_GenerateMonthlyReminders(t *testing.T) {
	now := time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC)
	gym := &models.Gym{ID: "gym-1", GymName: "Iron Temple", Phone: "9876543210"}
	memberA := &models.Member{ID: "member-a", GymID: "gym-1", Name: "Anil", Phone: "9000000001"}
	memberB := &models.Member{ID: "member-b", GymID: "gym-1", Name: "Priya", Phone: "9000000002"}

	tests := []struct {
		name         string
		setupMocks   func(r *RepoMock, g *GymRepoMock, s *StoreMock)
		wantEnqueued int
		wantSkipped  int
		wantFailures int
	}{
		{
			name: "enqueues reminder per unpaid member",
			setupMocks: func(r *RepoMock, g *GymRepoMock, s *StoreMock) {
				g.On("ListGyms", mock.Anything).Return([]*models.Gym{gym}, nil).Once()
				s.On("ListUnpaidActive", mock.Anything).
					Return([]*models.Member{memberA, memberB}, nil).Once()
				r.On("ReminderExists", mock.Anything, "gym-1", "member-a", "2025-06").
					Return(false, nil).Once()
				r.On("ReminderExists", mock.Anything, "gym-1", "member-b", "2025-06").
					Return(false, nil).Once()
				r.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
					return n.Category == models.NotificationCategoryReminder &&
						n.Priority == models.PriorityReminder &&
						n.Period != nil && *n.Period == "2025-06" &&
						strings.Contains(n.Message, gym.GymName)
				})).Return(nil).Twice()
			},
			wantEnqueued: 2,
		},
		{
			name: "second run skips existing reminders",
			setupMocks: func(r *RepoMock, g *GymRepoMock, s *StoreMock) {
				g.On("ListGyms", mock.Anything).Return([]*models.Gym{gym}, nil).Once()
				s.On("ListUnpaidActive", mock.Anything).
					Return([]*models.Member{memberA, memberB}, nil).Once()
				r.On("ReminderExists", mock.Anything, "gym-1", "member-a", "2025-06").
					Return(true, nil).Once()
				r.On("ReminderExists", mock.Anything, "gym-1", "member-b", "2025-06").
					Return(true, nil).Once()
			},
			wantSkipped: 2,
		},
		{
			name: "concurrent insert counts as skipped",
			setupMocks: func(r *RepoMock, g *GymRepoMock, s *StoreMock) {
				g.On("ListGyms", mock.Anything).Return([]*models.Gym{gym}, nil).Once()
				s.On("ListUnpaidActive", mock.Anything).
					Return([]*models.Member{memberA}, nil).Once()
				r.On("ReminderExists", mock.Anything, "gym-1", "member-a", "2025-06").
					Return(false, nil).Once()
				r.On("CreateNotification", mock.Anything, mock.Anything).
					Return(repository.ErrDuplicateReminder).Once()
			},
			wantSkipped: 1,
		},
		{
			name: "tenant failure is recorded",
			setupMocks: func(r *RepoMock, g *GymRepoMock, s *StoreMock) {
				g.On("ListGyms", mock.Anything).Return([]*models.Gym{gym}, nil).Once()
				s.On("ListUnpaidActive", mock.Anything).
					Return(nil, errors.New("db down")).Once()
			},
			wantFailures: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			gyms := new(GymRepoMock)
			store := new(StoreMock)
			svc := newService(repo, gyms, store)
			svc.now = func() time.Time { return now }

			tt.setupMocks(repo, gyms, store)

			got, err := svc.GenerateMonthlyReminders(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, tt.wantEnqueued, got.EnqueuedCount)
			assert.Equal(t, tt.wantSkipped, got.SkippedCount)
			assert.Len(t, got.Failures, tt.wantFailures)

			repo.AssertExpectations(t)
			gyms.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestNotificationService_EnqueueManual(t *testing.T) {
	gym := &models.Gym{ID: "gym-1", GymName: "Iron Temple", Phone: "9876543210"}
	member := &models.Member{ID: "member-a", GymID: "gym-1", Name: "Anil", Phone: "9000000001"}

	tests := []struct {
		name       string
		req        models.DummyManualNotification
		checkText  func(t *testing.T, msg string)
		setupMocks func(r *RepoMock)
	}{
		{
			name: "custom message",
			req:  models.DummyManualNotification{MemberID: "member-a", Message: "Gym closed tomorrow"},
			checkText: func(t *testing.T, msg string) {
				assert.Equal(t, "Gym closed tomorrow", msg)
			},
		},
		{
			name: "empty message falls back to reminder text",
			req:  models.DummyManualNotification{MemberID: "member-a"},
			checkText: func(t *testing.T, msg string) {
				assert.Contains(t, msg, gym.GymName)
				assert.Contains(t, msg, member.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			gyms := new(GymRepoMock)
			store := new(StoreMock)
			svc := newService(repo, gyms, store)

			gyms.On("ReadGym", mock.Anything, "gym-1").Return(gym, nil).Once()
			store.On("Read", mock.Anything, "member-a").Return(member, nil).Once()
			repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
				return n.Category == models.NotificationCategoryManual &&
					n.Priority == models.PriorityManual && n.Period == nil
			})).Return(nil).Once()

			got, err := svc.EnqueueManual(context.Background(), "gym-1", tt.req)
			assert.NoError(t, err)
			tt.checkText(t, got.Message)

			repo.AssertExpectations(t)
		})
	}
}

func TestNotificationService_NextBatch(t *testing.T) {
	now := time.Date(2025, time.June, 3, 14, 30, 0, 0, time.UTC)
	hourStart := time.Date(2025, time.June, 3, 14, 0, 0, 0, time.UTC)
	dayStart := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
	pending := []*models.Notification{{ID: "n-1"}, {ID: "n-2"}}

	tests := []struct {
		name            string
		hourlyCap       int
		setupMocks      func(r *RepoMock)
		wantRateLimited bool
		wantCount       int
	}{
		{
			name:      "returns pending batch under caps",
			hourlyCap: 45,
			setupMocks: func(r *RepoMock) {
				r.On("CountSentSince", mock.Anything, hourStart).Return(10, nil).Once()
				r.On("CountSentSince", mock.Anything, dayStart).Return(100, nil).Once()
				r.On("ListPendingNotifications", mock.Anything, 20).Return(pending, nil).Once()
			},
			wantCount: 2,
		},
		{
			name:      "hourly cap reached",
			hourlyCap: 45,
			setupMocks: func(r *RepoMock) {
				r.On("CountSentSince", mock.Anything, hourStart).Return(45, nil).Once()
				r.On("CountSentSince", mock.Anything, dayStart).Return(100, nil).Once()
			},
			wantRateLimited: true,
		},
		{
			name:      "daily cap reached",
			hourlyCap: 45,
			setupMocks: func(r *RepoMock) {
				r.On("CountSentSince", mock.Anything, hourStart).Return(0, nil).Once()
				r.On("CountSentSince", mock.Anything, dayStart).Return(250, nil).Once()
			},
			wantRateLimited: true,
		},
		{
			// Остаток часового лимита меньше запрошенного размера партии.
			name:      "batch size clamped to remaining slots",
			hourlyCap: 45,
			setupMocks: func(r *RepoMock) {
				r.On("CountSentSince", mock.Anything, hourStart).Return(43, nil).Once()
				r.On("CountSentSince", mock.Anything, dayStart).Return(100, nil).Once()
				r.On("ListPendingNotifications", mock.Anything, 2).Return(pending, nil).Once()
			},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newService(repo, new(GymRepoMock), new(StoreMock))
			svc.now = func() time.Time { return now }
			svc.hourlyCap = func() int { return tt.hourlyCap }

			tt.setupMocks(repo)

			got, err := svc.NextBatch(context.Background(), 20)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantRateLimited, got.RateLimited)
			if tt.wantRateLimited {
				assert.NotEmpty(t, got.Message)
				assert.Empty(t, got.Notifications)
			} else {
				assert.Len(t, got.Notifications, tt.wantCount)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestNotificationService_Cleanup(t *testing.T) {
	now := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	cutoff := now.Add(-168 * time.Hour)

	repo := new(RepoMock)
	svc := newService(repo, new(GymRepoMock), new(StoreMock))
	svc.now = func() time.Time { return now }

	repo.On("DeleteTerminalNotificationsBefore", mock.Anything, cutoff).Return(3, nil).Once()
	repo.On("DeleteExpiredSessions", mock.Anything, now).Return(2, nil).Once()

	removedNotifications, removedSessions, err := svc.Cleanup(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, removedNotifications)
	assert.Equal(t, 2, removedSessions)
	repo.AssertExpectations(t)
}
