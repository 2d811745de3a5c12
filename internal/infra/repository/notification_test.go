//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationWriteQueries struct {
	mock.Mock
}

func (m *MockNotificationWriteQueries) CreateNotificationJob(ctx context.Context, db query.DBTX, arg query.CreateNotificationJobParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func (m *MockNotificationWriteQueries) FinishNotificationJob(ctx context.Context, db query.DBTX, arg query.FinishNotificationJobParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func TestNotificationRepository_CreateJob(t *testing.T) {
	now := time.Date(2025, time.October, 1, 8, 0, 0, 0, time.UTC)
	mockQueries := new(MockNotificationWriteQueries)
	mockQueries.On("CreateNotificationJob", mock.Anything, mock.Anything, query.CreateNotificationJobParams{
		Kind:    "email",
		Topic:   "booking_created",
		Payload: []byte(`{}`),
		RunAt:   pgtype.Timestamptz{Time: now, Valid: true},
		Status:  shared.NotificationStatusQueued,
	}).Return(nil)

	err := NewNotificationRepository(mockQueries).CreateJob(context.Background(), new(mockDBTX), "email", "booking_created", []byte(`{}`), now)

	require.NoError(t, err)
	mockQueries.AssertExpectations(t)
}

func TestNotificationRepository_MarkFailed(t *testing.T) {
	id := uuid.New()
	now := time.Date(2025, time.October, 1, 8, 0, 0, 0, time.UTC)
	retryAt := now.Add(2 * time.Minute)

	tests := []struct {
		name       string
		retryAt    *time.Time
		wantStatus string
		wantRunAt  time.Time
	}{
		{name: "requeued with backoff", retryAt: &retryAt, wantStatus: shared.NotificationStatusQueued, wantRunAt: retryAt},
		{name: "given up", retryAt: nil, wantStatus: shared.NotificationStatusFailed, wantRunAt: now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockNotificationWriteQueries)
			mockQueries.On("FinishNotificationJob", mock.Anything, mock.Anything, query.FinishNotificationJobParams{
				ID:        id,
				Status:    tt.wantStatus,
				LastError: pgtype.Text{String: "smtp timeout", Valid: true},
				RunAt:     pgtype.Timestamptz{Time: tt.wantRunAt, Valid: true},
				UpdatedAt: pgtype.Timestamptz{Time: now, Valid: true},
			}).Return(int64(1), nil)

			err := NewNotificationRepository(mockQueries).MarkFailed(context.Background(), new(mockDBTX), id, "smtp timeout", tt.retryAt, now)

			require.NoError(t, err)
			mockQueries.AssertExpectations(t)
		})
	}
}

func TestNotificationRepository_MarkSent_NotFound(t *testing.T) {
	mockQueries := new(MockNotificationWriteQueries)
	mockQueries.On("FinishNotificationJob", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

	err := NewNotificationRepository(mockQueries).MarkSent(context.Background(), new(mockDBTX), uuid.New(), time.Now())

	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}
