//go:build unit

package queries_test

import (
	"context"
	"time"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var october1 = time.Date(2025, time.October, 1, 2, 0, 0, 0, time.UTC)

type MockMountainReadStore struct {
	mock.Mock
}

func (m *MockMountainReadStore) FindByID(ctx context.Context, db query.DBTX, id uuid.UUID) (*queries.MountainView, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.MountainView), args.Error(1)
}

func (m *MockMountainReadStore) List(ctx context.Context, db query.DBTX, difficulty *string) ([]*queries.MountainView, error) {
	args := m.Called(ctx, db, difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queries.MountainView), args.Error(1)
}

type MockAvailabilityReadStore struct {
	mock.Mock
}

func (m *MockAvailabilityReadStore) MountainCapacity(ctx context.Context, db query.DBTX, mountainID uuid.UUID) (int, error) {
	args := m.Called(ctx, db, mountainID)
	return args.Int(0), args.Error(1)
}

func (m *MockAvailabilityReadStore) ActiveOccupancies(ctx context.Context, db query.DBTX, mountainID uuid.UUID, window calendar.Range) ([]booking.Occupancy, error) {
	args := m.Called(ctx, db, mountainID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.Occupancy), args.Error(1)
}

type MockBookingReadStore struct {
	mock.Mock
}

func (m *MockBookingReadStore) FindByID(ctx context.Context, db query.DBTX, id uuid.UUID) (*queries.BookingView, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.BookingView), args.Error(1)
}

func (m *MockBookingReadStore) FindByUserFirstPage(ctx context.Context, db query.DBTX, userID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	args := m.Called(ctx, db, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queries.BookingListItem), args.Error(1)
}

func (m *MockBookingReadStore) FindByUserKeyset(ctx context.Context, db query.DBTX, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	args := m.Called(ctx, db, userID, lastCreatedAt, lastID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queries.BookingListItem), args.Error(1)
}

type MockReceiptRenderer struct {
	mock.Mock
}

func (m *MockReceiptRenderer) Render(r *queries.ReceiptView) ([]byte, error) {
	args := m.Called(r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockUserReadStore struct {
	mock.Mock
}

func (m *MockUserReadStore) FindByID(ctx context.Context, db query.DBTX, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.AuthorizedUserView), args.Error(1)
}

func (m *MockUserReadStore) FindByEmail(ctx context.Context, db query.DBTX, email string) (*queries.AuthorizedUserView, string, error) {
	args := m.Called(ctx, db, email)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*queries.AuthorizedUserView), args.String(1), args.Error(2)
}
