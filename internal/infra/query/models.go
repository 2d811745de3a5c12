package query

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Users struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	DisplayName  string
	IsActive     bool
	LastLogin    pgtype.Timestamptz
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type Mountains struct {
	ID                    uuid.UUID
	Name                  string
	Location              string
	Elevation             int32
	Difficulty            string
	TripDuration          int32
	BasePricePerHeadCents int64
	JoinerCapacity        int32
	ExclusivePriceCents   pgtype.Int8
	IsJoinerAvailable     bool
	IsExclusiveAvailable  bool
	CreatedAt             pgtype.Timestamptz
	UpdatedAt             pgtype.Timestamptz
}

type Bookings struct {
	ID                   uuid.UUID
	MountainID           uuid.UUID
	UserID               uuid.UUID
	StartDate            pgtype.Date
	EndDate              pgtype.Date
	BookingType          string
	NumberOfParticipants int32
	Status               string
	PricePerHeadCents    int64
	TotalPriceCents      int64
	CreatedAt            pgtype.Timestamptz
	UpdatedAt            pgtype.Timestamptz
}

type IdempotencyKeys struct {
	Key              uuid.UUID
	UserID           uuid.UUID
	Endpoint         string
	RequestHash      string
	ResponseBodyHash pgtype.Text
	Status           string
	ResultBookingID  pgtype.UUID
	ExpiresAt        pgtype.Timestamptz
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

type NotificationJobs struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	RunAt     pgtype.Timestamptz
	Attempts  int32
	Status    string
	LastError pgtype.Text
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}
