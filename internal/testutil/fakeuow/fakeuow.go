//go:build unit || e2e

// Package fakeuow is an in-memory shared.UnitOfWork for use case tests.
// Transactions are serialised and roll back when the callback fails.
package fakeuow

import (
	"context"
	"sort"
	"sync"
	"time"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/domain/mountain"
	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type Notification struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	RunAt     time.Time
	Status    string
	Attempts  int
	LastError string
}

type idempotencyID struct {
	key    uuid.UUID
	userID uuid.UUID
}

type UoW struct {
	mu sync.Mutex

	mountains     map[uuid.UUID]*mountain.Mountain
	bookings      map[uuid.UUID]*booking.Booking
	idempotency   map[idempotencyID]shared.IdempotencyRecord
	notifications []Notification
	lastLogins    map[uuid.UUID]time.Time

	// CreateErr, when set, is returned by the next booking insert.
	CreateErr error
	// Commits counts successful Within calls.
	Commits int
}

func New() *UoW {
	return &UoW{
		mountains:   map[uuid.UUID]*mountain.Mountain{},
		bookings:    map[uuid.UUID]*booking.Booking{},
		idempotency: map[idempotencyID]shared.IdempotencyRecord{},
		lastLogins:  map[uuid.UUID]time.Time{},
	}
}

func (u *UoW) AddMountain(m *mountain.Mountain) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.mountains[m.ID()] = m
}

func (u *UoW) AddBooking(b *booking.Booking) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.bookings[b.ID()] = b
}

func (u *UoW) Booking(id uuid.UUID) (*booking.Booking, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	b, ok := u.bookings[id]
	return b, ok
}

func (u *UoW) BookingCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.bookings)
}

func (u *UoW) Notifications() []Notification {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Notification(nil), u.notifications...)
}

func (u *UoW) Idempotency(key, userID uuid.UUID) (shared.IdempotencyRecord, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	r, ok := u.idempotency[idempotencyID{key, userID}]
	return r, ok
}

func (u *UoW) LastLogin(userID uuid.UUID) (time.Time, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	t, ok := u.lastLogins[userID]
	return t, ok
}

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	snapshot := u.snapshot()
	if err := fn(ctx, &tx{u: u}); err != nil {
		u.restore(snapshot)
		return err
	}
	u.Commits++
	return nil
}

func (u *UoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db query.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *UoW) WithDB(ctx context.Context, fn func(ctx context.Context, db query.DBTX) error) error {
	return fn(ctx, nil)
}

// CommandReads outside a transaction takes the lock per call.
func (u *UoW) CommandReads() shared.CommandReads {
	return &reads{u: u, lock: true}
}

type state struct {
	bookings      map[uuid.UUID]*booking.Booking
	idempotency   map[idempotencyID]shared.IdempotencyRecord
	notifications []Notification
	lastLogins    map[uuid.UUID]time.Time
}

func (u *UoW) snapshot() state {
	s := state{
		bookings:      make(map[uuid.UUID]*booking.Booking, len(u.bookings)),
		idempotency:   make(map[idempotencyID]shared.IdempotencyRecord, len(u.idempotency)),
		notifications: append([]Notification(nil), u.notifications...),
		lastLogins:    make(map[uuid.UUID]time.Time, len(u.lastLogins)),
	}
	for k, v := range u.bookings {
		s.bookings[k] = v
	}
	for k, v := range u.idempotency {
		s.idempotency[k] = v
	}
	for k, v := range u.lastLogins {
		s.lastLogins[k] = v
	}
	return s
}

func (u *UoW) restore(s state) {
	u.bookings = s.bookings
	u.idempotency = s.idempotency
	u.notifications = s.notifications
	u.lastLogins = s.lastLogins
}

type tx struct {
	u *UoW
}

func (t *tx) Bookings() shared.BookingRepository           { return bookingRepo{t.u} }
func (t *tx) Idempotency() shared.IdempotencyRepository    { return idempotencyRepo{t.u} }
func (t *tx) Notifications() shared.NotificationRepository { return notificationRepo{t.u} }
func (t *tx) Users() shared.UserRepository                 { return userRepo{t.u} }
func (t *tx) Reads() shared.CommandReads                   { return &reads{u: t.u} }
func (t *tx) DB() query.DBTX                               { return nil }

type reads struct {
	u    *UoW
	lock bool
}

func (r *reads) guard() func() {
	if !r.lock {
		return func() {}
	}
	r.u.mu.Lock()
	return r.u.mu.Unlock
}

func (r *reads) MountainByID(ctx context.Context, id uuid.UUID) (*mountain.Mountain, error) {
	defer r.guard()()
	m, ok := r.u.mountains[id]
	if !ok {
		return nil, infra.WrapRepoErr("mountain not found", nil, infra.KindNotFound)
	}
	return m, nil
}

func (r *reads) MountainForUpdate(ctx context.Context, id uuid.UUID) (*mountain.Mountain, error) {
	return r.MountainByID(ctx, id)
}

func (r *reads) ActiveOccupancies(ctx context.Context, mountainID uuid.UUID, window calendar.Range) ([]booking.Occupancy, error) {
	defer r.guard()()
	var out []booking.Occupancy
	for _, b := range r.u.bookings {
		if b.MountainID() == mountainID && b.Status().IsActive() && b.Dates().Overlaps(window) {
			out = append(out, b.Occupancy())
		}
	}
	return out, nil
}

// BookingForUpdate hands out a copy so uncommitted transitions stay invisible.
func (r *reads) BookingForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	defer r.guard()()
	b, ok := r.u.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return cloneBooking(b)
}

func (r *reads) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	defer r.guard()()
	rec, ok := r.u.idempotency[idempotencyID{key, userID}]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}

func (r *reads) DueNotifications(ctx context.Context, now time.Time, limit int) ([]*shared.NotificationJob, error) {
	defer r.guard()()
	var due []Notification
	for _, n := range r.u.notifications {
		if n.Status == shared.NotificationStatusQueued && !n.RunAt.After(now) {
			due = append(due, n)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].RunAt.Before(due[j].RunAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	out := make([]*shared.NotificationJob, len(due))
	for i, n := range due {
		out[i] = &shared.NotificationJob{ID: n.ID, Kind: n.Kind, Topic: n.Topic, Payload: n.Payload, RunAt: n.RunAt, Attempts: n.Attempts}
	}
	return out, nil
}

func cloneBooking(b *booking.Booking) (*booking.Booking, error) {
	return booking.Reconstruct(booking.Attributes{
		ID:           b.ID(),
		MountainID:   b.MountainID(),
		UserID:       b.UserID(),
		StartDate:    b.StartDate(),
		EndDate:      b.EndDate(),
		Type:         b.Type(),
		Participants: b.Participants(),
		Status:       b.Status(),
		PricePerHead: b.PricePerHead(),
		TotalPrice:   b.TotalPrice(),
		CreatedAt:    b.CreatedAt(),
		UpdatedAt:    b.UpdatedAt(),
	})
}

type bookingRepo struct{ u *UoW }

// Create mirrors the database exclusion constraint on overlapping active
// bookings by the same user on the same mountain.
func (r bookingRepo) Create(ctx context.Context, _ query.DBTX, b *booking.Booking) (uuid.UUID, error) {
	if err := r.u.CreateErr; err != nil {
		r.u.CreateErr = nil
		return uuid.Nil, err
	}
	for _, o := range r.u.bookings {
		if o.MountainID() == b.MountainID() && o.UserID() == b.UserID() &&
			o.Status().IsActive() && o.Dates().Overlaps(b.Dates()) {
			return uuid.Nil, infra.WrapRepoErr("failed to create booking",
				&pgconn.PgError{Code: "23P01", ConstraintName: infra.ConstraintNoUserOverlap})
		}
	}
	r.u.bookings[b.ID()] = b
	return b.ID(), nil
}

func (r bookingRepo) UpdateStatus(ctx context.Context, _ query.DBTX, b *booking.Booking) error {
	if _, ok := r.u.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	r.u.bookings[b.ID()] = b
	return nil
}

type idempotencyRepo struct{ u *UoW }

func (r idempotencyRepo) Claim(ctx context.Context, _ query.DBTX, key, userID uuid.UUID, endpoint, requestHash string, now, expiresAt time.Time) (bool, error) {
	id := idempotencyID{key, userID}
	if existing, ok := r.u.idempotency[id]; ok && !existing.ExpiresAt.Before(now) {
		return false, nil
	}
	r.u.idempotency[id] = shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r idempotencyRepo) Complete(ctx context.Context, _ query.DBTX, key, userID uuid.UUID, responseHash string, bookingID uuid.UUID, now time.Time) error {
	id := idempotencyID{key, userID}
	rec, ok := r.u.idempotency[id]
	if !ok || rec.Status != shared.IdempotencyStatusProcessing {
		return infra.WrapRepoErr("idempotency key not in processing state", nil, infra.KindConflict)
	}
	rec.Status = shared.IdempotencyStatusCompleted
	rec.ResultBookingID = &bookingID
	r.u.idempotency[id] = rec
	return nil
}

func (r idempotencyRepo) Release(ctx context.Context, _ query.DBTX, key, userID uuid.UUID) error {
	id := idempotencyID{key, userID}
	if rec, ok := r.u.idempotency[id]; ok && rec.Status == shared.IdempotencyStatusProcessing {
		delete(r.u.idempotency, id)
	}
	return nil
}

func (r idempotencyRepo) DeleteExpired(ctx context.Context, _ query.DBTX, now time.Time) (int64, error) {
	var n int64
	for id, rec := range r.u.idempotency {
		if rec.ExpiresAt.Before(now) {
			delete(r.u.idempotency, id)
			n++
		}
	}
	return n, nil
}

type notificationRepo struct{ u *UoW }

func (r notificationRepo) CreateJob(ctx context.Context, _ query.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	r.u.notifications = append(r.u.notifications, Notification{
		ID:      uuid.New(),
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   runAt,
		Status:  shared.NotificationStatusQueued,
	})
	return nil
}

func (r notificationRepo) MarkSent(ctx context.Context, _ query.DBTX, id uuid.UUID, now time.Time) error {
	return r.update(id, func(n *Notification) {
		n.Status = shared.NotificationStatusSent
		n.Attempts++
	})
}

func (r notificationRepo) MarkFailed(ctx context.Context, _ query.DBTX, id uuid.UUID, reason string, retryAt *time.Time, now time.Time) error {
	return r.update(id, func(n *Notification) {
		n.Attempts++
		n.LastError = reason
		n.Status = shared.NotificationStatusFailed
		if retryAt != nil {
			n.Status = shared.NotificationStatusQueued
			n.RunAt = *retryAt
		}
	})
}

func (r notificationRepo) update(id uuid.UUID, fn func(n *Notification)) error {
	for i := range r.u.notifications {
		if r.u.notifications[i].ID == id {
			fn(&r.u.notifications[i])
			return nil
		}
	}
	return infra.WrapRepoErr("notification job not found", nil, infra.KindNotFound)
}

type userRepo struct{ u *UoW }

func (r userRepo) UpdateLastLogin(ctx context.Context, _ query.DBTX, userID uuid.UUID, at time.Time) error {
	r.u.lastLogins[userID] = at
	return nil
}

var _ shared.UnitOfWork = (*UoW)(nil)
