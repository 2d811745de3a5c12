package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsActive reports whether the booking holds capacity. Pending bookings count
// so two requests cannot both claim the last slots while awaiting review.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

type Type string

const (
	TypeJoiner    Type = "joiner"
	TypeExclusive Type = "exclusive"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeJoiner, TypeExclusive:
		return true
	default:
		return false
	}
}

func NewType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", &ValidationError{Field: "booking_type", Reason: "must be joiner or exclusive"}
	}
	return t, nil
}
