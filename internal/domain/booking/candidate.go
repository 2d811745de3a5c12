package booking

// Candidate is what the customer asked for, before the mountain's capacity
// is applied. Exactly two shapes exist.
type Candidate interface {
	Type() Type
	isCandidate()
}

type JoinerCandidate struct {
	Participants int
}

func (JoinerCandidate) Type() Type   { return TypeJoiner }
func (JoinerCandidate) isCandidate() {}

// ExclusiveCandidate reserves the whole mountain; the party size is always
// the joiner capacity.
type ExclusiveCandidate struct{}

func (ExclusiveCandidate) Type() Type   { return TypeExclusive }
func (ExclusiveCandidate) isCandidate() {}

// NewCandidate builds the union from loosely typed request fields. The
// participant count is ignored for exclusive bookings.
func NewCandidate(bookingType string, participants int) (Candidate, error) {
	t, err := NewType(bookingType)
	if err != nil {
		return nil, err
	}
	if t == TypeExclusive {
		return ExclusiveCandidate{}, nil
	}
	if participants < 1 || participants > MaxJoinerParticipants {
		return nil, &ValidationError{Field: "number_of_participants", Reason: "must be between 1 and 20 for joiner bookings"}
	}
	return JoinerCandidate{Participants: participants}, nil
}
