package booking

import (
	"poorito-booking/internal/pkg/calendar"

	"github.com/google/uuid"
)

// Occupancy is the slice of an existing booking the resolver looks at.
type Occupancy struct {
	BookingID    uuid.UUID
	UserID       uuid.UUID
	Type         Type
	Status       Status
	Participants int
	Dates        calendar.Range
}

type DayAvailability struct {
	Date              calendar.Date
	JoinerBooked      int
	JoinerAvailable   int
	IsExclusiveBooked bool
}

type Availability struct {
	window calendar.Range
	days   []DayAvailability
}

// ResolveAvailability computes the per-day snapshot for window from the given
// bookings. Inactive bookings and bookings outside the window are ignored.
func ResolveAvailability(capacity int, window calendar.Range, occupancies []Occupancy) *Availability {
	n := window.Days()
	booked := make([]int, n)
	exclusive := make([]bool, n)

	for _, o := range occupancies {
		if !o.Status.IsActive() || !o.Dates.Overlaps(window) {
			continue
		}
		from := max(0, window.Start().DaysUntil(o.Dates.Start()))
		to := min(n-1, window.Start().DaysUntil(o.Dates.End()))
		for i := from; i <= to; i++ {
			if o.Type == TypeExclusive {
				exclusive[i] = true
				continue
			}
			booked[i] += o.Participants
		}
	}

	days := make([]DayAvailability, n)
	date := window.Start()
	for i := range days {
		available := 0
		if !exclusive[i] {
			available = max(0, capacity-booked[i])
		}
		days[i] = DayAvailability{
			Date:              date,
			JoinerBooked:      booked[i],
			JoinerAvailable:   available,
			IsExclusiveBooked: exclusive[i],
		}
		date = date.AddDays(1)
	}

	return &Availability{window: window, days: days}
}

func (a *Availability) Days() []DayAvailability {
	out := make([]DayAvailability, len(a.days))
	copy(out, a.days)
	return out
}

func (a *Availability) On(d calendar.Date) (DayAvailability, bool) {
	if !a.window.Contains(d) {
		return DayAvailability{}, false
	}
	return a.days[a.window.Start().DaysUntil(d)], true
}

// JoinerConflicts returns the dates that cannot seat n more joiners.
func (a *Availability) JoinerConflicts(n int) []calendar.Date {
	var out []calendar.Date
	for _, d := range a.days {
		if d.IsExclusiveBooked || d.JoinerAvailable < n {
			out = append(out, d.Date)
		}
	}
	return out
}

// ExclusiveConflicts returns the dates that already hold any booking.
func (a *Availability) ExclusiveConflicts() []calendar.Date {
	var out []calendar.Date
	for _, d := range a.days {
		if d.IsExclusiveBooked || d.JoinerBooked > 0 {
			out = append(out, d.Date)
		}
	}
	return out
}
