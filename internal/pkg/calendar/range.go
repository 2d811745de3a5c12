package calendar

// Range is an inclusive span of calendar days.
type Range struct {
	start Date
	end   Date
}

func NewRange(start, end Date) (Range, error) {
	if start.IsZero() || end.IsZero() {
		return Range{}, ErrInvalidDate
	}
	if end.Before(start) {
		return Range{}, ErrInvalidRange
	}
	return Range{start: start, end: end}, nil
}

func (r Range) Start() Date { return r.start }
func (r Range) End() Date   { return r.end }

// Days counts the dates in the range, both ends included.
func (r Range) Days() int {
	return r.start.DaysUntil(r.end) + 1
}

func (r Range) Contains(d Date) bool {
	return !d.Before(r.start) && !d.After(r.end)
}

func (r Range) Overlaps(o Range) bool {
	return !r.end.Before(o.start) && !o.end.Before(r.start)
}

func (r Range) Dates() []Date {
	out := make([]Date, 0, r.Days())
	for d := r.start; !d.After(r.end); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

func (r Range) String() string {
	return r.start.String() + "/" + r.end.String()
}
