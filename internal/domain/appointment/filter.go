package appointment

import "time"

// Filter values accepted by FilterByWhen.
const (
	WhenAll      = "all"
	WhenUpcoming = "upcoming"
	WhenPast     = "past"
)

// ValidWhen reports whether w is a recognised filter value. Empty means all.
func ValidWhen(w string) bool {
	switch w {
	case "", WhenAll, WhenUpcoming, WhenPast:
		return true
	}
	return false
}

// FilterByWhen partitions appointments around midnight of now's calendar day,
// in now's location. Upcoming is any day on or after today and past is
// anything before it, so the two never overlap and together cover the list.
// Order is preserved; unknown values return the list unchanged.
func FilterByWhen(list []*Appointment, when string, now time.Time) []*Appointment {
	if when != WhenUpcoming && when != WhenPast {
		return list
	}
	today := now.Format(DayLayout)
	out := make([]*Appointment, 0, len(list))
	for _, a := range list {
		upcoming := a.Day >= today
		if (when == WhenUpcoming) == upcoming {
			out = append(out, a)
		}
	}
	return out
}
