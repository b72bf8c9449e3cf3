package domain

import (
	"sort"
	"time"
)

// Status is the open/closed state of a location at a point in time.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

const clockLayout = "15:04"

// ResolveStatus computes OPEN/CLOSED from a location's weekly schedule.
// weekday is ISO (1=Monday .. 7=Sunday), clock is the current "HH:mm".
// No entry for the weekday means CLOSED; otherwise the open/close bounds
// are inclusive. Overnight windows (close before open) are not supported.
func ResolveStatus(hours []WorkingHours, weekday int, clock string) Status {
	if len(hours) == 0 {
		return StatusClosed
	}

	sorted := make([]WorkingHours, len(hours))
	copy(sorted, hours)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })

	idx := sort.Search(len(sorted), func(i int) bool { return sorted[i].Day >= weekday })
	if idx == len(sorted) || sorted[idx].Day != weekday {
		return StatusClosed
	}

	now, err := time.Parse(clockLayout, clock)
	if err != nil {
		return StatusClosed
	}
	open, err := time.Parse(clockLayout, sorted[idx].OpenTime)
	if err != nil {
		return StatusClosed
	}
	close, err := time.Parse(clockLayout, sorted[idx].CloseTime)
	if err != nil {
		return StatusClosed
	}

	if !now.Before(open) && !now.After(close) {
		return StatusOpen
	}
	return StatusClosed
}

// ResolveStatusAt splits a wall-clock time into ISO weekday and "HH:mm"
// before resolving. Weekday comes from UTC, matching how documents were
// historically stamped.
func ResolveStatusAt(hours []WorkingHours, at time.Time) Status {
	utc := at.UTC()
	weekday := int(utc.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return ResolveStatus(hours, weekday, utc.Format(clockLayout))
}
