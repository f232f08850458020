package core

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format accepted on every date input.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date. field names the input in
// the returned InvalidArgument error.
func ParseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, InvalidArgumentf("%s must be a valid date (YYYY-MM-DD), got %q", field, value)
	}
	return d, nil
}

// DateRange is an inclusive calendar-date interval. A zero bound is open.
// Queries treat End as inclusive through 23:59:59 of that day by comparing
// against the start of the following day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses optional start and end strings. Empty strings leave
// the bound open; a start after the end is rejected.
func NewDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if start != "" {
		if r.Start, err = ParseDate("startDate", start); err != nil {
			return DateRange{}, err
		}
	}
	if end != "" {
		if r.End, err = ParseDate("endDate", end); err != nil {
			return DateRange{}, err
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return DateRange{}, InvalidArgumentf("startDate %s is after endDate %s", start, end)
	}
	return r, nil
}

// RequiredDateRange is NewDateRange with both bounds mandatory.
func RequiredDateRange(start, end string) (DateRange, error) {
	if start == "" {
		return DateRange{}, InvalidArgumentf("startDate is required (YYYY-MM-DD)")
	}
	if end == "" {
		return DateRange{}, InvalidArgumentf("endDate is required (YYYY-MM-DD)")
	}
	return NewDateRange(start, end)
}

// endExclusive is the first instant after the inclusive end day.
func (r DateRange) endExclusive() time.Time {
	return r.End.AddDate(0, 0, 1)
}

// appendTimestampFilter adds "column >= start" and "column < end+1day"
// predicates for the bounds that are set.
func (r DateRange) appendTimestampFilter(q string, args []any, column string) (string, []any) {
	if !r.Start.IsZero() {
		args = append(args, r.Start)
		q += fmt.Sprintf(" AND %s >= $%d", column, len(args))
	}
	if !r.End.IsZero() {
		args = append(args, r.endExclusive())
		q += fmt.Sprintf(" AND %s < $%d", column, len(args))
	}
	return q, args
}

// appendDateFilter adds inclusive bounds on a DATE column.
func (r DateRange) appendDateFilter(q string, args []any, column string) (string, []any) {
	if !r.Start.IsZero() {
		args = append(args, r.Start)
		q += fmt.Sprintf(" AND %s >= $%d::date", column, len(args))
	}
	if !r.End.IsZero() {
		args = append(args, r.End)
		q += fmt.Sprintf(" AND %s <= $%d::date", column, len(args))
	}
	return q, args
}
