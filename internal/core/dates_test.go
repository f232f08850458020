package core

import (
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("d", "2026-03-31"); err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"", "2026-3-1", "31-03-2026", "2026-02-30", "2026-03-31T00:00:00Z"} {
		_, err := ParseDate("startDate", bad)
		if !IsKind(err, KindInvalidArgument) {
			t.Errorf("%q: expected InvalidArgument, got %v", bad, err)
		}
		if err != nil && !strings.Contains(err.Error(), "startDate") {
			t.Errorf("%q: message should name the field, got %q", bad, err)
		}
	}
}

func TestNewDateRange(t *testing.T) {
	r, err := NewDateRange("", "")
	if err != nil || !r.Start.IsZero() || !r.End.IsZero() {
		t.Errorf("open range: got %+v, %v", r, err)
	}
	if _, err := NewDateRange("2026-04-01", "2026-03-01"); !IsKind(err, KindInvalidArgument) {
		t.Errorf("reversed range: expected InvalidArgument, got %v", err)
	}
	if _, err := NewDateRange("2026-03-01", "2026-03-01"); err != nil {
		t.Errorf("single-day range rejected: %v", err)
	}
	if _, err := RequiredDateRange("2026-03-01", ""); !IsKind(err, KindInvalidArgument) {
		t.Errorf("missing endDate: expected InvalidArgument, got %v", err)
	}
}

func TestDateRangeFilters(t *testing.T) {
	r, _ := NewDateRange("2026-03-01", "2026-03-31")

	q, args := r.appendTimestampFilter("SELECT 1 WHERE true", []any{42}, "created_at")
	if want := "SELECT 1 WHERE true AND created_at >= $2 AND created_at < $3"; q != want {
		t.Errorf("timestamp filter:\nwant %s\n got %s", want, q)
	}
	if len(args) != 3 {
		t.Fatalf("want 3 args, got %d", len(args))
	}
	end := args[2].(time.Time)
	if end.Format(DateLayout) != "2026-04-01" {
		t.Errorf("exclusive end: want 2026-04-01, got %s", end.Format(DateLayout))
	}

	q, args = r.appendDateFilter("X", nil, "expense_date")
	if want := "X AND expense_date >= $1::date AND expense_date <= $2::date"; q != want {
		t.Errorf("date filter:\nwant %s\n got %s", want, q)
	}
	if len(args) != 2 {
		t.Errorf("want 2 args, got %d", len(args))
	}

	open := DateRange{}
	if q, args := open.appendTimestampFilter("X", nil, "c"); q != "X" || len(args) != 0 {
		t.Errorf("open range must add nothing, got %q %v", q, args)
	}
}
