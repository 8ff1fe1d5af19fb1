package scheduling

import (
	"testing"
	"time"
)

func interval(startHour, startMin, endHour, endMin int) (time.Time, time.Time) {
	return at(startHour, startMin), at(endHour, endMin)
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []Status{"", "pending", "DONE", "NOSHOW"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	a := &Appointment{Status: StatusPending}
	a.StartTime, a.EndTime = interval(10, 0, 10, 30)

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical", at(10, 0), at(10, 30), true},
		{"tail overlap", at(10, 15), at(10, 45), true},
		{"head overlap", at(9, 45), at(10, 15), true},
		{"contained", at(10, 5), at(10, 25), true},
		{"containing", at(9, 0), at(11, 0), true},
		{"touching before", at(9, 30), at(10, 0), false},
		{"touching after", at(10, 30), at(11, 0), false},
		{"disjoint before", at(8, 0), at(9, 0), false},
		{"disjoint after", at(11, 0), at(12, 0), false},
	}
	for _, tc := range cases {
		if got := a.Overlaps(tc.start, tc.end); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestOverlaps_CancelledNeverBlocks(t *testing.T) {
	a := &Appointment{Status: StatusCancelled}
	a.StartTime, a.EndTime = interval(10, 0, 10, 30)

	if a.Overlaps(at(10, 0), at(10, 30)) {
		t.Error("cancelled appointment should not block its slot")
	}
}
