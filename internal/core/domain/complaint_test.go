package domain

import "testing"

func TestComplaintStatusTransitions(t *testing.T) {
	cases := []struct {
		from    ComplaintStatus
		to      ComplaintStatus
		allowed bool
	}{
		{StatusSubmitted, StatusInReview, true},
		{StatusInReview, StatusResolved, true},
		{StatusResolved, StatusArchived, true},
		{StatusSubmitted, StatusResolved, false},
		{StatusSubmitted, StatusArchived, false},
		{StatusInReview, StatusSubmitted, false},
		{StatusInReview, StatusArchived, false},
		{StatusResolved, StatusInReview, false},
		{StatusArchived, StatusSubmitted, false},
		{StatusArchived, StatusArchived, false},
		{StatusSubmitted, StatusSubmitted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestParseComplaintStatus(t *testing.T) {
	if status, ok := ParseComplaintStatus("  In_Review "); !ok || status != StatusInReview {
		t.Fatalf("expected in_review, got %q ok=%v", status, ok)
	}
	if _, ok := ParseComplaintStatus("completed"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
}
