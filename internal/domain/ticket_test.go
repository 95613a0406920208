package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    TicketStatus
		to      TicketStatus
		allowed bool
	}{
		{"pending to in progress", TicketStatusPending, TicketStatusInProgress, true},
		{"pending to solved skips work", TicketStatusPending, TicketStatusSolved, false},
		{"pending to rejected skips work", TicketStatusPending, TicketStatusRejected, false},
		{"in progress to solved", TicketStatusInProgress, TicketStatusSolved, true},
		{"in progress to rejected", TicketStatusInProgress, TicketStatusRejected, true},
		{"in progress back to pending", TicketStatusInProgress, TicketStatusPending, false},
		{"same status is idempotent", TicketStatusPending, TicketStatusPending, true},
		{"same in-progress status", TicketStatusInProgress, TicketStatusInProgress, true},
		{"solved is terminal", TicketStatusSolved, TicketStatusInProgress, false},
		{"rejected is terminal", TicketStatusRejected, TicketStatusPending, false},
		{"terminal same-status still blocked", TicketStatusSolved, TicketStatusSolved, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.allowed {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	if !TicketStatusSolved.IsTerminal() || !TicketStatusRejected.IsTerminal() {
		t.Fatalf("expected SOLVED and REJECTED to be terminal")
	}
	if TicketStatusPending.IsTerminal() || TicketStatusInProgress.IsTerminal() {
		t.Fatalf("expected PENDING and IN_PROGRESS to be non-terminal")
	}
}

func TestValidStatusAndPriority(t *testing.T) {
	if !ValidStatus(TicketStatusPending) || ValidStatus(TicketStatus("OPEN")) {
		t.Fatalf("ValidStatus misclassified a value")
	}
	if !ValidPriority(TicketPriorityHigh) || ValidPriority(TicketPriority("URGENT")) {
		t.Fatalf("ValidPriority misclassified a value")
	}
}
