package domain

import "testing"

func TestCanTransition(t *testing.T) {
	all := []AppointmentStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

	allowed := map[[2]AppointmentStatus]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]AppointmentStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatusBlocks(t *testing.T) {
	if !StatusPending.Blocks() || !StatusConfirmed.Blocks() {
		t.Fatalf("pending and confirmed must block their interval")
	}
	if StatusCompleted.Blocks() || StatusCancelled.Blocks() {
		t.Fatalf("completed and cancelled must not block their interval")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Fatalf("%s reported invalid", s)
		}
	}
	if AppointmentStatus("booked").Valid() {
		t.Fatalf("unknown status reported valid")
	}
}
