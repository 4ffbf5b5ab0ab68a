package domain

import (
	"testing"
	"time"
)

func tp(t time.Time) *time.Time { return &t }

func TestService_IsDue_NeverChecked(t *testing.T) {
	s := &Service{CheckIntervalMin: 5}
	if !s.IsDue(time.Now()) {
		t.Fatalf("never-checked service must be due")
	}
}

func TestService_IsDue_Boundary(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &Service{CheckIntervalMin: 5, LastCheckedAt: tp(base)}

	if s.IsDue(base.Add(4 * time.Minute)) {
		t.Fatalf("not due before interval elapses")
	}
	// now == last + interval counts as due
	if !s.IsDue(base.Add(5 * time.Minute)) {
		t.Fatalf("boundary must count as due")
	}
	if !s.IsDue(base.Add(6 * time.Minute)) {
		t.Fatalf("past interval must be due")
	}
}
