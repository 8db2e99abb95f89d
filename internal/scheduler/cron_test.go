package scheduler

import (
	"testing"
	"time"
)

func TestParseCron_Valid(t *testing.T) {
	expr, err := ParseCron("0 8 * * *")
	if err != nil {
		t.Fatalf("ParseCron: %v", err)
	}
	if expr.String() != "0 8 * * *" {
		t.Fatalf("expected raw %q, got %q", "0 8 * * *", expr.String())
	}
}

func TestParseCron_Invalid(t *testing.T) {
	if _, err := ParseCron("every morning"); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestCronExpr_Next(t *testing.T) {
	expr, err := ParseCron("0 8 * * *") // daily at 08:00
	if err != nil {
		t.Fatalf("ParseCron: %v", err)
	}

	base := time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC)
	next := expr.Next(base)

	expected := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if !next.Equal(expected) {
		t.Fatalf("expected next %v, got %v", expected, next)
	}
}

func TestCronExpr_Matches(t *testing.T) {
	expr, err := ParseCron("0 8 * * *")
	if err != nil {
		t.Fatalf("ParseCron: %v", err)
	}

	match := time.Date(2026, 3, 1, 8, 0, 22, 0, time.UTC)
	if !expr.Matches(match) {
		t.Fatal("expected Matches to return true at 08:00")
	}

	noMatch := time.Date(2026, 3, 1, 8, 1, 0, 0, time.UTC)
	if expr.Matches(noMatch) {
		t.Fatal("expected Matches to return false at 08:01")
	}
}
