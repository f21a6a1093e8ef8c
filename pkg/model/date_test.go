package model

import (
	"testing"
	"time"
)

func TestParseCivilDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expectErr bool
		want      CivilDate
	}{
		{
			name:  "valid date",
			input: "2026-09-15",
			want:  CivilDate{Year: 2026, Month: time.September, Day: 15},
		},
		{
			name:  "leap day",
			input: "2028-02-29",
			want:  CivilDate{Year: 2028, Month: time.February, Day: 29},
		},
		{
			name:      "wrong layout",
			input:     "15/09/2026",
			expectErr: true,
		},
		{
			name:      "missing padding",
			input:     "2026-9-5",
			expectErr: true,
		},
		{
			name:      "empty",
			input:     "",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCivilDate(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCivilDateValidate(t *testing.T) {
	tests := []struct {
		name      string
		date      CivilDate
		expectErr bool
	}{
		{
			name: "valid",
			date: CivilDate{Year: 2026, Month: time.September, Day: 15},
		},
		{
			name:      "nonexistent day",
			date:      CivilDate{Year: 2026, Month: time.February, Day: 30},
			expectErr: true,
		},
		{
			name:      "non leap year feb 29",
			date:      CivilDate{Year: 2026, Month: time.February, Day: 29},
			expectErr: true,
		},
		{
			name:      "month out of range",
			date:      CivilDate{Year: 2026, Month: 13, Day: 1},
			expectErr: true,
		},
		{
			name:      "year out of range",
			date:      CivilDate{Year: 1800, Month: time.June, Day: 1},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.date.Validate()
			if tt.expectErr && err == nil {
				t.Fatalf("expected error for %v", tt.date)
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCivilDateAt(t *testing.T) {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// Same wall clock, different UTC offsets across the DST boundary.
	summer := CivilDate{Year: 2026, Month: time.July, Day: 15}.At(12, 0, 0, eastern)
	if got := summer.Format(time.RFC3339); got != "2026-07-15T16:00:00Z" {
		t.Errorf("summer instant = %s, want 2026-07-15T16:00:00Z", got)
	}

	winter := CivilDate{Year: 2026, Month: time.December, Day: 15}.At(12, 0, 0, eastern)
	if got := winter.Format(time.RFC3339); got != "2026-12-15T17:00:00Z" {
		t.Errorf("winter instant = %s, want 2026-12-15T17:00:00Z", got)
	}
}

func TestCivilDateDayWindow(t *testing.T) {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	start, end := CivilDate{Year: 2026, Month: time.July, Day: 15}.DayWindow(eastern)
	if got := start.Format(time.RFC3339); got != "2026-07-15T04:00:00Z" {
		t.Errorf("window start = %s, want 2026-07-15T04:00:00Z", got)
	}
	if got := end.Format(time.RFC3339); got != "2026-07-16T04:00:00Z" {
		t.Errorf("window end = %s, want 2026-07-16T04:00:00Z", got)
	}

	// Spring forward day is 23 hours long.
	start, end = CivilDate{Year: 2026, Month: time.March, Day: 8}.DayWindow(eastern)
	if got := end.Sub(start); got != 23*time.Hour {
		t.Errorf("spring forward window = %v, want 23h", got)
	}
}

func TestCivilDateOrdering(t *testing.T) {
	a := CivilDate{Year: 2026, Month: time.September, Day: 15}
	b := a.AddDays(1)

	if !a.Before(b) {
		t.Error("expected a before a+1")
	}
	if b.Before(a) {
		t.Error("expected a+1 not before a")
	}
	if a.Before(a) {
		t.Error("a date is not before itself")
	}

	endOfMonth := CivilDate{Year: 2026, Month: time.September, Day: 30}
	if got := endOfMonth.AddDays(1); got != (CivilDate{Year: 2026, Month: time.October, Day: 1}) {
		t.Errorf("month rollover = %v", got)
	}
}

func TestCivilDateWeekday(t *testing.T) {
	// 2026-09-15 is a Tuesday.
	d := CivilDate{Year: 2026, Month: time.September, Day: 15}
	if got := d.Weekday(); got != time.Tuesday {
		t.Errorf("weekday = %v, want Tuesday", got)
	}
}
