package domain

import (
	"testing"
	"time"
)

// Monday 2026-08-31 12:00 UTC
var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func TestParseTiming(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		when     string
		defTime  string
		tz       string
		wantOK   bool
		wantType ReminderType
		wantFreq string
		wantDue  time.Time
	}{
		{
			name:     "daily is tomorrow at default time",
			now:      testNow,
			when:     "daily",
			defTime:  "09:00",
			tz:       "UTC",
			wantOK:   true,
			wantType: ReminderRecurring,
			wantFreq: "daily",
			wantDue:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "weekly anchors to next saturday",
			now:      testNow,
			when:     "weekly",
			defTime:  "09:00",
			tz:       "UTC",
			wantOK:   true,
			wantType: ReminderRecurring,
			wantFreq: "weekly",
			wantDue:  time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "weekly on saturday before default time stays today",
			now:      time.Date(2026, 9, 5, 8, 0, 0, 0, time.UTC),
			when:     "weekly",
			defTime:  "09:00",
			tz:       "UTC",
			wantOK:   true,
			wantType: ReminderRecurring,
			wantFreq: "weekly",
			wantDue:  time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "weekly on saturday after default time rolls a week",
			now:      time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC),
			when:     "weekly",
			defTime:  "09:00",
			tz:       "UTC",
			wantOK:   true,
			wantType: ReminderRecurring,
			wantFreq: "weekly",
			wantDue:  time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "monthly anchors to the first of next month",
			now:      testNow,
			when:     "monthly",
			defTime:  "09:00",
			tz:       "UTC",
			wantOK:   true,
			wantType: ReminderRecurring,
			wantFreq: "monthly",
			wantDue:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "monthly on the first before default time stays today",
			now:      time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
			when:     "monthly",
			defTime:  "09:00",
			tz:       "UTC",
			wantOK:   true,
			wantType: ReminderRecurring,
			wantFreq: "monthly",
			wantDue:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "iso date",
			now:      testNow,
			when:     "2026-12-25",
			defTime:  "09:00",
			tz:       "UTC",
			wantOK:   true,
			wantType: ReminderOnce,
			wantDue:  time.Date(2026, 12, 25, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "us slash date",
			now:      testNow,
			when:     "12/25/2026",
			defTime:  "09:00",
			tz:       "UTC",
			wantOK:   true,
			wantType: ReminderOnce,
			wantDue:  time.Date(2026, 12, 25, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "month-day in the future uses current year",
			now:      testNow,
			when:     "dec-25",
			defTime:  "09:00",
			tz:       "UTC",
			wantOK:   true,
			wantType: ReminderOnce,
			wantDue:  time.Date(2026, 12, 25, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "month-day already passed rolls to next year",
			now:      testNow,
			when:     "Jan-02",
			defTime:  "09:00",
			tz:       "UTC",
			wantOK:   true,
			wantType: ReminderOnce,
			wantDue:  time.Date(2027, 1, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "timezone converts to utc",
			now:      testNow,
			when:     "daily",
			defTime:  "09:00",
			tz:       "America/New_York",
			wantOK:   true,
			wantType: ReminderRecurring,
			wantFreq: "daily",
			wantDue:  time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC), // 09:00 EDT
		},
		{
			name:    "bogus input is invalid",
			now:     testNow,
			when:    "bogus",
			defTime: "09:00",
			tz:      "UTC",
		},
		{
			name:    "empty input is invalid",
			now:     testNow,
			when:    "",
			defTime: "09:00",
			tz:      "UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTiming(tt.now, tt.when, tt.defTime, tt.tz)

			if got.Valid != tt.wantOK {
				t.Fatalf("Valid = %v, want %v", got.Valid, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
			if got.Frequency != tt.wantFreq {
				t.Errorf("Frequency = %q, want %q", got.Frequency, tt.wantFreq)
			}
			if !got.DueAt.Equal(tt.wantDue) {
				t.Errorf("DueAt = %v, want %v", got.DueAt, tt.wantDue)
			}
			if got.DueAt.Location() != time.UTC {
				t.Errorf("DueAt location = %v, want UTC", got.DueAt.Location())
			}
		})
	}
}

func TestParseTimingWeeklyIsAlwaysSaturday(t *testing.T) {
	// Walk a full week of invocation days; every result must be a
	// Saturday at 09:00 strictly after now.
	for i := 0; i < 7; i++ {
		now := testNow.AddDate(0, 0, i)
		got := ParseTiming(now, "weekly", "09:00", "UTC")
		if !got.Valid {
			t.Fatalf("day %d: not valid", i)
		}
		if got.DueAt.Weekday() != time.Saturday {
			t.Errorf("day %d: weekday = %v, want Saturday", i, got.DueAt.Weekday())
		}
		if !got.DueAt.After(now) {
			t.Errorf("day %d: due %v not after now %v", i, got.DueAt, now)
		}
	}
}

func TestParseTimingMonthlyIsAlwaysFirst(t *testing.T) {
	for i := 0; i < 40; i += 7 {
		now := testNow.AddDate(0, 0, i)
		got := ParseTiming(now, "monthly", "09:00", "UTC")
		if !got.Valid {
			t.Fatalf("offset %d: not valid", i)
		}
		if got.DueAt.Day() != 1 {
			t.Errorf("offset %d: day = %d, want 1", i, got.DueAt.Day())
		}
		if !got.DueAt.After(now) {
			t.Errorf("offset %d: due %v not after now %v", i, got.DueAt, now)
		}
	}
}

func TestParseReminderContent(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantWhen string
		wantDesc string
		wantBody string
	}{
		{
			name:     "bare content",
			raw:      "buy milk",
			wantDesc: "buy milk",
		},
		{
			name:     "leading timing keyword",
			raw:      "daily stand up notes",
			wantWhen: "daily",
			wantDesc: "stand up notes",
		},
		{
			name:     "explicit pipe split",
			raw:      "weekly groceries | eggs, milk, bread",
			wantWhen: "weekly",
			wantDesc: "groceries",
			wantBody: "eggs, milk, bread",
		},
		{
			name:     "date token",
			raw:      "2026-12-25 wrap presents",
			wantWhen: "2026-12-25",
			wantDesc: "wrap presents",
		},
		{
			name:     "url only input",
			raw:      "https://example.com/article",
			wantDesc: "Untitled",
			wantBody: "https://example.com/article",
		},
		{
			name:     "url pulled out of description",
			raw:      "daily read example.com later",
			wantWhen: "daily",
			wantDesc: "read later",
			wantBody: "example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReminderContent(tt.raw)

			if got.When != tt.wantWhen {
				t.Errorf("When = %q, want %q", got.When, tt.wantWhen)
			}
			if got.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", got.Description, tt.wantDesc)
			}
			if got.Content != tt.wantBody {
				t.Errorf("Content = %q, want %q", got.Content, tt.wantBody)
			}
		})
	}
}
