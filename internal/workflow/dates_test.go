package workflow

import (
	"testing"
	"time"
)

func TestDateParserSupportedFormats(t *testing.T) {
	p := testParser()
	tests := []struct {
		in   any
		want time.Time
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"5/3/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"5/3/2024, 14:30:00", time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{"5/3/2024 2:30:00 pm", time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{"05/03/2024 14:30", time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{"5/3/2024 12:15 am", time.Date(2024, 3, 5, 0, 15, 0, 0, time.UTC)},
		{"2024-03-05T14:30:00Z", time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{"2024-03-05 14:30:00", time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{45356.0, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{45356.5, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := p.TryParse(tt.in)
		if !ok {
			t.Fatalf("TryParse(%v) failed", tt.in)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("TryParse(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDateParserSameCalendarDateAcrossFormats(t *testing.T) {
	p := testParser()
	var first time.Time
	for i, in := range []string{"2024-03-05", "5/3/2024", "5/3/2024, 14:30:00", "5/3/2024 2:30:00 pm"} {
		got := p.Parse(in)
		y, m, d := got.Date()
		if i == 0 {
			first = got
			continue
		}
		fy, fm, fd := first.Date()
		if y != fy || m != fm || d != fd {
			t.Fatalf("Parse(%q) date = %d-%d-%d, want %d-%d-%d", in, y, m, d, fy, fm, fd)
		}
	}
}

func TestDateParserMonthFirst(t *testing.T) {
	p := testParser()
	p.DayFirst = false
	got, ok := p.TryParse("3/5/2024")
	if !ok || got.Month() != time.March || got.Day() != 5 {
		t.Fatalf("TryParse(3/5/2024) MDY = %s,%v, want 5 March", got, ok)
	}
	if s := p.Format(got); s != "03/05/2024 00:00:00" {
		t.Fatalf("Format() = %q, want %q", s, "03/05/2024 00:00:00")
	}
}

func TestDateParserFallsBackToNow(t *testing.T) {
	p := testParser()
	for _, in := range []any{nil, "", "  ", "-", "not a date", "31/2/2024", "5/3/2024 25:00", -3.0} {
		if _, ok := p.TryParse(in); ok {
			t.Fatalf("TryParse(%v) should fail", in)
		}
		if got := p.Parse(in); !got.Equal(fixedNow) {
			t.Fatalf("Parse(%v) = %s, want now %s", in, got, fixedNow)
		}
	}
}

func TestDateParserFormat(t *testing.T) {
	p := testParser()
	got := p.Format(time.Date(2024, 3, 5, 14, 30, 7, 0, time.UTC))
	if got != "05/03/2024 14:30:07" {
		t.Fatalf("Format() = %q, want %q", got, "05/03/2024 14:30:07")
	}
	back, ok := p.TryParse(got)
	if !ok || !back.Equal(time.Date(2024, 3, 5, 14, 30, 7, 0, time.UTC)) {
		t.Fatalf("round trip = %s,%v", back, ok)
	}
}

func TestDelayDays(t *testing.T) {
	p := testParser()
	planned := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	if got := p.DelayDays(planned, time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)); got != 2 {
		t.Fatalf("DelayDays() = %d, want 2", got)
	}
	if got := p.DelayDays(planned, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)); got != 0 {
		t.Fatalf("DelayDays(early) = %d, want 0", got)
	}
	if got := p.DelayDays(time.Time{}, planned); got != 0 {
		t.Fatalf("DelayDays(zero planned) = %d, want 0", got)
	}
}
