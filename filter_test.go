package budget

import (
	"testing"
	"time"

	"github.com/etnz/budget/date"
	"github.com/google/go-cmp/cmp"
)

func TestFilter_MonthsPartitionYear(t *testing.T) {
	today := date.MustParse("2025-06-15")
	for d := date.New(2024, time.January, 1); d.Year() == 2024; d = d.Add(1) {
		e := entry("x", d.String(), Expense, "1", "Food")
		months, quarters := 0, 0
		for m := time.January; m <= time.December; m++ {
			if MonthFilter(2024, m).Match(e, today) {
				months++
			}
		}
		for q := 1; q <= 4; q++ {
			if QuarterFilter(2024, q).Match(e, today) {
				quarters++
			}
		}
		if months != 1 || quarters != 1 {
			t.Fatalf("%v matched %d months and %d quarters, want 1 and 1", d, months, quarters)
		}
		if !YearFilter(2024).Match(e, today) {
			t.Fatalf("%v not in year 2024", d)
		}
		if YearFilter(2025).Match(e, today) {
			t.Fatalf("%v in year 2025", d)
		}
	}
}

func TestFilter_AllTimeAcrossYears(t *testing.T) {
	l := NewLedger(
		entry("1", "2022-03-01", Income, "100", "Salary"),
		entry("2", "2023-07-09", Expense, "40", "Food"),
		entry("3", "2024-12-31", DebtLent, "10", "Sam"),
	)
	today := date.MustParse("2025-01-01")
	if got := l.Snapshot(AllTimeFilter().Predicate(today)); len(got) != 3 {
		t.Errorf("all time selected %v, want the 3 entries", ids(got))
	}
	if got := l.Snapshot(YearFilter(2023).Predicate(today)); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("2023 selected %v, want [2]", ids(got))
	}
}

func TestFilter_Week(t *testing.T) {
	today := date.MustParse("2025-03-06") // a Thursday
	tests := []struct {
		on   string
		want bool
	}{
		{"2025-03-02", false}, // Sunday before
		{"2025-03-03", true},  // Monday
		{"2025-03-06", true},
		{"2025-03-09", true},  // Sunday
		{"2025-03-10", false}, // next Monday
	}
	for _, tt := range tests {
		if got := WeekFilter().Match(entry("x", tt.on, Expense, "1", "Food"), today); got != tt.want {
			t.Errorf("week of %v matches %s = %v, want %v", today, tt.on, got, tt.want)
		}
	}
}

func TestFilter_Custom(t *testing.T) {
	today := date.MustParse("2025-06-15")
	f := CustomFilter(date.MustParse("2025-01-10"), date.MustParse("2025-01-20"))
	for _, tt := range []struct {
		on   string
		want bool
	}{
		{"2025-01-09", false},
		{"2025-01-10", true},
		{"2025-01-20", true},
		{"2025-01-21", false},
	} {
		if got := f.Match(entry("x", tt.on, Expense, "1", "Food"), today); got != tt.want {
			t.Errorf("%v matches %s = %v, want %v", f, tt.on, got, tt.want)
		}
	}

	open := CustomFilter(date.MustParse("2025-01-10"), date.Date{})
	if !open.Match(entry("x", "1999-01-01", Expense, "1", "Food"), today) {
		t.Errorf("a custom range with a missing bound should accept everything")
	}
	if err := CustomFilter(date.MustParse("2025-02-01"), date.MustParse("2025-01-01")).Validate(); err == nil {
		t.Errorf("Validate() of a reversed range should fail")
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"", AllTimeFilter()},
		{"all_time", AllTimeFilter()},
		{"week", WeekFilter()},
		{"2024", YearFilter(2024)},
		{"2024:all", YearFilter(2024)},
		{"2024:q3", QuarterFilter(2024, 3)},
		{"2024:0", MonthFilter(2024, time.January)},
		{"2024:11", MonthFilter(2024, time.December)},
		{"custom:2025-01-01..2025-01-31", CustomFilter(date.MustParse("2025-01-01"), date.MustParse("2025-01-31"))},
		{"custom:..2025-01-31", CustomFilter(date.Date{}, date.MustParse("2025-01-31"))},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if err != nil {
			t.Errorf("ParseFilter(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got, cmpOpts); diff != "" {
			t.Errorf("ParseFilter(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
		back, err := ParseFilter(got.String())
		if err != nil || back != got {
			t.Errorf("ParseFilter(%q) = %v, %v, want %v", got.String(), back, err, got)
		}
	}

	for _, in := range []string{"2024:q5", "2024:12", "2024:-1", "yesterday", "custom:2025-01-01", "custom:2025-02-01..2025-01-01"} {
		if _, err := ParseFilter(in); err == nil {
			t.Errorf("ParseFilter(%q) should fail", in)
		}
	}
}

func TestFilter_Label(t *testing.T) {
	today := date.MustParse("2025-06-15")
	tests := []struct {
		f    Filter
		want string
	}{
		{AllTimeFilter(), "All time"},
		{WeekFilter(), "This week"},
		{YearFilter(2024), "2024"},
		{QuarterFilter(2024, 2), "2024-Q2"},
		{MonthFilter(2024, time.March), "March 2024"},
		{CustomFilter(date.MustParse("2025-01-10"), date.MustParse("2025-01-20")), "2025-01-10..2025-01-20"},
	}
	for _, tt := range tests {
		if got := tt.f.Label(today); got != tt.want {
			t.Errorf("%v.Label() = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestSelectableYears(t *testing.T) {
	got := SelectableYears(date.MustParse("2025-06-15"))
	want := []int{2023, 2024, 2025, 2026, 2027, 2028, 2029, 2030}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SelectableYears() mismatch (-want +got):\n%s", diff)
	}
}

func TestPeriodSelector(t *testing.T) {
	today := date.MustParse("2025-06-15")
	s := NewPeriodSelector(today)
	if s.Period() != "all_time" || s.Year() != 2025 || s.YearSelectable() {
		t.Fatalf("NewPeriodSelector() = %s %d, want all_time 2025", s.Period(), s.Year())
	}

	if err := s.SetPeriod("q2"); err != nil {
		t.Fatalf("SetPeriod(q2) unexpected error: %v", err)
	}
	s.SetYear(2024)
	if got := s.Filter(); got != QuarterFilter(2024, 2) {
		t.Errorf("Filter() = %v, want 2024:q2", got)
	}
	if !s.YearSelectable() {
		t.Errorf("YearSelectable() = false for a quarter")
	}

	if err := s.SetPeriod("custom"); err != nil {
		t.Fatalf("SetPeriod(custom) unexpected error: %v", err)
	}
	want := CustomFilter(date.MustParse("2025-06-01"), today)
	if got := s.Filter(); got != want {
		t.Errorf("default custom Filter() = %v, want %v", got, want)
	}

	if err := s.SetPeriod("q9"); err == nil {
		t.Errorf("SetPeriod(q9) should fail")
	}
	if s.Period() != "custom" {
		t.Errorf("a rejected period changed the selection to %q", s.Period())
	}

	if err := s.Set(MonthFilter(2023, time.February)); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if s.Period() != "1" || s.Year() != 2023 {
		t.Errorf("Set(2023:1) gave %s %d", s.Period(), s.Year())
	}
}
