package budget

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/budget/date"
)

// Mode is the kind of window a Filter selects.
type Mode int

const (
	AllTime Mode = iota
	Year         // a year, optionally narrowed to a quarter or a month
	Week         // the current Monday to Sunday week
	Custom       // an inclusive range of dates
)

func (m Mode) String() string {
	switch m {
	case AllTime:
		return "all_time"
	case Year:
		return "year"
	case Week:
		return "week"
	case Custom:
		return "custom"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Filter is the period selector state. Its zero value selects all time.
type Filter struct {
	Mode Mode
	// Year mode.
	Year    int
	Quarter int        // 1 to 4, 0 for none
	Month   time.Month // 0 for none
	// Custom mode, a zero bound means unbounded.
	From, To date.Date
}

// AllTimeFilter selects every entry.
func AllTimeFilter() Filter { return Filter{Mode: AllTime} }

// YearFilter selects a full year.
func YearFilter(year int) Filter { return Filter{Mode: Year, Year: year} }

// QuarterFilter selects a quarter (1 to 4) of a year.
func QuarterFilter(year, q int) Filter { return Filter{Mode: Year, Year: year, Quarter: q} }

// MonthFilter selects a month of a year.
func MonthFilter(year int, m time.Month) Filter { return Filter{Mode: Year, Year: year, Month: m} }

// WeekFilter selects the week containing the current day.
func WeekFilter() Filter { return Filter{Mode: Week} }

// CustomFilter selects the entries dated from `from` to `to`, both included.
func CustomFilter(from, to date.Date) Filter { return Filter{Mode: Custom, From: from, To: to} }

// Validate checks that the filter state is consistent.
func (f Filter) Validate() error {
	switch f.Mode {
	case AllTime, Week:
		return nil
	case Year:
		if f.Quarter < 0 || f.Quarter > 4 {
			return invalid("period", "quarter %d is not in [1, 4]", f.Quarter)
		}
		if f.Month < 0 || f.Month > time.December {
			return invalid("period", "month %d is not in [1, 12]", f.Month)
		}
		if f.Quarter != 0 && f.Month != 0 {
			return invalid("period", "both a quarter and a month are selected")
		}
		return nil
	case Custom:
		if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
			return invalid("period", "%s is before %s", f.To, f.From)
		}
		return nil
	}
	return invalid("period", "unknown mode %d", f.Mode)
}

// Range returns the window selected by the filter relative to today. It reports false when the
// window is unbounded.
func (f Filter) Range(today date.Date) (date.Range, bool) {
	switch f.Mode {
	case Week:
		return date.NewRange(today, date.Weekly), true
	case Year:
		switch {
		case f.Quarter != 0:
			return date.Quarter(f.Year, f.Quarter), true
		case f.Month != 0:
			return date.Month(f.Year, f.Month), true
		default:
			return date.Year(f.Year), true
		}
	case Custom:
		if f.From.IsZero() || f.To.IsZero() {
			return date.Range{}, false
		}
		return date.Range{From: f.From, To: f.To}, true
	}
	return date.Range{}, false
}

// Match reports whether the entry belongs to the window selected by the filter.
//
// All time and a custom range with a missing bound accept everything. The week is the Monday
// to Sunday week containing today, whatever the selected year.
func (f Filter) Match(e Entry, today date.Date) bool {
	r, bounded := f.Range(today)
	if !bounded {
		return true
	}
	return r.Contains(e.Date)
}

// Predicate returns Match as a ledger filter.
func (f Filter) Predicate(today date.Date) func(Entry) bool {
	return func(e Entry) bool { return f.Match(e, today) }
}

// YearSelectable reports whether a year choice is meaningful in this mode.
func (f Filter) YearSelectable() bool { return f.Mode == Year }

// Label is a human name of the window.
func (f Filter) Label(today date.Date) string {
	switch f.Mode {
	case AllTime:
		return "All time"
	case Week:
		return "This week"
	case Custom:
		if r, ok := f.Range(today); ok {
			return r.Identifier()
		}
		return "All time"
	}
	r, _ := f.Range(today)
	return r.Identifier()
}

// String renders the filter as a token accepted by ParseFilter. Months are zero-indexed like
// the period selector of the original app.
func (f Filter) String() string {
	switch f.Mode {
	case AllTime:
		return "all_time"
	case Week:
		return "week"
	case Custom:
		var from, to string
		if !f.From.IsZero() {
			from = f.From.String()
		}
		if !f.To.IsZero() {
			to = f.To.String()
		}
		return "custom:" + from + ".." + to
	}
	switch {
	case f.Quarter != 0:
		return fmt.Sprintf("%d:q%d", f.Year, f.Quarter)
	case f.Month != 0:
		return fmt.Sprintf("%d:%d", f.Year, int(f.Month)-1)
	}
	return fmt.Sprintf("%d:all", f.Year)
}

// ParseFilter parses a period token:
//
//	all_time | week | custom:<from>..<to> | <year> | <year>:all | <year>:q1..q4 | <year>:<0..11>
//
// Months are zero-indexed. Custom bounds are optional dates.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "all", "all_time", "alltime":
		return AllTimeFilter(), nil
	case "week":
		return WeekFilter(), nil
	}

	if rest, ok := strings.CutPrefix(s, "custom:"); ok {
		from, to, found := strings.Cut(rest, "..")
		if !found {
			return Filter{}, invalid("period", "custom range %q must be <from>..<to>", rest)
		}
		f := Filter{Mode: Custom}
		var err error
		if from != "" {
			if f.From, err = date.Parse(from); err != nil {
				return Filter{}, err
			}
		}
		if to != "" {
			if f.To, err = date.Parse(to); err != nil {
				return Filter{}, err
			}
		}
		return f, f.Validate()
	}

	ys, sub, _ := strings.Cut(s, ":")
	year, err := strconv.Atoi(ys)
	if err != nil {
		return Filter{}, invalid("period", "unknown period %q", s)
	}
	f := YearFilter(year)
	switch {
	case sub == "" || sub == "all":
	case len(sub) == 2 && sub[0] == 'q':
		f.Quarter = int(sub[1] - '0')
		if f.Quarter < 1 || f.Quarter > 4 {
			return Filter{}, invalid("period", "unknown quarter %q", sub)
		}
	default:
		m, err := strconv.Atoi(sub)
		if err != nil || m < 0 || m > 11 {
			return Filter{}, invalid("period", "unknown month %q", sub)
		}
		f.Month = time.Month(m + 1)
	}
	return f, nil
}

// SelectableYears are the years offered by the year selector: two years back and five ahead.
func SelectableYears(today date.Date) []int {
	years := make([]int, 0, 8)
	for y := today.Year() - 2; y <= today.Year()+5; y++ {
		years = append(years, y)
	}
	return years
}

// PeriodSelector holds the inputs of the period selector: a period token, a year and the
// custom bounds, each kept while the others change.
type PeriodSelector struct {
	period   string
	year     int
	from, to date.Date
}

// NewPeriodSelector returns a selector on all time, with the current year preselected and a
// custom range going from the first of the month to today.
func NewPeriodSelector(today date.Date) *PeriodSelector {
	return &PeriodSelector{
		period: "all_time",
		year:   today.Year(),
		from:   today.StartOf(date.Monthly),
		to:     today,
	}
}

// SetPeriod selects a period: all_time, week, custom, all, q1 to q4 or a zero-indexed month.
func (s *PeriodSelector) SetPeriod(period string) error {
	period = strings.ToLower(strings.TrimSpace(period))
	switch period {
	case "all_time", "week", "custom":
	default:
		if _, err := ParseFilter(fmt.Sprintf("%d:%s", s.year, period)); err != nil {
			return err
		}
	}
	s.period = period
	return nil
}

// SetYear selects the year used by the year based periods.
func (s *PeriodSelector) SetYear(year int) { s.year = year }

// SetCustom sets the custom range bounds. Zero dates leave the range unbounded.
func (s *PeriodSelector) SetCustom(from, to date.Date) error {
	if err := CustomFilter(from, to).Validate(); err != nil {
		return err
	}
	s.from, s.to = from, to
	return nil
}

// Set replaces the whole state with the one of f.
func (s *PeriodSelector) Set(f Filter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	switch f.Mode {
	case AllTime:
		s.period = "all_time"
	case Week:
		s.period = "week"
	case Custom:
		s.period = "custom"
		s.from, s.to = f.From, f.To
	case Year:
		s.year = f.Year
		_, s.period, _ = strings.Cut(f.String(), ":")
	}
	return nil
}

// Period returns the selected period token.
func (s *PeriodSelector) Period() string { return s.period }

// Year returns the selected year.
func (s *PeriodSelector) Year() int { return s.year }

// Filter returns the filter induced by the selector.
func (s *PeriodSelector) Filter() Filter {
	switch s.period {
	case "all_time":
		return AllTimeFilter()
	case "week":
		return WeekFilter()
	case "custom":
		return CustomFilter(s.from, s.to)
	}
	f, err := ParseFilter(fmt.Sprintf("%d:%s", s.year, s.period))
	if err != nil {
		// SetPeriod only accepts parsable periods.
		panic(err)
	}
	return f
}

// YearSelectable reports whether the year choice applies to the selected period.
func (s *PeriodSelector) YearSelectable() bool { return s.Filter().YearSelectable() }
