package date

import "fmt"

// Period is a calendar period a date belongs to. Weeks run from Monday to Sunday.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

var periodNames = [...]string{"day", "week", "month", "quarter", "year"}

func (p Period) String() string {
	if p < Daily || p > Yearly {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}
