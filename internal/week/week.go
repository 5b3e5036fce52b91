// Package week holds the simulation calendar: days of the week and the
// global day index shared by history and planning.
package week

import "fmt"

// DaysPerWeek is the number of planned days in a simulated week.
const DaysPerWeek = 7

// Day is a day of the week, Monday first.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Days returns the seven days in order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// Number returns the 1-based position of the day in the week.
func (d Day) Number() int {
	return int(d) + 1
}

func (d Day) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// ParseDay converts a day name back to a Day.
func ParseDay(s string) (Day, error) {
	for i, name := range dayNames {
		if name == s {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// GlobalDay returns the sequential day index (week-1)*7 + day number.
// Week 1 Monday is day 1.
func GlobalDay(weekNum int, d Day) int {
	return (weekNum-1)*DaysPerWeek + d.Number()
}

// Split converts a global day index back into its week and day.
func Split(globalDay int) (int, Day) {
	return (globalDay-1)/DaysPerWeek + 1, Day((globalDay - 1) % DaysPerWeek)
}
