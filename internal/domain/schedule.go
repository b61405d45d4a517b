package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Schedule is the recurrence rule of an activity. Type selects which payload
// field is meaningful: Weekdays for weekly, MonthDays for monthly, Date for adhoc.
type Schedule struct {
	Type      ScheduleType
	Weekdays  []time.Weekday
	MonthDays []int
	Date      *time.Time
}

func DailySchedule() Schedule { return Schedule{Type: ScheduleDaily} }

func StickySchedule() Schedule { return Schedule{Type: ScheduleSticky} }

func WeeklySchedule(days ...time.Weekday) Schedule {
	return Schedule{Type: ScheduleWeekly, Weekdays: sortedWeekdays(days)}
}

func MonthlySchedule(days ...int) Schedule {
	return Schedule{Type: ScheduleMonthly, MonthDays: sortedInts(days)}
}

func AdhocSchedule(date time.Time) Schedule {
	d := Day(date)
	return Schedule{Type: ScheduleAdhoc, Date: &d}
}

// Validate checks that the payload matches the schedule type.
func (s Schedule) Validate() error {
	switch s.Type {
	case ScheduleDaily, ScheduleSticky:
		return nil
	case ScheduleWeekly:
		if len(s.Weekdays) == 0 {
			return NewValidationError("schedule", "weekly schedule needs at least one weekday")
		}
		for _, wd := range s.Weekdays {
			if wd < time.Sunday || wd > time.Saturday {
				return NewValidationError("schedule", "invalid weekday %d", wd)
			}
		}
		return nil
	case ScheduleMonthly:
		if len(s.MonthDays) == 0 {
			return NewValidationError("schedule", "monthly schedule needs at least one day of month")
		}
		for _, d := range s.MonthDays {
			if d < 1 || d > 31 {
				return NewValidationError("schedule", "day of month %d out of range 1-31", d)
			}
		}
		return nil
	case ScheduleAdhoc:
		if s.Date == nil {
			return NewValidationError("schedule", "adhoc schedule needs a date")
		}
		return nil
	}
	return NewValidationError("schedule", "unknown schedule type %q", s.Type)
}

// HasWeekday reports whether wd is in the weekly set.
func (s Schedule) HasWeekday(wd time.Weekday) bool {
	for _, d := range s.Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}

// HasMonthDay reports whether day is in the monthly set.
func (s Schedule) HasMonthDay(day int) bool {
	for _, d := range s.MonthDays {
		if d == day {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so snapshots never alias live slices.
func (s Schedule) Clone() Schedule {
	out := Schedule{Type: s.Type}
	if s.Weekdays != nil {
		out.Weekdays = append([]time.Weekday(nil), s.Weekdays...)
	}
	if s.MonthDays != nil {
		out.MonthDays = append([]int(nil), s.MonthDays...)
	}
	if s.Date != nil {
		d := *s.Date
		out.Date = &d
	}
	return out
}

// String renders the compact form accepted by ParseSchedule, e.g. "weekly:mon,wed".
func (s Schedule) String() string {
	switch s.Type {
	case ScheduleWeekly:
		names := make([]string, len(s.Weekdays))
		for i, wd := range s.Weekdays {
			names[i] = strings.ToLower(wd.String()[:3])
		}
		return "weekly:" + strings.Join(names, ",")
	case ScheduleMonthly:
		days := make([]string, len(s.MonthDays))
		for i, d := range s.MonthDays {
			days[i] = strconv.Itoa(d)
		}
		return "monthly:" + strings.Join(days, ",")
	case ScheduleAdhoc:
		if s.Date == nil {
			return "adhoc"
		}
		return "adhoc:" + FormatDate(*s.Date)
	}
	return string(s.Type)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekday parses a weekday name or three-letter abbreviation.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, NewValidationError("schedule", "unknown weekday %q", s)
	}
	return wd, nil
}

// ParseSchedule parses the compact schedule form produced by Schedule.String.
func ParseSchedule(raw string) (Schedule, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	kind, payload, _ := strings.Cut(raw, ":")

	var s Schedule
	switch ScheduleType(kind) {
	case ScheduleDaily:
		s = DailySchedule()
	case ScheduleSticky:
		s = StickySchedule()
	case ScheduleWeekly:
		var days []time.Weekday
		for _, part := range splitList(payload) {
			wd, err := ParseWeekday(part)
			if err != nil {
				return Schedule{}, err
			}
			days = append(days, wd)
		}
		s = WeeklySchedule(days...)
	case ScheduleMonthly:
		var days []int
		for _, part := range splitList(payload) {
			d, err := strconv.Atoi(part)
			if err != nil {
				return Schedule{}, NewValidationError("schedule", "invalid day of month %q", part)
			}
			days = append(days, d)
		}
		s = MonthlySchedule(days...)
	case ScheduleAdhoc:
		date, err := ParseDate(payload)
		if err != nil {
			return Schedule{}, NewValidationError("schedule", "adhoc schedule: %v", err)
		}
		s = AdhocSchedule(date)
	default:
		return Schedule{}, NewValidationError("schedule", "unknown schedule %q", raw)
	}

	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func sortedWeekdays(days []time.Weekday) []time.Weekday {
	seen := make(map[time.Weekday]bool, len(days))
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedInts(vals []int) []int {
	seen := make(map[int]bool, len(vals))
	out := make([]int, 0, len(vals))
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

// FormatScheduleHuman returns a readable description like "Weekly: Mon, Wed".
func FormatScheduleHuman(s Schedule) string {
	switch s.Type {
	case ScheduleDaily:
		return "Daily"
	case ScheduleSticky:
		return "Until done"
	case ScheduleWeekly:
		days := make([]string, len(s.Weekdays))
		for i, wd := range s.Weekdays {
			days[i] = wd.String()[:3]
		}
		return fmt.Sprintf("Weekly: %s", strings.Join(days, ", "))
	case ScheduleMonthly:
		days := make([]string, len(s.MonthDays))
		for i, d := range s.MonthDays {
			days[i] = strconv.Itoa(d)
		}
		return fmt.Sprintf("Monthly: %s", strings.Join(days, ", "))
	case ScheduleAdhoc:
		if s.Date != nil {
			return fmt.Sprintf("Once on %s", FormatDate(*s.Date))
		}
	}
	return "One-time"
}
