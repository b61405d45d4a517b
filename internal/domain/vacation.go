package domain

import "time"

// VacationDay excludes a date from carry-forward, streak and rate bookkeeping.
type VacationDay struct {
	Date time.Time
	Note string
}
