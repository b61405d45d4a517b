package app

import (
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/scheduler"
)

type TodayRequest struct {
	Date time.Time
}

// SessionView is the state of one completable unit.
type SessionView struct {
	Slot      string
	Completed bool
	Skipped   bool
	Value     *float64
}

// TodayItem is one activity shown for the day. Containers carry their due
// children in Children.
type TodayItem struct {
	Activity      *domain.Activity
	Config        domain.StructuralConfig // effective on the day
	Scheduled     bool
	CarriedFrom   *time.Time
	Sessions      []SessionView
	Score         scheduler.Score
	Total         float64 // cumulative aggregate for the day
	CurrentStreak int
	Children      []TodayItem
}

type TodayResponse struct {
	Date   time.Time
	Status scheduler.DayStatus
	Items  []TodayItem
}

type StatsRequest struct {
	ActivityID string // empty means every activity
	From       time.Time
	To         time.Time
	Today      time.Time
}

type ActivityStatsView struct {
	Activity *domain.Activity
	Stats    scheduler.Stats
}

type StatsResponse struct {
	From       time.Time
	To         time.Time
	Activities []ActivityStatsView
	Series     []scheduler.DayStatus
	Overall    float64 // mean rate over days with at least one due unit
}

// Digest is the daily summary produced by the digest command.
type Digest struct {
	Date     time.Time
	Status   scheduler.DayStatus
	Due      []string
	Overdue  []OverdueView
	Streaks  []StreakView
	Vacation bool
}

type OverdueView struct {
	Name  string
	Since time.Time
}

type StreakView struct {
	Name   string
	Streak int
}
