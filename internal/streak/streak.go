// Package streak tracks consecutive-day learning activity. Day boundaries
// are calendar days, not 24-hour windows, so activity at 23:50 and 00:10
// the next day counts as two consecutive days.
package streak

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ErrOutOfOrder is returned when an activity timestamp predates the last
// recorded activity day. Out-of-order events must not corrupt the streak.
var ErrOutOfOrder = errors.New("activity timestamp predates last recorded activity")

// Well-known activity labels. Entries may carry any label; these are the
// ones the rest of the app emits and aggregates over.
const (
	ActivityLesson = "lesson-completed"
	ActivityQuiz   = "quiz-completed"
)

// Entry is one logged activity.
type Entry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Activity string    `json:"activity"`
	Points   int       `json:"points"`
}

// Milestone marks a streak length worth celebrating. Once achieved it
// stays achieved even if the streak later breaks.
type Milestone struct {
	Threshold int    `json:"threshold"`
	Title     string `json:"title"`
	Achieved  bool   `json:"achieved"`
}

// Record is the singleton streak state for one learner.
type Record struct {
	Current      int         `json:"currentStreak"`
	Longest      int         `json:"longestStreak"`
	LastActivity *time.Time  `json:"lastActivityDate"`
	History      []Entry     `json:"streakHistory"`
	Milestones   []Milestone `json:"milestones"`
}

// DefaultMilestones returns the standard milestone ladder.
func DefaultMilestones() []Milestone {
	return []Milestone{
		{Threshold: 3, Title: "Getting Started"},
		{Threshold: 7, Title: "One Week Strong"},
		{Threshold: 14, Title: "Two Week Streak"},
		{Threshold: 30, Title: "Monthly Master"},
		{Threshold: 100, Title: "Century Club"},
	}
}

// NewRecord returns an empty streak record with the default milestones.
func NewRecord() *Record {
	return &Record{Milestones: DefaultMilestones()}
}

func (r *Record) clone() *Record {
	out := *r
	out.History = slices.Clone(r.History)
	out.Milestones = slices.Clone(r.Milestones)
	if r.LastActivity != nil {
		last := *r.LastActivity
		out.LastActivity = &last
	}
	return &out
}

// startOfDay truncates a timestamp to midnight of its calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// calendarDays returns the whole calendar days from earlier to later.
func calendarDays(later, earlier time.Time) int {
	return int(startOfDay(later).Sub(startOfDay(earlier)).Hours() / 24)
}

// Update records a qualifying activity and returns the updated streak
// state. The input record is not mutated. Same-day activity appends to
// history without advancing the streak; a gap of more than one day resets
// the current streak to 1 while the longest streak is preserved.
func Update(rec *Record, at time.Time, activity string, points int) (*Record, error) {
	out := rec.clone()

	switch {
	case out.LastActivity == nil:
		out.Current = 1
	default:
		daysDiff := calendarDays(at, *out.LastActivity)
		switch {
		case daysDiff < 0:
			return nil, ErrOutOfOrder
		case daysDiff == 0:
			// Same calendar day: streak count unchanged.
		case daysDiff == 1:
			out.Current++
		default:
			out.Current = 1
		}
	}

	if out.Current > out.Longest {
		out.Longest = out.Current
	}

	day := startOfDay(at)
	out.LastActivity = &day
	out.History = append(out.History, Entry{
		ID:       uuid.NewString(),
		Date:     at,
		Activity: activity,
		Points:   points,
	})

	for i := range out.Milestones {
		if !out.Milestones[i].Achieved && out.Milestones[i].Threshold <= out.Current {
			out.Milestones[i].Achieved = true
		}
	}
	return out, nil
}

// TotalPoints sums the points awarded across the whole history.
func (r *Record) TotalPoints() int {
	total := 0
	for _, e := range r.History {
		total += e.Points
	}
	return total
}

// AchievedMilestones returns the milestones reached so far.
func (r *Record) AchievedMilestones() []Milestone {
	var out []Milestone
	for _, m := range r.Milestones {
		if m.Achieved {
			out = append(out, m)
		}
	}
	return out
}
