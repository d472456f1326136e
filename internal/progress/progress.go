package progress

import (
	"slices"
	"time"

	"github.com/fullstackacademy/academy/internal/registry"
)

// CompletionStatus is a module's progress state for one learner.
type CompletionStatus string

const (
	NotStarted CompletionStatus = "not-started"
	InProgress CompletionStatus = "in-progress"
	Completed  CompletionStatus = "completed"
)

// Record is the per-module progress state. Completed lesson IDs are kept
// as a set rather than a counter so repeat completions never double-count.
type Record struct {
	ModuleSlug       string           `json:"moduleSlug"`
	Tier             registry.TierKey `json:"tier"`
	CompletedLessons []string         `json:"completedLessons"`
	TotalLessons     int              `json:"totalLessons"`
	QuizScore        *int             `json:"quizScore"`
	TimeSpentMinutes int              `json:"timeSpentMinutes"`
	Status           CompletionStatus `json:"completionStatus"`
	StartedAt        time.Time        `json:"startedAt"`
	LastActivity     time.Time        `json:"lastActivity"`
}

// LessonsCompleted returns the number of distinct lessons completed.
func (r *Record) LessonsCompleted() int {
	return len(r.CompletedLessons)
}

func (r *Record) hasLesson(id string) bool {
	return slices.Contains(r.CompletedLessons, id)
}

func (r *Record) clone() *Record {
	out := *r
	out.CompletedLessons = slices.Clone(r.CompletedLessons)
	if r.QuizScore != nil {
		score := *r.QuizScore
		out.QuizScore = &score
	}
	return &out
}

// Snapshot maps module slug to progress record. Engine operations treat
// snapshots as immutable and return updated copies.
type Snapshot map[string]*Record

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for slug, rec := range s {
		out[slug] = rec.clone()
	}
	return out
}
