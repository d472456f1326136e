package progress

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fullstackacademy/academy/internal/registry"
)

var (
	// ErrUnknownModule is returned when an operation names a slug the
	// registry does not declare.
	ErrUnknownModule = errors.New("unknown module")

	// ErrInvalidScore is returned for quiz scores outside 0..100.
	ErrInvalidScore = errors.New("quiz score must be between 0 and 100")
)

// Engine applies progress updates against a loaded registry. It holds no
// learner state itself; callers pass a Snapshot in and get a new one back.
type Engine struct {
	reg *registry.Registry

	// lessonTotals maps slug to the actual number of authored lessons.
	// Falls back to the registry's requiredLessons threshold when a
	// module has no entry.
	lessonTotals map[string]int
}

// NewEngine builds an engine. lessonTotals may be nil; pass the counts
// from loaded content when available so completion tracks real lessons
// rather than the declared minimum.
func NewEngine(reg *registry.Registry, lessonTotals map[string]int) *Engine {
	return &Engine{reg: reg, lessonTotals: lessonTotals}
}

func (e *Engine) totalLessons(m *registry.Module) int {
	if n, ok := e.lessonTotals[m.Slug]; ok && n > 0 {
		return n
	}
	return m.Thresholds.RequiredLessons
}

// ensure returns the record for slug in snap, creating it on first
// interaction. Records are never deleted once created.
func (e *Engine) ensure(snap Snapshot, m *registry.Module, at time.Time) *Record {
	if rec, ok := snap[m.Slug]; ok {
		rec.TotalLessons = e.totalLessons(m)
		return rec
	}
	rec := &Record{
		ModuleSlug:   m.Slug,
		Tier:         m.Tier,
		TotalLessons: e.totalLessons(m),
		Status:       NotStarted,
		StartedAt:    at,
	}
	snap[m.Slug] = rec
	return rec
}

func (e *Engine) lookup(slug string) (registry.Module, error) {
	m, err := e.reg.Module(slug)
	if err != nil {
		return registry.Module{}, fmt.Errorf("%w: %q", ErrUnknownModule, slug)
	}
	return m, nil
}

// refreshStatus recomputes a record's completion status. A module is
// complete when every lesson is done and, if the module gates on a quiz,
// the recorded score meets the passing threshold.
func (e *Engine) refreshStatus(rec *Record, m *registry.Module) {
	allLessons := rec.TotalLessons > 0 && len(rec.CompletedLessons) >= rec.TotalLessons
	quizOK := !m.RequiresQuiz() ||
		(rec.QuizScore != nil && *rec.QuizScore >= e.reg.PassingScoreFor(m.Slug))

	switch {
	case allLessons && quizOK:
		rec.Status = Completed
	case len(rec.CompletedLessons) > 0 || rec.QuizScore != nil || rec.TimeSpentMinutes > 0:
		rec.Status = InProgress
	default:
		rec.Status = NotStarted
	}
}

// RecordLessonCompletion marks a lesson done. Completing the same lesson
// twice is a no-op beyond the activity timestamp.
func (e *Engine) RecordLessonCompletion(snap Snapshot, slug, lessonID string, at time.Time) (Snapshot, error) {
	m, err := e.lookup(slug)
	if err != nil {
		return nil, err
	}
	out := snap.Clone()
	rec := e.ensure(out, &m, at)
	if !rec.hasLesson(lessonID) {
		rec.CompletedLessons = append(rec.CompletedLessons, lessonID)
		sort.Strings(rec.CompletedLessons)
	}
	rec.LastActivity = at
	e.refreshStatus(rec, &m)
	return out, nil
}

// RecordQuizScore stores a quiz result. Later attempts overwrite earlier
// ones, but completion never reverts once reached.
func (e *Engine) RecordQuizScore(snap Snapshot, slug string, score int, at time.Time) (Snapshot, error) {
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidScore, score)
	}
	m, err := e.lookup(slug)
	if err != nil {
		return nil, err
	}
	out := snap.Clone()
	rec := e.ensure(out, &m, at)
	rec.QuizScore = &score
	rec.LastActivity = at
	if rec.Status != Completed {
		e.refreshStatus(rec, &m)
	}
	return out, nil
}

// RecordTimeSpent accumulates study time in minutes.
func (e *Engine) RecordTimeSpent(snap Snapshot, slug string, minutes int, at time.Time) (Snapshot, error) {
	if minutes < 0 {
		return nil, fmt.Errorf("time spent must be non-negative, got %d", minutes)
	}
	m, err := e.lookup(slug)
	if err != nil {
		return nil, err
	}
	out := snap.Clone()
	rec := e.ensure(out, &m, at)
	rec.TimeSpentMinutes += minutes
	rec.LastActivity = at
	if rec.Status == NotStarted && minutes > 0 {
		rec.Status = InProgress
	}
	return out, nil
}

// CompletedModules returns the set of completed module slugs, suitable for
// the registry's unlock checks.
func (e *Engine) CompletedModules(snap Snapshot) map[string]bool {
	out := make(map[string]bool)
	for slug, rec := range snap {
		if rec.Status == Completed {
			out[slug] = true
		}
	}
	return out
}

// OverallProgress returns the percentage of active modules completed,
// rounded to the nearest integer. Zero active modules yields zero.
func (e *Engine) OverallProgress(snap Snapshot) int {
	active := e.reg.ActiveModules()
	if len(active) == 0 {
		return 0
	}
	completed := 0
	for _, m := range active {
		if rec, ok := snap[m.Slug]; ok && rec.Status == Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(active)) * 100))
}

// TierProgress returns the completion percentage for one tier's active
// modules. An empty tier yields zero.
func (e *Engine) TierProgress(snap Snapshot, tier registry.TierKey) int {
	mods := e.reg.ActiveModulesInTier(tier)
	if len(mods) == 0 {
		return 0
	}
	completed := 0
	for _, m := range mods {
		if rec, ok := snap[m.Slug]; ok && rec.Status == Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(mods)) * 100))
}

// TotalTimeSpent sums study minutes across all modules.
func (e *Engine) TotalTimeSpent(snap Snapshot) int {
	total := 0
	for _, rec := range snap {
		total += rec.TimeSpentMinutes
	}
	return total
}

// AverageQuizScore returns the mean of recorded quiz scores, rounded to
// the nearest integer, or zero when no quiz has been taken.
func (e *Engine) AverageQuizScore(snap Snapshot) int {
	sum, n := 0, 0
	for _, rec := range snap {
		if rec.QuizScore != nil {
			sum += *rec.QuizScore
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
