package content

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fullstackacademy/academy/internal/registry"
)

// Mode selects how strictly content-completeness deficits are treated.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeCI          Mode = "ci"
	ModeProduction  Mode = "production"
)

// Strict reports whether completeness deficits are fatal in this mode.
func (m Mode) Strict() bool {
	return m == ModeCI || m == ModeProduction
}

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDevelopment, ModeCI, ModeProduction:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown validation mode %q (want development, ci, or production)", s)
	}
}

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Category groups findings for reporting.
type Category string

const (
	CategorySchema    Category = "schema"
	CategoryThreshold Category = "threshold"
	CategoryQuality   Category = "quality"
	CategoryReference Category = "reference"
	CategoryOrphan    Category = "orphan"
)

// Finding is a single validation result. Validators accumulate findings
// and never panic or fail fast on content problems.
type Finding struct {
	Severity Severity
	Category Category
	Module   string
	Message  string
}

func (f Finding) String() string {
	if f.Module == "" {
		return fmt.Sprintf("[%s] %s", f.Category, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Category, f.Module, f.Message)
}

// Report collects every finding of a validation run.
type Report struct {
	Errors   []Finding
	Warnings []Finding
}

func (r *Report) add(f Finding) {
	if f.Severity == SeverityError {
		r.Errors = append(r.Errors, f)
	} else {
		r.Warnings = append(r.Warnings, f)
	}
}

// Fatal reports whether the run found blocking errors. Demotion of
// completeness deficits in development mode happens when findings are
// created, so any finding left in Errors is fatal.
func (r *Report) Fatal() bool {
	return len(r.Errors) > 0
}

// Minimum content quality thresholds. Short prose is a warning, never an
// error.
const (
	minIntroWords       = 50
	minObjectives       = 2
	minExplanationChars = 50
	multipleChoiceArity = 4
)

// Validate checks loaded content documents against the registry's declared
// thresholds and schemas. loadFindings from LoadDir should be passed in so
// one report carries everything.
func Validate(reg *registry.Registry, docs *Docs, loadFindings []Finding, mode Mode) *Report {
	report := &Report{}
	for _, f := range loadFindings {
		report.add(f)
	}

	for _, mod := range reg.AllModules() {
		validateModuleLessons(report, &mod, docs, mode)
		validateModuleQuiz(report, &mod, docs, mode)
	}

	reportOrphans(report, reg, docs)
	reportIntegrity(report, reg)
	return report
}

// thresholdSeverity demotes completeness deficits to warnings outside
// strict modes. Structural findings never pass through here.
func thresholdSeverity(mode Mode) Severity {
	if mode.Strict() {
		return SeverityError
	}
	return SeverityWarning
}

func validateModuleLessons(report *Report, mod *registry.Module, docs *Docs, mode Mode) {
	lessons, ok := docs.Lessons[mod.Slug]
	if !ok {
		if mod.Status == registry.StatusActive {
			report.add(Finding{
				Severity: thresholdSeverity(mode),
				Category: CategoryThreshold,
				Module:   mod.Slug,
				Message:  "lessons file missing for active module",
			})
		}
		return
	}

	if len(lessons) < mod.Thresholds.RequiredLessons {
		report.add(Finding{
			Severity: thresholdSeverity(mode),
			Category: CategoryThreshold,
			Module:   mod.Slug,
			Message: fmt.Sprintf("has %d lessons, requires %d",
				len(lessons), mod.Thresholds.RequiredLessons),
		})
	}

	seenIDs := make(map[string]bool)
	seenOrders := make(map[int]bool)
	for _, lesson := range lessons {
		if seenIDs[lesson.ID] {
			report.add(Finding{
				Severity: SeverityError,
				Category: CategorySchema,
				Module:   mod.Slug,
				Message:  fmt.Sprintf("duplicate lesson id %q", lesson.ID),
			})
		}
		seenIDs[lesson.ID] = true

		if seenOrders[lesson.Order] {
			report.add(Finding{
				Severity: SeverityWarning,
				Category: CategoryQuality,
				Module:   mod.Slug,
				Message:  fmt.Sprintf("lesson %q duplicates order %d", lesson.ID, lesson.Order),
			})
		}
		seenOrders[lesson.Order] = true

		if words := len(strings.Fields(lesson.Intro)); words < minIntroWords {
			report.add(Finding{
				Severity: SeverityWarning,
				Category: CategoryQuality,
				Module:   mod.Slug,
				Message:  fmt.Sprintf("lesson %q intro is %d words, recommend at least %d", lesson.ID, words, minIntroWords),
			})
		}
		if len(lesson.Objectives) < minObjectives {
			report.add(Finding{
				Severity: SeverityWarning,
				Category: CategoryQuality,
				Module:   mod.Slug,
				Message:  fmt.Sprintf("lesson %q has %d objectives, recommend at least %d", lesson.ID, len(lesson.Objectives), minObjectives),
			})
		}
	}
}

func validateModuleQuiz(report *Report, mod *registry.Module, docs *Docs, mode Mode) {
	quiz, ok := docs.Quizzes[mod.Slug]
	if !ok {
		if mod.Status == registry.StatusActive && mod.RequiresQuiz() {
			report.add(Finding{
				Severity: thresholdSeverity(mode),
				Category: CategoryThreshold,
				Module:   mod.Slug,
				Message:  "quiz file missing for active module",
			})
		}
		return
	}

	if len(quiz.Questions) < mod.Thresholds.RequiredQuestions {
		report.add(Finding{
			Severity: thresholdSeverity(mode),
			Category: CategoryThreshold,
			Module:   mod.Slug,
			Message: fmt.Sprintf("quiz has %d questions, requires %d",
				len(quiz.Questions), mod.Thresholds.RequiredQuestions),
		})
	}

	if quiz.TotalQuestions != len(quiz.Questions) {
		report.add(Finding{
			Severity: SeverityError,
			Category: CategorySchema,
			Module:   mod.Slug,
			Message: fmt.Sprintf("totalQuestions is %d but questions list has %d entries",
				quiz.TotalQuestions, len(quiz.Questions)),
		})
	}

	seenIDs := make(map[string]bool)
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if seenIDs[q.ID] {
			report.add(Finding{
				Severity: SeverityError,
				Category: CategorySchema,
				Module:   mod.Slug,
				Message:  fmt.Sprintf("duplicate question id %q", q.ID),
			})
		}
		seenIDs[q.ID] = true

		validateQuestion(report, mod.Slug, q)
	}
}

func validateQuestion(report *Report, slug string, q *Question) {
	if q.Type() == MultipleChoice {
		if len(q.Choices) != multipleChoiceArity {
			report.add(Finding{
				Severity: SeverityError,
				Category: CategorySchema,
				Module:   slug,
				Message:  fmt.Sprintf("question %q has %d choices, expected %d", q.ID, len(q.Choices), multipleChoiceArity),
			})
		}
		if _, err := q.resolveCorrectIndex(); err != nil {
			report.add(Finding{
				Severity: SeverityError,
				Category: CategorySchema,
				Module:   slug,
				Message:  err.Error(),
			})
		}
	}

	if len(q.Explanation) < minExplanationChars {
		report.add(Finding{
			Severity: SeverityWarning,
			Category: CategoryQuality,
			Module:   slug,
			Message:  fmt.Sprintf("question %q explanation is %d chars, recommend at least %d", q.ID, len(q.Explanation), minExplanationChars),
		})
	}
}

// reportOrphans flags content files that no registry module references.
// Orphans are always warnings.
func reportOrphans(report *Report, reg *registry.Registry, docs *Docs) {
	var orphans []string
	for slug := range docs.Lessons {
		if !reg.Has(slug) {
			orphans = append(orphans, "lessons/"+slug+".json")
		}
	}
	for slug := range docs.Quizzes {
		if !reg.Has(slug) {
			orphans = append(orphans, "quizzes/"+slug+".json")
		}
	}
	sort.Strings(orphans)
	for _, path := range orphans {
		report.add(Finding{
			Severity: SeverityWarning,
			Category: CategoryOrphan,
			Message:  fmt.Sprintf("%s is not referenced by any registry module", path),
		})
	}
}

// reportIntegrity re-runs the registry's cycle and route checks and
// surfaces its lint warnings. Load already enforces these; repeating them
// here keeps a stale in-memory registry from slipping through a pipeline.
func reportIntegrity(report *Report, reg *registry.Registry) {
	for _, problem := range reg.CheckIntegrity() {
		report.add(Finding{
			Severity: SeverityError,
			Category: CategoryReference,
			Message:  problem,
		})
	}
	for _, warn := range reg.Lint() {
		report.add(Finding{
			Severity: SeverityWarning,
			Category: CategoryQuality,
			Message:  warn,
		})
	}
}
