package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Docs holds every content document loaded from disk, keyed by module slug.
type Docs struct {
	Lessons map[string][]Lesson
	Quizzes map[string]*Quiz
}

// LoadDir reads lesson and quiz documents from root/lessons and
// root/quizzes. File-level problems (unreadable file, malformed JSON,
// schema violation) are accumulated as structural findings rather than
// aborting the load, so a single run reports everything.
func LoadDir(root string) (*Docs, []Finding) {
	docs := &Docs{
		Lessons: make(map[string][]Lesson),
		Quizzes: make(map[string]*Quiz),
	}
	var findings []Finding

	findings = append(findings, loadLessons(filepath.Join(root, "lessons"), docs)...)
	findings = append(findings, loadQuizzes(filepath.Join(root, "quizzes"), docs)...)
	return docs, findings
}

func loadLessons(dir string, docs *Docs) []Finding {
	var findings []Finding
	forEachJSON(dir, &findings, func(slug string, raw []byte) {
		if err := ValidateLessonDoc(raw); err != nil {
			findings = append(findings, schemaFinding(slug, fmt.Sprintf("lessons document: %v", err)))
			return
		}
		var lessons []Lesson
		if err := json.Unmarshal(raw, &lessons); err != nil {
			findings = append(findings, schemaFinding(slug, fmt.Sprintf("lessons document: %v", err)))
			return
		}
		docs.Lessons[slug] = lessons
	})
	return findings
}

func loadQuizzes(dir string, docs *Docs) []Finding {
	var findings []Finding
	forEachJSON(dir, &findings, func(slug string, raw []byte) {
		if err := ValidateQuizDoc(raw); err != nil {
			findings = append(findings, schemaFinding(slug, fmt.Sprintf("quiz document: %v", err)))
			return
		}
		var quiz Quiz
		if err := json.Unmarshal(raw, &quiz); err != nil {
			findings = append(findings, schemaFinding(slug, fmt.Sprintf("quiz document: %v", err)))
			return
		}
		docs.Quizzes[slug] = &quiz
	})
	return findings
}

// forEachJSON invokes fn for every .json file in dir. A missing directory
// is not a finding; per-module absence is judged by the validator against
// the registry.
func forEachJSON(dir string, findings *[]Finding, fn func(slug string, raw []byte)) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		*findings = append(*findings, schemaFinding("", fmt.Sprintf("read content directory %s: %v", dir, err)))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ".json")
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			*findings = append(*findings, schemaFinding(slug, fmt.Sprintf("read %s: %v", entry.Name(), err)))
			continue
		}
		fn(slug, raw)
	}
}

func schemaFinding(slug, msg string) Finding {
	return Finding{
		Severity: SeverityError,
		Category: CategorySchema,
		Module:   slug,
		Message:  msg,
	}
}
