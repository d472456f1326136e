package content

import "fmt"

// CodeExample is the worked example attached to a lesson.
type CodeExample struct {
	Example     string `json:"example"`
	Explanation string `json:"explanation"`
	Language    string `json:"language"`
}

// Pitfall documents a common mistake and its fix.
type Pitfall struct {
	Mistake  string `json:"mistake"`
	Solution string `json:"solution"`
	Severity string `json:"severity"` // low, medium, high, critical
}

// Exercise is a hands-on task with verifiable checkpoints.
type Exercise struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Checkpoints []string `json:"checkpoints"`
}

// Lesson is one entry of a module's lessons document.
type Lesson struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Order            int         `json:"order"`
	Objectives       []string    `json:"objectives"`
	Intro            string      `json:"intro"`
	CodeExample      CodeExample `json:"codeExample"`
	Pitfalls         []Pitfall   `json:"pitfalls,omitempty"`
	Exercises        []Exercise  `json:"exercises,omitempty"`
	EstimatedMinutes int         `json:"estimatedMinutes"`
	Difficulty       string      `json:"difficulty"`
	Tags             []string    `json:"tags,omitempty"`
}

// QuestionType distinguishes selectable from free-form questions.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	OpenEnded      QuestionType = "open-ended"
)

// Question is a single quiz question. Authored documents indicate the
// correct answer either with correctIndex or with the legacy correctAnswer
// string; Normalize resolves the pair into a canonical CorrectIndex so
// downstream consumers never see the union.
type Question struct {
	ID              string       `json:"id"`
	Question        string       `json:"question"`
	Topic           string       `json:"topic"`
	Difficulty      string       `json:"difficulty"`
	Choices         []string     `json:"choices,omitempty"`
	CorrectIndex    *int         `json:"correctIndex,omitempty"`
	CorrectAnswer   string       `json:"correctAnswer,omitempty"`
	Explanation     string       `json:"explanation"`
	IndustryContext string       `json:"industryContext,omitempty"`
	Tags            []string     `json:"tags,omitempty"`
	QuestionType    QuestionType `json:"questionType,omitempty"`
	EstimatedTime   int          `json:"estimatedTime,omitempty"` // seconds
}

// Type returns the question type, defaulting legacy documents to
// multiple-choice.
func (q *Question) Type() QuestionType {
	if q.QuestionType == "" {
		return MultipleChoice
	}
	return q.QuestionType
}

// Normalize resolves the correctness indicator to a canonical CorrectIndex
// and clears the legacy field. Open-ended questions carry the expected
// answer in CorrectAnswer and are left as-is.
func (q *Question) Normalize() error {
	if q.Type() == OpenEnded {
		return nil
	}

	idx, err := q.resolveCorrectIndex()
	if err != nil {
		return err
	}
	q.CorrectIndex = &idx
	q.CorrectAnswer = ""
	return nil
}

func (q *Question) resolveCorrectIndex() (int, error) {
	if q.CorrectIndex != nil {
		idx := *q.CorrectIndex
		if idx < 0 || idx >= len(q.Choices) {
			return 0, fmt.Errorf("question %q: correctIndex %d out of range for %d choices", q.ID, idx, len(q.Choices))
		}
		return idx, nil
	}

	if q.CorrectAnswer == "" {
		return 0, fmt.Errorf("question %q: no correctness indicator (correctIndex or correctAnswer)", q.ID)
	}

	found := -1
	for i, choice := range q.Choices {
		if choice != q.CorrectAnswer {
			continue
		}
		if found >= 0 {
			return 0, fmt.Errorf("question %q: correctAnswer %q matches multiple choices", q.ID, q.CorrectAnswer)
		}
		found = i
	}
	if found < 0 {
		return 0, fmt.Errorf("question %q: correctAnswer %q matches no choice", q.ID, q.CorrectAnswer)
	}
	return found, nil
}

// Quiz is a module's quiz document.
type Quiz struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	TotalQuestions int        `json:"totalQuestions"`
	PassingScore   int        `json:"passingScore"`
	TimeLimit      int        `json:"timeLimit"` // minutes
	Questions      []Question `json:"questions"`
}
