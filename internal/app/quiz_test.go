package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/fullstackacademy/academy/internal/content"
)

func intp(i int) *int { return &i }

func testQuiz() *content.Quiz {
	return &content.Quiz{
		Title:          "Test Quiz",
		TotalQuestions: 2,
		PassingScore:   70,
		Questions: []content.Question{
			{
				ID:           "q1",
				Question:     "Pick B",
				Choices:      []string{"A", "B", "C", "D"},
				CorrectIndex: intp(1),
				Explanation:  "B was the one",
				QuestionType: content.MultipleChoice,
			},
			{
				ID:            "q2",
				Question:      "Name the write operation",
				CorrectAnswer: "mutation",
				Explanation:   "Mutations write, queries read",
				QuestionType:  content.OpenEnded,
			},
		},
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func step(t *testing.T, m tea.Model, msg tea.Msg) QuizModel {
	t.Helper()
	next, _ := m.Update(msg)
	qm, ok := next.(QuizModel)
	if !ok {
		t.Fatalf("model type = %T", next)
	}
	return qm
}

func TestQuizFullRun(t *testing.T) {
	m := NewQuizModel("GraphQL", testQuiz(), 70)

	// Question 1: move down to B and submit.
	m = step(t, m, specialKey(tea.KeyDown))
	m = step(t, m, specialKey(tea.KeyEnter))
	if m.phase != phaseFeedback {
		t.Fatalf("phase = %v, want feedback after submit", m.phase)
	}
	if m.correct != 1 {
		t.Fatalf("correct = %d, want 1", m.correct)
	}

	// Dismiss feedback, land on the open-ended question.
	m = step(t, m, keyPress(' '))
	if !m.openEnded {
		t.Fatal("second question should be open-ended")
	}

	// Type a wrong-cased but matching answer.
	for _, r := range "MUTATION" {
		m = step(t, m, keyPress(r))
	}
	m = step(t, m, specialKey(tea.KeyEnter))

	// Dismiss feedback to reach the summary.
	m = step(t, m, keyPress(' '))
	if m.phase != phaseDone {
		t.Fatalf("phase = %v, want done", m.phase)
	}

	result := m.Result()
	if !result.Finished || result.Answered != 2 || result.Correct != 2 {
		t.Errorf("result = %+v", result)
	}
	if result.Score != 100 {
		t.Errorf("score = %d, want 100", result.Score)
	}
}

func TestQuizWrongAnswerScoring(t *testing.T) {
	m := NewQuizModel("GraphQL", testQuiz(), 70)

	// Submit A (wrong) on question 1.
	m = step(t, m, specialKey(tea.KeyEnter))
	m = step(t, m, keyPress(' '))

	// Leave the open-ended answer blank against an expected answer.
	m = step(t, m, specialKey(tea.KeyEnter))
	m = step(t, m, keyPress(' '))

	result := m.Result()
	if result.Correct != 0 || result.Score != 0 {
		t.Errorf("result = %+v, want zero score", result)
	}
	if !result.Finished {
		t.Error("run should count as finished")
	}
}

func TestQuizEscAbandonsRun(t *testing.T) {
	m := NewQuizModel("GraphQL", testQuiz(), 70)
	m = step(t, m, specialKey(tea.KeyEscape))

	result := m.Result()
	if result.Finished {
		t.Error("abandoned run must not count as finished")
	}
}

func TestGradeOpenEnded(t *testing.T) {
	q := &content.Question{CorrectAnswer: "  Virtual DOM "}
	if !gradeOpenEnded(q, "virtual dom") {
		t.Error("case and whitespace should not matter")
	}
	if gradeOpenEnded(q, "real dom") {
		t.Error("mismatched answer accepted")
	}

	free := &content.Question{}
	if !gradeOpenEnded(free, "any reflection") {
		t.Error("question without expected answer should accept prose")
	}
	if gradeOpenEnded(free, "   ") {
		t.Error("blank answer should not pass")
	}
}
