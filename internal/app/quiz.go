// Package app hosts the interactive quiz runner.
package app

import (
	"fmt"
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/fullstackacademy/academy/internal/content"
	"github.com/fullstackacademy/academy/internal/ui/components"
	"github.com/fullstackacademy/academy/internal/ui/theme"
)

// QuizResult is the outcome of one quiz run.
type QuizResult struct {
	Answered int
	Correct  int
	Score    int
	Finished bool
}

type quizPhase int

const (
	phaseQuestion quizPhase = iota
	phaseFeedback
	phaseDone
)

// QuizModel steps through a quiz one question at a time. Multiple-choice
// questions use the selector component; open-ended ones a text input.
type QuizModel struct {
	moduleTitle  string
	quiz         *content.Quiz
	passingScore int

	idx       int
	phase     quizPhase
	mc        components.MultiChoice
	input     components.AnswerInput
	openEnded bool

	answered int
	correct  int
	quit     bool

	width  int
	height int
}

// NewQuizModel builds the model. Questions must already be normalized so
// every multiple-choice entry carries a canonical correct index.
func NewQuizModel(moduleTitle string, quiz *content.Quiz, passingScore int) QuizModel {
	m := QuizModel{
		moduleTitle:  moduleTitle,
		quiz:         quiz,
		passingScore: passingScore,
	}
	m.loadQuestion()
	return m
}

func (m *QuizModel) loadQuestion() {
	if m.idx >= len(m.quiz.Questions) {
		m.phase = phaseDone
		return
	}
	q := &m.quiz.Questions[m.idx]
	m.openEnded = q.Type() == content.OpenEnded
	if m.openEnded {
		m.input = components.NewAnswerInput("Type your answer...", 120)
	} else {
		idx := 0
		if q.CorrectIndex != nil {
			idx = *q.CorrectIndex
		}
		m.mc = components.NewMultiChoice(q.Question, q.Choices, idx, q.Explanation)
	}
	m.phase = phaseQuestion
}

func (m QuizModel) Init() tea.Cmd {
	if m.openEnded {
		return m.input.Init()
	}
	return nil
}

func (m QuizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quit = true
			return m, tea.Quit
		case "esc":
			if m.phase != phaseDone {
				m.quit = true
				return m, tea.Quit
			}
		}

		switch m.phase {
		case phaseDone:
			return m, tea.Quit

		case phaseFeedback:
			m.idx++
			m.loadQuestion()
			if m.openEnded && m.phase == phaseQuestion {
				return m, m.input.Init()
			}
			return m, nil

		case phaseQuestion:
			return m.updateQuestion(msg)
		}
	}

	if m.phase == phaseQuestion && m.openEnded {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m QuizModel) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := &m.quiz.Questions[m.idx]

	if m.openEnded {
		if msg.String() == "enter" {
			correct := gradeOpenEnded(q, m.input.Value())
			m.input.Submit(correct)
			m.recordAnswer(correct)
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.mc, cmd = m.mc.Update(msg)
	if m.mc.Submitted {
		m.recordAnswer(m.mc.IsCorrect())
	}
	return m, cmd
}

func (m *QuizModel) recordAnswer(correct bool) {
	m.answered++
	if correct {
		m.correct++
	}
	m.phase = phaseFeedback
}

// gradeOpenEnded compares a free-text answer against the expected answer,
// ignoring case and surrounding whitespace. Questions without an expected
// answer are accepted as long as something was written.
func gradeOpenEnded(q *content.Question, answer string) bool {
	given := strings.TrimSpace(answer)
	if q.CorrectAnswer == "" {
		return given != ""
	}
	return strings.EqualFold(given, strings.TrimSpace(q.CorrectAnswer))
}

// Result returns the run outcome. Score is the percentage of correct
// answers over all questions, rounded to the nearest integer.
func (m QuizModel) Result() QuizResult {
	total := len(m.quiz.Questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(m.correct) / float64(total) * 100))
	}
	return QuizResult{
		Answered: m.answered,
		Correct:  m.correct,
		Score:    score,
		Finished: !m.quit && m.answered == total,
	}
}

func (m QuizModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	var b strings.Builder
	b.WriteString(theme.Title.Render(m.moduleTitle+" Quiz") + "\n")

	total := len(m.quiz.Questions)
	if m.phase == phaseDone {
		b.WriteString("\n" + m.renderSummary())
		v.SetContent(b.String())
		return v
	}

	bar := components.NewProgressBar("", float64(m.idx)/float64(total), false, 40)
	b.WriteString(bar.View() + "\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", m.idx+1, total)) + "\n\n")

	if m.openEnded {
		q := m.quiz.Questions[m.idx]
		b.WriteString(theme.Body.Bold(true).Render(q.Question) + "\n\n")
		b.WriteString(m.input.View() + "\n")
		if m.phase == phaseFeedback && q.Explanation != "" {
			b.WriteString("\n" + theme.Hint.Render(q.Explanation) + "\n")
		}
	} else {
		b.WriteString(m.mc.View())
	}

	if m.phase == phaseFeedback {
		b.WriteString("\n" + theme.Hint.Render("press any key to continue"))
	} else {
		b.WriteString("\n" + theme.Hint.Render("enter to submit · esc to quit"))
	}

	v.SetContent(b.String())
	return v
}

func (m QuizModel) renderSummary() string {
	result := m.Result()
	var b strings.Builder
	b.WriteString(theme.Body.Render(fmt.Sprintf("Answered %d of %d questions", result.Answered, len(m.quiz.Questions))) + "\n")

	scoreLine := fmt.Sprintf("Score: %d%%", result.Score)
	if result.Score >= m.passingScore {
		b.WriteString(theme.Correct.Render(scoreLine+"  PASS") + "\n")
	} else {
		b.WriteString(theme.Incorrect.Render(scoreLine+fmt.Sprintf("  needs %d%% to pass", m.passingScore)) + "\n")
	}
	b.WriteString("\n" + theme.Hint.Render("press any key to exit"))
	return b.String()
}

// RunQuiz plays a quiz interactively and returns the result.
func RunQuiz(moduleTitle string, quiz *content.Quiz, passingScore int) (QuizResult, error) {
	p := tea.NewProgram(NewQuizModel(moduleTitle, quiz, passingScore))
	finalModel, err := p.Run()
	if err != nil {
		return QuizResult{}, fmt.Errorf("run quiz: %w", err)
	}
	qm, ok := finalModel.(QuizModel)
	if !ok {
		return QuizResult{}, fmt.Errorf("unexpected final model type %T", finalModel)
	}
	return qm.Result(), nil
}
