package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/fullstackacademy/academy/internal/ui/theme"
)

// MultiChoice is a multiple-choice question selector. After submission it
// highlights the correct choice and, when set, reveals the explanation.
type MultiChoice struct {
	Question     string
	Choices      []string
	CorrectIndex int
	Explanation  string
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a multiple-choice component.
func NewMultiChoice(question string, choices []string, correctIndex int, explanation string) MultiChoice {
	return MultiChoice{
		Question:     question,
		Choices:      choices,
		CorrectIndex: correctIndex,
		Explanation:  explanation,
		ChosenIndex:  -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles navigation and submission.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Choices)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
		m.ChosenIndex = m.Selected
	}

	return m, nil
}

// View renders the question, choices, and post-submit explanation.
func (m MultiChoice) View() string {
	s := theme.Body.Bold(true).Render(m.Question) + "\n\n"

	labels := []string{"A", "B", "C", "D"}
	for i, choice := range m.Choices {
		label := fmt.Sprintf("%d", i+1)
		if i < len(labels) {
			label = labels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, choice)

		switch {
		case m.Submitted && i == m.CorrectIndex:
			s += theme.Correct.Render(line) + "\n"
		case m.Submitted && i == m.ChosenIndex:
			s += theme.Incorrect.Render(line) + "\n"
		case m.Submitted:
			s += theme.Subtitle.Render(line) + "\n"
		case i == m.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	if m.Submitted && m.Explanation != "" {
		s += "\n" + theme.Hint.Render(m.Explanation) + "\n"
	}
	return s
}

// IsCorrect reports whether the submitted choice was right.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
