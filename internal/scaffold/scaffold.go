// Package scaffold drafts lesson and quiz documents for content-pending
// modules. Drafts are starting points for authors, not publishable
// content; everything generated still goes through the content validator.
package scaffold

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fullstackacademy/academy/internal/content"
	"github.com/fullstackacademy/academy/internal/llm"
	"github.com/fullstackacademy/academy/internal/registry"
)

// Service generates draft content through an LLM provider.
type Service struct {
	provider llm.Provider
}

// NewService creates a scaffolding service.
func NewService(p llm.Provider) *Service {
	return &Service{provider: p}
}

const draftMaxTokens = 8192

var lessonDraftSchema = &llm.Schema{
	Name:        "lesson-draft",
	Description: "An array of lesson documents for one learning module",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":    map[string]any{"type": "string"},
				"title": map[string]any{"type": "string"},
				"order": map[string]any{"type": "integer", "minimum": 1},
				"objectives": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"intro": map[string]any{"type": "string"},
				"codeExample": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"example":     map[string]any{"type": "string"},
						"explanation": map[string]any{"type": "string"},
						"language":    map[string]any{"type": "string"},
					},
					"required": []any{"example", "explanation", "language"},
				},
				"estimatedMinutes": map[string]any{"type": "integer", "minimum": 1},
				"difficulty":       map[string]any{"type": "string"},
			},
			"required": []any{"id", "title", "order", "objectives", "intro", "codeExample", "estimatedMinutes"},
		},
	},
}

var quizDraftSchema = &llm.Schema{
	Name:        "quiz-draft",
	Description: "A quiz document for one learning module",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":          map[string]any{"type": "string"},
			"description":    map[string]any{"type": "string"},
			"totalQuestions": map[string]any{"type": "integer", "minimum": 1},
			"passingScore":   map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":       map[string]any{"type": "string"},
						"question": map[string]any{"type": "string"},
						"choices": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"correctIndex": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
						"explanation":  map[string]any{"type": "string"},
						"questionType": map[string]any{
							"type": "string",
							"enum": []any{"multiple-choice", "open-ended"},
						},
					},
					"required": []any{"id", "question", "explanation"},
				},
			},
		},
		"required": []any{"title", "totalQuestions", "passingScore", "questions"},
	},
}

const draftSystemPrompt = `You are a senior engineer writing learning content for a full-stack
curriculum. Write precise, practical material with runnable code examples.
Intro text must run at least 60 words. Explanations must say why an answer
is right, not just restate it. Respond with JSON only.`

// DraftLessons generates count draft lessons for a module. The output has
// passed the lesson document schema before it is returned.
func (s *Service) DraftLessons(ctx context.Context, mod *registry.Module, count int) ([]content.Lesson, error) {
	if count <= 0 {
		count = mod.Thresholds.RequiredLessons
	}
	prompt := lessonPrompt(mod, count)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:    draftSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:    lessonDraftSchema,
		MaxTokens: draftMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("draft lessons for %s: %w", mod.Slug, err)
	}

	if err := content.ValidateLessonDoc(resp.Content); err != nil {
		return nil, fmt.Errorf("draft lessons for %s failed document validation: %w", mod.Slug, err)
	}
	var lessons []content.Lesson
	if err := json.Unmarshal(resp.Content, &lessons); err != nil {
		return nil, fmt.Errorf("decode lesson draft: %w", err)
	}
	return lessons, nil
}

// DraftQuiz generates a draft quiz with the given question count. Every
// question is normalized to a canonical correct index before return.
func (s *Service) DraftQuiz(ctx context.Context, mod *registry.Module, questions int) (*content.Quiz, error) {
	if questions <= 0 {
		questions = mod.Thresholds.RequiredQuestions
	}
	prompt := quizPrompt(mod, questions)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:    draftSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:    quizDraftSchema,
		MaxTokens: draftMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("draft quiz for %s: %w", mod.Slug, err)
	}

	if err := content.ValidateQuizDoc(resp.Content); err != nil {
		return nil, fmt.Errorf("draft quiz for %s failed document validation: %w", mod.Slug, err)
	}
	var quiz content.Quiz
	if err := json.Unmarshal(resp.Content, &quiz); err != nil {
		return nil, fmt.Errorf("decode quiz draft: %w", err)
	}
	for i := range quiz.Questions {
		if err := quiz.Questions[i].Normalize(); err != nil {
			return nil, fmt.Errorf("draft question %q: %w", quiz.Questions[i].ID, err)
		}
	}
	return &quiz, nil
}

func lessonPrompt(mod *registry.Module, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d lessons for the module %q (%s tier, %s difficulty).\n",
		count, mod.Title, mod.Tier, mod.Difficulty)
	fmt.Fprintf(&b, "Module description: %s\n", mod.Description)
	fmt.Fprintf(&b, "Lesson ids use the prefix %q followed by the order number.\n", mod.Slug+"-lesson-")
	b.WriteString("Each lesson needs at least two objectives, an intro of 60+ words, ")
	b.WriteString("and one code example with a worked explanation.")
	return b.String()
}

func quizPrompt(mod *registry.Module, questions int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a quiz with %d multiple-choice questions for the module %q (%s difficulty).\n",
		questions, mod.Title, mod.Difficulty)
	fmt.Fprintf(&b, "Module description: %s\n", mod.Description)
	fmt.Fprintf(&b, "Set totalQuestions to %d and passingScore to %d.\n",
		questions, mod.PassingScore(registry.DefaultPassingScore))
	b.WriteString("Each question needs exactly four choices, a correctIndex, ")
	b.WriteString("and an explanation of at least 50 characters.")
	return b.String()
}
