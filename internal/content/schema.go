package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Document schemas gate every lesson and quiz file at the load boundary.
// Structural violations reported here are errors in every validation mode.

var lessonDocSchema = &docSchema{
	name: "lesson-document",
	definition: map[string]any{
		"type":     "array",
		"minItems": 0,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":    map[string]any{"type": "string", "minLength": 1},
				"title": map[string]any{"type": "string", "minLength": 1},
				"order": map[string]any{"type": "integer", "minimum": 1},
				"objectives": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"intro": map[string]any{"type": "string", "minLength": 1},
				"codeExample": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"example":     map[string]any{"type": "string"},
						"explanation": map[string]any{"type": "string"},
						"language":    map[string]any{"type": "string"},
					},
					"required": []any{"example", "explanation", "language"},
				},
				"pitfalls": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"mistake":  map[string]any{"type": "string"},
							"solution": map[string]any{"type": "string"},
							"severity": map[string]any{
								"type": "string",
								"enum": []any{"low", "medium", "high", "critical"},
							},
						},
						"required": []any{"mistake", "solution", "severity"},
					},
				},
				"exercises": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"title":       map[string]any{"type": "string"},
							"description": map[string]any{"type": "string"},
							"checkpoints": map[string]any{
								"type":     "array",
								"minItems": 1,
								"items":    map[string]any{"type": "string"},
							},
						},
						"required": []any{"title", "description", "checkpoints"},
					},
				},
				"estimatedMinutes": map[string]any{"type": "integer", "minimum": 1},
				"difficulty":       map[string]any{"type": "string"},
				"tags": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"id", "title", "order", "objectives", "intro", "codeExample", "estimatedMinutes"},
		},
	},
}

var quizDocSchema = &docSchema{
	name: "quiz-document",
	definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":          map[string]any{"type": "string", "minLength": 1},
			"description":    map[string]any{"type": "string"},
			"totalQuestions": map[string]any{"type": "integer", "minimum": 0},
			"passingScore":   map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"timeLimit":      map[string]any{"type": "integer", "minimum": 0},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":       map[string]any{"type": "string", "minLength": 1},
						"question": map[string]any{"type": "string", "minLength": 1},
						"topic":    map[string]any{"type": "string"},
						"difficulty": map[string]any{
							"type": "string",
						},
						"choices": map[string]any{
							"type":     "array",
							"minItems": 2,
							"items":    map[string]any{"type": "string"},
						},
						"correctIndex":  map[string]any{"type": "integer", "minimum": 0},
						"correctAnswer": map[string]any{"type": "string"},
						"explanation":   map[string]any{"type": "string", "minLength": 1},
						"industryContext": map[string]any{
							"type": "string",
						},
						"tags": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"questionType": map[string]any{
							"type": "string",
							"enum": []any{"multiple-choice", "open-ended"},
						},
						"estimatedTime": map[string]any{"type": "integer", "minimum": 0},
					},
					"required": []any{"id", "question", "explanation"},
				},
			},
		},
		"required": []any{"title", "totalQuestions", "passingScore", "questions"},
	},
}

type docSchema struct {
	name       string
	definition map[string]any
}

// schemaCache caches compiled document schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateAgainst checks raw JSON against a document schema. The returned
// error distinguishes unparseable JSON from schema violations only in its
// message; both are structural.
func validateAgainst(s *docSchema, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compiledSchema(s)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", s.name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(s *docSchema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(s.name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value, not raw bytes.
	defBytes, err := json.Marshal(s.definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", s.name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(s.name, compiled)
	return compiled, nil
}

// ValidateLessonDoc checks a raw lessons file against the lesson schema.
func ValidateLessonDoc(raw []byte) error {
	return validateAgainst(lessonDocSchema, raw)
}

// ValidateQuizDoc checks a raw quiz file against the quiz schema.
func ValidateQuizDoc(raw []byte) error {
	return validateAgainst(quizDocSchema, raw)
}
