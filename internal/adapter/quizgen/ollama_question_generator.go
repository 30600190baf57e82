package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/port"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const generationTimeout = 60 * time.Second

const promptTemplate = `You are an expert quiz author. Write %d multiple-choice questions for the quiz category "%s".

Rules:
- Each question is between 10 and 500 characters.
- Each question has between 2 and 5 distinct options.
- "answer" must be copied exactly from one of the options.

Respond with a single JSON array and nothing else. Example element:
{"question": "What is the capital of France?", "options": ["Berlin", "Paris", "Rome", "Madrid"], "answer": "Paris"}`

type generatedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// LLMQuestionGenerator drafts questions with any langchaingo model (ollama in production).
type LLMQuestionGenerator struct {
	llm         llms.Model
	temperature float64
}

func NewLLMQuestionGenerator(llm llms.Model) port.QuestionGenerator {
	return &LLMQuestionGenerator{llm: llm, temperature: 0.4}
}

// GenerateQuestions asks the model for count questions and drops drafts that fail validation.
func (g *LLMQuestionGenerator) GenerateQuestions(ctx context.Context, category domain.Category, count int) ([]*domain.Question, error) {
	l := logger.Get().With(zap.String("category", string(category)), zap.Int("count", count))
	if count <= 0 {
		return nil, domain.NewValidationError("count must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, count, category)
	raw, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		l.Error("LLM call failed", zap.Error(err))
		return nil, domain.NewTransientError("question generation failed", err)
	}

	drafts, err := parseDrafts(raw)
	if err != nil {
		l.Error("Could not parse LLM response", zap.Error(err), zap.String("raw_llm_response", raw))
		return nil, domain.NewInternalError("unparseable LLM response", err)
	}

	questions := make([]*domain.Question, 0, len(drafts))
	for _, d := range drafts {
		q := domain.NewQuestion(category, d.Question, trimAll(d.Options), strings.TrimSpace(d.Answer))
		if err := q.Validate(); err != nil {
			l.Warn("Dropping invalid generated question", zap.String("question", d.Question), zap.Error(err))
			continue
		}
		questions = append(questions, q)
	}

	l.Info("Generated questions", zap.Int("accepted", len(questions)), zap.Int("drafted", len(drafts)))
	return questions, nil
}

// parseDrafts strips thinking blocks and code fences, then decodes the outermost JSON array.
func parseDrafts(raw string) ([]generatedQuestion, error) {
	cleaned := raw
	if end := strings.LastIndex(cleaned, "</think>"); end >= 0 {
		cleaned = cleaned[end+len("</think>"):]
	}
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array found in LLM response")
	}

	var drafts []generatedQuestion
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &drafts); err != nil {
		return nil, fmt.Errorf("decode generated questions: %w", err)
	}
	return drafts, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
