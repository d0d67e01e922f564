package generative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/learnableai/readassist/internal/llm"
)

// ErrServiceUnavailable wraps any remote generation failure so callers can
// report a uniform "try again" condition.
var ErrServiceUnavailable = errors.New("generation service unavailable")

// LessonPlan is a generated teaching plan plus the request that produced it.
type LessonPlan struct {
	Topic    string `json:"topic"`
	Grade    string `json:"grade"`
	Duration string `json:"duration"`
	Content  string `json:"content"`
}

// Service produces the derived learning artifacts: simplified text, lesson
// plans and quizzes. All intelligence is delegated to the completion
// gateway; this layer owns only the prompts and result shaping.
type Service struct {
	gw llm.Gateway
}

func NewService(gw llm.Gateway) *Service {
	return &Service{gw: gw}
}

// Simplify rewrites text into a dyslexia-accessible form.
func (s *Service) Simplify(ctx context.Context, text string) (string, error) {
	prompt, err := render(simplifyTemplate, map[string]string{"text": text})
	if err != nil {
		return "", err
	}

	out, err := s.complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: simplify: %v", ErrServiceUnavailable, err)
	}
	return out, nil
}

// GeneratePlan creates a teaching plan for a topic. Grade defaults to
// "elementary" and duration to "45 minutes" when unset.
func (s *Service) GeneratePlan(ctx context.Context, topic, grade, duration string) (*LessonPlan, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("topic is required")
	}
	if grade == "" {
		grade = "elementary"
	}
	if duration == "" {
		duration = "45 minutes"
	}

	prompt, err := render(planTemplate, map[string]string{
		"topic":    topic,
		"grade":    grade,
		"duration": duration,
	})
	if err != nil {
		return nil, err
	}

	out, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: lesson plan: %v", ErrServiceUnavailable, err)
	}

	return &LessonPlan{
		Topic:    topic,
		Grade:    grade,
		Duration: duration,
		Content:  out,
	}, nil
}

// GenerateQuiz creates a quiz over the given content. The response is kept
// verbatim in Raw and additionally parsed into structured questions when it
// is a JSON question array.
func (s *Service) GenerateQuiz(ctx context.Context, content, difficulty string) (*Quiz, error) {
	if difficulty == "" {
		difficulty = "easy"
	}

	prompt, err := render(quizTemplate, map[string]string{
		"content":    content,
		"difficulty": difficulty,
	})
	if err != nil {
		return nil, err
	}

	out, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: quiz: %v", ErrServiceUnavailable, err)
	}

	return &Quiz{
		Raw:        out,
		Difficulty: difficulty,
		Questions:  parseQuestions(out),
	}, nil
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.gw.Complete(ctx, llm.Request{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
