package generative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/learnableai/readassist/internal/llm"
)

// stubGateway returns a canned completion or error and records the last
// prompt it saw.
type stubGateway struct {
	content    string
	err        error
	lastPrompt string
}

func (s *stubGateway) Complete(_ context.Context, req llm.Request) (*llm.Completion, error) {
	if len(req.Messages) > 0 {
		s.lastPrompt = req.Messages[len(req.Messages)-1].Content
	}
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Completion{Provider: "stub", Content: s.content}, nil
}

func (s *stubGateway) Provider(name string) (llm.Provider, error) {
	return nil, errors.New("no providers in stub")
}

func TestSimplify(t *testing.T) {
	gw := &stubGateway{content: "Short words. Clear lines."}
	svc := NewService(gw)

	out, err := svc.Simplify(context.Background(), "A labyrinthine exposition.")
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if out != "Short words. Clear lines." {
		t.Errorf("out = %q", out)
	}
	if !strings.Contains(gw.lastPrompt, "A labyrinthine exposition.") {
		t.Errorf("prompt missing source text: %q", gw.lastPrompt)
	}
	if !strings.Contains(gw.lastPrompt, "dyslexia") {
		t.Errorf("prompt missing accessibility instruction: %q", gw.lastPrompt)
	}
}

func TestSimplifyFailure(t *testing.T) {
	gw := &stubGateway{err: errors.New("rate limited")}
	svc := NewService(gw)

	_, err := svc.Simplify(context.Background(), "text")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}
}

func TestGeneratePlanDefaults(t *testing.T) {
	gw := &stubGateway{content: "## Objectives\n..."}
	svc := NewService(gw)

	plan, err := svc.GeneratePlan(context.Background(), "Photosynthesis", "", "")
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if plan.Grade != "elementary" || plan.Duration != "45 minutes" {
		t.Errorf("defaults not applied: %+v", plan)
	}
	if !strings.Contains(gw.lastPrompt, `"Photosynthesis"`) {
		t.Errorf("prompt missing topic: %q", gw.lastPrompt)
	}
	if !strings.Contains(gw.lastPrompt, "grade elementary") {
		t.Errorf("prompt missing grade: %q", gw.lastPrompt)
	}
}

func TestGeneratePlanRequiresTopic(t *testing.T) {
	svc := NewService(&stubGateway{content: "x"})
	if _, err := svc.GeneratePlan(context.Background(), "  ", "3", "30 minutes"); err == nil {
		t.Fatal("expected error for blank topic")
	}
}

func TestGenerateQuizStructured(t *testing.T) {
	raw := `[{"question":"What do plants need?","options":["Light","Rocks"],"correct":"Light"}]`
	svc := NewService(&stubGateway{content: raw})

	quiz, err := svc.GenerateQuiz(context.Background(), "Plants use light.", "easy")
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if !quiz.Structured() {
		t.Fatal("expected structured quiz")
	}
	if len(quiz.Questions) != 1 || quiz.Questions[0].Correct != "Light" {
		t.Errorf("questions = %+v", quiz.Questions)
	}
	if quiz.Raw != raw {
		t.Errorf("raw not preserved")
	}
}

func TestGenerateQuizUnparseableDegradesToText(t *testing.T) {
	svc := NewService(&stubGateway{content: "not json"})

	quiz, err := svc.GenerateQuiz(context.Background(), "content", "easy")
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if quiz.Structured() {
		t.Fatal("unparseable quiz must not be structured")
	}
	if len(quiz.Questions) != 0 {
		t.Errorf("questions = %+v, want empty", quiz.Questions)
	}
	if quiz.Raw != "not json" {
		t.Errorf("raw = %q, want preserved text", quiz.Raw)
	}
}

func TestRenderMissingVariable(t *testing.T) {
	if _, err := render("hello {{name}}", map[string]string{}); err == nil {
		t.Fatal("expected missing-variable error")
	}
	out, err := render("hello {{name}}", map[string]string{"name": "world"})
	if err != nil || out != "hello world" {
		t.Fatalf("render = %q, %v", out, err)
	}
}
