package advice

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/riskscan/internal/quiz"
)

func testCatalog(t *testing.T) *quiz.Catalog {
	t.Helper()
	cat, err := quiz.NewCatalog([]quiz.Question{
		{ID: "smoker", Text: "Do you smoke?", Type: quiz.TypeBoolean, Weight: 20},
		{ID: "age", Text: "What is your age?", Type: quiz.TypeRange, Weight: 30, Min: 0, Max: 100},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func testResult() *quiz.QuizResult {
	return &quiz.QuizResult{
		TotalScore: 35,
		Band: &quiz.RiskBand{
			Label:          "Moderate",
			MinScore:       20,
			MaxScore:       50,
			Recommendation: "Discuss screening options with your doctor.",
		},
		Responses: map[string]quiz.Response{
			"smoker": {QuestionID: "smoker", Value: quiz.Bool(true), At: time.Now()},
			"age":    {QuestionID: "age", Value: quiz.Number(50), At: time.Now()},
		},
	}
}

func TestElaborate_ParsesAdvice(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"summary":"Your answers point to a moderate risk level.","suggestions":["Book a screening appointment.","Consider a smoking cessation program."]}`),
	})
	svc := NewService(mock, DefaultServiceConfig())

	adv, err := svc.Elaborate(context.Background(), testCatalog(t), testResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Summary == "" {
		t.Fatal("expected non-empty summary")
	}
	if len(adv.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(adv.Suggestions))
	}
}

func TestElaborate_PromptIncludesAnswersAndBand(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"summary":"ok","suggestions":["ok"]}`),
	})
	svc := NewService(mock, DefaultServiceConfig())

	if _, err := svc.Elaborate(context.Background(), testCatalog(t), testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.Calls))
	}
	req := mock.Calls[0]
	if req.Schema != AdviceSchema {
		t.Error("expected request to carry AdviceSchema")
	}
	if len(req.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(req.Messages))
	}

	prompt := req.Messages[0].Content
	for _, want := range []string{"Do you smoke?", "What is your age?", "Moderate", "35"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestElaborate_NoBand(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"summary":"ok","suggestions":["ok"]}`),
	})
	svc := NewService(mock, DefaultServiceConfig())

	result := testResult()
	result.Band = nil

	if _, err := svc.Elaborate(context.Background(), testCatalog(t), result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "not determined") {
		t.Errorf("prompt should mention undetermined risk level:\n%s", prompt)
	}
}

func TestElaborate_ProviderError(t *testing.T) {
	mock := NewMockProvider()
	svc := NewService(mock, DefaultServiceConfig())

	if _, err := svc.Elaborate(context.Background(), testCatalog(t), testResult()); err == nil {
		t.Fatal("expected error when provider is exhausted")
	}
}
