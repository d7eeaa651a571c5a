package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/riskscan/internal/quiz"
)

func TestMemoryRegistry_RoundTrip(t *testing.T) {
	reg := NewMemoryRegistry(0)
	ctx := context.Background()

	if err := reg.Create(ctx, "s1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := reg.Append(ctx, "s1", NewAnswerRecord("age", quiz.Bool(true))); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := reg.Records(ctx, "s1")
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 1 || records[0].QuestionID != "age" {
		t.Fatalf("unexpected records: %+v", records)
	}

	// The returned slice is a copy.
	records[0].QuestionID = "mutated"
	again, err := reg.Records(ctx, "s1")
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if again[0].QuestionID != "age" {
		t.Error("registry contents should not be mutable through returned slice")
	}
}

func TestMemoryRegistry_AppendUnknown(t *testing.T) {
	reg := NewMemoryRegistry(0)

	err := reg.Append(context.Background(), "nope", NewAnswerRecord("age", quiz.Bool(true)))
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemoryRegistry_Expiry(t *testing.T) {
	reg := NewMemoryRegistry(time.Minute)

	now := time.Now()
	reg.now = func() time.Time { return now }

	ctx := context.Background()
	if err := reg.Create(ctx, "s1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	now = now.Add(2 * time.Minute)

	if _, err := reg.Records(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after expiry, got %v", err)
	}
}
