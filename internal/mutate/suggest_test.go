package mutate

import (
	"context"
	"testing"

	"github.com/cleohq/cleo/internal/apperr"
)

func TestCompleteNotFoundSuggestsCloseTaskID(t *testing.T) {
	c := newCore(t)
	ctx := context.Background()
	if _, err := c.Add(ctx, "only task", AddOptions{}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err := c.Complete(ctx, "T01", "")
	ae, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected an *apperr.Error, got %v", err)
	}
	if ae.Code != apperr.CodeNotFound {
		t.Fatalf("code = %s, want NOT_FOUND", ae.Code)
	}
	if len(ae.Alternatives) != 1 || ae.Alternatives[0].Command != "cleo tasks show T1" {
		t.Errorf("Alternatives = %+v, want a single suggestion for T1", ae.Alternatives)
	}
}

func TestUpdateNotFoundOmitsAlternativesWhenNothingIsClose(t *testing.T) {
	c := newCore(t)
	ctx := context.Background()
	if _, err := c.Add(ctx, "only task", AddOptions{}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	title := "new title"
	_, _, err := c.Update(ctx, "completely-unrelated-id", Patch{Title: &title})
	ae, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected an *apperr.Error, got %v", err)
	}
	if len(ae.Alternatives) != 0 {
		t.Errorf("Alternatives = %+v, want none for an unrelated id", ae.Alternatives)
	}
}

func TestDeletePreviewNotFoundSuggestsClosestID(t *testing.T) {
	c := newCore(t)
	ctx := context.Background()
	if _, err := c.Add(ctx, "first", AddOptions{}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := c.Add(ctx, "second", AddOptions{}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err := c.PreviewDelete(ctx, "T3", DeleteBlock)
	ae, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected an *apperr.Error, got %v", err)
	}
	if len(ae.Alternatives) != 2 {
		t.Errorf("Alternatives = %+v, want suggestions for both T1 and T2", ae.Alternatives)
	}
}

func TestSuggestTaskIDsCapsAtMaxSuggestions(t *testing.T) {
	c := newCore(t)
	ctx := context.Background()
	for i := 0; i < maxSuggestions+2; i++ {
		if _, err := c.Add(ctx, "task", AddOptions{}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	_, err := c.Complete(ctx, "T0", "")
	ae, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected an *apperr.Error, got %v", err)
	}
	if len(ae.Alternatives) > maxSuggestions {
		t.Errorf("got %d alternatives, want at most %d", len(ae.Alternatives), maxSuggestions)
	}
}
