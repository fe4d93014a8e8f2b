package agent

import (
	"fmt"
	"testing"

	"github.com/donhauser001/dhs-atlas/internal/llm"
)

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()

	if got := store.Get("missing"); len(got) != 0 {
		t.Errorf("Get(missing) = %v, want empty", got)
	}

	history := []llm.Message{
		{Role: "user", Content: "问题"},
		{Role: "assistant", Content: "答案"},
	}
	store.Put("s1", history)

	got := store.Get("s1")
	if len(got) != 2 || got[0].Content != "问题" {
		t.Fatalf("Get(s1) = %v", got)
	}

	// returned slice is a copy
	got[0].Content = "改掉"
	if store.Get("s1")[0].Content != "问题" {
		t.Error("Get must return a copy, not the stored slice")
	}

	store.Delete("s1")
	if len(store.Get("s1")) != 0 {
		t.Error("Delete did not remove session")
	}

	// idempotent delete
	store.Delete("s1")
}

func TestMemorySessionStoreCapsHistory(t *testing.T) {
	store := NewMemorySessionStore()

	var history []llm.Message
	for i := 0; i < maxHistoryMessages+10; i++ {
		history = append(history, llm.Message{Role: "user", Content: fmt.Sprintf("m%d", i)})
	}
	store.Put("s1", history)

	got := store.Get("s1")
	if len(got) != maxHistoryMessages {
		t.Fatalf("history length = %d, want %d", len(got), maxHistoryMessages)
	}
	if got[0].Content != "m10" {
		t.Errorf("oldest kept = %q, want m10 (most recent retained)", got[0].Content)
	}
}
