package mcp

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestRequireUUID verifies UUID parameter extraction and its error results.
func TestRequireUUID(t *testing.T) {
	want := uuid.New()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"exercise_id": want.String()}
	got, toolErr := requireUUID(req, "exercise_id")
	if toolErr != nil {
		t.Fatalf("unexpected tool error: %v", toolErr)
	}
	if got != want {
		t.Errorf("requireUUID = %v, want %v", got, want)
	}

	req.Params.Arguments = map[string]any{"exercise_id": "bench-press"}
	if _, toolErr = requireUUID(req, "exercise_id"); toolErr == nil {
		t.Error("expected tool error for non-UUID value")
	}

	req.Params.Arguments = map[string]any{}
	if _, toolErr = requireUUID(req, "exercise_id"); toolErr == nil {
		t.Error("expected tool error for missing parameter")
	}
}
