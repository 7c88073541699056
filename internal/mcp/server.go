package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all autoregulation tools registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Autoreg", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Training autoregulation server. Query load suggestions, plateau status, recovery readiness, volume targets, and nutrition compliance. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetLoadSuggestion, Handler: h.getLoadSuggestion},
		server.ServerTool{Tool: toolCheckPlateau, Handler: h.checkPlateau},
		server.ServerTool{Tool: toolGetRecoveryScore, Handler: h.getRecoveryScore},
		server.ServerTool{Tool: toolGetNutritionTargets, Handler: h.getNutritionTargets},
		server.ServerTool{Tool: toolGetNutritionCompliance, Handler: h.getNutritionCompliance},
		server.ServerTool{Tool: toolGetWeightTrend, Handler: h.getWeightTrend},
		server.ServerTool{Tool: toolGetWeeklyTargets, Handler: h.getWeeklyTargets},
	)

	return s
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}
