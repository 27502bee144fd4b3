package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/bimtodo/internal/domain/activity"
	"github.com/rpggio/bimtodo/internal/domain/annotation"
	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
	"github.com/rpggio/bimtodo/internal/scene"
	"github.com/rpggio/bimtodo/internal/view"
)

// AnnotationService defines annotation store operations needed by MCP.
type AnnotationService interface {
	Create(ctx context.Context, req annotation.CreateRequest) (*annotation.Annotation, error)
	Get(id string) (*annotation.Annotation, error)
	List() []annotation.Annotation
	Count() int
}

// BoardService defines the card interactions needed by MCP.
type BoardService interface {
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Filter(query string) []*view.Card
}

// HighlightService defines priority coloring operations needed by MCP.
type HighlightService interface {
	ToggleAll(annotations []annotation.Annotation) (bool, error)
	Active() bool
	GroupKey(priority annotation.Priority) string
}

// SceneService defines viewer operations needed by MCP.
type SceneService interface {
	LookAt(vp viewpoint.Viewpoint, animate bool)
	SetCameraMode(mode viewpoint.Projection) error
	Select(sel highlight.SelectionMap)
	State() scene.State
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
	SearchActivity(ctx context.Context, query string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Annotations AnnotationService
	Board       BoardService
	Highlights  HighlightService
	Scene       SceneService
	Activity    ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// AuthToken is the bearer token required in HTTP mode. Empty disables auth.
	AuthToken     string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "bimtodo",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only; HTTP checks the bearer token when one is configured.
	if cfg.TransportMode != "stdio" && cfg.AuthToken != "" {
		server.AddReceivingMiddleware(authMiddleware(cfg.AuthToken))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}
