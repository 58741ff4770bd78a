package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/state"
	"github.com/sandevgo/sentinel/pkg/log"
)

const defaultSource = "mcp"

type analyzer interface {
	Analyze(ctx context.Context, req core.IngestRequest) (*core.Analysis, error)
}

type truths interface {
	GetLatest(ctx context.Context, key string) (core.Fact, error)
	GetHistory(ctx context.Context, key string) ([]core.Fact, error)
}

type snapshotter interface {
	Snapshot(ctx context.Context) (*state.Snapshot, error)
}

// Server exposes analysis and the truth store as MCP tools over stdio, so an
// assistant can feed team updates in and query the current truth.
type Server struct {
	srv      *server.MCPServer
	analyzer analyzer
	truths   truths
	state    snapshotter
}

func NewServer(analyzer analyzer, truths truths, state snapshotter) *Server {
	s := &Server{
		srv: server.NewMCPServer(
			core.SentinelName,
			core.SentinelVersion,
			server.WithToolCapabilities(false),
		),
		analyzer: analyzer,
		truths:   truths,
		state:    state,
	}

	s.srv.AddTool(mcpproto.NewTool("analyze",
		mcpproto.WithDescription("Analyze a team update: risk score, tasks, truth changes, conflicts and a briefing"),
		mcpproto.WithString("text",
			mcpproto.Required(),
			mcpproto.Description("The message, standup notes or thread to analyze"),
		),
		mcpproto.WithString("source",
			mcpproto.Description("Where the text came from, e.g. slack:#launch"),
		),
	), s.handleAnalyze)

	s.srv.AddTool(mcpproto.NewTool("truth_latest",
		mcpproto.WithDescription("Current value of a tracked fact such as launch_date or priority"),
		mcpproto.WithString("key",
			mcpproto.Required(),
			mcpproto.Description("Fact key"),
		),
	), s.handleLatest)

	s.srv.AddTool(mcpproto.NewTool("truth_history",
		mcpproto.WithDescription("Every recorded version of a tracked fact, oldest first"),
		mcpproto.WithString("key",
			mcpproto.Required(),
			mcpproto.Description("Fact key"),
		),
	), s.handleHistory)

	s.srv.AddTool(mcpproto.NewTool("org_state",
		mcpproto.WithDescription("Snapshot of current truths, latest risk, recent conflicts and ingests"),
	), s.handleState)

	return s
}

// Serve speaks MCP on in/out until ctx is done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	log.FromCtx(ctx).Info().Msg("starting mcp stdio server")
	return server.NewStdioServer(s.srv).Listen(ctx, in, out)
}

func (s *Server) handleAnalyze(ctx context.Context, request mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	res, err := s.analyzer.Analyze(ctx, core.IngestRequest{
		Text:   text,
		Source: request.GetString("source", defaultSource),
	})
	if err != nil {
		return mcpproto.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (s *Server) handleLatest(ctx context.Context, request mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	fact, err := s.truths.GetLatest(ctx, key)
	if errors.Is(err, core.ErrKeyNotFound) {
		return mcpproto.NewToolResultError(fmt.Sprintf("no value recorded for %q", key)), nil
	}
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	return jsonResult(fact)
}

func (s *Server) handleHistory(ctx context.Context, request mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	hist, err := s.truths.GetHistory(ctx, key)
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	return jsonResult(hist)
}

func (s *Server) handleState(ctx context.Context, _ mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	snap, err := s.state.Snapshot(ctx)
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	return jsonResult(snap)
}

func jsonResult(v any) (*mcpproto.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcpproto.NewToolResultText(string(data)), nil
}
