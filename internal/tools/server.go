package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"feedsheet/internal/types"
)

// Server exposes the tool surface over HTTP: GET /tools lists tools,
// POST /tools/{name} invokes one with a JSON body.
type Server struct {
	mux     *http.ServeMux
	port    int
	service *Service
	logger  *slog.Logger
}

// toolHandler decodes a raw JSON body and runs one tool.
type toolHandler func(ctx context.Context, body json.RawMessage) (any, error)

// ToolInfo describes one tool for discovery.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewServer creates the tool HTTP server.
func NewServer(port int, service *Service, logger *slog.Logger) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		port:    port,
		service: service,
		logger:  logger.With("component", "tool_server"),
	}
	s.registerRoutes()
	return s
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("tool server listening", "addr", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) tools() ([]ToolInfo, map[string]toolHandler) {
	infos := []ToolInfo{
		{"collect_posts", "Scroll the current feed and collect posts"},
		{"get_profile", "Extract the profile of the current page"},
		{"search", "Navigate to a live-search view and collect matching posts"},
		{"debug_page_structure", "Count matches per candidate DOM pattern"},
		{"test_selectors", "Sample text from each field's winning pattern"},
		{"export_posts", "Append the collected batch to a spreadsheet worksheet"},
		{"export_profile", "Append the collected profile to a spreadsheet worksheet"},
	}

	handlers := map[string]toolHandler{
		"collect_posts": func(ctx context.Context, body json.RawMessage) (any, error) {
			var req CollectRequest
			if err := decode(body, &req); err != nil {
				return nil, err
			}
			return s.service.CollectPosts(ctx, req)
		},
		"get_profile": func(ctx context.Context, _ json.RawMessage) (any, error) {
			return s.service.GetProfile(ctx)
		},
		"search": func(ctx context.Context, body json.RawMessage) (any, error) {
			var req SearchRequest
			if err := decode(body, &req); err != nil {
				return nil, err
			}
			return s.service.Search(ctx, req)
		},
		"debug_page_structure": func(ctx context.Context, _ json.RawMessage) (any, error) {
			return s.service.DebugPageStructure(ctx)
		},
		"test_selectors": func(ctx context.Context, _ json.RawMessage) (any, error) {
			return s.service.TestSelectors(ctx)
		},
		"export_posts": func(ctx context.Context, body json.RawMessage) (any, error) {
			var req ExportRequest
			if err := decode(body, &req); err != nil {
				return nil, err
			}
			return s.service.ExportPosts(ctx, req)
		},
		"export_profile": func(ctx context.Context, body json.RawMessage) (any, error) {
			var req ExportRequest
			if err := decode(body, &req); err != nil {
				return nil, err
			}
			return s.service.ExportProfile(ctx, req)
		},
	}
	return infos, handlers
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, _ *http.Request) {
		s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("GET /tools", func(w http.ResponseWriter, _ *http.Request) {
		infos, _ := s.tools()
		s.jsonResponse(w, http.StatusOK, infos)
	})

	s.mux.HandleFunc("POST /tools/{name}", s.handleInvoke)
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	_, handlers := s.tools()
	handler, ok := handlers[name]
	if !ok {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "unknown tool: " + name})
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "read body: " + err.Error()})
		return
	}
	body := json.RawMessage(raw)
	if len(bytes.TrimSpace(raw)) == 0 {
		body = json.RawMessage("{}")
	}

	result, err := handler(r.Context(), body)
	if err != nil {
		s.logger.Error("tool failed", "tool", name, "error", err)
		s.jsonResponse(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// errBadRequest marks failures the caller can fix by correcting the
// request.
var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, types.ErrNoBatch), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func decode(body json.RawMessage, v any) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
