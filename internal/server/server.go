package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"news_mcp/internal/logger"
	"news_mcp/internal/news"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Name: имя сервера, которое видит MCP-клиент.
	Name = "news-mcp-server"

	CategoriesURI = "news://categories"
	TagsURI       = "news://tags"

	shutdownTimeout = 5 * time.Second
)

// Catalog описывает, что серверу нужно от шлюза помимо инструмента: проверка
// доступности и справочники для ресурсов.
type Catalog interface {
	Ping(ctx context.Context) error
	ListCategories(ctx context.Context) ([]string, error)
	ListTags(ctx context.Context) ([]string, error)
}

// Server хранит зависимости MCP-обработчиков и HTTP-маршрутов.
type Server struct {
	catalog  Catalog
	tool     *news.FetchNewsTool
	version  string
	gatherer prometheus.Gatherer
	mcp      *mcp.Server
}

type Option func(*Server)

// WithVersion задаёт версию, которую сервер сообщает при инициализации.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithGatherer задаёт реестр, который отдаётся на /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// NewServer создаёт MCP-сервер с инструментом fetch_news и ресурсами справочников.
func NewServer(catalog Catalog, tool *news.FetchNewsTool, opts ...Option) *Server {
	s := &Server{
		catalog:  catalog,
		tool:     tool,
		version:  "dev",
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{Name: Name, Version: s.version}, &mcp.ServerOptions{
		Instructions: "Use fetch_news to read recent articles. " +
			"Read news://categories and news://tags to discover valid filter values.",
	})

	s.mcp.AddTool(&mcp.Tool{
		Name:        news.ToolName,
		Description: fetchNewsDescription,
		InputSchema: fetchNewsSchema(),
	}, s.handleFetchNews)

	s.mcp.AddResource(&mcp.Resource{
		URI:         CategoriesURI,
		Name:        "categories",
		Description: "Distinct article categories",
		MIMEType:    "application/json",
	}, s.listResource(s.catalog.ListCategories))

	s.mcp.AddResource(&mcp.Resource{
		URI:         TagsURI,
		Name:        "tags",
		Description: "Distinct article tags",
		MIMEType:    "application/json",
	}, s.listResource(s.catalog.ListTags))

	return s
}

// MCP возвращает протокольный сервер (нужен для подключения произвольных транспортов).
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// handleFetchNews никогда не возвращает протокольную ошибку: всё, что пошло
// не так, уже упаковано инструментом в текстовый блок с IsError.
func (s *Server) handleFetchNews(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var raw json.RawMessage
	if req.Params != nil {
		raw = req.Params.Arguments
	}
	return toCallToolResult(s.tool.Execute(ctx, raw)), nil
}

func toCallToolResult(r news.Result) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(r.Content))
	for _, c := range r.Content {
		if c.Type != news.ContentText {
			logger.Log.WithField("type", c.Type).Warn("Unsupported content type, sending as text")
		}
		content = append(content, &mcp.TextContent{Text: c.Text})
	}
	return &mcp.CallToolResult{Content: content, IsError: r.IsError}
}

func (s *Server) listResource(list func(context.Context) ([]string, error)) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		values, err := list(ctx)
		if err != nil {
			logger.Log.WithError(err).WithField("uri", req.Params.URI).Error("Failed to read resource")
			return nil, fmt.Errorf("read %s: %w", req.Params.URI, err)
		}
		if values == nil {
			values = []string{}
		}
		b, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", req.Params.URI, err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			}},
		}, nil
	}
}

// RunStdio обслуживает одну сессию через stdin/stdout до её завершения или отмены ctx.
func (s *Server) RunStdio(ctx context.Context) error {
	logger.Log.Info("Serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Handler собирает HTTP-маршруты: /mcp, /health и /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil))
	mux.HandleFunc("GET /health", s.HealthCheck)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return RequestIDMiddleware(LoggingMiddleware(mux))
}

// HealthCheck отвечает 200 OK, если хранилище доступно, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Ping(r.Context()); err != nil {
		http.Error(w, "DB unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

// ListenHTTP слушает addr до отмены ctx, после чего корректно останавливает сервер.
func (s *Server) ListenHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.WithField("addr", addr).Info("Serving MCP over HTTP")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
