package external

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/chatpipe-io/chatpipe/internal/config"
	"github.com/chatpipe-io/chatpipe/internal/logger"
)

// MCPClientInterface is the subset of the mcp-go client the source needs;
// tests substitute a mock.
type MCPClientInterface interface {
	Initialize(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// MCPSource fetches external data by calling tools on an MCP server: the
// data type names the tool and the params become its arguments. The first
// text content of the tool result is parsed as the payload.
type MCPSource struct {
	client MCPClientInterface
}

// NewMCPSource connects to and initializes the configured MCP server.
func NewMCPSource(cfg config.MCPServerConfig) (*MCPSource, error) {
	var mcpC *client.Client
	var err error

	switch cfg.Type {
	case config.ClientTypeSSE:
		var sseOpts []transport.ClientOption
		if len(cfg.Headers) > 0 {
			sseOpts = append(sseOpts, transport.WithHeaders(cfg.Headers))
		}
		mcpC, err = client.NewSSEMCPClient(cfg.URL, sseOpts...)
	case config.ClientTypeStreamableHTTP:
		var httpOpts []transport.StreamableHTTPCOption
		if len(cfg.Headers) > 0 {
			httpOpts = append(httpOpts, transport.WithHTTPHeaders(cfg.Headers))
		}
		mcpC, err = client.NewStreamableHttpClient(cfg.URL, httpOpts...)
	case config.ClientTypeStdio:
		var env []string
		for k, v := range cfg.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		mcpC, err = client.NewStdioMCPClient(cfg.Command, env, cfg.Args...)
	default:
		return nil, fmt.Errorf("unsupported MCP server type %q (expected sse, streamable_http or stdio)", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("create MCP client: %w", err)
	}

	ctx := context.Background()
	if cfg.Type != config.ClientTypeStdio {
		if err := mcpC.Start(ctx); err != nil {
			if cerr := mcpC.Close(); cerr != nil {
				logger.L.Warn("MCP client close error after start failure", "error", cerr)
			}
			return nil, fmt.Errorf("start MCP client transport: %w", err)
		}
	}

	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{Capabilities: mcp.ClientCapabilities{}},
	}
	if _, err := mcpC.Initialize(ctx, initReq); err != nil {
		if cerr := mcpC.Close(); cerr != nil {
			logger.L.Warn("MCP client close error after init failure", "error", cerr)
		}
		return nil, fmt.Errorf("initialize MCP client: %w", err)
	}
	logger.L.Info("MCP data source initialized", "name", cfg.Name)

	return &MCPSource{client: mcpC}, nil
}

// NewMCPSourceWithClient wraps an already-initialized client.
func NewMCPSourceWithClient(c MCPClientInterface) *MCPSource {
	return &MCPSource{client: c}
}

func (s *MCPSource) Fetch(ctx context.Context, dataType string, params map[string]any) Response {
	if params == nil {
		params = map[string]any{}
	}
	return s.callTool(ctx, dataType, params)
}

func (s *MCPSource) Submit(ctx context.Context, dataType string, body any) Response {
	args, ok := body.(map[string]any)
	if !ok {
		args = map[string]any{"body": body}
	}
	return s.callTool(ctx, dataType, args)
}

func (s *MCPSource) callTool(ctx context.Context, dataType string, args map[string]any) Response {
	result, err := s.client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      dataType,
			Arguments: args,
		},
	})
	if err != nil {
		logger.L.Warn("MCP tool call failed", "tool", dataType, "error", err)
		return Response{Success: false, Error: fetchFailedError}
	}

	text := firstTextContent(result)
	if result.IsError {
		if text == "" {
			text = fetchFailedError
		}
		logger.L.Warn("MCP tool reported an error", "tool", dataType, "error", text)
		return Response{Success: false, Error: text}
	}
	if text == "" {
		return Response{Success: false, Error: fetchFailedError}
	}

	return Response{Success: true, Data: decodeData(dataType, []byte(text))}
}

// Close releases the underlying MCP client transport.
func (s *MCPSource) Close() error {
	return s.client.Close()
}

func firstTextContent(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, item := range result.Content {
		if textContent, ok := item.(mcp.TextContent); ok {
			return textContent.Text
		}
	}
	return ""
}
