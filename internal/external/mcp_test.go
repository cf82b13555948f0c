package external

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

// This mirrors MCPClientInterface in mcp.go.
type mockMCPClient struct {
	InitializeFunc func(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error)
	CallToolFunc   func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	CloseFunc      func() error
}

func (m *mockMCPClient) Initialize(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error) {
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, req)
	}
	return &mcp.InitializeResult{}, nil
}

func (m *mockMCPClient) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if m.CallToolFunc != nil {
		return m.CallToolFunc(ctx, request)
	}
	return &mcp.CallToolResult{}, nil
}

func (m *mockMCPClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
	}
}

func TestMCPSourceFetchDecodesToolText(t *testing.T) {
	mock := &mockMCPClient{
		CallToolFunc: func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			require.Equal(t, "weather", request.Params.Name)
			args, ok := request.Params.Arguments.(map[string]any)
			require.True(t, ok)
			require.Equal(t, "Tokyo", args["city"])
			return textResult(`{"location":"Tokyo","temperature":68,"condition":"Rainy"}`), nil
		},
	}

	s := NewMCPSourceWithClient(mock)
	resp := s.Fetch(context.Background(), "weather", map[string]any{"city": "Tokyo"})

	require.True(t, resp.Success)
	require.Equal(t, KindWeather, resp.Data.Kind)
	require.Equal(t, "Tokyo", resp.Data.Weather.Location)
	require.Equal(t, "Rainy", resp.Data.Weather.Condition)
}

func TestMCPSourceFetchNilParams(t *testing.T) {
	mock := &mockMCPClient{
		CallToolFunc: func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, ok := request.Params.Arguments.(map[string]any)
			require.True(t, ok)
			require.Empty(t, args)
			return textResult(`[{"id":1,"name":"Laptop","price":999.99}]`), nil
		},
	}

	s := NewMCPSourceWithClient(mock)
	resp := s.Fetch(context.Background(), "products", nil)

	require.True(t, resp.Success)
	require.Equal(t, KindProducts, resp.Data.Kind)
}

func TestMCPSourceFetchToolError(t *testing.T) {
	mock := &mockMCPClient{
		CallToolFunc: func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, errors.New("transport broke")
		},
	}

	s := NewMCPSourceWithClient(mock)
	resp := s.Fetch(context.Background(), "weather", nil)

	require.False(t, resp.Success)
	require.Equal(t, fetchFailedError, resp.Error)
}

func TestMCPSourceFetchIsError(t *testing.T) {
	mock := &mockMCPClient{
		CallToolFunc: func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			result := textResult("no such tool")
			result.IsError = true
			return result, nil
		},
	}

	s := NewMCPSourceWithClient(mock)
	resp := s.Fetch(context.Background(), "stocks", nil)

	require.False(t, resp.Success)
	require.Equal(t, "no such tool", resp.Error)
}

func TestMCPSourceFetchEmptyResult(t *testing.T) {
	mock := &mockMCPClient{}

	s := NewMCPSourceWithClient(mock)
	resp := s.Fetch(context.Background(), "weather", nil)

	require.False(t, resp.Success)
}

func TestMCPSourceSubmitPassesBodyAsArguments(t *testing.T) {
	mock := &mockMCPClient{
		CallToolFunc: func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			require.Equal(t, "feedback", request.Params.Name)
			args, ok := request.Params.Arguments.(map[string]any)
			require.True(t, ok)
			require.Equal(t, 5, args["rating"])
			return textResult(`{"id":1}`), nil
		},
	}

	s := NewMCPSourceWithClient(mock)
	resp := s.Submit(context.Background(), "feedback", map[string]any{"rating": 5})

	require.True(t, resp.Success)
	require.Equal(t, KindRaw, resp.Data.Kind)
}
