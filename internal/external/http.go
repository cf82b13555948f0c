package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/chatpipe-io/chatpipe/internal/logger"
)

const (
	fetchFailedError  = "Failed to fetch data from external API"
	submitFailedError = "Failed to send data to external API"
)

// HTTPClient talks to the live external data API. No retries and no timeout
// beyond the transport default.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (c *HTTPClient) Fetch(ctx context.Context, dataType string, params map[string]any) Response {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, dataType)
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, fmt.Sprint(v))
		}
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{Success: false, Error: fetchFailedError}
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		logger.L.Warn("external API fetch failed", "dataType", dataType, "error", err)
		return Response{Success: false, Error: fetchFailedError}
	}

	return Response{Success: true, Data: decodeData(dataType, body)}
}

func (c *HTTPClient) Submit(ctx context.Context, dataType string, payload any) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{Success: false, Error: submitFailedError}
	}

	endpoint := fmt.Sprintf("%s/%s", c.baseURL, dataType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return Response{Success: false, Error: submitFailedError}
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(req)
	if err != nil {
		logger.L.Warn("external API submit failed", "dataType", dataType, "error", err)
		return Response{Success: false, Error: submitFailedError}
	}

	return Response{Success: true, Data: decodeData(dataType, respBody)}
}

func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
