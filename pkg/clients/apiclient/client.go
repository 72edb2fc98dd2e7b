package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// RequestIDHeader carries a per-call identifier so client and server logs can be matched
const RequestIDHeader = "X-Request-ID"

// Client talks to the volunteer-management REST backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for baseURL. When token is non-nil every request carries it as a bearer token.
func NewClient(ctx context.Context, baseURL string, token *oauth2.Token, timeout time.Duration, logger *zap.Logger) *Client {
	httpClient := &http.Client{}
	if token != nil {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	}
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, reqBody, respBody any) error {
	url := c.baseURL + path
	requestID := uuid.NewString()

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return &APIError{Message: "failed to marshal request", Method: method, URL: url, Cause: err}
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return &APIError{Message: "failed to create request", Method: method, URL: url, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: "request failed", Method: method, URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &APIError{
			Message:    errorMessage(bodyBytes, resp.Status),
			StatusCode: resp.StatusCode,
			Method:     method,
			URL:        url,
			Body:       string(bodyBytes),
		}
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return &APIError{
				Message:    "failed to decode response",
				StatusCode: resp.StatusCode,
				Method:     method,
				URL:        url,
				Cause:      err,
			}
		}
	}

	return nil
}
