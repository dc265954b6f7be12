package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Client talks to a Stream-compatible chat/video API. Calls are single-shot:
// the caller decides what a failure means, nothing is retried here.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  []byte
	httpClient *http.Client

	serverToken string
}

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stream api error: status %d: %s", e.StatusCode, e.Body)
}

// NewClient creates a provider client. The server token authenticates this
// backend for all calls; it is minted once, HS256-signed with the API secret.
func NewClient(baseURL, apiKey, apiSecret string) (*Client, error) {
	c := &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: []byte(apiSecret),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	token, err := c.signToken(jwt.MapClaims{"server": true})
	if err != nil {
		return nil, fmt.Errorf("failed to mint server token: %w", err)
	}
	c.serverToken = token

	return c, nil
}

// UserToken mints a provider token for a single user so the frontend can open
// the chat channel and video call itself.
func (c *Client) UserToken(userID string) (string, error) {
	return c.signToken(jwt.MapClaims{"user_id": userID})
}

func (c *Client) signToken(claims jwt.MapClaims) (string, error) {
	claims["iat"] = jwt.NewNumericDate(time.Now())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.apiSecret)
}

// doRequest performs one API call and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if c.apiKey != "" {
		sep := "?"
		if parsed, err := url.Parse(u); err == nil && parsed.RawQuery != "" {
			sep = "&"
		}
		u += sep + "api_key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.serverToken)
	req.Header.Set("stream-auth-type", "jwt")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stream request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
