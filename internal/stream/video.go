package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CallMetadata is attached to a video call at creation so the provider-side
// call carries enough context to be traced back to its session.
type CallMetadata struct {
	Problem    string `json:"problem"`
	Difficulty string `json:"difficulty"`
	SessionID  string `json:"sessionId"`
}

// GetOrCreateCall creates the video call keyed by id, or returns the existing
// one. Idempotent on the provider side.
func (c *Client) GetOrCreateCall(ctx context.Context, id, creator string, meta CallMetadata) error {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"created_by_id": creator,
			"custom":        meta,
		},
	}
	path := fmt.Sprintf("/video/call/default/%s", url.PathEscape(id))
	_, err := c.doRequest(ctx, http.MethodPost, path, payload)
	return err
}

// DeleteCall removes the call. With hard set, recordings and state are
// destroyed rather than archived.
func (c *Client) DeleteCall(ctx context.Context, id string, hard bool) error {
	payload := map[string]interface{}{"hard": hard}
	path := fmt.Sprintf("/video/call/default/%s/delete", url.PathEscape(id))
	_, err := c.doRequest(ctx, http.MethodPost, path, payload)
	return err
}
