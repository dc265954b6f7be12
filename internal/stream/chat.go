package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// streamUser mirrors the provider's user object.
type streamUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// CreateChannel creates a messaging channel keyed by id with creator as its
// sole member unless more members are given.
func (c *Client) CreateChannel(ctx context.Context, id, name, creator string, members []string) error {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"name":          name,
			"created_by_id": creator,
			"members":       members,
		},
	}
	path := fmt.Sprintf("/channels/messaging/%s/query", url.PathEscape(id))
	_, err := c.doRequest(ctx, http.MethodPost, path, payload)
	return err
}

// DeleteChannel removes the channel and its messages.
func (c *Client) DeleteChannel(ctx context.Context, id string) error {
	path := fmt.Sprintf("/channels/messaging/%s", url.PathEscape(id))
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	return err
}

// AddMembers adds users to an existing channel.
func (c *Client) AddMembers(ctx context.Context, id string, members []string) error {
	payload := map[string]interface{}{"add_members": members}
	path := fmt.Sprintf("/channels/messaging/%s", url.PathEscape(id))
	_, err := c.doRequest(ctx, http.MethodPost, path, payload)
	return err
}

// RemoveMembers removes users from a channel.
func (c *Client) RemoveMembers(ctx context.Context, id string, members []string) error {
	payload := map[string]interface{}{"remove_members": members}
	path := fmt.Sprintf("/channels/messaging/%s", url.PathEscape(id))
	_, err := c.doRequest(ctx, http.MethodPost, path, payload)
	return err
}

// UpsertUser registers or refreshes a user on the provider side so they can
// be added to channels and calls.
func (c *Client) UpsertUser(ctx context.Context, id, name, image string) error {
	payload := map[string]interface{}{
		"users": map[string]streamUser{
			id: {ID: id, Name: name, Image: image},
		},
	}
	_, err := c.doRequest(ctx, http.MethodPost, "/users", payload)
	return err
}

// DeleteUser removes a user from the provider.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	path := fmt.Sprintf("/users/%s", url.PathEscape(id))
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	return err
}
