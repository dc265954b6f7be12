package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]interface{}
}

func newTestClient(t *testing.T, status int) (*Client, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Query = r.URL.RawQuery
		rec.Auth = r.Header.Get("Authorization")
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			json.Unmarshal(data, &rec.Body)
		}
		w.WriteHeader(status)
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "test-key", "test-secret")
	require.NoError(t, err)
	return client, rec
}

func TestCreateChannel(t *testing.T) {
	client, rec := newTestClient(t, http.StatusCreated)

	err := client.CreateChannel(context.Background(), "session_1_abc", "Two Sum Session", "user_host", []string{"user_host"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/channels/messaging/session_1_abc/query", rec.Path)
	assert.Contains(t, rec.Query, "api_key=test-key")
	assert.NotEmpty(t, rec.Auth)

	data := rec.Body["data"].(map[string]interface{})
	assert.Equal(t, "Two Sum Session", data["name"])
	assert.Equal(t, "user_host", data["created_by_id"])
}

func TestDeleteChannel(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK)

	require.NoError(t, client.DeleteChannel(context.Background(), "session_1_abc"))
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/channels/messaging/session_1_abc", rec.Path)
}

func TestAddAndRemoveMembers(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK)

	require.NoError(t, client.AddMembers(context.Background(), "session_1_abc", []string{"user_guest"}))
	assert.Equal(t, []interface{}{"user_guest"}, rec.Body["add_members"])

	require.NoError(t, client.RemoveMembers(context.Background(), "session_1_abc", []string{"user_guest"}))
	assert.Equal(t, []interface{}{"user_guest"}, rec.Body["remove_members"])
}

func TestGetOrCreateCall(t *testing.T) {
	client, rec := newTestClient(t, http.StatusCreated)

	meta := CallMetadata{Problem: "Two Sum", Difficulty: "easy", SessionID: "abc123"}
	require.NoError(t, client.GetOrCreateCall(context.Background(), "session_1_abc", "user_host", meta))

	assert.Equal(t, "/video/call/default/session_1_abc", rec.Path)
	data := rec.Body["data"].(map[string]interface{})
	custom := data["custom"].(map[string]interface{})
	assert.Equal(t, "Two Sum", custom["problem"])
	assert.Equal(t, "abc123", custom["sessionId"])
}

func TestDeleteCall_Hard(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK)

	require.NoError(t, client.DeleteCall(context.Background(), "session_1_abc", true))
	assert.Equal(t, "/video/call/default/session_1_abc/delete", rec.Path)
	assert.Equal(t, true, rec.Body["hard"])
}

func TestUpsertAndDeleteUser(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK)

	require.NoError(t, client.UpsertUser(context.Background(), "user_abc", "Ada Lovelace", ""))
	users := rec.Body["users"].(map[string]interface{})
	user := users["user_abc"].(map[string]interface{})
	assert.Equal(t, "Ada Lovelace", user["name"])

	require.NoError(t, client.DeleteUser(context.Background(), "user_abc"))
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/users/user_abc", rec.Path)
}

func TestAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.StatusInternalServerError)

	err := client.DeleteChannel(context.Background(), "session_1_abc")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestUserToken(t *testing.T) {
	client, err := NewClient("http://localhost:0", "test-key", "test-secret")
	require.NoError(t, err)

	tokenString, err := client.UserToken("user_abc")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "user_abc", claims["user_id"])
}
