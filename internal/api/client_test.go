package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer starts an httptest server that checks authentication
// headers and delegates to handler.
func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "session=secret", r.Header.Get("Cookie"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL+"/", "secret")
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func TestClient_GetDetails(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/account/getdetails", r.URL.Path)
		_, _ = io.WriteString(w, `{"success":true,"id":"u1","name":"reimu","robloxUser":"hakurei","numSessions":2}`)
	})

	details, err := c.GetDetails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", details.ID)
	assert.Equal(t, "reimu", details.Name)
	assert.Equal(t, "hakurei", details.RobloxUser)
	assert.Equal(t, int64(2), details.NumSessions)
}

func TestClient_ListScripts(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/script/home/getscripts", r.URL.Path)
		_, _ = io.WriteString(w, `{"success":true,"scripts":[{"id":"s1","name":"one","type":1,"editable":true,"isFavorite":true}]}`)
	})

	list, err := c.ListScripts(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Scripts, 1)
	assert.Equal(t, "s1", list.Scripts[0].ID)
	assert.True(t, list.Scripts[0].Editable)
	assert.True(t, list.Scripts[0].IsFavorite)
}

func TestClient_GetEditor(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/script/editor", r.URL.Path)
		assert.Equal(t, "a b", r.URL.Query().Get("id"))
		_, _ = io.WriteString(w, `{"success":true,"scriptInfo":{"name":"demo","description":"# hi","isPublic":true,
			"whitelist":["x"],"source":{"main":"print(1)","modules":{"util":"return {}"}}}}`)
	})

	editor, err := c.GetEditor(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "demo", editor.ScriptInfo.Name)
	assert.True(t, editor.ScriptInfo.IsPublic)
	assert.Equal(t, []string{"x"}, editor.ScriptInfo.Whitelist)
	assert.Equal(t, "print(1)", editor.ScriptInfo.Source.Main)
	assert.Equal(t, map[string]string{"util": "return {}"}, editor.ScriptInfo.Source.Modules)
}

func TestClient_GetEditor_NilModules(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"scriptInfo":{"name":"demo","source":{"main":""}}}`)
	})

	editor, err := c.GetEditor(context.Background(), "id")
	require.NoError(t, err)
	assert.NotNil(t, editor.ScriptInfo.Source.Modules)
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

func TestClient_SetEditor(t *testing.T) {
	var got map[string]any

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/script/editor", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	err := c.SetEditor(context.Background(), "abc", []EditorUpdate{Description("text")})
	require.NoError(t, err)

	assert.Equal(t, "abc", got["scriptId"])
	assert.Equal(t, map[string]any{"description": "text"}, got["scriptInfo"])
}

func TestClient_GenerateKey(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/script/generatekey", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "abc", body["scriptId"])

		_, _ = io.WriteString(w, `{"success":true,"key":"KEY-123"}`)
	})

	key, err := c.GenerateKey(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "KEY-123", key)
}

func TestClient_GenerateKey_InvalidTarget(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"error":"script is a package"}`)
	})

	_, err := c.GenerateKey(context.Background(), "pkg")
	require.ErrorIs(t, err, ErrInvalidKeyGenerationTarget)
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNotLoggedIn) },
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrInsufficientAuthorization) },
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "<html>oops</html>",
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusInternalServerError, se.Code)
			},
		},
		{
			name:   "not logged in body",
			status: http.StatusOK,
			body:   `{"success":false,"error":"Not logged in"}`,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNotLoggedIn) },
		},
		{
			name:   "banned",
			status: http.StatusForbidden,
			body:   `{"success":false,"banned":true,"reason":"exploiting"}`,
			check: func(t *testing.T, err error) {
				var be *BannedError
				require.ErrorAs(t, err, &be)
				assert.Equal(t, "exploiting", be.Reason)
			},
		},
		{
			name:   "generic failure",
			status: http.StatusOK,
			body:   `{"success":false,"message":"rate limited"}`,
			check: func(t *testing.T, err error) {
				var ae *Error
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, "rate limited", ae.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.GetDetails(context.Background())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestBannedError_NoReason(t *testing.T) {
	assert.Equal(t, "the user is banned for (no reason provided)", (&BannedError{}).Error())
}
