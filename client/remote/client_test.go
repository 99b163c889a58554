package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status < 400,
		"data":    data,
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{
		BaseURL: server.URL,
		Token:   func() string { return "test-token" },
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	return client, server
}

func TestArchive(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/archive", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		respond(w, http.StatusOK, map[string]interface{}{
			"pebbles": []map[string]interface{}{
				{"id": "p1", "topic": "Gravity", "folderId": "f1", "status": "active", "createdAt": 1700000000000},
				{"id": "p2", "topic": "Rome", "status": "deleted", "createdAt": 1700000001000, "deletedAt": 1700000002000},
			},
			"folders": []map[string]interface{}{
				{"id": "f1", "name": "Physics", "createdAt": 1700000000000},
			},
		})
	}))

	pebbles, folders, err := client.Archive(context.Background())
	require.NoError(t, err)
	require.Len(t, pebbles, 2)
	require.Len(t, folders, 1)

	assert.Equal(t, "p1", pebbles[0].ID)
	assert.Equal(t, "f1", pebbles[0].FolderID)
	assert.False(t, pebbles[0].IsDeleted)
	assert.True(t, pebbles[1].IsDeleted)
	assert.Equal(t, "Physics", folders[0].Name)
}

func TestCreatePebble(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/pebbles", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Black Holes", body["topic"])

		respond(w, http.StatusCreated, map[string]interface{}{
			"id": "p9", "topic": "Black Holes", "status": "active", "createdAt": 1700000000000,
		})
	}))

	pebble, err := client.CreatePebble(context.Background(), "Black Holes", "", false)
	require.NoError(t, err)
	assert.Equal(t, "p9", pebble.ID)
	assert.Equal(t, "Black Holes", pebble.Topic)
}

func TestCreateFolderEchoesClientID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		respond(w, http.StatusCreated, map[string]interface{}{
			"folder":   map[string]interface{}{"id": "f7", "name": "New Collection", "createdAt": 1700000000000},
			"clientId": body["clientId"],
		})
	}))

	folder, clientID, err := client.CreateFolder(context.Background(), "New Collection", "", []string{"p1", "p2"}, "temp-abc")
	require.NoError(t, err)
	assert.Equal(t, "f7", folder.ID)
	assert.Equal(t, "temp-abc", clientID)
}

func TestAPIErrorSurfaced(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "PEBBLE_NOT_FOUND", "pebble not found")
	}))

	err := client.DeletePebbles(context.Background(), []string{"missing"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "PEBBLE_NOT_FOUND", apiErr.Code)
}

func TestOnUnauthorizedHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "token expired")
	}))
	defer server.Close()

	fired := false
	client := NewClient(Config{
		BaseURL:        server.URL,
		Token:          func() string { return "stale" },
		OnUnauthorized: func() { fired = true },
	}, zap.NewNop())

	err := client.MovePebbles(context.Background(), []string{"p1"}, "f1")
	require.Error(t, err)
	assert.True(t, fired)
}

func TestArchiveRetriesOnServerError(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "transient")
			return
		}
		respond(w, http.StatusOK, map[string]interface{}{
			"pebbles": []map[string]interface{}{},
			"folders": []map[string]interface{}{},
		})
	}))

	_, _, err := client.Archive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestArchiveDoesNotRetryClientError(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		respondError(w, http.StatusForbidden, "FORBIDDEN", "no access")
	}))

	_, _, err := client.Archive(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
