// Package remote is the HTTP consumer of the archive API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"pebblevault/client/store"
	v1 "pebblevault/interfaces/http/rest/v1"
)

// TokenProvider supplies the bearer credential for each request
type TokenProvider func() string

// Config holds the remote client settings
type Config struct {
	BaseURL string
	Token   TokenProvider
	Timeout time.Duration
	// OnUnauthorized runs when the server answers 401, the global
	// re-authentication hook.
	OnUnauthorized func()
}

// Client talks JSON to the archive API with a circuit breaker around
// every call and retries on idempotent reads.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	token          TokenProvider
	breaker        *gobreaker.CircuitBreaker
	onUnauthorized func()
	logger         *zap.Logger
}

// APIError is a non-2xx answer from the server
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d [%s]: %s", e.Status, e.Code, e.Message)
}

// envelope matches the server's response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates a remote API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "archive-api",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		baseURL:        cfg.BaseURL,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		token:          cfg.Token,
		breaker:        breaker,
		onUnauthorized: cfg.OnUnauthorized,
		logger:         logger,
	}
}

// Archive fetches the full state in one call
func (c *Client) Archive(ctx context.Context) ([]store.Pebble, []store.Folder, error) {
	var archive v1.Archive
	if err := c.getWithRetry(ctx, "/api/v1/archive", &archive); err != nil {
		return nil, nil, err
	}

	pebbles := make([]store.Pebble, 0, len(archive.Pebbles))
	for _, p := range archive.Pebbles {
		pebbles = append(pebbles, pebbleFromWire(p))
	}
	folders := make([]store.Folder, 0, len(archive.Folders))
	for _, f := range archive.Folders {
		folders = append(folders, folderFromWire(f))
	}
	return pebbles, folders, nil
}

// CreatePebble persists a new pebble and returns the server's copy
func (c *Client) CreatePebble(ctx context.Context, topic, folderID string, generate bool) (store.Pebble, error) {
	var created v1.Pebble
	err := c.do(ctx, http.MethodPost, "/api/v1/pebbles", v1.CreatePebbleRequest{
		Topic:    topic,
		FolderID: folderID,
		Generate: generate,
	}, &created)
	if err != nil {
		return store.Pebble{}, err
	}
	return pebbleFromWire(created), nil
}

// RenamePebble updates a pebble's topic
func (c *Client) RenamePebble(ctx context.Context, id, topic string) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/pebbles/"+id, v1.UpdatePebbleRequest{Topic: &topic}, nil)
}

// VerifyPebble marks a pebble's content as reviewed, or withdraws the
// mark
func (c *Client) VerifyPebble(ctx context.Context, id string, verified bool) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/pebbles/"+id, v1.UpdatePebbleRequest{IsVerified: &verified}, nil)
}

// MovePebbles assigns a batch of pebbles to a folder; empty folderID
// moves them to the root
func (c *Client) MovePebbles(ctx context.Context, ids []string, folderID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/pebbles/move", v1.MovePebblesRequest{
		PebbleIDs: ids,
		FolderID:  folderID,
	}, nil)
}

// DeletePebbles soft-deletes a batch of pebbles
func (c *Client) DeletePebbles(ctx context.Context, ids []string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/pebbles/delete", v1.PebbleIDsRequest{PebbleIDs: ids}, nil)
}

// RestorePebbles undoes a soft delete
func (c *Client) RestorePebbles(ctx context.Context, ids []string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/pebbles/restore", v1.PebbleIDsRequest{PebbleIDs: ids}, nil)
}

// CreateFolder persists a new folder. The clientID is the caller's
// provisional ID, echoed back for reconciliation.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string, pebbleIDs []string, clientID string) (store.Folder, string, error) {
	var resp v1.CreateFolderResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/folders", v1.CreateFolderRequest{
		Name:      name,
		ParentID:  parentID,
		PebbleIDs: pebbleIDs,
		ClientID:  clientID,
	}, &resp)
	if err != nil {
		return store.Folder{}, "", err
	}
	return folderFromWire(resp.Folder), resp.ClientID, nil
}

// RenameFolder updates a folder's name
func (c *Client) RenameFolder(ctx context.Context, id, name string) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/folders/"+id, v1.UpdateFolderRequest{Name: &name}, nil)
}

// MoveFolder re-parents a folder; empty parentID moves it to the root
func (c *Client) MoveFolder(ctx context.Context, id, parentID string) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/folders/"+id, v1.UpdateFolderRequest{ParentID: &parentID}, nil)
}

// UngroupFolder dissolves a folder, lifting its contents to its parent
func (c *Client) UngroupFolder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/folders/"+id+"/ungroup", nil, nil)
}

// Generate asks the server for a content preview of a topic, grounded
// in the given context pebbles when any are named
func (c *Client) Generate(ctx context.Context, topic string, contextPebbleIDs []string) (v1.GenerateResponse, error) {
	var resp v1.GenerateResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/generate", v1.GenerateRequest{
		Topic:            topic,
		ContextPebbleIDs: contextPebbleIDs,
	}, &resp)
	return resp, err
}

// getWithRetry wraps a GET in exponential backoff, reads are
// idempotent so retrying is safe
func (c *Client) getWithRetry(ctx context.Context, path string, out interface{}) error {
	operation := func() error {
		err := c.do(ctx, http.MethodGet, path, nil, out)
		var apiErr *APIError
		if err != nil {
			// Client errors will not improve with retries
			if errors.As(err, &apiErr) && apiErr.Status < 500 {
				return backoff.Permanent(err)
			}
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(operation, policy)
}

// do runs one request through the circuit breaker
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.doOnce(ctx, method, path, body, out)
	})
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= 400 || (len(raw) > 0 && !env.Success) {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// pebbleFromWire flattens a wire pebble into the client model,
// keeping its content opaque
func pebbleFromWire(p v1.Pebble) store.Pebble {
	content, _ := json.Marshal(struct {
		Levels            interface{} `json:"levels,omitempty"`
		SocraticQuestions []string    `json:"socraticQuestions,omitempty"`
	}{p.Levels, p.SocraticQuestions})

	return store.Pebble{
		ID:         p.ID,
		Topic:      p.Topic,
		FolderID:   p.FolderID,
		Timestamp:  p.CreatedAt,
		IsVerified: p.IsVerified,
		IsDeleted:  p.Status == "deleted",
		Content:    content,
	}
}

func folderFromWire(f v1.Folder) store.Folder {
	return store.Folder{
		ID:        f.ID,
		Name:      f.Name,
		ParentID:  f.ParentID,
		CreatedAt: f.CreatedAt,
	}
}
