package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kvfinder/kvfinder-web/internal/config"
	"github.com/kvfinder/kvfinder-web/internal/model"
)

// Queue defines the operations the system needs from the external job
// queue service. The gateway and the worker are written against this
// interface so they can be tested with an in-memory fake.
type Queue interface {
	// EnsureQueue creates or updates a queue with the given settings.
	EnsureQueue(ctx context.Context, name string, settings QueueSettings) error
	// LookupTag resolves a content tag to the newest queue id carrying it.
	LookupTag(ctx context.Context, tag string) (id uint64, found bool, err error)
	// FetchJob reads a job view, restricted to the given fields.
	FetchJob(ctx context.Context, id uint64, fields string) (*model.Job, error)
	// Enqueue submits a new job and returns its queue id.
	Enqueue(ctx context.Context, queue string, req *model.EnqueueRequest) (uint64, error)
	// Lease takes the next job off the queue.
	Lease(ctx context.Context, queue string) (*model.JobInput, error)
	// Complete reports a finished job with its output.
	Complete(ctx context.Context, id uint64, output *model.Output) error
}

// QueueSettings is the queue creation body.
type QueueSettings struct {
	Timeout      string `json:"timeout"`
	ExpiresAfter string `json:"expires_after"`
	Retries      int    `json:"retries"`
}

// OcypodClient implements Queue against an ocypod server. It performs no
// retries; transport failures are surfaced to the caller.
type OcypodClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewOcypodClient(cfg *config.OcypodConfig) *OcypodClient {
	return &OcypodClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: cfg.BaseURL,
	}
}

func (c *OcypodClient) EnsureQueue(ctx context.Context, name string, settings QueueSettings) error {
	_, err := c.send(ctx, http.MethodPut, fmt.Sprintf("/queue/%s", name), settings)
	return err
}

func (c *OcypodClient) LookupTag(ctx context.Context, tag string) (uint64, bool, error) {
	// More than one id under a tag means duplicate submissions raced;
	// the newest one wins, same as the queue service itself.
	var ids []uint64
	if err := c.get(ctx, fmt.Sprintf("/tag/%s", tag), &ids); err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[len(ids)-1], true, nil
}

func (c *OcypodClient) FetchJob(ctx context.Context, id uint64, fields string) (*model.Job, error) {
	var job model.Job
	if err := c.get(ctx, fmt.Sprintf("/job/%d?fields=%s", id, fields), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *OcypodClient) Enqueue(ctx context.Context, queue string, req *model.EnqueueRequest) (uint64, error) {
	body, err := c.send(ctx, http.MethodPost, fmt.Sprintf("/queue/%s/job", queue), req)
	if err != nil {
		return 0, err
	}
	var id uint64
	if err := json.Unmarshal(body, &id); err != nil {
		// The gateway does not use the queue id; a body the server
		// chose not to fill is not a failed enqueue.
		return 0, nil
	}
	return id, nil
}

func (c *OcypodClient) Lease(ctx context.Context, queue string) (*model.JobInput, error) {
	var job model.JobInput
	if err := c.get(ctx, fmt.Sprintf("/queue/%s/job", queue), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *OcypodClient) Complete(ctx context.Context, id uint64, output *model.Output) error {
	report := struct {
		Status model.JobStatus `json:"status"`
		Output *model.Output   `json:"output"`
	}{
		Status: model.JobStatusCompleted,
		Output: output,
	}
	_, err := c.send(ctx, http.MethodPatch, fmt.Sprintf("/job/%d", id), report)
	return err
}

// get performs a GET and decodes the JSON response. An empty 204 from an
// idle queue fails the decode and surfaces as an error, which is what the
// worker's backoff expects.
func (c *OcypodClient) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("queue service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// send performs a request with a JSON body and returns the raw response.
func (c *OcypodClient) send(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("queue service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
