package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kvfinder/kvfinder-web/internal/client"
	"github.com/kvfinder/kvfinder-web/internal/model"
)

// ErrJobNotFound means the tag has no job in the queue service.
var ErrJobNotFound = errors.New("job not found")

// jobViewFields restricts fetches to what the public job view exposes.
const jobViewFields = "status,output,created_at,started_at,ended_at,expires_after"

// JobService reconciles submissions against the queue service: one active
// job per content tag, job views keyed by tag.
type JobService struct {
	queue     client.Queue
	queueName string
}

func NewJobService(queue client.Queue, queueName string) *JobService {
	return &JobService{
		queue:     queue,
		queueName: queueName,
	}
}

// CreateResult is the outcome of a submission. Existing is set on a dedup
// hit, in which case no new job was enqueued.
type CreateResult struct {
	Tag      string
	Existing *model.Job
}

// GetJob resolves a tag to its job view. The numeric queue id stays
// internal: the returned view carries the tag as its id.
func (s *JobService) GetJob(ctx context.Context, tag string) (*model.Job, error) {
	id, found, err := s.queue.LookupTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("lookup tag: %w", err)
	}
	if !found {
		return nil, ErrJobNotFound
	}

	job, err := s.queue.FetchJob(ctx, id, jobViewFields)
	if err != nil {
		return nil, fmt.Errorf("fetch job: %w", err)
	}
	job.ID = tag
	return job, nil
}

// Create submits an already-validated input. If a job with the same
// content tag exists its view is returned instead of enqueueing again.
func (s *JobService) Create(ctx context.Context, in *model.Input) (*CreateResult, error) {
	tag, err := Tag(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.GetJob(ctx, tag)
	switch {
	case err == nil:
		return &CreateResult{Tag: tag, Existing: existing}, nil
	case errors.Is(err, ErrJobNotFound):
		// fall through to enqueue
	default:
		return nil, err
	}

	req := &model.EnqueueRequest{
		Tags:  []string{tag},
		Input: *in,
	}
	if _, err := s.queue.Enqueue(ctx, s.queueName, req); err != nil {
		return nil, fmt.Errorf("enqueue: %w", err)
	}

	return &CreateResult{Tag: tag}, nil
}
