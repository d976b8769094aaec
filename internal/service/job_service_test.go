package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kvfinder/kvfinder-web/internal/client"
	"github.com/kvfinder/kvfinder-web/internal/model"
)

// fakeQueue is an in-memory stand-in for the queue service.
type fakeQueue struct {
	nextID   uint64
	byTag    map[string][]uint64
	views    map[uint64]*model.Job
	enqueued []*model.EnqueueRequest
	failWith error
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{
		nextID: 1,
		byTag:  make(map[string][]uint64),
		views:  make(map[uint64]*model.Job),
	}
}

func (f *fakeQueue) EnsureQueue(ctx context.Context, name string, settings client.QueueSettings) error {
	return f.failWith
}

func (f *fakeQueue) LookupTag(ctx context.Context, tag string) (uint64, bool, error) {
	if f.failWith != nil {
		return 0, false, f.failWith
	}
	ids := f.byTag[tag]
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[len(ids)-1], true, nil
}

func (f *fakeQueue) FetchJob(ctx context.Context, id uint64, fields string) (*model.Job, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	job, ok := f.views[id]
	if !ok {
		return nil, errors.New("no such job")
	}
	cp := *job
	return &cp, nil
}

func (f *fakeQueue) Enqueue(ctx context.Context, queue string, req *model.EnqueueRequest) (uint64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	id := f.nextID
	f.nextID++
	f.enqueued = append(f.enqueued, req)
	for _, tag := range req.Tags {
		f.byTag[tag] = append(f.byTag[tag], id)
	}
	f.views[id] = &model.Job{Status: model.JobStatusQueued, CreatedAt: "2026-01-01T00:00:00Z", ExpiresAfter: "1d"}
	return id, nil
}

func (f *fakeQueue) Lease(ctx context.Context, queue string) (*model.JobInput, error) {
	return nil, errors.New("not used here")
}

func (f *fakeQueue) Complete(ctx context.Context, id uint64, output *model.Output) error {
	return f.failWith
}

func TestCreateEnqueuesNewJob(t *testing.T) {
	queue := newFakeQueue()
	svc := NewJobService(queue, "kvfinder")

	result, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if result.Existing != nil {
		t.Error("fresh submission reported as dedup hit")
	}
	if result.Tag == "" {
		t.Error("empty tag")
	}
	if len(queue.enqueued) != 1 {
		t.Fatalf("enqueued %d jobs, want 1", len(queue.enqueued))
	}
	req := queue.enqueued[0]
	if len(req.Tags) != 1 || req.Tags[0] != result.Tag {
		t.Errorf("enqueue tags = %v, want [%s]", req.Tags, result.Tag)
	}
}

func TestCreateDedupsByTag(t *testing.T) {
	queue := newFakeQueue()
	svc := NewJobService(queue, "kvfinder")

	first, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	second, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}

	if second.Existing == nil {
		t.Fatal("second submission should be a dedup hit")
	}
	if second.Tag != first.Tag {
		t.Errorf("tags differ: %s != %s", first.Tag, second.Tag)
	}
	if second.Existing.ID != first.Tag {
		t.Errorf("dedup job view id = %q, want tag %q", second.Existing.ID, first.Tag)
	}
	if len(queue.enqueued) != 1 {
		t.Errorf("enqueued %d jobs, want 1", len(queue.enqueued))
	}
}

func TestCreateSurfacesTransportError(t *testing.T) {
	queue := newFakeQueue()
	queue.failWith = errors.New("connection refused")
	svc := NewJobService(queue, "kvfinder")

	if _, err := svc.Create(context.Background(), validInput()); err == nil {
		t.Error("expected transport error to surface")
	}
}

func TestGetJobRewritesID(t *testing.T) {
	queue := newFakeQueue()
	svc := NewJobService(queue, "kvfinder")

	result, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	job, err := svc.GetJob(context.Background(), result.Tag)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if job.ID != result.Tag {
		t.Errorf("job id = %q, want tag %q", job.ID, result.Tag)
	}
	if job.Status != model.JobStatusQueued {
		t.Errorf("status = %q, want queued", job.Status)
	}
}

func TestGetJobUnknownTag(t *testing.T) {
	svc := NewJobService(newFakeQueue(), "kvfinder")

	_, err := svc.GetJob(context.Background(), "999999999999")
	if !errors.Is(err, ErrJobNotFound) {
		t.Errorf("GetJob = %v, want ErrJobNotFound", err)
	}
}
