package worker

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kvfinder/kvfinder-web/internal/client"
)

// Worker pulls jobs from the queue service one at a time and runs the
// solver on each. It is strictly sequential; horizontal scale-out means
// running more worker processes against the same queue.
type Worker struct {
	queue     client.Queue
	runner    *Runner
	queueName string
	backoff   time.Duration
	id        string
}

func New(queue client.Queue, runner *Runner, queueName string, backoff time.Duration) *Worker {
	return &Worker{
		queue:     queue,
		runner:    runner,
		queueName: queueName,
		backoff:   backoff,
		// Short instance id so scaled-out workers are tellable apart in logs.
		id: uuid.New().String()[:8],
	}
}

// Start runs the pull-process-report loop until ctx is cancelled. A lease
// failure (queue unreachable, or simply no job waiting) backs off before
// the next poll; a solver failure is logged and left unreported so the
// queue service can time the lease out and re-lease or expire it.
func (w *Worker) Start(ctx context.Context) {
	log.Printf("Worker %s polling queue %q", w.id, w.queueName)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %s stopping", w.id)
			return
		default:
		}

		job, err := w.queue.Lease(ctx, w.queueName)
		if err != nil {
			log.Printf("Worker %s: lease: %v", w.id, err)
			select {
			case <-ctx.Done():
				log.Printf("Worker %s stopping", w.id)
				return
			case <-time.After(w.backoff):
			}
			continue
		}

		log.Printf("Worker %s: processing job %d", w.id, job.ID)
		output, err := w.runner.Run(ctx, job)
		if err != nil {
			log.Printf("Worker %s: job %d failed, leaving it to the queue timeout: %v", w.id, job.ID, err)
			continue
		}

		if err := w.queue.Complete(ctx, job.ID, output); err != nil {
			log.Printf("Worker %s: report job %d: %v", w.id, job.ID, err)
			continue
		}
		log.Printf("Worker %s: completed job %d", w.id, job.ID)
	}
}
