package jobs

import (
	"context"
	"errors"
	"sync"

	"AudioFolio/internal/segment"
	"AudioFolio/pkg/metrics"

	"go.uber.org/zap"
)

// ErrQueueFull is returned when the conversion backlog is saturated; the
// caller should reject the request rather than block on accept.
var ErrQueueFull = errors.New("conversion queue is full")

// Task is one accepted conversion handed from the request path to a
// synthesis worker. Segmentation already happened; the worker owns
// everything from synthesis onward.
type Task struct {
	JobID    string
	UserID   uint
	Filename string
	VoiceID  string
	Speed    float64
	Segments []segment.Segment
}

// Runner executes a task to completion or failure.
type Runner interface {
	Run(ctx context.Context, task *Task)
}

// Queue decouples job lifetime from request lifetime: accept enqueues,
// workers dequeue and run the pipeline.
type Queue struct {
	tasks   chan *Task
	logger  *zap.Logger
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

func NewQueue(size int, logger *zap.Logger, m *metrics.Metrics) *Queue {
	return &Queue{
		tasks:   make(chan *Task, size),
		logger:  logger,
		metrics: m,
	}
}

// Enqueue hands a task to the worker pool without blocking.
func (q *Queue) Enqueue(task *Task) error {
	select {
	case q.tasks <- task:
		if q.metrics != nil {
			q.metrics.QueueDepth.Set(float64(len(q.tasks)))
		}
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches n workers that drain the queue until ctx is cancelled.
func (q *Queue) Start(ctx context.Context, n int, runner Runner) {
	for i := 0; i < n; i++ {
		q.wg.Add(1)
		go func(worker int) {
			defer q.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task := <-q.tasks:
					if q.metrics != nil {
						q.metrics.QueueDepth.Set(float64(len(q.tasks)))
					}
					q.logger.Info("worker picked up conversion",
						zap.Int("worker", worker),
						zap.String("job", task.JobID))
					runner.Run(ctx, task)
				}
			}
		}(i)
	}
}

// Wait blocks until all workers have exited.
func (q *Queue) Wait() {
	q.wg.Wait()
}
