package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/comparekart/catalog-service/internal/taskqueue"
)

type Handler func(context.Context, []byte) error

type Config struct {
	TaskTypes []string
	MaxTasks  int
	PollDelay time.Duration
}

// Worker polls the task queue and dispatches claimed tasks to the
// handlers registered for their type.
type Worker struct {
	queue    *taskqueue.TaskQueue
	config   Config
	handlers map[string]Handler
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func New(queue *taskqueue.TaskQueue, config Config) *Worker {
	if config.MaxTasks <= 0 {
		config.MaxTasks = 1
	}
	if config.PollDelay <= 0 {
		config.PollDelay = 5 * time.Second
	}
	return &Worker{
		queue:    queue,
		config:   config,
		handlers: make(map[string]Handler),
		stopChan: make(chan struct{}),
	}
}

// RegisterHandler installs a handler for a task type. Must be called
// before Start.
func (w *Worker) RegisterHandler(taskType taskqueue.TaskType, handler Handler) {
	w.handlers[string(taskType)] = handler
}

func (w *Worker) Start(ctx context.Context) {
	log.Info().
		Str("component", "worker").
		Strs("task_types", w.config.TaskTypes).
		Msg("Starting worker")

	w.wg.Add(1)
	go w.loop(ctx)
}

// Stop signals the poll loop and waits for in-flight tasks
func (w *Worker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
	log.Info().Str("component", "worker").Msg("Worker stopped")
}

func (w *Worker) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.processTasks(ctx)
		}
	}
}

func (w *Worker) processTasks(ctx context.Context) {
	tasks, err := w.queue.ClaimTasks(ctx, taskqueue.ClaimTasksInput{
		TaskTypes: w.config.TaskTypes,
		MaxTasks:  w.config.MaxTasks,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to claim tasks")
		return
	}
	if len(tasks) == 0 {
		return
	}

	log.Info().
		Str("component", "worker").
		Int("task_count", len(tasks)).
		Msg("Worker claimed tasks")

	for _, task := range tasks {
		w.processTask(ctx, task)
	}
}

func (w *Worker) processTask(ctx context.Context, task taskqueue.ClaimedTask) {
	handler, ok := w.handlers[task.TaskType]
	if !ok {
		log.Warn().Str("task_type", task.TaskType).Msg("No handler for task type")
		if err := w.queue.FailTask(ctx, task.ID, "no handler registered"); err != nil {
			log.Error().Err(err).Str("task_id", task.ID).Msg("Failed to mark task failed")
		}
		return
	}

	log.Info().
		Str("component", "worker").
		Str("task_id", task.ID).
		Str("task_type", task.TaskType).
		Msg("Worker processing task")

	if err := handler(ctx, task.Payload); err != nil {
		log.Error().Err(err).Str("task_id", task.ID).Msg("Task failed")
		if failErr := w.queue.FailTask(ctx, task.ID, err.Error()); failErr != nil {
			log.Error().Err(failErr).Str("task_id", task.ID).Msg("Failed to record task failure")
		}
		return
	}

	if err := w.queue.CompleteTask(ctx, task.ID); err != nil {
		log.Error().Err(err).Str("task_id", task.ID).Msg("Failed to mark task completed")
		return
	}

	log.Info().
		Str("component", "worker").
		Str("task_id", task.ID).
		Msg("Worker completed task")
}
