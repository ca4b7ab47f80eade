package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskQueue is a Postgres-backed work queue. Claiming uses
// FOR UPDATE SKIP LOCKED so multiple workers can poll the same table
// without double-claiming.
type TaskQueue struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *TaskQueue {
	return &TaskQueue{pool: pool}
}

func (q *TaskQueue) GetPool() *pgxpool.Pool {
	return q.pool
}

type ScheduleTaskInput struct {
	TaskType    TaskType
	Payload     interface{}
	Priority    int
	ScheduledAt *time.Time
	MaxRetries  int
}

// ScheduleTask enqueues a task and returns its id
func (q *TaskQueue) ScheduleTask(ctx context.Context, input ScheduleTaskInput) (string, error) {
	payload, err := json.Marshal(input.Payload)
	if err != nil {
		return "", fmt.Errorf("marshaling task payload: %w", err)
	}

	maxRetries := 3
	if input.MaxRetries > 0 {
		maxRetries = input.MaxRetries
	}

	scheduledFor := time.Now().UTC()
	if input.ScheduledAt != nil {
		scheduledFor = *input.ScheduledAt
	}

	id := uuid.NewString()
	_, err = q.pool.Exec(ctx, `
		INSERT INTO task_queue (id, task_type, payload, priority, scheduled_for, max_retries)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, string(input.TaskType), payload, input.Priority, scheduledFor, maxRetries)
	if err != nil {
		return "", fmt.Errorf("scheduling task: %w", err)
	}
	return id, nil
}

type ClaimTasksInput struct {
	TaskTypes []string
	MaxTasks  int
}

// ClaimTasks atomically moves up to MaxTasks due pending tasks to
// processing and returns them.
func (q *TaskQueue) ClaimTasks(ctx context.Context, input ClaimTasksInput) ([]ClaimedTask, error) {
	maxTasks := input.MaxTasks
	if maxTasks <= 0 {
		maxTasks = 1
	}

	rows, err := q.pool.Query(ctx, `
		UPDATE task_queue
		SET status = 'processing', started_at = NOW(), attempts = attempts + 1
		WHERE id IN (
			SELECT id FROM task_queue
			WHERE status = 'pending'
			  AND scheduled_for <= NOW()
			  AND task_type = ANY($1)
			ORDER BY priority DESC, scheduled_for
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, task_type, payload
	`, input.TaskTypes, maxTasks)
	if err != nil {
		return nil, fmt.Errorf("claiming tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]ClaimedTask, 0, maxTasks)
	for rows.Next() {
		var task ClaimedTask
		if err := rows.Scan(&task.ID, &task.TaskType, &task.Payload); err != nil {
			return nil, fmt.Errorf("scanning claimed task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CompleteTask marks a processing task as done
func (q *TaskQueue) CompleteTask(ctx context.Context, taskID string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE task_queue
		SET status = 'completed', completed_at = NOW()
		WHERE id = $1 AND status = 'processing'
	`, taskID)
	return err
}

// FailTask records the error. If retries remain the task goes back to
// pending with a linear delay, otherwise it is failed permanently.
func (q *TaskQueue) FailTask(ctx context.Context, taskID, errorMessage string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE task_queue
		SET last_error = $2,
		    status = CASE WHEN attempts < max_retries THEN 'pending' ELSE 'failed' END,
		    scheduled_for = CASE WHEN attempts < max_retries
		        THEN NOW() + make_interval(secs => attempts * 30)
		        ELSE scheduled_for END
		WHERE id = $1 AND status = 'processing'
	`, taskID, errorMessage)
	return err
}

// CancelTask cancels a task that has not started
func (q *TaskQueue) CancelTask(ctx context.Context, taskID string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE task_queue
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'pending'
	`, taskID)
	return err
}

// CleanupOldTasks deletes completed and cancelled tasks older than the
// retention window and returns how many were removed.
func (q *TaskQueue) CleanupOldTasks(ctx context.Context, daysToKeep int) (int, error) {
	tag, err := q.pool.Exec(ctx, `
		DELETE FROM task_queue
		WHERE status IN ('completed', 'cancelled')
		  AND created_at < NOW() - make_interval(days => $1)
	`, daysToKeep)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// GetTask fetches one task by id
func (q *TaskQueue) GetTask(ctx context.Context, taskID string) (*Task, error) {
	var task Task
	err := q.pool.QueryRow(ctx, `
		SELECT id, task_type, payload, priority, status, attempts, max_retries,
		       scheduled_for, started_at, completed_at, last_error, created_at
		FROM task_queue
		WHERE id = $1
	`, taskID).Scan(
		&task.ID, &task.TaskType, &task.Payload, &task.Priority, &task.Status,
		&task.Attempts, &task.MaxRetries, &task.ScheduledFor, &task.StartedAt,
		&task.CompletedAt, &task.LastError, &task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
