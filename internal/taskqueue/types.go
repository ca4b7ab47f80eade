package taskqueue

import (
	"encoding/json"
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
	StatusCancelled  TaskStatus = "cancelled"
)

type TaskType string

const (
	// TaskTypeCatalogSync re-imports a vendor feed into the catalog.
	TaskTypeCatalogSync TaskType = "catalog_sync"
	// TaskTypeReindex recomputes derived columns (search text, min price)
	// for every product.
	TaskTypeReindex TaskType = "reindex"
	// TaskTypeCleanup purges old completed tasks.
	TaskTypeCleanup TaskType = "cleanup"
)

type Task struct {
	ID           string          `db:"id"`
	TaskType     string          `db:"task_type"`
	Payload      json.RawMessage `db:"payload"`
	Priority     int             `db:"priority"`
	Status       TaskStatus      `db:"status"`
	Attempts     int             `db:"attempts"`
	MaxRetries   int             `db:"max_retries"`
	ScheduledFor time.Time       `db:"scheduled_for"`
	StartedAt    *time.Time      `db:"started_at"`
	CompletedAt  *time.Time      `db:"completed_at"`
	LastError    *string         `db:"last_error"`
	CreatedAt    time.Time       `db:"created_at"`
}

type ClaimedTask struct {
	ID       string          `db:"id"`
	TaskType string          `db:"task_type"`
	Payload  json.RawMessage `db:"payload"`
}

// SyncPayload is the payload for TaskTypeCatalogSync
type SyncPayload struct {
	Source string `json:"source"`
	Path   string `json:"path,omitempty"`
}
