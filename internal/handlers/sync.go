package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comparekart/catalog-service/internal/database"
	"github.com/comparekart/catalog-service/internal/taskqueue"
)

// Catalog sources that can be synced on demand
var syncSources = map[string]struct{}{
	"amazon":   {},
	"flipkart": {},
	"croma":    {},
	"seed":     {},
}

// SyncRequest is the optional body for a sync trigger
type SyncRequest struct {
	Path     string `json:"path,omitempty"`
	Priority int    `json:"priority,omitempty"`
}

// SyncStartedResponse is the 202 response when a sync task is queued
type SyncStartedResponse struct {
	TaskID  string `json:"taskId"`
	Status  string `json:"status"`
	PollURL string `json:"pollUrl"`
}

// SyncSource handles POST /internal/sync/:source. The import runs on a
// queue worker; the response carries the task id to poll.
func SyncSource(c *gin.Context) {
	source := c.Param("source")
	if _, ok := syncSources[source]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Unknown sync source: %s", source),
		})
		return
	}

	var req SyncRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	queue := taskqueue.New(database.Pool())
	taskID, err := queue.ScheduleTask(c.Request.Context(), taskqueue.ScheduleTaskInput{
		TaskType: taskqueue.TaskTypeCatalogSync,
		Payload:  taskqueue.SyncPayload{Source: source, Path: req.Path},
		Priority: req.Priority,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule sync task"})
		return
	}

	c.JSON(http.StatusAccepted, SyncStartedResponse{
		TaskID:  taskID,
		Status:  "queued",
		PollURL: "/internal/sync/tasks/" + taskID,
	})
}

// SyncTaskStatus handles GET /internal/sync/tasks/:id
func SyncTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	queue := taskqueue.New(database.Pool())
	task, err := queue.GetTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	resp := gin.H{
		"taskId":   task.ID,
		"taskType": task.TaskType,
		"status":   task.Status,
		"attempts": task.Attempts,
	}
	if task.LastError != nil {
		resp["lastError"] = *task.LastError
	}
	c.JSON(http.StatusOK, resp)
}

// Reindex handles POST /internal/reindex, queueing a full derived-column
// recompute.
func Reindex(c *gin.Context) {
	queue := taskqueue.New(database.Pool())
	taskID, err := queue.ScheduleTask(c.Request.Context(), taskqueue.ScheduleTaskInput{
		TaskType: taskqueue.TaskTypeReindex,
		Payload:  struct{}{},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule reindex task"})
		return
	}

	c.JSON(http.StatusAccepted, SyncStartedResponse{
		TaskID:  taskID,
		Status:  "queued",
		PollURL: "/internal/sync/tasks/" + taskID,
	})
}
