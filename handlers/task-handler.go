package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"proxima/backend/projects-service/logging"
	"proxima/backend/projects-service/models"
	"proxima/backend/projects-service/services"

	"github.com/gorilla/mux"
)

// TaskService is the slice of the service layer the task handler needs.
type TaskService interface {
	GetTasksForProject(ctx context.Context, projectID string) ([]models.Task, error)
	AddTask(ctx context.Context, projectID, taskDescription string) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID string) (*models.Task, error)
	CompleteTask(ctx context.Context, taskID string) (*models.Task, error)
}

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// RetrieveTasks lists the tasks of a project in store order.
func (h *TaskHandler) RetrieveTasks(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID := vars["project_id"]

	tasks, err := h.service.GetTasksForProject(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidProjectID) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Invalid project id"})
			return
		}
		logging.Logger.Errorf("Event ID: TASK_LIST_FAILED, Description: Error retrieving tasks for project %s: %v", projectID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error retrieving tasks"})
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID := vars["project_id"]

	var body struct {
		TaskDescription string `json:"task_description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if projectID == "" || body.TaskDescription == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please provide project_id and task_description"})
		return
	}

	task, err := h.service.AddTask(r.Context(), projectID, body.TaskDescription)
	if err != nil {
		if errors.Is(err, services.ErrInvalidProjectID) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Invalid project id"})
			return
		}
		logging.Logger.Errorf("Event ID: TASK_ADD_FAILED, Description: Error adding task to project %s: %v", projectID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error adding task"})
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task. Deleting a task that does not exist is still a
// 200, with a null body.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	taskID := vars["task_id"]

	if taskID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please provide task_id"})
		return
	}

	task, err := h.service.DeleteTask(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTaskID) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Invalid task id"})
			return
		}
		logging.Logger.Errorf("Event ID: TASK_DELETE_FAILED, Description: Error deleting task %s: %v", taskID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error deleting task"})
		return
	}

	// task is nil when nothing matched, the encoded body is then null.
	writeJSON(w, http.StatusOK, task)
}

// CompleteTask flips completed to true. Idempotent, and a missing task is a
// 200 with a null body.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	taskID := vars["task_id"]

	if taskID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please provide task_id"})
		return
	}

	task, err := h.service.CompleteTask(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTaskID) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Invalid task id"})
			return
		}
		logging.Logger.Errorf("Event ID: TASK_COMPLETE_FAILED, Description: Error completing task %s: %v", taskID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error completing task"})
		return
	}

	writeJSON(w, http.StatusOK, task)
}
