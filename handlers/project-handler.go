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

// ProjectService is the slice of the service layer the project handler needs.
type ProjectService interface {
	GetAllProjects(ctx context.Context, ownerID string) ([]models.Project, error)
	GetProjectByID(ctx context.Context, projectID, ownerID string) (*models.Project, error)
	CreateProject(ctx context.Context, ownerID string, input models.ProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID, ownerID string, input models.ProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID, ownerID string) (*models.Project, error)
}

type ProjectHandler struct {
	service ProjectService
}

func NewProjectHandler(service ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// GetAllProjects returns every project owned by the caller, newest first.
func (h *ProjectHandler) GetAllProjects(w http.ResponseWriter, r *http.Request) {
	ownerID := authenticatedUserID(r)
	if ownerID == "" {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	projects, err := h.service.GetAllProjects(r.Context(), ownerID)
	if err != nil {
		logging.Logger.Errorf("Event ID: PROJECT_LIST_FAILED, Description: Error fetching projects for owner %s: %v", ownerID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error fetching projects"})
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetSingleProject(w http.ResponseWriter, r *http.Request) {
	ownerID := authenticatedUserID(r)
	if ownerID == "" {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	project, err := h.service.GetProjectByID(r.Context(), vars["id"], ownerID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidProjectID) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Invalid project id!"})
			return
		}
		if errors.Is(err, services.ErrProjectNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "No project found!"})
			return
		}
		logging.Logger.Errorf("Event ID: PROJECT_GET_FAILED, Description: Error fetching project %s: %v", vars["id"], err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error fetching project"})
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) PostProject(w http.ResponseWriter, r *http.Request) {
	ownerID := authenticatedUserID(r)
	if ownerID == "" {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	var input models.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if emptyFields := input.MissingFields(); len(emptyFields) >= 1 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":       "Please fill in all fields!",
			"emptyFields": emptyFields,
		})
		return
	}

	project, err := h.service.CreateProject(r.Context(), ownerID, input)
	if err != nil {
		logging.Logger.Errorf("Event ID: PROJECT_CREATE_FAILED, Description: Error creating project for owner %s: %v", ownerID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error creating project"})
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// UpdateProject replaces all six client-supplied fields. A partial body is
// rejected with the full missing-field list, it is never merged.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	ownerID := authenticatedUserID(r)
	if ownerID == "" {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	var input models.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if emptyFields := input.MissingFields(); len(emptyFields) >= 1 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":       "Please fill in all fields!",
			"emptyFields": emptyFields,
		})
		return
	}

	vars := mux.Vars(r)
	project, err := h.service.UpdateProject(r.Context(), vars["id"], ownerID, input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidProjectID) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Invalid project id"})
			return
		}
		if errors.Is(err, services.ErrProjectNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "No project found!"})
			return
		}
		logging.Logger.Errorf("Event ID: PROJECT_UPDATE_FAILED, Description: Error updating project %s: %v", vars["id"], err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error updating project"})
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// DeleteProject removes an owned project. A well-formed id that matches
// nothing is a 400, unlike the reads which use 404.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ownerID := authenticatedUserID(r)
	if ownerID == "" {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	project, err := h.service.DeleteProject(r.Context(), vars["id"], ownerID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidProjectID) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Invalid project id"})
			return
		}
		if errors.Is(err, services.ErrProjectNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "No project found!"})
			return
		}
		logging.Logger.Errorf("Event ID: PROJECT_DELETE_FAILED, Description: Error deleting project %s: %v", vars["id"], err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error deleting project"})
		return
	}

	writeJSON(w, http.StatusOK, project)
}
