package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"proxima/backend/projects-service/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrInvalidProjectID = errors.New("invalid project id")
	ErrProjectNotFound  = errors.New("project not found")
)

type ProjectService struct {
	ProjectsCollection *mongo.Collection
	StoreBreaker       *gobreaker.CircuitBreaker
}

// NewProjectService initializes a ProjectService over the projects collection.
// Every store round trip goes through the circuit breaker.
func NewProjectService(projectsCollection *mongo.Collection, storeBreaker *gobreaker.CircuitBreaker) *ProjectService {
	return &ProjectService{
		ProjectsCollection: projectsCollection,
		StoreBreaker:       storeBreaker,
	}
}

// GetAllProjects returns every project owned by ownerID, newest first.
func (s *ProjectService) GetAllProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err := s.ProjectsCollection.Find(ctx, bson.M{"owner_id": ownerID}, findOptions)
		if err != nil {
			return nil, fmt.Errorf("unsuccessful procurement of projects: %v", err)
		}
		defer cursor.Close(ctx)

		projects := []models.Project{}
		if err = cursor.All(ctx, &projects); err != nil {
			return nil, fmt.Errorf("unsuccessful decoding of projects: %v", err)
		}
		return projects, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]models.Project), nil
}

// GetProjectByID returns a single project, scoped to its owner.
func (s *ProjectService) GetProjectByID(ctx context.Context, projectID, ownerID string) (*models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, ErrInvalidProjectID
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		var project models.Project
		err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID}).Decode(&project)
		if err != nil {
			return nil, err
		}
		return &project, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("error fetching project: %v", err)
	}

	return result.(*models.Project), nil
}

// CreateProject persists a new project for ownerID and returns it.
func (s *ProjectService) CreateProject(ctx context.Context, ownerID string, input models.ProjectInput) (*models.Project, error) {
	now := time.Now().UTC()
	project := &models.Project{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Title:     input.Title,
		Tech:      input.Tech,
		Budget:    input.Budget,
		Duration:  input.Duration,
		Manager:   input.Manager,
		Dev:       input.Dev,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.ProjectsCollection.InsertOne(ctx, project)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %v", err)
	}

	project.ID = result.(*mongo.InsertOneResult).InsertedID.(primitive.ObjectID)
	return project, nil
}

// UpdateProject replaces the six client-supplied fields of an owned project,
// bumps updated_at and returns the updated document.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, ownerID string, input models.ProjectInput) (*models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, ErrInvalidProjectID
	}

	filter := bson.M{"_id": objectID, "owner_id": ownerID}
	update := bson.M{"$set": bson.M{
		"title":      input.Title,
		"tech":       input.Tech,
		"budget":     input.Budget,
		"duration":   input.Duration,
		"manager":    input.Manager,
		"dev":        input.Dev,
		"updated_at": time.Now().UTC(),
	}}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var project models.Project
		err := s.ProjectsCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&project)
		if err != nil {
			return nil, err
		}
		return &project, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %v", err)
	}

	return result.(*models.Project), nil
}

// DeleteProject removes an owned project and returns the removed document.
// Tasks of the project are left in place, there is no cascade.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, ownerID string) (*models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, ErrInvalidProjectID
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		var project models.Project
		err := s.ProjectsCollection.FindOneAndDelete(ctx, bson.M{"_id": objectID, "owner_id": ownerID}).Decode(&project)
		if err != nil {
			return nil, err
		}
		return &project, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to delete project: %v", err)
	}

	return result.(*models.Project), nil
}
