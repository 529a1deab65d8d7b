package services

import (
	"context"
	"errors"
	"fmt"

	"proxima/backend/projects-service/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrInvalidTaskID = errors.New("invalid task id")

type TaskService struct {
	TasksCollection *mongo.Collection
	StoreBreaker    *gobreaker.CircuitBreaker
}

func NewTaskService(tasksCollection *mongo.Collection, storeBreaker *gobreaker.CircuitBreaker) *TaskService {
	return &TaskService{
		TasksCollection: tasksCollection,
		StoreBreaker:    storeBreaker,
	}
}

// GetTasksForProject returns every task of a project in store order.
// Tasks are scoped by project id only, so listings keep working after
// the parent project has been deleted.
func (s *TaskService) GetTasksForProject(ctx context.Context, projectID string) ([]models.Task, error) {
	if _, err := primitive.ObjectIDFromHex(projectID); err != nil {
		return nil, ErrInvalidProjectID
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		cursor, err := s.TasksCollection.Find(ctx, bson.M{"project_id": projectID})
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
		}
		defer cursor.Close(ctx)

		tasks := []models.Task{}
		if err = cursor.All(ctx, &tasks); err != nil {
			return nil, fmt.Errorf("failed to decode tasks: %v", err)
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]models.Task), nil
}

// AddTask persists a new pending task under the given project.
func (s *TaskService) AddTask(ctx context.Context, projectID, taskDescription string) (*models.Task, error) {
	if _, err := primitive.ObjectIDFromHex(projectID); err != nil {
		return nil, ErrInvalidProjectID
	}

	task := &models.Task{
		ID:              primitive.NewObjectID(),
		ProjectID:       projectID,
		TaskDescription: taskDescription,
		Completed:       false,
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.TasksCollection.InsertOne(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	task.ID = result.(*mongo.InsertOneResult).InsertedID.(primitive.ObjectID)
	return task, nil
}

// DeleteTask removes a task and returns it. Deleting a task that does not
// exist is a no-op and returns nil, nil.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, ErrInvalidTaskID
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		var task models.Task
		err := s.TasksCollection.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&task)
		if err != nil {
			return nil, err
		}
		return &task, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete task: %v", err)
	}

	return result.(*models.Task), nil
}

// CompleteTask sets completed to true unconditionally, so completing an
// already-completed task just re-asserts it. Returns nil, nil when no such
// task exists.
func (s *TaskService) CompleteTask(ctx context.Context, taskID string) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, ErrInvalidTaskID
	}

	update := bson.M{"$set": bson.M{"completed": true}}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var task models.Task
		err := s.TasksCollection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&task)
		if err != nil {
			return nil, err
		}
		return &task, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to complete task: %v", err)
	}

	return result.(*models.Task), nil
}
