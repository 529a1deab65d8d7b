package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Task struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID       string             `json:"project_id" bson:"project_id"`
	TaskDescription string             `json:"task_description" bson:"task_description"`
	Completed       bool               `json:"completed" bson:"completed"`
}
