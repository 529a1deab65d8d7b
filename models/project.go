package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Project struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID   string             `json:"owner_id" bson:"owner_id"`
	Title     string             `json:"title" bson:"title"`
	Tech      string             `json:"tech" bson:"tech"`
	Budget    float64            `json:"budget" bson:"budget"`
	Duration  float64            `json:"duration" bson:"duration"`
	Manager   string             `json:"manager" bson:"manager"`
	Dev       float64            `json:"dev" bson:"dev"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// ProjectInput carries the six client-supplied fields of a project.
// Zero values count as missing, matching the form semantics on the client.
type ProjectInput struct {
	Title    string  `json:"title"`
	Tech     string  `json:"tech"`
	Budget   float64 `json:"budget"`
	Duration float64 `json:"duration"`
	Manager  string  `json:"manager"`
	Dev      float64 `json:"dev"`
}

// MissingFields returns the names of required fields that are absent,
// in the fixed order title, tech, budget, duration, manager, dev.
func (p ProjectInput) MissingFields() []string {
	var emptyFields []string

	if p.Title == "" {
		emptyFields = append(emptyFields, "title")
	}
	if p.Tech == "" {
		emptyFields = append(emptyFields, "tech")
	}
	if p.Budget == 0 {
		emptyFields = append(emptyFields, "budget")
	}
	if p.Duration == 0 {
		emptyFields = append(emptyFields, "duration")
	}
	if p.Manager == "" {
		emptyFields = append(emptyFields, "manager")
	}
	if p.Dev == 0 {
		emptyFields = append(emptyFields, "dev")
	}

	return emptyFields
}
