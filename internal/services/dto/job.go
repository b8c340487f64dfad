package dto

import "time"

type CreateJobRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required,min=10"`
	Location    string   `json:"location" validate:"max=100"`
	Tags        []string `json:"tags" validate:"max=20"`
}

type UpdateJobRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=10"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=100"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=20"`
}

type JobResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
