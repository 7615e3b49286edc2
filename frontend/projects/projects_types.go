package projects

import "crewboard/models"

// CreateInput carries the fields for a new project.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateInput carries editable project fields.
type UpdateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListResponse is the projects page payload.
type ListResponse struct {
	Projects []models.Project `json:"projects"`
}

// DetailResponse is the project page payload including its tasks.
type DetailResponse struct {
	Project models.Project `json:"project"`
	Tasks   []models.Task  `json:"tasks"`
}
