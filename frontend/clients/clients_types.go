package clients

import (
	"time"

	"crewboard/models"
)

// Engagement types understood by the client roster.
var EngagementTypes = []string{"Retainer", "Project-Based", "Campaign"}

func ValidEngagementType(engagementType string) bool {
	for _, e := range EngagementTypes {
		if e == engagementType {
			return true
		}
	}
	return false
}

// CreateInput carries the fields for a new client. A nil EndDate means
// the engagement is ongoing.
type CreateInput struct {
	Name           string            `json:"name"`
	Industry       string            `json:"industry"`
	EngagementType string            `json:"engagementType"`
	StartDate      time.Time         `json:"startDate"`
	EndDate        *time.Time        `json:"endDate,omitempty"`
	Services       models.StringList `json:"services"`
	Impact         string            `json:"impact"`
}

// UpdateInput carries editable client fields. Nil pointers leave the
// stored value untouched; ClearEndDate marks an engagement ongoing
// again.
type UpdateInput struct {
	Name           *string            `json:"name,omitempty"`
	Industry       *string            `json:"industry,omitempty"`
	EngagementType *string            `json:"engagementType,omitempty"`
	StartDate      *time.Time         `json:"startDate,omitempty"`
	EndDate        *time.Time         `json:"endDate,omitempty"`
	ClearEndDate   bool               `json:"clearEndDate,omitempty"`
	Services       *models.StringList `json:"services,omitempty"`
	Impact         *string            `json:"impact,omitempty"`
}

// ClientEntry is one client row plus its derived ongoing flag.
type ClientEntry struct {
	models.Client
	Ongoing bool `json:"ongoing"`
}

// ListResponse is the client roster payload.
type ListResponse struct {
	Clients []ClientEntry `json:"clients"`
}
