package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateReferenceRequest payload for roles/directorates rows.
type CreateReferenceRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ReferenceResponse is one reference-table row.
type ReferenceResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRoleResponses maps role reference rows.
func NewRoleResponses(records []domain.RoleRecord) []ReferenceResponse {
	items := make([]ReferenceResponse, 0, len(records))
	for _, r := range records {
		items = append(items, ReferenceResponse{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt})
	}
	return items
}

// NewDirectorateResponses maps directorate reference rows.
func NewDirectorateResponses(records []domain.Directorate) []ReferenceResponse {
	items := make([]ReferenceResponse, 0, len(records))
	for _, r := range records {
		items = append(items, ReferenceResponse{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt})
	}
	return items
}
