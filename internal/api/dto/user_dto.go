package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AccountResponse is the account representation. Password and token
// columns never leave the service.
type AccountResponse struct {
	ID          int64       `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	Directorate *string     `json:"directorate"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewAccountResponse maps a domain account.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Role:        a.Role,
		Directorate: a.Directorate,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// NewAccountResponses maps an account slice.
func NewAccountResponses(accounts []domain.Account) []AccountResponse {
	items := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, NewAccountResponse(&accounts[i]))
	}
	return items
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	Username    string      `json:"username"`
	Password    string      `json:"password"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	Directorate *string     `json:"directorate"`
}

// UpdateUserRequest payload; absent fields are left unchanged.
type UpdateUserRequest struct {
	Username    *string      `json:"username"`
	Email       *string      `json:"email"`
	Directorate *string      `json:"directorate"`
	Role        *domain.Role `json:"role"`
}

// ResetUserPasswordRequest payload.
type ResetUserPasswordRequest struct {
	NewPassword string `json:"new_password"`
}
