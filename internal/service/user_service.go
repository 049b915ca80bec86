package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserService owns account administration.
type UserService struct {
	accounts   repository.AccountRepository
	bcryptCost int
}

// UserCreateInput describes account creation payload.
type UserCreateInput struct {
	Username    string
	Password    string
	Email       string
	Role        domain.Role
	Directorate *string
}

// UserUpdateInput describes a partial account update. Nil means leave
// the field alone.
type UserUpdateInput struct {
	Username    *string
	Email       *string
	Directorate *string
	Role        *domain.Role
}

// NewUserService constructs the service.
func NewUserService(accounts repository.AccountRepository, bcryptCost int) *UserService {
	return &UserService{accounts: accounts, bcryptCost: bcryptCost}
}

// ListAll returns every account. Admin tier only.
func (s *UserService) ListAll(ctx context.Context, caller *domain.Account) ([]domain.Account, error) {
	if !auth.Allowed(auth.ActionUserListAll, caller, auth.Resource{}) {
		return nil, apperrors.NewForbidden("not allowed to list accounts")
	}
	accounts, err := s.accounts.ListAll(ctx)
	return accounts, apperrors.MapError(err)
}

// ListByRoles returns accounts matching the given roles, optionally
// narrowed to a directorate and excluding the caller. Open to any
// authenticated caller; it backs the routing dropdowns on ticket forms.
func (s *UserService) ListByRoles(ctx context.Context, caller *domain.Account, roles []string, directorate *string, excludeSelf bool) ([]domain.Account, error) {
	if len(roles) == 0 {
		return nil, apperrors.NewValidationError("at least one role is required", nil)
	}
	for _, r := range roles {
		if !domain.Role(r).IsValid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": r})
		}
	}
	var excludeID int64
	if excludeSelf {
		excludeID = caller.ID
	}
	accounts, err := s.accounts.ListByRoles(ctx, roles, directorate, excludeID)
	return accounts, apperrors.MapError(err)
}

// Get returns one account: self, or anyone for the admin tier.
func (s *UserService) Get(ctx context.Context, caller *domain.Account, id int64) (*domain.Account, error) {
	if !auth.Allowed(auth.ActionUserView, caller, auth.Resource{TargetAccountID: id}) {
		return nil, apperrors.NewForbidden("not allowed to view this account")
	}
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	return account, nil
}

// Create registers a new account. Admin tier only.
func (s *UserService) Create(ctx context.Context, caller *domain.Account, input UserCreateInput) (*domain.Account, error) {
	if !auth.Allowed(auth.ActionUserCreate, caller, auth.Resource{}) {
		return nil, apperrors.NewForbidden("not allowed to create accounts")
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || input.Password == "" || email == "" || input.Role == "" {
		return nil, apperrors.NewValidationError("username, password, email and role are required", nil)
	}
	if !input.Role.IsValid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	hashed, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	account := &domain.Account{
		Username:     username,
		PasswordHash: hashed,
		Email:        email,
		Role:         input.Role,
		Directorate:  input.Directorate,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return account, nil
}

// Update edits an account. Profile fields are self-or-admin; the role
// field is admin-only and never self-applied.
func (s *UserService) Update(ctx context.Context, caller *domain.Account, id int64, input UserUpdateInput) (*domain.Account, error) {
	if !auth.Allowed(auth.ActionUserUpdate, caller, auth.Resource{TargetAccountID: id}) {
		return nil, apperrors.NewForbidden("not allowed to update this account")
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}

	if input.Role != nil && *input.Role != account.Role {
		if !auth.Allowed(auth.ActionUserChangeRole, caller, auth.Resource{TargetAccountID: id}) {
			return nil, apperrors.NewForbidden("not allowed to change this account's role")
		}
		if !input.Role.IsValid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
		}
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, apperrors.NewValidationError("username cannot be empty", nil)
		}
		account.Username = username
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, apperrors.NewValidationError("email cannot be empty", nil)
		}
		account.Email = email
	}
	if input.Directorate != nil {
		account.Directorate = input.Directorate
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, apperrors.ToDomainError(err)
	}

	if input.Role != nil && *input.Role != account.Role {
		if err := s.accounts.UpdateRole(ctx, account.ID, *input.Role, account.Directorate); err != nil {
			return nil, apperrors.ToDomainError(err)
		}
		account.Role = *input.Role
	}
	return account, nil
}

// ResetPassword sets a new password on the target account: self, or
// anyone for the top-level admin.
func (s *UserService) ResetPassword(ctx context.Context, caller *domain.Account, id int64, newPassword string) error {
	if !auth.Allowed(auth.ActionUserResetPassword, caller, auth.Resource{TargetAccountID: id}) {
		return apperrors.NewForbidden("not allowed to reset this account's password")
	}
	if newPassword == "" {
		return apperrors.NewValidationError("new password is required", nil)
	}
	hashed, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewStoreFailure(err)
	}
	return apperrors.MapError(s.accounts.UpdatePassword(ctx, id, hashed))
}

// Delete removes an account. Top-level admin only, never self.
func (s *UserService) Delete(ctx context.Context, caller *domain.Account, id int64) error {
	if !auth.Allowed(auth.ActionUserDelete, caller, auth.Resource{TargetAccountID: id}) {
		return apperrors.NewForbidden("not allowed to delete this account")
	}
	return apperrors.MapError(s.accounts.Delete(ctx, id))
}
