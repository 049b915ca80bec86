package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// DirectoryService serves the roles and directorates reference lists.
// These tables are descriptive metadata for admin dashboards; every
// operation, reads included, is restricted to the admin tier and
// authorization never consults the rows themselves.
type DirectoryService struct {
	directory repository.DirectoryRepository
}

// NewDirectoryService constructs the service.
func NewDirectoryService(directory repository.DirectoryRepository) *DirectoryService {
	return &DirectoryService{directory: directory}
}

// ListRoles returns the role reference rows. Admin tier only.
func (s *DirectoryService) ListRoles(ctx context.Context, caller *domain.Account) ([]domain.RoleRecord, error) {
	if !auth.Allowed(auth.ActionDirectoryManage, caller, auth.Resource{}) {
		return nil, apperrors.NewForbidden("not allowed to manage reference data")
	}
	records, err := s.directory.ListRoles(ctx)
	return records, apperrors.MapError(err)
}

// CreateRole adds a role reference row. Admin tier only.
func (s *DirectoryService) CreateRole(ctx context.Context, caller *domain.Account, name string, description *string) (*domain.RoleRecord, error) {
	if !auth.Allowed(auth.ActionDirectoryManage, caller, auth.Resource{}) {
		return nil, apperrors.NewForbidden("not allowed to manage reference data")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	record := &domain.RoleRecord{Name: name, Description: description}
	if err := s.directory.CreateRole(ctx, record); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return record, nil
}

// ListDirectorates returns the directorate reference rows. Admin tier only.
func (s *DirectoryService) ListDirectorates(ctx context.Context, caller *domain.Account) ([]domain.Directorate, error) {
	if !auth.Allowed(auth.ActionDirectoryManage, caller, auth.Resource{}) {
		return nil, apperrors.NewForbidden("not allowed to manage reference data")
	}
	records, err := s.directory.ListDirectorates(ctx)
	return records, apperrors.MapError(err)
}

// CreateDirectorate adds a directorate reference row. Admin tier only.
func (s *DirectoryService) CreateDirectorate(ctx context.Context, caller *domain.Account, name string, description *string) (*domain.Directorate, error) {
	if !auth.Allowed(auth.ActionDirectoryManage, caller, auth.Resource{}) {
		return nil, apperrors.NewForbidden("not allowed to manage reference data")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	record := &domain.Directorate{Name: name, Description: description}
	if err := s.directory.CreateDirectorate(ctx, record); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return record, nil
}
