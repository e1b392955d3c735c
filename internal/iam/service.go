package iam

import (
	"strings"

	"github.com/google/uuid"

	"github.com/HabibPro1999/cabinet-optimizer/internal/access"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/monitoring"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Service implements authentication and user account management
type Service struct {
	logger     *logger.Logger
	repository Repository
	tokens     *TokenManager
	metrics    *monitoring.MetricsCollector
}

// NewService creates a new iam service
func NewService(log *logger.Logger, repo Repository, tokens *TokenManager, metrics *monitoring.MetricsCollector) *Service {
	return &Service{
		logger:     log,
		repository: repo,
		tokens:     tokens,
		metrics:    metrics,
	}
}

// Login authenticates a user by email and password and issues a
// session token carrying the resolved role.
func (s *Service) Login(tenantID string, creds *types.Credentials) (*types.AuthToken, *types.UserClaims, error) {
	user, err := s.repository.GetUserByEmail(tenantID, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		s.metrics.RecordAuthAttempt("password", "failure")
		return nil, nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "invalid credentials")
	}

	if !CheckPassword(user.PasswordHash, creds.Password) {
		s.metrics.RecordAuthAttempt("password", "failure")
		s.logger.WithUserID(user.ID).Warn("Failed login attempt")
		return nil, nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "invalid credentials")
	}

	if !user.Role.Valid() {
		s.metrics.RecordAuthAttempt("password", "failure")
		return nil, nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "account has no resolvable role")
	}

	claims := &types.UserClaims{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		TenantID: user.TenantID,
	}

	token, err := s.tokens.IssueToken(claims)
	if err != nil {
		return nil, nil, types.NewInternalError(types.ErrCodeInternalError, "failed to issue token", err)
	}

	s.metrics.RecordAuthAttempt("password", "success")
	s.logger.Audit(user.ID, "auth:login", user.ID, true, nil)
	return token, claims, nil
}

// CreateUser creates a staff account. Only admins manage users.
func (s *Service) CreateUser(claims *types.UserClaims, user *types.User, password string) (*types.User, error) {
	if !access.CanManageUsers(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "user:create")
		return nil, types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot manage users")
	}

	if strings.TrimSpace(user.Name) == "" || strings.TrimSpace(user.Email) == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "name and email are required", nil)
	}
	if !user.Role.Valid() {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "role must be admin, doctor or assistant", nil)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, err.Error(), nil)
	}

	user.ID = uuid.New().String()
	user.TenantID = claims.TenantID
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.PasswordHash = hash

	if err := s.repository.CreateUser(user); err != nil {
		return nil, err
	}

	s.logger.Audit(claims.UserID, "user:create", user.ID, true, map[string]interface{}{
		"role": string(user.Role),
	})
	return user, nil
}

// UpdateUser updates a staff account. Admin accounts keep the admin
// role: a demotion would let the cabinet lock itself out.
func (s *Service) UpdateUser(claims *types.UserClaims, id string, updates *types.UserUpdates) error {
	if !access.CanManageUsers(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "user:update")
		return types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot manage users")
	}

	if updates.Role != nil && !updates.Role.Valid() {
		return types.NewValidationError(types.ErrCodeInvalidInput, "role must be admin, doctor or assistant", nil)
	}

	target, err := s.repository.GetUserByID(claims.TenantID, id)
	if err != nil {
		return err
	}

	if target.Role == types.RoleAdmin && updates.Role != nil && *updates.Role != types.RoleAdmin {
		return types.NewAuthorizationError(types.ErrCodeAdminImmutable, "admin accounts cannot be demoted")
	}

	if err := s.repository.UpdateUser(claims.TenantID, id, updates); err != nil {
		return err
	}

	s.logger.Audit(claims.UserID, "user:update", id, true, nil)
	return nil
}

// DeleteUser removes a staff account. Admin accounts cannot be
// deleted.
func (s *Service) DeleteUser(claims *types.UserClaims, id string) error {
	if !access.CanManageUsers(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "user:delete")
		return types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot manage users")
	}

	target, err := s.repository.GetUserByID(claims.TenantID, id)
	if err != nil {
		return err
	}

	if target.Role == types.RoleAdmin {
		return types.NewAuthorizationError(types.ErrCodeAdminImmutable, "admin accounts cannot be deleted")
	}

	if err := s.repository.DeleteUser(claims.TenantID, id); err != nil {
		return err
	}

	s.logger.Audit(claims.UserID, "user:delete", id, true, nil)
	return nil
}

// ListUsers retrieves the tenant's staff accounts
func (s *Service) ListUsers(claims *types.UserClaims) ([]*types.User, error) {
	if !access.CanManageUsers(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "user:list")
		return nil, types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot manage users")
	}
	return s.repository.GetUsers(claims.TenantID)
}

// Navigation resolves the navigation items visible to the session's
// role.
func (s *Service) Navigation(claims *types.UserClaims) []access.NavItem {
	return access.FilterNav(claims.Role, access.DefaultNavItems())
}
