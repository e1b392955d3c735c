package iam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/config"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/monitoring"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(user *types.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockRepository) GetUserByID(tenantID, id string) (*types.User, error) {
	args := m.Called(tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockRepository) GetUserByEmail(tenantID, email string) (*types.User, error) {
	args := m.Called(tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockRepository) UpdateUser(tenantID, id string, updates *types.UserUpdates) error {
	args := m.Called(tenantID, id, updates)
	return args.Error(0)
}

func (m *MockRepository) DeleteUser(tenantID, id string) error {
	args := m.Called(tenantID, id)
	return args.Error(0)
}

func (m *MockRepository) GetUsers(tenantID string) ([]*types.User, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.User), args.Error(1)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	t.Helper()

	repo := &MockRepository{}
	tokens := NewTokenManager(&config.JWTConfig{
		SecretKey:      "test-secret-key-for-unit-tests",
		AccessTokenTTL: 3600,
		Issuer:         "cabinet-test",
	})
	service := NewService(logger.New("error"), repo, tokens, monitoring.NewMetricsCollector("iam-test"))
	return service, repo
}

func adminClaims() *types.UserClaims {
	return &types.UserClaims{UserID: "admin-1", Role: types.RoleAdmin, TenantID: "tenant-1"}
}

func TestLogin(t *testing.T) {
	service, repo := setupTestService(t)

	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	user := &types.User{
		ID:           "user-1",
		TenantID:     "tenant-1",
		Name:         "Dr. Benali",
		Email:        "benali@cabinet.dz",
		PasswordHash: hash,
		Role:         types.RoleDoctor,
	}
	repo.On("GetUserByEmail", "tenant-1", "benali@cabinet.dz").Return(user, nil)

	token, claims, err := service.Login("tenant-1", &types.Credentials{
		Email:    " Benali@Cabinet.dz ",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, types.RoleDoctor, claims.Role)

	// The issued token must round-trip through validation.
	parsed, err := service.tokens.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, "tenant-1", parsed.TenantID)
	assert.Equal(t, types.RoleDoctor, parsed.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	service, repo := setupTestService(t)

	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	repo.On("GetUserByEmail", "tenant-1", "benali@cabinet.dz").Return(&types.User{
		ID:           "user-1",
		PasswordHash: hash,
		Role:         types.RoleDoctor,
	}, nil)

	_, _, err = service.Login("tenant-1", &types.Credentials{
		Email:    "benali@cabinet.dz",
		Password: "wrong",
	})

	require.Error(t, err)
	cerr, ok := err.(*types.CabinetError)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeAuthentication, cerr.Type)
}

func TestLoginUnknownUser(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("GetUserByEmail", "tenant-1", "ghost@cabinet.dz").
		Return(nil, types.NewNotFoundError(types.ErrCodeNotFound, "user not found"))

	_, _, err := service.Login("tenant-1", &types.Credentials{Email: "ghost@cabinet.dz", Password: "x"})

	require.Error(t, err)
	cerr, ok := err.(*types.CabinetError)
	require.True(t, ok)
	// Unknown accounts and bad passwords are indistinguishable to the caller.
	assert.Equal(t, types.ErrorTypeAuthentication, cerr.Type)
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	service, repo := setupTestService(t)

	for _, role := range []types.Role{types.RoleDoctor, types.RoleAssistant} {
		_, err := service.CreateUser(&types.UserClaims{UserID: "u", Role: role, TenantID: "tenant-1"},
			&types.User{Name: "X", Email: "x@y.z", Role: types.RoleAssistant}, "password123")
		require.Error(t, err)
	}
	repo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestCreateUser(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("CreateUser", mock.AnythingOfType("*types.User")).Return(nil)

	created, err := service.CreateUser(adminClaims(), &types.User{
		Name:  "Amina",
		Email: "Amina@Cabinet.dz",
		Role:  types.RoleAssistant,
	}, "password123")

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "amina@cabinet.dz", created.Email)
	assert.NotEmpty(t, created.PasswordHash)
	assert.NotEqual(t, "password123", created.PasswordHash)
}

func TestCreateUserRejectsInvalidRole(t *testing.T) {
	service, _ := setupTestService(t)

	_, err := service.CreateUser(adminClaims(), &types.User{
		Name:  "Amina",
		Email: "amina@cabinet.dz",
		Role:  "superuser",
	}, "password123")

	require.Error(t, err)
}

func TestAdminCannotBeDemoted(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("GetUserByID", "tenant-1", "admin-2").Return(&types.User{
		ID:       "admin-2",
		TenantID: "tenant-1",
		Role:     types.RoleAdmin,
	}, nil)

	doctor := types.RoleDoctor
	err := service.UpdateUser(adminClaims(), "admin-2", &types.UserUpdates{Role: &doctor})

	require.Error(t, err)
	cerr, ok := err.(*types.CabinetError)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeAdminImmutable, cerr.Code)
	repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminCannotBeDeleted(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("GetUserByID", "tenant-1", "admin-2").Return(&types.User{
		ID:       "admin-2",
		TenantID: "tenant-1",
		Role:     types.RoleAdmin,
	}, nil)

	err := service.DeleteUser(adminClaims(), "admin-2")

	require.Error(t, err)
	cerr, ok := err.(*types.CabinetError)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeAdminImmutable, cerr.Code)
	repo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestDeleteNonAdminUser(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("GetUserByID", "tenant-1", "assistant-1").Return(&types.User{
		ID:       "assistant-1",
		TenantID: "tenant-1",
		Role:     types.RoleAssistant,
	}, nil)
	repo.On("DeleteUser", "tenant-1", "assistant-1").Return(nil)

	err := service.DeleteUser(adminClaims(), "assistant-1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNavigationFollowsRole(t *testing.T) {
	service, _ := setupTestService(t)

	adminNav := service.Navigation(adminClaims())
	assert.Len(t, adminNav, 6)

	assistantNav := service.Navigation(&types.UserClaims{Role: types.RoleAssistant})
	assert.Len(t, assistantNav, 3)

	noneNav := service.Navigation(&types.UserClaims{Role: ""})
	assert.Empty(t, noneNav)
}
