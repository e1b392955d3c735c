package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateItem(tenantID string, item *types.InventoryItem) error {
	args := m.Called(tenantID, item)
	return args.Error(0)
}

func (m *MockRepository) GetItemByID(tenantID, id string) (*types.InventoryItem, error) {
	args := m.Called(tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.InventoryItem), args.Error(1)
}

func (m *MockRepository) UpdateItem(tenantID, id string, updates *types.InventoryItemUpdates) error {
	args := m.Called(tenantID, id, updates)
	return args.Error(0)
}

func (m *MockRepository) DeleteItem(tenantID, id string) error {
	args := m.Called(tenantID, id)
	return args.Error(0)
}

func (m *MockRepository) GetItems(tenantID, category string) ([]*types.InventoryItem, error) {
	args := m.Called(tenantID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.InventoryItem), args.Error(1)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	t.Helper()
	repo := &MockRepository{}
	return NewService(logger.New("error"), repo), repo
}

func claimsFor(role types.Role) *types.UserClaims {
	return &types.UserClaims{UserID: "user-1", Role: role, TenantID: "tenant-1"}
}

func TestInventoryIsAdminOnly(t *testing.T) {
	service, repo := setupTestService(t)

	for _, role := range []types.Role{types.RoleDoctor, types.RoleAssistant, "unknown"} {
		t.Run(string(role), func(t *testing.T) {
			_, err := service.ListItems(claimsFor(role), "")
			require.Error(t, err)

			cerr, ok := err.(*types.CabinetError)
			require.True(t, ok)
			assert.Equal(t, types.ErrorTypeAuthorization, cerr.Type)
		})
	}
	repo.AssertNotCalled(t, "GetItems", mock.Anything, mock.Anything)
}

func TestCreateItem(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("CreateItem", "tenant-1", mock.AnythingOfType("*types.InventoryItem")).Return(nil)

	created, err := service.CreateItem(claimsFor(types.RoleAdmin), &types.InventoryItem{
		Name:        "Gants nitrile",
		Category:    "consommables",
		Quantity:    200,
		MinQuantity: 50,
		Unit:        "boîte",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "tenant-1", created.TenantID)
	repo.AssertExpectations(t)
}

func TestCreateItemValidation(t *testing.T) {
	service, _ := setupTestService(t)
	admin := claimsFor(types.RoleAdmin)

	_, err := service.CreateItem(admin, &types.InventoryItem{Name: " "})
	require.Error(t, err)

	_, err = service.CreateItem(admin, &types.InventoryItem{Name: "Compresses", Quantity: -1})
	require.Error(t, err)
}

func TestLowStockItems(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("GetItems", "tenant-1", "").Return([]*types.InventoryItem{
		{ID: "a", Quantity: 10, MinQuantity: 20},
		{ID: "b", Quantity: 50, MinQuantity: 20},
		{ID: "c", Quantity: 20, MinQuantity: 20},
	}, nil)

	low, err := service.LowStockItems(claimsFor(types.RoleAdmin))

	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "a", low[0].ID)
	assert.Equal(t, "c", low[1].ID, "quantity equal to threshold counts as low stock")
}
