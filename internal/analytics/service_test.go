package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/config"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CountAppointmentsOnDate(tenantID, date string) (int, error) {
	args := m.Called(tenantID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CountAppointmentsAfter(tenantID, date string) (int, error) {
	args := m.Called(tenantID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CountPatients(tenantID string) (int, error) {
	args := m.Called(tenantID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CountPatientsCreatedSince(tenantID string, days int) (int, error) {
	args := m.Called(tenantID, days)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) AppointmentCountsByDoctor(tenantID, fromDate, toDate string) ([]*DoctorCounts, error) {
	args := m.Called(tenantID, fromDate, toDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*DoctorCounts), args.Error(1)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	t.Helper()

	cfg := &config.Config{
		Analytics: config.AnalyticsConfig{ConsultationFee: 50},
	}
	repo := &MockRepository{}
	service := NewService(cfg, logger.New("error"), repo)
	service.now = func() time.Time {
		return time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)
	}
	return service, repo
}

func claimsFor(role types.Role, userID string) *types.UserClaims {
	return &types.UserClaims{UserID: userID, Role: role, TenantID: "tenant-1"}
}

func TestDashboardStats(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("CountAppointmentsOnDate", "tenant-1", "2025-01-15").Return(6, nil)
	repo.On("CountAppointmentsAfter", "tenant-1", "2025-01-15").Return(14, nil)
	repo.On("CountPatients", "tenant-1").Return(230, nil)
	repo.On("CountPatientsCreatedSince", "tenant-1", 30).Return(12, nil)

	stats, err := service.DashboardStats(claimsFor(types.RoleAdmin, "admin-1"))

	require.NoError(t, err)
	assert.Equal(t, 6, stats.AppointmentsToday)
	assert.Equal(t, 14, stats.AppointmentsUpcoming)
	assert.Equal(t, 230, stats.PatientsTotal)
	assert.Equal(t, 12, stats.PatientsNew)
}

func TestDashboardStatsDeniedForAssistant(t *testing.T) {
	service, repo := setupTestService(t)

	_, err := service.DashboardStats(claimsFor(types.RoleAssistant, "assistant-1"))

	require.Error(t, err)
	cerr, ok := err.(*types.CabinetError)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeAuthorization, cerr.Type)
	repo.AssertNotCalled(t, "CountPatients", mock.Anything)
}

func TestDoctorStatsComputesIncome(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("AppointmentCountsByDoctor", "tenant-1", "2025-01-01", "2025-01-31").Return([]*DoctorCounts{
		{DoctorID: "doc-1", DoctorName: "Dr. Benali", Total: 40, Completed: 32},
		{DoctorID: "doc-2", DoctorName: "Dr. Saidi", Total: 25, Completed: 20},
	}, nil)

	// Empty range defaults to the clock's current month.
	stats, err := service.DoctorStats(claimsFor(types.RoleAdmin, "admin-1"), "", "")

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 32, stats[0].CompletedAppointments)
	assert.InDelta(t, 1600, stats[0].EstimatedIncome, 1e-9)
	assert.InDelta(t, 1000, stats[1].EstimatedIncome, 1e-9)
}

func TestDoctorStatsScopedToOwnLine(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("AppointmentCountsByDoctor", "tenant-1", "2025-01-01", "2025-01-31").Return([]*DoctorCounts{
		{DoctorID: "doc-1", DoctorName: "Dr. Benali", Total: 40, Completed: 32},
		{DoctorID: "doc-2", DoctorName: "Dr. Saidi", Total: 25, Completed: 20},
	}, nil)

	stats, err := service.DoctorStats(claimsFor(types.RoleDoctor, "doc-2"), "2025-01-01", "2025-01-31")

	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "doc-2", stats[0].DoctorID)
}

func TestDoctorStatsValidatesDates(t *testing.T) {
	service, _ := setupTestService(t)

	_, err := service.DoctorStats(claimsFor(types.RoleAdmin, "admin-1"), "01/01/2025", "2025-01-31")
	require.Error(t, err)
}
