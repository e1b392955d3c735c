package schedule

import (
	"testing"
	"time"

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

func (m *MockRepository) CreateAppointment(tenantID string, apt *types.Appointment) error {
	args := m.Called(tenantID, apt)
	return args.Error(0)
}

func (m *MockRepository) GetAppointmentByID(tenantID, id string) (*types.Appointment, error) {
	args := m.Called(tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Appointment), args.Error(1)
}

func (m *MockRepository) UpdateAppointment(tenantID, id string, updates *types.AppointmentUpdates) error {
	args := m.Called(tenantID, id, updates)
	return args.Error(0)
}

func (m *MockRepository) DeleteAppointment(tenantID, id string) error {
	args := m.Called(tenantID, id)
	return args.Error(0)
}

func (m *MockRepository) GetAppointments(tenantID string, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	args := m.Called(tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockRepository) GetAppointmentsInRange(tenantID, fromDate, toDate string) ([]*types.Appointment, error) {
	args := m.Called(tenantID, fromDate, toDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	t.Helper()

	cfg := &config.Config{
		Schedule: config.ScheduleConfig{
			FirstHour: 8,
			LastHour:  17,
			PxPerHour: 100,
		},
	}

	repo := &MockRepository{}
	service := NewService(cfg, logger.New("error"), repo, monitoring.NewMetricsCollector("schedule-test"))
	service.now = func() time.Time {
		return time.Date(2025, 1, 8, 14, 30, 0, 0, time.Local) // a Wednesday
	}
	return service, repo
}

func adminClaims() *types.UserClaims {
	return &types.UserClaims{
		UserID:   "user-admin",
		Role:     types.RoleAdmin,
		TenantID: "tenant-1",
	}
}

func doctorClaims() *types.UserClaims {
	return &types.UserClaims{
		UserID:   "doc-1",
		Role:     types.RoleDoctor,
		TenantID: "tenant-1",
	}
}

func TestCreateAppointment(t *testing.T) {
	service, repo := setupTestService(t)

	apt := &types.Appointment{
		PatientID: "patient-1",
		DoctorID:  "doc-1",
		Date:      "2025-01-09",
		Time:      "09:30",
	}

	repo.On("CreateAppointment", "tenant-1", mock.AnythingOfType("*types.Appointment")).Return(nil)

	created, err := service.CreateAppointment(adminClaims(), apt)

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "tenant-1", created.TenantID)
	assert.Equal(t, types.StatusPending, created.Status)
	assert.Equal(t, types.DefaultDurationMinutes, created.DurationMinutes)
	repo.AssertExpectations(t)
}

func TestCreateAppointmentDeniedForDoctor(t *testing.T) {
	service, repo := setupTestService(t)

	apt := &types.Appointment{
		PatientID: "patient-1",
		DoctorID:  "doc-1",
		Date:      "2025-01-09",
		Time:      "09:30",
	}

	_, err := service.CreateAppointment(doctorClaims(), apt)

	require.Error(t, err)
	cerr, ok := err.(*types.CabinetError)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeAuthorization, cerr.Type)
	repo.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
}

func TestCreateAppointmentValidation(t *testing.T) {
	service, _ := setupTestService(t)

	tests := []struct {
		name string
		apt  *types.Appointment
	}{
		{"missing patient", &types.Appointment{DoctorID: "doc-1", Date: "2025-01-09", Time: "09:30"}},
		{"missing doctor", &types.Appointment{PatientID: "p-1", Date: "2025-01-09", Time: "09:30"}},
		{"bad date", &types.Appointment{PatientID: "p-1", DoctorID: "doc-1", Date: "09/01/2025", Time: "09:30"}},
		{"bad time", &types.Appointment{PatientID: "p-1", DoctorID: "doc-1", Date: "2025-01-09", Time: "9h30"}},
		{"bad status", &types.Appointment{PatientID: "p-1", DoctorID: "doc-1", Date: "2025-01-09", Time: "09:30", Status: "archived"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateAppointment(adminClaims(), tt.apt)
			require.Error(t, err)
			cerr, ok := err.(*types.CabinetError)
			require.True(t, ok)
			assert.Equal(t, types.ErrorTypeValidation, cerr.Type)
		})
	}
}

func TestUpdateAppointmentDeniedForDoctor(t *testing.T) {
	service, repo := setupTestService(t)

	status := types.StatusConfirmed
	err := service.UpdateAppointment(doctorClaims(), "apt-1", &types.AppointmentUpdates{Status: &status})

	require.Error(t, err)
	repo.AssertNotCalled(t, "UpdateAppointment", mock.Anything, mock.Anything, mock.Anything)
}

func TestListAppointmentsScopesDoctorToOwn(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("GetAppointments", "tenant-1", mock.MatchedBy(func(f *types.AppointmentFilters) bool {
		return f.DoctorID == "doc-1"
	})).Return([]*types.Appointment{}, nil)

	_, err := service.ListAppointments(doctorClaims(), &types.AppointmentFilters{DoctorID: "someone-else"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestWeekViewAssemblesGrid(t *testing.T) {
	service, repo := setupTestService(t)

	appointments := []*types.Appointment{
		{ID: "a", DoctorID: "doc-1", Date: "2025-01-06", Time: "09:00", DurationMinutes: 30, Status: types.StatusConfirmed},
		{ID: "b", DoctorID: "doc-2", Date: "2025-01-06", Time: "10:00", DurationMinutes: 60, Status: types.StatusPending},
		{ID: "c", DoctorID: "doc-1", Date: "2025-01-12", Time: "16:00", DurationMinutes: 30, Status: types.StatusDone},
	}

	// The injected clock is Wednesday 2025-01-08, so the window is
	// Monday 2025-01-06 through Sunday 2025-01-12.
	repo.On("GetAppointmentsInRange", "tenant-1", "2025-01-06", "2025-01-12").Return(appointments, nil)

	view, err := service.WeekView(adminClaims(), "")

	require.NoError(t, err)
	require.Len(t, view.Days, 7)
	assert.Equal(t, "2025-01-06", view.Days[0].Date)
	assert.Equal(t, "2025-01-12", view.Days[6].Date)
	assert.Equal(t, []int{8, 9, 10, 11, 12, 13, 14, 15, 16, 17}, view.Slots)

	monday := view.Days[0]
	require.Len(t, monday.Appointments, 2)
	assert.Equal(t, "a", monday.Appointments[0].ID)
	assert.InDelta(t, 100, monday.Appointments[0].Block.TopOffsetPx, 1e-9)
	assert.InDelta(t, 50, monday.Appointments[0].Block.HeightPx, 1e-9)
	assert.Equal(t, "Confirmé", monday.Appointments[0].StatusLabel)

	assert.Empty(t, view.Days[1].Appointments)
	repo.AssertExpectations(t)
}

func TestWeekViewFiltersDoctorAppointments(t *testing.T) {
	service, repo := setupTestService(t)

	appointments := []*types.Appointment{
		{ID: "a", DoctorID: "doc-1", Date: "2025-01-06", Time: "09:00", DurationMinutes: 30, Status: types.StatusConfirmed},
		{ID: "b", DoctorID: "doc-2", Date: "2025-01-06", Time: "10:00", DurationMinutes: 60, Status: types.StatusPending},
	}

	repo.On("GetAppointmentsInRange", "tenant-1", "2025-01-06", "2025-01-12").Return(appointments, nil)

	view, err := service.WeekView(doctorClaims(), "")

	require.NoError(t, err)
	require.Len(t, view.Days[0].Appointments, 1)
	assert.Equal(t, "a", view.Days[0].Appointments[0].ID)
}

func TestWeekViewExplicitDate(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("GetAppointmentsInRange", "tenant-1", "2025-02-24", "2025-03-02").Return([]*types.Appointment{}, nil)

	view, err := service.WeekView(adminClaims(), "2025-03-01")

	require.NoError(t, err)
	assert.Equal(t, "2025-02-24", view.Days[0].Date)

	_, err = service.WeekView(adminClaims(), "not-a-date")
	require.Error(t, err)
}
