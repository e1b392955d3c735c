package patients

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

func (m *MockRepository) CreatePatient(tenantID string, patient *types.Patient) error {
	args := m.Called(tenantID, patient)
	return args.Error(0)
}

func (m *MockRepository) GetPatientByID(tenantID, id string) (*types.Patient, error) {
	args := m.Called(tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Patient), args.Error(1)
}

func (m *MockRepository) UpdatePatient(tenantID, id string, updates *types.PatientUpdates) error {
	args := m.Called(tenantID, id, updates)
	return args.Error(0)
}

func (m *MockRepository) DeletePatient(tenantID, id string) error {
	args := m.Called(tenantID, id)
	return args.Error(0)
}

func (m *MockRepository) SearchPatients(tenantID, query string, limit, offset int) ([]*types.Patient, error) {
	args := m.Called(tenantID, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Patient), args.Error(1)
}

func (m *MockRepository) CreateNote(note *types.Note) error {
	args := m.Called(note)
	return args.Error(0)
}

func (m *MockRepository) GetNotesByPatient(tenantID, patientID string) ([]*types.Note, error) {
	args := m.Called(tenantID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Note), args.Error(1)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	t.Helper()
	repo := &MockRepository{}
	return NewService(logger.New("error"), repo), repo
}

func claimsFor(role types.Role) *types.UserClaims {
	return &types.UserClaims{
		UserID:   "user-1",
		Name:     "Dr. Benali",
		Role:     role,
		TenantID: "tenant-1",
	}
}

func TestCreatePatient(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("CreatePatient", "tenant-1", mock.AnythingOfType("*types.Patient")).Return(nil)

	created, err := service.CreatePatient(claimsFor(types.RoleAssistant), &types.Patient{FullName: "Yasmine K."})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "tenant-1", created.TenantID)
	repo.AssertExpectations(t)
}

func TestCreatePatientDeniedForDoctor(t *testing.T) {
	service, repo := setupTestService(t)

	_, err := service.CreatePatient(claimsFor(types.RoleDoctor), &types.Patient{FullName: "Yasmine K."})

	require.Error(t, err)
	cerr, ok := err.(*types.CabinetError)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeAuthorization, cerr.Type)
	repo.AssertNotCalled(t, "CreatePatient", mock.Anything, mock.Anything)
}

func TestCreatePatientRequiresName(t *testing.T) {
	service, _ := setupTestService(t)

	_, err := service.CreatePatient(claimsFor(types.RoleAdmin), &types.Patient{FullName: "   "})

	require.Error(t, err)
	cerr, ok := err.(*types.CabinetError)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeValidation, cerr.Type)
}

func TestDeletePatientDeniedForUnknownRole(t *testing.T) {
	service, repo := setupTestService(t)

	err := service.DeletePatient(claimsFor("visitor"), "patient-1")

	require.Error(t, err)
	repo.AssertNotCalled(t, "DeletePatient", mock.Anything, mock.Anything)
}

func TestDoctorCanReadPatients(t *testing.T) {
	service, repo := setupTestService(t)

	patient := &types.Patient{ID: "patient-1", TenantID: "tenant-1", FullName: "Yasmine K."}
	repo.On("GetPatientByID", "tenant-1", "patient-1").Return(patient, nil)

	got, err := service.GetPatient(claimsFor(types.RoleDoctor), "patient-1")

	require.NoError(t, err)
	assert.Equal(t, patient, got)
}

func TestAddNoteStampsAuthorFromClaims(t *testing.T) {
	service, repo := setupTestService(t)

	patient := &types.Patient{ID: "patient-1", TenantID: "tenant-1", FullName: "Yasmine K."}
	repo.On("GetPatientByID", "tenant-1", "patient-1").Return(patient, nil)
	repo.On("CreateNote", mock.AnythingOfType("*types.Note")).Return(nil)

	note, err := service.AddNote(claimsFor(types.RoleDoctor), "patient-1", &types.Note{
		Content:  "Suivi orthodontique, RAS.",
		DoctorID: "spoofed-id",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", note.DoctorID)
	assert.Equal(t, "Dr. Benali", note.DoctorName)
	assert.Equal(t, "patient-1", note.PatientID)
	repo.AssertExpectations(t)
}

func TestAddNoteRejectsUnknownPatient(t *testing.T) {
	service, repo := setupTestService(t)

	repo.On("GetPatientByID", "tenant-1", "ghost").
		Return(nil, types.NewNotFoundError(types.ErrCodeNotFound, "patient not found: ghost"))

	_, err := service.AddNote(claimsFor(types.RoleDoctor), "ghost", &types.Note{Content: "note"})

	require.Error(t, err)
	repo.AssertNotCalled(t, "CreateNote", mock.Anything)
}

func TestAddNoteRequiresContent(t *testing.T) {
	service, _ := setupTestService(t)

	_, err := service.AddNote(claimsFor(types.RoleDoctor), "patient-1", &types.Note{Content: " "})

	require.Error(t, err)
}
