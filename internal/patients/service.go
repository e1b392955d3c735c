package patients

import (
	"strings"

	"github.com/google/uuid"

	"github.com/HabibPro1999/cabinet-optimizer/internal/access"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Service implements patient record management
type Service struct {
	logger     *logger.Logger
	repository Repository
}

// NewService creates a new patients service
func NewService(log *logger.Logger, repo Repository) *Service {
	return &Service{
		logger:     log,
		repository: repo,
	}
}

// CreatePatient validates and persists a new patient record
func (s *Service) CreatePatient(claims *types.UserClaims, patient *types.Patient) (*types.Patient, error) {
	if !access.CanMutatePatient(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "patient:create")
		return nil, types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot modify patient records")
	}

	if strings.TrimSpace(patient.FullName) == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient name is required", nil)
	}

	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}
	patient.TenantID = claims.TenantID

	if err := s.repository.CreatePatient(claims.TenantID, patient); err != nil {
		return nil, err
	}

	s.logger.Audit(claims.UserID, "patient:create", patient.ID, true, nil)
	return patient, nil
}

// GetPatient retrieves a patient record. All roles may consult
// records.
func (s *Service) GetPatient(claims *types.UserClaims, id string) (*types.Patient, error) {
	return s.repository.GetPatientByID(claims.TenantID, id)
}

// UpdatePatient applies partial updates to a patient record
func (s *Service) UpdatePatient(claims *types.UserClaims, id string, updates *types.PatientUpdates) error {
	if !access.CanMutatePatient(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "patient:update")
		return types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot modify patient records")
	}

	if updates.FullName != nil && strings.TrimSpace(*updates.FullName) == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "patient name cannot be empty", nil)
	}

	if err := s.repository.UpdatePatient(claims.TenantID, id, updates); err != nil {
		return err
	}

	s.logger.Audit(claims.UserID, "patient:update", id, true, nil)
	return nil
}

// DeletePatient removes a patient record
func (s *Service) DeletePatient(claims *types.UserClaims, id string) error {
	if !access.CanMutatePatient(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "patient:delete")
		return types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot modify patient records")
	}

	if err := s.repository.DeletePatient(claims.TenantID, id); err != nil {
		return err
	}

	s.logger.Audit(claims.UserID, "patient:delete", id, true, nil)
	return nil
}

// SearchPatients lists patients matching a name query
func (s *Service) SearchPatients(claims *types.UserClaims, query string, limit, offset int) ([]*types.Patient, error) {
	return s.repository.SearchPatients(claims.TenantID, query, limit, offset)
}

// AddNote attaches a clinical note to a patient. Any authenticated
// role may write notes; the author is taken from the claims, never
// from the request body.
func (s *Service) AddNote(claims *types.UserClaims, patientID string, note *types.Note) (*types.Note, error) {
	if strings.TrimSpace(note.Content) == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "note content is required", nil)
	}

	if _, err := s.repository.GetPatientByID(claims.TenantID, patientID); err != nil {
		return nil, err
	}

	note.ID = uuid.New().String()
	note.PatientID = patientID
	note.DoctorID = claims.UserID
	note.DoctorName = claims.Name

	if err := s.repository.CreateNote(note); err != nil {
		return nil, err
	}

	s.logger.Audit(claims.UserID, "note:create", note.ID, true, map[string]interface{}{
		"patient_id": patientID,
	})
	return note, nil
}

// GetNotes retrieves a patient's notes
func (s *Service) GetNotes(claims *types.UserClaims, patientID string) ([]*types.Note, error) {
	return s.repository.GetNotesByPatient(claims.TenantID, patientID)
}
