package patients

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/database"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Repository defines patient and note persistence, scoped to a tenant.
type Repository interface {
	CreatePatient(tenantID string, patient *types.Patient) error
	GetPatientByID(tenantID, id string) (*types.Patient, error)
	UpdatePatient(tenantID, id string, updates *types.PatientUpdates) error
	DeletePatient(tenantID, id string) error
	SearchPatients(tenantID, query string, limit, offset int) ([]*types.Patient, error)
	CreateNote(note *types.Note) error
	GetNotesByPatient(tenantID, patientID string) ([]*types.Note, error)
}

// SQLRepository implements Repository over postgres
type SQLRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new patients repository
func NewRepository(db *database.DB, log *logger.Logger) Repository {
	return &SQLRepository{
		db:     db,
		logger: log,
	}
}

// CreatePatient creates a new patient record
func (r *SQLRepository) CreatePatient(tenantID string, patient *types.Patient) error {
	query := `
		INSERT INTO patients (id, tenant_id, full_name, parent_name, parent_phone, condition)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		patient.ID,
		tenantID,
		patient.FullName,
		patient.ParentName,
		patient.ParentPhone,
		patient.Condition,
	)

	if err != nil {
		r.logger.WithError(err).Error("Failed to create patient")
		return fmt.Errorf("failed to create patient: %w", err)
	}

	r.logger.WithTenant(tenantID).Infof("Created patient %s", patient.ID)
	return nil
}

// GetPatientByID retrieves a patient by ID
func (r *SQLRepository) GetPatientByID(tenantID, id string) (*types.Patient, error) {
	query := `
		SELECT id, tenant_id, full_name, parent_name, parent_phone, condition, created_at, updated_at
		FROM patients
		WHERE tenant_id = $1 AND id = $2`

	patient := &types.Patient{}
	err := r.db.QueryRow(query, tenantID, id).Scan(
		&patient.ID,
		&patient.TenantID,
		&patient.FullName,
		&patient.ParentName,
		&patient.ParentPhone,
		&patient.Condition,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("patient not found: %s", id))
		}
		r.logger.WithError(err).Errorf("Failed to get patient %s", id)
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return patient, nil
}

// UpdatePatient updates an existing patient record
func (r *SQLRepository) UpdatePatient(tenantID, id string, updates *types.PatientUpdates) error {
	setParts := []string{}
	args := []interface{}{}
	argIndex := 1

	if updates.FullName != nil {
		setParts = append(setParts, fmt.Sprintf("full_name = $%d", argIndex))
		args = append(args, *updates.FullName)
		argIndex++
	}

	if updates.ParentName != nil {
		setParts = append(setParts, fmt.Sprintf("parent_name = $%d", argIndex))
		args = append(args, *updates.ParentName)
		argIndex++
	}

	if updates.ParentPhone != nil {
		setParts = append(setParts, fmt.Sprintf("parent_phone = $%d", argIndex))
		args = append(args, *updates.ParentPhone)
		argIndex++
	}

	if updates.Condition != nil {
		setParts = append(setParts, fmt.Sprintf("condition = $%d", argIndex))
		args = append(args, *updates.Condition)
		argIndex++
	}

	if len(setParts) == 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "no updates provided", nil)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	query := fmt.Sprintf("UPDATE patients SET %s WHERE tenant_id = $%d AND id = $%d",
		strings.Join(setParts, ", "), argIndex, argIndex+1)
	args = append(args, tenantID, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to update patient %s", id)
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("patient not found: %s", id))
	}

	r.logger.WithTenant(tenantID).Infof("Updated patient %s", id)
	return nil
}

// DeletePatient deletes a patient record
func (r *SQLRepository) DeletePatient(tenantID, id string) error {
	query := `DELETE FROM patients WHERE tenant_id = $1 AND id = $2`

	result, err := r.db.Exec(query, tenantID, id)
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to delete patient %s", id)
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("patient not found: %s", id))
	}

	r.logger.WithTenant(tenantID).Infof("Deleted patient %s", id)
	return nil
}

// SearchPatients retrieves patients matching the query by name,
// newest first. An empty query lists all patients.
func (r *SQLRepository) SearchPatients(tenantID, query string, limit, offset int) ([]*types.Patient, error) {
	sqlQuery := `
		SELECT id, tenant_id, full_name, parent_name, parent_phone, condition, created_at, updated_at
		FROM patients
		WHERE tenant_id = $1`

	args := []interface{}{tenantID}
	argIndex := 2

	if query != "" {
		sqlQuery += fmt.Sprintf(" AND (full_name ILIKE $%d OR parent_name ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+query+"%")
		argIndex++
	}

	sqlQuery += " ORDER BY created_at DESC"

	if limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
	}

	if offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, offset)
	}

	rows, err := r.db.Query(sqlQuery, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to search patients")
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	defer rows.Close()

	var patients []*types.Patient
	for rows.Next() {
		patient := &types.Patient{}
		err := rows.Scan(
			&patient.ID,
			&patient.TenantID,
			&patient.FullName,
			&patient.ParentName,
			&patient.ParentPhone,
			&patient.Condition,
			&patient.CreatedAt,
			&patient.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, patient)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}

	return patients, nil
}

// CreateNote attaches a clinical note to a patient
func (r *SQLRepository) CreateNote(note *types.Note) error {
	query := `
		INSERT INTO notes (id, patient_id, appointment_id, doctor_id, doctor_name, content, is_voice_memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var appointmentID interface{}
	if note.AppointmentID != "" {
		appointmentID = note.AppointmentID
	}

	_, err := r.db.Exec(query,
		note.ID,
		note.PatientID,
		appointmentID,
		note.DoctorID,
		note.DoctorName,
		note.Content,
		note.IsVoiceMemo,
	)

	if err != nil {
		r.logger.WithError(err).Error("Failed to create note")
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// GetNotesByPatient retrieves a patient's notes, newest first. The
// join enforces tenant scoping on the parent patient row.
func (r *SQLRepository) GetNotesByPatient(tenantID, patientID string) ([]*types.Note, error) {
	query := `
		SELECT n.id, n.patient_id, COALESCE(n.appointment_id::text, ''), n.doctor_id, n.doctor_name,
		       n.content, n.is_voice_memo, n.created_at
		FROM notes n
		JOIN patients p ON p.id = n.patient_id
		WHERE p.tenant_id = $1 AND n.patient_id = $2
		ORDER BY n.created_at DESC`

	rows, err := r.db.Query(query, tenantID, patientID)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query notes")
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*types.Note
	for rows.Next() {
		note := &types.Note{}
		err := rows.Scan(
			&note.ID,
			&note.PatientID,
			&note.AppointmentID,
			&note.DoctorID,
			&note.DoctorName,
			&note.Content,
			&note.IsVoiceMemo,
			&note.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}
