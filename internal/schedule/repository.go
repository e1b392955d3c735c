package schedule

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/database"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Repository defines appointment persistence. All queries are scoped
// to a tenant.
type Repository interface {
	CreateAppointment(tenantID string, apt *types.Appointment) error
	GetAppointmentByID(tenantID, id string) (*types.Appointment, error)
	UpdateAppointment(tenantID, id string, updates *types.AppointmentUpdates) error
	DeleteAppointment(tenantID, id string) error
	GetAppointments(tenantID string, filters *types.AppointmentFilters) ([]*types.Appointment, error)
	GetAppointmentsInRange(tenantID, fromDate, toDate string) ([]*types.Appointment, error)
}

// SQLRepository implements Repository over postgres
type SQLRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new schedule repository
func NewRepository(db *database.DB, log *logger.Logger) Repository {
	return &SQLRepository{
		db:     db,
		logger: log,
	}
}

const appointmentColumns = `id, tenant_id, patient_id, patient_name, doctor_id, doctor_name,
	   date, time, duration_minutes, status, created_at, updated_at`

// CreateAppointment creates a new appointment
func (r *SQLRepository) CreateAppointment(tenantID string, apt *types.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, tenant_id, patient_id, patient_name, doctor_id, doctor_name,
			date, time, duration_minutes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		apt.ID,
		tenantID,
		apt.PatientID,
		apt.PatientName,
		apt.DoctorID,
		apt.DoctorName,
		apt.Date,
		apt.Time,
		apt.DurationMinutes,
		apt.Status,
	)

	if err != nil {
		r.logger.WithError(err).Error("Failed to create appointment")
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	r.logger.WithTenant(tenantID).Infof("Created appointment %s for patient %s", apt.ID, apt.PatientID)
	return nil
}

// GetAppointmentByID retrieves an appointment by ID
func (r *SQLRepository) GetAppointmentByID(tenantID, id string) (*types.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE tenant_id = $1 AND id = $2`, appointmentColumns)

	apt := &types.Appointment{}
	err := r.db.QueryRow(query, tenantID, id).Scan(
		&apt.ID,
		&apt.TenantID,
		&apt.PatientID,
		&apt.PatientName,
		&apt.DoctorID,
		&apt.DoctorName,
		&apt.Date,
		&apt.Time,
		&apt.DurationMinutes,
		&apt.Status,
		&apt.CreatedAt,
		&apt.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("appointment not found: %s", id))
		}
		r.logger.WithError(err).Errorf("Failed to get appointment %s", id)
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return apt, nil
}

// UpdateAppointment updates an existing appointment
func (r *SQLRepository) UpdateAppointment(tenantID, id string, updates *types.AppointmentUpdates) error {
	setParts := []string{}
	args := []interface{}{}
	argIndex := 1

	if updates.Date != nil {
		setParts = append(setParts, fmt.Sprintf("date = $%d", argIndex))
		args = append(args, *updates.Date)
		argIndex++
	}

	if updates.Time != nil {
		setParts = append(setParts, fmt.Sprintf("time = $%d", argIndex))
		args = append(args, *updates.Time)
		argIndex++
	}

	if updates.DurationMinutes != nil {
		setParts = append(setParts, fmt.Sprintf("duration_minutes = $%d", argIndex))
		args = append(args, *updates.DurationMinutes)
		argIndex++
	}

	if updates.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*updates.Status))
		argIndex++
	}

	if updates.DoctorID != nil {
		setParts = append(setParts, fmt.Sprintf("doctor_id = $%d", argIndex))
		args = append(args, *updates.DoctorID)
		argIndex++
	}

	if updates.DoctorName != nil {
		setParts = append(setParts, fmt.Sprintf("doctor_name = $%d", argIndex))
		args = append(args, *updates.DoctorName)
		argIndex++
	}

	if len(setParts) == 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "no updates provided", nil)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	query := fmt.Sprintf("UPDATE appointments SET %s WHERE tenant_id = $%d AND id = $%d",
		strings.Join(setParts, ", "), argIndex, argIndex+1)
	args = append(args, tenantID, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to update appointment %s", id)
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("appointment not found: %s", id))
	}

	r.logger.WithTenant(tenantID).Infof("Updated appointment %s", id)
	return nil
}

// DeleteAppointment deletes an appointment
func (r *SQLRepository) DeleteAppointment(tenantID, id string) error {
	query := `DELETE FROM appointments WHERE tenant_id = $1 AND id = $2`

	result, err := r.db.Exec(query, tenantID, id)
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to delete appointment %s", id)
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("appointment not found: %s", id))
	}

	r.logger.WithTenant(tenantID).Infof("Deleted appointment %s", id)
	return nil
}

// GetAppointments retrieves appointments based on filters, ordered by
// date then time of day.
func (r *SQLRepository) GetAppointments(tenantID string, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE tenant_id = $1`, appointmentColumns)

	args := []interface{}{tenantID}
	argIndex := 2

	if filters.DoctorID != "" {
		query += fmt.Sprintf(" AND doctor_id = $%d", argIndex)
		args = append(args, filters.DoctorID)
		argIndex++
	}

	if filters.PatientID != "" {
		query += fmt.Sprintf(" AND patient_id = $%d", argIndex)
		args = append(args, filters.PatientID)
		argIndex++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(filters.Status))
		argIndex++
	}

	if filters.FromDate != "" {
		query += fmt.Sprintf(" AND date >= $%d", argIndex)
		args = append(args, filters.FromDate)
		argIndex++
	}

	if filters.ToDate != "" {
		query += fmt.Sprintf(" AND date <= $%d", argIndex)
		args = append(args, filters.ToDate)
		argIndex++
	}

	if filters.Search != "" {
		query += fmt.Sprintf(" AND patient_name ILIKE $%d", argIndex)
		args = append(args, "%"+filters.Search+"%")
		argIndex++
	}

	query += " ORDER BY date ASC, time ASC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filters.Limit)
		argIndex++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filters.Offset)
	}

	return r.queryAppointments(query, args...)
}

// GetAppointmentsInRange retrieves appointments between two calendar
// dates inclusive.
func (r *SQLRepository) GetAppointmentsInRange(tenantID, fromDate, toDate string) ([]*types.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE tenant_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, time ASC`, appointmentColumns)

	return r.queryAppointments(query, tenantID, fromDate, toDate)
}

func (r *SQLRepository) queryAppointments(query string, args ...interface{}) ([]*types.Appointment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query appointments")
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		apt := &types.Appointment{}
		err := rows.Scan(
			&apt.ID,
			&apt.TenantID,
			&apt.PatientID,
			&apt.PatientName,
			&apt.DoctorID,
			&apt.DoctorName,
			&apt.Date,
			&apt.Time,
			&apt.DurationMinutes,
			&apt.Status,
			&apt.CreatedAt,
			&apt.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, apt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return appointments, nil
}
