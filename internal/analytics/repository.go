package analytics

import (
	"fmt"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/database"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Repository defines the read-side aggregates the dashboards are
// built from.
type Repository interface {
	CountAppointmentsOnDate(tenantID, date string) (int, error)
	CountAppointmentsAfter(tenantID, date string) (int, error)
	CountPatients(tenantID string) (int, error)
	CountPatientsCreatedSince(tenantID string, days int) (int, error)
	AppointmentCountsByDoctor(tenantID, fromDate, toDate string) ([]*DoctorCounts, error)
}

// DoctorCounts holds the raw per-doctor appointment tallies
type DoctorCounts struct {
	DoctorID   string
	DoctorName string
	Total      int
	Completed  int
}

// SQLRepository implements Repository over postgres
type SQLRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new analytics repository
func NewRepository(db *database.DB, log *logger.Logger) Repository {
	return &SQLRepository{
		db:     db,
		logger: log,
	}
}

func (r *SQLRepository) countRow(query string, args ...interface{}) (int, error) {
	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		r.logger.WithError(err).Error("Failed to run count query")
		return 0, fmt.Errorf("failed to run count query: %w", err)
	}
	return count, nil
}

// CountAppointmentsOnDate counts the appointments on one calendar day
func (r *SQLRepository) CountAppointmentsOnDate(tenantID, date string) (int, error) {
	return r.countRow(
		`SELECT COUNT(*) FROM appointments WHERE tenant_id = $1 AND date = $2`,
		tenantID, date)
}

// CountAppointmentsAfter counts appointments strictly after a date
func (r *SQLRepository) CountAppointmentsAfter(tenantID, date string) (int, error) {
	return r.countRow(
		`SELECT COUNT(*) FROM appointments WHERE tenant_id = $1 AND date > $2 AND status != 'canceled'`,
		tenantID, date)
}

// CountPatients counts the tenant's patient records
func (r *SQLRepository) CountPatients(tenantID string) (int, error) {
	return r.countRow(`SELECT COUNT(*) FROM patients WHERE tenant_id = $1`, tenantID)
}

// CountPatientsCreatedSince counts patients registered in the last n
// days
func (r *SQLRepository) CountPatientsCreatedSince(tenantID string, days int) (int, error) {
	return r.countRow(
		`SELECT COUNT(*) FROM patients WHERE tenant_id = $1 AND created_at >= NOW() - ($2 || ' days')::interval`,
		tenantID, days)
}

// AppointmentCountsByDoctor tallies total and completed appointments
// per doctor over a date range.
func (r *SQLRepository) AppointmentCountsByDoctor(tenantID, fromDate, toDate string) ([]*DoctorCounts, error) {
	query := `
		SELECT doctor_id, doctor_name,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status = $4) AS completed
		FROM appointments
		WHERE tenant_id = $1 AND date >= $2 AND date <= $3
		GROUP BY doctor_id, doctor_name
		ORDER BY total DESC`

	rows, err := r.db.Query(query, tenantID, fromDate, toDate, string(types.StatusDone))
	if err != nil {
		r.logger.WithError(err).Error("Failed to query doctor counts")
		return nil, fmt.Errorf("failed to query doctor counts: %w", err)
	}
	defer rows.Close()

	var counts []*DoctorCounts
	for rows.Next() {
		c := &DoctorCounts{}
		if err := rows.Scan(&c.DoctorID, &c.DoctorName, &c.Total, &c.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan doctor counts: %w", err)
		}
		counts = append(counts, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctor counts: %w", err)
	}

	return counts, nil
}
