package analytics

import (
	"time"

	"github.com/HabibPro1999/cabinet-optimizer/internal/access"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/config"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// newPatientWindowDays is the lookback used for the "new patients"
// dashboard figure.
const newPatientWindowDays = 30

// Service implements the practice dashboards
type Service struct {
	config     *config.Config
	logger     *logger.Logger
	repository Repository
	now        func() time.Time
}

// NewService creates a new analytics service
func NewService(cfg *config.Config, log *logger.Logger, repo Repository) *Service {
	return &Service{
		config:     cfg,
		logger:     log,
		repository: repo,
		now:        time.Now,
	}
}

// DashboardStats assembles the home page summary. Doctors and admins
// may consult it.
func (s *Service) DashboardStats(claims *types.UserClaims) (*types.DashboardStats, error) {
	if !access.CanViewAnalytics(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "analytics:dashboard")
		return nil, types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot view analytics")
	}

	today := s.now().Format(types.DateFormat)

	stats := &types.DashboardStats{}
	var err error

	if stats.AppointmentsToday, err = s.repository.CountAppointmentsOnDate(claims.TenantID, today); err != nil {
		return nil, err
	}
	if stats.AppointmentsUpcoming, err = s.repository.CountAppointmentsAfter(claims.TenantID, today); err != nil {
		return nil, err
	}
	if stats.PatientsTotal, err = s.repository.CountPatients(claims.TenantID); err != nil {
		return nil, err
	}
	if stats.PatientsNew, err = s.repository.CountPatientsCreatedSince(claims.TenantID, newPatientWindowDays); err != nil {
		return nil, err
	}

	return stats, nil
}

// DoctorStats tallies per-doctor activity over a date range and
// estimates income as completed appointments times the configured
// consultation fee.
func (s *Service) DoctorStats(claims *types.UserClaims, fromDate, toDate string) ([]*types.DoctorStats, error) {
	if !access.CanViewAnalytics(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "analytics:doctors")
		return nil, types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot view analytics")
	}

	if fromDate == "" || toDate == "" {
		// Default to the current month.
		now := s.now()
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		fromDate = first.Format(types.DateFormat)
		toDate = first.AddDate(0, 1, -1).Format(types.DateFormat)
	}
	if _, err := time.Parse(types.DateFormat, fromDate); err != nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "invalid from date, expected YYYY-MM-DD", nil)
	}
	if _, err := time.Parse(types.DateFormat, toDate); err != nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "invalid to date, expected YYYY-MM-DD", nil)
	}

	counts, err := s.repository.AppointmentCountsByDoctor(claims.TenantID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	fee := s.config.Analytics.ConsultationFee
	stats := make([]*types.DoctorStats, 0, len(counts))
	for _, c := range counts {
		// Doctors only see their own line.
		if claims.Role == types.RoleDoctor && c.DoctorID != claims.UserID {
			continue
		}
		stats = append(stats, &types.DoctorStats{
			DoctorID:              c.DoctorID,
			DoctorName:            c.DoctorName,
			TotalAppointments:     c.Total,
			CompletedAppointments: c.Completed,
			EstimatedIncome:       float64(c.Completed) * fee,
		})
	}

	return stats, nil
}
