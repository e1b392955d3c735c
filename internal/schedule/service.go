package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/HabibPro1999/cabinet-optimizer/internal/access"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/config"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/monitoring"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// PlacedAppointment is an appointment enriched with its pixel geometry
// and display attributes for the week grid.
type PlacedAppointment struct {
	*types.Appointment
	Block       Block  `json:"block"`
	StatusLabel string `json:"statusLabel"`
	StatusColor string `json:"statusColor"`
}

// DayColumn groups the appointments that fall on one calendar day.
type DayColumn struct {
	Date         string               `json:"date"`
	Appointments []*PlacedAppointment `json:"appointments"`
}

// WeekView is the fully assembled weekly grid for one tenant.
type WeekView struct {
	Window WeekWindow  `json:"window"`
	Grid   GridConfig  `json:"grid"`
	Slots  []int       `json:"slots"`
	Days   []DayColumn `json:"days"`
}

// Service implements appointment management and week view assembly
type Service struct {
	config     *config.Config
	logger     *logger.Logger
	repository Repository
	metrics    *monitoring.MetricsCollector
	now        func() time.Time
}

// NewService creates a new schedule service
func NewService(cfg *config.Config, log *logger.Logger, repo Repository, metrics *monitoring.MetricsCollector) *Service {
	return &Service{
		config:     cfg,
		logger:     log,
		repository: repo,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (s *Service) grid() GridConfig {
	return GridConfig{
		FirstHour: s.config.Schedule.FirstHour,
		LastHour:  s.config.Schedule.LastHour,
		PxPerHour: s.config.Schedule.PxPerHour,
	}
}

// CreateAppointment validates and persists a new appointment
func (s *Service) CreateAppointment(claims *types.UserClaims, apt *types.Appointment) (*types.Appointment, error) {
	if !access.CanMutateAppointment(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "appointment:create")
		return nil, types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot modify appointments")
	}

	if err := validateAppointment(apt); err != nil {
		return nil, err
	}

	if apt.ID == "" {
		apt.ID = uuid.New().String()
	}
	apt.TenantID = claims.TenantID
	if apt.Status == "" {
		apt.Status = types.StatusPending
	}
	if apt.DurationMinutes <= 0 {
		apt.DurationMinutes = types.DefaultDurationMinutes
	}

	if err := s.repository.CreateAppointment(claims.TenantID, apt); err != nil {
		s.metrics.RecordAppointmentOperation("create", "error")
		return nil, err
	}

	s.metrics.RecordAppointmentOperation("create", "success")
	s.logger.Audit(claims.UserID, "appointment:create", apt.ID, true, map[string]interface{}{
		"date": apt.Date,
		"time": apt.Time,
	})
	return apt, nil
}

// GetAppointment retrieves a single appointment
func (s *Service) GetAppointment(claims *types.UserClaims, id string) (*types.Appointment, error) {
	return s.repository.GetAppointmentByID(claims.TenantID, id)
}

// UpdateAppointment applies partial updates to an appointment
func (s *Service) UpdateAppointment(claims *types.UserClaims, id string, updates *types.AppointmentUpdates) error {
	if !access.CanMutateAppointment(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "appointment:update")
		return types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot modify appointments")
	}

	if updates.Date != nil {
		if _, err := time.Parse(types.DateFormat, *updates.Date); err != nil {
			return types.NewValidationError(types.ErrCodeInvalidInput, "invalid date format, expected YYYY-MM-DD", map[string]interface{}{"error": err.Error()})
		}
	}
	if updates.Time != nil {
		if _, _, err := parseClock(*updates.Time); err != nil {
			return types.NewValidationError(types.ErrCodeInvalidInput, "invalid time format, expected HH:MM", map[string]interface{}{"error": err.Error()})
		}
	}
	if updates.Status != nil && !updates.Status.Valid() {
		return types.NewValidationError(types.ErrCodeInvalidInput, "invalid appointment status", nil)
	}

	if err := s.repository.UpdateAppointment(claims.TenantID, id, updates); err != nil {
		s.metrics.RecordAppointmentOperation("update", "error")
		return err
	}

	s.metrics.RecordAppointmentOperation("update", "success")
	s.logger.Audit(claims.UserID, "appointment:update", id, true, nil)
	return nil
}

// DeleteAppointment removes an appointment
func (s *Service) DeleteAppointment(claims *types.UserClaims, id string) error {
	if !access.CanMutateAppointment(claims.Role) {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), "appointment:delete")
		return types.NewAuthorizationError(types.ErrCodeForbidden, "role cannot modify appointments")
	}

	if err := s.repository.DeleteAppointment(claims.TenantID, id); err != nil {
		s.metrics.RecordAppointmentOperation("delete", "error")
		return err
	}

	s.metrics.RecordAppointmentOperation("delete", "success")
	s.logger.Audit(claims.UserID, "appointment:delete", id, true, nil)
	return nil
}

// ListAppointments retrieves appointments matching the given filters.
// Doctors only see their own appointments.
func (s *Service) ListAppointments(claims *types.UserClaims, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	if claims.Role == types.RoleDoctor {
		filters.DoctorID = claims.UserID
	}
	return s.repository.GetAppointments(claims.TenantID, filters)
}

// WeekView assembles the weekly grid around a reference date. An empty
// reference means the current week.
func (s *Service) WeekView(claims *types.UserClaims, refDate string) (*WeekView, error) {
	ref := s.now()
	if refDate != "" {
		parsed, err := time.Parse(types.DateFormat, refDate)
		if err != nil {
			return nil, types.NewValidationError(types.ErrCodeInvalidInput, "invalid date format, expected YYYY-MM-DD", map[string]interface{}{"error": err.Error()})
		}
		ref = parsed
	}

	window := WeekOf(ref)
	days := WeekDays(ref)

	appointments, err := s.repository.GetAppointmentsInRange(
		claims.TenantID,
		window.Start.Format(types.DateFormat),
		window.End.Format(types.DateFormat),
	)
	if err != nil {
		return nil, err
	}

	if claims.Role == types.RoleDoctor {
		own := appointments[:0]
		for _, apt := range appointments {
			if apt.DoctorID == claims.UserID {
				own = append(own, apt)
			}
		}
		appointments = own
	}

	grid := s.grid()
	view := &WeekView{
		Window: window,
		Grid:   grid,
		Slots:  grid.TimeSlots(),
		Days:   make([]DayColumn, 0, len(days)),
	}

	for _, day := range days {
		column := DayColumn{
			Date:         day.Format(types.DateFormat),
			Appointments: []*PlacedAppointment{},
		}
		for _, apt := range AppointmentsForDay(appointments, day) {
			block, err := Layout(apt, grid)
			if err != nil {
				s.logger.WithError(err).Warnf("Skipping appointment %s with unparseable time %q", apt.ID, apt.Time)
				continue
			}
			column.Appointments = append(column.Appointments, &PlacedAppointment{
				Appointment: apt,
				Block:       block,
				StatusLabel: StatusLabel(apt.Status),
				StatusColor: StatusColor(apt.Status),
			})
		}
		view.Days = append(view.Days, column)
	}

	return view, nil
}

func validateAppointment(apt *types.Appointment) error {
	if apt.PatientID == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "patient ID is required", nil)
	}
	if apt.DoctorID == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "doctor ID is required", nil)
	}
	if _, err := time.Parse(types.DateFormat, apt.Date); err != nil {
		return types.NewValidationError(types.ErrCodeInvalidInput, "invalid date format, expected YYYY-MM-DD", map[string]interface{}{"error": err.Error()})
	}
	if _, _, err := parseClock(apt.Time); err != nil {
		return types.NewValidationError(types.ErrCodeInvalidInput, "invalid time format, expected HH:MM", map[string]interface{}{"error": err.Error()})
	}
	if apt.Status != "" && !apt.Status.Valid() {
		return types.NewValidationError(types.ErrCodeInvalidInput, "invalid appointment status", nil)
	}
	return nil
}
