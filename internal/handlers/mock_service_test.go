package handlers

import (
	"context"

	"pet_feeder/internal/models"
	"pet_feeder/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockFeeder struct {
	state    service.FeederState
	stateErr error

	outcome service.Outcome
	err     error

	lastAngle     *float64
	dispenseCalls int
	closeCalls    int
	tareCalls     int
}

func (m *mockFeeder) Dispense(ctx context.Context, angle *float64) (service.Outcome, error) {
	m.dispenseCalls++
	m.lastAngle = angle
	return m.outcome, m.err
}
func (m *mockFeeder) Close(ctx context.Context) (service.Outcome, error) {
	m.closeCalls++
	return m.outcome, m.err
}
func (m *mockFeeder) Tare(ctx context.Context) (service.Outcome, error) {
	m.tareCalls++
	return m.outcome, m.err
}
func (m *mockFeeder) State(ctx context.Context) (service.FeederState, error) {
	return m.state, m.stateErr
}

type mockSchedules struct {
	list  []models.ScheduleEntry
	entry models.ScheduleEntry
	err   error

	lastID      string
	lastInput   service.ScheduleInput
	lastEnabled bool
	deleted     []string
}

func (m *mockSchedules) List(ctx context.Context) ([]models.ScheduleEntry, error) {
	return m.list, m.err
}
func (m *mockSchedules) Get(ctx context.Context, id string) (models.ScheduleEntry, error) {
	m.lastID = id
	return m.entry, m.err
}
func (m *mockSchedules) Create(ctx context.Context, in service.ScheduleInput) (models.ScheduleEntry, error) {
	m.lastInput = in
	return m.entry, m.err
}
func (m *mockSchedules) Update(ctx context.Context, id string, in service.ScheduleInput) (models.ScheduleEntry, error) {
	m.lastID = id
	m.lastInput = in
	return m.entry, m.err
}
func (m *mockSchedules) SetEnabled(ctx context.Context, id string, enabled bool) error {
	m.lastID = id
	m.lastEnabled = enabled
	return m.err
}
func (m *mockSchedules) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

type mockAuditLog struct {
	resp       []models.AuditEntry
	err        error
	lastFilter service.AuditFilter
}

func (m *mockAuditLog) List(ctx context.Context, f service.AuditFilter) ([]models.AuditEntry, error) {
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
