package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pet_feeder/internal/device"
	"pet_feeder/internal/logger"
	"pet_feeder/internal/models"
	"pet_feeder/internal/repository"
)

// ScheduleInput is the user-editable part of a schedule.
type ScheduleInput struct {
	Hour    int     `json:"hour"`
	Minute  int     `json:"minute"`
	Amount  float64 `json:"amount"`
	Enabled bool    `json:"enabled"`
}

func (in ScheduleInput) validate() error {
	if in.Hour < 0 || in.Hour > 23 {
		return fmt.Errorf("%w: hour %d not in 0-23", ErrInvalidSchedule, in.Hour)
	}
	if in.Minute < 0 || in.Minute > 59 {
		return fmt.Errorf("%w: minute %d not in 0-59", ErrInvalidSchedule, in.Minute)
	}
	if in.Amount < 0 || in.Amount > device.MaxAngle {
		return fmt.Errorf("%w: amount %.1f not in 0-%.0f", ErrInvalidSchedule, in.Amount, device.MaxAngle)
	}
	return nil
}

// ParseTimeOfDay parses "H:MM" or "HH:MM" (24h). Signs and extra digits are rejected.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidSchedule, s)
	}
	if !isDigits(hh, 1, 2) {
		return 0, 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidSchedule, s)
	}
	if !isDigits(mm, 2, 2) {
		return 0, 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidSchedule, s)
	}
	hour, _ = strconv.Atoi(hh)
	minute, _ = strconv.Atoi(mm)
	if hour > 23 {
		return 0, 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidSchedule, s)
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidSchedule, s)
	}
	return hour, minute, nil
}

// isDigits reports whether s is lo..hi ASCII digits.
func isDigits(s string, lo, hi int) bool {
	if len(s) < lo || len(s) > hi {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ScheduleService manages schedules and mirrors every change to the device.
type ScheduleService struct {
	repo    repository.ScheduleRepo
	channel device.Channel
	clock   Clock
	log     *logger.Logger
}

func NewScheduleService(repo repository.ScheduleRepo, channel device.Channel, clock Clock, log *logger.Logger) *ScheduleService {
	return &ScheduleService{repo: repo, channel: channel, clock: clock, log: log}
}

func (s *ScheduleService) List(ctx context.Context) ([]models.ScheduleEntry, error) {
	return s.repo.List(ctx)
}

func (s *ScheduleService) Get(ctx context.Context, id string) (models.ScheduleEntry, error) {
	e, err := s.repo.Get(ctx, id)
	return e, notFound(err)
}

func (s *ScheduleService) Create(ctx context.Context, in ScheduleInput) (models.ScheduleEntry, error) {
	if err := in.validate(); err != nil {
		return models.ScheduleEntry{}, err
	}
	e, err := s.repo.Create(ctx, models.ScheduleEntry{
		Hour: in.Hour, Minute: in.Minute, Amount: in.Amount, Enabled: in.Enabled,
	})
	if err != nil {
		return models.ScheduleEntry{}, err
	}
	s.sync(ctx, models.SyncAdd, e)
	return e, nil
}

func (s *ScheduleService) Update(ctx context.Context, id string, in ScheduleInput) (models.ScheduleEntry, error) {
	if err := in.validate(); err != nil {
		return models.ScheduleEntry{}, err
	}
	e := models.ScheduleEntry{ID: id, Hour: in.Hour, Minute: in.Minute, Amount: in.Amount, Enabled: in.Enabled}
	if err := s.repo.Update(ctx, e); err != nil {
		return models.ScheduleEntry{}, notFound(err)
	}
	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.ScheduleEntry{}, notFound(err)
	}
	s.sync(ctx, models.SyncUpdate, updated)
	return updated, nil
}

func (s *ScheduleService) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if err := s.repo.SetEnabled(ctx, id, enabled); err != nil {
		return notFound(err)
	}
	s.sync(ctx, models.SyncToggle, models.ScheduleEntry{ID: id, Enabled: enabled})
	return nil
}

func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.sync(ctx, models.SyncDelete, models.ScheduleEntry{ID: id})
	return nil
}

// sync is best effort: the store is the source of truth.
func (s *ScheduleService) sync(ctx context.Context, op string, e models.ScheduleEntry) {
	msg := models.ScheduleSync{
		Op:         op,
		ScheduleID: e.ID,
		Hour:       e.Hour,
		Minute:     e.Minute,
		Amount:     e.Amount,
		Enabled:    e.Enabled,
		Timestamp:  s.clock.Now().UnixMilli(),
	}
	if err := s.channel.SyncSchedule(ctx, msg); err != nil {
		s.log.Warnw("schedule_sync_failed", "op", op, "schedule_id", e.ID, "err", err)
	}
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrScheduleNotFound
	}
	return err
}
