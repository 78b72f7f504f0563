package service

import (
	"context"
	"strings"
	"time"

	"pet_feeder/internal/models"
	"pet_feeder/internal/repository"
)

// AuditFilter narrows the audit listing. Zero values mean unbounded.
type AuditFilter struct {
	From    time.Time
	To      time.Time
	Command string
	Limit   int
}

type AuditLogService struct {
	auditRepo repository.AuditRepo
}

func NewAuditLogService(auditRepo repository.AuditRepo) *AuditLogService {
	return &AuditLogService{auditRepo: auditRepo}
}

// normalizeCommand trims spaces and uppercases the command filter.
func normalizeCommand(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f AuditFilter) (AuditFilter, error) {
	f.From = toUTC(f.From)
	f.To = toUTC(f.To)
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return AuditFilter{}, ErrInvalidTimeRange
	}
	f.Command = normalizeCommand(f.Command)
	if f.Limit < 0 {
		f.Limit = 0
	}
	return f, nil
}

// List returns audit entries newest first.
func (s *AuditLogService) List(ctx context.Context, f AuditFilter) ([]models.AuditEntry, error) {
	f, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.auditRepo.List(ctx, f.From, f.To, f.Command, f.Limit)
}
