package usecase

import (
	"context"
	"fmt"

	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditQueryService exposes the read side of the audit trail to reporting
// screens. All operations are pure queries with no side effects.
type AuditQueryService struct {
	repo ports.AuditRepository
}

// NewAuditQueryService creates the audit read facade.
func NewAuditQueryService(repo ports.AuditRepository) *AuditQueryService {
	return &AuditQueryService{repo: repo}
}

// GetAuditLogs retrieves entries matching the filter, newest first.
func (s *AuditQueryService) GetAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error) {
	filter.Limit = clampLimit(filter.Limit)
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return entries, nil
}

// GetRecordAuditLogs retrieves the history of a single record.
func (s *AuditQueryService) GetRecordAuditLogs(ctx context.Context, table, recordID string) ([]*domain.AuditEntry, error) {
	if table == "" || recordID == "" {
		return nil, fmt.Errorf("table and record id are required")
	}
	entries, err := s.repo.ListByRecord(ctx, table, recordID, maxAuditLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list record audit logs: %w", err)
	}
	return entries, nil
}

// GetRecentActivity retrieves the latest entries across all tables.
func (s *AuditQueryService) GetRecentActivity(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	entries, err := s.repo.ListRecent(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activity: %w", err)
	}
	return entries, nil
}

// GetUserActivity retrieves the latest entries attributed to one actor.
func (s *AuditQueryService) GetUserActivity(ctx context.Context, actorID string, limit int) ([]*domain.AuditEntry, error) {
	if actorID == "" {
		return nil, fmt.Errorf("actor id is required")
	}
	entries, err := s.repo.ListByUser(ctx, actorID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list user activity: %w", err)
	}
	return entries, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultAuditLimit
	}
	if limit > maxAuditLimit {
		return maxAuditLimit
	}
	return limit
}
