package ports

import (
	"context"

	"github.com/quimipool/quimipool/internal/domain"
)

// RecordStore is the generic CRUD facade over the remote store. Every
// operation performs exactly one round-trip and returns the canonical
// post-operation record on success. Failures are wrapped in
// *domain.BackendError, except a missing row which is
// domain.ErrRecordNotFound.
type RecordStore interface {
	// List retrieves records matching equality filters, newest first.
	List(ctx context.Context, entity string, filters map[string]interface{}) ([]domain.Record, error)

	// GetByID retrieves a single record by its identifier.
	GetByID(ctx context.Context, entity, id string) (domain.Record, error)

	// Create inserts a new record and returns it with server-generated
	// fields (id, timestamps) populated.
	Create(ctx context.Context, entity string, data domain.Record) (domain.Record, error)

	// Update applies a partial patch and returns the merged record.
	Update(ctx context.Context, entity, id string, patch domain.Record) (domain.Record, error)

	// Delete removes a record by id.
	Delete(ctx context.Context, entity, id string) error

	// CreateMany inserts a batch of records in one round-trip.
	CreateMany(ctx context.Context, entity string, rows []domain.Record) ([]domain.Record, error)

	// DeleteMany removes a batch of records by id in one round-trip.
	DeleteMany(ctx context.Context, entity string, ids []string) error
}

// AuditRepository persists and queries the append-only audit collection.
// Insert is the only write path; nothing ever updates or deletes entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error)

	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error)
	ListByRecord(ctx context.Context, table, recordID string, limit int) ([]*domain.AuditEntry, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditEntry, error)
}
