package usecase

import (
	"context"
	"fmt"

	"github.com/quimipool/quimipool/infrastructure/service/logger"
	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/ports"
)

// EntityService is the per-entity access facade. It composes the record
// store with the audit recorder so that every mutation attempt, successful
// or not, results in exactly one best-effort audit write. Callers only
// ever see the store outcome; the audit outcome is invisible.
type EntityService struct {
	def      domain.EntityDef
	store    ports.RecordStore
	recorder *AuditRecorder
	logger   logger.Logger
}

// NewEntityService builds a facade for a registered entity.
func NewEntityService(entity string, store ports.RecordStore, recorder *AuditRecorder, log logger.Logger) (*EntityService, error) {
	def, ok := domain.EntityByName(entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, entity)
	}
	return &EntityService{
		def:      def,
		store:    store,
		recorder: recorder,
		logger:   log,
	}, nil
}

// Entity returns the collection name this facade serves.
func (s *EntityService) Entity() string {
	return s.def.Table
}

// List retrieves records matching equality filters. Pure read, no audit.
func (s *EntityService) List(ctx context.Context, filters map[string]interface{}) ([]domain.Record, error) {
	return s.store.List(ctx, s.def.Table, filters)
}

// Get retrieves one record by id. Pure read, no audit.
func (s *EntityService) Get(ctx context.Context, id string) (domain.Record, error) {
	return s.store.GetByID(ctx, s.def.Table, id)
}

// Create inserts a record and records the attempt. On failure the original
// store error is returned unchanged after the failure entry is written.
func (s *EntityService) Create(ctx context.Context, data domain.Record) (domain.Record, error) {
	created, err := s.store.Create(ctx, s.def.Table, data)
	if err != nil {
		s.logFailure(ctx, domain.AuditActionCreate, "create", "", nil, err, data)
		return nil, err
	}

	s.recorder.LogCreate(ctx, s.def.Table, created.ID(), created)
	return created, nil
}

// Update fetches the pre-mutation snapshot best-effort, applies the patch
// and records the attempt. A failed snapshot read degrades the diff to
// "unknown" rather than blocking the update.
func (s *EntityService) Update(ctx context.Context, id string, patch domain.Record) (domain.Record, error) {
	oldValues := s.snapshot(ctx, id, "update")

	updated, err := s.store.Update(ctx, s.def.Table, id, patch)
	if err != nil {
		s.logFailure(ctx, domain.AuditActionUpdate, "update", id, oldValues, err, patch)
		return nil, err
	}

	s.recorder.LogUpdate(ctx, s.def.Table, id, oldValues, updated)
	return updated, nil
}

// Delete captures the pre-delete snapshot best-effort, removes the record
// and records the attempt.
func (s *EntityService) Delete(ctx context.Context, id string) error {
	oldValues := s.snapshot(ctx, id, "delete")

	if err := s.store.Delete(ctx, s.def.Table, id); err != nil {
		s.logFailure(ctx, domain.AuditActionDelete, "delete", id, oldValues, err, nil)
		return err
	}

	s.recorder.LogDelete(ctx, s.def.Table, id, oldValues)
	return nil
}

// CreateMany inserts a batch in one round-trip and records one entry per
// created record, or a single failure entry when the batch is rejected.
func (s *EntityService) CreateMany(ctx context.Context, rows []domain.Record) ([]domain.Record, error) {
	created, err := s.store.CreateMany(ctx, s.def.Table, rows)
	if err != nil {
		s.logFailure(ctx, domain.AuditActionCreate, "create_many", "", nil, err, domain.Record{"rows": rows})
		return nil, err
	}

	for _, rec := range created {
		s.recorder.LogCreate(ctx, s.def.Table, rec.ID(), rec)
	}
	return created, nil
}

// DeleteMany removes a batch by id and records one entry per id, or a
// single failure entry when the batch is rejected. Per-record snapshots
// are not fetched for bulk deletes.
func (s *EntityService) DeleteMany(ctx context.Context, ids []string) error {
	if err := s.store.DeleteMany(ctx, s.def.Table, ids); err != nil {
		s.logFailure(ctx, domain.AuditActionDelete, "delete_many", "", nil, err, domain.Record{"ids": ids})
		return err
	}

	for _, id := range ids {
		s.recorder.LogDelete(ctx, s.def.Table, id, nil)
	}
	return nil
}

func (s *EntityService) snapshot(ctx context.Context, id, operation string) domain.Record {
	oldValues, err := s.store.GetByID(ctx, s.def.Table, id)
	if err != nil {
		s.logger.Warn(ctx, "pre-mutation snapshot unavailable", map[string]interface{}{
			"entity":    s.def.Table,
			"record_id": id,
			"operation": operation,
			"error":     err.Error(),
		})
		return nil
	}
	return oldValues
}

func (s *EntityService) logFailure(ctx context.Context, action domain.AuditAction, operation, id string, oldValues domain.Record, cause error, attempted domain.Record) {
	metadata := map[string]interface{}{
		domain.MetaSuccess:   false,
		domain.MetaError:     cause.Error(),
		domain.MetaOperation: operation,
	}
	if attempted != nil {
		metadata[domain.MetaAttemptedData] = attempted
	}

	s.recorder.Log(ctx, LogInput{
		TableName: s.def.Table,
		RecordID:  id,
		Action:    action,
		OldValues: oldValues,
		Metadata:  metadata,
	})
}
