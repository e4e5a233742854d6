package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quimipool/quimipool/infrastructure/service/logger"
	"github.com/quimipool/quimipool/internal/domain"
)

func newTestRecorder(repo *MockAuditRepository) *AuditRecorder {
	auth := new(MockAuthProvider)
	directory := new(MockEmployeeDirectory)

	auth.On("CurrentPrincipal", mock.Anything).Return(&domain.Principal{ExternalID: "ext-1", Email: "ana@quimipool.mx"}, nil)
	directory.On("FindByEmail", mock.Anything, "ana@quimipool.mx").Return(&domain.Employee{
		ID:       "emp-1",
		Email:    "ana@quimipool.mx",
		FullName: "Ana Torres",
	}, nil)

	resolver := NewActorResolver(auth, directory, logger.NewNop())
	return NewAuditRecorder(repo, resolver, NewSessionContext(), logger.NewNop())
}

func passthroughInsert(repo *MockAuditRepository) {
	repo.On("Insert", mock.Anything, mock.Anything).Return(
		func(ctx context.Context, entry *domain.AuditEntry) *domain.AuditEntry { return entry },
		nil,
	)
}

func TestAuditRecorder_LogUpdateBuildsEntry(t *testing.T) {
	repo := new(MockAuditRepository)
	passthroughInsert(repo)
	recorder := newTestRecorder(repo)

	ctx := domain.WithUserAgent(context.Background(), "Mozilla/5.0")
	entry, committed := recorder.LogUpdate(ctx, "orders", "7",
		domain.Record{"status": "pending", "total": 120},
		domain.Record{"status": "shipped", "total": 120},
	)

	require.True(t, committed)
	require.NotNil(t, entry)

	assert.Equal(t, "orders", entry.TableName)
	assert.Equal(t, "7", entry.RecordID)
	assert.Equal(t, domain.AuditActionUpdate, entry.Action)
	assert.Equal(t, []string{"status"}, entry.ChangedFields)
	assert.Equal(t, "actualizó pedido (campos: status)", entry.Description)
	assert.Equal(t, "ventas", entry.Module)
	assert.Equal(t, "Mozilla/5.0", entry.UserAgent)
	assert.Equal(t, recorder.Session().ID(), entry.SessionID)

	require.NotNil(t, entry.UserID)
	assert.Equal(t, "emp-1", *entry.UserID)
	assert.Equal(t, "Ana Torres", entry.UserName)

	assert.Equal(t, true, entry.Metadata[domain.MetaSuccess])
	assert.Equal(t, "update", entry.Metadata[domain.MetaOperation])
	assert.Contains(t, entry.Metadata, domain.MetaClientTime)
	assert.Equal(t, "Mozilla/5.0", entry.Metadata[domain.MetaUserAgent])

	repo.AssertNumberOfCalls(t, "Insert", 1)
}

func TestAuditRecorder_LogCreateHasNoDiff(t *testing.T) {
	repo := new(MockAuditRepository)
	passthroughInsert(repo)
	recorder := newTestRecorder(repo)

	entry, committed := recorder.LogCreate(context.Background(), "clients", "42", domain.Record{"name": "Acme"})

	require.True(t, committed)
	assert.Nil(t, entry.OldValues)
	assert.Equal(t, domain.Record{"name": "Acme"}, entry.NewValues)
	assert.Equal(t, []string{}, entry.ChangedFields)
	assert.Equal(t, "creó cliente", entry.Description)
}

func TestAuditRecorder_LogDeleteKeepsOldSnapshot(t *testing.T) {
	repo := new(MockAuditRepository)
	passthroughInsert(repo)
	recorder := newTestRecorder(repo)

	entry, committed := recorder.LogDelete(context.Background(), "clients", "42", domain.Record{"name": "Acme"})

	require.True(t, committed)
	assert.Equal(t, domain.Record{"name": "Acme"}, entry.OldValues)
	assert.Nil(t, entry.NewValues)
	assert.Equal(t, []string{}, entry.ChangedFields)
	assert.Equal(t, "eliminó cliente", entry.Description)
}

func TestAuditRecorder_SuppliedDescriptionWins(t *testing.T) {
	repo := new(MockAuditRepository)
	passthroughInsert(repo)
	recorder := newTestRecorder(repo)

	entry, _ := recorder.Log(context.Background(), LogInput{
		TableName:   "orders",
		RecordID:    "7",
		Action:      domain.AuditActionUpdate,
		Description: "ajuste manual de inventario",
	})

	assert.Equal(t, "ajuste manual de inventario", entry.Description)
}

func TestAuditRecorder_PersistFailureIsSwallowed(t *testing.T) {
	repo := new(MockAuditRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil, errors.New("conn refused"))
	recorder := newTestRecorder(repo)

	var entry *domain.AuditEntry
	var committed bool
	assert.NotPanics(t, func() {
		entry, committed = recorder.LogCreate(context.Background(), "clients", "1", domain.Record{"name": "Acme"})
	})

	assert.False(t, committed)
	require.NotNil(t, entry)
	assert.Equal(t, "clients", entry.TableName)
}

func TestAuditRecorder_SessionIDConstantAcrossCalls(t *testing.T) {
	repo := new(MockAuditRepository)
	passthroughInsert(repo)
	recorder := newTestRecorder(repo)

	first, _ := recorder.LogCreate(context.Background(), "clients", "1", domain.Record{"name": "A"})
	second, _ := recorder.LogDelete(context.Background(), "clients", "1", domain.Record{"name": "A"})

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.NotEmpty(t, first.SessionID)
}

func TestAuditRecorder_ActorResolutionFailureStillLogs(t *testing.T) {
	repo := new(MockAuditRepository)
	passthroughInsert(repo)

	auth := new(MockAuthProvider)
	auth.On("CurrentPrincipal", mock.Anything).Return(nil, errors.New("auth down"))
	resolver := NewActorResolver(auth, new(MockEmployeeDirectory), logger.NewNop())
	recorder := NewAuditRecorder(repo, resolver, NewSessionContext(), logger.NewNop())

	entry, committed := recorder.LogCreate(context.Background(), "clients", "1", domain.Record{"name": "Acme"})

	assert.True(t, committed)
	assert.Nil(t, entry.UserID)
}

func TestAuditRecorder_ActorOverride(t *testing.T) {
	repo := new(MockAuditRepository)
	passthroughInsert(repo)
	recorder := newTestRecorder(repo)

	id := "emp-9"
	entry, _ := recorder.Log(context.Background(), LogInput{
		TableName: "employees",
		RecordID:  "emp-9",
		Action:    domain.AuditActionLogin,
		Actor:     &domain.Actor{ID: &id, Email: "luis@quimipool.mx", DisplayName: "Luis Vega"},
	})

	require.NotNil(t, entry.UserID)
	assert.Equal(t, "emp-9", *entry.UserID)
	assert.Equal(t, "inició sesión", entry.Description)
	assert.Equal(t, "empleados", entry.Module)
}

func TestAuditRecorder_UnknownTableFallsBackToTableName(t *testing.T) {
	repo := new(MockAuditRepository)
	passthroughInsert(repo)
	recorder := newTestRecorder(repo)

	entry, _ := recorder.Log(context.Background(), LogInput{
		TableName: "warehouses",
		RecordID:  "1",
		Action:    domain.AuditActionCreate,
	})

	assert.Equal(t, "creó warehouses", entry.Description)
	assert.Equal(t, "warehouses", entry.Module)
}
