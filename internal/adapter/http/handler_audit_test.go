package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/usecase"
)

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Insert(ctx context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditEntry), args.Error(1)
}

func (m *mockAuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditEntry), args.Error(1)
}

func (m *mockAuditRepo) ListByRecord(ctx context.Context, table, recordID string, limit int) ([]*domain.AuditEntry, error) {
	args := m.Called(ctx, table, recordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditEntry), args.Error(1)
}

func (m *mockAuditRepo) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditEntry), args.Error(1)
}

func (m *mockAuditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditEntry), args.Error(1)
}

func newAuditRouter(repo *mockAuditRepo) *mux.Router {
	router := mux.NewRouter()
	NewAuditHandler(usecase.NewAuditQueryService(repo)).RegisterRoutes(router, noAuth)
	return router
}

func sampleEntries() []*domain.AuditEntry {
	return []*domain.AuditEntry{{
		ID:        "a-1",
		TableName: "orders",
		RecordID:  "7",
		Action:    domain.AuditActionUpdate,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
}

func TestAuditHandler_ListParsesFilter(t *testing.T) {
	repo := new(mockAuditRepo)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.On("List", mock.Anything, domain.AuditFilter{
		TableName: "orders",
		Action:    domain.AuditActionUpdate,
		Limit:     25,
		From:      from,
	}).Return(sampleEntries(), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/audit-logs?table=orders&action=UPDATE&limit=25&from=2026-01-01T00:00:00Z", nil)
	newAuditRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestAuditHandler_ListDefaultsLimit(t *testing.T) {
	repo := new(mockAuditRepo)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f domain.AuditFilter) bool {
		return f.Limit == 50
	})).Return(sampleEntries(), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs", nil)
	newAuditRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestAuditHandler_Recent(t *testing.T) {
	repo := new(mockAuditRepo)
	repo.On("ListRecent", mock.Anything, 10).Return(sampleEntries(), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs/recent?limit=10", nil)
	newAuditRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.True(t, envelope.Status)
}

func TestAuditHandler_ByRecord(t *testing.T) {
	repo := new(mockAuditRepo)
	repo.On("ListByRecord", mock.Anything, "orders", "7", 500).Return(sampleEntries(), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs/record/orders/7", nil)
	newAuditRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestAuditHandler_ByUser(t *testing.T) {
	repo := new(mockAuditRepo)
	repo.On("ListByUser", mock.Anything, "emp-1", 50).Return(sampleEntries(), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs/user/emp-1", nil)
	newAuditRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestAuditHandler_ListRepoError(t *testing.T) {
	repo := new(mockAuditRepo)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs", nil)
	newAuditRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
