package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/quimipool/quimipool/internal/adapter/http/response"
	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/usecase"
)

// AuditHandler exposes the read side of the audit trail.
type AuditHandler struct {
	queries *usecase.AuditQueryService
}

// NewAuditHandler creates the handler.
func NewAuditHandler(queries *usecase.AuditQueryService) *AuditHandler {
	return &AuditHandler{queries: queries}
}

// RegisterRoutes registers the audit query routes. They must come before
// the generic entity routes so "audit-logs" is not treated as an entity.
func (h *AuditHandler) RegisterRoutes(router *mux.Router, auth func(http.HandlerFunc) http.HandlerFunc) {
	router.HandleFunc("/api/v1/audit-logs", auth(h.List)).Methods("GET")
	router.HandleFunc("/api/v1/audit-logs/recent", auth(h.Recent)).Methods("GET")
	router.HandleFunc("/api/v1/audit-logs/record/{table}/{id}", auth(h.ByRecord)).Methods("GET")
	router.HandleFunc("/api/v1/audit-logs/user/{actorId}", auth(h.ByUser)).Methods("GET")
}

// List handles filtered audit queries.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AuditFilter{
		TableName: q.Get("table"),
		RecordID:  q.Get("record_id"),
		Action:    domain.AuditAction(q.Get("action")),
		UserID:    q.Get("user_id"),
		Limit:     intParam(q.Get("limit")),
		Offset:    intParam(q.Get("offset")),
	}
	if from := q.Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = t
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = t
		}
	}

	entries, err := h.queries.GetAuditLogs(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, err.Error())
		return
	}
	response.Success(w, http.StatusOK, "OK", entries)
}

// Recent handles the latest-activity feed.
func (h *AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	entries, err := h.queries.GetRecentActivity(r.Context(), intParam(r.URL.Query().Get("limit")))
	if err != nil {
		response.InternalServerError(w, err.Error())
		return
	}
	response.Success(w, http.StatusOK, "OK", entries)
}

// ByRecord handles the history of one record.
func (h *AuditHandler) ByRecord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entries, err := h.queries.GetRecordAuditLogs(r.Context(), vars["table"], vars["id"])
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.Success(w, http.StatusOK, "OK", entries)
}

// ByUser handles one actor's activity.
func (h *AuditHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	entries, err := h.queries.GetUserActivity(r.Context(), mux.Vars(r)["actorId"], intParam(r.URL.Query().Get("limit")))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.Success(w, http.StatusOK, "OK", entries)
}

func intParam(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
