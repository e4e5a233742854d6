package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quimipool/quimipool/internal/adapter/http/response"
	"github.com/quimipool/quimipool/internal/domain"
)

// EntityOperations is the facade surface one entity exposes to the UI.
type EntityOperations interface {
	List(ctx context.Context, filters map[string]interface{}) ([]domain.Record, error)
	Get(ctx context.Context, id string) (domain.Record, error)
	Create(ctx context.Context, data domain.Record) (domain.Record, error)
	Update(ctx context.Context, id string, patch domain.Record) (domain.Record, error)
	Delete(ctx context.Context, id string) error
}

// EntityHandler routes generic CRUD requests to per-entity facades.
type EntityHandler struct {
	services map[string]EntityOperations
}

// NewEntityHandler creates the handler over the configured facades.
func NewEntityHandler(services map[string]EntityOperations) *EntityHandler {
	return &EntityHandler{services: services}
}

// RegisterRoutes registers the generic entity routes.
func (h *EntityHandler) RegisterRoutes(router *mux.Router, auth func(http.HandlerFunc) http.HandlerFunc) {
	router.HandleFunc("/api/v1/{entity}", auth(h.List)).Methods("GET")
	router.HandleFunc("/api/v1/{entity}", auth(h.Create)).Methods("POST")
	router.HandleFunc("/api/v1/{entity}/{id}", auth(h.Get)).Methods("GET")
	router.HandleFunc("/api/v1/{entity}/{id}", auth(h.Update)).Methods("PUT", "PATCH")
	router.HandleFunc("/api/v1/{entity}/{id}", auth(h.Delete)).Methods("DELETE")
}

// List handles filtered listing. Query parameters become equality filters.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	service, ok := h.service(w, r)
	if !ok {
		return
	}

	filters := map[string]interface{}{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 && values[0] != "" {
			filters[key] = values[0]
		}
	}

	records, err := service.List(r.Context(), filters)
	if err != nil {
		writeEntityError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "OK", records)
}

// Get handles single-record retrieval.
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	service, ok := h.service(w, r)
	if !ok {
		return
	}

	record, err := service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeEntityError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "OK", record)
}

// Create handles record creation.
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	service, ok := h.service(w, r)
	if !ok {
		return
	}

	var data domain.Record
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	record, err := service.Create(r.Context(), data)
	if err != nil {
		writeEntityError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Registro creado", record)
}

// Update handles partial updates.
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	service, ok := h.service(w, r)
	if !ok {
		return
	}

	var patch domain.Record
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	record, err := service.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeEntityError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Registro actualizado", record)
}

// Delete handles record removal.
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	service, ok := h.service(w, r)
	if !ok {
		return
	}

	if err := service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeEntityError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Registro eliminado", nil)
}

func (h *EntityHandler) service(w http.ResponseWriter, r *http.Request) (EntityOperations, bool) {
	entity := mux.Vars(r)["entity"]
	service, ok := h.services[entity]
	if !ok {
		response.NotFound(w, "Unknown entity: "+entity)
		return nil, false
	}
	return service, true
}

func writeEntityError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		response.NotFound(w, "Registro no encontrado")
	case errors.Is(err, domain.ErrUnknownEntity):
		response.NotFound(w, err.Error())
	default:
		// Remote store failures surface the backend message verbatim; the
		// UI decides retry and messaging.
		response.InternalServerError(w, err.Error())
	}
}
