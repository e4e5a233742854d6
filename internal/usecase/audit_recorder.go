package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quimipool/quimipool/infrastructure/service/logger"
	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/ports"
)

// LogInput describes one attempted mutation to be recorded.
type LogInput struct {
	TableName   string
	RecordID    string
	Action      domain.AuditAction
	OldValues   domain.Record
	NewValues   domain.Record
	Module      string
	Description string
	Metadata    map[string]interface{}

	// Actor overrides the lazily resolved actor. Used by the login flow,
	// where the employee is known before any token exists.
	Actor *domain.Actor
}

// AuditRecorder assembles and persists audit entries. Its contract is
// fail-soft: Log never returns an error and never panics, so the audit
// trail can never break a business operation. The committed flag reports
// whether the entry actually reached the store.
type AuditRecorder struct {
	repo     ports.AuditRepository
	resolver *ActorResolver
	session  *SessionContext
	logger   logger.Logger
}

// NewAuditRecorder wires a recorder with its identity collaborators.
func NewAuditRecorder(repo ports.AuditRepository, resolver *ActorResolver, session *SessionContext, log logger.Logger) *AuditRecorder {
	return &AuditRecorder{
		repo:     repo,
		resolver: resolver,
		session:  session,
		logger:   log,
	}
}

// Session exposes the session context the recorder stamps on entries.
func (r *AuditRecorder) Session() *SessionContext {
	return r.session
}

// Log records one mutation attempt. A persistence failure is logged and
// swallowed; the assembled entry is still returned with committed=false so
// a future backfill mechanism could observe the gap.
func (r *AuditRecorder) Log(ctx context.Context, in LogInput) (*domain.AuditEntry, bool) {
	actor := r.actorFor(ctx, in)
	changed := ChangedFields(in.OldValues, in.NewValues)

	description := in.Description
	if description == "" {
		description = buildDescription(in.Action, in.TableName, changed)
	}

	module := in.Module
	if module == "" {
		if def, ok := domain.EntityByName(in.TableName); ok {
			module = def.Module
		} else {
			module = in.TableName
		}
	}

	entry := &domain.AuditEntry{
		TableName:     in.TableName,
		RecordID:      in.RecordID,
		Action:        in.Action,
		UserID:        actor.ID,
		UserEmail:     actor.Email,
		UserName:      actor.DisplayName,
		OldValues:     in.OldValues,
		NewValues:     in.NewValues,
		ChangedFields: changed,
		UserAgent:     domain.UserAgentFrom(ctx),
		SessionID:     r.session.ID(),
		Module:        module,
		Description:   description,
		Metadata:      r.buildMetadata(ctx, in.Metadata),
		CreatedAt:     time.Now().UTC(),
	}

	persisted, err := r.repo.Insert(ctx, entry)
	if err != nil {
		r.logger.Error(ctx, "audit write failed", err, map[string]interface{}{
			"table":  in.TableName,
			"action": string(in.Action),
			"record": in.RecordID,
		})
		return entry, false
	}

	return persisted, true
}

// LogCreate records a successful creation. Old snapshot is nil.
func (r *AuditRecorder) LogCreate(ctx context.Context, table, recordID string, newValues domain.Record) (*domain.AuditEntry, bool) {
	return r.Log(ctx, LogInput{
		TableName: table,
		RecordID:  recordID,
		Action:    domain.AuditActionCreate,
		NewValues: newValues,
		Metadata:  successMetadata("create"),
	})
}

// LogUpdate records a successful update with both snapshots.
func (r *AuditRecorder) LogUpdate(ctx context.Context, table, recordID string, oldValues, newValues domain.Record) (*domain.AuditEntry, bool) {
	return r.Log(ctx, LogInput{
		TableName: table,
		RecordID:  recordID,
		Action:    domain.AuditActionUpdate,
		OldValues: oldValues,
		NewValues: newValues,
		Metadata:  successMetadata("update"),
	})
}

// LogDelete records a successful deletion. New snapshot is nil.
func (r *AuditRecorder) LogDelete(ctx context.Context, table, recordID string, oldValues domain.Record) (*domain.AuditEntry, bool) {
	return r.Log(ctx, LogInput{
		TableName: table,
		RecordID:  recordID,
		Action:    domain.AuditActionDelete,
		OldValues: oldValues,
		Metadata:  successMetadata("delete"),
	})
}

func (r *AuditRecorder) actorFor(ctx context.Context, in LogInput) domain.Actor {
	if in.Actor != nil {
		return *in.Actor
	}
	return r.resolver.Resolve(ctx)
}

func (r *AuditRecorder) buildMetadata(ctx context.Context, extra map[string]interface{}) map[string]interface{} {
	meta := map[string]interface{}{
		domain.MetaClientTime: time.Now().UTC().Format(time.RFC3339),
	}
	if ua := domain.UserAgentFrom(ctx); ua != "" {
		meta[domain.MetaUserAgent] = ua
	}
	for k, v := range extra {
		meta[k] = v
	}
	return meta
}

func successMetadata(operation string) map[string]interface{} {
	return map[string]interface{}{
		domain.MetaSuccess:   true,
		domain.MetaOperation: operation,
	}
}

// buildDescription synthesizes the localized summary when the caller did
// not supply one, e.g. "actualizó pedido (campos: status)".
func buildDescription(action domain.AuditAction, table string, changed []string) string {
	verb := action.Verb()

	switch action {
	case domain.AuditActionLogin, domain.AuditActionLogout:
		return verb
	}

	noun := domain.NounFor(table)
	if action == domain.AuditActionUpdate && len(changed) > 0 {
		return fmt.Sprintf("%s %s (campos: %s)", verb, noun, strings.Join(changed, ", "))
	}
	return fmt.Sprintf("%s %s", verb, noun)
}
