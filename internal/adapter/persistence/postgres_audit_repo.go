package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/ports"
)

// PostgresAuditRepository persists audit entries in the append-only
// audit_logs table. Insert is the only statement that writes; there is no
// update or delete path by design.
type PostgresAuditRepository struct {
	db *sql.DB
}

// NewPostgresAuditRepository creates the audit repository.
func NewPostgresAuditRepository(db *sql.DB) ports.AuditRepository {
	return &PostgresAuditRepository{db: db}
}

const auditColumns = `id, table_name, record_id, action, user_id, user_email, user_name,
	old_values, new_values, changed_fields, user_agent, session_id, module, description, metadata, created_at`

// Insert appends one entry and returns it with the server-assigned id and
// timestamp.
func (r *PostgresAuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error) {
	oldJSON, err := marshalNullable(entry.OldValues)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal old values: %w", err)
	}
	newJSON, err := marshalNullable(entry.NewValues)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal new values: %w", err)
	}
	metaJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	var recordID sql.NullString
	if entry.RecordID != "" {
		recordID = sql.NullString{String: entry.RecordID, Valid: true}
	}

	query := `
		INSERT INTO audit_logs (table_name, record_id, action, user_id, user_email, user_name,
			old_values, new_values, changed_fields, user_agent, session_id, module, description, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`

	persisted := *entry
	err = r.db.QueryRowContext(ctx, query,
		entry.TableName,
		recordID,
		string(entry.Action),
		entry.UserID,
		entry.UserEmail,
		entry.UserName,
		oldJSON,
		newJSON,
		pq.Array(entry.ChangedFields),
		entry.UserAgent,
		entry.SessionID,
		entry.Module,
		entry.Description,
		metaJSON,
	).Scan(&persisted.ID, &persisted.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return &persisted, nil
}

// List retrieves entries matching the filter, newest first.
func (r *PostgresAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error) {
	var clauses []string
	var args []interface{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.TableName != "" {
		add("table_name = $%d", filter.TableName)
	}
	if filter.RecordID != "" {
		add("record_id = $%d", filter.RecordID)
	}
	if filter.Action != "" {
		add("action = $%d", string(filter.Action))
	}
	if filter.UserID != "" {
		add("user_id = $%d", filter.UserID)
	}
	if !filter.From.IsZero() {
		add("created_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("created_at <= $%d", filter.To)
	}

	query := fmt.Sprintf("SELECT %s FROM audit_logs", auditColumns)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.query(ctx, query, args...)
}

// ListByRecord retrieves the history of a single record.
func (r *PostgresAuditRepository) ListByRecord(ctx context.Context, table, recordID string, limit int) ([]*domain.AuditEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM audit_logs
		WHERE table_name = $1 AND record_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, auditColumns)
	return r.query(ctx, query, table, recordID, limit)
}

// ListRecent retrieves the latest entries across all tables.
func (r *PostgresAuditRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM audit_logs ORDER BY created_at DESC LIMIT $1", auditColumns)
	return r.query(ctx, query, limit)
}

// ListByUser retrieves the latest entries attributed to one actor.
func (r *PostgresAuditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, auditColumns)
	return r.query(ctx, query, userID, limit)
}

func (r *PostgresAuditRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	entries := []*domain.AuditEntry{}
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanAuditEntry(rows *sql.Rows) (*domain.AuditEntry, error) {
	var entry domain.AuditEntry
	var recordID, userID, userEmail, userName, userAgent, module sql.NullString
	var oldJSON, newJSON, metaJSON []byte
	var changed pq.StringArray

	err := rows.Scan(
		&entry.ID,
		&entry.TableName,
		&recordID,
		&entry.Action,
		&userID,
		&userEmail,
		&userName,
		&oldJSON,
		&newJSON,
		&changed,
		&userAgent,
		&entry.SessionID,
		&module,
		&entry.Description,
		&metaJSON,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit entry: %w", err)
	}

	entry.RecordID = recordID.String
	if userID.Valid {
		id := userID.String
		entry.UserID = &id
	}
	entry.UserEmail = userEmail.String
	entry.UserName = userName.String
	entry.UserAgent = userAgent.String
	entry.Module = module.String
	entry.ChangedFields = []string(changed)
	if entry.ChangedFields == nil {
		entry.ChangedFields = []string{}
	}

	if len(oldJSON) > 0 {
		if err := json.Unmarshal(oldJSON, &entry.OldValues); err != nil {
			return nil, fmt.Errorf("failed to unmarshal old values: %w", err)
		}
	}
	if len(newJSON) > 0 {
		if err := json.Unmarshal(newJSON, &entry.NewValues); err != nil {
			return nil, fmt.Errorf("failed to unmarshal new values: %w", err)
		}
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &entry, nil
}

func marshalNullable(values domain.Record) ([]byte, error) {
	if values == nil {
		return nil, nil
	}
	return json.Marshal(values)
}
