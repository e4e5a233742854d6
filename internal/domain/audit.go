package domain

import "time"

// AuditAction represents the kind of mutation an audit entry describes.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionLogin  AuditAction = "LOGIN"
	AuditActionLogout AuditAction = "LOGOUT"
)

// Verb returns the Spanish verb used in generated descriptions.
func (a AuditAction) Verb() string {
	switch a {
	case AuditActionCreate:
		return "creó"
	case AuditActionUpdate:
		return "actualizó"
	case AuditActionDelete:
		return "eliminó"
	case AuditActionLogin:
		return "inició sesión"
	case AuditActionLogout:
		return "cerró sesión"
	default:
		return string(a)
	}
}

// AuditEntry is an immutable, append-only record of one attempted mutation.
//
// Invariants:
//   - Entries are never updated or deleted by this application.
//   - OldValues is nil for CREATE, NewValues is nil for DELETE.
//   - ChangedFields is empty whenever either snapshot is nil, and is sorted
//     lexicographically otherwise.
type AuditEntry struct {
	ID            string                 `json:"id"`
	TableName     string                 `json:"table_name"`
	RecordID      string                 `json:"record_id,omitempty"`
	Action        AuditAction            `json:"action"`
	UserID        *string                `json:"user_id"`
	UserEmail     string                 `json:"user_email,omitempty"`
	UserName      string                 `json:"user_name,omitempty"`
	OldValues     Record                 `json:"old_values,omitempty"`
	NewValues     Record                 `json:"new_values,omitempty"`
	ChangedFields []string               `json:"changed_fields"`
	UserAgent     string                 `json:"user_agent,omitempty"`
	SessionID     string                 `json:"session_id"`
	Module        string                 `json:"module,omitempty"`
	Description   string                 `json:"description"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Metadata keys written by the facade for every mutation attempt.
const (
	MetaSuccess       = "success"
	MetaError         = "error"
	MetaOperation     = "operation"
	MetaAttemptedData = "attempted_data"
	MetaClientTime    = "client_timestamp"
	MetaUserAgent     = "user_agent"
)

// AuditFilter narrows audit queries. Zero values mean "no constraint".
type AuditFilter struct {
	TableName string
	RecordID  string
	Action    AuditAction
	UserID    string
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}
