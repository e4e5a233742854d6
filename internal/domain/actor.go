package domain

import "time"

// Principal is the identity exposed by the auth collaborator: whatever the
// token layer knows about the caller, before the employee directory has
// been consulted.
type Principal struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
}

// Actor is the resolved identity attributed to audit entries. A nil ID
// signals an authenticated principal without a matching directory record,
// or an anonymous caller.
type Actor struct {
	ID          *string `json:"id"`
	Email       string  `json:"email,omitempty"`
	DisplayName string  `json:"display_name"`
}

// AnonymousActor builds the fallback shape used when the auth collaborator
// is unavailable or the directory lookup fails.
func AnonymousActor(email, externalID string) Actor {
	name := email
	if name == "" {
		name = externalID
	}
	if name == "" {
		name = "anónimo"
	}
	return Actor{ID: nil, Email: email, DisplayName: name}
}

// Employee is a row in the employee directory.
type Employee struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor converts an employee into the identity attached to audit entries.
func (e *Employee) Actor() Actor {
	id := e.ID
	return Actor{ID: &id, Email: e.Email, DisplayName: e.FullName}
}
