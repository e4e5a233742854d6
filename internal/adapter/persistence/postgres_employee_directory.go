package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/ports"
)

// PostgresEmployeeDirectory implements the employee lookup collaborator
// used by actor resolution and the login flow.
type PostgresEmployeeDirectory struct {
	db *sql.DB
}

// NewPostgresEmployeeDirectory creates the directory.
func NewPostgresEmployeeDirectory(db *sql.DB) ports.EmployeeDirectory {
	return &PostgresEmployeeDirectory{db: db}
}

// FindByEmail looks an employee up by email, case-insensitively.
func (d *PostgresEmployeeDirectory) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := `
		SELECT id, email, full_name, role, password_hash, active, created_at, updated_at
		FROM employees
		WHERE LOWER(email) = LOWER($1)
	`

	var employee domain.Employee
	err := d.db.QueryRowContext(ctx, query, strings.TrimSpace(email)).Scan(
		&employee.ID,
		&employee.Email,
		&employee.FullName,
		&employee.Role,
		&employee.PasswordHash,
		&employee.Active,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	return &employee, nil
}

// Create inserts an employee row. Used by the admin seeding command.
func (d *PostgresEmployeeDirectory) Create(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (email, full_name, role, password_hash, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := d.db.QueryRowContext(ctx, query,
		employee.Email,
		employee.FullName,
		employee.Role,
		employee.PasswordHash,
		employee.Active,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}
