package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/ports"
)

// PostgresRecordStore implements the generic RecordStore contract over a
// Postgres connection. Entity names are validated against the domain
// registry and column names against a strict identifier pattern before any
// SQL is assembled.
type PostgresRecordStore struct {
	db *sql.DB
}

// NewPostgresRecordStore creates the generic CRUD store.
func NewPostgresRecordStore(db *sql.DB) ports.RecordStore {
	return &PostgresRecordStore{db: db}
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// List retrieves records matching equality filters, newest first.
func (s *PostgresRecordStore) List(ctx context.Context, entity string, filters map[string]interface{}) ([]domain.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(pq.QuoteIdentifier(table))

	args := make([]interface{}, 0, len(filters))
	if len(filters) > 0 {
		keys := sortedKeys(filters)
		clauses := make([]string, 0, len(keys))
		for _, k := range keys {
			if err := validColumn(k); err != nil {
				return nil, err
			}
			args = append(args, driverValue(filters[k]))
			clauses = append(clauses, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(k), len(args)))
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, backendErr("list", entity, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, backendErr("list", entity, err)
	}
	return records, nil
}

// GetByID retrieves a single record.
func (s *PostgresRecordStore) GetByID(ctx context.Context, entity, id string) (domain.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", pq.QuoteIdentifier(table))
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, backendErr("get", entity, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, backendErr("get", entity, err)
	}
	if len(records) == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return records[0], nil
}

// Create inserts a record and returns the canonical row with
// server-generated id and timestamps.
func (s *PostgresRecordStore) Create(ctx context.Context, entity string, data domain.Record) (domain.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, err
	}

	query, args, err := buildInsert(table, []domain.Record{data})
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, backendErr("create", entity, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, backendErr("create", entity, err)
	}
	if len(records) == 0 {
		return nil, backendErr("create", entity, fmt.Errorf("insert returned no row"))
	}
	return records[0], nil
}

// Update applies a partial patch and returns the merged row.
func (s *PostgresRecordStore) Update(ctx context.Context, entity, id string, patch domain.Record) (domain.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, backendErr("update", entity, fmt.Errorf("empty patch"))
	}

	keys := sortedKeys(patch)
	args := make([]interface{}, 0, len(keys)+1)
	assignments := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		if err := validColumn(k); err != nil {
			return nil, err
		}
		args = append(args, driverValue(patch[k]))
		assignments = append(assignments, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(k), len(args)))
	}
	if _, ok := patch["updated_at"]; !ok {
		assignments = append(assignments, "updated_at = NOW()")
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d RETURNING *",
		pq.QuoteIdentifier(table), strings.Join(assignments, ", "), len(args),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, backendErr("update", entity, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, backendErr("update", entity, err)
	}
	if len(records) == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return records[0], nil
}

// Delete removes a record by id.
func (s *PostgresRecordStore) Delete(ctx context.Context, entity, id string) error {
	table, err := tableFor(entity)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", pq.QuoteIdentifier(table))
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return backendErr("delete", entity, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return backendErr("delete", entity, err)
	}
	if affected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// CreateMany inserts a batch of records in a single statement.
func (s *PostgresRecordStore) CreateMany(ctx context.Context, entity string, rowsIn []domain.Record) ([]domain.Record, error) {
	if len(rowsIn) == 0 {
		return []domain.Record{}, nil
	}
	table, err := tableFor(entity)
	if err != nil {
		return nil, err
	}

	query, args, err := buildInsert(table, rowsIn)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, backendErr("create_many", entity, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, backendErr("create_many", entity, err)
	}
	return records, nil
}

// DeleteMany removes a batch of records by id.
func (s *PostgresRecordStore) DeleteMany(ctx context.Context, entity string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	table, err := tableFor(entity)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ANY($1)", pq.QuoteIdentifier(table))
	if _, err := s.db.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return backendErr("delete_many", entity, err)
	}
	return nil
}

func tableFor(entity string) (string, error) {
	def, ok := domain.EntityByName(entity)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownEntity, entity)
	}
	return def.Table, nil
}

func validColumn(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid column name %q", name)
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildInsert assembles a multi-row INSERT over the union of the rows'
// columns, with NULL for fields a row does not carry.
func buildInsert(table string, rowsIn []domain.Record) (string, []interface{}, error) {
	colSet := map[string]struct{}{}
	for _, row := range rowsIn {
		for k := range row {
			colSet[k] = struct{}{}
		}
	}

	if len(colSet) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING *", pq.QuoteIdentifier(table)), nil, nil
	}

	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		if err := validColumn(k); err != nil {
			return "", nil, err
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pq.QuoteIdentifier(c)
	}

	args := make([]interface{}, 0, len(cols)*len(rowsIn))
	tuples := make([]string, 0, len(rowsIn))
	for _, row := range rowsIn {
		placeholders := make([]string, len(cols))
		for i, c := range cols {
			if v, ok := row[c]; ok {
				args = append(args, driverValue(v))
			} else {
				args = append(args, nil)
			}
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		tuples = append(tuples, "("+strings.Join(placeholders, ", ")+")")
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s RETURNING *",
		pq.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(tuples, ", "),
	)
	return query, args, nil
}

// driverValue converts structured values to JSON text so they can be bound
// to json/jsonb columns; scalars pass through.
func driverValue(v interface{}) interface{} {
	switch v.(type) {
	case nil, string, bool, int, int32, int64, float32, float64, time.Time, []byte:
		return v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return raw
	}
}

// scanRecords turns an arbitrary result set into field maps, decoding
// json/jsonb columns and converting raw bytes to strings.
func scanRecords(rows *sql.Rows) ([]domain.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	records := []domain.Record{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		record := make(domain.Record, len(cols))
		for i, col := range cols {
			record[col] = columnValue(values[i], types[i].DatabaseTypeName())
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func columnValue(v interface{}, dbType string) interface{} {
	raw, ok := v.([]byte)
	if !ok {
		return v
	}
	switch dbType {
	case "JSON", "JSONB":
		var decoded interface{}
		if err := json.Unmarshal(raw, &decoded); err == nil {
			return decoded
		}
		return string(raw)
	default:
		return string(raw)
	}
}

func backendErr(op, entity string, err error) error {
	return &domain.BackendError{Op: op, Entity: entity, Err: err}
}
