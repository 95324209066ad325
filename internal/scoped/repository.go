// Package scoped provides a generic repository that injects the tenant into
// every statement it builds. Callers never write a WHERE clause without a
// tenant; cross-tenant reads are impossible by construction rather than by
// review. An empty tenant matches no rows, which is the degraded mode for
// requests whose origin resolved to no tenant.
package scoped

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leaguehq/leaguehq-auth/internal/database"
	"github.com/leaguehq/leaguehq-auth/internal/models"
)

// Querier is the subset of pgx satisfied by *pgxpool.Pool, pgx.Tx, and
// pgxmock. Repositories hold a Querier so the same code runs against the
// pool, inside a transaction, or under a mock.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Mapper binds a row type to its table. Scan always reads the full column
// set; Redact strips sensitive fields after scanning unless the caller opted
// in with WithSensitive.
type Mapper[T any] struct {
	Table         string
	Columns       []string
	InsertColumns []string // excluding tenant, which is injected
	Scan          func(row pgx.Row) (T, error)
	InsertArgs    func(row T) []any
	Redact        func(row T) T // nil when the table has nothing sensitive
	SoftDelete    bool          // table carries a deleted flag
}

// Condition is a single equality predicate.
type Condition struct {
	Column string
	Value  any
}

// Eq builds an equality condition.
func Eq(column string, value any) Condition {
	return Condition{Column: column, Value: value}
}

// Filter narrows a query. Conditions are ANDed, in order.
type Filter []Condition

// Patch is the set of columns an Update writes.
type Patch []Condition

// Sort orders a paginated listing.
type Sort struct {
	Column string
	Desc   bool
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type findSettings struct {
	sensitive      bool
	includeDeleted bool
	requiredMsg    string
}

// FindOption adjusts read behavior.
type FindOption func(*findSettings)

// WithSensitive lifts the default suppression of sensitive columns such as
// the password hash.
func WithSensitive() FindOption {
	return func(s *findSettings) { s.sensitive = true }
}

// IncludeDeleted lifts the soft-delete filter.
func IncludeDeleted() FindOption {
	return func(s *findSettings) { s.includeDeleted = true }
}

// Required replaces the generic not-found error with one carrying the
// caller's message. Use it when absence is a client-visible condition.
func Required(msg string) FindOption {
	return func(s *findSettings) { s.requiredMsg = msg }
}

// Repository executes tenant-scoped statements for one row type.
type Repository[T any] struct {
	q      Querier
	mapper Mapper[T]
}

// New builds a repository over q.
func New[T any](q Querier, mapper Mapper[T]) *Repository[T] {
	return &Repository[T]{q: q, mapper: mapper}
}

// WithQuerier returns a repository bound to a different Querier, typically a
// transaction obtained from database.WithTransaction.
func (r *Repository[T]) WithQuerier(q Querier) *Repository[T] {
	return &Repository[T]{q: q, mapper: r.mapper}
}

// FindOne returns the first row matching the filter within the tenant.
func (r *Repository[T]) FindOne(ctx context.Context, tenant string, filter Filter, opts ...FindOption) (T, error) {
	settings := applyOptions(opts)

	where, args := r.whereClause(tenant, filter, settings)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1",
		strings.Join(r.mapper.Columns, ", "), r.mapper.Table, where)

	row, err := r.mapper.Scan(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		var zero T
		return zero, r.mapError(err, settings)
	}
	return r.redact(row, settings), nil
}

// FindByID returns the row with the given id within the tenant.
func (r *Repository[T]) FindByID(ctx context.Context, tenant, id string, opts ...FindOption) (T, error) {
	return r.FindOne(ctx, tenant, Filter{Eq("id", id)}, opts...)
}

// Create inserts the row under the tenant and returns it as persisted.
func (r *Repository[T]) Create(ctx context.Context, tenant string, row T) (T, error) {
	columns := append([]string{"tenant"}, r.mapper.InsertColumns...)
	args := append([]any{tenant}, r.mapper.InsertArgs(row)...)

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.mapper.Table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(r.mapper.Columns, ", "))

	created, err := r.mapper.Scan(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		var zero T
		return zero, database.MapPostgresError(err)
	}
	return created, nil
}

// Update writes the patch to the row with the given id within the tenant and
// returns the updated row. A miss (wrong tenant, wrong id, soft-deleted) is a
// not-found error.
func (r *Repository[T]) Update(ctx context.Context, tenant, id string, patch Patch, opts ...FindOption) (T, error) {
	settings := applyOptions(opts)

	sets := make([]string, 0, len(patch)+1)
	args := make([]any, 0, len(patch)+2)
	for _, p := range patch {
		args = append(args, p.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", p.Column, len(args)))
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, tenant)
	where := fmt.Sprintf("tenant = $%d", len(args))
	args = append(args, id)
	where += fmt.Sprintf(" AND id = $%d", len(args))
	if r.mapper.SoftDelete && !settings.includeDeleted {
		where += " AND deleted = false"
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING %s",
		r.mapper.Table, strings.Join(sets, ", "), where,
		strings.Join(r.mapper.Columns, ", "))

	updated, err := r.mapper.Scan(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		var zero T
		return zero, r.mapError(err, settings)
	}
	return r.redact(updated, settings), nil
}

// Exists reports whether any row matches the filter within the tenant.
func (r *Repository[T]) Exists(ctx context.Context, tenant string, filter Filter) (bool, error) {
	settings := applyOptions(nil)

	where, args := r.whereClause(tenant, filter, settings)
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s)", r.mapper.Table, where)

	var exists bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

// Paginate returns one page of rows matching the filter within the tenant.
// Page numbers are 1-based; out-of-range values are clamped.
func (r *Repository[T]) Paginate(ctx context.Context, tenant string, filter Filter, page, limit int, sort Sort) (Page[T], error) {
	settings := applyOptions(nil)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	where, args := r.whereClause(tenant, filter, settings)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", r.mapper.Table, where)
	var total int64
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return Page[T]{}, database.MapPostgresError(err)
	}

	order := sort.Column
	if order == "" {
		order = "created_at"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	listArgs := append(args, limit, (page-1)*limit)
	listQuery := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		strings.Join(r.mapper.Columns, ", "), r.mapper.Table, where,
		order, direction, len(listArgs)-1, len(listArgs))

	rows, err := r.q.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return Page[T]{}, database.MapPostgresError(err)
	}
	defer rows.Close()

	items := make([]T, 0, limit)
	for rows.Next() {
		item, err := r.mapper.Scan(rows)
		if err != nil {
			return Page[T]{}, database.MapPostgresError(err)
		}
		items = append(items, r.redact(item, settings))
	}
	if err := rows.Err(); err != nil {
		return Page[T]{}, database.MapPostgresError(err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Page[T]{Items: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

func (r *Repository[T]) whereClause(tenant string, filter Filter, settings findSettings) (string, []any) {
	clauses := make([]string, 0, len(filter)+2)
	args := make([]any, 0, len(filter)+1)

	args = append(args, tenant)
	clauses = append(clauses, fmt.Sprintf("tenant = $%d", len(args)))

	for _, c := range filter {
		args = append(args, c.Value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", c.Column, len(args)))
	}

	if r.mapper.SoftDelete && !settings.includeDeleted {
		clauses = append(clauses, "deleted = false")
	}

	return strings.Join(clauses, " AND "), args
}

func (r *Repository[T]) redact(row T, settings findSettings) T {
	if settings.sensitive || r.mapper.Redact == nil {
		return row
	}
	return r.mapper.Redact(row)
}

func (r *Repository[T]) mapError(err error, settings findSettings) error {
	mapped := database.MapPostgresError(err)
	if settings.requiredMsg != "" && errors.Is(mapped, models.ErrNotFound) {
		return models.ErrNotFound.WithMessage(settings.requiredMsg)
	}
	return mapped
}

func applyOptions(opts []FindOption) findSettings {
	var s findSettings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
