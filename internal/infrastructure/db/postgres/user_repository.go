package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
)

// uniqueViolation is the SQLSTATE raised for duplicate keys.
const uniqueViolation = "23505"

const userColumns = `id, email, password_hash, first_name, last_name, role, created_at, updated_at`

var userSortColumns = map[string]string{
	"email":     "email",
	"firstName": "first_name",
	"lastName":  "last_name",
	"role":      "role",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// UserRepository implements ports.UserRepository on PostgreSQL.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID treats an id that is not a UUID as absent.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email)
}

// List returns one page of users and the total number matching the filter.
func (r *UserRepository) List(ctx context.Context, f ports.UserListFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where, args := userWhere(f)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	n := len(args)
	query := `SELECT ` + userColumns + ` FROM users` + where +
		` ORDER BY ` + userOrderBy(f.Sort) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, f.Page.Limit, f.Page.Skip())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, f.Page.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	if !validID(u.ID) {
		return domain.ErrUserNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		UPDATE users
		SET email = $2, password_hash = $3, first_name = $4, last_name = $5, role = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectOneRow(res, domain.ErrUserNotFound)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrUserNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectOneRow(res, domain.ErrUserNotFound)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// userWhere builds the WHERE clause and its positional arguments.
func userWhere(f ports.UserListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Role != "" {
		args = append(args, f.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)", n, n, n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// userOrderBy maps "field" / "-field" to a whitelisted ORDER BY clause.
func userOrderBy(sort string) string {
	dir := "ASC"
	field := strings.TrimSpace(sort)
	if strings.HasPrefix(field, "-") {
		dir = "DESC"
		field = field[1:]
	}
	if col, ok := userSortColumns[field]; ok {
		return col + " " + dir + ", id " + dir
	}
	return "created_at DESC, id DESC"
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
