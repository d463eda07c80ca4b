package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, page request.Page) ([]*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
}

type pgxUserRepository struct {
	q db.Querier
}

// NewPgxRepository creates a new Repository implementation using pgx.
func NewPgxRepository(q db.Querier) Repository {
	return &pgxUserRepository{q: q}
}

var userColumns = []string{"id", "name", "email", "created_at"}

func (r *pgxUserRepository) Create(ctx context.Context, u *User) error {
	query, args, err := db.PSQL.Insert("public.users").
		Columns("name", "email").
		Values(u.Name, u.Email).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create user query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&u.ID, &u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *pgxUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query, args, err := db.PSQL.Select(userColumns...).
		From("public.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user query failed: %w", err)
	}

	var u User
	if err := r.q.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user failed: %w", err)
	}
	return &u, nil
}

func (r *pgxUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	sql, args, err := existsQuery(id).ToSql()
	if err != nil {
		return false, fmt.Errorf("build user exists query failed: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists failed: %w", err)
	}
	return exists, nil
}

func existsQuery(id string) squirrel.SelectBuilder {
	return db.PSQL.Select("1").From("public.users").Where(squirrel.Eq{"id": id})
}

func (r *pgxUserRepository) List(ctx context.Context, page request.Page) ([]*User, error) {
	query, args, err := db.PSQL.Select(userColumns...).
		From("public.users").
		OrderBy("created_at ASC").
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user failed: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users failed: %w", err)
	}
	return users, nil
}

func (r *pgxUserRepository) Update(ctx context.Context, u *User) error {
	query, args, err := db.PSQL.Update("public.users").
		Set("name", u.Name).
		Set("email", u.Email).
		Where(squirrel.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user query failed: %w", err)
	}

	ct, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("update user failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxUserRepository) Delete(ctx context.Context, id string) error {
	query, args, err := db.PSQL.Delete("public.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user query failed: %w", err)
	}

	ct, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete user failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation
}
